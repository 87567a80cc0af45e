package e2e

import (
	"bytes"
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tutorhub/internal/database"
	"tutorhub/internal/middleware"
	"tutorhub/internal/modules/auth"
	"tutorhub/internal/modules/booking"
	"tutorhub/internal/modules/payment"
	"tutorhub/internal/modules/schedule"
	"tutorhub/internal/modules/tutor"
	jwtsvc "tutorhub/internal/pkg/jwt"
	"tutorhub/internal/repository"
)

const testServerKey = "SB-Mid-server-e2e"

type E2ETestSuite struct {
	router     *gin.Engine
	db         *gorm.DB
	jwtService *jwtsvc.Service
}

type TestResponse struct {
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// fakeGateway stands in for the hosted checkout provider: every transaction
// succeeds with a predictable token.
type fakeGateway struct{}

func (fakeGateway) CreateTransaction(_ context.Context, req payment.SnapRequest) (*payment.SnapTransaction, error) {
	return &payment.SnapTransaction{
		Token:       "tok-" + req.TransactionDetails.OrderID,
		RedirectURL: "https://pay.example/" + req.TransactionDetails.OrderID,
	}, nil
}

type fakeVerifier struct{}

func (fakeVerifier) Verify(_ context.Context, idToken string) (*auth.GoogleClaims, error) {
	if idToken != "good-google-token" {
		return nil, fmt.Errorf("invalid token")
	}
	return &auth.GoogleClaims{Subject: "google-sub-1", Email: "gina@gmail.com", FullName: "Gina"}, nil
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, database.Migrate(db), "Failed to migrate test database")

	userRepo := repository.NewUserRepository(db)
	tutorRepo := repository.NewTutorRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	sessionRepo := repository.NewPaymentSessionRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)

	authHandler := auth.NewHandler(auth.NewService(userRepo, jwtService, fakeVerifier{}))
	tutorHandler := tutor.NewHandler(tutor.NewService(tutorRepo))
	scheduleHandler := schedule.NewHandler(schedule.NewService(scheduleRepo, tutorRepo))
	bookingHandler := booking.NewHandler(booking.NewService(bookingRepo, scheduleRepo, tutorRepo))

	paymentService := payment.NewService(sessionRepo, bookingRepo, bookingRepo, fakeGateway{}, testServerKey, "BOOKING", nil)
	paymentHandler := payment.NewHandler(paymentService, nil)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")

	authHandler.RegisterRoutes(api)
	tutorHandler.RegisterPublicRoutes(api)
	paymentHandler.RegisterPublicRoutes(api)

	protected := api.Group("/")
	protected.Use(middleware.JWTAuth(jwtService))
	{
		tutorHandler.RegisterProtectedRoutes(protected)
		scheduleHandler.RegisterRoutes(protected)
		bookingHandler.RegisterRoutes(protected)
		paymentHandler.RegisterProtectedRoutes(protected)
	}

	return &E2ETestSuite{router: r, db: db, jwtService: jwtService}
}

func (s *E2ETestSuite) makeRequest(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "Failed to parse response: %s", w.Body.String())
	return &resp
}

func (s *E2ETestSuite) register(t *testing.T, fullName, email, role string) {
	w := s.makeRequest("POST", "/api/register", map[string]interface{}{
		"fullName": fullName,
		"email":    email,
		"password": "secret123",
		"role":     role,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, "register %s: %s", email, w.Body.String())
}

func (s *E2ETestSuite) login(t *testing.T, email string) string {
	w := s.makeRequest("POST", "/api/login", map[string]interface{}{
		"email":    email,
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, "login %s: %s", email, w.Body.String())

	var out struct {
		Message string `json:"message"`
		Data    struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotEmpty(t, out.Data.AccessToken)
	return out.Data.AccessToken
}

func webhookSignature(orderID, statusCode, grossAmount string) string {
	h := sha512.Sum512([]byte(orderID + statusCode + grossAmount + testServerKey))
	return hex.EncodeToString(h[:])
}

func TestFlow_RegistrationAndAuth(t *testing.T) {
	suite := setupTestSuite(t)

	t.Run("POST /register", func(t *testing.T) {
		suite.register(t, "Rina", "rina@student.id", "Student")
	})

	t.Run("POST /register duplicate email", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/register", map[string]interface{}{
			"fullName": "Rina Again",
			"email":    "rina@student.id",
			"password": "secret123",
			"role":     "Student",
		}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Email must be unique")
	})

	t.Run("POST /register invalid role", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/register", map[string]interface{}{
			"fullName": "Eve",
			"email":    "eve@test.id",
			"password": "secret123",
			"role":     "Admin",
		}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("POST /login", func(t *testing.T) {
		token := suite.login(t, "rina@student.id")
		assert.NotEmpty(t, token)
	})

	t.Run("POST /login wrong password", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/login", map[string]interface{}{
			"email":    "rina@student.id",
			"password": "not-the-password",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("POST /google-login creates student", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/google-login", map[string]interface{}{
			"id_token": "good-google-token",
		}, "")
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "access_token")
	})
}

func TestFlow_TutorProfileAndSchedules(t *testing.T) {
	suite := setupTestSuite(t)

	suite.register(t, "Budi Santoso", "budi@tutorhub.id", "Tutor")
	suite.register(t, "Rina", "rina@student.id", "Student")
	tutorToken := suite.login(t, "budi@tutorhub.id")
	studentToken := suite.login(t, "rina@student.id")

	t.Run("POST /tutors as student is forbidden", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/tutors", map[string]interface{}{
			"subjects": "Math",
			"style":    "Patient",
			"photoUrl": "https://example.com/pic.jpg",
		}, studentToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("POST /tutors", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/tutors", map[string]interface{}{
			"subjects": "Mathematics, Physics",
			"style":    "Structured and patient",
			"photoUrl": "https://example.com/budi.jpg",
		}, tutorToken)
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("POST /tutors twice", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/tutors", map[string]interface{}{
			"subjects": "Mathematics",
			"style":    "Patient",
			"photoUrl": "https://example.com/budi.jpg",
		}, tutorToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Tutor profile already exists")
	})

	t.Run("GET /pub/tutors", func(t *testing.T) {
		w := suite.makeRequest("GET", "/api/pub/tutors", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Budi Santoso")
	})

	t.Run("GET /pub/tutors/:id missing", func(t *testing.T) {
		w := suite.makeRequest("GET", "/api/pub/tutors/999", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Tutor not found")
	})

	futureDate := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")

	t.Run("POST /schedules", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/schedules", map[string]interface{}{
			"date": futureDate,
			"time": "10:00-12:00",
			"fee":  100000,
		}, tutorToken)
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("POST /schedules as student is blocked at the route", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/schedules", map[string]interface{}{
			"date": futureDate,
			"time": "10:00-12:00",
			"fee":  100000,
		}, studentToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Access denied")
	})

	t.Run("POST /schedules past date", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/schedules", map[string]interface{}{
			"date": "2020-01-01",
			"time": "10:00-12:00",
			"fee":  100000,
		}, tutorToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Date cannot be in the past")
	})

	t.Run("GET /schedules as student shows catalog", func(t *testing.T) {
		w := suite.makeRequest("GET", "/api/schedules", nil, studentToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "10:00-12:00")
	})

	t.Run("GET /schedules as student hides expired slots", func(t *testing.T) {
		// the API refuses past dates, so age a slot directly
		pastDate := time.Now().UTC().AddDate(0, 0, -30)
		err := suite.db.Exec(
			"INSERT INTO schedules (tutor_id, date, time, fee, created_at, updated_at) SELECT id, ?, ?, 90000, ?, ? FROM tutors LIMIT 1",
			pastDate, "08:00-09:00", pastDate, pastDate,
		).Error
		require.NoError(t, err)

		w := suite.makeRequest("GET", "/api/schedules", nil, studentToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "10:00-12:00")
		assert.NotContains(t, w.Body.String(), "08:00-09:00")

		// the owning tutor still sees it
		w = suite.makeRequest("GET", "/api/schedules", nil, tutorToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "08:00-09:00")
	})
}

func TestFlow_BookingLifecycle(t *testing.T) {
	suite := setupTestSuite(t)

	suite.register(t, "Budi Santoso", "budi@tutorhub.id", "Tutor")
	suite.register(t, "Rina", "rina@student.id", "Student")
	suite.register(t, "Joko", "joko@student.id", "Student")
	tutorToken := suite.login(t, "budi@tutorhub.id")
	studentToken := suite.login(t, "rina@student.id")
	otherStudentToken := suite.login(t, "joko@student.id")

	w := suite.makeRequest("POST", "/api/tutors", map[string]interface{}{
		"subjects": "Mathematics",
		"style":    "Patient",
		"photoUrl": "https://example.com/budi.jpg",
	}, tutorToken)
	require.Equal(t, http.StatusCreated, w.Code)

	futureDate := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
	w = suite.makeRequest("POST", "/api/schedules", map[string]interface{}{
		"date": futureDate,
		"time": "10:00-12:00",
		"fee":  100000,
	}, tutorToken)
	require.Equal(t, http.StatusCreated, w.Code)
	resp := parseResponse(t, w)
	scheduleID := int64(resp.Data["id"].(float64))

	var bookingID int64
	t.Run("POST /bookings", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/bookings", map[string]interface{}{
			"ScheduleId": scheduleID,
		}, studentToken)
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		resp := parseResponse(t, w)
		bookingID = int64(resp.Data["id"].(float64))
		assert.Equal(t, "Pending", resp.Data["bookingStatus"])
		assert.Equal(t, "Pending", resp.Data["paymentStatus"])
	})

	t.Run("POST /bookings duplicate", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/bookings", map[string]interface{}{
			"ScheduleId": scheduleID,
		}, studentToken)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "already have a booking")
	})

	t.Run("POST /bookings as tutor is forbidden", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/bookings", map[string]interface{}{
			"ScheduleId": scheduleID,
		}, tutorToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("PATCH /bookings/:id/status by other student's tutor is hidden", func(t *testing.T) {
		// another student cannot even see the booking
		w := suite.makeRequest("PATCH", fmt.Sprintf("/api/bookings/%d/status", bookingID), map[string]interface{}{
			"status": "Approved",
		}, otherStudentToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("PATCH /bookings/:id/status invalid value", func(t *testing.T) {
		w := suite.makeRequest("PATCH", fmt.Sprintf("/api/bookings/%d/status", bookingID), map[string]interface{}{
			"status": "Confirmed",
		}, tutorToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("PATCH /bookings/:id/status approve", func(t *testing.T) {
		w := suite.makeRequest("PATCH", fmt.Sprintf("/api/bookings/%d/status", bookingID), map[string]interface{}{
			"status": "Approved",
		}, tutorToken)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := parseResponse(t, w)
		assert.Equal(t, "Approved", resp.Data["bookingStatus"])
	})

	t.Run("PATCH /bookings/:id/status second decision rejected", func(t *testing.T) {
		w := suite.makeRequest("PATCH", fmt.Sprintf("/api/bookings/%d/status", bookingID), map[string]interface{}{
			"status": "Rejected",
		}, tutorToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Can only update pending bookings")
	})

	t.Run("DELETE /bookings/:id approved booking", func(t *testing.T) {
		w := suite.makeRequest("DELETE", fmt.Sprintf("/api/bookings/%d", bookingID), nil, studentToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Can only delete pending bookings")
	})

	t.Run("GET /bookings as tutor", func(t *testing.T) {
		w := suite.makeRequest("GET", "/api/bookings", nil, tutorToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Rina")
	})
}

func TestFlow_PaymentAndWebhook(t *testing.T) {
	suite := setupTestSuite(t)

	suite.register(t, "Budi Santoso", "budi@tutorhub.id", "Tutor")
	suite.register(t, "Rina", "rina@student.id", "Student")
	tutorToken := suite.login(t, "budi@tutorhub.id")
	studentToken := suite.login(t, "rina@student.id")

	w := suite.makeRequest("POST", "/api/tutors", map[string]interface{}{
		"subjects": "Mathematics",
		"style":    "Patient",
		"photoUrl": "https://example.com/budi.jpg",
	}, tutorToken)
	require.Equal(t, http.StatusCreated, w.Code)

	futureDate := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
	w = suite.makeRequest("POST", "/api/schedules", map[string]interface{}{
		"date": futureDate,
		"time": "10:00-12:00",
		"fee":  100000,
	}, tutorToken)
	require.Equal(t, http.StatusCreated, w.Code)
	scheduleID := int64(parseResponse(t, w).Data["id"].(float64))

	w = suite.makeRequest("POST", "/api/bookings", map[string]interface{}{
		"ScheduleId": scheduleID,
	}, studentToken)
	require.Equal(t, http.StatusCreated, w.Code)
	bookingID := int64(parseResponse(t, w).Data["id"].(float64))

	w = suite.makeRequest("PATCH", fmt.Sprintf("/api/bookings/%d/status", bookingID), map[string]interface{}{
		"status": "Approved",
	}, tutorToken)
	require.Equal(t, http.StatusOK, w.Code)

	var orderRef string
	t.Run("POST /payments/:bookingId", func(t *testing.T) {
		w := suite.makeRequest("POST", fmt.Sprintf("/api/payments/%d", bookingID), nil, studentToken)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "paymentToken")

		err := suite.db.Raw("SELECT order_ref FROM payment_sessions WHERE booking_id = ?", bookingID).Scan(&orderRef).Error
		require.NoError(t, err)
		require.NotEmpty(t, orderRef)
	})

	t.Run("POST /payments/:bookingId by non-owner", func(t *testing.T) {
		w := suite.makeRequest("POST", fmt.Sprintf("/api/payments/%d", bookingID), nil, tutorToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("POST /payments/notification settlement", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/payments/notification", map[string]interface{}{
			"order_id":           orderRef,
			"transaction_status": "settlement",
			"status_code":        "200",
			"gross_amount":       "100000.00",
			"signature_key":      webhookSignature(orderRef, "200", "100000.00"),
		}, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "OK")

		var paymentStatus string
		err := suite.db.Raw("SELECT payment_status FROM bookings WHERE id = ?", bookingID).Scan(&paymentStatus).Error
		require.NoError(t, err)
		assert.Equal(t, "Paid", paymentStatus)
	})

	t.Run("POST /payments/notification bad signature is swallowed", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/payments/notification", map[string]interface{}{
			"order_id":           orderRef,
			"transaction_status": "expire",
			"status_code":        "407",
			"gross_amount":       "100000.00",
			"signature_key":      "deadbeef",
		}, "")
		assert.Equal(t, http.StatusOK, w.Code)

		// status unchanged
		var paymentStatus string
		require.NoError(t, suite.db.Raw("SELECT payment_status FROM bookings WHERE id = ?", bookingID).Scan(&paymentStatus).Error)
		assert.Equal(t, "Paid", paymentStatus)
	})

	t.Run("POST /payments/notification unknown order", func(t *testing.T) {
		unknown := "BOOKING-999-1700000000"
		w := suite.makeRequest("POST", "/api/payments/notification", map[string]interface{}{
			"order_id":           unknown,
			"transaction_status": "settlement",
			"status_code":        "200",
			"gross_amount":       "5.00",
			"signature_key":      webhookSignature(unknown, "200", "5.00"),
		}, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

// A rejected booking's payment is cancelled and a late settlement webhook
// must not mark it paid.
func TestFlow_RejectedBookingStaysCancelled(t *testing.T) {
	suite := setupTestSuite(t)

	suite.register(t, "Budi Santoso", "budi@tutorhub.id", "Tutor")
	suite.register(t, "Rina", "rina@student.id", "Student")
	tutorToken := suite.login(t, "budi@tutorhub.id")
	studentToken := suite.login(t, "rina@student.id")

	w := suite.makeRequest("POST", "/api/tutors", map[string]interface{}{
		"subjects": "Mathematics",
		"style":    "Patient",
		"photoUrl": "https://example.com/budi.jpg",
	}, tutorToken)
	require.Equal(t, http.StatusCreated, w.Code)

	futureDate := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
	w = suite.makeRequest("POST", "/api/schedules", map[string]interface{}{
		"date": futureDate,
		"time": "13:00-15:00",
		"fee":  50000,
	}, tutorToken)
	require.Equal(t, http.StatusCreated, w.Code)
	scheduleID := int64(parseResponse(t, w).Data["id"].(float64))

	w = suite.makeRequest("POST", "/api/bookings", map[string]interface{}{
		"ScheduleId": scheduleID,
	}, studentToken)
	require.Equal(t, http.StatusCreated, w.Code)
	bookingID := int64(parseResponse(t, w).Data["id"].(float64))

	// Open checkout while the booking is still pending.
	w = suite.makeRequest("POST", fmt.Sprintf("/api/payments/%d", bookingID), nil, studentToken)
	require.Equal(t, http.StatusOK, w.Code)

	var orderRef string
	require.NoError(t, suite.db.Raw("SELECT order_ref FROM payment_sessions WHERE booking_id = ?", bookingID).Scan(&orderRef).Error)

	// Tutor rejects: payment goes to Cancelled in the same write.
	w = suite.makeRequest("PATCH", fmt.Sprintf("/api/bookings/%d/status", bookingID), map[string]interface{}{
		"status": "Rejected",
	}, tutorToken)
	require.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse(t, w)
	require.Equal(t, "Rejected", resp.Data["bookingStatus"])
	require.Equal(t, "Cancelled", resp.Data["paymentStatus"])

	// The gateway settles late; the webhook is acknowledged but ignored.
	w = suite.makeRequest("POST", "/api/payments/notification", map[string]interface{}{
		"order_id":           orderRef,
		"transaction_status": "settlement",
		"status_code":        "200",
		"gross_amount":       "50000.00",
		"signature_key":      webhookSignature(orderRef, "200", "50000.00"),
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var paymentStatus string
	require.NoError(t, suite.db.Raw("SELECT payment_status FROM bookings WHERE id = ?", bookingID).Scan(&paymentStatus).Error)
	assert.Equal(t, "Cancelled", paymentStatus)
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}
