package payment

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"tutorhub/internal/domain"
	"tutorhub/internal/pkg/apperr"
)

const testServerKey = "SB-Mid-server-testkey"

type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) Create(ctx context.Context, p *domain.PaymentSession) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockSessionRepo) GetByOrderRef(ctx context.Context, orderRef string) (*domain.PaymentSession, error) {
	args := m.Called(ctx, orderRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentSession), args.Error(1)
}

func (m *MockSessionRepo) RecordNotification(ctx context.Context, orderRef string, status domain.PaymentSessionStatus, rawBody string) error {
	args := m.Called(ctx, orderRef, status, rawBody)
	return args.Error(0)
}

type MockBookingReader struct {
	mock.Mock
}

func (m *MockBookingReader) GetWithDetails(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockBookingWriter struct {
	mock.Mock
}

func (m *MockBookingWriter) SetPaymentRef(ctx context.Context, bookingID int64, token, url string) error {
	args := m.Called(ctx, bookingID, token, url)
	return args.Error(0)
}

func (m *MockBookingWriter) UpdatePaymentStatusUnlessCancelled(ctx context.Context, bookingID int64, status domain.PaymentStatus) (bool, error) {
	args := m.Called(ctx, bookingID, status)
	return args.Bool(0), args.Error(1)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateTransaction(ctx context.Context, req SnapRequest) (*SnapTransaction, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SnapTransaction), args.Error(1)
}

func detailedBooking(studentID int64) *domain.Booking {
	return &domain.Booking{
		ID:            42,
		StudentID:     studentID,
		ScheduleID:    10,
		BookingStatus: domain.BookingApproved,
		PaymentStatus: domain.PaymentPending,
		Schedule: &domain.Schedule{
			ID:  10,
			Fee: 100000,
			Tutor: &domain.Tutor{
				ID:   3,
				User: &domain.User{FullName: "Budi Santoso"},
			},
		},
		Student: &domain.User{ID: studentID, FullName: "Rina", Email: "rina@student.id"},
	}
}

func signature(orderID, statusCode, grossAmount string) string {
	h := sha512.Sum512([]byte(orderID + statusCode + grossAmount + testServerKey))
	return hex.EncodeToString(h[:])
}

func newTestService(sessions *MockSessionRepo, bookings *MockBookingReader, writer *MockBookingWriter, gw *MockGateway) *Service {
	return NewService(sessions, bookings, writer, gw, testServerKey, "BOOKING", nil)
}

func TestCreatePayment_Success(t *testing.T) {
	sessions := new(MockSessionRepo)
	bookings := new(MockBookingReader)
	writer := new(MockBookingWriter)
	gw := new(MockGateway)

	bookings.On("GetWithDetails", mock.Anything, int64(42)).Return(detailedBooking(5), nil)
	gw.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(req SnapRequest) bool {
		return req.TransactionDetails.GrossAmount == 100000 &&
			req.ItemDetails[0].Name == "Tutoring Session with Budi Santoso"
	})).Return(&SnapTransaction{Token: "tok-1", RedirectURL: "https://pay.example/tok-1"}, nil)
	sessions.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.PaymentSession) bool {
		return p.BookingID == 42 && p.Amount == 100000 && p.Status == domain.SessionCreated && p.ID != ""
	})).Return(nil)
	writer.On("SetPaymentRef", mock.Anything, int64(42), "tok-1", "https://pay.example/tok-1").Return(nil)

	service := newTestService(sessions, bookings, writer, gw)

	resp, err := service.CreatePayment(context.Background(), 42, 5)

	assert.NoError(t, err)
	assert.Equal(t, "tok-1", resp.PaymentToken)
	assert.Equal(t, "https://pay.example/tok-1", resp.PaymentURL)
	sessions.AssertExpectations(t)
	writer.AssertExpectations(t)
}

func TestCreatePayment_NotFound(t *testing.T) {
	bookings := new(MockBookingReader)
	bookings.On("GetWithDetails", mock.Anything, int64(42)).Return(nil, gorm.ErrRecordNotFound)

	service := newTestService(new(MockSessionRepo), bookings, new(MockBookingWriter), new(MockGateway))

	_, err := service.CreatePayment(context.Background(), 42, 5)

	assert.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCreatePayment_NotOwner(t *testing.T) {
	bookings := new(MockBookingReader)
	bookings.On("GetWithDetails", mock.Anything, int64(42)).Return(detailedBooking(5), nil)

	service := newTestService(new(MockSessionRepo), bookings, new(MockBookingWriter), new(MockGateway))

	_, err := service.CreatePayment(context.Background(), 42, 77)

	assert.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestHandleNotification_Settlement(t *testing.T) {
	sessions := new(MockSessionRepo)
	writer := new(MockBookingWriter)

	orderRef := "BOOKING-42-1700000000"
	sessions.On("GetByOrderRef", mock.Anything, orderRef).Return(&domain.PaymentSession{
		ID:        "sess-1",
		BookingID: 42,
		OrderRef:  orderRef,
	}, nil)
	sessions.On("RecordNotification", mock.Anything, orderRef, domain.SessionPaid, mock.Anything).Return(nil)
	writer.On("UpdatePaymentStatusUnlessCancelled", mock.Anything, int64(42), domain.PaymentPaid).Return(true, nil)

	service := newTestService(sessions, new(MockBookingReader), writer, new(MockGateway))

	service.HandleNotification(context.Background(), NotificationPayload{
		OrderID:           orderRef,
		TransactionStatus: "settlement",
		StatusCode:        "200",
		GrossAmount:       "100000.00",
		SignatureKey:      signature(orderRef, "200", "100000.00"),
	}, `{"transaction_status":"settlement"}`)

	sessions.AssertExpectations(t)
	writer.AssertExpectations(t)
}

func TestHandleNotification_ExpireMarksFailed(t *testing.T) {
	sessions := new(MockSessionRepo)
	writer := new(MockBookingWriter)

	orderRef := "BOOKING-42-1700000000"
	sessions.On("GetByOrderRef", mock.Anything, orderRef).Return(&domain.PaymentSession{
		ID:        "sess-1",
		BookingID: 42,
		OrderRef:  orderRef,
	}, nil)
	sessions.On("RecordNotification", mock.Anything, orderRef, domain.SessionFailed, mock.Anything).Return(nil)
	writer.On("UpdatePaymentStatusUnlessCancelled", mock.Anything, int64(42), domain.PaymentFailed).Return(true, nil)

	service := newTestService(sessions, new(MockBookingReader), writer, new(MockGateway))

	service.HandleNotification(context.Background(), NotificationPayload{
		OrderID:           orderRef,
		TransactionStatus: "expire",
		StatusCode:        "407",
		GrossAmount:       "100000.00",
		SignatureKey:      signature(orderRef, "407", "100000.00"),
	}, "{}")

	sessions.AssertExpectations(t)
	writer.AssertExpectations(t)
}

// A bad signature is dropped before any lookup or write.
func TestHandleNotification_InvalidSignature(t *testing.T) {
	sessions := new(MockSessionRepo)
	writer := new(MockBookingWriter)

	service := newTestService(sessions, new(MockBookingReader), writer, new(MockGateway))

	service.HandleNotification(context.Background(), NotificationPayload{
		OrderID:           "BOOKING-42-1700000000",
		TransactionStatus: "settlement",
		StatusCode:        "200",
		GrossAmount:       "100000.00",
		SignatureKey:      "deadbeef",
	}, "{}")

	sessions.AssertNotCalled(t, "GetByOrderRef", mock.Anything, mock.Anything)
	writer.AssertNotCalled(t, "UpdatePaymentStatusUnlessCancelled", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleNotification_UnknownOrder(t *testing.T) {
	sessions := new(MockSessionRepo)
	writer := new(MockBookingWriter)

	orderRef := "BOOKING-999-1700000000"
	sessions.On("GetByOrderRef", mock.Anything, orderRef).Return(nil, gorm.ErrRecordNotFound)

	service := newTestService(sessions, new(MockBookingReader), writer, new(MockGateway))

	service.HandleNotification(context.Background(), NotificationPayload{
		OrderID:           orderRef,
		TransactionStatus: "settlement",
		StatusCode:        "200",
		GrossAmount:       "100000.00",
		SignatureKey:      signature(orderRef, "200", "100000.00"),
	}, "{}")

	writer.AssertNotCalled(t, "UpdatePaymentStatusUnlessCancelled", mock.Anything, mock.Anything, mock.Anything)
}

// A rejected booking carries a Cancelled payment; a late settlement must
// not flip it back to Paid.
func TestHandleNotification_CancelledStaysCancelled(t *testing.T) {
	sessions := new(MockSessionRepo)
	writer := new(MockBookingWriter)

	orderRef := "BOOKING-42-1700000000"
	sessions.On("GetByOrderRef", mock.Anything, orderRef).Return(&domain.PaymentSession{
		ID:        "sess-1",
		BookingID: 42,
		OrderRef:  orderRef,
	}, nil)
	sessions.On("RecordNotification", mock.Anything, orderRef, domain.SessionPaid, mock.Anything).Return(nil)
	writer.On("UpdatePaymentStatusUnlessCancelled", mock.Anything, int64(42), domain.PaymentPaid).Return(false, nil)

	service := newTestService(sessions, new(MockBookingReader), writer, new(MockGateway))

	service.HandleNotification(context.Background(), NotificationPayload{
		OrderID:           orderRef,
		TransactionStatus: "settlement",
		StatusCode:        "200",
		GrossAmount:       "100000.00",
		SignatureKey:      signature(orderRef, "200", "100000.00"),
	}, "{}")

	writer.AssertExpectations(t)
}

func TestMapTransactionStatus(t *testing.T) {
	for txStatus, want := range map[string]domain.PaymentStatus{
		"capture":    domain.PaymentPaid,
		"settlement": domain.PaymentPaid,
		"deny":       domain.PaymentFailed,
		"cancel":     domain.PaymentFailed,
		"expire":     domain.PaymentFailed,
		"pending":    domain.PaymentPending,
		"authorize":  domain.PaymentPending,
	} {
		got, _ := mapTransactionStatus(txStatus)
		assert.Equal(t, want, got, "transaction_status=%s", txStatus)
	}
}
