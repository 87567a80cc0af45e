package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorhub/internal/domain"
	"tutorhub/internal/pkg/apperr"
)

type Service struct {
	sessions      sessionRepo
	bookings      bookingReader
	bookingWriter bookingPaymentWriter
	gateway       Gateway
	loggerf       func(format string, args ...interface{})

	serverKey   string
	orderPrefix string
}

func NewService(
	sessions sessionRepo,
	bookings bookingReader,
	bookingWriter bookingPaymentWriter,
	gateway Gateway,
	serverKey string,
	orderPrefix string,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		sessions:      sessions,
		bookings:      bookings,
		bookingWriter: bookingWriter,
		gateway:       gateway,
		loggerf:       loggerf,
		serverKey:     serverKey,
		orderPrefix:   orderPrefix,
	}
}

// CreatePayment opens a hosted checkout for a booking. Calling it again
// re-issues: a fresh session row is inserted and the booking's token/url
// are overwritten, while older sessions stay for audit and the webhook can
// still reconcile whichever order the gateway settles.
func (s *Service) CreatePayment(ctx context.Context, bookingID, callerID int64) (*CreatePaymentResponse, error) {
	b, err := s.bookings.GetWithDetails(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Booking not found")
		}
		return nil, err
	}
	if b.StudentID != callerID {
		return nil, apperr.Forbidden("You don't own this booking")
	}

	orderRef := fmt.Sprintf("%s-%d-%d", s.orderPrefix, b.ID, time.Now().Unix())

	tx, err := s.gateway.CreateTransaction(ctx, SnapRequest{
		TransactionDetails: TransactionDetails{
			OrderID:     orderRef,
			GrossAmount: b.Schedule.Fee,
		},
		CustomerDetails: CustomerDetails{
			FirstName: b.Student.FullName,
			Email:     b.Student.Email,
		},
		ItemDetails: []ItemDetail{{
			ID:       strconv.FormatInt(b.Schedule.ID, 10),
			Price:    b.Schedule.Fee,
			Quantity: 1,
			Name:     fmt.Sprintf("Tutoring Session with %s", b.Schedule.Tutor.User.FullName),
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("create transaction failed: %w", err)
	}

	session := &domain.PaymentSession{
		ID:          uuid.NewString(),
		BookingID:   b.ID,
		OrderRef:    orderRef,
		Amount:      b.Schedule.Fee,
		Token:       tx.Token,
		RedirectURL: tx.RedirectURL,
		Status:      domain.SessionCreated,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("save payment session failed: %w", err)
	}
	if err := s.bookingWriter.SetPaymentRef(ctx, b.ID, tx.Token, tx.RedirectURL); err != nil {
		s.loggerf("level=error msg=failed to store payment ref on booking booking_id=%d err=%v", b.ID, err)
	}

	return &CreatePaymentResponse{PaymentToken: tx.Token, PaymentURL: tx.RedirectURL}, nil
}

// HandleNotification reconciles a gateway webhook into the booking's
// payment status. It never fails toward the caller: whatever happens here,
// the gateway gets a 200 so it does not start a retry storm. The order id
// resolves a payment session directly; nothing is parsed out of the
// reference string.
func (s *Service) HandleNotification(ctx context.Context, payload NotificationPayload, rawBody string) {
	if !validSignature(s.serverKey, payload.OrderID, payload.StatusCode, payload.GrossAmount, payload.SignatureKey) {
		s.loggerf("level=warn msg=payment notification signature invalid order_id=%s", payload.OrderID)
		return
	}

	session, err := s.sessions.GetByOrderRef(ctx, payload.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.loggerf("level=warn msg=payment notification for unknown order order_id=%s", payload.OrderID)
		} else {
			s.loggerf("level=error msg=payment session lookup failed order_id=%s err=%v", payload.OrderID, err)
		}
		return
	}

	status, sessionStatus := mapTransactionStatus(payload.TransactionStatus)

	if err := s.sessions.RecordNotification(ctx, payload.OrderID, sessionStatus, rawBody); err != nil {
		s.loggerf("level=error msg=failed to record notification order_id=%s err=%v", payload.OrderID, err)
	}

	// a booking cancelled by rejection stays cancelled
	changed, err := s.bookingWriter.UpdatePaymentStatusUnlessCancelled(ctx, session.BookingID, status)
	if err != nil {
		s.loggerf("level=error msg=failed to update booking payment status booking_id=%d err=%v", session.BookingID, err)
		return
	}
	if !changed {
		s.loggerf("level=info msg=payment notification skipped cancelled booking booking_id=%d order_id=%s", session.BookingID, payload.OrderID)
		return
	}
	s.loggerf("level=info msg=payment status reconciled booking_id=%d order_id=%s status=%s", session.BookingID, payload.OrderID, status)
}

func mapTransactionStatus(txStatus string) (domain.PaymentStatus, domain.PaymentSessionStatus) {
	switch txStatus {
	case "capture", "settlement":
		return domain.PaymentPaid, domain.SessionPaid
	case "deny", "cancel", "expire":
		return domain.PaymentFailed, domain.SessionFailed
	default:
		return domain.PaymentPending, domain.SessionPending
	}
}
