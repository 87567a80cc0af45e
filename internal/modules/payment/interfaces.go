package payment

import (
	"context"

	"tutorhub/internal/domain"
)

type sessionRepo interface {
	Create(ctx context.Context, p *domain.PaymentSession) error
	GetByOrderRef(ctx context.Context, orderRef string) (*domain.PaymentSession, error)
	RecordNotification(ctx context.Context, orderRef string, status domain.PaymentSessionStatus, rawBody string) error
}

type bookingReader interface {
	GetWithDetails(ctx context.Context, id int64) (*domain.Booking, error)
}

type bookingPaymentWriter interface {
	SetPaymentRef(ctx context.Context, bookingID int64, token, url string) error
	UpdatePaymentStatusUnlessCancelled(ctx context.Context, bookingID int64, status domain.PaymentStatus) (bool, error)
}
