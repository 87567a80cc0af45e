package repository

import (
	"context"

	"gorm.io/gorm"

	"tutorhub/internal/domain"
)

type PaymentSessionRepository struct {
	db *gorm.DB
}

func NewPaymentSessionRepository(db *gorm.DB) *PaymentSessionRepository {
	return &PaymentSessionRepository{db: db}
}

func (r *PaymentSessionRepository) Create(ctx context.Context, p *domain.PaymentSession) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentSessionRepository) GetByOrderRef(ctx context.Context, orderRef string) (*domain.PaymentSession, error) {
	var p domain.PaymentSession
	tx := r.db.WithContext(ctx).Where("order_ref = ?", orderRef).First(&p)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &p, nil
}

// RecordNotification stores the gateway-reported status and the raw webhook
// payload against the session.
func (r *PaymentSessionRepository) RecordNotification(ctx context.Context, orderRef string, status domain.PaymentSessionStatus, rawBody string) error {
	return r.db.WithContext(ctx).Model(&domain.PaymentSession{}).
		Where("order_ref = ?", orderRef).
		Updates(map[string]any{
			"status":     string(status),
			"raw_notify": rawBody,
		}).Error
}
