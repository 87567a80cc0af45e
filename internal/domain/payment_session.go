package domain

import "time"

type PaymentSessionStatus string

const (
	SessionCreated PaymentSessionStatus = "created"
	SessionPending PaymentSessionStatus = "pending"
	SessionPaid    PaymentSessionStatus = "paid"
	SessionFailed  PaymentSessionStatus = "failed"
)

// PaymentSession records one gateway checkout issued for a booking. The
// webhook resolves the session by OrderRef directly; the "BOOKING-<id>-<ts>"
// format only exists for the gateway's order_id field and is never parsed.
// Repeated checkout calls for the same booking create new sessions; older
// rows stay for audit.
type PaymentSession struct {
	ID          string               `gorm:"type:varchar(36);primaryKey" json:"id"`
	BookingID   int64                `gorm:"index;not null" json:"booking_id"`
	OrderRef    string               `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_ref"`
	Amount      int64                `gorm:"not null" json:"amount"`
	Token       string               `gorm:"type:varchar(128)" json:"token"`
	RedirectURL string               `gorm:"type:text" json:"redirect_url"`
	Status      PaymentSessionStatus `gorm:"type:varchar(20);default:'created';index" json:"status"`
	RawNotify   string               `gorm:"type:text" json:"raw_notify"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func (PaymentSession) TableName() string { return "payment_sessions" }
