package repository

import "tutorhub/internal/domain"

// Models lists every row model for AutoMigrate, in FK dependency order.
func Models() []any {
	return []any{
		&userRow{},
		&tutorRow{},
		&scheduleRow{},
		&bookingRow{},
		&domain.PaymentSession{},
	}
}
