package booking

import (
	"context"

	"tutorhub/internal/domain"
)

// BookingRepository defines the storage operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ExistsForStudentAndSchedule(ctx context.Context, studentID, scheduleID int64) (bool, error)
	ListByStudent(ctx context.Context, studentID int64) ([]domain.Booking, error)
	ListByTutor(ctx context.Context, tutorID int64) ([]domain.Booking, error)
	GetScheduleOwnerForBooking(ctx context.Context, bookingID int64) (ownerID int64, status string, err error)
	UpdateStatusIfPending(ctx context.Context, bookingID int64, status domain.BookingStatus, payment *domain.PaymentStatus) (bool, error)
	Delete(ctx context.Context, id int64) error
}

type ScheduleReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Schedule, error)
}

type TutorReader interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.Tutor, error)
}
