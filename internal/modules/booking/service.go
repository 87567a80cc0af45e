package booking

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tutorhub/internal/domain"
	"tutorhub/internal/pkg/apperr"
	"tutorhub/internal/repository"
)

type Service struct {
	bookings  BookingRepository
	schedules ScheduleReader
	tutors    TutorReader
}

func NewService(bookings BookingRepository, schedules ScheduleReader, tutors TutorReader) *Service {
	return &Service{bookings: bookings, schedules: schedules, tutors: tutors}
}

// Create claims a schedule slot for a student. A student holds at most one
// booking per schedule: the existence check catches the common case, the
// unique index on (student_id, schedule_id) closes the race between two
// concurrent calls.
func (s *Service) Create(ctx context.Context, userID int64, role string, scheduleID int64) (*domain.Booking, error) {
	if role != string(domain.RoleStudent) {
		return nil, apperr.Forbidden("Only students can create bookings")
	}

	if _, err := s.schedules.GetByID(ctx, scheduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Schedule not found")
		}
		return nil, err
	}

	exists, err := s.bookings.ExistsForStudentAndSchedule(ctx, userID, scheduleID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("You already have a booking for this schedule")
	}

	b := &domain.Booking{
		StudentID:     userID,
		ScheduleID:    scheduleID,
		BookingStatus: domain.BookingPending,
		PaymentStatus: domain.PaymentPending,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrDuplicateBooking) {
			return nil, apperr.Conflict("You already have a booking for this schedule")
		}
		return nil, err
	}
	return b, nil
}

// List shows a student their own bookings, a tutor the bookings placed on
// their schedules. A tutor without a profile gets an empty list, not an
// error.
func (s *Service) List(ctx context.Context, userID int64, role string) ([]domain.Booking, error) {
	if role == string(domain.RoleTutor) {
		profile, err := s.tutors.GetByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return []domain.Booking{}, nil
			}
			return nil, err
		}
		return s.bookings.ListByTutor(ctx, profile.ID)
	}
	return s.bookings.ListByStudent(ctx, userID)
}

// UpdateStatus applies the tutor's one-shot decision. Rejecting also forces
// the payment to Cancelled in the same update. The transition is a
// conditional write on the Pending state, so concurrent decisions cannot
// both land.
func (s *Service) UpdateStatus(ctx context.Context, bookingID, userID int64, role, newStatus string) (*domain.Booking, error) {
	if role != string(domain.RoleTutor) {
		return nil, apperr.Forbidden("Only tutors can update booking status")
	}

	status := domain.BookingStatus(newStatus)
	if status != domain.BookingApproved && status != domain.BookingRejected {
		return nil, apperr.Validation("Invalid status. Must be Approved or Rejected")
	}

	ownerID, current, err := s.bookings.GetScheduleOwnerForBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	// an unowned booking is indistinguishable from a missing one
	if ownerID == 0 || ownerID != userID {
		return nil, apperr.NotFound("Booking not found")
	}
	if current != string(domain.BookingPending) {
		return nil, apperr.Validation("Can only update pending bookings")
	}

	var payment *domain.PaymentStatus
	if status == domain.BookingRejected {
		cancelled := domain.PaymentCancelled
		payment = &cancelled
	}

	ok, err := s.bookings.UpdateStatusIfPending(ctx, bookingID, status, payment)
	if err != nil {
		return nil, err
	}
	if !ok {
		// lost the race to another decision
		return nil, apperr.Validation("Can only update pending bookings")
	}

	return s.bookings.GetByID(ctx, bookingID)
}

// Delete lets the owning student withdraw a booking that has not been
// decided yet.
func (s *Service) Delete(ctx context.Context, bookingID, userID int64, role string) error {
	if role != string(domain.RoleStudent) {
		return apperr.Forbidden("Only students can delete bookings")
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Booking not found")
		}
		return err
	}
	if b.StudentID != userID {
		return apperr.NotFound("Booking not found")
	}
	if b.BookingStatus != domain.BookingPending {
		return apperr.Validation("Can only delete pending bookings")
	}

	return s.bookings.Delete(ctx, bookingID)
}
