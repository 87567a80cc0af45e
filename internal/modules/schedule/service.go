package schedule

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"tutorhub/internal/domain"
	"tutorhub/internal/pkg/apperr"
	"tutorhub/internal/pkg/validator"
)

type Service struct {
	schedules ScheduleRepository
	tutors    TutorReader
}

func NewService(schedules ScheduleRepository, tutors TutorReader) *Service {
	return &Service{schedules: schedules, tutors: tutors}
}

func (s *Service) Create(ctx context.Context, userID int64, role string, req ScheduleRequest) (*domain.Schedule, error) {
	if role != string(domain.RoleTutor) {
		return nil, apperr.Forbidden("Only tutors can create schedules")
	}

	profile, err := s.tutors.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Tutor profile not found")
		}
		return nil, err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, apperr.Validation("Invalid date format")
	}
	if date.Before(today()) {
		return nil, apperr.Validation("Date cannot be in the past")
	}
	if req.Fee < 0 {
		return nil, apperr.Validation("Fee cannot be negative")
	}

	sched := &domain.Schedule{
		TutorID: profile.ID,
		Date:    date,
		Time:    req.Time,
		Fee:     req.Fee,
	}
	if errs := validator.Validate(sched); errs != nil {
		return nil, apperr.Validation(validator.Message(errs))
	}
	if err := s.schedules.Create(ctx, sched); err != nil {
		return nil, err
	}
	return sched, nil
}

// List serves two audiences: tutors see their own slots, students the
// upcoming browsable catalog.
func (s *Service) List(ctx context.Context, userID int64, role string) ([]domain.Schedule, error) {
	if role != string(domain.RoleTutor) {
		return s.schedules.ListUpcoming(ctx, today())
	}

	profile, err := s.tutors.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []domain.Schedule{}, nil
		}
		return nil, err
	}
	return s.schedules.GetByTutorID(ctx, profile.ID)
}

func (s *Service) Update(ctx context.Context, userID, scheduleID int64, req ScheduleRequest) (*domain.Schedule, error) {
	if err := s.checkOwnership(ctx, userID, scheduleID); err != nil {
		return nil, err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, apperr.Validation("Invalid date format")
	}
	if req.Fee < 0 {
		return nil, apperr.Validation("Fee cannot be negative")
	}

	sched, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	sched.Date = date
	sched.Time = req.Time
	sched.Fee = req.Fee

	if err := s.schedules.Update(ctx, sched); err != nil {
		return nil, err
	}
	return sched, nil
}

// Delete removes the slot together with any bookings on it.
func (s *Service) Delete(ctx context.Context, userID, scheduleID int64) error {
	if err := s.checkOwnership(ctx, userID, scheduleID); err != nil {
		return err
	}
	return s.schedules.Delete(ctx, scheduleID)
}

func (s *Service) checkOwnership(ctx context.Context, userID, scheduleID int64) error {
	ownerID, err := s.schedules.GetOwnerUserID(ctx, scheduleID)
	if err != nil {
		return err
	}
	if ownerID == 0 {
		return apperr.NotFound("Schedule not found")
	}
	if ownerID != userID {
		return apperr.Forbidden("You don't own this schedule")
	}
	return nil
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
