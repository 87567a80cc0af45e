package schedule

import (
	"context"
	"time"

	"tutorhub/internal/domain"
)

type ScheduleRepository interface {
	Create(ctx context.Context, s *domain.Schedule) error
	GetByID(ctx context.Context, id int64) (*domain.Schedule, error)
	GetByTutorID(ctx context.Context, tutorID int64) ([]domain.Schedule, error)
	ListUpcoming(ctx context.Context, from time.Time) ([]domain.Schedule, error)
	GetOwnerUserID(ctx context.Context, scheduleID int64) (int64, error)
	Update(ctx context.Context, s *domain.Schedule) error
	Delete(ctx context.Context, id int64) error
}

type TutorReader interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.Tutor, error)
}
