package tutor

import (
	"context"

	"tutorhub/internal/domain"
)

type TutorRepository interface {
	Create(ctx context.Context, t *domain.Tutor) error
	Update(ctx context.Context, t *domain.Tutor) error
	GetByID(ctx context.Context, id int64) (*domain.Tutor, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Tutor, error)
	List(ctx context.Context, limit int) ([]domain.Tutor, error)
}
