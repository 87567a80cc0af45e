package tutor

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tutorhub/internal/domain"
	"tutorhub/internal/pkg/apperr"
	"tutorhub/internal/repository"
)

type Service struct {
	tutors TutorRepository
}

func NewService(tutors TutorRepository) *Service {
	return &Service{tutors: tutors}
}

func (s *Service) CreateProfile(ctx context.Context, userID int64, role string, req ProfileRequest) (*domain.Tutor, error) {
	if role != string(domain.RoleTutor) {
		return nil, apperr.Forbidden("Only tutors can create a profile")
	}

	t := &domain.Tutor{
		UserID:   userID,
		Subjects: req.Subjects,
		Style:    req.Style,
		PhotoURL: req.PhotoURL,
	}

	if err := s.tutors.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrDuplicateProfile) {
			return nil, apperr.Validation("Tutor profile already exists")
		}
		return nil, err
	}
	return t, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, role string, req ProfileRequest) (*domain.Tutor, error) {
	if role != string(domain.RoleTutor) {
		return nil, apperr.Forbidden("Only tutors can update a profile")
	}

	t, err := s.tutors.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Tutor profile not found")
		}
		return nil, err
	}

	t.Subjects = req.Subjects
	t.Style = req.Style
	t.PhotoURL = req.PhotoURL

	if err := s.tutors.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) GetOwnProfile(ctx context.Context, userID int64) (*domain.Tutor, error) {
	t, err := s.tutors.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Tutor profile not found")
		}
		return nil, err
	}
	return t, nil
}

func (s *Service) ListPublic(ctx context.Context) ([]domain.Tutor, error) {
	return s.tutors.List(ctx, 0)
}

func (s *Service) GetPublic(ctx context.Context, id int64) (*domain.Tutor, error) {
	t, err := s.tutors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Tutor not found")
		}
		return nil, err
	}
	return t, nil
}
