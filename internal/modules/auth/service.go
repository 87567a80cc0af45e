package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tutorhub/internal/domain"
	"tutorhub/internal/pkg/apperr"
	"tutorhub/internal/repository"
)

type Service struct {
	users    UserRepository
	jwt      tokenIssuer
	verifier GoogleVerifier
}

func NewService(users UserRepository, jwt tokenIssuer, verifier GoogleVerifier) *Service {
	return &Service{users: users, jwt: jwt, verifier: verifier}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	role := domain.UserRole(req.Role)
	if !role.Valid() {
		return nil, apperr.Validation("Role must be Student or Tutor")
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Validation("Email must be unique")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FullName:     req.FullName,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// the unique index closes the check-then-act gap above
			return nil, apperr.Wrap(apperr.KindValidation, "Email must be unique", err)
		}
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("Invalid email/password")
		}
		return nil, err
	}

	if user.PasswordHash == "" {
		// federated account, no password credential
		return nil, apperr.Unauthorized("Invalid email/password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.Unauthorized("Invalid email/password")
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken: token,
		FullName:    user.FullName,
		Email:       user.Email,
		Role:        string(user.Role),
	}, nil
}

// GoogleLogin signs the caller in via a Google ID token, creating a Student
// account on first sight.
func (s *Service) GoogleLogin(ctx context.Context, req GoogleLoginRequest) (*LoginResponse, error) {
	claims, err := s.verifier.Verify(ctx, req.IDToken)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnauthorized, "Invalid Google token", err)
	}

	user, err := s.users.GetByEmail(ctx, claims.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user = &domain.User{
			FullName: claims.FullName,
			Email:    claims.Email,
			GoogleID: claims.Subject,
			Role:     domain.RoleStudent,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken: token,
		FullName:    user.FullName,
		Email:       user.Email,
		Role:        string(user.Role),
	}, nil
}
