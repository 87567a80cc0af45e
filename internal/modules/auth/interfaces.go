package auth

import (
	"context"

	"tutorhub/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type tokenIssuer interface {
	GenerateToken(userID int64, email, role string) (string, error)
}

// GoogleClaims is the subset of the ID-token payload the service needs.
type GoogleClaims struct {
	Subject  string
	Email    string
	FullName string
}

// GoogleVerifier checks a Google ID token and returns its claims.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleClaims, error)
}
