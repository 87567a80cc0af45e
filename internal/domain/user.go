package domain

import "time"

type UserRole string

const (
	RoleStudent UserRole = "Student"
	RoleTutor   UserRole = "Tutor"
)

func (r UserRole) Valid() bool {
	return r == RoleStudent || r == RoleTutor
}

type User struct {
	ID           int64  `json:"id"`
	FullName     string `json:"fullName" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	PasswordHash string `json:"-"`
	// GoogleID is set instead of a password hash for federated accounts.
	GoogleID  string    `json:"-"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
