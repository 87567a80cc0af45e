package domain

import "time"

// Tutor is the teaching profile attached to a user with role Tutor.
// A user has at most one profile.
type Tutor struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"UserId" validate:"required"`
	Subjects  string    `json:"subjects" validate:"required"`
	Style     string    `json:"style" validate:"required"`
	PhotoURL  string    `json:"photoUrl" validate:"required,url"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User *User `json:"User,omitempty"`
}
