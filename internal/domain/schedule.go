package domain

import "time"

// Schedule is a bookable time slot owned by one tutor profile.
// Time is a free-text range like "14:00 - 15:30".
type Schedule struct {
	ID        int64     `json:"id"`
	TutorID   int64     `json:"TutorId" validate:"required"`
	Date      time.Time `json:"date" validate:"required"`
	Time      string    `json:"time" validate:"required"`
	Fee       int64     `json:"fee" validate:"gte=0"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Tutor *Tutor `json:"Tutor,omitempty"`
}
