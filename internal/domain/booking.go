package domain

import "time"

type BookingStatus string

const (
	BookingPending  BookingStatus = "Pending"
	BookingApproved BookingStatus = "Approved"
	BookingRejected BookingStatus = "Rejected"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentPaid      PaymentStatus = "Paid"
	PaymentFailed    PaymentStatus = "Failed"
	PaymentCancelled PaymentStatus = "Cancelled"
	PaymentExpired   PaymentStatus = "Expired"
)

// Booking is a student's claim on one schedule slot. BookingStatus moves
// once, Pending -> Approved|Rejected, by the tutor owning the schedule.
// PaymentStatus evolves independently via the gateway webhook and only
// carries meaning once the booking is Approved; rejecting a booking forces
// it to Cancelled.
type Booking struct {
	ID            int64         `json:"id"`
	StudentID     int64         `json:"studentId" validate:"required"`
	ScheduleID    int64         `json:"ScheduleId" validate:"required"`
	BookingStatus BookingStatus `json:"bookingStatus"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	PaymentToken  string        `json:"paymentToken,omitempty"`
	PaymentURL    string        `json:"paymentUrl,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`

	Schedule *Schedule `json:"Schedule,omitempty"`
	Student  *User     `json:"Student,omitempty"`
}
