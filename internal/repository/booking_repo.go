package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tutorhub/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingRow struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	StudentID     int64     `gorm:"column:student_id;not null;uniqueIndex:idx_student_schedule"`
	ScheduleID    int64     `gorm:"column:schedule_id;not null;uniqueIndex:idx_student_schedule"`
	BookingStatus string    `gorm:"column:booking_status;not null"`
	PaymentStatus string    `gorm:"column:payment_status;not null"`
	PaymentToken  *string   `gorm:"column:payment_token"`
	PaymentURL    *string   `gorm:"column:payment_url"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (bookingRow) TableName() string { return "bookings" }

func toDomainBooking(m bookingRow) *domain.Booking {
	var token, url string
	if m.PaymentToken != nil {
		token = *m.PaymentToken
	}
	if m.PaymentURL != nil {
		url = *m.PaymentURL
	}

	return &domain.Booking{
		ID:            m.ID,
		StudentID:     m.StudentID,
		ScheduleID:    m.ScheduleID,
		BookingStatus: domain.BookingStatus(m.BookingStatus),
		PaymentStatus: domain.PaymentStatus(m.PaymentStatus),
		PaymentToken:  token,
		PaymentURL:    url,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := bookingRow{
		StudentID:     b.StudentID,
		ScheduleID:    b.ScheduleID,
		BookingStatus: string(b.BookingStatus),
		PaymentStatus: string(b.PaymentStatus),
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		if isUniqueViolation(tx.Error) {
			return ErrDuplicateBooking
		}
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingRow
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) ExistsForStudentAndSchedule(ctx context.Context, studentID, scheduleID int64) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&bookingRow{}).
		Where("student_id = ? AND schedule_id = ?", studentID, scheduleID).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

// bookingDetails is one booking joined through schedule -> tutor -> user,
// plus the student. Flattened here, nested by toDomain.
type bookingDetails struct {
	ID            int64     `gorm:"column:id"`
	StudentID     int64     `gorm:"column:student_id"`
	ScheduleID    int64     `gorm:"column:schedule_id"`
	BookingStatus string    `gorm:"column:booking_status"`
	PaymentStatus string    `gorm:"column:payment_status"`
	PaymentToken  *string   `gorm:"column:payment_token"`
	PaymentURL    *string   `gorm:"column:payment_url"`
	CreatedAt     time.Time `gorm:"column:created_at"`

	Date time.Time `gorm:"column:date"`
	Time string    `gorm:"column:time"`
	Fee  int64     `gorm:"column:fee"`

	TutorID      int64  `gorm:"column:tutor_id"`
	TutorUserID  int64  `gorm:"column:tutor_user_id"`
	Subjects     string `gorm:"column:subjects"`
	Style        string `gorm:"column:style"`
	TutorName    string `gorm:"column:tutor_name"`
	StudentName  string `gorm:"column:student_name"`
	StudentEmail string `gorm:"column:student_email"`
}

const bookingDetailsSelect = `
SELECT b.id, b.student_id, b.schedule_id, b.booking_status, b.payment_status,
       b.payment_token, b.payment_url, b.created_at,
       s.date, s.time, s.fee,
       t.id AS tutor_id, t.user_id AS tutor_user_id, t.subjects, t.style,
       tu.full_name AS tutor_name,
       su.full_name AS student_name, su.email AS student_email
FROM bookings b
JOIN schedules s ON s.id = b.schedule_id
JOIN tutors t ON t.id = s.tutor_id
JOIN users tu ON tu.id = t.user_id
JOIN users su ON su.id = b.student_id
`

func (d bookingDetails) toDomain() *domain.Booking {
	b := toDomainBooking(bookingRow{
		ID:            d.ID,
		StudentID:     d.StudentID,
		ScheduleID:    d.ScheduleID,
		BookingStatus: d.BookingStatus,
		PaymentStatus: d.PaymentStatus,
		PaymentToken:  d.PaymentToken,
		PaymentURL:    d.PaymentURL,
		CreatedAt:     d.CreatedAt,
	})
	b.Schedule = &domain.Schedule{
		ID:      d.ScheduleID,
		TutorID: d.TutorID,
		Date:    d.Date,
		Time:    d.Time,
		Fee:     d.Fee,
		Tutor: &domain.Tutor{
			ID:       d.TutorID,
			UserID:   d.TutorUserID,
			Subjects: d.Subjects,
			Style:    d.Style,
			User:     &domain.User{ID: d.TutorUserID, FullName: d.TutorName},
		},
	}
	b.Student = &domain.User{
		ID:       d.StudentID,
		FullName: d.StudentName,
		Email:    d.StudentEmail,
	}
	return b
}

// GetWithDetails loads a booking with its schedule, tutor and student for
// the checkout flow.
func (r *BookingRepository) GetWithDetails(ctx context.Context, id int64) (*domain.Booking, error) {
	var d bookingDetails
	tx := r.db.WithContext(ctx).Raw(bookingDetailsSelect+" WHERE b.id = ?", id).Scan(&d)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return d.toDomain(), nil
}

func (r *BookingRepository) ListByStudent(ctx context.Context, studentID int64) ([]domain.Booking, error) {
	return r.listDetails(ctx, " WHERE b.student_id = ? ORDER BY b.created_at DESC", studentID)
}

func (r *BookingRepository) ListByTutor(ctx context.Context, tutorID int64) ([]domain.Booking, error) {
	return r.listDetails(ctx, " WHERE s.tutor_id = ? ORDER BY b.created_at DESC", tutorID)
}

func (r *BookingRepository) listDetails(ctx context.Context, where string, arg any) ([]domain.Booking, error) {
	var rows []bookingDetails
	tx := r.db.WithContext(ctx).Raw(bookingDetailsSelect+where, arg).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, d := range rows {
		out = append(out, *d.toDomain())
	}
	return out, nil
}

// GetScheduleOwnerForBooking resolves the user owning the schedule behind a
// booking, plus the current booking status. Both zero when the booking does
// not exist.
func (r *BookingRepository) GetScheduleOwnerForBooking(ctx context.Context, bookingID int64) (ownerID int64, status string, err error) {
	var row struct {
		OwnerID int64  `gorm:"column:owner_id"`
		Status  string `gorm:"column:booking_status"`
	}
	q := `
SELECT u.id AS owner_id, b.booking_status
FROM bookings b
JOIN schedules s ON s.id = b.schedule_id
JOIN tutors t ON t.id = s.tutor_id
JOIN users u ON u.id = t.user_id
WHERE b.id = ?
`
	tx := r.db.WithContext(ctx).Raw(q, bookingID).Scan(&row)
	if tx.Error != nil {
		return 0, "", tx.Error
	}
	return row.OwnerID, row.Status, nil
}

// UpdateStatusIfPending applies the tutor's decision as a conditional
// update: the transition only happens while the booking is still Pending,
// so a decided booking can never be re-decided even under concurrent calls.
// Returns false when no row qualified.
func (r *BookingRepository) UpdateStatusIfPending(ctx context.Context, bookingID int64, status domain.BookingStatus, payment *domain.PaymentStatus) (bool, error) {
	updates := map[string]any{"booking_status": string(status)}
	if payment != nil {
		updates["payment_status"] = string(*payment)
	}
	tx := r.db.WithContext(ctx).Model(&bookingRow{}).
		Where("id = ? AND booking_status = ?", bookingID, string(domain.BookingPending)).
		Updates(updates)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// SetPaymentRef stores the gateway token and redirect URL on the booking.
// Called on every checkout, so a re-issued session overwrites the old ref.
func (r *BookingRepository) SetPaymentRef(ctx context.Context, bookingID int64, token, url string) error {
	return r.db.WithContext(ctx).Model(&bookingRow{}).
		Where("id = ?", bookingID).
		Updates(map[string]any{
			"payment_token": token,
			"payment_url":   url,
		}).Error
}

// UpdatePaymentStatusUnlessCancelled reconciles a gateway-reported status.
// A booking whose payment was Cancelled by rejection is never resurrected.
// Returns false when nothing was updated.
func (r *BookingRepository) UpdatePaymentStatusUnlessCancelled(ctx context.Context, bookingID int64, status domain.PaymentStatus) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&bookingRow{}).
		Where("id = ? AND payment_status <> ?", bookingID, string(domain.PaymentCancelled)).
		Update("payment_status", string(status))
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&bookingRow{}, id).Error
}
