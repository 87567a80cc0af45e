package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tutorhub/internal/domain"
)

type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

type scheduleRow struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	TutorID   int64     `gorm:"column:tutor_id;index;not null"`
	Date      time.Time `gorm:"column:date;not null"`
	Time      string    `gorm:"column:time;not null"`
	Fee       int64     `gorm:"column:fee;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (scheduleRow) TableName() string { return "schedules" }

func toDomainSchedule(m scheduleRow) *domain.Schedule {
	return &domain.Schedule{
		ID:        m.ID,
		TutorID:   m.TutorID,
		Date:      m.Date,
		Time:      m.Time,
		Fee:       m.Fee,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *ScheduleRepository) Create(ctx context.Context, s *domain.Schedule) error {
	m := scheduleRow{
		TutorID: s.TutorID,
		Date:    s.Date,
		Time:    s.Time,
		Fee:     s.Fee,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*s = *toDomainSchedule(m)
	return nil
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id int64) (*domain.Schedule, error) {
	var m scheduleRow
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainSchedule(m), nil
}

func (r *ScheduleRepository) GetByTutorID(ctx context.Context, tutorID int64) ([]domain.Schedule, error) {
	var rows []scheduleRow
	tx := r.db.WithContext(ctx).
		Where("tutor_id = ?", tutorID).
		Order("date, id").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Schedule, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainSchedule(m))
	}
	return out, nil
}

// ListUpcoming returns schedules dated from the given day onward, with the
// tutor and the tutor's user name, for the student browsing view. Expired
// slots never show up in the catalog.
func (r *ScheduleRepository) ListUpcoming(ctx context.Context, from time.Time) ([]domain.Schedule, error) {
	type scheduleJoin struct {
		ID       int64     `gorm:"column:id"`
		TutorID  int64     `gorm:"column:tutor_id"`
		Date     time.Time `gorm:"column:date"`
		Time     string    `gorm:"column:time"`
		Fee      int64     `gorm:"column:fee"`
		UserID   int64     `gorm:"column:user_id"`
		Subjects string    `gorm:"column:subjects"`
		Style    string    `gorm:"column:style"`
		PhotoURL string    `gorm:"column:photo_url"`
		FullName string    `gorm:"column:full_name"`
	}

	var rows []scheduleJoin
	q := `
SELECT s.id, s.tutor_id, s.date, s.time, s.fee,
       t.user_id, t.subjects, t.style, t.photo_url, u.full_name
FROM schedules s
JOIN tutors t ON t.id = s.tutor_id
JOIN users u ON u.id = t.user_id
WHERE s.date >= ?
ORDER BY s.date, s.id
`
	tx := r.db.WithContext(ctx).Raw(q, from).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Schedule, 0, len(rows))
	for _, j := range rows {
		out = append(out, domain.Schedule{
			ID:      j.ID,
			TutorID: j.TutorID,
			Date:    j.Date,
			Time:    j.Time,
			Fee:     j.Fee,
			Tutor: &domain.Tutor{
				ID:       j.TutorID,
				UserID:   j.UserID,
				Subjects: j.Subjects,
				Style:    j.Style,
				PhotoURL: j.PhotoURL,
				User:     &domain.User{ID: j.UserID, FullName: j.FullName},
			},
		})
	}
	return out, nil
}

// GetOwnerUserID resolves the user owning the tutor profile behind a
// schedule. Returns 0 when the schedule does not exist.
func (r *ScheduleRepository) GetOwnerUserID(ctx context.Context, scheduleID int64) (int64, error) {
	var ownerID int64
	q := `
SELECT u.id
FROM schedules s
JOIN tutors t ON t.id = s.tutor_id
JOIN users u ON u.id = t.user_id
WHERE s.id = ?
`
	tx := r.db.WithContext(ctx).Raw(q, scheduleID).Scan(&ownerID)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return ownerID, nil
}

func (r *ScheduleRepository) Update(ctx context.Context, s *domain.Schedule) error {
	tx := r.db.WithContext(ctx).Model(&scheduleRow{}).
		Where("id = ?", s.ID).
		Updates(map[string]any{
			"date": s.Date,
			"time": s.Time,
			"fee":  s.Fee,
		})
	return tx.Error
}

// Delete removes a schedule and cascades over its bookings in one
// transaction.
func (r *ScheduleRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("schedule_id = ?", id).Delete(&bookingRow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&scheduleRow{}, id).Error
	})
}
