package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tutorhub/internal/domain"
)

type TutorRepository struct {
	db *gorm.DB
}

func NewTutorRepository(db *gorm.DB) *TutorRepository {
	return &TutorRepository{db: db}
}

type tutorRow struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	UserID    int64     `gorm:"column:user_id;uniqueIndex;not null"`
	Subjects  string    `gorm:"column:subjects;not null"`
	Style     string    `gorm:"column:style;not null"`
	PhotoURL  string    `gorm:"column:photo_url;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (tutorRow) TableName() string { return "tutors" }

func toDomainTutor(m tutorRow) *domain.Tutor {
	return &domain.Tutor{
		ID:        m.ID,
		UserID:    m.UserID,
		Subjects:  m.Subjects,
		Style:     m.Style,
		PhotoURL:  m.PhotoURL,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toTutorRow(t *domain.Tutor) tutorRow {
	return tutorRow{
		ID:        t.ID,
		UserID:    t.UserID,
		Subjects:  t.Subjects,
		Style:     t.Style,
		PhotoURL:  t.PhotoURL,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// tutorUserJoin is one row of tutors joined to their owning user.
type tutorUserJoin struct {
	ID       int64  `gorm:"column:id"`
	UserID   int64  `gorm:"column:user_id"`
	Subjects string `gorm:"column:subjects"`
	Style    string `gorm:"column:style"`
	PhotoURL string `gorm:"column:photo_url"`
	FullName string `gorm:"column:full_name"`
	Email    string `gorm:"column:email"`
}

func (j tutorUserJoin) toDomain() *domain.Tutor {
	return &domain.Tutor{
		ID:       j.ID,
		UserID:   j.UserID,
		Subjects: j.Subjects,
		Style:    j.Style,
		PhotoURL: j.PhotoURL,
		User: &domain.User{
			ID:       j.UserID,
			FullName: j.FullName,
			Email:    j.Email,
		},
	}
}

func (r *TutorRepository) Create(ctx context.Context, t *domain.Tutor) error {
	m := toTutorRow(t)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		if isUniqueViolation(tx.Error) {
			return ErrDuplicateProfile
		}
		return tx.Error
	}
	*t = *toDomainTutor(m)
	return nil
}

func (r *TutorRepository) Update(ctx context.Context, t *domain.Tutor) error {
	tx := r.db.WithContext(ctx).Model(&tutorRow{}).
		Where("id = ?", t.ID).
		Updates(map[string]any{
			"subjects":  t.Subjects,
			"style":     t.Style,
			"photo_url": t.PhotoURL,
		})
	return tx.Error
}

func (r *TutorRepository) GetByID(ctx context.Context, id int64) (*domain.Tutor, error) {
	var j tutorUserJoin
	q := `
SELECT t.id, t.user_id, t.subjects, t.style, t.photo_url, u.full_name, u.email
FROM tutors t
JOIN users u ON u.id = t.user_id
WHERE t.id = ?
`
	tx := r.db.WithContext(ctx).Raw(q, id).Scan(&j)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return j.toDomain(), nil
}

func (r *TutorRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Tutor, error) {
	var m tutorRow
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainTutor(m), nil
}

// List returns up to limit tutors with their user's name and email attached.
func (r *TutorRepository) List(ctx context.Context, limit int) ([]domain.Tutor, error) {
	var rows []tutorUserJoin
	q := `
SELECT t.id, t.user_id, t.subjects, t.style, t.photo_url, u.full_name, u.email
FROM tutors t
JOIN users u ON u.id = t.user_id
ORDER BY t.id
`
	db := r.db.WithContext(ctx)
	var tx *gorm.DB
	if limit > 0 {
		tx = db.Raw(q+" LIMIT ?", limit).Scan(&rows)
	} else {
		tx = db.Raw(q).Scan(&rows)
	}
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Tutor, 0, len(rows))
	for _, j := range rows {
		out = append(out, *j.toDomain())
	}
	return out, nil
}
