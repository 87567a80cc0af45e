package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"tutorhub/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userRow struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	FullName     string    `gorm:"column:full_name;not null"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash *string   `gorm:"column:password_hash"`
	GoogleID     *string   `gorm:"column:google_id;index"`
	Role         string    `gorm:"column:role;not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRow) TableName() string { return "users" }

func toDomainUser(m userRow) *domain.User {
	var hash, googleID string
	if m.PasswordHash != nil {
		hash = *m.PasswordHash
	}
	if m.GoogleID != nil {
		googleID = *m.GoogleID
	}

	return &domain.User{
		ID:           m.ID,
		FullName:     m.FullName,
		Email:        m.Email,
		PasswordHash: hash,
		GoogleID:     googleID,
		Role:         domain.UserRole(m.Role),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toUserRow(u *domain.User) userRow {
	email := strings.TrimSpace(strings.ToLower(u.Email))

	var hash, googleID *string
	if u.PasswordHash != "" {
		v := u.PasswordHash
		hash = &v
	}
	if u.GoogleID != "" {
		v := u.GoogleID
		googleID = &v
	}

	return userRow{
		ID:           u.ID,
		FullName:     u.FullName,
		Email:        email,
		PasswordHash: hash,
		GoogleID:     googleID,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserRow(u)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		if isUniqueViolation(tx.Error) {
			return ErrDuplicateEmail
		}
		return tx.Error
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userRow
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userRow
	tx := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&userRow{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}
