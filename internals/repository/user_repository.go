package repository

import (
	"context"
	"time"

	"university-library/internals/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmailOrUniversityID(ctx context.Context, email string, universityID int64) (bool, error)
	TouchActivity(ctx context.Context, email string, day time.Time) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) ExistsByEmailOrUniversityID(ctx context.Context, email string, universityID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? OR university_id = ?", email, universityID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// TouchActivity moves last_activity_date forward to day. Updates nothing when
// the stored date is already the same or newer, so the auth middleware can
// call it on every request cheaply.
func (r *userRepo) TouchActivity(ctx context.Context, email string, day time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? AND last_activity_date < ?", email, day).
		UpdateColumn("last_activity_date", day).Error
}
