package repository

import (
	"context"

	"university-library/internals/models"

	"gorm.io/gorm"
)

type BorrowRepository interface {
	FindByID(ctx context.Context, id string) (*models.BorrowRecord, error)
	FindOpenByUserAndBook(ctx context.Context, userID, bookID string) (*models.BorrowRecord, error)
	FindByUser(ctx context.Context, userID string) ([]models.BorrowRecord, error)
}

type borrowRepo struct {
	db *gorm.DB
}

func NewBorrowRepository(db *gorm.DB) BorrowRepository {
	return &borrowRepo{db: db}
}

func (r *borrowRepo) FindByID(ctx context.Context, id string) (*models.BorrowRecord, error) {
	var record models.BorrowRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *borrowRepo) FindOpenByUserAndBook(ctx context.Context, userID, bookID string) (*models.BorrowRecord, error) {
	var record models.BorrowRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ? AND status = ?", userID, bookID, models.StatusBorrowed).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *borrowRepo) FindByUser(ctx context.Context, userID string) ([]models.BorrowRecord, error) {
	var records []models.BorrowRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("borrow_date DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
