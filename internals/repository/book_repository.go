package repository

import (
	"context"

	"university-library/internals/models"

	"gorm.io/gorm"
)

type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*models.Book, error)
	FindAll(ctx context.Context) ([]models.Book, error)
}

type bookRepo struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepo{db: db}
}

func (r *bookRepo) Create(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

// Update writes all mutable columns explicitly, a struct update would skip
// zero values like available_copies reaching 0.
func (r *bookRepo) Update(ctx context.Context, book *models.Book) error {
	result := r.db.WithContext(ctx).Model(&models.Book{}).
		Where("id = ?", book.ID).
		Updates(map[string]interface{}{
			"title":            book.Title,
			"author":           book.Author,
			"genre":            book.Genre,
			"rating":           book.Rating,
			"cover_url":        book.CoverURL,
			"cover_color":      book.CoverColor,
			"description":      book.Description,
			"total_copies":     book.TotalCopies,
			"available_copies": book.AvailableCopies,
			"video_url":        book.VideoURL,
			"summary":          book.Summary,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *bookRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Book{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *bookRepo) FindByID(ctx context.Context, id string) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepo) FindAll(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}
