package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Book struct {
	ID              string    `gorm:"primaryKey;column:id;type:uuid" json:"id"`
	Title           string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Author          string    `gorm:"column:author;type:varchar(255);not null" json:"author"`
	Genre           string    `gorm:"column:genre;not null" json:"genre"`
	Rating          int       `gorm:"column:rating;not null" json:"rating"`
	CoverURL        string    `gorm:"column:cover_url;not null" json:"cover_url"`
	CoverColor      string    `gorm:"column:cover_color;type:varchar(7);not null" json:"cover_color"`
	Description     string    `gorm:"column:description;not null" json:"description"`
	TotalCopies     int       `gorm:"column:total_copies;not null;default:1" json:"total_copies"`
	AvailableCopies int       `gorm:"column:available_copies;not null;default:0" json:"available_copies"`
	VideoURL        string    `gorm:"column:video_url" json:"video_url"`
	Summary         string    `gorm:"column:summary" json:"summary"`
	CreatedAt       time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
}

func (Book) TableName() string { return "books" }

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
