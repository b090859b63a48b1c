package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BorrowStatus string

const (
	StatusBorrowed BorrowStatus = "BORROWED"
	StatusReturned BorrowStatus = "RETURNED"
)

// BorrowRecord is one loan of one copy of a book to a user.
// A BORROWED record has a null return date, the transition to RETURNED
// happens exactly once.
type BorrowRecord struct {
	ID         string       `gorm:"primaryKey;column:id;type:uuid" json:"id"`
	UserID     string       `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	User       User         `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	BookID     string       `gorm:"column:book_id;type:uuid;not null;index" json:"book_id"`
	Book       Book         `gorm:"foreignKey:BookID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	BorrowDate time.Time    `gorm:"column:borrow_date;not null" json:"borrow_date"`
	DueDate    time.Time    `gorm:"column:due_date;not null" json:"due_date"`
	ReturnDate *time.Time   `gorm:"column:return_date" json:"return_date,omitempty"`
	Status     BorrowStatus `gorm:"column:status;type:varchar(10);not null;default:'BORROWED'" json:"status"`
	CreatedAt  time.Time    `gorm:"autoCreateTime;column:created_at" json:"created_at"`
}

func (BorrowRecord) TableName() string { return "borrow_records" }

func (r *BorrowRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
