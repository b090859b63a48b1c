package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStatus string

const (
	StatusPending  UserStatus = "PENDING"
	StatusApproved UserStatus = "APPROVED"
	StatusRejected UserStatus = "REJECTED"
)

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// defining the schema
type User struct {
	ID               string     `gorm:"primaryKey;column:id;type:uuid" json:"id"`
	FullName         string     `gorm:"column:full_name;type:varchar(255);not null" json:"full_name"`
	Email            string     `gorm:"column:email;not null;unique" json:"email"`
	UniversityID     int64      `gorm:"column:university_id;not null;unique" json:"university_id"`
	Password         string     `gorm:"column:password;not null" json:"-"`
	Status           UserStatus `gorm:"column:status;type:varchar(10);default:'PENDING'" json:"status"`
	Role             UserRole   `gorm:"column:role;type:varchar(10);default:'USER'" json:"role"`
	LastActivityDate time.Time  `gorm:"column:last_activity_date" json:"last_activity_date"`
	CreatedAt        time.Time  `gorm:"autoCreateTime;column:created_at" json:"created_at"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.LastActivityDate.IsZero() {
		u.LastActivityDate = time.Now()
	}
	return nil
}
