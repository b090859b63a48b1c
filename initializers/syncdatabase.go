package initializers

import (
	"university-library/internals/models"

	"gorm.io/gorm"
)

// SyncDatabase synchronizes the schema with the model definitions.
func SyncDatabase(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Book{},
		&models.BorrowRecord{},
	)
}
