package database

import (
	"quorum/internal/models"

	"gorm.io/gorm"
)

// migratedModels is the ordered registry of models AutoMigrate creates.
// Parents before children so foreign keys resolve.
func migratedModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Question{},
		&models.QuestionTag{},
		&models.Answer{},
		&models.Vote{},
		&models.Notification{},
	}
}

// Migrate runs schema migrations for all registered models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(migratedModels()...)
}
