package db

import (
	"bnpltrack/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.UserProfile{},
		&models.BNPLRecord{},
	)
}
