package database

import (
	"catalog-admin/internal/domain/catalog"
	"catalog-admin/internal/domain/users"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to postgres. Gorm's own logger is kept quiet; callers log failures.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&catalog.Category{},
		&catalog.Video{},
		&users.User{},
	); err != nil {
		return errors.Wrap(err, "automigrate failed")
	}
	return nil
}
