package db

import (
	"github.com/mykitchen/kitchen/internal/app/model"
	"github.com/mykitchen/kitchen/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every table owned by this service.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Recipe{},
	}
}

// Migrate brings the schema of DB up to date.
func Migrate() error {
	return MigrateDB(DB)
}

func MigrateDB(gdb *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := gdb.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
