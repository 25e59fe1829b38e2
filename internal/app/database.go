package app

import (
	"time"

	"github.com/openshelf/catalogd/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// getDatabase opens the configured database connection pool.
func getDatabase(cfg *config.AppConfig) *gorm.DB {
	logLevel := logger.Silent
	if cfg.Database.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxConn)
	sqlDB.SetMaxIdleConns(cfg.Database.IdleConn)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db
}
