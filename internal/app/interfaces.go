package app

import (
	"github.com/openshelf/catalogd/config"
	"github.com/openshelf/catalogd/internal/auth"
	"github.com/openshelf/catalogd/internal/catalog"
	"github.com/openshelf/catalogd/internal/reports"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// ServiceProvider provides access to the wired domain services
type ServiceProvider interface {
	ProductService() *catalog.ProductService
	ReportsService() *reports.Service
	AuthService() *auth.Service
}

// AppContext combines all provider interfaces for full application context
// Handlers should depend on specific providers or this combined interface
type AppContext interface {
	DBProvider
	ConfigProvider
	SchedulerProvider
	ServiceProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
}
