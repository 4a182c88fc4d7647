package app

import (
	"time"

	"github.com/talkincode/catalog/config"
	"github.com/talkincode/catalog/internal/catalog"
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

// CatalogProvider provides the catalog query service
type CatalogProvider interface {
	Catalog() *catalog.Service
}

// AppContext combines all provider interfaces for full application context
// Handlers should depend on specific providers or this combined interface
type AppContext interface {
	DBProvider
	ConfigProvider
	CatalogProvider

	// Uptime reports how long the application has been running
	Uptime() time.Duration
}
