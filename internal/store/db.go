package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/talkincode/catalog/config"
	"github.com/talkincode/catalog/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const memoryDSN = ":memory:"

// Open connects to the configured database, creating the SQLite file (and
// its parent directory) when it does not exist yet.
func Open(cfg config.DBConfig, workdir string) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	if cfg.Debug {
		gcfg.Logger = logger.Default.LogMode(logger.Info)
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Type {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.User, cfg.Passwd, cfg.Name)
		db, err = gorm.Open(postgres.Open(dsn), gcfg)
	case "sqlite", "":
		db, err = gorm.Open(sqlite.Open(sqliteDSN(cfg.Name, workdir)), gcfg)
	default:
		return nil, errors.Errorf("unsupported database type %q", cfg.Type)
	}
	if err != nil {
		return nil, wrap("open", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, wrap("open", err)
	}
	if cfg.Type == "postgres" {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
		sqlDB.SetMaxIdleConns(cfg.IdleConn)
		sqlDB.SetConnMaxLifetime(time.Hour)
	} else {
		// SQLite has a single writer; one connection also keeps :memory: databases intact.
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, wrap("ping", err)
	}
	return db, nil
}

func sqliteDSN(name, workdir string) string {
	if name == memoryDSN {
		return name
	}
	path := name
	if !filepath.IsAbs(path) && workdir != "" {
		path = filepath.Join(workdir, path)
	}
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	return fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path)
}

// Migrate creates the catalog tables when they are absent. Running it on an
// existing database only confirms the tables are there.
func Migrate(db *gorm.DB) error {
	return wrap("migrate", db.Migrator().AutoMigrate(domain.Tables...))
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return wrap("close", err)
	}
	return wrap("close", sqlDB.Close())
}
