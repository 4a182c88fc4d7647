package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/talkincode/catalog/config"
	"github.com/talkincode/catalog/internal/catalog"
	"github.com/talkincode/catalog/internal/store"
	"github.com/talkincode/catalog/pkg/metrics"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"
)

type Application struct {
	appConfig *config.AppConfig
	gormDB    *gorm.DB
	sched     *cron.Cron
	catalog   *catalog.Service
	startedAt time.Time

	seedMu      sync.Mutex
	seedWg      sync.WaitGroup
	releaseOnce sync.Once
}

// Ensure Application implements all interfaces
var (
	_ DBProvider      = (*Application)(nil)
	_ ConfigProvider  = (*Application)(nil)
	_ CatalogProvider = (*Application)(nil)
	_ AppContext      = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig, startedAt: time.Now()}
}

// Start builds a ready-to-serve application: logger, metrics, storage,
// schema and seed data. Seeding runs in the background when
// seed.background is set. On error everything acquired so far is released.
func Start(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	a := NewApplication(cfg)
	if err := a.Init(); err != nil {
		a.Release()
		return nil, err
	}

	if cfg.Seed.Background {
		a.seedWg.Add(1)
		go func() {
			defer a.seedWg.Done()
			a.Seed(ctx)
		}()
	} else {
		a.Seed(ctx)
	}
	return a, nil
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

// OverrideDB replaces the application's database handle (used in tests).
func (a *Application) OverrideDB(db *gorm.DB) {
	a.gormDB = db
	a.catalog = catalog.NewGormService(db)
}

func (a *Application) Catalog() *catalog.Service {
	return a.catalog
}

// Uptime reports how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startedAt)
}

// Init sets up logging, metrics and the database. A database that cannot be
// opened or whose schema cannot be created is a fatal error.
func (a *Application) Init() error {
	cfg := a.appConfig
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	if err := SetupLogger(cfg); err != nil {
		return err
	}

	// Initialize metrics with workdir convention
	err = metrics.InitMetrics(cfg.System.Workdir)
	if err != nil {
		zap.S().Warn("Failed to initialize metrics:", err)
	}

	// Initialize database connection
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	db, err := store.Open(cfg.Database, cfg.System.Workdir)
	if err != nil {
		zap.L().Error("database open failed", zap.String("type", cfg.Database.Type), zap.Error(err))
		return errors.Wrap(err, "open database")
	}
	a.OverrideDB(db)
	zap.S().Infof("Database connection successful, type: %s", cfg.Database.Type)

	if err := a.MigrateDB(); err != nil {
		zap.S().Errorf("database migration failed: %v", err)
		return errors.Wrap(err, "create schema")
	}
	return nil
}

// SetupLogger replaces the global zap logger according to cfg.Logger.
func SetupLogger(cfg *config.AppConfig) error {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		filename := cfg.ResolvePath(cfg.Logger.Filename)
		if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
			return errors.Wrap(err, "create log dir")
		}
		lumberJackLogger := &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			return errors.Wrap(err, "build logger")
		}
	}

	zap.ReplaceGlobals(logger)
	return nil
}

// MigrateDB creates the catalog tables if they do not exist yet.
func (a *Application) MigrateDB() error {
	if err := store.Migrate(a.gormDB); err != nil {
		zap.S().Error(err)
		return err
	}
	return nil
}

// StartBackgroundJobs starts the cron based monitors
func (a *Application) StartBackgroundJobs() {
	a.initJob()
}

// Release releases application resources. It waits for a background seed
// to finish before the database handle is closed and is safe to call more
// than once.
func (a *Application) Release() {
	a.releaseOnce.Do(func() {
		if a.sched != nil {
			<-a.sched.Stop().Done()
		}
		a.seedWg.Wait()

		_ = metrics.Close()
		if err := store.Close(a.gormDB); err != nil {
			zap.L().Error("database close failed", zap.Error(err))
		} else if a.gormDB != nil {
			zap.L().Info("database closed")
		}
		_ = zap.L().Sync()
	})
}
