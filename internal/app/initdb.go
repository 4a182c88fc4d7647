package app

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/talkincode/catalog/internal/domain"
	"github.com/talkincode/catalog/internal/seed"
	"github.com/talkincode/catalog/internal/store"
	"go.uber.org/zap"
)

// Seed sources
const (
	SeedSourceExisting = "existing"
	SeedSourceFile     = "file"
	SeedSourceSample   = "sample"
)

// PaymentQR seed states
const (
	PaymentQRExisting = "existing"
	PaymentQRCreated  = "created"
	PaymentQRMissing  = "missing"
	PaymentQRFailed   = "failed"
)

// SeedReport describes what a seeding pass did.
type SeedReport struct {
	ProductSource string
	Inserted      int
	Skipped       []string
	Failed        []string
	Rejected      int
	PaymentQR     string
}

// Seed makes sure the baseline rows exist. It never fails: missing inputs
// degrade to the sample catalog or to no QR image, and individual insert
// errors are logged. Passes within one process are serialized; across
// processes the unique modelo index keeps products free of duplicates.
func (a *Application) Seed(ctx context.Context) *SeedReport {
	a.seedMu.Lock()
	defer a.seedMu.Unlock()

	report := &SeedReport{}
	a.checkProducts(ctx, report)
	a.checkPaymentQR(ctx, report)
	zap.L().Info("seed completed",
		zap.String("namespace", "seed"),
		zap.String("source", report.ProductSource),
		zap.Int("inserted", report.Inserted),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("failed", len(report.Failed)),
		zap.String("pagoQR", report.PaymentQR))
	return report
}

// checkProducts loads the catalog into an empty productos table
func (a *Application) checkProducts(ctx context.Context, report *SeedReport) {
	repo := store.NewGormProductRepository(a.gormDB)

	count, err := repo.Count(ctx)
	if err != nil {
		zap.L().Error("failed to count products", zap.Error(err))
		return
	}
	if count > 0 {
		report.ProductSource = SeedSourceExisting
		zap.L().Info("products already present", zap.Int64("count", count))
		return
	}

	records, source := a.loadSeedRecords()
	products, rejected := seed.Products(records)
	report.ProductSource = source
	report.Rejected = len(rejected)
	for _, idx := range rejected {
		fields := []zap.Field{zap.Int("index", idx)}
		if err := records[idx].Err; err != nil {
			fields = append(fields, zap.Error(err))
		}
		zap.L().Warn("invalid seed record ignored", fields...)
	}

	result, err := repo.InsertIgnore(ctx, products)
	if err != nil {
		zap.L().Error("product seeding interrupted", zap.Error(err))
	}
	if result == nil {
		return
	}
	report.Inserted = result.Inserted
	report.Skipped = result.Skipped
	report.Failed = result.FailedModelos()
	for _, f := range result.Failed {
		zap.L().Error("failed to insert product", zap.String("modelo", f.Modelo), zap.Error(f.Err))
	}
}

func (a *Application) loadSeedRecords() ([]seed.Record, string) {
	path := a.appConfig.ResolvePath(a.appConfig.Seed.DataFile)
	if path == "" {
		zap.L().Info("no seed data file configured, using sample products")
		return seed.SampleRecords, SeedSourceSample
	}

	records, err := seed.Load(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		zap.L().Info("seed data file not found, using sample products", zap.String("path", path))
		return seed.SampleRecords, SeedSourceSample
	case err != nil:
		zap.L().Error("failed to load seed data file, using sample products", zap.String("path", path), zap.Error(err))
		return seed.SampleRecords, SeedSourceSample
	}
	return records, SeedSourceFile
}

// checkPaymentQR stores the payment QR image once, when the image file exists
func (a *Application) checkPaymentQR(ctx context.Context, report *SeedReport) {
	repo := store.NewGormPaymentRepository(a.gormDB)

	exists, err := repo.ExistsByNombre(ctx, domain.PaymentQRName)
	if err != nil {
		report.PaymentQR = PaymentQRFailed
		zap.L().Error("failed to query payment QR", zap.Error(err))
		return
	}
	if exists {
		report.PaymentQR = PaymentQRExisting
		return
	}

	path := a.appConfig.ResolvePath(a.appConfig.Seed.ImageFile)
	img, err := readOptionalFile(path)
	if err != nil {
		report.PaymentQR = PaymentQRFailed
		zap.L().Error("failed to read payment QR image", zap.String("path", path), zap.Error(err))
		return
	}
	if len(img) == 0 {
		report.PaymentQR = PaymentQRMissing
		zap.L().Info("payment QR image not available", zap.String("path", path))
		return
	}

	if err := repo.Create(ctx, &domain.PaymentAsset{Nombre: domain.PaymentQRName, Img: img}); err != nil {
		report.PaymentQR = PaymentQRFailed
		zap.L().Error("failed to store payment QR", zap.Error(err))
		return
	}
	report.PaymentQR = PaymentQRCreated
	zap.L().Info("initialized payment QR", zap.Int("bytes", len(img)))
}

// readOptionalFile returns nil content for an empty path or a missing file.
func readOptionalFile(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return data, err
}
