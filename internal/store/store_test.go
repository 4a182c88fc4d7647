package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/catalog/config"
	"github.com/talkincode/catalog/internal/domain"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(config.DBConfig{Type: "sqlite", Name: "test.db"}, t.TempDir())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = Close(db) })
	return db
}

var fixtures = []domain.Product{
	{Modelo: "iPhone 14", Precio: 1200000},
	{Modelo: "Samsung Galaxy S23", Precio: 1100000},
	{Modelo: "MacBook Air M2", Precio: 1800000},
	{Modelo: "Dell XPS 13", Precio: 1500000},
	{Modelo: "iPad Pro", Precio: 1000000},
}

func seedFixtures(t *testing.T, repo *GormProductRepository) {
	t.Helper()
	report, err := repo.InsertIgnore(context.Background(), fixtures)
	require.NoError(t, err)
	require.Equal(t, len(fixtures), report.Inserted)
}

func modelos(rows []domain.Product) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Modelo)
	}
	return out
}

func TestOpenCreatesFile(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(config.DBConfig{Type: "sqlite", Name: "nested/productos.db"}, dir)
	require.NoError(t, err)
	defer Close(db)

	assert.FileExists(t, filepath.Join(dir, "nested", "productos.db"))
}

func TestOpenUnsupportedType(t *testing.T) {
	_, err := Open(config.DBConfig{Type: "oracle", Name: "x"}, t.TempDir())
	assert.Error(t, err)
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, Migrate(db))

	assert.True(t, db.Migrator().HasTable("productos"))
	assert.True(t, db.Migrator().HasTable("pago"))
	assert.True(t, db.Migrator().HasColumn(&domain.PaymentAsset{}, "fecha_creacion"))
}

func TestInsertIgnoreSkipsDuplicates(t *testing.T) {
	repo := NewGormProductRepository(setupTestDB(t))
	ctx := context.Background()
	seedFixtures(t, repo)

	report, err := repo.InsertIgnore(ctx, []domain.Product{
		{Modelo: "iPhone 14", Precio: 1},
		{Modelo: "Pixel 8", Precio: 900000},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, []string{"iPhone 14"}, report.Skipped)
	assert.Empty(t, report.Failed)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 6, count)

	// the original row is left untouched
	rows, err := repo.SearchByModelo(ctx, "iPhone 14")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 1200000, rows[0].Precio)
}

func TestInsertIgnoreConcurrent(t *testing.T) {
	repo := NewGormProductRepository(setupTestDB(t))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.InsertIgnore(ctx, fixtures)
		}()
	}
	wg.Wait()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, len(fixtures), count)
}

func TestListOrderedByModelo(t *testing.T) {
	repo := NewGormProductRepository(setupTestDB(t))
	seedFixtures(t, repo)

	rows, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Dell XPS 13", "MacBook Air M2", "Samsung Galaxy S23", "iPad Pro", "iPhone 14"}, modelos(rows))
}

func TestListEmptyIsNotNil(t *testing.T) {
	repo := NewGormProductRepository(setupTestDB(t))

	rows, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestSearchByModelo(t *testing.T) {
	repo := NewGormProductRepository(setupTestDB(t))
	seedFixtures(t, repo)
	ctx := context.Background()

	rows, err := repo.SearchByModelo(ctx, "iP")
	require.NoError(t, err)
	assert.Equal(t, []string{"iPad Pro", "iPhone 14"}, modelos(rows))

	rows, err = repo.SearchByModelo(ctx, "Air")
	require.NoError(t, err)
	assert.Equal(t, []string{"MacBook Air M2"}, modelos(rows))

	// LIKE metacharacters are matched literally
	rows, err = repo.SearchByModelo(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = repo.SearchByModelo(ctx, "_")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestListByPrecio(t *testing.T) {
	repo := NewGormProductRepository(setupTestDB(t))
	seedFixtures(t, repo)
	ctx := context.Background()

	rows, err := repo.ListByPrecio(ctx, 1100000, 1500000)
	require.NoError(t, err)
	assert.Equal(t, []string{"Samsung Galaxy S23", "iPhone 14", "Dell XPS 13"}, modelos(rows))

	rows, err = repo.ListByPrecio(ctx, 1500000, 1100000)
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = repo.ListByPrecio(ctx, 1099999.5, 1200000.5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Samsung Galaxy S23", "iPhone 14"}, modelos(rows))
}

func TestGetByID(t *testing.T) {
	repo := NewGormProductRepository(setupTestDB(t))
	seedFixtures(t, repo)
	ctx := context.Background()

	p, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "iPhone 14", p.Modelo)

	_, err = repo.GetByID(ctx, 999999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var serr *Error
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "productos.get", serr.Op)
}

func TestPaymentRepository(t *testing.T) {
	repo := NewGormPaymentRepository(setupTestDB(t))
	ctx := context.Background()

	exists, err := repo.ExistsByNombre(ctx, domain.PaymentQRName)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.GetByNombre(ctx, domain.PaymentQRName)
	assert.True(t, IsNotFound(err))

	img := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10}
	require.NoError(t, repo.Create(ctx, &domain.PaymentAsset{Nombre: domain.PaymentQRName, Img: img}))

	exists, err = repo.ExistsByNombre(ctx, domain.PaymentQRName)
	require.NoError(t, err)
	assert.True(t, exists)

	asset, err := repo.GetByNombre(ctx, domain.PaymentQRName)
	require.NoError(t, err)
	assert.Equal(t, img, asset.Img)
	assert.False(t, asset.FechaCreacion.IsZero())
}

func TestErrorUnwrap(t *testing.T) {
	base := errors.New("disk full")
	err := wrap("productos.insert", base)

	assert.EqualError(t, err, "productos.insert: disk full")
	assert.ErrorIs(t, err, base)
	assert.Nil(t, wrap("noop", nil))
}
