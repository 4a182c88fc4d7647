package store

import (
	"context"
	"strings"

	"github.com/talkincode/catalog/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository handles database operations for catalog products
type ProductRepository interface {
	// Count returns the number of stored products
	Count(ctx context.Context) (int64, error)

	// List returns every product ordered by modelo
	List(ctx context.Context) ([]domain.Product, error)

	// SearchByModelo returns products whose modelo contains sub
	SearchByModelo(ctx context.Context, sub string) ([]domain.Product, error)

	// ListByPrecio returns products priced within [min, max]
	ListByPrecio(ctx context.Context, min, max float64) ([]domain.Product, error)

	// GetByID retrieves a single product
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// InsertIgnore inserts each product independently, skipping those whose
	// modelo already exists
	InsertIgnore(ctx context.Context, products []domain.Product) (*InsertReport, error)
}

// InsertFailure records a product that could not be written.
type InsertFailure struct {
	Modelo string
	Err    error
}

// InsertReport summarizes a conflict-ignoring batch insert.
type InsertReport struct {
	Inserted int
	Skipped  []string
	Failed   []InsertFailure
}

// FailedModelos returns the keys of the failed inserts.
func (r *InsertReport) FailedModelos() []string {
	keys := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		keys = append(keys, f.Modelo)
	}
	return keys
}

// GormProductRepository is the GORM implementation of ProductRepository
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM-based repository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&count).Error
	return count, wrap("productos.count", err)
}

func (r *GormProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	rows := []domain.Product{}
	err := r.db.WithContext(ctx).Order("modelo").Find(&rows).Error
	return rows, wrap("productos.list", err)
}

func (r *GormProductRepository) SearchByModelo(ctx context.Context, sub string) ([]domain.Product, error) {
	rows := []domain.Product{}
	err := r.db.WithContext(ctx).
		Where(`modelo LIKE ? ESCAPE '\'`, "%"+escapeLike(sub)+"%").
		Order("modelo").
		Find(&rows).Error
	return rows, wrap("productos.search", err)
}

func (r *GormProductRepository) ListByPrecio(ctx context.Context, min, max float64) ([]domain.Product, error) {
	rows := []domain.Product{}
	err := r.db.WithContext(ctx).
		Where("precio BETWEEN ? AND ?", min, max).
		Order("precio, id").
		Find(&rows).Error
	return rows, wrap("productos.precio", err)
}

func (r *GormProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, wrap("productos.get", err)
	}
	return &p, nil
}

func (r *GormProductRepository) InsertIgnore(ctx context.Context, products []domain.Product) (*InsertReport, error) {
	report := &InsertReport{}
	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return report, wrap("productos.insert", err)
		}
		row := domain.Product{Modelo: p.Modelo, Precio: p.Precio}
		res := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "modelo"}}, DoNothing: true}).
			Create(&row)
		switch {
		case res.Error != nil:
			report.Failed = append(report.Failed, InsertFailure{Modelo: p.Modelo, Err: wrap("productos.insert", res.Error)})
		case res.RowsAffected == 0:
			report.Skipped = append(report.Skipped, p.Modelo)
		default:
			report.Inserted++
		}
	}
	return report, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
