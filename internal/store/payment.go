package store

import (
	"context"

	"github.com/talkincode/catalog/internal/domain"
	"gorm.io/gorm"
)

// PaymentRepository handles database operations for payment assets
type PaymentRepository interface {
	// ExistsByNombre reports whether an asset with the logical key exists
	ExistsByNombre(ctx context.Context, nombre string) (bool, error)

	// GetByNombre retrieves the first asset stored under the logical key
	GetByNombre(ctx context.Context, nombre string) (*domain.PaymentAsset, error)

	// Create inserts a new asset
	Create(ctx context.Context, asset *domain.PaymentAsset) error
}

// GormPaymentRepository is the GORM implementation of PaymentRepository
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GORM-based repository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

func (r *GormPaymentRepository) ExistsByNombre(ctx context.Context, nombre string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.PaymentAsset{}).Where("nombre = ?", nombre).Count(&count).Error
	return count > 0, wrap("pago.exists", err)
}

func (r *GormPaymentRepository) GetByNombre(ctx context.Context, nombre string) (*domain.PaymentAsset, error) {
	var asset domain.PaymentAsset
	if err := r.db.WithContext(ctx).Where("nombre = ?", nombre).First(&asset).Error; err != nil {
		return nil, wrap("pago.get", err)
	}
	return &asset, nil
}

func (r *GormPaymentRepository) Create(ctx context.Context, asset *domain.PaymentAsset) error {
	return wrap("pago.create", r.db.WithContext(ctx).Create(asset).Error)
}
