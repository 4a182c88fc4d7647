package catalog

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/talkincode/catalog/internal/domain"
	"github.com/talkincode/catalog/internal/store"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrInvalidID = errors.New("invalid id")
)

// ProductList is a list result together with its size.
type ProductList struct {
	Count int
	Data  []domain.Product
}

func newProductList(rows []domain.Product) *ProductList {
	if rows == nil {
		rows = []domain.Product{}
	}
	return &ProductList{Count: len(rows), Data: rows}
}

// PriceRange holds inclusive price bounds. Min and Max echo the integer the
// client wrote at the start of each bound, nil when there is none; filtering
// uses the full numeric value.
type PriceRange struct {
	Min *int64 `json:"min"`
	Max *int64 `json:"max"`

	low, high float64
	numeric   bool
}

// NewPriceRange builds a range over integer bounds.
func NewPriceRange(min, max int64) PriceRange {
	return PriceRange{
		Min:     &min,
		Max:     &max,
		low:     float64(min),
		high:    float64(max),
		numeric: true,
	}
}

// Service answers catalog read queries. Every call goes to storage; nothing
// is cached between requests.
type Service struct {
	products store.ProductRepository
	payments store.PaymentRepository
}

func NewService(products store.ProductRepository, payments store.PaymentRepository) *Service {
	return &Service{products: products, payments: payments}
}

// NewGormService builds a Service over GORM repositories sharing db.
func NewGormService(db *gorm.DB) *Service {
	return NewService(store.NewGormProductRepository(db), store.NewGormPaymentRepository(db))
}

// ListAll returns every product ordered by modelo.
func (s *Service) ListAll(ctx context.Context) (*ProductList, error) {
	rows, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	return newProductList(rows), nil
}

// Search returns the products whose modelo contains sub.
func (s *Service) Search(ctx context.Context, sub string) (*ProductList, error) {
	rows, err := s.products.SearchByModelo(ctx, sub)
	if err != nil {
		return nil, err
	}
	return newProductList(rows), nil
}

// ParsePriceRange reads raw bounds. Decimal and exponent literals filter by
// their numeric value; a bound that is not a number selects nothing.
func ParsePriceRange(rawMin, rawMax string) PriceRange {
	r := PriceRange{Min: leadingInteger(rawMin), Max: leadingInteger(rawMax)}
	low, okLow := parseDecimal(rawMin)
	high, okHigh := parseDecimal(rawMax)
	r.low, r.high, r.numeric = low, high, okLow && okHigh
	return r
}

// FilterByPrice returns the products priced within r, bounds included.
func (s *Service) FilterByPrice(ctx context.Context, r PriceRange) (*ProductList, error) {
	if !r.numeric || r.low > r.high {
		return newProductList(nil), nil
	}
	rows, err := s.products.ListByPrecio(ctx, r.low, r.high)
	if err != nil {
		return nil, err
	}
	return newProductList(rows), nil
}

// ParseID accepts any numeric string. Numbers that cannot be a row id
// (fractions, out of range, radix prefixes, Infinity) return ErrNotFound
// rather than ErrInvalidID.
func ParseID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return id, nil
	}
	if prefixedLiteral.MatchString(raw) {
		return 0, ErrNotFound
	}
	if !decimalLiteral.MatchString(raw) {
		return 0, ErrInvalidID
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, ErrNotFound
	}
	return int64(f), nil
}

// ProductByID looks up a product from a raw id string.
func (s *Service) ProductByID(ctx context.Context, raw string) (*domain.Product, error) {
	id, err := ParseID(raw)
	if err != nil {
		return nil, err
	}
	p, err := s.products.GetByID(ctx, id)
	if store.IsNotFound(err) {
		return nil, ErrNotFound
	}
	return p, err
}

// PaymentQR returns the raw bytes of the payment QR image.
func (s *Service) PaymentQR(ctx context.Context) ([]byte, error) {
	asset, err := s.payments.GetByNombre(ctx, domain.PaymentQRName)
	if store.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return asset.Img, nil
}

// CountProducts returns the number of stored products.
func (s *Service) CountProducts(ctx context.Context) (int64, error) {
	return s.products.Count(ctx)
}
