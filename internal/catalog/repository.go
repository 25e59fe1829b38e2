package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openshelf/catalogd/internal/domain"
	"gorm.io/gorm"
)

// ProductFilters narrows FindAll results. All set filters combine with AND.
type ProductFilters struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
	HasPrice *bool
}

// ProductRepository handles database operations for catalog products.
// Lookup methods return (nil, nil) when no record matches.
type ProductRepository interface {
	// FindAll returns a page of active products plus the total active count
	FindAll(ctx context.Context, page, limit int, filters *ProductFilters) ([]domain.Product, int64, error)

	// FindByID retrieves a product by internal ID, deleted or not
	FindByID(ctx context.Context, id int64) (*domain.Product, error)

	// FindByExternalID retrieves a product by the feed's identifier
	FindByExternalID(ctx context.Context, externalID string) (*domain.Product, error)

	// Create inserts a new product, assigning ID and timestamps
	Create(ctx context.Context, data domain.ProductData) (*domain.Product, error)

	// Update refreshes mutable fields of an existing product, bumping
	// updated_at and preserving id/created_at. Nil when no record matches.
	Update(ctx context.Context, id int64, data domain.ProductData) (*domain.Product, error)

	// SoftDelete marks an active product deleted, true iff a record matched
	SoftDelete(ctx context.Context, id int64) (bool, error)

	// Count returns the total product count, deleted included
	Count(ctx context.Context) (int64, error)

	// CountDeleted returns the soft-deleted product count
	CountDeleted(ctx context.Context) (int64, error)

	// CountByPrice counts active products with (or without) a price
	CountByPrice(ctx context.Context, hasPrice bool) (int64, error)

	// CountByDateRange counts active products created in [start, end]
	CountByDateRange(ctx context.Context, start, end time.Time) (int64, error)

	// BulkUpsert reconciles feed records by external ID, returning the
	// affected products in input order. Not atomic: records processed
	// before a failure stay committed.
	BulkUpsert(ctx context.Context, records []domain.ProductData) ([]domain.Product, error)
}

// GormProductRepository is the GORM implementation of ProductRepository
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM-based repository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) FindAll(ctx context.Context, page, limit int, filters *ProductFilters) ([]domain.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Product{}).Where("is_deleted = ?", false)
	query = r.applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []domain.Product
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error
	return products, total, err
}

func (r *GormProductRepository) applyFilters(query *gorm.DB, filters *ProductFilters) *gorm.DB {
	if filters == nil {
		return query
	}
	if filters.Name != "" {
		query = r.substringMatch(query, "name", filters.Name)
	}
	if filters.Category != "" {
		query = r.substringMatch(query, "category", filters.Category)
	}
	if filters.MinPrice != nil {
		query = query.Where("price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where("price <= ?", *filters.MaxPrice)
	}
	if filters.HasPrice != nil {
		if *filters.HasPrice {
			query = query.Where("price IS NOT NULL")
		} else {
			query = query.Where("price IS NULL")
		}
	}
	return query
}

// substringMatch applies a case-insensitive substring condition. Postgres
// gets native ILIKE, other dialects fall back to LOWER LIKE.
func (r *GormProductRepository) substringMatch(query *gorm.DB, column, value string) *gorm.DB {
	if r.db.Name() == "postgres" {
		return query.Where(column+" ILIKE ?", "%"+value+"%")
	}
	return query.Where("LOWER("+column+") LIKE ?", "%"+strings.ToLower(value)+"%")
}

func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) FindByExternalID(ctx context.Context, externalID string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) Create(ctx context.Context, data domain.ProductData) (*domain.Product, error) {
	now := time.Now()
	product := domain.Product{
		ExternalID:  data.ExternalID,
		Name:        data.Name,
		Description: data.Description,
		Price:       data.Price,
		Category:    data.Category,
		ImageURL:    data.ImageURL,
		IsDeleted:   data.IsDeleted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) Update(ctx context.Context, id int64, data domain.ProductData) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	product.Name = data.Name
	product.Description = data.Description
	product.Price = data.Price
	product.Category = data.Category
	product.ImageURL = data.ImageURL
	product.IsDeleted = data.IsDeleted
	product.UpdatedAt = time.Now()

	if err := r.db.WithContext(ctx).Save(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) SoftDelete(ctx context.Context, id int64) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": now,
			"updated_at": now,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&total).Error
	return total, err
}

func (r *GormProductRepository) CountDeleted(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("is_deleted = ?", true).
		Count(&total).Error
	return total, err
}

func (r *GormProductRepository) CountByPrice(ctx context.Context, hasPrice bool) (int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Product{}).Where("is_deleted = ?", false)
	if hasPrice {
		query = query.Where("price IS NOT NULL")
	} else {
		query = query.Where("price IS NULL")
	}
	var total int64
	err := query.Count(&total).Error
	return total, err
}

func (r *GormProductRepository) CountByDateRange(ctx context.Context, start, end time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("is_deleted = ?", false).
		Where("created_at >= ? AND created_at <= ?", start, end).
		Count(&total).Error
	return total, err
}

func (r *GormProductRepository) BulkUpsert(ctx context.Context, records []domain.ProductData) ([]domain.Product, error) {
	results := make([]domain.Product, 0, len(records))
	for _, record := range records {
		existing, err := r.FindByExternalID(ctx, record.ExternalID)
		if err != nil {
			return results, err
		}
		if existing != nil {
			updated, err := r.Update(ctx, existing.ID, record)
			if err != nil {
				return results, err
			}
			if updated != nil {
				results = append(results, *updated)
			}
			continue
		}
		created, err := r.Create(ctx, record)
		if err != nil {
			return results, err
		}
		results = append(results, *created)
	}
	return results, nil
}
