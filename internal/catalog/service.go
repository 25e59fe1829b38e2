package catalog

import (
	"context"
	"math"
	"time"

	"github.com/openshelf/catalogd/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// FeedClient fetches unsaved product records from the external content feed.
type FeedClient interface {
	FetchProducts(ctx context.Context) ([]domain.ProductData, error)
}

// ProductPage is a paginated listing result.
type ProductPage struct {
	Products    []domain.Product `json:"products"`
	Total       int64            `json:"total"`
	TotalPages  int64            `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
}

// SyncResult is the outcome of a manual sync run.
type SyncResult struct {
	Message     string `json:"message"`
	SyncedCount int    `json:"syncedCount"`
}

// ProductService implements catalog queries and feed synchronization.
type ProductService struct {
	repo ProductRepository
	feed FeedClient

	// Overlapping sync invocations (scheduled vs manual) share a single
	// run instead of racing on the external-id upsert.
	syncGroup singleflight.Group
}

// NewProductService creates a product service over the given store and feed.
func NewProductService(repo ProductRepository, feed FeedClient) *ProductService {
	return &ProductService{repo: repo, feed: feed}
}

// FindAll returns a page of active products with pagination metadata.
func (s *ProductService) FindAll(ctx context.Context, page, limit int, filters *ProductFilters) (*ProductPage, error) {
	products, total, err := s.repo.FindAll(ctx, page, limit, filters)
	if err != nil {
		return nil, err
	}
	return &ProductPage{
		Products:    products,
		Total:       total,
		TotalPages:  int64(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: page,
	}, nil
}

// FindByID returns an active product, or NotFoundError when the product is
// absent or soft-deleted.
func (s *ProductService) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.IsDeleted {
		return nil, &NotFoundError{ID: id}
	}
	return product, nil
}

// DeleteProduct soft-deletes a product, NotFoundError when nothing matched.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	deleted, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return &NotFoundError{ID: id}
	}
	zap.S().Infof("product %d has been soft deleted", id)
	return nil
}

// Sync runs a manual feed synchronization. Errors propagate to the caller.
func (s *ProductService) Sync(ctx context.Context) (*SyncResult, error) {
	v, err, shared := s.syncGroup.Do("sync", func() (interface{}, error) {
		zap.L().Info("starting manual product sync from feed")
		records, err := s.feed.FetchProducts(ctx)
		if err != nil {
			return nil, err
		}
		synced, err := s.repo.BulkUpsert(ctx, records)
		if err != nil {
			return nil, err
		}
		zap.L().Info("manual product sync finished", zap.Int("synced", len(synced)))
		return &SyncResult{
			Message:     "Products synced successfully",
			SyncedCount: len(synced),
		}, nil
	})
	if err != nil {
		zap.L().Error("manual product sync failed", zap.Error(err))
		return nil, err
	}
	if shared {
		zap.L().Debug("manual sync joined an in-flight run")
	}
	return v.(*SyncResult), nil
}

// ScheduledSync runs the periodic feed synchronization. All failures are
// logged and swallowed, there is no caller to propagate them to.
func (s *ProductService) ScheduledSync(ctx context.Context) {
	_, err, _ := s.syncGroup.Do("sync", func() (interface{}, error) {
		zap.L().Info("starting scheduled product sync from feed")
		records, err := s.feed.FetchProducts(ctx)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			zap.L().Warn("no products found in feed")
			return &SyncResult{Message: "Products synced successfully"}, nil
		}
		synced, err := s.repo.BulkUpsert(ctx, records)
		if err != nil {
			return nil, err
		}
		zap.L().Info("scheduled product sync finished", zap.Int("synced", len(synced)))
		return &SyncResult{
			Message:     "Products synced successfully",
			SyncedCount: len(synced),
		}, nil
	})
	if err != nil {
		zap.L().Error("scheduled product sync failed", zap.Error(err))
	}
}

// Count accessors backing the report engine.

func (s *ProductService) TotalCount(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *ProductService) DeletedCount(ctx context.Context) (int64, error) {
	return s.repo.CountDeleted(ctx)
}

func (s *ProductService) CountByPrice(ctx context.Context, hasPrice bool) (int64, error) {
	return s.repo.CountByPrice(ctx, hasPrice)
}

func (s *ProductService) CountByDateRange(ctx context.Context, start, end time.Time) (int64, error) {
	return s.repo.CountByDateRange(ctx, start, end)
}
