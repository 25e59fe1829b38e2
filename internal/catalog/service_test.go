package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/openshelf/catalogd/internal/domain"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	products map[int64]*domain.Product
	nextID   int64

	softDeleteMatched bool
	upsertCalls       int
	err               error
}

func newMockRepository() *mockRepository {
	return &mockRepository{products: make(map[int64]*domain.Product), nextID: 1}
}

func (m *mockRepository) FindAll(_ context.Context, page, limit int, _ *ProductFilters) ([]domain.Product, int64, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	var active []domain.Product
	for _, p := range m.products {
		if !p.IsDeleted {
			active = append(active, *p)
		}
	}
	return active, int64(len(active)), nil
}

func (m *mockRepository) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.products[id], nil
}

func (m *mockRepository) FindByExternalID(_ context.Context, externalID string) (*domain.Product, error) {
	for _, p := range m.products {
		if p.ExternalID == externalID {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockRepository) Create(_ context.Context, data domain.ProductData) (*domain.Product, error) {
	p := &domain.Product{
		ID:         m.nextID,
		ExternalID: data.ExternalID,
		Name:       data.Name,
		Price:      data.Price,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	m.nextID++
	m.products[p.ID] = p
	return p, nil
}

func (m *mockRepository) Update(_ context.Context, id int64, data domain.ProductData) (*domain.Product, error) {
	p, found := m.products[id]
	if !found {
		return nil, nil
	}
	p.Name = data.Name
	p.Price = data.Price
	p.UpdatedAt = time.Now()
	return p, nil
}

func (m *mockRepository) SoftDelete(_ context.Context, id int64) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.softDeleteMatched, nil
}

func (m *mockRepository) Count(context.Context) (int64, error)                  { return 0, m.err }
func (m *mockRepository) CountDeleted(context.Context) (int64, error)           { return 0, m.err }
func (m *mockRepository) CountByPrice(context.Context, bool) (int64, error)     { return 0, m.err }
func (m *mockRepository) CountByDateRange(context.Context, time.Time, time.Time) (int64, error) {
	return 0, m.err
}

func (m *mockRepository) BulkUpsert(ctx context.Context, records []domain.ProductData) ([]domain.Product, error) {
	m.upsertCalls++
	if m.err != nil {
		return nil, m.err
	}
	results := make([]domain.Product, 0, len(records))
	for _, record := range records {
		existing, _ := m.FindByExternalID(ctx, record.ExternalID)
		if existing != nil {
			updated, _ := m.Update(ctx, existing.ID, record)
			results = append(results, *updated)
			continue
		}
		created, _ := m.Create(ctx, record)
		results = append(results, *created)
	}
	return results, nil
}

type mockFeed struct {
	records []domain.ProductData
	err     error
	calls   int
}

func (m *mockFeed) FetchProducts(context.Context) ([]domain.ProductData, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

func TestFindByIDNotFound(t *testing.T) {
	repo := newMockRepository()
	svc := NewProductService(repo, &mockFeed{})

	_, err := svc.FindByID(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "Product with ID 42 not found", err.Error())
}

func TestFindByIDSoftDeletedIsNotFound(t *testing.T) {
	repo := newMockRepository()
	p, err := repo.Create(context.Background(), domain.ProductData{ExternalID: "ext-1", Name: "Widget"})
	require.NoError(t, err)
	p.IsDeleted = true

	svc := NewProductService(repo, &mockFeed{})
	_, err = svc.FindByID(context.Background(), p.ID)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "Product with ID 1 not found", err.Error())
}

func TestFindByIDReturnsActiveProduct(t *testing.T) {
	repo := newMockRepository()
	p, err := repo.Create(context.Background(), domain.ProductData{ExternalID: "ext-1", Name: "Widget"})
	require.NoError(t, err)

	svc := NewProductService(repo, &mockFeed{})
	found, err := svc.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", found.Name)
}

func TestDeleteProductNotFound(t *testing.T) {
	repo := newMockRepository()
	repo.softDeleteMatched = false

	svc := NewProductService(repo, &mockFeed{})
	err := svc.DeleteProduct(context.Background(), 7)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "Product with ID 7 not found", err.Error())
}

func TestDeleteProductSucceeds(t *testing.T) {
	repo := newMockRepository()
	repo.softDeleteMatched = true

	svc := NewProductService(repo, &mockFeed{})
	require.NoError(t, svc.DeleteProduct(context.Background(), 7))
}

func TestFindAllPaginationMetadata(t *testing.T) {
	repo := newMockRepository()
	for i := 0; i < 11; i++ {
		_, err := repo.Create(context.Background(), domain.ProductData{ExternalID: string(rune('a' + i))})
		require.NoError(t, err)
	}

	svc := NewProductService(repo, &mockFeed{})
	page, err := svc.FindAll(context.Background(), 2, 5, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 11, page.Total)
	assert.EqualValues(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)
}

func TestManualSyncReturnsCount(t *testing.T) {
	repo := newMockRepository()
	feed := &mockFeed{records: []domain.ProductData{
		{ExternalID: "ext-1", Name: "Widget"},
		{ExternalID: "ext-2", Name: "Gadget"},
	}}

	svc := NewProductService(repo, feed)
	result, err := svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Products synced successfully", result.Message)
	assert.Equal(t, 2, result.SyncedCount)
	assert.Equal(t, 1, repo.upsertCalls)
}

func TestManualSyncPropagatesFetchError(t *testing.T) {
	repo := newMockRepository()
	feed := &mockFeed{err: errors.New("connection refused")}

	svc := NewProductService(repo, feed)
	_, err := svc.Sync(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, repo.upsertCalls)
}

func TestManualSyncWithEmptyFeedUpserts(t *testing.T) {
	repo := newMockRepository()
	feed := &mockFeed{}

	svc := NewProductService(repo, feed)
	result, err := svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.SyncedCount)
	assert.Equal(t, 1, repo.upsertCalls)
}

func TestScheduledSyncSkipsStoreOnEmptyFeed(t *testing.T) {
	repo := newMockRepository()
	feed := &mockFeed{}

	svc := NewProductService(repo, feed)
	svc.ScheduledSync(context.Background())
	assert.Equal(t, 1, feed.calls)
	assert.Equal(t, 0, repo.upsertCalls)
}

func TestScheduledSyncSwallowsErrors(t *testing.T) {
	repo := newMockRepository()
	feed := &mockFeed{err: errors.New("boom")}

	svc := NewProductService(repo, feed)
	// must not panic or propagate
	svc.ScheduledSync(context.Background())
	assert.Equal(t, 0, repo.upsertCalls)
}

func TestSyncTwiceYieldsSameState(t *testing.T) {
	repo := newMockRepository()
	feed := &mockFeed{records: []domain.ProductData{
		{ExternalID: "ext-1", Name: "Widget"},
		{ExternalID: "ext-2", Name: "Gadget"},
	}}

	svc := NewProductService(repo, feed)
	first, err := svc.Sync(context.Background())
	require.NoError(t, err)
	second, err := svc.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.SyncedCount, second.SyncedCount)
	assert.Len(t, repo.products, 2)
}
