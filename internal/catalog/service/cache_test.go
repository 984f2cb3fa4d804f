package service

import (
	"context"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techadict/shop/internal/catalog/transport"
	"github.com/techadict/shop/internal/models"
	"github.com/techadict/shop/internal/testutil"
	"github.com/techadict/shop/pkg/apperr"
	"github.com/techadict/shop/pkg/metrics"
)

func newCachedFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	c, _ := testutil.NewCache(t)
	f.svc.Cache = c
	f.svc.Metrics = metrics.New("test")
	return f
}

func TestProductService_GetByID_CacheHitThenWriteThenMiss(t *testing.T) {
	t.Parallel()

	f := newCachedFixture(t)
	ctx := context.Background()
	lookups := f.svc.Metrics.CacheLookups

	p, err := f.svc.Create(ctx, f.request("Tablet", transport.VariantRequest{Name: "Wifi", Price: 500, Quantity: 2}))
	require.NoError(t, err)

	first, err := f.svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tablet", first.Name)
	assert.InDelta(t, 1, promtest.ToFloat64(lookups.WithLabelValues("miss")), 0)

	// a change behind the service's back is not seen while the entry lives
	require.NoError(t, f.db.Model(&models.Product{}).Where("id = ?", p.ID).Update("name", "Renamed").Error)
	second, err := f.svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tablet", second.Name)
	assert.InDelta(t, 1, promtest.ToFloat64(lookups.WithLabelValues("hit")), 0)

	name := "Tablet Pro"
	_, err = f.svc.Update(ctx, p.ID, transport.ProductUpdateRequest{Name: &name})
	require.NoError(t, err)

	third, err := f.svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tablet Pro", third.Name)
	assert.InDelta(t, 2, promtest.ToFloat64(lookups.WithLabelValues("miss")), 0)
}

func TestProductService_GetAll_VersionedListCache(t *testing.T) {
	t.Parallel()

	f := newCachedFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.request("Laptop", transport.VariantRequest{Name: "i5", Price: 900, Quantity: 1}))
	require.NoError(t, err)

	page, err := f.svc.GetAll(ctx, transport.ProductFilter{}, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)

	before, err := f.svc.Cache.Version(ctx)
	require.NoError(t, err)

	// inserted directly, so the cached page still has one item
	testutil.CreateProduct(t, f.db, "Ghost", testutil.Variant{Name: "x", Price: 1, Quantity: 1})
	page, err = f.svc.GetAll(ctx, transport.ProductFilter{}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	_, err = f.svc.Create(ctx, f.request("Desktop", transport.VariantRequest{Name: "i7", Price: 1500, Quantity: 1}))
	require.NoError(t, err)

	after, err := f.svc.Cache.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	page, err = f.svc.GetAll(ctx, transport.ProductFilter{}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
}

func TestProductService_Delete_DropsCachedDetail(t *testing.T) {
	t.Parallel()

	f := newCachedFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, f.request("Camera", transport.VariantRequest{Name: "Body", Price: 700, Quantity: 1}))
	require.NoError(t, err)
	_, err = f.svc.GetByID(ctx, p.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, p.ID))

	_, err = f.svc.GetByID(ctx, p.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCategoryAndBrandRename_RefreshCachedProducts(t *testing.T) {
	t.Parallel()

	f := newCachedFixture(t)
	ctx := context.Background()
	categories := &CategoryService{Repo: f.svc.Repo, Cache: f.svc.Cache}
	brands := &BrandService{Repo: f.svc.Repo, Cache: f.svc.Cache}

	p, err := f.svc.Create(ctx, f.request("Phone", transport.VariantRequest{Name: "64GB", Price: 100, Quantity: 1}))
	require.NoError(t, err)
	cached, err := f.svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "Phones", cached.CategoryName)
	page, err := f.svc.GetAll(ctx, transport.ProductFilter{}, 1, 10)
	require.NoError(t, err)
	require.Equal(t, "Acme", page.Items[0].BrandName)

	_, err = categories.Update(ctx, f.category.ID, transport.CategoryRequest{Name: "Smartphones"})
	require.NoError(t, err)
	_, err = brands.Update(ctx, f.brand.ID, transport.BrandRequest{Name: "Acme Corp"})
	require.NoError(t, err)

	fresh, err := f.svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Smartphones", fresh.CategoryName)
	assert.Equal(t, "Acme Corp", fresh.BrandName)

	page, err = f.svc.GetAll(ctx, transport.ProductFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", page.Items[0].BrandName)
	assert.Equal(t, "Smartphones", page.Items[0].CategoryName)
}
