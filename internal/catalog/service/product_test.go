package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/techadict/shop/internal/catalog/repo"
	"github.com/techadict/shop/internal/catalog/search"
	"github.com/techadict/shop/internal/catalog/transport"
	"github.com/techadict/shop/internal/models"
	"github.com/techadict/shop/internal/testutil"
	"github.com/techadict/shop/pkg/apperr"
	"github.com/techadict/shop/pkg/events"
)

type fakeIndex struct {
	mu      sync.Mutex
	docs    map[string]search.Document
	hits    []string
	err     error
	deleted []string
}

func (f *fakeIndex) Search(_ context.Context, _ string, _, _ int) (int64, []string, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	return int64(len(f.hits)), f.hits, nil
}

func (f *fakeIndex) Put(_ context.Context, doc search.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.docs == nil {
		f.docs = map[string]search.Document{}
	}
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeIndex) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fixture struct {
	db       *gorm.DB
	svc      *ProductService
	index    *fakeIndex
	rec      *events.Recorder
	category *models.Category
	brand    *models.Brand
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := testutil.NewDB(t)
	f := &fixture{
		db:       gdb,
		index:    &fakeIndex{},
		rec:      &events.Recorder{},
		category: testutil.CreateCategory(t, gdb, "Phones"),
		brand:    testutil.CreateBrand(t, gdb, "Acme"),
	}
	f.svc = &ProductService{
		Repo:   &repo.GormRepo{DB: gdb},
		Index:  f.index,
		Events: f.rec,
		Topic:  "product_events",
	}
	return f
}

func (f *fixture) request(name string, variants ...transport.VariantRequest) transport.ProductRequest {
	return transport.ProductRequest{
		Name:        name,
		Description: name + " with a big screen",
		OriginPrice: 1200,
		CategoryID:  f.category.ID,
		BrandID:     f.brand.ID,
		Images:      []string{"a.png", "b.png"},
		Variants:    variants,
	}
}

func TestProductService_Create(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, f.request("Phone X",
		transport.VariantRequest{Name: "64GB", Price: 1000, Quantity: 3},
		transport.VariantRequest{Name: "128GB", Price: 1200, Quantity: 4},
	))
	require.NoError(t, err)

	assert.Regexp(t, `^PROD-`, p.ID)
	assert.Equal(t, 7, p.Quantity)
	assert.Equal(t, "Phones", p.CategoryName)
	assert.Equal(t, "Acme", p.BrandName)
	assert.Equal(t, []string{"a.png", "b.png"}, p.Images)
	require.Len(t, p.Variants, 2)
	for _, v := range p.Variants {
		assert.Regexp(t, `^VAR-`, v.ID)
	}

	assert.Contains(t, f.index.docs, p.ID)
	assert.Equal(t, []string{"product_created"}, f.rec.Types())
}

func TestProductService_Create_InvalidRefs(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	req := f.request("Phone")
	req.CategoryID = "CAT-missing"
	_, err := f.svc.Create(ctx, req)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, "invalid category id", apperr.Message(err))

	req = f.request("Phone")
	req.BrandID = "BR-missing"
	_, err = f.svc.Create(ctx, req)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, "invalid brand id", apperr.Message(err))

	assert.Empty(t, f.rec.Events())
}

func TestProductService_Update_ReconcilesVariants(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, f.request("Phone X",
		transport.VariantRequest{Name: "64GB", Price: 1000, Quantity: 3},
		transport.VariantRequest{Name: "128GB", Price: 1200, Quantity: 4},
	))
	require.NoError(t, err)
	kept, dropped := p.Variants[0], p.Variants[1]

	// a cart line on the variant that is about to disappear
	cart := models.Cart{ID: "CART-1", UserID: "USR-1", Items: []models.CartItem{
		{ID: "CI-1", VariantID: dropped.ID, Quantity: 1, Price: dropped.Price},
	}}
	require.NoError(t, f.db.Create(&cart).Error)

	name := "Phone X2"
	updated, err := f.svc.Update(ctx, p.ID, transport.ProductUpdateRequest{
		Name: &name,
		Variants: []transport.VariantRequest{
			{ID: kept.ID, Name: kept.Name, Price: 900, Quantity: 10},
			{Name: "256GB", Price: 1500, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Phone X2", updated.Name)
	assert.Equal(t, p.Description, updated.Description)
	assert.Equal(t, []string{"a.png", "b.png"}, updated.Images)
	assert.Equal(t, 11, updated.Quantity)
	require.Len(t, updated.Variants, 2)

	ids := []string{updated.Variants[0].ID, updated.Variants[1].ID}
	assert.Contains(t, ids, kept.ID)
	assert.NotContains(t, ids, dropped.ID)

	var lines int64
	require.NoError(t, f.db.Model(&models.CartItem{}).Where("variant_id = ?", dropped.ID).Count(&lines).Error)
	assert.Zero(t, lines)

	assert.Equal(t, "Phone X2", f.index.docs[p.ID].Name)
	assert.Equal(t, []string{"product_created", "product_updated"}, f.rec.Types())
}

func TestProductService_Update_ReplacesImagesAndChecksRefs(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, f.request("Tablet", transport.VariantRequest{Name: "Wifi", Price: 500, Quantity: 2}))
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, p.ID, transport.ProductUpdateRequest{Images: []string{"c.png"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"c.png"}, updated.Images)
	assert.Equal(t, 2, updated.Quantity)
	require.Len(t, updated.Variants, 1)

	missing := "BR-none"
	_, err = f.svc.Update(ctx, p.ID, transport.ProductUpdateRequest{BrandID: &missing})
	require.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.svc.Update(ctx, "PROD-none", transport.ProductUpdateRequest{})
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestProductService_Delete(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, f.request("Watch", transport.VariantRequest{Name: "S", Price: 300, Quantity: 5}))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, p.ID))

	_, err = f.svc.GetByID(ctx, p.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	var variants, images int64
	require.NoError(t, f.db.Model(&models.ProductVariant{}).Where("product_id = ?", p.ID).Count(&variants).Error)
	require.NoError(t, f.db.Model(&models.ProductImage{}).Where("product_id = ?", p.ID).Count(&images).Error)
	assert.Zero(t, variants)
	assert.Zero(t, images)

	assert.Equal(t, []string{p.ID}, f.index.deleted)
	assert.Equal(t, []string{"product_created", "product_deleted"}, f.rec.Types())

	err = f.svc.Delete(ctx, p.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestProductService_GetAll_FiltersAndPages(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	other := testutil.CreateBrand(t, f.db, "Other")

	for _, name := range []string{"A", "B", "C"} {
		_, err := f.svc.Create(ctx, f.request(name))
		require.NoError(t, err)
	}
	req := f.request("D")
	req.BrandID = other.ID
	req.Featured = true
	_, err := f.svc.Create(ctx, req)
	require.NoError(t, err)

	page, err := f.svc.GetAll(ctx, transport.ProductFilter{}, 1, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 4, page.Total)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 3, page.Size)

	page, err = f.svc.GetAll(ctx, transport.ProductFilter{}, 2, 3)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	page, err = f.svc.GetAll(ctx, transport.ProductFilter{BrandID: other.ID}, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "D", page.Items[0].Name)
	assert.Equal(t, "Other", page.Items[0].BrandName)

	featured := true
	page, err = f.svc.GetAll(ctx, transport.ProductFilter{Featured: &featured}, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, 20, page.Size)
}

func TestProductService_Search(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	phone, err := f.svc.Create(ctx, f.request("Galaxy Phone"))
	require.NoError(t, err)
	tab, err := f.svc.Create(ctx, f.request("Galaxy Tab"))
	require.NoError(t, err)

	f.index.hits = []string{tab.ID, "PROD-stale", phone.ID}
	page, err := f.svc.Search(ctx, "galaxy", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, tab.ID, page.Items[0].ID)
	assert.Equal(t, phone.ID, page.Items[1].ID)

	f.index.err = errors.New("cluster down")
	page, err = f.svc.Search(ctx, "TAB", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, tab.ID, page.Items[0].ID)

	_, err = f.svc.Search(ctx, "  ", 1, 10)
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestProductService_SearchWithoutIndex(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.svc.Index = nil
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.request("Laptop Pro"))
	require.NoError(t, err)

	page, err := f.svc.Search(ctx, "big screen", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	page, err = f.svc.Search(ctx, "nothing", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}
