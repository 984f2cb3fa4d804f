package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/techadict/shop/internal/catalog/repo"
	"github.com/techadict/shop/internal/catalog/search"
	"github.com/techadict/shop/internal/catalog/transport"
	"github.com/techadict/shop/internal/models"
	"github.com/techadict/shop/pkg/apperr"
	"github.com/techadict/shop/pkg/cache"
	"github.com/techadict/shop/pkg/events"
	"github.com/techadict/shop/pkg/idgen"
	"github.com/techadict/shop/pkg/logging"
	"github.com/techadict/shop/pkg/metrics"
	"github.com/techadict/shop/pkg/pagination"
)

// Indexer is the full-text side of the catalog.
type Indexer interface {
	Search(ctx context.Context, query string, from, size int) (int64, []string, error)
	Put(ctx context.Context, doc search.Document) error
	Delete(ctx context.Context, id string) error
}

type ProductService struct {
	Repo *repo.GormRepo
	// Index is optional; without it search runs against the database.
	Index   Indexer
	Cache   *cache.Cache
	Events  events.Publisher
	Topic   string
	Metrics *metrics.Metrics
}

func listKey(ver int64, f transport.ProductFilter, page, size int) string {
	featured := "-"
	if f.Featured != nil {
		featured = fmt.Sprint(*f.Featured)
	}
	return fmt.Sprintf("products:v%d:list:c=%s:b=%s:f=%s:p=%d:s=%d", ver, f.CategoryID, f.BrandID, featured, page, size)
}

func productNotFound(err error, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: product not found: %s", apperr.ErrNotFound, id)
	}
	return err
}

func (s *ProductService) checkRefs(ctx context.Context, categoryID, brandID string) error {
	if _, err := s.Repo.FindCategory(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: invalid category id", apperr.ErrNotFound)
		}
		return err
	}
	if _, err := s.Repo.FindBrand(ctx, brandID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: invalid brand id", apperr.ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *ProductService) toResponses(ctx context.Context, products []models.Product) ([]transport.ProductResponse, error) {
	catIDs := make([]string, 0, len(products))
	brandIDs := make([]string, 0, len(products))
	for _, p := range products {
		catIDs = append(catIDs, p.CategoryID)
		brandIDs = append(brandIDs, p.BrandID)
	}
	cats, err := s.Repo.CategoryNames(ctx, catIDs)
	if err != nil {
		return nil, err
	}
	brands, err := s.Repo.BrandNames(ctx, brandIDs)
	if err != nil {
		return nil, err
	}
	out := make([]transport.ProductResponse, 0, len(products))
	for i := range products {
		p := &products[i]
		out = append(out, transport.ToProductResponse(p, cats[p.CategoryID], brands[p.BrandID]))
	}
	return out, nil
}

func (s *ProductService) load(ctx context.Context, id string) (*transport.ProductResponse, error) {
	p, err := s.Repo.FindProduct(ctx, id)
	if err != nil {
		return nil, productNotFound(err, id)
	}
	resp, err := s.toResponses(ctx, []models.Product{*p})
	if err != nil {
		return nil, err
	}
	return &resp[0], nil
}

func (s *ProductService) Create(ctx context.Context, req transport.ProductRequest) (*transport.ProductResponse, error) {
	if err := s.checkRefs(ctx, req.CategoryID, req.BrandID); err != nil {
		return nil, err
	}

	p := &models.Product{
		ID:          idgen.Generate(idgen.Product),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		OriginPrice: req.OriginPrice,
		Featured:    req.Featured,
		CategoryID:  req.CategoryID,
		BrandID:     req.BrandID,
		Images:      transport.ToImageModels(req.Images),
	}
	for _, v := range req.Variants {
		m := transport.ToVariantModel(v)
		m.ID = idgen.Generate(idgen.Variant)
		p.Quantity += m.Quantity
		p.Variants = append(p.Variants, m)
	}

	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}

	resp, err := s.load(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, "create", resp)
	return resp, nil
}

func (s *ProductService) GetByID(ctx context.Context, id string) (*transport.ProductResponse, error) {
	var cached transport.ProductResponse
	if s.Cache.Enabled() {
		hit := s.Cache.GetJSON(ctx, cache.ProductDetailKey(id), &cached)
		s.Metrics.CacheLookup(hit)
		if hit {
			return &cached, nil
		}
	}

	resp, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Cache.SetJSON(ctx, cache.ProductDetailKey(id), resp)
	return resp, nil
}

func (s *ProductService) GetAll(ctx context.Context, f transport.ProductFilter, page, size int) (*transport.ProductPage, error) {
	offset, limit := pagination.Calculate(page, size)
	page = offset/limit + 1

	var key string
	if ver, err := s.Cache.Version(ctx); err == nil {
		key = listKey(ver, f, page, limit)
		var cached transport.ProductPage
		hit := s.Cache.GetJSON(ctx, key, &cached)
		s.Metrics.CacheLookup(hit)
		if hit {
			return &cached, nil
		}
	}

	products, total, err := s.Repo.ListProducts(ctx, f, offset, limit)
	if err != nil {
		return nil, err
	}
	items, err := s.toResponses(ctx, products)
	if err != nil {
		return nil, err
	}
	out := &transport.ProductPage{Items: items, Page: page, Size: limit, Total: total}
	if key != "" {
		s.Cache.SetJSON(ctx, key, out)
	}
	return out, nil
}

// Search ranks through the index when one is configured and falls back to a
// database match otherwise or when the index fails.
func (s *ProductService) Search(ctx context.Context, query string, page, size int) (*transport.ProductPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: q is required", apperr.ErrValidation)
	}
	offset, limit := pagination.Calculate(page, size)
	page = offset/limit + 1

	var (
		products []models.Product
		total    int64
		err      error
	)
	if s.Index != nil {
		var ids []string
		total, ids, err = s.Index.Search(ctx, query, offset, limit)
		if err == nil {
			products, err = s.Repo.FindProductsByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
		} else {
			logging.FromContext(ctx).Warn("product_search_index_failed", "error", err)
		}
	}
	if s.Index == nil || err != nil {
		products, total, err = s.Repo.SearchProducts(ctx, query, offset, limit)
		if err != nil {
			return nil, err
		}
	}

	items, err := s.toResponses(ctx, products)
	if err != nil {
		return nil, err
	}
	return &transport.ProductPage{Items: items, Page: page, Size: limit, Total: total}, nil
}

func (s *ProductService) Update(ctx context.Context, id string, req transport.ProductUpdateRequest) (*transport.ProductResponse, error) {
	p, err := s.Repo.FindProduct(ctx, id)
	if err != nil {
		return nil, productNotFound(err, id)
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.OriginPrice != nil {
		p.OriginPrice = *req.OriginPrice
	}
	if req.Featured != nil {
		p.Featured = *req.Featured
	}
	if req.CategoryID != nil {
		p.CategoryID = *req.CategoryID
	}
	if req.BrandID != nil {
		p.BrandID = *req.BrandID
	}
	if req.CategoryID != nil || req.BrandID != nil {
		if err := s.checkRefs(ctx, p.CategoryID, p.BrandID); err != nil {
			return nil, err
		}
	}

	var variants []models.ProductVariant
	if req.Variants != nil {
		variants = make([]models.ProductVariant, 0, len(req.Variants))
		for _, v := range req.Variants {
			variants = append(variants, transport.ToVariantModel(v))
		}
	}
	var images []models.ProductImage
	if req.Images != nil {
		images = transport.ToImageModels(req.Images)
	}

	if err := s.Repo.UpdateProduct(ctx, p, variants, images); err != nil {
		return nil, err
	}

	resp, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, "update", resp)
	return resp, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	deleted, err := s.Repo.DeleteProduct(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: product not found: %s", apperr.ErrNotFound, id)
	}

	s.Metrics.ProductOperation("delete")
	s.Cache.InvalidateProducts(ctx, id)
	if s.Index != nil {
		if err := s.Index.Delete(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("product_unindex_failed", "product_id", id, "error", err)
		}
	}
	events.Emit(ctx, s.Events, s.Topic, id, map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	return nil
}

// afterWrite runs the side channels of a create or update. None of them can
// fail the request.
func (s *ProductService) afterWrite(ctx context.Context, op string, p *transport.ProductResponse) {
	s.Metrics.ProductOperation(op)
	s.Cache.InvalidateProducts(ctx, p.ID)

	if s.Index != nil {
		doc := search.Document{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			CategoryID:  p.CategoryID,
			BrandID:     p.BrandID,
			OriginPrice: p.OriginPrice,
			Quantity:    p.Quantity,
			Featured:    p.Featured,
		}
		if err := s.Index.Put(ctx, doc); err != nil {
			logging.FromContext(ctx).Warn("product_index_failed", "product_id", p.ID, "error", err)
		}
	}

	events.Emit(ctx, s.Events, s.Topic, p.ID, map[string]any{
		"type":      "product_" + op + "d",
		"productID": p.ID,
		"name":      p.Name,
		"quantity":  p.Quantity,
	})
}
