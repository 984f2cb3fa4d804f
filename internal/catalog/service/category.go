package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/techadict/shop/internal/catalog/repo"
	"github.com/techadict/shop/internal/catalog/transport"
	"github.com/techadict/shop/internal/models"
	"github.com/techadict/shop/pkg/apperr"
	"github.com/techadict/shop/pkg/cache"
	"github.com/techadict/shop/pkg/db"
	"github.com/techadict/shop/pkg/idgen"
	"github.com/techadict/shop/pkg/logging"
)

type CategoryService struct {
	Repo  *repo.GormRepo
	Cache *cache.Cache
}

func (s *CategoryService) ensureNameFree(ctx context.Context, name, exceptID string) error {
	taken, err := s.Repo.CategoryNameTaken(ctx, name, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: category name already exists", apperr.ErrConflict)
	}
	return nil
}

func (s *CategoryService) Create(ctx context.Context, req transport.CategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(ctx, name, ""); err != nil {
		return nil, err
	}
	c := &models.Category{
		ID:          idgen.Generate(idgen.Category),
		Name:        name,
		Description: req.Description,
		Image:       req.Image,
	}
	if err := s.Repo.CreateCategory(ctx, c); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: category name already exists", apperr.ErrConflict)
		}
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) GetAll(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CategoryService) GetByID(ctx context.Context, id string) (*models.Category, error) {
	c, err := s.Repo.FindCategory(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category not found: %s", apperr.ErrNotFound, id)
		}
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, req transport.CategoryRequest) (*models.Category, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	renamed := name != c.Name
	if renamed {
		if err := s.ensureNameFree(ctx, name, id); err != nil {
			return nil, err
		}
	}
	c.Name = name
	c.Description = req.Description
	c.Image = req.Image
	if err := s.Repo.SaveCategory(ctx, c); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: category name already exists", apperr.ErrConflict)
		}
		return nil, err
	}
	if renamed {
		invalidateProductsOf(ctx, s.Repo, s.Cache, "category_id", id)
	}
	return c, nil
}

// Delete refuses to orphan products.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	n, err := s.Repo.CountProducts(ctx, "category_id", id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: category has %d product(s)", apperr.ErrConflict, n)
	}
	_, err = s.Repo.DeleteCategory(ctx, id)
	return err
}

// invalidateProductsOf drops cached responses of products that embed the
// renamed category or brand.
func invalidateProductsOf(ctx context.Context, r *repo.GormRepo, c *cache.Cache, column, id string) {
	if !c.Enabled() {
		return
	}
	ids, err := r.ProductIDsBy(ctx, column, id)
	if err != nil {
		logging.FromContext(ctx).Warn("cache_invalidate_failed", "column", column, "id", id, "error", err)
		c.Bump(ctx)
		return
	}
	c.InvalidateProducts(ctx, ids...)
}
