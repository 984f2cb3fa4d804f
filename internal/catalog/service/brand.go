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
)

type BrandService struct {
	Repo  *repo.GormRepo
	Cache *cache.Cache
}

func (s *BrandService) ensureNameFree(ctx context.Context, name, exceptID string) error {
	taken, err := s.Repo.BrandNameTaken(ctx, name, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: brand name already exists", apperr.ErrConflict)
	}
	return nil
}

func (s *BrandService) Create(ctx context.Context, req transport.BrandRequest) (*models.Brand, error) {
	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(ctx, name, ""); err != nil {
		return nil, err
	}
	b := &models.Brand{
		ID:      idgen.Generate(idgen.Brand),
		Name:    name,
		Country: req.Country,
		LogoURL: req.LogoURL,
	}
	if err := s.Repo.CreateBrand(ctx, b); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: brand name already exists", apperr.ErrConflict)
		}
		return nil, err
	}
	return b, nil
}

func (s *BrandService) GetAll(ctx context.Context) ([]models.Brand, error) {
	return s.Repo.ListBrands(ctx)
}

func (s *BrandService) GetByID(ctx context.Context, id string) (*models.Brand, error) {
	b, err := s.Repo.FindBrand(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: brand not found: %s", apperr.ErrNotFound, id)
		}
		return nil, err
	}
	return b, nil
}

func (s *BrandService) Update(ctx context.Context, id string, req transport.BrandRequest) (*models.Brand, error) {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	renamed := name != b.Name
	if renamed {
		if err := s.ensureNameFree(ctx, name, id); err != nil {
			return nil, err
		}
	}
	b.Name = name
	b.Country = req.Country
	b.LogoURL = req.LogoURL
	if err := s.Repo.SaveBrand(ctx, b); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: brand name already exists", apperr.ErrConflict)
		}
		return nil, err
	}
	if renamed {
		invalidateProductsOf(ctx, s.Repo, s.Cache, "brand_id", id)
	}
	return b, nil
}

func (s *BrandService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	n, err := s.Repo.CountProducts(ctx, "brand_id", id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: brand has %d product(s)", apperr.ErrConflict, n)
	}
	_, err = s.Repo.DeleteBrand(ctx, id)
	return err
}
