package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/techadict/shop/internal/models"
	"github.com/techadict/shop/internal/user/repo"
	"github.com/techadict/shop/internal/user/transport"
	"github.com/techadict/shop/pkg/apperr"
	"github.com/techadict/shop/pkg/idgen"
)

type AddressService struct {
	Repo *repo.GormRepo
}

func (s *AddressService) GetByUser(ctx context.Context, userID string) ([]models.Address, error) {
	return s.Repo.ListAddressesByUser(ctx, userID)
}

func (s *AddressService) GetByID(ctx context.Context, id string) (*models.Address, error) {
	a, err := s.Repo.FindAddress(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: address not found: %s", apperr.ErrNotFound, id)
		}
		return nil, err
	}
	return a, nil
}

func (s *AddressService) Create(ctx context.Context, req transport.AddressRequest) (*models.Address, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", apperr.ErrValidation)
	}
	ok, err := s.Repo.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: user not found: %s", apperr.ErrNotFound, userID)
	}

	a := &models.Address{ID: idgen.Generate(idgen.Address), UserID: userID}
	apply(a, req)
	if err := s.Repo.CreateAddress(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Update overwrites the address fields; the owner never changes.
func (s *AddressService) Update(ctx context.Context, id string, req transport.AddressRequest) (*models.Address, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(a, req)
	if err := s.Repo.SaveAddress(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AddressService) Delete(ctx context.Context, id string) error {
	deleted, err := s.Repo.DeleteAddress(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: address not found: %s", apperr.ErrNotFound, id)
	}
	return nil
}

func apply(a *models.Address, req transport.AddressRequest) {
	a.FullName = req.FullName
	a.Phone = req.Phone
	a.Detail = req.Detail
	a.Ward = req.Ward
	a.District = req.District
	a.City = req.City
	if req.IsDefault != nil {
		a.IsDefault = *req.IsDefault
	}
}
