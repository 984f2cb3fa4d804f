package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/techadict/shop/internal/cart/repo"
	"github.com/techadict/shop/internal/cart/transport"
	"github.com/techadict/shop/internal/models"
	"github.com/techadict/shop/pkg/apperr"
	"github.com/techadict/shop/pkg/idgen"
)

type CartService struct {
	Repo *repo.GormRepo
}

func (s *CartService) open(ctx context.Context, userID string) (*models.User, *models.Cart, error) {
	u, err := s.Repo.FindUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: user not found: %s", apperr.ErrNotFound, userID)
		}
		return nil, nil, err
	}
	cart, err := s.Repo.FindOrCreateCart(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return u, cart, nil
}

func (s *CartService) render(ctx context.Context, u *models.User, cart *models.Cart) (*transport.CartResponse, error) {
	lines, err := s.Repo.Lines(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	resp := &transport.CartResponse{
		ID:       cart.ID,
		UserID:   cart.UserID,
		UserName: u.FullName(),
		Items:    make([]transport.CartItemResponse, 0, len(lines)),
	}
	for _, l := range lines {
		resp.TotalPrice += l.Price
		resp.Items = append(resp.Items, transport.CartItemResponse{
			ID:          l.ID,
			VariantID:   l.VariantID,
			VariantName: l.VariantName,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			ImageURL:    l.ImageURL,
			Price:       l.Price,
			Quantity:    l.Quantity,
		})
	}
	return resp, nil
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*transport.CartResponse, error) {
	u, cart, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, u, cart)
}

// AddItem adds quantity units of a variant, accumulating onto an existing
// line. Line price is always the current unit price times quantity.
func (s *CartService) AddItem(ctx context.Context, userID string, req transport.AddItemRequest) (*transport.CartResponse, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be greater than 0", apperr.ErrValidation)
	}
	u, cart, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}
	v, err := s.Repo.FindVariant(ctx, req.VariantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: variant not found: %s", apperr.ErrNotFound, req.VariantID)
		}
		return nil, err
	}

	err = s.Repo.AddToItem(ctx, &models.CartItem{
		ID:        idgen.Generate(idgen.CartItem),
		CartID:    cart.ID,
		VariantID: v.ID,
		Quantity:  req.Quantity,
		Price:     v.Price * int64(req.Quantity),
	}, v.Price)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, u, cart)
}

func (s *CartService) UpdateItem(ctx context.Context, userID string, req transport.UpdateItemRequest) (*transport.CartResponse, error) {
	u, cart, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}
	item, err := s.Repo.FindItem(ctx, cart.ID, req.VariantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: item not found in cart", apperr.ErrNotFound)
		}
		return nil, err
	}

	if req.Quantity <= 0 {
		if _, err := s.Repo.DeleteItem(ctx, cart.ID, req.VariantID); err != nil {
			return nil, err
		}
		return s.render(ctx, u, cart)
	}

	unit := item.Price / int64(item.Quantity)
	if v, err := s.Repo.FindVariant(ctx, req.VariantID); err == nil {
		unit = v.Price
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	item.Quantity = req.Quantity
	item.Price = unit * int64(req.Quantity)
	if err := s.Repo.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	return s.render(ctx, u, cart)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, variantID string) (*transport.CartResponse, error) {
	u, cart, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}
	deleted, err := s.Repo.DeleteItem(ctx, cart.ID, variantID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, fmt.Errorf("%w: item not found in cart", apperr.ErrNotFound)
	}
	return s.render(ctx, u, cart)
}

func (s *CartService) ClearCart(ctx context.Context, userID string) (*transport.CartResponse, error) {
	u, cart, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.ClearItems(ctx, cart.ID); err != nil {
		return nil, err
	}
	return s.render(ctx, u, cart)
}
