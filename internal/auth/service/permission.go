package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/techadict/shop/internal/auth/repo"
	"github.com/techadict/shop/internal/auth/transport"
	"github.com/techadict/shop/internal/models"
	"github.com/techadict/shop/pkg/apperr"
	"github.com/techadict/shop/pkg/db"
)

type PermissionService struct {
	Repo *repo.GormRepo
}

func (s *PermissionService) Create(ctx context.Context, req transport.PermissionRequest) (*transport.PermissionResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperr.ErrValidation)
	}
	if _, err := s.Repo.FindPermission(ctx, name); err == nil {
		return nil, fmt.Errorf("%w: permission already exists: %s", apperr.ErrConflict, name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p := &models.Permission{Name: name, Description: req.Description}
	if err := s.Repo.CreatePermission(ctx, p); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: permission already exists: %s", apperr.ErrConflict, name)
		}
		return nil, err
	}
	resp := transport.ToPermissionResponse(p)
	return &resp, nil
}

func (s *PermissionService) GetAll(ctx context.Context) ([]transport.PermissionResponse, error) {
	perms, err := s.Repo.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transport.PermissionResponse, 0, len(perms))
	for i := range perms {
		out = append(out, transport.ToPermissionResponse(&perms[i]))
	}
	return out, nil
}

func (s *PermissionService) GetByName(ctx context.Context, name string) (*transport.PermissionResponse, error) {
	p, err := s.Repo.FindPermission(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: permission not found: %s", apperr.ErrNotFound, name)
		}
		return nil, err
	}
	resp := transport.ToPermissionResponse(p)
	return &resp, nil
}

func (s *PermissionService) Update(ctx context.Context, name string, req transport.PermissionUpdateRequest) (*transport.PermissionResponse, error) {
	p, err := s.Repo.FindPermission(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: permission not found: %s", apperr.ErrNotFound, name)
		}
		return nil, err
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if err := s.Repo.UpdatePermission(ctx, p); err != nil {
		return nil, err
	}
	resp := transport.ToPermissionResponse(p)
	return &resp, nil
}

func (s *PermissionService) Delete(ctx context.Context, name string) error {
	deleted, err := s.Repo.DeletePermission(ctx, name)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: permission not found: %s", apperr.ErrNotFound, name)
	}
	return nil
}
