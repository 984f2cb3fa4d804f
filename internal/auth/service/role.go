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

type RoleService struct {
	Repo *repo.GormRepo
}

func (s *RoleService) resolvePermissions(ctx context.Context, names []string) ([]models.Permission, error) {
	perms, err := s.Repo.FindPermissionsByNames(ctx, names)
	if err != nil {
		return nil, err
	}
	found := make(map[string]bool, len(perms))
	for _, p := range perms {
		found[p.Name] = true
	}
	for _, n := range names {
		if !found[n] {
			return nil, fmt.Errorf("%w: permission not found: %s", apperr.ErrNotFound, n)
		}
	}
	return perms, nil
}

func (s *RoleService) Create(ctx context.Context, req transport.RoleRequest) (*transport.RoleResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperr.ErrValidation)
	}
	if _, err := s.Repo.FindRole(ctx, name); err == nil {
		return nil, fmt.Errorf("%w: role already exists: %s", apperr.ErrConflict, name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	perms, err := s.resolvePermissions(ctx, req.Permissions)
	if err != nil {
		return nil, err
	}

	role := &models.Role{Name: name, Description: req.Description, Permissions: perms}
	if err := s.Repo.CreateRole(ctx, role); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: role already exists: %s", apperr.ErrConflict, name)
		}
		return nil, err
	}
	resp := transport.ToRoleResponse(role)
	return &resp, nil
}

func (s *RoleService) GetAll(ctx context.Context) ([]transport.RoleResponse, error) {
	roles, err := s.Repo.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transport.RoleResponse, 0, len(roles))
	for i := range roles {
		out = append(out, transport.ToRoleResponse(&roles[i]))
	}
	return out, nil
}

func (s *RoleService) find(ctx context.Context, name string) (*models.Role, error) {
	role, err := s.Repo.FindRole(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: role not found: %s", apperr.ErrNotFound, name)
		}
		return nil, err
	}
	return role, nil
}

func (s *RoleService) GetByName(ctx context.Context, name string) (*transport.RoleResponse, error) {
	role, err := s.find(ctx, name)
	if err != nil {
		return nil, err
	}
	resp := transport.ToRoleResponse(role)
	return &resp, nil
}

func (s *RoleService) Update(ctx context.Context, name string, req transport.RoleUpdateRequest) (*transport.RoleResponse, error) {
	role, err := s.find(ctx, name)
	if err != nil {
		return nil, err
	}
	if req.Description != nil {
		role.Description = *req.Description
	}

	var perms []models.Permission
	if req.Permissions != nil {
		if perms, err = s.resolvePermissions(ctx, req.Permissions); err != nil {
			return nil, err
		}
	}
	if err := s.Repo.UpdateRole(ctx, role, perms); err != nil {
		return nil, err
	}
	return s.GetByName(ctx, name)
}

func (s *RoleService) Delete(ctx context.Context, name string) error {
	deleted, err := s.Repo.DeleteRole(ctx, name)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: role not found: %s", apperr.ErrNotFound, name)
	}
	return nil
}
