package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/techadict/shop/internal/models"
	"github.com/techadict/shop/internal/user/repo"
	"github.com/techadict/shop/internal/user/transport"
	"github.com/techadict/shop/pkg/apperr"
	"github.com/techadict/shop/pkg/hash"
	"github.com/techadict/shop/pkg/logging"
)

// AccountCreator stores a new user with hashed password and resolved roles.
type AccountCreator interface {
	CreateAccount(ctx context.Context, req transport.UserRequest) (*models.User, error)
}

type UserService struct {
	Repo     *repo.GormRepo
	Accounts AccountCreator
}

func userNotFound(err error, key string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: user not found: %s", apperr.ErrNotFound, key)
	}
	return err
}

func (s *UserService) Create(ctx context.Context, req transport.UserRequest) (*transport.UserResponse, error) {
	u, err := s.Accounts.CreateAccount(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, u.ID)
}

func (s *UserService) GetAll(ctx context.Context) ([]transport.UserResponse, error) {
	users, err := s.Repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transport.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, transport.ToUserResponse(&users[i]))
	}
	return out, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*transport.UserResponse, error) {
	u, err := s.Repo.FindUserByID(ctx, id)
	if err != nil {
		return nil, userNotFound(err, id)
	}
	resp := transport.ToUserResponse(u)
	return &resp, nil
}

// GetMyInfo looks the caller up by the email carried in their token.
func (s *UserService) GetMyInfo(ctx context.Context, email string) (*transport.UserResponse, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: unauthenticated", apperr.ErrUnauthenticated)
	}
	u, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, userNotFound(err, email)
	}
	resp := transport.ToUserResponse(u)
	return &resp, nil
}

func (s *UserService) Update(ctx context.Context, id string, req transport.UserUpdateRequest) (*transport.UserResponse, error) {
	l := logging.FromContext(ctx).With("svc", "user.update", "user_id", id)

	u, err := s.Repo.FindUserByID(ctx, id)
	if err != nil {
		return nil, userNotFound(err, id)
	}

	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.Password != nil {
		pw, err := hash.HashPassword(*req.Password)
		if err != nil {
			l.Error("update_user_error", "reason", "cannot hash the password", "error", err)
			return nil, err
		}
		u.Password = pw
	}

	var roles []models.Role
	if req.Roles != nil {
		if roles, err = s.Repo.FindRolesByNames(ctx, req.Roles); err != nil {
			return nil, err
		}
	}

	if err := s.Repo.UpdateUser(ctx, u, roles); err != nil {
		l.Error("update_user_error", "reason", "cannot save user", "error", err)
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	deleted, err := s.Repo.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: user not found: %s", apperr.ErrNotFound, id)
	}
	logging.FromContext(ctx).Info("user_deleted", "user_id", id)
	return nil
}
