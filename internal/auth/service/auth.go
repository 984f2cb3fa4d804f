package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/techadict/shop/internal/auth/repo"
	"github.com/techadict/shop/internal/auth/transport"
	"github.com/techadict/shop/internal/models"
	"github.com/techadict/shop/pkg/apperr"
	"github.com/techadict/shop/pkg/hash"
	"github.com/techadict/shop/pkg/idgen"
	"github.com/techadict/shop/pkg/logging"
	"github.com/techadict/shop/pkg/metrics"
	"github.com/techadict/shop/pkg/tokens"
)

var (
	errUnauthenticated = fmt.Errorf("%w: unauthenticated", apperr.ErrUnauthenticated)
	errRevoked         = fmt.Errorf("%w: unauthorized", apperr.ErrUnauthenticated)
)

type AuthService struct {
	Repo    *repo.GormRepo
	Signer  *tokens.Signer
	Metrics *metrics.Metrics
}

func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*transport.AuthenticationResponse, error) {
	l := logging.FromContext(ctx).With("svc", "auth.authenticate")

	user, err := s.Repo.FindUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.Metrics.AuthAttempt("unknown_user")
			return nil, fmt.Errorf("%w: user not existed", apperr.ErrUnauthenticated)
		}
		l.Error("authenticate_error", "reason", "cannot load user", "error", err)
		return nil, err
	}

	if !hash.CheckPassword(user.Password, password) {
		s.Metrics.AuthAttempt("bad_password")
		return nil, errUnauthenticated
	}

	token, _, err := s.GenerateToken(user)
	if err != nil {
		l.Error("authenticate_error", "reason", "cannot sign token", "error", err)
		return nil, err
	}

	s.Metrics.AuthAttempt("success")
	return &transport.AuthenticationResponse{Token: token, Authenticated: true}, nil
}

// GenerateToken signs a token for user; roles and permissions must be loaded.
func (s *AuthService) GenerateToken(user *models.User) (string, *tokens.AccessClaims, error) {
	return s.Signer.Sign(user.Email, user.ID, BuildScope(user))
}

// BuildScope lists ROLE_<name> followed by that role's permissions for every
// role, ordered by role name.
func BuildScope(user *models.User) string {
	roles := make([]models.Role, len(user.Roles))
	copy(roles, user.Roles)
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })

	var parts []string
	for _, r := range roles {
		parts = append(parts, "ROLE_"+r.Name)
		perms := make([]string, 0, len(r.Permissions))
		for _, p := range r.Permissions {
			perms = append(perms, p.Name)
		}
		sort.Strings(perms)
		parts = append(parts, perms...)
	}
	return strings.Join(parts, " ")
}

// Verify checks signature, expiry and revocation.
func (s *AuthService) Verify(ctx context.Context, token string) (*tokens.AccessClaims, error) {
	claims, err := s.Signer.Parse(token)
	if err != nil {
		return nil, errUnauthenticated
	}
	if claims.ID == "" {
		return nil, errUnauthenticated
	}

	revoked, err := s.Repo.IsInvalidated(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, errRevoked
	}
	return claims, nil
}

func (s *AuthService) Introspect(ctx context.Context, token string) (*transport.IntrospectResponse, error) {
	_, err := s.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthenticated) {
			return &transport.IntrospectResponse{Valid: false}, nil
		}
		return nil, err
	}
	return &transport.IntrospectResponse{Valid: true}, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.Verify(ctx, token)
	if err != nil {
		return err
	}
	if err := s.Repo.InvalidateToken(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		logging.FromContext(ctx).Error("logout_error", "reason", "cannot store invalidated token", "error", err)
		return err
	}
	return nil
}

// Register creates a self-service account. Requested roles are honoured only
// when grantRoles is set, which callers reserve for admins; everyone else gets
// USER.
func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest, grantRoles bool) (*transport.AuthenticationResponse, error) {
	if !grantRoles && len(req.Roles) > 0 {
		logging.FromContext(ctx).Warn("register_roles_ignored", "email", req.Email, "roles", req.Roles)
		req.Roles = nil
	}
	if _, err := s.CreateAccount(ctx, req); err != nil {
		return nil, err
	}
	return &transport.AuthenticationResponse{Authenticated: true}, nil
}

// CreateAccount hashes the password, resolves roles by name (unknown names
// are dropped, USER when none remain) and stores the user.
func (s *AuthService) CreateAccount(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.create_account")

	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", apperr.ErrValidation)
	}
	if req.Password == "" {
		return nil, fmt.Errorf("%w: password is required", apperr.ErrValidation)
	}

	pw, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("create_account_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	roles, err := s.Repo.FindRolesByNames(ctx, req.Roles)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		roles, err = s.Repo.FindRolesByNames(ctx, []string{models.RoleUser})
		if err != nil {
			return nil, err
		}
	}

	user := &models.User{
		ID:        idgen.Generate(idgen.User),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     email,
		Password:  pw,
		Phone:     req.Phone,
		Roles:     roles,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			return nil, fmt.Errorf("%w: user existed", apperr.ErrConflict)
		}
		l.Error("create_account_error", "reason", "cannot store user", "error", err)
		return nil, err
	}
	l.Info("account_created", "user_id", user.ID)
	return user, nil
}

// PurgeExpired drops invalidated tokens that have expired anyway.
func (s *AuthService) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	return s.Repo.PurgeExpired(ctx, now)
}

// RunJanitor calls PurgeExpired every interval until ctx is done.
func (s *AuthService) RunJanitor(ctx context.Context, interval time.Duration) {
	l := logging.FromContext(ctx).With("svc", "auth.janitor")
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := s.PurgeExpired(ctx, now)
			if err != nil {
				l.Error("purge_expired_failed", "error", err)
				continue
			}
			if n > 0 {
				l.Info("purged_invalidated_tokens", "count", n)
			}
		}
	}
}
