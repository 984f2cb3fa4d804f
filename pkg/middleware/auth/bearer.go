package authmw

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/techadict/shop/pkg/apperr"
	"github.com/techadict/shop/pkg/logging"
	"github.com/techadict/shop/pkg/response"
	"github.com/techadict/shop/pkg/tokens"
)

const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxScope  = "scope"
	CtxClaims = "claims"
	CtxToken  = "token"

	ScopeAdmin = "ROLE_ADMIN"
)

// Verifier validates a raw token, including revocation.
type Verifier interface {
	Verify(ctx context.Context, token string) (*tokens.AccessClaims, error)
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// Middleware rejects requests without a valid bearer token and stores the
// caller identity in the echo context.
func Middleware(v Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := BearerToken(c)
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
			}

			claims, err := v.Verify(c.Request().Context(), raw)
			switch {
			case err != nil && !errors.Is(err, apperr.ErrUnauthenticated):
				// a store failure, not a bad token
				logging.FromContext(c.Request().Context()).Error("auth_verify_failed", "path", c.Path(), "error", err)
				return response.FromError(err)
			case err != nil:
				logging.FromContext(c.Request().Context()).Warn("auth_rejected", "path", c.Path(), "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, apperr.Message(err))
			case claims == nil:
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
			}
			if claims.Subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token has no subject")
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxEmail, claims.Subject)
			c.Set(CtxScope, claims.Scope)
			c.Set(CtxClaims, claims)
			c.Set(CtxToken, raw)

			l := logging.FromContext(c.Request().Context()).With("user_id", claims.UserID)
			c.SetRequest(c.Request().WithContext(logging.IntoContext(c.Request().Context(), l)))

			return next(c)
		}
	}
}

// OptionalMiddleware lets anonymous requests through. A bearer token, when
// sent, is checked like Middleware does.
func OptionalMiddleware(v Verifier) echo.MiddlewareFunc {
	strict := Middleware(v)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		authed := strict(next)
		return func(c echo.Context) error {
			if BearerToken(c) == "" {
				return next(c)
			}
			return authed(c)
		}
	}
}

// RequireScope must run after Middleware.
func RequireScope(scope string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := Claims(c)
			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
			}
			if !claims.HasScope(scope) {
				return echo.NewHTTPError(http.StatusForbidden, "you don't have enough rights")
			}
			return next(c)
		}
	}
}

// RequireSelfOrAdmin lets the request through when the path parameter names
// the caller or the caller is an admin.
func RequireSelfOrAdmin(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if Claims(c) == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
			}
			if IsAdmin(c) || c.Param(param) == UserID(c) {
				return next(c)
			}
			return echo.NewHTTPError(http.StatusForbidden, "you don't have enough rights")
		}
	}
}

func Claims(c echo.Context) *tokens.AccessClaims {
	claims, _ := c.Get(CtxClaims).(*tokens.AccessClaims)
	return claims
}

func UserID(c echo.Context) string {
	id, _ := c.Get(CtxUserID).(string)
	return id
}

func Email(c echo.Context) string {
	email, _ := c.Get(CtxEmail).(string)
	return email
}

func IsAdmin(c echo.Context) bool {
	claims := Claims(c)
	return claims != nil && claims.HasScope(ScopeAdmin)
}

// CanAccess reports whether the caller owns the resource or is an admin.
func CanAccess(c echo.Context, ownerID string) bool {
	return IsAdmin(c) || (ownerID != "" && UserID(c) == ownerID)
}
