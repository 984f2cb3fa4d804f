package authmw

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techadict/shop/pkg/apperr"
	"github.com/techadict/shop/pkg/tokens"
)

type fakeVerifier map[string]*tokens.AccessClaims

func (f fakeVerifier) Verify(_ context.Context, token string) (*tokens.AccessClaims, error) {
	switch token {
	case "revoked":
		return nil, fmt.Errorf("%w: unauthorized", apperr.ErrUnauthenticated)
	case "store-down":
		return nil, errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
	}
	c, ok := f[token]
	if !ok {
		return nil, fmt.Errorf("%w: unauthenticated", apperr.ErrUnauthenticated)
	}
	return c, nil
}

func claims(uid, email, scope string) *tokens.AccessClaims {
	return &tokens.AccessClaims{
		UserID:           uid,
		Scope:            scope,
		RegisteredClaims: jwt.RegisteredClaims{Subject: email},
	}
}

var verifier = fakeVerifier{
	"user":  claims("USER-1", "a@x.io", "ROLE_USER"),
	"admin": claims("USER-2", "b@x.io", "ROLE_ADMIN user:write ROLE_USER"),
}

func run(t *testing.T, token string, param string, mws ...echo.MiddlewareFunc) (int, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/carts/"+param, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/carts/:userId")
	c.SetParamNames("userId")
	c.SetParamValues(param)

	h := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	err := h(c)
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code, err
	}
	return rec.Code, err
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		token  string
		param  string
		mws    []echo.MiddlewareFunc
		status int
	}{
		{"missing token", "", "USER-1", []echo.MiddlewareFunc{Middleware(verifier)}, http.StatusUnauthorized},
		{"bad token", "junk", "USER-1", []echo.MiddlewareFunc{Middleware(verifier)}, http.StatusUnauthorized},
		{"revoked token", "revoked", "USER-1", []echo.MiddlewareFunc{Middleware(verifier)}, http.StatusUnauthorized},
		{"token store unavailable", "store-down", "USER-1", []echo.MiddlewareFunc{Middleware(verifier)}, http.StatusInternalServerError},
		{"valid token", "user", "USER-1", []echo.MiddlewareFunc{Middleware(verifier)}, http.StatusNoContent},
		{"admin scope denied", "user", "USER-1", []echo.MiddlewareFunc{Middleware(verifier), RequireScope(ScopeAdmin)}, http.StatusForbidden},
		{"admin scope granted", "admin", "USER-1", []echo.MiddlewareFunc{Middleware(verifier), RequireScope(ScopeAdmin)}, http.StatusNoContent},
		{"self allowed", "user", "USER-1", []echo.MiddlewareFunc{Middleware(verifier), RequireSelfOrAdmin("userId")}, http.StatusNoContent},
		{"other denied", "user", "USER-9", []echo.MiddlewareFunc{Middleware(verifier), RequireSelfOrAdmin("userId")}, http.StatusForbidden},
		{"admin on other", "admin", "USER-9", []echo.MiddlewareFunc{Middleware(verifier), RequireSelfOrAdmin("userId")}, http.StatusNoContent},
		{"optional anonymous", "", "USER-1", []echo.MiddlewareFunc{OptionalMiddleware(verifier)}, http.StatusNoContent},
		{"optional bad token", "junk", "USER-1", []echo.MiddlewareFunc{OptionalMiddleware(verifier)}, http.StatusUnauthorized},
		{"optional admin", "admin", "USER-1", []echo.MiddlewareFunc{OptionalMiddleware(verifier), RequireScope(ScopeAdmin)}, http.StatusNoContent},
		{"scope without auth", "", "USER-1", []echo.MiddlewareFunc{RequireScope(ScopeAdmin)}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			status, _ := run(t, tt.token, tt.param, tt.mws...)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestMiddleware_RevokedMessage(t *testing.T) {
	t.Parallel()

	_, err := run(t, "revoked", "USER-1", Middleware(verifier))
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "unauthorized", he.Message)
}

func TestMiddleware_StoreFailureHidesDetail(t *testing.T) {
	t.Parallel()

	status, err := run(t, "store-down", "USER-1", Middleware(verifier))
	assert.Equal(t, http.StatusInternalServerError, status)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "internal error", he.Message)
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "bearer abc.def")
	c := e.NewContext(req, httptest.NewRecorder())
	assert.Equal(t, "abc.def", BearerToken(c))

	req.Header.Set(echo.HeaderAuthorization, "Basic xyz")
	assert.Equal(t, "", BearerToken(c))
}
