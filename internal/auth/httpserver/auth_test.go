package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techadict/shop/internal/auth/repo"
	"github.com/techadict/shop/internal/auth/service"
	"github.com/techadict/shop/internal/models"
	"github.com/techadict/shop/internal/testutil"
	authmw "github.com/techadict/shop/pkg/middleware/auth"
	"github.com/techadict/shop/pkg/middleware/ratelimit"
	"github.com/techadict/shop/pkg/response"
	"github.com/techadict/shop/pkg/tokens"
	"github.com/techadict/shop/pkg/validation"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

func newTestServer(t *testing.T) (*echo.Echo, *repo.GormRepo) {
	t.Helper()

	r := &repo.GormRepo{DB: testutil.NewDB(t)}
	authSvc := &service.AuthService{
		Repo:   r,
		Signer: &tokens.Signer{Secret: []byte("handler-test-secret"), Issuer: "techadict.com", TTL: time.Hour},
	}

	e := echo.New()
	e.HTTPErrorHandler = response.ErrorHandler
	e.Validator = validation.New()
	Register(e, &Deps{
		AuthHandler:       &AuthHTTP{Svc: authSvc},
		RoleHandler:       &RoleHTTP{Svc: &service.RoleService{Repo: r}},
		PermissionHandler: &PermissionHTTP{Svc: &service.PermissionService{Repo: r}},
		RequireAuth:       authmw.Middleware(authSvc),
		OptionalAuth:      authmw.OptionalMiddleware(authSvc),
		LoginLimit:        ratelimit.New(600, 100).Middleware,
	})
	return e, r
}

func do(t *testing.T, e *echo.Echo, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func login(t *testing.T, e *echo.Echo, email string) string {
	t.Helper()
	status, env := do(t, e, http.MethodPost, "/auth/token", "", map[string]string{
		"email": email, "password": testutil.Password,
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	var res struct {
		Token         string `json:"token"`
		Authenticated bool   `json:"authenticated"`
	}
	require.NoError(t, json.Unmarshal(env.Result, &res))
	require.True(t, res.Authenticated)
	return res.Token
}

func TestAuthHTTP_TokenLifecycle(t *testing.T) {
	t.Parallel()

	e, r := newTestServer(t)
	testutil.CreateUser(t, r.DB, "user@example.com")

	status, env := do(t, e, http.MethodPost, "/auth/token", "", map[string]string{"email": "nobody@example.com", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, http.StatusUnauthorized, env.Code)
	assert.Equal(t, "user not existed", env.Message)

	token := login(t, e, "user@example.com")

	status, env = do(t, e, http.MethodPost, "/auth/introspect", "", map[string]string{"token": token})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, env.Code)
	assert.JSONEq(t, `{"valid":true}`, string(env.Result))

	status, _ = do(t, e, http.MethodPost, "/auth/logout", "", map[string]string{"token": token})
	require.Equal(t, http.StatusOK, status)

	_, env = do(t, e, http.MethodPost, "/auth/introspect", "", map[string]string{"token": token})
	assert.JSONEq(t, `{"valid":false}`, string(env.Result))

	status, env = do(t, e, http.MethodPost, "/auth/logout", "", map[string]string{"token": token})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthorized", env.Message)
}

func TestAuthHTTP_Register(t *testing.T) {
	t.Parallel()

	e, _ := newTestServer(t)
	body := map[string]any{"email": "new@example.com", "password": "secret1", "first_name": "New"}

	status, env := do(t, e, http.MethodPost, "/auth/register", "", body)
	require.Equal(t, http.StatusCreated, status, env.Message)
	assert.JSONEq(t, `{"authenticated":true}`, string(env.Result))

	status, env = do(t, e, http.MethodPost, "/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, http.StatusConflict, env.Code)

	status, env = do(t, e, http.MethodPost, "/auth/register", "", map[string]any{"email": "bad", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "email must be a valid email", env.Message)

	status, env = do(t, e, http.MethodPost, "/auth/register", "", map[string]any{"email": "short@example.com", "password": "abc"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "password must be at least 5 characters", env.Message)
}

func TestAuthHTTP_Register_RolesOnlyFromAdmin(t *testing.T) {
	t.Parallel()

	e, r := newTestServer(t)
	testutil.CreateUser(t, r.DB, "admin@example.com", models.RoleAdmin)
	testutil.CreateUser(t, r.DB, "user@example.com")

	rolesOf := func(email string) []string {
		t.Helper()
		u, err := r.FindUserByEmail(t.Context(), email)
		require.NoError(t, err)
		names := make([]string, 0, len(u.Roles))
		for _, role := range u.Roles {
			names = append(names, role.Name)
		}
		return names
	}
	body := func(email string) map[string]any {
		return map[string]any{"email": email, "password": "secret1", "roles": []string{models.RoleAdmin}}
	}

	status, env := do(t, e, http.MethodPost, "/auth/register", "", body("anon@example.com"))
	require.Equal(t, http.StatusCreated, status, env.Message)
	assert.Equal(t, []string{models.RoleUser}, rolesOf("anon@example.com"))

	status, env = do(t, e, http.MethodPost, "/auth/register", login(t, e, "user@example.com"), body("friend@example.com"))
	require.Equal(t, http.StatusCreated, status, env.Message)
	assert.Equal(t, []string{models.RoleUser}, rolesOf("friend@example.com"))

	status, env = do(t, e, http.MethodPost, "/auth/register", login(t, e, "admin@example.com"), body("staff@example.com"))
	require.Equal(t, http.StatusCreated, status, env.Message)
	assert.Equal(t, []string{models.RoleAdmin}, rolesOf("staff@example.com"))

	status, _ = do(t, e, http.MethodPost, "/auth/register", "junk", body("nobody@example.com"))
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRoleHTTP_AdminOnly(t *testing.T) {
	t.Parallel()

	e, r := newTestServer(t)
	testutil.CreateUser(t, r.DB, "user@example.com")
	testutil.CreateUser(t, r.DB, "admin@example.com", models.RoleAdmin)

	status, _ := do(t, e, http.MethodGet, "/roles", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = do(t, e, http.MethodGet, "/roles", login(t, e, "user@example.com"), nil)
	assert.Equal(t, http.StatusForbidden, status)

	admin := login(t, e, "admin@example.com")

	status, env := do(t, e, http.MethodPost, "/permissions", admin, map[string]string{"name": "order:read"})
	require.Equal(t, http.StatusCreated, status, env.Message)

	status, env = do(t, e, http.MethodPost, "/roles", admin, map[string]any{"name": "STAFF", "permissions": []string{"order:read"}})
	require.Equal(t, http.StatusCreated, status, env.Message)
	assert.JSONEq(t, `{"name":"STAFF","description":"","permissions":[{"name":"order:read","description":""}]}`, string(env.Result))

	status, env = do(t, e, http.MethodGet, "/roles/NOPE", admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "role not found: NOPE", env.Message)

	status, _ = do(t, e, http.MethodDelete, "/permissions/order:read", admin, nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = do(t, e, http.MethodGet, "/roles/STAFF", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"name":"STAFF","description":"","permissions":[]}`, string(env.Result))
}
