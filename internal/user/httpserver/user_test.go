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
	"gorm.io/gorm"

	authrepo "github.com/techadict/shop/internal/auth/repo"
	authservice "github.com/techadict/shop/internal/auth/service"
	"github.com/techadict/shop/internal/models"
	"github.com/techadict/shop/internal/testutil"
	"github.com/techadict/shop/internal/user/repo"
	"github.com/techadict/shop/internal/user/service"
	authmw "github.com/techadict/shop/pkg/middleware/auth"
	"github.com/techadict/shop/pkg/response"
	"github.com/techadict/shop/pkg/tokens"
	"github.com/techadict/shop/pkg/validation"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

type server struct {
	e    *echo.Echo
	db   *gorm.DB
	auth *authservice.AuthService
}

func newServer(t *testing.T) *server {
	t.Helper()

	gdb := testutil.NewDB(t)
	auth := &authservice.AuthService{
		Repo:   &authrepo.GormRepo{DB: gdb},
		Signer: &tokens.Signer{Secret: []byte("user-handler-secret"), Issuer: "techadict.com", TTL: time.Hour},
	}
	r := &repo.GormRepo{DB: gdb}

	e := echo.New()
	e.HTTPErrorHandler = response.ErrorHandler
	e.Validator = validation.New()
	Register(e, &Deps{
		UserHandler:    &UserHTTP{Svc: &service.UserService{Repo: r, Accounts: auth}},
		AddressHandler: &AddressHTTP{Svc: &service.AddressService{Repo: r}},
		RequireAuth:    authmw.Middleware(auth),
	})
	return &server{e: e, db: gdb, auth: auth}
}

func (s *server) token(t *testing.T, email string) string {
	t.Helper()
	res, err := s.auth.Authenticate(t.Context(), email, testutil.Password)
	require.NoError(t, err)
	return res.Token
}

func (s *server) do(t *testing.T, method, path, token string, body any) (int, envelope) {
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
	s.e.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func TestUserHTTP_Access(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	alice := testutil.CreateUser(t, s.db, "alice@example.com")
	bob := testutil.CreateUser(t, s.db, "bob@example.com")
	testutil.CreateUser(t, s.db, "root@example.com", models.RoleAdmin)

	aliceTok := s.token(t, "alice@example.com")
	rootTok := s.token(t, "root@example.com")

	status, env := s.do(t, http.MethodGet, "/users/me", aliceTok, nil)
	require.Equal(t, http.StatusOK, status)
	var me struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(env.Result, &me))
	assert.Equal(t, alice.ID, me.ID)
	assert.NotContains(t, string(env.Result), "password")

	status, _ = s.do(t, http.MethodGet, "/users/"+bob.ID, aliceTok, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(t, http.MethodGet, "/users/"+bob.ID, rootTok, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodGet, "/users", aliceTok, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env = s.do(t, http.MethodPut, "/users/"+alice.ID, aliceTok, map[string]any{"roles": []string{"ADMIN"}})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "only admins can change roles", env.Message)

	status, env = s.do(t, http.MethodPut, "/users/"+alice.ID, aliceTok, map[string]any{"phone": "0999"})
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.Contains(t, string(env.Result), `"phone":"0999"`)

	status, _ = s.do(t, http.MethodDelete, "/users/"+bob.ID, rootTok, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = s.do(t, http.MethodDelete, "/users/"+bob.ID, rootTok, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAddressHTTP_Ownership(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	alice := testutil.CreateUser(t, s.db, "alice@example.com")
	bob := testutil.CreateUser(t, s.db, "bob@example.com")
	aliceTok := s.token(t, "alice@example.com")
	bobTok := s.token(t, "bob@example.com")

	status, env := s.do(t, http.MethodPost, "/addresses", aliceTok, map[string]any{"city": "Hanoi"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "user_id is required", env.Message)

	status, _ = s.do(t, http.MethodPost, "/addresses", aliceTok, map[string]any{"user_id": bob.ID, "city": "Hanoi"})
	assert.Equal(t, http.StatusForbidden, status)

	status, env = s.do(t, http.MethodPost, "/addresses", aliceTok, map[string]any{"user_id": alice.ID, "city": "Hanoi"})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var addr models.Address
	require.NoError(t, json.Unmarshal(env.Result, &addr))
	assert.False(t, addr.IsDefault)

	status, _ = s.do(t, http.MethodGet, "/addresses/"+addr.ID, bobTok, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = s.do(t, http.MethodGet, "/addresses/user/"+alice.ID, bobTok, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env = s.do(t, http.MethodGet, "/addresses/user/"+alice.ID, aliceTok, nil)
	require.Equal(t, http.StatusOK, status)
	var list []models.Address
	require.NoError(t, json.Unmarshal(env.Result, &list))
	assert.Len(t, list, 1)

	status, _ = s.do(t, http.MethodDelete, "/addresses/"+addr.ID, aliceTok, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = s.do(t, http.MethodGet, "/addresses/"+addr.ID, aliceTok, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
