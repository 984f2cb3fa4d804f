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

	authrepo "github.com/techadict/shop/internal/auth/repo"
	authservice "github.com/techadict/shop/internal/auth/service"
	"github.com/techadict/shop/internal/cart/repo"
	"github.com/techadict/shop/internal/cart/service"
	"github.com/techadict/shop/internal/models"
	"github.com/techadict/shop/internal/testutil"
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

func TestCartHTTP(t *testing.T) {
	t.Parallel()

	gdb := testutil.NewDB(t)
	auth := &authservice.AuthService{
		Repo:   &authrepo.GormRepo{DB: gdb},
		Signer: &tokens.Signer{Secret: []byte("cart-handler-secret"), Issuer: "techadict.com", TTL: time.Hour},
	}
	e := echo.New()
	e.HTTPErrorHandler = response.ErrorHandler
	e.Validator = validation.New()
	Register(e, &Deps{
		CartHandler: &CartHTTP{Svc: &service.CartService{Repo: &repo.GormRepo{DB: gdb}}},
		RequireAuth: authmw.Middleware(auth),
	})

	alice := testutil.CreateUser(t, gdb, "alice@example.com")
	bob := testutil.CreateUser(t, gdb, "bob@example.com")
	testutil.CreateUser(t, gdb, "root@example.com", models.RoleAdmin)
	p := testutil.CreateProduct(t, gdb, "Phone", testutil.Variant{Name: "Blue", Price: 100, Quantity: 5})

	token := func(email string) string {
		res, err := auth.Authenticate(t.Context(), email, testutil.Password)
		require.NoError(t, err)
		return res.Token
	}
	aliceTok, rootTok := token("alice@example.com"), token("root@example.com")

	do := func(method, path, tok string, body any) (int, envelope) {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		if tok != "" {
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		var env envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
		return rec.Code, env
	}

	status, _ := do(http.MethodGet, "/carts/"+alice.ID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = do(http.MethodGet, "/carts/"+bob.ID, aliceTok, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env := do(http.MethodPost, "/carts/"+alice.ID+"/add", aliceTok, map[string]any{"variant_id": p.Variants[0].ID, "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "quantity must be greater than 0", env.Message)

	status, env = do(http.MethodPost, "/carts/"+alice.ID+"/add", aliceTok, map[string]any{"variant_id": p.Variants[0].ID, "quantity": 2})
	require.Equal(t, http.StatusOK, status, env.Message)
	var cart struct {
		TotalPrice int64 `json:"total_price"`
		Items      []struct {
			VariantID string `json:"variant_id"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Result, &cart))
	assert.EqualValues(t, 200, cart.TotalPrice)

	status, _ = do(http.MethodGet, "/carts/"+alice.ID, rootTok, nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = do(http.MethodDelete, "/carts/"+alice.ID+"/remove?variantId="+p.Variants[0].ID, aliceTok, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Result, &cart))
	assert.Empty(t, cart.Items)

	status, env = do(http.MethodDelete, "/carts/"+alice.ID+"/clear", aliceTok, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "cart cleared", env.Message)
}
