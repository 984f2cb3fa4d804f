package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/techadict/shop/internal/auth/service"
	"github.com/techadict/shop/internal/auth/transport"
	"github.com/techadict/shop/pkg/logging"
	authmw "github.com/techadict/shop/pkg/middleware/auth"
	"github.com/techadict/shop/pkg/response"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Token(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.token")

	var req transport.AuthenticationRequest
	if err := response.Bind(c, &req); err != nil {
		return response.Fail(l, "token_error", err)
	}

	res, err := h.Svc.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return response.Fail(l, "token_error", err)
	}

	l.Info("token_issued")
	return response.OK(c, "", res)
}

func (h *AuthHTTP) Introspect(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.introspect")

	var req transport.TokenRequest
	if err := response.Bind(c, &req); err != nil {
		return response.Fail(l, "introspect_error", err)
	}
	if req.Token == "" {
		req.Token = authmw.BearerToken(c)
	}

	res, err := h.Svc.Introspect(ctx, req.Token)
	if err != nil {
		return response.Fail(l, "introspect_error", err)
	}
	return response.OK(c, "", res)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	var req transport.TokenRequest
	if err := response.Bind(c, &req); err != nil {
		return response.Fail(l, "logout_error", err)
	}
	if req.Token == "" {
		req.Token = authmw.BearerToken(c)
	}

	if err := h.Svc.Logout(ctx, req.Token); err != nil {
		return response.Fail(l, "logout_error", err)
	}

	l.Info("successful_logout")
	return response.OK(c, "logged out", nil)
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := response.Bind(c, &req); err != nil {
		return response.Fail(l, "register_error", err)
	}

	res, err := h.Svc.Register(ctx, req, authmw.IsAdmin(c))
	if err != nil {
		return response.Fail(l, "register_error", err)
	}

	l.Info("register_successful")
	return response.Created(c, "", res)
}
