package httpserver

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/techadict/shop/internal/user/service"
	"github.com/techadict/shop/internal/user/transport"
	"github.com/techadict/shop/pkg/apperr"
	"github.com/techadict/shop/pkg/logging"
	authmw "github.com/techadict/shop/pkg/middleware/auth"
	"github.com/techadict/shop/pkg/response"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.create")

	var req transport.UserRequest
	if err := response.Bind(c, &req); err != nil {
		return response.Fail(l, "create_user_error", err)
	}
	res, err := h.Svc.Create(ctx, req)
	if err != nil {
		return response.Fail(l, "create_user_error", err)
	}
	l.Info("create_user_success", "user_id", res.ID)
	return response.Created(c, "", res)
}

func (h *UserHTTP) GetAll(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_all")

	res, err := h.Svc.GetAll(ctx)
	if err != nil {
		return response.Fail(l, "get_users_error", err)
	}
	return response.OK(c, "", res)
}

func (h *UserHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get")

	res, err := h.Svc.GetByID(ctx, c.Param("id"))
	if err != nil {
		return response.Fail(l, "get_user_error", err)
	}
	return response.OK(c, "", res)
}

func (h *UserHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.me")

	res, err := h.Svc.GetMyInfo(ctx, authmw.Email(c))
	if err != nil {
		return response.Fail(l, "get_my_info_error", err)
	}
	return response.OK(c, "", res)
}

func (h *UserHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update")

	var req transport.UserUpdateRequest
	if err := response.Bind(c, &req); err != nil {
		return response.Fail(l, "update_user_error", err)
	}
	if req.Roles != nil && !authmw.IsAdmin(c) {
		return response.Fail(l, "update_user_error", fmt.Errorf("%w: only admins can change roles", apperr.ErrForbidden))
	}

	res, err := h.Svc.Update(ctx, c.Param("id"), req)
	if err != nil {
		return response.Fail(l, "update_user_error", err)
	}
	l.Info("update_user_success", "user_id", res.ID)
	return response.OK(c, "", res)
}

func (h *UserHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete")

	if err := h.Svc.Delete(ctx, c.Param("id")); err != nil {
		return response.Fail(l, "delete_user_error", err)
	}
	return response.OK(c, "user deleted", nil)
}
