package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/techadict/shop/internal/auth/service"
	"github.com/techadict/shop/internal/auth/transport"
	"github.com/techadict/shop/pkg/logging"
	"github.com/techadict/shop/pkg/response"
)

type RoleHTTP struct {
	Svc *service.RoleService
}

func (h *RoleHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "role.create")

	var req transport.RoleRequest
	if err := response.Bind(c, &req); err != nil {
		return response.Fail(l, "create_role_error", err)
	}
	res, err := h.Svc.Create(ctx, req)
	if err != nil {
		return response.Fail(l, "create_role_error", err)
	}
	l.Info("create_role_success", "role", res.Name)
	return response.Created(c, "", res)
}

func (h *RoleHTTP) GetAll(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "role.get_all")

	res, err := h.Svc.GetAll(ctx)
	if err != nil {
		return response.Fail(l, "get_roles_error", err)
	}
	return response.OK(c, "", res)
}

func (h *RoleHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "role.get")

	res, err := h.Svc.GetByName(ctx, c.Param("name"))
	if err != nil {
		return response.Fail(l, "get_role_error", err)
	}
	return response.OK(c, "", res)
}

func (h *RoleHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "role.update")

	var req transport.RoleUpdateRequest
	if err := response.Bind(c, &req); err != nil {
		return response.Fail(l, "update_role_error", err)
	}
	res, err := h.Svc.Update(ctx, c.Param("name"), req)
	if err != nil {
		return response.Fail(l, "update_role_error", err)
	}
	l.Info("update_role_success", "role", res.Name)
	return response.OK(c, "", res)
}

func (h *RoleHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "role.delete")

	name := c.Param("name")
	if err := h.Svc.Delete(ctx, name); err != nil {
		return response.Fail(l, "delete_role_error", err)
	}
	l.Info("delete_role_success", "role", name)
	return response.OK(c, "role deleted", nil)
}
