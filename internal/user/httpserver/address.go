package httpserver

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/techadict/shop/internal/models"
	"github.com/techadict/shop/internal/user/service"
	"github.com/techadict/shop/internal/user/transport"
	"github.com/techadict/shop/pkg/apperr"
	"github.com/techadict/shop/pkg/logging"
	authmw "github.com/techadict/shop/pkg/middleware/auth"
	"github.com/techadict/shop/pkg/response"
)

var errNotOwner = fmt.Errorf("%w: you don't have enough rights", apperr.ErrForbidden)

type AddressHTTP struct {
	Svc *service.AddressService
}

// owned loads the address named by :id and checks the caller may touch it.
func (h *AddressHTTP) owned(c echo.Context) (*models.Address, error) {
	a, err := h.Svc.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	if !authmw.CanAccess(c, a.UserID) {
		return nil, errNotOwner
	}
	return a, nil
}

func (h *AddressHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.create")

	var req transport.AddressRequest
	if err := response.Bind(c, &req); err != nil {
		return response.Fail(l, "create_address_error", err)
	}
	if req.UserID != "" && !authmw.CanAccess(c, req.UserID) {
		return response.Fail(l, "create_address_error", errNotOwner)
	}

	res, err := h.Svc.Create(ctx, req)
	if err != nil {
		return response.Fail(l, "create_address_error", err)
	}
	l.Info("create_address_success", "address_id", res.ID)
	return response.Created(c, "", res)
}

func (h *AddressHTTP) Get(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "address.get")

	a, err := h.owned(c)
	if err != nil {
		return response.Fail(l, "get_address_error", err)
	}
	return response.OK(c, "", a)
}

func (h *AddressHTTP) GetByUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.get_by_user")

	res, err := h.Svc.GetByUser(ctx, c.Param("userId"))
	if err != nil {
		return response.Fail(l, "get_addresses_error", err)
	}
	return response.OK(c, "", res)
}

func (h *AddressHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.update")

	var req transport.AddressRequest
	if err := response.Bind(c, &req); err != nil {
		return response.Fail(l, "update_address_error", err)
	}
	a, err := h.owned(c)
	if err != nil {
		return response.Fail(l, "update_address_error", err)
	}
	res, err := h.Svc.Update(ctx, a.ID, req)
	if err != nil {
		return response.Fail(l, "update_address_error", err)
	}
	return response.OK(c, "", res)
}

func (h *AddressHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.delete")

	a, err := h.owned(c)
	if err != nil {
		return response.Fail(l, "delete_address_error", err)
	}
	if err := h.Svc.Delete(ctx, a.ID); err != nil {
		return response.Fail(l, "delete_address_error", err)
	}
	return response.OK(c, "address deleted", nil)
}
