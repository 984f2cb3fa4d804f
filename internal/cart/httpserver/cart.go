package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/techadict/shop/internal/cart/service"
	"github.com/techadict/shop/internal/cart/transport"
	"github.com/techadict/shop/pkg/logging"
	"github.com/techadict/shop/pkg/response"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	res, err := h.Svc.GetCart(ctx, c.Param("userId"))
	if err != nil {
		return response.Fail(l, "get_cart_error", err)
	}
	return response.OK(c, "", res)
}

func (h *CartHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	var req transport.AddItemRequest
	if err := response.Bind(c, &req); err != nil {
		return response.Fail(l, "add_cart_item_error", err)
	}
	res, err := h.Svc.AddItem(ctx, c.Param("userId"), req)
	if err != nil {
		return response.Fail(l, "add_cart_item_error", err)
	}
	l.Info("add_cart_item_success", "cart_id", res.ID, "variant_id", req.VariantID, "quantity", req.Quantity)
	return response.OK(c, "", res)
}

func (h *CartHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	var req transport.UpdateItemRequest
	if err := response.Bind(c, &req); err != nil {
		return response.Fail(l, "update_cart_item_error", err)
	}
	res, err := h.Svc.UpdateItem(ctx, c.Param("userId"), req)
	if err != nil {
		return response.Fail(l, "update_cart_item_error", err)
	}
	return response.OK(c, "", res)
}

// Remove takes the variant from the body or, for clients that cannot send a
// DELETE body, from the variantId query parameter.
func (h *CartHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	req := transport.RemoveItemRequest{VariantID: c.QueryParam("variantId")}
	if req.VariantID == "" {
		if err := response.Bind(c, &req); err != nil {
			return response.Fail(l, "remove_cart_item_error", err)
		}
	}
	res, err := h.Svc.RemoveItem(ctx, c.Param("userId"), req.VariantID)
	if err != nil {
		return response.Fail(l, "remove_cart_item_error", err)
	}
	return response.OK(c, "", res)
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	res, err := h.Svc.ClearCart(ctx, c.Param("userId"))
	if err != nil {
		return response.Fail(l, "clear_cart_error", err)
	}
	return response.OK(c, "cart cleared", res)
}
