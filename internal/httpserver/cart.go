package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/stockcart/internal/logging"
	"github.com/Skotchmaster/stockcart/internal/service"
	"github.com/Skotchmaster/stockcart/internal/transport"
)

type CartHTTP struct {
	Svc       *service.CartService
	Purchases *service.PurchaseService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	cartID, err := parseCartID(c)
	if err != nil {
		return fail(l, "get_cart_failed", err)
	}

	snap, err := h.Svc.GetSnapshot(ctx, cartID)
	if err != nil {
		return fail(l, "get_cart_failed", err)
	}
	return c.JSON(http.StatusOK, transport.NewCartResponse(snap))
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	cartID, err := parseCartID(c)
	if err != nil {
		return fail(l, "add_to_cart_failed", err)
	}

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_failed", "status", http.StatusBadRequest, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.AddItem(ctx, cartID, req.ProductID, req.Quantity)
	if err != nil {
		return fail(l, "add_to_cart_failed", err)
	}

	l.Info("add_to_cart_success", "cart_id", cartID, "product_id", req.ProductID, "quantity", res.Quantity)
	return c.JSON(http.StatusOK, res)
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	cartID, err := parseCartID(c)
	if err != nil {
		return fail(l, "remove_from_cart_failed", err)
	}
	productID, err := parseID(c, "product_id")
	if err != nil {
		return fail(l, "remove_from_cart_failed", err)
	}

	if err := h.Svc.RemoveItem(ctx, cartID, productID); err != nil {
		return fail(l, "remove_from_cart_failed", err)
	}

	l.Info("remove_from_cart_success", "cart_id", cartID, "product_id", productID)
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) CompleteCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.complete")

	cartID, err := parseCartID(c)
	if err != nil {
		return fail(l, "complete_cart_failed", err)
	}

	done, err := h.Purchases.CompleteCart(ctx, cartID)
	if err != nil {
		return fail(l, "complete_cart_failed", err)
	}

	l.Info("complete_cart_success", "cart_id", cartID, "units", done.Units)
	return c.JSON(http.StatusOK, done)
}
