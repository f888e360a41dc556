package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	CatalogHandler *CatalogHTTP
	CartHandler    *CartHTTP
	// Ready reports whether the store is reachable.
	Ready    func(ctx context.Context) error
	Gatherer prometheus.Gatherer
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
			}
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	api := e.Group("/api")

	products := api.Group("/products")
	products.GET("", d.CatalogHandler.ListProducts)
	products.POST("", d.CatalogHandler.CreateProduct)
	products.DELETE("", d.CatalogHandler.DeleteAllProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)
	products.PATCH("/:id", d.CatalogHandler.PatchProduct)
	products.DELETE("/:id", d.CatalogHandler.DeleteProduct)
	products.POST("/:id/purchase", d.CatalogHandler.PurchaseProduct)

	cart := api.Group("/cart")
	cart.GET("/:cart_id", d.CartHandler.GetCart)
	cart.POST("/:cart_id", d.CartHandler.AddToCart)
	cart.DELETE("/:cart_id/items/:product_id", d.CartHandler.RemoveFromCart)
	cart.POST("/:cart_id/complete", d.CartHandler.CompleteCart)
}
