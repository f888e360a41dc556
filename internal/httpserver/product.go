package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/stockcart/internal/logging"
	"github.com/Skotchmaster/stockcart/internal/service"
	"github.com/Skotchmaster/stockcart/internal/transport"
	"github.com/Skotchmaster/stockcart/internal/util"
)

type CatalogHTTP struct {
	Svc       *service.CatalogService
	Purchases *service.PurchaseService
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	filter := service.ListFilter{OnlyAvailable: c.QueryParam("available") == "true"}

	// Without a size the whole catalog is returned on one page.
	page, size := 1, 0
	if c.QueryParam("size") != "" || c.QueryParam("page") != "" {
		page = util.ParseIntDefault(c.QueryParam("page"), 1)
		if page < 1 {
			page = 1
		}
		filter.Offset, filter.Limit = util.Calculate(page, util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize))
		size = filter.Limit
	}

	total, items, err := h.Svc.List(ctx, filter)
	if err != nil {
		return fail(l, "list_products_failed", err)
	}
	if size == 0 {
		size = len(items)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": transport.NewProductList(items),
		"meta": echo.Map{
			"page":        page,
			"size":        size,
			"total":       total,
			"total_pages": util.TotalPages(total, size),
			"has_prev":    page > 1,
			"has_next":    int64(filter.Offset+len(items)) < total,
		},
	})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := parseID(c, "id")
	if err != nil {
		return fail(l, "get_product_failed", err)
	}

	prod, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_product_failed", err)
	}
	return c.JSON(http.StatusOK, transport.NewProductResponse(*prod))
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_failed", "status", http.StatusBadRequest, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	in, err := req.Input()
	if err != nil {
		return fail(l, "create_product_failed", err)
	}

	prod, err := h.Svc.Create(ctx, in)
	if err != nil {
		return fail(l, "create_product_failed", err)
	}

	l.Info("create_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusCreated, transport.NewProductResponse(*prod))
}

func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch")

	id, err := parseID(c, "id")
	if err != nil {
		return fail(l, "patch_product_failed", err)
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_product_failed", "status", http.StatusBadRequest, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.Update(ctx, id, req.Patch())
	if err != nil {
		return fail(l, "patch_product_failed", err)
	}

	l.Info("patch_product_success", "product_id", id)
	return c.JSON(http.StatusOK, transport.NewProductResponse(*prod))
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := parseID(c, "id")
	if err != nil {
		return fail(l, "delete_product_failed", err)
	}

	n, err := h.Svc.Delete(ctx, id)
	if err != nil {
		return fail(l, "delete_product_failed", err)
	}

	l.Info("delete_product_success", "product_id", id, "deleted", n)
	return c.JSON(http.StatusOK, echo.Map{"deleted": n})
}

func (h *CatalogHTTP) DeleteAllProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_all")

	n, err := h.Svc.DeleteAll(ctx)
	if err != nil {
		return fail(l, "delete_all_products_failed", err)
	}

	l.Info("delete_all_products_success", "deleted", n)
	return c.JSON(http.StatusOK, echo.Map{"deleted": n})
}

func (h *CatalogHTTP) PurchaseProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.purchase")

	id, err := parseID(c, "id")
	if err != nil {
		return fail(l, "purchase_failed", err)
	}

	prod, err := h.Purchases.PurchaseOne(ctx, id)
	if err != nil {
		return fail(l, "purchase_failed", err)
	}

	l.Info("purchase_success", "product_id", id)
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "purchased",
		"product": transport.NewProductResponse(*prod),
	})
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	from, size := util.Calculate(page, util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize))

	total, docs, err := h.Svc.Search(ctx, c.QueryParam("q"), from, size)
	if err != nil {
		return fail(l, "search_products_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": transport.NewSearchHits(docs)})
}
