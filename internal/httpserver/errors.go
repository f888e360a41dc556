package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/stockcart/internal/search"
	"github.com/Skotchmaster/stockcart/internal/service"
)

// fail logs err under event and converts it to the HTTP error for its kind.
func fail(l *slog.Logger, event string, err error) error {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		l.Error(event, "status", status, "error", err)
	} else {
		l.Warn(event, "status", status, "error", err)
	}
	return echo.NewHTTPError(status, body)
}

func classify(err error) (int, any) {
	var verr *service.ValidationError
	var short *service.InsufficientStockError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, echo.Map{"message": "invalid input", "fields": verr.Fields}
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.As(err, &short):
		return http.StatusConflict, echo.Map{
			"message":    "inventory exceeded",
			"cart_id":    short.CartID,
			"product_id": short.ProductID,
			"requested":  short.Requested,
		}
	case errors.Is(err, service.ErrInventoryExceeded):
		return http.StatusConflict, "inventory exceeded"
	case errors.Is(err, service.ErrOutOfStock):
		return http.StatusConflict, "out of stock"
	case errors.Is(err, search.ErrDisabled):
		return http.StatusServiceUnavailable, "search is not configured"
	}
	return http.StatusInternalServerError, "internal server error"
}

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &service.ValidationError{Fields: map[string]string{name: "must be a positive integer"}}
	}
	return id, nil
}

// parseCartID accepts zero since cart ids are picked by the client.
func parseCartID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("cart_id"), 10, 64)
	if err != nil || id < 0 {
		return 0, &service.ValidationError{Fields: map[string]string{"cart_id": "must be a non-negative integer"}}
	}
	return id, nil
}
