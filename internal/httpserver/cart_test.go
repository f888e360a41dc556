package httpserver

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartResp struct {
	CartID   int64 `json:"cart_id"`
	Products []struct {
		ProductID int64 `json:"product_id"`
		Quantity  int64 `json:"quantity"`
	} `json:"products"`
}

func TestCart_Scenario(t *testing.T) {
	env := newTestEnv(t)
	a := env.createProduct("A", 2, 5)

	rec := env.do(http.MethodPost, "/api/cart/1", map[string]any{"product_id": a, "quantity": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(http.MethodGet, "/api/cart/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":6.00`)

	var cart cartResp
	env.decode(rec, &cart)
	require.Len(t, cart.Products, 1)
	assert.EqualValues(t, 3, cart.Products[0].Quantity)

	rec = env.do(http.MethodPost, "/api/cart/1", map[string]any{"product_id": a, "quantity": 4})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(http.MethodPost, "/api/cart/1/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"units":3`)

	rec = env.do(http.MethodGet, fmt.Sprintf("/api/products/%d", a), nil)
	assert.Contains(t, rec.Body.String(), `"inventory_count":2`)

	env.decode(env.do(http.MethodGet, "/api/cart/1", nil), &cart)
	assert.Empty(t, cart.Products)
}

func TestCart_EmptyCart(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/cart/12", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cart_id":12,"products":[],"total":0.00}`, rec.Body.String())
}

func TestCart_AddErrors(t *testing.T) {
	env := newTestEnv(t)
	a := env.createProduct("A", 2, 5)

	require.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/cart/x", map[string]any{"product_id": a, "quantity": 1}).Code)
	require.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/cart/1", map[string]any{"product_id": a, "quantity": 0}).Code)
	require.Equal(t, http.StatusNotFound, env.do(http.MethodPost, "/api/cart/1", map[string]any{"product_id": a + 10, "quantity": 1}).Code)
}

func TestCart_ZeroIDIsValid(t *testing.T) {
	env := newTestEnv(t)
	a := env.createProduct("A", 2, 5)

	rec := env.do(http.MethodPost, "/api/cart/0", map[string]any{"product_id": a, "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var cart cartResp
	env.decode(env.do(http.MethodGet, "/api/cart/0", nil), &cart)
	assert.Zero(t, cart.CartID)
	require.Len(t, cart.Products, 1)
	assert.EqualValues(t, 2, cart.Products[0].Quantity)

	require.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/cart/-1", nil).Code)
}

func TestCart_Remove(t *testing.T) {
	env := newTestEnv(t)
	a := env.createProduct("A", 2, 5)
	path := fmt.Sprintf("/api/cart/1/items/%d", a)

	require.Equal(t, http.StatusNotFound, env.do(http.MethodDelete, path, nil).Code)

	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/cart/1", map[string]any{"product_id": a, "quantity": 1}).Code)
	require.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, path, nil).Code)

	var cart cartResp
	env.decode(env.do(http.MethodGet, "/api/cart/1", nil), &cart)
	assert.Empty(t, cart.Products)
}

func TestCart_CompleteReportsShortLine(t *testing.T) {
	env := newTestEnv(t)
	a := env.createProduct("A", 1, 2)

	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/cart/4", map[string]any{"product_id": a, "quantity": 2}).Code)
	require.Equal(t, http.StatusOK, env.do(http.MethodPatch, fmt.Sprintf("/api/products/%d", a), map[string]any{"inventory_count": 1}).Code)

	rec := env.do(http.MethodPost, "/api/cart/4/complete", nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp struct {
		ProductID int64 `json:"product_id"`
		Requested int64 `json:"requested"`
	}
	env.decode(rec, &resp)
	assert.Equal(t, a, resp.ProductID)
	assert.EqualValues(t, 2, resp.Requested)

	var cart cartResp
	env.decode(env.do(http.MethodGet, "/api/cart/4", nil), &cart)
	assert.Len(t, cart.Products, 1)
}
