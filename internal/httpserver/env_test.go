package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/stockcart/internal/db/dbtest"
	"github.com/Skotchmaster/stockcart/internal/events/eventstest"
	"github.com/Skotchmaster/stockcart/internal/metrics"
	"github.com/Skotchmaster/stockcart/internal/repo"
	"github.com/Skotchmaster/stockcart/internal/search"
	"github.com/Skotchmaster/stockcart/internal/service"
)

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	Repo   *repo.GormRepo
	Events *eventstest.Recorder
	ready  error
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	r := &repo.GormRepo{DB: dbtest.OpenTestDB(t)}
	rec := &eventstest.Recorder{}
	reg := prometheus.NewRegistry()

	catalog := &service.CatalogService{Repo: r, Events: rec, Index: search.NopIndexer{}}
	purchases := &service.PurchaseService{Repo: r, Catalog: catalog, Events: rec, Metrics: metrics.New(reg)}
	carts := &service.CartService{Repo: r, Events: rec}

	env := &testEnv{T: t, E: echo.New(), Repo: r, Events: rec}
	Register(env.E, &Deps{
		CatalogHandler: &CatalogHTTP{Svc: catalog, Purchases: purchases},
		CartHandler:    &CartHTTP{Svc: carts, Purchases: purchases},
		Ready:          func(context.Context) error { return env.ready },
		Gatherer:       reg,
	})
	return env
}

func (env *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) decode(rec *httptest.ResponseRecorder, dst any) {
	env.T.Helper()
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), dst))
}

func (env *testEnv) createProduct(title string, price float64, stock int64) int64 {
	env.T.Helper()

	rec := env.do(http.MethodPost, "/api/products", map[string]any{
		"title":           title,
		"price":           price,
		"inventory_count": stock,
	})
	require.Equal(env.T, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		ID int64 `json:"id"`
	}
	env.decode(rec, &resp)
	return resp.ID
}

var errStoreDown = errors.New("store down")
