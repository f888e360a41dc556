package service

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/stockcart/internal/db/dbtest"
	"github.com/Skotchmaster/stockcart/internal/events/eventstest"
	"github.com/Skotchmaster/stockcart/internal/metrics"
	"github.com/Skotchmaster/stockcart/internal/models"
	"github.com/Skotchmaster/stockcart/internal/repo"
	"github.com/Skotchmaster/stockcart/internal/search"
)

type fakeIndex struct {
	search.NopIndexer

	mu      sync.Mutex
	indexed map[int64]models.Product
	deleted []int64
	cleared int
}

func (f *fakeIndex) IndexProduct(_ context.Context, p models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.indexed == nil {
		f.indexed = map[int64]models.Product{}
	}
	f.indexed[p.ID] = p
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	delete(f.indexed, id)
	return nil
}

func (f *fakeIndex) DeleteAll(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
	f.indexed = nil
	return nil
}

func (f *fakeIndex) get(id int64) (models.Product, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.indexed[id]
	return p, ok
}

type fixture struct {
	repo      *repo.GormRepo
	events    *eventstest.Recorder
	index     *fakeIndex
	reg       *prometheus.Registry
	catalog   *CatalogService
	carts     *CartService
	purchases *PurchaseService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	r := &repo.GormRepo{DB: dbtest.OpenTestDB(t)}
	rec := &eventstest.Recorder{}
	idx := &fakeIndex{}
	reg := prometheus.NewRegistry()

	catalog := &CatalogService{Repo: r, Events: rec, Index: idx}
	return &fixture{
		repo:      r,
		events:    rec,
		index:     idx,
		reg:       reg,
		catalog:   catalog,
		carts:     &CartService{Repo: r, Events: rec},
		purchases: &PurchaseService{Repo: r, Catalog: catalog, Events: rec, Metrics: metrics.New(reg)},
	}
}

func (f *fixture) product(t *testing.T, title, price string, stock int64) *models.Product {
	t.Helper()
	p, err := f.catalog.Create(context.Background(), CreateProductInput{
		Title:          title,
		Price:          decimal.RequireFromString(price),
		InventoryCount: stock,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) stock(t *testing.T, id int64) int64 {
	t.Helper()
	p, err := f.catalog.Get(context.Background(), id)
	require.NoError(t, err)
	return p.InventoryCount
}

func (f *fixture) cart(t *testing.T, id int64) (models.Cart, bool) {
	t.Helper()
	var carts []models.Cart
	require.NoError(t, f.repo.DB.Where("id = ?", id).Limit(1).Find(&carts).Error)
	if len(carts) == 0 {
		return models.Cart{}, false
	}
	return carts[0], true
}

func (f *fixture) counter(t *testing.T, name, outcome string) float64 {
	t.Helper()
	mfs, err := f.reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "outcome" && lp.GetValue() == outcome {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func ptr[T any](v T) *T { return &v }
