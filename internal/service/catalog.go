package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/stockcart/internal/events"
	"github.com/Skotchmaster/stockcart/internal/models"
	"github.com/Skotchmaster/stockcart/internal/repo"
	"github.com/Skotchmaster/stockcart/internal/search"
)

type CatalogService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Index  search.Indexer
}

type ListFilter struct {
	OnlyAvailable bool
	Offset        int
	// Limit <= 0 returns every matching product.
	Limit int
}

type CreateProductInput struct {
	Title          string          `json:"title"           validate:"required,max=255"`
	Price          decimal.Decimal `json:"price"           validate:"gte=0,lt=10000000000"`
	InventoryCount int64           `json:"inventory_count" validate:"gte=0"`
}

// ProductPatch carries the fields to change. Nil fields are left as they are.
type ProductPatch struct {
	Title          *string          `json:"title"           validate:"omitempty,min=1,max=255"`
	Price          *decimal.Decimal `json:"price"           validate:"omitempty,gte=0,lt=10000000000"`
	InventoryCount *int64           `json:"inventory_count" validate:"omitempty,gte=0"`
}

func (p ProductPatch) empty() bool {
	return p.Title == nil && p.Price == nil && p.InventoryCount == nil
}

func (s *CatalogService) List(ctx context.Context, f ListFilter) (int64, []models.Product, error) {
	if f.Offset < 0 {
		return 0, nil, invalidField("offset", "must be greater than or equal to 0")
	}
	total, items, err := s.Repo.ListProducts(ctx, repo.ProductFilter{
		OnlyAvailable: f.OnlyAvailable,
		Offset:        f.Offset,
		Limit:         f.Limit,
	})
	if err != nil {
		return 0, nil, fmt.Errorf("list products: %w", err)
	}
	return total, items, nil
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, storeError(err, "product %d", id)
	}
	return prod, nil
}

func (s *CatalogService) Create(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	in.Title = strings.TrimSpace(in.Title)

	extra := map[string]string{}
	priceScale(extra, &in.Price)
	if err := check(in, extra); err != nil {
		return nil, err
	}

	prod := models.Product{
		Title:          in.Title,
		Price:          in.Price,
		InventoryCount: in.InventoryCount,
	}
	if err := s.Repo.CreateProduct(ctx, &prod); err != nil {
		return nil, storeError(err, "create product")
	}

	indexProduct(ctx, s.Index, prod)
	publish(ctx, s.Events, events.New(events.ProductCreated, prod.ID, prod))
	return &prod, nil
}

// Update validates every supplied field before touching the store.
func (s *CatalogService) Update(ctx context.Context, id int64, patch ProductPatch) (*models.Product, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		patch.Title = &title
	}

	extra := map[string]string{}
	priceScale(extra, patch.Price)
	if err := check(patch, extra); err != nil {
		return nil, err
	}

	if patch.empty() {
		return s.Get(ctx, id)
	}

	fields := map[string]any{}
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.Price != nil {
		fields["price"] = *patch.Price
	}
	if patch.InventoryCount != nil {
		fields["inventory_count"] = *patch.InventoryCount
	}

	prod, err := s.Repo.UpdateProductFields(ctx, id, fields)
	if err != nil {
		return nil, storeError(err, "update product %d", id)
	}

	indexProduct(ctx, s.Index, *prod)
	publish(ctx, s.Events, events.New(events.ProductUpdated, prod.ID, prod))
	return prod, nil
}

// Delete removes the product and its cart lines. A missing id deletes
// nothing and is not an error.
func (s *CatalogService) Delete(ctx context.Context, id int64) (int64, error) {
	n, err := s.Repo.DeleteProduct(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete product %d: %w", id, err)
	}
	if n > 0 {
		unindexProduct(ctx, s.Index, id)
		publish(ctx, s.Events, events.New(events.ProductDeleted, id, nil))
	}
	return n, nil
}

func (s *CatalogService) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.Repo.DeleteAllProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete all products: %w", err)
	}
	clearIndex(ctx, s.Index)
	publish(ctx, s.Events, events.New(events.ProductsCleared, 0, map[string]int64{"deleted": n}))
	return n, nil
}

// DecrementIfAvailable removes amount units only if that many remain. It
// reports false, with no error, when stock is short or the product is gone.
func (s *CatalogService) DecrementIfAvailable(ctx context.Context, id, amount int64) (bool, error) {
	if amount <= 0 {
		return false, invalidField("amount", "must be greater than 0")
	}
	ok, err := s.Repo.DecrementIfAvailable(ctx, id, amount)
	if err != nil {
		return false, fmt.Errorf("decrement product %d: %w", id, err)
	}
	if ok {
		s.refresh(ctx, id)
	}
	return ok, nil
}

func (s *CatalogService) Search(ctx context.Context, query string, from, size int) (int64, []search.Document, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, nil, invalidField("q", "is required")
	}
	if s.Index == nil {
		return 0, nil, search.ErrDisabled
	}
	return s.Index.Search(ctx, query, from, size)
}

// refresh re-reads the product and pushes it to the search index.
func (s *CatalogService) refresh(ctx context.Context, id int64) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return
	}
	indexProduct(ctx, s.Index, *prod)
}
