package search

import (
	"context"
	"errors"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/stockcart/internal/models"
)

var ErrDisabled = errors.New("search: index not configured")

// Document is the searchable projection of a product.
type Document struct {
	ID             int64           `json:"id"`
	Title          string          `json:"title"`
	Price          decimal.Decimal `json:"price"`
	InventoryCount int64           `json:"inventory_count"`
	Available      bool            `json:"available"`
}

func NewDocument(p models.Product) Document {
	return Document{
		ID:             p.ID,
		Title:          p.Title,
		Price:          p.Price,
		InventoryCount: p.InventoryCount,
		Available:      p.InventoryCount > 0,
	}
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}

type Indexer interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	Search(ctx context.Context, query string, from, size int) (int64, []Document, error)
}

// NopIndexer is used when no search cluster is configured.
type NopIndexer struct{}

func (NopIndexer) IndexProduct(context.Context, models.Product) error { return nil }
func (NopIndexer) DeleteProduct(context.Context, int64) error         { return nil }
func (NopIndexer) DeleteAll(context.Context) error                    { return nil }

func (NopIndexer) Search(context.Context, string, int, int) (int64, []Document, error) {
	return 0, nil, ErrDisabled
}
