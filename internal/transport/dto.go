package transport

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/stockcart/internal/models"
	"github.com/Skotchmaster/stockcart/internal/search"
	"github.com/Skotchmaster/stockcart/internal/service"
)

type CreateProductRequest struct {
	Title          string           `json:"title"`
	Price          *decimal.Decimal `json:"price"`
	InventoryCount *int64           `json:"inventory_count"`
}

// Input reports missing fields the same way the service reports bad ones.
func (r CreateProductRequest) Input() (service.CreateProductInput, error) {
	missing := map[string]string{}
	if r.Price == nil {
		missing["price"] = "is required"
	}
	if r.InventoryCount == nil {
		missing["inventory_count"] = "is required"
	}
	if len(missing) > 0 {
		return service.CreateProductInput{}, &service.ValidationError{Fields: missing}
	}
	return service.CreateProductInput{
		Title:          r.Title,
		Price:          *r.Price,
		InventoryCount: *r.InventoryCount,
	}, nil
}

type PatchProductRequest struct {
	Title          *string          `json:"title"`
	Price          *decimal.Decimal `json:"price"`
	InventoryCount *int64           `json:"inventory_count"`
}

func (r PatchProductRequest) Patch() service.ProductPatch {
	return service.ProductPatch{
		Title:          r.Title,
		Price:          r.Price,
		InventoryCount: r.InventoryCount,
	}
}

type AddToCartRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// Money renders an amount as a JSON number with two fractional digits.
func Money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

type ProductResponse struct {
	ID             int64       `json:"id"`
	Title          string      `json:"title"`
	Price          json.Number `json:"price"`
	InventoryCount int64       `json:"inventory_count"`
	Available      bool        `json:"available"`
}

func NewProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Title:          p.Title,
		Price:          Money(p.Price),
		InventoryCount: p.InventoryCount,
		Available:      p.InventoryCount > 0,
	}
}

func NewProductList(items []models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(items))
	for _, p := range items {
		out = append(out, NewProductResponse(p))
	}
	return out
}

func NewSearchHits(docs []search.Document) []ProductResponse {
	out := make([]ProductResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, ProductResponse{
			ID:             d.ID,
			Title:          d.Title,
			Price:          Money(d.Price),
			InventoryCount: d.InventoryCount,
			Available:      d.Available,
		})
	}
	return out
}

type CartLineResponse struct {
	ProductID int64       `json:"product_id"`
	Title     string      `json:"title"`
	Price     json.Number `json:"price"`
	Quantity  int64       `json:"quantity"`
	LineTotal json.Number `json:"line_total"`
}

type CartResponse struct {
	CartID   int64              `json:"cart_id"`
	Products []CartLineResponse `json:"products"`
	Total    json.Number        `json:"total"`
}

func NewCartResponse(s *service.CartSnapshot) CartResponse {
	lines := make([]CartLineResponse, 0, len(s.Items))
	for _, l := range s.Items {
		lines = append(lines, CartLineResponse{
			ProductID: l.ProductID,
			Title:     l.Title,
			Price:     Money(l.Price),
			Quantity:  l.Quantity,
			LineTotal: Money(l.LineTotal),
		})
	}
	return CartResponse{CartID: s.CartID, Products: lines, Total: Money(s.Total)}
}
