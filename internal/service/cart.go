package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/stockcart/internal/events"
	"github.com/Skotchmaster/stockcart/internal/repo"
)

type CartService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

type LineView struct {
	ProductID int64           `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartSnapshot struct {
	CartID int64           `json:"cart_id"`
	Items  []LineView      `json:"products"`
	Total  decimal.Decimal `json:"total"`
}

type AddResult struct {
	CartID    int64 `json:"cart_id"`
	ProductID int64 `json:"product_id"`
	Added     int64 `json:"added"`
	Quantity  int64 `json:"quantity"`
}

// GetSnapshot never fails for an unknown cart; it returns no lines and a
// zero total.
func (s *CartService) GetSnapshot(ctx context.Context, cartID int64) (*CartSnapshot, error) {
	lines, err := s.Repo.ListCartLines(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("cart %d: %w", cartID, err)
	}

	snap := &CartSnapshot{CartID: cartID, Items: make([]LineView, 0, len(lines)), Total: decimal.Zero}
	for _, l := range lines {
		lineTotal := l.Price.Mul(decimal.NewFromInt(l.Quantity)).Round(2)
		snap.Items = append(snap.Items, LineView{
			ProductID: l.ProductID,
			Title:     l.Title,
			Price:     l.Price,
			Quantity:  l.Quantity,
			LineTotal: lineTotal,
		})
		snap.Total = snap.Total.Add(lineTotal)
	}
	snap.Total = snap.Total.Round(2)
	return snap, nil
}

// AddItem checks the requested quantity against current stock without
// reserving it. A rejected first add leaves no cart behind.
func (s *CartService) AddItem(ctx context.Context, cartID, productID, quantity int64) (*AddResult, error) {
	if quantity <= 0 {
		return nil, invalidField("quantity", "must be greater than 0")
	}

	var res AddResult
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		prod, err := tx.GetProduct(ctx, productID)
		if err != nil {
			return storeError(err, "product %d", productID)
		}
		if err := tx.EnsureCart(ctx, cartID); err != nil {
			return fmt.Errorf("cart %d: %w", cartID, err)
		}

		var existing int64
		item, err := tx.GetCartItem(ctx, cartID, productID)
		switch {
		case err == nil:
			existing = item.Quantity
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return fmt.Errorf("cart %d: %w", cartID, err)
		}

		// existing never exceeds stock, so the subtraction cannot wrap
		if quantity > prod.InventoryCount-existing {
			return fmt.Errorf("cart %d: product %d: %d in cart plus %d requested exceeds stock of %d: %w",
				cartID, productID, existing, quantity, prod.InventoryCount, ErrInventoryExceeded)
		}

		updated, err := tx.UpsertCartItem(ctx, cartID, productID, quantity)
		if err != nil {
			return storeError(err, "cart %d", cartID)
		}
		res = AddResult{CartID: cartID, ProductID: productID, Added: quantity, Quantity: updated.Quantity}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.New(events.CartItemAdded, cartID, res))
	return &res, nil
}

func (s *CartService) RemoveItem(ctx context.Context, cartID, productID int64) error {
	n, err := s.Repo.DeleteCartItem(ctx, cartID, productID)
	if err != nil {
		return fmt.Errorf("cart %d: %w", cartID, err)
	}
	if n == 0 {
		return fmt.Errorf("cart %d: product %d: %w", cartID, productID, ErrNotFound)
	}

	publish(ctx, s.Events, events.New(events.CartItemRemoved, cartID, map[string]int64{"product_id": productID}))
	return nil
}
