package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/stockcart/internal/events"
	"github.com/Skotchmaster/stockcart/internal/logging"
	"github.com/Skotchmaster/stockcart/internal/metrics"
	"github.com/Skotchmaster/stockcart/internal/models"
	"github.com/Skotchmaster/stockcart/internal/repo"
)

type PurchaseService struct {
	Repo    *repo.GormRepo
	Catalog *CatalogService
	Events  events.Publisher
	Metrics *metrics.Stock
}

type CommittedLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type Completion struct {
	CartID int64           `json:"cart_id"`
	Lines  []CommittedLine `json:"lines"`
	Units  int64           `json:"units"`
}

// PurchaseOne takes a single unit. Concurrent callers racing for the last
// unit get exactly one success; the rest see ErrOutOfStock.
func (s *PurchaseService) PurchaseOne(ctx context.Context, productID int64) (*models.Product, error) {
	l := logging.FromContext(ctx)

	ok, err := s.Catalog.DecrementIfAvailable(ctx, productID, 1)
	if err != nil {
		s.Metrics.ObservePurchase(metrics.PurchaseOutcomeError)
		return nil, err
	}

	prod, getErr := s.Catalog.Get(ctx, productID)
	if !ok {
		if errors.Is(getErr, ErrNotFound) {
			s.Metrics.ObservePurchase(metrics.PurchaseOutcomeNotFound)
			return nil, getErr
		}
		s.Metrics.ObservePurchase(metrics.PurchaseOutcomeOutOfStock)
		l.Info("purchase_out_of_stock", "product_id", productID)
		return nil, fmt.Errorf("product %d: %w", productID, ErrOutOfStock)
	}

	s.Metrics.ObservePurchase(metrics.PurchaseOutcomePurchased)
	if getErr != nil {
		// The unit is sold; a product deleted right after still counts.
		l.Warn("purchase_reload_failed", "product_id", productID, "error", getErr)
		prod = &models.Product{ID: productID}
	}
	publish(ctx, s.Events, events.New(events.ProductPurchased, productID, map[string]int64{
		"quantity":  1,
		"remaining": prod.InventoryCount,
	}))
	return prod, nil
}

// CompleteCart decrements stock for every line and empties the cart in one
// transaction. If any line cannot be covered nothing changes and the error
// is an *InsufficientStockError for that line.
func (s *PurchaseService) CompleteCart(ctx context.Context, cartID int64) (*Completion, error) {
	l := logging.FromContext(ctx).With("cart_id", cartID)
	started := time.Now()

	done := &Completion{CartID: cartID, Lines: make([]CommittedLine, 0)}
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		items, err := tx.LockCartItems(ctx, cartID)
		if err != nil {
			return fmt.Errorf("cart %d: %w", cartID, err)
		}

		for _, it := range items {
			ok, err := tx.DecrementIfAvailable(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return fmt.Errorf("cart %d: product %d: %w", cartID, it.ProductID, err)
			}
			if !ok {
				return &InsufficientStockError{CartID: cartID, ProductID: it.ProductID, Requested: it.Quantity}
			}
			done.Lines = append(done.Lines, CommittedLine{ProductID: it.ProductID, Quantity: it.Quantity})
			done.Units += it.Quantity
		}

		if _, err := tx.ClearCart(ctx, cartID); err != nil {
			return fmt.Errorf("cart %d: %w", cartID, err)
		}
		return nil
	})
	if err != nil {
		outcome := metrics.CommitOutcomeError
		if errors.Is(err, ErrInventoryExceeded) {
			outcome = metrics.CommitOutcomeInventoryExceeded
			l.Info("cart_commit_rejected", "error", err)
		} else {
			l.Error("cart_commit_failed", "error", err)
		}
		s.Metrics.ObserveCommit(outcome, 0, time.Since(started))
		return nil, err
	}

	s.Metrics.ObserveCommit(metrics.CommitOutcomeCompleted, done.Units, time.Since(started))
	for _, line := range done.Lines {
		s.Catalog.refresh(ctx, line.ProductID)
	}
	publish(ctx, s.Events, events.New(events.CartCompleted, cartID, done))
	return done, nil
}
