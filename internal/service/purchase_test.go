package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/stockcart/internal/events"
	"github.com/Skotchmaster/stockcart/internal/metrics"
)

func TestPurchaseOne_ZeroStock(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "b", "3.00", 0)

	_, err := f.purchases.PurchaseOne(context.Background(), p.ID)
	require.ErrorIs(t, err, ErrOutOfStock)
	assert.Zero(t, f.stock(t, p.ID))
	assert.Equal(t, 1.0, f.counter(t, "stockcart_purchases_total", metrics.PurchaseOutcomeOutOfStock))
}

func TestPurchaseOne_UnknownProduct(t *testing.T) {
	f := newFixture(t)

	_, err := f.purchases.PurchaseOne(context.Background(), 123)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1.0, f.counter(t, "stockcart_purchases_total", metrics.PurchaseOutcomeNotFound))
}

func TestPurchaseOne_TakesOneUnit(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "a", "3.00", 2)

	got, err := f.purchases.PurchaseOne(context.Background(), p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.InventoryCount)

	evs := f.events.Events()
	require.Len(t, evs, 2)
	assert.Equal(t, events.ProductPurchased, evs[1].Type)

	indexed, _ := f.index.get(p.ID)
	assert.EqualValues(t, 1, indexed.InventoryCount)
}

func TestPurchaseOne_LastUnitHasOneWinner(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "last", "1.00", 1)

	const callers = 16
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		purchased  int
		outOfStock int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.purchases.PurchaseOne(context.Background(), p.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				purchased++
			case errors.Is(err, ErrOutOfStock):
				outOfStock++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, purchased)
	assert.Equal(t, callers-1, outOfStock)
	assert.Zero(t, f.stock(t, p.ID))
}

func TestCompleteCart_Scenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", "2.00", 5)

	_, err := f.carts.AddItem(ctx, 1, a.ID, 3)
	require.NoError(t, err)

	snap, err := f.carts.GetSnapshot(ctx, 1)
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "6.00", snap.Total.StringFixed(2))

	_, err = f.carts.AddItem(ctx, 1, a.ID, 4)
	require.ErrorIs(t, err, ErrInventoryExceeded)

	done, err := f.purchases.CompleteCart(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, done.CartID)
	assert.EqualValues(t, 3, done.Units)
	assert.Equal(t, []CommittedLine{{ProductID: a.ID, Quantity: 3}}, done.Lines)

	assert.EqualValues(t, 2, f.stock(t, a.ID))
	snap, err = f.carts.GetSnapshot(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, snap.Items)

	_, ok := f.cart(t, 1)
	assert.True(t, ok)
	assert.Equal(t, 1.0, f.counter(t, "stockcart_cart_commits_total", metrics.CommitOutcomeCompleted))
}

func TestCompleteCart_ShortLineRollsBackEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", "1.00", 5)
	b := f.product(t, "B", "1.00", 5)

	_, err := f.carts.AddItem(ctx, 1, a.ID, 2)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, 1, b.ID, 3)
	require.NoError(t, err)

	_, err = f.catalog.Update(ctx, b.ID, ProductPatch{InventoryCount: ptr(int64(1))})
	require.NoError(t, err)

	_, err = f.purchases.CompleteCart(ctx, 1)
	require.ErrorIs(t, err, ErrInventoryExceeded)

	var short *InsufficientStockError
	require.True(t, errors.As(err, &short))
	assert.EqualValues(t, 1, short.CartID)
	assert.Equal(t, b.ID, short.ProductID)
	assert.EqualValues(t, 3, short.Requested)

	assert.EqualValues(t, 5, f.stock(t, a.ID))
	assert.EqualValues(t, 1, f.stock(t, b.ID))

	snap, err := f.carts.GetSnapshot(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, snap.Items, 2)
	assert.Equal(t, 1.0, f.counter(t, "stockcart_cart_commits_total", metrics.CommitOutcomeInventoryExceeded))
}

func TestCompleteCart_EmptyCart(t *testing.T) {
	f := newFixture(t)

	done, err := f.purchases.CompleteCart(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, done.Lines)
	assert.Zero(t, done.Units)
}

// The sqlite test store runs on one connection, so the goroutines below are
// queued rather than parallel. The conditional decrement itself is raced
// across connections in internal/repo/race_postgres_test.go.
func TestCompleteCart_CompetingCartsNeverOversell(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "A", "1.00", 3)

	const carts = 6
	for c := int64(1); c <= carts; c++ {
		_, err := f.carts.AddItem(ctx, c, p.ID, 3)
		require.NoError(t, err)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		complete int
	)
	for c := int64(1); c <= carts; c++ {
		wg.Add(1)
		go func(cartID int64) {
			defer wg.Done()
			_, err := f.purchases.CompleteCart(ctx, cartID)
			if err == nil {
				mu.Lock()
				complete++
				mu.Unlock()
				return
			}
			if !errors.Is(err, ErrInventoryExceeded) {
				t.Errorf("cart %d: unexpected error: %v", cartID, err)
			}
		}(c)
	}
	wg.Wait()

	assert.Equal(t, 1, complete)
	assert.Zero(t, f.stock(t, p.ID))
}
