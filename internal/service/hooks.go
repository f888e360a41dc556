package service

import (
	"context"

	"github.com/Skotchmaster/stockcart/internal/events"
	"github.com/Skotchmaster/stockcart/internal/logging"
	"github.com/Skotchmaster/stockcart/internal/models"
	"github.com/Skotchmaster/stockcart/internal/search"
)

// Side effects below run after the store has committed. They never change
// the outcome of the operation that triggered them.

func publish(ctx context.Context, p events.Publisher, ev events.Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, ev); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "type", string(ev.Type), "key", ev.Key, "error", err)
	}
}

func indexProduct(ctx context.Context, idx search.Indexer, p models.Product) {
	if idx == nil {
		return
	}
	if err := idx.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "product_id", p.ID, "error", err)
	}
}

func unindexProduct(ctx context.Context, idx search.Indexer, id int64) {
	if idx == nil {
		return
	}
	if err := idx.DeleteProduct(ctx, id); err != nil {
		logging.FromContext(ctx).Warn("search_unindex_failed", "product_id", id, "error", err)
	}
}

func clearIndex(ctx context.Context, idx search.Indexer) {
	if idx == nil {
		return
	}
	if err := idx.DeleteAll(ctx); err != nil {
		logging.FromContext(ctx).Warn("search_clear_failed", "error", err)
	}
}
