package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"

	"github.com/Skotchmaster/stockcart/internal/config"
	"github.com/Skotchmaster/stockcart/internal/models"
)

type ESIndexer struct {
	es    *elasticsearch.Client
	index string
}

func NewESIndexer(cfg config.SearchConfig) (*ESIndexer, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return &ESIndexer{es: client, index: cfg.Index}, nil
}

func (x *ESIndexer) IndexProduct(ctx context.Context, p models.Product) error {
	body, err := encode(NewDocument(p))
	if err != nil {
		return err
	}

	res, err := x.es.Index(
		x.index,
		body,
		x.es.Index.WithDocumentID(docID(p.ID)),
		x.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index product %d: %w", p.ID, err)
	}
	return checkResponse(res, "index product")
}

func (x *ESIndexer) DeleteProduct(ctx context.Context, id int64) error {
	res, err := x.es.Delete(x.index, docID(id), x.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return checkResponse(res, "delete product")
}

func (x *ESIndexer) DeleteAll(ctx context.Context) error {
	body, err := encode(map[string]any{"query": map[string]any{"match_all": map[string]any{}}})
	if err != nil {
		return err
	}

	res, err := x.es.DeleteByQuery(
		[]string{x.index},
		body,
		x.es.DeleteByQuery.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete all products: %w", err)
	}
	return checkResponse(res, "delete all products")
}

func (x *ESIndexer) Search(ctx context.Context, query string, from, size int) (int64, []Document, error) {
	body, err := encode(map[string]any{
		"query": map[string]any{
			"match": map[string]any{
				"title": map[string]any{
					"query":     query,
					"fuzziness": "AUTO",
				},
			},
		},
		"from": from,
		"size": size,
	})
	if err != nil {
		return 0, nil, err
	}

	res, err := x.es.Search(
		x.es.Search.WithContext(ctx),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(body),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search products: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, responseError(res, "search products")
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source Document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search response: %w", err)
	}

	docs := make([]Document, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		docs[i] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}

func encode(v any) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("encode search body: %w", err)
	}
	return &buf, nil
}

// checkResponse closes the body. A missing document or index is not an
// error for deletes and refreshes.
func checkResponse(res *esapi.Response, op string) error {
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	if res.IsError() {
		return responseError(res, op)
	}
	return nil
}

func responseError(res *esapi.Response, op string) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 1<<10))
	return fmt.Errorf("%s: elasticsearch %s: %s", op, res.Status(), bytes.TrimSpace(body))
}
