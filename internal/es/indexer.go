package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/mkotelnikov/webshop/internal/models"
)

// Indexer mirrors catalog writes into the search index. A nil Indexer (or one
// without a client) is a no-op so the catalog works without Elasticsearch.
type Indexer struct {
	Client *elasticsearch.Client
	Index  string
}

func (i *Indexer) IndexProduct(ctx context.Context, p *models.Product) error {
	if i == nil || i.Client == nil {
		return nil
	}

	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("es: json.Marshal failed: %w", err)
	}

	res, err := i.Client.Index(
		i.Index,
		bytes.NewReader(body),
		i.Client.Index.WithDocumentID(strconv.FormatUint(uint64(p.ID), 10)),
		i.Client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es: index failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("es: index error: %s", res.Status())
	}
	return nil
}

func (i *Indexer) DeleteProduct(ctx context.Context, productID uint) error {
	if i == nil || i.Client == nil {
		return nil
	}

	res, err := i.Client.Delete(
		i.Index,
		strconv.FormatUint(uint64(productID), 10),
		i.Client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es: delete failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es: delete error: %s", res.Status())
	}
	return nil
}
