package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mkotelnikov/webshop/internal/models"
)

// ProductCache is a read-through cache for public product reads. All methods
// are nil-safe: without Redis the handlers just hit the database.
type ProductCache struct {
	RDB *redis.Client
	TTL time.Duration
}

func New(addr string) *ProductCache {
	return &ProductCache{
		RDB: redis.NewClient(&redis.Options{Addr: addr}),
		TTL: 5 * time.Minute,
	}
}

func key(productID uint) string {
	return fmt.Sprintf("product:%d", productID)
}

func (c *ProductCache) Get(ctx context.Context, productID uint) (*models.Product, bool) {
	if c == nil || c.RDB == nil {
		return nil, false
	}
	raw, err := c.RDB.Get(ctx, key(productID)).Bytes()
	if err != nil {
		return nil, false
	}
	var p models.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (c *ProductCache) Set(ctx context.Context, p *models.Product) {
	if c == nil || c.RDB == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	c.RDB.Set(ctx, key(p.ID), raw, c.TTL)
}

func (c *ProductCache) Invalidate(ctx context.Context, productID uint) {
	if c == nil || c.RDB == nil {
		return
	}
	c.RDB.Del(ctx, key(productID))
}

func (c *ProductCache) Close() error {
	if c == nil || c.RDB == nil {
		return nil
	}
	return c.RDB.Close()
}
