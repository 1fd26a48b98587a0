package cache

import (
	"context"
	"errors"

	"github.com/Lorendor/webshop-api/internal/domain"
)

// CartCache is the ephemeral store carts live in. Carts are cache state
// only: there is no backing table, and an expired or absent key simply
// reads as a missing cart.
type CartCache interface {
	Get(ctx context.Context, key string) (*domain.Cart, error)
	Set(ctx context.Context, key string, cart *domain.Cart) error
	Delete(ctx context.Context, key string) error
}

// CatalogCache is a read-through cache for single-product lookups.
type CatalogCache interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	SetProduct(ctx context.Context, product *domain.Product) error
}

var ErrCacheMiss = errors.New("cache miss")
