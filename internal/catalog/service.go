// Package catalog serves the product listing: a read-only proxy of the
// backend catalog with cache-aside Redis caching. Cache failures never
// fail a request; the backend is the source of truth.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joooonis/incourserun-checkout/internal/pkg/cache"
	"github.com/joooonis/incourserun-checkout/internal/storefront/core/domain/entity"
	"github.com/joooonis/incourserun-checkout/internal/storefront/core/ports"
)

var ErrProductNotFound = errors.New("product not found")

const productsTTL = 5 * time.Minute

// Service implements ports.ProductCatalog.
type Service struct {
	backend ports.BackendClient
	cache   cache.Cache // nil disables caching
}

func NewService(backend ports.BackendClient, c cache.Cache) *Service {
	return &Service{backend: backend, cache: c}
}

// Products returns the catalog, preferring the cache.
func (s *Service) Products(ctx context.Context) ([]entity.Product, error) {
	var key string
	if s.cache != nil {
		key = s.cache.GenerateKey("products", "all")
		if raw, err := s.cache.Get(ctx, key); err != nil {
			slog.WarnContext(ctx, "product cache read failed", "error", err)
		} else if raw != "" {
			var products []entity.Product
			if err := json.Unmarshal([]byte(raw), &products); err == nil {
				return products, nil
			}
			slog.WarnContext(ctx, "discarding corrupt product cache entry", "key", key)
		}
	}

	products, err := s.backend.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching products: %w", err)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(products); err == nil {
			if err := s.cache.Set(ctx, key, string(raw), productsTTL); err != nil {
				// Cache errors don't fail the operation.
				slog.WarnContext(ctx, "product cache write failed", "error", err)
			}
		}
	}
	return products, nil
}

// Product finds a single product by id.
func (s *Service) Product(ctx context.Context, id int64) (entity.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return entity.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return entity.Product{}, fmt.Errorf("%w: %d", ErrProductNotFound, id)
}
