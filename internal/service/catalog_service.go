package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/Lorendor/webshop-api/internal/cache"
	"github.com/Lorendor/webshop-api/internal/domain"
	"github.com/Lorendor/webshop-api/internal/repository"
)

const (
	defaultPerPage = 15
	maxPerPage     = 100
)

// CatalogService fronts the product repository with a short-TTL read
// cache for single-product lookups. The catalog is read-mostly, so
// TTL expiry is the only invalidation.
type CatalogService struct {
	repo  repository.ProductRepository
	cache cache.CatalogCache
	sfg   singleflight.Group // collapses concurrent misses for one product
	log   *logrus.Entry
}

func NewCatalogService(repo repository.ProductRepository, catalogCache cache.CatalogCache, log *logrus.Entry) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: catalogCache,
		log:   log,
	}
}

// ListProducts returns one page of active products. Pagination inputs are
// normalized here so handlers and tests share the same defaults.
func (s *CatalogService) ListProducts(ctx context.Context, filter domain.ProductFilter) (*domain.ProductPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = defaultPerPage
	}
	if filter.PerPage > maxPerPage {
		filter.PerPage = maxPerPage
	}

	return s.repo.List(ctx, filter)
}

// GetProduct resolves an active product by id, cache first.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	v, err, _ := s.sfg.Do(strconv.FormatInt(id, 10), func() (interface{}, error) {
		product, err := s.cache.GetProduct(ctx, id)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.WithError(err).Warn("product cache get failed")
		}

		product, err = s.repo.FindActive(ctx, id)
		if err != nil {
			return nil, err
		}

		if err := s.cache.SetProduct(ctx, product); err != nil {
			s.log.WithError(err).Warn("product cache set failed")
		}
		return product, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.Product), nil
}
