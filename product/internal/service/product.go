package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/perfumery/internal/log"
	"github.com/Alturino/perfumery/internal/metrics"
	inOtel "github.com/Alturino/perfumery/internal/otel"
	"github.com/Alturino/perfumery/internal/remote"
	"github.com/Alturino/perfumery/product/internal/otel"
	"github.com/Alturino/perfumery/product/pkg/request"
	"github.com/Alturino/perfumery/product/pkg/response"
)

const KEY_PRODUCTS = "products"

type ProductService struct {
	store    remote.ProductReader
	cache    *redis.Client
	metrics  *metrics.Storefront
	cacheTTL time.Duration
}

// NewProductService reads the catalog through cache when it is not nil.
func NewProductService(
	store remote.ProductReader,
	cache *redis.Client,
	cacheTTL time.Duration,
	metrics *metrics.Storefront,
) *ProductService {
	return &ProductService{store: store, cache: cache, cacheTTL: cacheTTL, metrics: metrics}
}

// FindProducts returns the catalog filtered by category. A store failure yields
// an empty catalog instead of an error.
func (svc *ProductService) FindProducts(
	c context.Context,
	param request.FindProducts,
) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProducts").
		Str(log.KeyCategory, param.Category.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding catalog").Logger()
	logger.Trace().Msg("finding catalog")
	c = logger.WithContext(c)
	products, err := svc.catalog(c)
	if err != nil {
		err = fmt.Errorf("failed finding catalog with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return []response.Product{}, nil
	}
	logger = logger.With().Int(log.KeyProductsCount, len(products)).Logger()
	logger.Trace().Msg("found catalog")

	logger = logger.With().Str(log.KeyProcess, "filtering catalog").Logger()
	filtered := Filter(products, param.Category)
	logger.Info().Int("filteredCount", len(filtered)).Msg("filtered catalog")

	return filtered, nil
}

func (svc *ProductService) FindProductById(
	c context.Context,
	param request.FindProductById,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProductById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProductById").
		Str(log.KeyProductID, param.ID).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding product in cache").Logger()
	logger.Trace().Msg("finding product in cache")
	if cached, ok := svc.cachedCatalog(logger.WithContext(c)); ok {
		for _, product := range cached {
			if product.ID == param.ID {
				logger.Info().Msg("found product in cache")
				return product, nil
			}
		}
	}
	logger.Trace().Msg("product is not in cache")

	logger = logger.With().Str(log.KeyProcess, "finding product in store").Logger()
	logger.Trace().Msg("finding product in store")
	product, err := svc.store.FindProductById(logger.WithContext(c), param.ID)
	if err != nil {
		err = fmt.Errorf("failed finding product in store with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("found product in store")

	return product, nil
}

func (svc *ProductService) cachedCatalog(c context.Context) ([]response.Product, bool) {
	if svc.cache == nil {
		return nil, false
	}
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService cachedCatalog").
		Str(log.KeyCacheKey, KEY_PRODUCTS).
		Logger()

	jsonCache, err := svc.cache.Get(c, KEY_PRODUCTS).Result()
	if errors.Is(err, redis.Nil) {
		svc.metrics.IncCatalogCache(metrics.ResultMiss)
		logger.Trace().Msg("catalog is not cached")
		return nil, false
	}
	if err != nil {
		svc.metrics.IncCatalogCache(metrics.ResultError)
		err = fmt.Errorf("failed getting catalog from cache with error=%w", err)
		logger.Warn().Err(err).Msg(err.Error())
		return nil, false
	}

	products := []response.Product{}
	if err = json.Unmarshal([]byte(jsonCache), &products); err != nil {
		svc.metrics.IncCatalogCache(metrics.ResultError)
		err = fmt.Errorf("failed unmarshaling catalog from cache with error=%w", err)
		logger.Warn().Err(err).Msg(err.Error())
		return nil, false
	}
	svc.metrics.IncCatalogCache(metrics.ResultHit)
	return products, true
}

func (svc *ProductService) catalog(c context.Context) ([]response.Product, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService catalog").
		Str(log.KeyCacheKey, KEY_PRODUCTS).
		Logger()

	if products, ok := svc.cachedCatalog(c); ok {
		logger.Trace().Msg("found catalog in cache")
		return products, nil
	}

	logger = logger.With().Str(log.KeyProcess, "fetching catalog from store").Logger()
	logger.Trace().Msg("fetching catalog from store")
	products, err := svc.store.FetchProducts(c)
	if err != nil {
		return nil, err
	}
	logger.Trace().Msg("fetched catalog from store")

	if svc.cache == nil {
		return products, nil
	}
	logger = logger.With().Str(log.KeyProcess, "caching catalog").Logger()
	jsonCache, err := json.Marshal(products)
	if err != nil {
		err = fmt.Errorf("failed marshaling catalog with error=%w", err)
		logger.Warn().Err(err).Msg(err.Error())
		return products, nil
	}
	if err = svc.cache.Set(c, KEY_PRODUCTS, jsonCache, svc.cacheTTL).Err(); err != nil {
		err = fmt.Errorf("failed caching catalog with error=%w", err)
		logger.Warn().Err(err).Msg(err.Error())
		return products, nil
	}
	logger.Trace().Msg("cached catalog")

	return products, nil
}
