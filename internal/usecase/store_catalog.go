package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/omiri/backend/internal/domain"
	log "github.com/sirupsen/logrus"
)

// StoreCatalogConfig holds configuration for the store catalog
type StoreCatalogConfig struct {
	CacheTTL time.Duration
}

// StoreCatalog serves store lists through a TTL cache in front of the lookup
type StoreCatalog struct {
	cache    domain.CacheRepository
	lookup   domain.StoreLookup
	cacheTTL time.Duration
}

// NewStoreCatalog creates a new store catalog
func NewStoreCatalog(cache domain.CacheRepository, lookup domain.StoreLookup, config StoreCatalogConfig) *StoreCatalog {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	return &StoreCatalog{
		cache:    cache,
		lookup:   lookup,
		cacheTTL: cacheTTL,
	}
}

// Stores returns the stores of country, from cache when fresh.
// Flow: check cache -> lookup -> cache -> return
func (c *StoreCatalog) Stores(ctx context.Context, country string) ([]domain.StoreRecord, error) {
	country = strings.ToUpper(strings.TrimSpace(country))
	if country == "" {
		country = domain.DefaultCountry
	}
	if !countryCodePattern.MatchString(country) {
		return nil, fmt.Errorf("%w: country must be a two-letter code, got %q", domain.ErrInvalidRequest, country)
	}

	key := storesCacheKey(country)
	if cached, err := c.cache.Get(ctx, key); err == nil {
		if stores, ok := cached.([]domain.StoreRecord); ok {
			return copyStores(stores), nil
		}
	}

	stores, err := c.lookup.GetStores(ctx, country)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, copyStores(stores), c.cacheTTL); err != nil {
		log.WithFields(log.Fields{
			"component": "store-catalog",
			"country":   country,
		}).Warnf("Failed to cache stores: %v", err)
	}

	return stores, nil
}

// storesCacheKey formats the cache key for a country's store list
func storesCacheKey(country string) string {
	return fmt.Sprintf("stores:%s", country)
}

func copyStores(stores []domain.StoreRecord) []domain.StoreRecord {
	out := make([]domain.StoreRecord, len(stores))
	copy(out, stores)
	for i := range out {
		if out[i].ZipCodes != nil {
			out[i].ZipCodes = append([]string(nil), out[i].ZipCodes...)
		}
	}
	return out
}
