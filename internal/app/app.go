// Package app wires configuration into the menu ingestion stack.
package app

import (
	"log"

	"github.com/menulens/backend/config"
	"github.com/menulens/backend/internal/domain"
	"github.com/menulens/backend/internal/infrastructure/cache"
	"github.com/menulens/backend/internal/infrastructure/dining"
	"github.com/menulens/backend/internal/infrastructure/token"
	"github.com/menulens/backend/internal/usecase"
)

// NewCacheStore builds the cache selected by cfg.Cache.Type
func NewCacheStore(cfg config.CacheConfig) *cache.Store {
	if cfg.Type == "memory" {
		return cache.NewMemoryStore()
	}
	return cache.NewDiskStore(cfg.Dir)
}

// Locations converts the configured locations into domain values
func Locations(cfg *config.Config) []domain.Location {
	locations := make([]domain.Location, len(cfg.Locations))
	for i, loc := range cfg.Locations {
		locations[i] = domain.Location{ID: loc.ID, Name: loc.Name}
	}
	return locations
}

// NewClient builds the token manager, cache and dining API client
func NewClient(cfg *config.Config) *dining.Client {
	httpClient := dining.NewHTTPClient(cfg.Vendor.DialTimeout, cfg.Vendor.RequestTimeout)
	tokens := token.NewManager(httpClient, cfg.Vendor.TokenURL)

	return dining.NewClient(dining.Config{
		BaseURL:           cfg.Vendor.BaseURL,
		AccountID:         cfg.Vendor.AccountID,
		TenantID:          cfg.Vendor.TenantID,
		PeriodsTTL:        cfg.Cache.PeriodsTTL,
		ItemsTTL:          cfg.Cache.ItemsTTL,
		DialTimeout:       cfg.Vendor.DialTimeout,
		RequestTimeout:    cfg.Vendor.RequestTimeout,
		RequestsPerSecond: cfg.RateLimit.API,
	}, tokens, NewCacheStore(cfg.Cache))
}

// NewMenuService builds the full stack behind the menu aggregator
func NewMenuService(cfg *config.Config) *usecase.MenuService {
	locations := Locations(cfg)
	if len(locations) == 0 {
		log.Printf("WARNING: no dining locations configured - menus will be empty")
	}

	return usecase.NewMenuService(NewClient(cfg), usecase.MenuServiceConfig{
		Locations:      locations,
		MaxConcurrency: cfg.Aggregator.MaxConcurrency,
	})
}
