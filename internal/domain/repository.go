package domain

import (
	"context"
	"time"
)

// CacheStore defines the TTL-gated byte cache used in front of the dining API.
// Load never fails: a missing or stale entry is reported as ok=false.
// Save is best-effort and never reports failure.
type CacheStore interface {
	Load(key string, maxAge time.Duration) ([]byte, bool)
	Save(key string, data []byte)
}

// TokenSource owns the bearer token used against the dining API
type TokenSource interface {
	Token() (string, bool)
	Refresh(ctx context.Context) (string, error)
}

// MenuClient defines the interface for fetching menu data from the dining API
type MenuClient interface {
	GetMealPeriods(ctx context.Context, locationID int) ([]MealPeriod, error)
	GetMealItems(ctx context.Context, query ItemsQuery) ([]MealItem, error)
}
