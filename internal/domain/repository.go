package domain

import (
	"context"
	"time"
)

// PreferenceStore defines typed access to persisted user preferences
type PreferenceStore interface {
	ShoppingListItems(ctx context.Context) ([]string, error)
	SaveShoppingListItems(ctx context.Context, items []string) error
	SelectedCountry(ctx context.Context) (string, error)
	SaveSelectedCountry(ctx context.Context, country string) error
	SelectedStores(ctx context.Context) ([]string, error)
	SaveSelectedStores(ctx context.Context, storeIDs []string) error
	AppForeground(ctx context.Context) (bool, error)
	SetAppForeground(ctx context.Context, foreground bool) error
}

// StoreLookup defines the interface for resolving the stores of a country
type StoreLookup interface {
	GetStores(ctx context.Context, country string) ([]StoreRecord, error)
}

// DealSearcher defines the interface for matching a shopping list against live deals
type DealSearcher interface {
	SearchShoppingList(ctx context.Context, query SearchQuery) (MatchResult, error)
}

// Notifier defines the interface for dispatching push notifications
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
