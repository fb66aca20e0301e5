package preferences

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/omiri/backend/internal/domain"
)

// Preference keys
const (
	KeyShoppingListItems = "shopping_list_items"
	KeySelectedCountry   = "selected_country"
	KeySelectedStores    = "selected_stores"
	KeyAppForeground     = "is_app_foreground"
)

// ErrNotFound is returned by a Backend when a key has no value
var ErrNotFound = errors.New("preference not found")

// Backend is a raw key-value store holding encoded records
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

var _ domain.PreferenceStore = (*Store)(nil)

// Store implements domain.PreferenceStore with versioned typed records
type Store struct {
	backend Backend
}

// New creates a preference store on top of backend
func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// NewMemory creates a preference store backed by process memory
func NewMemory() *Store {
	return New(NewMemoryBackend())
}

// ShoppingListItems returns the ordered shopping list items
func (s *Store) ShoppingListItems(ctx context.Context) ([]string, error) {
	raw, err := s.get(ctx, KeyShoppingListItems)
	if err != nil || raw == nil {
		return nil, err
	}

	items, err := decodeStringList(raw)
	if err != nil {
		return nil, readError(KeyShoppingListItems, err)
	}
	return items, nil
}

// SaveShoppingListItems replaces the shopping list items
func (s *Store) SaveShoppingListItems(ctx context.Context, items []string) error {
	if items == nil {
		items = []string{}
	}
	return s.put(ctx, KeyShoppingListItems, items)
}

// SelectedCountry returns the selected country code, DefaultCountry when unset
func (s *Store) SelectedCountry(ctx context.Context) (string, error) {
	raw, err := s.get(ctx, KeySelectedCountry)
	if err != nil {
		return "", err
	}
	if raw == nil {
		return domain.DefaultCountry, nil
	}

	country, err := decodeString(raw)
	if err != nil {
		return "", readError(KeySelectedCountry, err)
	}
	if country = strings.TrimSpace(country); country == "" {
		return domain.DefaultCountry, nil
	}
	return country, nil
}

// SaveSelectedCountry stores the selected country code
func (s *Store) SaveSelectedCountry(ctx context.Context, country string) error {
	return s.put(ctx, KeySelectedCountry, country)
}

// SelectedStores returns the selected store identifiers
func (s *Store) SelectedStores(ctx context.Context) ([]string, error) {
	raw, err := s.get(ctx, KeySelectedStores)
	if err != nil || raw == nil {
		return nil, err
	}

	stores, err := decodeStringList(raw)
	if err != nil {
		return nil, readError(KeySelectedStores, err)
	}
	return stores, nil
}

// SaveSelectedStores replaces the selected store identifiers
func (s *Store) SaveSelectedStores(ctx context.Context, storeIDs []string) error {
	if storeIDs == nil {
		storeIDs = []string{}
	}
	return s.put(ctx, KeySelectedStores, storeIDs)
}

// AppForeground reports whether the app last reported itself in the foreground
func (s *Store) AppForeground(ctx context.Context) (bool, error) {
	raw, err := s.get(ctx, KeyAppForeground)
	if err != nil || raw == nil {
		return false, err
	}

	foreground, err := decodeBool(raw)
	if err != nil {
		return false, readError(KeyAppForeground, err)
	}
	return foreground, nil
}

// SetAppForeground stores the foreground flag
func (s *Store) SetAppForeground(ctx context.Context, foreground bool) error {
	return s.put(ctx, KeyAppForeground, foreground)
}

// get returns nil, nil for missing keys
func (s *Store) get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.backend.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, readError(key, err)
	}
	return raw, nil
}

func (s *Store) put(ctx context.Context, key string, value interface{}) error {
	data, err := encodeRecord(value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrPreferenceWrite, key, err)
	}
	if err := s.backend.Put(ctx, key, data); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrPreferenceWrite, key, err)
	}
	return nil
}

func readError(key string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrPreferenceRead, key, err)
}
