package usecase

import (
	"context"
	"time"

	"github.com/omiri/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data      map[string]interface{}
	getError  error
	setError  error
	getCalled bool
	setCalled bool
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string]interface{}),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	m.getCalled = true
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.setCalled = true
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockPreferenceStore is an in-memory domain.PreferenceStore with error injection
type MockPreferenceStore struct {
	items      []string
	country    string
	stores     []string
	foreground bool

	itemsError      error
	countryError    error
	storesError     error
	foregroundError error
	writeError      error
}

func NewMockPreferenceStore() *MockPreferenceStore {
	return &MockPreferenceStore{}
}

func (m *MockPreferenceStore) ShoppingListItems(ctx context.Context) ([]string, error) {
	if m.itemsError != nil {
		return nil, m.itemsError
	}
	return m.items, nil
}

func (m *MockPreferenceStore) SaveShoppingListItems(ctx context.Context, items []string) error {
	if m.writeError != nil {
		return m.writeError
	}
	m.items = items
	return nil
}

func (m *MockPreferenceStore) SelectedCountry(ctx context.Context) (string, error) {
	if m.countryError != nil {
		return "", m.countryError
	}
	return m.country, nil
}

func (m *MockPreferenceStore) SaveSelectedCountry(ctx context.Context, country string) error {
	if m.writeError != nil {
		return m.writeError
	}
	m.country = country
	return nil
}

func (m *MockPreferenceStore) SelectedStores(ctx context.Context) ([]string, error) {
	if m.storesError != nil {
		return nil, m.storesError
	}
	return m.stores, nil
}

func (m *MockPreferenceStore) SaveSelectedStores(ctx context.Context, storeIDs []string) error {
	if m.writeError != nil {
		return m.writeError
	}
	m.stores = storeIDs
	return nil
}

func (m *MockPreferenceStore) AppForeground(ctx context.Context) (bool, error) {
	if m.foregroundError != nil {
		return false, m.foregroundError
	}
	return m.foreground, nil
}

func (m *MockPreferenceStore) SetAppForeground(ctx context.Context, foreground bool) error {
	if m.writeError != nil {
		return m.writeError
	}
	m.foreground = foreground
	return nil
}

// MockStoreLookup is a mock implementation of domain.StoreLookup
type MockStoreLookup struct {
	stores    []domain.StoreRecord
	err       error
	calls     int
	countries []string
}

func (m *MockStoreLookup) GetStores(ctx context.Context, country string) ([]domain.StoreRecord, error) {
	m.calls++
	m.countries = append(m.countries, country)
	if m.err != nil {
		return nil, m.err
	}
	return m.stores, nil
}

// MockDealSearcher is a mock implementation of domain.DealSearcher
type MockDealSearcher struct {
	result  domain.MatchResult
	err     error
	calls   int
	queries []domain.SearchQuery
	onCall  func()
}

func (m *MockDealSearcher) SearchShoppingList(ctx context.Context, query domain.SearchQuery) (domain.MatchResult, error) {
	m.calls++
	m.queries = append(m.queries, query)
	if m.onCall != nil {
		m.onCall()
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// MockNotifier records dispatched notifications
type MockNotifier struct {
	sent []domain.Notification
	err  error
}

func (m *MockNotifier) Notify(ctx context.Context, notification domain.Notification) error {
	m.sent = append(m.sent, notification)
	return m.err
}
