package preferences

import (
	"context"
	"errors"
	"testing"

	"github.com/omiri/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingBackend returns err from every call
type failingBackend struct {
	err error
}

func (f *failingBackend) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, f.err
}

func (f *failingBackend) Put(ctx context.Context, key string, value []byte) error {
	return f.err
}

func TestStore_Defaults(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	items, err := store.ShoppingListItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	country, err := store.SelectedCountry(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCountry, country)

	stores, err := store.SelectedStores(ctx)
	require.NoError(t, err)
	assert.Empty(t, stores)

	foreground, err := store.AppForeground(ctx)
	require.NoError(t, err)
	assert.False(t, foreground)
}

func TestStore_RoundTrip(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.SaveShoppingListItems(ctx, []string{"milk", "bread"}))
	require.NoError(t, store.SaveSelectedCountry(ctx, "DE"))
	require.NoError(t, store.SaveSelectedStores(ctx, []string{"lidl_DE", "aldi_DE"}))
	require.NoError(t, store.SetAppForeground(ctx, true))

	items, err := store.ShoppingListItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"milk", "bread"}, items)

	country, err := store.SelectedCountry(ctx)
	require.NoError(t, err)
	assert.Equal(t, "DE", country)

	stores, err := store.SelectedStores(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"lidl_DE", "aldi_DE"}, stores)

	foreground, err := store.AppForeground(ctx)
	require.NoError(t, err)
	assert.True(t, foreground)
}

func TestStore_SaveNilListStoresEmptyList(t *testing.T) {
	backend := NewMemoryBackend()
	store := New(backend)
	ctx := context.Background()

	require.NoError(t, store.SaveShoppingListItems(ctx, nil))

	raw, err := backend.Get(ctx, KeyShoppingListItems)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1,"data":[]}`, string(raw))
}

func TestStore_ReadsLegacyValues(t *testing.T) {
	backend := NewMemoryBackend()
	store := New(backend)
	ctx := context.Background()

	require.NoError(t, backend.Put(ctx, KeyShoppingListItems, []byte("milk,bread")))
	require.NoError(t, backend.Put(ctx, KeySelectedCountry, []byte("CA")))
	require.NoError(t, backend.Put(ctx, KeySelectedStores, []byte("walmart_CA,costco_CA")))

	items, err := store.ShoppingListItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"milk", "bread"}, items)

	country, err := store.SelectedCountry(ctx)
	require.NoError(t, err)
	assert.Equal(t, "CA", country)

	stores, err := store.SelectedStores(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"walmart_CA", "costco_CA"}, stores)
}

func TestStore_BlankCountryFallsBackToDefault(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.SaveSelectedCountry(ctx, "  "))

	country, err := store.SelectedCountry(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCountry, country)
}

func TestStore_BackendErrors(t *testing.T) {
	store := New(&failingBackend{err: errors.New("io error")})
	ctx := context.Background()

	_, err := store.ShoppingListItems(ctx)
	assert.ErrorIs(t, err, domain.ErrPreferenceRead)

	_, err = store.SelectedCountry(ctx)
	assert.ErrorIs(t, err, domain.ErrPreferenceRead)

	_, err = store.SelectedStores(ctx)
	assert.ErrorIs(t, err, domain.ErrPreferenceRead)

	_, err = store.AppForeground(ctx)
	assert.ErrorIs(t, err, domain.ErrPreferenceRead)

	err = store.SaveShoppingListItems(ctx, []string{"milk"})
	assert.ErrorIs(t, err, domain.ErrPreferenceWrite)
}

func TestStore_UnsupportedSchema(t *testing.T) {
	backend := NewMemoryBackend()
	store := New(backend)
	ctx := context.Background()

	require.NoError(t, backend.Put(ctx, KeyShoppingListItems, []byte(`{"v":9,"data":[]}`)))

	_, err := store.ShoppingListItems(ctx)
	assert.ErrorIs(t, err, domain.ErrPreferenceRead)
	assert.ErrorIs(t, err, domain.ErrUnsupportedSchema)
}

func TestMemoryBackend_CancelledContext(t *testing.T) {
	backend := NewMemoryBackend()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := backend.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, backend.Put(ctx, "k", []byte("v")), context.Canceled)
}
