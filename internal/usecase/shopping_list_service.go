package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/omiri/backend/internal/domain"
	log "github.com/sirupsen/logrus"
)

var countryCodePattern = regexp.MustCompile(`^[A-Z]{2}$`)

// ShoppingListService reads and writes the user's shopping list preferences
type ShoppingListService struct {
	prefs      domain.PreferenceStore
	normalizer *ItemNormalizer
}

// NewShoppingListService creates a new shopping list service
func NewShoppingListService(prefs domain.PreferenceStore) *ShoppingListService {
	return &ShoppingListService{
		prefs:      prefs,
		normalizer: NewItemNormalizer(),
	}
}

// State returns a snapshot of all shopping list preferences
func (s *ShoppingListService) State(ctx context.Context) (*domain.ShoppingListState, error) {
	items, err := s.prefs.ShoppingListItems(ctx)
	if err != nil {
		return nil, err
	}

	country, err := s.prefs.SelectedCountry(ctx)
	if err != nil {
		return nil, err
	}
	if country == "" {
		country = domain.DefaultCountry
	}

	stores, err := s.prefs.SelectedStores(ctx)
	if err != nil {
		return nil, err
	}

	foreground, err := s.prefs.AppForeground(ctx)
	if err != nil {
		return nil, err
	}

	if items == nil {
		items = []string{}
	}
	if stores == nil {
		stores = []string{}
	}

	return &domain.ShoppingListState{
		Items:          items,
		Country:        country,
		SelectedStores: stores,
		AppForeground:  foreground,
	}, nil
}

// SaveItems normalizes and persists the item list, returning what was stored
func (s *ShoppingListService) SaveItems(ctx context.Context, items []string) ([]string, error) {
	normalized := s.normalizer.Normalize(items)
	if err := s.prefs.SaveShoppingListItems(ctx, normalized); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"component": "shopping-list",
		"items":     len(normalized),
	}).Info("Shopping list saved")

	return normalized, nil
}

// SaveItemsFromText parses separator-delimited text into items and persists them
func (s *ShoppingListService) SaveItemsFromText(ctx context.Context, text string) ([]string, error) {
	return s.SaveItems(ctx, s.normalizer.ParseText(text))
}

// SetCountry validates and persists a two-letter country code
func (s *ShoppingListService) SetCountry(ctx context.Context, country string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(country))
	if !countryCodePattern.MatchString(code) {
		return "", fmt.Errorf("%w: country must be a two-letter code, got %q", domain.ErrInvalidRequest, country)
	}

	if err := s.prefs.SaveSelectedCountry(ctx, code); err != nil {
		return "", err
	}
	return code, nil
}

// SetSelectedStores persists the selected store IDs, dropping blanks and duplicates
func (s *ShoppingListService) SetSelectedStores(ctx context.Context, storeIDs []string) ([]string, error) {
	seen := make(map[string]bool, len(storeIDs))
	cleaned := make([]string, 0, len(storeIDs))
	for _, id := range storeIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		cleaned = append(cleaned, id)
	}

	if err := s.prefs.SaveSelectedStores(ctx, cleaned); err != nil {
		return nil, err
	}
	return cleaned, nil
}

// SetAppForeground records whether the app is currently visible
func (s *ShoppingListService) SetAppForeground(ctx context.Context, foreground bool) error {
	return s.prefs.SetAppForeground(ctx, foreground)
}
