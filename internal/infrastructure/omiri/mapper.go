package omiri

import (
	"time"

	"github.com/omiri/backend/internal/domain"
)

// availabilityLayouts are the date formats seen in available_until
var availabilityLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// MapToMatchResult converts a search response to matches keyed by item name
func MapToMatchResult(resp *ShoppingListSearchResponse) domain.MatchResult {
	result := make(domain.MatchResult, len(resp.Categories))
	for item, category := range resp.Categories {
		deals := make([]domain.DealSummary, 0, len(category.Products))
		for _, product := range category.Products {
			deals = append(deals, MapToDealSummary(product))
		}
		result[item] = deals
	}
	return result
}

// MapToDealSummary converts a product to a deal summary
func MapToDealSummary(p ProductResponse) domain.DealSummary {
	return domain.DealSummary{
		ID:                 p.ID,
		Title:              p.Title,
		Brand:              deref(p.Brand),
		Retailer:           deref(p.Retailer),
		Price:              derefFloat(p.PriceAmount),
		Currency:           deref(p.PriceCurrency),
		OriginalPrice:      derefFloat(p.OriginalPrice),
		DiscountPercentage: derefFloat(p.DiscountPercentage),
		AvailableUntil:     parseAvailability(p.AvailableUntil),
	}
}

// MapToStoreRecords converts store list entries to store records
func MapToStoreRecords(stores []StoreListResponse) []domain.StoreRecord {
	records := make([]domain.StoreRecord, 0, len(stores))
	for _, s := range stores {
		records = append(records, domain.StoreRecord{
			ID:         s.ID,
			Retailer:   s.Retailer,
			Country:    s.Country,
			StoreCount: s.StoreCount,
			ZipCodes:   s.ZipCodes,
		})
	}
	return records
}

func parseAvailability(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	for _, layout := range availabilityLayouts {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
