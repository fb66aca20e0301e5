package usecase

import (
	"strings"

	"github.com/omiri/backend/internal/domain"
)

// FilterStoresForCountry keeps the store IDs tagged "<id>_<country>",
// comparing the suffix case-insensitively. Input order is preserved.
func FilterStoresForCountry(ids []string, country string) []string {
	if country == "" {
		return nil
	}

	suffix := "_" + strings.ToLower(country)
	var filtered []string
	for _, id := range ids {
		// A bare "_US" names no retailer and is dropped
		if len(id) > len(suffix) && strings.HasSuffix(strings.ToLower(id), suffix) {
			filtered = append(filtered, id)
		}
	}
	return filtered
}

// ResolveRetailers maps store IDs to retailer names using records.
// Unknown IDs are skipped and repeated names keep their first occurrence.
func ResolveRetailers(filtered []string, records []domain.StoreRecord) []string {
	byID := make(map[string]string, len(records))
	for _, r := range records {
		byID[strings.ToLower(r.ID)] = r.Retailer
	}

	seen := make(map[string]bool)
	var retailers []string
	for _, id := range filtered {
		name, ok := byID[strings.ToLower(id)]
		if !ok || name == "" || seen[name] {
			continue
		}
		seen[name] = true
		retailers = append(retailers, name)
	}
	return retailers
}
