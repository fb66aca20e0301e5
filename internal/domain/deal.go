package domain

import "time"

// DealSummary is a discounted product from a retailer flyer that matched a shopping list item
type DealSummary struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Brand              string     `json:"brand,omitempty"`
	Retailer           string     `json:"retailer,omitempty"`
	Price              float64    `json:"price,omitempty"`
	Currency           string     `json:"currency,omitempty"`
	OriginalPrice      float64    `json:"originalPrice,omitempty"`
	DiscountPercentage float64    `json:"discountPercentage,omitempty"`
	AvailableUntil     *time.Time `json:"availableUntil,omitempty"`
}

// MatchResult maps a shopping list item name to the deals found for it
type MatchResult map[string][]DealSummary

// TotalDeals returns the number of deals across all items
func (m MatchResult) TotalDeals() int {
	total := 0
	for _, deals := range m {
		total += len(deals)
	}
	return total
}

// SearchQuery is the input of a shopping list search against the deals API
type SearchQuery struct {
	Items     string // comma-joined item list
	Country   string
	Retailers string // comma-joined retailer names, empty for no filter
}

// Notification is a push message announcing shopping list matches
type Notification struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	DeepLink  string `json:"deepLink"`
	DealCount int    `json:"dealCount"`
	Preview   string `json:"preview"`
}
