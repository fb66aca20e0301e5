package domain

// DefaultCountry is used when the user never picked a country
const DefaultCountry = "US"

// ShoppingListState is the persisted user state read by a reconciliation run
type ShoppingListState struct {
	Items          []string `json:"items"`
	Country        string   `json:"country"`
	SelectedStores []string `json:"selectedStores"`
	AppForeground  bool     `json:"appForeground"`
}

// StoreRecord is a retailer entry for a country, as returned by the store lookup.
// IDs follow the "<id>_<countryCode>" convention.
type StoreRecord struct {
	ID         string   `json:"id"`
	Retailer   string   `json:"retailer"`
	Country    string   `json:"country"`
	StoreCount int      `json:"storeCount,omitempty"`
	ZipCodes   []string `json:"zipCodes,omitempty"`
}
