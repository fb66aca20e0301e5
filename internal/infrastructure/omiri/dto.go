package omiri

// ProductResponse is a deal product as served by the deals API
type ProductResponse struct {
	ID                 string   `json:"id"`
	PdfID              int      `json:"pdf_id"`
	Title              string   `json:"title"`
	Description        *string  `json:"description"`
	Brand              *string  `json:"brand"`
	PriceAmount        *float64 `json:"price_amount"`
	PriceCurrency      *string  `json:"price_currency"`
	OriginalPrice      *float64 `json:"original_price"`
	DiscountPercentage *float64 `json:"discount_percentage"`
	HasDiscount        bool     `json:"has_discount"`
	Retailer           *string  `json:"retailer"`
	Country            *string  `json:"country"`
	AvailableFrom      *string  `json:"available_from"`
	AvailableUntil     *string  `json:"available_until"`
	ProductImageURL    *string  `json:"product_image_url"`
}

// CategoryResult groups the products matched for one shopping list item
type CategoryResult struct {
	Items        []string          `json:"items"`
	ProductCount int               `json:"product_count"`
	Products     []ProductResponse `json:"products"`
}

// ShoppingListSearchResponse is the body of GET /shopping-list/search
type ShoppingListSearchResponse struct {
	ShoppingList  []string                  `json:"shopping_list"`
	TotalItems    int                       `json:"total_items"`
	ItemsFound    int                       `json:"items_found"`
	ItemsNotFound []string                  `json:"items_not_found"`
	Categories    map[string]CategoryResult `json:"categories"`
}

// StoreListResponse is one retailer+country group from GET /stores
type StoreListResponse struct {
	ID                   string   `json:"id"`
	Retailer             string   `json:"retailer"`
	Country              string   `json:"country"`
	StoreCount           int      `json:"store_count"`
	ActiveCount          int      `json:"active_count"`
	HasMultipleLocations bool     `json:"has_multiple_locations"`
	StoreIDs             []int    `json:"store_ids"`
	ZipCodes             []string `json:"zipcodes"`
}
