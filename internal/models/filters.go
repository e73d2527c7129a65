package models

// SortKey selects the single-key total order applied to filtered listings.
type SortKey string

const (
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortDateNew   SortKey = "date-new"
	SortDateOld   SortKey = "date-old"
)

// SearchFilters is a transient query specification scoped to the current
// search session. It is never persisted. The zero value matches everything.
type SearchFilters struct {
	Query     string      `json:"query,omitempty"`
	Type      ListingType `json:"type,omitempty"` // "car", "part" or "all"/"" for no filter
	MinPrice  *float64    `json:"minPrice,omitempty"`
	MaxPrice  *float64    `json:"maxPrice,omitempty"`
	Make      string      `json:"make,omitempty"`
	Condition string      `json:"condition,omitempty"`
	SortBy    SortKey     `json:"sortBy,omitempty"`
}
