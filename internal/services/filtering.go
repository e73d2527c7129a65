package services

import (
	"sort"
	"strings"

	"github.com/Mboiraai/rork-automarketconnect/internal/models"
)

// matchesFilters reports whether a listing passes every active filter.
// Filters are applied in a fixed order: free-text query against title and
// description, type, price bounds (inclusive), make, condition. The make
// filter only constrains car listings; part listings pass through it.
func matchesFilters(l models.Listing, f models.SearchFilters) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(l.Title), q) &&
			!strings.Contains(strings.ToLower(l.Description), q) {
			return false
		}
	}
	if f.Type != "" && f.Type != "all" && l.Type != f.Type {
		return false
	}
	if f.MinPrice != nil && l.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && l.Price > *f.MaxPrice {
		return false
	}
	if f.Make != "" && l.Type == models.TypeCar {
		if l.Car == nil || l.Car.Make != f.Make {
			return false
		}
	}
	if f.Condition != "" && l.Condition != f.Condition {
		return false
	}
	return true
}

// sortListings orders listings in place by the given key. An empty key leaves
// the slice in its current order.
func sortListings(listings []models.Listing, key models.SortKey) {
	switch key {
	case models.SortPriceAsc:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].Price < listings[j].Price
		})
	case models.SortPriceDesc:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].Price > listings[j].Price
		})
	case models.SortDateNew:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].CreatedAt.After(listings[j].CreatedAt)
		})
	case models.SortDateOld:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].CreatedAt.Before(listings[j].CreatedAt)
		})
	}
}
