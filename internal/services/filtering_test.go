package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Mboiraai/rork-automarketconnect/internal/models"
)

func TestMatchesFiltersQueryIsCaseInsensitive(t *testing.T) {
	l := testCar("car-1", "u-1", 1000, time.Now())
	l.Title = "2018 Toyota Camry"
	l.Description = "Accident free"

	assert.True(t, matchesFilters(l, models.SearchFilters{Query: "toyota"}))
	assert.True(t, matchesFilters(l, models.SearchFilters{Query: "ACCIDENT"}))
	assert.False(t, matchesFilters(l, models.SearchFilters{Query: "honda"}))
}

func TestMatchesFiltersMakeOnlyConstrainsCars(t *testing.T) {
	car := testCar("car-1", "u-1", 1000, time.Now())
	part := testPart("part-1", "u-1", 100, time.Now())

	filters := models.SearchFilters{Make: "Honda"}
	assert.False(t, matchesFilters(car, filters), "Toyota car fails a Honda make filter")
	assert.True(t, matchesFilters(part, filters), "parts pass through the make filter")

	assert.True(t, matchesFilters(car, models.SearchFilters{Make: "Toyota"}))
}

func TestMatchesFiltersPriceBoundsAreInclusive(t *testing.T) {
	l := testPart("part-1", "u-1", 15000, time.Now())

	bound := 15000.0
	assert.True(t, matchesFilters(l, models.SearchFilters{MinPrice: &bound}))
	assert.True(t, matchesFilters(l, models.SearchFilters{MaxPrice: &bound}))

	above := 15000.01
	assert.False(t, matchesFilters(l, models.SearchFilters{MinPrice: &above}))
}

func TestMatchesFiltersTypeAllMatchesEverything(t *testing.T) {
	car := testCar("car-1", "u-1", 1000, time.Now())
	part := testPart("part-1", "u-1", 100, time.Now())

	assert.True(t, matchesFilters(car, models.SearchFilters{Type: "all"}))
	assert.True(t, matchesFilters(part, models.SearchFilters{Type: "all"}))
	assert.False(t, matchesFilters(part, models.SearchFilters{Type: models.TypeCar}))
}

func TestMatchesFiltersCondition(t *testing.T) {
	l := testPart("part-1", "u-1", 100, time.Now())

	assert.True(t, matchesFilters(l, models.SearchFilters{Condition: "new"}))
	assert.False(t, matchesFilters(l, models.SearchFilters{Condition: "refurbished"}))
}

func TestSortListingsEmptyKeyKeepsOrder(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	listings := []models.Listing{
		testCar("b", "u-1", 200, base),
		testCar("a", "u-1", 100, base.Add(time.Hour)),
	}

	sortListings(listings, "")
	assert.Equal(t, "b", listings[0].ID)
	assert.Equal(t, "a", listings[1].ID)

	sortListings(listings, models.SortPriceAsc)
	assert.Equal(t, "a", listings[0].ID)

	sortListings(listings, models.SortDateOld)
	assert.Equal(t, "b", listings[0].ID)
}
