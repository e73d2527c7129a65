package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mboiraai/rork-automarketconnect/internal/models"
)

func TestMe(t *testing.T) {
	r, store := newTestRouter(t, nil)
	store.ToggleFavorite("car-1")

	w := doRequest(r, "GET", "/v1/me", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		User      models.User `json:"user"`
		Favorites []string    `json:"favorites"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "user-4", resp.User.ID)
	assert.True(t, resp.User.IsAdmin)
	assert.Equal(t, []string{"car-1"}, resp.Favorites)
}

func TestMyListings(t *testing.T) {
	r, store := newTestRouter(t, nil)

	w := doRequest(r, "GET", "/v1/me/listings", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data)

	_, err := store.AddListing(models.ListingInput{
		Type:  models.TypeCar,
		Title: "My own car",
		Price: 3000000,
		Car:   &models.CarSpecs{Make: "Kia", Model: "Rio", Year: 2019},
	})
	require.NoError(t, err)

	w = doRequest(r, "GET", "/v1/me/listings", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "My own car", resp.Data[0].Title)
}

func TestMarkSoldAndRelist(t *testing.T) {
	r, store := newTestRouter(t, nil)

	created, err := store.AddListing(models.ListingInput{
		Type:  models.TypeCar,
		Title: "Quick sale",
		Price: 2000000,
		Car:   &models.CarSpecs{Make: "Ford", Model: "Focus", Year: 2015},
	})
	require.NoError(t, err)

	w := doRequest(r, "POST", "/v1/me/listings/"+created.ID+"/sold", "")
	require.Equal(t, http.StatusOK, w.Code)
	var sold models.Listing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sold))
	assert.Equal(t, models.StatusSold, sold.Status)

	w = doRequest(r, "POST", "/v1/me/listings/"+created.ID+"/relist", "")
	require.Equal(t, http.StatusOK, w.Code)
	var relisted models.Listing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &relisted))
	assert.Equal(t, models.StatusActive, relisted.Status)
}

func TestMarkSold_NotOwner(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	// car-1 belongs to user-1, not to the demo user. Ownership is enforced
	// even for admins on the profile routes.
	w := doRequest(r, "POST", "/v1/me/listings/car-1/sold", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}
