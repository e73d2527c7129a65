package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mboiraai/rork-automarketconnect/internal/models"
)

func TestAdminRoutes_RequireAdmin(t *testing.T) {
	nonAdmin := models.User{ID: "user-1", Name: "Chidi Okafor"}
	r, _ := newTestRouter(t, &nonAdmin)

	w := doRequest(r, "GET", "/v1/admin/listings/pending", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, "POST", "/v1/admin/listings/car-3/approve", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminPendingListings(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := doRequest(r, "GET", "/v1/admin/listings/pending", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "car-3", resp.Data[0].ID)
	assert.Equal(t, models.StatusPending, resp.Data[0].Status)
}

func TestAdminApproveAndReject(t *testing.T) {
	r, store := newTestRouter(t, nil)

	w := doRequest(r, "POST", "/v1/admin/listings/car-3/approve", "")
	require.Equal(t, http.StatusOK, w.Code)

	l, err := store.GetListing("car-3")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, l.Status)

	// An already active listing cannot be rejected.
	w = doRequest(r, "POST", "/v1/admin/listings/car-3/reject", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(r, "POST", "/v1/admin/listings/missing/approve", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
