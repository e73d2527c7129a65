package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mboiraai/rork-automarketconnect/internal/models"
	"github.com/Mboiraai/rork-automarketconnect/internal/services"
)

// ProfileHandler serves the current user's profile and their listings.
type ProfileHandler struct {
	store services.IMarketplaceStore
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(store services.IMarketplaceStore) *ProfileHandler {
	return &ProfileHandler{store: store}
}

// Me handles GET /v1/me.
func (h *ProfileHandler) Me(c *gin.Context) {
	user, ok := h.store.CurrentUser()
	if !ok {
		writeStoreError(c, models.ErrNoCurrentUser)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":      user,
		"favorites": h.store.Favorites(),
	})
}

// MyListings handles GET /v1/me/listings.
func (h *ProfileHandler) MyListings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.store.UserListings()})
}

// MarkSold handles POST /v1/me/listings/:id/sold.
func (h *ProfileHandler) MarkSold(c *gin.Context) {
	h.transitionOwn(c, h.store.MarkListingSold)
}

// Relist handles POST /v1/me/listings/:id/relist.
func (h *ProfileHandler) Relist(c *gin.Context) {
	h.transitionOwn(c, h.store.RelistListing)
}

func (h *ProfileHandler) transitionOwn(c *gin.Context, op func(string) (models.Listing, error)) {
	id := c.Param("id")

	listing, err := h.store.GetListing(id)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	userID, _ := requesterIdentity(c)
	if listing.SellerID != userID {
		writeStoreError(c, models.ErrNotListingOwner)
		return
	}

	updated, err := op(id)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
