package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mboiraai/rork-automarketconnect/internal/services"
)

// AdminHandler serves the moderation endpoints. Routes using it sit behind
// AdminMiddleware.
type AdminHandler struct {
	store services.IMarketplaceStore
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(store services.IMarketplaceStore) *AdminHandler {
	return &AdminHandler{store: store}
}

// PendingListings handles GET /v1/admin/listings/pending.
func (h *AdminHandler) PendingListings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.store.PendingListings()})
}

// ApproveListing handles POST /v1/admin/listings/:id/approve.
func (h *AdminHandler) ApproveListing(c *gin.Context) {
	listing, err := h.store.ApproveListing(c.Param("id"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// RejectListing handles POST /v1/admin/listings/:id/reject.
func (h *AdminHandler) RejectListing(c *gin.Context) {
	listing, err := h.store.RejectListing(c.Param("id"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}
