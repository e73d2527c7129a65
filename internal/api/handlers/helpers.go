// Package handlers contains the gin HTTP handlers fronting the marketplace
// store.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mboiraai/rork-automarketconnect/internal/models"
)

// writeStoreError maps store errors onto HTTP responses. Unknown errors are
// reported as 500 without leaking detail.
func writeStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrListingNotFound),
		errors.Is(err, models.ErrConversationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNoCurrentUser):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotListingOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrVariantMismatch),
		errors.Is(err, models.ErrInvalidListingData):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
