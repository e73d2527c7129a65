package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Mboiraai/rork-automarketconnect/internal/api/middleware"
	"github.com/Mboiraai/rork-automarketconnect/internal/cache"
	"github.com/Mboiraai/rork-automarketconnect/internal/models"
	"github.com/Mboiraai/rork-automarketconnect/internal/services"
)

const listingCacheTTL = 60 * time.Second

// ListingHandler handles REST requests for listings.
type ListingHandler struct {
	store  services.IMarketplaceStore
	rdb    *redis.Client // nil when Redis is not configured
	logger *slog.Logger
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(store services.IMarketplaceStore, rdb *redis.Client, logger *slog.Logger) *ListingHandler {
	return &ListingHandler{
		store:  store,
		rdb:    rdb,
		logger: logger,
	}
}

// ListListings handles GET /v1/listings. The query parameters replace the
// store's search filters wholesale, so a request without parameters clears
// any previous search session.
func (h *ListingHandler) ListListings(c *gin.Context) {
	filters, err := parseSearchFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.store.SetSearchFilters(filters)
	c.JSON(http.StatusOK, gin.H{"data": h.store.FilteredListings()})
}

func parseSearchFilters(c *gin.Context) (models.SearchFilters, error) {
	filters := models.SearchFilters{
		Query:     c.Query("q"),
		Make:      c.Query("make"),
		Condition: c.Query("condition"),
	}

	switch t := c.Query("type"); t {
	case "", "all":
	case string(models.TypeCar), string(models.TypePart):
		filters.Type = models.ListingType(t)
	default:
		return filters, errors.New("invalid type: must be car, part or all")
	}

	if v := c.Query("min_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || p < 0 {
			return filters, errors.New("invalid min_price")
		}
		filters.MinPrice = &p
	}
	if v := c.Query("max_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || p < 0 {
			return filters, errors.New("invalid max_price")
		}
		filters.MaxPrice = &p
	}

	switch s := c.Query("sort"); models.SortKey(s) {
	case "", models.SortPriceAsc, models.SortPriceDesc, models.SortDateNew, models.SortDateOld:
		filters.SortBy = models.SortKey(s)
	default:
		return filters, errors.New("invalid sort key")
	}

	return filters, nil
}

// GetListing handles GET /v1/listings/:id. Every fetch counts as a view.
// When Redis is configured a short-lived snapshot is served to absorb hot
// listings; the view is recorded either way.
func (h *ListingHandler) GetListing(c *gin.Context) {
	id := c.Param("id")

	if err := h.store.RecordListingView(id); err != nil {
		writeStoreError(c, err)
		return
	}

	if h.rdb != nil {
		if data, err := h.rdb.Get(c.Request.Context(), "marketplace:listing:"+id).Bytes(); err == nil {
			var cached models.Listing
			if err := json.Unmarshal(data, &cached); err == nil {
				c.JSON(http.StatusOK, cached)
				return
			}
		}
	}

	listing, err := h.store.GetListing(id)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	if h.rdb != nil {
		if err := cache.CacheListing(c.Request.Context(), h.rdb, id, listing, listingCacheTTL); err != nil {
			h.logger.Warn("failed to cache listing", "id", id, "error", err)
		}
	}

	c.JSON(http.StatusOK, listing)
}

// CreateListing handles POST /v1/listings.
func (h *ListingHandler) CreateListing(c *gin.Context) {
	var input models.ListingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	listing, err := h.store.AddListing(input)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, listing)
}

// UpdateListing handles PATCH /v1/listings/:id. Owner-only unless admin.
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	id := c.Param("id")

	if err := h.guardOwnership(c, id); err != nil {
		writeStoreError(c, err)
		return
	}

	var update models.ListingUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	listing, err := h.store.UpdateListing(id, update)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	h.invalidateCache(c, id)
	c.JSON(http.StatusOK, listing)
}

// DeleteListing handles DELETE /v1/listings/:id. Owner-only unless admin.
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	id := c.Param("id")

	if err := h.guardOwnership(c, id); err != nil {
		writeStoreError(c, err)
		return
	}

	h.store.DeleteListing(id)
	h.invalidateCache(c, id)
	c.Status(http.StatusNoContent)
}

// ToggleFavorite handles POST /v1/listings/:id/favorite.
func (h *ListingHandler) ToggleFavorite(c *gin.Context) {
	id := c.Param("id")

	if _, err := h.store.GetListing(id); err != nil {
		writeStoreError(c, err)
		return
	}

	nowFavorite := h.store.ToggleFavorite(id)
	c.JSON(http.StatusOK, gin.H{"favorite": nowFavorite})
}

// ListFavorites handles GET /v1/favorites.
func (h *ListingHandler) ListFavorites(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.store.FavoriteListings()})
}

// guardOwnership rejects writes to listings the requester does not own,
// unless the requester is an admin.
func (h *ListingHandler) guardOwnership(c *gin.Context, listingID string) error {
	listing, err := h.store.GetListing(listingID)
	if err != nil {
		return err
	}
	userID, isAdmin := requesterIdentity(c)
	if isAdmin || listing.SellerID == userID {
		return nil
	}
	return models.ErrNotListingOwner
}

func (h *ListingHandler) invalidateCache(c *gin.Context, id string) {
	if h.rdb == nil {
		return
	}
	if err := cache.InvalidateListing(c.Request.Context(), h.rdb, id); err != nil {
		h.logger.Warn("failed to invalidate cached listing", "id", id, "error", err)
	}
}

func requesterIdentity(c *gin.Context) (userID string, isAdmin bool) {
	return c.GetString(middleware.ContextKeyUserID), c.GetBool(middleware.ContextKeyIsAdmin)
}
