package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"github.com/Mboiraai/rork-automarketconnect/internal/models"
	"github.com/Mboiraai/rork-automarketconnect/internal/services"
	"github.com/Mboiraai/rork-automarketconnect/internal/storage"
	"github.com/Mboiraai/rork-automarketconnect/internal/tasks"
)

// ImageHandler serves the listing image upload flow: a presigned PUT URL for
// the client, then an upload-complete notification that hands the object to
// the image worker. Only registered when S3 and the task queue are configured.
type ImageHandler struct {
	store      services.IMarketplaceStore
	s3Storage  storage.IS3Storage
	taskClient *asynq.Client
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(store services.IMarketplaceStore, s3Storage storage.IS3Storage, taskClient *asynq.Client) *ImageHandler {
	return &ImageHandler{
		store:      store,
		s3Storage:  s3Storage,
		taskClient: taskClient,
	}
}

type requestUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// RequestUpload handles POST /v1/listings/:id/images. Owner-only.
func (h *ImageHandler) RequestUpload(c *gin.Context) {
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

	var req requestUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	url, key, err := h.s3Storage.GeneratePresignedPutURL(c.Request.Context(), userID, id, req.Filename, req.ContentType)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"uploadUrl": url,
		"key":       key,
	})
}

type completeUploadRequest struct {
	Key string `json:"key" binding:"required"`
}

// CompleteUpload handles POST /v1/listings/:id/images/complete. Enqueues the
// normalization task; the worker attaches the image to the listing when done.
func (h *ImageHandler) CompleteUpload(c *gin.Context) {
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

	var req completeUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := tasks.EnqueueImageProcess(h.taskClient, req.Key, id); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "processing"})
}
