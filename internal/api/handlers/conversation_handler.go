package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mboiraai/rork-automarketconnect/internal/models"
	"github.com/Mboiraai/rork-automarketconnect/internal/services"
)

// ConversationHandler handles REST requests for conversations and messages.
type ConversationHandler struct {
	store services.IMarketplaceStore
}

// NewConversationHandler creates a new ConversationHandler.
func NewConversationHandler(store services.IMarketplaceStore) *ConversationHandler {
	return &ConversationHandler{store: store}
}

// ListConversations handles GET /v1/conversations.
func (h *ConversationHandler) ListConversations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.store.Conversations()})
}

type createConversationRequest struct {
	ParticipantID string `json:"participantId" binding:"required"`
	ListingID     string `json:"listingId"`
}

// CreateConversation handles POST /v1/conversations. Returns the existing
// conversation when one already covers the same participant and listing.
func (h *ConversationHandler) CreateConversation(c *gin.Context) {
	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var participant *models.User
	for _, u := range h.store.Users() {
		if u.ID == req.ParticipantID {
			participant = &u
			break
		}
	}
	if participant == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
		return
	}

	var listing *models.Listing
	if req.ListingID != "" {
		l, err := h.store.GetListing(req.ListingID)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		listing = &l
	}

	conv, err := h.store.CreateConversation(*participant, listing)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

// GetConversation handles GET /v1/conversations/:id. Returns the conversation
// and its messages ordered oldest first.
func (h *ConversationHandler) GetConversation(c *gin.Context) {
	conv, msgs, err := h.store.ConversationThread(c.Param("id"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"conversation": conv,
		"messages":     msgs,
	})
}

type sendMessageRequest struct {
	Text       string `json:"text" binding:"required"`
	ReceiverID string `json:"receiverId" binding:"required"`
	ListingID  string `json:"listingId"`
}

// SendMessage handles POST /v1/conversations/:id/messages.
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	msg, err := h.store.SendMessage(c.Param("id"), req.Text, req.ReceiverID, req.ListingID)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// MarkRead handles POST /v1/conversations/:id/read.
func (h *ConversationHandler) MarkRead(c *gin.Context) {
	h.store.MarkConversationRead(c.Param("id"))
	c.Status(http.StatusNoContent)
}
