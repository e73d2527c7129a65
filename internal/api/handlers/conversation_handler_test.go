package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mboiraai/rork-automarketconnect/internal/models"
)

func TestListConversations(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := doRequest(r, "GET", "/v1/conversations", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.Conversation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
}

func TestCreateConversation_ReturnsExisting(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	// The seed already holds a conversation with user-1 about car-1.
	w := doRequest(r, "POST", "/v1/conversations", `{"participantId": "user-1", "listingId": "car-1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var conv models.Conversation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &conv))
	assert.Equal(t, "conv-1", conv.ID)
}

func TestCreateConversation_NewPair(t *testing.T) {
	r, store := newTestRouter(t, nil)

	w := doRequest(r, "POST", "/v1/conversations", `{"participantId": "user-3"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var conv models.Conversation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &conv))
	assert.NotEmpty(t, conv.ID)
	assert.Equal(t, 0, conv.UnreadCount)
	assert.Len(t, store.Conversations(), 3)
}

func TestCreateConversation_UnknownParticipant(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := doRequest(r, "POST", "/v1/conversations", `{"participantId": "ghost"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetConversationThread(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := doRequest(r, "GET", "/v1/conversations/conv-1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Conversation models.Conversation `json:"conversation"`
		Messages     []models.Message    `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "conv-1", resp.Conversation.ID)
	require.Len(t, resp.Messages, 2)
	assert.True(t, resp.Messages[0].Timestamp.Before(resp.Messages[1].Timestamp))

	w = doRequest(r, "GET", "/v1/conversations/ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSendMessage(t *testing.T) {
	r, store := newTestRouter(t, nil)

	w := doRequest(r, "POST", "/v1/conversations/conv-1/messages",
		`{"text": "Can we meet tomorrow?", "receiverId": "user-1", "listingId": "car-1"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var msg models.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
	assert.Equal(t, "user-4", msg.SenderID)
	assert.False(t, msg.Read)

	// Outgoing messages never bump the sender's unread counter.
	for _, c := range store.Conversations() {
		if c.ID == "conv-1" {
			assert.Equal(t, 1, c.UnreadCount) // unchanged seed value
			assert.Equal(t, msg.ID, c.LastMessage.ID)
		}
	}
}

func TestSendMessage_UnknownConversation(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := doRequest(r, "POST", "/v1/conversations/ghost/messages",
		`{"text": "hello", "receiverId": "user-1"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMarkConversationRead(t *testing.T) {
	r, store := newTestRouter(t, nil)

	w := doRequest(r, "POST", "/v1/conversations/conv-1/read", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	for _, c := range store.Conversations() {
		if c.ID == "conv-1" {
			assert.Equal(t, 0, c.UnreadCount)
		}
	}
}
