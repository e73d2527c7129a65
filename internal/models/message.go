package models

import "time"

// Message is a directed text message between two users, optionally tied to a listing.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	ReceiverID     string    `json:"receiverId"`
	Text           string    `json:"text"`
	Timestamp      time.Time `json:"timestamp"`
	Read           bool      `json:"read"`
	ListingID      string    `json:"listingId,omitempty"`
}

// Conversation pairs two participants, optionally scoped to a listing.
// LastMessage is a denormalized copy, not a live reference into the message
// log. UnreadCount counts messages not yet read by the store's current user.
type Conversation struct {
	ID           string   `json:"id"`
	Participants []User   `json:"participants"`
	LastMessage  Message  `json:"lastMessage"`
	UnreadCount  int      `json:"unreadCount"`
	Listing      *Listing `json:"listing,omitempty"`
}
