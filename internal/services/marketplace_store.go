// Package services holds the marketplace store, the single state container
// every other layer reads from and mutates through.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/Mboiraai/rork-automarketconnect/internal/models"
	"github.com/Mboiraai/rork-automarketconnect/internal/storage"
	"github.com/Mboiraai/rork-automarketconnect/internal/utils"
)

// IMarketplaceStore is the canonical application state container. It owns the
// listings, conversations, messages and favorites collections for the process
// lifetime; every read goes through a snapshot accessor or derived view and
// every write goes through one of the mutation operations below.
//
// Mutations that touch a persisted slice (favorites, the current user's
// listings) trigger a fire-and-forget write through the Persister; callers
// never block on persistence and in-memory state stays authoritative when a
// write fails.
type IMarketplaceStore interface {
	// Hydrate merges persisted state into the seeded collections. Favorites
	// are replaced by the persisted list; persisted user-authored listings
	// are prepended to the seed listings. Absent or malformed persisted data
	// falls back to seed-only state. Never fatal.
	Hydrate(ctx context.Context) error

	// Snapshot accessors. Returned slices are copies.
	CurrentUser() (models.User, bool)
	Users() []models.User
	Listings() []models.Listing
	Conversations() []models.Conversation
	Messages() []models.Message
	Favorites() []string
	SearchFilters() models.SearchFilters

	// Derived views.
	GetListing(id string) (models.Listing, error)
	FilteredListings() []models.Listing
	FavoriteListings() []models.Listing
	UserListings() []models.Listing
	PendingListings() []models.Listing
	ConversationThread(conversationID string) (models.Conversation, []models.Message, error)
	IsFavorite(listingID string) bool

	// Mutations.
	ToggleFavorite(listingID string) bool
	AddListing(input models.ListingInput) (models.Listing, error)
	UpdateListing(id string, update models.ListingUpdate) (models.Listing, error)
	DeleteListing(id string)
	SendMessage(conversationID, text, receiverID, listingID string) (models.Message, error)
	MarkConversationRead(conversationID string)
	CreateConversation(participant models.User, listing *models.Listing) (models.Conversation, error)
	SetSearchFilters(filters models.SearchFilters)
	RecordListingView(id string) error
	AddListingImage(id, imageURL string) error

	// Moderation and lifecycle transitions, guarded by the status state
	// machine.
	ApproveListing(id string) (models.Listing, error)
	RejectListing(id string) (models.Listing, error)
	MarkListingSold(id string) (models.Listing, error)
	RelistListing(id string) (models.Listing, error)
}

// StoreSeed is the initial dataset a store is constructed from.
type StoreSeed struct {
	CurrentUser   *models.User
	Users         []models.User
	Listings      []models.Listing
	Conversations []models.Conversation
	Messages      []models.Message
}

// marketplaceStore implements IMarketplaceStore behind a RWMutex. Operations
// execute to completion against the in-memory state before any other
// operation observes it; the only asynchronous work is persistence.
type marketplaceStore struct {
	kv        storage.IKeyValueStore
	persister Persister
	logger    *slog.Logger

	mu            sync.RWMutex
	currentUser   *models.User
	users         []models.User
	listings      []models.Listing
	seedListings  []models.Listing
	conversations []models.Conversation
	messages      []models.Message
	favorites     []string
	filters       models.SearchFilters
}

// NewMarketplaceStore builds a store from seed data. Call Hydrate afterwards
// to merge in persisted state.
func NewMarketplaceStore(seed StoreSeed, kv storage.IKeyValueStore, persister Persister, logger *slog.Logger) IMarketplaceStore {
	return &marketplaceStore{
		kv:            kv,
		persister:     persister,
		logger:        logger,
		currentUser:   seed.CurrentUser,
		users:         slices.Clone(seed.Users),
		listings:      slices.Clone(seed.Listings),
		seedListings:  slices.Clone(seed.Listings),
		conversations: slices.Clone(seed.Conversations),
		messages:      slices.Clone(seed.Messages),
		favorites:     []string{},
	}
}

func (s *marketplaceStore) Hydrate(ctx context.Context) error {
	favorites := []string{}
	if data, err := s.kv.Get(ctx, storage.KeyFavorites); err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.logger.Error("failed to load persisted favorites", "error", err)
		}
	} else if err := json.Unmarshal(data, &favorites); err != nil {
		s.logger.Error("malformed persisted favorites, starting empty", "error", err)
		favorites = []string{}
	}

	var userListings []models.Listing
	if data, err := s.kv.Get(ctx, storage.KeyUserListings); err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.logger.Error("failed to load persisted user listings", "error", err)
		}
	} else if err := json.Unmarshal(data, &userListings); err != nil {
		s.logger.Error("malformed persisted user listings, starting empty", "error", err)
		userListings = nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.favorites = favorites
	// Persisted listings go first, ahead of the seed data. Ids are not
	// deduplicated against seed ids; persisted ids are time-based and seed
	// ids carry a distinct shape, so they cannot collide.
	s.listings = append(slices.Clone(userListings), s.seedListings...)
	return nil
}

// --- Snapshot accessors ---

func (s *marketplaceStore) CurrentUser() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentUser == nil {
		return models.User{}, false
	}
	return *s.currentUser, true
}

func (s *marketplaceStore) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.users)
}

func (s *marketplaceStore) Listings() []models.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.listings)
}

func (s *marketplaceStore) Conversations() []models.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.conversations)
}

func (s *marketplaceStore) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.messages)
}

func (s *marketplaceStore) Favorites() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.favorites)
}

func (s *marketplaceStore) SearchFilters() models.SearchFilters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// --- Derived views ---

func (s *marketplaceStore) GetListing(id string) (models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.listings {
		if l.ID == id {
			return l, nil
		}
	}
	return models.Listing{}, fmt.Errorf("listing %s: %w", id, models.ErrListingNotFound)
}

func (s *marketplaceStore) FilteredListings() []models.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]models.Listing, 0, len(s.listings))
	for _, l := range s.listings {
		if matchesFilters(l, s.filters) {
			filtered = append(filtered, l)
		}
	}
	sortListings(filtered, s.filters.SortBy)
	return filtered
}

func (s *marketplaceStore) FavoriteListings() []models.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Listing
	for _, l := range s.listings {
		if slices.Contains(s.favorites, l.ID) {
			out = append(out, l)
		}
	}
	return out
}

func (s *marketplaceStore) UserListings() []models.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ownedListingsLocked()
}

func (s *marketplaceStore) PendingListings() []models.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Listing
	for _, l := range s.listings {
		if l.Status == models.StatusPending {
			out = append(out, l)
		}
	}
	return out
}

func (s *marketplaceStore) ConversationThread(conversationID string) (models.Conversation, []models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.conversationIndexLocked(conversationID)
	if idx < 0 {
		return models.Conversation{}, nil, fmt.Errorf("conversation %s: %w", conversationID, models.ErrConversationNotFound)
	}

	var msgs []models.Message
	for _, m := range s.messages {
		if m.ConversationID == conversationID {
			msgs = append(msgs, m)
		}
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
	return s.conversations[idx], msgs, nil
}

func (s *marketplaceStore) IsFavorite(listingID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.favorites, listingID)
}

// --- Mutations ---

// ToggleFavorite adds the id to the favorites set if absent, else removes it,
// and reports whether the listing is now a favorite. The listing's favorite
// counter moves with the set membership.
func (s *marketplaceStore) ToggleFavorite(listingID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	nowFavorite := true
	if i := slices.Index(s.favorites, listingID); i >= 0 {
		s.favorites = slices.Delete(slices.Clone(s.favorites), i, i+1)
		nowFavorite = false
	} else {
		s.favorites = append(slices.Clone(s.favorites), listingID)
	}

	for i := range s.listings {
		if s.listings[i].ID == listingID {
			if nowFavorite {
				s.listings[i].Favorites++
			} else if s.listings[i].Favorites > 0 {
				s.listings[i].Favorites--
			}
			break
		}
	}

	s.persistFavoritesLocked()
	return nowFavorite
}

func (s *marketplaceStore) AddListing(input models.ListingInput) (models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentUser == nil {
		return models.Listing{}, models.ErrNoCurrentUser
	}
	if err := validateListingInput(input); err != nil {
		return models.Listing{}, err
	}

	now := time.Now().UTC()
	status := input.Status
	if status == "" {
		status = models.StatusActive
	}

	listing := models.Listing{
		ID:          utils.NewTimeID(),
		Type:        input.Type,
		Title:       input.Title,
		Price:       input.Price,
		Images:      slices.Clone(input.Images),
		Description: input.Description,
		SellerID:    s.currentUser.ID,
		Seller:      *s.currentUser,
		CreatedAt:   now,
		UpdatedAt:   now,
		Status:      status,
		Featured:    input.Featured,
		Location:    input.Location,
		Condition:   input.Condition,
		Car:         input.Car,
		Part:        input.Part,
	}

	// Newest first.
	s.listings = append([]models.Listing{listing}, s.listings...)
	s.persistUserListingsLocked()
	return listing, nil
}

func (s *marketplaceStore) UpdateListing(id string, update models.ListingUpdate) (models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.listingIndexLocked(id)
	if idx < 0 {
		return models.Listing{}, fmt.Errorf("listing %s: %w", id, models.ErrListingNotFound)
	}

	l := &s.listings[idx]
	if update.Car != nil && l.Type != models.TypeCar {
		return models.Listing{}, fmt.Errorf("listing %s is not a car: %w", id, models.ErrVariantMismatch)
	}
	if update.Part != nil && l.Type != models.TypePart {
		return models.Listing{}, fmt.Errorf("listing %s is not a part: %w", id, models.ErrVariantMismatch)
	}

	if update.Title != nil {
		l.Title = *update.Title
	}
	if update.Price != nil {
		l.Price = *update.Price
	}
	if update.Images != nil {
		l.Images = slices.Clone(*update.Images)
	}
	if update.Description != nil {
		l.Description = *update.Description
	}
	if update.Featured != nil {
		l.Featured = *update.Featured
	}
	if update.Location != nil {
		l.Location = *update.Location
	}
	if update.Condition != nil {
		l.Condition = *update.Condition
	}
	if update.Car != nil {
		carCopy := *update.Car
		l.Car = &carCopy
	}
	if update.Part != nil {
		partCopy := *update.Part
		l.Part = &partCopy
	}
	l.UpdatedAt = time.Now().UTC()

	s.persistUserListingsLocked()
	return *l, nil
}

// DeleteListing removes the listing by id. Deleting an unknown id changes
// nothing and is not an error.
func (s *marketplaceStore) DeleteListing(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.listingIndexLocked(id)
	if idx < 0 {
		return
	}
	s.listings = slices.Delete(slices.Clone(s.listings), idx, idx+1)
	s.persistUserListingsLocked()
}

func (s *marketplaceStore) SendMessage(conversationID, text, receiverID, listingID string) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentUser == nil {
		return models.Message{}, models.ErrNoCurrentUser
	}
	if s.conversationIndexLocked(conversationID) < 0 {
		return models.Message{}, fmt.Errorf("conversation %s: %w", conversationID, models.ErrConversationNotFound)
	}

	msg := models.Message{
		ID:             utils.NewTimeID(),
		ConversationID: conversationID,
		SenderID:       s.currentUser.ID,
		ReceiverID:     receiverID,
		Text:           text,
		Timestamp:      time.Now().UTC(),
		ListingID:      listingID,
	}
	s.recordMessageLocked(msg)
	return msg, nil
}

// recordMessageLocked appends a message to the log and updates the target
// conversation's lastMessage pointer. The unread counter only moves when the
// sender is someone other than the current user, so outgoing messages never
// count against their own sender.
func (s *marketplaceStore) recordMessageLocked(msg models.Message) {
	s.messages = append(slices.Clone(s.messages), msg)

	idx := s.conversationIndexLocked(msg.ConversationID)
	if idx < 0 {
		return
	}
	s.conversations[idx].LastMessage = msg
	if s.currentUser == nil || msg.SenderID != s.currentUser.ID {
		s.conversations[idx].UnreadCount++
	}
}

// MarkConversationRead zeroes the conversation's unread counter and marks
// every message in it addressed to the current user as read. Messages
// addressed to other users are untouched. No-op without a current user or for
// an unknown conversation.
func (s *marketplaceStore) MarkConversationRead(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentUser == nil {
		return
	}
	idx := s.conversationIndexLocked(conversationID)
	if idx < 0 {
		return
	}

	for i := range s.messages {
		if s.messages[i].ConversationID == conversationID && s.messages[i].ReceiverID == s.currentUser.ID {
			s.messages[i].Read = true
		}
	}
	s.conversations[idx].UnreadCount = 0
	if s.conversations[idx].LastMessage.ReceiverID == s.currentUser.ID {
		s.conversations[idx].LastMessage.Read = true
	}
}

// CreateConversation returns the existing conversation between the current
// user and participant for the same listing (or both listing-less), or starts
// a new one. The new conversation's lastMessage holds a greeting addressed to
// the participant; the greeting is a preview, not part of the message log.
func (s *marketplaceStore) CreateConversation(participant models.User, listing *models.Listing) (models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentUser == nil {
		return models.Conversation{}, models.ErrNoCurrentUser
	}

	for _, c := range s.conversations {
		if !conversationHasParticipant(c, participant.ID) {
			continue
		}
		if conversationListingID(c) == listingIDOf(listing) {
			return c, nil
		}
	}

	subject := "your listing"
	if listing != nil && listing.Title != "" {
		subject = listing.Title
	}
	convID := utils.NewTimeID()
	conv := models.Conversation{
		ID:           convID,
		Participants: []models.User{*s.currentUser, participant},
		LastMessage: models.Message{
			ID:             utils.NewTimeID(),
			ConversationID: convID,
			SenderID:       s.currentUser.ID,
			ReceiverID:     participant.ID,
			Text:           fmt.Sprintf("Hi, I'm interested in %s", subject),
			Timestamp:      time.Now().UTC(),
		},
		UnreadCount: 0,
		Listing:     listing,
	}

	// Newest first.
	s.conversations = append([]models.Conversation{conv}, s.conversations...)
	return conv, nil
}

// SetSearchFilters replaces the filter specification wholesale.
func (s *marketplaceStore) SetSearchFilters(filters models.SearchFilters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = filters
}

func (s *marketplaceStore) RecordListingView(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.listingIndexLocked(id)
	if idx < 0 {
		return fmt.Errorf("listing %s: %w", id, models.ErrListingNotFound)
	}
	s.listings[idx].Views++
	return nil
}

func (s *marketplaceStore) AddListingImage(id, imageURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.listingIndexLocked(id)
	if idx < 0 {
		return fmt.Errorf("listing %s: %w", id, models.ErrListingNotFound)
	}
	l := &s.listings[idx]
	if slices.Contains(l.Images, imageURL) {
		return nil
	}
	l.Images = append(slices.Clone(l.Images), imageURL)
	l.UpdatedAt = time.Now().UTC()
	s.persistUserListingsLocked()
	return nil
}

// --- Status transitions ---

func (s *marketplaceStore) ApproveListing(id string) (models.Listing, error) {
	return s.transition(id, models.StatusActive)
}

func (s *marketplaceStore) RejectListing(id string) (models.Listing, error) {
	return s.transition(id, models.StatusRejected)
}

func (s *marketplaceStore) MarkListingSold(id string) (models.Listing, error) {
	return s.transition(id, models.StatusSold)
}

func (s *marketplaceStore) RelistListing(id string) (models.Listing, error) {
	return s.transition(id, models.StatusActive)
}

func (s *marketplaceStore) transition(id string, to models.ListingStatus) (models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.listingIndexLocked(id)
	if idx < 0 {
		return models.Listing{}, fmt.Errorf("listing %s: %w", id, models.ErrListingNotFound)
	}
	l := &s.listings[idx]
	if !models.CanTransition(l.Status, to) {
		return models.Listing{}, fmt.Errorf("listing %s: %s -> %s: %w", id, l.Status, to, models.ErrInvalidTransition)
	}
	l.Status = to
	l.UpdatedAt = time.Now().UTC()

	s.persistUserListingsLocked()
	return *l, nil
}

// --- Internal helpers, caller must hold the lock ---

func (s *marketplaceStore) listingIndexLocked(id string) int {
	for i := range s.listings {
		if s.listings[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *marketplaceStore) conversationIndexLocked(id string) int {
	for i := range s.conversations {
		if s.conversations[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *marketplaceStore) ownedListingsLocked() []models.Listing {
	if s.currentUser == nil {
		return nil
	}
	var out []models.Listing
	for _, l := range s.listings {
		if l.SellerID == s.currentUser.ID {
			out = append(out, l)
		}
	}
	return out
}

func (s *marketplaceStore) persistFavoritesLocked() {
	data, err := json.Marshal(s.favorites)
	if err != nil {
		s.logger.Error("failed to marshal favorites", "error", err)
		return
	}
	s.persister.Enqueue(storage.KeyFavorites, data)
}

func (s *marketplaceStore) persistUserListingsLocked() {
	owned := s.ownedListingsLocked()
	if owned == nil {
		owned = []models.Listing{}
	}
	data, err := json.Marshal(owned)
	if err != nil {
		s.logger.Error("failed to marshal user listings", "error", err)
		return
	}
	s.persister.Enqueue(storage.KeyUserListings, data)
}

func validateListingInput(input models.ListingInput) error {
	if input.Title == "" {
		return fmt.Errorf("title is required: %w", models.ErrInvalidListingData)
	}
	if input.Price < 0 {
		return fmt.Errorf("price must not be negative: %w", models.ErrInvalidListingData)
	}
	switch input.Type {
	case models.TypeCar:
		if input.Part != nil {
			return fmt.Errorf("car listing carries part specs: %w", models.ErrVariantMismatch)
		}
	case models.TypePart:
		if input.Car != nil {
			return fmt.Errorf("part listing carries car specs: %w", models.ErrVariantMismatch)
		}
	default:
		return fmt.Errorf("unknown listing type %q: %w", input.Type, models.ErrInvalidListingData)
	}
	switch input.Status {
	case "", models.StatusActive, models.StatusPending:
	default:
		return fmt.Errorf("new listing status %q not allowed: %w", input.Status, models.ErrInvalidListingData)
	}
	return nil
}

func conversationHasParticipant(c models.Conversation, userID string) bool {
	for _, p := range c.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

func conversationListingID(c models.Conversation) string {
	return listingIDOf(c.Listing)
}

func listingIDOf(l *models.Listing) string {
	if l == nil {
		return ""
	}
	return l.ID
}
