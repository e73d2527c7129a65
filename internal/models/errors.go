package models

import "errors"

var (
	ErrListingNotFound      = errors.New("listing not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNoCurrentUser        = errors.New("no current user set")
	ErrNotListingOwner      = errors.New("listing does not belong to current user")
	ErrInvalidTransition    = errors.New("invalid listing status transition")
	ErrVariantMismatch      = errors.New("update variant does not match listing type")
	ErrInvalidListingData   = errors.New("invalid listing data")
)
