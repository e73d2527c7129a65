// Package storage provides the small key-value persistence layer the
// marketplace store saves its user-scoped slices into, plus the S3-backed
// image upload helper.
package storage

import (
	"context"
	"errors"
)

// Keys under which the store persists its user-scoped slices.
const (
	KeyFavorites    = "favorites"
	KeyUserListings = "userListings"
)

// ErrKeyNotFound is returned by Get when no value has been written for a key.
// Callers treat it as "start empty", not as a failure.
var ErrKeyNotFound = errors.New("key not found")

// IKeyValueStore defines the persistence backend for the marketplace store.
// Values are opaque byte slices; the store layers JSON on top.
type IKeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
