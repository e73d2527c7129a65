package utils

import (
	"strconv"
	"sync"
	"time"
)

// TimeIDHookFunc defines the signature for the NewTimeID test hook.
// It returns an ID and a boolean indicating whether to override the default generation.
type TimeIDHookFunc func() (id string, override bool)

// NewTimeIDHook is a package-level variable that tests can set to override NewTimeID behavior.
var NewTimeIDHook TimeIDHookFunc

var (
	idMu   sync.Mutex
	lastID int64
)

// NewTimeID returns a millisecond-precision time-based ID as a decimal string.
// IDs are strictly increasing within a process, so sequential creation by a
// single writer never collides even inside the same millisecond. Concurrent
// creation across processes is not collision-safe.
func NewTimeID() string {
	if NewTimeIDHook != nil {
		if id, override := NewTimeIDHook(); override {
			return id
		}
	}

	idMu.Lock()
	defer idMu.Unlock()

	now := time.Now().UnixMilli()
	if now <= lastID {
		now = lastID + 1
	}
	lastID = now
	return strconv.FormatInt(now, 10)
}
