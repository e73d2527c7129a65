package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Mboiraai/rork-automarketconnect/internal/storage"
)

// Persister receives the serialized state slices the marketplace store wants
// durable. Enqueue is fire-and-forget: callers never block on or learn about
// the outcome of a write. A failed write leaves in-memory state authoritative.
type Persister interface {
	Enqueue(key string, value []byte)
}

// QueuedPersister serializes writes per slice through a background goroutine.
// Only the latest enqueued value per key is kept while a write is in flight,
// so rapid mutations collapse into one write and the last one always lands
// last in storage.
type QueuedPersister struct {
	kv     storage.IKeyValueStore
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string][]byte
	wake    chan struct{}
	done    chan struct{}
	closed  bool
}

// NewQueuedPersister starts the background writer.
func NewQueuedPersister(kv storage.IKeyValueStore, logger *slog.Logger) *QueuedPersister {
	p := &QueuedPersister{
		kv:      kv,
		logger:  logger,
		pending: make(map[string][]byte),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// Enqueue records value as the latest state of key and wakes the writer.
func (p *QueuedPersister) Enqueue(key string, value []byte) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.logger.Warn("persister closed, dropping write", "key", key)
		return
	}
	p.pending[key] = value
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *QueuedPersister) run() {
	defer close(p.done)
	for range p.wake {
		p.flush()
	}
	// Drain anything enqueued between the last flush and close.
	p.flush()
}

func (p *QueuedPersister) flush() {
	for {
		p.mu.Lock()
		if len(p.pending) == 0 {
			p.mu.Unlock()
			return
		}
		var key string
		var value []byte
		for k, v := range p.pending {
			key, value = k, v
			break
		}
		delete(p.pending, key)
		p.mu.Unlock()

		if err := p.kv.Set(context.Background(), key, value); err != nil {
			p.logger.Error("failed to persist slice", "key", key, "error", err)
		}
	}
}

// Stop closes the queue and waits for outstanding writes to land, or for ctx
// to expire.
func (p *QueuedPersister) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()
	close(p.wake)

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
