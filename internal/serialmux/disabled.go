package serialmux

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// DisabledMux is a no-op Muxer used when no GPS hardware is attached
// (navd -disable-serial). It lets the HTTP API run without a device.
// Subscribers are tracked so their channels close deterministically on
// Unsubscribe or Close, letting readers unblock during shutdown.
type DisabledMux struct {
	mu          sync.Mutex
	subscribers map[string]chan []byte
	closing     bool
}

func NewDisabledMux() *DisabledMux {
	return &DisabledMux{
		subscribers: make(map[string]chan []byte),
	}
}

func (d *DisabledMux) Subscribe() (string, chan []byte) {
	id := uuid.NewString()
	ch := make(chan []byte, 16)

	d.mu.Lock()
	if d.closing {
		// Already closing: return a closed channel so callers don't block.
		close(ch)
		d.mu.Unlock()
		return id, ch
	}
	d.subscribers[id] = ch
	d.mu.Unlock()
	return id, ch
}

func (d *DisabledMux) Unsubscribe(id string) {
	d.mu.Lock()
	if ch, ok := d.subscribers[id]; ok {
		close(ch)
		delete(d.subscribers, id)
	}
	d.mu.Unlock()
}

func (d *DisabledMux) Send([]byte) error { return nil }

func (d *DisabledMux) Monitor(ctx context.Context) error { <-ctx.Done(); return ctx.Err() }

func (d *DisabledMux) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closing {
		return nil
	}
	d.closing = true
	for id, ch := range d.subscribers {
		close(ch)
		delete(d.subscribers, id)
	}
	return nil
}
