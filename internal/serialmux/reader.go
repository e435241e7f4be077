package serialmux

import (
	"context"
	"io"
)

// subReader adapts a subscription channel into an io.Reader so the
// protocol scanners can consume the mux directly.
type subReader struct {
	mux     Muxer
	ctx     context.Context
	id      string
	ch      chan []byte
	pending []byte
}

// Reader subscribes to the mux and returns an io.ReadCloser over the
// incoming chunks. Read returns io.EOF when the mux closes or the
// context is cancelled. Close unsubscribes.
func Reader(ctx context.Context, m Muxer) io.ReadCloser {
	id, ch := m.Subscribe()
	return &subReader{mux: m, ctx: ctx, id: id, ch: ch}
}

func (r *subReader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		select {
		case chunk, ok := <-r.ch:
			if !ok {
				return 0, io.EOF
			}
			r.pending = chunk
		case <-r.ctx.Done():
			return 0, io.EOF
		}
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

func (r *subReader) Close() error {
	r.mux.Unsubscribe(r.id)
	return nil
}
