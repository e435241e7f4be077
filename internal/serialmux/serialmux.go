// Package serialmux provides an abstraction over a serial port with the
// ability for multiple clients to subscribe to raw data from the port and
// send commands to a single GPS receiver.
//
// Subscribers receive raw byte chunks rather than lines: NMEA 0183 is
// line-oriented but SiRF binary is not, so framing is left to the
// protocol scanners downstream.
package serialmux

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var ErrWriteFailed = fmt.Errorf("failed to write to serial port")

// readChunk is the size of each read from the underlying port.
const readChunk = 4096

// Mux is a generic serial port multiplexer that allows multiple clients
// to subscribe to data from a single serial port.
type Mux[T Porter] struct {
	port         T
	subscribers  map[string]chan []byte
	subscriberMu sync.Mutex
	commandMu    sync.Mutex
	closing      bool
	closingMu    sync.Mutex
}

// Muxer defines the surface the daemon consumes, so a disabled or mock
// mux can stand in for real hardware.
type Muxer interface {
	// Subscribe creates a new channel receiving raw chunks from the
	// serial port. The returned ID identifies the channel when
	// unsubscribing.
	Subscribe() (string, chan []byte)
	// Unsubscribe removes and closes a subscriber channel.
	Unsubscribe(string)
	// Send writes the provided bytes to the serial port.
	Send([]byte) error
	// Monitor reads from the serial port and fans chunks out to
	// subscribers until the context is cancelled or the port errors.
	Monitor(context.Context) error
	// Close closes all subscriber channels and the serial port.
	Close() error
}

// New creates a Mux backed by the given port.
func New[T Porter](port T) *Mux[T] {
	return &Mux[T]{
		port:        port,
		subscribers: make(map[string]chan []byte),
	}
}

// Subscribe registers a new subscriber channel. The channel has a small
// buffer; slow consumers drop chunks rather than stall the reader.
func (m *Mux[T]) Subscribe() (string, chan []byte) {
	id := uuid.NewString()
	ch := make(chan []byte, 16)
	m.subscriberMu.Lock()
	defer m.subscriberMu.Unlock()
	m.subscribers[id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber from the mux.
func (m *Mux[T]) Unsubscribe(id string) {
	m.subscriberMu.Lock()
	defer m.subscriberMu.Unlock()
	if ch, ok := m.subscribers[id]; ok {
		close(ch)
		delete(m.subscribers, id)
	}
}

// Send writes bytes to the serial port. Commands to a receiver are
// serialized so interleaved writers cannot corrupt a sentence.
func (m *Mux[T]) Send(p []byte) error {
	m.commandMu.Lock()
	defer m.commandMu.Unlock()
	n, err := m.port.Write(p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return ErrWriteFailed
	}
	return nil
}

// Monitor reads from the serial port and fans data out to subscribers.
func (m *Mux[T]) Monitor(ctx context.Context) error {
	chunkChan := make(chan []byte)
	readErrChan := make(chan error, 1)

	// The blocking port.Read lives in its own goroutine so the outer
	// loop can await chunks and context cancellation together.
	go func() {
		defer close(chunkChan)
		for {
			buf := make([]byte, readChunk)
			n, err := m.port.Read(buf)
			if n > 0 {
				select {
				case chunkChan <- buf[:n]:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				select {
				case readErrChan <- err:
				case <-ctx.Done():
				}
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-readErrChan:
			return err

		case chunk, ok := <-chunkChan:
			if !ok {
				return nil
			}
			m.closingMu.Lock()
			if m.closing {
				m.closingMu.Unlock()
				return nil
			}
			m.closingMu.Unlock()

			m.subscriberMu.Lock()
			for _, ch := range m.subscribers {
				select {
				case ch <- chunk:
				default:
					// subscriber full; skip so the reader never stalls
				}
			}
			m.subscriberMu.Unlock()
		}
	}
}

// Close closes all subscriber channels and the underlying port.
func (m *Mux[T]) Close() error {
	m.closingMu.Lock()
	m.closing = true
	m.closingMu.Unlock()

	m.subscriberMu.Lock()
	defer m.subscriberMu.Unlock()
	for id, ch := range m.subscribers {
		close(ch)
		delete(m.subscribers, id)
	}
	return m.port.Close()
}
