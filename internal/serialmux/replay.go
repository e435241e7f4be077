package serialmux

import (
	"io"
	"time"
)

// ReplayPort is a Porter that replays canned receiver output, used by
// navd's dev mode to run without hardware.
type ReplayPort struct {
	io.Reader
	done chan struct{}
}

func (p *ReplayPort) Write(b []byte) (int, error) { return len(b), nil }

func (p *ReplayPort) Close() error {
	select {
	case <-p.done:
	default:
		close(p.done)
	}
	return nil
}

// NewReplayMux creates a Mux backed by a port that emits data once per
// interval, simulating a receiver's reporting cycle.
func NewReplayMux(data []byte, interval time.Duration) *Mux[*ReplayPort] {
	r, w := io.Pipe()
	port := &ReplayPort{Reader: r, done: make(chan struct{})}

	go func() {
		defer w.Close()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := w.Write(data); err != nil {
					return
				}
			case <-port.done:
				return
			}
		}
	}()

	return New(port)
}
