// Package sirf implements the SiRF binary GPS protocol: packet framing with
// checksum validation, and decoders for the navigation messages the toolkit
// consumes.
//
// A SiRF frame is:
//
//	A0 A2 | length (2 bytes BE, 15-bit) | payload | checksum (2 bytes BE) | B0 B3
//
// where the checksum is the sum of the payload bytes masked to 15 bits.
package sirf

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// Frame start and end markers.
const (
	startA = 0xA0
	startB = 0xA2
	endA   = 0xB0
	endB   = 0xB3
)

// MaxPayload is the largest payload a frame can carry (15-bit length).
const MaxPayload = 0x7FFF

var (
	ErrPayloadTooLarge = fmt.Errorf("payload exceeds %d bytes", MaxPayload)
	ErrBadChecksum     = fmt.Errorf("frame checksum mismatch")
	ErrBadTrailer      = fmt.Errorf("frame trailer missing")
)

// Frame is one received SiRF packet.
type Frame struct {
	Payload []byte
}

// MessageID returns the first payload byte, which identifies the message.
func (f Frame) MessageID() byte {
	if len(f.Payload) == 0 {
		return 0
	}
	return f.Payload[0]
}

// checksum computes the 15-bit additive checksum over the payload.
func checksum(payload []byte) uint16 {
	var sum uint16
	for _, b := range payload {
		sum = (sum + uint16(b)) & MaxPayload
	}
	return sum
}

// Encode wraps a payload in SiRF framing.
func Encode(payload []byte) ([]byte, error) {
	if len(payload) > MaxPayload {
		return nil, ErrPayloadTooLarge
	}
	out := make([]byte, 0, len(payload)+8)
	out = append(out, startA, startB)
	out = binary.BigEndian.AppendUint16(out, uint16(len(payload)))
	out = append(out, payload...)
	out = binary.BigEndian.AppendUint16(out, checksum(payload))
	out = append(out, endA, endB)
	return out, nil
}

// Scanner reads SiRF frames from a byte stream, resynchronizing on the
// start marker after garbage or a corrupt frame.
type Scanner struct {
	r *bufio.Reader
}

// NewScanner wraps r in a frame scanner.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReader(r)}
}

// Next returns the next valid frame. Corrupt frames are skipped. Returns
// io.EOF when the stream ends.
func (s *Scanner) Next() (Frame, error) {
	for {
		if err := s.syncToStart(); err != nil {
			return Frame{}, err
		}

		var header [2]byte
		if _, err := io.ReadFull(s.r, header[:]); err != nil {
			return Frame{}, eofOrErr(err)
		}
		length := binary.BigEndian.Uint16(header[:])
		if length > MaxPayload {
			continue // length field corrupt; resync
		}

		body := make([]byte, int(length)+4)
		if _, err := io.ReadFull(s.r, body); err != nil {
			return Frame{}, eofOrErr(err)
		}
		payload := body[:length]
		wantSum := binary.BigEndian.Uint16(body[length : length+2])
		if checksum(payload) != wantSum {
			continue
		}
		if body[length+2] != endA || body[length+3] != endB {
			continue
		}
		return Frame{Payload: payload}, nil
	}
}

// syncToStart discards bytes until the A0 A2 start marker is consumed.
func (s *Scanner) syncToStart() error {
	for {
		b, err := s.r.ReadByte()
		if err != nil {
			return eofOrErr(err)
		}
		if b != startA {
			continue
		}
		next, err := s.r.ReadByte()
		if err != nil {
			return eofOrErr(err)
		}
		if next == startB {
			return nil
		}
		// A0 followed by something else; the something else could itself
		// be a start byte.
		if next == startA {
			if err := s.r.UnreadByte(); err != nil {
				return err
			}
		}
	}
}

func eofOrErr(err error) error {
	if err == io.ErrUnexpectedEOF {
		return io.EOF
	}
	return err
}
