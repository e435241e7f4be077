// Package nmea0183 parses NMEA 0183 sentence streams from GPS receivers:
// framing and checksum validation, plus typed decoders for the core fix
// sentences (GGA, RMC, GSA, GSV).
package nmea0183

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Sentence is one framed NMEA sentence, split into its address and data
// fields.
type Sentence struct {
	// Raw is the sentence as received, without line terminators.
	Raw string

	// Talker is the talker ID ("GP", "GN", ...), or "P" for proprietary
	// sentences.
	Talker string

	// Type is the sentence type ("GGA", "RMC", ...).
	Type string

	// Fields are the comma-separated data fields after the address.
	Fields []string
}

// Field returns field i or "" when the sentence is short.
func (s Sentence) Field(i int) string {
	if i < 0 || i >= len(s.Fields) {
		return ""
	}
	return s.Fields[i]
}

// ParseSentence validates the framing and checksum of a single line and
// splits it into fields. The line must start with '$'; a trailing "*hh"
// checksum is verified when present.
func ParseSentence(line string) (Sentence, error) {
	line = strings.TrimRight(line, "\r\n")
	if len(line) < 6 || line[0] != '$' {
		return Sentence{}, fmt.Errorf("not an NMEA sentence: %q", line)
	}
	body := line[1:]

	if body, rest, ok := cutChecksum(body); ok {
		want, err := strconv.ParseUint(rest, 16, 8)
		if err != nil {
			return Sentence{}, fmt.Errorf("bad checksum field %q: %w", rest, err)
		}
		if got := Checksum(body); got != byte(want) {
			return Sentence{}, fmt.Errorf("checksum mismatch: computed %02X, sentence says %02X", got, want)
		}
		return splitSentence(line, body)
	}
	return splitSentence(line, body)
}

func cutChecksum(body string) (payload, checksum string, ok bool) {
	i := strings.LastIndexByte(body, '*')
	if i < 0 || len(body)-i != 3 {
		return body, "", false
	}
	return body[:i], body[i+1:], true
}

func splitSentence(raw, body string) (Sentence, error) {
	fields := strings.Split(body, ",")
	address := fields[0]
	if len(address) < 3 {
		return Sentence{}, fmt.Errorf("address field %q too short", address)
	}
	s := Sentence{Raw: raw, Fields: fields[1:]}
	if address[0] == 'P' {
		s.Talker = "P"
		s.Type = address[1:]
	} else {
		s.Talker = address[:2]
		s.Type = address[2:]
	}
	return s, nil
}

// Checksum computes the XOR checksum over the sentence body (the characters
// between '$' and '*').
func Checksum(body string) byte {
	var sum byte
	for i := 0; i < len(body); i++ {
		sum ^= body[i]
	}
	return sum
}

// Scanner reads NMEA sentences from a stream, skipping interleaved garbage
// such as binary noise or partial lines.
type Scanner struct {
	lines *bufio.Scanner
}

// NewScanner wraps r in a sentence scanner.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{lines: bufio.NewScanner(r)}
}

// Next returns the next valid sentence from the stream. Invalid lines are
// skipped. Returns io.EOF when the stream ends.
func (s *Scanner) Next() (Sentence, error) {
	for s.lines.Scan() {
		line := strings.TrimSpace(s.lines.Text())
		if line == "" {
			continue
		}
		// Resynchronize on the '$' in case of leading garbage.
		if i := strings.IndexByte(line, '$'); i > 0 {
			line = line[i:]
		}
		sentence, err := ParseSentence(line)
		if err != nil {
			continue
		}
		return sentence, nil
	}
	if err := s.lines.Err(); err != nil {
		return Sentence{}, err
	}
	return Sentence{}, io.EOF
}
