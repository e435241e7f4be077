package sirf

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestEncodeLayout(t *testing.T) {
	// Payload {0x07, 0x01}: length 2, checksum 0x0008.
	got, err := Encode([]byte{0x07, 0x01})
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	want := []byte{0xA0, 0xA2, 0x00, 0x02, 0x07, 0x01, 0x00, 0x08, 0xB0, 0xB3}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode = % X, want % X", got, want)
	}
}

func TestEncodeTooLarge(t *testing.T) {
	if _, err := Encode(make([]byte, MaxPayload+1)); !errors.Is(err, ErrPayloadTooLarge) {
		t.Errorf("Encode oversized payload = %v, want ErrPayloadTooLarge", err)
	}
}

func TestChecksumMasksTo15Bits(t *testing.T) {
	payload := bytes.Repeat([]byte{0xFF}, 200)
	if sum := checksum(payload); sum > MaxPayload {
		t.Errorf("checksum = %#x, exceeds 15 bits", sum)
	}
	// 200 * 0xFF = 51000 = 0xC738; masked to 15 bits = 0x4738.
	if sum := checksum(payload); sum != 0x4738 {
		t.Errorf("checksum = %#x, want 0x4738", sum)
	}
}

func TestScannerRoundTrip(t *testing.T) {
	payloads := [][]byte{
		{0x07, 0x01, 0x02},
		{0x02},
		{0xFF, 0x00, 0xFF},
	}
	var stream bytes.Buffer
	for _, p := range payloads {
		frame, err := Encode(p)
		if err != nil {
			t.Fatal(err)
		}
		stream.Write(frame)
	}

	sc := NewScanner(&stream)
	for i, want := range payloads {
		f, err := sc.Next()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if !bytes.Equal(f.Payload, want) {
			t.Errorf("frame %d payload = % X, want % X", i, f.Payload, want)
		}
	}
	if _, err := sc.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next after last frame = %v, want io.EOF", err)
	}
}

func TestScannerResync(t *testing.T) {
	good, err := Encode([]byte{0x07, 0x09})
	if err != nil {
		t.Fatal(err)
	}

	var stream bytes.Buffer
	stream.Write([]byte("serial line noise"))
	// Corrupt frame: valid start marker, checksum off by one.
	stream.Write([]byte{0xA0, 0xA2, 0x00, 0x01, 0x05, 0x00, 0x06, 0xB0, 0xB3})
	// A0 A0 A2 prefix: the second A0 starts the real marker.
	stream.WriteByte(0xA0)
	stream.Write(good)

	sc := NewScanner(&stream)
	f, err := sc.Next()
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if !bytes.Equal(f.Payload, []byte{0x07, 0x09}) {
		t.Errorf("payload = % X, want 07 09", f.Payload)
	}
}

func TestScannerBadTrailer(t *testing.T) {
	// Checksum valid but trailer mangled; the frame must be skipped.
	stream := bytes.NewBuffer([]byte{0xA0, 0xA2, 0x00, 0x01, 0x05, 0x00, 0x05, 0xFF, 0xFF})
	good, err := Encode([]byte{0x02, 0x01})
	if err != nil {
		t.Fatal(err)
	}
	stream.Write(good)

	sc := NewScanner(stream)
	f, err := sc.Next()
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if f.MessageID() != 0x02 {
		t.Errorf("MessageID = %#x, want 0x02", f.MessageID())
	}
}

func TestScannerTruncatedFrame(t *testing.T) {
	// Start marker and length, then the stream dies.
	sc := NewScanner(bytes.NewReader([]byte{0xA0, 0xA2, 0x00, 0x10, 0x01}))
	if _, err := sc.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next on truncated frame = %v, want io.EOF", err)
	}
}
