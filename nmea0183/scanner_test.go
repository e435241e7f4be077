package nmea0183

import (
	"errors"
	"io"
	"strings"
	"testing"
)

const (
	ggaLine = "$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47"
	rmcLine = "$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A"
	gsaLine = "$GPGSA,A,3,04,05,,09,12,,,24,,,,,2.5,1.3,2.1*39"
	gsvLine = "$GPGSV,2,1,08,01,40,083,46,02,17,308,41,12,07,344,39,14,22,228,45*75"
)

func TestParseSentence(t *testing.T) {
	s, err := ParseSentence(ggaLine)
	if err != nil {
		t.Fatalf("ParseSentence returned error: %v", err)
	}
	if s.Talker != "GP" || s.Type != "GGA" {
		t.Errorf("address = %s/%s, want GP/GGA", s.Talker, s.Type)
	}
	if len(s.Fields) != 14 {
		t.Errorf("got %d fields, want 14", len(s.Fields))
	}
	if s.Field(0) != "123519" {
		t.Errorf("Field(0) = %q, want 123519", s.Field(0))
	}
	// Out-of-range access is safe.
	if s.Field(99) != "" {
		t.Errorf("Field(99) = %q, want empty", s.Field(99))
	}
}

func TestParseSentenceErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"no dollar", "GPGGA,123519"},
		{"bad checksum", "$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*00"},
		{"garbage checksum", "$GPGGA,123519*ZZ"},
		{"short address", "$GP,1,2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSentence(tt.line); err == nil {
				t.Errorf("ParseSentence(%q) succeeded, want error", tt.line)
			}
		})
	}
}

func TestParseSentenceWithoutChecksum(t *testing.T) {
	s, err := ParseSentence("$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,")
	if err != nil {
		t.Fatalf("sentence without checksum rejected: %v", err)
	}
	if s.Type != "GGA" {
		t.Errorf("Type = %q", s.Type)
	}
}

func TestParseProprietarySentence(t *testing.T) {
	s, err := ParseSentence("$PGRME,15.0,M,45.0,M,25.0,M")
	if err != nil {
		t.Fatalf("proprietary sentence rejected: %v", err)
	}
	if s.Talker != "P" || s.Type != "GRME" {
		t.Errorf("address = %s/%s, want P/GRME", s.Talker, s.Type)
	}
}

func TestChecksum(t *testing.T) {
	body := "GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,"
	if got := Checksum(body); got != 0x47 {
		t.Errorf("Checksum = %02X, want 47", got)
	}
}

func TestScannerSkipsGarbage(t *testing.T) {
	stream := strings.Join([]string{
		"\x00\x01\xfebinary noise",
		ggaLine,
		"partial $GPGG",
		"noise" + rmcLine, // resync on '$'
		"$GPGGA,bad*00",   // checksum failure skipped
		gsaLine,
	}, "\r\n")

	sc := NewScanner(strings.NewReader(stream))
	var types []string
	for {
		s, err := sc.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next returned error: %v", err)
		}
		types = append(types, s.Type)
	}
	want := []string{"GGA", "RMC", "GSA"}
	if len(types) != len(want) {
		t.Fatalf("scanned %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("sentence %d = %s, want %s", i, types[i], want[i])
		}
	}
}

func TestScannerEOF(t *testing.T) {
	sc := NewScanner(strings.NewReader(""))
	if _, err := sc.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next on empty stream = %v, want io.EOF", err)
	}
}
