package units

import (
	"testing"
	"time"
)

func TestNewTimeOfDay(t *testing.T) {
	if _, err := NewTimeOfDay(86400); err != nil {
		t.Errorf("NewTimeOfDay(86400) rejected leap second: %v", err)
	}
	if _, err := NewTimeOfDay(86401); err == nil {
		t.Error("NewTimeOfDay(86401) accepted out-of-range value")
	}
}

func TestTimeOfDayHMS(t *testing.T) {
	tests := []struct {
		name    string
		seconds uint32
		h, m, s uint32
		str     string
	}{
		{"midnight", 0, 0, 0, 0, "0:00:00"},
		{"morning", 6*3600 + 30*60 + 15, 6, 30, 15, "6:30:15"},
		{"last second", 86399, 23, 59, 59, "23:59:59"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tod, err := NewTimeOfDay(tt.seconds)
			if err != nil {
				t.Fatal(err)
			}
			h, m, s := tod.HMS()
			if h != tt.h || m != tt.m || s != tt.s {
				t.Errorf("HMS() = (%d, %d, %d), want (%d, %d, %d)", h, m, s, tt.h, tt.m, tt.s)
			}
			if tod.String() != tt.str {
				t.Errorf("String() = %q, want %q", tod.String(), tt.str)
			}
		})
	}
}

func TestTimeOfDayFromHMS(t *testing.T) {
	tod, err := TimeOfDayFromHMS(12, 34, 56)
	if err != nil {
		t.Fatal(err)
	}
	if tod.Seconds() != 12*3600+34*60+56 {
		t.Errorf("Seconds() = %d", tod.Seconds())
	}
	if tod.AsDuration() != time.Duration(tod.Seconds())*time.Second {
		t.Errorf("AsDuration() = %v", tod.AsDuration())
	}

	for _, bad := range [][3]uint32{{24, 0, 0}, {0, 60, 0}, {0, 0, 61}} {
		if _, err := TimeOfDayFromHMS(bad[0], bad[1], bad[2]); err == nil {
			t.Errorf("TimeOfDayFromHMS(%v) accepted out-of-range value", bad)
		}
	}

	// A leap second at the end of a minute is representable.
	if _, err := TimeOfDayFromHMS(23, 59, 60); err != nil {
		t.Errorf("leap second rejected: %v", err)
	}
}
