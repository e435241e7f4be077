package units

import (
	"math"
	"testing"
)

func TestIsValidSpeedUnit(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		expected bool
	}{
		{"valid mps", MPS, true},
		{"valid mph", MPH, true},
		{"valid kmph", KMPH, true},
		{"valid kph", KPH, true},
		{"valid knots", Knots, true},
		{"invalid unit", "furlongs", false},
		{"empty unit", "", false},
		{"uppercase MPS", "MPS", false}, // Case-sensitive
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidSpeedUnit(tt.unit)
			if result != tt.expected {
				t.Errorf("IsValidSpeedUnit(%s) = %v, want %v", tt.unit, result, tt.expected)
			}
		})
	}
}

func TestConvertSpeed(t *testing.T) {
	tests := []struct {
		name     string
		speedMPS float64
		unit     string
		expected float64
	}{
		{"0 m/s to mps", 0.0, MPS, 0.0},
		{"1 m/s to mps", 1.0, MPS, 1.0},

		{"1 m/s to mph", 1.0, MPH, 2.2369362920544},
		{"5 m/s to mph", 5.0, MPH, 11.184681460272},

		{"1 m/s to kmph", 1.0, KMPH, 3.6},
		{"5 m/s to kmph", 5.0, KMPH, 18.0},
		{"1 m/s to kph", 1.0, KPH, 3.6},

		{"1 m/s to knots", 1.0, Knots, 1.9438444924406},

		{"unknown unit falls back", 1.0, "unknown", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertSpeed(tt.speedMPS, tt.unit)
			if math.Abs(result-tt.expected) > 1e-10 {
				t.Errorf("ConvertSpeed(%f, %s) = %f, want %f", tt.speedMPS, tt.unit, result, tt.expected)
			}
		})
	}
}

func TestConvertToMPS(t *testing.T) {
	tests := []struct {
		name     string
		speed    float64
		unit     string
		expected float64
	}{
		{"mph round trip", 2.2369362920544, MPH, 1.0},
		{"kmph round trip", 3.6, KMPH, 1.0},
		{"knots round trip", 1.9438444924406, Knots, 1.0},
		{"mps identity", 7.5, MPS, 7.5},
		{"unknown unit assumed mps", 7.5, "unknown", 7.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertToMPS(tt.speed, tt.unit)
			if math.Abs(result-tt.expected) > 1e-10 {
				t.Errorf("ConvertToMPS(%f, %s) = %f, want %f", tt.speed, tt.unit, result, tt.expected)
			}
		})
	}
}

func TestSpeedRoundTrip(t *testing.T) {
	for _, unit := range ValidSpeedUnits {
		orig := 13.37
		back := ConvertToMPS(ConvertSpeed(orig, unit), unit)
		if math.Abs(back-orig) > 1e-10 {
			t.Errorf("round trip through %s: %v, want %v", unit, back, orig)
		}
	}
}
