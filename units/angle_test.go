package units

import (
	"math"
	"testing"
)

const angleEps = 1e-9

func TestAngleConversions(t *testing.T) {
	tests := []struct {
		name string
		in   Angle
		unit AngleUnit
		want float64
	}{
		{"degrees to radians", NewDegrees(180), Radians, math.Pi},
		{"radians to degrees", NewRadians(math.Pi), Degrees, 180},
		{"full circle revolutions", NewDegrees(360), Revolutions, 1},
		{"revolution to mils", NewAngle(1, Revolutions), Mils, 6400},
		{"degree to arc minutes", NewDegrees(1), ArcMinutes, 60},
		{"degree to arc seconds", NewDegrees(1), ArcSeconds, 3600},
		{"identity", NewDegrees(42.5), Degrees, 42.5},
		{"arc seconds to degrees", NewAngle(7200, ArcSeconds), Degrees, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.As(tt.unit).Value()
			if math.Abs(got-tt.want) > angleEps {
				t.Errorf("As(%v) = %v, want %v", tt.unit, got, tt.want)
			}
		})
	}
}

func TestAngleRoundTrip(t *testing.T) {
	units := []AngleUnit{Radians, Degrees, ArcMinutes, ArcSeconds, Revolutions, Mils}
	orig := NewDegrees(-77.03637)
	for _, u := range units {
		back := orig.As(u).As(Degrees).Value()
		if math.Abs(back-orig.Value()) > 1e-9 {
			t.Errorf("round trip through %v: %v, want %v", u, back, orig.Value())
		}
	}
}

func TestNewDMS(t *testing.T) {
	tests := []struct {
		name    string
		deg     int
		min     int
		sec     float64
		wantDeg float64
	}{
		{"zero", 0, 0, 0, 0},
		{"positive", 38, 53, 23.0, 38.88972222222222},
		{"negative carries sign", -77, 2, 11.0, -77.03638888888889},
		{"minutes only", 0, 30, 0, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewDMS(tt.deg, tt.min, tt.sec).Degrees()
			if math.Abs(got-tt.wantDeg) > angleEps {
				t.Errorf("NewDMS(%d,%d,%v) = %v, want %v", tt.deg, tt.min, tt.sec, got, tt.wantDeg)
			}
		})
	}
}

func TestAngleDMS(t *testing.T) {
	a := NewDMS(38, 53, 23.0)
	d, m, s := a.DMS()
	if d != 38 || m != 53 || math.Abs(s-23.0) > 1e-6 {
		t.Errorf("DMS() = (%d, %d, %v), want (38, 53, 23)", d, m, s)
	}

	neg := NewDegrees(-77.5)
	d, min := neg.DegMin()
	if d != -77 || math.Abs(min-30) > angleEps {
		t.Errorf("DegMin() = (%d, %v), want (-77, 30)", d, min)
	}
}

func TestAngleString(t *testing.T) {
	got := NewDegrees(12.3456).String()
	want := "12.346°"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestConversionFactors(t *testing.T) {
	if math.Abs(DegPerRad*RadPerDeg-1) > 1e-15 {
		t.Errorf("DegPerRad * RadPerDeg = %v, want 1", DegPerRad*RadPerDeg)
	}
	if SecPerDeg != 3600 {
		t.Errorf("SecPerDeg = %v, want 3600", SecPerDeg)
	}
	if math.Abs(MilPerDeg*DegPerRev-MilPerRev) > 1e-12 {
		t.Errorf("MilPerDeg inconsistent: %v", MilPerDeg)
	}
}
