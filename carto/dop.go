package carto

import (
	"fmt"
	"strings"
)

// DOPs carries the dilution-of-precision values of a fix. Each value is
// optional: a receiver reports only the ones it computes.
type DOPs struct {
	Geometric  *float64
	Horizontal *float64
	Position   *float64
	Time       *float64
	Vertical   *float64
}

// String prints the DOP values with "?" for any that are absent.
func (d DOPs) String() string {
	print := func(v *float64) string {
		if v == nil {
			return "?"
		}
		return fmt.Sprintf("%0.3f", *v)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "hdop: %s vdop: %s pdop: %s gdop: %s tdop: %s",
		print(d.Horizontal), print(d.Vertical), print(d.Position),
		print(d.Geometric), print(d.Time))
	return b.String()
}
