// Package julian implements Julian day numbers and the common derived day
// counts (modified, reduced, truncated, Lilian, Rata Die, prime), plus GPS
// week/time-of-week handling.
//
// A Julian day number is a continuous count of days (86400 seconds) since
// noon on 01-JAN-4713 BC. The derived variants differ only by a fixed offset.
package julian

import "time"

// Offsets of the derived day counts from the Julian epoch, in days.
const (
	// ReducedOffset shifts to the Reduced Julian Date, noon 16-NOV-1858.
	ReducedOffset = 2400000.0
	// ModifiedOffset shifts to the Modified Julian Date, midnight 17-NOV-1858.
	ModifiedOffset = 2400000.5
	// TruncatedOffset shifts to the Truncated Julian Date used by NASA,
	// midnight 24-MAY-1968.
	TruncatedOffset = 2440000.5
	// LilianOffset shifts to the Lilian Date, midnight 15-OCT-1582 (the
	// start of the Gregorian calendar).
	LilianOffset = 2299159.5
	// RataDieOffset shifts to the Rata Die count, midnight 01-JAN-0001 AD.
	RataDieOffset = 1721424.5
	// PrimeOffset shifts to the prime date count, midnight 01-JAN-1900.
	PrimeOffset = 2415020.5
	// UnixOffset shifts to the Unix epoch, midnight 01-JAN-1970.
	UnixOffset = 2440587.5
)

// secondsPerDay is the length of a Julian day.
const secondsPerDay = 86400.0

// Day is a Julian day number: days since noon 01-JAN-4713 BC.
type Day float64

// Derived day counts. Each is the Julian day number shifted by its fixed
// offset.
type (
	ReducedDay   float64
	ModifiedDay  float64
	TruncatedDay float64
	LilianDay    float64
	RataDieDay   float64
	PrimeDay     float64
)

// FromTime converts a wall-clock time to a Julian day number.
func FromTime(t time.Time) Day {
	seconds := float64(t.UnixNano()) / 1e9
	return Day(seconds/secondsPerDay + UnixOffset)
}

// Time converts the Julian day number back to a wall-clock time in UTC.
func (d Day) Time() time.Time {
	seconds := (float64(d) - UnixOffset) * secondsPerDay
	return time.Unix(0, int64(seconds*1e9)).UTC()
}

// Add returns the day number shifted by a duration.
func (d Day) Add(dur time.Duration) Day {
	return d + Day(dur.Seconds()/secondsPerDay)
}

// Sub returns the elapsed duration between two day numbers.
func (d Day) Sub(other Day) time.Duration {
	return time.Duration(float64(d-other) * secondsPerDay * float64(time.Second))
}

// Reduced returns the Reduced Julian Date for this day number.
func (d Day) Reduced() ReducedDay { return ReducedDay(float64(d) - ReducedOffset) }

// Modified returns the Modified Julian Date for this day number.
func (d Day) Modified() ModifiedDay { return ModifiedDay(float64(d) - ModifiedOffset) }

// Truncated returns the Truncated Julian Date for this day number.
func (d Day) Truncated() TruncatedDay { return TruncatedDay(float64(d) - TruncatedOffset) }

// Lilian returns the Lilian Date for this day number.
func (d Day) Lilian() LilianDay { return LilianDay(float64(d) - LilianOffset) }

// RataDie returns the Rata Die count for this day number.
func (d Day) RataDie() RataDieDay { return RataDieDay(float64(d) - RataDieOffset) }

// Prime returns the prime date count for this day number.
func (d Day) Prime() PrimeDay { return PrimeDay(float64(d) - PrimeOffset) }

// Julian converts back to the Julian day number.
func (d ReducedDay) Julian() Day { return Day(float64(d) + ReducedOffset) }

// Julian converts back to the Julian day number.
func (d ModifiedDay) Julian() Day { return Day(float64(d) + ModifiedOffset) }

// Julian converts back to the Julian day number.
func (d TruncatedDay) Julian() Day { return Day(float64(d) + TruncatedOffset) }

// Julian converts back to the Julian day number.
func (d LilianDay) Julian() Day { return Day(float64(d) + LilianOffset) }

// Julian converts back to the Julian day number.
func (d RataDieDay) Julian() Day { return Day(float64(d) + RataDieOffset) }

// Julian converts back to the Julian day number.
func (d PrimeDay) Julian() Day { return Day(float64(d) + PrimeOffset) }
