package julian

import (
	"math"
	"time"
)

// GPSEpoch is the zero point of GPS time, 06-JAN-1980 00:00:00 UTC.
var GPSEpoch = time.Date(1980, time.January, 6, 0, 0, 0, 0, time.UTC)

// SecondsPerWeek is the number of seconds in a GPS week.
const SecondsPerWeek = 604800

// TOWScale is the wire scaling applied to a GPS time-of-week when encoded
// as a 32-bit integer (hundredths of a second).
const TOWScale = 100.0

// GPSTime is a GPS timestamp: a week count since the GPS epoch plus the
// time of week in seconds. GPS time does not observe leap seconds, so
// conversions to and from UTC take the current UTC-GPS leap-second offset.
type GPSTime struct {
	Week int
	// TOW is the time of week in seconds, [0, 604800).
	TOW float64
}

// GPSFromTime converts a UTC time to GPS time. leapSeconds is the current
// number of leap seconds by which GPS time leads UTC (18 since 2017).
func GPSFromTime(t time.Time, leapSeconds int) GPSTime {
	elapsed := t.Sub(GPSEpoch).Seconds() + float64(leapSeconds)
	week := int(elapsed) / SecondsPerWeek
	return GPSTime{
		Week: week,
		TOW:  elapsed - float64(week)*SecondsPerWeek,
	}
}

// Time converts GPS time back to UTC using the given leap-second offset.
func (g GPSTime) Time(leapSeconds int) time.Time {
	elapsed := float64(g.Week)*SecondsPerWeek + g.TOW - float64(leapSeconds)
	return GPSEpoch.Add(time.Duration(elapsed * float64(time.Second))).UTC()
}

// EncodeTOW encodes a time of week in seconds into the scaled 32-bit wire
// representation (hundredths of a second, rounded).
func EncodeTOW(tow float64) uint32 {
	return uint32(math.Round(tow * TOWScale))
}

// DecodeTOW decodes the scaled 32-bit wire representation back into
// seconds.
func DecodeTOW(encoded uint32) float64 {
	return float64(encoded) / TOWScale
}
