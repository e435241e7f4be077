package nmea0183

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/meridian-nav/meridian/carto"
	"github.com/meridian-nav/meridian/units"
)

// FixQuality is the GGA fix quality indicator.
type FixQuality int

const (
	FixNone         FixQuality = 0
	FixGPS          FixQuality = 1
	FixDGPS         FixQuality = 2
	FixPPS          FixQuality = 3
	FixRTK          FixQuality = 4
	FixFloatRTK     FixQuality = 5
	FixDeadReckoned FixQuality = 6
)

// ClockTime is an NMEA hhmmss.ss timestamp. NMEA sentences carry no date in
// GGA, so the time stands alone until merged with an RMC date.
type ClockTime struct {
	Hour   int
	Minute int
	Second float64
	Valid  bool
}

// AtDate combines the clock time with a calendar date into a UTC timestamp.
func (c ClockTime) AtDate(year int, month time.Month, day int) time.Time {
	sec := int(c.Second)
	nsec := int((c.Second - float64(sec)) * 1e9)
	return time.Date(year, month, day, c.Hour, c.Minute, sec, nsec, time.UTC)
}

// parseClockTime parses hhmmss or hhmmss.ss. An empty field yields an
// invalid (but not erroneous) time.
func parseClockTime(field string) (ClockTime, error) {
	if field == "" {
		return ClockTime{}, nil
	}
	if len(field) < 6 {
		return ClockTime{}, fmt.Errorf("time field %q too short", field)
	}
	hour, err := strconv.Atoi(field[0:2])
	if err != nil {
		return ClockTime{}, fmt.Errorf("bad hour in %q: %w", field, err)
	}
	minute, err := strconv.Atoi(field[2:4])
	if err != nil {
		return ClockTime{}, fmt.Errorf("bad minute in %q: %w", field, err)
	}
	second, err := strconv.ParseFloat(field[4:], 64)
	if err != nil {
		return ClockTime{}, fmt.Errorf("bad second in %q: %w", field, err)
	}
	return ClockTime{Hour: hour, Minute: minute, Second: second, Valid: true}, nil
}

// ParseLatLon converts an NMEA ddmm.mmmm coordinate field and hemisphere
// indicator into an angle. South and west are negative.
func ParseLatLon(value, hemisphere string) (units.Angle, error) {
	if value == "" {
		return units.Angle{}, fmt.Errorf("empty coordinate field")
	}
	dot := strings.IndexByte(value, '.')
	if dot < 0 {
		dot = len(value)
	}
	if dot < 3 {
		return units.Angle{}, fmt.Errorf("coordinate field %q too short", value)
	}
	degrees, err := strconv.Atoi(value[:dot-2])
	if err != nil {
		return units.Angle{}, fmt.Errorf("bad degrees in %q: %w", value, err)
	}
	minutes, err := strconv.ParseFloat(value[dot-2:], 64)
	if err != nil {
		return units.Angle{}, fmt.Errorf("bad minutes in %q: %w", value, err)
	}
	deg := float64(degrees) + minutes/60
	switch hemisphere {
	case "N", "E", "":
	case "S", "W":
		deg = -deg
	default:
		return units.Angle{}, fmt.Errorf("bad hemisphere %q", hemisphere)
	}
	return units.NewDegrees(deg), nil
}

func parseOptFloat(field string) (*float64, error) {
	if field == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseFloatDefault(field string) float64 {
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0
	}
	return v
}

// GGA is the global positioning system fix data sentence.
type GGA struct {
	Time      ClockTime
	Lat       units.Angle
	Lon       units.Angle
	Quality   FixQuality
	NumSats   int
	HDOP      *float64
	Altitude  float64 // meters above mean sea level
	GeoidSep  float64 // meters
	HasFix    bool
	HasLatLon bool
}

// ParseGGA decodes a GGA sentence.
func ParseGGA(s Sentence) (GGA, error) {
	if s.Type != "GGA" {
		return GGA{}, fmt.Errorf("not a GGA sentence: %s%s", s.Talker, s.Type)
	}
	var g GGA
	var err error
	if g.Time, err = parseClockTime(s.Field(0)); err != nil {
		return GGA{}, err
	}
	if s.Field(1) != "" {
		if g.Lat, err = ParseLatLon(s.Field(1), s.Field(2)); err != nil {
			return GGA{}, err
		}
		if g.Lon, err = ParseLatLon(s.Field(3), s.Field(4)); err != nil {
			return GGA{}, err
		}
		g.HasLatLon = true
	}
	quality, _ := strconv.Atoi(s.Field(5))
	g.Quality = FixQuality(quality)
	g.HasFix = g.Quality != FixNone
	g.NumSats, _ = strconv.Atoi(s.Field(6))
	if g.HDOP, err = parseOptFloat(s.Field(7)); err != nil {
		return GGA{}, fmt.Errorf("bad HDOP: %w", err)
	}
	g.Altitude = parseFloatDefault(s.Field(8))
	g.GeoidSep = parseFloatDefault(s.Field(10))
	return g, nil
}

// RMC is the recommended minimum navigation sentence.
type RMC struct {
	Time       ClockTime
	Valid      bool // status field A
	Lat        units.Angle
	Lon        units.Angle
	SpeedMPS   float64
	CourseDeg  float64
	Year       int
	Month      time.Month
	Day        int
	HasDate    bool
	HasLatLon  bool
	HasCourse  bool
	MagVarDeg  float64
	HasMagVar  bool
}

// Timestamp combines the RMC date and time into a UTC timestamp. The zero
// time is returned when either part is missing.
func (r RMC) Timestamp() time.Time {
	if !r.HasDate || !r.Time.Valid {
		return time.Time{}
	}
	return r.Time.AtDate(r.Year, r.Month, r.Day)
}

// ParseRMC decodes an RMC sentence.
func ParseRMC(s Sentence) (RMC, error) {
	if s.Type != "RMC" {
		return RMC{}, fmt.Errorf("not an RMC sentence: %s%s", s.Talker, s.Type)
	}
	var r RMC
	var err error
	if r.Time, err = parseClockTime(s.Field(0)); err != nil {
		return RMC{}, err
	}
	r.Valid = s.Field(1) == "A"
	if s.Field(2) != "" {
		if r.Lat, err = ParseLatLon(s.Field(2), s.Field(3)); err != nil {
			return RMC{}, err
		}
		if r.Lon, err = ParseLatLon(s.Field(4), s.Field(5)); err != nil {
			return RMC{}, err
		}
		r.HasLatLon = true
	}
	r.SpeedMPS = units.ConvertToMPS(parseFloatDefault(s.Field(6)), units.Knots)
	if s.Field(7) != "" {
		r.CourseDeg = parseFloatDefault(s.Field(7))
		r.HasCourse = true
	}
	if date := s.Field(8); len(date) == 6 {
		day, _ := strconv.Atoi(date[0:2])
		month, _ := strconv.Atoi(date[2:4])
		year, _ := strconv.Atoi(date[4:6])
		r.Day = day
		r.Month = time.Month(month)
		// Two-digit years pivot at 1980, the GPS epoch.
		if year >= 80 {
			r.Year = 1900 + year
		} else {
			r.Year = 2000 + year
		}
		r.HasDate = true
	}
	if s.Field(9) != "" {
		r.MagVarDeg = parseFloatDefault(s.Field(9))
		if s.Field(10) == "W" {
			r.MagVarDeg = -r.MagVarDeg
		}
		r.HasMagVar = true
	}
	return r, nil
}

// GSA is the DOP and active satellites sentence.
type GSA struct {
	Automatic bool // M = manual, A = automatic 2D/3D switching
	FixType   int  // 1 = none, 2 = 2D, 3 = 3D
	PRNs      []int
	DOPs      carto.DOPs
}

// ParseGSA decodes a GSA sentence.
func ParseGSA(s Sentence) (GSA, error) {
	if s.Type != "GSA" {
		return GSA{}, fmt.Errorf("not a GSA sentence: %s%s", s.Talker, s.Type)
	}
	var g GSA
	g.Automatic = s.Field(0) == "A"
	g.FixType, _ = strconv.Atoi(s.Field(1))
	for i := 2; i < 14; i++ {
		if f := s.Field(i); f != "" {
			prn, err := strconv.Atoi(f)
			if err != nil {
				return GSA{}, fmt.Errorf("bad PRN %q: %w", f, err)
			}
			g.PRNs = append(g.PRNs, prn)
		}
	}
	var err error
	if g.DOPs.Position, err = parseOptFloat(s.Field(14)); err != nil {
		return GSA{}, fmt.Errorf("bad PDOP: %w", err)
	}
	if g.DOPs.Horizontal, err = parseOptFloat(s.Field(15)); err != nil {
		return GSA{}, fmt.Errorf("bad HDOP: %w", err)
	}
	if g.DOPs.Vertical, err = parseOptFloat(s.Field(16)); err != nil {
		return GSA{}, fmt.Errorf("bad VDOP: %w", err)
	}
	return g, nil
}

// SatelliteInfo is one satellite entry from a GSV sentence.
type SatelliteInfo struct {
	PRN          int
	ElevationDeg int
	AzimuthDeg   int
	SNR          int
	HasSNR       bool // satellites being searched for report no SNR
}

// GSV is the satellites-in-view sentence. A constellation report spans
// several GSV sentences; MsgNum/TotalMsgs sequence them.
type GSV struct {
	TotalMsgs  int
	MsgNum     int
	SatsInView int
	Sats       []SatelliteInfo
}

// ParseGSV decodes a GSV sentence.
func ParseGSV(s Sentence) (GSV, error) {
	if s.Type != "GSV" {
		return GSV{}, fmt.Errorf("not a GSV sentence: %s%s", s.Talker, s.Type)
	}
	var g GSV
	g.TotalMsgs, _ = strconv.Atoi(s.Field(0))
	g.MsgNum, _ = strconv.Atoi(s.Field(1))
	g.SatsInView, _ = strconv.Atoi(s.Field(2))
	for base := 3; base+3 < len(s.Fields)+1 && base < 19; base += 4 {
		if s.Field(base) == "" {
			continue
		}
		var sat SatelliteInfo
		sat.PRN, _ = strconv.Atoi(s.Field(base))
		sat.ElevationDeg, _ = strconv.Atoi(s.Field(base + 1))
		sat.AzimuthDeg, _ = strconv.Atoi(s.Field(base + 2))
		if snr := s.Field(base + 3); snr != "" {
			sat.SNR, _ = strconv.Atoi(snr)
			sat.HasSNR = true
		}
		g.Sats = append(g.Sats, sat)
	}
	return g, nil
}
