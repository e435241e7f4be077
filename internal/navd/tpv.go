package navd

import (
	"time"

	"github.com/meridian-nav/meridian/internal/fixstore"
)

// Fix modes per the gpsd TPV convention.
const (
	ModeUnknown = 0
	ModeNoFix   = 1
	Mode2D      = 2
	Mode3D      = 3
)

// TPV is a time-position-velocity report in the gpsd wire shape.
type TPV struct {
	Class  string   `json:"class"`
	Device string   `json:"device"`
	Mode   int      `json:"mode"`
	Time   string   `json:"time,omitempty"` // RFC 3339, UTC
	Lat    *float64 `json:"lat,omitempty"`
	Lon    *float64 `json:"lon,omitempty"`
	AltMSL *float64 `json:"altMSL,omitempty"`
	Speed  *float64 `json:"speed,omitempty"` // meters per second
	Track  *float64 `json:"track,omitempty"` // degrees true
}

// SKYSatellite is one satellite entry in a SKY report.
type SKYSatellite struct {
	PRN       int  `json:"PRN"`
	Elevation *int `json:"el,omitempty"`
	Azimuth   *int `json:"az,omitempty"`
	SNR       *int `json:"ss,omitempty"`
	Used      bool `json:"used"`
}

// SKY is a satellite sky-view report in the gpsd wire shape.
type SKY struct {
	Class      string         `json:"class"`
	Device     string         `json:"device"`
	Time       string         `json:"time,omitempty"`
	HDOP       *float64       `json:"hdop,omitempty"`
	VDOP       *float64       `json:"vdop,omitempty"`
	PDOP       *float64       `json:"pdop,omitempty"`
	Satellites []SKYSatellite `json:"satellites"`
}

// PollResponse is the answer to GET /api/poll, mirroring gpsd's ?POLL.
type PollResponse struct {
	Class  string `json:"class"`
	Time   string `json:"time"`
	Active int    `json:"active"`
	TPV    []TPV  `json:"tpv"`
	SKY    []SKY  `json:"sky"`
}

// tpvFromFix converts a stored fix into a TPV report.
func tpvFromFix(f fixstore.Fix) TPV {
	t := TPV{
		Class:  "TPV",
		Device: f.Device,
		Mode:   ModeUnknown,
		Lat:    f.Latitude,
		Lon:    f.Longitude,
		AltMSL: f.Altitude,
		Speed:  f.SpeedMPS,
		Track:  f.TrackDeg,
	}
	if !f.Time.IsZero() {
		t.Time = f.Time.UTC().Format(time.RFC3339Nano)
	}
	switch {
	case f.Quality == 0:
		t.Mode = ModeNoFix
	case f.Latitude == nil || f.Longitude == nil:
		t.Mode = ModeNoFix
	case f.Altitude == nil:
		t.Mode = Mode2D
	default:
		t.Mode = Mode3D
	}
	return t
}

// skyFromSnapshot converts a stored sky snapshot into a SKY report.
func skyFromSnapshot(device string, seen time.Time, sats []fixstore.Satellite, f fixstore.Fix) SKY {
	s := SKY{
		Class:  "SKY",
		Device: device,
		HDOP:   f.HDOP,
		VDOP:   f.VDOP,
		PDOP:   f.PDOP,
	}
	if !seen.IsZero() {
		s.Time = seen.UTC().Format(time.RFC3339Nano)
	}
	for _, sat := range sats {
		s.Satellites = append(s.Satellites, SKYSatellite{
			PRN:       sat.PRN,
			Elevation: sat.Elevation,
			Azimuth:   sat.Azimuth,
			SNR:       sat.SNR,
			Used:      sat.InUse,
		})
	}
	return s
}
