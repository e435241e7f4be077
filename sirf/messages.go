package sirf

import (
	"encoding/binary"
	"fmt"

	"github.com/meridian-nav/meridian/julian"
)

// Message IDs decoded by this package.
const (
	IDMeasuredNavData = 0x02
	IDClockStatus     = 0x07
)

// Wire scalings used by the navigation messages.
const (
	velocityScale = 8.0 // eighths of a meter per second
	hdopScale     = 5.0 // fifths
)

// MeasuredNavData is message 0x02: the receiver's ECEF position/velocity
// solution.
type MeasuredNavData struct {
	X, Y, Z    int32 // ECEF position, meters
	VX, VY, VZ int16 // ECEF velocity, eighths of a meter per second
	Mode1      byte
	HDOP       byte // fifths
	Mode2      byte
	GPSWeek    uint16
	TOW        uint32 // hundredths of a second
	SVsInFix   byte
	PRNs       [12]byte
}

const measuredNavDataLen = 41

// Velocity returns the ECEF velocity components in meters per second.
func (m MeasuredNavData) Velocity() (vx, vy, vz float64) {
	return float64(m.VX) / velocityScale,
		float64(m.VY) / velocityScale,
		float64(m.VZ) / velocityScale
}

// HorizontalDOP returns the horizontal dilution of precision.
func (m MeasuredNavData) HorizontalDOP() float64 {
	return float64(m.HDOP) / hdopScale
}

// TimeOfWeek returns the GPS time of week in seconds.
func (m MeasuredNavData) TimeOfWeek() float64 {
	return julian.DecodeTOW(m.TOW)
}

// GPSTime returns the message timestamp as a GPS week/time-of-week pair.
func (m MeasuredNavData) GPSTime() julian.GPSTime {
	return julian.GPSTime{Week: int(m.GPSWeek), TOW: m.TimeOfWeek()}
}

// decodeMeasuredNavData parses a 0x02 payload (including the leading ID).
func decodeMeasuredNavData(payload []byte) (MeasuredNavData, error) {
	if len(payload) != measuredNavDataLen {
		return MeasuredNavData{}, fmt.Errorf("measured nav data: payload %d bytes, want %d", len(payload), measuredNavDataLen)
	}
	var m MeasuredNavData
	m.X = int32(binary.BigEndian.Uint32(payload[1:5]))
	m.Y = int32(binary.BigEndian.Uint32(payload[5:9]))
	m.Z = int32(binary.BigEndian.Uint32(payload[9:13]))
	m.VX = int16(binary.BigEndian.Uint16(payload[13:15]))
	m.VY = int16(binary.BigEndian.Uint16(payload[15:17]))
	m.VZ = int16(binary.BigEndian.Uint16(payload[17:19]))
	m.Mode1 = payload[19]
	m.HDOP = payload[20]
	m.Mode2 = payload[21]
	m.GPSWeek = binary.BigEndian.Uint16(payload[22:24])
	m.TOW = binary.BigEndian.Uint32(payload[24:28])
	m.SVsInFix = payload[28]
	copy(m.PRNs[:], payload[29:41])
	return m, nil
}

// EncodeMeasuredNavData builds the 0x02 payload for m.
func EncodeMeasuredNavData(m MeasuredNavData) []byte {
	payload := make([]byte, measuredNavDataLen)
	payload[0] = IDMeasuredNavData
	binary.BigEndian.PutUint32(payload[1:5], uint32(m.X))
	binary.BigEndian.PutUint32(payload[5:9], uint32(m.Y))
	binary.BigEndian.PutUint32(payload[9:13], uint32(m.Z))
	binary.BigEndian.PutUint16(payload[13:15], uint16(m.VX))
	binary.BigEndian.PutUint16(payload[15:17], uint16(m.VY))
	binary.BigEndian.PutUint16(payload[17:19], uint16(m.VZ))
	payload[19] = m.Mode1
	payload[20] = m.HDOP
	payload[21] = m.Mode2
	binary.BigEndian.PutUint16(payload[22:24], m.GPSWeek)
	binary.BigEndian.PutUint32(payload[24:28], m.TOW)
	payload[28] = m.SVsInFix
	copy(payload[29:41], m.PRNs[:])
	return payload
}

// ClockStatus is message 0x07: the receiver's clock solution.
type ClockStatus struct {
	ExtendedWeek uint16
	TOW          uint32 // hundredths of a second
	SVs          byte
	ClockDrift   uint32 // Hz
	ClockBias    uint32 // nanoseconds
	EstGPSTimeMS uint32 // milliseconds
}

const clockStatusLen = 20

// TimeOfWeek returns the GPS time of week in seconds.
func (c ClockStatus) TimeOfWeek() float64 {
	return julian.DecodeTOW(c.TOW)
}

func decodeClockStatus(payload []byte) (ClockStatus, error) {
	if len(payload) != clockStatusLen {
		return ClockStatus{}, fmt.Errorf("clock status: payload %d bytes, want %d", len(payload), clockStatusLen)
	}
	var c ClockStatus
	c.ExtendedWeek = binary.BigEndian.Uint16(payload[1:3])
	c.TOW = binary.BigEndian.Uint32(payload[3:7])
	c.SVs = payload[7]
	c.ClockDrift = binary.BigEndian.Uint32(payload[8:12])
	c.ClockBias = binary.BigEndian.Uint32(payload[12:16])
	c.EstGPSTimeMS = binary.BigEndian.Uint32(payload[16:20])
	return c, nil
}

// EncodeClockStatus builds the 0x07 payload for c.
func EncodeClockStatus(c ClockStatus) []byte {
	payload := make([]byte, clockStatusLen)
	payload[0] = IDClockStatus
	binary.BigEndian.PutUint16(payload[1:3], c.ExtendedWeek)
	binary.BigEndian.PutUint32(payload[3:7], c.TOW)
	payload[7] = c.SVs
	binary.BigEndian.PutUint32(payload[8:12], c.ClockDrift)
	binary.BigEndian.PutUint32(payload[12:16], c.ClockBias)
	binary.BigEndian.PutUint32(payload[16:20], c.EstGPSTimeMS)
	return payload
}

// RawMessage is returned for message IDs this package does not decode.
type RawMessage struct {
	ID      byte
	Payload []byte
}

// Decode parses a frame's payload into a typed message. Unknown message
// IDs return a RawMessage rather than an error, so callers can log and
// continue.
func Decode(f Frame) (any, error) {
	if len(f.Payload) == 0 {
		return nil, fmt.Errorf("empty frame")
	}
	switch f.MessageID() {
	case IDMeasuredNavData:
		return decodeMeasuredNavData(f.Payload)
	case IDClockStatus:
		return decodeClockStatus(f.Payload)
	default:
		return RawMessage{ID: f.MessageID(), Payload: f.Payload}, nil
	}
}
