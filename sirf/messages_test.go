package sirf

import (
	"bytes"
	"math"
	"testing"
)

func TestDecodeMeasuredNavData(t *testing.T) {
	in := MeasuredNavData{
		X: -2694229, Y: -4297810, Z: 3854707,
		VX: 8, VY: -16, VZ: 4,
		Mode1:    0x04,
		HDOP:     9, // 1.8
		Mode2:    0x00,
		GPSWeek:  2200,
		TOW:      34923456, // 349234.56 s
		SVsInFix: 7,
		PRNs:     [12]byte{4, 5, 9, 12, 24, 25, 29},
	}

	frame, err := Encode(EncodeMeasuredNavData(in))
	if err != nil {
		t.Fatal(err)
	}
	sc := NewScanner(bytes.NewReader(frame))
	f, err := sc.Next()
	if err != nil {
		t.Fatal(err)
	}

	msg, err := Decode(f)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	got, ok := msg.(MeasuredNavData)
	if !ok {
		t.Fatalf("Decode returned %T, want MeasuredNavData", msg)
	}
	if got != in {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, in)
	}

	vx, vy, vz := got.Velocity()
	if vx != 1.0 || vy != -2.0 || vz != 0.5 {
		t.Errorf("Velocity = %v, %v, %v, want 1 -2 0.5", vx, vy, vz)
	}
	if got.HorizontalDOP() != 1.8 {
		t.Errorf("HorizontalDOP = %v, want 1.8", got.HorizontalDOP())
	}
	if math.Abs(got.TimeOfWeek()-349234.56) > 1e-9 {
		t.Errorf("TimeOfWeek = %v, want 349234.56", got.TimeOfWeek())
	}
	gt := got.GPSTime()
	if gt.Week != 2200 {
		t.Errorf("GPSTime.Week = %d, want 2200", gt.Week)
	}
}

// TestMeasuredNavDataWireLayout pins the exact receiver byte layout:
// ID, 3×int32 position, 3×int16 velocity, three mode/DOP bytes, week,
// TOW, SV count, 12 PRNs — 41 bytes with no padding.
func TestMeasuredNavDataWireLayout(t *testing.T) {
	payload := make([]byte, measuredNavDataLen)
	payload[0] = IDMeasuredNavData
	// X = 256, Y = -1, Z = 2
	copy(payload[1:13], []byte{
		0x00, 0x00, 0x01, 0x00,
		0xFF, 0xFF, 0xFF, 0xFF,
		0x00, 0x00, 0x00, 0x02,
	})
	// vX = 8 (1 m/s), vY = -8, vZ = 260: each two bytes, big-endian.
	copy(payload[13:19], []byte{0x00, 0x08, 0xFF, 0xF8, 0x01, 0x04})
	payload[19] = 0x04 // Mode1
	payload[20] = 0x06 // HDOP 1.2
	payload[21] = 0x01 // Mode2
	payload[22], payload[23] = 0x08, 0x98 // week 2200
	copy(payload[24:28], []byte{0x02, 0x14, 0xE3, 0xC0}) // TOW 34923456
	payload[28] = 0x02
	payload[29], payload[30] = 19, 23

	msg, err := Decode(Frame{Payload: payload})
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	got, ok := msg.(MeasuredNavData)
	if !ok {
		t.Fatalf("Decode returned %T, want MeasuredNavData", msg)
	}

	want := MeasuredNavData{
		X: 256, Y: -1, Z: 2,
		VX: 8, VY: -8, VZ: 260,
		Mode1:    0x04,
		HDOP:     6,
		Mode2:    0x01,
		GPSWeek:  2200,
		TOW:      34923456,
		SVsInFix: 2,
		PRNs:     [12]byte{19, 23},
	}
	if got != want {
		t.Errorf("decode mismatch:\n got %+v\nwant %+v", got, want)
	}
	if !bytes.Equal(EncodeMeasuredNavData(want), payload) {
		t.Errorf("Encode does not reproduce the wire payload:\n got % X\nwant % X",
			EncodeMeasuredNavData(want), payload)
	}
}

func TestDecodeMeasuredNavDataWrongLength(t *testing.T) {
	payload := EncodeMeasuredNavData(MeasuredNavData{})[:30]
	if _, err := Decode(Frame{Payload: payload}); err == nil {
		t.Error("Decode accepted a truncated 0x02 payload")
	}
}

func TestDecodeClockStatus(t *testing.T) {
	in := ClockStatus{
		ExtendedWeek: 2200,
		TOW:          34923456,
		SVs:          8,
		ClockDrift:   96250,
		ClockBias:    135000,
		EstGPSTimeMS: 349234560,
	}
	msg, err := Decode(Frame{Payload: EncodeClockStatus(in)})
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	got, ok := msg.(ClockStatus)
	if !ok {
		t.Fatalf("Decode returned %T, want ClockStatus", msg)
	}
	if got != in {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, in)
	}
	if math.Abs(got.TimeOfWeek()-349234.56) > 1e-9 {
		t.Errorf("TimeOfWeek = %v, want 349234.56", got.TimeOfWeek())
	}
}

func TestDecodeUnknownMessage(t *testing.T) {
	payload := []byte{0x1C, 0x01, 0x02, 0x03}
	msg, err := Decode(Frame{Payload: payload})
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	raw, ok := msg.(RawMessage)
	if !ok {
		t.Fatalf("Decode returned %T, want RawMessage", msg)
	}
	if raw.ID != 0x1C || !bytes.Equal(raw.Payload, payload) {
		t.Errorf("RawMessage = %+v", raw)
	}
}

func TestDecodeEmptyFrame(t *testing.T) {
	if _, err := Decode(Frame{}); err == nil {
		t.Error("Decode accepted an empty frame")
	}
}
