package influx

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointEncode(t *testing.T) {
	ts := time.Unix(0, 1556813561098000000)
	tests := []struct {
		name  string
		point Point
		want  string
	}{
		{
			name: "full",
			point: Point{
				Measurement: "fixes",
				Tags:        map[string]string{"device": "ttyUSB0", "protocol": "nmea"},
				Fields:      map[string]any{"speed_mps": 4.25, "sats": 8},
				Time:        ts,
			},
			want: `fixes,device=ttyUSB0,protocol=nmea sats=8i,speed_mps=4.25 1556813561098000000`,
		},
		{
			name: "no timestamp",
			point: Point{
				Measurement: "fixes",
				Fields:      map[string]any{"active": true},
			},
			want: `fixes active=true`,
		},
		{
			name: "escaping",
			point: Point{
				Measurement: "my measure,ment",
				Tags:        map[string]string{"tag one": "a=b"},
				Fields:      map[string]any{"note": `say "hi"`},
			},
			want: `my\ measure\,ment,tag\ one=a\=b note="say \"hi\""`,
		},
		{
			name: "integer and float kept distinct",
			point: Point{
				Measurement: "m",
				Fields:      map[string]any{"f": 2.0, "i": int64(2)},
			},
			want: `m f=2,i=2i`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.point.Encode()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPointEncodeErrors(t *testing.T) {
	if _, err := (Point{Fields: map[string]any{"f": 1.0}}).Encode(); err == nil {
		t.Error("Encode accepted a point without a measurement")
	}
	if _, err := (Point{Measurement: "m"}).Encode(); err == nil {
		t.Error("Encode accepted a point without fields")
	}
	if _, err := (Point{Measurement: "m", Fields: map[string]any{"f": struct{}{}}}).Encode(); err == nil {
		t.Error("Encode accepted an unsupported field type")
	}
}

func TestWrite(t *testing.T) {
	var gotBody, gotDB string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/write", r.URL.Path)
		gotDB = r.URL.Query().Get("db")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, err := OpenURL(srv.URL)
	require.NoError(t, err)

	ts := time.Unix(100, 0)
	err = c.Write(context.Background(), "navdata",
		Point{Measurement: "fixes", Fields: map[string]any{"speed_mps": 1.5}, Time: ts},
		Point{Measurement: "fixes", Fields: map[string]any{"speed_mps": 2.5}, Time: ts.Add(time.Second)},
	)
	require.NoError(t, err)
	assert.Equal(t, "navdata", gotDB)
	assert.Equal(t, "fixes speed_mps=1.5 100000000000\nfixes speed_mps=2.5 101000000000\n", gotBody)
}

func TestWriteNoPoints(t *testing.T) {
	c, err := OpenURL("http://localhost:1") // never dialed
	require.NoError(t, err)
	assert.NoError(t, c.Write(context.Background(), "navdata"))
}

func TestWriteErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"field type conflict"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c, err := OpenURL(srv.URL)
	require.NoError(t, err)
	err = c.Write(context.Background(), "navdata", Point{Measurement: "m", Fields: map[string]any{"f": 1.0}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field type conflict")
}
