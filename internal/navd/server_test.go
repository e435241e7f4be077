package navd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/meridian-nav/meridian/internal/fixstore"
	"github.com/meridian-nav/meridian/internal/serialmux"
	"github.com/meridian-nav/meridian/internal/testutil"
	"github.com/meridian-nav/meridian/internal/timeutil"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func newTestServer(t *testing.T) (*Server, *fixstore.Store) {
	t.Helper()
	store, err := fixstore.Open(filepath.Join(t.TempDir(), "navd.db"))
	if err != nil {
		t.Fatalf("Open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	clock := timeutil.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	return NewServer(store, serialmux.NewDisabledMux(), clock, NewWatchState()), store
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := testutil.NewTestRecorder()
	srv.ServeMux().ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/healthz"))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestPollEmpty(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := testutil.NewTestRecorder()
	srv.ServeMux().ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/api/poll"))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	var resp PollResponse
	testutil.AssertNoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	if resp.Class != "POLL" || resp.Active != 0 {
		t.Errorf("resp = %+v", resp)
	}
	if resp.TPV == nil || resp.SKY == nil {
		t.Error("tpv/sky must encode as [], not null")
	}
}

func TestPollWithFixAndSky(t *testing.T) {
	srv, store := newTestServer(t)
	ctx := context.Background()
	fixTime := time.Date(2024, 6, 1, 11, 59, 0, 0, time.UTC)

	_, err := store.InsertFix(ctx, fixstore.Fix{
		Device: "gps0", Time: fixTime,
		Latitude: fptr(48.1173), Longitude: fptr(11.5166), Altitude: fptr(545.4),
		SpeedMPS: fptr(4.2), TrackDeg: fptr(84.4),
		Quality: 1, NumSats: 8, HDOP: fptr(0.9), VDOP: fptr(2.1), PDOP: fptr(2.5),
	})
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, store.InsertSkySnapshot(ctx, "gps0", fixTime, []fixstore.Satellite{
		{PRN: 4, Elevation: iptr(40), Azimuth: iptr(83), SNR: iptr(46), InUse: true},
		{PRN: 19, Elevation: iptr(13), Azimuth: iptr(95), InUse: false},
	}))

	rec := testutil.NewTestRecorder()
	srv.ServeMux().ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/api/poll"))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	var resp PollResponse
	testutil.AssertNoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	if resp.Active != 1 {
		t.Errorf("Active = %d, want 1", resp.Active)
	}
	if len(resp.TPV) != 1 {
		t.Fatalf("got %d TPV reports, want 1", len(resp.TPV))
	}
	tpv := resp.TPV[0]
	if tpv.Class != "TPV" || tpv.Device != "gps0" || tpv.Mode != Mode3D {
		t.Errorf("tpv = %+v", tpv)
	}
	if tpv.Lat == nil || *tpv.Lat != 48.1173 || tpv.Speed == nil || *tpv.Speed != 4.2 {
		t.Errorf("tpv position = %+v", tpv)
	}
	if !strings.HasPrefix(tpv.Time, "2024-06-01T11:59:00") {
		t.Errorf("tpv time = %q", tpv.Time)
	}

	if len(resp.SKY) != 1 {
		t.Fatalf("got %d SKY reports, want 1", len(resp.SKY))
	}
	sky := resp.SKY[0]
	if sky.Class != "SKY" || len(sky.Satellites) != 2 {
		t.Errorf("sky = %+v", sky)
	}
	if sky.HDOP == nil || *sky.HDOP != 0.9 {
		t.Errorf("sky hdop = %v", sky.HDOP)
	}
	if !sky.Satellites[0].Used || sky.Satellites[1].Used {
		t.Errorf("satellite used flags = %+v", sky.Satellites)
	}
}

func TestTPVModes(t *testing.T) {
	tests := []struct {
		name string
		fix  fixstore.Fix
		want int
	}{
		{"no fix", fixstore.Fix{Quality: 0}, ModeNoFix},
		{"fix without position", fixstore.Fix{Quality: 1}, ModeNoFix},
		{"2d", fixstore.Fix{Quality: 1, Latitude: fptr(1), Longitude: fptr(2)}, Mode2D},
		{"3d", fixstore.Fix{Quality: 1, Latitude: fptr(1), Longitude: fptr(2), Altitude: fptr(3)}, Mode3D},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tpvFromFix(tt.fix).Mode; got != tt.want {
				t.Errorf("mode = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDevicesEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	rec := testutil.NewTestRecorder()
	srv.ServeMux().ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/api/devices"))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"devices":[]`) {
		t.Errorf("body = %s", rec.Body.String())
	}

	_, err := store.InsertFix(context.Background(), fixstore.Fix{Device: "gps0", Time: time.Now().UTC()})
	testutil.AssertNoError(t, err)

	rec = testutil.NewTestRecorder()
	srv.ServeMux().ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/api/devices"))
	if !strings.Contains(rec.Body.String(), `"gps0"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestWatchEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	mux := srv.ServeMux()

	rec := testutil.NewTestRecorder()
	mux.ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/api/watch"))
	var settings WatchSettings
	testutil.AssertNoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	if !settings.Enable || !settings.JSON || settings.Raw != 0 {
		t.Errorf("default watch = %+v", settings)
	}

	body := strings.NewReader(`{"raw":1,"nmea":true}`)
	req := httptest.NewRequest(http.MethodPost, "/api/watch", body)
	rec = testutil.NewTestRecorder()
	mux.ServeHTTP(rec, req)
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	testutil.AssertNoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	if settings.Raw != 1 || !settings.NMEA || !settings.Enable {
		t.Errorf("merged watch = %+v", settings)
	}

	// Bad JSON is rejected.
	req = httptest.NewRequest(http.MethodPost, "/api/watch", strings.NewReader("{"))
	rec = testutil.NewTestRecorder()
	mux.ServeHTTP(rec, req)
	testutil.AssertStatusCode(t, rec.Code, http.StatusBadRequest)
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)
	mux := srv.ServeMux()
	for _, path := range []string{"/api/poll", "/api/devices"} {
		rec := testutil.NewTestRecorder()
		mux.ServeHTTP(rec, testutil.NewTestRequest(http.MethodPost, path))
		testutil.AssertStatusCode(t, rec.Code, http.StatusMethodNotAllowed)
	}
	rec := testutil.NewTestRecorder()
	mux.ServeHTTP(rec, testutil.NewTestRequest(http.MethodDelete, "/api/watch"))
	testutil.AssertStatusCode(t, rec.Code, http.StatusMethodNotAllowed)
}
