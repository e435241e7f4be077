package navd

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/meridian-nav/meridian/internal/fixstore"
	"github.com/meridian-nav/meridian/internal/monitoring"
	"github.com/meridian-nav/meridian/internal/serialmux"
	"github.com/meridian-nav/meridian/internal/timeutil"
)

// Server exposes the daemon's HTTP API.
type Server struct {
	store *fixstore.Store
	mux   serialmux.Muxer
	clock timeutil.Clock
	watch *WatchState
}

// NewServer builds the API server over the store and serial mux.
func NewServer(store *fixstore.Store, mux serialmux.Muxer, clock timeutil.Clock, watch *WatchState) *Server {
	return &Server{store: store, mux: mux, clock: clock, watch: watch}
}

// ServeMux returns the daemon's routes.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.healthHandler)
	mux.HandleFunc("/api/poll", s.pollHandler)
	mux.HandleFunc("/api/devices", s.devicesHandler)
	mux.HandleFunc("/api/watch", s.watchHandler)
	return mux
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf("[%d] %s %s %v", lrw.statusCode, r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
	})
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		monitoring.Logf("navd: writing response: %v", err)
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// pollHandler answers with the latest TPV and SKY for every known
// device, in gpsd's ?POLL shape.
func (s *Server) pollHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	ctx := r.Context()

	devices, err := s.store.Devices(ctx)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to list devices")
		return
	}

	resp := PollResponse{
		Class: "POLL",
		Time:  s.clock.Now().UTC().Format(time.RFC3339Nano),
		TPV:   []TPV{},
		SKY:   []SKY{},
	}
	for _, device := range devices {
		fix, err := s.store.LatestFix(ctx, device)
		if errors.Is(err, fixstore.ErrNoFix) {
			continue
		}
		if err != nil {
			s.writeJSONError(w, http.StatusInternalServerError, "Failed to query fixes")
			return
		}
		resp.TPV = append(resp.TPV, tpvFromFix(fix))
		if fix.Quality > 0 {
			resp.Active++
		}

		seen, sats, err := s.store.LatestSky(ctx, device)
		if err != nil {
			s.writeJSONError(w, http.StatusInternalServerError, "Failed to query satellites")
			return
		}
		if len(sats) > 0 {
			resp.SKY = append(resp.SKY, skyFromSnapshot(device, seen, sats, fix))
		}
	}
	s.writeJSON(w, resp)
}

func (s *Server) devicesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	devices, err := s.store.Devices(r.Context())
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to list devices")
		return
	}
	if devices == nil {
		devices = []string{}
	}
	s.writeJSON(w, map[string][]string{"devices": devices})
}

// watchHandler reads or updates the watch settings. POST merges the
// provided fields; GET returns the current state.
func (s *Server) watchHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeJSON(w, s.watch.Snapshot())
	case http.MethodPost:
		var args WatchArgs
		if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
			s.writeJSONError(w, http.StatusBadRequest, "Invalid watch arguments")
			return
		}
		s.writeJSON(w, s.watch.Apply(args))
	default:
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
