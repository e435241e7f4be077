package navd

import "sync"

// WatchArgs is the POST /api/watch payload. Pointer fields distinguish
// "leave alone" from an explicit false, matching gpsd's ?WATCH merge
// semantics.
type WatchArgs struct {
	Enable *bool `json:"enable,omitempty"`
	JSON   *bool `json:"json,omitempty"`
	NMEA   *bool `json:"nmea,omitempty"`
	Raw    *int  `json:"raw,omitempty"`
	Scaled *bool `json:"scaled,omitempty"`
	PPS    *bool `json:"pps,omitempty"`
}

// WatchSettings is the effective watch state.
type WatchSettings struct {
	Enable bool `json:"enable"`
	JSON   bool `json:"json"`
	NMEA   bool `json:"nmea"`
	Raw    int  `json:"raw"`
	Scaled bool `json:"scaled"`
	PPS    bool `json:"pps"`
}

// WatchState holds the watch settings shared between the API and the
// pipeline.
type WatchState struct {
	mu       sync.Mutex
	settings WatchSettings
}

// NewWatchState returns the default watch state: enabled, JSON on.
func NewWatchState() *WatchState {
	return &WatchState{settings: WatchSettings{Enable: true, JSON: true}}
}

// Apply merges args into the current settings and returns the result.
func (w *WatchState) Apply(args WatchArgs) WatchSettings {
	w.mu.Lock()
	defer w.mu.Unlock()
	if args.Enable != nil {
		w.settings.Enable = *args.Enable
	}
	if args.JSON != nil {
		w.settings.JSON = *args.JSON
	}
	if args.NMEA != nil {
		w.settings.NMEA = *args.NMEA
	}
	if args.Raw != nil {
		w.settings.Raw = *args.Raw
	}
	if args.Scaled != nil {
		w.settings.Scaled = *args.Scaled
	}
	if args.PPS != nil {
		w.settings.PPS = *args.PPS
	}
	return w.settings
}

// Snapshot returns a copy of the current settings.
func (w *WatchState) Snapshot() WatchSettings {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.settings
}

// RawEnabled reports whether raw rebroadcast is on.
func (w *WatchState) RawEnabled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.settings.Enable && w.settings.Raw > 0
}
