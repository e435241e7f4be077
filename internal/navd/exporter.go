package navd

import (
	"context"

	"github.com/meridian-nav/meridian/influx"
	"github.com/meridian-nav/meridian/internal/fixstore"
	"github.com/meridian-nav/meridian/internal/monitoring"
	"github.com/meridian-nav/meridian/internal/timeutil"
)

// Exporter periodically flushes newly stored fixes to InfluxDB as
// line-protocol points.
type Exporter struct {
	store  *fixstore.Store
	client *influx.Client
	clock  timeutil.Clock
	cfg    InfluxConfig
	device string

	lastID int64
}

// NewExporter builds an exporter for one device.
func NewExporter(store *fixstore.Store, client *influx.Client, clock timeutil.Clock, cfg InfluxConfig, device string) *Exporter {
	return &Exporter{store: store, client: client, clock: clock, cfg: cfg, device: device}
}

// Run flushes on every tick until the context is cancelled. Flush
// failures are logged and retried on the next tick; the fixes stay
// queued because lastID only advances on success.
func (e *Exporter) Run(ctx context.Context) error {
	ticker := e.clock.NewTicker(e.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Final flush so a clean shutdown loses nothing.
			if err := e.Flush(context.Background()); err != nil {
				monitoring.Logf("navd: final influx flush: %v", err)
			}
			return ctx.Err()
		case <-ticker.C():
			if err := e.Flush(ctx); err != nil {
				monitoring.Logf("navd: influx flush: %v", err)
			}
		}
	}
}

// Flush writes every fix stored since the previous successful flush.
func (e *Exporter) Flush(ctx context.Context) error {
	fixes, err := e.store.FixesSince(ctx, e.device, e.lastID)
	if err != nil {
		return err
	}
	if len(fixes) == 0 {
		return nil
	}

	points := make([]influx.Point, 0, len(fixes))
	for _, f := range fixes {
		points = append(points, fixPoint(f))
	}
	if err := e.client.Write(ctx, e.cfg.Database, points...); err != nil {
		return err
	}

	e.lastID = fixes[len(fixes)-1].ID
	monitoring.Logf("navd: exported %d fixes to influx db %q", len(points), e.cfg.Database)
	return nil
}

// fixPoint converts a fix to a line-protocol point in the "fixes"
// measurement, tagged by device.
func fixPoint(f fixstore.Fix) influx.Point {
	fields := map[string]any{
		"quality":  int64(f.Quality),
		"num_sats": int64(f.NumSats),
	}
	for name, v := range map[string]*float64{
		"lat":       f.Latitude,
		"lon":       f.Longitude,
		"alt_m":     f.Altitude,
		"speed_mps": f.SpeedMPS,
		"track_deg": f.TrackDeg,
		"hdop":      f.HDOP,
		"vdop":      f.VDOP,
		"pdop":      f.PDOP,
	} {
		if v != nil {
			fields[name] = *v
		}
	}
	return influx.Point{
		Measurement: "fixes",
		Tags:        map[string]string{"device": f.Device},
		Fields:      fields,
		Time:        f.Time,
	}
}
