// Package fixstore persists GPS fixes and satellite snapshots in sqlite.
package fixstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/meridian-nav/meridian/stats"
)

// ErrNoFix is returned when a query finds no fixes for the device.
var ErrNoFix = errors.New("no fixes recorded")

// Fix is one position solution merged from the receiver's sentences.
// Pointer fields are absent when the receiver did not report them.
type Fix struct {
	ID        int64
	Device    string
	Time      time.Time
	Latitude  *float64 // degrees, south negative
	Longitude *float64 // degrees, west negative
	Altitude  *float64 // meters above mean sea level
	SpeedMPS  *float64
	TrackDeg  *float64
	Quality   int
	NumSats   int
	HDOP      *float64
	VDOP      *float64
	PDOP      *float64
}

// Satellite is one satellite observation in a sky snapshot.
type Satellite struct {
	PRN       int
	Elevation *int // degrees
	Azimuth   *int // degrees true
	SNR       *int // dB
	InUse     bool
}

// Store wraps the sqlite database holding fixes.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies pending
// migrations. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening fix store %q: %w", path, err)
	}

	// sqlite allows one writer; the pipeline and API share this handle.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA busy_timeout = 5000;",
		"PRAGMA foreign_keys = ON;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying %q: %w", pragma, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertFix records a fix and returns its row ID.
func (s *Store) InsertFix(ctx context.Context, f Fix) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO fixes (
			device, fix_time, latitude, longitude, altitude_m,
			speed_mps, track_deg, quality, num_sats, hdop, vdop, pdop
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.Device, f.Time.UTC(), f.Latitude, f.Longitude, f.Altitude,
		f.SpeedMPS, f.TrackDeg, f.Quality, f.NumSats, f.HDOP, f.VDOP, f.PDOP,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting fix: %w", err)
	}
	return res.LastInsertId()
}

func scanFix(row interface{ Scan(...any) error }) (Fix, error) {
	var f Fix
	err := row.Scan(
		&f.ID, &f.Device, &f.Time, &f.Latitude, &f.Longitude, &f.Altitude,
		&f.SpeedMPS, &f.TrackDeg, &f.Quality, &f.NumSats, &f.HDOP, &f.VDOP, &f.PDOP,
	)
	return f, err
}

const fixColumns = `fix_id, device, fix_time, latitude, longitude, altitude_m,
	speed_mps, track_deg, quality, num_sats, hdop, vdop, pdop`

// LatestFix returns the most recent fix for a device.
func (s *Store) LatestFix(ctx context.Context, device string) (Fix, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+fixColumns+` FROM fixes
		WHERE device = ? ORDER BY fix_time DESC, fix_id DESC LIMIT 1`, device)
	f, err := scanFix(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Fix{}, ErrNoFix
	}
	if err != nil {
		return Fix{}, fmt.Errorf("querying latest fix: %w", err)
	}
	return f, nil
}

// FixesBetween returns the fixes for device in [from, to), oldest first.
func (s *Store) FixesBetween(ctx context.Context, device string, from, to time.Time) ([]Fix, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+fixColumns+` FROM fixes
		WHERE device = ? AND fix_time >= ? AND fix_time < ?
		ORDER BY fix_time ASC, fix_id ASC`, device, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("querying fixes: %w", err)
	}
	defer rows.Close()

	var out []Fix
	for rows.Next() {
		f, err := scanFix(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning fix: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// FixesSince returns the fixes recorded at or after id, oldest first.
// The daemon's export loop uses it to batch unexported fixes.
func (s *Store) FixesSince(ctx context.Context, device string, id int64) ([]Fix, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+fixColumns+` FROM fixes
		WHERE device = ? AND fix_id > ? ORDER BY fix_id ASC`, device, id)
	if err != nil {
		return nil, fmt.Errorf("querying fixes: %w", err)
	}
	defer rows.Close()

	var out []Fix
	for rows.Next() {
		f, err := scanFix(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning fix: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Devices lists the device names with at least one fix.
func (s *Store) Devices(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT device FROM fixes ORDER BY device`)
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// SpeedSummary computes summary statistics over the recorded speeds for
// device in [from, to).
func (s *Store) SpeedSummary(ctx context.Context, device string, from, to time.Time) (stats.Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT speed_mps FROM fixes
		WHERE device = ? AND fix_time >= ? AND fix_time < ? AND speed_mps IS NOT NULL
		ORDER BY fix_time ASC`, device, from.UTC(), to.UTC())
	if err != nil {
		return stats.Summary{}, fmt.Errorf("querying speeds: %w", err)
	}
	defer rows.Close()

	var acc stats.Accumulator
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return stats.Summary{}, err
		}
		acc.Push(v)
	}
	if err := rows.Err(); err != nil {
		return stats.Summary{}, err
	}
	return acc.Summary(), nil
}

// InsertSkySnapshot records a full satellite snapshot for device at t.
// The snapshot replaces nothing; readers take the newest seen_time.
func (s *Store) InsertSkySnapshot(ctx context.Context, device string, t time.Time, sats []Satellite) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning sky snapshot: %w", err)
	}
	defer tx.Rollback()

	var snapshotID int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(snapshot_id), 0) + 1 FROM satellites`).Scan(&snapshotID); err != nil {
		return fmt.Errorf("allocating snapshot id: %w", err)
	}

	for _, sat := range sats {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO satellites (snapshot_id, device, seen_time, prn, elevation, azimuth, snr, in_use)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			snapshotID, device, t.UTC(), sat.PRN, sat.Elevation, sat.Azimuth, sat.SNR, sat.InUse,
		); err != nil {
			return fmt.Errorf("inserting satellite %d: %w", sat.PRN, err)
		}
	}
	return tx.Commit()
}

// LatestSky returns the newest satellite snapshot for device, with its
// observation time. An empty sky yields no error and no satellites.
func (s *Store) LatestSky(ctx context.Context, device string) (time.Time, []Satellite, error) {
	var snapshotID sql.NullInt64
	var seen sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT snapshot_id, seen_time FROM satellites
		WHERE device = ? ORDER BY seen_time DESC, snapshot_id DESC LIMIT 1`, device).
		Scan(&snapshotID, &seen)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil, nil
	}
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("querying sky snapshot: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT prn, elevation, azimuth, snr, in_use FROM satellites
		WHERE snapshot_id = ? ORDER BY prn ASC`, snapshotID.Int64)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("querying satellites: %w", err)
	}
	defer rows.Close()

	var sats []Satellite
	for rows.Next() {
		var sat Satellite
		if err := rows.Scan(&sat.PRN, &sat.Elevation, &sat.Azimuth, &sat.SNR, &sat.InUse); err != nil {
			return time.Time{}, nil, err
		}
		sats = append(sats, sat)
	}
	return seen.Time, sats, rows.Err()
}
