package navd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/meridian-nav/meridian/carto"
	"github.com/meridian-nav/meridian/internal/fixstore"
	"github.com/meridian-nav/meridian/internal/monitoring"
	"github.com/meridian-nav/meridian/internal/serialmux"
	"github.com/meridian-nav/meridian/internal/timeutil"
	"github.com/meridian-nav/meridian/nmea0183"
	"github.com/meridian-nav/meridian/sirf"
)

// currentLeapSeconds is the GPS-UTC offset, unchanged since 2017.
const currentLeapSeconds = 18

// Pipeline consumes the serial mux, parses receiver output, and records
// fixes and sky snapshots in the store.
type Pipeline struct {
	store    *fixstore.Store
	mux      serialmux.Muxer
	clock    timeutil.Clock
	device   string
	protocol string
	watch    *WatchState

	mu       sync.Mutex
	lastGGA  *nmea0183.GGA
	lastGSA  *nmea0183.GSA
	gsvSats  []fixstore.Satellite
	usedPRNs map[int]bool
}

// NewPipeline wires a pipeline for one receiver.
func NewPipeline(store *fixstore.Store, mux serialmux.Muxer, clock timeutil.Clock, device, protocol string, watch *WatchState) *Pipeline {
	return &Pipeline{
		store:    store,
		mux:      mux,
		clock:    clock,
		device:   device,
		protocol: protocol,
		watch:    watch,
		usedPRNs: make(map[int]bool),
	}
}

// Run subscribes to the mux and processes receiver output until the
// context is cancelled or the stream ends.
func (p *Pipeline) Run(ctx context.Context) error {
	r := serialmux.Reader(ctx, p.mux)
	defer r.Close()

	br := bufio.NewReader(r)
	protocol := p.protocol
	if protocol == ProtocolAuto {
		detected, err := detectProtocol(br)
		if err != nil {
			return err
		}
		protocol = detected
		monitoring.Logf("navd: detected %s protocol on %s", protocol, p.device)
	}

	switch protocol {
	case ProtocolNMEA:
		return p.runNMEA(ctx, br)
	case ProtocolSiRF:
		return p.runSiRF(ctx, br)
	default:
		return fmt.Errorf("unknown protocol %q", protocol)
	}
}

// detectProtocol peeks at the stream until it sees an NMEA '$' or a SiRF
// 0xA0 start byte, discarding line noise in between.
func detectProtocol(br *bufio.Reader) (string, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return "", fmt.Errorf("detecting protocol: %w", err)
		}
		switch b {
		case '$':
			if err := br.UnreadByte(); err != nil {
				return "", err
			}
			return ProtocolNMEA, nil
		case 0xA0:
			if err := br.UnreadByte(); err != nil {
				return "", err
			}
			return ProtocolSiRF, nil
		}
	}
}

func (p *Pipeline) runNMEA(ctx context.Context, r io.Reader) error {
	sc := nmea0183.NewScanner(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s, err := sc.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading NMEA stream: %w", err)
		}
		if p.watch.RawEnabled() {
			monitoring.Logf("raw %s: %s", p.device, s.Raw)
		}
		if err := p.handleSentence(ctx, s); err != nil {
			monitoring.Logf("navd: dropping %s%s sentence: %v", s.Talker, s.Type, err)
		}
	}
}

func (p *Pipeline) handleSentence(ctx context.Context, s nmea0183.Sentence) error {
	switch s.Type {
	case "GGA":
		g, err := nmea0183.ParseGGA(s)
		if err != nil {
			return err
		}
		p.mu.Lock()
		p.lastGGA = &g
		p.mu.Unlock()
		return nil

	case "RMC":
		r, err := nmea0183.ParseRMC(s)
		if err != nil {
			return err
		}
		return p.recordRMCFix(ctx, r)

	case "GSA":
		g, err := nmea0183.ParseGSA(s)
		if err != nil {
			return err
		}
		p.mu.Lock()
		p.lastGSA = &g
		p.usedPRNs = make(map[int]bool, len(g.PRNs))
		for _, prn := range g.PRNs {
			p.usedPRNs[prn] = true
		}
		p.mu.Unlock()
		return nil

	case "GSV":
		g, err := nmea0183.ParseGSV(s)
		if err != nil {
			return err
		}
		return p.recordGSV(ctx, g)

	default:
		// Other sentence types are uninteresting but not errors.
		return nil
	}
}

// recordRMCFix merges the RMC with cached GGA/GSA data and stores a fix.
// RMC is the cycle anchor: it is the only sentence carrying a date.
func (p *Pipeline) recordRMCFix(ctx context.Context, r nmea0183.RMC) error {
	ts := r.Timestamp()
	if ts.IsZero() {
		ts = p.clock.Now().UTC()
	}

	f := fixstore.Fix{
		Device: p.device,
		Time:   ts,
	}
	if r.Valid {
		f.Quality = 1
		speed := r.SpeedMPS
		f.SpeedMPS = &speed
	}
	if r.HasLatLon {
		lat := r.Lat.Degrees()
		lon := r.Lon.Degrees()
		f.Latitude = &lat
		f.Longitude = &lon
	}
	if r.HasCourse {
		track := r.CourseDeg
		f.TrackDeg = &track
	}

	p.mu.Lock()
	if g := p.lastGGA; g != nil {
		f.Quality = int(g.Quality)
		f.NumSats = g.NumSats
		f.HDOP = g.HDOP
		if g.HasFix {
			alt := g.Altitude
			f.Altitude = &alt
		}
	}
	if g := p.lastGSA; g != nil {
		f.PDOP = g.DOPs.Position
		f.VDOP = g.DOPs.Vertical
		if f.HDOP == nil {
			f.HDOP = g.DOPs.Horizontal
		}
	}
	p.mu.Unlock()

	_, err := p.store.InsertFix(ctx, f)
	return err
}

// recordGSV accumulates the multi-sentence constellation report and
// stores a sky snapshot when the final sentence of the group arrives.
func (p *Pipeline) recordGSV(ctx context.Context, g nmea0183.GSV) error {
	p.mu.Lock()
	if g.MsgNum == 1 {
		p.gsvSats = p.gsvSats[:0]
	}
	for _, sat := range g.Sats {
		el, az := sat.ElevationDeg, sat.AzimuthDeg
		rec := fixstore.Satellite{
			PRN:       sat.PRN,
			Elevation: &el,
			Azimuth:   &az,
			InUse:     p.usedPRNs[sat.PRN],
		}
		if sat.HasSNR {
			snr := sat.SNR
			rec.SNR = &snr
		}
		p.gsvSats = append(p.gsvSats, rec)
	}
	var snapshot []fixstore.Satellite
	if g.MsgNum == g.TotalMsgs && len(p.gsvSats) > 0 {
		snapshot = make([]fixstore.Satellite, len(p.gsvSats))
		copy(snapshot, p.gsvSats)
	}
	p.mu.Unlock()

	if snapshot == nil {
		return nil
	}
	return p.store.InsertSkySnapshot(ctx, p.device, p.clock.Now().UTC(), snapshot)
}

func (p *Pipeline) runSiRF(ctx context.Context, r io.Reader) error {
	sc := sirf.NewScanner(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		frame, err := sc.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading SiRF stream: %w", err)
		}
		if p.watch.RawEnabled() {
			monitoring.Logf("raw %s: sirf message 0x%02X (%d bytes)", p.device, frame.MessageID(), len(frame.Payload))
		}

		msg, err := sirf.Decode(frame)
		if err != nil {
			monitoring.Logf("navd: dropping sirf message 0x%02X: %v", frame.MessageID(), err)
			continue
		}
		switch m := msg.(type) {
		case sirf.MeasuredNavData:
			if err := p.recordSiRFFix(ctx, m); err != nil {
				monitoring.Logf("navd: storing sirf fix: %v", err)
			}
		case sirf.ClockStatus:
			monitoring.Logf("navd: %s clock: week %d tow %.2f svs %d drift %dHz",
				p.device, m.ExtendedWeek, m.TimeOfWeek(), m.SVs, m.ClockDrift)
		default:
			// Unknown messages pass through undecoded.
		}
	}
}

// recordSiRFFix converts a measured navigation solution to a fix.
func (p *Pipeline) recordSiRFFix(ctx context.Context, m sirf.MeasuredNavData) error {
	f := fixstore.Fix{
		Device:  p.device,
		Time:    m.GPSTime().Time(currentLeapSeconds),
		NumSats: int(m.SVsInFix),
	}

	if m.Mode1&0x07 != 0 {
		f.Quality = 1

		ecef := carto.ECEF{X: float64(m.X), Y: float64(m.Y), Z: float64(m.Z)}
		ll, alt := ecef.ToLatLon(carto.WGS84)
		lat := ll.Latitude.Degrees()
		lon := ll.Longitude.Degrees()
		f.Latitude = &lat
		f.Longitude = &lon
		f.Altitude = &alt

		vx, vy, vz := m.Velocity()
		speed := math.Sqrt(vx*vx + vy*vy + vz*vz)
		f.SpeedMPS = &speed
	}

	if m.HDOP != 0 {
		hdop := m.HorizontalDOP()
		f.HDOP = &hdop
	}

	_, err := p.store.InsertFix(ctx, f)
	return err
}
