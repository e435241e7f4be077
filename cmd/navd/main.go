// Command navd reads a GPS receiver over a serial port, stores fixes in
// SQLite, serves a gpsd-style HTTP poll API, and optionally exports
// fixes to InfluxDB.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/meridian-nav/meridian/influx"
	"github.com/meridian-nav/meridian/internal/fixstore"
	"github.com/meridian-nav/meridian/internal/navd"
	"github.com/meridian-nav/meridian/internal/serialmux"
	"github.com/meridian-nav/meridian/internal/timeutil"
	"github.com/meridian-nav/meridian/internal/version"
)

var (
	configPath    = flag.String("config", "", "path to YAML config file")
	listenAddr    = flag.String("listen", "", "HTTP listen address (overrides config)")
	dbPath        = flag.String("db", "", "path to SQLite fix database (overrides config)")
	deviceName    = flag.String("device", "", "logical device name for stored fixes (overrides config)")
	serialDevice  = flag.String("serial", "", "serial port device path (overrides config)")
	protocol      = flag.String("protocol", "", "receiver protocol: auto, nmea, or sirf (overrides config)")
	devMode       = flag.Bool("dev", false, "replay a canned receiver cycle instead of opening a serial port")
	devCapture    = flag.String("dev-capture", "", "capture file to replay in dev mode (defaults to a built-in NMEA cycle)")
	disableSerial = flag.Bool("disable-serial", false, "run the API server without any serial input")
	showVersion   = flag.Bool("version", false, "print version and exit")
)

// devCycle is one NMEA reporting cycle from a stationary receiver,
// replayed once per second in dev mode.
const devCycle = "$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47\r\n" +
	"$GPGSA,A,3,04,05,,09,12,,,24,,,,,2.5,1.3,2.1*39\r\n" +
	"$GPGSV,2,1,08,01,40,083,46,02,17,308,41,12,07,344,39,14,22,228,45*75\r\n" +
	"$GPGSV,2,2,08,19,13,095,,23,09,059,37,28,05,023,,31,02,148,*74\r\n" +
	"$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A\r\n"

func openMux(cfg navd.Config) (serialmux.Muxer, error) {
	switch {
	case *disableSerial:
		log.Printf("serial input disabled")
		return serialmux.NewDisabledMux(), nil
	case *devMode:
		data := []byte(devCycle)
		if *devCapture != "" {
			var err error
			data, err = os.ReadFile(*devCapture)
			if err != nil {
				return nil, err
			}
		}
		log.Printf("dev mode: replaying %d bytes per second", len(data))
		return serialmux.NewReplayMux(data, time.Second), nil
	default:
		log.Printf("opening serial port %s at %d baud", cfg.Serial.Device, cfg.Serial.BaudRate)
		return serialmux.OpenReal(cfg.Serial.Device, serialmux.PortOptions{BaudRate: cfg.Serial.BaudRate})
	}
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println("navd", version.String())
		return
	}

	cfg, err := navd.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *deviceName != "" {
		cfg.DeviceName = *deviceName
	}
	if *serialDevice != "" {
		cfg.Serial.Device = *serialDevice
	}
	if *protocol != "" {
		cfg.Serial.Protocol = *protocol
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	store, err := fixstore.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Error opening fix database: %v", err)
	}
	defer store.Close()

	mux, err := openMux(cfg)
	if err != nil {
		log.Fatalf("Error opening serial source: %v", err)
	}
	defer mux.Close()

	clock := timeutil.RealClock{}
	watch := navd.NewWatchState()
	pipeline := navd.NewPipeline(store, mux, clock, cfg.DeviceName, cfg.Serial.Protocol, watch)
	server := navd.NewServer(store, mux, clock, watch)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := mux.Monitor(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Serial monitor stopped: %v", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := pipeline.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Pipeline stopped: %v", err)
		}
	}()

	if cfg.Influx.Enabled {
		client, err := influx.OpenURL(cfg.Influx.URL)
		if err != nil {
			log.Fatalf("Error connecting to InfluxDB: %v", err)
		}
		exporter := navd.NewExporter(store, client, clock, cfg.Influx, cfg.DeviceName)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := exporter.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Influx exporter stopped: %v", err)
			}
		}()
		log.Printf("Exporting fixes to %s db=%s every %v", cfg.Influx.URL, cfg.Influx.Database, cfg.Influx.FlushInterval)
	}

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: navd.LoggingMiddleware(server.ServeMux()),
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("Listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Graceful shutdown complete")
}
