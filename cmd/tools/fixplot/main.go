// Command fixplot renders stored GPS fixes as an HTML page of charts:
// speed and altitude over time, plus a speed summary on stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/meridian-nav/meridian/internal/fixstore"
	"github.com/meridian-nav/meridian/stats"
)

var (
	dbPath   = flag.String("db", "navd.db", "path to the fix database")
	device   = flag.String("device", "gps0", "device to plot")
	fromFlag = flag.String("from", "", "start of the time window (RFC3339, default 24h ago)")
	toFlag   = flag.String("to", "", "end of the time window (RFC3339, default now)")
	outPath  = flag.String("out", "fixplot.html", "output HTML file")
)

func parseWindow() (time.Time, time.Time, error) {
	to := time.Now().UTC()
	if *toFlag != "" {
		t, err := time.Parse(time.RFC3339, *toFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("bad -to: %w", err)
		}
		to = t
	}
	from := to.Add(-24 * time.Hour)
	if *fromFlag != "" {
		t, err := time.Parse(time.RFC3339, *fromFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("bad -from: %w", err)
		}
		from = t
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("-from %v is not before -to %v", from, to)
	}
	return from, to, nil
}

func timeSeries(fixes []fixstore.Fix, value func(fixstore.Fix) *float64) ([]string, []opts.LineData) {
	var labels []string
	var data []opts.LineData
	for _, f := range fixes {
		v := value(f)
		if v == nil {
			continue
		}
		labels = append(labels, f.Time.Format("15:04:05"))
		data = append(data, opts.LineData{Value: *v})
	}
	return labels, data
}

func newLineChart(title, yName string, labels []string, data []opts.LineData) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("device=%s points=%d", *device, len(data))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	)
	line.SetXAxis(labels).AddSeries(*device, data,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
	)
	return line
}

func main() {
	flag.Parse()

	from, to, err := parseWindow()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	store, err := fixstore.Open(*dbPath)
	if err != nil {
		log.Fatalf("Error opening fix database: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	fixes, err := store.FixesBetween(ctx, *device, from, to)
	if err != nil {
		log.Fatalf("Error loading fixes: %v", err)
	}
	if len(fixes) == 0 {
		log.Fatalf("No fixes for device %s between %v and %v", *device, from, to)
	}

	speedLabels, speedData := timeSeries(fixes, func(f fixstore.Fix) *float64 { return f.SpeedMPS })
	altLabels, altData := timeSeries(fixes, func(f fixstore.Fix) *float64 { return f.Altitude })

	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Fixes for %s", *device)
	page.AddCharts(
		newLineChart("Speed over time", "m/s", speedLabels, speedData),
		newLineChart("Altitude over time", "m", altLabels, altData),
	)

	out, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("Error creating %s: %v", *outPath, err)
	}
	defer out.Close()
	if err := page.Render(out); err != nil {
		log.Fatalf("Error rendering charts: %v", err)
	}

	speeds := make([]float64, 0, len(fixes))
	for _, f := range fixes {
		if f.SpeedMPS != nil {
			speeds = append(speeds, *f.SpeedMPS)
		}
	}
	fmt.Printf("%d fixes (%d with speed) written to %s\n", len(fixes), len(speeds), *outPath)
	if len(speeds) > 0 {
		fmt.Printf("speed: %s\n", stats.Summarize(speeds))
	}
}
