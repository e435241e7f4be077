// Package stats computes summary statistics over sample sets, used for
// speed and altitude reporting over stored fixes.
package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary holds the descriptive statistics of one sample set.
type Summary struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	Median float64
	P85    float64 // 85th percentile, the usual traffic-speed metric
}

// Summarize computes a Summary over samples. An empty input yields a
// zero Summary with NaN min/max so it cannot be mistaken for real data.
func Summarize(samples []float64) Summary {
	if len(samples) == 0 {
		return Summary{Min: math.NaN(), Max: math.NaN()}
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	s := Summary{
		Count:  len(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   stat.Mean(sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P85:    stat.Quantile(0.85, stat.Empirical, sorted, nil),
	}
	if len(sorted) > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}
	return s
}

// String renders the summary in one line for logs.
func (s Summary) String() string {
	if s.Count == 0 {
		return "no samples"
	}
	return fmt.Sprintf("n=%d min=%.2f max=%.2f mean=%.2f stddev=%.2f median=%.2f p85=%.2f",
		s.Count, s.Min, s.Max, s.Mean, s.StdDev, s.Median, s.P85)
}

// Accumulator collects samples incrementally. It keeps the samples so
// quantiles stay exact; callers with unbounded streams should window
// their input.
type Accumulator struct {
	samples []float64
}

// Push adds one sample.
func (a *Accumulator) Push(v float64) {
	a.samples = append(a.samples, v)
}

// Len reports how many samples have been pushed.
func (a *Accumulator) Len() int {
	return len(a.samples)
}

// Summary computes the statistics over everything pushed so far.
func (a *Accumulator) Summary() Summary {
	return Summarize(a.samples)
}

// Reset discards all samples.
func (a *Accumulator) Reset() {
	a.samples = a.samples[:0]
}
