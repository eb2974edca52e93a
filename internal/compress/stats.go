package compress

import (
	"math"
	"time"
)

// Metric is a StatRecord with its computed savings.
type Metric struct {
	StatRecord

	// Saved is Original - Final. It is negative when compression grew the file.
	Saved float64
}

// Percent returns the share of the original size that was saved, or 0 when
// the original size is not positive.
func (m Metric) Percent() float64 {
	if m.Original > 0 {
		return m.Saved / m.Original * 100
	}

	return 0
}

// Report holds the per-file metrics of one engine run and their total.
type Report struct {
	// Metrics are in the order the engine emitted them.
	Metrics []Metric
	// TotalSaved is the sum of all Metric.Saved values that are numbers.
	TotalSaved float64
	// Directory is the absolute path handed to the engine.
	Directory string
	// Engine is the engine executable that produced the results.
	Engine string
	// PayloadBytes is the size of the engine's standard output.
	PayloadBytes int64
	// Elapsed is the wall time of the engine run.
	Elapsed time.Duration
}

// Options configures an engine run.
type Options struct {
	// Path is the directory to compress.
	Path string `validate:"required"`
	// Engine is the engine executable.
	Engine string `validate:"required"`
	// MaxOutput caps the engine's standard output in bytes (0=unlimited).
	MaxOutput int64 `validate:"gte=0"`
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration `validate:"gte=0"`
	// Debug indicates whether debug output is enabled.
	Debug bool
}

// Aggregate computes per-file savings and the grand total, keeping input order.
// A metric whose savings are NaN is still listed but counts as 0 in the total.
func Aggregate(records []StatRecord) *Report {
	report := &Report{
		Metrics: make([]Metric, 0, len(records)),
	}

	for _, r := range records {
		saved := r.Original - r.Final

		report.Metrics = append(report.Metrics, Metric{StatRecord: r, Saved: saved})

		if !math.IsNaN(saved) {
			report.TotalSaved += saved
		}
	}

	return report
}
