// Package metrics records load and copy activity in a private Prometheus
// registry that the command line can dump to a text file.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess   = "success"
	ResultFailure   = "failure"
	ResultCancelled = "cancelled"
	ResultEmpty     = "empty"
)

// Recorder owns the ctxcopy collectors.
type Recorder struct {
	registry *prometheus.Registry

	loadsTotal          *prometheus.CounterVec
	filesLoadedTotal    prometheus.Counter
	filesSkippedTotal   *prometheus.CounterVec
	copiesTotal         *prometheus.CounterVec
	copiedBytesTotal    prometheus.Counter
	loadDurationSeconds prometheus.Histogram
}

// NewRecorder registers every collector in a fresh registry.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Recorder{
		registry: registry,
		loadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ctxcopy_loads_total",
				Help: "Total number of directory loads by result",
			},
			[]string{"result"},
		),
		filesLoadedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ctxcopy_files_loaded_total",
				Help: "Total number of file records produced by loads",
			},
		),
		filesSkippedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ctxcopy_files_skipped_total",
				Help: "Total number of walked files left out of the record list",
			},
			[]string{"reason"},
		),
		copiesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ctxcopy_copies_total",
				Help: "Total number of copy attempts by result",
			},
			[]string{"result"},
		),
		copiedBytesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ctxcopy_copied_bytes_total",
				Help: "Total bytes written to the clipboard sink",
			},
		),
		loadDurationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ctxcopy_load_duration_seconds",
				Help:    "Time spent walking a directory",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// Registry exposes the underlying registry.
func (recorder *Recorder) Registry() *prometheus.Registry {
	return recorder.registry
}

// RecordLoad records the outcome of one load.
func (recorder *Recorder) RecordLoad(result string, files int, duration time.Duration) {
	if recorder == nil {
		return
	}
	recorder.loadsTotal.WithLabelValues(result).Inc()
	recorder.filesLoadedTotal.Add(float64(files))
	recorder.loadDurationSeconds.Observe(duration.Seconds())
}

// RecordSkipped records one skipped file.
func (recorder *Recorder) RecordSkipped(reason string) {
	if recorder == nil {
		return
	}
	recorder.filesSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordCopy records one copy attempt and the bytes written on success.
func (recorder *Recorder) RecordCopy(result string, bytes int) {
	if recorder == nil {
		return
	}
	recorder.copiesTotal.WithLabelValues(result).Inc()
	if result == ResultSuccess {
		recorder.copiedBytesTotal.Add(float64(bytes))
	}
}

// WriteToTextfile writes the registry in the Prometheus text format.
func (recorder *Recorder) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, recorder.registry)
}
