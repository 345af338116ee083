// ABOUTME: Prometheus instrumentation for one playlist generation run
// ABOUTME: Metrics live on a private registry and are written in textfile-collector format

// Package metrics records what a generation run discovered, selected and
// copied. All metrics are prefixed with "playlist_maker_".
//
// The tool is not a server, so nothing is scraped. Instead the registry is
// written to a file (--metrics-file) that a node_exporter textfile collector
// can pick up.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"playlist-maker/export"
)

// Recorder holds the metrics for a single run
type Recorder struct {
	registry *prometheus.Registry

	// Discovery metrics
	DiscoveredFiles *prometheus.GaugeVec
	MissingFolders  prometheus.Counter
	SkippedDirs     prometheus.Counter

	// Selection metrics
	SelectedFiles  *prometheus.GaugeVec
	RequestedCount prometheus.Gauge

	// Export metrics
	CopiedFiles prometheus.Counter
	CopiedBytes prometheus.Counter

	// Run metrics
	RunDuration          prometheus.Gauge
	LastSuccessTimestamp prometheus.Gauge
}

// NewRecorder creates a Recorder with its own registry
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,

		DiscoveredFiles: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "playlist_maker_discovered_files",
				Help: "Audio files discovered per genre",
			},
			[]string{"genre"},
		),
		MissingFolders: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "playlist_maker_missing_folders_total",
				Help: "Selected genre folders that did not exist",
			},
		),
		SkippedDirs: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "playlist_maker_skipped_directories_total",
				Help: "Directories skipped during discovery because they could not be read",
			},
		),

		SelectedFiles: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "playlist_maker_selected_files",
				Help: "Files selected for the playlist per genre",
			},
			[]string{"genre"},
		),
		RequestedCount: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "playlist_maker_requested_count",
				Help: "Number of songs requested",
			},
		),

		CopiedFiles: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "playlist_maker_copied_files_total",
				Help: "Files copied into the export directory",
			},
		),
		CopiedBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "playlist_maker_copied_bytes_total",
				Help: "Bytes copied into the export directory",
			},
		),

		RunDuration: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "playlist_maker_run_duration_seconds",
				Help: "Duration of the last run in seconds",
			},
		),
		LastSuccessTimestamp: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "playlist_maker_last_success_timestamp_seconds",
				Help: "Unix timestamp of the last successful run",
			},
		),
	}
}

// Registry exposes the underlying registry, mainly for tests
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveDiscovery records one genre's discovery outcome
func (r *Recorder) ObserveDiscovery(genre string, files, skipped int, missing bool) {
	r.DiscoveredFiles.WithLabelValues(genre).Set(float64(files))
	r.SkippedDirs.Add(float64(skipped))

	if missing {
		r.MissingFolders.Inc()
	}
}

// ObserveSelection records the requested count and per-genre selection sizes
func (r *Recorder) ObserveSelection(requested int, byGenre map[string]int) {
	r.RequestedCount.Set(float64(requested))

	for genre, n := range byGenre {
		r.SelectedFiles.WithLabelValues(genre).Set(float64(n))
	}
}

// CopyStarted implements export.Observer
func (r *Recorder) CopyStarted(int, int, export.Assignment) {}

// CopyFinished implements export.Observer
func (r *Recorder) CopyFinished(_, _ int, _ export.Assignment, bytes int64) {
	r.CopiedFiles.Inc()
	r.CopiedBytes.Add(float64(bytes))
}

// Finish records the run duration and, on success, the completion time
func (r *Recorder) Finish(start time.Time, success bool) {
	r.RunDuration.Set(time.Since(start).Seconds())

	if success {
		r.LastSuccessTimestamp.SetToCurrentTime()
	}
}

// WriteTextfile writes every metric to path in the text exposition format.
// The file is written atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
