// Package metrics collects per-run Prometheus metrics on a private registry
// and writes them in the node-exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mmbracket"

// Run holds the metrics of a single pipeline run.
type Run struct {
	registry *prometheus.Registry

	gamesProcessed  prometheus.Counter
	examplesEmitted prometheus.Counter
	examplesSkipped prometheus.Counter
	statsSkipped    prometheus.Counter
	cvAccuracy      prometheus.Gauge
	predictions     prometheus.Counter
	slotsResolved   prometheus.Counter
	stageDuration   *prometheus.GaugeVec
	lastRunUnix     prometheus.Gauge
}

// NewRun registers a fresh set of metrics labelled with the target season.
func NewRun(season int) *Run {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"season": fmt.Sprint(season)}
	f := promauto.With(reg)

	return &Run{
		registry: reg,
		gamesProcessed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "games_processed_total",
			Help: "Games replayed through the rating and stat state.", ConstLabels: labels,
		}),
		examplesEmitted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "examples_emitted_total",
			Help: "Training examples emitted.", ConstLabels: labels,
		}),
		examplesSkipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "examples_skipped_total",
			Help: "Games skipped because a captured stat was zero.", ConstLabels: labels,
		}),
		statsSkipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "stat_updates_skipped_total",
			Help: "Games whose box score did not update the rolling windows.", ConstLabels: labels,
		}),
		cvAccuracy: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "cv_accuracy",
			Help: "Mean k-fold cross-validation accuracy.", ConstLabels: labels,
		}),
		predictions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "pairwise_predictions_total",
			Help: "Pairwise matchup predictions produced.", ConstLabels: labels,
		}),
		slotsResolved: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "slots_resolved_total",
			Help: "Bracket slots resolved.", ConstLabels: labels,
		}),
		stageDuration: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "stage_duration_seconds",
			Help: "Wall time per pipeline stage.", ConstLabels: labels,
		}, []string{"stage"}),
		lastRunUnix: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "last_run_timestamp_seconds",
			Help: "Unix time the run finished.", ConstLabels: labels,
		}),
	}
}

// RecordDataset records the feature builder counters.
func (r *Run) RecordDataset(games, emitted, skipped, statsSkipped int) {
	r.gamesProcessed.Add(float64(games))
	r.examplesEmitted.Add(float64(emitted))
	r.examplesSkipped.Add(float64(skipped))
	r.statsSkipped.Add(float64(statsSkipped))
}

func (r *Run) SetCVAccuracy(acc float64) { r.cvAccuracy.Set(acc) }

func (r *Run) AddPredictions(n int) { r.predictions.Add(float64(n)) }

func (r *Run) AddSlots(n int) { r.slotsResolved.Add(float64(n)) }

// ObserveStage records how long a named stage took, measured from start.
func (r *Run) ObserveStage(stage string, start time.Time) {
	r.stageDuration.WithLabelValues(stage).Set(time.Since(start).Seconds())
}

// Registry exposes the underlying registry for gathering in tests.
func (r *Run) Registry() *prometheus.Registry { return r.registry }

// WriteTextfile stamps the finish time and writes all metrics to path.
func (r *Run) WriteTextfile(path string) error {
	r.lastRunUnix.SetToCurrentTime()
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
