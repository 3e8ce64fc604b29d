package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"circlesgraph/app/pipeline"
)

const namespace = "circlesgraph"

// Recorder collects the counters of one run in its own registry.
type Recorder struct {
	registry *prometheus.Registry

	records  *prometheus.CounterVec
	warnings *prometheus.CounterVec
	sources  prometheus.Gauge
	series   prometheus.Gauge
	columns  prometheus.Gauge
	frames   *prometheus.GaugeVec
	stages   *prometheus.GaugeVec
}

// NewRecorder creates a Recorder with every metric registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Input lines by validation outcome.",
		}, []string{"outcome"}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warnings_total",
			Help:      "Reported warnings by kind.",
		}, []string{"kind"}),
		sources: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sources",
			Help:      "Sources that were loaded.",
		}),
		series: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "series",
			Help:      "Curves drawn after merging.",
		}),
		columns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "columns",
			Help:      "Columns emitted over all curves.",
		}),
		frames: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "frames",
			Help:      "Frame counts of the plan and of the rendering.",
		}, []string{"kind"}),
		stages: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time of each completed stage.",
		}, []string{"stage"}),
	}
	r.registry.MustRegister(r.records, r.warnings, r.sources, r.series, r.columns, r.frames, r.stages)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveWarning counts a warning. It matches the reporter's OnWarn hook.
func (r *Recorder) ObserveWarning(kind string) {
	r.warnings.WithLabelValues(kind).Inc()
}

// ObserveStage records how long a stage took.
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	r.stages.WithLabelValues(stage).Set(d.Seconds())
}

// ObserveResult records the outcome counts, sources, columns and planned frames of res.
func (r *Recorder) ObserveResult(res *pipeline.Result) {
	st := res.Stats
	r.records.WithLabelValues("accepted").Add(float64(st.Accepted))
	r.records.WithLabelValues("invalid_timestamp").Add(float64(st.InvalidTimestamp))
	r.records.WithLabelValues("invalid_value").Add(float64(st.InvalidValue))
	r.records.WithLabelValues("out_of_range").Add(float64(st.OutOfRange))
	r.records.WithLabelValues("out_of_order").Add(float64(st.OutOfOrder))

	r.sources.Set(float64(len(res.Sources)))
	r.series.Set(float64(len(res.Buckets)))
	n := 0
	for _, b := range res.Buckets {
		n += len(b.Columns)
	}
	r.columns.Set(float64(n))
	r.frames.WithLabelValues("ticks").Set(float64(res.Plan.FrameCount))
	r.frames.WithLabelValues("planned").Set(float64(res.Plan.RealFrameCount))
	for stage, d := range res.Durations {
		r.ObserveStage(stage, d)
	}
}

// ObserveRendered records how many frames were drawn.
func (r *Recorder) ObserveRendered(frames int) {
	r.frames.WithLabelValues("rendered").Set(float64(frames))
}

// WriteToTextfile writes every metric in the text exposition format.
func (r *Recorder) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
