// Package metrics records conversion metrics in a Prometheus registry.
//
// A converter run is a short-lived batch job, so metrics are exported with
// WriteTextfile for node_exporter's textfile collector instead of being
// served over HTTP. All Recorder methods are no-ops on a nil Recorder.
package metrics

import (
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultLabel = "result"
	stageLabel  = "stage"
)

// Face results.
const (
	FaceProjected = "projected"
	FaceSkipped   = "skipped" // Normal not axis aligned
	FaceDropped   = "dropped" // Not a quad
)

// Voxel stages.
const (
	StageShell    = "shell"
	StageFill     = "fill"
	StageColored  = "colored"
	StageFallback = "fallback"
	StageOutput   = "output"
)

// Recorder holds the metrics of one process.
type Recorder struct {
	reg *prometheus.Registry

	faces         *prometheus.CounterVec
	voxels        *prometheus.CounterVec
	fillTruncated prometheus.Gauge
	outputFiles   prometheus.Counter
	duration      prometheus.Histogram
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		reg: reg,
		faces: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "obj2nbt_faces_total",
			Help: "The number of mesh faces by projection result.",
		}, []string{resultLabel}),
		voxels: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "obj2nbt_voxels_total",
			Help: "The number of voxels produced per pipeline stage.",
		}, []string{stageLabel}),
		fillTruncated: factory.NewGauge(prometheus.GaugeOpts{
			Name: "obj2nbt_fill_truncated",
			Help: "1 if the last interior fill hit its visit limit.",
		}),
		outputFiles: factory.NewCounter(prometheus.CounterOpts{
			Name: "obj2nbt_output_files_total",
			Help: "The number of structure files written.",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "obj2nbt_conversion_seconds",
			Help:    "Wall time of a conversion.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
	}
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

// CountFaces adds n faces with the given result.
func (r *Recorder) CountFaces(result string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.faces.
		With(prometheus.Labels{resultLabel: result}).
		Add(float64(n))
}

// CountVoxels adds n voxels produced by a stage.
func (r *Recorder) CountVoxels(stage string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.voxels.
		With(prometheus.Labels{stageLabel: stage}).
		Add(float64(n))
}

// SetFillTruncated records whether the fill stopped at its limit.
func (r *Recorder) SetFillTruncated(truncated bool) {
	if r == nil {
		return
	}
	if truncated {
		r.fillTruncated.Set(1)
	} else {
		r.fillTruncated.Set(0)
	}
}

// CountOutputFiles adds n written structure files.
func (r *Recorder) CountOutputFiles(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.outputFiles.Add(float64(n))
}

// ObserveDuration records the wall time of one conversion.
func (r *Recorder) ObserveDuration(d time.Duration) {
	if r == nil {
		return
	}
	r.duration.Observe(d.Seconds())
}

// WriteTextfile writes all metrics in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return prometheus.WriteToTextfile(path, r.reg)
}
