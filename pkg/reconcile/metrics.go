package reconcile

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the Prometheus metrics for one Reconciler.
type metrics struct {
	renderPasses   prometheus.Counter
	renderDuration prometheus.Histogram
	surfaceEdits   prometheus.Counter
	mountsTotal    prometheus.Counter
	unmountsTotal  prometheus.Counter
	keyMismatches  prometheus.Counter
}

// newMetrics registers the engine metrics on a registry.
//
// Metrics collected:
//   - weft_render_passes_total: Counter of completed render passes
//   - weft_render_duration_seconds: Histogram of render pass duration
//   - weft_surface_edits_total: Counter of range replacements issued
//   - weft_component_mounts_total: Counter of component mounts
//   - weft_component_unmounts_total: Counter of component unmounts
//   - weft_key_mismatches_total: Counter of unmount+mount fallbacks
//     taken on mismatched identity keys
func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		renderPasses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "weft",
			Name:      "render_passes_total",
			Help:      "Total number of completed render passes",
		}),
		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weft",
			Name:      "render_duration_seconds",
			Help:      "Render pass duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		surfaceEdits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "weft",
			Name:      "surface_edits_total",
			Help:      "Total number of range replacements issued against the surface",
		}),
		mountsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "weft",
			Name:      "component_mounts_total",
			Help:      "Total number of component mounts",
		}),
		unmountsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "weft",
			Name:      "component_unmounts_total",
			Help:      "Total number of component unmounts",
		}),
		keyMismatches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "weft",
			Name:      "key_mismatches_total",
			Help:      "Unmount+mount fallbacks taken on mismatched identity keys",
		}),
	}
}

func (m *metrics) recordPass(seconds float64, edits int) {
	if m == nil {
		return
	}
	m.renderPasses.Inc()
	m.renderDuration.Observe(seconds)
	m.surfaceEdits.Add(float64(edits))
}

func (m *metrics) recordMount() {
	if m != nil {
		m.mountsTotal.Inc()
	}
}

func (m *metrics) recordUnmount() {
	if m != nil {
		m.unmountsTotal.Inc()
	}
}

func (m *metrics) recordKeyMismatch() {
	if m != nil {
		m.keyMismatches.Inc()
	}
}
