package numfmt

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metadataStartedAt = "started_at"

// Outcome label values recorded by MetricsHook.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// MetricsHook records Prometheus metrics for every format call that reaches
// the formatter.
//
// Metrics:
//   - numfmt_format_total{style,outcome}
//   - numfmt_format_duration_seconds{style}
//   - numfmt_unknown_format_total
type MetricsHook struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	unknown  prometheus.Counter
}

var _ FormatHook = &MetricsHook{}

// NewMetricsHook creates the collectors and registers them with reg. A nil
// reg leaves them unregistered, which is useful in tests.
func NewMetricsHook(reg prometheus.Registerer) (*MetricsHook, error) {
	h := &MetricsHook{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "numfmt_format_total",
				Help: "Total number of format calls by style and outcome",
			},
			[]string{"style", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "numfmt_format_duration_seconds",
				Help:    "Time spent in the number formatter",
				Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
			},
			[]string{"style"},
		),
		unknown: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "numfmt_unknown_format_total",
			Help: "Format calls that named a preset missing from the registry",
		}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{h.calls, h.duration, h.unknown} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return h, nil
}

// Collectors exposes the hook's collectors for custom registration.
func (h *MetricsHook) Collectors() []prometheus.Collector {
	if h == nil {
		return nil
	}
	return []prometheus.Collector{h.calls, h.duration, h.unknown}
}

func (h *MetricsHook) BeforeFormat(ctx *FormatHookContext) {
	if h == nil || ctx == nil {
		return
	}
	ctx.SetMetadata(metadataStartedAt, time.Now())
	if ctx.Format != "" && !ctx.PresetFound() {
		h.unknown.Inc()
	}
}

func (h *MetricsHook) AfterFormat(ctx *FormatHookContext) {
	if h == nil || ctx == nil {
		return
	}
	style := string(ctx.Style())
	outcome := OutcomeOK
	if ctx.Error != nil {
		outcome = OutcomeError
	}
	h.calls.WithLabelValues(style, outcome).Inc()

	value, _ := ctx.MetadataValue(metadataStartedAt)
	if started, ok := value.(time.Time); ok {
		h.duration.WithLabelValues(style).Observe(time.Since(started).Seconds())
	}
}
