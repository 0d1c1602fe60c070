package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "researchpdf"

// PrometheusRecorder implements Recorder using Prometheus metrics.
// A nil *PrometheusRecorder is valid and records nothing.
type PrometheusRecorder struct {
	registry       *prom.Registry
	renderDuration prom.Histogram
	renders        *prom.CounterVec
	references     prom.Counter
	queries        *prom.CounterVec
	toolCalls      *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
// A nil reg gets a fresh registry with the Go and process collectors.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	pr := &PrometheusRecorder{
		registry: reg,
		renderDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of report renders, PDF printing included",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		renders: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Report renders by outcome",
		}, []string{"outcome"}),
		references: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "references_total",
			Help:      "Citations numbered across successful renders",
		}),
		queries: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Research agency queries by outcome",
		}, []string{"outcome"}),
		toolCalls: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "MCP tool calls by tool and outcome",
		}, []string{"tool", "outcome"}),
	}
	reg.MustRegister(pr.renderDuration, pr.renders, pr.references, pr.queries, pr.toolCalls)
	return pr
}

// ObserveRender records one render. References are counted on success only.
func (p *PrometheusRecorder) ObserveRender(d time.Duration, outcome string, references int) {
	if p == nil {
		return
	}
	p.renderDuration.Observe(d.Seconds())
	p.renders.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess && references > 0 {
		p.references.Add(float64(references))
	}
}

func (p *PrometheusRecorder) IncQuery(outcome string) {
	if p == nil {
		return
	}
	p.queries.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncToolCall(tool, outcome string) {
	if p == nil {
		return
	}
	p.toolCalls.WithLabelValues(tool, outcome).Inc()
}

// Handler serves the recorder's registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	if p == nil {
		return promhttp.HandlerFor(prom.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
