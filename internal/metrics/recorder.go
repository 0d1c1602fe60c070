package metrics

import "time"

// Outcome labels shared by all counters.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeCanceled = "canceled"
)

// Recorder defines observability hooks for the servers.
type Recorder interface {
	ObserveRender(d time.Duration, outcome string, references int)
	IncQuery(outcome string)
	IncToolCall(tool, outcome string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRender(time.Duration, string, int) {}
func (NoopRecorder) IncQuery(string)                          {}
func (NoopRecorder) IncToolCall(string, string)               {}

var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)
