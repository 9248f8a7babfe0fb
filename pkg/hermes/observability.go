// Package hermes holds the logging and metrics seams of the storage
// pipeline. Components depend only on the interfaces here; the daemon wires
// the slog and prometheus adapters, tests wire the no-ops.
package hermes

import "context"

// Label is one metric dimension, such as the pipeline step that failed.
type Label struct {
	Key   string
	Value string
}

// Metrics counts storage operations and tool failures and times requests.
// Implementations register collectors on first use; names are stable
// protocol, not configuration.
type Metrics interface {
	IncCounter(name string, value float64, labels ...Label)
	ObserveHistogram(name string, value float64, labels ...Label)
	SetGauge(name string, value float64, labels ...Label)
}

// Logger emits structured records at the pipeline's decision points: which
// device was chosen, which step was skipped as already done, what a failed
// tool printed.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]any)
	Error(ctx context.Context, msg string, fields map[string]any)
}
