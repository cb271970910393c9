package export

import "time"

// Option applies a configuration option to the Exporter.
type Option func(*Exporter)

// WithClock overrides the timestamp source used in export filenames.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) {
		if now != nil {
			e.now = now
		}
	}
}

// WithMetricsRecording enables or disables export metrics recording.
func WithMetricsRecording(enabled bool) Option {
	return func(e *Exporter) {
		e.recordMetrics = enabled
	}
}
