// Package repository defines the roster store interface and errors.
package repository

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithMetricsRecording enables or disables store metrics recording.
func WithMetricsRecording(enabled bool) Option {
	return func(s *MemStore) {
		s.recordMetrics = enabled
	}
}
