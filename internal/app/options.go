package app

import (
	"github.com/okian/rosterscan/internal/adapters/export"
	"github.com/okian/rosterscan/internal/adapters/repository"
	"github.com/okian/rosterscan/internal/domain/observe"
	"github.com/okian/rosterscan/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the roster store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithExporter sets the report exporter.
func WithExporter(e *export.Exporter) Option {
	return func(s *Service) {
		if e != nil {
			s.exporter = e
		}
	}
}

// WithDetector sets the text line detector.
func WithDetector(d Detector) Option {
	return func(s *Service) {
		if d != nil {
			s.detector = d
		}
	}
}

// WithRecognizer sets the field line recognizer.
func WithRecognizer(r observe.Recognizer) Option {
	return func(s *Service) {
		if r != nil {
			s.recognizer = r
		}
	}
}

// WithFrameSource sets the factory building a FrameSource per category
// directory.
func WithFrameSource(factory func(dir string) FrameSource) Option {
	return func(s *Service) {
		if factory != nil {
			s.sourceFor = factory
		}
	}
}
