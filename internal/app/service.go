// Package app wires the capture, recognition, and reconciliation stages
// into a batch scan service producing ranked rosters.
package app

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/okian/rosterscan/internal/adapters/capture"
	"github.com/okian/rosterscan/internal/adapters/export"
	"github.com/okian/rosterscan/internal/adapters/ocr"
	"github.com/okian/rosterscan/internal/adapters/repository"
	"github.com/okian/rosterscan/internal/adapters/scan"
	"github.com/okian/rosterscan/internal/config"
	"github.com/okian/rosterscan/internal/domain/model"
	"github.com/okian/rosterscan/internal/domain/observe"
	"github.com/okian/rosterscan/internal/domain/rank"
	"github.com/okian/rosterscan/internal/domain/reconcile"
	"github.com/okian/rosterscan/internal/domain/segment"
	"github.com/okian/rosterscan/pkg/logger"
	"github.com/okian/rosterscan/pkg/metrics"
)

// Detector finds text lines in a capture region.
type Detector interface {
	Detect(ctx context.Context, img image.Image, langs []string) ([]model.RawDetection, error)
}

// FrameSource loads the frames of one category directory.
type FrameSource interface {
	Frames(ctx context.Context) ([]capture.Frame, error)
}

// CategorySummary reports one metric category's scan outcome.
type CategorySummary struct {
	Metric       model.Metric
	Frames       int
	Observations int
}

// Summary reports a whole scan run. Entities and mismatches are counted
// on the fused roster, after every category's observations reconciled.
type Summary struct {
	RunID      string
	Categories []CategorySummary
	Entities   int
	Mismatches int
	CSVPath    string
	HTMLPath   string
}

// Service runs the scan pipeline over every configured metric category.
type Service struct {
	cfg *config.Config

	store      repository.Store
	exporter   *export.Exporter
	detector   Detector
	recognizer observe.Recognizer
	sourceFor  func(dir string) FrameSource

	// engine is set when the service owns the default OCR engine and
	// must close it.
	engine *ocr.Engine

	preproc   *capture.Preprocessor
	deduper   *capture.Deduper
	regions   capture.Regions
	segmenter *segment.Segmenter
	builder   *observe.Builder
	pool      *scan.Pool

	logger logger.Logger
}

// New constructs a Service from configuration. Options replace individual
// collaborators, which tests use to run without a Tesseract install.
func New(cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		cfg:     cfg,
		regions: capture.DefaultRegions(),
		sourceFor: func(dir string) FrameSource {
			return capture.NewSource(dir)
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("app")
	}
	if s.store == nil {
		s.store = repository.NewMemStore()
	}
	if s.exporter == nil {
		s.exporter = export.New(cfg.ExportDir)
	}
	if s.detector == nil || s.recognizer == nil {
		s.engine = ocr.New()
		if s.detector == nil {
			s.detector = s.engine
		}
		if s.recognizer == nil {
			s.recognizer = s.engine
		}
	}

	s.preproc = capture.NewPreprocessor(
		capture.WithScale(cfg.PreprocessScale),
		capture.WithContrast(cfg.PreprocessContrast),
		capture.WithSharpen(cfg.PreprocessSharpen),
	)
	s.deduper = capture.NewDeduper(
		capture.WithTailRatio(cfg.DupeTailRatio),
		capture.WithDupeThreshold(cfg.DupeThreshold),
	)
	s.segmenter = segment.New(
		segment.WithConfidenceFloor(cfg.ConfidenceFloor),
		segment.WithRowTolerance(cfg.RowTolerancePx),
	)

	scale := s.preproc.Scale()
	s.builder = observe.New(s.recognizer,
		observe.WithLayout(observe.DefaultLayout().Scaled(scale)),
		observe.WithPodium(observe.ScaledPodium(observe.DefaultPodium(), scale)),
		observe.WithRowPadding(cfg.RowPadRatio, cfg.RowMinPadPx),
		observe.WithSingleCharValueFloor(cfg.SingleCharValueFloor),
		observe.WithFooterNoiseBounds(cfg.FooterRankFloor, cfg.FooterValueCeil),
	)
	s.pool = scan.NewPool(
		scan.WithWorkers(cfg.WorkerCount),
		scan.WithLogger(s.logger.Named("scan")),
	)

	return s
}

// Close releases the OCR engine when the service owns one.
func (s *Service) Close() error {
	if s.engine != nil {
		return s.engine.Close()
	}
	return nil
}

// Run scans every configured metric category, reconciles the accumulated
// observations into one fused roster ranked on the primary metric, stores
// it, and writes the export reports. The returned summary describes the
// run.
func (s *Service) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := &Summary{RunID: uuid.NewString()}
	s.logger.Info(ctx, "starting scan run",
		logger.String("runID", summary.RunID),
		logger.Int("categories", len(s.cfg.Metrics)),
	)

	primary, err := model.ParseMetric(s.cfg.PrimaryMetric)
	if err != nil {
		return nil, err
	}

	// Every category's observations feed one reconciliation pass, so an
	// entity accumulates all its metric values across category scans.
	scanned := make([]model.Metric, 0, len(s.cfg.Metrics))
	var observations []model.Observation
	for _, name := range s.cfg.Metrics {
		metric, err := model.ParseMetric(name)
		if err != nil {
			return nil, err
		}
		cat, obs, err := s.scanCategory(ctx, metric)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", metric, err)
		}
		summary.Categories = append(summary.Categories, cat)
		scanned = append(scanned, metric)
		observations = append(observations, obs...)
	}

	reconciler := reconcile.New(primary,
		reconcile.WithNameThresholds(s.cfg.NameSimStrict, s.cfg.NameSimRelaxed, s.cfg.NameSimLoose, s.cfg.NameSimLastResort),
		reconcile.WithValueTolerances(s.cfg.ValueTolerance, s.cfg.ValueNearIdentical),
		reconcile.WithImplausibleMultiple(s.cfg.ImplausibleMultiple),
		reconcile.WithTopRankExempt(s.cfg.TopRankExempt),
	)
	entities := reconciler.Reconcile(observations)
	ranked := rank.New(primary).Assign(entities)
	summary.Entities = len(ranked)

	entries := make([]repository.Entry, 0, len(ranked))
	for _, e := range ranked {
		if e.RankMismatch {
			summary.Mismatches++
			metrics.RecordRankMismatch()
			s.logger.Warn(ctx, "rank mismatch",
				logger.String("name", e.Name),
				logger.Int("readRank", e.ReadRank),
				logger.Int("assignedRank", e.AssignedRank),
			)
		}
		entries = append(entries, repository.FromEntity(e))
	}
	if err := s.store.PutRoster(ctx, primary, entries); err != nil {
		return nil, err
	}

	report := export.Report{Metrics: scanned, Entries: entries}
	if summary.CSVPath, err = s.exporter.CSV(ctx, report); err != nil {
		return nil, err
	}
	if summary.HTMLPath, err = s.exporter.HTML(ctx, report); err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	metrics.RecordRunDuration(float64(elapsed.Milliseconds()))
	s.logger.Info(ctx, "scan run finished",
		logger.String("runID", summary.RunID),
		logger.Int("entities", summary.Entities),
		logger.Int("mismatches", summary.Mismatches),
		logger.Duration("took", elapsed),
	)
	return summary, nil
}

// scanCategory runs the capture and recognition stages for one metric
// category and returns its observations for the run-wide reconciliation.
func (s *Service) scanCategory(ctx context.Context, metric model.Metric) (CategorySummary, []model.Observation, error) {
	cat := CategorySummary{Metric: metric}

	dir := filepath.Join(s.cfg.FramesDir, string(metric))
	frames, err := s.sourceFor(dir).Frames(ctx)
	if err != nil {
		return cat, nil, err
	}
	kept := s.deduper.FilterDuplicates(frames)
	for i := len(kept); i < len(frames); i++ {
		metrics.RecordFrameDuplicate()
	}
	cat.Frames = len(kept)
	s.logger.Info(ctx, "frames loaded",
		logger.String("metric", string(metric)),
		logger.Int("frames", len(frames)),
		logger.Int("kept", len(kept)),
	)

	batches, err := s.pool.Run(ctx, kept, scan.ProcessorFunc(
		func(ctx context.Context, f capture.Frame) ([]model.Observation, error) {
			return s.processFrame(ctx, f, metric)
		},
	))
	if err != nil {
		return cat, nil, err
	}

	var observations []model.Observation
	for _, batch := range batches {
		observations = append(observations, batch...)
	}
	for _, o := range observations {
		if o.Valid {
			cat.Observations++
			metrics.RecordObservationValid()
		} else {
			metrics.RecordObservationRejected()
			s.logger.Debug(ctx, "observation rejected", logger.String("raw", o.RawLine))
		}
	}

	s.logger.Info(ctx, "category scanned",
		logger.String("metric", string(metric)),
		logger.Int("observations", cat.Observations),
	)
	return cat, observations, nil
}

// processFrame turns one frame into observations. The first frame carries
// the podium and the first list rows; later frames show the scrolled list.
func (s *Service) processFrame(ctx context.Context, f capture.Frame, metric model.Metric) ([]model.Observation, error) {
	var out []model.Observation

	if f.Index == 0 {
		podium := s.preproc.Apply(s.regions.CropPodium(f.Image))
		out = append(out, s.builder.BuildPodium(ctx, podium, metric)...)
	}

	var region *image.NRGBA
	if f.Index == 0 {
		region = s.regions.CropFirstRows(f.Image)
	} else {
		region = s.regions.CropScrolled(f.Image)
	}
	pre := s.preproc.Apply(region)

	start := time.Now()
	detections, err := s.detector.Detect(ctx, pre, s.cfg.Languages)
	metrics.RecordOCRLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, fmt.Errorf("detecting rows: %w", err)
	}
	metrics.RecordDetections(len(detections))

	rows := s.segmenter.Rows(detections)
	metrics.RecordRowsSegmented(len(rows))

	for _, row := range rows {
		out = append(out, s.builder.BuildRow(ctx, pre, row, metric))
	}
	return out, nil
}
