// Package config defines pipeline configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Every recognition and reconciliation heuristic is a named field with a
//   default, never a literal buried in pipeline code.
// - External errors must be wrapped via this package's error kinds.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// FramesDir is the root capture directory; each metric category is a
	// subdirectory of screenshot frames.
	FramesDir string `koanf:"frames_dir"`

	// ExportDir receives timestamped CSV and HTML roster reports.
	ExportDir string `koanf:"export_dir"`

	// Metrics lists the metric categories to scan, in run order.
	Metrics []string `koanf:"metrics"`

	// PrimaryMetric names the category the fused roster is ranked on.
	// Must be one of Metrics.
	PrimaryMetric string `koanf:"primary_metric"`

	// WorkerCount sets the number of concurrent frame workers.
	WorkerCount int `koanf:"worker_count"`

	// Languages lists the Tesseract language codes for whole-region
	// detection. Field reads use the observation builder's script sets.
	Languages []string `koanf:"languages"`

	// ConfidenceFloor drops detections below this recognition confidence.
	ConfidenceFloor float64 `koanf:"confidence_floor"`

	// RowTolerancePx merges detections whose vertical spans sit within
	// this many pixels of each other.
	RowTolerancePx int `koanf:"row_tolerance_px"`

	// PreprocessScale, PreprocessContrast, and PreprocessSharpen tune the
	// recognition preprocessing passes.
	PreprocessScale    int     `koanf:"preprocess_scale"`
	PreprocessContrast float64 `koanf:"preprocess_contrast"`
	PreprocessSharpen  float64 `koanf:"preprocess_sharpen"`

	// DupeTailRatio and DupeThreshold tune scroll-end duplicate frame
	// suppression.
	DupeTailRatio float64 `koanf:"dupe_tail_ratio"`
	DupeThreshold float64 `koanf:"dupe_threshold"`

	// RowPadRatio and RowMinPadPx tune the vertical padding applied to a
	// detected row before field columns are sliced.
	RowPadRatio float64 `koanf:"row_pad_ratio"`
	RowMinPadPx int     `koanf:"row_min_pad_px"`

	// SingleCharValueFloor keeps a single-character name only when its
	// metric value is at least this large.
	SingleCharValueFloor int64 `koanf:"single_char_value_floor"`

	// FooterRankFloor and FooterValueCeil reject footer chrome read as a
	// deep rank with a tiny value.
	FooterRankFloor int   `koanf:"footer_rank_floor"`
	FooterValueCeil int64 `koanf:"footer_value_ceil"`

	// Name similarity thresholds for the layered match rules.
	NameSimStrict     float64 `koanf:"name_sim_strict"`
	NameSimRelaxed    float64 `koanf:"name_sim_relaxed"`
	NameSimLoose      float64 `koanf:"name_sim_loose"`
	NameSimLastResort float64 `koanf:"name_sim_last_resort"`

	// ValueTolerance and ValueNearIdentical bound relative value distance
	// for value-based matching.
	ValueTolerance     float64 `koanf:"value_tolerance"`
	ValueNearIdentical float64 `koanf:"value_near_identical"`

	// ImplausibleMultiple flags a conflicting value this many times larger
	// than the other side as an OCR artifact.
	ImplausibleMultiple float64 `koanf:"implausible_multiple"`

	// TopRankExempt exempts entities at or above this rank from the
	// implausible-multiple correction.
	TopRankExempt int `koanf:"top_rank_exempt"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		FramesDir:            "captures",
		ExportDir:            "exports",
		Metrics:              []string{"power", "kills", "weekly_contribution", "construction", "tribe_assistance"},
		PrimaryMetric:        "power",
		WorkerCount:          runtime.NumCPU(),
		Languages:            []string{"eng"},
		ConfidenceFloor:      0.35,
		RowTolerancePx:       10,
		PreprocessScale:      2,
		PreprocessContrast:   15,
		PreprocessSharpen:    0.7,
		DupeTailRatio:        0.30,
		DupeThreshold:        0.98,
		RowPadRatio:          0.25,
		RowMinPadPx:          6,
		SingleCharValueFloor: 100_000,
		FooterRankFloor:      50,
		FooterValueCeil:      1_000,
		NameSimStrict:        0.85,
		NameSimRelaxed:       0.70,
		NameSimLoose:         0.60,
		NameSimLastResort:    0.50,
		ValueTolerance:       0.01,
		ValueNearIdentical:   0.001,
		ImplausibleMultiple:  5.0,
		TopRankExempt:        3,
	}
}
