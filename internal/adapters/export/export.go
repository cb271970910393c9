// Package export writes the reconciled roster to timestamped report files.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/okian/rosterscan/internal/adapters/repository"
	"github.com/okian/rosterscan/internal/domain/model"
	"github.com/okian/rosterscan/pkg/metrics"
)

const timestampLayout = "20060102_150405"

// Report is the fused run roster ready for export. Metrics fixes the
// order of the value columns; entries carry a value per scanned metric.
type Report struct {
	Metrics []model.Metric
	Entries []repository.Entry
}

// Exporter writes roster reports into an output directory.
type Exporter struct {
	dir string
	now func() time.Time

	recordMetrics bool
}

// New creates an Exporter for an output directory. The directory is
// created on first write.
func New(dir string, opts ...Option) *Exporter {
	e := &Exporter{
		dir:           dir,
		now:           time.Now,
		recordMetrics: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CSV writes the roster as a timestamped CSV file and returns the file
// path. Absent metric values and read ranks render as empty cells.
func (e *Exporter) CSV(ctx context.Context, report Report) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := e.ensureDir(); err != nil {
		return "", err
	}

	path := filepath.Join(e.dir, fmt.Sprintf("roster_%s.csv", e.now().Format(timestampLayout)))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating csv export: %w", err)
	}
	defer f.Close()

	header := []string{"rank", "name"}
	for _, m := range report.Metrics {
		header = append(header, string(m))
	}
	header = append(header, "read_rank", "rank_mismatch", "raw_line")

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("writing csv header: %w", err)
	}
	for _, entry := range report.Entries {
		rec := []string{strconv.Itoa(entry.Rank), entry.Name}
		for _, m := range report.Metrics {
			rec = append(rec, formatValue(entry.Value(m)))
		}
		readRank := ""
		if entry.ReadRank > 0 {
			readRank = strconv.Itoa(entry.ReadRank)
		}
		rec = append(rec, readRank, strconv.FormatBool(entry.RankMismatch), entry.RawLine)
		if err := w.Write(rec); err != nil {
			return "", fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing csv export: %w", err)
	}

	if e.recordMetrics {
		metrics.RecordExport("csv")
	}
	return path, nil
}

// HTML writes the roster as a timestamped HTML report and returns the
// file path.
func (e *Exporter) HTML(ctx context.Context, report Report) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := e.ensureDir(); err != nil {
		return "", err
	}

	path := filepath.Join(e.dir, fmt.Sprintf("roster_%s.html", e.now().Format(timestampLayout)))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating html export: %w", err)
	}
	defer f.Close()

	data := struct {
		GeneratedAt string
		Metrics     []model.Metric
		Entries     []repository.Entry
	}{
		GeneratedAt: e.now().Format(time.RFC3339),
		Metrics:     report.Metrics,
		Entries:     report.Entries,
	}
	if err := rosterTemplate.Execute(f, data); err != nil {
		return "", fmt.Errorf("rendering html export: %w", err)
	}

	if e.recordMetrics {
		metrics.RecordExport("html")
	}
	return path, nil
}

func formatValue(v int64) string {
	if v <= 0 {
		return ""
	}
	return strconv.FormatInt(v, 10)
}

func (e *Exporter) ensureDir() error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("creating export directory %q: %w", e.dir, err)
	}
	return nil
}
