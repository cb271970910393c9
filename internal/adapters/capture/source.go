// Package capture loads screenshot frames for a scan run and prepares them
// for recognition: preprocessing, fixed region crops, and suppression of
// duplicated scroll-end frames.
package capture

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
)

// Frame is one loaded screenshot in capture order.
type Frame struct {
	Index int
	Path  string
	Image image.Image
}

// Source loads frames from a directory of screenshots. Capture order is
// filename order, which the capturing side guarantees by zero-padded
// sequence numbers.
type Source struct {
	dir  string
	exts map[string]struct{}
}

// NewSource creates a Source over a frame directory.
func NewSource(dir string, opts ...SourceOption) *Source {
	s := &Source{
		dir: dir,
		exts: map[string]struct{}{
			".png":  {},
			".jpg":  {},
			".jpeg": {},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Frames loads every recognized frame in the directory, sorted by filename.
// Returns ErrNoFrames when the directory holds nothing usable.
func (s *Source) Frames(ctx context.Context) ([]Frame, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading frame directory %q: %w", s.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := s.exts[strings.ToLower(filepath.Ext(e.Name()))]; !ok {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFrames, s.dir)
	}
	sort.Strings(names)

	frames := make([]Frame, 0, len(names))
	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(s.dir, name)
		img, err := imaging.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening frame %q: %w", path, err)
		}
		frames = append(frames, Frame{Index: i, Path: path, Image: img})
	}
	return frames, nil
}
