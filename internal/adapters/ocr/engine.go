// Package ocr wraps the Tesseract engine behind the recognition contracts
// the pipeline consumes: whole-crop line detection and single-line reads.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/okian/rosterscan/internal/domain/model"
)

// Engine owns a set of Tesseract clients, one per language set. Clients
// carry mutable engine state, so the engine serializes all recognition
// calls; concurrency lives in the frame pool above it, not here.
type Engine struct {
	mu      sync.Mutex
	clients map[string]*gosseract.Client
	closed  bool

	whitelist string
	linePSM   gosseract.PageSegMode
	detectPSM gosseract.PageSegMode
}

// New creates an Engine. Clients are created lazily per language set on
// first use and reused for the rest of the run.
func New(opts ...Option) *Engine {
	e := &Engine{
		clients:   make(map[string]*gosseract.Client),
		linePSM:   gosseract.PSM_SINGLE_LINE,
		detectPSM: gosseract.PSM_SINGLE_BLOCK,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Close releases every cached client. The engine is unusable afterwards.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	var firstErr error
	for key, cl := range e.clients {
		if err := cl.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing client %q: %w", key, err)
		}
		delete(e.clients, key)
	}
	return firstErr
}

// Detect runs line-level text detection over a capture region and returns
// one raw detection per recognized line, confidence scaled to [0,1].
func (e *Engine) Detect(ctx context.Context, img image.Image, langs []string) ([]model.RawDetection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cl, err := e.client(langs)
	if err != nil {
		return nil, err
	}
	if err := cl.SetPageSegMode(e.detectPSM); err != nil {
		return nil, fmt.Errorf("setting page seg mode: %w", err)
	}
	if err := e.setImage(cl, img); err != nil {
		return nil, err
	}
	boxes, err := cl.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("detecting text lines: %w", err)
	}
	return toDetections(boxes), nil
}

// Line reads a crop known to contain at most one line of text. Implements
// the observation builder's Recognizer contract.
func (e *Engine) Line(ctx context.Context, img image.Image, langs []string) (string, float64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cl, err := e.client(langs)
	if err != nil {
		return "", 0, err
	}
	if err := cl.SetPageSegMode(e.linePSM); err != nil {
		return "", 0, fmt.Errorf("setting page seg mode: %w", err)
	}
	if err := e.setImage(cl, img); err != nil {
		return "", 0, err
	}
	boxes, err := cl.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return "", 0, fmt.Errorf("reading line: %w", err)
	}
	if len(boxes) == 0 {
		return "", 0, nil
	}

	// Multiple boxes on a single-line crop means the engine split the
	// read; join them and keep the weakest confidence.
	parts := make([]string, 0, len(boxes))
	conf := boxes[0].Confidence
	for _, b := range boxes {
		if t := strings.TrimSpace(b.Word); t != "" {
			parts = append(parts, t)
		}
		if b.Confidence < conf {
			conf = b.Confidence
		}
	}
	return strings.Join(parts, " "), conf / 100, nil
}

// client returns the cached client for a language set, creating it on
// first use. Caller must hold e.mu.
func (e *Engine) client(langs []string) (*gosseract.Client, error) {
	if e.closed {
		return nil, ErrEngineClosed
	}
	if len(langs) == 0 {
		return nil, ErrNoLanguages
	}
	key := langKey(langs)
	if cl, ok := e.clients[key]; ok {
		return cl, nil
	}

	cl := gosseract.NewClient()
	if err := cl.SetLanguage(langs...); err != nil {
		_ = cl.Close()
		return nil, fmt.Errorf("setting languages %q: %w", key, err)
	}
	if e.whitelist != "" {
		if err := cl.SetWhitelist(e.whitelist); err != nil {
			_ = cl.Close()
			return nil, fmt.Errorf("setting whitelist: %w", err)
		}
	}
	e.clients[key] = cl
	return cl, nil
}

// setImage hands the crop to a client as encoded PNG bytes.
func (e *Engine) setImage(cl *gosseract.Client, img image.Image) error {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return fmt.Errorf("encoding crop: %w", err)
	}
	if err := cl.SetImageFromBytes(buf.Bytes()); err != nil {
		return fmt.Errorf("loading crop: %w", err)
	}
	return nil
}

// langKey builds the cache key for a language set.
func langKey(langs []string) string {
	return strings.Join(langs, "+")
}

// toDetections converts engine bounding boxes to raw detections with a
// four-point polygon and confidence scaled from percent to [0,1].
func toDetections(boxes []gosseract.BoundingBox) []model.RawDetection {
	out := make([]model.RawDetection, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		out = append(out, model.RawDetection{
			Polygon: []image.Point{
				{X: b.Box.Min.X, Y: b.Box.Min.Y},
				{X: b.Box.Max.X, Y: b.Box.Min.Y},
				{X: b.Box.Max.X, Y: b.Box.Max.Y},
				{X: b.Box.Min.X, Y: b.Box.Max.Y},
			},
			Text:       text,
			Confidence: b.Confidence / 100,
		})
	}
	return out
}
