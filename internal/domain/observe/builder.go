// Package observe builds validated Observations from detected rows by
// slicing fixed field columns out of a capture and normalizing each one.
package observe

import (
	"context"
	"fmt"
	"image"
	"strings"
	"unicode"

	"github.com/disintegration/imaging"

	"github.com/okian/rosterscan/internal/domain/model"
	"github.com/okian/rosterscan/internal/domain/normalize"
	"github.com/okian/rosterscan/internal/domain/segment"
)

// Recognizer reads a single line of text from a field crop. Implementations
// own any engine instances and caching; the builder never initializes OCR
// state itself.
type Recognizer interface {
	// Line returns the recognized text and a confidence in [0,1] for a
	// crop known to contain at most one line. Language sets follow the
	// engine's naming (e.g. "eng", "jpn").
	Line(ctx context.Context, img image.Image, langs []string) (string, float64, error)
}

// Layout fixes the horizontal field columns inside a member-list crop.
// The boundaries are tied to the external window layout, not inferred.
type Layout struct {
	RankLeft, RankRight   int
	NameLeft, NameRight   int
	ValueLeft, ValueRight int
}

// DefaultLayout matches the fixed-resolution source window.
func DefaultLayout() Layout {
	return Layout{
		RankLeft: 0, RankRight: 66,
		NameLeft: 159, NameRight: 363,
		ValueLeft: 763, ValueRight: 941,
	}
}

// Scaled maps the layout into a capture upscaled by factor, so the same
// geometry works on preprocessed crops.
func (l Layout) Scaled(factor int) Layout {
	if factor <= 1 {
		return l
	}
	return Layout{
		RankLeft: l.RankLeft * factor, RankRight: l.RankRight * factor,
		NameLeft: l.NameLeft * factor, NameRight: l.NameRight * factor,
		ValueLeft: l.ValueLeft * factor, ValueRight: l.ValueRight * factor,
	}
}

// PodiumSlot fixes the name and value boxes of one top-three podium
// position on the first capture of a category.
type PodiumSlot struct {
	Rank     int
	NameBox  image.Rectangle
	ValueBox image.Rectangle
}

// DefaultPodium matches the fixed-resolution source window. Slots are
// listed in on-screen order (1 centered, 2 left, 3 right).
func DefaultPodium() []PodiumSlot {
	return []PodiumSlot{
		{Rank: 1, NameBox: image.Rect(343, 12, 619, 41), ValueBox: image.Rect(436, 72, 619, 99)},
		{Rank: 2, NameBox: image.Rect(23, 12, 299, 41), ValueBox: image.Rect(116, 72, 299, 99)},
		{Rank: 3, NameBox: image.Rect(663, 12, 939, 41), ValueBox: image.Rect(755, 72, 939, 99)},
	}
}

// ScaledPodium maps podium slots into a capture upscaled by factor.
func ScaledPodium(slots []PodiumSlot, factor int) []PodiumSlot {
	if factor <= 1 {
		return slots
	}
	out := make([]PodiumSlot, len(slots))
	for i, s := range slots {
		out[i] = PodiumSlot{
			Rank:     s.Rank,
			NameBox:  scaleRect(s.NameBox, factor),
			ValueBox: scaleRect(s.ValueBox, factor),
		}
	}
	return out
}

func scaleRect(r image.Rectangle, factor int) image.Rectangle {
	return image.Rect(r.Min.X*factor, r.Min.Y*factor, r.Max.X*factor, r.Max.Y*factor)
}

// Builder turns rows and podium slots into Observations.
type Builder struct {
	rec        Recognizer
	norm       *normalize.Normalizer
	layout     Layout
	podium     []PodiumSlot
	scriptSets [][]string

	padRatio float64
	minPadPx int

	rankNoiseTolerance   int
	singleCharValueFloor int64
	footerRankFloor      int
	footerValueCeil      int64
}

// Default validity tuning. Empirically calibrated against the source
// window; expected to shift with theme or resolution changes.
const (
	defaultPadRatio             = 0.25
	defaultMinPadPx             = 6
	defaultRankNoiseTolerance   = 2
	defaultSingleCharValueFloor = 100_000
	defaultFooterRankFloor      = 50
	defaultFooterValueCeil      = 1_000
)

// defaultScriptSets covers the writing systems members actually use.
// Each set is one recognition attempt; the best-scoring read wins.
func defaultScriptSets() [][]string {
	return [][]string{
		{"eng"},
		{"eng", "jpn"},
		{"eng", "kor"},
		{"eng", "chi_sim"},
		{"eng", "rus"},
	}
}

// New creates a Builder around a Recognizer.
func New(rec Recognizer, opts ...Option) *Builder {
	b := &Builder{
		rec:                  rec,
		norm:                 normalize.New(),
		layout:               DefaultLayout(),
		podium:               DefaultPodium(),
		scriptSets:           defaultScriptSets(),
		padRatio:             defaultPadRatio,
		minPadPx:             defaultMinPadPx,
		rankNoiseTolerance:   defaultRankNoiseTolerance,
		singleCharValueFloor: defaultSingleCharValueFloor,
		footerRankFloor:      defaultFooterRankFloor,
		footerValueCeil:      defaultFooterValueCeil,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildRow extracts one observation from a detected row of a member-list
// crop. The row span is padded proportionally to its height before the
// field columns are sliced. The result always carries a diagnostic line;
// Valid reports whether it should be kept.
func (b *Builder) BuildRow(ctx context.Context, img image.Image, row segment.Span, metric model.Metric) model.Observation {
	pad := int(float64(row.Height()) * b.padRatio)
	if pad < b.minPadPx {
		pad = b.minPadPx
	}
	top := row.Top - pad
	if top < 0 {
		top = 0
	}
	bottom := row.Bottom + pad
	if h := img.Bounds().Dy(); bottom > h {
		bottom = h
	}

	rankText, _ := b.readLine(ctx, crop(img, b.layout.RankLeft, top, b.layout.RankRight, bottom), b.scriptSets[0])
	nameText, _ := b.bestName(ctx, crop(img, b.layout.NameLeft, top, b.layout.NameRight, bottom))
	valueText, _ := b.readLine(ctx, crop(img, b.layout.ValueLeft, top, b.layout.ValueRight, bottom), b.scriptSets[0])

	o := model.Observation{
		Metric:  metric,
		RawLine: fmt.Sprintf("rank: %s | name: %s | value: %s", rankText, nameText, valueText),
	}
	if v, ok := b.norm.Number(rankText); ok && v > 0 {
		o.ReadRank = int(v)
	}
	o.Name = b.norm.Name(nameText)
	if v, ok := b.norm.Number(valueText); ok && v > 0 {
		o.Value = v
	}
	o.Valid = b.plausible(o, rankText)
	return o
}

// BuildPodium extracts the fixed top-three slots from the first capture of
// a category. Podium ranks are trusted as printed.
func (b *Builder) BuildPodium(ctx context.Context, img image.Image, metric model.Metric) []model.Observation {
	out := make([]model.Observation, 0, len(b.podium))
	for _, slot := range b.podium {
		nameText, _ := b.bestName(ctx, imaging.Crop(img, slot.NameBox))
		valueText, _ := b.readLine(ctx, imaging.Crop(img, slot.ValueBox), b.scriptSets[0])

		o := model.Observation{
			ReadRank: slot.Rank,
			Metric:   metric,
			RawLine:  fmt.Sprintf("podium %d | name: %s | value: %s", slot.Rank, nameText, valueText),
		}
		o.Name = b.norm.Name(nameText)
		if v, ok := b.norm.Number(valueText); ok && v > 0 {
			o.Value = v
		}
		o.Valid = o.CheckValid()
		out = append(out, o)
	}
	return out
}

// bestName repeats name extraction under each script set and keeps the
// top-scoring candidate: extracted length times a script-diversity bonus
// times the recognition confidence.
func (b *Builder) bestName(ctx context.Context, img image.Image) (string, float64) {
	var bestText string
	var bestConf float64
	bestScore := -1.0
	for _, langs := range b.scriptSets {
		text, conf, err := b.rec.Line(ctx, img, langs)
		if err != nil {
			continue
		}
		cleaned := b.norm.Name(text)
		score := float64(len([]rune(cleaned))) * scriptDiversityBonus(cleaned) * conf
		if score > bestScore {
			bestScore = score
			bestText = text
			bestConf = conf
		}
	}
	return bestText, bestConf
}

// readLine wraps the recognizer, degrading an engine error to an empty
// read. A single bad crop must not abort the run.
func (b *Builder) readLine(ctx context.Context, img image.Image, langs []string) (string, float64) {
	text, conf, err := b.rec.Line(ctx, img, langs)
	if err != nil {
		return "", 0
	}
	return text, conf
}

// plausible applies the post-normalization validity heuristics.
func (b *Builder) plausible(o model.Observation, rankRaw string) bool {
	if o.Name == "" {
		return false
	}
	// A single-character name is almost always noise unless backed by a
	// metric value too large for noise to produce.
	if len([]rune(o.Name)) == 1 && o.Value < b.singleCharValueFloor {
		return false
	}
	if !rankTextPlausible(rankRaw, b.rankNoiseTolerance) {
		return false
	}
	// Footer/UI chrome pattern: a tiny value printed at a deep rank.
	if o.HasValue() && o.HasReadRank() &&
		o.ReadRank >= b.footerRankFloor && o.Value < b.footerValueCeil {
		return false
	}
	return o.CheckValid()
}

// rankTextPlausible checks the rank column's raw text after confusable
// correction: a column that should be purely numeric may not contain
// letters, and only a small number of other non-digit characters.
func rankTextPlausible(raw string, tolerance int) bool {
	corrected := normalize.ConfusablesToDigits(strings.TrimSpace(raw))
	nonDigits := 0
	for _, r := range corrected {
		if unicode.IsLetter(r) {
			return false
		}
		if !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			nonDigits++
		}
	}
	return nonDigits <= tolerance
}

// scriptDiversityBonus rewards candidates that mix writing systems less
// than single-script reads: a clean single-script name scores 1.0 and each
// additional script adds a small bump, favoring the engine configuration
// that recognized the most coherent text.
func scriptDiversityBonus(s string) float64 {
	seen := map[string]struct{}{}
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Latin, r):
			seen["latin"] = struct{}{}
		case unicode.Is(unicode.Cyrillic, r):
			seen["cyrillic"] = struct{}{}
		case unicode.Is(unicode.Han, r):
			seen["han"] = struct{}{}
		case unicode.Is(unicode.Hiragana, r), unicode.Is(unicode.Katakana, r):
			seen["kana"] = struct{}{}
		case unicode.Is(unicode.Hangul, r):
			seen["hangul"] = struct{}{}
		case unicode.IsLetter(r):
			seen["other"] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return 1
	}
	return 1 + 0.25*float64(len(seen)-1)
}

func crop(img image.Image, left, top, right, bottom int) image.Image {
	return imaging.Crop(img, image.Rect(left, top, right, bottom))
}
