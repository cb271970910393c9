package observe_test

import (
	"context"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	model "github.com/okian/rosterscan/internal/domain/model"
	normalize "github.com/okian/rosterscan/internal/domain/normalize"
	observe "github.com/okian/rosterscan/internal/domain/observe"
	segment "github.com/okian/rosterscan/internal/domain/segment"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeRec resolves reads by crop width, which is distinct per field column
// under the default layout, and optionally by language set for the name
// column's best-of logic.
type fakeRec struct {
	byWidth map[int]string
	byLangs map[string]fakeRead
	conf    float64
	heights []int
}

type fakeRead struct {
	text string
	conf float64
}

func (f *fakeRec) Line(_ context.Context, img image.Image, langs []string) (string, float64, error) {
	f.heights = append(f.heights, img.Bounds().Dy())
	if f.byLangs != nil {
		if r, ok := f.byLangs[strings.Join(langs, "+")]; ok {
			return r.text, r.conf, nil
		}
	}
	if t, ok := f.byWidth[img.Bounds().Dx()]; ok {
		return t, f.conf, nil
	}
	return "", 0, nil
}

const (
	rankWidth  = 66  // default layout rank column
	nameWidth  = 204 // default layout name column
	valueWidth = 178 // default layout value column
)

func listImage() image.Image {
	return imaging.New(941, 800, color.NRGBA{R: 20, G: 20, B: 30, A: 255})
}

func TestBuildRow(t *testing.T) {
	Convey("Given a builder over a fake recognizer", t, func() {
		ctx := context.Background()
		row := segment.Span{Top: 100, Bottom: 140}

		Convey("When every field reads cleanly", func() {
			rec := &fakeRec{conf: 0.9, byWidth: map[int]string{
				rankWidth:  "3",
				nameWidth:  "Frodo",
				valueWidth: "5,001,000",
			}}
			b := observe.New(rec)
			o := b.BuildRow(ctx, listImage(), row, model.MetricPower)

			Convey("Then a valid observation comes back", func() {
				So(o.Valid, ShouldBeTrue)
				So(o.ReadRank, ShouldEqual, 3)
				So(o.Name, ShouldEqual, "Frodo")
				So(o.Metric, ShouldEqual, model.MetricPower)
				So(o.Value, ShouldEqual, 5_001_000)
				So(o.CheckValid(), ShouldBeTrue)
			})

			Convey("Then the diagnostic line preserves the raw reads", func() {
				So(o.RawLine, ShouldContainSubstring, "Frodo")
				So(o.RawLine, ShouldContainSubstring, "5,001,000")
			})
		})

		Convey("When the rank column reads a confusable glyph", func() {
			rec := &fakeRec{conf: 0.9, byWidth: map[int]string{
				rankWidth:  "2O",
				nameWidth:  "Samwise",
				valueWidth: "4 100 000",
			}}
			o := observe.New(rec).BuildRow(ctx, listImage(), row, model.MetricPower)

			Convey("Then the rank corrects to 20 instead of being rejected", func() {
				So(o.Valid, ShouldBeTrue)
				So(o.ReadRank, ShouldEqual, 20)
			})
		})

		Convey("When the rank column contains alphabetic noise", func() {
			rec := &fakeRec{conf: 0.9, byWidth: map[int]string{
				rankWidth:  "ab",
				nameWidth:  "Frodo",
				valueWidth: "5,001,000",
			}}
			o := observe.New(rec).BuildRow(ctx, listImage(), row, model.MetricPower)

			Convey("Then the observation is rejected", func() {
				So(o.Valid, ShouldBeFalse)
				So(o.RawLine, ShouldNotBeEmpty)
			})
		})

		Convey("When the rank column exceeds the non-digit tolerance", func() {
			rec := &fakeRec{conf: 0.9, byWidth: map[int]string{
				rankWidth:  "#?! *",
				nameWidth:  "Frodo",
				valueWidth: "5,001,000",
			}}
			o := observe.New(rec).BuildRow(ctx, listImage(), row, model.MetricPower)
			So(o.Valid, ShouldBeFalse)

			Convey("But a loosened tolerance accepts the same read", func() {
				b := observe.New(rec, observe.WithRankNoiseTolerance(4))
				loose := b.BuildRow(ctx, listImage(), row, model.MetricPower)
				So(loose.Valid, ShouldBeTrue)
				So(loose.ReadRank, ShouldEqual, 0)
			})
		})

		Convey("When a custom normalizer denies the read name", func() {
			rec := &fakeRec{conf: 0.9, byWidth: map[int]string{
				rankWidth:  "3",
				nameWidth:  "Guild",
				valueWidth: "5,001,000",
			}}
			norm := normalize.New(normalize.WithDenyList([]string{"guild"}))
			o := observe.New(rec, observe.WithNormalizer(norm)).BuildRow(ctx, listImage(), row, model.MetricPower)

			Convey("Then the observation is rejected", func() {
				So(o.Valid, ShouldBeFalse)
				So(o.Name, ShouldBeEmpty)
			})
		})

		Convey("When the name is a single character", func() {
			Convey("And no metric value backs it", func() {
				rec := &fakeRec{conf: 0.9, byWidth: map[int]string{
					rankWidth: "7",
					nameWidth: "X",
				}}
				o := observe.New(rec).BuildRow(ctx, listImage(), row, model.MetricPower)

				Convey("Then it is rejected as OCR noise", func() {
					So(o.Valid, ShouldBeFalse)
				})
			})

			Convey("And a large metric value backs it", func() {
				rec := &fakeRec{conf: 0.9, byWidth: map[int]string{
					rankWidth:  "7",
					nameWidth:  "X",
					valueWidth: "2,500,000",
				}}
				o := observe.New(rec).BuildRow(ctx, listImage(), row, model.MetricPower)

				Convey("Then it is believed", func() {
					So(o.Valid, ShouldBeTrue)
					So(o.Name, ShouldEqual, "X")
				})
			})
		})

		Convey("When a tiny value pairs with a deep read rank", func() {
			rec := &fakeRec{conf: 0.9, byWidth: map[int]string{
				rankWidth:  "60",
				nameWidth:  "Footer",
				valueWidth: "50",
			}}
			o := observe.New(rec).BuildRow(ctx, listImage(), row, model.MetricKills)

			Convey("Then it is rejected as footer noise", func() {
				So(o.Valid, ShouldBeFalse)
			})
		})

		Convey("When the name column is empty", func() {
			rec := &fakeRec{conf: 0.9, byWidth: map[int]string{
				rankWidth:  "4",
				valueWidth: "9,000,000",
			}}
			o := observe.New(rec).BuildRow(ctx, listImage(), row, model.MetricPower)
			So(o.Valid, ShouldBeFalse)
		})

		Convey("When the row is very thin", func() {
			rec := &fakeRec{conf: 0.9, byWidth: map[int]string{}}
			b := observe.New(rec)
			thin := segment.Span{Top: 100, Bottom: 110}
			b.BuildRow(ctx, listImage(), thin, model.MetricPower)

			Convey("Then the fixed minimum padding is applied to every crop", func() {
				for _, h := range rec.heights {
					So(h, ShouldEqual, 10+2*6)
				}
			})
		})
	})
}

func TestBestNameScripts(t *testing.T) {
	Convey("Given a name readable under several script sets", t, func() {
		ctx := context.Background()
		rec := &fakeRec{
			conf: 0.9,
			byLangs: map[string]fakeRead{
				"eng":         {text: "LLJEB*", conf: 0.40},
				"eng+jpn":     {text: "山田太郎", conf: 0.92},
				"eng+kor":     {text: "?", conf: 0.10},
				"eng+chi_sim": {text: "山田", conf: 0.80},
				"eng+rus":     {text: "", conf: 0},
			},
			byWidth: map[int]string{rankWidth: "5", valueWidth: "3,000,000"},
		}
		// Name reads resolve by language set, numeric columns by width.
		b := observe.New(rec, observe.WithScriptSets([][]string{
			{"eng", "jpn"}, {"eng", "kor"}, {"eng", "chi_sim"}, {"eng", "rus"},
		}))

		Convey("When building the row", func() {
			o := b.BuildRow(ctx, listImage(), segment.Span{Top: 100, Bottom: 140}, model.MetricPower)

			Convey("Then the top-scoring candidate wins", func() {
				So(o.Name, ShouldEqual, "山田太郎")
			})
		})
	})
}

func TestBuildPodium(t *testing.T) {
	Convey("Given a podium capture", t, func() {
		ctx := context.Background()
		slots := []observe.PodiumSlot{
			{Rank: 1, NameBox: image.Rect(0, 0, 300, 30), ValueBox: image.Rect(0, 40, 200, 70)},
			{Rank: 2, NameBox: image.Rect(310, 0, 610, 30), ValueBox: image.Rect(210, 40, 410, 70)},
			{Rank: 3, NameBox: image.Rect(620, 0, 920, 30), ValueBox: image.Rect(420, 40, 620, 70)},
		}
		rec := &fakeRec{conf: 0.9, byWidth: map[int]string{
			300: "Champion",
			200: "88,000,000",
		}}
		b := observe.New(rec, observe.WithPodium(slots))

		Convey("When extracting the podium", func() {
			obs := b.BuildPodium(ctx, imaging.New(941, 105, color.NRGBA{A: 255}), model.MetricPower)

			Convey("Then one observation per slot comes back with trusted ranks", func() {
				So(obs, ShouldHaveLength, 3)
				for i, o := range obs {
					So(o.ReadRank, ShouldEqual, i+1)
					So(o.Name, ShouldEqual, "Champion")
					So(o.Value, ShouldEqual, 88_000_000)
					So(o.Valid, ShouldBeTrue)
					So(o.RawLine, ShouldContainSubstring, "podium")
				}
			})
		})
	})
}
