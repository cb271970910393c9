package repository_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/rosterscan/internal/adapters/repository"
	"github.com/okian/rosterscan/internal/domain/model"
)

func powerRoster() []repository.Entry {
	return []repository.Entry{
		{Rank: 1, Name: "Sauron", Values: map[model.Metric]int64{model.MetricPower: 95_000_000, model.MetricKills: 50_000}, ReadRank: 1},
		{Rank: 2, Name: "Galadriel", Values: map[model.Metric]int64{model.MetricPower: 15_000_000}, ReadRank: 2},
		{Rank: 3, Name: "Frodo", Values: map[model.Metric]int64{model.MetricPower: 10_000_000}, ReadRank: 5, RankMismatch: true},
	}
}

func TestMemStore(t *testing.T) {
	Convey("Given an empty memory store", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(repository.WithMetricsRecording(false))

		Convey("When a roster is stored", func() {
			So(store.PutRoster(ctx, model.MetricPower, powerRoster()), ShouldBeNil)

			Convey("Then TopN returns entries in rank order", func() {
				top, err := store.TopN(ctx, model.MetricPower, 2)
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 2)
				So(top[0].Name, ShouldEqual, "Sauron")
				So(top[1].Name, ShouldEqual, "Galadriel")
			})

			Convey("Then TopN beyond the roster size returns everything", func() {
				top, err := store.TopN(ctx, model.MetricPower, 100)
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 3)
			})

			Convey("Then Get finds a member by exact name", func() {
				e, err := store.Get(ctx, model.MetricPower, "Frodo")
				So(err, ShouldBeNil)
				So(e.Rank, ShouldEqual, 3)
				So(e.RankMismatch, ShouldBeTrue)
			})

			Convey("Then an entry keeps every metric it accumulated", func() {
				e, err := store.Get(ctx, model.MetricPower, "Sauron")
				So(err, ShouldBeNil)
				So(e.Value(model.MetricPower), ShouldEqual, 95_000_000)
				So(e.Value(model.MetricKills), ShouldEqual, 50_000)
				So(e.Value(model.MetricConstruction), ShouldEqual, 0)
			})

			Convey("Then Get for an unknown member fails", func() {
				_, err := store.Get(ctx, model.MetricPower, "Smeagol")
				So(err, ShouldWrap, repository.ErrNotFound)
			})

			Convey("Then Count matches the roster size", func() {
				So(store.Count(ctx, model.MetricPower), ShouldEqual, 3)
				So(store.Count(ctx, model.MetricKills), ShouldEqual, 0)
			})

			Convey("Then a second put replaces the roster", func() {
				So(store.PutRoster(ctx, model.MetricPower, powerRoster()[:1]), ShouldBeNil)
				So(store.Count(ctx, model.MetricPower), ShouldEqual, 1)
			})

			Convey("Then mutating the caller's entries does not touch the store", func() {
				entries := powerRoster()
				So(store.PutRoster(ctx, model.MetricKills, entries), ShouldBeNil)
				entries[0].Name = "mutated"
				entries[1].Values[model.MetricPower] = 0
				e, err := store.Get(ctx, model.MetricKills, "Sauron")
				So(err, ShouldBeNil)
				So(e.Rank, ShouldEqual, 1)
				g, err := store.Get(ctx, model.MetricKills, "Galadriel")
				So(err, ShouldBeNil)
				So(g.Value(model.MetricPower), ShouldEqual, 15_000_000)
			})
		})

		Convey("When reading a metric that was never stored", func() {
			_, err := store.TopN(ctx, model.MetricConstruction, 5)
			So(err, ShouldWrap, repository.ErrUnknownMetric)

			_, err = store.Get(ctx, model.MetricConstruction, "Frodo")
			So(err, ShouldWrap, repository.ErrUnknownMetric)
		})

		Convey("When asking for a non-positive limit", func() {
			So(store.PutRoster(ctx, model.MetricPower, powerRoster()), ShouldBeNil)
			_, err := store.TopN(ctx, model.MetricPower, 0)
			So(err, ShouldWrap, repository.ErrInvalidLimit)
		})

		Convey("When converting a ranked entity", func() {
			e := model.Entity{
				Name:         "Frodo",
				ReadRank:     5,
				AssignedRank: 3,
				RankMismatch: true,
				RawLine:      "rank: 5 | name: Frodo | value: 10,000,000",
				Values: map[model.Metric]int64{
					model.MetricPower: 10_000_000,
					model.MetricKills: 1_200,
				},
			}
			entry := repository.FromEntity(e)
			So(entry.Rank, ShouldEqual, 3)
			So(entry.Value(model.MetricPower), ShouldEqual, 10_000_000)
			So(entry.Value(model.MetricKills), ShouldEqual, 1_200)
			So(entry.RankMismatch, ShouldBeTrue)
			So(entry.RawLine, ShouldContainSubstring, "10,000,000")

			Convey("Then the entry's values are detached from the entity", func() {
				entry.Values[model.MetricPower] = 0
				So(e.Values[model.MetricPower], ShouldEqual, 10_000_000)
			})
		})
	})
}
