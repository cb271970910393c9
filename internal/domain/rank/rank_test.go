package rank_test

import (
	"testing"

	model "github.com/okian/rosterscan/internal/domain/model"
	rank "github.com/okian/rosterscan/internal/domain/rank"
	. "github.com/smartystreets/goconvey/convey"
)

func entity(name string, power int64, readRank int) model.Entity {
	return model.Entity{
		Name:     name,
		ReadRank: readRank,
		Values:   map[model.Metric]int64{model.MetricPower: power},
	}
}

func TestAssign(t *testing.T) {
	Convey("Given an assigner ranking on power", t, func() {
		a := rank.New(model.MetricPower)

		Convey("When entities have distinct power readings", func() {
			ranked := a.Assign([]model.Entity{
				entity("Frodo", 10_000_000, 5),
				entity("Sauron", 20_000_000, 1),
				entity("Galadriel", 15_000_000, 2),
			})

			Convey("Then they come back sorted descending with 1-based ranks", func() {
				So(ranked, ShouldHaveLength, 3)
				So(ranked[0].Name, ShouldEqual, "Sauron")
				So(ranked[1].Name, ShouldEqual, "Galadriel")
				So(ranked[2].Name, ShouldEqual, "Frodo")
				for i, e := range ranked {
					So(e.AssignedRank, ShouldEqual, i+1)
				}
			})

			Convey("Then a read rank disagreeing with the derived rank is flagged", func() {
				So(ranked[2].ReadRank, ShouldEqual, 5)
				So(ranked[2].AssignedRank, ShouldEqual, 3)
				So(ranked[2].RankMismatch, ShouldBeTrue)
			})

			Convey("Then agreeing ranks are not flagged", func() {
				So(ranked[0].RankMismatch, ShouldBeFalse)
				So(ranked[1].RankMismatch, ShouldBeFalse)
			})
		})

		Convey("When an entity lacks a positive primary metric", func() {
			ranked := a.Assign([]model.Entity{
				entity("Frodo", 10_000_000, 0),
				entity("Ghost", 0, 7),
				{Name: "NoValues", Values: map[model.Metric]int64{}},
			})

			Convey("Then it is excluded from the roster", func() {
				So(ranked, ShouldHaveLength, 1)
				So(ranked[0].Name, ShouldEqual, "Frodo")
			})
		})

		Convey("When an entity has no read rank", func() {
			ranked := a.Assign([]model.Entity{entity("Frodo", 10_000_000, 0)})

			Convey("Then no mismatch is flagged", func() {
				So(ranked[0].RankMismatch, ShouldBeFalse)
			})
		})

		Convey("When power readings tie", func() {
			ranked := a.Assign([]model.Entity{
				entity("First", 5_000_000, 0),
				entity("Second", 5_000_000, 0),
			})

			Convey("Then input order breaks the tie", func() {
				So(ranked[0].Name, ShouldEqual, "First")
				So(ranked[1].Name, ShouldEqual, "Second")
			})
		})

		Convey("When the input is empty", func() {
			So(a.Assign(nil), ShouldBeEmpty)
		})

		Convey("Then assigned ranks are always a permutation of 1..N", func() {
			ranked := a.Assign([]model.Entity{
				entity("A", 3, 0), entity("B", 9, 0), entity("C", 1, 0),
				entity("D", 0, 0), entity("E", 7, 0),
			})
			So(ranked, ShouldHaveLength, 4)
			seen := map[int]bool{}
			for _, e := range ranked {
				seen[e.AssignedRank] = true
			}
			for i := 1; i <= len(ranked); i++ {
				So(seen[i], ShouldBeTrue)
			}
		})
	})
}
