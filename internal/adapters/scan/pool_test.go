package scan_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/rosterscan/internal/adapters/capture"
	"github.com/okian/rosterscan/internal/adapters/scan"
	"github.com/okian/rosterscan/internal/domain/model"
	"github.com/okian/rosterscan/pkg/logger"
)

func init() {
	_ = logger.Init()
}

func frames(n int) []capture.Frame {
	out := make([]capture.Frame, n)
	for i := range out {
		out[i] = capture.Frame{Index: i, Path: fmt.Sprintf("frame_%03d.png", i)}
	}
	return out
}

func TestPool(t *testing.T) {
	Convey("Given a pool over several workers", t, func() {
		p := scan.NewPool(scan.WithWorkers(4))

		Convey("When every frame processes cleanly", func() {
			proc := scan.ProcessorFunc(func(_ context.Context, f capture.Frame) ([]model.Observation, error) {
				return []model.Observation{{Name: fmt.Sprintf("member-%d", f.Index), Valid: true}}, nil
			})
			results, err := p.Run(context.Background(), frames(17), proc)

			Convey("Then results come back indexed by frame regardless of interleaving", func() {
				So(err, ShouldBeNil)
				So(results, ShouldHaveLength, 17)
				for i, batch := range results {
					So(batch, ShouldHaveLength, 1)
					So(batch[0].Name, ShouldEqual, fmt.Sprintf("member-%d", i))
				}
			})
		})

		Convey("When one frame fails", func() {
			sentinel := errors.New("unreadable frame")
			proc := scan.ProcessorFunc(func(_ context.Context, f capture.Frame) ([]model.Observation, error) {
				if f.Index == 5 {
					return nil, sentinel
				}
				return nil, nil
			})
			_, err := p.Run(context.Background(), frames(12), proc)

			Convey("Then the error surfaces with the frame index", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, sentinel), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "frame 5")
			})
		})

		Convey("When the context is already canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			var calls atomic.Int64
			proc := scan.ProcessorFunc(func(ctx context.Context, _ capture.Frame) ([]model.Observation, error) {
				calls.Add(1)
				return nil, ctx.Err()
			})
			_, err := p.Run(ctx, frames(8), proc)

			Convey("Then the run reports cancellation without processing everything", func() {
				So(err, ShouldNotBeNil)
				So(calls.Load(), ShouldBeLessThan, 8)
			})
		})

		Convey("When there are no frames", func() {
			results, err := p.Run(context.Background(), nil, nil)
			So(err, ShouldBeNil)
			So(results, ShouldBeEmpty)
		})
	})
}
