package acquire_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/okian/crgg/internal/adapters/acquire"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeEngine struct {
	urls  []string
	err   error
	calls int
	query string
	limit int
}

func (f *fakeEngine) Search(_ context.Context, query string, limit int) ([]string, error) {
	f.calls++
	f.query = query
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.urls, nil
}

func targetQuery(limit int) acquire.Query {
	return acquire.Query{
		TargetName: "Dr. Smith's Dental Office",
		Location:   "Chicago, IL",
		TargetURL:  "http://target-site.com",
		Limit:      limit,
	}
}

func TestDirectoryAcquirer(t *testing.T) {
	Convey("Given a directory acquirer", t, func() {
		ctx := context.Background()

		Convey("When no credential is configured", func() {
			res, err := acquire.NewDirectoryAcquirer("").Acquire(ctx, targetQuery(5))

			Convey("Then no data should be returned without an error", func() {
				So(err, ShouldBeNil)
				So(res.Empty(), ShouldBeTrue)
			})
		})

		Convey("When a credential is configured", func() {
			d := acquire.NewDirectoryAcquirer("key")
			res, err := d.Acquire(ctx, targetQuery(5))

			Convey("Then fixed listings and the target should be returned", func() {
				So(err, ShouldBeNil)
				So(res.Degraded, ShouldBeFalse)
				So(res.Entities, ShouldHaveLength, 3)
				So(res.Entities[0].Name, ShouldEqual, "Competitor A Dental")
				So(res.Entities[0].Rating, ShouldEqual, 4.9)
				So(res.Entities[0].ReviewCount, ShouldEqual, 320)
				So(res.Entities[1].URL, ShouldEqual, "http://comp-b.com")

				last := res.Entities[2]
				So(last.IsTarget, ShouldBeTrue)
				So(last.Name, ShouldEqual, "Dr. Smith's Dental Office")
				So(last.Rating, ShouldEqual, 3.8)
				So(last.ReviewCount, ShouldEqual, 45)
				So(last.URL, ShouldEqual, "http://target-site.com")
			})

			Convey("And the limit is smaller than the listings", func() {
				res, err := d.Acquire(ctx, targetQuery(1))

				Convey("Then the listings should be truncated", func() {
					So(err, ShouldBeNil)
					So(res.Entities, ShouldHaveLength, 2)
					So(res.Entities[1].IsTarget, ShouldBeTrue)
				})
			})
		})

		Convey("When a custom target profile is configured", func() {
			d := acquire.NewDirectoryAcquirer("key", acquire.WithTargetProfile(4.1, 80))
			res, _ := d.Acquire(ctx, targetQuery(0))

			Convey("Then the target should carry it", func() {
				So(res.Entities, ShouldHaveLength, 3)
				So(res.Entities[2].Rating, ShouldEqual, 4.1)
				So(res.Entities[2].ReviewCount, ShouldEqual, 80)
			})
		})

		Convey("When the target name is blank", func() {
			_, err := acquire.NewDirectoryAcquirer("key").Acquire(ctx, acquire.Query{TargetName: "  "})

			Convey("Then ErrInvalidQuery should be returned", func() {
				So(errors.Is(err, acquire.ErrInvalidQuery), ShouldBeTrue)
			})
		})
	})
}

func TestSearchAcquirer(t *testing.T) {
	Convey("Given a search acquirer", t, func() {
		ctx := context.Background()

		Convey("When the engine returns results", func() {
			engine := &fakeEngine{urls: []string{
				"https://alpha.example/",
				"http://beta.example/home",
				"https://alpha.example/",
			}}
			q := targetQuery(3)
			q.SearchType = "orthodontist"
			res, err := acquire.NewSearchAcquirer(engine).Acquire(ctx, q)

			Convey("Then competitors should carry rank metrics and the target should be last", func() {
				So(err, ShouldBeNil)
				So(res.Degraded, ShouldBeFalse)
				So(engine.query, ShouldEqual, "best orthodontist near Chicago, IL reviews")
				So(engine.limit, ShouldEqual, 3)
				So(res.Entities, ShouldHaveLength, 4)
				So(res.Entities[0].Name, ShouldEqual, "Competitor 1 (alpha.example)")
				So(res.Entities[0].Rating, ShouldEqual, 4.9)
				So(res.Entities[0].ReviewCount, ShouldEqual, 320)
				So(res.Entities[1].Name, ShouldEqual, "Competitor 2 (beta.example)")
				So(res.Entities[1].Rating, ShouldEqual, 4.8)
				So(res.Entities[1].ReviewCount, ShouldEqual, 290)
				So(res.Entities[2].Name, ShouldEqual, "Competitor 3 (alpha.example)")
				So(res.Entities[2].URL, ShouldEqual, res.Entities[0].URL)
				So(res.Entities[3].IsTarget, ShouldBeTrue)
			})
		})

		Convey("When the search type is omitted", func() {
			engine := &fakeEngine{urls: []string{"https://a.example"}}
			_, err := acquire.NewSearchAcquirer(engine).Acquire(ctx, targetQuery(1))

			Convey("Then dentist should be searched", func() {
				So(err, ShouldBeNil)
				So(engine.query, ShouldEqual, "best dentist near Chicago, IL reviews")
			})
		})

		Convey("When the limit is not positive", func() {
			engine := &fakeEngine{}
			res, err := acquire.NewSearchAcquirer(engine).Acquire(ctx, targetQuery(0))

			Convey("Then the engine should not be called and the fallback set returned", func() {
				So(err, ShouldBeNil)
				So(engine.calls, ShouldEqual, 0)
				So(res.Degraded, ShouldBeFalse)
				So(res.Entities, ShouldHaveLength, 3)
				So(res.Entities[2].IsTarget, ShouldBeTrue)
			})
		})

		for _, recoverable := range []error{
			acquire.ErrRateLimited,
			fmt.Errorf("page 2: %w", acquire.ErrParse),
			acquire.ErrNoResults,
			context.DeadlineExceeded,
		} {
			Convey("When the engine fails with "+recoverable.Error(), func() {
				engine := &fakeEngine{err: recoverable}
				res, err := acquire.NewSearchAcquirer(engine).Acquire(ctx, targetQuery(5))

				Convey("Then the degraded fallback set should be returned", func() {
					So(err, ShouldBeNil)
					So(res.Degraded, ShouldBeTrue)
					So(res.Entities, ShouldHaveLength, 3)
					So(res.Entities[0].Name, ShouldEqual, "Competitor A Dental")
					So(res.Entities[1].Name, ShouldEqual, "Competitor B Ortho")
					So(res.Entities[2].IsTarget, ShouldBeTrue)
				})
			})
		}

		Convey("When the engine fails with an unexpected error", func() {
			boom := errors.New("boom")
			res, err := acquire.NewSearchAcquirer(&fakeEngine{err: boom}).Acquire(ctx, targetQuery(5))

			Convey("Then the error should propagate", func() {
				So(errors.Is(err, boom), ShouldBeTrue)
				So(res.Empty(), ShouldBeTrue)
			})
		})

		Convey("When the search url is misconfigured", func() {
			engine := &fakeEngine{err: fmt.Errorf("%w: bad", acquire.ErrInvalidSearchURL)}
			_, err := acquire.NewSearchAcquirer(engine).Acquire(ctx, targetQuery(5))

			Convey("Then the error should propagate", func() {
				So(errors.Is(err, acquire.ErrInvalidSearchURL), ShouldBeTrue)
			})
		})

		Convey("When the caller's context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			engine := &fakeEngine{err: fmt.Errorf("search fetch: %w", context.Canceled)}
			_, err := acquire.NewSearchAcquirer(engine).Acquire(cctx, targetQuery(5))

			Convey("Then the cancellation should propagate", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestRankMetrics(t *testing.T) {
	Convey("Given rank-derived metrics", t, func() {
		Convey("Then they should be non-increasing and floored", func() {
			prevRating, prevReviews := acquire.RankRating(0), acquire.RankReviews(0)
			So(prevRating, ShouldEqual, 4.9)
			So(prevReviews, ShouldEqual, 320)
			for rank := 1; rank < 50; rank++ {
				r, n := acquire.RankRating(rank), acquire.RankReviews(rank)
				So(r, ShouldBeLessThanOrEqualTo, prevRating)
				So(n, ShouldBeLessThanOrEqualTo, prevReviews)
				So(r, ShouldBeGreaterThanOrEqualTo, 4.2)
				So(n, ShouldBeGreaterThanOrEqualTo, 100)
				prevRating, prevReviews = r, n
			}
			So(acquire.RankRating(49), ShouldEqual, 4.2)
			So(acquire.RankReviews(49), ShouldEqual, 100)
		})
	})
}
