package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/crgg/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Strategy, convey.ShouldEqual, config.StrategySearch)
			convey.So(cfg.TargetRating, convey.ShouldEqual, 3.8)
			convey.So(cfg.TargetReviewCount, convey.ShouldEqual, 45)
			convey.So(cfg.RatingWeight, convey.ShouldEqual, 10)
			convey.So(cfg.ReviewDivisor, convey.ShouldEqual, 50)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then duration helpers should convert milliseconds", func() {
			convey.So(cfg.AuditTimeout(), convey.ShouldEqual, 5*time.Second)
			convey.So(cfg.SearchDelay(), convey.ShouldEqual, 2*time.Second)
			convey.So(cfg.SearchTimeout(), convey.ShouldEqual, 10*time.Second)
		})

		convey.Convey("When the directory strategy is chosen without a search url", func() {
			cfg.Strategy = config.StrategyDirectory
			cfg.SearchURL = ""

			convey.Convey("Then it should still validate", func() {
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})
	})
}
