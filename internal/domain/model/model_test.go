package model_test

import (
	"testing"

	model "github.com/okian/crgg/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestEntity(t *testing.T) {
	convey.Convey("Given a list of entities", t, func() {
		entities := []model.Entity{
			{Name: "Competitor A Dental", Rating: 4.9, ReviewCount: 320},
			{Name: "Competitor B Ortho", Rating: 4.7, ReviewCount: 150},
			{Name: "Dr. Smith's Dental Office", Rating: 3.8, ReviewCount: 45, IsTarget: true},
		}

		convey.Convey("When looking up the target", func() {
			idx := model.Target(entities)

			convey.Convey("Then the marked entity should be found", func() {
				convey.So(idx, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When no entity is marked", func() {
			idx := model.Target(entities[:2])

			convey.Convey("Then -1 should be returned", func() {
				convey.So(idx, convey.ShouldEqual, -1)
			})
		})

		convey.Convey("When an audit carries an error", func() {
			a := model.Audit{Error: "dial tcp: connection refused"}

			convey.Convey("Then it should be reported as failed", func() {
				convey.So(a.Failed(), convey.ShouldBeTrue)
				convey.So(model.Audit{HasSSL: true}.Failed(), convey.ShouldBeFalse)
			})
		})
	})
}

func TestReport(t *testing.T) {
	convey.Convey("Given a compiled report", t, func() {
		r := &model.Report{
			EstimatedRevenueLoss: 6850,
			Entities: []model.Entity{
				{Name: "A"},
				{Name: "B"},
				{Name: "T", IsTarget: true},
			},
		}

		convey.Convey("Then the loss should be formatted as currency", func() {
			convey.So(r.FormattedRevenueLoss(), convey.ShouldEqual, "$6,850.00")
			convey.So(model.FormatCurrency(0), convey.ShouldEqual, "$0.00")
			convey.So(model.FormatCurrency(1234567.891), convey.ShouldEqual, "$1,234,567.89")
		})

		convey.Convey("Then competitors should exclude the target in order", func() {
			c := r.Competitors()
			convey.So(c, convey.ShouldHaveLength, 2)
			convey.So(c[0].Name, convey.ShouldEqual, "A")
			convey.So(c[1].Name, convey.ShouldEqual, "B")
		})
	})
}
