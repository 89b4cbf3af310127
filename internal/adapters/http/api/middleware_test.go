package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/crgg/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestErrorClassification(t *testing.T) {
	convey.Convey("Given HTTP status codes", t, func() {
		cases := []struct {
			status   int
			kind     string
			severity string
		}{
			{http.StatusBadRequest, "client_error", "medium"},
			{http.StatusNotFound, "not_found", "medium"},
			{http.StatusConflict, "conflict", "low"},
			{http.StatusTooManyRequests, "rate_limit", "medium"},
			{http.StatusInternalServerError, "server_error", "high"},
			{http.StatusBadGateway, "upstream_error", "high"},
			{http.StatusServiceUnavailable, "capacity", "low"},
		}
		for _, tc := range cases {
			convey.So(getErrorType(tc.status), convey.ShouldEqual, tc.kind)
			convey.So(getErrorSeverity(tc.status), convey.ShouldEqual, tc.severity)
		}
	})
}

func TestInstrument(t *testing.T) {
	convey.Convey("Given an instrumented handler", t, func() {
		h := instrument(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}, "teapot", logger.Nop())

		convey.Convey("Then the inner status should pass through", func() {
			w := httptest.NewRecorder()
			h(w, httptest.NewRequest(http.MethodGet, "/teapot", http.NoBody))
			convey.So(w.Code, convey.ShouldEqual, http.StatusTeapot)
		})
	})
}
