package acquire

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestSameSite(t *testing.T) {
	convey.Convey("Given result hosts compared against the search host", t, func() {
		cases := []struct {
			host, searchHost string
			want             bool
		}{
			{"www.google.com", "www.google.com", true},
			{"google.com", "www.google.com", true},
			{"maps.google.com", "www.google.com", true},
			{"WWW.Google.com", "google.com", true},
			{"www.google.com", "google.com", true},
			{"notgoogle.com", "www.google.com", false},
			{"smithdental.com", "www.google.com", false},
			{"localhost", "127.0.0.1", false},
		}

		for _, tc := range cases {
			convey.Convey(tc.host+" vs "+tc.searchHost, func() {
				convey.So(sameSite(tc.host, tc.searchHost), convey.ShouldEqual, tc.want)
			})
		}
	})
}
