package audit_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/crgg/internal/adapters/audit"
	. "github.com/smartystreets/goconvey/convey"
)

func serveHTML(status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestSiteAuditor_Audit(t *testing.T) {
	Convey("Given a site auditor", t, func() {
		ctx := context.Background()
		a := audit.NewSiteAuditor(audit.WithTimeout(2 * time.Second))

		Convey("When the page links to an appointment booking", func() {
			srv := serveHTML(http.StatusOK, `<html><body><a href="/book">Book an <b>Appointment</b> today</a></body></html>`)
			defer srv.Close()

			res := a.Audit(ctx, srv.URL)

			Convey("Then the CTA should be detected", func() {
				So(res.Error, ShouldBeEmpty)
				So(res.HasCTA, ShouldBeTrue)
				So(res.StatusCode, ShouldEqual, http.StatusOK)
			})

			Convey("Then SSL should follow the declared http scheme", func() {
				So(res.HasSSL, ShouldBeFalse)
			})
		})

		Convey("When the keyword appears only outside anchors", func() {
			srv := serveHTML(http.StatusOK, `<html><body><p>Call for an appointment</p><a href="/">Home</a></body></html>`)
			defer srv.Close()

			res := a.Audit(ctx, srv.URL)

			Convey("Then no CTA should be reported", func() {
				So(res.Error, ShouldBeEmpty)
				So(res.HasCTA, ShouldBeFalse)
			})
		})

		Convey("When the server answers with an error status", func() {
			srv := serveHTML(http.StatusNotFound, `<a href="/x">Request appointment</a>`)
			defer srv.Close()

			res := a.Audit(ctx, srv.URL)

			Convey("Then the body should still be inspected", func() {
				So(res.Error, ShouldBeEmpty)
				So(res.HasCTA, ShouldBeTrue)
				So(res.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the site is served over TLS", func() {
			srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`<a>appointments</a>`))
			}))
			defer srv.Close()

			tls := audit.NewSiteAuditor(audit.WithHTTPClient(srv.Client()))
			res := tls.Audit(ctx, srv.URL)

			Convey("Then SSL should be reported", func() {
				So(res.Error, ShouldBeEmpty)
				So(strings.HasPrefix(srv.URL, "https"), ShouldBeTrue)
				So(res.HasSSL, ShouldBeTrue)
				So(res.HasCTA, ShouldBeTrue)
			})
		})

		Convey("When the host is unreachable", func() {
			srv := serveHTML(http.StatusOK, "")
			addr := srv.URL
			srv.Close()

			res := a.Audit(ctx, addr)

			Convey("Then a failed audit should be returned", func() {
				So(res.Error, ShouldNotBeEmpty)
				So(res.HasSSL, ShouldBeFalse)
				So(res.HasCTA, ShouldBeFalse)
				So(res.StatusCode, ShouldEqual, 0)
			})
		})

		Convey("When the URL is empty", func() {
			res := a.Audit(ctx, "")

			Convey("Then the audit should fail without a request", func() {
				So(res.Error, ShouldEqual, audit.ErrEmptyURL.Error())
				So(res.Failed(), ShouldBeTrue)
			})
		})

		Convey("When the URL has an unsupported scheme", func() {
			res := a.Audit(ctx, "ftp://example.com")

			Convey("Then the audit should fail", func() {
				So(res.Error, ShouldContainSubstring, audit.ErrUnsupportedScheme.Error())
			})
		})

		Convey("When the site redirects endlessly", func() {
			var srv *httptest.Server
			srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, srv.URL+r.URL.Path+"x", http.StatusFound)
			}))
			defer srv.Close()

			limited := audit.NewSiteAuditor(audit.WithMaxRedirects(3))
			res := limited.Audit(ctx, srv.URL+"/")

			Convey("Then the redirect cap should fail the audit", func() {
				So(res.Error, ShouldContainSubstring, audit.ErrTooManyRedirects.Error())
			})
		})

		Convey("When the site is slower than the timeout", func() {
			release := make(chan struct{})
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-release:
				case <-r.Context().Done():
				}
			}))
			defer srv.Close()
			defer close(release)

			slow := audit.NewSiteAuditor(audit.WithTimeout(50 * time.Millisecond))
			res := slow.Audit(ctx, srv.URL)

			Convey("Then the audit should fail with a diagnostic", func() {
				So(res.Error, ShouldNotBeEmpty)
				So(res.HasCTA, ShouldBeFalse)
			})
		})

		Convey("When a custom keyword is configured", func() {
			srv := serveHTML(http.StatusOK, `<a href="/c">Contact Us</a>`)
			defer srv.Close()

			custom := audit.NewSiteAuditor(audit.WithCTAKeyword("  CONTACT "))
			res := custom.Audit(ctx, srv.URL)

			Convey("Then it should be matched case-insensitively", func() {
				So(res.HasCTA, ShouldBeTrue)
			})
		})
	})
}
