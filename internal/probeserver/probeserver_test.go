package probeserver_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jpalmerr/pulsecheck/internal/probeserver"
)

var _ = Describe("Handler", func() {
	var handler http.Handler

	BeforeEach(func() {
		handler = probeserver.Handler(probeserver.DefaultPath)
	})

	serve := func(method, path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
		return rec
	}

	It("answers the fixed path with 200 OK", func() {
		rec := serve(http.MethodGet, "/servidor")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(Equal("OK"))
	})

	DescribeTable("answers every other path with an empty 404",
		func(path string) {
			rec := serve(http.MethodGet, path)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(rec.Body.Len()).To(BeZero())
		},
		Entry("root", "/"),
		Entry("other path", "/other"),
		Entry("sub path", "/servidor/extra"),
		Entry("prefix", "/servido"),
	)

	It("rejects other methods on the fixed path", func() {
		rec := serve(http.MethodPost, "/servidor")
		Expect(rec.Code).To(Equal(http.StatusMethodNotAllowed))
	})

	It("honours a custom path", func() {
		handler = probeserver.Handler("/healthz")
		Expect(serve(http.MethodGet, "/healthz").Code).To(Equal(http.StatusOK))
		Expect(serve(http.MethodGet, "/servidor").Code).To(Equal(http.StatusNotFound))
	})
})

var _ = Describe("Server", func() {
	Context("server creation", func() {
		It("creates server with the default address", func() {
			srv, err := probeserver.New(probeserver.DefaultAddr, probeserver.DefaultPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(srv.Addr()).To(Equal("localhost:8000"))
		})

		It("handles port-only address", func() {
			_, err := probeserver.New(":8000", probeserver.DefaultPath)
			Expect(err).NotTo(HaveOccurred())
		})

		DescribeTable("rejects invalid addresses",
			func(addr string) {
				srv, err := probeserver.New(addr, probeserver.DefaultPath)
				Expect(err).To(HaveOccurred())
				Expect(srv).To(BeNil())
			},
			Entry("too many colons", "invalid:host:port"),
			Entry("missing port", "localhost"),
			Entry("empty port", "localhost:"),
			Entry("port out of range", "localhost:70000"),
			Entry("bad host", "bad_host!:8000"),
		)

		It("rejects a path without a leading slash", func() {
			_, err := probeserver.New(probeserver.DefaultAddr, "servidor")
			Expect(err).To(HaveOccurred())
		})
	})

	Context("server lifecycle", func() {
		var (
			srv  *probeserver.Server
			ln   net.Listener
			done chan error
		)

		BeforeEach(func() {
			var err error
			srv, err = probeserver.New(probeserver.DefaultAddr, probeserver.DefaultPath)
			Expect(err).NotTo(HaveOccurred())

			ln, err = net.Listen("tcp", "127.0.0.1:0")
			Expect(err).NotTo(HaveOccurred())

			done = make(chan error, 1)
			// each spec's server goroutine keeps its own values
			go func(s *probeserver.Server, l net.Listener, d chan<- error) {
				d <- s.Serve(l)
			}(srv, ln, done)
		})

		AfterEach(func() {
			_ = srv.Shutdown(context.Background())
		})

		It("starts and handles requests", func() {
			resp, err := http.Get("http://" + ln.Addr().String() + "/servidor")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			body, _ := io.ReadAll(resp.Body)
			Expect(string(body)).To(Equal("OK"))
		})

		It("shuts down gracefully", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			Expect(srv.Shutdown(ctx)).To(Succeed())
			Eventually(done).Should(Receive(BeNil()))
		})
	})
})
