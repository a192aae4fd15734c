package verify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/imamik/wpstack/internal/config"
	"github.com/imamik/wpstack/internal/platform/shell"
	"github.com/imamik/wpstack/internal/provisioning"
)

var _ = Describe("Verifier", func() {
	var (
		runner   *shell.Recorder
		server   *httptest.Server
		status   atomic.Int32
		verifier *Verifier
	)

	BeforeEach(func() {
		status.Store(http.StatusOK)
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := int(status.Load())
			if code == http.StatusMovedPermanently || code == http.StatusPermanentRedirect {
				http.Redirect(w, r, "/wp-admin/install.php", code)
				return
			}
			w.WriteHeader(code)
		}))
		DeferCleanup(server.Close)

		runner = shell.NewRecorder()
		runner.Respond("systemctl is-active", "active\n", 0)

		verifier = New(runner, config.Default(), "203.0.113.7", time.Second)
		verifier.URL = server.URL
	})

	It("checks every managed service in order", func() {
		result, err := verifier.Check(context.Background())
		Expect(err).NotTo(HaveOccurred())

		Expect(runner.Commands()).To(Equal([]string{
			"systemctl is-active mariadb",
			"systemctl is-active php8.2-fpm",
			"systemctl is-active nginx",
		}))
		Expect(result.Services).To(HaveLen(3))
		Expect(result.Healthy()).To(BeTrue())
	})

	It("fails when any service is not active", func() {
		runner.Respond("systemctl is-active php8.2-fpm", "failed\n", 3)

		result, err := verifier.Check(context.Background())
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Healthy()).To(BeFalse())
		Expect(result.Err()).To(MatchError(ContainSubstring("service php8.2-fpm is failed")))
	})

	DescribeTable("probe status codes",
		func(code int, healthy bool) {
			status.Store(int32(code))
			result, err := verifier.Check(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Probe.StatusCode).To(Equal(code))
			Expect(result.Healthy()).To(Equal(healthy))
		},
		Entry("200 OK", http.StatusOK, true),
		Entry("302 redirect is not followed", http.StatusFound, true),
		Entry("301 redirect is not followed", http.StatusMovedPermanently, true),
		Entry("308 https redirect is not followed", http.StatusPermanentRedirect, true),
		Entry("404 not found", http.StatusNotFound, false),
		Entry("502 bad gateway", http.StatusBadGateway, false),
	)

	It("reports unreachable hosts", func() {
		verifier.URL = "http://127.0.0.1:1/"

		result, err := verifier.Check(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Probe.OK).To(BeFalse())
		Expect(result.Probe.Error).NotTo(BeEmpty())
		Expect(result.Err()).To(MatchError(ContainSubstring("http probe")))
	})

	It("emits service and probe events", func() {
		observer := &provisioning.RecordingObserver{}
		verifier.Observer = observer

		_, err := verifier.Check(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(observer.OfType(provisioning.EventServiceStatus)).To(HaveLen(3))
		Expect(observer.OfType(provisioning.EventProbe)).To(HaveLen(1))
	})

	It("stops on cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := verifier.Check(ctx)
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("Run", func() {
	It("returns a verification error for an unhealthy host", func() {
		runner := shell.NewRecorder()
		runner.Respond("systemctl is-active", "inactive\n", 3)
		cfg := config.Default()

		ctx := &provisioning.Context{
			Context:  context.Background(),
			Config:   cfg,
			State:    provisioning.NewState(),
			Runner:   runner,
			Observer: &provisioning.RecordingObserver{},
			Timeouts: &config.Timeouts{Probe: 200 * time.Millisecond},
		}
		ctx.State.ServerIP = "127.0.0.1:1"

		result, err := Run(ctx)
		Expect(err).To(HaveOccurred())
		Expect(provisioning.IsKind(err, provisioning.KindVerification)).To(BeTrue())
		Expect(result.Services).To(HaveEach(HaveField("Active", BeFalse())))
	})
})

var _ = Describe("ProbeURL", func() {
	It("uses the domain when configured", func() {
		cfg := config.Default()
		cfg.Site.Domain = "blog.example.com"
		Expect(ProbeURL(cfg, "203.0.113.7")).To(Equal("http://blog.example.com/"))
	})

	It("requests plain http for caddy sites", func() {
		cfg := config.Default()
		cfg.WebServer = config.WebServerCaddy
		cfg.Site.Domain = "blog.example.com"
		Expect(provisioning.SiteURLs(cfg, "203.0.113.7")).To(Equal([]string{"https://blog.example.com/"}))
		Expect(ProbeURL(cfg, "203.0.113.7")).To(Equal("http://blog.example.com/"))
	})

	It("falls back to the server address", func() {
		Expect(ProbeURL(config.Default(), "203.0.113.7")).To(Equal("http://203.0.113.7/"))
		Expect(ProbeURL(config.Default(), "")).To(Equal("http://127.0.0.1/"))
	})
})

var _ = Describe("Reporter", func() {
	var verifier *Verifier

	BeforeEach(func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		DeferCleanup(server.Close)

		runner := shell.NewRecorder()
		runner.Respond("systemctl is-active", "active\n", 0)
		verifier = New(runner, config.Default(), "", time.Second)
		verifier.URL = server.URL
	})

	It("polls until the reporting period ends", func() {
		var mu sync.Mutex
		passes := 0
		r := &Reporter{
			Verifier: verifier,
			Interval: 10 * time.Millisecond,
			For:      100 * time.Millisecond,
			OnResult: func(*Result) { mu.Lock(); passes++; mu.Unlock() },
		}

		Expect(r.Run(context.Background())).To(Succeed())
		mu.Lock()
		defer mu.Unlock()
		Expect(passes).To(BeNumerically(">=", 2))
	})

	It("stops promptly when stopped", func() {
		results := make(chan *Result, 100)
		r := &Reporter{
			Verifier: verifier,
			Interval: time.Hour,
			OnResult: func(res *Result) { results <- res },
		}

		stop := r.Start(context.Background())
		Eventually(results).Should(Receive())

		done := make(chan struct{})
		go func() { stop(); close(done) }()
		Eventually(done, time.Second).Should(BeClosed())
	})

	It("rejects a non-positive interval", func() {
		r := &Reporter{Verifier: verifier}
		Expect(r.Run(context.Background())).To(MatchError(ContainSubstring("interval")))
	})
})
