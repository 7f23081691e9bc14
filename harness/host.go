// Package harness runs a unit under test the way its production host
// would: an in-process router for endpoints, stubbed outbound HTTP
// dependencies, a captured event publisher, and a capturing logger.
// Its testers execute one invocation, collect the outcome, and hand it
// to the expectation arranger.
package harness

import (
	"io"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/sirupsen/logrus"

	"github.com/intraplane/hosttest/config"
	"github.com/intraplane/hosttest/events"
	"github.com/intraplane/hosttest/logging"
)

// Host is the in-process stand-in for the application's production
// host. One Host serves one test (or subtest); it is not safe for
// concurrent runs of the same instance.
type Host struct {
	settings *config.Settings
	router   *chi.Mux
	events   *events.Recorder
	logger   *logrus.Logger
	capture  *logging.Capture
	stubs    *chi.Mux
	stubbed  http.Handler
	requests <-chan httphelpers.HTTPRequestInfo
	signer   *TokenSigner
	out      io.Writer
}

// HostOption adjusts a Host under construction.
type HostOption func(*Host)

// WithSettings supplies a settings object directly.
func WithSettings(s *config.Settings) HostOption {
	return func(h *Host) { h.settings = s }
}

// WithSettingsFile loads settings from path. A bad file is test-setup
// misuse and panics.
func WithSettingsFile(path string) HostOption {
	return func(h *Host) {
		s, err := config.Load(path)
		if err != nil {
			panic("harness: " + err.Error())
		}
		h.settings = s
	}
}

// WithLogLevel overrides the host logger's level.
func WithLogLevel(level logrus.Level) HostOption {
	return func(h *Host) { h.settings.LogLevel = level.String() }
}

// WithVerbose makes every run dump its report, not only failed ones.
func WithVerbose(verbose bool) HostOption {
	return func(h *Host) { h.settings.Verbose = verbose }
}

// WithWriter redirects the failure report, which otherwise goes to
// standard output.
func WithWriter(w io.Writer) HostOption {
	return func(h *Host) { h.out = w }
}

// NewHost builds a Host with default settings, applying opts in order.
func NewHost(opts ...HostOption) *Host {
	h := &Host{
		settings: config.Default(),
		router:   chi.NewRouter(),
		events:   events.NewRecorder(),
		stubs:    chi.NewRouter(),
		out:      os.Stdout,
	}
	h.stubs.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotImplemented)
	})
	for _, opt := range opts {
		opt(h)
	}
	h.logger, h.capture = logging.NewCapturedLogger(h.settings.Level())
	h.stubbed, h.requests = httphelpers.RecordingHandler(h.stubs)
	return h
}

// Router is where tests mount the handlers under test. Route patterns
// may carry chi URL params.
func (h *Host) Router() chi.Router { return h.router }

// Events is the recorder injected into the code under test as its
// events.Publisher.
func (h *Host) Events() *events.Recorder { return h.events }

// Logger is the logger handed to the code under test. Everything
// written through it is captured for log expectations.
func (h *Host) Logger() logrus.FieldLogger { return h.logger }

// LogLines returns the log lines captured so far in the current run.
func (h *Host) LogLines() []string { return h.capture.Lines() }

// HTTPClient returns a client that never leaves the process: every
// request is served by the host's dependency stubs.
func (h *Host) HTTPClient() *http.Client {
	return httphelpers.ClientFromHandler(h.stubbed)
}

// Settings exposes the host's effective settings.
func (h *Host) Settings() *config.Settings { return h.settings }

// TokenSigner returns the signer backed by the settings' signing
// secret. Using it with no secret configured is test-setup misuse.
func (h *Host) TokenSigner() *TokenSigner {
	if h.signer == nil {
		if h.settings.SigningSecret == "" {
			panic("harness: no signing secret configured; set signingSecret in settings")
		}
		h.signer = NewTokenSigner(h.settings.SigningSecret)
	}
	return h.signer
}

// beginRun clears everything captured by the previous invocation so
// this one starts clean. Clearing happens at the start, not the end,
// so a finished run's captures stay inspectable until the next run.
// Stub registrations and mounted routes stay.
func (h *Host) beginRun() {
	h.capture.Reset()
	h.events.Reset()
	h.drainRequests()
}
