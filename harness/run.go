package harness

import (
	"context"

	"github.com/stretchr/testify/assert"

	"github.com/intraplane/hosttest/expect"
)

// teeSink forwards failures to the caller's sink while recording them,
// so the tester knows whether the run failed and what to report.
type teeSink struct {
	inner expect.Sink
	rec   *expect.RecordingSink
}

func (s teeSink) Fail(message string) {
	s.rec.Fail(message)
	s.inner.Fail(message)
}

func (s teeSink) Equal(expected, actual interface{}, message string) {
	s.rec.Equal(expected, actual, message)
	s.inner.Equal(expected, actual, message)
}

// finishRun completes one invocation: attach the host's captures to
// the outcome, assert through the arranger, and report when failed or
// verbose. The arranger resets its units itself; the host's captures
// are cleared by the next run's beginRun.
func finishRun(h *Host, e *expectState, r *report, o *expect.Outcome, s expect.Sink) {
	o.Logs = h.LogLines()
	o.Events = h.Events()
	rec := &expect.RecordingSink{}
	defer func() {
		if !rec.OK() || h.settings.Verbose {
			r.failures = rec.Failures()
			r.write(h.out, h, o)
		}
	}()
	e.arranger.Assert(o, teeSink{inner: s, rec: rec})
}

// runContext bounds one invocation with the settings' request timeout.
func runContext(h *Host) (context.Context, context.CancelFunc) {
	if h.settings.RequestTimeout <= 0 {
		return context.Background(), func() {}
	}
	return context.WithTimeout(context.Background(), h.settings.RequestTimeout.Std())
}

// sinkFor adapts a *testing.T (or compatible) into the expectation
// sink used for one run.
func sinkFor(t assert.TestingT) expect.Sink {
	return expect.NewTestingSink(t)
}
