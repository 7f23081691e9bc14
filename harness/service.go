package harness

import (
	"context"

	"github.com/stretchr/testify/assert"

	"github.com/intraplane/hosttest/expect"
)

// ServiceFunc is an arbitrary service method under test.
type ServiceFunc func(ctx context.Context) (interface{}, error)

// ServiceTester invokes a plain service method and asserts on the
// returned value and error.
type ServiceTester struct {
	expectState
	host *Host
	fn   ServiceFunc
}

// Service returns a tester for fn.
func (h *Host) Service(fn ServiceFunc) *ServiceTester {
	return &ServiceTester{
		expectState: newExpectState(),
		host:        h,
		fn:          fn,
	}
}

func (t *ServiceTester) ExpectSuccess() *ServiceTester {
	t.errorUnit().ExpectSuccess()
	return t
}

func (t *ServiceTester) ExpectError(target error) *ServiceTester {
	t.errorUnit().Is(target)
	return t
}

func (t *ServiceTester) ExpectErrorContains(fragment string) *ServiceTester {
	t.errorUnit().Containing(fragment)
	return t
}

func (t *ServiceTester) ExpectMessage(fragment string) *ServiceTester {
	t.messagesUnit().Containing(fragment)
	return t
}

func (t *ServiceTester) ExpectValue(v interface{}) *ServiceTester {
	t.valueUnit().ExpectValue(v)
	return t
}

func (t *ServiceTester) ExpectValueFunc(fn func() interface{}) *ServiceTester {
	t.valueUnit().ExpectProduced(fn)
	return t
}

func (t *ServiceTester) ExpectNilValue() *ServiceTester {
	t.valueUnit().ExpectNil()
	return t
}

func (t *ServiceTester) IgnoringPaths(paths ...string) *ServiceTester {
	t.valueUnit().Ignoring(paths...)
	return t
}

func (t *ServiceTester) ExpectEvent(rec expect.ExpectedEvent) *ServiceTester {
	t.eventsUnit().Record(rec)
	return t
}

func (t *ServiceTester) ExpectAnyEvent() *ServiceTester {
	t.eventsUnit().ExpectAtLeastOne()
	return t
}

func (t *ServiceTester) ExpectNoEvents() *ServiceTester {
	t.eventsUnit().ExpectNone()
	return t
}

func (t *ServiceTester) ExcludingEventFields(paths ...string) *ServiceTester {
	t.eventsUnit().Excluding(paths...)
	return t
}

func (t *ServiceTester) ExpectLogged(fragments ...string) *ServiceTester {
	t.logsUnit().Containing(fragments...)
	return t
}

func (t *ServiceTester) Extend(kind expect.Kind, fn expect.Extension) *ServiceTester {
	t.extend(kind, fn)
	return t
}

func (t *ServiceTester) SkipBaseAssertion(kind expect.Kind) *ServiceTester {
	t.skipBase(kind)
	return t
}

// Run invokes the service method and asserts the configured
// expectations.
func (t *ServiceTester) Run(tt assert.TestingT) *expect.Outcome {
	return t.RunWith(sinkFor(tt))
}

// RunWith is Run with an explicit sink.
func (t *ServiceTester) RunWith(s expect.Sink) *expect.Outcome {
	if t.fn == nil {
		panic("harness: no service function configured")
	}
	runSetup(t.host)
	t.host.beginRun()

	ctx, cancel := runContext(t.host)
	defer cancel()

	o := &expect.Outcome{}
	v, err := t.fn(ctx)
	if err != nil {
		o.Err = err
	} else {
		o.SetValue(v)
	}
	r := &report{title: "service call"}
	finishRun(t.host, &t.expectState, r, o, s)
	return o
}
