package harness

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stretchr/testify/assert"

	"github.com/intraplane/hosttest/expect"
)

// QueueHandler is the shape of a queue-triggered handler under test:
// one raw message in, an error out.
type QueueHandler func(ctx context.Context, message []byte) error

// QueueTester drives a queue-triggered handler with one message and
// asserts on the captured outcome. There is no transport response;
// status and contract expectations do not apply.
type QueueTester struct {
	expectState
	host    *Host
	handler QueueHandler
	message []byte
}

// Queue returns a tester for handler.
func (h *Host) Queue(handler QueueHandler) *QueueTester {
	return &QueueTester{
		expectState: newExpectState(),
		host:        h,
		handler:     handler,
	}
}

// WithMessage serializes v as JSON for the message body.
func (t *QueueTester) WithMessage(v interface{}) *QueueTester {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("harness: serializing queue message: %v", err))
	}
	return t.WithRawMessage(data)
}

// WithRawMessage sets the message body verbatim.
func (t *QueueTester) WithRawMessage(message []byte) *QueueTester {
	t.message = message
	return t
}

func (t *QueueTester) ExpectSuccess() *QueueTester {
	t.errorUnit().ExpectSuccess()
	return t
}

func (t *QueueTester) ExpectError(target error) *QueueTester {
	t.errorUnit().Is(target)
	return t
}

func (t *QueueTester) ExpectErrorContains(fragment string) *QueueTester {
	t.errorUnit().Containing(fragment)
	return t
}

func (t *QueueTester) ExpectMessage(fragment string) *QueueTester {
	t.messagesUnit().Containing(fragment)
	return t
}

func (t *QueueTester) ExpectEvent(rec expect.ExpectedEvent) *QueueTester {
	t.eventsUnit().Record(rec)
	return t
}

func (t *QueueTester) ExpectAnyEvent() *QueueTester {
	t.eventsUnit().ExpectAtLeastOne()
	return t
}

func (t *QueueTester) ExpectNoEvents() *QueueTester {
	t.eventsUnit().ExpectNone()
	return t
}

func (t *QueueTester) ExcludingEventFields(paths ...string) *QueueTester {
	t.eventsUnit().Excluding(paths...)
	return t
}

func (t *QueueTester) ExpectLogged(fragments ...string) *QueueTester {
	t.logsUnit().Containing(fragments...)
	return t
}

func (t *QueueTester) Extend(kind expect.Kind, fn expect.Extension) *QueueTester {
	t.extend(kind, fn)
	return t
}

func (t *QueueTester) SkipBaseAssertion(kind expect.Kind) *QueueTester {
	t.skipBase(kind)
	return t
}

// Run delivers the message to the handler and asserts the configured
// expectations.
func (t *QueueTester) Run(tt assert.TestingT) *expect.Outcome {
	return t.RunWith(sinkFor(tt))
}

// RunWith is Run with an explicit sink.
func (t *QueueTester) RunWith(s expect.Sink) *expect.Outcome {
	if t.handler == nil {
		panic("harness: no queue handler configured")
	}
	runSetup(t.host)
	t.host.beginRun()

	ctx, cancel := runContext(t.host)
	defer cancel()

	o := &expect.Outcome{Err: t.handler(ctx, t.message)}
	r := &report{title: "queue message"}
	finishRun(t.host, &t.expectState, r, o, s)
	return o
}
