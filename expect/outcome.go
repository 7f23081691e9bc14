package expect

import (
	"net/http"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/intraplane/hosttest/events"
)

// Response is the raw transport response captured from an invocation,
// kept type-erased so any transport shape can feed it.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Succeeded reports whether the status code is below 400.
func (r *Response) Succeeded() bool { return r.StatusCode < 400 }

// BodyValue parses the body into the canonical tree form. An empty or
// unparseable body yields null.
func (r *Response) BodyValue() ldvalue.Value {
	if r == nil || len(r.Body) == 0 {
		return ldvalue.Null()
	}
	return ldvalue.Parse(r.Body)
}

// Extra is one keyed auxiliary slot on an Outcome.
type Extra struct {
	Key   string
	Value interface{}
}

// Outcome is everything one invocation of the code under test produced.
// Expectation units read it; testers build it.
type Outcome struct {
	// Value is the invocation's captured return value. HasValue
	// distinguishes an explicit nil return from no value at all.
	Value    interface{}
	HasValue bool

	// Err is the error the invocation raised, if any.
	Err error

	// Response is present only for transport-driven invocations.
	Response *Response

	// Logs holds the log lines captured during the invocation.
	Logs []string

	// Events holds the events captured during the invocation.
	Events *events.Recorder

	extras []Extra
}

// SetValue records the invocation's explicit return value. A nil value
// still counts as produced.
func (o *Outcome) SetValue(v interface{}) {
	o.Value = v
	o.HasValue = true
}

// AddExtra appends a keyed auxiliary slot for extension callbacks.
func (o *Outcome) AddExtra(key string, v interface{}) {
	o.extras = append(o.extras, Extra{Key: key, Value: v})
}

// Extra returns the first auxiliary slot stored under key.
func (o *Outcome) Extra(key string) (interface{}, bool) {
	for _, e := range o.extras {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}
