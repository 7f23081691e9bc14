package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"

	"github.com/stretchr/testify/assert"

	"github.com/intraplane/hosttest/contract"
	"github.com/intraplane/hosttest/expect"
)

// EndpointTester drives one route mounted on the host's router and
// asserts on the captured response. Build the request with the fluent
// methods, configure expectations, then Run. A tester keeps its
// configuration across runs.
type EndpointTester struct {
	expectState
	host        *Host
	method      string
	path        string
	body        []byte
	contentType string
	header      http.Header
	query       url.Values
}

// Endpoint returns a fresh endpoint tester for this host.
func (h *Host) Endpoint() *EndpointTester {
	return &EndpointTester{
		expectState: newExpectState(),
		host:        h,
		header:      make(http.Header),
		query:       make(url.Values),
	}
}

func (t *EndpointTester) request(method, path string) *EndpointTester {
	t.method = method
	t.path = path
	return t
}

func (t *EndpointTester) Get(path string) *EndpointTester    { return t.request(http.MethodGet, path) }
func (t *EndpointTester) Post(path string) *EndpointTester   { return t.request(http.MethodPost, path) }
func (t *EndpointTester) Put(path string) *EndpointTester    { return t.request(http.MethodPut, path) }
func (t *EndpointTester) Patch(path string) *EndpointTester  { return t.request(http.MethodPatch, path) }
func (t *EndpointTester) Delete(path string) *EndpointTester { return t.request(http.MethodDelete, path) }

// WithBody serializes v as JSON for the request body.
func (t *EndpointTester) WithBody(v interface{}) *EndpointTester {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("harness: serializing request body: %v", err))
	}
	return t.WithRawBody(data, "application/json")
}

// WithRawBody sets the request body verbatim.
func (t *EndpointTester) WithRawBody(body []byte, contentType string) *EndpointTester {
	t.body = body
	t.contentType = contentType
	return t
}

// WithHeader adds one request header.
func (t *EndpointTester) WithHeader(key, value string) *EndpointTester {
	t.header.Add(key, value)
	return t
}

// WithQuery adds one query parameter.
func (t *EndpointTester) WithQuery(key, value string) *EndpointTester {
	t.query.Add(key, value)
	return t
}

// WithBearer sets the Authorization header to a bearer token.
func (t *EndpointTester) WithBearer(token string) *EndpointTester {
	t.header.Set("Authorization", "Bearer "+token)
	return t
}

// WithTestToken signs a bearer token for subject with the settings'
// signing secret and attaches it.
func (t *EndpointTester) WithTestToken(subject string) *EndpointTester {
	return t.WithBearer(t.host.TokenSigner().Bearer(subject, nil))
}

// Expectation surface; each method configures the corresponding unit
// and returns the tester for chaining.

func (t *EndpointTester) ExpectSuccess() *EndpointTester {
	t.errorUnit().ExpectSuccess()
	return t
}

func (t *EndpointTester) ExpectError(target error) *EndpointTester {
	t.errorUnit().Is(target)
	return t
}

func (t *EndpointTester) ExpectErrorContains(fragment string) *EndpointTester {
	t.errorUnit().Containing(fragment)
	return t
}

func (t *EndpointTester) ExpectStatus(code int) *EndpointTester {
	t.statusUnit().ExpectCode(code)
	return t
}

func (t *EndpointTester) ExpectMessage(fragment string) *EndpointTester {
	t.messagesUnit().Containing(fragment)
	return t
}

func (t *EndpointTester) ExpectAPIErrors(errs ...expect.APIError) *EndpointTester {
	t.messagesUnit().Structured(errs...)
	return t
}

func (t *EndpointTester) ExpectValue(v interface{}) *EndpointTester {
	t.valueUnit().ExpectValue(v)
	return t
}

func (t *EndpointTester) ExpectValueFunc(fn func() interface{}) *EndpointTester {
	t.valueUnit().ExpectProduced(fn)
	return t
}

func (t *EndpointTester) ExpectNilValue() *EndpointTester {
	t.valueUnit().ExpectNil()
	return t
}

func (t *EndpointTester) IgnoringPaths(paths ...string) *EndpointTester {
	t.valueUnit().Ignoring(paths...)
	return t
}

func (t *EndpointTester) ExpectEvent(rec expect.ExpectedEvent) *EndpointTester {
	t.eventsUnit().Record(rec)
	return t
}

func (t *EndpointTester) ExpectAnyEvent() *EndpointTester {
	t.eventsUnit().ExpectAtLeastOne()
	return t
}

func (t *EndpointTester) ExpectNoEvents() *EndpointTester {
	t.eventsUnit().ExpectNone()
	return t
}

func (t *EndpointTester) ExcludingEventFields(paths ...string) *EndpointTester {
	t.eventsUnit().Excluding(paths...)
	return t
}

func (t *EndpointTester) ExpectLogged(fragments ...string) *EndpointTester {
	t.logsUnit().Containing(fragments...)
	return t
}

func (t *EndpointTester) ExpectContract(v *contract.Validator, method, path string) *EndpointTester {
	t.contractUnit().Against(v, method, path)
	return t
}

func (t *EndpointTester) Extend(kind expect.Kind, fn expect.Extension) *EndpointTester {
	t.extend(kind, fn)
	return t
}

func (t *EndpointTester) SkipBaseAssertion(kind expect.Kind) *EndpointTester {
	t.skipBase(kind)
	return t
}

// Run executes the request against the host's router and asserts the
// configured expectations, reporting failures through t's testing
// object.
func (t *EndpointTester) Run(tt assert.TestingT) *expect.Outcome {
	return t.RunWith(sinkFor(tt))
}

// RunWith is Run with an explicit sink, for callers that collect
// failures themselves.
func (t *EndpointTester) RunWith(s expect.Sink) *expect.Outcome {
	if t.method == "" {
		panic("harness: no request configured; call Get/Post/Put/Patch/Delete first")
	}
	runSetup(t.host)
	t.host.beginRun()

	ctx, cancel := runContext(t.host)
	defer cancel()

	target := t.path
	if len(t.query) > 0 {
		target += "?" + t.query.Encode()
	}
	var body io.Reader
	if len(t.body) > 0 {
		body = bytes.NewReader(t.body)
	}
	req := httptest.NewRequest(t.method, target, body).WithContext(ctx)
	for key, values := range t.header {
		req.Header[key] = append([]string(nil), values...)
	}
	if t.contentType != "" {
		req.Header.Set("Content-Type", t.contentType)
	}

	rec := httptest.NewRecorder()
	t.host.router.ServeHTTP(rec, req)
	res := rec.Result()
	resBody, _ := io.ReadAll(res.Body)
	res.Body.Close()

	o := &expect.Outcome{
		Response: &expect.Response{
			StatusCode: res.StatusCode,
			Header:     res.Header,
			Body:       resBody,
		},
	}
	o.AddExtra("httpResponse", res)

	r := &report{
		title: fmt.Sprintf("%s %s", t.method, t.path),
		repro: t.curlLine(target),
	}
	finishRun(t.host, &t.expectState, r, o, s)
	return o
}

// curlLine renders a shell-safe curl equivalent of the simulated
// request, for replaying against a live deployment.
func (t *EndpointTester) curlLine(target string) string {
	var b commandBuilder
	b.add("curl", "-i", "-X", t.method)
	for key, values := range t.header {
		for _, v := range values {
			b.add("-H", key+": "+v)
		}
	}
	if t.contentType != "" {
		b.add("-H", "Content-Type: "+t.contentType)
	}
	if len(t.body) > 0 {
		b.add("--data", string(t.body))
	}
	b.add(target)
	return b.String()
}
