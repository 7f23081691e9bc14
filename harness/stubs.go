package harness

import (
	"net/http"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
)

// StubDependency registers a handler for outbound requests matching
// method and pattern (a chi route pattern). Requests the code under
// test sends through Host.HTTPClient land here; unstubbed paths get a
// 501.
func (h *Host) StubDependency(method, pattern string, handler http.Handler) *Host {
	h.stubs.Method(method, pattern, handler)
	return h
}

// StubJSON registers a stub answering with a JSON body.
func (h *Host) StubJSON(method, pattern string, status int, body interface{}) *Host {
	handler := httphelpers.HandlerWithJSONResponse(body, nil)
	if status != http.StatusOK {
		handler = statusOverrideHandler(status, handler)
	}
	return h.StubDependency(method, pattern, handler)
}

// StubStatus registers a stub answering with a bare status code.
func (h *Host) StubStatus(method, pattern string, status int) *Host {
	return h.StubDependency(method, pattern, httphelpers.HandlerWithStatus(status))
}

// DependencyRequests drains and returns the outbound requests captured
// since the last run reset, in arrival order.
func (h *Host) DependencyRequests() []httphelpers.HTTPRequestInfo {
	return h.drainRequests()
}

func (h *Host) drainRequests() []httphelpers.HTTPRequestInfo {
	var out []httphelpers.HTTPRequestInfo
	for {
		select {
		case info := <-h.requests:
			out = append(out, info)
		default:
			return out
		}
	}
}

// statusOverrideHandler rewrites the delegate's status line while
// keeping its headers and body.
func statusOverrideHandler(status int, delegate http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		delegate.ServeHTTP(&statusOverrideWriter{ResponseWriter: w, status: status}, r)
	})
}

type statusOverrideWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

func (w *statusOverrideWriter) WriteHeader(int) {
	w.written = true
	w.ResponseWriter.WriteHeader(w.status)
}

func (w *statusOverrideWriter) Write(p []byte) (int, error) {
	if !w.written {
		w.WriteHeader(0)
	}
	return w.ResponseWriter.Write(p)
}
