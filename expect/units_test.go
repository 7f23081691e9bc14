package expect

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func response(status int, body string) *Response {
	return &Response{StatusCode: status, Header: make(http.Header), Body: []byte(body)}
}

func TestErrorExpectationSuccess(t *testing.T) {
	u := NewErrorExpectation().ExpectSuccess()
	sink := &RecordingSink{}
	u.Assert(&Outcome{Response: response(200, "")}, sink)
	assert.True(t, sink.OK())
}

func TestErrorExpectationSuccessFailsOnError(t *testing.T) {
	u := NewErrorExpectation().ExpectSuccess()
	sink := &RecordingSink{}
	u.Assert(&Outcome{Err: errors.New("boom")}, sink)
	require.Len(t, sink.Failures(), 1)
	assert.Contains(t, sink.Failures()[0], "boom")
}

func TestErrorExpectationSuccessFailsOnFailingStatus(t *testing.T) {
	u := NewErrorExpectation().ExpectSuccess()
	sink := &RecordingSink{}
	u.Assert(&Outcome{Response: response(500, "")}, sink)
	require.Len(t, sink.Failures(), 1)
	assert.Contains(t, sink.Failures()[0], "500")
}

func TestErrorExpectationRequiresError(t *testing.T) {
	u := NewErrorExpectation().ExpectError()
	sink := &RecordingSink{}
	u.Assert(&Outcome{}, sink)
	require.Len(t, sink.Failures(), 1)
	assert.Contains(t, sink.Failures()[0], "none was raised")
}

func TestErrorExpectationMatchesSentinel(t *testing.T) {
	sentinel := errors.New("not found")
	u := NewErrorExpectation().Is(sentinel)
	sink := &RecordingSink{}
	u.Assert(&Outcome{Err: fmt.Errorf("lookup failed: %w", sentinel)}, sink)
	assert.True(t, sink.OK())

	u.Assert(&Outcome{Err: errors.New("other")}, sink)
	assert.False(t, sink.OK())
}

func TestErrorExpectationMessageContainsIgnoresCase(t *testing.T) {
	u := NewErrorExpectation().Containing("Not Found")
	sink := &RecordingSink{}
	u.Assert(&Outcome{Err: errors.New("order was NOT FOUND")}, sink)
	assert.True(t, sink.OK())

	u.Assert(&Outcome{Err: errors.New("something else")}, sink)
	assert.False(t, sink.OK())
}

func TestErrorExpectationRejectsConflictingConfig(t *testing.T) {
	require.Panics(t, func() { NewErrorExpectation().ExpectSuccess().ExpectError() })
	require.Panics(t, func() { NewErrorExpectation().ExpectError().ExpectSuccess() })
}

func TestSkipBaseAssertionLeavesExtensionsOnly(t *testing.T) {
	u := NewErrorExpectation().ExpectError()
	u.SkipBaseAssertion()
	ran := false
	u.Extend(func(o *Outcome, s Sink) { ran = true })
	sink := &RecordingSink{}
	u.Assert(&Outcome{}, sink)
	assert.True(t, sink.OK())
	assert.True(t, ran)
}

func TestStatusExpectation(t *testing.T) {
	u := NewStatusExpectation().ExpectCode(404)
	sink := &RecordingSink{}
	u.Assert(&Outcome{Response: response(404, "")}, sink)
	assert.True(t, sink.OK())

	u.Assert(&Outcome{Response: response(200, "")}, sink)
	require.Len(t, sink.Failures(), 1)
	assert.Contains(t, sink.Failures()[0], "unexpected response status")
}

func TestStatusExpectationPanicsWithoutResponse(t *testing.T) {
	u := NewStatusExpectation().ExpectCode(200)
	require.Panics(t, func() { u.Assert(&Outcome{}, &RecordingSink{}) })
}

func TestStatusExpectationUnconfiguredIsInert(t *testing.T) {
	u := NewStatusExpectation()
	sink := &RecordingSink{}
	u.Assert(&Outcome{}, sink)
	assert.True(t, sink.OK())
}

func TestMessagesExpectationMatchesBodyErrors(t *testing.T) {
	u := NewMessagesExpectation().Containing("is required")
	sink := &RecordingSink{}
	u.Assert(&Outcome{Response: response(404, `{"errors":{"name":["is required"]}}`)}, sink)
	assert.True(t, sink.OK())
}

func TestMessagesExpectationFallsBackToRaisedError(t *testing.T) {
	u := NewMessagesExpectation().Containing("timeout")
	sink := &RecordingSink{}
	u.Assert(&Outcome{Err: errors.New("dependency timeout exceeded")}, sink)
	assert.True(t, sink.OK())
}

func TestMessagesExpectationIgnoresSuccessfulResponseBody(t *testing.T) {
	u := NewMessagesExpectation().Containing("is required")
	sink := &RecordingSink{}
	u.Assert(&Outcome{Response: response(200, `{"errors":{"name":["is required"]}}`)}, sink)
	require.Len(t, sink.Failures(), 1)
	assert.Contains(t, sink.Failures()[0], "none was found")
}

func TestMessagesExpectationReportsNoMatch(t *testing.T) {
	u := NewMessagesExpectation().Containing("is required")
	sink := &RecordingSink{}
	u.Assert(&Outcome{Response: response(404, `{"errors":{"name":["too long"]}}`)}, sink)
	require.Len(t, sink.Failures(), 1)
	assert.Contains(t, sink.Failures()[0], `containing "is required"`)
}

func TestMessagesExpectationStructured(t *testing.T) {
	u := NewMessagesExpectation().Structured(NewFieldError("name", "is required"))
	sink := &RecordingSink{}
	u.Assert(&Outcome{Response: response(404, `{"errors":{"name":["is required"]}}`)}, sink)
	assert.True(t, sink.OK())
}

func TestMessagesExpectationStructuredMismatchReportsOnce(t *testing.T) {
	u := NewMessagesExpectation().Structured(NewFieldError("name", "is required"))
	sink := &RecordingSink{}
	u.Assert(&Outcome{Response: response(404, `{"errors":{"email":["is invalid"]}}`)}, sink)
	require.Len(t, sink.Failures(), 1)
	assert.Contains(t, sink.Failures()[0], "did not match")
}

func TestMessagesExpectationExtensionCanSupplyMatch(t *testing.T) {
	u := NewMessagesExpectation().Containing("weird shape")
	u.Extend(func(o *Outcome, s Sink) { u.MarkMatched() })
	sink := &RecordingSink{}
	u.Assert(&Outcome{Response: response(500, `"weird shape"`)}, sink)
	assert.True(t, sink.OK())
}

func TestMessagesExpectationResetClearsMatchState(t *testing.T) {
	u := NewMessagesExpectation().Containing("is required")
	sink := &RecordingSink{}
	u.Assert(&Outcome{Response: response(404, `{"errors":{"name":["is required"]}}`)}, sink)
	require.True(t, sink.OK())
	u.Reset()

	u.Assert(&Outcome{Response: response(404, `{}`)}, sink)
	assert.False(t, sink.OK())
}

func TestValueExpectationComparesExplicitValue(t *testing.T) {
	u := NewValueExpectation().ExpectValue(map[string]interface{}{"id": "o-1"})
	o := &Outcome{}
	o.SetValue(struct {
		ID string `json:"id"`
	}{ID: "o-1"})
	sink := &RecordingSink{}
	u.Assert(o, sink)
	assert.True(t, sink.OK())
}

func TestValueExpectationPrefersExplicitValueOverBody(t *testing.T) {
	u := NewValueExpectation().ExpectValue(map[string]interface{}{"id": "from-value"})
	o := &Outcome{Response: response(200, `{"id":"from-body"}`)}
	o.SetValue(map[string]interface{}{"id": "from-value"})
	sink := &RecordingSink{}
	u.Assert(o, sink)
	assert.True(t, sink.OK())
}

func TestValueExpectationFallsBackToResponseBody(t *testing.T) {
	u := NewValueExpectation().ExpectValue(map[string]interface{}{"id": "o-1"})
	sink := &RecordingSink{}
	u.Assert(&Outcome{Response: response(200, `{"id":"o-1"}`)}, sink)
	assert.True(t, sink.OK())
}

func TestValueExpectationFailsWithoutSubject(t *testing.T) {
	u := NewValueExpectation().ExpectValue(map[string]interface{}{"id": "o-1"})
	sink := &RecordingSink{}
	u.Assert(&Outcome{}, sink)
	require.Len(t, sink.Failures(), 1)
	assert.Contains(t, sink.Failures()[0], "produced no value")
}

func TestValueExpectationReportsDifferences(t *testing.T) {
	u := NewValueExpectation().ExpectValue(map[string]interface{}{"id": "o-1", "total": 9.5})
	sink := &RecordingSink{}
	u.Assert(&Outcome{Response: response(200, `{"id":"o-2","total":9.5}`)}, sink)
	require.Len(t, sink.Failures(), 1)
	assert.Contains(t, sink.Failures()[0], "id: expected")
}

func TestValueExpectationIgnoresPaths(t *testing.T) {
	u := NewValueExpectation().
		ExpectValue(map[string]interface{}{"id": "o-1", "updatedAt": "x"}).
		Ignoring("updatedAt")
	sink := &RecordingSink{}
	u.Assert(&Outcome{Response: response(200, `{"id":"o-1","updatedAt":"y"}`)}, sink)
	assert.True(t, sink.OK())
}

func TestValueExpectationExpectNil(t *testing.T) {
	u := NewValueExpectation().ExpectNil()
	sink := &RecordingSink{}
	u.Assert(&Outcome{}, sink)
	assert.True(t, sink.OK())

	o := &Outcome{}
	o.SetValue(map[string]interface{}{"id": "x"})
	u.Assert(o, sink)
	assert.False(t, sink.OK())
}

func TestValueExpectationExpectNilAcceptsExplicitNull(t *testing.T) {
	u := NewValueExpectation().ExpectNil()
	o := &Outcome{}
	o.SetValue(nil)
	sink := &RecordingSink{}
	u.Assert(o, sink)
	assert.True(t, sink.OK())
}

func TestValueExpectationRejectsConflictingConfig(t *testing.T) {
	require.Panics(t, func() { NewValueExpectation().ExpectNil().ExpectValue(1) })
	require.Panics(t, func() { NewValueExpectation().ExpectValue(1).ExpectNil() })
}
