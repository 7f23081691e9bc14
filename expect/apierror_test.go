package expect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchAPIErrorsOrderIndependent(t *testing.T) {
	expected := []APIError{
		NewFieldError("name", "is required"),
		NewFieldError("email", "is invalid"),
	}
	actual := []APIError{
		NewFieldError("email", "is invalid"),
		NewFieldError("name", "is required"),
	}
	ok, detail := MatchAPIErrors(expected, actual)
	assert.True(t, ok)
	assert.Empty(t, detail)
}

func TestMatchAPIErrorsCountSensitive(t *testing.T) {
	expected := []APIError{NewAPIError("boom")}
	actual := []APIError{NewAPIError("boom"), NewAPIError("boom")}
	ok, detail := MatchAPIErrors(expected, actual)
	assert.False(t, ok)
	assert.Contains(t, detail, "found but not expected")
	assert.Contains(t, detail, "boom")
}

func TestMatchAPIErrorsConsumesEachActualOnce(t *testing.T) {
	expected := []APIError{NewAPIError("boom"), NewAPIError("boom")}
	actual := []APIError{NewAPIError("boom")}
	ok, detail := MatchAPIErrors(expected, actual)
	assert.False(t, ok)
	assert.Contains(t, detail, "expected but not found")
}

func TestMatchAPIErrorsFieldRules(t *testing.T) {
	// Both fields defined and differing: no match.
	ok, _ := MatchAPIErrors(
		[]APIError{NewFieldError("name", "is required")},
		[]APIError{NewFieldError("email", "is required")})
	assert.False(t, ok)

	// Only one side scoped to a field: message equality is enough.
	ok, _ = MatchAPIErrors(
		[]APIError{NewAPIError("is required")},
		[]APIError{NewFieldError("name", "is required")})
	assert.True(t, ok)

	ok, _ = MatchAPIErrors(
		[]APIError{NewFieldError("name", "is required")},
		[]APIError{NewAPIError("is required")})
	assert.True(t, ok)
}

func TestMatchAPIErrorsEmptyBothSides(t *testing.T) {
	ok, detail := MatchAPIErrors(nil, nil)
	assert.True(t, ok)
	assert.Empty(t, detail)
}

func TestParseAPIErrorsUnderErrorsMember(t *testing.T) {
	got := ParseAPIErrors([]byte(`{"errors":{"name":["is required","too short"],"email":["is invalid"]}}`))
	want := []APIError{
		NewFieldError("email", "is invalid"),
		NewFieldError("name", "is required"),
		NewFieldError("name", "too short"),
	}
	assert.Equal(t, want, got)
}

func TestParseAPIErrorsAtRoot(t *testing.T) {
	got := ParseAPIErrors([]byte(`{"name":["is required"]}`))
	require.Len(t, got, 1)
	assert.Equal(t, "name", got[0].Field.StringValue())
	assert.Equal(t, "is required", got[0].Message)
}

func TestParseAPIErrorsStringMessage(t *testing.T) {
	got := ParseAPIErrors([]byte(`{"errors":"not found"}`))
	require.Len(t, got, 1)
	assert.False(t, got[0].Field.IsDefined())
	assert.Equal(t, "not found", got[0].Message)
}

func TestParseAPIErrorsToleratesGarbage(t *testing.T) {
	assert.Nil(t, ParseAPIErrors([]byte(`not json at all`)))
	assert.Nil(t, ParseAPIErrors([]byte(`[1,2,3]`)))
	assert.Nil(t, ParseAPIErrors(nil))
	assert.Empty(t, ParseAPIErrors([]byte(`{"count":3}`)))
}

func TestAPIErrorString(t *testing.T) {
	assert.Equal(t, "name: is required", NewFieldError("name", "is required").String())
	assert.Equal(t, "is required", NewAPIError("is required").String())
}
