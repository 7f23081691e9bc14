package compare

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

type testOrder struct {
	ID    string     `json:"id"`
	Total float64    `json:"total"`
	Items []testItem `json:"items"`
}

type testItem struct {
	Name string `json:"name"`
	At   string `json:"at"`
}

func mustCompare(t *testing.T, expected, actual interface{}, ignore ...string) Result {
	t.Helper()
	result, err := Default.Compare(expected, actual, ignore)
	require.NoError(t, err)
	return result
}

func TestCompareEqualValues(t *testing.T) {
	a := testOrder{ID: "o-1", Total: 9.5, Items: []testItem{{Name: "x", At: "t1"}}}
	b := map[string]interface{}{
		"id":    "o-1",
		"total": 9.5,
		"items": []map[string]interface{}{{"name": "x", "at": "t1"}},
	}
	result := mustCompare(t, a, b)
	assert.False(t, result.HasDifferences())
	assert.Equal(t, "no differences", result.Describe())
}

func TestCompareReportsScalarMismatch(t *testing.T) {
	result := mustCompare(t,
		map[string]interface{}{"name": "a"},
		map[string]interface{}{"name": "b"})
	want := []Difference{{Path: "name", Expected: `"a"`, Actual: `"b"`}}
	if diff := cmp.Diff(want, result.Differences); diff != "" {
		t.Errorf("unexpected differences (-want +got):\n%s", diff)
	}
}

func TestCompareIgnoresNamedField(t *testing.T) {
	a := map[string]interface{}{"id": "x", "timestamp": "2024-01-01T00:00:00Z"}
	b := map[string]interface{}{"id": "x", "timestamp": "2024-06-01T12:00:00Z"}
	assert.True(t, mustCompare(t, a, b).HasDifferences())
	assert.False(t, mustCompare(t, a, b, "timestamp").HasDifferences())
}

func TestCompareIgnoreAppliesToMissingAndExtraKeys(t *testing.T) {
	a := map[string]interface{}{"id": "x", "etag": "1"}
	b := map[string]interface{}{"id": "x", "rev": 3}
	result := mustCompare(t, a, b, "etag", "rev")
	assert.False(t, result.HasDifferences())
}

func TestCompareNestedPathRendering(t *testing.T) {
	a := testOrder{ID: "o-1", Items: []testItem{{Name: "x", At: "t"}, {Name: "y", At: "t"}}}
	b := testOrder{ID: "o-1", Items: []testItem{{Name: "x", At: "t"}, {Name: "z", At: "t"}}}
	result := mustCompare(t, a, b)
	want := []Difference{{Path: "items[1].name", Expected: `"y"`, Actual: `"z"`}}
	if diff := cmp.Diff(want, result.Differences); diff != "" {
		t.Errorf("unexpected differences (-want +got):\n%s", diff)
	}
}

func TestCompareArrayCountMismatchStillWalksPrefix(t *testing.T) {
	a := map[string]interface{}{"items": []string{"a", "b", "c"}}
	b := map[string]interface{}{"items": []string{"a", "x"}}
	result := mustCompare(t, a, b)
	require.Len(t, result.Differences, 2)
	assert.Equal(t, "items", result.Differences[0].Path)
	assert.Equal(t, "array of 3", result.Differences[0].Expected)
	assert.Equal(t, "array of 2", result.Differences[0].Actual)
	assert.Equal(t, "items[1]", result.Differences[1].Path)
}

func TestCompareKeySetMismatch(t *testing.T) {
	a := map[string]interface{}{"id": "x", "name": "n"}
	b := map[string]interface{}{"id": "x", "label": "n"}
	result := mustCompare(t, a, b)
	require.Len(t, result.Differences, 2)
	assert.Equal(t, Difference{Path: "name", Expected: `"n"`, Actual: "(none)"}, result.Differences[0])
	assert.Equal(t, Difference{Path: "label", Expected: "(none)", Actual: `"n"`}, result.Differences[1])
}

func TestCompareTypeMismatch(t *testing.T) {
	result := mustCompare(t,
		map[string]interface{}{"v": 1},
		map[string]interface{}{"v": "1"})
	require.Len(t, result.Differences, 1)
	assert.Equal(t, "v", result.Differences[0].Path)
}

func TestCompareAccumulatesAllDifferences(t *testing.T) {
	a := map[string]interface{}{"x": 1, "y": 2, "z": 3}
	b := map[string]interface{}{"x": 9, "y": 8, "z": 3}
	result := mustCompare(t, a, b)
	assert.Len(t, result.Differences, 2)
	assert.Contains(t, result.Describe(), "found 2 difference(s):")
	assert.Contains(t, result.Describe(), "x: expected 1, actual 9")
	assert.Contains(t, result.Describe(), "y: expected 2, actual 8")
}

func TestCompareIgnoreAllIndices(t *testing.T) {
	a := testOrder{Items: []testItem{{Name: "x", At: "t1"}, {Name: "y", At: "t2"}}}
	b := testOrder{Items: []testItem{{Name: "x", At: "u1"}, {Name: "y", At: "u2"}}}
	assert.True(t, mustCompare(t, a, b).HasDifferences())
	assert.False(t, mustCompare(t, a, b, "items[*].at").HasDifferences())
}

func TestCompareIgnoreSpecificIndex(t *testing.T) {
	a := testOrder{Items: []testItem{{Name: "x", At: "t1"}, {Name: "y", At: "t2"}}}
	b := testOrder{Items: []testItem{{Name: "x", At: "u1"}, {Name: "y", At: "t2"}}}
	assert.False(t, mustCompare(t, a, b, "items[0].at").HasDifferences())
	assert.True(t, mustCompare(t, a, b, "items[1].at").HasDifferences())
}

func TestCompareIgnoreSkipsWholeSubtree(t *testing.T) {
	a := map[string]interface{}{"id": "x", "meta": map[string]interface{}{"a": 1, "b": 2}}
	b := map[string]interface{}{"id": "x", "meta": map[string]interface{}{"a": 9}}
	assert.False(t, mustCompare(t, a, b, "meta").HasDifferences())
}

func TestCompareRootScalar(t *testing.T) {
	result := mustCompare(t, 1, 2)
	require.Len(t, result.Differences, 1)
	assert.Equal(t, "(root)", result.Differences[0].Path)
}

func TestCompareValuesAcceptsCanonicalInput(t *testing.T) {
	exp := ldvalue.Parse([]byte(`{"a":[1,2]}`))
	act := ldvalue.Parse([]byte(`{"a":[1,3]}`))
	result := Default.CompareValues(exp, act, nil)
	require.Len(t, result.Differences, 1)
	assert.Equal(t, "a[1]", result.Differences[0].Path)
}

func TestCanonicalizePassthrough(t *testing.T) {
	v, err := Default.Canonicalize([]byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, ldvalue.ObjectType, v.Type())

	v, err = Default.Canonicalize(nil)
	require.NoError(t, err)
	assert.True(t, v.IsNull())

	v, err = Default.Canonicalize([]byte(`not json`))
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestCompareRejectsUnserializableValue(t *testing.T) {
	_, err := Default.Compare(func() {}, 1, nil)
	assert.Error(t, err)
}
