// Package compare performs structural comparison of two values over a
// canonical JSON-like tree, accumulating every difference it finds
// rather than stopping at the first.
package compare

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/intraplane/hosttest/wildcard"
)

// Difference is one mismatched location between two trees.
type Difference struct {
	Path     string
	Expected string
	Actual   string
}

// Result holds every difference found in one comparison pass.
type Result struct {
	Differences []Difference
}

// HasDifferences reports whether the comparison found any mismatch.
func (r Result) HasDifferences() bool { return len(r.Differences) > 0 }

// Describe renders all differences, one per line, with the expected and
// actual value at each path.
func (r Result) Describe() string {
	if !r.HasDifferences() {
		return "no differences"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "found %d difference(s):", len(r.Differences))
	for _, d := range r.Differences {
		fmt.Fprintf(&sb, "\n  %s: expected %s, actual %s", d.Path, d.Expected, d.Actual)
	}
	return sb.String()
}

// Comparer canonicalizes values through a Serializer and walks the
// resulting trees in lock step.
type Comparer struct {
	ser Serializer
}

// NewComparer returns a Comparer using ser, or JSONSerializer when ser
// is nil.
func NewComparer(ser Serializer) Comparer {
	if ser == nil {
		ser = JSONSerializer{}
	}
	return Comparer{ser: ser}
}

// Default is a ready-to-use Comparer backed by JSONSerializer.
var Default = NewComparer(nil)

// Canonicalize converts v into the canonical tree form. Values that are
// already canonical, raw JSON, or nil pass through without
// re-serialization. Unparseable raw input degrades to null rather than
// failing.
func (c Comparer) Canonicalize(v interface{}) (ldvalue.Value, error) {
	switch t := v.(type) {
	case nil:
		return ldvalue.Null(), nil
	case ldvalue.Value:
		return t, nil
	case json.RawMessage:
		return ldvalue.Parse(t), nil
	case []byte:
		return ldvalue.Parse(t), nil
	}
	data, err := c.ser.Marshal(v)
	if err != nil {
		return ldvalue.Null(), fmt.Errorf("serializing %T for comparison: %w", v, err)
	}
	return ldvalue.Parse(data), nil
}

// Compare canonicalizes both values and walks them. Paths in
// ignorePaths are wildcard patterns (see the wildcard package) matched
// against each node's dot-and-bracket path from the root; a node whose
// path matches is skipped along with its entire subtree, so
// "items[2].at", "items[*].at" and plain "at" all work.
func (c Comparer) Compare(expected, actual interface{}, ignorePaths []string) (Result, error) {
	exp, err := c.Canonicalize(expected)
	if err != nil {
		return Result{}, err
	}
	act, err := c.Canonicalize(actual)
	if err != nil {
		return Result{}, err
	}
	return c.CompareValues(exp, act, ignorePaths), nil
}

// CompareValues walks two already-canonical trees in lock step,
// accumulating every difference.
func (c Comparer) CompareValues(expected, actual ldvalue.Value, ignorePaths []string) Result {
	w := walker{ignore: ignorePaths}
	w.compare("", expected, actual)
	return w.result
}

type walker struct {
	ignore []string
	result Result
}

func (w *walker) ignored(path string) bool {
	for _, pat := range w.ignore {
		if wildcard.Match(pat, path) {
			return true
		}
	}
	return false
}

func (w *walker) add(path, expected, actual string) {
	if path == "" {
		path = "(root)"
	}
	w.result.Differences = append(w.result.Differences, Difference{
		Path:     path,
		Expected: expected,
		Actual:   actual,
	})
}

func (w *walker) compare(path string, expected, actual ldvalue.Value) {
	if path != "" && w.ignored(path) {
		return
	}
	if expected.Type() != actual.Type() {
		w.add(path, render(expected), render(actual))
		return
	}
	switch expected.Type() {
	case ldvalue.NullType:
	case ldvalue.ObjectType:
		w.compareObjects(path, expected, actual)
	case ldvalue.ArrayType:
		w.compareArrays(path, expected, actual)
	default:
		if !expected.Equal(actual) {
			w.add(path, render(expected), render(actual))
		}
	}
}

// compareObjects requires the two key sets to be identical; a key
// present on only one side is a difference in itself.
func (w *walker) compareObjects(path string, expected, actual ldvalue.Value) {
	keys := expected.Keys()
	sort.Strings(keys)
	for _, k := range keys {
		childPath := childKey(path, k)
		av, ok := actual.TryGetByKey(k)
		if !ok {
			if !w.ignored(childPath) {
				w.add(childPath, render(expected.GetByKey(k)), "(none)")
			}
			continue
		}
		w.compare(childPath, expected.GetByKey(k), av)
	}
	extra := actual.Keys()
	sort.Strings(extra)
	for _, k := range extra {
		if _, ok := expected.TryGetByKey(k); ok {
			continue
		}
		childPath := childKey(path, k)
		if !w.ignored(childPath) {
			w.add(childPath, "(none)", render(actual.GetByKey(k)))
		}
	}
}

// compareArrays is order-sensitive. A length mismatch is recorded as a
// difference and the shared prefix is still walked, so one pass reports
// as much as it can.
func (w *walker) compareArrays(path string, expected, actual ldvalue.Value) {
	en, an := expected.Count(), actual.Count()
	if en != an {
		w.add(path, fmt.Sprintf("array of %d", en), fmt.Sprintf("array of %d", an))
	}
	n := en
	if an < n {
		n = an
	}
	for i := 0; i < n; i++ {
		w.compare(childIndex(path, i), expected.GetByIndex(i), actual.GetByIndex(i))
	}
}

func childKey(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func childIndex(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

func render(v ldvalue.Value) string {
	return v.JSONString()
}
