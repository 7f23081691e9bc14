package expect

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// APIError is one structured error reported by an endpoint: a message,
// optionally scoped to a named field.
type APIError struct {
	Field   ldvalue.OptionalString
	Message string
}

// NewAPIError returns an APIError with no field scope.
func NewAPIError(message string) APIError {
	return APIError{Message: message}
}

// NewFieldError returns an APIError scoped to field.
func NewFieldError(field, message string) APIError {
	return APIError{Field: ldvalue.NewOptionalString(field), Message: message}
}

func (e APIError) String() string {
	if e.Field.IsDefined() {
		return fmt.Sprintf("%s: %s", e.Field.StringValue(), e.Message)
	}
	return e.Message
}

// matches reports whether two errors agree: messages must be equal, and
// field names must be equal when both sides define one.
func (e APIError) matches(other APIError) bool {
	if e.Message != other.Message {
		return false
	}
	if e.Field.IsDefined() && other.Field.IsDefined() {
		return e.Field.StringValue() == other.Field.StringValue()
	}
	return true
}

// MatchAPIErrors pairs expected and actual errors greedily, consuming
// each actual at most once. It reports whether both sides paired
// completely and, if not, a description of what was left over on each
// side. Order never matters; counts always do.
func MatchAPIErrors(expected, actual []APIError) (bool, string) {
	used := make([]bool, len(actual))
	var unmatchedExpected []APIError
	for _, exp := range expected {
		found := false
		for i, act := range actual {
			if used[i] {
				continue
			}
			if exp.matches(act) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			unmatchedExpected = append(unmatchedExpected, exp)
		}
	}
	var unmatchedActual []APIError
	for i, act := range actual {
		if !used[i] {
			unmatchedActual = append(unmatchedActual, act)
		}
	}
	if len(unmatchedExpected) == 0 && len(unmatchedActual) == 0 {
		return true, ""
	}
	var sb strings.Builder
	sb.WriteString("api errors did not match")
	if len(unmatchedExpected) > 0 {
		sb.WriteString("\n  expected but not found:")
		for _, e := range unmatchedExpected {
			fmt.Fprintf(&sb, "\n    %s", e)
		}
	}
	if len(unmatchedActual) > 0 {
		sb.WriteString("\n  found but not expected:")
		for _, e := range unmatchedActual {
			fmt.Fprintf(&sb, "\n    %s", e)
		}
	}
	return false, sb.String()
}

// ParseAPIErrors interprets a response body as a map of field name to
// message list, either at the root or under an "errors" member. A
// plain string under "errors" becomes a single unscoped error. Bodies
// in any other shape, including unparseable ones, yield nil.
func ParseAPIErrors(body []byte) []APIError {
	v := ldvalue.Parse(body)
	if v.Type() != ldvalue.ObjectType {
		return nil
	}
	if errs, ok := v.TryGetByKey("errors"); ok {
		switch errs.Type() {
		case ldvalue.ObjectType:
			v = errs
		case ldvalue.StringType:
			return []APIError{NewAPIError(errs.StringValue())}
		}
	}
	keys := v.Keys()
	sort.Strings(keys)
	var out []APIError
	for _, field := range keys {
		switch messages := v.GetByKey(field); messages.Type() {
		case ldvalue.StringType:
			out = append(out, NewFieldError(field, messages.StringValue()))
		case ldvalue.ArrayType:
			for i := 0; i < messages.Count(); i++ {
				if m := messages.GetByIndex(i); m.Type() == ldvalue.StringType {
					out = append(out, NewFieldError(field, m.StringValue()))
				}
			}
		}
	}
	return out
}
