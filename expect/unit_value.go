package expect

import (
	"fmt"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/intraplane/hosttest/compare"
)

// ValueExpectation compares the invocation's produced value against an
// expected value using the structural comparer. The explicitly captured
// return value is preferred; when none was produced, a transport
// response body is the comparison subject.
type ValueExpectation struct {
	unitBase
	comparer    compare.Comparer
	producer    func() interface{}
	expectNil   bool
	ignorePaths []string
	configured  bool
}

func NewValueExpectation() *ValueExpectation {
	return &ValueExpectation{unitBase: newUnitBase(KindValue, priorityValue), comparer: compare.Default}
}

// WithSerializer replaces the serializer used to canonicalize both
// sides of the comparison.
func (u *ValueExpectation) WithSerializer(ser compare.Serializer) *ValueExpectation {
	u.comparer = compare.NewComparer(ser)
	return u
}

// ExpectValue sets a literal expected value.
func (u *ValueExpectation) ExpectValue(v interface{}) *ValueExpectation {
	return u.ExpectProduced(func() interface{} { return v })
}

// ExpectProduced sets a producer called at assertion time to obtain the
// expected value.
func (u *ValueExpectation) ExpectProduced(fn func() interface{}) *ValueExpectation {
	if u.expectNil {
		panic("value expectation: an expected value cannot be combined with ExpectNil")
	}
	u.producer = fn
	u.configured = true
	return u
}

// ExpectNil requires that the invocation produced no value, or an
// explicit null.
func (u *ValueExpectation) ExpectNil() *ValueExpectation {
	if u.producer != nil {
		panic("value expectation: ExpectNil cannot be combined with an expected value")
	}
	u.expectNil = true
	u.configured = true
	return u
}

// Ignoring adds comparison paths to skip. Paths follow the wildcard
// rules of the compare package.
func (u *ValueExpectation) Ignoring(paths ...string) *ValueExpectation {
	u.ignorePaths = append(u.ignorePaths, paths...)
	return u
}

func (u *ValueExpectation) Assert(o *Outcome, s Sink) {
	u.run(o, s, func() { u.assertBase(o, s) })
}

func (u *ValueExpectation) assertBase(o *Outcome, s Sink) {
	if !u.configured {
		return
	}
	subject, produced, err := u.subject(o)
	if err != nil {
		s.Fail(fmt.Sprintf("canonicalizing the produced value: %v", err))
		return
	}
	if u.expectNil {
		if produced && !subject.IsNull() {
			s.Fail(fmt.Sprintf("expected no produced value but got %s", subject.JSONString()))
		}
		return
	}
	if !produced {
		s.Fail("a value comparison was configured but the invocation produced no value")
		return
	}
	result, cmpErr := u.comparer.Compare(u.producer(), subject, u.ignorePaths)
	if cmpErr != nil {
		s.Fail(fmt.Sprintf("comparing the produced value: %v", cmpErr))
		return
	}
	if result.HasDifferences() {
		s.Fail("produced value mismatch: " + result.Describe())
	}
}

// subject picks the comparison subject: the explicitly captured return
// value wins over a transport-response body.
func (u *ValueExpectation) subject(o *Outcome) (ldvalue.Value, bool, error) {
	if o.HasValue {
		v, err := u.comparer.Canonicalize(o.Value)
		return v, true, err
	}
	if o.Response != nil && len(o.Response.Body) > 0 {
		return o.Response.BodyValue(), true, nil
	}
	return ldvalue.Null(), false, nil
}

func (u *ValueExpectation) Reset() {}
