package expect

import (
	"errors"
	"fmt"
)

// ErrorExpectation asserts on the invocation's raised error: either
// that a matching error was raised, or that the run succeeded outright.
// It runs before every other unit so content mismatches are reported
// against an already-diagnosed run.
type ErrorExpectation struct {
	unitBase
	wantError   bool
	wantSuccess bool
	target      error
	contains    string
}

func NewErrorExpectation() *ErrorExpectation {
	return &ErrorExpectation{unitBase: newUnitBase(KindError, priorityError)}
}

// ExpectError requires that the invocation raised an error.
func (u *ErrorExpectation) ExpectError() *ErrorExpectation {
	if u.wantSuccess {
		panic("error expectation: ExpectError cannot be combined with ExpectSuccess")
	}
	u.wantError = true
	return u
}

// Is additionally requires the raised error to match target per
// errors.Is.
func (u *ErrorExpectation) Is(target error) *ErrorExpectation {
	u.ExpectError()
	u.target = target
	return u
}

// Containing additionally requires the raised error's message to
// contain fragment, ignoring case.
func (u *ErrorExpectation) Containing(fragment string) *ErrorExpectation {
	u.ExpectError()
	u.contains = fragment
	return u
}

// ExpectSuccess requires that no error was raised and that any
// transport response carries a non-failure status.
func (u *ErrorExpectation) ExpectSuccess() *ErrorExpectation {
	if u.wantError {
		panic("error expectation: ExpectSuccess cannot be combined with ExpectError")
	}
	u.wantSuccess = true
	return u
}

func (u *ErrorExpectation) Assert(o *Outcome, s Sink) {
	u.run(o, s, func() { u.assertBase(o, s) })
}

func (u *ErrorExpectation) assertBase(o *Outcome, s Sink) {
	if u.wantSuccess {
		if o.Err != nil {
			s.Fail(fmt.Sprintf("expected success but an error was raised: %v", o.Err))
		}
		if o.Response != nil && !o.Response.Succeeded() {
			s.Fail(fmt.Sprintf("expected success but the response status was %d", o.Response.StatusCode))
		}
		return
	}
	if !u.wantError {
		return
	}
	if o.Err == nil {
		s.Fail("expected an error but none was raised")
		return
	}
	if u.target != nil && !errors.Is(o.Err, u.target) {
		s.Fail(fmt.Sprintf("raised error %q does not match %q", o.Err, u.target))
	}
	if u.contains != "" && !containsFold(o.Err.Error(), u.contains) {
		s.Fail(fmt.Sprintf("error message %q does not contain %q", o.Err.Error(), u.contains))
	}
}

func (u *ErrorExpectation) Reset() {}
