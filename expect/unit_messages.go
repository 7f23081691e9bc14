package expect

import "fmt"

// MessagesExpectation asserts that a failed invocation reported the
// expected error text or structured api errors. Response bodies are
// only consulted when a transport response exists with a non-success
// status; when nothing was parsed from a body, the raised error's own
// message is the fallback candidate for a contains match.
type MessagesExpectation struct {
	unitBase
	contains string
	expected []APIError

	matched  bool
	reported bool
}

func NewMessagesExpectation() *MessagesExpectation {
	return &MessagesExpectation{unitBase: newUnitBase(KindMessages, priorityMessages)}
}

// Containing requires some reported error message to contain fragment,
// ignoring case.
func (u *MessagesExpectation) Containing(fragment string) *MessagesExpectation {
	u.contains = fragment
	return u
}

// Structured requires the reported api errors to pair one-to-one with
// errs.
func (u *MessagesExpectation) Structured(errs ...APIError) *MessagesExpectation {
	u.expected = append(u.expected, errs...)
	return u
}

// MarkMatched records that an acceptable match was found, satisfying
// the end-of-run check. Extensions call this when they match the error
// surface in a way the base check does not understand.
func (u *MessagesExpectation) MarkMatched() { u.matched = true }

func (u *MessagesExpectation) configured() bool {
	return u.contains != "" || len(u.expected) > 0
}

func (u *MessagesExpectation) Assert(o *Outcome, s Sink) {
	u.run(o, s, func() { u.assertBase(o, s) })
	if u.configured() && !u.matched && !u.reported {
		if u.contains != "" {
			s.Fail(fmt.Sprintf("expected an error message containing %q but none was found", u.contains))
		} else {
			s.Fail("expected api errors but none were reported")
		}
	}
}

func (u *MessagesExpectation) assertBase(o *Outcome, s Sink) {
	if !u.configured() {
		return
	}
	var actual []APIError
	if o.Response != nil && !o.Response.Succeeded() {
		actual = ParseAPIErrors(o.Response.Body)
	}
	if len(u.expected) > 0 {
		ok, detail := MatchAPIErrors(u.expected, actual)
		if ok {
			u.matched = true
		} else {
			s.Fail(detail)
			u.reported = true
		}
		return
	}
	for _, a := range actual {
		if containsFold(a.Message, u.contains) {
			u.matched = true
			return
		}
	}
	if len(actual) == 0 && o.Err != nil && containsFold(o.Err.Error(), u.contains) {
		u.matched = true
	}
}

func (u *MessagesExpectation) Reset() {
	u.matched = false
	u.reported = false
}
