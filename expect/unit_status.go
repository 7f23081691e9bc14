package expect

// StatusExpectation asserts the transport response's status code.
type StatusExpectation struct {
	unitBase
	code int
}

func NewStatusExpectation() *StatusExpectation {
	return &StatusExpectation{unitBase: newUnitBase(KindStatus, priorityStatus)}
}

// ExpectCode sets the required status code.
func (u *StatusExpectation) ExpectCode(code int) *StatusExpectation {
	u.code = code
	return u
}

func (u *StatusExpectation) Assert(o *Outcome, s Sink) {
	u.run(o, s, func() {
		if u.code == 0 {
			return
		}
		if o.Response == nil {
			panic("status expectation: no transport response was captured; status expectations apply only to transport-driven invocations")
		}
		s.Equal(u.code, o.Response.StatusCode, "unexpected response status")
	})
}

func (u *StatusExpectation) Reset() {}
