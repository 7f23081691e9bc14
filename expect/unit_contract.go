package expect

import (
	"fmt"

	"github.com/intraplane/hosttest/contract"
)

// ContractExpectation validates the transport response against an
// OpenAPI document.
type ContractExpectation struct {
	unitBase
	validator *contract.Validator
	method    string
	path      string
}

func NewContractExpectation() *ContractExpectation {
	return &ContractExpectation{unitBase: newUnitBase(KindContract, priorityContract)}
}

// Against sets the document and the operation the response must
// satisfy.
func (u *ContractExpectation) Against(v *contract.Validator, method, path string) *ContractExpectation {
	u.validator = v
	u.method = method
	u.path = path
	return u
}

func (u *ContractExpectation) Assert(o *Outcome, s Sink) {
	u.run(o, s, func() {
		if u.validator == nil {
			return
		}
		if o.Response == nil {
			panic("contract expectation: no transport response was captured; contract expectations apply only to transport-driven invocations")
		}
		err := u.validator.ValidateResponse(u.method, u.path, o.Response.StatusCode, o.Response.Header, o.Response.Body)
		if err != nil {
			s.Fail(fmt.Sprintf("response does not satisfy the api contract: %v", err))
		}
	})
}

func (u *ContractExpectation) Reset() {}
