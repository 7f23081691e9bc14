package harness

import (
	"github.com/intraplane/hosttest/expect"
)

// expectState is the expectation surface shared by all testers. Each
// tester embeds it and wraps its methods so fluent chains keep the
// concrete tester type.
type expectState struct {
	arranger *expect.Arranger
}

func newExpectState() expectState {
	return expectState{arranger: expect.NewArranger()}
}

func (e *expectState) errorUnit() *expect.ErrorExpectation {
	return expect.Unit(e.arranger, expect.KindError, expect.NewErrorExpectation)
}

func (e *expectState) statusUnit() *expect.StatusExpectation {
	return expect.Unit(e.arranger, expect.KindStatus, expect.NewStatusExpectation)
}

func (e *expectState) contractUnit() *expect.ContractExpectation {
	return expect.Unit(e.arranger, expect.KindContract, expect.NewContractExpectation)
}

func (e *expectState) messagesUnit() *expect.MessagesExpectation {
	return expect.Unit(e.arranger, expect.KindMessages, expect.NewMessagesExpectation)
}

func (e *expectState) valueUnit() *expect.ValueExpectation {
	return expect.Unit(e.arranger, expect.KindValue, expect.NewValueExpectation)
}

func (e *expectState) eventsUnit() *expect.EventsExpectation {
	return expect.Unit(e.arranger, expect.KindEvents, expect.NewEventsExpectation)
}

func (e *expectState) logsUnit() *expect.LogsExpectation {
	return expect.Unit(e.arranger, expect.KindLogs, expect.NewLogsExpectation)
}

func (e *expectState) extend(kind expect.Kind, fn expect.Extension) {
	e.unitFor(kind).Extend(fn)
}

func (e *expectState) skipBase(kind expect.Kind) {
	e.unitFor(kind).SkipBaseAssertion()
}

// unitFor materializes the unit for kind so Extend and
// SkipBaseAssertion work even before any base configuration.
func (e *expectState) unitFor(kind expect.Kind) expect.Expectation {
	switch kind {
	case expect.KindError:
		return e.errorUnit()
	case expect.KindStatus:
		return e.statusUnit()
	case expect.KindContract:
		return e.contractUnit()
	case expect.KindMessages:
		return e.messagesUnit()
	case expect.KindValue:
		return e.valueUnit()
	case expect.KindEvents:
		return e.eventsUnit()
	case expect.KindLogs:
		return e.logsUnit()
	default:
		panic("harness: unknown expectation kind")
	}
}

// Arranger exposes the tester's arranger for advanced configuration.
func (e *expectState) Arranger() *expect.Arranger { return e.arranger }
