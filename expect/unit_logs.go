package expect

import "fmt"

// LogsExpectation asserts that expected fragments appear in the run's
// captured log output.
type LogsExpectation struct {
	unitBase
	fragments []string
}

func NewLogsExpectation() *LogsExpectation {
	return &LogsExpectation{unitBase: newUnitBase(KindLogs, priorityLogs)}
}

// Containing requires each fragment to appear, ignoring case, in at
// least one captured log line.
func (u *LogsExpectation) Containing(fragments ...string) *LogsExpectation {
	u.fragments = append(u.fragments, fragments...)
	return u
}

func (u *LogsExpectation) Assert(o *Outcome, s Sink) {
	u.run(o, s, func() { u.assertBase(o, s) })
}

func (u *LogsExpectation) assertBase(o *Outcome, s Sink) {
	if len(u.fragments) == 0 {
		return
	}
	if len(o.Logs) == 0 {
		s.Fail("log expectations were configured but no log output was captured")
		return
	}
	for _, fragment := range u.fragments {
		found := false
		for _, line := range o.Logs {
			if containsFold(line, fragment) {
				found = true
				break
			}
		}
		if !found {
			s.Fail(fmt.Sprintf("no captured log line contains %q", fragment))
		}
	}
}

func (u *LogsExpectation) Reset() {}
