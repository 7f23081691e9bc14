// Package expect implements the expectation units that assert on an
// invocation's outcome, and the arranger that runs them as a group.
package expect

import "strings"

// Kind identifies each expectation unit an Arranger can hold. The set
// is closed: an Arranger keeps at most one unit per kind.
type Kind int

const (
	KindError Kind = iota
	KindStatus
	KindContract
	KindMessages
	KindValue
	KindEvents
	KindLogs
)

func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindStatus:
		return "status"
	case KindContract:
		return "contract"
	case KindMessages:
		return "messages"
	case KindValue:
		return "value"
	case KindEvents:
		return "events"
	case KindLogs:
		return "logs"
	default:
		return "unknown"
	}
}

// Units run in ascending priority: error and status checks come first
// so content mismatches are reported against an already-diagnosed run.
const (
	priorityError    = 10
	priorityStatus   = 20
	priorityContract = 30
	priorityMessages = 40
	priorityValue    = 50
	priorityEvents   = 60
	priorityLogs     = 70
)

// Extension is caller-supplied assertion logic attached to a unit. It
// runs after the unit's base check.
type Extension func(o *Outcome, s Sink)

// Expectation is one assertion unit. Configuration accumulates through
// the unit's own methods and survives Reset; only run-scoped match
// tracking is cleared between runs.
type Expectation interface {
	Kind() Kind
	Title() string
	Priority() int

	// Assert checks the outcome against the unit's configuration,
	// reporting every mismatch to the sink.
	Assert(o *Outcome, s Sink)

	// Reset clears run-scoped match tracking, leaving configuration in
	// place so the owning tester can run again.
	Reset()

	// Extend appends assertion logic to run after the base check.
	Extend(fn Extension)

	// SkipBaseAssertion suppresses the unit's own check, leaving only
	// its extensions to run.
	SkipBaseAssertion()
}

// unitBase carries the shape every unit shares.
type unitBase struct {
	kind       Kind
	title      string
	priority   int
	skipBase   bool
	extensions []Extension
}

func newUnitBase(kind Kind, priority int) unitBase {
	return unitBase{kind: kind, title: kind.String(), priority: priority}
}

func (b *unitBase) Kind() Kind    { return b.kind }
func (b *unitBase) Title() string { return b.title }
func (b *unitBase) Priority() int { return b.priority }

func (b *unitBase) Extend(fn Extension) { b.extensions = append(b.extensions, fn) }
func (b *unitBase) SkipBaseAssertion() { b.skipBase = true }

// run applies the base check unless suppressed, then every extension in
// order.
func (b *unitBase) run(o *Outcome, s Sink, baseCheck func()) {
	if !b.skipBase {
		baseCheck()
	}
	for _, ext := range b.extensions {
		ext(o, s)
	}
}

// containsFold reports whether s contains substr, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
