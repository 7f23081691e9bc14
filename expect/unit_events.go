package expect

import (
	"fmt"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/intraplane/hosttest/compare"
	"github.com/intraplane/hosttest/events"
	"github.com/intraplane/hosttest/wildcard"
)

// ExpectedEvent describes one event that should have been published:
// where it went and how its identity members should look. Source,
// Subject and Action are wildcard patterns; the bare multi token
// accepts even an absent member, and a pattern with no tokens is an
// exact match. An undefined Source and empty Subject or Action are
// simply not checked.
type ExpectedEvent struct {
	Destination string
	Source      ldvalue.OptionalString
	Subject     string
	Action      string

	// Payload, when non-nil, is structurally compared against the whole
	// captured envelope.
	Payload interface{}

	// Exclude lists extra payload paths to skip, on top of the volatile
	// defaults.
	Exclude []string
}

// volatilePaths are envelope members excluded from payload comparison:
// run-variant identity plus the members matched separately.
var volatilePaths = []string{
	"id", "correlationId", "time", "etag", "key",
	"source", "subject", "action", "type",
}

// EventsExpectation asserts on the events captured during the run. With
// no other configuration it requires that nothing was published at all.
type EventsExpectation struct {
	unitBase
	records    []ExpectedEvent
	expectAny  bool
	expectNone bool
	exclude    []string
	comparer   compare.Comparer
}

func NewEventsExpectation() *EventsExpectation {
	return &EventsExpectation{unitBase: newUnitBase(KindEvents, priorityEvents), comparer: compare.Default}
}

// WithSerializer replaces the serializer used for payload comparison.
func (u *EventsExpectation) WithSerializer(ser compare.Serializer) *EventsExpectation {
	u.comparer = compare.NewComparer(ser)
	return u
}

// Record appends one expected publication. Records for the same
// destination match captured events in order.
func (u *EventsExpectation) Record(rec ExpectedEvent) *EventsExpectation {
	if u.expectAny || u.expectNone {
		panic("events expectation: expected records cannot be combined with ExpectAtLeastOne or ExpectNone")
	}
	u.records = append(u.records, rec)
	return u
}

// Excluding adds payload paths skipped in every record's comparison,
// on top of the volatile defaults and the record's own exclusions.
func (u *EventsExpectation) Excluding(paths ...string) *EventsExpectation {
	u.exclude = append(u.exclude, paths...)
	return u
}

// ExpectAtLeastOne requires that at least one event was published,
// anywhere.
func (u *EventsExpectation) ExpectAtLeastOne() *EventsExpectation {
	if len(u.records) > 0 || u.expectNone {
		panic("events expectation: ExpectAtLeastOne cannot be combined with records or ExpectNone")
	}
	u.expectAny = true
	return u
}

// ExpectNone requires that nothing was published. This is also the
// default when no records are configured.
func (u *EventsExpectation) ExpectNone() *EventsExpectation {
	if len(u.records) > 0 || u.expectAny {
		panic("events expectation: ExpectNone cannot be combined with records or ExpectAtLeastOne")
	}
	u.expectNone = true
	return u
}

func (u *EventsExpectation) Assert(o *Outcome, s Sink) {
	u.run(o, s, func() { u.assertBase(o, s) })
}

func (u *EventsExpectation) assertBase(o *Outcome, s Sink) {
	captured := map[string][]events.Envelope{}
	var dests []string
	if o.Events != nil {
		captured = o.Events.Snapshot()
		dests = o.Events.Destinations()
	}
	total := 0
	for _, list := range captured {
		total += len(list)
	}
	switch {
	case len(u.records) > 0:
		u.assertRecords(captured, dests, s)
	case u.expectAny:
		if total == 0 {
			s.Fail("expected at least one published event but none were captured")
		}
	default:
		if total > 0 {
			s.Fail(fmt.Sprintf("expected no published events but captured %d on %s",
				total, describeDestinations(captured, dests)))
		}
	}
}

func (u *EventsExpectation) assertRecords(captured map[string][]events.Envelope, dests []string, s Sink) {
	expected := map[string][]ExpectedEvent{}
	var order []string
	for _, rec := range u.records {
		dest := rec.Destination
		if dest == "" {
			dest = events.DefaultDestination
		}
		if _, seen := expected[dest]; !seen {
			order = append(order, dest)
		}
		expected[dest] = append(expected[dest], rec)
	}
	for _, dest := range order {
		recs := expected[dest]
		got, ok := captured[dest]
		if !ok {
			s.Fail(fmt.Sprintf("expected %d event(s) on destination %q but none were captured", len(recs), dest))
			continue
		}
		if len(got) != len(recs) {
			s.Equal(len(recs), len(got), fmt.Sprintf("event count on destination %q", dest))
			continue
		}
		for i, rec := range recs {
			u.assertEvent(fmt.Sprintf("%s[%d]", dest, i), rec, got[i], s)
		}
	}
	for _, dest := range dests {
		if _, ok := expected[dest]; !ok {
			s.Fail(fmt.Sprintf("captured %d unexpected event(s) on destination %q", len(captured[dest]), dest))
		}
	}
}

func (u *EventsExpectation) assertEvent(label string, rec ExpectedEvent, got events.Envelope, s Sink) {
	if rec.Source.IsDefined() && !matchMember(rec.Source.StringValue(), got.Source) {
		s.Fail(fmt.Sprintf("event %s: source %q does not match %q", label, got.Source, rec.Source.StringValue()))
	}
	if rec.Subject != "" && !matchMember(rec.Subject, got.Subject) {
		s.Fail(fmt.Sprintf("event %s: subject %q does not match %q", label, got.Subject, rec.Subject))
	}
	if rec.Action != "" && !matchMember(rec.Action, got.Action) {
		s.Fail(fmt.Sprintf("event %s: action %q does not match %q", label, got.Action, rec.Action))
	}
	if rec.Payload == nil {
		return
	}
	ignore := append(append([]string(nil), volatilePaths...), u.exclude...)
	ignore = append(ignore, rec.Exclude...)
	result, err := u.comparer.Compare(rec.Payload, got, ignore)
	if err != nil {
		s.Fail(fmt.Sprintf("event %s: comparing payload: %v", label, err))
		return
	}
	if result.HasDifferences() {
		s.Fail(fmt.Sprintf("event %s payload mismatch: %s", label, result.Describe()))
	}
}

// matchMember applies the wildcard rule to one identity member. The
// bare multi token short-circuits before the value is looked at, so it
// accepts an absent member too.
func matchMember(pattern, value string) bool {
	if value == "" {
		return pattern == string(wildcard.Multi)
	}
	return wildcard.Match(pattern, value)
}

func describeDestinations(captured map[string][]events.Envelope, dests []string) string {
	parts := make([]string, 0, len(dests))
	for _, dest := range dests {
		parts = append(parts, fmt.Sprintf("%s(%d)", dest, len(captured[dest])))
	}
	return strings.Join(parts, ", ")
}

func (u *EventsExpectation) Reset() {}
