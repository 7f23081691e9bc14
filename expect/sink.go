package expect

import (
	"fmt"
	"sync"

	"github.com/stretchr/testify/assert"
)

// Sink receives assertion failures. Expectation units never panic on a
// mismatch; they report through the sink so a single run can surface
// every problem at once.
type Sink interface {
	Fail(message string)
	Equal(expected, actual interface{}, message string)
}

// TestingSink adapts a *testing.T (or anything else satisfying
// assert.TestingT) into a Sink, using non-fatal testify assertions.
type TestingSink struct {
	T assert.TestingT
}

func NewTestingSink(t assert.TestingT) TestingSink { return TestingSink{T: t} }

func (s TestingSink) Fail(message string) {
	assert.Fail(s.T, message)
}

func (s TestingSink) Equal(expected, actual interface{}, message string) {
	assert.Equal(s.T, expected, actual, message)
}

// RecordingSink accumulates failure messages in memory. It backs the
// library's own tests and the harness failure report.
type RecordingSink struct {
	lock     sync.Mutex
	failures []string
}

func (s *RecordingSink) Fail(message string) {
	s.lock.Lock()
	s.failures = append(s.failures, message)
	s.lock.Unlock()
}

func (s *RecordingSink) Equal(expected, actual interface{}, message string) {
	if !assert.ObjectsAreEqual(expected, actual) {
		s.Fail(fmt.Sprintf("%s: expected %+v, actual %+v", message, expected, actual))
	}
}

// Failures returns a copy of every failure recorded so far.
func (s *RecordingSink) Failures() []string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]string(nil), s.failures...)
}

// OK reports whether nothing failed.
func (s *RecordingSink) OK() bool { return len(s.Failures()) == 0 }
