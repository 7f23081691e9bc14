// Package logging captures everything the code under test writes
// through its logger, so expectations can assert on log content.
package logging

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// CapturedLine is one log line retained by a Capture hook.
type CapturedLine struct {
	Time    time.Time
	Level   string
	Message string
}

// String renders the line the way expectations and reports see it:
// upper-cased level, then the message with its fields.
func (l CapturedLine) String() string {
	return strings.ToUpper(l.Level) + " " + l.Message
}

// Capture is a logrus hook that retains every entry written through the
// logger it is attached to. It is safe for concurrent loggers.
type Capture struct {
	lock  sync.Mutex
	lines []CapturedLine
}

func (c *Capture) Levels() []logrus.Level { return logrus.AllLevels }

func (c *Capture) Fire(entry *logrus.Entry) error {
	line := CapturedLine{
		Time:    entry.Time,
		Level:   entry.Level.String(),
		Message: renderEntry(entry),
	}
	c.lock.Lock()
	c.lines = append(c.lines, line)
	c.lock.Unlock()
	return nil
}

// renderEntry flattens an entry's fields into the message in sorted key
// order, so captured lines are stable.
func renderEntry(e *logrus.Entry) string {
	if len(e.Data) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteString(e.Message)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, e.Data[k])
	}
	return sb.String()
}

// Records returns a copy of everything captured so far.
func (c *Capture) Records() []CapturedLine {
	c.lock.Lock()
	defer c.lock.Unlock()
	return append([]CapturedLine(nil), c.lines...)
}

// Lines returns the rendered form of everything captured so far.
func (c *Capture) Lines() []string {
	records := c.Records()
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.String()
	}
	return out
}

// Reset discards everything captured so far.
func (c *Capture) Reset() {
	c.lock.Lock()
	c.lines = nil
	c.lock.Unlock()
}

// NewCapturedLogger returns a logger whose output goes only to the
// returned Capture.
func NewCapturedLogger(level logrus.Level) (*logrus.Logger, *Capture) {
	capture := &Capture{}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(level)
	logger.AddHook(capture)
	return logger, capture
}
