package harness

import (
	"fmt"
	"io"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/fatih/color"

	"github.com/intraplane/hosttest/expect"
)

// report is everything the tester prints about one run: what ran, how
// it ended, and the captured evidence.
type report struct {
	title    string
	repro    string
	failures []string
}

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	failColor   = color.New(color.FgRed, color.Bold)
	passColor   = color.New(color.FgGreen)
	dimColor    = color.New(color.FgHiBlack)
)

func (r *report) write(w io.Writer, h *Host, o *expect.Outcome) {
	headerColor.Fprintf(w, "[%s] %s\n", h.settings.Name, r.title)
	if len(r.failures) == 0 {
		passColor.Fprintln(w, "  PASSED")
	} else {
		failColor.Fprintf(w, "  FAILED (%d problem(s))\n", len(r.failures))
		for _, f := range r.failures {
			for _, line := range strings.Split(f, "\n") {
				fmt.Fprintf(w, "    %s\n", line)
			}
		}
	}
	if o.Response != nil {
		fmt.Fprintf(w, "  response: %d\n", o.Response.StatusCode)
		if len(o.Response.Body) > 0 {
			dimColor.Fprintf(w, "    %s\n", string(o.Response.Body))
		}
	}
	if o.Err != nil {
		fmt.Fprintf(w, "  error: %v\n", o.Err)
	}
	r.writeLogs(w, h)
	r.writeEvents(w, h)
	if r.repro != "" {
		dimColor.Fprintf(w, "  repro: %s\n", r.repro)
	}
}

func (r *report) writeLogs(w io.Writer, h *Host) {
	records := h.capture.Records()
	if len(records) == 0 {
		return
	}
	fmt.Fprintln(w, "  log:")
	for _, rec := range records {
		dimColor.Fprintf(w, "    %s %s\n", rec.Time.Format("15:04:05.000"), rec.String())
	}
}

func (r *report) writeEvents(w io.Writer, h *Host) {
	dests := h.events.Destinations()
	if len(dests) == 0 {
		return
	}
	fmt.Fprintln(w, "  events:")
	for _, dest := range dests {
		for i, e := range h.events.EventsFor(dest) {
			fmt.Fprintf(w, "    %s[%d] subject=%q action=%q\n", dest, i, e.Subject, e.Action)
		}
	}
}

// commandBuilder accumulates shell-escaped words for a repro line.
type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
