// Package tap emits test-anything-protocol output: a plan line followed
// by one ok/not ok line per check, with an indented diagnostic block on
// failure. The Reporter owns check sequencing and formatting; callers
// only supply a description and an outcome.
package tap

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Diagnostic lets failures describe themselves in the diagnostic block
// as a kind plus a description.
type Diagnostic interface {
	Diagnostic() (kind, description string)
}

// Reporter writes TAP output against a fixed plan. Every Ok, NotOk and
// Skip consumes exactly one slot of the plan; results past the declared
// plan are dropped.
type Reporter struct {
	out     io.Writer
	plan    int
	counter int
	failed  int

	bold  lipgloss.Style
	index lipgloss.Style
	bad   lipgloss.Style
	label lipgloss.Style
	dim   lipgloss.Style
}

// New declares a plan of n checks and prints the plan line.
func New(out io.Writer, n int) *Reporter {
	r := lipgloss.NewRenderer(out)
	rep := &Reporter{
		out:   out,
		plan:  n,
		bold:  r.NewStyle().Bold(true),
		index: r.NewStyle().Foreground(lipgloss.Color("6")),
		bad:   r.NewStyle().Foreground(lipgloss.Color("1")),
		label: r.NewStyle().Foreground(lipgloss.Color("2")),
		dim:   r.NewStyle().Faint(true),
	}
	fmt.Fprintln(out, rep.bold.Render(fmt.Sprintf("1..%d", n)))
	return rep
}

// Ok reports a passing check.
func (t *Reporter) Ok(description string) {
	if t.counter >= t.plan {
		return
	}
	t.counter++
	fmt.Fprintf(t.out, "%s %s - %s\n",
		t.bold.Render("ok"),
		t.index.Render(fmt.Sprintf("%d", t.counter)),
		description)
}

// Skip reports a check that could not run; it still consumes a plan slot.
func (t *Reporter) Skip(description string) {
	t.Ok(fmt.Sprintf("%s %s", description, t.dim.Render("# SKIP")))
}

// NotOk reports a failing check with a diagnostic block.
func (t *Reporter) NotOk(description string, err error) {
	if t.counter >= t.plan {
		return
	}
	t.counter++
	t.failed++
	fmt.Fprintf(t.out, "%s %s - %s\n",
		t.bad.Render("not ok"),
		t.index.Render(fmt.Sprintf("%d", t.counter)),
		description)

	kind, detail := "io", err.Error()
	var d Diagnostic
	if errors.As(err, &d) {
		kind, detail = d.Diagnostic()
	}
	fmt.Fprintln(t.out, "  ---")
	fmt.Fprintf(t.out, "  %s: %s\n", t.label.Render("kind"), kind)
	fmt.Fprintf(t.out, "  %s: %s\n", t.label.Render("description"), detail)
	fmt.Fprintln(t.out, "  ...")
}

// Result reports err as a failure, or a pass when err is nil.
func (t *Reporter) Result(description string, err error) {
	if err != nil {
		t.NotOk(description, err)
	} else {
		t.Ok(description)
	}
}

// Count returns the number of checks reported so far.
func (t *Reporter) Count() int {
	return t.counter
}

// Failed returns the number of failing checks reported so far.
func (t *Reporter) Failed() int {
	return t.failed
}
