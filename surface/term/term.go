// Package term provides a terminal surface. Output is append-only: status
// changes and tool activity print as colored lines, streamed response text
// prints incrementally as it accumulates, and section expansion is a no-op
// since a terminal cannot collapse what it already printed.
//
// Colors follow the usual conventions (yellow while running, green on
// completion, red on failure) and are suppressed automatically on non-TTY
// writers via fatih/color's NoColor handling.
package term

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"goa.design/agentview/surface"
)

type (
	// Surface renders agent progress to a terminal writer.
	Surface struct {
		w io.Writer
	}

	// status is the terminal status indicator.
	status struct {
		w io.Writer
	}

	// section prints its content indented under a colored label.
	section struct {
		w io.Writer
	}

	// area prints streamed response text incrementally.
	area struct {
		w    io.Writer
		prev string
	}
)

var (
	runningColor  = color.New(color.FgYellow, color.Bold)
	completeColor = color.New(color.FgGreen, color.Bold)
	errorColor    = color.New(color.FgRed, color.Bold)
	sectionColor  = color.New(color.FgCyan)
	codeColor     = color.New(color.Faint)
)

// New returns a terminal surface writing to w, typically os.Stdout.
func New(w io.Writer) *Surface {
	return &Surface{w: w}
}

// OpenStatus implements surface.Surface.
func (s *Surface) OpenStatus(label string, _ bool) surface.Status {
	runningColor.Fprintln(s.w, label)
	return &status{w: s.w}
}

// ResponseArea implements surface.Surface.
func (s *Surface) ResponseArea() surface.TextArea {
	return &area{w: s.w}
}

// Update implements surface.Status. The expansion flag has no meaning on an
// append-only terminal and is ignored.
func (st *status) Update(label string, state surface.State, _ bool) {
	c := runningColor
	switch state {
	case surface.StateComplete:
		c = completeColor
	case surface.StateError:
		c = errorColor
	}
	fmt.Fprintln(st.w)
	c.Fprintln(st.w, label)
}

// Write implements surface.Status.
func (st *status) Write(text string) {
	fmt.Fprintf(st.w, "  %s\n", text)
}

// OpenSection implements surface.Status.
func (st *status) OpenSection(label string, _ bool) surface.Section {
	sectionColor.Fprintf(st.w, "  %s\n", label)
	return &section{w: st.w}
}

// AppendText implements surface.Section.
func (sec *section) AppendText(text string) {
	fmt.Fprintf(sec.w, "    %s\n", text)
}

// AppendCode implements surface.Section.
func (sec *section) AppendCode(code string) {
	codeColor.Fprintf(sec.w, "    %s\n", code)
}

// SetExpanded implements surface.Section. No-op: printed output cannot be
// collapsed.
func (sec *section) SetExpanded(bool) {}

// Replace implements surface.TextArea. Successive calls print only the text
// that extends the previous content; diverging tails (the streaming cursor
// glyph) are erased with backspaces, which reach anything still on the
// current line. When the diverging tail spans a line boundary backspaces
// cannot reach it, so the new text is reprinted on a fresh line instead.
func (a *area) Replace(text string) {
	pr, tr := []rune(a.prev), []rune(text)
	i := 0
	for i < len(pr) && i < len(tr) && pr[i] == tr[i] {
		i++
	}
	if strings.ContainsRune(string(pr[i:]), '\n') {
		fmt.Fprint(a.w, "\n"+text)
		a.prev = text
		return
	}
	for j := len(pr); j > i; j-- {
		fmt.Fprint(a.w, "\b \b")
	}
	fmt.Fprint(a.w, string(tr[i:]))
	a.prev = text
}
