// Package record provides an in-memory surface implementation that captures
// every presentation side effect. It backs the adapter's own tests and is
// useful for headless runs where callers want the rendered structure without
// a UI.
package record

import "goa.design/agentview/surface"

type (
	// Surface records all presentation calls in order.
	Surface struct {
		// Statuses holds one entry per OpenStatus call.
		Statuses []*Status
		// Replaces holds every response area rewrite, in order.
		Replaces []string

		area textArea
	}

	// Status records the lifecycle of one status indicator.
	Status struct {
		// Label is the current status label.
		Label string
		// State is the current status state.
		State surface.State
		// Expanded is the current expansion state.
		Expanded bool
		// Writes holds all text lines written to the status detail area.
		Writes []string
		// Sections holds one entry per OpenSection call.
		Sections []*Section
	}

	// Section records the content of one expandable section.
	Section struct {
		// Label is the section label.
		Label string
		// Expanded is the current expansion state.
		Expanded bool
		// Texts holds prose content appended to the section.
		Texts []string
		// Codes holds preformatted content appended to the section.
		Codes []string
	}

	textArea struct {
		s *Surface
	}
)

// New returns an empty recording surface.
func New() *Surface {
	s := &Surface{}
	s.area.s = s
	return s
}

// OpenStatus implements surface.Surface.
func (s *Surface) OpenStatus(label string, expanded bool) surface.Status {
	st := &Status{Label: label, State: surface.StateRunning, Expanded: expanded}
	s.Statuses = append(s.Statuses, st)
	return st
}

// ResponseArea implements surface.Surface.
func (s *Surface) ResponseArea() surface.TextArea {
	return &s.area
}

// LastStatus returns the most recently opened status indicator, or nil if none
// was opened.
func (s *Surface) LastStatus() *Status {
	if len(s.Statuses) == 0 {
		return nil
	}
	return s.Statuses[len(s.Statuses)-1]
}

// LastReplace returns the most recent response area content, or the empty
// string if the area was never written.
func (s *Surface) LastReplace() string {
	if len(s.Replaces) == 0 {
		return ""
	}
	return s.Replaces[len(s.Replaces)-1]
}

// Update implements surface.Status.
func (st *Status) Update(label string, state surface.State, expanded bool) {
	st.Label = label
	st.State = state
	st.Expanded = expanded
}

// Write implements surface.Status.
func (st *Status) Write(text string) {
	st.Writes = append(st.Writes, text)
}

// OpenSection implements surface.Status.
func (st *Status) OpenSection(label string, expanded bool) surface.Section {
	sec := &Section{Label: label, Expanded: expanded}
	st.Sections = append(st.Sections, sec)
	return sec
}

// AppendText implements surface.Section.
func (sec *Section) AppendText(text string) {
	sec.Texts = append(sec.Texts, text)
}

// AppendCode implements surface.Section.
func (sec *Section) AppendCode(code string) {
	sec.Codes = append(sec.Codes, code)
}

// SetExpanded implements surface.Section.
func (sec *Section) SetExpanded(expanded bool) {
	sec.Expanded = expanded
}

// Replace implements surface.TextArea.
func (a *textArea) Replace(text string) {
	a.s.Replaces = append(a.s.Replaces, text)
}
