// Package surface defines the presentation capabilities a host UI must provide
// for agentview to render agent progress. The surface is injected into the
// handler and owned by the host: agentview calls these methods as side effects
// of event mapping and never manages widget lifecycles itself.
//
// Reference implementations live in the subpackages: term renders to a
// terminal, web pushes frames over a websocket, and record captures calls in
// memory for tests and headless runs.
package surface

// State is the coarse status of an agent run as shown by the status indicator.
type State string

const (
	// StateRunning indicates the agent is still producing output.
	StateRunning State = "running"
	// StateComplete indicates the run finished successfully.
	StateComplete State = "complete"
	// StateError indicates the run terminated with a failure.
	StateError State = "error"
)

// Surface is the root presentation capability. One Surface hosts one agent
// response: a status indicator for progress and tool activity, and a response
// area for the streamed assistant text.
//
// Implementations need not be safe for concurrent use; agentview drives a
// surface from a single goroutine.
type Surface interface {
	// OpenStatus creates (or resets) the status indicator with the given
	// label, initially in StateRunning. expanded controls whether the
	// indicator's detail area starts open.
	OpenStatus(label string, expanded bool) Status

	// ResponseArea returns the area that displays the streamed assistant
	// text. Called once per run, before the first token arrives.
	ResponseArea() TextArea
}

// Status is the progress indicator for one run. Tool activity renders inside
// it as text lines and expandable sections.
type Status interface {
	// Update changes the status label, state and expansion in one call.
	Update(label string, state State, expanded bool)

	// Write renders a line of text inside the status detail area.
	Write(text string)

	// OpenSection creates an expandable section with the given label inside
	// the status detail area.
	OpenSection(label string, expanded bool) Section
}

// Section is an expandable/collapsible block of detail content.
type Section interface {
	// AppendText adds prose content to the section.
	AppendText(text string)

	// AppendCode adds preformatted content to the section.
	AppendCode(code string)

	// SetExpanded opens or collapses the section. Append-only surfaces may
	// treat this as a no-op.
	SetExpanded(expanded bool)
}

// TextArea displays the streamed assistant response.
type TextArea interface {
	// Replace rewrites the displayed text with the given content. Called on
	// every token with the full accumulation so far, and once more at the end
	// of the run without the cursor glyph.
	Replace(text string)
}
