// Package stream defines the normalized events agentview derives from an
// agent's raw execution stream. Raw updates arrive in engine-specific shapes;
// the handler maps each one into exactly one of the event kinds below so that
// presenters and programmatic consumers never inspect raw structures.
//
// All event types implement the Event interface and embed Base for standard
// metadata. Events are immutable after construction and consumed in emission
// order; a stream ends with exactly one Complete or Error event.
package stream

import "goa.design/agentview/hint"

type (
	// Event describes one normalized slice of agent progress. Consumers switch
	// on Type for routing or type-assert to the concrete kinds for structured
	// field access.
	Event interface {
		// Type returns the event kind constant (e.g. EventToken, EventError).
		Type() EventType

		// RunID returns the correlation identifier of the run that produced
		// this event, or the empty string if the engine exposed none by the
		// time the event was emitted.
		RunID() string
	}

	// Base provides a default implementation of Event. Concrete event types
	// embed it to inherit the Type and RunID methods. Field names are
	// abbreviated since Base fields are set at construction and rarely read
	// directly.
	Base struct {
		// T is the event kind constant.
		T EventType
		// R is the run correlation identifier known at emission time.
		R string
	}

	// ToolCall announces a tool invocation requested by the agent. Emitted at
	// most once per tool-call identity within a run.
	ToolCall struct {
		Base
		// Data carries the invocation metadata.
		Data ToolCallPayload
	}

	// ToolCallPayload carries the metadata of a requested tool invocation.
	ToolCallPayload struct {
		// ToolCallID uniquely identifies the invocation within the run and
		// correlates the eventual ToolResult event.
		ToolCallID string `json:"tool_call_id"`
		// ToolName is the tool identifier (e.g. "search").
		ToolName string `json:"tool_name"`
		// Args holds the invocation arguments.
		Args map[string]any `json:"args,omitempty"`
	}

	// ToolResult reports the outcome of a previously announced tool call. The
	// content is already truncated to the handler's display limit.
	ToolResult struct {
		Base
		// Data carries the result metadata.
		Data ToolResultPayload
	}

	// ToolResultPayload carries the outcome of one tool invocation.
	ToolResultPayload struct {
		// ToolCallID matches the ToolCallPayload.ToolCallID of the originating
		// call. Results with no matching prior call carry the id and tool name
		// reported by the engine.
		ToolCallID string `json:"tool_call_id"`
		// ToolName is the tool identifier recorded when the call was first
		// seen. Orphan results fall back to the engine-reported name, or
		// "unknown" when the engine supplied none.
		ToolName string `json:"tool_name"`
		// Content is the textual result, truncated to the configured display
		// limit with a truncation indicator appended when cut.
		Content string `json:"content"`
		// Truncated reports whether Content was cut at the display limit.
		Truncated bool `json:"truncated,omitempty"`
	}

	// Token carries one increment of streamed assistant text.
	Token struct {
		Base
		// Text is the incremental content of this delta.
		Text string
		// Accumulated is the full response text up to and including this
		// delta, in emission order.
		Accumulated string
	}

	// Complete terminates a successful stream. Exactly one Complete or Error
	// event ends every stream.
	Complete struct {
		Base
		// Response is the final accumulated assistant text.
		Response string
	}

	// Error terminates a failed stream. The upstream failure is converted into
	// this event rather than surfaced as a Go error so that presentation
	// always completes gracefully.
	Error struct {
		Base
		// Cause is the raw failure text as reported by the engine.
		Cause string
		// Hint is the classified remediation guidance for the failure.
		Hint hint.Hint
	}
)

// EventType enumerates the normalized event kinds.
type EventType string

const (
	// EventToolCall announces a requested tool invocation.
	EventToolCall EventType = "tool_call"

	// EventToolResult reports a completed tool invocation.
	EventToolResult EventType = "tool_result"

	// EventToken carries an increment of streamed assistant text.
	EventToken EventType = "token"

	// EventComplete terminates a successful stream with the final text.
	EventComplete EventType = "complete"

	// EventError terminates a failed stream with the raw cause and a
	// classified hint.
	EventError EventType = "error"
)

// Type implements Event.Type.
func (e Base) Type() EventType { return e.T }

// RunID implements Event.RunID.
func (e Base) RunID() string { return e.R }
