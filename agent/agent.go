// Package agent defines the contract the upstream agent execution engine must
// satisfy for agentview to consume its progress. The engine streams raw updates
// in two modes: "messages" carries incremental assistant text, "updates" carries
// per-node graph state transitions (tool-call requests, tool results, run
// metadata). Updates are typed at this boundary so downstream packages never
// inspect raw untyped structures.
package agent

import (
	"context"
	"errors"
)

type (
	// Agent is the upstream execution engine. Implementations wrap a concrete
	// agent framework and translate its native streaming API into Update values.
	// Agents should be thread-safe and reusable across invocations; the streams
	// they return need not be.
	Agent interface {
		// Stream starts one execution of the agent for the given input and
		// returns a stream of raw updates covering both stream modes. The
		// returned stream must be closed by the caller. The context bounds the
		// whole execution: implementations should stop producing updates once
		// it is canceled.
		Stream(ctx context.Context, in Input) (UpdateStream, error)
	}

	// UpdateStream delivers raw updates one at a time. Successive calls to Recv
	// return Update values until io.EOF signals normal completion. Any other
	// error terminates the stream. Implementations must be safe to call from a
	// single goroutine and release underlying resources when Close is invoked.
	UpdateStream interface {
		// Recv returns the next raw update from the engine.
		Recv() (Update, error)
		// Close releases resources held by the stream. Idempotent.
		Close() error
	}

	// Input carries the request handed to the agent for one execution.
	Input struct {
		// Messages is the conversation handed to the agent, typically ending
		// with the new user turn.
		Messages []Message

		// ThreadID identifies the conversation thread for engines that keep
		// per-thread state (checkpoints, memory). Empty for stateless runs.
		ThreadID string

		// Meta carries engine-specific configuration the adapter does not
		// interpret (sampling parameters, recursion limits, ...).
		Meta map[string]any
	}

	// Message is a single chat message in the agent input.
	Message struct {
		// Role is "user", "assistant" or "system".
		Role string
		// Content is the message text.
		Content string
	}

	// Update is one item from the engine's execution stream, tagged by stream
	// mode. Exactly one of Message and Node is set, matching Mode.
	Update struct {
		// Mode identifies which payload field is populated.
		Mode Mode

		// RunID is the engine's correlation identifier for this execution when
		// the update exposes one. Most engines attach it to the first update
		// only; agentview captures the first non-empty value it sees.
		RunID string

		// Message is the token delta payload when Mode == ModeMessages.
		Message *MessageDelta

		// Node is the graph transition payload when Mode == ModeUpdates.
		Node *NodeUpdate
	}

	// MessageDelta carries an incremental piece of assistant output.
	MessageDelta struct {
		// MessageID identifies the message the delta belongs to.
		MessageID string

		// Node names the graph node that produced the delta. Deltas produced
		// by the tool execution node are not assistant prose and are skipped
		// by the mapper.
		Node string

		// Content is the incremental text. May be empty for bookkeeping deltas.
		Content string

		// ToolCallChunk reports that the delta carries partial tool-call
		// arguments rather than assistant prose.
		ToolCallChunk bool
	}

	// NodeUpdate carries the state delta emitted when a graph node finishes a
	// step. A single update may announce several tool calls and tool results.
	NodeUpdate struct {
		// Node names the graph node that produced the update.
		Node string

		// ToolCalls lists tool invocations requested in this step.
		ToolCalls []ToolCall

		// ToolResults lists tool executions that completed in this step.
		ToolResults []ToolResult
	}

	// ToolCall is a tool invocation requested by the agent.
	ToolCall struct {
		// ID uniquely identifies the invocation within the run. Used to
		// correlate the eventual ToolResult.
		ID string
		// Name is the tool identifier (e.g. "search").
		Name string
		// Args holds the invocation arguments as decoded by the engine.
		Args map[string]any
	}

	// ToolResult is the outcome of one tool invocation.
	ToolResult struct {
		// CallID matches the ID of the originating ToolCall.
		CallID string
		// Name is the tool identifier as reported by the engine.
		Name string
		// Content is the textual result handed back to the agent.
		Content string
	}
)

// Mode tags a raw update with the stream mode that produced it.
type Mode string

const (
	// ModeMessages updates carry incremental assistant text.
	ModeMessages Mode = "messages"
	// ModeUpdates updates carry per-node graph state transitions.
	ModeUpdates Mode = "updates"
)

// ToolsNode is the conventional name of the graph node that executes tools.
// Message deltas attributed to it are echoes of tool output, not assistant
// prose.
const ToolsNode = "tools"

// ErrStreamingUnsupported indicates the engine cannot stream the requested
// execution. Agents that only support blocking invocation return this from
// Stream.
var ErrStreamingUnsupported = errors.New("agent: streaming not supported")
