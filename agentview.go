package agentview

import (
	"context"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"goa.design/agentview/agent"
	"goa.design/agentview/hint"
	"goa.design/agentview/stream"
	"goa.design/agentview/surface"
	"goa.design/agentview/telemetry"
)

type (
	// Handler adapts one agent's execution stream onto a presentation surface.
	// It drives the upstream update stream, maps raw updates into normalized
	// events, renders each event through the surface, and accumulates the
	// final response text.
	//
	// A Handler owns one accumulation and one run identifier at a time: do not
	// reuse it for overlapping Stream or Invoke calls. Sequential reuse is
	// fine; every Stream call resets the per-run state.
	Handler struct {
		agent   agent.Agent
		surface surface.Surface
		cfg     Config
		logger  telemetry.Logger
		metrics telemetry.Metrics
		tracer  telemetry.Tracer

		response string
		runID    string
		lastErr  *stream.Error
	}

	// Events is the normalized event stream for one run. Successive calls to
	// Recv return events until io.EOF. The last event before io.EOF is always
	// exactly one Complete or Error; upstream failures are converted into the
	// Error event and never surfaced as Recv errors.
	//
	// Abandoning the stream early is the cancellation mechanism: call Close
	// (and cancel the context passed to Stream) and stop calling Recv.
	Events struct {
		h         *Handler
		ctx       context.Context
		src       agent.UpdateStream
		presenter *presenter
		span      telemetry.Span
		started   time.Time

		// failure holds an upstream construction error to be surfaced as the
		// terminal Error event on the first Recv.
		failure error

		// pending buffers the events mapped from the raw update currently
		// being processed; a single node update may announce several tool
		// calls and results.
		pending []stream.Event

		// seen maps tool-call identities to tool names for result correlation
		// and duplicate suppression.
		seen map[string]string

		done bool
	}
)

// New constructs a Handler for the given agent and surface. Display options
// and telemetry are resolved once, here; the resulting configuration is
// immutable for the handler's lifetime. Telemetry defaults to no-ops; hosts
// opt in via WithLogger, WithMetrics and WithTracer (the telemetry package
// provides Clue- and OTel-backed implementations).
func New(a agent.Agent, s surface.Surface, opts ...Option) *Handler {
	h := &Handler{
		agent:   a,
		surface: s,
		cfg:     DefaultConfig(),
		logger:  telemetry.NewNoopLogger(),
		metrics: telemetry.NewNoopMetrics(),
		tracer:  telemetry.NewNoopTracer(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Config returns the handler's resolved display configuration.
func (h *Handler) Config() Config { return h.cfg }

// Invoke runs the agent to completion and returns the final response text.
// It never returns an error for upstream failures: a failed run yields the
// empty string, the failure renders on the surface, and LastError reports it.
// Use Response to read partial accumulation after a failed run.
func (h *Handler) Invoke(ctx context.Context, in agent.Input) string {
	events := h.Stream(ctx, in)
	defer events.Close()
	for {
		if _, err := events.Recv(); err != nil {
			break
		}
	}
	if h.lastErr != nil {
		return ""
	}
	return h.response
}

// Stream starts one agent run and returns its normalized event stream. The
// presentation side effects for each event happen as the event is received;
// callers that only want the final text can use Invoke instead.
//
// The returned stream is single-pass and not resumable; call Stream again for
// a fresh run.
func (h *Handler) Stream(ctx context.Context, in agent.Input) *Events {
	h.response = ""
	h.runID = ""
	h.lastErr = nil

	p := newPresenter(h.cfg, h.surface)
	p.begin()

	ctx, span := h.tracer.Start(ctx, "agentview.stream",
		trace.WithAttributes(attribute.String("agentview.thread_id", in.ThreadID)))
	h.logger.Debug(ctx, "agent stream started", "thread_id", in.ThreadID)

	events := &Events{
		h:         h,
		ctx:       ctx,
		presenter: p,
		span:      span,
		started:   time.Now(),
		seen:      make(map[string]string),
	}
	src, err := h.agent.Stream(ctx, in)
	if err != nil {
		events.failure = err
	} else {
		events.src = src
	}
	return events
}

// Response returns the accumulated response text. Valid at any point,
// including mid-stream and after a failed run (it then holds the text
// accumulated before the failure).
func (h *Handler) Response() string { return h.response }

// RunID returns the correlation identifier captured from the raw stream, or
// the empty string if the engine exposed none. The first value seen wins;
// later occurrences are ignored.
func (h *Handler) RunID() string { return h.runID }

// LastError returns the terminal Error event of the most recent run, or nil
// if the run completed successfully (or no run has finished yet).
func (h *Handler) LastError() *stream.Error { return h.lastErr }

// Recv returns the next normalized event. After the terminal Complete or
// Error event has been returned, Recv returns io.EOF. Upstream failures are
// never returned as errors; they become the terminal Error event.
func (e *Events) Recv() (stream.Event, error) {
	if e.done {
		return nil, io.EOF
	}
	for {
		if len(e.pending) > 0 {
			ev := e.pending[0]
			e.pending = e.pending[1:]
			e.deliver(ev)
			return ev, nil
		}
		if e.failure != nil {
			return e.terminateError(e.failure), nil
		}
		upd, err := e.src.Recv()
		if err == io.EOF {
			return e.terminateComplete(), nil
		}
		if err != nil {
			return e.terminateError(err), nil
		}
		e.ingest(upd)
	}
}

// Close releases the upstream stream and finalizes tracing. Safe to call
// multiple times and after the stream is exhausted. Closing before exhaustion
// is the way to abandon a run early.
func (e *Events) Close() error {
	if e.done {
		return nil
	}
	e.done = true
	e.span.End()
	if e.src != nil {
		return e.src.Close()
	}
	return nil
}

// ingest maps one raw update into zero or more pending normalized events and
// maintains the run identifier and accumulation.
func (e *Events) ingest(upd agent.Update) {
	if upd.RunID != "" && e.h.runID == "" {
		e.h.runID = upd.RunID
		e.span.AddEvent("run identified", "run_id", upd.RunID)
	}
	switch upd.Mode {
	case agent.ModeMessages:
		e.ingestDelta(upd.Message)
	case agent.ModeUpdates:
		e.ingestNode(upd.Node)
	}
}

// ingestDelta handles a "messages" mode update. Deltas from the tool node and
// tool-call argument chunks are echoes of tool activity, not assistant prose,
// and are skipped.
func (e *Events) ingestDelta(d *agent.MessageDelta) {
	if d == nil || d.Content == "" {
		return
	}
	if d.Node == agent.ToolsNode || d.ToolCallChunk {
		return
	}
	e.h.response += d.Content
	e.pending = append(e.pending, stream.Token{
		Base:        stream.Base{T: stream.EventToken, R: e.h.runID},
		Text:        d.Content,
		Accumulated: e.h.response,
	})
}

// ingestNode handles an "updates" mode update. Duplicate tool-call identities
// are ignored; results with no matching prior call are emitted rather than
// dropped, keeping the engine-reported tool name or "unknown" when the engine
// supplied none.
func (e *Events) ingestNode(n *agent.NodeUpdate) {
	if n == nil {
		return
	}
	for _, tc := range n.ToolCalls {
		if tc.ID != "" {
			if _, dup := e.seen[tc.ID]; dup {
				continue
			}
			e.seen[tc.ID] = tc.Name
		}
		e.h.logger.Debug(e.ctx, "tool call", "tool", tc.Name, "call_id", tc.ID)
		e.pending = append(e.pending, stream.ToolCall{
			Base: stream.Base{T: stream.EventToolCall, R: e.h.runID},
			Data: stream.ToolCallPayload{ToolCallID: tc.ID, ToolName: tc.Name, Args: tc.Args},
		})
	}
	for _, tr := range n.ToolResults {
		name, ok := e.seen[tr.CallID]
		if !ok {
			name = tr.Name
			if name == "" {
				name = "unknown"
			}
		}
		content, truncated := truncateContent(tr.Content, e.h.cfg.MaxToolContentLength)
		e.h.logger.Debug(e.ctx, "tool result", "tool", name, "call_id", tr.CallID, "truncated", truncated)
		e.pending = append(e.pending, stream.ToolResult{
			Base: stream.Base{T: stream.EventToolResult, R: e.h.runID},
			Data: stream.ToolResultPayload{
				ToolCallID: tr.CallID,
				ToolName:   name,
				Content:    content,
				Truncated:  truncated,
			},
		})
	}
}

// deliver renders an event on the surface and records instrumentation. Runs
// before the event is yielded to the caller.
func (e *Events) deliver(ev stream.Event) {
	e.h.metrics.IncCounter("agentview.events", 1, "type", string(ev.Type()))
	e.presenter.event(ev)
}

// terminateComplete ends the stream with the single Complete event.
func (e *Events) terminateComplete() stream.Event {
	ev := stream.Complete{
		Base:     stream.Base{T: stream.EventComplete, R: e.h.runID},
		Response: e.h.response,
	}
	e.h.logger.Debug(e.ctx, "agent stream complete", "run_id", e.h.runID, "response_len", len(e.h.response))
	e.h.metrics.RecordTimer("agentview.stream.duration", time.Since(e.started), "outcome", "complete")
	e.span.SetStatus(codes.Ok, "")
	e.finish(ev)
	return ev
}

// terminateError ends the stream with the single Error event carrying the raw
// failure text and its classified hint.
func (e *Events) terminateError(cause error) stream.Event {
	classified := hint.Classify(cause)
	ev := stream.Error{
		Base:  stream.Base{T: stream.EventError, R: e.h.runID},
		Cause: cause.Error(),
		Hint:  classified,
	}
	e.h.lastErr = &ev
	e.h.logger.Error(e.ctx, "agent stream failed", "run_id", e.h.runID, "kind", string(classified.Kind), "cause", cause.Error())
	e.h.metrics.RecordTimer("agentview.stream.duration", time.Since(e.started), "outcome", "error")
	e.span.RecordError(cause)
	e.span.SetStatus(codes.Error, string(classified.Kind))
	e.finish(ev)
	return ev
}

// finish renders the terminal event, closes the upstream stream and ends the
// span. Subsequent Recv calls return io.EOF.
func (e *Events) finish(ev stream.Event) {
	e.deliver(ev)
	e.done = true
	e.span.End()
	if e.src != nil {
		e.src.Close()
	}
}

// truncateContent bounds s to at most limit characters for display, appending
// the truncation indicator when content was cut. Content of exactly limit
// characters passes unmodified. A non-positive limit disables truncation.
func truncateContent(s string, limit int) (string, bool) {
	if limit <= 0 {
		return s, false
	}
	r := []rune(s)
	if len(r) <= limit {
		return s, false
	}
	return string(r[:limit]) + TruncationIndicator, true
}
