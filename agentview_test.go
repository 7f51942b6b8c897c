package agentview

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goa.design/agentview/agent"
	"goa.design/agentview/hint"
	"goa.design/agentview/stream"
	"goa.design/agentview/surface/record"
	"goa.design/agentview/telemetry"
)

// scriptStep is one scripted Recv outcome: an update or a failure.
type scriptStep struct {
	upd agent.Update
	err error
}

// scriptedAgent replays a fixed sequence of raw updates.
type scriptedAgent struct {
	steps    []scriptStep
	startErr error
}

type scriptedStream struct {
	steps  []scriptStep
	next   int
	closed bool
}

func (a *scriptedAgent) Stream(ctx context.Context, in agent.Input) (agent.UpdateStream, error) {
	if a.startErr != nil {
		return nil, a.startErr
	}
	return &scriptedStream{steps: a.steps}, nil
}

func (s *scriptedStream) Recv() (agent.Update, error) {
	if s.next >= len(s.steps) {
		return agent.Update{}, io.EOF
	}
	step := s.steps[s.next]
	s.next++
	if step.err != nil {
		return agent.Update{}, step.err
	}
	return step.upd, nil
}

func (s *scriptedStream) Close() error {
	s.closed = true
	return nil
}

func token(text string) scriptStep {
	return scriptStep{upd: agent.Update{
		Mode:    agent.ModeMessages,
		Message: &agent.MessageDelta{Content: text},
	}}
}

func toolCall(id, name string, args map[string]any) scriptStep {
	return scriptStep{upd: agent.Update{
		Mode: agent.ModeUpdates,
		Node: &agent.NodeUpdate{Node: "agent", ToolCalls: []agent.ToolCall{{ID: id, Name: name, Args: args}}},
	}}
}

func toolResult(callID, name, content string) scriptStep {
	return scriptStep{upd: agent.Update{
		Mode: agent.ModeUpdates,
		Node: &agent.NodeUpdate{Node: agent.ToolsNode, ToolResults: []agent.ToolResult{{CallID: callID, Name: name, Content: content}}},
	}}
}

func failure(err error) scriptStep {
	return scriptStep{err: err}
}

// drain collects all events until io.EOF.
func drain(t *testing.T, events *Events) []stream.Event {
	t.Helper()
	var out []stream.Event
	for {
		ev, err := events.Recv()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, ev)
	}
}

func TestInvokeEndToEnd(t *testing.T) {
	ag := &scriptedAgent{steps: []scriptStep{
		token("Hel"),
		token("lo"),
		toolCall("c1", "search", map[string]any{"q": "x"}),
		toolResult("c1", "search", "3 results"),
		token("!"),
	}}
	rec := record.New()
	h := New(ag, rec)

	got := h.Invoke(context.Background(), agent.Input{})

	require.Equal(t, "Hello!", got)
	require.Equal(t, "Hello!", h.Response())
	require.Empty(t, h.RunID())
	require.Nil(t, h.LastError())

	st := rec.LastStatus()
	require.NotNil(t, st)
	assert.Equal(t, "✅ Complete!", st.Label)
	assert.Equal(t, "complete", string(st.State))
	require.Len(t, st.Sections, 1) // result rendered into the call's section
	assert.Equal(t, "🔧 search", st.Sections[0].Label)
	assert.Equal(t, []string{`{"q":"x"}`}, st.Sections[0].Texts)
	assert.Equal(t, []string{"3 results"}, st.Sections[0].Codes)
	assert.Contains(t, st.Writes, "✅ search done")
	assert.Equal(t, "Hello!", rec.LastReplace())
}

func TestStreamEventSequence(t *testing.T) {
	ag := &scriptedAgent{steps: []scriptStep{
		token("Hel"),
		token("lo"),
		toolCall("c1", "search", map[string]any{"q": "x"}),
		toolResult("c1", "search", "3 results"),
		token("!"),
	}}
	h := New(ag, record.New())

	events := h.Stream(context.Background(), agent.Input{})
	defer events.Close()
	got := drain(t, events)

	types := make([]stream.EventType, len(got))
	for i, ev := range got {
		types[i] = ev.Type()
	}
	require.Equal(t, []stream.EventType{
		stream.EventToken,
		stream.EventToken,
		stream.EventToolCall,
		stream.EventToolResult,
		stream.EventToken,
		stream.EventComplete,
	}, types)

	complete, ok := got[len(got)-1].(stream.Complete)
	require.True(t, ok)
	assert.Equal(t, "Hello!", complete.Response)

	tok, ok := got[1].(stream.Token)
	require.True(t, ok)
	assert.Equal(t, "lo", tok.Text)
	assert.Equal(t, "Hello", tok.Accumulated)
}

func TestStreamUpstreamFailure(t *testing.T) {
	ag := &scriptedAgent{steps: []scriptStep{
		token("partial"),
		failure(errors.New("could not connect: connection refused")),
	}}
	rec := record.New()
	h := New(ag, rec)

	events := h.Stream(context.Background(), agent.Input{})
	defer events.Close()
	got := drain(t, events)

	require.Len(t, got, 2)
	require.Equal(t, stream.EventToken, got[0].Type())
	errEv, ok := got[1].(stream.Error)
	require.True(t, ok)
	assert.Equal(t, hint.KindUnavailable, errEv.Hint.Kind)
	assert.Contains(t, errEv.Cause, "could not connect")

	assert.Equal(t, "partial", h.Response())
	require.NotNil(t, h.LastError())
	assert.Equal(t, hint.KindUnavailable, h.LastError().Hint.Kind)

	st := rec.LastStatus()
	require.NotNil(t, st)
	assert.Equal(t, "error", string(st.State))
	assert.Equal(t, errEv.Hint.Title, st.Label)
	require.NotEmpty(t, st.Sections)
	last := st.Sections[len(st.Sections)-1]
	assert.Equal(t, "Error details", last.Label)
	require.Len(t, last.Codes, 1)
	assert.Contains(t, last.Codes[0], "could not connect")
}

func TestInvokeReturnsEmptyOnFailure(t *testing.T) {
	ag := &scriptedAgent{steps: []scriptStep{
		token("partial"),
		failure(errors.New("boom")),
	}}
	h := New(ag, record.New())

	got := h.Invoke(context.Background(), agent.Input{})

	require.Empty(t, got)
	assert.Equal(t, "partial", h.Response())
	require.NotNil(t, h.LastError())
	assert.Equal(t, hint.KindUnknown, h.LastError().Hint.Kind)
}

func TestStreamStartFailure(t *testing.T) {
	ag := &scriptedAgent{startErr: errors.New("rate_limit_exceeded")}
	h := New(ag, record.New())

	events := h.Stream(context.Background(), agent.Input{})
	defer events.Close()
	got := drain(t, events)

	require.Len(t, got, 1)
	errEv, ok := got[0].(stream.Error)
	require.True(t, ok)
	assert.Equal(t, hint.KindRateLimited, errEv.Hint.Kind)
}

func TestRunIDFirstWriteWins(t *testing.T) {
	first := token("a")
	first.upd.RunID = "run-1"
	second := token("b")
	second.upd.RunID = "run-2"
	ag := &scriptedAgent{steps: []scriptStep{first, second}}
	h := New(ag, record.New())

	h.Invoke(context.Background(), agent.Input{})

	require.Equal(t, "run-1", h.RunID())
}

func TestDuplicateToolCallIgnored(t *testing.T) {
	ag := &scriptedAgent{steps: []scriptStep{
		toolCall("c1", "search", nil),
		toolCall("c1", "search", nil),
	}}
	h := New(ag, record.New())

	events := h.Stream(context.Background(), agent.Input{})
	defer events.Close()
	got := drain(t, events)

	require.Len(t, got, 2) // one tool_call + complete
	require.Equal(t, stream.EventToolCall, got[0].Type())
	require.Equal(t, stream.EventComplete, got[1].Type())
}

func TestOrphanToolResultKeepsEngineName(t *testing.T) {
	ag := &scriptedAgent{steps: []scriptStep{
		toolResult("missing", "search", "content"),
		toolResult("missing-too", "", "more"),
	}}
	h := New(ag, record.New())

	events := h.Stream(context.Background(), agent.Input{})
	defer events.Close()
	got := drain(t, events)

	require.Len(t, got, 3)
	res, ok := got[0].(stream.ToolResult)
	require.True(t, ok)
	assert.Equal(t, "search", res.Data.ToolName)
	assert.Equal(t, "content", res.Data.Content)

	// Orphan with no engine-reported name falls back to "unknown".
	res, ok = got[1].(stream.ToolResult)
	require.True(t, ok)
	assert.Equal(t, "unknown", res.Data.ToolName)
	assert.Equal(t, "more", res.Data.Content)
}

func TestShowToolCallsDisabledSuppressesUIOnly(t *testing.T) {
	ag := &scriptedAgent{steps: []scriptStep{
		token("hi"),
		toolCall("c1", "search", map[string]any{"q": "x"}),
		toolResult("c1", "search", "res"),
	}}
	rec := record.New()
	h := New(ag, rec, WithShowToolCalls(false), WithShowToolResults(false))

	events := h.Stream(context.Background(), agent.Input{})
	defer events.Close()
	got := drain(t, events)

	// Events still flow to programmatic consumers.
	types := make([]stream.EventType, len(got))
	for i, ev := range got {
		types[i] = ev.Type()
	}
	require.Equal(t, []stream.EventType{
		stream.EventToken,
		stream.EventToolCall,
		stream.EventToolResult,
		stream.EventComplete,
	}, types)

	// No tool-driven UI side effects occurred.
	st := rec.LastStatus()
	require.NotNil(t, st)
	assert.Empty(t, st.Sections)
	assert.Empty(t, st.Writes)

	// Accumulation unaffected by display toggles.
	assert.Equal(t, "hi", h.Response())
}

func TestToolResultTruncation(t *testing.T) {
	cases := []struct {
		name      string
		content   string
		want      string
		truncated bool
	}{
		{name: "below limit", content: strings.Repeat("a", 9), want: strings.Repeat("a", 9), truncated: false},
		{name: "at limit", content: strings.Repeat("a", 10), want: strings.Repeat("a", 10), truncated: false},
		{name: "over limit", content: strings.Repeat("a", 11), want: strings.Repeat("a", 10) + TruncationIndicator, truncated: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ag := &scriptedAgent{steps: []scriptStep{
				toolCall("c1", "search", nil),
				toolResult("c1", "search", tc.content),
			}}
			h := New(ag, record.New(), WithMaxToolContentLength(10))

			events := h.Stream(context.Background(), agent.Input{})
			defer events.Close()
			got := drain(t, events)

			res, ok := got[1].(stream.ToolResult)
			require.True(t, ok)
			assert.Equal(t, tc.want, res.Data.Content)
			assert.Equal(t, tc.truncated, res.Data.Truncated)
		})
	}
}

func TestTokenSkipsToolEchoes(t *testing.T) {
	toolEcho := scriptStep{upd: agent.Update{
		Mode:    agent.ModeMessages,
		Message: &agent.MessageDelta{Node: agent.ToolsNode, Content: "raw tool output"},
	}}
	chunk := scriptStep{upd: agent.Update{
		Mode:    agent.ModeMessages,
		Message: &agent.MessageDelta{Content: `{"q":`, ToolCallChunk: true},
	}}
	empty := scriptStep{upd: agent.Update{
		Mode:    agent.ModeMessages,
		Message: &agent.MessageDelta{},
	}}
	ag := &scriptedAgent{steps: []scriptStep{toolEcho, chunk, empty, token("hi")}}
	h := New(ag, record.New())

	got := h.Invoke(context.Background(), agent.Input{})

	require.Equal(t, "hi", got)
}

func TestCursorAppendedWhileStreaming(t *testing.T) {
	ag := &scriptedAgent{steps: []scriptStep{token("Hel"), token("lo")}}
	rec := record.New()
	h := New(ag, rec)

	h.Invoke(context.Background(), agent.Input{})

	require.Equal(t, []string{"Hel▌", "Hello▌", "Hello"}, rec.Replaces)
}

func TestRecvAfterTerminalReturnsEOF(t *testing.T) {
	ag := &scriptedAgent{steps: []scriptStep{token("hi")}}
	h := New(ag, record.New())

	events := h.Stream(context.Background(), agent.Input{})
	defer events.Close()
	drain(t, events)

	_, err := events.Recv()
	require.Equal(t, io.EOF, err)
	_, err = events.Recv()
	require.Equal(t, io.EOF, err)
}

func TestTelemetryDefaultsToNoop(t *testing.T) {
	h := New(&scriptedAgent{}, record.New())
	_, ok := h.logger.(telemetry.NoopLogger)
	assert.True(t, ok)
	_, ok = h.metrics.(telemetry.NoopMetrics)
	assert.True(t, ok)
	_, ok = h.tracer.(telemetry.NoopTracer)
	assert.True(t, ok)

	// Clue-backed telemetry is opt-in.
	h = New(&scriptedAgent{}, record.New(),
		WithLogger(telemetry.NewClueLogger()),
		WithMetrics(telemetry.NewClueMetrics()),
		WithTracer(telemetry.NewClueTracer()),
	)
	_, ok = h.logger.(telemetry.ClueLogger)
	assert.True(t, ok)
	_, ok = h.metrics.(*telemetry.ClueMetrics)
	assert.True(t, ok)
	_, ok = h.tracer.(*telemetry.ClueTracer)
	assert.True(t, ok)
}

func TestSequentialReuseResetsState(t *testing.T) {
	ag := &scriptedAgent{steps: []scriptStep{failure(errors.New("timeout"))}}
	rec := record.New()
	h := New(ag, rec)
	require.Empty(t, h.Invoke(context.Background(), agent.Input{}))
	require.NotNil(t, h.LastError())

	ag.steps = []scriptStep{token("ok")}
	got := h.Invoke(context.Background(), agent.Input{})
	require.Equal(t, "ok", got)
	require.Nil(t, h.LastError())
	require.Equal(t, "ok", h.Response())
}
