package agentview

import (
	"encoding/json"
	"fmt"

	"goa.design/agentview/stream"
	"goa.design/agentview/surface"
)

// causeDisplayLimit bounds the raw error text shown in the collapsed details
// section. The full cause still travels on the Error event.
const causeDisplayLimit = 500

// presenter translates normalized events into surface side effects for one
// run. It applies the display toggles; accumulation correctness is the
// handler's concern and is maintained regardless of what the presenter shows.
type presenter struct {
	cfg    Config
	s      surface.Surface
	status surface.Status
	area   surface.TextArea

	// sections maps tool-call identities to their open sections so results
	// render into the section of the originating call.
	sections map[string]surface.Section

	// last holds the most recent accumulation so terminal events can rewrite
	// the response area without the cursor glyph.
	last string
}

func newPresenter(cfg Config, s surface.Surface) *presenter {
	return &presenter{cfg: cfg, s: s, sections: make(map[string]surface.Section)}
}

// begin creates the status indicator and response area for a new run.
func (p *presenter) begin() {
	p.status = p.s.OpenStatus(p.cfg.ThinkingLabel, p.cfg.ExpandNewThoughts)
	p.area = p.s.ResponseArea()
}

// event renders one normalized event. Kinds disabled by configuration produce
// no side effects.
func (p *presenter) event(ev stream.Event) {
	switch ev := ev.(type) {
	case stream.ToolCall:
		p.toolCall(ev)
	case stream.ToolResult:
		p.toolResult(ev)
	case stream.Token:
		p.last = ev.Accumulated
		p.area.Replace(ev.Accumulated + p.cfg.Cursor)
	case stream.Complete:
		p.complete(ev)
	case stream.Error:
		p.failure(ev)
	}
}

func (p *presenter) toolCall(ev stream.ToolCall) {
	if !p.cfg.ShowToolCalls {
		return
	}
	label := p.cfg.ToolCallEmoji + " " + ev.Data.ToolName
	sec := p.status.OpenSection(label, p.cfg.ExpandNewThoughts)
	sec.AppendText(formatArgs(ev.Data.Args))
	if ev.Data.ToolCallID != "" {
		p.sections[ev.Data.ToolCallID] = sec
	}
}

func (p *presenter) toolResult(ev stream.ToolResult) {
	if !p.cfg.ShowToolResults {
		return
	}
	sec, ok := p.sections[ev.Data.ToolCallID]
	if !ok {
		// Orphan result: no section was opened for the call, render one now.
		sec = p.status.OpenSection(p.cfg.ToolCompleteEmoji+" "+ev.Data.ToolName, false)
	}
	sec.AppendCode(ev.Data.Content)
	sec.SetExpanded(p.cfg.ExpandNewThoughts)
	p.status.Write(p.cfg.ToolCompleteEmoji + " " + ev.Data.ToolName + " done")
}

func (p *presenter) complete(ev stream.Complete) {
	p.status.Update(p.cfg.CompleteLabel, surface.StateComplete, false)
	if ev.Response != "" {
		p.area.Replace(ev.Response)
	}
}

func (p *presenter) failure(ev stream.Error) {
	p.status.Update(ev.Hint.Title, surface.StateError, true)
	p.status.Write(ev.Hint.Message)
	for _, advice := range ev.Hint.Advice {
		p.status.Write("- " + advice)
	}
	sec := p.status.OpenSection("Error details", false)
	sec.AppendCode(clampRunes(ev.Cause, causeDisplayLimit))
	if p.last != "" {
		p.area.Replace(p.last)
	}
}

// formatArgs renders tool arguments for display. JSON gives deterministic key
// ordering for maps.
func formatArgs(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	b, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprintf("%v", args)
	}
	return string(b)
}

// clampRunes bounds s to at most limit characters for display.
func clampRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
