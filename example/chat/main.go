// Command chat streams a canned agent run to the terminal. It exists to show
// the wiring: implement agent.Agent, hand it to agentview.New with a surface,
// and drain the event stream.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"time"

	"goa.design/clue/log"

	"goa.design/agentview"
	"goa.design/agentview/agent"
	"goa.design/agentview/surface/term"
	"goa.design/agentview/telemetry"
)

// demoAgent replays a scripted run, pacing token deltas so the live cursor is
// visible.
type demoAgent struct {
	delay time.Duration
}

type demoStream struct {
	updates []agent.Update
	delay   time.Duration
}

func (a *demoAgent) Stream(_ context.Context, _ agent.Input) (agent.UpdateStream, error) {
	run := "run-demo"
	updates := []agent.Update{
		{Mode: agent.ModeUpdates, RunID: run, Node: &agent.NodeUpdate{
			Node: "agent",
			ToolCalls: []agent.ToolCall{
				{ID: "call-1", Name: "get_weather", Args: map[string]any{"city": "Paris"}},
			},
		}},
		{Mode: agent.ModeUpdates, RunID: run, Node: &agent.NodeUpdate{
			Node: agent.ToolsNode,
			ToolResults: []agent.ToolResult{
				{CallID: "call-1", Name: "get_weather", Content: "18°C, partly cloudy"},
			},
		}},
	}
	for _, word := range []string{"It ", "is ", "18°C ", "and ", "partly ", "cloudy ", "in ", "Paris."} {
		updates = append(updates, agent.Update{
			Mode:    agent.ModeMessages,
			RunID:   run,
			Message: &agent.MessageDelta{Node: "agent", Content: word},
		})
	}
	return &demoStream{updates: updates, delay: a.delay}, nil
}

func (s *demoStream) Recv() (agent.Update, error) {
	if len(s.updates) == 0 {
		return agent.Update{}, io.EOF
	}
	time.Sleep(s.delay)
	upd := s.updates[0]
	s.updates = s.updates[1:]
	return upd, nil
}

func (s *demoStream) Close() error { return nil }

func main() {
	var (
		delayF = flag.Duration("delay", 150*time.Millisecond, "Pause between updates")
		dbgF   = flag.Bool("debug", false, "Log stream processing details")
	)
	flag.Parse()

	format := log.FormatJSON
	if log.IsTerminal() {
		format = log.FormatTerminal
	}
	ctx := log.Context(context.Background(), log.WithFormat(format))
	if *dbgF {
		ctx = log.Context(ctx, log.WithDebug())
	}

	h := agentview.New(&demoAgent{delay: *delayF}, term.New(os.Stdout),
		agentview.WithLogger(telemetry.NewClueLogger()),
		agentview.WithMetrics(telemetry.NewClueMetrics()),
		agentview.WithTracer(telemetry.NewClueTracer()),
	)
	h.Invoke(ctx, agent.Input{Messages: []agent.Message{{Role: "user", Content: "What's the weather in Paris?"}}})
	if e := h.LastError(); e != nil {
		log.Error(ctx, nil, log.KV{K: "msg", V: "run failed"}, log.KV{K: "cause", V: e.Cause})
		os.Exit(1)
	}
}
