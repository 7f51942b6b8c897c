// Package agentview renders a conversational agent's execution stream onto a
// host UI surface. It consumes the dual-mode raw stream exposed by an agent
// engine ("messages" token deltas and "updates" graph node transitions), maps
// each raw update into a normalized event (tool call, tool result, token,
// complete, error), drives an injected presentation surface as each event is
// produced, and accumulates the final response text. The run correlation
// identifier exposed by the engine is captured for later feedback submission.
//
// Basic usage renders a run and returns the final text:
//
//	handler := agentview.New(myAgent, term.New(os.Stdout))
//	response := handler.Invoke(ctx, agent.Input{
//		Messages: []agent.Message{{Role: "user", Content: prompt}},
//		ThreadID: threadID,
//	})
//
// Callers that need the event sequence use Stream and drain it themselves;
// presentation still happens as a side effect of receiving each event:
//
//	events := handler.Stream(ctx, input)
//	defer events.Close()
//	for {
//		ev, err := events.Recv()
//		if err != nil {
//			break // io.EOF after the terminal event
//		}
//		// inspect ev
//	}
//	response := handler.Response()
//
// Upstream failures never surface as Go errors from Recv or Invoke: they are
// converted into a single terminal error event so rendering always completes
// gracefully. Inspect Handler.LastError to distinguish a failed run from a
// legitimately empty response.
package agentview
