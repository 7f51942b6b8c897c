// Package web provides a websocket surface. Presentation calls become JSON
// frames pushed to the peer, which renders them in a browser pane. Streamed
// response text is rendered from markdown to HTML with goldmark before
// framing, so the client can insert it directly.
//
// Frame delivery is best effort: the surface interface carries no error
// returns, so the first write failure is retained and exposed via Err while
// subsequent frames are dropped. A broken UI connection never interrupts the
// agent run.
package web

import (
	"bytes"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/yuin/goldmark"

	"goa.design/agentview/surface"
)

type (
	// Conn is the websocket write capability the surface needs. Satisfied by
	// *websocket.Conn.
	Conn interface {
		WriteJSON(v any) error
	}

	// Frame is one JSON message pushed to the peer. Kind determines which
	// fields are meaningful.
	Frame struct {
		// Kind is one of "status", "status_update", "status_write",
		// "section", "section_text", "section_code", "section_expanded" or
		// "response".
		Kind string `json:"kind"`
		// ID identifies the status or section the frame creates or targets.
		ID string `json:"id,omitempty"`
		// StatusID identifies the parent status for section frames.
		StatusID string `json:"status_id,omitempty"`
		// Label is the status or section label.
		Label string `json:"label,omitempty"`
		// State is the status state for status frames.
		State surface.State `json:"state,omitempty"`
		// Expanded is the expansion state for status and section frames.
		Expanded *bool `json:"expanded,omitempty"`
		// Text is prose content for write and section frames.
		Text string `json:"text,omitempty"`
		// Code is preformatted content for section frames.
		Code string `json:"code,omitempty"`
		// HTML is the rendered response for response frames.
		HTML string `json:"html,omitempty"`
	}

	// Surface pushes presentation frames over one websocket connection.
	Surface struct {
		conn Conn
		md   goldmark.Markdown
		err  error
	}

	status struct {
		s  *Surface
		id string
	}

	section struct {
		s  *Surface
		id string
	}

	area struct {
		s *Surface
	}
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Upgrade upgrades an HTTP request to a websocket connection and returns a
// surface pushing frames over it. The caller owns the connection lifecycle.
func Upgrade(w http.ResponseWriter, r *http.Request) (*Surface, *websocket.Conn, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, nil, err
	}
	return New(conn), conn, nil
}

// New returns a surface pushing frames over conn.
func New(conn Conn) *Surface {
	return &Surface{conn: conn, md: goldmark.New()}
}

// Err returns the first frame delivery failure, or nil. Once set, subsequent
// frames are dropped.
func (s *Surface) Err() error {
	return s.err
}

// OpenStatus implements surface.Surface.
func (s *Surface) OpenStatus(label string, expanded bool) surface.Status {
	id := uuid.NewString()
	s.send(Frame{Kind: "status", ID: id, Label: label, State: surface.StateRunning, Expanded: &expanded})
	return &status{s: s, id: id}
}

// ResponseArea implements surface.Surface.
func (s *Surface) ResponseArea() surface.TextArea {
	return &area{s: s}
}

func (s *Surface) send(f Frame) {
	if s.err != nil {
		return
	}
	if err := s.conn.WriteJSON(f); err != nil {
		s.err = err
	}
}

// Update implements surface.Status.
func (st *status) Update(label string, state surface.State, expanded bool) {
	st.s.send(Frame{Kind: "status_update", ID: st.id, Label: label, State: state, Expanded: &expanded})
}

// Write implements surface.Status.
func (st *status) Write(text string) {
	st.s.send(Frame{Kind: "status_write", ID: st.id, Text: text})
}

// OpenSection implements surface.Status.
func (st *status) OpenSection(label string, expanded bool) surface.Section {
	id := uuid.NewString()
	st.s.send(Frame{Kind: "section", ID: id, StatusID: st.id, Label: label, Expanded: &expanded})
	return &section{s: st.s, id: id}
}

// AppendText implements surface.Section.
func (sec *section) AppendText(text string) {
	sec.s.send(Frame{Kind: "section_text", ID: sec.id, Text: text})
}

// AppendCode implements surface.Section.
func (sec *section) AppendCode(code string) {
	sec.s.send(Frame{Kind: "section_code", ID: sec.id, Code: code})
}

// SetExpanded implements surface.Section.
func (sec *section) SetExpanded(expanded bool) {
	sec.s.send(Frame{Kind: "section_expanded", ID: sec.id, Expanded: &expanded})
}

// Replace implements surface.TextArea. The markdown accumulation is rendered
// to HTML so the peer can swap the response pane content directly.
func (a *area) Replace(text string) {
	var buf bytes.Buffer
	if err := a.s.md.Convert([]byte(text), &buf); err != nil {
		// Fall back to the raw text; markdown rendering is cosmetic.
		a.s.send(Frame{Kind: "response", Text: text})
		return
	}
	a.s.send(Frame{Kind: "response", HTML: buf.String()})
}
