package agentview

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"goa.design/agentview/telemetry"
)

type (
	// Config is the canonical, immutable bundle of display options for one
	// handler. It is resolved exactly once at construction from the defaults
	// and the supplied options; handlers never consult anything else at
	// render time.
	Config struct {
		// ExpandNewThoughts controls whether the status indicator and new
		// tool-activity sections start expanded.
		ExpandNewThoughts bool

		// MaxToolContentLength is the display truncation threshold for tool
		// result content, in characters. Content longer than the threshold is
		// cut and the truncation indicator appended.
		MaxToolContentLength int

		// ShowToolCalls controls whether tool-call events produce UI side
		// effects. Events still flow to programmatic stream consumers.
		ShowToolCalls bool

		// ShowToolResults controls whether tool-result events produce UI side
		// effects. Events still flow to programmatic stream consumers.
		ShowToolResults bool

		// ThinkingLabel is the status text shown while the agent is working.
		ThinkingLabel string

		// CompleteLabel is the status text shown when the run finishes.
		CompleteLabel string

		// ToolCallEmoji prefixes tool-call section labels.
		ToolCallEmoji string

		// ToolCompleteEmoji prefixes tool completion lines.
		ToolCompleteEmoji string

		// Cursor is the glyph appended to in-progress streamed text to
		// simulate a live cursor. Removed once streaming ends.
		Cursor string
	}

	// Option configures a Handler at construction time.
	Option func(*Handler)

	// fileConfig mirrors Config with optional fields so that keys absent from
	// a YAML document keep their defaults.
	fileConfig struct {
		ExpandNewThoughts    *bool   `yaml:"expand_new_thoughts"`
		MaxToolContentLength *int    `yaml:"max_tool_content_length"`
		ShowToolCalls        *bool   `yaml:"show_tool_calls"`
		ShowToolResults      *bool   `yaml:"show_tool_results"`
		ThinkingLabel        *string `yaml:"thinking_label"`
		CompleteLabel        *string `yaml:"complete_label"`
		ToolCallEmoji        *string `yaml:"tool_call_emoji"`
		ToolCompleteEmoji    *string `yaml:"tool_complete_emoji"`
		Cursor               *string `yaml:"cursor"`
	}
)

// TruncationIndicator is appended to tool result content that was cut at the
// configured display limit.
const TruncationIndicator = "\n... (truncated)"

// DefaultConfig returns the display defaults.
func DefaultConfig() Config {
	return Config{
		ExpandNewThoughts:    true,
		MaxToolContentLength: 2000,
		ShowToolCalls:        true,
		ShowToolResults:      true,
		ThinkingLabel:        "🤔 Thinking...",
		CompleteLabel:        "✅ Complete!",
		ToolCallEmoji:        "🔧",
		ToolCompleteEmoji:    "✅",
		Cursor:               "▌",
	}
}

// WithConfig replaces the whole display configuration. Later options still
// apply on top, so WithConfig composes with the field-level options.
func WithConfig(cfg Config) Option {
	return func(h *Handler) {
		h.cfg = cfg
	}
}

// WithExpandNewThoughts controls whether tool-activity sections start expanded.
func WithExpandNewThoughts(v bool) Option {
	return func(h *Handler) {
		h.cfg.ExpandNewThoughts = v
	}
}

// WithMaxToolContentLength sets the display truncation threshold for tool
// result content.
func WithMaxToolContentLength(n int) Option {
	return func(h *Handler) {
		h.cfg.MaxToolContentLength = n
	}
}

// WithShowToolCalls controls whether tool-call events produce UI side effects.
func WithShowToolCalls(v bool) Option {
	return func(h *Handler) {
		h.cfg.ShowToolCalls = v
	}
}

// WithShowToolResults controls whether tool-result events produce UI side
// effects.
func WithShowToolResults(v bool) Option {
	return func(h *Handler) {
		h.cfg.ShowToolResults = v
	}
}

// WithLabels sets the status labels shown while working and on completion.
func WithLabels(thinking, complete string) Option {
	return func(h *Handler) {
		h.cfg.ThinkingLabel = thinking
		h.cfg.CompleteLabel = complete
	}
}

// WithEmojis sets the glyphs prefixing tool-call sections and tool completion
// lines.
func WithEmojis(toolCall, toolComplete string) Option {
	return func(h *Handler) {
		h.cfg.ToolCallEmoji = toolCall
		h.cfg.ToolCompleteEmoji = toolComplete
	}
}

// WithCursor sets the glyph appended to in-progress streamed text.
func WithCursor(cursor string) Option {
	return func(h *Handler) {
		h.cfg.Cursor = cursor
	}
}

// WithLogger sets the structured logger used by the handler.
func WithLogger(l telemetry.Logger) Option {
	return func(h *Handler) {
		h.logger = l
	}
}

// WithMetrics sets the metrics recorder used by the handler.
func WithMetrics(m telemetry.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithTracer sets the tracer used by the handler.
func WithTracer(t telemetry.Tracer) Option {
	return func(h *Handler) {
		h.tracer = t
	}
}

// ParseConfig decodes display options from a YAML document. Keys absent from
// the document keep their defaults, so partial files are valid.
func ParseConfig(data []byte) (Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("parse display config: %w", err)
	}
	cfg := DefaultConfig()
	if fc.ExpandNewThoughts != nil {
		cfg.ExpandNewThoughts = *fc.ExpandNewThoughts
	}
	if fc.MaxToolContentLength != nil {
		cfg.MaxToolContentLength = *fc.MaxToolContentLength
	}
	if fc.ShowToolCalls != nil {
		cfg.ShowToolCalls = *fc.ShowToolCalls
	}
	if fc.ShowToolResults != nil {
		cfg.ShowToolResults = *fc.ShowToolResults
	}
	if fc.ThinkingLabel != nil {
		cfg.ThinkingLabel = *fc.ThinkingLabel
	}
	if fc.CompleteLabel != nil {
		cfg.CompleteLabel = *fc.CompleteLabel
	}
	if fc.ToolCallEmoji != nil {
		cfg.ToolCallEmoji = *fc.ToolCallEmoji
	}
	if fc.ToolCompleteEmoji != nil {
		cfg.ToolCompleteEmoji = *fc.ToolCompleteEmoji
	}
	if fc.Cursor != nil {
		cfg.Cursor = *fc.Cursor
	}
	return cfg, nil
}

// LoadConfig reads display options from a YAML file. See ParseConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read display config: %w", err)
	}
	return ParseConfig(data)
}
