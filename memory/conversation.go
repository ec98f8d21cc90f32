package memory

import (
	"encoding/json"
	"slices"
	"strings"
)

// Role identifies which side of the exchange produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// SegmentKind tags the variant held by a Segment.
type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentToolCall
	SegmentToolResult
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentText:
		return "text"
	case SegmentToolCall:
		return "tool_call"
	case SegmentToolResult:
		return "tool_result"
	default:
		return "unknown"
	}
}

// ToolCall is a capability request emitted by the model.
// ID is opaque and unique within the assistant turn that carries it.
type ToolCall struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input,omitempty"`
}

// ToolResult is the outcome of one ToolCall, keyed back by ToolCallID.
type ToolResult struct {
	ToolCallID string `json:"tool_call_id"`
	Content    string `json:"content"`
	IsError    bool   `json:"is_error"`
}

// Segment is the smallest unit of turn content. Exactly one of Text, Call or
// Result is meaningful, selected by Kind.
type Segment struct {
	Kind   SegmentKind `json:"kind"`
	Text   string      `json:"text,omitempty"`
	Call   *ToolCall   `json:"call,omitempty"`
	Result *ToolResult `json:"result,omitempty"`
}

func TextSegment(text string) Segment {
	return Segment{Kind: SegmentText, Text: text}
}

func CallSegment(c ToolCall) Segment {
	return Segment{Kind: SegmentToolCall, Call: &c}
}

func ResultSegment(r ToolResult) Segment {
	return Segment{Kind: SegmentToolResult, Result: &r}
}

// Turn is one role-attributed entry in the conversation.
type Turn struct {
	Role     Role      `json:"role"`
	Segments []Segment `json:"segments"`
}

// Text concatenates the turn's text segments in order.
func (t Turn) Text() string {
	var b strings.Builder
	for _, s := range t.Segments {
		if s.Kind == SegmentText {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// ToolCalls returns the tool calls carried by the turn, in order.
func (t Turn) ToolCalls() []ToolCall {
	var calls []ToolCall
	for _, s := range t.Segments {
		if s.Kind == SegmentToolCall && s.Call != nil {
			calls = append(calls, *s.Call)
		}
	}
	return calls
}

// ToolResults returns the tool results carried by the turn, in order.
func (t Turn) ToolResults() []ToolResult {
	var results []ToolResult
	for _, s := range t.Segments {
		if s.Kind == SegmentToolResult && s.Result != nil {
			results = append(results, *s.Result)
		}
	}
	return results
}

// Conversation is an append-only log of turns. It is owned by a single
// controller and is not safe for concurrent use.
type Conversation struct {
	turns []Turn
}

func NewConversation() *Conversation {
	return &Conversation{}
}

// Append adds t to the end of the log. The segment slice is copied so later
// changes to the caller's slice do not leak into recorded history.
func (c *Conversation) Append(t Turn) {
	t.Segments = slices.Clone(t.Segments)
	c.turns = append(c.turns, t)
}

// Turns returns a snapshot of the log, oldest first.
func (c *Conversation) Turns() []Turn {
	return slices.Clone(c.turns)
}

func (c *Conversation) Len() int { return len(c.turns) }

// Last returns the newest turn, if any.
func (c *Conversation) Last() (Turn, bool) {
	if len(c.turns) == 0 {
		return Turn{}, false
	}
	return c.turns[len(c.turns)-1], true
}
