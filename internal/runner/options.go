package runner

import (
	"log/slog"

	"github.com/petasbytes/go-pilot/internal/windowing"
	"github.com/petasbytes/go-pilot/memory"
)

const (
	DefaultMaxTokens int64 = 4096
)

// Hooks observe tool execution. Before runs ahead of the call (and of any
// confirmation prompt it raises); After sees the result.
type Hooks struct {
	Before func(call memory.ToolCall)
	After  func(call memory.ToolCall, res memory.ToolResult)
}

type Option func(*Runner)

func WithModel(model string) Option {
	return func(r *Runner) { r.model = model }
}

// WithMaxTokens bounds the length of each model reply. Non-positive values are ignored.
func WithMaxTokens(n int64) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxTokens = n
		}
	}
}

func WithSystemPrompt(s string) Option {
	return func(r *Runner) { r.system = s }
}

// WithMaxSteps caps the gateway round trips per Process call. Zero means no cap.
func WithMaxSteps(n int) Option {
	return func(r *Runner) { r.maxSteps = max(n, 0) }
}

// WithTokenBudget enables the send window: only the newest turn groups
// fitting budget estimated tokens are sent. Zero sends the full conversation.
func WithTokenBudget(budget int) Option {
	return func(r *Runner) { r.budget = max(budget, 0) }
}

func WithTokenCounter(c windowing.TokenCounter) Option {
	return func(r *Runner) {
		if c != nil {
			r.counter = c
		}
	}
}

func WithToolChoice(tc ToolChoice) Option {
	return func(r *Runner) { r.toolChoice = tc }
}

func WithHooks(h Hooks) Option {
	return func(r *Runner) { r.hooks = h }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}
