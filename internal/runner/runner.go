package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/petasbytes/go-pilot/internal/telemetry"
	"github.com/petasbytes/go-pilot/internal/windowing"
	"github.com/petasbytes/go-pilot/memory"
	"github.com/petasbytes/go-pilot/tools"
)

var (
	// ErrStepLimit is returned when a Process call needs more round trips than WithMaxSteps allows.
	ErrStepLimit = errors.New("step limit reached")
	// ErrOverBudget is returned when no send window fits the token budget.
	ErrOverBudget = errors.New("newest turn group exceeds token budget")
)

// Runner owns one conversation and runs the reasoning loop over it.
// It is not safe for concurrent use.
type Runner struct {
	gw     Gateway
	reg    *tools.Registry
	conv   *memory.Conversation
	logger *slog.Logger

	model      string
	maxTokens  int64
	system     string
	maxSteps   int
	budget     int
	counter    windowing.TokenCounter
	toolChoice ToolChoice
	hooks      Hooks
}

func New(gw Gateway, reg *tools.Registry, opts ...Option) *Runner {
	if reg == nil {
		reg = tools.NewRegistry()
	}
	r := &Runner{
		gw:         gw,
		reg:        reg,
		conv:       memory.NewConversation(),
		logger:     slog.Default(),
		maxTokens:  DefaultMaxTokens,
		system:     DefaultSystemPrompt,
		counter:    windowing.HeuristicCounter{},
		toolChoice: ToolChoice{Mode: ToolChoiceAuto},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Conversation exposes the log for inspection.
func (r *Runner) Conversation() *memory.Conversation { return r.conv }

// Process appends input as a user turn and loops until the model replies
// without tool calls. It returns the most recent non-empty text the model
// produced during this call; "" means no answer was produced.
//
// Gateway failures come back as *GatewayError. Turns appended before a
// failure stay in the conversation.
func (r *Runner) Process(ctx context.Context, input string) (string, error) {
	turnID, ok := telemetry.TurnIDFromContext(ctx)
	if !ok {
		turnID = telemetry.NewTurnID()
		ctx = telemetry.WithTurnID(ctx, turnID)
	}
	telemetry.EmitLocalFeatures(ctx, input)

	r.conv.Append(memory.Turn{Role: memory.RoleUser, Segments: []memory.Segment{memory.TextSegment(input)}})

	var answer string
	for step := 1; ; step++ {
		resp, err := r.complete(ctx, turnID, step)
		if err != nil {
			return "", err
		}

		reply := memory.Turn{Role: memory.RoleAssistant, Segments: resp.Segments}
		if text := reply.Text(); text != "" {
			answer = text
		}
		r.conv.Append(reply)

		calls := reply.ToolCalls()
		if len(calls) == 0 {
			return answer, nil
		}

		results := make([]memory.Segment, 0, len(calls))
		for _, call := range calls {
			results = append(results, memory.ResultSegment(r.execute(ctx, call)))
		}
		r.conv.Append(memory.Turn{Role: memory.RoleUser, Segments: results})

		if r.maxSteps > 0 && step >= r.maxSteps {
			return "", fmt.Errorf("%w: %d round trips", ErrStepLimit, r.maxSteps)
		}
	}
}

func (r *Runner) execute(ctx context.Context, call memory.ToolCall) memory.ToolResult {
	if r.hooks.Before != nil {
		r.hooks.Before(call)
	}
	res := r.reg.Execute(ctx, call)
	if r.hooks.After != nil {
		r.hooks.After(call, res)
	}
	return res
}

// complete sends the current conversation (or its budgeted window) with the
// catalog and system instruction.
func (r *Runner) complete(ctx context.Context, turnID string, step int) (Response, error) {
	messages, err := r.window(turnID)
	if err != nil {
		return Response{}, err
	}

	req := Request{
		Model:      r.model,
		MaxTokens:  r.maxTokens,
		Messages:   messages,
		System:     r.system,
		ToolChoice: r.toolChoice,
	}
	// Calibration runs measure prompt size without tools.
	if !telemetry.CalibrationModeEnabled() {
		req.Tools = r.reg.Definitions()
	}

	start := time.Now()
	resp, err := r.gw.Complete(ctx, req)
	fields := map[string]any{
		"turn_id":     turnID,
		"step":        step,
		"model":       r.model,
		"messages":    len(messages),
		"tools":       len(req.Tools),
		"duration_ms": time.Since(start).Milliseconds(),
		"error":       nil,
	}
	if err != nil {
		fields["error"] = "gateway error"
		telemetry.Emit("gateway_call", fields)
		r.logger.Debug("gateway call failed", "turn_id", turnID, "step", step, "err", err)
		return Response{}, &GatewayError{Err: err}
	}
	fields["input_tokens"] = resp.Usage.InputTokens
	fields["output_tokens"] = resp.Usage.OutputTokens
	telemetry.Emit("gateway_call", fields)
	r.logger.Debug("gateway call",
		"turn_id", turnID,
		"step", step,
		"segments", len(resp.Segments),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)
	return resp, nil
}

func (r *Runner) window(turnID string) ([]memory.Turn, error) {
	turns := r.conv.Turns()
	if r.budget <= 0 {
		return turns, nil
	}

	window, stats := windowing.PrepareSendWindow(turns, r.budget, r.counter)
	telemetry.Emit("window_prepared", map[string]any{
		"turn_id":            turnID,
		"model":              r.model,
		"budget":             stats.Budget,
		"total_estimated":    stats.Total,
		"included_groups":    stats.IncludedGroups,
		"skipped_groups":     stats.SkippedGroups,
		"over_budget_newest": stats.OverBudgetNewest,
	})
	r.logger.Debug("window prepared",
		"budget", stats.Budget,
		"est_total", stats.Total,
		"groups_in", stats.IncludedGroups,
		"groups_skip", stats.SkippedGroups,
	)
	if stats.OverBudgetNewest {
		return nil, fmt.Errorf("%w (%d); raise the budget or tighten tool caps", ErrOverBudget, r.budget)
	}
	return window, nil
}
