package runner_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petasbytes/go-pilot/internal/runner"
	"github.com/petasbytes/go-pilot/memory"
	"github.com/petasbytes/go-pilot/tools"
)

func TestProcess_NoToolCalls_TwoTurns(t *testing.T) {
	gw := &scriptedGateway{replies: []runner.Response{reply(text("Hello!"))}}
	r := runner.New(gw, tools.NewRegistry(), runner.WithModel("m"))

	out, err := r.Process(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "Hello!", out)

	turns := r.Conversation().Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, memory.RoleUser, turns[0].Role)
	assert.Equal(t, "hi", turns[0].Text())
	assert.Equal(t, memory.RoleAssistant, turns[1].Role)

	require.Len(t, gw.requests, 1)
	req := gw.requests[0]
	assert.Equal(t, "m", req.Model)
	assert.Equal(t, runner.DefaultMaxTokens, req.MaxTokens)
	assert.Equal(t, runner.DefaultSystemPrompt, req.System)
	assert.Equal(t, runner.ToolChoice{Mode: runner.ToolChoiceAuto}, req.ToolChoice)
	assert.Len(t, req.Messages, 1)
}

func TestProcess_ListThenAnswer_FourTurns(t *testing.T) {
	var lsCalls int
	reg := tools.NewRegistry(stubTool("ls", "[FILE] main.go", &lsCalls))
	gw := &scriptedGateway{replies: []runner.Response{
		reply(call("c1", "ls", `{"path":"."}`)),
		reply(text("Done.")),
	}}
	r := runner.New(gw, reg)

	out, err := r.Process(context.Background(), "list")
	require.NoError(t, err)
	assert.Equal(t, "Done.", out)
	assert.Equal(t, 1, lsCalls)

	turns := r.Conversation().Turns()
	require.Len(t, turns, 4)
	assert.Equal(t, []memory.Role{memory.RoleUser, memory.RoleAssistant, memory.RoleUser, memory.RoleAssistant},
		[]memory.Role{turns[0].Role, turns[1].Role, turns[2].Role, turns[3].Role})

	results := turns[2].ToolResults()
	require.Len(t, results, 1)
	assert.Equal(t, memory.ToolResult{ToolCallID: "c1", Content: "[FILE] main.go"}, results[0])

	// The second request carries the call and its result.
	require.Len(t, gw.requests, 2)
	assert.Len(t, gw.requests[1].Messages, 3)
	require.Len(t, gw.requests[1].Tools, 1)
	assert.Equal(t, "ls", gw.requests[1].Tools[0].Name)
}

func TestProcess_EveryCallAnsweredInOrder(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		t.Run(fmt.Sprintf("%d calls", n), func(t *testing.T) {
			reg := tools.NewRegistry(stubTool("read", "content", nil))
			var segs []memory.Segment
			for i := n - 1; i >= 0; i-- {
				name := "read"
				if i%2 == 1 {
					name = "missing"
				}
				segs = append(segs, call(fmt.Sprintf("id-%d", i), name, `{}`))
			}
			gw := &scriptedGateway{replies: []runner.Response{reply(segs...), reply(text("ok"))}}
			r := runner.New(gw, reg)

			_, err := r.Process(context.Background(), "go")
			require.NoError(t, err)

			turns := r.Conversation().Turns()
			calls := turns[1].ToolCalls()
			results := turns[2].ToolResults()
			require.Len(t, results, len(calls))
			for i := range calls {
				assert.Equal(t, calls[i].ID, results[i].ToolCallID)
				assert.Equal(t, calls[i].Name == "missing", results[i].IsError)
			}
		})
	}
}

func TestProcess_LastNonEmptyTextWins(t *testing.T) {
	reg := tools.NewRegistry(stubTool("ls", "x", nil))
	gw := &scriptedGateway{replies: []runner.Response{
		reply(text("Let me look."), call("c1", "ls", `{}`)),
		reply(call("c2", "ls", `{}`)),
		reply(),
	}}
	r := runner.New(gw, reg)

	out, err := r.Process(context.Background(), "look around")
	require.NoError(t, err)
	assert.Equal(t, "Let me look.", out)
	assert.Equal(t, 6, r.Conversation().Len())
}

func TestProcess_NoTextAtAll(t *testing.T) {
	gw := &scriptedGateway{replies: []runner.Response{reply()}}
	r := runner.New(gw, nil)

	out, err := r.Process(context.Background(), "hi")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestProcess_GatewayError_KeepsEarlierTurns(t *testing.T) {
	boom := errors.New("connection reset")
	reg := tools.NewRegistry(stubTool("ls", "x", nil))
	gw := &scriptedGateway{
		replies: []runner.Response{reply(call("c1", "ls", `{}`))},
		errs:    map[int]error{1: boom},
	}
	r := runner.New(gw, reg)

	_, err := r.Process(context.Background(), "list")
	require.Error(t, err)

	var gwErr *runner.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.ErrorIs(t, err, boom)

	turns := r.Conversation().Turns()
	require.Len(t, turns, 3, "user, assistant call, user results")
	assert.Len(t, turns[2].ToolResults(), 1)

	// The session continues on the same conversation.
	gw.replies = append(gw.replies, runner.Response{}, reply(text("back")))
	out, err := r.Process(context.Background(), "again")
	require.NoError(t, err)
	assert.Equal(t, "back", out)
	assert.Equal(t, 5, r.Conversation().Len())
}

func TestProcess_StepLimit(t *testing.T) {
	reg := tools.NewRegistry(stubTool("ls", "x", nil))
	gw := &scriptedGateway{replies: []runner.Response{
		reply(call("c1", "ls", `{}`)),
		reply(call("c2", "ls", `{}`)),
		reply(text("never")),
	}}
	r := runner.New(gw, reg, runner.WithMaxSteps(2))

	_, err := r.Process(context.Background(), "loop")
	require.ErrorIs(t, err, runner.ErrStepLimit)
	assert.Len(t, gw.requests, 2)

	last, ok := r.Conversation().Last()
	require.True(t, ok)
	assert.Equal(t, memory.RoleUser, last.Role)
	assert.Len(t, last.ToolResults(), 1, "results are appended before stopping")
}

func TestProcess_HooksWrapExecution(t *testing.T) {
	reg := tools.NewRegistry(stubTool("ls", "x", nil))
	gw := &scriptedGateway{replies: []runner.Response{
		reply(call("c1", "ls", `{}`), call("c2", "nope", `{}`)),
		reply(text("done")),
	}}
	var log []string
	r := runner.New(gw, reg, runner.WithHooks(runner.Hooks{
		Before: func(c memory.ToolCall) { log = append(log, "before "+c.Name) },
		After: func(c memory.ToolCall, res memory.ToolResult) {
			log = append(log, fmt.Sprintf("after %s error=%t", c.Name, res.IsError))
		},
	}))

	_, err := r.Process(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"before ls", "after ls error=false",
		"before nope", "after nope error=true",
	}, log)
}

func TestProcess_OptionsReachRequest(t *testing.T) {
	gw := &scriptedGateway{replies: []runner.Response{reply(text("ok"))}}
	r := runner.New(gw, tools.NewRegistry(stubTool("ls", "", nil)),
		runner.WithSystemPrompt("be brief"),
		runner.WithMaxTokens(128),
		runner.WithToolChoice(runner.ToolChoice{Mode: runner.ToolChoiceTool, Name: "ls"}),
	)

	_, err := r.Process(context.Background(), "hi")
	require.NoError(t, err)

	req := gw.requests[0]
	assert.Equal(t, "be brief", req.System)
	assert.Equal(t, int64(128), req.MaxTokens)
	assert.Equal(t, runner.ToolChoice{Mode: runner.ToolChoiceTool, Name: "ls"}, req.ToolChoice)
}

func TestProcess_TokenBudgetWindow(t *testing.T) {
	gw := &scriptedGateway{replies: []runner.Response{reply(text("first")), reply(text("second"))}}
	// "first question" = 14 runes + 4 overhead; a budget of 20 only fits the newest user turn.
	r := runner.New(gw, nil, runner.WithTokenBudget(20))

	_, err := r.Process(context.Background(), "first question")
	require.NoError(t, err)
	_, err = r.Process(context.Background(), "next")
	require.NoError(t, err)

	require.Len(t, gw.requests, 2)
	sent := gw.requests[1].Messages
	require.Len(t, sent, 1)
	assert.Equal(t, "next", sent[0].Text())
	assert.Equal(t, 4, r.Conversation().Len(), "windowing never drops turns from the log")
}

func TestProcess_TokenBudgetExceeded(t *testing.T) {
	gw := &scriptedGateway{}
	r := runner.New(gw, nil, runner.WithTokenBudget(3))

	_, err := r.Process(context.Background(), "this does not fit")
	require.ErrorIs(t, err, runner.ErrOverBudget)
	assert.Empty(t, gw.requests, "no request when nothing fits")
}
