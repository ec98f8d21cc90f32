package tools_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petasbytes/go-pilot/memory"
	"github.com/petasbytes/go-pilot/tools"
)

type echoInput struct {
	Text string `json:"text"`
}

func echoTool(name, prefix string) tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        name,
		Description: "echo text back",
		InputSchema: tools.GenerateSchema[echoInput](),
		Function: func(_ context.Context, in json.RawMessage) (string, error) {
			var v echoInput
			if err := json.Unmarshal(in, &v); err != nil {
				return "", err
			}
			return prefix + v.Text, nil
		},
	}
}

func TestRegistry_UnknownTool(t *testing.T) {
	r := tools.NewRegistry()

	res := r.Execute(context.Background(), memory.ToolCall{ID: "c1", Name: "missing", Input: json.RawMessage(`{}`)})
	assert.Equal(t, "c1", res.ToolCallID)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content, "missing")
}

func TestRegistry_Success(t *testing.T) {
	r := tools.NewRegistry(echoTool("echo", ""))

	res := r.Execute(context.Background(), memory.ToolCall{ID: "c1", Name: "echo", Input: json.RawMessage(`{"text":"hi"}`)})
	assert.Equal(t, memory.ToolResult{ToolCallID: "c1", Content: "hi"}, res)
}

func TestRegistry_RegisterReplacesSameName(t *testing.T) {
	r := tools.NewRegistry(echoTool("echo", "v1:"), echoTool("other", ""))
	r.Register(echoTool("echo", "v2:"))

	require.Equal(t, 2, r.Len())
	defs := r.Definitions()
	assert.Equal(t, "echo", defs[0].Name, "replaced name keeps its position")
	assert.Equal(t, "other", defs[1].Name)

	res := r.Execute(context.Background(), memory.ToolCall{ID: "c1", Name: "echo", Input: json.RawMessage(`{"text":"x"}`)})
	assert.Equal(t, "v2:x", res.Content)
}

func TestRegistry_DefinitionsStableOrder(t *testing.T) {
	r := tools.NewRegistry(echoTool("c", ""), echoTool("a", ""), echoTool("b", ""))

	for i := 0; i < 3; i++ {
		var names []string
		for _, d := range r.Definitions() {
			names = append(names, d.Name)
		}
		assert.Equal(t, []string{"c", "a", "b"}, names)
	}
}

func TestRegistry_HandlerError(t *testing.T) {
	r := tools.NewRegistry(tools.ToolDefinition{
		Name:        "boom",
		InputSchema: tools.GenerateSchema[struct{}](),
		Function: func(context.Context, json.RawMessage) (string, error) {
			return "", errors.New("disk on fire")
		},
	})

	res := r.Execute(context.Background(), memory.ToolCall{ID: "c1", Name: "boom"})
	assert.True(t, res.IsError)
	assert.Equal(t, "Error: disk on fire", res.Content)
}

func TestRegistry_PanicRecovered(t *testing.T) {
	r := tools.NewRegistry(tools.ToolDefinition{
		Name:        "panics",
		InputSchema: tools.GenerateSchema[struct{}](),
		Function: func(context.Context, json.RawMessage) (string, error) {
			panic("unexpected")
		},
	})

	var res memory.ToolResult
	require.NotPanics(t, func() {
		res = r.Execute(context.Background(), memory.ToolCall{ID: "c9", Name: "panics", Input: json.RawMessage(`null`)})
	})
	assert.Equal(t, "c9", res.ToolCallID)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content, "unexpected")
}

func TestRegistry_SchemaViolation(t *testing.T) {
	called := false
	def := echoTool("echo", "")
	inner := def.Function
	def.Function = func(ctx context.Context, in json.RawMessage) (string, error) {
		called = true
		return inner(ctx, in)
	}
	r := tools.NewRegistry(def)

	res := r.Execute(context.Background(), memory.ToolCall{ID: "c1", Name: "echo", Input: json.RawMessage(`{"text":42}`)})
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content, "Error: ")
	assert.False(t, called)

	res = r.Execute(context.Background(), memory.ToolCall{ID: "c2", Name: "echo", Input: json.RawMessage(`{}`)})
	assert.True(t, res.IsError, "required field missing")
	assert.False(t, called)
}

func TestRegistry_ExecuteDoesNotMutate(t *testing.T) {
	r := tools.NewRegistry(echoTool("echo", ""))
	before := r.Definitions()

	r.Execute(context.Background(), memory.ToolCall{ID: "c1", Name: "echo", Input: json.RawMessage(`{"text":"x"}`)})
	r.Execute(context.Background(), memory.ToolCall{ID: "c2", Name: "nope"})

	assert.Equal(t, len(before), r.Len())
	assert.Equal(t, before[0].Name, r.Definitions()[0].Name)
}

func TestDefault_Catalog(t *testing.T) {
	r := tools.Default(tools.ReviewFunc(func(context.Context, tools.Proposal) (string, error) { return "n", nil }))

	var names []string
	for _, d := range r.Definitions() {
		names = append(names, d.Name)
		assert.NotEmpty(t, d.Description)
		assert.NotNil(t, d.InputSchema.Properties)
	}
	assert.Equal(t, []string{"read", "ls", "edit"}, names)

	def, ok := r.Lookup("edit")
	require.True(t, ok)
	assert.Contains(t, def.InputSchema.Required, "path")
	assert.Contains(t, def.InputSchema.Required, "old_content")
}

func TestIsApproval(t *testing.T) {
	assert.True(t, tools.IsApproval("y"))
	assert.True(t, tools.IsApproval(" Y\n"))
	assert.False(t, tools.IsApproval("yes"))
	assert.False(t, tools.IsApproval(""))
	assert.False(t, tools.IsApproval("n"))
}
