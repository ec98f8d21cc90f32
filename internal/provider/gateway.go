package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/petasbytes/go-pilot/internal/runner"
	"github.com/petasbytes/go-pilot/internal/telemetry"
	"github.com/petasbytes/go-pilot/memory"
	"github.com/petasbytes/go-pilot/tools"
)

// Gateway sends runner requests to the Anthropic Messages API.
type Gateway struct {
	client *anthropic.Client
}

var _ runner.Gateway = (*Gateway)(nil)

func NewGateway(client *anthropic.Client) *Gateway {
	return &Gateway{client: client}
}

func (g *Gateway) Complete(ctx context.Context, req runner.Request) (runner.Response, error) {
	params := BuildParams(req)
	telemetry.PersistPayload(ctx, "request", params)

	msg, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return runner.Response{}, fmt.Errorf("messages.new: %w", err)
	}
	telemetry.PersistPayload(ctx, "response", msg)

	return runner.Response{
		Segments: FromContent(msg.Content),
		Usage: runner.Usage{
			InputTokens:  msg.Usage.InputTokens,
			OutputTokens: msg.Usage.OutputTokens,
		},
	}, nil
}

// BuildParams maps a runner request onto Messages API parameters.
func BuildParams(req runner.Request) anthropic.MessageNewParams {
	model := req.Model
	if model == "" {
		model = string(DefaultModel)
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: req.MaxTokens,
		Messages:  ToMessageParams(req.Messages),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if len(req.Tools) > 0 {
		params.Tools = toolParams(req.Tools)
		params.ToolChoice = toolChoice(req.ToolChoice)
	}
	return params
}

// EmptyTurnText stands in for a turn that has no sendable content, since
// the API rejects messages without content blocks.
const EmptyTurnText = "(empty)"

// ToMessageParams converts turns to API messages. Empty text segments are
// dropped since the API rejects empty text blocks.
func ToMessageParams(turns []memory.Turn) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(turns))
	for _, t := range turns {
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(t.Segments))
		for _, s := range t.Segments {
			switch s.Kind {
			case memory.SegmentText:
				if s.Text != "" {
					blocks = append(blocks, anthropic.NewTextBlock(s.Text))
				}
			case memory.SegmentToolCall:
				if s.Call == nil {
					continue
				}
				input := s.Call.Input
				if len(input) == 0 {
					input = json.RawMessage(`{}`)
				}
				blocks = append(blocks, anthropic.NewToolUseBlock(s.Call.ID, input, s.Call.Name))
			case memory.SegmentToolResult:
				if s.Result == nil {
					continue
				}
				blocks = append(blocks, anthropic.NewToolResultBlock(s.Result.ToolCallID, s.Result.Content, s.Result.IsError))
			}
		}
		if len(blocks) == 0 {
			blocks = append(blocks, anthropic.NewTextBlock(EmptyTurnText))
		}
		if t.Role == memory.RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		} else {
			out = append(out, anthropic.NewUserMessage(blocks...))
		}
	}
	return out
}

// FromContent converts response blocks to segments, keeping order. Block
// types other than text and tool use are skipped.
func FromContent(content []anthropic.ContentBlockUnion) []memory.Segment {
	segs := make([]memory.Segment, 0, len(content))
	for _, block := range content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			segs = append(segs, memory.TextSegment(v.Text))
		case anthropic.ToolUseBlock:
			input := json.RawMessage(v.JSON.Input.Raw())
			if len(input) == 0 {
				input = json.RawMessage(`{}`)
			}
			segs = append(segs, memory.CallSegment(memory.ToolCall{ID: v.ID, Name: v.Name, Input: input}))
		}
	}
	return segs
}

func toolParams(ds []tools.Descriptor) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(ds))
	for _, d := range ds {
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        d.Name,
			Description: anthropic.String(d.Description),
			InputSchema: d.InputSchema,
		}})
	}
	return out
}

func toolChoice(tc runner.ToolChoice) anthropic.ToolChoiceUnionParam {
	switch tc.Mode {
	case runner.ToolChoiceAny:
		return anthropic.ToolChoiceUnionParam{OfAny: &anthropic.ToolChoiceAnyParam{}}
	case runner.ToolChoiceTool:
		return anthropic.ToolChoiceUnionParam{OfTool: &anthropic.ToolChoiceToolParam{Name: tc.Name}}
	default:
		return anthropic.ToolChoiceUnionParam{OfAuto: &anthropic.ToolChoiceAutoParam{}}
	}
}
