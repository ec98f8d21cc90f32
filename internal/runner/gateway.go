package runner

import (
	"context"

	"github.com/petasbytes/go-pilot/memory"
	"github.com/petasbytes/go-pilot/tools"
)

// Gateway sends one request to a model backend and returns the assistant's
// reply. Any error is a hard failure for the current Process call.
type Gateway interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// ToolChoiceMode selects how the model may use the catalog.
type ToolChoiceMode string

const (
	ToolChoiceAuto ToolChoiceMode = "auto" // model decides
	ToolChoiceAny  ToolChoiceMode = "any"  // model must call some tool
	ToolChoiceTool ToolChoiceMode = "tool" // model must call Name
)

type ToolChoice struct {
	Mode ToolChoiceMode
	Name string
}

type Request struct {
	Model      string
	MaxTokens  int64
	Messages   []memory.Turn
	System     string
	Tools      []tools.Descriptor
	ToolChoice ToolChoice
}

type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Response carries the segments of one assistant turn, in order.
type Response struct {
	Segments []memory.Segment
	Usage    Usage
}

// GatewayError wraps a failure returned by the Gateway.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string { return "gateway: " + e.Err.Error() }

func (e *GatewayError) Unwrap() error { return e.Err }
