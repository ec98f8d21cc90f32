package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/petasbytes/go-pilot/internal/telemetry"
	"github.com/petasbytes/go-pilot/memory"
)

// Registry holds capabilities keyed by name in registration order.
// It is not safe for concurrent registration; execution never mutates it.
type Registry struct {
	defs    *orderedmap.OrderedMap[string, ToolDefinition]
	schemas map[string]*jsonschema.Schema
	logger  *slog.Logger
}

// NewRegistry returns a registry pre-populated with defs.
func NewRegistry(defs ...ToolDefinition) *Registry {
	r := &Registry{
		defs:    orderedmap.New[string, ToolDefinition](),
		schemas: make(map[string]*jsonschema.Schema),
		logger:  slog.Default(),
	}
	for _, d := range defs {
		r.Register(d)
	}
	return r
}

// Default wires the file tools; edits are reviewed by rev.
func Default(rev Reviewer) *Registry {
	return NewRegistry(ReadFileDefinition, ListFilesDefinition, NewEditFileDefinition(rev))
}

// SetLogger replaces the logger used for soft failures.
func (r *Registry) SetLogger(l *slog.Logger) {
	if l != nil {
		r.logger = l
	}
}

// Register inserts def, replacing any capability with the same name. A
// replaced name keeps its catalog position.
func (r *Registry) Register(def ToolDefinition) {
	r.defs.Set(def.Name, def)

	delete(r.schemas, def.Name)
	compiled, err := compileSchema(def)
	if err != nil {
		r.logger.Warn("tool schema not compiled; input validation disabled", "tool", def.Name, "err", err)
		return
	}
	r.schemas[def.Name] = compiled
}

func compileSchema(def ToolDefinition) (*jsonschema.Schema, error) {
	doc, err := schemaDocument(def.InputSchema)
	if err != nil {
		return nil, err
	}
	url := "mem://tools/" + def.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, bytes.NewReader(doc)); err != nil {
		return nil, err
	}
	return c.Compile(url)
}

// Lookup returns the capability registered under name.
func (r *Registry) Lookup(name string) (ToolDefinition, bool) {
	return r.defs.Get(name)
}

func (r *Registry) Len() int { return r.defs.Len() }

// Definitions returns the catalog in registration order.
func (r *Registry) Definitions() []Descriptor {
	out := make([]Descriptor, 0, r.defs.Len())
	for p := r.defs.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Value.Descriptor())
	}
	return out
}

// Execute runs call and always returns a result for call.ID. Unknown tools,
// schema violations, handler errors and panics all come back as is_error
// results so the model can see and react to them.
func (r *Registry) Execute(ctx context.Context, call memory.ToolCall) (res memory.ToolResult) {
	start := time.Now()
	res.ToolCallID = call.ID

	input := call.Input
	if len(bytes.TrimSpace(input)) == 0 || bytes.Equal(bytes.TrimSpace(input), []byte("null")) {
		input = json.RawMessage(`{}`)
	}

	defer func() {
		if p := recover(); p != nil {
			res = memory.ToolResult{ToolCallID: call.ID, Content: fmt.Sprintf("Error: panic: %v", p), IsError: true}
			r.observe(ctx, call, len(input), start, res, "tool panic")
		}
	}()

	def, ok := r.defs.Get(call.Name)
	if !ok {
		res.Content = fmt.Sprintf("tool '%s' not found", call.Name)
		res.IsError = true
		r.observe(ctx, call, len(input), start, res, "tool not found")
		return res
	}

	if err := r.validate(call.Name, input); err != nil {
		res.Content = "Error: " + err.Error()
		res.IsError = true
		r.observe(ctx, call, len(input), start, res, "invalid input")
		return res
	}

	out, err := def.Function(ctx, input)
	if err != nil {
		res.Content = "Error: " + err.Error()
		res.IsError = true
		r.observe(ctx, call, len(input), start, res, "tool error")
		return res
	}
	res.Content = out
	r.observe(ctx, call, len(input), start, res, "")
	return res
}

func (r *Registry) validate(name string, input json.RawMessage) error {
	schema, ok := r.schemas[name]
	if !ok {
		return nil
	}
	var v any
	if err := json.Unmarshal(input, &v); err != nil {
		return fmt.Errorf("invalid JSON input: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("input does not match schema: %w", err)
	}
	return nil
}

// observe logs soft failures and emits a tool_exec event. Only sizes are
// recorded; raw inputs and outputs stay out of telemetry.
func (r *Registry) observe(ctx context.Context, call memory.ToolCall, inSize int, start time.Time, res memory.ToolResult, errKind string) {
	turnID, _ := telemetry.TurnIDFromContext(ctx)
	outSize := len(res.Content)
	var errField any
	if errKind != "" {
		errField = errKind
		outSize = 0
		r.logger.Warn("tool failed", "tool", call.Name, "id", call.ID, "kind", errKind)
	}
	telemetry.Emit("tool_exec", map[string]any{
		"tool_name":   call.Name,
		"duration_ms": time.Since(start).Milliseconds(),
		"input_size":  inSize,
		"output_size": outSize,
		"turn_id":     turnID,
		"error":       errField,
	})
}
