package runner_test

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/petasbytes/go-pilot/internal/runner"
	"github.com/petasbytes/go-pilot/memory"
	"github.com/petasbytes/go-pilot/tools"
)

// scriptedGateway replays canned replies in order and records every request.
type scriptedGateway struct {
	replies  []runner.Response
	errs     map[int]error // request index -> error
	requests []runner.Request
}

func (g *scriptedGateway) Complete(_ context.Context, req runner.Request) (runner.Response, error) {
	g.requests = append(g.requests, req)
	i := len(g.requests) - 1
	if err := g.errs[i]; err != nil {
		return runner.Response{}, err
	}
	if i >= len(g.replies) {
		return runner.Response{}, errors.New("script exhausted")
	}
	return g.replies[i], nil
}

func reply(segs ...memory.Segment) runner.Response {
	return runner.Response{Segments: segs}
}

func text(s string) memory.Segment { return memory.TextSegment(s) }

func call(id, name, input string) memory.Segment {
	return memory.CallSegment(memory.ToolCall{ID: id, Name: name, Input: json.RawMessage(input)})
}

// stubTool returns a capability that answers with out and counts invocations.
func stubTool(name, out string, calls *int) tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        name,
		Description: "stub " + name,
		InputSchema: tools.GenerateSchema[struct {
			Path string `json:"path,omitempty"`
		}](),
		Function: func(context.Context, json.RawMessage) (string, error) {
			if calls != nil {
				*calls++
			}
			return out, nil
		},
	}
}

// observeInto routes telemetry events into a temp dir and returns a reader for them.
func observeInto(t *testing.T) func() []map[string]any {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AGT_OBSERVE_JSON", "1")
	t.Setenv("AGT_ARTIFACTS_DIR", dir)

	return func() []map[string]any {
		f, err := os.Open(filepath.Join(dir, "events.jsonl"))
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			t.Fatalf("open events: %v", err)
		}
		defer f.Close()

		var out []map[string]any
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			var m map[string]any
			if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
				t.Fatalf("invalid JSON line %q: %v", sc.Text(), err)
			}
			out = append(out, m)
		}
		return out
	}
}

func eventsNamed(events []map[string]any, name string) []map[string]any {
	var out []map[string]any
	for _, e := range events {
		if e["event"] == name {
			out = append(out, e)
		}
	}
	return out
}
