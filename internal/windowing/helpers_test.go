package windowing_test

import (
	"encoding/json"

	"github.com/petasbytes/go-pilot/internal/windowing"
	"github.com/petasbytes/go-pilot/memory"
)

// Text segment constructor
func T(text string) memory.Segment {
	return memory.TextSegment(text)
}

// Tool call with empty name and input; costs only the segment overhead.
func TC(id string) memory.Segment {
	return memory.CallSegment(memory.ToolCall{ID: id})
}

// Tool call with a name and raw input, for counter tests.
func TCInput(id, name, input string) memory.Segment {
	return memory.CallSegment(memory.ToolCall{ID: id, Name: name, Input: json.RawMessage(input)})
}

// Tool result (no payload), with optional error flag - used by grouping tests where payload length is irrelevant
func TR(id string, isErr bool) memory.Segment {
	return memory.ResultSegment(memory.ToolResult{ToolCallID: id, IsError: isErr})
}

// Tool result with a payload - preferred in counter tests for deterministic sizing
func TRString(id, s string) memory.Segment {
	return memory.ResultSegment(memory.ToolResult{ToolCallID: id, Content: s})
}

func Asst(segs ...memory.Segment) memory.Turn {
	return memory.Turn{Role: memory.RoleAssistant, Segments: segs}
}

func User(segs ...memory.Segment) memory.Turn {
	return memory.Turn{Role: memory.RoleUser, Segments: segs}
}

// Intervening returns a turn that simply breaks adjacency between
// assistant(tool calls) and the expected next user(tool results).
func Intervening(text string) memory.Turn {
	return Asst(T(text))
}

// groupsEqual is a small utility used by grouping tests.
func groupsEqual(got, want []windowing.Group) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i].Kind != want[i].Kind || got[i].Start != want[i].Start || got[i].End != want[i].End {
			return false
		}
	}
	return true
}
