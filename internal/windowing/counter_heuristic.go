package windowing

import (
	"unicode/utf8"

	"github.com/petasbytes/go-pilot/memory"
)

// TokenCounter estimates input-token cost for turns or groups.
type TokenCounter interface {
	CountTurn(t memory.Turn) int
	CountGroup(g Group, all []memory.Turn) int
}

// HeuristicCounter is the current default deterministic estimator.
// Rules:
// - text segments: rune count of the text
// - tool calls: rune count of the name plus the raw input
// - tool results: rune count of the content
// Every segment adds a small fixed overhead for formatting.
type HeuristicCounter struct{}

// Fixed per-segment overhead for deterministic counts; changing this requires updating the guard test.
const blockOverhead = 4

func (HeuristicCounter) CountTurn(t memory.Turn) int {
	total := 0
	for _, s := range t.Segments {
		total += countSegment(s)
	}
	return total
}

func (h HeuristicCounter) CountGroup(g Group, all []memory.Turn) int {
	total := 0
	for i := g.Start; i < g.End && i < len(all); i++ {
		total += h.CountTurn(all[i])
	}
	return total
}

func countSegment(s memory.Segment) int {
	switch s.Kind {
	case memory.SegmentText:
		return utf8.RuneCountInString(s.Text) + blockOverhead
	case memory.SegmentToolCall:
		if s.Call == nil {
			return blockOverhead
		}
		return utf8.RuneCountInString(s.Call.Name) + utf8.RuneCount(s.Call.Input) + blockOverhead
	case memory.SegmentToolResult:
		if s.Result == nil {
			return blockOverhead
		}
		return utf8.RuneCountInString(s.Result.Content) + blockOverhead
	default:
		logger.Debug("counter: unknown segment kind; using overhead only", "kind", s.Kind.String())
		return blockOverhead
	}
}
