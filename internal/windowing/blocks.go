package windowing

import (
	"log/slog"

	"github.com/petasbytes/go-pilot/memory"
)

// GroupKind denotes the atomic unit type when preparing a send window.
type GroupKind int

const (
	GroupSingleton GroupKind = iota
	GroupPair
)

// Group describes a contiguous span of turns [Start, End) in the original slice.
// Kind indicates whether it is a singleton or a validated pair.
type Group struct {
	Kind  GroupKind
	Start int // inclusive index into turns
	End   int // exclusive index into turns
}

// GroupBlocks groups turns into atomic units that preserve call/result pairs.
// Invariants:
// - A pair is exactly two adjacent turns: assistant(tool calls+...) then user(tool results...).
// - In the user turn, all tool results must come first; text (if any) comes after.
// - Parallel completeness: every call ID in the assistant turn appears as a
// result ID in the following user turn's leading result segment.
// - Error results are treated the same for grouping.
func GroupBlocks(turns []memory.Turn) []Group {
	groups := make([]Group, 0, len(turns))
	for i := 0; i < len(turns); {
		t := turns[i]
		if t.Role == memory.RoleAssistant {
			callIDs := collectCallIDs(t)
			if len(callIDs) > 0 {
				if i+1 < len(turns) && turns[i+1].Role == memory.RoleUser {
					valid, resultIDs := leadingResultIDsAndOrderingValid(turns[i+1])
					if valid && coversAll(resultIDs, callIDs) && noExtraResults(resultIDs, callIDs) {
						groups = append(groups, Group{Kind: GroupPair, Start: i, End: i + 2})
						i += 2
						continue
					}
					reason := ""
					switch {
					case !valid:
						reason = "ordering_invalid"
					case !coversAll(resultIDs, callIDs):
						reason = "missing_results"
					case !noExtraResults(resultIDs, callIDs):
						reason = "extra_results"
					default:
						reason = "unknown"
					}
					logger.Debug("exclude pair", "reason", reason, "idx", i)
				} else {
					logger.Debug("exclude pair", "reason", "not_followed_by_user", "idx", i)
				}
			}
		}
		groups = append(groups, Group{Kind: GroupSingleton, Start: i, End: i + 1})
		i++
	}
	return groups
}

func collectCallIDs(t memory.Turn) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, c := range t.ToolCalls() {
		if c.ID != "" {
			ids[c.ID] = struct{}{}
		}
	}
	return ids
}

// leadingResultIDsAndOrderingValid inspects a user turn and returns:
// - valid=false if any non-result segment appears before a result
// - resultIDs: the ids of results in the leading result segment.
// Text after the leading results is allowed and ignored for id collection.
func leadingResultIDsAndOrderingValid(t memory.Turn) (valid bool, resultIDs map[string]struct{}) {
	resultIDs = make(map[string]struct{})
	seenNonResult := false
	for _, s := range t.Segments {
		if s.Kind == memory.SegmentToolResult && s.Result != nil {
			if seenNonResult {
				return false, resultIDs
			}
			if s.Result.ToolCallID != "" {
				resultIDs[s.Result.ToolCallID] = struct{}{}
			}
			continue
		}
		seenNonResult = true
	}
	return true, resultIDs
}

// coversAll checks that every id in required is present in have.
func coversAll(have, required map[string]struct{}) bool {
	for id := range required {
		if _, ok := have[id]; !ok {
			return false
		}
	}
	return true
}

// noExtraResults rejects results that answer no call in the assistant turn.
func noExtraResults(have, allowed map[string]struct{}) bool {
	for id := range have {
		if _, ok := allowed[id]; !ok {
			return false
		}
	}
	return true
}

var logger = slog.Default().With("component", "windowing")

// SetLogger replaces the package logger used for debug traces.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l.With("component", "windowing")
	}
}
