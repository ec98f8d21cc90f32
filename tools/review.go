package tools

import (
	"context"
	"strings"

	"github.com/petasbytes/go-pilot/internal/diffview"
)

// Proposal is a pending edit shown to a human before anything is written.
type Proposal struct {
	Path   string
	Create bool
	Diff   diffview.Diff
}

// Reviewer presents a proposal to a human and returns their raw reply.
// Review blocks until the reply arrives, the input ends, or ctx is done.
type Reviewer interface {
	Review(ctx context.Context, p Proposal) (string, error)
}

// ReviewFunc adapts a plain function to Reviewer.
type ReviewFunc func(ctx context.Context, p Proposal) (string, error)

func (f ReviewFunc) Review(ctx context.Context, p Proposal) (string, error) { return f(ctx, p) }

// IsApproval reports whether reply approves a proposal: a lone "y" in
// either case, ignoring surrounding whitespace.
func IsApproval(reply string) bool {
	return strings.EqualFold(strings.TrimSpace(reply), "y")
}
