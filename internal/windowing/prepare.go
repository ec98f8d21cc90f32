package windowing

import "github.com/petasbytes/go-pilot/memory"

// Stats summarizes the result of window preparation.
//
// Fields:
// - Total: estimated tokens for included groups only.
// - Budget: the input token budget used.
// - IncludedGroups: number of groups included.
// - SkippedGroups: total groups minus IncludedGroups.
// - OverBudgetNewest: true when no window that starts with a user turn fits Budget.
type Stats struct {
	Total            int
	Budget           int
	IncludedGroups   int
	SkippedGroups    int
	OverBudgetNewest bool
}

// PrepareSendWindow returns a subslice of turns (oldest→newest) that fits
// within budget using the TokenCounter, without splitting groups.
//
// Rules:
// - Include whole groups scanning newest→oldest while total ≤ budget.
// - The window must open with a user turn; leading groups that start with an
// assistant turn are dropped.
// - If the newest group alone exceeds budget, or nothing remains after the
// rule above, return an empty window and set OverBudgetNewest.
// - If budget ≤ 0, return an empty window (OverBudgetNewest set when any groups exist).
func PrepareSendWindow(turns []memory.Turn, budget int, c TokenCounter) ([]memory.Turn, Stats) {
	if len(turns) == 0 {
		return nil, Stats{Budget: budget}
	}

	groups := GroupBlocks(turns)
	overBudget := Stats{Budget: budget, SkippedGroups: len(groups), OverBudgetNewest: true}

	if budget <= 0 {
		return nil, overBudget
	}

	costs := make([]int, len(groups))
	for i, g := range groups {
		costs[i] = c.CountGroup(g, turns)
	}

	total := 0
	startIdx := len(groups)
	for gi := len(groups) - 1; gi >= 0; gi-- {
		if total+costs[gi] > budget {
			break
		}
		total += costs[gi]
		startIdx = gi
	}

	if startIdx == len(groups) {
		logger.Debug("over budget newest group", "budget", budget, "cost", costs[len(groups)-1])
		return nil, overBudget
	}

	for startIdx < len(groups) && turns[groups[startIdx].Start].Role != memory.RoleUser {
		total -= costs[startIdx]
		startIdx++
	}
	if startIdx == len(groups) {
		logger.Debug("no user-led window fits", "budget", budget)
		return nil, overBudget
	}

	included := len(groups) - startIdx
	return turns[groups[startIdx].Start:], Stats{
		Total:          total,
		Budget:         budget,
		IncludedGroups: included,
		SkippedGroups:  len(groups) - included,
	}
}
