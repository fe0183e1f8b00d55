// Package chat powers the Catty assistant: a spending context derived from the
// ledger, a persona prompt, and a Gemini-backed reply service with a fixed
// fallback so the endpoint never fails outright.
package chat

import (
	"fmt"
	"sort"
	"strings"

	"catty/internal/core"
)

// maxRecentTransactions bounds how much ledger detail goes into the prompt.
const maxRecentTransactions = 12

// BuildContext serializes the user's current spending picture for the model.
// Same ledger, goal and today always produce the same string, so prompts are
// reproducible and cacheable.
func BuildContext(txs []core.Transaction, cfg core.GoalConfig, today core.Date) string {
	summary := core.Summarize(txs, cfg)

	var b strings.Builder
	b.WriteString("Current spending picture:\n")
	fmt.Fprintf(&b, "- Budget target: %s over %d days (daily goal %s)\n",
		cfg.Target, cfg.PeriodDays, summary.DailyGoal)
	fmt.Fprintf(&b, "- Spent so far: %s (%d%% of target, %s)\n",
		summary.TotalExpense, summary.SpendingPercentage, tierLabel(summary.SpendingPercentage))
	fmt.Fprintf(&b, "- Income: %s, balance: %s, remaining budget: %s\n",
		summary.TotalIncome, summary.Balance, summary.Remaining)

	totals := core.CategoryTotals(txs)
	if len(totals) > 0 {
		b.WriteString("- Spending by category: ")
		parts := make([]string, 0, len(totals))
		for _, ct := range totals {
			parts = append(parts, fmt.Sprintf("%s %s", ct.Name, ct.Amount))
		}
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString("\n")
	}

	// Newest first by id, regardless of the order the caller loaded them in.
	recent := make([]core.Transaction, len(txs))
	copy(recent, txs)
	sort.Slice(recent, func(i, j int) bool { return recent[i].ID > recent[j].ID })
	if len(recent) > maxRecentTransactions {
		recent = recent[:maxRecentTransactions]
	}
	if len(recent) > 0 {
		b.WriteString("- Recent transactions:\n")
		for _, t := range recent {
			line := fmt.Sprintf("  %s %s %s (%s)", t.Kind, t.Magnitude(), t.Category, t.OccurredOn)
			if t.Mood != core.MoodNone {
				line += fmt.Sprintf(", felt %s", t.Mood)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "- Today is %s\n", today.Format("January 2, 2006"))
	return b.String()
}

// tierLabel maps the spending percentage onto the same thresholds the
// progress color uses.
func tierLabel(pct int) string {
	switch {
	case pct < 60:
		return "on track"
	case pct <= 80:
		return "caution"
	default:
		return "over budget"
	}
}
