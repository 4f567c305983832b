package insights

import (
	"math"
	"sort"
	"strings"

	"penny/internal/domain/budget"
	"penny/internal/domain/ledger"
)

// CategoryLine is one category's spend joined against its budget, if any.
// Budget and Variance stay nil for categories without an assigned budget.
type CategoryLine struct {
	Name     string   `json:"name"`
	Spent    float64  `json:"spent"`
	Budget   *float64 `json:"budget,omitempty"`
	Variance *float64 `json:"variance,omitempty"` // budget - spent
}

// Summary is the aggregation of one week window: per-category spend/budget
// lines ranked by spend, plus the derived totals the weekly overview shows.
type Summary struct {
	Window             Window         `json:"window"`
	Categories         []CategoryLine `json:"categories"`
	UncategorizedSpent float64        `json:"uncategorizedSpent"`
	TotalBudget        float64        `json:"totalBudget"`
	TotalSpent         float64        `json:"totalSpent"`
	TotalIncome        float64        `json:"totalIncome"`
	Discretionary      float64        `json:"discretionary"`
	LeftToSpend        float64        `json:"leftToSpend"`
	MetBudget          bool           `json:"metBudget"`
}

// Aggregate computes the summary for a window over the given records and the
// already-resolved latest budget periods. The window and budget snapshot are
// passed in explicitly so the computation stays pure and runs against fixed
// clocks in tests.
//
// Transfers never count toward spend or income. Excluded records count toward
// nothing. Uncategorized spend is reported on its own and is never compared
// against the nil-category budget row: that row tracks unrelated fixed
// recurring transfers, not uncategorized expenses.
func Aggregate(win Window, records []*ledger.Record, budgets []*budget.Budget) *Summary {
	spentByCategory := make(map[string]float64)
	summary := &Summary{Window: win}

	for _, rec := range records {
		if rec.Excluded || rec.Kind == ledger.KindTransfer || !win.Contains(rec.Day) {
			continue
		}
		switch rec.Kind {
		case ledger.KindExpense:
			amount := math.Abs(rec.Amount)
			summary.TotalSpent += amount
			if rec.Category != nil && *rec.Category != "" {
				spentByCategory[*rec.Category] += amount
			} else {
				summary.UncategorizedSpent += amount
			}
		case ledger.KindIncome:
			summary.TotalIncome += rec.Amount
		}
	}

	budgetByCategory := make(map[string]float64)
	for _, b := range budgets {
		if b.Category == nil {
			continue // general budget row, deliberately not joined
		}
		budgetByCategory[*b.Category] = b.WeeklyLimit
		summary.TotalBudget += b.WeeklyLimit
	}

	// Budgeted categories appear even with zero spend so budget coverage is
	// visible when unused.
	names := make(map[string]struct{}, len(spentByCategory)+len(budgetByCategory))
	for name := range spentByCategory {
		names[name] = struct{}{}
	}
	for name := range budgetByCategory {
		names[name] = struct{}{}
	}

	var budgetedSpend float64
	for name := range names {
		line := CategoryLine{Name: name, Spent: spentByCategory[name]}
		if limit, ok := budgetByCategory[name]; ok {
			budgetLimit := limit
			variance := limit - line.Spent
			line.Budget = &budgetLimit
			line.Variance = &variance
			budgetedSpend += line.Spent
		}
		summary.Categories = append(summary.Categories, line)
	}

	sort.Slice(summary.Categories, func(i, j int) bool {
		a, b := summary.Categories[i], summary.Categories[j]
		if a.Spent != b.Spent {
			return a.Spent > b.Spent
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})

	summary.Discretionary = summary.TotalSpent - budgetedSpend
	summary.LeftToSpend = (summary.TotalIncome - summary.TotalBudget) - summary.Discretionary
	summary.MetBudget = summary.TotalSpent <= summary.TotalBudget

	return summary
}

// TopCategories returns the first n ranked category lines.
func (s *Summary) TopCategories(n int) []CategoryLine {
	if n >= len(s.Categories) {
		return s.Categories
	}
	return s.Categories[:n]
}
