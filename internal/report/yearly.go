package report

import (
	"fmt"
	"strings"
	"time"

	"familybudget/internal/core"
)

type (
	// MonthSummary is one entry of a year's monthly time series.
	MonthSummary struct {
		Month              core.MonthKey         `json:"month"`
		Income             core.Money            `json:"income"`
		Expenses           core.Money            `json:"expenses"`
		NetBalance         core.Money            `json:"netBalance"`
		Savings            core.Money            `json:"savings"`
		IncomeBySource     map[string]core.Money `json:"incomeBySource"`
		ExpensesByCategory map[string]core.Money `json:"expensesByCategory"`
	}

	// PeriodSummary is the derived, non-persisted aggregate for a period.
	PeriodSummary struct {
		TotalIncome        core.Money            `json:"totalIncome"`
		TotalExpenses      core.Money            `json:"totalExpenses"`
		TotalSavings       core.Money            `json:"totalSavings"`
		NetChange          core.Money            `json:"netChange"`
		IncomeBySource     map[string]core.Money `json:"incomeBySource"`
		ExpensesByCategory map[string]core.Money `json:"expensesByCategory"`
	}

	// YearlyRollup is a year's monthly series plus its period summary.
	YearlyRollup struct {
		Year    int             `json:"year"`
		Monthly [12]MonthSummary `json:"monthly"`
		Summary PeriodSummary   `json:"summary"`
	}

	// Period selects a slice of a yearly rollup: the whole year, a quarter,
	// or a single named month.
	Period string
)

const PeriodAll Period = "all"

var periodMonths = map[Period][]int{
	PeriodAll: {0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	"q1":      {0, 1, 2},
	"q2":      {3, 4, 5},
	"q3":      {6, 7, 8},
	"q4":      {9, 10, 11},
	"jan":     {0}, "feb": {1}, "mar": {2}, "apr": {3},
	"may": {4}, "jun": {5}, "jul": {6}, "aug": {7},
	"sep": {8}, "oct": {9}, "nov": {10}, "dec": {11},
}

// ParsePeriod validates a period selector. The empty string means the whole
// year.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PeriodAll, nil
	}
	p := Period(s)
	if _, ok := periodMonths[p]; !ok {
		return "", fmt.Errorf("unknown period %q", s)
	}
	return p, nil
}

// MonthIndexes returns the zero-based month indexes the period covers.
func (p Period) MonthIndexes() []int {
	idx, ok := periodMonths[p]
	if !ok {
		return periodMonths[PeriodAll]
	}
	return idx
}

// BuildYear composes the month indexer, month filter and aggregator across
// all 12 months of a year. The rollup is well-formed even when no record
// qualifies: every month is present with zero totals, and the presentation
// layer uses Summary.TotalIncome == 0 as its empty-state signal.
//
// The per-month savings figure is a placeholder heuristic: 10% of a positive
// net balance, zero otherwise. It is not derived from savings-goal
// contributions.
func BuildYear(year int, fixed, variable, income []core.Record) YearlyRollup {
	rollup := YearlyRollup{Year: year}
	summary := PeriodSummary{
		IncomeBySource:     map[string]core.Money{},
		ExpensesByCategory: map[string]core.Money{},
	}

	for i := 0; i < 12; i++ {
		key := core.MonthKeyOf(year, time.Month(i+1))

		monthFixed := FilterByMonth(fixed, key)
		monthVariable := FilterByMonth(variable, key)
		monthIncome := FilterByMonth(income, key)

		m := MonthSummary{
			Month:              key,
			Income:             Sum(monthIncome),
			Expenses:           Sum(monthFixed).Add(Sum(monthVariable)),
			IncomeBySource:     totalsOnly(BreakdownBy(monthIncome, BySource, core.FallbackSource)),
			ExpensesByCategory: mergeTotals(
				totalsOnly(BreakdownBy(monthFixed, ByCategory, core.FallbackCategory)),
				totalsOnly(BreakdownBy(monthVariable, ByCategory, core.FallbackCategory)),
			),
		}
		m.NetBalance = m.Income.Sub(m.Expenses)
		if m.NetBalance.Cents > 0 {
			m.Savings = core.Money{Cents: m.NetBalance.Cents / 10}
		}
		rollup.Monthly[i] = m

		summary.TotalIncome = summary.TotalIncome.Add(m.Income)
		summary.TotalExpenses = summary.TotalExpenses.Add(m.Expenses)
		summary.TotalSavings = summary.TotalSavings.Add(m.Savings)
		summary.NetChange = summary.NetChange.Add(m.NetBalance)
		summary.IncomeBySource = mergeTotals(summary.IncomeBySource, m.IncomeBySource)
		summary.ExpensesByCategory = mergeTotals(summary.ExpensesByCategory, m.ExpensesByCategory)
	}

	rollup.Summary = summary
	return rollup
}

// SlicePeriod recomputes a summary for a sub-year period by re-summing the
// already-computed monthly series. Raw records are never re-filtered here;
// that guarantees slice sums stay consistent with the year-level summary.
func SlicePeriod(rollup YearlyRollup, p Period) PeriodSummary {
	out := PeriodSummary{
		IncomeBySource:     map[string]core.Money{},
		ExpensesByCategory: map[string]core.Money{},
	}
	for _, i := range p.MonthIndexes() {
		m := rollup.Monthly[i]
		out.TotalIncome = out.TotalIncome.Add(m.Income)
		out.TotalExpenses = out.TotalExpenses.Add(m.Expenses)
		out.TotalSavings = out.TotalSavings.Add(m.Savings)
		out.NetChange = out.NetChange.Add(m.NetBalance)
		out.IncomeBySource = mergeTotals(out.IncomeBySource, m.IncomeBySource)
		out.ExpensesByCategory = mergeTotals(out.ExpensesByCategory, m.ExpensesByCategory)
	}
	return out
}

func totalsOnly(in map[string]Breakdown) map[string]core.Money {
	out := make(map[string]core.Money, len(in))
	for k, b := range in {
		out[k] = b.Total
	}
	return out
}

func mergeTotals(dst map[string]core.Money, src map[string]core.Money) map[string]core.Money {
	if dst == nil {
		dst = make(map[string]core.Money, len(src))
	}
	for k, v := range src {
		dst[k] = dst[k].Add(v)
	}
	return dst
}
