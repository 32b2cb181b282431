// Package report implements the derived-aggregation layer: month filtering,
// sums, category/source breakdowns, trends and yearly rollups. Everything in
// this package is pure; data-quality problems degrade to zero values instead
// of errors, and the presentation layer renders empty states.
package report

import (
	"strings"

	"familybudget/internal/core"
)

const (
	TrendUp      Direction = "up"
	TrendDown    Direction = "down"
	TrendNeutral Direction = "neutral"
)

type (
	// Direction tags which way a trend points. It carries no judgement:
	// whether "up" is good depends on whether the metric is income-like or
	// expense-like, and that call belongs to the presentation layer.
	Direction string

	// Trend is the percentage change between a current and a comparison
	// period. Percentage is always non-negative; the sign lives in Direction.
	Trend struct {
		Percentage float64   `json:"percentage"`
		Direction  Direction `json:"direction"`
	}

	// Breakdown accumulates per-group count and total.
	Breakdown struct {
		Count int        `json:"count"`
		Total core.Money `json:"total"`
	}
)

// Sum totals the amounts of a record sequence. Records are normalized on
// read, so a missing or unparsable amount already arrives as zero cents.
func Sum(records []core.Record) core.Money {
	var total core.Money
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return total
}

// BreakdownBy groups records by a caller-supplied key extractor, accumulating
// count and total per key. Records whose key is empty are grouped under
// fallback.
func BreakdownBy(records []core.Record, key func(core.Record) string, fallback string) map[string]Breakdown {
	out := make(map[string]Breakdown)
	for _, r := range records {
		k := strings.TrimSpace(key(r))
		if k == "" {
			k = fallback
		}
		b := out[k]
		b.Count++
		b.Total = b.Total.Add(r.Amount)
		out[k] = b
	}
	return out
}

// ByCategory is the key extractor for expense breakdowns.
func ByCategory(r core.Record) string { return r.Category }

// BySource is the key extractor for income breakdowns.
func BySource(r core.Record) string { return r.Source }

// TrendPercent compares a current total against a previous one. A zero or
// absent previous period yields {0, neutral} rather than dividing by zero.
func TrendPercent(current, previous core.Money) Trend {
	if previous.Cents == 0 {
		return Trend{Percentage: 0, Direction: TrendNeutral}
	}
	diff := current.Cents - previous.Cents
	dir := TrendNeutral
	switch {
	case diff > 0:
		dir = TrendUp
	case diff < 0:
		dir = TrendDown
	}
	if diff < 0 {
		diff = -diff
	}
	prev := previous.Cents
	if prev < 0 {
		prev = -prev
	}
	return Trend{
		Percentage: float64(diff) / float64(prev) * 100,
		Direction:  dir,
	}
}

// NetBalance computes income minus the union of all expense kinds for a
// period. Expense collections must already be filtered to the same period.
func NetBalance(income []core.Record, expenseKinds ...[]core.Record) core.Money {
	net := Sum(income)
	for _, expenses := range expenseKinds {
		net = net.Sub(Sum(expenses))
	}
	return net
}
