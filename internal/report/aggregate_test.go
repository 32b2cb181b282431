package report

import (
	"testing"
	"time"

	"familybudget/internal/core"
)

func rec(cents int64, category string, created time.Time) core.Record {
	return core.Record{
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Description: "test",
		CreatedAt:   created,
	}
}

func TestSum(t *testing.T) {
	jan := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	records := []core.Record{
		rec(1000, "Housing", jan),
		rec(250, "Housing", jan),
		rec(0, "Energy & Utilities", jan), // normalized-to-zero amount counts as zero
	}
	if got := Sum(records).Cents; got != 1250 {
		t.Fatalf("Sum = %d, want 1250", got)
	}
	if got := Sum(nil).Cents; got != 0 {
		t.Fatalf("Sum(nil) = %d, want 0", got)
	}
}

func TestBreakdownBy(t *testing.T) {
	jan := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	records := []core.Record{
		rec(1000, "Housing", jan),
		rec(500, "Housing", jan),
		rec(300, "Transport", jan),
		rec(200, "", jan), // empty key falls back
	}
	got := BreakdownBy(records, ByCategory, core.FallbackCategory)

	if b := got["Housing"]; b.Count != 2 || b.Total.Cents != 1500 {
		t.Errorf("Housing = %+v, want count 2 total 1500", b)
	}
	if b := got["Transport"]; b.Count != 1 || b.Total.Cents != 300 {
		t.Errorf("Transport = %+v", b)
	}
	if b := got[core.FallbackCategory]; b.Count != 1 || b.Total.Cents != 200 {
		t.Errorf("fallback = %+v", b)
	}

	// Breakdown totals always sum back to the plain sum.
	var total int64
	for _, b := range got {
		total += b.Total.Cents
	}
	if total != Sum(records).Cents {
		t.Fatalf("breakdown totals %d != sum %d", total, Sum(records).Cents)
	}
}

func TestTrendPercent(t *testing.T) {
	cases := []struct {
		name     string
		current  int64
		previous int64
		wantPct  float64
		wantDir  Direction
	}{
		{"down 20 percent", 8000, 10000, 20, TrendDown},
		{"up 50 percent", 1500, 1000, 50, TrendUp},
		{"flat", 1000, 1000, 0, TrendNeutral},
		{"zero previous never divides", 4200, 0, 0, TrendNeutral},
		{"zero both", 0, 0, 0, TrendNeutral},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TrendPercent(core.Money{Cents: tc.current}, core.Money{Cents: tc.previous})
			if got.Percentage != tc.wantPct || got.Direction != tc.wantDir {
				t.Fatalf("TrendPercent = %+v, want {%v %v}", got, tc.wantPct, tc.wantDir)
			}
		})
	}
}

func TestNetBalance(t *testing.T) {
	jan := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	income := []core.Record{rec(10000, "", jan)}
	fixed := []core.Record{rec(3000, "Housing", jan)}
	variable := []core.Record{rec(1500, "Boodschappen", jan)}

	if got := NetBalance(income, fixed, variable).Cents; got != 5500 {
		t.Fatalf("NetBalance = %d, want 5500", got)
	}
	// Net balances are signed.
	if got := NetBalance(nil, fixed).Cents; got != -3000 {
		t.Fatalf("NetBalance = %d, want -3000", got)
	}
}

// Partition consistency: summing each month's filtered subset over every
// distinct key reproduces the full sum, with no record dropped or counted
// twice.
func TestSumPartitionByMonth(t *testing.T) {
	records := []core.Record{
		rec(100, "a", time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC)),
		rec(200, "b", time.Date(2024, time.January, 28, 0, 0, 0, 0, time.UTC)),
		rec(300, "c", time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)),
		rec(400, "d", time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC)),
	}
	keys := map[core.MonthKey]struct{}{}
	for _, r := range records {
		keys[r.Key()] = struct{}{}
	}
	var partitioned int64
	for k := range keys {
		partitioned += Sum(FilterByMonth(records, k)).Cents
	}
	if partitioned != Sum(records).Cents {
		t.Fatalf("partitioned sum %d != total %d", partitioned, Sum(records).Cents)
	}
}
