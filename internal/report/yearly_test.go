package report

import (
	"testing"
	"time"

	"familybudget/internal/core"
)

func TestBuildYear(t *testing.T) {
	income := []core.Record{
		rec(10000, "", time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)),
		rec(20000, "", time.Date(2024, time.February, 5, 0, 0, 0, 0, time.UTC)),
	}
	income[0].Source = "Salaris"
	income[1].Source = "Salaris"
	fixed := []core.Record{
		rec(5000, "Wonen", time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)),
	}

	rollup := BuildYear(2024, fixed, nil, income)

	if rollup.Year != 2024 {
		t.Fatalf("Year = %d", rollup.Year)
	}
	if got := rollup.Summary; got.TotalIncome.Cents != 30000 ||
		got.TotalExpenses.Cents != 5000 ||
		got.NetChange.Cents != 25000 {
		t.Fatalf("summary = %+v, want income 30000 expenses 5000 net 25000", got)
	}

	jan := rollup.Monthly[0]
	if jan.Month != "2024-01" {
		t.Fatalf("Monthly[0].Month = %q", jan.Month)
	}
	if jan.Income.Cents != 10000 || jan.Expenses.Cents != 5000 || jan.NetBalance.Cents != 5000 {
		t.Fatalf("January = %+v", jan)
	}
	if jan.Savings.Cents != 500 {
		t.Fatalf("January savings = %d, want 10%% of positive net", jan.Savings.Cents)
	}
	if jan.ExpensesByCategory["Wonen"].Cents != 5000 {
		t.Fatalf("January category breakdown = %v", jan.ExpensesByCategory)
	}

	feb := rollup.Monthly[1]
	if feb.Income.Cents != 20000 || feb.Expenses.Cents != 0 || feb.NetBalance.Cents != 20000 {
		t.Fatalf("February = %+v", feb)
	}
	if rollup.Summary.IncomeBySource["Salaris"].Cents != 30000 {
		t.Fatalf("summary income by source = %v", rollup.Summary.IncomeBySource)
	}

	// Months with no records are present with zero totals.
	for i := 2; i < 12; i++ {
		m := rollup.Monthly[i]
		if m.Income.Cents != 0 || m.Expenses.Cents != 0 || m.Savings.Cents != 0 {
			t.Fatalf("Monthly[%d] not zero: %+v", i, m)
		}
		if m.Month == core.NoMonthKey {
			t.Fatalf("Monthly[%d] missing month key", i)
		}
	}
}

func TestBuildYearEmpty(t *testing.T) {
	rollup := BuildYear(2024, nil, nil, nil)
	if rollup.Summary.TotalIncome.Cents != 0 || rollup.Summary.NetChange.Cents != 0 {
		t.Fatalf("empty year summary = %+v", rollup.Summary)
	}
	for i, m := range rollup.Monthly {
		want := core.MonthKeyOf(2024, time.Month(i+1))
		if m.Month != want {
			t.Fatalf("Monthly[%d].Month = %q, want %q", i, m.Month, want)
		}
	}
}

func TestBuildYearNoSavingsOnDeficit(t *testing.T) {
	fixed := []core.Record{
		rec(8000, "Wonen", time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)),
	}
	income := []core.Record{
		rec(3000, "", time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)),
	}
	rollup := BuildYear(2024, fixed, nil, income)
	mar := rollup.Monthly[2]
	if mar.NetBalance.Cents != -5000 {
		t.Fatalf("March net = %d", mar.NetBalance.Cents)
	}
	if mar.Savings.Cents != 0 {
		t.Fatalf("deficit month should carry zero savings, got %d", mar.Savings.Cents)
	}
}

func TestParsePeriod(t *testing.T) {
	cases := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{"", PeriodAll, false},
		{"all", PeriodAll, false},
		{"Q2", "q2", false},
		{" mar ", "mar", false},
		{"h1", "", true},
		{"13", "", true},
	}
	for _, tc := range cases {
		got, err := ParsePeriod(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParsePeriod(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParsePeriod(%q) = %q, %v, want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestSlicePeriod(t *testing.T) {
	fixed := []core.Record{
		rec(1000, "Wonen", time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)),
		rec(2000, "Wonen", time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)),
		rec(4000, "Transport", time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)),
		rec(9999, "Wonen", time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)),
	}
	income := []core.Record{
		rec(50000, "", time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)),
	}
	rollup := BuildYear(2024, fixed, nil, income)

	q1 := SlicePeriod(rollup, "q1")
	if q1.TotalExpenses.Cents != 7000 {
		t.Fatalf("q1 expenses = %d, want Jan+Feb+Mar only", q1.TotalExpenses.Cents)
	}
	if q1.TotalIncome.Cents != 50000 {
		t.Fatalf("q1 income = %d", q1.TotalIncome.Cents)
	}
	if q1.ExpensesByCategory["Wonen"].Cents != 3000 || q1.ExpensesByCategory["Transport"].Cents != 4000 {
		t.Fatalf("q1 breakdown = %v", q1.ExpensesByCategory)
	}

	// A quarter's totals equal the sum of its three monthly entries.
	var monthly int64
	for _, i := range Period("q1").MonthIndexes() {
		monthly += rollup.Monthly[i].Expenses.Cents
	}
	if monthly != q1.TotalExpenses.Cents {
		t.Fatalf("q1 slice %d != monthly series sum %d", q1.TotalExpenses.Cents, monthly)
	}

	// Slicing the whole year reproduces the precomputed summary.
	all := SlicePeriod(rollup, PeriodAll)
	if all.TotalExpenses != rollup.Summary.TotalExpenses ||
		all.TotalIncome != rollup.Summary.TotalIncome ||
		all.NetChange != rollup.Summary.NetChange {
		t.Fatalf("full-year slice %+v != summary %+v", all, rollup.Summary)
	}

	feb := SlicePeriod(rollup, "feb")
	if feb.TotalExpenses.Cents != 2000 || feb.TotalIncome.Cents != 0 {
		t.Fatalf("feb slice = %+v", feb)
	}
}
