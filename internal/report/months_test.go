package report

import (
	"reflect"
	"testing"
	"time"

	"familybudget/internal/core"
)

func TestFilterByMonth(t *testing.T) {
	march := rec(100, "a", time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC))
	april := rec(200, "b", time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC))
	records := []core.Record{march, april}

	got := FilterByMonth(records, core.MonthKey("2024-03"))
	if len(got) != 1 || got[0].Amount.Cents != 100 {
		t.Fatalf("FilterByMonth(2024-03) = %+v, want only the March record", got)
	}

	// Records dated on the last day of a month stay in that month.
	endOfMonth := rec(300, "c", time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC))
	got = FilterByMonth([]core.Record{endOfMonth}, core.MonthKey("2024-03"))
	if len(got) != 1 {
		t.Fatalf("boundary record excluded from its month")
	}

	// The empty key disables filtering entirely.
	got = FilterByMonth(records, core.NoMonthKey)
	if len(got) != 2 {
		t.Fatalf("empty key filtered records: got %d, want 2", len(got))
	}

	if got := FilterByMonth(nil, core.MonthKey("2024-03")); len(got) != 0 {
		t.Fatalf("FilterByMonth(nil) = %+v, want empty", got)
	}
}

func TestAvailableMonths(t *testing.T) {
	now := time.Date(2024, time.May, 20, 12, 0, 0, 0, time.UTC)
	expenses := []core.Record{
		rec(100, "a", time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)),
		rec(200, "a", time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)),
		rec(300, "a", time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC)),
	}
	income := []core.Record{
		rec(400, "", time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)),
	}

	got := AvailableMonths(now, expenses, income)
	want := []core.MonthKey{"2024-05", "2024-03", "2023-12"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AvailableMonths = %v, want %v", got, want)
	}

	// No data still yields the current month.
	got = AvailableMonths(now)
	if !reflect.DeepEqual(got, []core.MonthKey{"2024-05"}) {
		t.Fatalf("AvailableMonths(empty) = %v", got)
	}
}

func TestAvailableYears(t *testing.T) {
	now := time.Date(2024, time.May, 20, 12, 0, 0, 0, time.UTC)
	goals := []core.SavingsGoal{
		{Name: "Vakantie", CreatedAt: time.Date(2022, time.June, 1, 0, 0, 0, 0, time.UTC)},
	}
	expenses := []core.Record{
		rec(100, "a", time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC)),
	}

	got := AvailableYears(now, goals, expenses)
	want := []int{2024, 2023, 2022}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AvailableYears = %v, want %v", got, want)
	}

	if got := AvailableYears(now, nil); !reflect.DeepEqual(got, []int{2024}) {
		t.Fatalf("AvailableYears(empty) = %v", got)
	}
}

func TestPreviousMonth(t *testing.T) {
	cases := []struct {
		in   core.MonthKey
		want core.MonthKey
	}{
		{"2024-03", "2024-02"},
		{"2024-01", "2023-12"},
		{"not-a-key", core.NoMonthKey},
	}
	for _, tc := range cases {
		if got := PreviousMonth(tc.in); got != tc.want {
			t.Errorf("PreviousMonth(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
