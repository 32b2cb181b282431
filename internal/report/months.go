package report

import (
	"sort"
	"time"

	"familybudget/internal/core"
)

// FilterByMonth returns the stable-order subsequence of records whose month
// key matches target. An empty target means "no filter" and returns the
// input unchanged; callers rely on this for the initial render before a
// month is selected.
func FilterByMonth(records []core.Record, target core.MonthKey) []core.Record {
	if target == core.NoMonthKey {
		return records
	}
	var out []core.Record
	for _, r := range records {
		if k := r.Key(); k != core.NoMonthKey && k == target {
			out = append(out, r)
		}
	}
	return out
}

// AvailableMonths collects the distinct month keys across a union of record
// collections, always including the month containing now so the picker can
// offer "now" even on an empty store. Result is sorted descending (most
// recent first).
func AvailableMonths(now time.Time, collections ...[]core.Record) []core.MonthKey {
	seen := map[core.MonthKey]struct{}{
		core.MonthKeyFor(now): {},
	}
	for _, records := range collections {
		for _, r := range records {
			if k := r.Key(); k != core.NoMonthKey {
				seen[k] = struct{}{}
			}
		}
	}
	keys := make([]core.MonthKey, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	// "YYYY-MM" sorts chronologically as a string
	sort.Slice(keys, func(i, j int) bool { return keys[i] > keys[j] })
	return keys
}

// AvailableYears scans all record collections plus savings goals for the
// distinct years of their creation timestamps, sorted descending. With no
// data at all, the year containing now is the sole option.
func AvailableYears(now time.Time, goals []core.SavingsGoal, collections ...[]core.Record) []int {
	seen := map[int]struct{}{}
	for _, records := range collections {
		for _, r := range records {
			if !r.CreatedAt.IsZero() {
				seen[r.CreatedAt.Year()] = struct{}{}
			}
		}
	}
	for _, g := range goals {
		if !g.CreatedAt.IsZero() {
			seen[g.CreatedAt.Year()] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return []int{now.Year()}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// PreviousMonth returns the key of the calendar month before k. Used for
// month-over-month trend comparisons.
func PreviousMonth(k core.MonthKey) core.MonthKey {
	year, month, ok := k.Date()
	if !ok {
		return core.NoMonthKey
	}
	return core.MonthKeyFor(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0))
}
