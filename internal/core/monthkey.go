package core

import "time"

// MonthKey is the canonical "YYYY-MM" grouping key derived from a record's
// bucketing date. It is a derived value, never persisted on the record.
type MonthKey string

// NoMonthKey is the sentinel for records without any usable date field.
const NoMonthKey MonthKey = ""

const monthKeyLayout = "2006-01"

// MonthKeyFor derives the key for the calendar month containing t.
// Day and time of day are irrelevant.
func MonthKeyFor(t time.Time) MonthKey {
	return MonthKey(t.Format(monthKeyLayout))
}

// MonthKeyOf builds a key from an explicit year and month.
func MonthKeyOf(year int, month time.Month) MonthKey {
	return MonthKeyFor(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// ParseMonthKey validates a "YYYY-MM" string. Returns NoMonthKey and false
// for anything else.
func ParseMonthKey(s string) (MonthKey, bool) {
	t, err := time.Parse(monthKeyLayout, s)
	if err != nil {
		return NoMonthKey, false
	}
	return MonthKeyFor(t), true
}

// Valid reports whether the key is a well-formed "YYYY-MM" value.
func (k MonthKey) Valid() bool {
	_, ok := ParseMonthKey(string(k))
	return ok
}

// Date returns the key's year and month. ok is false for NoMonthKey and
// malformed keys.
func (k MonthKey) Date() (year int, month time.Month, ok bool) {
	t, err := time.Parse(monthKeyLayout, string(k))
	if err != nil {
		return 0, 0, false
	}
	return t.Year(), t.Month(), true
}

func (k MonthKey) String() string {
	return string(k)
}
