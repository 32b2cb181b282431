package core

import (
	"errors"
	"strings"
	"time"
)

const (
	GoalActive    GoalStatus = "active"
	GoalPaused    GoalStatus = "paused"
	GoalCompleted GoalStatus = "completed"
)

// FallbackCategory is the label expense records group under when they carry
// no category, and the reassignment target when their category is deleted.
const FallbackCategory = "Overig"

// FallbackSource is the label income records group under when they carry no source.
const FallbackSource = "Onbekend"

type (
	GoalStatus string

	// Record is the canonical shape shared by fixed expenses, variable
	// expenses and income entries. Expense records group by Category,
	// income records by Source; the other field stays empty.
	Record struct {
		ID            string
		Amount        Money
		Category      string
		Source        string
		Description   string
		Notes         string
		Date          time.Time // optional user-entered date
		ProcessedDate time.Time // optional bank processing date
		CreatedAt     time.Time
		UpdatedAt     time.Time
	}

	SavingsGoal struct {
		ID                  string
		Name                string
		TargetAmount        Money
		CurrentBalance      Money
		TargetDate          time.Time
		MonthlyContribution Money
		Status              GoalStatus
		Description         string
		CreatedAt           time.Time
		UpdatedAt           time.Time
	}

	Category struct {
		ID          string
		Name        string
		Label       string
		Description string
		Icon        string
		Color       string
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyName        = errors.New("empty name")
	ErrNotFound         = errors.New("not found")
)

// BucketTime returns the date a record counts toward, applying the
// createdAt > date > processedDate precedence. ok is false when the record
// carries no usable date at all.
func (r Record) BucketTime() (t time.Time, ok bool) {
	switch {
	case !r.CreatedAt.IsZero():
		return r.CreatedAt, true
	case !r.Date.IsZero():
		return r.Date, true
	case !r.ProcessedDate.IsZero():
		return r.ProcessedDate, true
	}
	return time.Time{}, false
}

// Key derives the record's month grouping key, or NoMonthKey when the record
// has no usable date. Callers exclude keyless records from month-based views.
func (r Record) Key() MonthKey {
	t, ok := r.BucketTime()
	if !ok {
		return NoMonthKey
	}
	return MonthKeyFor(t)
}

func (r Record) Validate() error {
	if len(strings.TrimSpace(r.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(r.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if r.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyName
	}
	if g.TargetAmount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if g.CurrentBalance.Cents < 0 {
		return ErrInvalidAmount
	}
	switch g.Status {
	case GoalActive, GoalPaused, GoalCompleted, "":
	default:
		return errors.New("invalid goal status")
	}
	return nil
}

// Progress returns the raw balance/target ratio. It is deliberately not
// clamped; trend math needs the overshoot. Display code uses ProgressClamped.
func (g SavingsGoal) Progress() float64 {
	if g.TargetAmount.Cents == 0 {
		return 0
	}
	return float64(g.CurrentBalance.Cents) / float64(g.TargetAmount.Cents)
}

// ProgressClamped returns the progress ratio clamped to [0, 1].
func (g SavingsGoal) ProgressClamped() float64 {
	p := g.Progress()
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func (c Category) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyName
	}
	return nil
}

// DefaultCategories is the fixed seed set merged with user-defined custom
// categories at load time. The "Overig" entry doubles as the reassignment
// target for deleted categories.
func DefaultCategories() []Category {
	return []Category{
		{ID: "housing", Name: "Housing", Label: "Wonen", Color: "#3B82F6"},
		{ID: "energy", Name: "Energy & Utilities", Label: "Energie & Nutsvoorzieningen", Color: "#10B981"},
		{ID: "insurance", Name: "Insurance", Label: "Verzekeringen", Color: "#F59E0B"},
		{ID: "transportation", Name: "Transportation", Label: "Transport", Color: "#EF4444"},
		{ID: "subscriptions", Name: "Subscriptions & Media", Label: "Abonnementen & Media", Color: "#8B5CF6"},
		{ID: "other", Name: FallbackCategory, Label: FallbackCategory, Color: "#6B7280"},
	}
}

// MergeCategories overlays stored custom categories on the default seed set.
// Matching is by name; a custom entry wins over the seed with the same name,
// and the relative order (seeds first, then additions) is stable.
func MergeCategories(custom []Category) []Category {
	merged := DefaultCategories()
	index := make(map[string]int, len(merged))
	for i, c := range merged {
		index[c.Name] = i
	}
	for _, c := range custom {
		if i, ok := index[c.Name]; ok {
			merged[i] = c
			continue
		}
		index[c.Name] = len(merged)
		merged = append(merged, c)
	}
	return merged
}
