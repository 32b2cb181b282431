package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"familybudget/internal/core"
)

// The stored documents came from a browser app that never validated what it
// wrote: amounts may be numbers or strings, ids may be numeric, goals may
// use legacy field names. Decoding normalizes all of that into the canonical
// types; anything unusable degrades to a zero value instead of failing the
// whole document. Encoding always writes the canonical shape.

type recordDTO struct {
	ID            json.RawMessage `json:"id,omitempty"`
	Amount        json.RawMessage `json:"amount,omitempty"`
	Category      string          `json:"category,omitempty"`
	Source        string          `json:"source,omitempty"`
	Description   string          `json:"description,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Date          string          `json:"date,omitempty"`
	ProcessedDate string          `json:"processedDate,omitempty"`
	CreatedAt     string          `json:"createdAt,omitempty"`
	UpdatedAt     string          `json:"updatedAt,omitempty"`
}

type goalDTO struct {
	ID                  json.RawMessage `json:"id,omitempty"`
	Name                string          `json:"name,omitempty"`
	TargetAmount        json.RawMessage `json:"targetAmount,omitempty"`
	CurrentBalance      json.RawMessage `json:"currentBalance,omitempty"`
	CurrentAmount       json.RawMessage `json:"currentAmount,omitempty"` // legacy name
	TargetDate          string          `json:"targetDate,omitempty"`
	Deadline            string          `json:"deadline,omitempty"` // legacy name
	MonthlyContribution json.RawMessage `json:"monthlyContribution,omitempty"`
	Status              string          `json:"status,omitempty"`
	Description         string          `json:"description,omitempty"`
	CreatedAt           string          `json:"createdAt,omitempty"`
	UpdatedAt           string          `json:"updatedAt,omitempty"`
}

type categoryDTO struct {
	ID          json.RawMessage `json:"id,omitempty"`
	Name        string          `json:"name,omitempty"`
	Label       string          `json:"label,omitempty"`
	Description string          `json:"description,omitempty"`
	Icon        string          `json:"icon,omitempty"`
	Color       string          `json:"color,omitempty"`
	CreatedAt   string          `json:"createdAt,omitempty"`
	UpdatedAt   string          `json:"updatedAt,omitempty"`
}

// flexString accepts a JSON string or number and returns it as a string.
func flexString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// flexMoney accepts a JSON number or a numeric string, in euros, and
// returns cents. Unparsable values become zero with a warning so corrupt
// documents leave a trace in the logs.
func flexMoney(raw json.RawMessage, field string) core.Money {
	if len(raw) == 0 {
		return core.Money{}
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return core.Money{Cents: core.CentsFromFloat(f)}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return core.Money{Cents: core.CentsFromFloat(f)}
		}
	}
	slog.Warn("Unparsable amount in stored document, using zero",
		"field", field, "value", string(raw))
	return core.Money{}
}

// flexTime parses the timestamp formats seen in stored documents.
// Unparsable values become the zero time with a warning.
func flexTime(s, field string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	slog.Warn("Unparsable timestamp in stored document, using zero time",
		"field", field, "value", s)
	return time.Time{}
}

func timeString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func (d recordDTO) toRecord() core.Record {
	return core.Record{
		ID:            flexString(d.ID),
		Amount:        flexMoney(d.Amount, "amount"),
		Category:      d.Category,
		Source:        d.Source,
		Description:   d.Description,
		Notes:         d.Notes,
		Date:          flexTime(d.Date, "date"),
		ProcessedDate: flexTime(d.ProcessedDate, "processedDate"),
		CreatedAt:     flexTime(d.CreatedAt, "createdAt"),
		UpdatedAt:     flexTime(d.UpdatedAt, "updatedAt"),
	}
}

func recordToDTO(r core.Record) recordDTO {
	id, _ := json.Marshal(r.ID)
	amount, _ := json.Marshal(r.Amount.Float())
	return recordDTO{
		ID:            id,
		Amount:        amount,
		Category:      r.Category,
		Source:        r.Source,
		Description:   r.Description,
		Notes:         r.Notes,
		Date:          timeString(r.Date),
		ProcessedDate: timeString(r.ProcessedDate),
		CreatedAt:     timeString(r.CreatedAt),
		UpdatedAt:     timeString(r.UpdatedAt),
	}
}

func (d goalDTO) toGoal() core.SavingsGoal {
	balance := d.CurrentBalance
	if len(balance) == 0 {
		balance = d.CurrentAmount
	}
	target := d.TargetDate
	if target == "" {
		target = d.Deadline
	}
	status := core.GoalStatus(d.Status)
	switch status {
	case core.GoalActive, core.GoalPaused, core.GoalCompleted:
	default:
		status = core.GoalActive
	}
	return core.SavingsGoal{
		ID:                  flexString(d.ID),
		Name:                d.Name,
		TargetAmount:        flexMoney(d.TargetAmount, "targetAmount"),
		CurrentBalance:      flexMoney(balance, "currentBalance"),
		TargetDate:          flexTime(target, "targetDate"),
		MonthlyContribution: flexMoney(d.MonthlyContribution, "monthlyContribution"),
		Status:              status,
		Description:         d.Description,
		CreatedAt:           flexTime(d.CreatedAt, "createdAt"),
		UpdatedAt:           flexTime(d.UpdatedAt, "updatedAt"),
	}
}

func goalToDTO(g core.SavingsGoal) goalDTO {
	id, _ := json.Marshal(g.ID)
	targetAmount, _ := json.Marshal(g.TargetAmount.Float())
	balance, _ := json.Marshal(g.CurrentBalance.Float())
	monthly, _ := json.Marshal(g.MonthlyContribution.Float())
	return goalDTO{
		ID:                  id,
		Name:                g.Name,
		TargetAmount:        targetAmount,
		CurrentBalance:      balance,
		TargetDate:          timeString(g.TargetDate),
		MonthlyContribution: monthly,
		Status:              string(g.Status),
		Description:         g.Description,
		CreatedAt:           timeString(g.CreatedAt),
		UpdatedAt:           timeString(g.UpdatedAt),
	}
}

func (d categoryDTO) toCategory() core.Category {
	return core.Category{
		ID:          flexString(d.ID),
		Name:        d.Name,
		Label:       d.Label,
		Description: d.Description,
		Icon:        d.Icon,
		Color:       d.Color,
		CreatedAt:   flexTime(d.CreatedAt, "createdAt"),
		UpdatedAt:   flexTime(d.UpdatedAt, "updatedAt"),
	}
}

func categoryToDTO(c core.Category) categoryDTO {
	id, _ := json.Marshal(c.ID)
	return categoryDTO{
		ID:          id,
		Name:        c.Name,
		Label:       c.Label,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       c.Color,
		CreatedAt:   timeString(c.CreatedAt),
		UpdatedAt:   timeString(c.UpdatedAt),
	}
}

func DecodeRecords(data []byte) ([]core.Record, error) {
	var dtos []recordDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	records := make([]core.Record, len(dtos))
	for i, d := range dtos {
		records[i] = d.toRecord()
	}
	return records, nil
}

func EncodeRecords(records []core.Record) ([]byte, error) {
	dtos := make([]recordDTO, len(records))
	for i, r := range records {
		dtos[i] = recordToDTO(r)
	}
	return json.Marshal(dtos)
}

func DecodeGoals(data []byte) ([]core.SavingsGoal, error) {
	var dtos []goalDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("decode savings goals: %w", err)
	}
	goals := make([]core.SavingsGoal, len(dtos))
	for i, d := range dtos {
		goals[i] = d.toGoal()
	}
	return goals, nil
}

func EncodeGoals(goals []core.SavingsGoal) ([]byte, error) {
	dtos := make([]goalDTO, len(goals))
	for i, g := range goals {
		dtos[i] = goalToDTO(g)
	}
	return json.Marshal(dtos)
}

func DecodeCategories(data []byte) ([]core.Category, error) {
	var dtos []categoryDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	categories := make([]core.Category, len(dtos))
	for i, d := range dtos {
		categories[i] = d.toCategory()
	}
	return categories, nil
}

func EncodeCategories(categories []core.Category) ([]byte, error) {
	dtos := make([]categoryDTO, len(categories))
	for i, c := range categories {
		dtos[i] = categoryToDTO(c)
	}
	return json.Marshal(dtos)
}

func DecodeSettings(data []byte) (core.Settings, error) {
	s := core.DefaultSettings()
	if err := json.Unmarshal(data, &s); err != nil {
		return core.DefaultSettings(), fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}

func EncodeSettings(s core.Settings) ([]byte, error) {
	return json.Marshal(s)
}
