package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"familybudget/internal/core"
)

const maxBodyBytes = 1 << 20 // 1 MiB

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrEmptyName):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// parseDate accepts the timestamp shapes clients send.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func dateString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

type recordJSON struct {
	ID            string     `json:"id,omitempty"`
	Amount        core.Money `json:"amount"`
	Category      string     `json:"category,omitempty"`
	Source        string     `json:"source,omitempty"`
	Description   string     `json:"description"`
	Notes         string     `json:"notes,omitempty"`
	Date          string     `json:"date,omitempty"`
	ProcessedDate string     `json:"processedDate,omitempty"`
	CreatedAt     string     `json:"createdAt,omitempty"`
	UpdatedAt     string     `json:"updatedAt,omitempty"`
	MonthKey      string     `json:"monthKey,omitempty"`
}

func (j recordJSON) toRecord() core.Record {
	return core.Record{
		ID:            j.ID,
		Amount:        j.Amount,
		Category:      j.Category,
		Source:        j.Source,
		Description:   j.Description,
		Notes:         j.Notes,
		Date:          parseDate(j.Date),
		ProcessedDate: parseDate(j.ProcessedDate),
		CreatedAt:     parseDate(j.CreatedAt),
		UpdatedAt:     parseDate(j.UpdatedAt),
	}
}

func recordToJSON(r core.Record) recordJSON {
	return recordJSON{
		ID:            r.ID,
		Amount:        r.Amount,
		Category:      r.Category,
		Source:        r.Source,
		Description:   r.Description,
		Notes:         r.Notes,
		Date:          dateString(r.Date),
		ProcessedDate: dateString(r.ProcessedDate),
		CreatedAt:     dateString(r.CreatedAt),
		UpdatedAt:     dateString(r.UpdatedAt),
		MonthKey:      string(r.Key()),
	}
}

func recordsToJSON(records []core.Record) []recordJSON {
	out := make([]recordJSON, len(records))
	for i, r := range records {
		out[i] = recordToJSON(r)
	}
	return out
}

type goalJSON struct {
	ID                  string     `json:"id,omitempty"`
	Name                string     `json:"name"`
	TargetAmount        core.Money `json:"targetAmount"`
	CurrentBalance      core.Money `json:"currentBalance"`
	TargetDate          string     `json:"targetDate,omitempty"`
	MonthlyContribution core.Money `json:"monthlyContribution"`
	Status              string     `json:"status,omitempty"`
	Description         string     `json:"description,omitempty"`
	CreatedAt           string     `json:"createdAt,omitempty"`
	UpdatedAt           string     `json:"updatedAt,omitempty"`
	Progress            float64    `json:"progress"`
}

func (j goalJSON) toGoal() core.SavingsGoal {
	return core.SavingsGoal{
		ID:                  j.ID,
		Name:                j.Name,
		TargetAmount:        j.TargetAmount,
		CurrentBalance:      j.CurrentBalance,
		TargetDate:          parseDate(j.TargetDate),
		MonthlyContribution: j.MonthlyContribution,
		Status:              core.GoalStatus(j.Status),
		Description:         j.Description,
	}
}

func goalToJSON(g core.SavingsGoal) goalJSON {
	return goalJSON{
		ID:                  g.ID,
		Name:                g.Name,
		TargetAmount:        g.TargetAmount,
		CurrentBalance:      g.CurrentBalance,
		TargetDate:          dateString(g.TargetDate),
		MonthlyContribution: g.MonthlyContribution,
		Status:              string(g.Status),
		Description:         g.Description,
		CreatedAt:           dateString(g.CreatedAt),
		UpdatedAt:           dateString(g.UpdatedAt),
		Progress:            g.ProgressClamped(),
	}
}

type categoryJSON struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

func (j categoryJSON) toCategory() core.Category {
	return core.Category{
		ID:          j.ID,
		Name:        j.Name,
		Label:       j.Label,
		Description: j.Description,
		Icon:        j.Icon,
		Color:       j.Color,
	}
}

func categoryToJSON(c core.Category) categoryJSON {
	return categoryJSON{
		ID:          c.ID,
		Name:        c.Name,
		Label:       c.Label,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       c.Color,
		CreatedAt:   dateString(c.CreatedAt),
		UpdatedAt:   dateString(c.UpdatedAt),
	}
}
