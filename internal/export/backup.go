// Package export serializes the tracker's full state for backup, restore
// and spreadsheet consumption.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"familybudget/internal/core"
	"familybudget/internal/store"
)

// BackupVersion is written into every exported document.
const BackupVersion = "1.0"

// ErrInvalidDocument rejects import payloads that are not a JSON object.
var ErrInvalidDocument = errors.New("invalid backup document")

// Document is the full-state backup shape. Collection fields stay raw JSON
// so an import can tell an absent key from an empty one.
type Document struct {
	Expenses         json.RawMessage `json:"expenses,omitempty"`
	VariableExpenses json.RawMessage `json:"variableExpenses,omitempty"`
	Income           json.RawMessage `json:"income,omitempty"`
	SavingsGoals     json.RawMessage `json:"savingsGoals,omitempty"`
	Settings         json.RawMessage `json:"settings,omitempty"`
	ExportDate       string          `json:"exportDate"`
	Version          string          `json:"version"`
}

// Export serializes every collection into one backup document.
func Export(ctx context.Context, s *store.Store, now time.Time) ([]byte, error) {
	doc := Document{
		ExportDate: now.UTC().Format(time.RFC3339),
		Version:    BackupVersion,
	}

	expenses, err := s.Expenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("export expenses: %w", err)
	}
	if doc.Expenses, err = store.EncodeRecords(expenses); err != nil {
		return nil, err
	}

	variable, err := s.VariableExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("export variable expenses: %w", err)
	}
	if doc.VariableExpenses, err = store.EncodeRecords(variable); err != nil {
		return nil, err
	}

	income, err := s.Income(ctx)
	if err != nil {
		return nil, fmt.Errorf("export income: %w", err)
	}
	if doc.Income, err = store.EncodeRecords(income); err != nil {
		return nil, err
	}

	goals, err := s.SavingsGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("export savings goals: %w", err)
	}
	if doc.SavingsGoals, err = store.EncodeGoals(goals); err != nil {
		return nil, err
	}

	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, fmt.Errorf("export settings: %w", err)
	}
	if doc.Settings, err = store.EncodeSettings(settings); err != nil {
		return nil, err
	}

	return json.MarshalIndent(doc, "", "  ")
}

// Import restores collections from a backup document. Only keys present in
// the document overwrite their collection; absent keys leave stored data
// untouched. The whole document is validated before anything is written, so
// a structurally broken payload never clobbers existing state.
func Import(ctx context.Context, s *store.Store, data []byte) error {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if _, ok := probe.(map[string]any); !ok {
		return fmt.Errorf("%w: payload is not an object", ErrInvalidDocument)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	// Decode every present collection first.
	var (
		expenses, variable, income []core.Record
		goals                      []core.SavingsGoal
		settings                   core.Settings
		err                        error
	)
	if doc.Expenses != nil {
		if expenses, err = store.DecodeRecords(doc.Expenses); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
	}
	if doc.VariableExpenses != nil {
		if variable, err = store.DecodeRecords(doc.VariableExpenses); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
	}
	if doc.Income != nil {
		if income, err = store.DecodeRecords(doc.Income); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
	}
	if doc.SavingsGoals != nil {
		if goals, err = store.DecodeGoals(doc.SavingsGoals); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
	}
	if doc.Settings != nil {
		if settings, err = store.DecodeSettings(doc.Settings); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
	}

	// Then overwrite, present keys only.
	if doc.Expenses != nil {
		if err := s.SetExpenses(ctx, expenses); err != nil {
			return fmt.Errorf("import expenses: %w", err)
		}
	}
	if doc.VariableExpenses != nil {
		if err := s.SetVariableExpenses(ctx, variable); err != nil {
			return fmt.Errorf("import variable expenses: %w", err)
		}
	}
	if doc.Income != nil {
		if err := s.SetIncome(ctx, income); err != nil {
			return fmt.Errorf("import income: %w", err)
		}
	}
	if doc.SavingsGoals != nil {
		if err := s.SetSavingsGoals(ctx, goals); err != nil {
			return fmt.Errorf("import savings goals: %w", err)
		}
	}
	if doc.Settings != nil {
		if err := s.SetSettings(ctx, settings); err != nil {
			return fmt.Errorf("import settings: %w", err)
		}
	}

	return nil
}
