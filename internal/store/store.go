package store

import (
	"context"
	"fmt"

	"familybudget/internal/core"
)

// Store gives typed access to the collections on top of a KV backend. A
// missing key is not an error: record collections come back empty, settings
// and categories come back as their defaults.
type Store struct {
	kv KV
}

func New(kv KV) *Store {
	return &Store{kv: kv}
}

// Raw exposes the underlying blob store for whole-document operations such
// as backup export and import.
func (s *Store) Raw() KV {
	return s.kv
}

func (s *Store) Close() error {
	return s.kv.Close()
}

func (s *Store) records(ctx context.Context, key string) ([]core.Record, error) {
	data, err := s.kv.Get(ctx, key)
	if err == ErrNoValue {
		return []core.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return DecodeRecords(data)
}

func (s *Store) setRecords(ctx context.Context, key string, records []core.Record) error {
	data, err := EncodeRecords(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.kv.Set(ctx, key, data)
}

func (s *Store) Expenses(ctx context.Context) ([]core.Record, error) {
	return s.records(ctx, KeyExpenses)
}

func (s *Store) SetExpenses(ctx context.Context, records []core.Record) error {
	return s.setRecords(ctx, KeyExpenses, records)
}

func (s *Store) VariableExpenses(ctx context.Context) ([]core.Record, error) {
	return s.records(ctx, KeyVariableExpenses)
}

func (s *Store) SetVariableExpenses(ctx context.Context, records []core.Record) error {
	return s.setRecords(ctx, KeyVariableExpenses, records)
}

func (s *Store) Income(ctx context.Context) ([]core.Record, error) {
	return s.records(ctx, KeyIncome)
}

func (s *Store) SetIncome(ctx context.Context, records []core.Record) error {
	return s.setRecords(ctx, KeyIncome, records)
}

func (s *Store) SavingsGoals(ctx context.Context) ([]core.SavingsGoal, error) {
	data, err := s.kv.Get(ctx, KeySavingsGoals)
	if err == ErrNoValue {
		return []core.SavingsGoal{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", KeySavingsGoals, err)
	}
	return DecodeGoals(data)
}

func (s *Store) SetSavingsGoals(ctx context.Context, goals []core.SavingsGoal) error {
	data, err := EncodeGoals(goals)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeySavingsGoals, err)
	}
	return s.kv.Set(ctx, KeySavingsGoals, data)
}

// Categories returns the default seed set merged with the user's custom
// categories. Only the custom ones are persisted.
func (s *Store) Categories(ctx context.Context) ([]core.Category, error) {
	custom, err := s.CustomCategories(ctx)
	if err != nil {
		return nil, err
	}
	return core.MergeCategories(custom), nil
}

func (s *Store) CustomCategories(ctx context.Context) ([]core.Category, error) {
	data, err := s.kv.Get(ctx, KeyCategories)
	if err == ErrNoValue {
		return []core.Category{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", KeyCategories, err)
	}
	return DecodeCategories(data)
}

func (s *Store) SetCustomCategories(ctx context.Context, categories []core.Category) error {
	data, err := EncodeCategories(categories)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyCategories, err)
	}
	return s.kv.Set(ctx, KeyCategories, data)
}

func (s *Store) Settings(ctx context.Context) (core.Settings, error) {
	data, err := s.kv.Get(ctx, KeySettings)
	if err == ErrNoValue {
		return core.DefaultSettings(), nil
	}
	if err != nil {
		return core.Settings{}, fmt.Errorf("get %s: %w", KeySettings, err)
	}
	return DecodeSettings(data)
}

func (s *Store) SetSettings(ctx context.Context, settings core.Settings) error {
	data, err := EncodeSettings(settings)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeySettings, err)
	}
	return s.kv.Set(ctx, KeySettings, data)
}

func (s *Store) Theme(ctx context.Context) (string, error) {
	data, err := s.kv.Get(ctx, KeyTheme)
	if err == ErrNoValue {
		return "light", nil
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", KeyTheme, err)
	}
	theme := string(data)
	if theme != "light" && theme != "dark" {
		return "light", nil
	}
	return theme, nil
}

func (s *Store) SetTheme(ctx context.Context, theme string) error {
	if theme != "light" && theme != "dark" {
		return fmt.Errorf("unknown theme %q", theme)
	}
	return s.kv.Set(ctx, KeyTheme, []byte(theme))
}

// Reset deletes every collection.
func (s *Store) Reset(ctx context.Context) error {
	for _, key := range AllKeys {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return nil
}
