// Package services orchestrates mutations across the store and the backup
// event queue.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"familybudget/internal/core"
	"familybudget/internal/store"
)

// Kind names a record collection.
type Kind string

const (
	KindFixed    Kind = "fixed"
	KindVariable Kind = "variable"
	KindIncome   Kind = "income"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindFixed, KindVariable, KindIncome:
		return true
	default:
		return false
	}
}

// StorageKey returns the collection key a kind persists under.
func (k Kind) StorageKey() string {
	switch k {
	case KindFixed:
		return store.KeyExpenses
	case KindVariable:
		return store.KeyVariableExpenses
	default:
		return store.KeyIncome
	}
}

// Publisher emits state-changed events for the backup pipeline.
type Publisher interface {
	PublishStateChanged(ctx context.Context, collection string) error
}

// BudgetService owns every mutation of the tracker's state. Writes go to
// the store first; the backup event is published best-effort afterwards and
// never fails the request.
type BudgetService struct {
	store     *store.Store
	publisher Publisher
	now       func() time.Time
	newID     func() string
}

func NewBudgetService(s *store.Store, publisher Publisher) *BudgetService {
	return &BudgetService{
		store:     s,
		publisher: publisher,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Store exposes the backing store for backup export and import flows.
func (s *BudgetService) Store() *store.Store {
	return s.store
}

// NotifyImported publishes change events for every collection after a bulk
// restore.
func (s *BudgetService) NotifyImported(ctx context.Context) {
	for _, key := range store.AllKeys {
		s.publishChange(ctx, key)
	}
}

func (s *BudgetService) publishChange(ctx context.Context, collection string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishStateChanged(ctx, collection); err != nil {
		slog.ErrorContext(ctx, "Failed to publish state changed message",
			"collection", collection, "error", err)
	}
}

func (s *BudgetService) Records(ctx context.Context, kind Kind) ([]core.Record, error) {
	switch kind {
	case KindFixed:
		return s.store.Expenses(ctx)
	case KindVariable:
		return s.store.VariableExpenses(ctx)
	case KindIncome:
		return s.store.Income(ctx)
	default:
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
}

func (s *BudgetService) saveRecords(ctx context.Context, kind Kind, records []core.Record) error {
	var err error
	switch kind {
	case KindFixed:
		err = s.store.SetExpenses(ctx, records)
	case KindVariable:
		err = s.store.SetVariableExpenses(ctx, records)
	case KindIncome:
		err = s.store.SetIncome(ctx, records)
	default:
		return fmt.Errorf("unknown record kind %q", kind)
	}
	if err != nil {
		return err
	}
	s.publishChange(ctx, kind.StorageKey())
	return nil
}

// AddRecord validates and stores a new record, assigning its ID and
// timestamps.
func (s *BudgetService) AddRecord(ctx context.Context, kind Kind, r core.Record) (core.Record, error) {
	if err := r.Validate(); err != nil {
		return core.Record{}, err
	}

	records, err := s.Records(ctx, kind)
	if err != nil {
		return core.Record{}, err
	}

	now := s.now()
	r.ID = s.newID()
	r.CreatedAt = now
	r.UpdatedAt = now

	records = append(records, r)
	if err := s.saveRecords(ctx, kind, records); err != nil {
		return core.Record{}, err
	}
	return r, nil
}

// UpdateRecord replaces the stored record with the same ID. The original
// creation time is preserved.
func (s *BudgetService) UpdateRecord(ctx context.Context, kind Kind, r core.Record) (core.Record, error) {
	if err := r.Validate(); err != nil {
		return core.Record{}, err
	}

	records, err := s.Records(ctx, kind)
	if err != nil {
		return core.Record{}, err
	}

	for i, existing := range records {
		if existing.ID == r.ID {
			r.CreatedAt = existing.CreatedAt
			r.UpdatedAt = s.now()
			records[i] = r
			if err := s.saveRecords(ctx, kind, records); err != nil {
				return core.Record{}, err
			}
			return r, nil
		}
	}
	return core.Record{}, fmt.Errorf("record %s: %w", r.ID, core.ErrNotFound)
}

func (s *BudgetService) DeleteRecord(ctx context.Context, kind Kind, id string) error {
	records, err := s.Records(ctx, kind)
	if err != nil {
		return err
	}

	for i, existing := range records {
		if existing.ID == id {
			records = append(records[:i], records[i+1:]...)
			return s.saveRecords(ctx, kind, records)
		}
	}
	return fmt.Errorf("record %s: %w", id, core.ErrNotFound)
}

func (s *BudgetService) Goals(ctx context.Context) ([]core.SavingsGoal, error) {
	return s.store.SavingsGoals(ctx)
}

func (s *BudgetService) saveGoals(ctx context.Context, goals []core.SavingsGoal) error {
	if err := s.store.SetSavingsGoals(ctx, goals); err != nil {
		return err
	}
	s.publishChange(ctx, store.KeySavingsGoals)
	return nil
}

func (s *BudgetService) AddGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}

	goals, err := s.Goals(ctx)
	if err != nil {
		return core.SavingsGoal{}, err
	}

	now := s.now()
	g.ID = s.newID()
	g.CreatedAt = now
	g.UpdatedAt = now
	if g.Status == "" {
		g.Status = core.GoalActive
	}

	goals = append(goals, g)
	if err := s.saveGoals(ctx, goals); err != nil {
		return core.SavingsGoal{}, err
	}
	return g, nil
}

func (s *BudgetService) UpdateGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}

	goals, err := s.Goals(ctx)
	if err != nil {
		return core.SavingsGoal{}, err
	}

	for i, existing := range goals {
		if existing.ID == g.ID {
			g.CreatedAt = existing.CreatedAt
			g.UpdatedAt = s.now()
			goals[i] = g
			if err := s.saveGoals(ctx, goals); err != nil {
				return core.SavingsGoal{}, err
			}
			return g, nil
		}
	}
	return core.SavingsGoal{}, fmt.Errorf("goal %s: %w", g.ID, core.ErrNotFound)
}

func (s *BudgetService) DeleteGoal(ctx context.Context, id string) error {
	goals, err := s.Goals(ctx)
	if err != nil {
		return err
	}

	for i, existing := range goals {
		if existing.ID == id {
			goals = append(goals[:i], goals[i+1:]...)
			return s.saveGoals(ctx, goals)
		}
	}
	return fmt.Errorf("goal %s: %w", id, core.ErrNotFound)
}

// Contribute adds an amount to a goal's balance. The status is left alone;
// a goal past its target still shows as active until the user completes it.
func (s *BudgetService) Contribute(ctx context.Context, id string, amount core.Money) (core.SavingsGoal, error) {
	if amount.Cents <= 0 {
		return core.SavingsGoal{}, core.ErrInvalidAmount
	}

	goals, err := s.Goals(ctx)
	if err != nil {
		return core.SavingsGoal{}, err
	}

	for i, existing := range goals {
		if existing.ID == id {
			existing.CurrentBalance = existing.CurrentBalance.Add(amount)
			existing.UpdatedAt = s.now()
			goals[i] = existing
			if err := s.saveGoals(ctx, goals); err != nil {
				return core.SavingsGoal{}, err
			}
			return existing, nil
		}
	}
	return core.SavingsGoal{}, fmt.Errorf("goal %s: %w", id, core.ErrNotFound)
}

// Categories returns the default seed set merged with custom categories.
func (s *BudgetService) Categories(ctx context.Context) ([]core.Category, error) {
	return s.store.Categories(ctx)
}

func (s *BudgetService) saveCustomCategories(ctx context.Context, categories []core.Category) error {
	if err := s.store.SetCustomCategories(ctx, categories); err != nil {
		return err
	}
	s.publishChange(ctx, store.KeyCategories)
	return nil
}

func (s *BudgetService) AddCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}

	custom, err := s.store.CustomCategories(ctx)
	if err != nil {
		return core.Category{}, err
	}

	now := s.now()
	c.ID = s.newID()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Label == "" {
		c.Label = c.Name
	}

	custom = append(custom, c)
	if err := s.saveCustomCategories(ctx, custom); err != nil {
		return core.Category{}, err
	}
	return c, nil
}

func (s *BudgetService) UpdateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}

	custom, err := s.store.CustomCategories(ctx)
	if err != nil {
		return core.Category{}, err
	}

	for i, existing := range custom {
		if existing.ID == c.ID {
			c.CreatedAt = existing.CreatedAt
			c.UpdatedAt = s.now()
			custom[i] = c
			if err := s.saveCustomCategories(ctx, custom); err != nil {
				return core.Category{}, err
			}
			return c, nil
		}
	}
	return core.Category{}, fmt.Errorf("category %s: %w", c.ID, core.ErrNotFound)
}

// DeleteCategory removes a custom category and reassigns any fixed expense
// still using it to the fallback category. Seed categories cannot be
// deleted.
func (s *BudgetService) DeleteCategory(ctx context.Context, id string) error {
	custom, err := s.store.CustomCategories(ctx)
	if err != nil {
		return err
	}

	var deleted *core.Category
	for i, existing := range custom {
		if existing.ID == id {
			deleted = &existing
			custom = append(custom[:i], custom[i+1:]...)
			break
		}
	}
	if deleted == nil {
		return fmt.Errorf("category %s: %w", id, core.ErrNotFound)
	}

	expenses, err := s.store.Expenses(ctx)
	if err != nil {
		return err
	}
	reassigned := 0
	for i, r := range expenses {
		if r.Category == deleted.Name {
			expenses[i].Category = core.FallbackCategory
			expenses[i].UpdatedAt = s.now()
			reassigned++
		}
	}
	if reassigned > 0 {
		if err := s.saveRecords(ctx, KindFixed, expenses); err != nil {
			return err
		}
		slog.InfoContext(ctx, "Reassigned expenses to fallback category",
			"category", deleted.Name, "count", reassigned)
	}

	return s.saveCustomCategories(ctx, custom)
}

func (s *BudgetService) Settings(ctx context.Context) (core.Settings, error) {
	return s.store.Settings(ctx)
}

func (s *BudgetService) SetSettings(ctx context.Context, settings core.Settings) error {
	if err := s.store.SetSettings(ctx, settings); err != nil {
		return err
	}
	s.publishChange(ctx, store.KeySettings)
	return nil
}

func (s *BudgetService) Theme(ctx context.Context) (string, error) {
	return s.store.Theme(ctx)
}

func (s *BudgetService) SetTheme(ctx context.Context, theme string) error {
	if err := s.store.SetTheme(ctx, theme); err != nil {
		return err
	}
	s.publishChange(ctx, store.KeyTheme)
	return nil
}

// ResetAll wipes every collection.
func (s *BudgetService) ResetAll(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return err
	}
	for _, key := range store.AllKeys {
		s.publishChange(ctx, key)
	}
	return nil
}
