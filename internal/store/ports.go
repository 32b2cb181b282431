// Package store persists the tracker's collections. Every collection is a
// single JSON document under a well-known key, the shape the browser app
// used, so a backend only has to be a durable string-keyed blob store.
package store

import (
	"context"
	"errors"
)

// Storage keys. These match the document names the data files and backups
// use, so an exported backup and the on-disk layout stay interchangeable.
const (
	KeyExpenses         = "familybudget-expenses"
	KeyVariableExpenses = "familybudget-variable-expenses"
	KeyIncome           = "familybudget-income"
	KeySavingsGoals     = "familybudget-savings-goals"
	KeyCategories       = "familybudget-expense-categories"
	KeySettings         = "familybudget-settings"
	KeyTheme            = "familybudget-theme"
)

// AllKeys lists every collection key, in the order backups serialize them.
var AllKeys = []string{
	KeyExpenses,
	KeyVariableExpenses,
	KeyIncome,
	KeySavingsGoals,
	KeyCategories,
	KeySettings,
	KeyTheme,
}

// ErrNoValue is returned by KV.Get when a key has never been written.
var ErrNoValue = errors.New("no value stored")

// KV is the blob-store port every backend implements.
type KV interface {
	// Get returns the stored document for key, or ErrNoValue.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the document for key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the document for key. Deleting an absent key is not
	// an error.
	Delete(ctx context.Context, key string) error
	Close() error
}
