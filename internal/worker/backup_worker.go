// Package worker writes backup snapshots in response to state-changed
// events and on a periodic schedule.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"familybudget/internal/amqp"
	"familybudget/internal/export"
	"familybudget/internal/store"
)

// SnapshotAppender receives a summary row for every snapshot written.
type SnapshotAppender interface {
	AppendSnapshot(ctx context.Context, taken time.Time, snap export.Snapshot) error
}

// BackupWorker turns state-changed events into backup files. Events within
// the debounce window coalesce into one snapshot so a burst of edits does
// not write a burst of files.
type BackupWorker struct {
	store     *store.Store
	backupDir string
	appender  SnapshotAppender
	debounce  time.Duration
	now       func() time.Time

	mu          sync.Mutex
	lastWritten time.Time
	pending     *time.Timer
}

func NewBackupWorker(s *store.Store, backupDir string, appender SnapshotAppender) *BackupWorker {
	return &BackupWorker{
		store:     s,
		backupDir: backupDir,
		appender:  appender,
		debounce:  30 * time.Second,
		now:       time.Now,
	}
}

// HandleStateChanged processes one event from the queue.
func (w *BackupWorker) HandleStateChanged(ctx context.Context, msg *amqp.StateChangedMessage) error {
	slog.InfoContext(ctx, "Processing state changed message",
		"collection", msg.Collection,
		"changed_at", msg.Timestamp)

	w.mu.Lock()
	since := w.now().Sub(w.lastWritten)
	if since < w.debounce {
		// Defer instead of drop: the window must end with a snapshot or
		// the trailing edits would stay out of every backup until the
		// next event or periodic tick.
		if w.pending == nil {
			delay := w.debounce - since
			w.pending = time.AfterFunc(delay, w.flushPending)
			slog.DebugContext(ctx, "Deferring snapshot until the debounce window ends",
				"in", delay)
		}
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	return w.WriteSnapshot(ctx)
}

// flushPending fires when a debounce window that saw events closes. The
// timer slot is cleared first so a failed write can be rescheduled by the
// next event.
func (w *BackupWorker) flushPending() {
	w.mu.Lock()
	w.pending = nil
	w.mu.Unlock()

	if err := w.WriteSnapshot(context.Background()); err != nil {
		slog.Error("Deferred snapshot failed", "error", err)
	}
}

// WriteSnapshot exports the full state to a dated file in the backup
// directory and, when configured, appends a summary row to the spreadsheet.
func (w *BackupWorker) WriteSnapshot(ctx context.Context) error {
	now := w.now()

	data, err := export.Export(ctx, w.store, now)
	if err != nil {
		return fmt.Errorf("export state: %w", err)
	}

	if err := os.MkdirAll(w.backupDir, 0755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	name := fmt.Sprintf("familybudget-backup-%s.json", now.UTC().Format("2006-01-02"))
	path := filepath.Join(w.backupDir, name)

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace snapshot: %w", err)
	}

	w.mu.Lock()
	w.lastWritten = now
	if w.pending != nil {
		w.pending.Stop()
		w.pending = nil
	}
	w.mu.Unlock()

	slog.InfoContext(ctx, "Wrote backup snapshot", "path", path, "bytes", len(data))

	if w.appender != nil {
		if err := w.appendSummary(ctx, now); err != nil {
			// The local snapshot is safe; the sheet row is best effort.
			slog.ErrorContext(ctx, "Failed to append snapshot row", "error", err)
		}
	}

	return nil
}

func (w *BackupWorker) appendSummary(ctx context.Context, taken time.Time) error {
	fixed, err := w.store.Expenses(ctx)
	if err != nil {
		return err
	}
	variable, err := w.store.VariableExpenses(ctx)
	if err != nil {
		return err
	}
	income, err := w.store.Income(ctx)
	if err != nil {
		return err
	}
	goals, err := w.store.SavingsGoals(ctx)
	if err != nil {
		return err
	}
	return w.appender.AppendSnapshot(ctx, taken, export.SnapshotOf(fixed, variable, income, len(goals)))
}

// RunPeriodic writes a snapshot every interval until the context ends. It
// complements the event-driven path so backups happen even when the broker
// is down.
func (w *BackupWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping periodic backups", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := w.WriteSnapshot(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic snapshot failed", "error", err)
			}
		}
	}
}
