package tracker

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"parcount/internal/inventory"
)

// PreviewClose computes what closing the week would produce without
// changing anything.
func (t *Tracker) PreviewClose() (inventory.CloseResult, error) {
	var res inventory.CloseResult
	var err error
	t.view(func(s *state) {
		if !s.setup.Done {
			err = ErrSetupRequired
			return
		}
		res = inventory.CloseWeek(t.week, s.items, s.pars, s.sheet, s.history)
	})
	return res, err
}

// CloseWeek archives the current sheet, rolls beginning inventory forward
// and starts an empty sheet. The result is written through immediately.
// With a Locker configured, state is reloaded under the shared lock first so
// a close from another process is not lost. If that reload cannot read every
// key, nothing is closed and in-memory state is kept.
func (t *Tracker) CloseWeek(ctx context.Context) (inventory.HistoryEntry, error) {
	if t.opts.Locker != nil {
		unlock, err := t.opts.Locker.Lock(ctx, closeLockKey)
		if err != nil {
			return inventory.HistoryEntry{}, fmt.Errorf("close week: %w", err)
		}
		defer unlock()
		t.mu.Lock()
		t.writer.Flush()
		fresh, err := t.read(ctx, t.st.theme)
		if err == nil {
			t.st = fresh
		}
		t.mu.Unlock()
		if err != nil {
			t.log.WithError(err).Warn("week close aborted: stored state unreadable")
			return inventory.HistoryEntry{}, fmt.Errorf("%w: %w", ErrStateUnreadable, err)
		}
	}

	var entry inventory.HistoryEntry
	var kept int
	err := t.update(true, func(s *state) ([]string, error) {
		res := inventory.CloseWeek(t.week, s.items, s.pars, s.sheet, s.history)
		s.items = res.Items
		s.history = res.History
		s.sheet = res.Sheet
		entry = res.Entry
		kept = len(res.History)
		return []string{keyHistory, keyItems, t.week.SheetKey()}, nil
	})
	if err != nil {
		return inventory.HistoryEntry{}, err
	}
	if !t.writer.Flush() {
		t.log.WithField("week", entry.Week).Warn("week closed but not every key was stored")
	}

	t.record("week_closed", map[string]any{
		"week":    entry.Week,
		"label":   entry.Label,
		"items":   len(entry.Data),
		"ordered": entry.OrderedCount(),
	})
	t.log.WithFields(logrus.Fields{
		"week":    entry.Week,
		"items":   len(entry.Data),
		"history": kept,
	}).Info("week closed")
	return entry, nil
}

// Reset clears every stored key and returns the tracker to its initial
// pre-setup state.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	t.writer.Discard()
	cleared := t.blob.Clear(ctx)
	t.st = emptyState()
	t.mu.Unlock()

	t.record("reset", map[string]any{"week": t.week.ID, "cleared": cleared})
	if !cleared {
		return fmt.Errorf("reset: stored data could not be cleared")
	}
	t.log.Info("tracker reset")
	return nil
}
