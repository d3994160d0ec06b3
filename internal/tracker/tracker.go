package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"parcount/internal/inventory"
	"parcount/internal/kv"
)

const (
	keySetup   = "setup"
	keyItems   = "items"
	keyPars    = "pars"
	keyHistory = "history"
	keyTheme   = "theme"

	closeLockKey = "parcount:close"
)

var (
	// ErrSetupRequired is returned by every operation that needs a catalog
	// before setup has been completed.
	ErrSetupRequired = errors.New("setup has not been completed")
	// ErrAlreadySetUp is returned when setup is attempted twice.
	ErrAlreadySetUp = errors.New("setup already completed")
	// ErrStateUnreadable is returned when a week close cannot reload the
	// shared state it is about to archive.
	ErrStateUnreadable = errors.New("stored state could not be read")
	// ErrInvalidQuantity is returned when a negative quantity is stored.
	ErrInvalidQuantity = errors.New("quantity must not be negative")
)

// Auditor records tracker events. audit.Logger satisfies it.
type Auditor interface {
	LogEvent(actor string, eventType string, payload any) error
}

// Locker provides a mutual exclusion point shared with other processes.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// Options tunes a Tracker. Zero values select defaults.
type Options struct {
	Now      func() time.Time
	Location *time.Location
	Debounce time.Duration
	Prefix   string
	NewID    func() string
	Locker   Locker
	Logger   logrus.FieldLogger
	Audit    Auditor
}

type state struct {
	setup   inventory.SetupConfig
	items   []inventory.Item
	pars    inventory.ParTable
	sheet   inventory.Sheet
	history []inventory.HistoryEntry
	theme   Theme
}

func emptyState() state {
	return state{
		pars:  inventory.ParTable{},
		sheet: inventory.Sheet{},
		theme: ThemeDark,
	}
}

// Tracker owns the catalog, par table, weekly sheet and history. Every
// mutation goes through update, which holds the single writer lock and
// queues the touched keys on a debounced writer.
type Tracker struct {
	mu     sync.Mutex
	st     state
	week   inventory.Week
	blob   *kv.Blob
	writer *kv.Writer
	opts   Options
	log    logrus.FieldLogger
}

// Open loads persisted state from store. Missing or unreadable keys load as
// empty; the store is never required to be healthy.
func Open(ctx context.Context, store kv.Store, opts Options) (*Tracker, error) {
	if store == nil {
		return nil, fmt.Errorf("tracker: store is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Prefix == "" {
		opts.Prefix = kv.DefaultPrefix
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		log = l
	}

	blob := kv.NewBlob(store, opts.Prefix, log)
	t := &Tracker{
		blob:   blob,
		writer: kv.NewWriter(blob, opts.Debounce),
		opts:   opts,
		log:    log,
	}
	t.week = inventory.WeekOf(t.now())
	t.mu.Lock()
	t.load(ctx)
	t.mu.Unlock()
	return t, nil
}

func (t *Tracker) now() time.Time {
	now := t.opts.Now()
	if t.opts.Location != nil {
		now = now.In(t.opts.Location)
	}
	return now
}

// load replaces in-memory state with what the store holds. Unreadable keys
// load as empty. Caller holds mu.
func (t *Tracker) load(ctx context.Context) {
	st, err := t.read(ctx, ThemeDark)
	if err != nil {
		t.log.WithError(err).Warn("stored state partly unreadable")
	}
	t.st = st
}

// read loads stored state without touching t.st. It returns the state it
// could read together with every read or decode failure except the theme,
// which falls back to theme.
func (t *Tracker) read(ctx context.Context, theme Theme) (state, error) {
	st := emptyState()
	st.theme = theme
	var stored Theme
	if ok, err := t.blob.Read(ctx, keyTheme, &stored); err != nil {
		t.log.WithError(err).Warn("theme unreadable")
	} else if ok && stored.Valid() {
		st.theme = stored
	}

	var errs []error
	get := func(key string, dest any) bool {
		ok, err := t.blob.Read(ctx, key, dest)
		if err != nil {
			errs = append(errs, err)
		}
		return ok
	}
	if !get(keySetup, &st.setup) || !st.setup.Done {
		st.setup = inventory.SetupConfig{}
		return st, errors.Join(errs...)
	}
	get(keyItems, &st.items)
	get(keyPars, &st.pars)
	get(t.week.SheetKey(), &st.sheet)
	get(keyHistory, &st.history)
	if st.pars == nil {
		st.pars = inventory.ParTable{}
	}
	if st.sheet == nil {
		st.sheet = inventory.Sheet{}
	}
	if len(st.history) > inventory.HistoryLimit {
		st.history = st.history[:inventory.HistoryLimit]
	}
	return st, errors.Join(errs...)
}

// update is the only mutation path. fn runs under the writer lock and
// returns the keys it changed.
func (t *Tracker) update(requireSetup bool, fn func(s *state) ([]string, error)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if requireSetup && !t.st.setup.Done {
		return ErrSetupRequired
	}
	keys, err := fn(&t.st)
	if err != nil {
		return err
	}
	for _, key := range keys {
		t.writer.Put(key, t.snapshot(key))
	}
	return nil
}

// view runs fn against the current state under the lock.
func (t *Tracker) view(fn func(s *state)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(&t.st)
}

// snapshot copies the value stored under key. Caller holds mu.
func (t *Tracker) snapshot(key string) any {
	switch key {
	case keySetup:
		return t.st.setup
	case keyItems:
		return inventory.CloneItems(t.st.items)
	case keyPars:
		return t.st.pars.Clone()
	case keyHistory:
		return inventory.CloneHistory(t.st.history)
	case keyTheme:
		return t.st.theme
	case t.week.SheetKey():
		return t.st.sheet.Clone()
	default:
		return nil
	}
}

// Week returns the tracking week the sheet belongs to.
func (t *Tracker) Week() inventory.Week {
	return t.week
}

// Ready reports whether setup has been completed.
func (t *Tracker) Ready() bool {
	var ready bool
	t.view(func(s *state) { ready = s.setup.Done })
	return ready
}

// Setup returns the setup configuration.
func (t *Tracker) Setup() inventory.SetupConfig {
	var cfg inventory.SetupConfig
	t.view(func(s *state) { cfg = s.setup })
	return cfg
}

// CompleteSetup stores the initial catalog and par table and activates the
// tracker for the current week.
func (t *Tracker) CompleteSetup(items []inventory.Item, pars inventory.ParTable) error {
	if err := inventory.CheckUnique(items); err != nil {
		return err
	}
	for _, item := range items {
		if item.BeginningInventory.IsNegative() {
			return fmt.Errorf("item %s: beginning inventory: %w", item.ID, ErrInvalidQuantity)
		}
	}
	for id, par := range pars {
		if par.IsNegative() {
			return fmt.Errorf("item %s: par: %w", id, ErrInvalidQuantity)
		}
	}

	var cfg inventory.SetupConfig
	err := t.update(false, func(s *state) ([]string, error) {
		if s.setup.Done {
			return nil, ErrAlreadySetUp
		}
		s.setup = inventory.SetupConfig{
			Done:        true,
			StartWeek:   t.week.ID,
			StartLabel:  t.week.Label,
			CompletedAt: t.now().UTC().Format(time.RFC3339),
		}
		s.items = inventory.CloneItems(items)
		s.pars = pars.Clone()
		s.sheet = inventory.Sheet{}
		cfg = s.setup
		return []string{keySetup, keyItems, keyPars}, nil
	})
	if err != nil {
		return err
	}
	t.writer.Flush()

	t.record("setup_completed", map[string]any{
		"week":  cfg.StartWeek,
		"items": len(items),
		"pars":  len(pars),
	})
	t.log.WithFields(logrus.Fields{"week": cfg.StartWeek, "items": len(items)}).Info("setup completed")
	return nil
}

// Flush writes any buffered changes now.
func (t *Tracker) Flush() bool {
	return t.writer.Flush()
}

// Close flushes buffered changes. The store stays open.
func (t *Tracker) Close() error {
	if !t.writer.Flush() {
		return fmt.Errorf("tracker: some buffered writes failed")
	}
	return nil
}

func (t *Tracker) record(eventType string, payload map[string]any) {
	if t.opts.Audit == nil {
		return
	}
	if err := t.opts.Audit.LogEvent("tracker", eventType, payload); err != nil {
		t.log.WithError(err).WithField("event", eventType).Warn("audit log failed")
	}
}
