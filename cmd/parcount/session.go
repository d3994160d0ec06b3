package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"parcount/internal/audit"
	"parcount/internal/config"
	"parcount/internal/kv"
	"parcount/internal/logging"
	"parcount/internal/notify"
	"parcount/internal/tracker"
	"parcount/internal/workspace"
)

// session bundles everything a command needs against one workspace.
type session struct {
	ws      *workspace.Workspace
	cfg     config.Config
	log     *logrus.Entry
	audit   *audit.Logger
	notify  *notify.Notifier
	store   kv.Store
	tracker *tracker.Tracker
}

func openSession(ctx context.Context, workspacePath, command string) (*session, error) {
	if strings.TrimSpace(workspacePath) == "" {
		return nil, fmt.Errorf("--workspace is required")
	}
	ws, err := workspace.Resolve(workspacePath)
	if err != nil {
		return nil, err
	}
	return openSessionIn(ctx, ws, command)
}

func openSessionIn(ctx context.Context, ws *workspace.Workspace, command string) (*session, error) {
	if err := ws.EnsureDirs(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(ws)
	if err != nil {
		return nil, err
	}
	log := logging.Command(logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr), command, ws.Root)

	store, locker, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	auditLog := audit.NewLogger(cfg.AuditDBPath)

	opts := tracker.Options{
		Location: cfg.Location,
		Debounce: cfg.Debounce,
		Logger:   log,
		Audit:    auditLog,
	}
	if locker != nil {
		opts.Locker = locker
	}
	tr, err := tracker.Open(ctx, store, opts)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	log.WithField("backend", cfg.Backend).Debug("session opened")
	return &session{
		ws:      ws,
		cfg:     cfg,
		log:     log,
		audit:   auditLog,
		notify:  notify.New(cfg.Notify),
		store:   store,
		tracker: tr,
	}, nil
}

func openStore(ctx context.Context, cfg config.Config) (kv.Store, *kv.RedisLocker, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		rs, err := kv.OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return rs, rs.Locker(cfg.LockTTL), nil
	case config.BackendMemory:
		return kv.NewMemoryStore(), nil, nil
	default:
		store, err := kv.OpenSQLite(cfg.StatePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open state store: %w", err)
		}
		return store, nil, nil
	}
}

// Close flushes buffered edits and closes the store.
func (s *session) Close() error {
	flushErr := s.tracker.Close()
	closeErr := s.store.Close()
	return errors.Join(flushErr, closeErr)
}

// audited brackets fn with <event>_started and <event>_finished audit
// records.
func (s *session) audited(event string, payload map[string]any, fn func() error) error {
	start := map[string]any{"workspace": s.ws.Root, "week": s.tracker.Week().ID}
	for k, v := range payload {
		start[k] = v
	}
	if err := s.audit.LogEvent("cli", event+"_started", start); err != nil {
		fmt.Fprintln(os.Stderr, "audit log failed:", err)
	}

	runErr := fn()

	finish := map[string]any{"workspace": s.ws.Root, "week": s.tracker.Week().ID}
	for k, v := range payload {
		finish[k] = v
	}
	if runErr != nil {
		finish["error"] = runErr.Error()
	}
	if err := s.audit.LogEvent("cli", event+"_finished", finish); err != nil {
		fmt.Fprintln(os.Stderr, "audit log failed:", err)
	}
	return runErr
}

// withTracker opens a session, runs fn and closes the session.
func withTracker(workspacePath, command string, fn func(ctx context.Context, s *session) error) (err error) {
	ctx := context.Background()
	s, err := openSession(ctx, workspacePath, command)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(ctx, s)
}

// sendNotification reports failures on the log only.
func (s *session) sendNotification(title, message string) {
	if err := s.notify.Send(title, message); err != nil {
		s.log.WithError(err).Warn("notification failed")
	}
}

func setupHint(err error) error {
	if errors.Is(err, tracker.ErrSetupRequired) {
		return fmt.Errorf("%w: run `%s init --seed <catalog.yml>` first", err, appName)
	}
	return err
}
