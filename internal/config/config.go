package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"parcount/internal/kv"
	"parcount/internal/workspace"
)

// Backend selects where tracker state is stored.
type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "memory"
)

// Config is the runtime configuration assembled from .env and the
// environment.
type Config struct {
	Backend     Backend
	StatePath   string
	Redis       kv.RedisOptions
	LockTTL     time.Duration
	Debounce    time.Duration
	Location    *time.Location
	LogLevel    logrus.Level
	LogFormat   string
	AuditDBPath string
	Notify      bool
}

// Load reads <workspace>/.env when present, then builds the configuration
// from the process environment. Variables already set in the environment
// win over .env.
func Load(ws *workspace.Workspace) (Config, error) {
	if ws != nil && ws.EnvPath != "" {
		if err := godotenv.Load(ws.EnvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", ws.EnvPath, err)
		}
	}
	return FromEnv(os.Getenv, ws)
}

// FromEnv builds the configuration from getenv, using ws for default paths.
func FromEnv(getenv func(string) string, ws *workspace.Workspace) (Config, error) {
	cfg := Config{
		Backend:   BackendSQLite,
		LockTTL:   30 * time.Second,
		Debounce:  kv.DefaultDebounce,
		Location:  time.Local,
		LogLevel:  logrus.WarnLevel,
		LogFormat: "text",
	}
	if ws != nil {
		cfg.StatePath = ws.StateDBPath
		cfg.AuditDBPath = ws.AuditDBPath
	}

	var errs []string
	fail := func(name, format string, args ...any) {
		errs = append(errs, name+": "+fmt.Sprintf(format, args...))
	}

	if v := strings.TrimSpace(getenv("PARCOUNT_STORE")); v != "" {
		switch b := Backend(strings.ToLower(v)); b {
		case BackendSQLite, BackendRedis, BackendMemory:
			cfg.Backend = b
		default:
			fail("PARCOUNT_STORE", "unknown backend %q (expected sqlite, redis, or memory)", v)
		}
	}
	if v := strings.TrimSpace(getenv("PARCOUNT_STATE_DB")); v != "" {
		cfg.StatePath = v
	}

	cfg.Redis.Addr = strings.TrimSpace(getenv("PARCOUNT_REDIS_ADDR"))
	cfg.Redis.Password = getenv("PARCOUNT_REDIS_PASSWORD")
	if v := strings.TrimSpace(getenv("PARCOUNT_REDIS_DB")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			fail("PARCOUNT_REDIS_DB", "must be a non-negative integer")
		} else {
			cfg.Redis.DB = n
		}
	}
	if cfg.Backend == BackendRedis && cfg.Redis.Addr == "" {
		fail("PARCOUNT_REDIS_ADDR", "required when PARCOUNT_STORE=redis")
	}
	if v := strings.TrimSpace(getenv("PARCOUNT_LOCK_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			fail("PARCOUNT_LOCK_TTL", "must be a positive duration")
		} else {
			cfg.LockTTL = d
		}
	}

	if v := strings.TrimSpace(getenv("PARCOUNT_DEBOUNCE")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			fail("PARCOUNT_DEBOUNCE", "must be a positive duration")
		} else {
			cfg.Debounce = d
		}
	}
	if v := strings.TrimSpace(getenv("PARCOUNT_TZ")); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			fail("PARCOUNT_TZ", "%v", err)
		} else {
			cfg.Location = loc
		}
	}

	if v := strings.TrimSpace(getenv("PARCOUNT_LOG_LEVEL")); v != "" {
		lvl, err := logrus.ParseLevel(v)
		if err != nil {
			fail("PARCOUNT_LOG_LEVEL", "%v", err)
		} else {
			cfg.LogLevel = lvl
		}
	}
	if v := strings.TrimSpace(getenv("PARCOUNT_LOG_FORMAT")); v != "" {
		switch f := strings.ToLower(v); f {
		case "text", "json":
			cfg.LogFormat = f
		default:
			fail("PARCOUNT_LOG_FORMAT", "unknown format %q (expected text or json)", v)
		}
	}

	if v := strings.TrimSpace(getenv("PARCOUNT_NOTIFY")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			fail("PARCOUNT_NOTIFY", "must be true or false")
		} else {
			cfg.Notify = b
		}
	}

	if v := strings.TrimSpace(getenv("PARCOUNT_AUDIT_DB")); v != "" {
		if ws != nil {
			resolved, err := ws.ResolvePath(v)
			if err != nil {
				fail("PARCOUNT_AUDIT_DB", "%v", err)
			} else {
				v = resolved
			}
		}
		cfg.AuditDBPath = v
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration:\n  %s", strings.Join(errs, "\n  "))
	}
	return cfg, nil
}
