package authorize

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	psqlwatcher "github.com/IguteChung/casbin-psql-watcher"
	casbin "github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/persist"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	entadapter "github.com/casbin/ent-adapter"
)

//go:embed casbin_model.conf
var defaultModel string

const watcherChannel = "casbin_policy_update"

// policyLoadHealthy tracks the health state of Casbin policy loading.
// When policy reload fails, this is set to false to trigger health check failures.
var policyLoadHealthy atomic.Bool

func init() {
	policyLoadHealthy.Store(true)
}

// IsPolicyHealthy returns true if the Casbin policy is in a healthy state.
// Returns false if the last policy reload attempt failed.
func IsPolicyHealthy() bool {
	return policyLoadHealthy.Load()
}

// CleanupFunc is a function that cleans up resources.
type CleanupFunc func(ctx context.Context)

// LoadModel reads the model at path, or the embedded default when path is
// empty or missing.
func LoadModel(path string) (model.Model, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return model.NewModelFromFile(path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		slog.Warn("casbin model file not found, using embedded model", "path", path)
	}
	return model.NewModelFromString(defaultModel)
}

// NewEnforcer creates a Casbin DistributedEnforcer on the configured adapter.
// The postgres adapter stores policies through ent-adapter and, when policy
// sync is enabled, propagates changes with a LISTEN/NOTIFY watcher.
// Returns the enforcer and a cleanup function that should be called on shutdown.
func NewEnforcer(cfg Config, dsn string) (*casbin.DistributedEnforcer, CleanupFunc, error) {
	m, err := LoadModel(cfg.CasbinModelPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load casbin model: %w", err)
	}

	var a persist.Adapter
	switch cfg.Adapter {
	case AdapterFile:
		if cfg.PolicyPath == "" {
			return nil, nil, fmt.Errorf("%w: file adapter requires a policy path", ErrInvalidArgs)
		}
		a = fileadapter.NewAdapter(cfg.PolicyPath)
	case AdapterPostgres, "":
		a, err = entadapter.NewAdapter("postgres", dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("casbin ent adapter: %w", err)
		}
	default:
		return nil, nil, fmt.Errorf("%w: unknown adapter %q", ErrInvalidArgs, cfg.Adapter)
	}

	e, err := casbin.NewDistributedEnforcer(m, a)
	if err != nil {
		return nil, nil, err
	}

	e.EnableAutoSave(cfg.Adapter != AdapterFile)
	e.EnableEnforce(true)

	var w persist.Watcher
	if cfg.PolicySyncEnabled && cfg.Adapter != AdapterFile {
		w, err = newWatcher(e, dsn)
		if err != nil {
			return nil, nil, err
		}
	}

	cleanup := func(ctx context.Context) {
		if w != nil {
			slog.Info("closing casbin policy watcher")
			w.Close()
		}
		slog.Info("casbin enforcer cleanup completed")
	}

	return e, cleanup, nil
}

func newWatcher(e *casbin.DistributedEnforcer, dsn string) (persist.Watcher, error) {
	w, err := psqlwatcher.NewWatcherWithConnString(context.Background(), dsn, psqlwatcher.Option{
		Channel: watcherChannel,
	})
	if err != nil {
		return nil, fmt.Errorf("casbin watcher: %w", err)
	}

	err = w.SetUpdateCallback(func(msg string) {
		slog.Debug("casbin policy update received", "message", msg)
		if err := e.LoadPolicy(); err != nil {
			slog.Error("failed to reload policy after watcher notification", "error", err)
			policyLoadHealthy.Store(false)
			return
		}
		policyLoadHealthy.Store(true)
	})
	if err != nil {
		w.Close()
		return nil, err
	}

	if err := e.SetWatcher(w); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}
