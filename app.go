package ctxdesk

import (
	"context"
	"errors"
	"sync"
	"time"

	"pkt.systems/ctxdesk/core"
	"pkt.systems/ctxdesk/internal/catalog"
	"pkt.systems/ctxdesk/internal/eventbus"
	"pkt.systems/ctxdesk/internal/fsio"
	"pkt.systems/ctxdesk/internal/persist"
	"pkt.systems/ctxdesk/schema"
	"pkt.systems/pslog"
)

// Config configures the application compositor.
type Config struct {
	Session      schema.SessionConfig
	StateDir     string
	Catalog      catalog.Config
	MaxFileBytes int64
	Debounce     time.Duration
}

// SnapshotStore loads and stores the persisted session.
type SnapshotStore interface {
	Load() (schema.PersistedState, bool, error)
	SaveRaw(data []byte) error
	Remove() error
}

// Deps overrides the default collaborators. Nil fields use the local
// filesystem implementations.
type Deps struct {
	Files     core.FileIO
	Known     core.KnownFiles
	Snapshots SnapshotStore
	Sink      core.EventSink
	Logger    pslog.Logger
}

// App wires an editor session to its file, catalog and snapshot collaborators.
type App struct {
	session   *core.Session
	known     core.KnownFiles
	snapshots SnapshotStore
	writer    *persist.Writer
	bus       *eventbus.Bus
	logger    pslog.Logger

	mu      sync.Mutex
	started bool
	closed  bool
}

// New constructs an App. Persistence stays disarmed until Start.
func New(cfg Config, deps Deps) (*App, error) {
	logger := deps.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	files := deps.Files
	if files == nil {
		files = fsio.New(fsio.Options{MaxFileBytes: cfg.MaxFileBytes, Logger: logger})
	}
	known := deps.Known
	if known == nil {
		cat, err := catalog.New(cfg.Catalog, logger)
		if err != nil {
			return nil, err
		}
		known = cat
	}
	snapshots := deps.Snapshots
	if snapshots == nil {
		store, err := persist.NewStoreWithLogger(cfg.StateDir, logger)
		if err != nil {
			return nil, err
		}
		snapshots = store
	}

	app := &App{
		known:     known,
		snapshots: snapshots,
		bus:       eventbus.New(logger),
		logger:    logger,
	}
	app.writer = persist.NewWriter(snapshots, func() schema.PersistedState {
		return app.session.PersistedState()
	}, cfg.Debounce, logger)

	sinks := make([]core.EventSink, 0, 2)
	if deps.Sink != nil {
		sinks = append(sinks, deps.Sink)
	}
	sinks = append(sinks, app.bus)
	var sink core.EventSink = app.bus
	if len(sinks) > 1 {
		sink = eventFanout{sinks: sinks}
	}

	session, err := core.NewSession(cfg.Session, core.SessionDeps{
		Files:    files,
		Sink:     sink,
		Observer: app.writer,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	app.session = session
	return app, nil
}

// Session returns the live editor session.
func (a *App) Session() *core.Session {
	return a.session
}

// Events returns the event bus UI layers subscribe to.
func (a *App) Events() *eventbus.Bus {
	return a.bus
}

// KnownFiles lists the files the session may open.
func (a *App) KnownFiles(ctx context.Context) ([]schema.FileRef, error) {
	return a.known.ListKnownFiles(ctx)
}

// Start restores the stored session and then arms snapshot writes. Restore is
// skipped when no files are known; a missing or unreadable snapshot starts an
// empty session.
func (a *App) Start(ctx context.Context) (core.RestoreResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		a.logger.Warn("app start rejected", "reason", "already started")
		return core.RestoreResult{}, errors.New("app already started")
	}
	a.started = true
	a.mu.Unlock()

	result, err := a.restore(ctx)
	if err != nil {
		return result, err
	}
	a.writer.Arm()
	a.logger.Info("app started", "panes", result.Panes, "tabs", result.Tabs)
	return result, nil
}

func (a *App) restore(ctx context.Context) (core.RestoreResult, error) {
	known, err := a.known.ListKnownFiles(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return core.RestoreResult{}, err
		}
		a.logger.Warn("app restore skipped", "reason", "file listing failed", "err", err)
		return core.RestoreResult{Panes: 1}, nil
	}
	if len(known) == 0 {
		a.logger.Info("app restore skipped", "reason", "no known files")
		return core.RestoreResult{Panes: 1}, nil
	}
	state, ok, err := a.snapshots.Load()
	if err != nil {
		a.logger.Warn("app restore skipped", "reason", "snapshot unreadable", "err", err)
		return core.RestoreResult{Panes: 1}, nil
	}
	if !ok {
		a.logger.Debug("app restore skipped", "reason", "no snapshot")
		return core.RestoreResult{Panes: 1}, nil
	}
	result, err := a.session.Restore(ctx, state, known)
	if err != nil {
		return result, err
	}
	if len(result.Dropped) > 0 {
		a.logger.Info("app restore dropped missing files", "paths", result.Dropped)
	}
	return result, nil
}

// Flush waits for pending reads and writes the snapshot now.
func (a *App) Flush() error {
	a.session.Wait()
	return a.writer.Flush()
}

// Reset removes the stored snapshot.
func (a *App) Reset() error {
	return a.snapshots.Remove()
}

// Close flushes a pending snapshot write and stops persistence.
func (a *App) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()
	a.session.Wait()
	if err := a.writer.Close(); err != nil {
		a.logger.Warn("app close failed", "err", err)
		return err
	}
	a.logger.Debug("app closed")
	return nil
}
