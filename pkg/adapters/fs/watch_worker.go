package fs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/lifecycle/pkg/core/supervisor"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/timethings/pkg/core"
)

// debounceDelay coalesces the write bursts editors produce on save.
const debounceDelay = 50 * time.Millisecond

// watcherBackoff bounds how often a failing watcher is restarted.
var watcherBackoff = supervisor.Backoff{
	InitialInterval: 100 * time.Millisecond,
	MaxInterval:     5 * time.Second,
	Multiplier:      2,
	ResetDuration:   30 * time.Second,
	MaxRestarts:     5,
	MaxDuration:     time.Minute,
}

// watcherSpec describes the supervised watch worker feeding events.
func (v *Vault) watcherSpec(events chan<- core.Activity, backoff supervisor.Backoff) supervisor.Spec {
	return supervisor.Spec{
		Name: "fs-watcher",
		Type: string(worker.TypeGoroutine),
		Factory: func() (worker.Worker, error) {
			return newWatchWorker(v, events), nil
		},
		Backoff:       backoff,
		RestartPolicy: supervisor.RestartOnFailure,
	}
}

// Watch reports saved notes as core.ActivityFileModified events until ctx
// is done. Writes made by the vault itself, excluded notes and files
// outside the note set are not reported. The watcher runs under a
// supervisor and is restarted if it fails.
func (v *Vault) Watch(ctx context.Context) (<-chan core.Activity, error) {
	events := make(chan core.Activity, 64)

	spec := v.watcherSpec(events, watcherBackoff)
	sup := supervisor.New("vault-watcher", supervisor.StrategyOneForOne, spec)
	if err := sup.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := sup.Stop(stopCtx)
		close(events)
		return err
	}, lifecycle.WithErrorHandler(v.reportError))

	return events, nil
}

func (v *Vault) reportError(err error) {
	if v.config.ErrorHandler != nil {
		v.config.ErrorHandler(err)
		return
	}
	v.logger.Error("watcher error", "error", err)
}

func (v *Vault) setWatcherActive(active bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.watcherActive = active
}

// addDirs registers root and its subdirectories, skipping hidden ones.
func (v *Vault) addDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != v.Path && (strings.HasPrefix(d.Name(), ".") || d.Name() == v.config.SystemDir) {
			return filepath.SkipDir
		}
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		return nil
	})
}

type watchWorker struct {
	*worker.BaseWorker
	vault     *Vault
	events    chan<- core.Activity
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc
	// watching is set once the directories are registered.
	watching atomic.Bool
}

func newWatchWorker(v *Vault, events chan<- core.Activity) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("fs-watcher"),
		vault:      v,
		events:     events,
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.vault.addDirs(watcher, w.vault.Path); err != nil {
		_ = watcher.Close()
		return err
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(debounceDelay)
	w.watching.Store(true)
	w.vault.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) ready() bool { return w.watching.Load() }

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

// handle filters one filesystem event and schedules its activity.
func (w *watchWorker) handle(ctx context.Context, event fsnotify.Event) {
	logger := w.vault.logger

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.vault.addDirs(w.watcher, event.Name); err != nil {
				logger.Debug("new directory not watched", "path", event.Name, "error", err)
			}
			return
		}
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if filepath.Ext(event.Name) != NoteExt {
		return
	}

	id, err := w.vault.ID(event.Name)
	if err != nil || w.vault.hidden(id) {
		return
	}
	if w.vault.Excluded(id) {
		logger.Debug("excluded note changed", "id", id)
		return
	}
	if w.vault.selfWrite(event.Name) {
		logger.Debug("own write ignored", "id", id)
		return
	}

	w.debouncer.add(id, func() {
		defer func() {
			// The events channel may be closed while shutting down.
			_ = recover()
		}()
		select {
		case w.events <- core.Activity{
			Kind:      core.ActivityFileModified,
			ID:        id,
			Timestamp: time.Now().UnixMilli(),
		}:
		case <-ctx.Done():
		}
	})
}

func (w *watchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if w.vault.logger.Enabled(ctx, slog.LevelDebug) {
				w.vault.logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				w.vault.logger.Error("watcher panic", "error", err)
			}
		}
	}()
	defer w.vault.setWatcherActive(false)
	defer w.watcher.Close()

	err = w.loop(ctx)

	// Let in-flight deliveries finish before the channel can be closed.
	w.debouncer.stopAndWait(5 * time.Second)
	return err
}

func (w *watchWorker) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.vault.logger.Debug("event received", "name", event.Name, "op", event.Op.String())
			w.handle(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.vault.reportError(wErr)
		}
	}
}
