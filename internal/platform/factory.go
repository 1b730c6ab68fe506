package platform

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/introspection"

	"github.com/aretw0/timethings/pkg/adapters/fs"
	lifecycleadapter "github.com/aretw0/timethings/pkg/adapters/lifecycle"
	"github.com/aretw0/timethings/pkg/core"
	"github.com/aretw0/timethings/pkg/tracker"
)

// App wires a vault, its settings and the tracker.
type App struct {
	Vault    *fs.Vault
	Settings *fs.SettingsStore
	Tracker  *tracker.Dispatcher

	logger *slog.Logger
}

// New opens the vault at path and builds the tracker over it with the
// persisted settings.
//
//	app, err := platform.New("./notes", platform.WithLogger(logger))
func New(path string, opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	vault, err := initVault(path, o)
	if err != nil {
		return nil, err
	}

	store := vault.NewSettingsStore()
	var settings core.Settings
	if o.settings != nil {
		settings = *o.settings
	} else if settings, err = store.Load(); err != nil {
		return nil, err
	}

	trackerOpts := []tracker.Option{
		tracker.WithLogger(logger),
		tracker.WithLineEditor(vault),
	}
	if o.clock != nil {
		trackerOpts = append(trackerOpts, tracker.WithClock(o.clock))
	}
	if o.status != nil {
		trackerOpts = append(trackerOpts, tracker.WithStatusSink(o.status))
	}

	app := &App{
		Vault:    vault,
		Settings: store,
		Tracker:  tracker.New(vault, trackerOpts...),
		logger:   logger,
	}
	if err := app.Apply(settings); err != nil {
		return nil, err
	}
	return app, nil
}

// Apply validates s and hands it to the tracker and the vault.
func (a *App) Apply(s core.Settings) error {
	if err := a.Tracker.SetSettings(s); err != nil {
		return err
	}
	a.Vault.SetExclude(s.Filter.Exclude)
	return nil
}

// Watch dispatches vault saves to the tracker until ctx is done.
func (a *App) Watch(ctx context.Context) error {
	events, err := a.Vault.Watch(ctx)
	if err != nil {
		return err
	}

	src := lifecycleadapter.NewSource(events)
	if err := src.Start(ctx); err != nil {
		return err
	}
	a.logger.Info("watching vault", "path", a.Vault.Path)

	for ev := range src.Events() {
		activity, ok := ev.(core.Activity)
		if !ok {
			continue
		}
		a.dispatch(ctx, activity)
	}
	return nil
}

// Feed dispatches activity read from r, one JSON object per line, until r
// is exhausted or ctx is done. Malformed lines are logged and skipped.
//
//	{"type":"keyup","path":"daily/today.md","key":"a"}
func (a *App) Feed(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var activity core.Activity
		if err := json.Unmarshal(line, &activity); err != nil {
			a.logger.Warn("invalid activity", "error", err)
			continue
		}
		a.dispatch(ctx, activity)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read activity: %w", err)
	}
	return nil
}

func (a *App) dispatch(ctx context.Context, activity core.Activity) {
	if err := a.Tracker.Dispatch(ctx, activity); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		a.logger.Error("activity failed", "event", activity.String(), "error", err)
	}
}

// AppState aggregates the state of the app components.
type AppState struct {
	Vault   any `json:"vault"`
	Tracker any `json:"tracker"`
}

// State implements introspection.Introspectable.
func (a *App) State() any {
	return AppState{
		Vault:   a.Vault.State(),
		Tracker: a.Tracker.State(),
	}
}

// ComponentType implements introspection.Component.
func (a *App) ComponentType() string {
	return "app"
}

var _ introspection.Introspectable = (*App)(nil)
var _ introspection.Component = (*App)(nil)
