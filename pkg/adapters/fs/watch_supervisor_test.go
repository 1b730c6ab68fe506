package fs

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/supervisor"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/timethings/pkg/core"
)

// A watcher whose fsnotify handle dies is replaced, and saves keep
// arriving through the replacement.
func TestWatch_RestartedWatcherReportsSaves(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v := newTestVault(t, map[string]string{"journal.md": "---\nedited_seconds: 0\n---\n"})
	events := make(chan core.Activity, 8)
	workers := make(chan *watchWorker, 2)

	spec := v.watcherSpec(events, supervisor.Backoff{
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     50 * time.Millisecond,
		Multiplier:      1,
		ResetDuration:   50 * time.Millisecond,
		MaxRestarts:     2,
		MaxDuration:     200 * time.Millisecond,
	})
	build := spec.Factory
	spec.Factory = func() (worker.Worker, error) {
		w, err := build()
		if err == nil {
			workers <- w.(*watchWorker)
		}
		return w, err
	}

	sup := supervisor.New("journal-watcher", supervisor.StrategyOneForOne, spec)
	require.NoError(t, sup.Start(ctx))
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer stopCancel()
		assert.NoError(t, sup.Stop(stopCtx))
	}()

	first := receiveWorker(t, workers)
	waitForWatcherInit(t, first)
	require.NoError(t, first.watcher.Close())

	second := receiveWorker(t, workers)
	require.NotSame(t, first, second, "supervisor should build a new watcher")
	waitForWatcherInit(t, second)
	waitForWatcher(t, v, true)

	abs, err := v.Resolve("journal.md")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(abs, []byte("---\nedited_seconds: 0\n---\nmorning pages\n"), 0644))

	ev := nextActivity(t, events)
	assert.Equal(t, core.ActivityFileModified, ev.Kind)
	assert.Equal(t, "journal.md", ev.ID)
}

func receiveWorker(t *testing.T, workers <-chan *watchWorker) *watchWorker {
	t.Helper()

	select {
	case w := <-workers:
		return w
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for a watch worker")
		return nil
	}
}

// waitForWatcherInit waits until w has opened its fsnotify handle and
// registered the vault directories.
func waitForWatcherInit(t *testing.T, w *watchWorker) {
	t.Helper()

	require.Eventually(t, func() bool {
		return w.ready()
	}, 2*time.Second, 10*time.Millisecond, "watcher never initialized")
}

func waitForWatcher(t *testing.T, v *Vault, active bool) {
	t.Helper()

	require.Eventually(t, func() bool {
		state, ok := v.State().(VaultState)
		return ok && state.WatcherActive == active
	}, 2*time.Second, 10*time.Millisecond, "watcher active never became %v", active)
}
