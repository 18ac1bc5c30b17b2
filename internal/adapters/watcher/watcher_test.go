package watcher_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fnspec/internal/adapters/watcher"
	"go.trai.ch/fnspec/internal/core/ports"
	"go.trai.ch/fnspec/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestWatcher_ReportsChangesToTargetOnly(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "serverless.yml")
	require.NoError(t, os.WriteFile(target, []byte("service: a\n"), 0o600))

	ctrl := gomock.NewController(t)
	w := watcher.NewWatcher(mocks.NewMockLogger(ctrl))

	ctx := t.Context()
	require.NoError(t, w.Start(ctx, target))
	t.Cleanup(func() { _ = w.Stop() })

	events := make(chan ports.WatchEvent, 16)
	go func() {
		for ev := range w.Events() {
			events <- ev
		}
		close(events)
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.py"), []byte("print()\n"), 0o600))
	require.NoError(t, os.WriteFile(target, []byte("service: b\n"), 0o600))

	select {
	case ev := <-events:
		assert.Equal(t, target, ev.Path)
		assert.Contains(t, []ports.WatchOp{ports.OpWrite, ports.OpCreate}, ev.Operation)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watch event")
	}
}

func TestWatcher_StopEndsEvents(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "serverless.yml")
	require.NoError(t, os.WriteFile(target, []byte("service: a\n"), 0o600))

	ctrl := gomock.NewController(t)
	w := watcher.NewWatcher(mocks.NewMockLogger(ctrl))
	require.NoError(t, w.Start(t.Context(), target))

	done := make(chan struct{})
	go func() {
		for range w.Events() {
		}
		close(done)
	}()

	require.NoError(t, w.Stop())

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("events iterator did not end after Stop")
	}
}

func TestWatcher_StartMissingDirectory(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := watcher.NewWatcher(mocks.NewMockLogger(ctrl))
	t.Cleanup(func() { _ = w.Stop() })

	err := w.Start(t.Context(), filepath.Join(t.TempDir(), "missing", "serverless.yml"))
	require.Error(t, err)
	assert.False(t, watcher.HasHandle(w))
}

func TestWatcher_ConstructionOpensNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := watcher.NewWatcher(mocks.NewMockLogger(ctrl))

	assert.False(t, watcher.HasHandle(w))
}

func TestWatcher_StopBeforeStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := watcher.NewWatcher(mocks.NewMockLogger(ctrl))

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	done := make(chan struct{})
	go func() {
		for range w.Events() {
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("events iterator did not end after Stop")
	}

	err := w.Start(t.Context(), filepath.Join(t.TempDir(), "serverless.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watcher is stopped")
	assert.False(t, watcher.HasHandle(w))
}

func TestWatcher_StartTwice(t *testing.T) {
	target := filepath.Join(t.TempDir(), "serverless.yml")

	ctrl := gomock.NewController(t)
	w := watcher.NewWatcher(mocks.NewMockLogger(ctrl))
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, w.Start(t.Context(), target))
	assert.True(t, watcher.HasHandle(w))

	err := w.Start(t.Context(), target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watcher is already started")
}
