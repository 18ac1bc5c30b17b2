package watcher_test

import (
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fnspec/internal/adapters/watcher"
)

func TestDebouncer_Add_SinglePath(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls [][]string
		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			calls = append(calls, paths)
		})

		d.Add("/work/serverless.yml")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Len(t, calls, 1)
		assert.Equal(t, []string{"/work/serverless.yml"}, calls[0])
	})
}

func TestDebouncer_Add_BurstCoalesced(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls [][]string
		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			calls = append(calls, paths)
		})

		d.Add("/work/serverless.yml")
		time.Sleep(60 * time.Millisecond)
		d.Add("/work/serverless.yml")
		time.Sleep(60 * time.Millisecond)
		d.Add("/work/serverless.yaml")

		synctest.Wait()
		assert.Empty(t, calls, "callback must wait for a quiet window")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Len(t, calls, 1)
		assert.Equal(t, []string{"/work/serverless.yaml", "/work/serverless.yml"}, calls[0])
	})
}

func TestDebouncer_SeparateWindows(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls int
		d := watcher.NewDebouncer(100*time.Millisecond, func([]string) { calls++ })

		d.Add("/work/serverless.yml")
		time.Sleep(150 * time.Millisecond)
		d.Add("/work/serverless.yml")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, 2, calls)
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls [][]string
		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			calls = append(calls, paths)
		})

		d.Add("/work/serverless.yml")
		d.Flush()

		require.Len(t, calls, 1)

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		assert.Len(t, calls, 1, "flushed paths must not fire again")
	})
}

func TestDebouncer_Stop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls int
		d := watcher.NewDebouncer(100*time.Millisecond, func([]string) { calls++ })

		d.Add("/work/serverless.yml")
		d.Stop()

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		assert.Zero(t, calls)
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		d := watcher.NewDebouncer(10*time.Millisecond, nil)
		d.Add("/work/serverless.yml")
		time.Sleep(20 * time.Millisecond)
		synctest.Wait()
		d.Flush()
	})
}
