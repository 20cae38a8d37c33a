package am

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/typeinfer/errors"
)

func TestNewFileWatcherRequiresPaths(t *testing.T) {
	_, err := NewFileWatcher(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestFileWatcherRelevant(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "data.csv")

	fw, err := NewFileWatcher([]string{watched})
	require.NoError(t, err)
	defer fw.Close()

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write to watched file", fsnotify.Event{Name: watched, Op: fsnotify.Write}, true},
		{"editor replaces file", fsnotify.Event{Name: watched, Op: fsnotify.Create}, true},
		{"rename", fsnotify.Event{Name: watched, Op: fsnotify.Rename}, true},
		{"chmod only", fsnotify.Event{Name: watched, Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: watched, Op: fsnotify.Remove}, false},
		{"sibling file", fsnotify.Event{Name: filepath.Join(dir, "other.csv"), Op: fsnotify.Write}, false},
		{"backup file", fsnotify.Event{Name: watched + ".back1", Op: fsnotify.Create}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fw.relevant(tt.event))
		})
	}
}

func TestFileWatcherDebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "data.csv")
	other := filepath.Join(dir, "other.csv")
	require.NoError(t, os.WriteFile(watched, []byte("a\n"), 0644))

	fw, err := NewFileWatcher([]string{watched},
		WithDebounce(50*time.Millisecond),
		WithMaxRunsPerMinute(0))
	require.NoError(t, err)
	defer fw.Close()

	changes := make(chan string, 10)
	fw.OnChange(func(path string) error {
		changes <- path
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fw.Run(ctx) }()

	require.NoError(t, os.WriteFile(other, []byte("x\n"), 0644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(watched, []byte("a\n1\n"), 0644))
	}

	select {
	case path := <-changes:
		assert.Equal(t, watched, path)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	// the burst collapses into one run
	select {
	case path := <-changes:
		t.Fatalf("unexpected second run for %s", path)
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestFileWatcherRunsDoNotOverlap(t *testing.T) {
	watched := filepath.Join(t.TempDir(), "data.csv")
	fw, err := NewFileWatcher([]string{watched}, WithMaxRunsPerMinute(0))
	require.NoError(t, err)
	defer fw.Close()

	var active, maxActive, runs atomic.Int32
	fw.OnChange(func(path string) error {
		n := active.Add(1)
		for {
			m := maxActive.Load()
			if n <= m || maxActive.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(50 * time.Millisecond)
		active.Add(-1)
		runs.Add(1)
		return nil
	})

	fw.pending = watched

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fw.fire(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(3), runs.Load())
	assert.Equal(t, int32(1), maxActive.Load())
}
