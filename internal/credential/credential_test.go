package credential

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKeyFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestStatic(t *testing.T) {
	assert.Equal(t, "abc", Static("abc").APIKey())
	assert.Equal(t, "", Static("").APIKey())
}

func TestNewFileSource_TrimsKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	writeKeyFile(t, path, "  secret-1\n")

	src, err := NewFileSource(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "secret-1", src.APIKey())
}

func TestNewFileSource_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewFileSource(filepath.Join(dir, "missing"), nil)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty")
	writeKeyFile(t, empty, " \n\t")
	_, err = NewFileSource(empty, nil)
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestReload_KeepsPreviousKeyOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	writeKeyFile(t, path, "secret-1")

	src, err := NewFileSource(path, nil)
	require.NoError(t, err)

	writeKeyFile(t, path, "")
	assert.ErrorIs(t, src.Reload(), ErrEmptyKey)
	assert.Equal(t, "secret-1", src.APIKey())

	require.NoError(t, os.Remove(path))
	assert.Error(t, src.Reload())
	assert.Equal(t, "secret-1", src.APIKey())

	writeKeyFile(t, path, "secret-2")
	require.NoError(t, src.Reload())
	assert.Equal(t, "secret-2", src.APIKey())
}

func TestWatch_PicksUpNewKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "key")
	writeKeyFile(t, path, "secret-1")

	src, err := NewFileSource(path, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- src.Watch(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)

	// Atomic replace, the way secret mounts and most editors write.
	tmp := filepath.Join(dir, "key.tmp")
	writeKeyFile(t, tmp, "secret-2")
	require.NoError(t, os.Rename(tmp, path))

	assert.Eventually(t, func() bool { return src.APIKey() == "secret-2" },
		2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestRelevant(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "key")
	writeKeyFile(t, path, "secret-1")

	src, err := NewFileSource(path, nil)
	require.NoError(t, err)

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{name: "write to key", event: fsnotify.Event{Name: path, Op: fsnotify.Write}, want: true},
		{name: "create key", event: fsnotify.Event{Name: path, Op: fsnotify.Create}, want: true},
		{name: "chmod key", event: fsnotify.Event{Name: path, Op: fsnotify.Chmod}, want: false},
		{name: "write to sibling", event: fsnotify.Event{Name: filepath.Join(dir, "other"), Op: fsnotify.Write}, want: false},
		{name: "secret volume swap", event: fsnotify.Event{Name: filepath.Join(dir, "..data"), Op: fsnotify.Create}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, src.relevant(tt.event))
		})
	}
}

func TestScheduleReload_CoalescesBurst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	writeKeyFile(t, path, "secret-1")

	src, err := NewFileSource(path, nil)
	require.NoError(t, err)
	src.delay = 50 * time.Millisecond

	// Each call pushes the reload back, so the intermediate key is never read.
	writeKeyFile(t, path, "secret-2")
	src.scheduleReload()
	time.Sleep(20 * time.Millisecond)
	writeKeyFile(t, path, "secret-3")
	src.scheduleReload()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, "secret-1", src.APIKey())

	assert.Eventually(t, func() bool { return src.APIKey() == "secret-3" },
		time.Second, 10*time.Millisecond)
}

func TestClose_CancelsPendingReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	writeKeyFile(t, path, "secret-1")

	src, err := NewFileSource(path, nil)
	require.NoError(t, err)
	src.delay = 50 * time.Millisecond

	writeKeyFile(t, path, "secret-2")
	src.scheduleReload()
	require.NoError(t, src.Close())

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, "secret-1", src.APIKey())
}
