// Package credential provides API key sources for the Vanish client,
// including a key file that is reloaded when it changes on disk.
package credential

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ErrEmptyKey is returned when a key file contains only whitespace.
var ErrEmptyKey = errors.New("api key file is empty")

// ReloadDelay is how long Watch waits after the last relevant event before
// re-reading the file. Editors and secret mounts emit bursts per write.
const ReloadDelay = 250 * time.Millisecond

// Static is a fixed API key.
type Static string

// APIKey returns the key.
func (s Static) APIKey() string { return string(s) }

// FileSource serves an API key read from a file. Watch keeps it current.
type FileSource struct {
	path   string
	logger *zap.Logger
	delay  time.Duration

	mu  sync.RWMutex
	key string

	// guarded by mu
	watcher *fsnotify.Watcher
	pending *time.Timer
}

// NewFileSource reads the key at path. The file must exist and be non-empty.
func NewFileSource(path string, logger *zap.Logger) (*FileSource, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve api key file: %w", err)
	}

	key, err := readKey(abs)
	if err != nil {
		return nil, err
	}

	return &FileSource{
		path:   abs,
		logger: logger,
		delay:  ReloadDelay,
		key:    key,
	}, nil
}

// APIKey returns the most recently loaded key.
func (s *FileSource) APIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key
}

// Reload re-reads the key file. On failure the previous key is kept.
func (s *FileSource) Reload() error {
	key, err := readKey(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	changed := s.key != key
	s.key = key
	s.mu.Unlock()

	if changed {
		s.logger.Info("api key reloaded", zap.String("path", s.path))
	}
	return nil
}

// Watch reloads the key whenever the file changes, until ctx is done.
// The parent directory is watched so that atomic renames (the way mounted
// secrets are updated) are seen.
func (s *FileSource) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.path), err)
	}

	s.mu.Lock()
	s.watcher = watcher
	s.mu.Unlock()

	s.logger.Debug("watching api key file", zap.String("path", s.path))

	defer func() {
		s.cancelReload()
		watcher.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !s.relevant(event) {
				continue
			}
			s.scheduleReload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("api key watcher error", zap.Error(err))
		}
	}
}

// Close stops a running Watch.
func (s *FileSource) Close() error {
	s.cancelReload()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watcher == nil {
		return nil
	}
	err := s.watcher.Close()
	s.watcher = nil
	return err
}

// scheduleReload reloads the key once no further call has arrived for s.delay.
func (s *FileSource) scheduleReload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		s.pending.Stop()
	}
	s.pending = time.AfterFunc(s.delay, func() {
		if err := s.Reload(); err != nil {
			s.logger.Warn("api key reload failed, keeping previous key",
				zap.String("path", s.path), zap.Error(err))
		}
	})
}

func (s *FileSource) cancelReload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

// relevant reports whether event may have changed the key file's contents.
// Kubernetes secret volumes swap a ..data symlink rather than touching the file.
func (s *FileSource) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	name := filepath.Base(event.Name)
	return filepath.Clean(event.Name) == s.path || name == "..data"
}

func readKey(path string) (string, error) {
	b, err := os.ReadFile(path) // #nosec G304 - operator supplied path
	if err != nil {
		return "", fmt.Errorf("read api key file: %w", err)
	}
	key := strings.TrimSpace(string(b))
	if key == "" {
		return "", ErrEmptyKey
	}
	return key, nil
}
