package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	fileSuffix    = ".json"
	tempPrefix    = ".tmp-"
	watchSettle   = 200 * time.Millisecond
	watchTick     = 100 * time.Millisecond
	fileMode      = 0o644
	directoryMode = 0o755
)

// FileStore keeps one JSON file per key inside a directory.
// Writes go to a temp file first and are renamed into place
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates the directory if needed and returns a store rooted there
func NewFileStore(dir string) (*FileStore, error) {
	err := os.MkdirAll(dir, directoryMode)
	if err != nil {
		return nil, errors.Wrapf(err, "could not create state directory %s", dir)
	}

	return &FileStore{dir: dir}, nil
}

// Dir is the directory the store writes into
func (f *FileStore) Dir() string {
	return f.dir
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, key+fileSuffix)
}

// Get reads the file for the key
func (f *FileStore) Get(key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "could not read %q", key)
	}

	return raw, true, nil
}

// Set atomically replaces the file for the key
func (f *FileStore) Set(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return atomicWrite(f.path(key), value, f.dir)
}

// Delete removes the file for the key
func (f *FileStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "could not delete %q", key)
	}

	return nil
}

// Watch calls onChange with the key of every file that another process
// creates or rewrites, until the context is cancelled.
// Bursts of events for the same key are collapsed into one call
func (f *FileStore) Watch(ctx context.Context, logger zerolog.Logger, onChange func(key string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "could not create state watcher")
	}

	err = watcher.Add(f.dir)
	if err != nil {
		watcher.Close()
		return errors.Wrapf(err, "could not watch %s", f.dir)
	}

	go func() {
		defer watcher.Close()

		pending := make(map[string]time.Time)
		ticker := time.NewTicker(watchTick)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}

				base := filepath.Base(event.Name)
				if strings.HasPrefix(base, tempPrefix) || !strings.HasSuffix(base, fileSuffix) {
					continue
				}
				pending[strings.TrimSuffix(base, fileSuffix)] = time.Now()

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn().Err(err).Str("dir", f.dir).Msg("state watcher error")

			case now := <-ticker.C:
				for key, last := range pending {
					if now.Sub(last) >= watchSettle {
						delete(pending, key)
						onChange(key)
					}
				}
			}
		}
	}()

	return nil
}

func atomicWrite(path string, data []byte, tmpDir string) error {
	tmp, err := os.CreateTemp(tmpDir, tempPrefix+"*")
	if err != nil {
		return errors.Wrap(err, "could not create temp file")
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "could not write temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "could not close temp file")
	}
	if err := os.Chmod(tmpName, fileMode); err != nil {
		return errors.Wrap(err, "could not set file mode")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "could not move temp file into %s", path)
	}

	success = true
	return nil
}
