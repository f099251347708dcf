package library

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alws34/DigitalPhotoFrame/internal/logging"
	"github.com/alws34/DigitalPhotoFrame/internal/metrics"
)

// ImageExtensions lists the file extensions treated as photos.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

// ErrUnsupportedType is returned by Add for files that are not photos.
var ErrUnsupportedType = errors.New("unsupported image type")

// ErrNotFound is returned by Remove when the named photo does not exist.
var ErrNotFound = errors.New("photo not found")

// reloadDebounce coalesces bursts of watcher events (an upload produces a
// create plus several writes) into a single re-scan.
const reloadDebounce = 250 * time.Millisecond

// Library is the thread-safe snapshot of photo paths in one directory.
type Library struct {
	dir string

	mu    sync.RWMutex
	paths []string
}

// New creates a library over dir, creating the directory if needed, and
// performs the initial scan.
func New(dir string) (*Library, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create photo directory: %w", err)
	}
	l := &Library{dir: dir}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// Dir returns the directory the library scans.
func (l *Library) Dir() string {
	return l.dir
}

// Paths returns a copy of the current snapshot, sorted by file name.
func (l *Library) Paths() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.paths...)
}

// Len returns the number of photos in the snapshot.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.paths)
}

// Contains reports whether name (a bare file name) is in the snapshot.
func (l *Library) Contains(name string) bool {
	target := filepath.Join(l.dir, filepath.Base(name))
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, p := range l.paths {
		if p == target {
			return true
		}
	}
	return false
}

// Reload re-scans the directory and swaps in the new snapshot.
func (l *Library) Reload() error {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return fmt.Errorf("failed to scan photo directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !ImageExtensions[ext] {
			continue
		}
		paths = append(paths, filepath.Join(l.dir, entry.Name()))
	}
	sort.Strings(paths)

	l.mu.Lock()
	l.paths = paths
	l.mu.Unlock()

	metrics.LibrarySize.Set(float64(len(paths)))
	metrics.LibraryReloadsTotal.Inc()
	logging.Debug("library reloaded: %d photos in %s", len(paths), l.dir)
	return nil
}

// Add stores the uploaded photo under its base name and refreshes the
// snapshot. The write goes through a temp file so a half-written upload
// never enters the library.
func (l *Library) Add(name string, r io.Reader) (string, error) {
	name = filepath.Base(name)
	ext := strings.ToLower(filepath.Ext(name))
	if !ImageExtensions[ext] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}

	tmp, err := os.CreateTemp(l.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to stage upload: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to finish upload: %w", err)
	}

	dest := filepath.Join(l.dir, name)
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to place upload: %w", err)
	}

	if err := l.Reload(); err != nil {
		return "", err
	}
	logging.Info("photo added: %s", name)
	return dest, nil
}

// Remove deletes the named photo and refreshes the snapshot.
func (l *Library) Remove(name string) error {
	name = filepath.Base(name)
	path := filepath.Join(l.dir, name)

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("failed to remove photo: %w", err)
	}

	if err := l.Reload(); err != nil {
		return err
	}
	logging.Info("photo removed: %s", name)
	return nil
}

// Watch re-scans the directory when fsnotify reports changes, until done
// is closed. Event bursts are debounced into one reload.
func (l *Library) Watch(done <-chan struct{}) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Error("failed to create photo watcher: %v", err)
		metrics.WatcherErrorsTotal.Inc()
		return
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logging.Error("failed to close photo watcher: %v", err)
		}
	}()

	if err := watcher.Add(l.dir); err != nil {
		logging.Error("failed to watch photo directory %s: %v", l.dir, err)
		metrics.WatcherErrorsTotal.Inc()
		return
	}
	logging.Debug("photo watcher started on %s", l.dir)

	debounce := time.NewTimer(reloadDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-done:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !l.relevantEvent(event) {
				continue
			}
			metrics.WatcherEventsTotal.WithLabelValues(eventType(event.Op)).Inc()
			debounce.Reset(reloadDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Error("photo watcher error: %v", err)
			metrics.WatcherErrorsTotal.Inc()

		case <-debounce.C:
			if err := l.Reload(); err != nil {
				logging.Error("photo reload after watcher event failed: %v", err)
			}
		}
	}
}

// relevantEvent filters out hidden files (including Add's staging temps)
// and non-image files.
func (l *Library) relevantEvent(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return ImageExtensions[strings.ToLower(filepath.Ext(base))]
}

func eventType(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create != 0:
		return "create"
	case op&fsnotify.Write != 0:
		return "write"
	case op&fsnotify.Remove != 0:
		return "remove"
	case op&fsnotify.Rename != 0:
		return "rename"
	case op&fsnotify.Chmod != 0:
		return "chmod"
	default:
		return "unknown"
	}
}
