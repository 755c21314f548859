package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/julianstephens/companion/internal/constants"
	"github.com/julianstephens/companion/internal/logger"
)

const (
	defaultDebounce = 150 * time.Millisecond
	// Events this soon after our own write are assumed to be our own.
	defaultQuietPeriod = 500 * time.Millisecond
)

// Watcher republishes modifications made to the store file by other
// processes as EventExternalChange.
type Watcher struct {
	store    *Store
	path     string
	debounce time.Duration
	quiet    time.Duration
}

func NewWatcher(store *Store) *Watcher {
	return &Watcher{
		store:    store,
		path:     store.provider.GetConfigPath(),
		debounce: defaultDebounce,
		quiet:    defaultQuietPeriod,
	}
}

// Run watches until ctx is cancelled. The memory provider has no file, so
// Run simply waits for cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	if w.path == "" || w.path == constants.MemoryStorePath {
		<-ctx.Done()
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	// Watch the directory: atomic renames replace the file's inode.
	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	log := logger.Component("watcher")
	log.Debug("watching store file", "path", w.path)

	base := filepath.Base(w.path)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event, base) {
				continue
			}
			if time.Since(w.store.LastWrite()) < w.quiet {
				continue
			}
			if !pending {
				pending = true
				timer.Reset(w.debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("store watcher error", "err", err)

		case <-timer.C:
			pending = false
			if err := w.store.provider.Load(); err != nil {
				log.Warn("failed to reload store after external change", "err", err)
				continue
			}
			w.store.hub.publish(EventExternalChange)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event, base string) bool {
	name := filepath.Base(event.Name)
	// SQLite writes through -journal and -wal siblings as well as the main file.
	if name != base && !strings.HasPrefix(name, base+"-") {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0
}
