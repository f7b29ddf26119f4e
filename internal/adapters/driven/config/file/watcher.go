package file

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/readme-agent/internal/logger"
)

// PromptWatcher reloads a PromptStore when its template files change.
type PromptWatcher struct {
	store   *PromptStore
	watcher *fsnotify.Watcher

	// onReload is called after each reload. Used by tests.
	onReload func(name string)
}

// NewPromptWatcher watches the store's directory. The directory is created
// if it does not exist yet.
func NewPromptWatcher(store *PromptStore) (*PromptWatcher, error) {
	store.initOnce.Do(store.initialise)
	if store.initErr != nil {
		return nil, store.initErr
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(store.Dir()); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", store.Dir(), err)
	}
	return &PromptWatcher{store: store, watcher: w}, nil
}

// Run processes file events until ctx is cancelled, then closes the watcher.
func (w *PromptWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if name, changed := w.handleEvent(event); changed {
				logger.Info("Prompt %s changed, reloading", name)
				w.store.Reload()
				if w.onReload != nil {
					w.onReload(name)
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Prompt watcher error: %v", err)
		}
	}
}

// handleEvent reports the template name affected by event, if any.
// Chmod-only events and non-template files are ignored.
func (w *PromptWatcher) handleEvent(event fsnotify.Event) (string, bool) {
	if event.Op == fsnotify.Chmod {
		return "", false
	}
	base := filepath.Base(event.Name)
	if filepath.Ext(base) != PromptExt {
		return "", false
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return "", false
	}
	return strings.TrimSuffix(base, PromptExt), true
}
