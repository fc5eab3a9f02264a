// Package watch reloads an email document whenever its JSON file changes on
// disk, so an external editor can drive the session.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"emailbuilder/internal/domain"
)

// LoadHandler is called with the parsed document after a watched file
// changes. Files that fail to parse are logged and skipped.
type LoadHandler func(ctx context.Context, path string, doc domain.Document) error

// Watcher watches document files through their parent directories, which
// keeps it working with editors that save by rename.
type Watcher struct {
	ctx      context.Context
	watcher  *fsnotify.Watcher
	onLoad   LoadHandler
	mu       sync.RWMutex
	watching map[string]struct{}
	done     chan struct{}
}

// New creates a watcher and starts its event loop. The loop exits when ctx
// is cancelled or Close is called.
func New(ctx context.Context, onLoad LoadHandler) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		ctx:      ctx,
		watcher:  fw,
		onLoad:   onLoad,
		watching: make(map[string]struct{}),
		done:     make(chan struct{}),
	}

	go w.watchLoop()

	return w, nil
}

// WatchFile starts watching path. It does not load the file; call Reload
// for the initial state.
func (w *Watcher) WatchFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.watching[absPath] = struct{}{}
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("watch %s: %w", absPath, err)
	}
	return nil
}

// StopWatching forgets path. The directory watch stays until Close.
func (w *Watcher) StopWatching(path string) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return
	}
	w.mu.Lock()
	delete(w.watching, absPath)
	w.mu.Unlock()
}

// Reload reads path and hands the parsed document to the handler.
func (w *Watcher) Reload(path string) error {
	doc, err := LoadFile(path)
	if err != nil {
		return err
	}
	if w.onLoad == nil {
		return nil
	}
	return w.onLoad(w.ctx, path, doc)
}

// Done is closed when the event loop has exited.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	defer close(w.done)
	for {
		select {
		case <-w.ctx.Done():
			w.watcher.Close()
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			absPath, _ := filepath.Abs(event.Name)
			w.mu.RLock()
			_, watched := w.watching[absPath]
			w.mu.RUnlock()
			if !watched {
				continue
			}
			if err := w.Reload(absPath); err != nil {
				slog.Warn("watch: reload failed", "path", absPath, "err", err)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("watch: watcher error", "err", err)
		}
	}
}

// LoadFile reads and parses a document JSON file.
func LoadFile(path string) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("read document: %w", err)
	}
	doc, err := domain.ParseDocument(data)
	if err != nil {
		return domain.Document{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return doc, nil
}
