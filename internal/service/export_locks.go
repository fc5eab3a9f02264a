package service

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// ExportLocks serializes exports per output directory so the watcher,
// autosave and tool calls never interleave writes to the same files.
type ExportLocks struct {
	mu   sync.Mutex
	held map[string]time.Time
	wg   sync.WaitGroup
}

// Acquire takes the lock for dir. When another export already holds it,
// ok is false and release is nil. Calling release more than once is safe.
func (l *ExportLocks) Acquire(dir string) (release func(), ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held == nil {
		l.held = make(map[string]time.Time)
	}
	if since, busy := l.held[dir]; busy {
		slog.Warn("export directory busy", "dir", dir, "heldFor", time.Since(since).Round(time.Millisecond))
		return nil, false
	}
	l.held[dir] = time.Now()
	l.wg.Add(1)

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, dir)
			l.mu.Unlock()
			l.wg.Done()
		})
	}, true
}

// Held lists the directories currently being exported to, sorted.
func (l *ExportLocks) Held() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	dirs := make([]string, 0, len(l.held))
	for d := range l.held {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

// Wait blocks until every held lock is released. It returns ctx.Err() and
// logs the directories still held when ctx ends first.
func (l *ExportLocks) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		slog.Warn("exports still running", "dirs", l.Held(), "err", ctx.Err())
		return ctx.Err()
	}
}
