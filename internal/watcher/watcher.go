// Package watcher re-extracts Lua source trees when their files change.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/DeusData/lua-chunks/internal/discover"
)

const (
	baseInterval = 1 * time.Second
	maxInterval  = 60 * time.Second
)

type fileSnapshot struct {
	modTime time.Time
	size    int64
}

type rootState struct {
	path     string
	snapshot map[string]fileSnapshot
	interval time.Duration
	nextPoll time.Time
}

// IndexFunc is called with a root whose files changed.
type IndexFunc func(ctx context.Context, root string) error

// Options configures a Watcher.
type Options struct {
	// Interval is the tick and the minimum per-root poll interval.
	// Defaults to one second.
	Interval time.Duration
	// Discover selects which files are snapshotted.
	Discover *discover.Options
}

// Watcher polls source roots for file changes and triggers re-extraction.
type Watcher struct {
	indexFn IndexFunc
	opts    Options
	roots   []*rootState
}

// New creates a Watcher over roots. indexFn is called when changes are detected.
func New(indexFn IndexFunc, opts Options, roots ...string) *Watcher {
	if opts.Interval <= 0 {
		opts.Interval = baseInterval
	}
	w := &Watcher{indexFn: indexFn, opts: opts}
	for _, r := range roots {
		w.roots = append(w.roots, &rootState{path: r})
	}
	return w
}

// Run blocks until ctx is cancelled. Ticks at the base interval, polling
// each root only when its adaptive interval has elapsed.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.pollAll(ctx)
		}
	}
}

// pollAll polls every root that is due.
func (w *Watcher) pollAll(ctx context.Context) {
	now := time.Now()
	for _, state := range w.roots {
		if ctx.Err() != nil {
			return
		}
		if !state.nextPoll.IsZero() && now.Before(state.nextPoll) {
			continue // not due yet
		}
		w.pollRoot(ctx, state)
	}
}

// pollRoot captures a snapshot of the root and compares with the previous one.
// First poll: captures baseline without triggering extraction.
// Subsequent polls: triggers indexFn if any file changed.
func (w *Watcher) pollRoot(ctx context.Context, state *rootState) {
	if _, err := os.Stat(state.path); err != nil {
		slog.Warn("watcher.root_gone", "path", state.path)
		state.nextPoll = time.Now().Add(maxInterval)
		return
	}

	snap, err := w.captureSnapshot(ctx, state.path)
	if err != nil {
		slog.Warn("watcher.snapshot", "path", state.path, "err", err)
		state.nextPoll = time.Now().Add(state.interval)
		return
	}

	interval := pollInterval(w.opts.Interval, len(snap))

	if state.snapshot == nil {
		slog.Debug("watcher.baseline", "path", state.path, "files", len(snap))
		state.snapshot = snap
		state.interval = interval
		state.nextPoll = time.Now().Add(interval)
		return
	}

	if snapshotsEqual(state.snapshot, snap) {
		state.interval = interval
		state.nextPoll = time.Now().Add(interval)
		return
	}

	slog.Info("watcher.changed", "path", state.path, "files", len(snap))
	if err := w.indexFn(ctx, state.path); err != nil {
		slog.Warn("watcher.index", "path", state.path, "err", err)
		// Keep old snapshot so we retry next cycle
		state.nextPoll = time.Now().Add(interval)
		return
	}

	state.snapshot = snap
	state.interval = interval
	state.nextPoll = time.Now().Add(interval)
}

// captureSnapshot discovers the root's Lua files and records mtime+size
// for each.
func (w *Watcher) captureSnapshot(ctx context.Context, rootPath string) (map[string]fileSnapshot, error) {
	files, err := discover.Discover(ctx, rootPath, w.opts.Discover)
	if err != nil {
		return nil, err
	}

	snap := make(map[string]fileSnapshot, len(files))
	for _, f := range files {
		info, statErr := os.Stat(f.Path)
		if statErr != nil {
			continue
		}
		snap[f.RelPath] = fileSnapshot{
			modTime: info.ModTime(),
			size:    info.Size(),
		}
	}
	return snap, nil
}

// snapshotsEqual returns true if two snapshots have identical files with same mtime+size.
func snapshotsEqual(a, b map[string]fileSnapshot) bool {
	if len(a) != len(b) {
		return false
	}
	for path, aSnap := range a {
		bSnap, ok := b[path]
		if !ok {
			return false
		}
		if !aSnap.modTime.Equal(bSnap.modTime) || aSnap.size != bSnap.size {
			return false
		}
	}
	return true
}

// pollInterval grows the base interval by one base step per 500 files,
// capped at maxInterval.
func pollInterval(base time.Duration, fileCount int) time.Duration {
	d := base + time.Duration(fileCount/500)*base
	if d > maxInterval {
		d = maxInterval
	}
	return d
}
