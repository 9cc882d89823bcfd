// Package watch triggers content rebuilds from file system changes.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/syllabus/internal/logfields"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 300 * time.Millisecond

// RebuildFunc is called once per burst of changes with the sorted,
// slash-separated paths (relative to the root) that changed.
type RebuildFunc func(ctx context.Context, changed []string)

// Watch starts an fsnotify watcher on the content root and calls rebuild
// after each burst of relevant changes has been quiet for debounce. It runs
// until ctx is cancelled.
//
// New directories created at runtime are added to the watch list. Rebuilds
// run on the watcher goroutine, so events arriving during a rebuild are
// batched into the next one.
func Watch(ctx context.Context, root string, debounce time.Duration, logger *slog.Logger, rebuild RebuildFunc) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", logfields.Path(root), slog.Duration("debounce", debounce))

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
		pending = map[string]struct{}{}
	)
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
			return
		}
		timer.Reset(debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			timer, timerCh = nil, nil
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)
			logger.Debug("watcher: rebuilding", logfields.Count(len(changed)))
			rebuild(ctx, changed)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed", logfields.Path(ev.Name), logfields.Error(addErr))
					}
					if rel, ok := relative(root, ev.Name); ok {
						pending[rel] = struct{}{}
						schedule()
					}
					continue
				}
			}
			if ev.Op == fsnotify.Chmod || !Relevant(ev.Name) {
				continue
			}
			rel, ok := relative(root, ev.Name)
			if !ok {
				continue
			}
			logger.Debug("watcher: change", logfields.Path(rel), slog.String("op", ev.Op.String()))
			pending[rel] = struct{}{}
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", logfields.Error(watchErr))
		}
	}
}

// Relevant reports whether a changed file can affect the build output.
func Relevant(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	switch filepath.Ext(base) {
	case ".json", ".mdx":
		return true
	}
	return false
}

func relative(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return w.Add(path)
		}
		return nil
	})
}
