package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.weirdcat.su/weirdcat/dtogen/internal/logger"
)

// DefaultDebounce groups the burst of events an editor save produces
const DefaultDebounce = 200 * time.Millisecond

// Func is called with the changed files after each debounced burst
type Func func(ctx context.Context, changed []string) error

// Watcher reruns a function whenever one of an explicit list of files changes
type Watcher struct {
	files    map[string]bool
	dirs     []string
	debounce time.Duration
	fn       Func
}

// New creates a watcher over files. Parent directories are watched so
// editors that save by rename are still noticed.
func New(files []string, debounce time.Duration, fn Func) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{files: make(map[string]bool), debounce: debounce, fn: fn}
	dirSet := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", f, err)
		}
		w.files[abs] = true
		dirSet[filepath.Dir(abs)] = true
	}
	for d := range dirSet {
		w.dirs = append(w.dirs, d)
	}
	sort.Strings(w.dirs)
	return w, nil
}

// Run blocks until ctx is cancelled or the underlying watcher fails
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fsw.Close()

	for _, d := range w.dirs {
		if err := fsw.Add(d); err != nil {
			return fmt.Errorf("watching %s: %w", d, err)
		}
		logger.Verbose("Watching %s", d)
	}

	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			logger.Debug("File event %s on %s", ev.Op, ev.Name)
			pending[filepath.Clean(ev.Name)] = true
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("file watcher: %w", err)

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)

			if err := w.fn(ctx, changed); err != nil {
				logger.Error("Regeneration failed: %v", err)
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}
