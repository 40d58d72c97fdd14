// Package watcher observes a script directory and triggers
// rebuild-and-swap when a noise script is written, created or renamed.
// Editors tend to emit bursts of events per save, so changes are debounced
// per path before the callback fires.
package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vk/noisebench/internal/ctxlog"
	"github.com/vk/noisebench/internal/fsutil"
)

// defaultDebounce is how long a path must stay quiet before its change is
// reported.
const defaultDebounce = 100 * time.Millisecond

// Watcher delivers debounced change notifications for noise scripts under
// one directory.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	onChange func(path string)

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New starts watching dir. onChange is called from an internal goroutine
// with the path of each changed script; it must be safe for concurrent use.
func New(dir string, onChange func(path string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return &Watcher{
		fs:       fsw,
		debounce: defaultDebounce,
		onChange: onChange,
		pending:  make(map[string]*time.Timer),
	}, nil
}

// Run pumps filesystem events until the context is cancelled or the
// watcher is closed. It returns nil on clean shutdown.
func (w *Watcher) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Script watcher started.")

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Script watcher stopping.", "reason", ctx.Err())
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !fsutil.IsScript(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("Script change observed.", "path", ev.Name, "op", ev.Op.String())
			w.schedule(ev.Name)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Error("Filesystem watcher error.", "error", err)
		}
	}
}

// schedule (re)arms the debounce timer for one path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.onChange(path)
	})
}

// Close stops the underlying filesystem watcher. Run returns after Close.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
