package notify

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const (
	EventChanged = "changed"

	defaultDebounce = 200 * time.Millisecond
)

// Watcher turns file-system changes in the data directories into hub events.
// Bursts of writes to the same file within the debounce window produce one
// event.
type Watcher struct {
	fsw      *fsnotify.Watcher
	hub      *Hub
	dirs     []string
	files    map[string]string // base name -> collection
	debounce time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// NewWatcher watches dirs for changes to the given file names. The first
// directory is created if missing, since new collection files land there.
func NewWatcher(dirs, files []string, hub *Hub, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(files))
	for _, f := range files {
		names[f] = CollectionName(f)
	}
	return &Watcher{
		fsw:      fsw,
		hub:      hub,
		dirs:     dirs,
		files:    names,
		debounce: defaultDebounce,
		log:      log.Named("watcher"),
		done:     make(chan struct{}),
	}, nil
}

// SetDebounce changes the debounce window. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// CollectionName maps a data file name to the collection name used in events.
func CollectionName(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file))
}

// Start begins watching in a background goroutine. Directories that do not
// exist are skipped.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if len(w.dirs) > 0 {
		if err := os.MkdirAll(w.dirs[0], 0755); err != nil {
			w.log.Warn("cannot create data directory", zap.String("dir", w.dirs[0]), zap.Error(err))
		}
	}
	watched := 0
	for _, d := range w.dirs {
		if err := w.fsw.Add(d); err != nil {
			w.log.Debug("not watching directory", zap.String("dir", d), zap.Error(err))
			continue
		}
		watched++
		w.log.Info("watching data directory", zap.String("dir", d))
	}
	if watched == 0 {
		w.log.Warn("no data directory could be watched")
	}

	w.running = true
	go w.run(ctx)
	return nil
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	w.mu.Lock()
	running := w.running
	w.mu.Unlock()
	if running {
		<-w.done
	}
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			coll, tracked := w.files[filepath.Base(ev.Name)]
			if !tracked || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) {
				continue
			}
			pending[coll] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
		case <-fire:
			colls := make([]string, 0, len(pending))
			for c := range pending {
				colls = append(colls, c)
			}
			sort.Strings(colls)
			for _, c := range colls {
				w.log.Debug("collection changed", zap.String("collection", c))
				w.hub.Publish(Event{Type: EventChanged, Collection: c})
			}
			clear(pending)
			timer, fire = nil, nil
		}
	}
}
