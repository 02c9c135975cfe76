package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ChangeKind describes what happened to a stored solution file.
type ChangeKind int

const (
	ChangeWritten ChangeKind = iota + 1
	ChangeRemoved
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeWritten:
		return "written"
	case ChangeRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Change is one observed write or removal of a solution file in the store dir.
type Change struct {
	Name string
	Kind ChangeKind
}

// Watcher reports changes to solution files of the store's backend format. Temporary
// files written during atomic saves are ignored.
type Watcher struct {
	store   Store
	watcher *fsnotify.Watcher
	changes chan Change
	stop    chan struct{}
}

// Watch starts watching s.Dir. The directory is created if needed. Call Close to stop.
func (s Store) Watch(ctx context.Context) (*Watcher, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("start watcher: %w", err)
	}
	if err := fw.Add(s.Dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", s.Dir, err)
	}
	w := &Watcher{
		store:   s,
		watcher: fw,
		changes: make(chan Change, 16),
		stop:    make(chan struct{}),
	}
	go w.run(ctx)
	return w, nil
}

// Changes is closed when the watcher stops.
func (w *Watcher) Changes() <-chan Change { return w.changes }

func (w *Watcher) Close() {
	select {
	case <-w.stop:
		return
	default:
		close(w.stop)
		_ = w.watcher.Close()
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.changes)
	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			ch, ok := w.classify(ev)
			if !ok {
				continue
			}
			select {
			case w.changes <- ch:
			default:
				// Consumer is behind; it reloads on the next change anyway.
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.store.log().Warn("store.watch.error", zap.Error(err))
		}
	}
}

func (w *Watcher) classify(ev fsnotify.Event) (Change, bool) {
	base := filepath.Base(ev.Name)
	ext := w.store.backend().Ext()
	if strings.HasPrefix(base, ".") || filepath.Ext(base) != ext {
		return Change{}, false
	}
	name := strings.TrimSuffix(base, ext)
	switch {
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		return Change{Name: name, Kind: ChangeRemoved}, true
	case ev.Op.Has(fsnotify.Create), ev.Op.Has(fsnotify.Write):
		return Change{Name: name, Kind: ChangeWritten}, true
	}
	return Change{}, false
}
