package pimapper

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// WatchOp is the kind of change a DirWatcher reports.
type WatchOp uint8

const (
	WatchAdded WatchOp = iota
	WatchRemoved
)

func (op WatchOp) String() string {
	if op == WatchRemoved {
		return "removed"
	}
	return "added"
}

// WatchEvent is a file appearing in or disappearing from a watched directory.
type WatchEvent struct {
	Op   WatchOp
	Path string
}

// watchQueueSize bounds the events buffered between fsnotify and the main loop.
const watchQueueSize = 64

// DirWatcher reports files added to and removed from one directory. fsnotify
// delivers on its own goroutine; the watcher forwards into a buffered channel
// that the owner drains on the main loop with Drain, so callbacks never run
// concurrently with rendering.
type DirWatcher struct {
	dir    string
	filter func(path string) bool

	fs      *fsnotify.Watcher
	initial []WatchEvent
	events  chan WatchEvent
	errs    chan error
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// NewDirWatcher starts watching dir. Files already present are reported as
// WatchAdded on the first Drain, in name order. A nil filter accepts every
// regular file.
func NewDirWatcher(dir string, filter func(path string) bool) (*DirWatcher, error) {
	if filter == nil {
		filter = func(string) bool { return true }
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("pimapper: watch %s: %w", dir, err)
	}
	if err := fs.Add(dir); err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("pimapper: watch %s: %w", dir, err)
	}

	d := &DirWatcher{
		dir:    dir,
		filter: filter,
		fs:     fs,
		events: make(chan WatchEvent, watchQueueSize),
		errs:   make(chan error, 8),
		done:   make(chan struct{}),
	}
	d.initial, err = d.scan()
	if err != nil {
		_ = fs.Close()
		return nil, err
	}
	d.wg.Add(1)
	go d.run()
	return d, nil
}

// Dir returns the watched directory.
func (d *DirWatcher) Dir() string {
	return d.dir
}

func (d *DirWatcher) scan() ([]WatchEvent, error) {
	return scanDir(d.dir, d.filter)
}

// scanDir lists the regular files in dir accepted by filter as added events,
// sorted by path.
func scanDir(dir string, filter func(path string) bool) ([]WatchEvent, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("pimapper: scan %s: %w", dir, err)
	}
	var out []WatchEvent
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if filter(p) {
			out = append(out, WatchEvent{Op: WatchAdded, Path: p})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (d *DirWatcher) run() {
	defer d.wg.Done()
	for {
		select {
		case ev, ok := <-d.fs.Events:
			if !ok {
				return
			}
			we, ok := d.translate(ev)
			if !ok {
				continue
			}
			select {
			case d.events <- we:
			case <-d.done:
				return
			}
		case err, ok := <-d.fs.Errors:
			if !ok {
				return
			}
			select {
			case d.errs <- err:
			default:
			}
		case <-d.done:
			return
		}
	}
}

func (d *DirWatcher) translate(ev fsnotify.Event) (WatchEvent, bool) {
	if !d.filter(ev.Name) {
		return WatchEvent{}, false
	}
	switch {
	case ev.Has(fsnotify.Create):
		if info, err := os.Stat(ev.Name); err != nil || !info.Mode().IsRegular() {
			return WatchEvent{}, false
		}
		return WatchEvent{Op: WatchAdded, Path: ev.Name}, true
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return WatchEvent{Op: WatchRemoved, Path: ev.Name}, true
	default:
		return WatchEvent{}, false
	}
}

// Drain delivers every queued event to fn without blocking. onErr, if
// non-nil, receives watcher errors. Must be called from the main loop.
func (d *DirWatcher) Drain(fn func(WatchEvent), onErr func(error)) {
	if len(d.initial) > 0 {
		initial := d.initial
		d.initial = nil
		for _, ev := range initial {
			fn(ev)
		}
	}
	for {
		select {
		case ev := <-d.events:
			fn(ev)
		case err := <-d.errs:
			if onErr != nil {
				onErr(err)
			}
		default:
			return
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit. Queued events
// are dropped.
func (d *DirWatcher) Close() error {
	var err error
	d.once.Do(func() {
		close(d.done)
		err = d.fs.Close()
		d.wg.Wait()
	})
	return err
}
