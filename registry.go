package pimapper

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"sort"
	"time"
)

// SourceHandle is a weak reference to a registered Source. It stays valid only
// while the registry holds the same source for the path: once the source is
// evicted, or evicted and loaded again, Resolve fails.
type SourceHandle struct {
	path       string
	generation uint64
}

// IsZero reports whether the handle refers to nothing.
func (h SourceHandle) IsZero() bool {
	return h.path == "" && h.generation == 0
}

// Path returns the absolute media path the handle was taken for.
func (h SourceHandle) Path() string {
	return h.path
}

// RegistryConfig configures a MediaRegistry.
type RegistryConfig struct {
	// DataRoot is the directory media directories live under. Empty means the
	// working directory.
	DataRoot string
	// Decoders loads media files. The zero value means DefaultDecoders().
	Decoders Decoders
	// Notifier receives source notifications. Nil creates one on a new world.
	Notifier *Notifier
	// Logger receives load and unload notices. Nil discards them.
	Logger *log.Logger
}

// MediaRegistry owns every loaded Source, one per absolute path, and keeps
// the sorted lists of media files available on disk per kind.
//
// Availability and loaded state are independent: discovering a file never
// loads it, and removing a file from disk never unloads a source in use.
type MediaRegistry struct {
	dataRoot  string
	decoders  Decoders
	notifier  *Notifier
	logger    *log.Logger
	sources   map[string]*Source
	available map[SourceType][]string
	watchers  map[SourceType]*DirWatcher
	nextGen   uint64
}

// NewMediaRegistry creates an empty registry. Call Watch to start tracking
// the media directories.
func NewMediaRegistry(cfg RegistryConfig) *MediaRegistry {
	root := cfg.DataRoot
	if root == "" {
		root = "."
	}
	root = absPath(root)
	dec := cfg.Decoders
	if dec.Image == nil && dec.Video == nil {
		dec = DefaultDecoders()
	}
	n := cfg.Notifier
	if n == nil {
		n = NewNotifier(nil)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &MediaRegistry{
		dataRoot:  root,
		decoders:  dec,
		notifier:  n,
		logger:    logger,
		sources:   make(map[string]*Source),
		available: make(map[SourceType][]string),
		watchers:  make(map[SourceType]*DirWatcher),
	}
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// DefaultMediaDir returns the media directory for kind relative to the data
// root, with a trailing slash. Empty for SourceNone.
func DefaultMediaDir(kind SourceType) string {
	switch kind {
	case SourceImage:
		return "sources/images/"
	case SourceVideo:
		return "sources/videos/"
	default:
		return ""
	}
}

// DataRoot returns the absolute data root.
func (r *MediaRegistry) DataRoot() string {
	return r.dataRoot
}

// MediaDir returns the absolute media directory for kind.
func (r *MediaRegistry) MediaDir(kind SourceType) string {
	return filepath.Join(r.dataRoot, DefaultMediaDir(kind))
}

// Notifier returns the notifier events are published on.
func (r *MediaRegistry) Notifier() *Notifier {
	return r.notifier
}

// Decoders returns the decoder table media is loaded with.
func (r *MediaRegistry) Decoders() Decoders {
	return r.decoders
}

// Scan lists the image and video directories once and marks every supported
// file as available. Paths already known are not announced again. Missing
// directories are skipped and reported in the returned error.
func (r *MediaRegistry) Scan() error {
	var errs []error
	for _, kind := range []SourceType{SourceImage, SourceVideo} {
		events, err := scanDir(r.MediaDir(kind), func(p string) bool {
			return r.decoders.Supports(kind, p)
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, ev := range events {
			r.HandleAdded(kind, ev.Path)
		}
	}
	return errors.Join(errs...)
}

// Watch starts a DirWatcher on the image and video directories. Files already
// present are announced on the next Update. Directories that cannot be
// watched are skipped and reported in the returned error.
func (r *MediaRegistry) Watch() error {
	var firstErr error
	for _, kind := range []SourceType{SourceImage, SourceVideo} {
		if _, ok := r.watchers[kind]; ok {
			continue
		}
		w, err := NewDirWatcher(r.MediaDir(kind), func(p string) bool {
			return r.decoders.Supports(kind, p)
		})
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		r.watchers[kind] = w
	}
	return firstErr
}

// LoadMedia returns the source for path, loading it on first use. Repeated
// loads of the same path share one Source and add a reference each time.
func (r *MediaRegistry) LoadMedia(path string, kind SourceType) (*Source, error) {
	if !kind.Valid() {
		return nil, &ValidationError{Field: "source type", Reason: fmt.Sprintf("cannot load %s media", kind)}
	}
	key := absPath(path)
	if s, ok := r.sources[key]; ok {
		if s.kind != kind {
			return nil, &ValidationError{
				Field:  "source type",
				Reason: fmt.Sprintf("%s is loaded as %s, requested %s", key, s.kind, kind),
			}
		}
		s.Acquire()
		r.logger.Printf("reusing %s %s (refs %d)", kind, s.name, s.refCount)
		r.notifier.publishMedia(SourceLoaded, kind, key)
		return s, nil
	}

	s := newSource(kind, key)
	if err := s.load(r.decoders); err != nil {
		r.logger.Printf("%v", err)
		return nil, err
	}
	r.nextGen++
	s.generation = r.nextGen
	r.sources[key] = s
	r.logger.Printf("loaded %s %s", kind, s.name)
	r.notifier.publishMedia(SourceLoaded, kind, key)
	return s, nil
}

// UnloadMedia drops one reference to the source at path. The source is closed
// and evicted when its last reference goes.
func (r *MediaRegistry) UnloadMedia(path string) error {
	key := absPath(path)
	s, ok := r.sources[key]
	if !ok {
		return &NotFoundError{Path: key}
	}
	if !s.Release() {
		r.logger.Printf("released %s %s (refs %d)", s.kind, s.name, s.refCount)
		return nil
	}
	s.close()
	delete(r.sources, key)
	r.logger.Printf("unloaded %s %s", s.kind, s.name)
	r.notifier.publishMedia(SourceUnloaded, s.kind, key)
	return nil
}

// Clear closes and evicts every source regardless of reference counts.
// Outstanding handles stop resolving. No notifications are sent.
func (r *MediaRegistry) Clear() {
	for key, s := range r.sources {
		s.close()
		delete(r.sources, key)
	}
}

// SourceByPath returns the loaded source for path.
func (r *MediaRegistry) SourceByPath(path string) (*Source, error) {
	key := absPath(path)
	s, ok := r.sources[key]
	if !ok {
		return nil, &NotFoundError{Path: key}
	}
	return s, nil
}

// Handle returns a weak handle to s. The zero handle is returned for nil.
func (r *MediaRegistry) Handle(s *Source) SourceHandle {
	if s == nil {
		return SourceHandle{}
	}
	return SourceHandle{path: s.path, generation: s.generation}
}

// Resolve returns the live source for h, or false when h is zero or the
// source it was taken from has been evicted.
func (r *MediaRegistry) Resolve(h SourceHandle) (*Source, bool) {
	if h.IsZero() {
		return nil, false
	}
	s, ok := r.sources[h.path]
	if !ok || s.generation != h.generation {
		return nil, false
	}
	return s, true
}

// Len returns the number of loaded sources.
func (r *MediaRegistry) Len() int {
	return len(r.sources)
}

// Paths returns the sorted absolute paths of available media of kind.
func (r *MediaRegistry) Paths(kind SourceType) []string {
	src := r.available[kind]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// ImagePaths returns the available image files.
func (r *MediaRegistry) ImagePaths() []string { return r.Paths(SourceImage) }

// VideoPaths returns the available video files.
func (r *MediaRegistry) VideoPaths() []string { return r.Paths(SourceVideo) }

// ImageNames returns the file names of the available images.
func (r *MediaRegistry) ImageNames() []string { return namesOf(r.available[SourceImage]) }

// VideoNames returns the file names of the available videos.
func (r *MediaRegistry) VideoNames() []string { return namesOf(r.available[SourceVideo]) }

func namesOf(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = nameFromPath(p)
	}
	return out
}

// HandleAdded records a media file as available and publishes SourceAdded.
// Files already known are ignored.
func (r *MediaRegistry) HandleAdded(kind SourceType, path string) {
	if !kind.Valid() {
		return
	}
	key := absPath(path)
	list := r.available[kind]
	i := sort.SearchStrings(list, key)
	if i < len(list) && list[i] == key {
		return
	}
	list = append(list, "")
	copy(list[i+1:], list[i:])
	list[i] = key
	r.available[kind] = list
	r.notifier.publishMedia(SourceAdded, kind, key)
}

// HandleRemoved forgets an available media file and publishes SourceRemoved.
// A loaded source for the path stays loaded.
func (r *MediaRegistry) HandleRemoved(kind SourceType, path string) {
	key := absPath(path)
	list := r.available[kind]
	i := sort.SearchStrings(list, key)
	if i >= len(list) || list[i] != key {
		return
	}
	r.available[kind] = append(list[:i], list[i+1:]...)
	r.notifier.publishMedia(SourceRemoved, kind, key)
}

// Update drains the directory watchers and advances video sources by dt.
func (r *MediaRegistry) Update(dt time.Duration) {
	for _, kind := range []SourceType{SourceImage, SourceVideo} {
		w, ok := r.watchers[kind]
		if !ok {
			continue
		}
		w.Drain(func(ev WatchEvent) {
			if ev.Op == WatchRemoved {
				r.HandleRemoved(kind, ev.Path)
			} else {
				r.HandleAdded(kind, ev.Path)
			}
		}, func(err error) {
			r.logger.Printf("watch %s: %v", w.Dir(), err)
		})
	}
	for _, s := range r.sources {
		if err := s.Update(dt); err != nil {
			r.logger.Printf("%v", err)
		}
	}
}

// Close stops the watchers and clears the registry.
func (r *MediaRegistry) Close() {
	for kind, w := range r.watchers {
		_ = w.Close()
		delete(r.watchers, kind)
	}
	r.Clear()
}
