package pimapper

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// MediaEvent carries the kind and absolute path of a media notification.
type MediaEvent struct {
	Kind SourceType
	Path string
}

// SurfaceEvent carries the surface a notification is about.
type SurfaceEvent struct {
	Index   int
	Surface *Surface
}

// Donburi event types. Events are queued on the world they are published to
// and delivered when Notifier.ProcessEvents runs (Mapper.Update calls it once
// per frame), so subscribers always run on the main loop. ECS systems can
// subscribe to these directly with events.Subscribe.
var (
	// SourceAdded fires when a media file appears in a media directory.
	SourceAdded = events.NewEventType[MediaEvent]()
	// SourceRemoved fires when a media file disappears from a media directory.
	SourceRemoved = events.NewEventType[MediaEvent]()
	// SourceLoaded fires on every successful LoadMedia, including reuse.
	SourceLoaded = events.NewEventType[MediaEvent]()
	// SourceUnloaded fires when a source's last reference is released.
	SourceUnloaded = events.NewEventType[MediaEvent]()
	// SurfaceSelected fires when a surface becomes the selection.
	SurfaceSelected = events.NewEventType[SurfaceEvent]()
)

// --- Handler registry ---

type handler[T any] struct {
	id uint32
	fn func(T)
}

type handlerList[T any] struct {
	entries []handler[T]
}

func (l *handlerList[T]) add(id uint32, fn func(T)) {
	l.entries = append(l.entries, handler[T]{id: id, fn: fn})
}

func (l *handlerList[T]) remove(id uint32) {
	for i := range l.entries {
		if l.entries[i].id == id {
			copy(l.entries[i:], l.entries[i+1:])
			l.entries[len(l.entries)-1] = handler[T]{}
			l.entries = l.entries[:len(l.entries)-1]
			return
		}
	}
}

func (l *handlerList[T]) dispatch(e T) {
	for _, h := range l.entries {
		h.fn(e)
	}
}

// CallbackHandle allows removing a registered notification callback.
type CallbackHandle struct {
	remove func()
}

// Remove unregisters the callback so it no longer fires. Safe to call more
// than once and on the zero value.
func (h *CallbackHandle) Remove() {
	if h == nil || h.remove == nil {
		return
	}
	h.remove()
	h.remove = nil
}

// Notifier publishes media and surface notifications onto a donburi world and
// fans them out to registered callbacks when ProcessEvents runs.
type Notifier struct {
	world donburi.World

	added     handlerList[MediaEvent]
	removed   handlerList[MediaEvent]
	loaded    handlerList[MediaEvent]
	unloaded  handlerList[MediaEvent]
	selected  handlerList[SurfaceEvent]
	nextID    uint32
	listening bool
}

// NewNotifier creates a notifier on world. A nil world gets a fresh one.
// Use at most one notifier per world: donburi matches subscribers by function
// pointer, so Close cannot tell two notifiers on one world apart.
func NewNotifier(world donburi.World) *Notifier {
	if world == nil {
		world = donburi.NewWorld()
	}
	n := &Notifier{world: world}
	SourceAdded.Subscribe(world, n.onAdded)
	SourceRemoved.Subscribe(world, n.onRemoved)
	SourceLoaded.Subscribe(world, n.onLoaded)
	SourceUnloaded.Subscribe(world, n.onUnloaded)
	SurfaceSelected.Subscribe(world, n.onSelected)
	n.listening = true
	return n
}

// World returns the donburi world notifications are queued on.
func (n *Notifier) World() donburi.World {
	return n.world
}

// ProcessEvents delivers every queued notification.
func (n *Notifier) ProcessEvents() {
	events.ProcessAllEvents(n.world)
}

// Close detaches the notifier from its world and drops all callbacks.
func (n *Notifier) Close() {
	if !n.listening {
		return
	}
	SourceAdded.Unsubscribe(n.world, n.onAdded)
	SourceRemoved.Unsubscribe(n.world, n.onRemoved)
	SourceLoaded.Unsubscribe(n.world, n.onLoaded)
	SourceUnloaded.Unsubscribe(n.world, n.onUnloaded)
	SurfaceSelected.Unsubscribe(n.world, n.onSelected)
	n.added = handlerList[MediaEvent]{}
	n.removed = handlerList[MediaEvent]{}
	n.loaded = handlerList[MediaEvent]{}
	n.unloaded = handlerList[MediaEvent]{}
	n.selected = handlerList[SurfaceEvent]{}
	n.listening = false
}

func (n *Notifier) onAdded(_ donburi.World, e MediaEvent)      { n.added.dispatch(e) }
func (n *Notifier) onRemoved(_ donburi.World, e MediaEvent)    { n.removed.dispatch(e) }
func (n *Notifier) onLoaded(_ donburi.World, e MediaEvent)     { n.loaded.dispatch(e) }
func (n *Notifier) onUnloaded(_ donburi.World, e MediaEvent)   { n.unloaded.dispatch(e) }
func (n *Notifier) onSelected(_ donburi.World, e SurfaceEvent) { n.selected.dispatch(e) }

func (n *Notifier) publishMedia(et *events.EventType[MediaEvent], kind SourceType, path string) {
	et.Publish(n.world, MediaEvent{Kind: kind, Path: path})
}

func (n *Notifier) publishSelected(index int, s *Surface) {
	SurfaceSelected.Publish(n.world, SurfaceEvent{Index: index, Surface: s})
}

func registerHandler[T any](n *Notifier, l *handlerList[T], fn func(T)) CallbackHandle {
	n.nextID++
	id := n.nextID
	l.add(id, fn)
	return CallbackHandle{remove: func() { l.remove(id) }}
}

// OnSourceAdded registers a callback for media files appearing on disk.
func (n *Notifier) OnSourceAdded(fn func(MediaEvent)) CallbackHandle {
	return registerHandler(n, &n.added, fn)
}

// OnSourceRemoved registers a callback for media files disappearing from disk.
func (n *Notifier) OnSourceRemoved(fn func(MediaEvent)) CallbackHandle {
	return registerHandler(n, &n.removed, fn)
}

// OnSourceLoaded registers a callback for successful loads (fresh or reused).
func (n *Notifier) OnSourceLoaded(fn func(MediaEvent)) CallbackHandle {
	return registerHandler(n, &n.loaded, fn)
}

// OnSourceUnloaded registers a callback for evicted sources.
func (n *Notifier) OnSourceUnloaded(fn func(MediaEvent)) CallbackHandle {
	return registerHandler(n, &n.unloaded, fn)
}

// OnSurfaceSelected registers a callback for selection changes.
func (n *Notifier) OnSurfaceSelected(fn func(SurfaceEvent)) CallbackHandle {
	return registerHandler(n, &n.selected, fn)
}
