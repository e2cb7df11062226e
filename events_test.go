package pimapper

import (
	"testing"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNotifierDeliversOnProcess(t *testing.T) {
	n := NewNotifier(nil)
	defer n.Close()

	var got []MediaEvent
	n.OnSourceAdded(func(e MediaEvent) { got = append(got, e) })
	n.publishMedia(SourceAdded, SourceImage, "/a.png")
	n.publishMedia(SourceAdded, SourceVideo, "/b.gif")

	if len(got) != 0 {
		t.Fatal("delivered before ProcessEvents")
	}
	n.ProcessEvents()
	if len(got) != 2 || got[0].Path != "/a.png" || got[1].Kind != SourceVideo {
		t.Fatalf("got %+v", got)
	}
	n.ProcessEvents()
	if len(got) != 2 {
		t.Error("events delivered twice")
	}
}

func TestNotifierRemoveCallback(t *testing.T) {
	n := NewNotifier(nil)
	defer n.Close()

	var first, second int
	h1 := n.OnSourceLoaded(func(MediaEvent) { first++ })
	n.OnSourceLoaded(func(MediaEvent) { second++ })

	h1.Remove()
	h1.Remove()
	var zero CallbackHandle
	zero.Remove()

	n.publishMedia(SourceLoaded, SourceImage, "/a.png")
	n.ProcessEvents()
	if first != 0 || second != 1 {
		t.Errorf("first=%d second=%d, want 0 and 1", first, second)
	}
}

func TestNotifierEventsAreSeparated(t *testing.T) {
	n := NewNotifier(nil)
	defer n.Close()

	counts := map[string]int{}
	n.OnSourceAdded(func(MediaEvent) { counts["added"]++ })
	n.OnSourceRemoved(func(MediaEvent) { counts["removed"]++ })
	n.OnSourceLoaded(func(MediaEvent) { counts["loaded"]++ })
	n.OnSourceUnloaded(func(MediaEvent) { counts["unloaded"]++ })
	n.OnSurfaceSelected(func(SurfaceEvent) { counts["selected"]++ })

	n.publishMedia(SourceUnloaded, SourceImage, "/a.png")
	n.publishSelected(0, newSurface(SurfaceQuad, 1, 1))
	n.ProcessEvents()

	want := map[string]int{"unloaded": 1, "selected": 1}
	for k, v := range counts {
		if want[k] != v {
			t.Errorf("%s fired %d times, want %d", k, v, want[k])
		}
	}
}

func TestNotifierSharesWorldWithSystems(t *testing.T) {
	w := donburi.NewWorld()
	n := NewNotifier(w)
	defer n.Close()

	var direct int
	sub := func(_ donburi.World, e MediaEvent) { direct++ }
	SourceAdded.Subscribe(w, sub)
	defer SourceAdded.Unsubscribe(w, sub)

	if n.World() != w {
		t.Fatal("World() should return the given world")
	}
	n.publishMedia(SourceAdded, SourceImage, "/a.png")
	events.ProcessAllEvents(w)
	if direct != 1 {
		t.Errorf("direct subscriber fired %d times, want 1", direct)
	}
}

func TestNotifierClose(t *testing.T) {
	n := NewNotifier(nil)
	var count int
	n.OnSourceAdded(func(MediaEvent) { count++ })
	n.Close()
	n.Close()

	n.publishMedia(SourceAdded, SourceImage, "/a.png")
	n.ProcessEvents()
	if count != 0 {
		t.Errorf("callback fired %d times after Close", count)
	}
}
