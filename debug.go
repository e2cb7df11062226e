package pimapper

import (
	"fmt"
	"os"
	"sort"
	"time"
)

// debugStats holds per-frame timing. Only reported when Config.Debug is set.
type debugStats struct {
	updateTime time.Duration
	drawTime   time.Duration
}

// debugInterval is the number of frames between debug reports.
const debugInterval = 60

// debugLog prints timing and draw stats to stderr once per debugInterval
// frames, followed by any reference count mismatches.
func (m *Mapper) debugLog() {
	if !m.cfg.Debug || m.frame%debugInterval != 0 {
		return
	}
	ds := m.collection.stats
	_, _ = fmt.Fprintf(os.Stderr,
		"[pimapper] update: %v | draw: %v | surfaces: %d (perspective %d, affine %d, blank %d) | sources: %d\n",
		m.debug.updateTime, m.debug.drawTime, ds.surfaces, ds.perspective, ds.affine, ds.blank, m.registry.Len())
	for _, w := range debugCheckRefCounts(m.collection) {
		_, _ = fmt.Fprintf(os.Stderr, "[pimapper] warning: %s\n", w)
	}
}

// debugCheckRefCounts compares every loaded source's reference count with
// the number of surfaces bound to it. Sources loaded outside the collection
// show up as surplus references.
func debugCheckRefCounts(c *SurfaceCollection) []string {
	bound := make(map[string]int)
	for _, s := range c.surfaces {
		if src := c.Resolve(s); src != nil {
			bound[src.path]++
		}
	}
	var out []string
	for path, src := range c.registry.sources {
		if n := bound[path]; n != src.refCount {
			out = append(out, fmt.Sprintf("%s has %d references, %d surfaces bound", src.name, src.refCount, n))
		}
	}
	for _, s := range c.surfaces {
		if !s.source.IsZero() && c.Resolve(s) == nil {
			out = append(out, fmt.Sprintf("surface %d holds a stale handle to %s", c.IndexOf(s), nameFromPath(s.source.path)))
		}
	}
	sort.Strings(out)
	return out
}
