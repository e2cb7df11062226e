// Package pimapper is a live projection-mapping tool for [Ebitengine].
//
// Images and videos are projected onto editable triangles and quads that are
// warped to fit real-world screens. Quads are rendered with a
// perspective-correct warp; triangles are affine.
//
// # Quick start
//
// [New] builds a [Mapper] from a data directory holding sources/images/,
// sources/videos/ and a surfaces.xml layout. [Run] opens the window:
//
//	m, err := pimapper.New(pimapper.Config{DataRoot: "data", Watch: true})
//	if err != nil {
//		log.Fatal(err)
//	}
//	pimapper.Run(m, pimapper.RunConfig{Title: "mapper", Fullscreen: true})
//
// # Surfaces and media
//
// A [SurfaceCollection] owns the surfaces in draw order and the selection.
// Media is owned by the [MediaRegistry]: one [Source] per file, shared and
// reference counted. Surfaces hold a weak [SourceHandle] that is resolved
// every frame, so an evicted source renders as a blank surface instead of
// dangling.
//
//	s, _ := m.AddSurface(pimapper.SurfaceQuad, pimapper.SurfaceOptions{
//		Source: &pimapper.SourceRef{Kind: pimapper.SourceImage, Path: "data/sources/images/grid.png"},
//	})
//	s.SetVertex(2, pimapper.Vec2{X: 900, Y: 640})
//
// # Editing
//
// The [Editor] has four modes. Projection mapping selects surfaces and drags
// them or their vertex joints. Texture mapping draws the selection's texture
// at the origin and drags its texture coordinates. Source selection shows a
// [SourcePicker] that binds media to the selection. ModeNone presents the
// output with the cursor hidden.
//
// Keyboard: 1-4 modes, t/q add triangle/quad, Delete removes the selection,
// s saves the layout, i toggles info, arrows nudge (Shift for 10px), f
// toggles fullscreen.
//
// # Notifications
//
// Registry and selection changes are published as donburi events
// ([SourceAdded], [SourceRemoved], [SourceLoaded], [SourceUnloaded],
// [SurfaceSelected]) and delivered once per Update through the [Notifier].
//
// # Video
//
// Animated GIFs play as video out of the box. Building with -tags gocv adds
// OpenCV decoding for mp4, mov, avi, mkv, m4v and webm.
//
// [Ebitengine]: https://ebitengine.org
package pimapper
