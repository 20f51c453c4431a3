// Package balloon animates typed text as inflatable 3-D balloon letters.
//
// The engine converts a live text input into positioned letter entities,
// drives each one through an inflation state machine with progressive
// geometry rebuilding, resolves letter and boundary collisions under a
// simple physics integrator, and offers a clock mode where replaced digits
// fly away while new ones take their slots.
//
// # Quick start
//
// Create a [FontSource], a [Stage], and drive it from an Ebitengine game
// loop:
//
//	fonts := balloon.NewFontSource()
//	if err := fonts.UseFallback(); err != nil {
//		log.Fatal(err)
//	}
//	stage, err := balloon.NewStage(balloon.DefaultSettings(), fonts)
//	if err != nil {
//		log.Fatal(err)
//	}
//	stage.SetText("HELLO")
//
//	type Game struct{ stage *balloon.Stage }
//
//	func (g *Game) Update() error        { g.stage.Update(1.0 / float64(ebiten.TPS())); return nil }
//	func (g *Game) Draw(s *ebiten.Image) { g.stage.Draw(s) }
//	func (g *Game) Layout(w, h int) (int, int) { return w, h }
//
// # Lifecycle
//
// Every visible glyph is a [Letter]. Letters spawn flat and inflate to their
// target bevel over time ([StateSpawning] to [StateSettled]). In clock mode a
// replaced digit decays instead ([StateDecaying]): it is pushed away and
// shrinks until removal. Text edits reconcile by positional index: shortening text
// truncates and disposes trailing letters, and a changed character rebuilds
// its geometry in place without re-inflating.
//
// # Spacing modes
//
// [SpacingAutomatic] lays letters on a grid sized from the font and wraps at
// word boundaries to fit the bounds, [SpacingManual] divides the bounds by
// the block shape under user multipliers, and [SpacingRandom] scatters
// letters on a disc with sticky positions.
//
// The engine's logical state is renderer-agnostic; [Stage.Draw] projects the
// letter meshes through a fixed orthographic camera onto an *ebiten.Image,
// and [Stage.ExportPNG] / [Stage.ExportGLTF] capture high-resolution stills
// and scene geometry.
package balloon
