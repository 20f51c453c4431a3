package balloon

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"time"
)

// positionEpsilon is the smallest layout delta that overrides a letter's
// position during reconciliation. Recomputing an identical layout produces
// sub-epsilon float noise that must not cause jitter or velocity resets.
const positionEpsilon = 1e-3

// Stage owns the live letter set and every setting the animation engine
// reads. All components take the stage (or the slices they need) explicitly;
// there is no ambient global state.
//
// The stage is single-threaded: all mutation happens inside Update, Draw, or
// discrete input-event handlers such as SetText. Only font loading runs on
// background goroutines, and its results are installed by Update.
type Stage struct {
	settings Settings
	fonts    *FontSource
	letters  []*Letter
	store    EntityStore

	text   string
	now    float64 // accumulated stage clock, seconds
	rng    *rand.Rand
	squish squishState

	// effBounds is the squish-scaled physics bounds for the current frame.
	effBounds Bounds

	clock *ClockController

	material  MaterialFactory
	nextColor int

	debug bool
	stats frameStats
}

// NewStage validates the settings once and creates an empty stage.
func NewStage(settings Settings, fonts *FontSource) (*Stage, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if fonts == nil {
		fonts = NewFontSource()
	}
	return &Stage{
		settings:  settings,
		fonts:     fonts,
		rng:       rand.New(rand.NewPCG(settings.Seed, settings.Seed^0x9e3779b97f4a7c15)),
		effBounds: settings.Bounds,
		material:  DefaultMaterialFactory,
	}, nil
}

// Settings returns a pointer to the live settings for direct tuning of
// values with no structural side effects (gravity, bounciness, inflation
// speed, squish parameters). Use the setter methods for spacing mode and
// bounds, which must relayout.
func (st *Stage) Settings() *Settings {
	return &st.settings
}

// Fonts returns the stage's font source.
func (st *Stage) Fonts() *FontSource {
	return st.fonts
}

// Letters returns the live letter list. The returned slice MUST NOT be
// mutated by the caller.
func (st *Stage) Letters() []*Letter {
	return st.letters
}

// SetEntityStore sets the optional ECS bridge.
func (st *Stage) SetEntityStore(store EntityStore) {
	st.store = store
}

// SetMaterialFactory replaces the material factory used for new and existing
// letters.
func (st *Stage) SetMaterialFactory(f MaterialFactory) {
	if f != nil {
		st.material = f
	}
}

func (st *Stage) emit(kind LetterEventKind, index int, char rune) {
	if st.store != nil {
		st.store.EmitLetterEvent(LetterEvent{Kind: kind, Index: index, Char: char})
	}
}

// --- Text input ---

// SetText updates the displayed text from a text-change event. The input is
// case-normalized to uppercase, laid out under the current spacing mode, and
// reconciled against the live letters. Empty input clears all entities.
//
// While no font is installed the call is rejected with a warning rather than
// queued. In clock mode text input is ignored.
func (st *Stage) SetText(text string) {
	if st.clock != nil {
		_, _ = fmt.Fprintf(os.Stderr, "[balloon] text input ignored while clock mode is active\n")
		return
	}
	st.text = strings.ToUpper(text)
	if !st.fonts.Ready() {
		_, _ = fmt.Fprintf(os.Stderr, "[balloon] font not loaded; text %q dropped\n", st.text)
		return
	}
	placements := ComputeLayout(st.text, st.settings.Bounds, &st.settings, st.rng)
	st.reconcile(placements)
}

// Text returns the current (uppercased) text.
func (st *Stage) Text() string {
	return st.text
}

// reconcile diffs the layout result against the live letters by positional
// index: trailing letters beyond the layout are removed and disposed,
// matching indices are updated in place, and new indices spawn flat letters.
//
// Identity is positional: inserting a character mid-string shifts every
// subsequent letter's identity by one, so trailing letters jump and rebuild.
func (st *Stage) reconcile(placements []Placement) {
	// Stack-like truncation.
	for i := len(placements); i < len(st.letters); i++ {
		l := st.letters[i]
		st.emit(EventRemoved, i, l.Char)
		l.Dispose()
		st.letters[i] = nil
	}
	if len(placements) < len(st.letters) {
		st.letters = st.letters[:len(placements)]
	}

	for i, pl := range placements {
		if i < len(st.letters) {
			l := st.letters[i]
			if l.Char != pl.Char {
				// A changed letter rebuilds in place; bevel, inflation, and
				// physics state carry over, so it does not re-inflate.
				l.Char = pl.Char
				st.rebuildGeometry(l)
			}
			if st.settings.Spacing == SpacingRandom {
				// Random-mode positions are sticky once assigned.
				continue
			}
			dx := pl.X - l.Position.X()
			dy := pl.Y - l.Position.Y()
			if dx*dx+dy*dy > positionEpsilon*positionEpsilon {
				l.Position[0] = pl.X
				l.Position[1] = pl.Y
				l.Velocity = [3]float64{}
			}
			continue
		}

		l := newLetter(pl.Char, pl.X, pl.Y, st.pickColor(), st.now)
		st.rebuildGeometry(l)
		st.letters = append(st.letters, l)
		st.emit(EventSpawned, i, l.Char)
	}
}

func (st *Stage) pickColor() int {
	c := st.nextColor
	st.nextColor++
	return c
}

// rebuildGeometry rebuilds a letter's geometry from its current character
// and bevel values, disposing the previous geometry. The mesh must stay
// consistent with (char, bevel) before the next render; every bevel or
// character change routes through here.
func (st *Stage) rebuildGeometry(l *Letter) {
	if st.debug {
		debugCheckDisposed(l, "rebuildGeometry")
	}
	g := BuildLetterGeometry(st.fonts.Font(), l.Char, l.BevelThickness, l.BevelSize, GeometryParams{
		FontSize:      st.settings.FontSize,
		Depth:         st.settings.Depth,
		CurveSegments: st.settings.CurveSegments,
		BevelSegments: st.settings.BevelSegments,
	})
	l.mesh.SetGeometry(g)
	st.stats.rebuilds++
}

// --- Configuration with structural side effects ---

// SetSpacing switches the spacing mode and relayouts the current text.
func (st *Stage) SetSpacing(mode SpacingMode) {
	if st.settings.Spacing == mode {
		return
	}
	st.settings.Spacing = mode
	st.relayout()
}

// SetBounds overrides the bounding box. custom marks the bounds as an
// explicit override rather than canvas-derived. Letters relayout (or clock
// slots recompute) immediately.
func (st *Stage) SetBounds(b Bounds, custom bool) {
	st.settings.Bounds = b
	st.settings.CustomBounds = custom
	st.effBounds = b
	st.relayout()
}

func (st *Stage) relayout() {
	if st.clock != nil {
		st.clock.relayout(st)
		return
	}
	if st.text == "" || !st.fonts.Ready() {
		return
	}
	placements := ComputeLayout(st.text, st.settings.Bounds, &st.settings, st.rng)
	st.reconcile(placements)
}

// --- Lifecycle operations ---

// Clear removes and disposes every live letter.
func (st *Stage) Clear() {
	for i, l := range st.letters {
		st.emit(EventRemoved, i, l.Char)
		l.Dispose()
		st.letters[i] = nil
	}
	st.letters = st.letters[:0]
	st.text = ""
}

// Replay resets every letter to flat and re-inflates from the spawning
// state.
func (st *Stage) Replay() {
	for _, l := range st.letters {
		if l.State == StateDecaying {
			continue
		}
		l.replay()
		st.rebuildGeometry(l)
	}
}

// SetClockMode switches the clock display on or off. Activation clears all
// letters and takes over the stage; deactivation restores the previous
// bounds configuration.
func (st *Stage) SetClockMode(enabled bool) {
	if enabled == (st.clock != nil) {
		return
	}
	if enabled {
		st.clock = newClockController(time.Now)
		st.clock.activate(st)
		return
	}
	st.clock.deactivate(st)
	st.clock = nil
}

// Clock returns the active clock controller, or nil when clock mode is off.
func (st *Stage) Clock() *ClockController {
	return st.clock
}

// --- Frame tick ---

// Update advances the engine by dt seconds: font install, clock timer,
// inflation, decay, squish, then physics. One call per display-synchronized
// frame tick.
func (st *Stage) Update(dt float64) {
	st.now += dt
	st.fonts.Poll()

	t0 := st.statsClock()

	if st.clock != nil {
		st.clock.update(st, dt)
	}

	// Inflation pass: advance the state machine and rebuild geometry only
	// when the bevels actually moved. This is the main per-frame cost
	// driver.
	for i, l := range st.letters {
		rebuild, settled := l.advanceInflation(dt, &st.settings)
		if rebuild {
			st.rebuildGeometry(l)
		}
		if settled {
			st.emit(EventSettled, i, l.Char)
		}
	}

	// Decay pass: shrink flying digits and remove the ones that reached
	// zero scale. Removal must happen here or the entity never leaves the
	// active list.
	if st.clock != nil {
		kept := st.letters[:0]
		for i, l := range st.letters {
			if l.advanceDecay(dt) {
				st.emit(EventRemoved, i, l.Char)
				l.Dispose()
				continue
			}
			kept = append(kept, l)
		}
		for i := len(kept); i < len(st.letters); i++ {
			st.letters[i] = nil
		}
		st.letters = kept
	}

	st.stats.inflate += st.statsClock() - t0
	t0 = st.statsClock()

	sx, sy := st.squish.step(dt, &st.settings.Squish)
	st.effBounds = st.settings.Bounds.Scaled(sx, sy)

	st.stepPhysics(dt)

	st.stats.physics += st.statsClock() - t0
	st.stats.frame(st)
}

// Now returns the accumulated stage clock in seconds.
func (st *Stage) Now() float64 {
	return st.now
}

// EffectiveBounds returns the squish-scaled bounds used by physics this
// frame.
func (st *Stage) EffectiveBounds() Bounds {
	return st.effBounds
}
