package balloon

import "time"

// Clock slot layout: HH:MM:SS, colons at fixed slots.
const clockSlots = 8

func isColonSlot(i int) bool {
	return i == 2 || i == 5
}

// Flying-digit impulse, in world units per reference frame.
const (
	flyImpulseUp   = 0.45
	flyImpulseSide = 0.5
)

// ClockController renders the current time as eight fixed slots of
// settled-static digit letters on the stage's letter substrate. A one-second
// timer diffs the time string; replaced digits decay ("fly away") while a
// new static digit takes over the slot.
type ClockController struct {
	slots [clockSlots]*Letter
	prev  [clockSlots]rune
	timer float64

	savedBounds Bounds
	savedCustom bool
	forcedBox   bool

	nowFn func() time.Time
}

func newClockController(nowFn func() time.Time) *ClockController {
	return &ClockController{nowFn: nowFn}
}

// activate clears the stage, forces a fixed custom bounding box unless one
// is already set, and spawns all eight glyphs at rest. Digits appear
// immediately fully inflated, unlike typed letters.
func (c *ClockController) activate(st *Stage) {
	st.Clear()

	c.savedBounds = st.settings.Bounds
	c.savedCustom = st.settings.CustomBounds
	if !st.settings.CustomBounds {
		st.settings.Bounds = c.clockBounds(st)
		st.settings.CustomBounds = true
		c.forcedBox = true
	}
	st.effBounds = st.settings.Bounds

	now := c.timeRunes()
	xs, y := c.slotPositions(st)
	for i := 0; i < clockSlots; i++ {
		c.slots[i] = c.spawnGlyph(st, now[i], xs[i], y)
		c.prev[i] = now[i]
	}
}

// deactivate removes every digit and colon (including still-flying ones)
// and restores the prior bounding-box configuration.
func (c *ClockController) deactivate(st *Stage) {
	st.Clear()
	c.slots = [clockSlots]*Letter{}
	if c.forcedBox {
		st.settings.Bounds = c.savedBounds
		st.settings.CustomBounds = c.savedCustom
		st.effBounds = c.savedBounds
	}
}

// update runs the one-second timer. Multiple elapsed seconds in one tick
// each trigger a refresh, so a stalled frame loop catches up.
func (c *ClockController) update(st *Stage, dt float64) {
	c.timer += dt
	for c.timer >= 1 {
		c.timer -= 1
		c.refresh(st)
	}
}

// refresh diffs the current HH:MM:SS string against the previous one,
// slot by slot, skipping colons. Each changed slot sends its old digit
// flying and spawns the new digit static at the same position.
func (c *ClockController) refresh(st *Stage) {
	now := c.timeRunes()
	xs, y := c.slotPositions(st)
	for i := 0; i < clockSlots; i++ {
		if isColonSlot(i) || now[i] == c.prev[i] {
			continue
		}

		old := c.slots[i]
		vx := (st.rng.Float64() - 0.5) * 2 * flyImpulseSide
		old.startDecay(vx, flyImpulseUp, &st.settings)
		st.emit(EventDecaying, i, old.Char)

		c.slots[i] = c.spawnGlyph(st, now[i], xs[i], y)
		c.prev[i] = now[i]
	}
}

// relayout recomputes slot positions after a bounds or spacing change and
// moves the resting glyphs. Flying digits keep their current trajectory.
func (c *ClockController) relayout(st *Stage) {
	xs, y := c.slotPositions(st)
	for i, l := range c.slots {
		if l == nil || l.IsDisposed() {
			continue
		}
		l.Position[0] = xs[i]
		l.Position[1] = y
	}
}

// spawnGlyph creates one settled-static clock glyph. The digit font size
// substitutes the general letter font size only for the duration of this
// spawn; the override must not leak into subsequent letter creation.
func (c *ClockController) spawnGlyph(st *Stage, char rune, x, y float64) *Letter {
	l := newLetter(char, x, y, st.pickColor(), st.now)
	l.State = StateSettled
	l.Static = true
	l.InflationProgress = 1
	l.BevelThickness = st.settings.BevelThickness
	l.BevelSize = st.settings.BevelSize

	saved := st.settings.FontSize
	st.settings.FontSize = st.settings.ClockFontSize
	st.rebuildGeometry(l)
	st.settings.FontSize = saved

	st.letters = append(st.letters, l)
	st.emit(EventSpawned, len(st.letters)-1, char)
	return l
}

// clockBounds is the fixed box forced during clock mode, sized from the
// digit cell dimensions.
func (c *ClockController) clockBounds(st *Stage) Bounds {
	cw := st.settings.ClockFontSize * autoCellWidthFactor
	ch := st.settings.ClockFontSize * autoCellHeightFactor
	return Bounds{Width: cw * (clockSlots + 2), Height: ch * 4}
}

// slotPositions returns the eight slot centers on a single centered line.
func (c *ClockController) slotPositions(st *Stage) (xs [clockSlots]float64, y float64) {
	cw := st.settings.ClockFontSize * autoCellWidthFactor
	lineW := cw * clockSlots
	for i := range xs {
		xs[i] = -lineW/2 + cw/2 + float64(i)*cw
	}
	return xs, 0
}

// timeRunes formats the current time as the eight slot glyphs.
func (c *ClockController) timeRunes() [clockSlots]rune {
	s := c.nowFn().Format("15:04:05")
	var out [clockSlots]rune
	copy(out[:], []rune(s))
	return out
}

// Slot returns the active letter at slot i (nil for none). Exposed for the
// examples' debug overlay.
func (c *ClockController) Slot(i int) *Letter {
	if i < 0 || i >= clockSlots {
		return nil
	}
	return c.slots[i]
}
