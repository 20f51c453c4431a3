package balloon

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// bevelRebuildEpsilon is the smallest combined bevel change worth a geometry
// rebuild. Progress already at 1 produces no change and must not rebuild.
const bevelRebuildEpsilon = 1e-4

// Mesh is a letter's drawable: the owned geometry plus render scratch
// buffers. Exactly one Letter owns a given Mesh at a time; replacing the
// geometry or disposing the mesh releases the previous resources.
type Mesh struct {
	geom     *Geometry
	order    []uint32       // triangle submission order, far to near
	verts    []ebiten.Vertex // preallocated projection buffer
	indices  []uint16        // preallocated index buffer
	disposed bool
}

// SetGeometry replaces the mesh geometry, releasing the previous one, and
// recomputes the far-to-near triangle order used by the painter's sort.
// The camera is fixed along +Z, so the order only changes on rebuild.
func (m *Mesh) SetGeometry(g *Geometry) {
	m.geom = g
	if g.IsEmpty() {
		m.order = m.order[:0]
		return
	}
	triCount := len(g.Indices) / 3
	if cap(m.order) < triCount {
		m.order = make([]uint32, triCount)
	}
	m.order = m.order[:triCount]
	for i := range m.order {
		m.order[i] = uint32(i)
	}
	sort.Slice(m.order, func(a, b int) bool {
		return triDepth(g, m.order[a]) < triDepth(g, m.order[b])
	})
}

// triDepth returns the centroid Z of triangle t.
func triDepth(g *Geometry, t uint32) float64 {
	i := t * 3
	return g.Positions[g.Indices[i]].Z() +
		g.Positions[g.Indices[i+1]].Z() +
		g.Positions[g.Indices[i+2]].Z()
}

// Geometry returns the current geometry, or nil after disposal.
func (m *Mesh) Geometry() *Geometry {
	return m.geom
}

// Dispose releases the geometry and scratch buffers. Safe to call twice.
func (m *Mesh) Dispose() {
	if m.disposed {
		return
	}
	m.disposed = true
	m.geom = nil
	m.order = nil
	m.verts = nil
	m.indices = nil
}

// Letter is one live glyph entity. Created by the stage's reconciliation (or
// the clock controller), mutated every frame tick, and disposed when removed
// from the active list.
type Letter struct {
	Char  rune
	State LetterState

	// Static letters (clock digits at rest) are fully exempt from the
	// physics pass.
	Static bool

	// Position is the authoritative logical position; Z stays 0 for the
	// planar layout. Velocity only matters while physics-active.
	Position mgl64.Vec3
	Velocity mgl64.Vec3

	// InflationProgress never decreases except on explicit replay.
	InflationProgress float64
	BevelThickness    float64 // current, derived from progress via easing
	BevelSize         float64

	// Render modulation. Scale and Alpha stay 1 until the letter decays.
	ColorIndex int
	Scale      float64
	Alpha      float64

	SpawnTime float64 // stage clock seconds at creation

	mesh     *Mesh
	shrink   *gween.Tween // decay shrink, independent of the physics pass
	disposed bool
}

// newLetter creates a flat, spawning letter at the given position.
func newLetter(char rune, x, y float64, colorIndex int, now float64) *Letter {
	return &Letter{
		Char:       char,
		State:      StateSpawning,
		Position:   mgl64.Vec3{x, y, 0},
		ColorIndex: colorIndex,
		Scale:      1,
		Alpha:      1,
		SpawnTime:  now,
		mesh:       &Mesh{},
	}
}

// Mesh returns the letter's drawable mesh.
func (l *Letter) Mesh() *Mesh {
	return l.mesh
}

// IsDisposed reports whether the letter has been disposed.
func (l *Letter) IsDisposed() bool {
	return l.disposed
}

// Dispose releases the owned mesh. Safe to call twice.
func (l *Letter) Dispose() {
	if l.disposed {
		return
	}
	l.disposed = true
	l.mesh.Dispose()
	l.shrink = nil
}

// advanceInflation advances the inflation state machine by dt seconds.
// Progress accumulates linearly, clamped to exactly 1; the bevel values
// follow a cubic ease-out of the progress. Returns whether the bevels moved
// enough to need a geometry rebuild, and whether the letter just settled.
func (l *Letter) advanceInflation(dt float64, s *Settings) (rebuild, settled bool) {
	if l.State != StateSpawning {
		return false, false
	}

	l.InflationProgress += dt * s.InflationSpeed
	if l.InflationProgress >= 1 {
		l.InflationProgress = 1
		l.State = StateSettled
		settled = true
	}

	eased := float64(ease.OutCubic(float32(l.InflationProgress), 0, 1, 1))
	newThickness := s.BevelThickness * eased
	newSize := s.BevelSize * eased
	if settled {
		// Land exactly on the targets regardless of float32 easing error.
		newThickness = s.BevelThickness
		newSize = s.BevelSize
	}

	delta := abs(newThickness-l.BevelThickness) + abs(newSize-l.BevelSize)
	if delta > bevelRebuildEpsilon || (settled && delta > 0) {
		l.BevelThickness = newThickness
		l.BevelSize = newSize
		rebuild = true
	}
	return rebuild, settled
}

// replay resets the letter to flat and re-enters the spawning state.
func (l *Letter) replay() {
	l.InflationProgress = 0
	l.BevelThickness = 0
	l.BevelSize = 0
	l.State = StateSpawning
}

// startDecay transitions a replaced clock digit into the flying-away state:
// unfrozen, pushed, faded to the configured opacity, with a linear shrink
// from its captured scale.
func (l *Letter) startDecay(vx, vy float64, s *Settings) {
	l.State = StateDecaying
	l.Static = false
	l.Velocity = mgl64.Vec3{vx, vy, 0}
	l.Alpha = s.FlyOpacity
	duration := float32(l.Scale / s.FlyShrinkSpeed)
	l.shrink = gween.New(float32(l.Scale), 0, duration, ease.Linear)
}

// advanceDecay steps the shrink animation. Returns true when the scale has
// reached zero and the letter must be removed, or the letter never leaves
// the active list.
func (l *Letter) advanceDecay(dt float64) (done bool) {
	if l.State != StateDecaying || l.shrink == nil {
		return false
	}
	scale, finished := l.shrink.Update(float32(dt))
	l.Scale = float64(scale)
	return finished
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
