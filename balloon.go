package balloon

import (
	"github.com/tanema/gween/ease"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// Bounds is the axis-aligned rectangular region, in world units, that letters
// are laid out and kept inside. The world coordinate system has its origin at
// the center of the bounds, with Y increasing upward and Z toward the viewer.
type Bounds struct {
	Width, Height float64
}

// Half returns the half-extents of the bounds.
func (b Bounds) Half() (hw, hh float64) {
	return b.Width / 2, b.Height / 2
}

// Scaled returns the bounds with width and height multiplied by the given
// factors. Used by the squish oscillator.
func (b Bounds) Scaled(sx, sy float64) Bounds {
	return Bounds{Width: b.Width * sx, Height: b.Height * sy}
}

// SpacingMode selects how layout positions are assigned to letters.
type SpacingMode uint8

const (
	SpacingAutomatic SpacingMode = iota // wrap-to-fit grid, shrunk until it fits the bounds
	SpacingManual                       // grid sized from the bounds and user multipliers, no wrapping
	SpacingRandom                       // scattered on a disc around the origin; positions are sticky
)

// LetterState is the lifecycle state of a Letter.
//
// Spawning letters are inflating toward their target bevel. Settled letters
// are fully inflated. Decaying letters are replaced clock digits flying away;
// they shrink and fade until removal.
type LetterState uint8

const (
	StateSpawning LetterState = iota
	StateSettled
	StateDecaying
)

// String returns the state name for debug output.
func (s LetterState) String() string {
	switch s {
	case StateSpawning:
		return "spawning"
	case StateSettled:
		return "settled"
	case StateDecaying:
		return "decaying"
	default:
		return "unknown"
	}
}

// EaseCurve names an easing function from the squish oscillator's curve table.
type EaseCurve string

const (
	EaseLinear    EaseCurve = "linear"
	EaseInOut     EaseCurve = "ease-in-out"
	EaseIn        EaseCurve = "ease-in"
	EaseOut       EaseCurve = "ease-out"
	EaseBounce    EaseCurve = "bounce"
	EaseElastic   EaseCurve = "elastic"
)

// easeTable maps curve names to gween easing functions.
var easeTable = map[EaseCurve]ease.TweenFunc{
	EaseLinear:  ease.Linear,
	EaseInOut:   ease.InOutQuad,
	EaseIn:      ease.InQuad,
	EaseOut:     ease.OutQuad,
	EaseBounce:  ease.OutBounce,
	EaseElastic: ease.OutElastic,
}

// easeValue applies the named curve to a normalized phase t in [0, 1].
// Unknown names fall back to linear.
func easeValue(curve EaseCurve, t float64) float64 {
	fn, ok := easeTable[curve]
	if !ok {
		fn = ease.Linear
	}
	return float64(fn(float32(t), 0, 1, 1))
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// clamp limits v to the range [min, max].
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// LetterEventKind identifies a letter lifecycle transition.
type LetterEventKind uint8

const (
	EventSpawned  LetterEventKind = iota // letter created and added to the stage
	EventSettled                         // inflation finished
	EventDecaying                        // clock digit replaced, now flying away
	EventRemoved                         // letter disposed and removed
)

// LetterEvent carries lifecycle data for the ECS bridge.
type LetterEvent struct {
	Kind  LetterEventKind
	Index int
	Char  rune
}

// EntityStore is the interface for optional ECS integration.
// When set on a Stage, letter lifecycle events are forwarded to the ECS.
type EntityStore interface {
	EmitLetterEvent(event LetterEvent)
}
