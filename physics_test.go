package balloon

import (
	"math"
	"testing"
)

// physicsStage builds a stage with the given letters injected directly,
// bypassing text layout so tests control exact positions and velocities.
func physicsStage(t *testing.T, mutate func(*Settings), letters ...*Letter) *Stage {
	t.Helper()
	st := testStage(t, mutate)
	st.letters = append(st.letters, letters...)
	return st
}

func TestGravityScalesWithReferenceRate(t *testing.T) {
	// One reference frame at 60 fps and one at 30 fps must apply the same
	// per-frame-equivalent acceleration per unit of real time.
	bigBox := func(s *Settings) {
		s.Bounds = Bounds{Width: 1e6, Height: 1e6}
	}
	a := newLetter('A', 0, 0, 0, 0)
	b := newLetter('B', 0, 0, 0, 0)
	stA := physicsStage(t, bigBox, a)
	stB := physicsStage(t, bigBox, b)

	for i := 0; i < 60; i++ {
		stA.stepPhysics(1.0 / 60)
	}
	for i := 0; i < 30; i++ {
		stB.stepPhysics(1.0 / 30)
	}

	if a.Velocity.Y() >= 0 || b.Velocity.Y() >= 0 {
		t.Fatal("gravity did not pull letters downward")
	}
	// Euler integration at different step sizes diverges slightly; the
	// accumulated velocity must still agree closely.
	if math.Abs(a.Velocity.Y()-b.Velocity.Y()) > 0.05*math.Abs(a.Velocity.Y()) {
		t.Errorf("frame-rate dependent gravity: %f vs %f", a.Velocity.Y(), b.Velocity.Y())
	}
}

func TestBoundaryContainment(t *testing.T) {
	l := newLetter('A', 0, 0, 0, 0)
	l.Velocity = [3]float64{0.9, 1.1, 0}
	st := physicsStage(t, nil, l)

	hw, hh := st.EffectiveBounds().Half()
	pad := st.Settings().BoundaryPadding
	for i := 0; i < 600; i++ {
		st.stepPhysics(1.0 / 60)
		if x := l.Position.X(); x < -hw+pad-1e-9 || x > hw-pad+1e-9 {
			t.Fatalf("tick %d: x = %f escaped [%f, %f]", i, x, -hw+pad, hw-pad)
		}
		if y := l.Position.Y(); y < -hh+pad-1e-9 || y > hh-pad+1e-9 {
			t.Fatalf("tick %d: y = %f escaped [%f, %f]", i, y, -hh+pad, hh-pad)
		}
	}
}

func TestBounceReflectsAndDamps(t *testing.T) {
	l := newLetter('A', 0, 0, 0, 0)
	st := physicsStage(t, func(s *Settings) {
		s.Gravity = 0
		s.Bounciness = 0.5
	}, l)

	hw, _ := st.EffectiveBounds().Half()
	l.Position[0] = hw // already at the padded wall after clamping
	l.Velocity = [3]float64{1, 0, 0}

	st.stepPhysics(1.0 / 60)
	if l.Velocity.X() >= 0 {
		t.Fatalf("velocity not reflected: %f", l.Velocity.X())
	}
	if math.Abs(l.Velocity.X()) > 0.5+1e-9 {
		t.Errorf("bounce not damped: |v| = %f, want <= 0.5", math.Abs(l.Velocity.X()))
	}
}

func TestCollisionSeparatesOverlap(t *testing.T) {
	a := newLetter('A', -1, 0, 0, 0)
	b := newLetter('B', 1, 0, 0, 0)
	st := physicsStage(t, func(s *Settings) {
		s.Gravity = 0
		s.ColliderSize = 2.5
	}, a, b)

	st.resolveCollisions()
	dist := b.Position.X() - a.Position.X()
	if math.Abs(dist-5) > 1e-9 {
		t.Errorf("separation = %f, want exactly 2*collider = 5", dist)
	}
	// Symmetric: the midpoint stays put.
	mid := (a.Position.X() + b.Position.X()) / 2
	if math.Abs(mid) > 1e-9 {
		t.Errorf("midpoint drifted to %f", mid)
	}
}

func TestCollisionImpulseOnlyWhenApproaching(t *testing.T) {
	// Overlapping but separating pair: positions correct, velocities keep.
	a := newLetter('A', -1, 0, 0, 0)
	b := newLetter('B', 1, 0, 0, 0)
	a.Velocity = [3]float64{-1, 0, 0}
	b.Velocity = [3]float64{1, 0, 0}
	st := physicsStage(t, func(s *Settings) {
		s.Gravity = 0
	}, a, b)

	st.resolveCollisions()
	if a.Velocity.X() != -1 || b.Velocity.X() != 1 {
		t.Error("impulse applied to a separating pair")
	}

	// Approaching pair: velocities exchange momentum along the normal.
	a.Position = [3]float64{-1, 0, 0}
	b.Position = [3]float64{1, 0, 0}
	a.Velocity = [3]float64{1, 0, 0}
	b.Velocity = [3]float64{-1, 0, 0}
	st.resolveCollisions()
	if a.Velocity.X() >= 0 || b.Velocity.X() <= 0 {
		t.Errorf("approaching pair not pushed apart: %f, %f", a.Velocity.X(), b.Velocity.X())
	}
	// Momentum is conserved for an equal-mass symmetric impulse.
	if sum := a.Velocity.X() + b.Velocity.X(); math.Abs(sum) > 1e-9 {
		t.Errorf("momentum not conserved: sum = %f", sum)
	}
}

func TestCollisionZeroDistanceGuard(t *testing.T) {
	a := newLetter('A', 3, -2, 0, 0)
	b := newLetter('B', 3, -2, 0, 0)
	st := physicsStage(t, nil, a, b)

	// Must not divide by zero or produce NaN positions.
	st.resolveCollisions()
	if math.IsNaN(a.Position.X()) || math.IsNaN(b.Position.X()) {
		t.Fatal("zero-distance pair produced NaN")
	}
	if a.Position != b.Position {
		t.Error("perfectly overlapping pair should stay unseparated this frame")
	}
}

func TestStaticLettersExemptFromPhysics(t *testing.T) {
	frozen := newLetter('8', 0, 0, 0, 0)
	frozen.Static = true
	mover := newLetter('A', 0.5, 0, 0, 0)
	st := physicsStage(t, func(s *Settings) {
		s.Gravity = 0.1
	}, frozen, mover)

	for i := 0; i < 30; i++ {
		st.stepPhysics(1.0 / 60)
	}
	if frozen.Position != ([3]float64{0, 0, 0}) || frozen.Velocity != ([3]float64{}) {
		t.Error("static letter moved")
	}
	// Static letters do not participate in collisions in either role, so
	// the mover falls straight through the overlap.
	if mover.Position.X() != 0.5 {
		t.Errorf("mover deflected by a static letter: x = %f", mover.Position.X())
	}
	if mover.Position.Y() >= 0 {
		t.Error("mover did not fall")
	}
}

func TestOverlapNeverIncreases(t *testing.T) {
	// Drop a cluster and verify the pairwise pass keeps every post-frame
	// overlap at or below the pre-separation amount.
	st := testStage(t, nil)
	st.SetText("OOO")
	// Start the cluster deeply interpenetrating.
	for i, l := range st.Letters() {
		l.Position[0] = float64(i-1) * 0.75
		l.Position[1] = float64(i) * 0.25
	}

	minDist := 2 * st.Settings().ColliderSize
	for i := 0; i < 300; i++ {
		st.stepPhysics(1.0 / 60)
	}
	letters := st.Letters()
	for i := 0; i < len(letters); i++ {
		for j := i + 1; j < len(letters); j++ {
			dx := letters[j].Position.X() - letters[i].Position.X()
			dy := letters[j].Position.Y() - letters[i].Position.Y()
			dist := math.Hypot(dx, dy)
			if dist < minDist-0.5 {
				t.Errorf("pair (%d,%d) still deeply overlapping: dist = %f", i, j, dist)
			}
		}
	}
}
