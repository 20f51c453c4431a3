package balloon

import (
	"math"
	"testing"
)

func TestInflationMonotonicAndClamped(t *testing.T) {
	s := DefaultSettings()
	s.InflationSpeed = 1.25
	l := newLetter('A', 0, 0, 0, 0)

	prev := l.InflationProgress
	for i := 0; i < 120; i++ {
		l.advanceInflation(1.0/60, &s)
		if l.InflationProgress < prev {
			t.Fatalf("progress decreased: %f -> %f", prev, l.InflationProgress)
		}
		if l.InflationProgress > 1 {
			t.Fatalf("progress overshot 1: %f", l.InflationProgress)
		}
		prev = l.InflationProgress
	}
	if l.InflationProgress != 1 {
		t.Errorf("progress = %f, want exactly 1", l.InflationProgress)
	}
	if l.State != StateSettled {
		t.Errorf("state = %v, want settled", l.State)
	}
}

func TestInflationReachesFullAfterExpectedTime(t *testing.T) {
	// Full inflation takes 1/speed seconds of ticking.
	s := DefaultSettings()
	s.InflationSpeed = 2 // half a second
	l := newLetter('A', 0, 0, 0, 0)

	dt := 1.0 / 60
	ticks := 0
	for l.State == StateSpawning {
		l.advanceInflation(dt, &s)
		ticks++
		if ticks > 120 {
			t.Fatal("letter never settled")
		}
	}
	want := int(math.Ceil(1 / s.InflationSpeed / dt))
	if ticks != want {
		t.Errorf("settled after %d ticks, want %d", ticks, want)
	}
	if l.BevelThickness != s.BevelThickness || l.BevelSize != s.BevelSize {
		t.Errorf("bevels (%f, %f) did not land on targets (%f, %f)",
			l.BevelThickness, l.BevelSize, s.BevelThickness, s.BevelSize)
	}
}

func TestInflationEasedBevelLeadsProgress(t *testing.T) {
	// Cubic ease-out: at half progress the bevel fraction is already
	// 1-(1-0.5)^3 = 0.875 of the target.
	s := DefaultSettings()
	s.InflationSpeed = 1
	l := newLetter('A', 0, 0, 0, 0)

	l.advanceInflation(0.5, &s)
	wantFrac := 1 - math.Pow(0.5, 3)
	gotFrac := l.BevelThickness / s.BevelThickness
	if math.Abs(gotFrac-wantFrac) > 0.01 {
		t.Errorf("bevel fraction = %f, want ~%f", gotFrac, wantFrac)
	}
}

func TestInflationNoRebuildWhenSettled(t *testing.T) {
	s := DefaultSettings()
	l := newLetter('A', 0, 0, 0, 0)
	for l.State == StateSpawning {
		l.advanceInflation(0.1, &s)
	}

	for i := 0; i < 10; i++ {
		rebuild, settled := l.advanceInflation(0.1, &s)
		if rebuild {
			t.Fatal("settled letter requested a geometry rebuild")
		}
		if settled {
			t.Fatal("settled letter settled again")
		}
	}
}

func TestInflationRebuildThreshold(t *testing.T) {
	// A microscopic tick must not trigger a rebuild.
	s := DefaultSettings()
	l := newLetter('A', 0, 0, 0, 0)

	if rebuild, _ := l.advanceInflation(1e-9, &s); rebuild {
		t.Error("sub-threshold bevel change requested a rebuild")
	}
	if rebuild, _ := l.advanceInflation(0.25, &s); !rebuild {
		t.Error("large bevel change should request a rebuild")
	}
}

func TestReplayReentersSpawning(t *testing.T) {
	s := DefaultSettings()
	l := newLetter('A', 0, 0, 0, 0)
	for l.State == StateSpawning {
		l.advanceInflation(0.1, &s)
	}

	l.replay()
	if l.State != StateSpawning {
		t.Fatalf("state = %v after replay, want spawning", l.State)
	}
	if l.InflationProgress != 0 || l.BevelThickness != 0 || l.BevelSize != 0 {
		t.Error("replay should reset progress and bevels to zero")
	}

	// Inflates again to full.
	for i := 0; i < 200 && l.State == StateSpawning; i++ {
		l.advanceInflation(0.1, &s)
	}
	if l.State != StateSettled {
		t.Error("letter did not settle after replay")
	}
}

func TestDecayShrinksLinearlyToRemoval(t *testing.T) {
	s := DefaultSettings()
	s.FlyShrinkSpeed = 2 // half a second from scale 1
	l := newLetter('9', 0, 0, 0, 0)
	l.State = StateSettled
	l.Static = true
	l.Scale = 1

	l.startDecay(0.1, 0.45, &s)
	if l.State != StateDecaying {
		t.Fatalf("state = %v, want decaying", l.State)
	}
	if l.Static {
		t.Error("decaying letter must be unfrozen")
	}
	if l.Velocity.Y() <= 0 {
		t.Error("decaying letter needs an upward impulse")
	}
	if l.Alpha != s.FlyOpacity {
		t.Errorf("alpha = %f, want %f", l.Alpha, s.FlyOpacity)
	}

	if done := l.advanceDecay(0.25); done {
		t.Fatal("decay finished at half duration")
	}
	if math.Abs(l.Scale-0.5) > 0.01 {
		t.Errorf("scale = %f at half duration, want ~0.5", l.Scale)
	}
	if done := l.advanceDecay(0.25); !done {
		t.Fatal("decay should finish after full duration")
	}
	if math.Abs(l.Scale) > 0.01 {
		t.Errorf("scale = %f at end, want 0", l.Scale)
	}
}

func TestLetterDisposeReleasesMesh(t *testing.T) {
	l := newLetter('A', 0, 0, 0, 0)
	l.mesh.SetGeometry(&Geometry{})

	l.Dispose()
	if !l.IsDisposed() {
		t.Fatal("letter not marked disposed")
	}
	if !l.mesh.disposed {
		t.Fatal("mesh not disposed with its letter")
	}
	if l.mesh.Geometry() != nil {
		t.Error("disposed mesh retains geometry")
	}

	// Double dispose is a no-op.
	l.Dispose()
}

func TestAdvanceInflationZeroAlloc(t *testing.T) {
	s := DefaultSettings()
	l := newLetter('A', 0, 0, 0, 0)
	l.advanceInflation(0.01, &s)

	result := testing.AllocsPerRun(100, func() {
		l.advanceInflation(0.001, &s)
	})
	if result > 0 {
		t.Errorf("advanceInflation allocated %f times per run, want 0", result)
	}
}
