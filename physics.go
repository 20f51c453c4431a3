package balloon

import "math"

// referenceRate is the frame rate the physics constants are tuned against.
// Scaling by dt*referenceRate keeps the tuned values meaningful at any
// actual refresh rate.
const referenceRate = 60.0

// stepPhysics integrates gravity and velocity, bounces letters off the
// effective bounds, and resolves pairwise circular collisions. Static
// letters are fully exempt: no integration and no collision, in either role.
//
// The pairwise pass is O(n²) over live letters with no spatial partitioning;
// fine for typed words, a known scaling limit for anything larger.
func (st *Stage) stepPhysics(dt float64) {
	step := dt * referenceRate
	s := &st.settings

	hw, hh := st.effBounds.Half()
	hw -= s.BoundaryPadding
	hh -= s.BoundaryPadding

	for _, l := range st.letters {
		if l.Static {
			continue
		}

		l.Velocity[1] -= s.Gravity * step
		l.Position = l.Position.Add(l.Velocity.Mul(step))

		// Boundary: clamp and reflect, scaled by bounciness.
		if l.Position.X() < -hw {
			l.Position[0] = -hw
			l.Velocity[0] = math.Abs(l.Velocity[0]) * s.Bounciness
		} else if l.Position.X() > hw {
			l.Position[0] = hw
			l.Velocity[0] = -math.Abs(l.Velocity[0]) * s.Bounciness
		}
		if l.Position.Y() < -hh {
			l.Position[1] = -hh
			l.Velocity[1] = math.Abs(l.Velocity[1]) * s.Bounciness
		} else if l.Position.Y() > hh {
			l.Position[1] = hh
			l.Velocity[1] = -math.Abs(l.Velocity[1]) * s.Bounciness
		}
	}

	st.resolveCollisions()
}

// resolveCollisions separates overlapping letter pairs symmetrically along
// the collision normal and applies an impulse to approaching pairs.
func (st *Stage) resolveCollisions() {
	s := &st.settings
	minDist := 2 * s.ColliderSize

	for i := 0; i < len(st.letters); i++ {
		a := st.letters[i]
		if a.Static {
			continue
		}
		for j := i + 1; j < len(st.letters); j++ {
			b := st.letters[j]
			if b.Static {
				continue
			}

			dx := b.Position.X() - a.Position.X()
			dy := b.Position.Y() - a.Position.Y()
			distSq := dx*dx + dy*dy
			if distSq >= minDist*minDist {
				continue
			}
			// Perfectly overlapping letters have no usable normal; leave
			// them unseparated this frame rather than dividing by zero.
			if distSq < 1e-12 {
				continue
			}

			dist := math.Sqrt(distSq)
			nx := dx / dist
			ny := dy / dist

			// Symmetric positional correction: half the overlap each.
			half := (minDist - dist) / 2
			a.Position[0] -= nx * half
			a.Position[1] -= ny * half
			b.Position[0] += nx * half
			b.Position[1] += ny * half

			// Impulse only when approaching.
			dvx := a.Velocity.X() - b.Velocity.X()
			dvy := a.Velocity.Y() - b.Velocity.Y()
			dvn := dvx*nx + dvy*ny
			if dvn > 0 {
				impulse := (1 + s.Bounciness) * dvn / 2
				a.Velocity[0] -= impulse * nx
				a.Velocity[1] -= impulse * ny
				b.Velocity[0] += impulse * nx
				b.Velocity[1] += impulse * ny
			}
		}
	}
}
