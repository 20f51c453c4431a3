package balloon

// squishState tracks the breathing animation phase. The oscillator scales
// the effective physics bounds; layout keeps using the configured bounds.
type squishState struct {
	phase float64
}

// step advances the oscillation and returns the width/height scale factors
// for this frame. With ping-pong enabled the phase folds into a triangle
// wave; otherwise it wraps. The named easing curve shapes the normalized
// phase before it interpolates the min/max scale range.
func (sq *squishState) step(dt float64, s *SquishSettings) (sx, sy float64) {
	if !s.Enabled {
		return 1, 1
	}
	sq.phase += dt * s.Speed
	for sq.phase >= 1 {
		sq.phase -= 1
	}

	t := sq.phase
	if s.PingPong {
		t = 1 - abs(1-2*t)
	}
	// Elastic easing overshoots [0, 1]; keep the scales inside the range.
	eased := clamp(easeValue(s.Curve, t), 0, 1)
	return lerp(s.MaxWidth, s.MinWidth, eased), lerp(s.MaxHeight, s.MinHeight, eased)
}

// reset restarts the oscillation from the full-size end of the range.
func (sq *squishState) reset() {
	sq.phase = 0
}
