package balloon

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// SquishSettings controls the breathing animation that scales the effective
// bounds over time.
type SquishSettings struct {
	Enabled  bool
	Speed    float64   // oscillation cycles per second
	Curve    EaseCurve // easing applied to the normalized phase
	PingPong bool      // bounce the phase back and forth instead of wrapping

	// Width/height scale range, as fractions of the configured bounds.
	MinWidth, MaxWidth   float64
	MinHeight, MaxHeight float64
}

// Settings is the full engine configuration. All fields have documented
// defaults via DefaultSettings and are validated once by Validate; components
// read them without further checking.
type Settings struct {
	// Layout
	Spacing        SpacingMode
	FontSize       float64 // letter cell base size in world units
	ManualSpacingX float64 // manual-mode horizontal cell multiplier
	ManualSpacingY float64 // manual-mode vertical cell multiplier
	SpawnRadius    float64 // random-mode scatter disc radius in world units

	// Bounds
	Bounds       Bounds // world-space layout and physics bounds
	CustomBounds bool   // bounds explicitly overridden (not derived from the canvas)

	// Geometry
	Depth          float64 // extrusion depth in world units
	BevelThickness float64 // target bevel depth at full inflation
	BevelSize      float64 // target bevel outline expansion at full inflation
	CurveSegments  int     // subdivisions per quadratic outline curve
	BevelSegments  int     // rings in the bevel profile

	// Animation
	InflationSpeed float64 // inflation progress per second (1 = one second to full)

	// Physics
	Gravity         float64 // downward acceleration per reference frame
	Bounciness      float64 // 0 = inelastic stop, 1 = perfectly elastic
	ColliderSize    float64 // per-letter collision radius in world units
	BoundaryPadding float64 // inset from the bounds edge

	// Squish
	Squish SquishSettings

	// Clock
	ClockFontSize  float64 // digit cell size, independent of FontSize
	FlyOpacity     float64 // alpha applied to a replaced digit as it flies away
	FlyShrinkSpeed float64 // scale units removed per second from a flying digit

	// Seed for the random spacing mode and flying-digit impulses.
	Seed uint64
}

// DefaultSettings returns the engine defaults. The bounds match an 80x60
// world-unit canvas.
func DefaultSettings() Settings {
	return Settings{
		Spacing:        SpacingAutomatic,
		FontSize:       5,
		ManualSpacingX: 1,
		ManualSpacingY: 1,
		SpawnRadius:    15,

		Bounds: Bounds{Width: 80, Height: 60},

		Depth:          1.2,
		BevelThickness: 1.5,
		BevelSize:      0.9,
		CurveSegments:  6,
		BevelSegments:  4,

		InflationSpeed: 1.25,

		Gravity:         0.02,
		Bounciness:      0.55,
		ColliderSize:    2.5,
		BoundaryPadding: 1,

		Squish: SquishSettings{
			Enabled:   false,
			Speed:     0.25,
			Curve:     EaseInOut,
			PingPong:  true,
			MinWidth:  0.5,
			MaxWidth:  1,
			MinHeight: 0.5,
			MaxHeight: 1,
		},

		ClockFontSize:  6,
		FlyOpacity:     0.8,
		FlyShrinkSpeed: 0.6,

		Seed: 1,
	}
}

// Validate checks the settings once at startup. Components assume validated
// settings and do not re-check at use sites.
func (s *Settings) Validate() error {
	if s.FontSize <= 0 {
		return fmt.Errorf("balloon: font size must be positive, got %v", s.FontSize)
	}
	if s.ClockFontSize <= 0 {
		return fmt.Errorf("balloon: clock font size must be positive, got %v", s.ClockFontSize)
	}
	if s.Bounds.Width <= 0 || s.Bounds.Height <= 0 {
		return fmt.Errorf("balloon: bounds must be positive, got %vx%v", s.Bounds.Width, s.Bounds.Height)
	}
	if s.InflationSpeed <= 0 {
		return fmt.Errorf("balloon: inflation speed must be positive, got %v", s.InflationSpeed)
	}
	if s.Bounciness < 0 || s.Bounciness > 1 {
		return fmt.Errorf("balloon: bounciness must be in [0, 1], got %v", s.Bounciness)
	}
	if s.ColliderSize <= 0 {
		return fmt.Errorf("balloon: collider size must be positive, got %v", s.ColliderSize)
	}
	if s.CurveSegments < 1 {
		return fmt.Errorf("balloon: curve segments must be at least 1, got %d", s.CurveSegments)
	}
	if s.BevelSegments < 1 {
		return fmt.Errorf("balloon: bevel segments must be at least 1, got %d", s.BevelSegments)
	}
	if s.FlyShrinkSpeed <= 0 {
		return fmt.Errorf("balloon: fly shrink speed must be positive, got %v", s.FlyShrinkSpeed)
	}
	if sq := &s.Squish; sq.Enabled {
		if sq.Speed <= 0 {
			return fmt.Errorf("balloon: squish speed must be positive, got %v", sq.Speed)
		}
		if sq.MinWidth > sq.MaxWidth || sq.MinHeight > sq.MaxHeight {
			return fmt.Errorf("balloon: squish min scale exceeds max")
		}
		if sq.MinWidth <= 0 || sq.MinHeight <= 0 {
			return fmt.Errorf("balloon: squish scales must be positive")
		}
	}
	return nil
}

// LoadSettings reads settings from an INI file, filling unset keys with
// defaults. Section and key names follow the example configs under examples/.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	f, err := ini.Load(path)
	if err != nil {
		return s, fmt.Errorf("load settings %s: %w", path, err)
	}

	layout := f.Section("layout")
	switch layout.Key("spacing").MustString("automatic") {
	case "automatic":
		s.Spacing = SpacingAutomatic
	case "manual":
		s.Spacing = SpacingManual
	case "random":
		s.Spacing = SpacingRandom
	default:
		return s, fmt.Errorf("load settings %s: unknown spacing mode %q", path, layout.Key("spacing").String())
	}
	s.FontSize = layout.Key("font_size").MustFloat64(s.FontSize)
	s.ManualSpacingX = layout.Key("manual_spacing_x").MustFloat64(s.ManualSpacingX)
	s.ManualSpacingY = layout.Key("manual_spacing_y").MustFloat64(s.ManualSpacingY)
	s.SpawnRadius = layout.Key("spawn_radius").MustFloat64(s.SpawnRadius)
	s.Bounds.Width = layout.Key("bounds_width").MustFloat64(s.Bounds.Width)
	s.Bounds.Height = layout.Key("bounds_height").MustFloat64(s.Bounds.Height)
	s.CustomBounds = layout.Key("custom_bounds").MustBool(s.CustomBounds)

	geo := f.Section("geometry")
	s.Depth = geo.Key("depth").MustFloat64(s.Depth)
	s.BevelThickness = geo.Key("bevel_thickness").MustFloat64(s.BevelThickness)
	s.BevelSize = geo.Key("bevel_size").MustFloat64(s.BevelSize)
	s.CurveSegments = geo.Key("curve_segments").MustInt(s.CurveSegments)
	s.BevelSegments = geo.Key("bevel_segments").MustInt(s.BevelSegments)

	anim := f.Section("animation")
	s.InflationSpeed = anim.Key("inflation_speed").MustFloat64(s.InflationSpeed)

	phys := f.Section("physics")
	s.Gravity = phys.Key("gravity").MustFloat64(s.Gravity)
	s.Bounciness = phys.Key("bounciness").MustFloat64(s.Bounciness)
	s.ColliderSize = phys.Key("collider_size").MustFloat64(s.ColliderSize)
	s.BoundaryPadding = phys.Key("boundary_padding").MustFloat64(s.BoundaryPadding)

	sq := f.Section("squish")
	s.Squish.Enabled = sq.Key("enabled").MustBool(s.Squish.Enabled)
	s.Squish.Speed = sq.Key("speed").MustFloat64(s.Squish.Speed)
	s.Squish.Curve = EaseCurve(sq.Key("curve").MustString(string(s.Squish.Curve)))
	s.Squish.PingPong = sq.Key("ping_pong").MustBool(s.Squish.PingPong)
	s.Squish.MinWidth = sq.Key("min_width").MustFloat64(s.Squish.MinWidth)
	s.Squish.MaxWidth = sq.Key("max_width").MustFloat64(s.Squish.MaxWidth)
	s.Squish.MinHeight = sq.Key("min_height").MustFloat64(s.Squish.MinHeight)
	s.Squish.MaxHeight = sq.Key("max_height").MustFloat64(s.Squish.MaxHeight)

	clock := f.Section("clock")
	s.ClockFontSize = clock.Key("font_size").MustFloat64(s.ClockFontSize)
	s.FlyOpacity = clock.Key("fly_opacity").MustFloat64(s.FlyOpacity)
	s.FlyShrinkSpeed = clock.Key("fly_shrink_speed").MustFloat64(s.FlyShrinkSpeed)

	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("load settings %s: %w", path, err)
	}
	return s, nil
}
