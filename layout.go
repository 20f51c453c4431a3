package balloon

import (
	"math"
	"math/rand/v2"
	"strings"
	"unicode"
)

// Placement is one entry of a layout result: a glyph and its target position
// in world units. Layout results are ephemeral, recomputed on every text
// change and diffed against the live letter list by positional index.
type Placement struct {
	Char rune
	X, Y float64
}

// Cell size as fixed multiples of the font size in automatic mode.
const (
	autoCellWidthFactor  = 1.2
	autoCellHeightFactor = 1.5
)

// ComputeLayout converts text (with line breaks) into a positioned glyph
// list under the configured spacing mode.
//
// Whitespace consumes layout width but produces no placement. Automatic and
// manual layouts are deterministic for identical inputs; random mode draws
// from rng and is only meaningful through the stage's sticky-position
// reconciliation.
func ComputeLayout(text string, bounds Bounds, s *Settings, rng *rand.Rand) []Placement {
	lines := strings.Split(text, "\n")

	switch s.Spacing {
	case SpacingRandom:
		return layoutRandom(lines, s, rng)
	case SpacingManual:
		return layoutGrid(lines, manualCellSize(lines, bounds, s))
	default:
		return layoutAutomatic(lines, bounds, s)
	}
}

type cellSize struct {
	w, h float64
}

// layoutAutomatic sizes cells as a fixed multiple of the font size, re-wraps
// greedily at word boundaries when the block overflows the bounds, then
// shrinks the cell size proportionally until the wrapped block fits both
// axes.
func layoutAutomatic(lines []string, bounds Bounds, s *Settings) []Placement {
	cell := cellSize{
		w: s.FontSize * autoCellWidthFactor,
		h: s.FontSize * autoCellHeightFactor,
	}

	if blockOverflows(lines, cell, bounds) {
		maxCols := int(bounds.Width / cell.w)
		if maxCols >= 1 {
			lines = wrapLines(lines, maxCols)
		}
		// A box too small for even one column degrades to the unwrapped
		// input; only the shrink below applies.
		if scale := fitScale(lines, cell, bounds); scale < 1 {
			cell.w *= scale
			cell.h *= scale
		}
	}
	return layoutGrid(lines, cell)
}

func blockOverflows(lines []string, cell cellSize, bounds Bounds) bool {
	return float64(maxLineLen(lines))*cell.w > bounds.Width ||
		float64(len(lines))*cell.h > bounds.Height
}

// fitScale returns the uniform factor that makes the block fit both axes.
func fitScale(lines []string, cell cellSize, bounds Bounds) float64 {
	w := float64(maxLineLen(lines)) * cell.w
	h := float64(len(lines)) * cell.h
	scale := 1.0
	if w > bounds.Width {
		scale = bounds.Width / w
	}
	if h > bounds.Height && bounds.Height/h < scale {
		scale = bounds.Height / h
	}
	return scale
}

// wrapLines re-wraps each line greedily at word boundaries to at most
// maxCols runes. A word longer than one line's capacity is force-broken at
// the column limit rather than overflowing.
func wrapLines(lines []string, maxCols int) []string {
	var out []string
	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		cur := ""
		for _, word := range words {
			for len([]rune(word)) > maxCols {
				// Flush the current line first so the forced break starts
				// at full width.
				if cur != "" {
					out = append(out, cur)
					cur = ""
				}
				rs := []rune(word)
				out = append(out, string(rs[:maxCols]))
				word = string(rs[maxCols:])
			}
			if word == "" {
				continue
			}
			switch {
			case cur == "":
				cur = word
			case len([]rune(cur))+1+len([]rune(word)) <= maxCols:
				cur += " " + word
			default:
				out = append(out, cur)
				cur = word
			}
		}
		out = append(out, cur)
	}
	return out
}

// manualCellSize divides the bounds by the block's column and row counts,
// scaled by the user multipliers. No wrapping in manual mode.
func manualCellSize(lines []string, bounds Bounds, s *Settings) cellSize {
	cols := maxLineLen(lines)
	if cols < 1 {
		cols = 1
	}
	rows := len(lines)
	if rows < 1 {
		rows = 1
	}
	return cellSize{
		w: bounds.Width / float64(cols) * s.ManualSpacingX,
		h: bounds.Height / float64(rows) * s.ManualSpacingY,
	}
}

// layoutGrid centers each line horizontally and the whole block vertically,
// placing one glyph per cell. Whitespace advances the cursor without
// producing a placement.
func layoutGrid(lines []string, cell cellSize) []Placement {
	var out []Placement
	blockH := float64(len(lines)) * cell.h
	for row, line := range lines {
		runes := []rune(line)
		lineW := float64(len(runes)) * cell.w
		y := blockH/2 - cell.h/2 - float64(row)*cell.h
		for col, r := range runes {
			if unicode.IsSpace(r) {
				continue
			}
			x := -lineW/2 + cell.w/2 + float64(col)*cell.w
			out = append(out, Placement{Char: r, X: x, Y: y})
		}
	}
	return out
}

// layoutRandom scatters glyphs uniformly on a disc of the configured spawn
// radius around the origin. The bounds and line structure are ignored; the
// character stream is consumed for ordering and identity only.
func layoutRandom(lines []string, s *Settings, rng *rand.Rand) []Placement {
	var out []Placement
	for _, line := range lines {
		for _, r := range line {
			if unicode.IsSpace(r) {
				continue
			}
			angle := rng.Float64() * 2 * math.Pi
			radius := s.SpawnRadius * math.Sqrt(rng.Float64())
			out = append(out, Placement{
				Char: r,
				X:    math.Cos(angle) * radius,
				Y:    math.Sin(angle) * radius,
			})
		}
	}
	return out
}

func maxLineLen(lines []string) int {
	max := 0
	for _, line := range lines {
		if n := len([]rune(line)); n > max {
			max = n
		}
	}
	return max
}
