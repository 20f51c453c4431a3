package balloon

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Geometry is an indexed triangle mesh in world units. Positions and Normals
// are parallel; Indices reference them in groups of three with
// counter-clockwise front faces.
type Geometry struct {
	Positions []mgl64.Vec3
	Normals   []mgl64.Vec3
	Indices   []uint32
}

// IsEmpty reports whether the geometry has no triangles. Building with a
// missing font or glyph yields empty geometry rather than an error.
func (g *Geometry) IsEmpty() bool {
	return g == nil || len(g.Indices) == 0
}

// BoundingBox returns the min and max corners of the geometry.
func (g *Geometry) BoundingBox() (min, max mgl64.Vec3) {
	if len(g.Positions) == 0 {
		return
	}
	min = g.Positions[0]
	max = g.Positions[0]
	for _, p := range g.Positions[1:] {
		for i := 0; i < 3; i++ {
			if p[i] < min[i] {
				min[i] = p[i]
			}
			if p[i] > max[i] {
				max[i] = p[i]
			}
		}
	}
	return
}

// GeometryParams are the per-build inputs that do not animate.
type GeometryParams struct {
	FontSize      float64 // glyph height scale in world units
	Depth         float64 // straight extrusion depth
	CurveSegments int     // line segments per quadratic outline curve
	BevelSegments int     // rings in each bevel profile
}

// BuildLetterGeometry extrudes the glyph outline of r into a beveled 3-D mesh.
// bevelThickness is the depth of the bevel profile and bevelSize its outline
// expansion; both animate from zero during inflation. The result is
// re-centered on its own bounding box so position assignment is independent
// of glyph metrics.
//
// Pure function: no shared mutable state, safe to call concurrently for
// different letters. Returns empty geometry when the font is nil, the glyph
// is missing, or the outline fails to load; the caller checks font
// readiness first, so those are silent degradations.
func BuildLetterGeometry(f *truetype.Font, r rune, bevelThickness, bevelSize float64, p GeometryParams) *Geometry {
	if f == nil {
		return &Geometry{}
	}
	idx := f.Index(r)
	if idx == 0 {
		return &Geometry{}
	}

	var buf truetype.GlyphBuf
	scale := fixed.Int26_6(p.FontSize * 64)
	if err := buf.Load(f, scale, idx, font.HintingNone); err != nil {
		return &Geometry{}
	}

	contours := flattenOutline(&buf, p.CurveSegments)
	if len(contours) == 0 {
		return &Geometry{}
	}

	// The truetype outline path emits outer contours clockwise (Y-up), the
	// inverse of the front-face winding the extrusion needs. Correct the
	// winding order first: outers become CCW, holes CW.
	for i := range contours {
		reverseContour(contours[i])
	}

	g := extrudeContours(contours, bevelThickness, bevelSize, p)
	if g.IsEmpty() {
		return g
	}
	computeNormals(g)
	recenter(g)
	return g
}

// --- Outline flattening ---

// flattenOutline converts the glyph's quadratic contours into polylines.
// Coordinates come out in world units, Y up.
func flattenOutline(buf *truetype.GlyphBuf, curveSegments int) [][]mgl64.Vec2 {
	var contours [][]mgl64.Vec2
	start := 0
	for _, end := range buf.Ends {
		pts := buf.Points[start:end]
		start = end
		c := flattenContour(pts, curveSegments)
		c = dedupeContour(c)
		if len(c) >= 3 && math.Abs(signedArea(c)) > 1e-9 {
			contours = append(contours, c)
		}
	}
	return contours
}

const onCurve = 0x01

func pointVec(pt truetype.Point) mgl64.Vec2 {
	return mgl64.Vec2{float64(pt.X) / 64, float64(pt.Y) / 64}
}

// flattenContour walks one TrueType contour, emitting line segments for
// straight edges and subdivided quadratic curves. Consecutive off-curve
// points imply an on-curve anchor at their midpoint.
func flattenContour(pts []truetype.Point, segs int) []mgl64.Vec2 {
	n := len(pts)
	if n == 0 {
		return nil
	}
	if segs < 1 {
		segs = 1
	}

	// Rotate so the contour starts on-curve; synthesize a midpoint anchor
	// when every point is off-curve.
	startIdx := -1
	for i, pt := range pts {
		if pt.Flags&onCurve != 0 {
			startIdx = i
			break
		}
	}

	var out []mgl64.Vec2
	var cur mgl64.Vec2
	if startIdx >= 0 {
		cur = pointVec(pts[startIdx])
	} else {
		cur = pointVec(pts[n-1]).Add(pointVec(pts[0])).Mul(0.5)
		startIdx = n - 1
	}
	out = append(out, cur)

	var ctrl mgl64.Vec2
	haveCtrl := false

	for k := 1; k <= n; k++ {
		pt := pts[(startIdx+k)%n]
		v := pointVec(pt)
		if pt.Flags&onCurve != 0 {
			if haveCtrl {
				out = appendQuad(out, cur, ctrl, v, segs)
				haveCtrl = false
			} else {
				out = append(out, v)
			}
			cur = v
			continue
		}
		if haveCtrl {
			// Two off-curve points in a row: implied anchor at the midpoint.
			mid := ctrl.Add(v).Mul(0.5)
			out = appendQuad(out, cur, ctrl, mid, segs)
			cur = mid
		}
		ctrl = v
		haveCtrl = true
	}
	if haveCtrl {
		// Close the contour back to the start through the trailing control.
		out = appendQuad(out, cur, ctrl, out[0], segs)
	}
	return out
}

// appendQuad subdivides the quadratic Bézier (a, c, b) into segs segments,
// appending every point after a.
func appendQuad(out []mgl64.Vec2, a, c, b mgl64.Vec2, segs int) []mgl64.Vec2 {
	for i := 1; i <= segs; i++ {
		t := float64(i) / float64(segs)
		u := 1 - t
		p := a.Mul(u * u).Add(c.Mul(2 * u * t)).Add(b.Mul(t * t))
		out = append(out, p)
	}
	return out
}

// dedupeContour removes consecutive duplicate points, including a duplicated
// closing point.
func dedupeContour(c []mgl64.Vec2) []mgl64.Vec2 {
	if len(c) == 0 {
		return c
	}
	out := c[:1]
	for _, p := range c[1:] {
		last := out[len(out)-1]
		if math.Abs(p.X()-last.X()) > 1e-9 || math.Abs(p.Y()-last.Y()) > 1e-9 {
			out = append(out, p)
		}
	}
	for len(out) > 1 {
		first, last := out[0], out[len(out)-1]
		if math.Abs(first.X()-last.X()) > 1e-9 || math.Abs(first.Y()-last.Y()) > 1e-9 {
			break
		}
		out = out[:len(out)-1]
	}
	return out
}

// signedArea returns twice the signed area of the polygon.
// Positive means counter-clockwise.
func signedArea(c []mgl64.Vec2) float64 {
	var a float64
	for i := range c {
		j := (i + 1) % len(c)
		a += c[i].X()*c[j].Y() - c[j].X()*c[i].Y()
	}
	return a
}

func reverseContour(c []mgl64.Vec2) {
	for i, j := 0, len(c)-1; i < j; i, j = i+1, j-1 {
		c[i], c[j] = c[j], c[i]
	}
}

// --- Extrusion ---

// ringPoint is one entry of the sweep profile: outline expansion and depth.
type ringPoint struct {
	offset float64
	z      float64
}

// extrudeContours sweeps every contour through a back bevel, straight wall,
// and front bevel, then caps both ends with triangulated faces.
func extrudeContours(contours [][]mgl64.Vec2, bevelThickness, bevelSize float64, p GeometryParams) *Geometry {
	g := &Geometry{}
	halfDepth := p.Depth / 2

	// Profile from back cap to front cap, monotonically increasing z.
	var profile []ringPoint
	for s := 0; s <= p.BevelSegments; s++ {
		t := float64(s) / float64(p.BevelSegments)
		profile = append(profile, ringPoint{
			offset: bevelSize * math.Sin(t*math.Pi/2),
			z:      -halfDepth - bevelThickness*math.Cos(t*math.Pi/2),
		})
	}
	profile = append(profile, ringPoint{offset: bevelSize, z: halfDepth})
	for s := 1; s <= p.BevelSegments; s++ {
		t := float64(s) / float64(p.BevelSegments)
		profile = append(profile, ringPoint{
			offset: bevelSize * math.Cos(t*math.Pi/2),
			z:      halfDepth + bevelThickness*math.Sin(t*math.Pi/2),
		})
	}

	// Per-contour ring vertices. capRings collects the cap-plane vertex
	// indices (first and last ring) for triangulation.
	backCap := make([][]uint32, len(contours))
	frontCap := make([][]uint32, len(contours))

	for ci, c := range contours {
		normals := contourNormals(c)
		n := len(c)
		ringBase := make([]uint32, len(profile))
		for ri, rp := range profile {
			ringBase[ri] = uint32(len(g.Positions))
			for i := 0; i < n; i++ {
				pt := c[i].Add(normals[i].Mul(rp.offset))
				g.Positions = append(g.Positions, mgl64.Vec3{pt.X(), pt.Y(), rp.z})
			}
		}
		// Wall quads between consecutive rings.
		for ri := 0; ri < len(profile)-1; ri++ {
			a := ringBase[ri]
			b := ringBase[ri+1]
			for i := 0; i < n; i++ {
				j := (i + 1) % n
				g.Indices = append(g.Indices,
					a+uint32(i), a+uint32(j), b+uint32(j),
					a+uint32(i), b+uint32(j), b+uint32(i),
				)
			}
		}
		backCap[ci] = ringIndices(ringBase[0], n)
		frontCap[ci] = ringIndices(ringBase[len(profile)-1], n)
	}

	// Caps. Front faces keep the triangulated winding; back faces reverse it.
	tris := triangulateContours(contours, frontCap)
	g.Indices = append(g.Indices, tris...)
	trisBack := triangulateContours(contours, backCap)
	for i := 0; i < len(trisBack); i += 3 {
		g.Indices = append(g.Indices, trisBack[i], trisBack[i+2], trisBack[i+1])
	}
	return g
}

func ringIndices(base uint32, n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = base + uint32(i)
	}
	return out
}

// contourNormals returns per-vertex outward offset directions. With outers
// CCW and holes CW, offsetting along these normals grows the solid region,
// which is what the bevel expansion wants.
func contourNormals(c []mgl64.Vec2) []mgl64.Vec2 {
	n := len(c)
	normals := make([]mgl64.Vec2, n)
	for i := 0; i < n; i++ {
		prev := c[(i-1+n)%n]
		next := c[(i+1)%n]
		e0 := c[i].Sub(prev)
		e1 := next.Sub(c[i])
		n0 := edgeNormal(e0)
		n1 := edgeNormal(e1)
		sum := n0.Add(n1)
		if sum.Len() < 1e-9 {
			normals[i] = n1
			continue
		}
		sum = sum.Normalize()
		// Miter length correction, clamped to avoid spikes at sharp corners.
		scale := 1 / math.Max(0.5, sum.Dot(n1))
		normals[i] = sum.Mul(math.Min(scale, 2))
	}
	return normals
}

// edgeNormal returns the outward normal of an edge of a CCW polygon.
func edgeNormal(e mgl64.Vec2) mgl64.Vec2 {
	l := e.Len()
	if l < 1e-12 {
		return mgl64.Vec2{}
	}
	return mgl64.Vec2{e.Y() / l, -e.X() / l}
}

// --- Cap triangulation ---

// capVertex pairs a 2-D outline point with its mesh vertex index.
type capVertex struct {
	pos mgl64.Vec2
	idx uint32
}

// triangulateContours groups hole contours with their containing outer,
// bridges the holes into the outer ring, and ear-clips each merged polygon.
// capIdx holds the mesh vertex index of each contour point on the cap plane.
func triangulateContours(contours [][]mgl64.Vec2, capIdx [][]uint32) []uint32 {
	var outers []int
	var holes []int
	for i, c := range contours {
		if signedArea(c) > 0 {
			outers = append(outers, i)
		} else {
			holes = append(holes, i)
		}
	}

	var tris []uint32
	for _, oi := range outers {
		poly := make([]capVertex, len(contours[oi]))
		for i, p := range contours[oi] {
			poly[i] = capVertex{pos: p, idx: capIdx[oi][i]}
		}
		for _, hi := range holes {
			if !pointInPolygon(contours[hi][0], contours[oi]) {
				continue
			}
			hole := make([]capVertex, len(contours[hi]))
			for i, p := range contours[hi] {
				hole[i] = capVertex{pos: p, idx: capIdx[hi][i]}
			}
			poly = bridgeHole(poly, hole)
		}
		tris = append(tris, earClip(poly)...)
	}
	return tris
}

// pointInPolygon tests containment with a horizontal ray cast.
func pointInPolygon(p mgl64.Vec2, poly []mgl64.Vec2) bool {
	inside := false
	n := len(poly)
	for i := 0; i < n; i++ {
		a := poly[i]
		b := poly[(i+1)%n]
		if (a.Y() > p.Y()) != (b.Y() > p.Y()) {
			x := a.X() + (p.Y()-a.Y())/(b.Y()-a.Y())*(b.X()-a.X())
			if x > p.X() {
				inside = !inside
			}
		}
	}
	return inside
}

// bridgeHole splices a hole contour into the outer polygon through a pair of
// coincident bridge edges, connecting the hole's rightmost vertex to the
// nearest outer vertex to its right.
func bridgeHole(outer, hole []capVertex) []capVertex {
	hi := 0
	for i := range hole {
		if hole[i].pos.X() > hole[hi].pos.X() {
			hi = i
		}
	}
	hp := hole[hi].pos

	oi := -1
	best := math.Inf(1)
	for i := range outer {
		op := outer[i].pos
		if op.X() < hp.X() {
			continue
		}
		d := op.Sub(hp).Len()
		if d < best {
			best = d
			oi = i
		}
	}
	if oi < 0 {
		// No outer vertex to the right; fall back to the nearest one.
		for i := range outer {
			d := outer[i].pos.Sub(hp).Len()
			if d < best {
				best = d
				oi = i
			}
		}
	}

	// outer[0..oi], hole[hi..], hole[..hi], outer[oi..]
	merged := make([]capVertex, 0, len(outer)+len(hole)+2)
	merged = append(merged, outer[:oi+1]...)
	merged = append(merged, hole[hi:]...)
	merged = append(merged, hole[:hi+1]...)
	merged = append(merged, outer[oi:]...)
	return merged
}

// earClip triangulates a simple CCW polygon (possibly with bridge seams) and
// returns mesh vertex indices. Falls back to a fan over the remainder when no
// ear is found, which degrades the cap visually instead of looping forever.
func earClip(poly []capVertex) []uint32 {
	var tris []uint32
	work := make([]capVertex, len(poly))
	copy(work, poly)

	for len(work) > 3 {
		clipped := false
		n := len(work)
		for i := 0; i < n; i++ {
			prev := work[(i-1+n)%n]
			cur := work[i]
			next := work[(i+1)%n]

			if cross2(cur.pos.Sub(prev.pos), next.pos.Sub(cur.pos)) <= 1e-12 {
				continue // reflex or collinear
			}
			contains := false
			for j := 0; j < n; j++ {
				if j == (i-1+n)%n || j == i || j == (i+1)%n {
					continue
				}
				if pointInTriangle(work[j].pos, prev.pos, cur.pos, next.pos) {
					contains = true
					break
				}
			}
			if contains {
				continue
			}
			tris = append(tris, prev.idx, cur.idx, next.idx)
			work = append(work[:i], work[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			for i := 1; i < len(work)-1; i++ {
				tris = append(tris, work[0].idx, work[i].idx, work[i+1].idx)
			}
			return tris
		}
	}
	if len(work) == 3 {
		tris = append(tris, work[0].idx, work[1].idx, work[2].idx)
	}
	return tris
}

func cross2(a, b mgl64.Vec2) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}

func pointInTriangle(p, a, b, c mgl64.Vec2) bool {
	d1 := cross2(b.Sub(a), p.Sub(a))
	d2 := cross2(c.Sub(b), p.Sub(b))
	d3 := cross2(a.Sub(c), p.Sub(c))
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// --- Normals and centering ---

// computeNormals accumulates area-weighted face normals per vertex and
// normalizes. Winding has already been corrected, so normals face outward.
func computeNormals(g *Geometry) {
	g.Normals = make([]mgl64.Vec3, len(g.Positions))
	for i := 0; i < len(g.Indices); i += 3 {
		a := g.Positions[g.Indices[i]]
		b := g.Positions[g.Indices[i+1]]
		c := g.Positions[g.Indices[i+2]]
		fn := b.Sub(a).Cross(c.Sub(a))
		g.Normals[g.Indices[i]] = g.Normals[g.Indices[i]].Add(fn)
		g.Normals[g.Indices[i+1]] = g.Normals[g.Indices[i+1]].Add(fn)
		g.Normals[g.Indices[i+2]] = g.Normals[g.Indices[i+2]].Add(fn)
	}
	for i := range g.Normals {
		if l := g.Normals[i].Len(); l > 1e-12 {
			g.Normals[i] = g.Normals[i].Mul(1 / l)
		} else {
			g.Normals[i] = mgl64.Vec3{0, 0, 1}
		}
	}
}

// recenter shifts the geometry so its bounding box is centered on the local
// origin.
func recenter(g *Geometry) {
	min, max := g.BoundingBox()
	center := min.Add(max).Mul(0.5)
	for i := range g.Positions {
		g.Positions[i] = g.Positions[i].Sub(center)
	}
}
