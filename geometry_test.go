package balloon

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

func testFont(t *testing.T) *truetype.Font {
	t.Helper()
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func testGeometryParams() GeometryParams {
	return GeometryParams{
		FontSize:      5,
		Depth:         1.2,
		CurveSegments: 6,
		BevelSegments: 4,
	}
}

func TestBuildLetterGeometryNilFont(t *testing.T) {
	g := BuildLetterGeometry(nil, 'A', 0.5, 0.3, testGeometryParams())
	if !g.IsEmpty() {
		t.Fatal("nil font should produce empty geometry")
	}
}

func TestBuildLetterGeometryMissingGlyph(t *testing.T) {
	g := BuildLetterGeometry(testFont(t), '', 0.5, 0.3, testGeometryParams())
	if !g.IsEmpty() {
		t.Fatal("missing glyph should produce empty geometry")
	}
}

func TestBuildLetterGeometryProducesTriangles(t *testing.T) {
	g := BuildLetterGeometry(testFont(t), 'A', 0.5, 0.3, testGeometryParams())
	if g.IsEmpty() {
		t.Fatal("'A' produced empty geometry")
	}
	if len(g.Indices)%3 != 0 {
		t.Fatalf("index count %d not a multiple of 3", len(g.Indices))
	}
	if len(g.Normals) != len(g.Positions) {
		t.Fatalf("normals (%d) and positions (%d) out of sync", len(g.Normals), len(g.Positions))
	}
	for _, idx := range g.Indices {
		if int(idx) >= len(g.Positions) {
			t.Fatalf("index %d out of range (%d vertices)", idx, len(g.Positions))
		}
	}
}

func TestBuildLetterGeometryRecentered(t *testing.T) {
	g := BuildLetterGeometry(testFont(t), 'L', 0.5, 0.3, testGeometryParams())
	if g.IsEmpty() {
		t.Fatal("'L' produced empty geometry")
	}
	min, max := g.BoundingBox()
	for axis := 0; axis < 3; axis++ {
		center := (min[axis] + max[axis]) / 2
		if math.Abs(center) > 1e-9 {
			t.Errorf("axis %d center = %f, want 0", axis, center)
		}
	}
}

func TestBuildLetterGeometryScalesWithFontSize(t *testing.T) {
	small := testGeometryParams()
	big := testGeometryParams()
	big.FontSize = small.FontSize * 2

	f := testFont(t)
	gs := BuildLetterGeometry(f, 'H', 0.5, 0.3, small)
	gb := BuildLetterGeometry(f, 'H', 0.5, 0.3, big)
	minS, maxS := gs.BoundingBox()
	minB, maxB := gb.BoundingBox()

	ratio := (maxB.X() - minB.X()) / (maxS.X() - minS.X())
	if math.Abs(ratio-2) > 0.05 {
		t.Errorf("width ratio = %f for doubled font size, want ~2", ratio)
	}
}

func TestBuildLetterGeometryBevelWidensOutline(t *testing.T) {
	f := testFont(t)
	flat := BuildLetterGeometry(f, 'H', 0, 0, testGeometryParams())
	beveled := BuildLetterGeometry(f, 'H', 1.0, 0.8, testGeometryParams())

	minF, maxF := flat.BoundingBox()
	minB, maxB := beveled.BoundingBox()
	if maxB.X()-minB.X() <= maxF.X()-minF.X() {
		t.Error("bevel size did not widen the outline")
	}
	// Bevel thickness deepens the solid beyond the base extrusion.
	if maxB.Z()-minB.Z() <= maxF.Z()-minF.Z() {
		t.Error("bevel thickness did not deepen the solid")
	}
}

func TestBuildLetterGeometryNormalsAreUnit(t *testing.T) {
	g := BuildLetterGeometry(testFont(t), 'O', 0.5, 0.3, testGeometryParams())
	if g.IsEmpty() {
		t.Fatal("'O' produced empty geometry")
	}
	for i, n := range g.Normals {
		if math.Abs(n.Len()-1) > 1e-6 {
			t.Fatalf("normal %d has length %f, want 1", i, n.Len())
		}
	}
}

func TestBuildLetterGeometryHoleQuadrant(t *testing.T) {
	// 'O' has an inner contour; the cap triangulation must bridge it
	// without leaving degenerate triangles.
	g := BuildLetterGeometry(testFont(t), 'O', 0.5, 0.3, testGeometryParams())
	if g.IsEmpty() {
		t.Fatal("'O' produced empty geometry")
	}
	degenerate := 0
	for i := 0; i+2 < len(g.Indices); i += 3 {
		a := g.Positions[g.Indices[i]]
		b := g.Positions[g.Indices[i+1]]
		c := g.Positions[g.Indices[i+2]]
		area := b.Sub(a).Cross(c.Sub(a)).Len()
		if math.IsNaN(area) {
			t.Fatalf("triangle %d has NaN area", i/3)
		}
		if area < 1e-15 {
			degenerate++
		}
	}
	// The bridge splice doubles two vertices per hole; a handful of sliver
	// triangles is tolerable, a flood is a triangulation bug.
	if total := len(g.Indices) / 3; degenerate > total/50 {
		t.Errorf("%d of %d triangles degenerate in 'O'", degenerate, total)
	}
}

func TestSignedAreaOrientation(t *testing.T) {
	ccw := []mgl64.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	if a := signedArea(ccw); a <= 0 {
		t.Errorf("counter-clockwise square area = %f, want positive", a)
	}
	cw := []mgl64.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}}
	if a := signedArea(cw); a >= 0 {
		t.Errorf("clockwise square area = %f, want negative", a)
	}
}

func TestEarClipConvexPolygon(t *testing.T) {
	// A convex pentagon clips into exactly n-2 triangles.
	poly := []capVertex{
		{pos: mgl64.Vec2{0, 1}, idx: 0},
		{pos: mgl64.Vec2{-0.95, 0.31}, idx: 1},
		{pos: mgl64.Vec2{-0.59, -0.81}, idx: 2},
		{pos: mgl64.Vec2{0.59, -0.81}, idx: 3},
		{pos: mgl64.Vec2{0.95, 0.31}, idx: 4},
	}
	tris := earClip(poly)
	if len(tris) != (len(poly)-2)*3 {
		t.Fatalf("got %d indices, want %d", len(tris), (len(poly)-2)*3)
	}
}
