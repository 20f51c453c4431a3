package balloon

import (
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// Material is the drawable surface description for a letter. The engine
// treats materials as opaque: a factory maps a color index to a surface and
// the renderer applies it.
type Material struct {
	Color Color
}

// MaterialFactory produces a material from a letter's color index.
type MaterialFactory func(index int) Material

// defaultPalette cycles warm balloon colors.
var defaultPalette = []Color{
	{R: 0.96, G: 0.32, B: 0.42, A: 1},
	{R: 1.00, G: 0.72, B: 0.25, A: 1},
	{R: 0.35, G: 0.78, B: 0.62, A: 1},
	{R: 0.33, G: 0.55, B: 0.95, A: 1},
	{R: 0.72, G: 0.45, B: 0.92, A: 1},
}

// DefaultMaterialFactory cycles the built-in palette by index.
func DefaultMaterialFactory(index int) Material {
	return Material{Color: defaultPalette[index%len(defaultPalette)]}
}

// lightDir is the fixed directional light for the Lambert shade.
var lightDir = mgl64.Vec3{0.35, 0.5, 1}.Normalize()

const (
	ambientLight = 0.35
	diffuseLight = 0.65
)

// --- White pixel singleton (no sync.Once; the stage is single-threaded) ---

var whitePixelImage *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// Draw renders every live letter to the target image: orthographic
// world-to-screen projection, per-vertex Lambert shading from the mesh
// normals, triangles submitted far to near per letter. Rendering to a larger
// target scales up automatically, which the high-resolution export relies
// on.
func (st *Stage) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	sw := float64(b.Dx())
	sh := float64(b.Dy())
	ppu := math.Min(sw/st.settings.Bounds.Width, sh/st.settings.Bounds.Height)

	white := ensureWhitePixel()
	op := &ebiten.DrawTrianglesOptions{}

	for _, l := range st.letters {
		if st.debug {
			debugCheckDisposed(l, "Draw")
		}
		g := l.mesh.geom
		if g.IsEmpty() {
			continue
		}
		if len(g.Positions) > math.MaxUint16 {
			_, _ = fmt.Fprintf(os.Stderr, "[balloon] letter %q mesh exceeds vertex limit, skipped\n", l.Char)
			continue
		}

		verts := st.projectLetter(l, sw, sh, ppu)
		idx := letterIndices(l.mesh)
		screen.DrawTriangles(verts, idx, white, op)
	}
}

// projectLetter fills the letter's preallocated vertex buffer with
// projected, shaded, premultiplied vertices.
func (st *Stage) projectLetter(l *Letter, sw, sh, ppu float64) []ebiten.Vertex {
	g := l.mesh.geom
	m := st.material(l.ColorIndex)

	need := len(g.Positions)
	if cap(l.mesh.verts) < need {
		l.mesh.verts = make([]ebiten.Vertex, need)
	}
	l.mesh.verts = l.mesh.verts[:need]

	alpha := float32(m.Color.A * l.Alpha)
	for i, p := range g.Positions {
		shade := ambientLight + diffuseLight*math.Max(0, g.Normals[i].Dot(lightDir))
		x := l.Position.X() + p.X()*l.Scale
		y := l.Position.Y() + p.Y()*l.Scale
		l.mesh.verts[i] = ebiten.Vertex{
			DstX:   float32(sw/2 + x*ppu),
			DstY:   float32(sh/2 - y*ppu),
			SrcX:   0,
			SrcY:   0,
			ColorR: float32(m.Color.R*shade) * alpha,
			ColorG: float32(m.Color.G*shade) * alpha,
			ColorB: float32(m.Color.B*shade) * alpha,
			ColorA: alpha,
		}
	}
	return l.mesh.verts
}

// letterIndices expands the mesh's depth-sorted triangle order into the
// preallocated uint16 index buffer.
func letterIndices(m *Mesh) []uint16 {
	need := len(m.order) * 3
	if cap(m.indices) < need {
		m.indices = make([]uint16, need)
	}
	m.indices = m.indices[:need]
	for i, t := range m.order {
		base := t * 3
		m.indices[i*3] = uint16(m.geom.Indices[base])
		m.indices[i*3+1] = uint16(m.geom.Indices[base+1])
		m.indices[i*3+2] = uint16(m.geom.Indices[base+2])
	}
	return m.indices
}
