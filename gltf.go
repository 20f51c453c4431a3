package balloon

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ExportGLTF writes the current letter meshes as a glTF 2.0 document: one
// mesh and node per live letter, with the letter's world position and decay
// scale on the node. Letters without geometry (unloaded glyphs) are skipped.
func (st *Stage) ExportGLTF(path string) error {
	doc := gltf.NewDocument()

	for _, l := range st.letters {
		g := l.mesh.geom
		if g.IsEmpty() {
			continue
		}

		positions := make([][3]float32, len(g.Positions))
		normals := make([][3]float32, len(g.Normals))
		for i, p := range g.Positions {
			positions[i] = [3]float32{float32(p.X()), float32(p.Y()), float32(p.Z())}
		}
		for i, n := range g.Normals {
			normals[i] = [3]float32{float32(n.X()), float32(n.Y()), float32(n.Z())}
		}

		posAcc := modeler.WritePosition(doc, positions)
		nrmAcc := modeler.WriteNormal(doc, normals)
		idxAcc := modeler.WriteIndices(doc, g.Indices)

		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: fmt.Sprintf("letter_%c", l.Char),
			Primitives: []*gltf.Primitive{{
				Indices: gltf.Index(idxAcc),
				Attributes: gltf.PrimitiveAttributes{
					gltf.POSITION: posAcc,
					gltf.NORMAL:   nrmAcc,
				},
			}},
		})
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        fmt.Sprintf("letter_%c", l.Char),
			Mesh:        gltf.Index(len(doc.Meshes) - 1),
			Translation: [3]float64{l.Position.X(), l.Position.Y(), l.Position.Z()},
			Scale:       [3]float64{l.Scale, l.Scale, l.Scale},
		})
		scene := doc.Scenes[*doc.Scene]
		scene.Nodes = append(scene.Nodes, len(doc.Nodes)-1)
	}

	if err := gltf.Save(doc, path); err != nil {
		return fmt.Errorf("export gltf %s: %w", path, err)
	}
	return nil
}
