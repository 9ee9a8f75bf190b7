package models

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/tymcgee/console-3d/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// ComputeNormals ignores any NORMAL attribute and derives each face
	// normal from its vertices.
	ComputeNormals bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{}
}

// LoadGLB loads a binary or JSON GLTF file.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh. Every triangle primitive
// of every mesh in the document is appended in document order; node
// transforms are not applied.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	if mesh.TriangleCount() == 0 {
		return nil, &FormatError{Msg: "gltf document has no triangle primitives"}
	}

	return mesh, nil
}

// processMesh extracts triangles from a GLTF mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			// Skip non-triangle primitives (lines, points, strips)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok && !l.ComputeNormals {
			normals, err = modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var indices []uint32
		if prim.Indices != nil {
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			// No indices, vertices are sequential triangles
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			var tri [3]int
			for k := range 3 {
				idx := int(indices[i+k])
				if idx >= len(positions) {
					return &FormatError{Msg: fmt.Sprintf("index %d out of range [0,%d)", idx, len(positions))}
				}
				tri[k] = idx
			}

			t := Triangle{
				P1: toPoint(positions[tri[0]]),
				P2: toPoint(positions[tri[1]]),
				P3: toPoint(positions[tri[2]]),
			}
			if tri[0] < len(normals) {
				t.Normal = toPoint(normals[tri[0]])
			} else {
				t.Normal = faceNormal(t)
			}
			mesh.Triangles = append(mesh.Triangles, t)
		}
	}

	return nil
}

func toPoint(v [3]float32) math3d.Vec4 {
	return math3d.Point(float64(v[0]), float64(v[1]), float64(v[2]))
}

// faceNormal returns the unit normal of p1→p2 × p1→p3 with W = 1.
func faceNormal(t Triangle) math3d.Vec4 {
	e1 := t.P2.Vec3().Sub(t.P1.Vec3())
	e2 := t.P3.Vec3().Sub(t.P1.Vec3())
	return math3d.V4FromV3(e1.Cross(e2).Normalize(), 1)
}
