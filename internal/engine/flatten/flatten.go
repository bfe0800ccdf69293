// Package flatten turns a scene's object list into the flat, index
// addressed arrays the ray tracing kernel reads.
package flatten

import (
	"github.com/chewxy/math32"

	"github.com/ryanwebber/raybaby/internal/engine/scene"
	"github.com/ryanwebber/raybaby/pkg/math"
)

// Arrays is the output of one flattening pass. The caller owns it.
type Arrays struct {
	Vertices  []math.Vec3
	Indices   []uint32
	Meshes    []Mesh
	Spheres   []Sphere
	Materials []Material
}

// Flatten walks objects in order and resolves all geometry to world space.
// Every object gets one material whose position is its material id. The
// objects must come from a validated scene.
func Flatten(objects []scene.Object) Arrays {
	var a Arrays
	a.Materials = make([]Material, 0, len(objects))

	for _, obj := range objects {
		matID := uint32(len(a.Materials))
		a.Materials = append(a.Materials, Material{
			Color:      math.Vec4(obj.Material.Color),
			Luminosity: obj.Material.Luminosity,
			Smoothness: obj.Material.Smoothness,
		})

		switch {
		case obj.Surface.Sphere != nil:
			a.addSphere(obj.Surface.Sphere, obj.Transform, matID)
		case obj.Surface.Mesh != nil:
			a.addMesh(obj.Surface.Mesh, obj.Transform, matID)
		}
	}
	return a
}

// addSphere ignores rotation and the z scale. The radius follows the larger
// of the x and y scales.
func (a *Arrays) addSphere(s *scene.Sphere, t scene.Transform, matID uint32) {
	scale := t.Scaling()
	a.Spheres = append(a.Spheres, Sphere{
		Position:   math.V3(t.Position),
		Radius:     s.Radius * math32.Max(scale[0], scale[1]),
		MaterialID: matID,
	})
}

func (a *Arrays) addMesh(m *scene.MeshData, t scene.Transform, matID uint32) {
	xf := Transform(t)
	offset := uint32(len(a.Vertices))

	for _, v := range m.Vertices {
		a.Vertices = append(a.Vertices, xf.TransformPoint(math.V3(v)))
	}
	for _, tri := range m.Indices {
		a.Indices = append(a.Indices, tri[0]+offset, tri[1]+offset, tri[2]+offset)
	}
	a.Meshes = append(a.Meshes, Mesh{
		IndexOffset:   offset,
		TriangleCount: uint32(len(m.Indices)),
		MaterialID:    matID,
	})
}

// Transform builds an object's affine matrix from scale, XYZ Euler
// rotation in degrees, and translation.
func Transform(t scene.Transform) math.Mat4 {
	return math.FromScaleRotationTranslation(
		math.V3(t.Scaling()),
		math.QuatFromEulerDegrees(math.V3(t.Rotation)),
		math.V3(t.Position),
	)
}
