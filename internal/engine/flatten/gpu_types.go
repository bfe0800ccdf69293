package flatten

import (
	_ "embed"

	"github.com/ryanwebber/raybaby/pkg/layout"
	"github.com/ryanwebber/raybaby/pkg/math"
)

//go:embed assets/material.wgsl
var MaterialWGSL string

// Material is one entry of the materials array.
//
//	0   color       vec4
//	16  luminosity  f32
//	20  smoothness  f32
//	size 32
type Material struct {
	Color      math.Vec4
	Luminosity float32
	Smoothness float32
}

func (m Material) Shape() layout.Value {
	return layout.Struct{
		layout.F("color", layout.Vec4(m.Color)),
		layout.F("luminosity", layout.F32(m.Luminosity)),
		layout.F("smoothness", layout.F32(m.Smoothness)),
	}
}

//go:embed assets/sphere.wgsl
var SphereWGSL string

// Sphere is one entry of the spheres array, in world space.
//
//	0   position     vec3
//	16  radius       f32
//	20  material_id  u32
//	size 32
type Sphere struct {
	Position   math.Vec3
	Radius     float32
	MaterialID uint32
}

func (s Sphere) Shape() layout.Value {
	return layout.Struct{
		layout.F("position", layout.Vec3(s.Position.Array())),
		layout.F("radius", layout.F32(s.Radius)),
		layout.F("material_id", layout.U32(s.MaterialID)),
	}
}

//go:embed assets/mesh.wgsl
var MeshWGSL string

// Mesh describes one mesh object's slice of the indices array.
//
//	0  index_offset    u32
//	4  triangle_count  u32
//	8  material_id     u32
//	size 12
type Mesh struct {
	IndexOffset   uint32
	TriangleCount uint32
	MaterialID    uint32
}

func (m Mesh) Shape() layout.Value {
	return layout.Struct{
		layout.F("index_offset", layout.U32(m.IndexOffset)),
		layout.F("triangle_count", layout.U32(m.TriangleCount)),
		layout.F("material_id", layout.U32(m.MaterialID)),
	}
}

// VertexShape is the element shape of the vertices array.
func VertexShape(v math.Vec3) layout.Value {
	return layout.Vec3(v.Array())
}

// IndexShape is the element shape of the indices array.
func IndexShape(i uint32) layout.Value {
	return layout.U32(i)
}
