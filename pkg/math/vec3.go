// Package math provides float32 vector, matrix and quaternion types used to
// place scene geometry in world space.
package math

import "github.com/chewxy/math32"

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// V3 builds a Vec3 from a [3]float32, the shape scene files decode into.
func V3(a [3]float32) Vec3 {
	return Vec3{a[0], a[1], a[2]}
}

// Array returns the components as [3]float32.
func (v Vec3) Array() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Vec4 is a 4-component vector.
type Vec4 [4]float32

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * math32.Pi / 180
}

// RadiansVec3 converts each component from degrees to radians.
func RadiansVec3(deg Vec3) Vec3 {
	return Vec3{Radians(deg.X), Radians(deg.Y), Radians(deg.Z)}
}
