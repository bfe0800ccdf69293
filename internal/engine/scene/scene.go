// Package scene defines the scene description consumed by the buffer
// builder and loads it from YAML or TOML files.
package scene

// Scene is a camera plus an ordered list of objects.
type Scene struct {
	Camera  Camera   `yaml:"camera" toml:"camera"`
	Objects []Object `yaml:"objects" toml:"objects"`
}

// Camera places a lens in the world.
type Camera struct {
	Transform Transform `yaml:"transform" toml:"transform"`
	Lens      Lens      `yaml:"lens" toml:"lens"`
	Clipping  Clipping  `yaml:"clipping" toml:"clipping"`
}

// Lens is a closed union. Exactly one variant is set on a validated scene.
type Lens struct {
	Perspective *Perspective `yaml:"perspective,omitempty" toml:"perspective,omitempty"`
}

// Perspective is a pinhole lens with a focal plane.
type Perspective struct {
	Fov           float32 `yaml:"fov" toml:"fov"` // vertical, degrees
	FocalDistance float32 `yaml:"focal_distance" toml:"focal_distance"`
}

// Clipping bounds ray distances.
type Clipping struct {
	Near float32 `yaml:"near" toml:"near"`
	Far  float32 `yaml:"far" toml:"far"`
}

// Object is one renderable surface with its placement and material.
type Object struct {
	Surface   Surface   `yaml:"surface" toml:"surface"`
	Transform Transform `yaml:"transform" toml:"transform"`
	Material  Material  `yaml:"material" toml:"material"`
}

// Surface is a closed union. Exactly one variant is set on a validated scene.
type Surface struct {
	Sphere *Sphere   `yaml:"sphere,omitempty" toml:"sphere,omitempty"`
	Mesh   *MeshData `yaml:"mesh_data,omitempty" toml:"mesh_data,omitempty"`
}

// Sphere is an analytic sphere centered on the object origin.
type Sphere struct {
	Radius float32 `yaml:"radius" toml:"radius"`
}

// MeshData is an indexed triangle list in object space.
type MeshData struct {
	Vertices [][3]float32 `yaml:"vertices" toml:"vertices"`
	Indices  [][3]uint32  `yaml:"indices" toml:"indices"`
}

// Transform is position, XYZ Euler rotation in degrees, and scale.
type Transform struct {
	Position [3]float32 `yaml:"position" toml:"position"`
	Rotation [3]float32 `yaml:"rotation" toml:"rotation"`
	Scale    *[3]float32 `yaml:"scale,omitempty" toml:"scale,omitempty"`
}

// Scaling returns the scale factors. A transform without a scale is unscaled.
func (t Transform) Scaling() [3]float32 {
	if t.Scale == nil {
		return [3]float32{1, 1, 1}
	}
	return *t.Scale
}

// Material holds the shading inputs of an object.
type Material struct {
	Color      [4]float32 `yaml:"color" toml:"color"`
	Luminosity float32    `yaml:"luminosity" toml:"luminosity"`
	Smoothness float32    `yaml:"smoothness" toml:"smoothness"`
}

// Counts summarizes a scene for logging.
func (s *Scene) Counts() (spheres, meshes, vertices, triangles int) {
	for _, o := range s.Objects {
		switch {
		case o.Surface.Sphere != nil:
			spheres++
		case o.Surface.Mesh != nil:
			meshes++
			vertices += len(o.Surface.Mesh.Vertices)
			triangles += len(o.Surface.Mesh.Indices)
		}
	}
	return spheres, meshes, vertices, triangles
}
