package scene

import "fmt"

// Validate checks the closed unions and mesh index ranges.
func (s *Scene) Validate() error {
	if err := s.Camera.Lens.validate("camera.lens"); err != nil {
		return err
	}

	for i := range s.Objects {
		o := &s.Objects[i]
		path := fmt.Sprintf("objects[%d]", i)
		if err := o.Surface.validate(path + ".surface"); err != nil {
			return err
		}
	}
	return nil
}

func (l Lens) validate(path string) error {
	if l.Perspective == nil {
		return &SchemaError{Path: path, Reason: "no lens variant set (want perspective)"}
	}
	return nil
}

func (s Surface) validate(path string) error {
	switch {
	case s.Sphere != nil && s.Mesh != nil:
		return &SchemaError{Path: path, Reason: "both sphere and mesh_data set"}
	case s.Sphere != nil:
		return nil
	case s.Mesh != nil:
		return s.Mesh.validate(path + ".mesh_data")
	default:
		return &SchemaError{Path: path, Reason: "no surface variant set (want sphere or mesh_data)"}
	}
}

func (m *MeshData) validate(path string) error {
	n := uint32(len(m.Vertices))
	for t, tri := range m.Indices {
		for _, idx := range tri {
			if idx >= n {
				return &SchemaError{
					Path:   fmt.Sprintf("%s.indices[%d]", path, t),
					Reason: fmt.Sprintf("index %d out of range for %d vertices", idx, n),
				}
			}
		}
	}
	return nil
}
