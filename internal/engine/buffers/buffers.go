// Package buffers encodes a flattened scene and the frame globals into the
// named GPU buffers the ray tracing kernel binds.
package buffers

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"go.uber.org/zap"

	"github.com/ryanwebber/raybaby/internal/engine/flatten"
	"github.com/ryanwebber/raybaby/internal/engine/frame"
	"github.com/ryanwebber/raybaby/internal/logger"
	"github.com/ryanwebber/raybaby/pkg/layout"
	"github.com/ryanwebber/raybaby/pkg/math"
)

// Binding indices in bind group 0.
const (
	BindingGlobals uint32 = iota
	BindingMaterials
	BindingSpheres
	BindingMeshes
	BindingVertices
	BindingIndices
)

// Buffer is an encoded buffer plus the tags the upload side needs.
type Buffer struct {
	Name        string
	Binding     uint32
	Usage       gputypes.BufferUsage
	BindingType gputypes.BufferBindingType
	Count       int // elements, storage only
	Stride      int // bytes, storage only
	Data        []byte
}

// IsUniform reports whether the buffer binds as a uniform block.
func (b Buffer) IsUniform() bool {
	return b.BindingType == gputypes.BufferBindingTypeUniform
}

// Array is one storage array of the kernel contract.
type Array struct {
	Name    string
	Binding uint32
	Element layout.Value // zero-valued prototype
}

// Arrays lists the storage arrays in binding order.
var Arrays = []Array{
	{"materials", BindingMaterials, flatten.Material{}.Shape()},
	{"spheres", BindingSpheres, flatten.Sphere{}.Shape()},
	{"meshes", BindingMeshes, flatten.Mesh{}.Shape()},
	{"vertices", BindingVertices, flatten.VertexShape(math.Vec3{})},
	{"indices", BindingIndices, flatten.IndexShape(0)},
}

// GlobalsName is the name of the uniform buffer.
const GlobalsName = "globals"

// Builder encodes buffers with one storage codec, so every array shares
// the stride policy the kernel was generated for.
type Builder struct {
	codec *layout.StorageCodec
	log   *zap.Logger
}

// NewBuilder validates the codec against every array of the contract.
func NewBuilder(codec *layout.StorageCodec) (*Builder, error) {
	for _, a := range Arrays {
		if err := codec.Check(a.Name, a.Element); err != nil {
			return nil, err
		}
	}
	return &Builder{codec: codec, log: logger.Named("buffers")}, nil
}

// Codec returns the storage codec.
func (b *Builder) Codec() *layout.StorageCodec {
	return b.codec
}

// Stride returns the element stride of a contract array.
func (b *Builder) Stride(a Array) int {
	return b.codec.Stride(a.Element)
}

// Storage encodes all five storage arrays. It returns either every buffer
// or an error naming the array that failed.
func (b *Builder) Storage(arrs flatten.Arrays) ([]Buffer, error) {
	elems := map[string][]layout.Value{
		"materials": layout.Shapes(arrs.Materials),
		"spheres":   layout.Shapes(arrs.Spheres),
		"meshes":    layout.Shapes(arrs.Meshes),
		"vertices":  layout.Map(arrs.Vertices, flatten.VertexShape),
		"indices":   layout.Map(arrs.Indices, flatten.IndexShape),
	}

	out := make([]Buffer, 0, len(Arrays))
	for _, a := range Arrays {
		vals := elems[a.Name]
		data, err := b.codec.Encode(a.Name, vals)
		if err != nil {
			return nil, fmt.Errorf("encoding storage buffers: %w", err)
		}
		out = append(out, Buffer{
			Name:        a.Name,
			Binding:     a.Binding,
			Usage:       gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
			BindingType: gputypes.BufferBindingTypeReadOnlyStorage,
			Count:       len(vals),
			Stride:      b.Stride(a),
			Data:        data,
		})
		b.log.Debug("encoded storage array",
			zap.String("array", a.Name),
			zap.Int("count", len(vals)),
			zap.Int("stride", b.Stride(a)),
			zap.Int("bytes", len(data)))
	}
	return out, nil
}

// Globals encodes the uniform globals block.
func (b *Builder) Globals(g frame.Globals) Buffer {
	return Buffer{
		Name:        GlobalsName,
		Binding:     BindingGlobals,
		Usage:       gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		BindingType: gputypes.BufferBindingTypeUniform,
		Data:        g.Encode(),
	}
}

// LayoutEntries describes bind group 0 for a compute pipeline.
func (b *Builder) LayoutEntries() []gputypes.BindGroupLayoutEntry {
	entries := []gputypes.BindGroupLayoutEntry{{
		Binding:    BindingGlobals,
		Visibility: gputypes.ShaderStageCompute,
		Buffer: &gputypes.BufferBindingLayout{
			Type:           gputypes.BufferBindingTypeUniform,
			MinBindingSize: uint64(layout.UniformSize(frame.Globals{}.Shape())),
		},
	}}
	for _, a := range Arrays {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    a.Binding,
			Visibility: gputypes.ShaderStageCompute,
			Buffer: &gputypes.BufferBindingLayout{
				Type:           gputypes.BufferBindingTypeReadOnlyStorage,
				MinBindingSize: uint64(layout.HeaderSize + b.Stride(a)),
			},
		})
	}
	return entries
}
