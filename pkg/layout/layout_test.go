package layout

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f32At(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func u32At(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off:])
}

func TestScalarAndVectorShapes(t *testing.T) {
	tests := []struct {
		name  string
		v     Value
		size  int
		align int
	}{
		{"f32", F32(1), 4, 4},
		{"u32", U32(1), 4, 4},
		{"vec2", Vec2{}, 8, 8},
		{"vec3", Vec3{}, 12, 16},
		{"vec4", Vec4{}, 16, 16},
		{"mat4", Mat4{}, 64, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.size, tt.v.Size())
			assert.Equal(t, tt.align, tt.v.Align())

			w := NewWriter(0)
			tt.v.Encode(w)
			assert.Equal(t, tt.size, w.Len(), "encoded bytes")
		})
	}
}

func TestStructOffsets(t *testing.T) {
	s := Struct{
		F("position", Vec3{1, 2, 3}),
		F("radius", F32(5)),
		F("material_id", U32(7)),
	}

	assert.Equal(t, 16, s.Align())
	assert.Equal(t, 32, s.Size())
	assert.Equal(t, 0, s.Offset("position"))
	assert.Equal(t, 16, s.Offset("radius"))
	assert.Equal(t, 20, s.Offset("material_id"))
	assert.Equal(t, -1, s.Offset("missing"))

	b := EncodeUniform(s)
	require.Len(t, b, 32)
	assert.Equal(t, float32(1), f32At(b, 0))
	assert.Equal(t, float32(3), f32At(b, 8))
	assert.Equal(t, uint32(0), u32At(b, 12), "vec3 padding lane")
	assert.Equal(t, float32(5), f32At(b, 16))
	assert.Equal(t, uint32(7), u32At(b, 20))
	assert.Equal(t, make([]byte, 8), b[24:], "tail padding")
}

func TestNestedStructOffsets(t *testing.T) {
	inner := Struct{
		F("a", Vec3{}),
		F("b", Vec3{}),
		F("m", Mat4{}),
		F("near", F32(0)),
		F("far", F32(0)),
	}
	outer := Struct{
		F("inner", inner),
		F("count", U32(0)),
		F("color", Vec3{}),
		F("strength", F32(0)),
	}

	assert.Equal(t, 112, inner.Size())

	offsets := map[string]int{}
	for _, fo := range outer.Offsets() {
		offsets[fo.Name] = fo.Offset
	}
	assert.Equal(t, map[string]int{
		"inner":      0,
		"inner.a":    0,
		"inner.b":    16,
		"inner.m":    32,
		"inner.near": 96,
		"inner.far":  100,
		"count":      112,
		"color":      128,
		"strength":   144,
	}, offsets)
	assert.Equal(t, 160, outer.Size())
}

func TestNestedVec3TakesFullSlot(t *testing.T) {
	s := Struct{F("a", Vec3{}), F("b", F32(0)), F("c", Vec3{}), F("d", U32(0))}
	fos := s.Offsets()
	for i, fo := range fos {
		if _, isVec3 := s[i].Value.(Vec3); !isVec3 || i+1 == len(fos) {
			continue
		}
		assert.Zero(t, (fos[i+1].Offset-fo.Offset)%16, "field after %s", fo.Name)
	}
}

func TestEncodeUniformAlignment(t *testing.T) {
	values := []Value{
		F32(1),
		Vec2{1, 2},
		Vec3{1, 2, 3},
		Mat4{},
		Struct{F("x", U32(1))},
		Struct{F("x", Vec2{}), F("y", F32(0))},
		Struct{F("x", Vec4{}), F("y", F32(0)), F("z", F32(0))},
	}
	for _, v := range values {
		b := EncodeUniform(v)
		top := max(v.Align(), UniformAlign)
		assert.Zero(t, len(b)%top, "%T len %d", v, len(b))
		assert.Equal(t, UniformSize(v), len(b))
	}
}

func TestEncodeUniformBareVec3(t *testing.T) {
	b := EncodeUniform(Vec3{1, 2, 3})
	require.Len(t, b, 16)
	assert.Equal(t, float32(2), f32At(b, 4))
	assert.Equal(t, uint32(0), u32At(b, 12))
}

func TestMat4ColumnMajor(t *testing.T) {
	var m Mat4
	for i := range m {
		m[i] = float32(i)
	}
	b := EncodeUniform(m)
	require.Len(t, b, 64)
	// Column 1 starts at byte 16.
	assert.Equal(t, float32(4), f32At(b, 16))
	assert.Equal(t, float32(15), f32At(b, 60))
}

func TestEncodeDeterministic(t *testing.T) {
	s := Struct{F("c", Vec4{0.1, 0.2, 0.3, 1}), F("l", F32(2.5)), F("s", F32(0.75))}
	assert.Equal(t, EncodeUniform(s), EncodeUniform(s))

	codec, err := NewStorageCodec()
	require.NoError(t, err)
	elems := []Value{s, s, s}
	a, err := codec.Encode("materials", elems)
	require.NoError(t, err)
	b, err := codec.Encode("materials", elems)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
