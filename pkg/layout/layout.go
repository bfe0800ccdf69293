// Package layout serializes typed values into host-shareable byte buffers
// that follow the uniform/storage layout rules of GPU shading languages.
//
// Natural size and alignment of the supported shapes:
//
//	shape   size  align
//	f32     4     4
//	u32     4     4
//	vec2    8     8
//	vec3    12    16
//	vec4    16    16
//	mat4    64    16   (four vec4 columns, column-major)
//	struct  see Struct
//
// Inside an aggregate every member starts at the first offset that is a
// multiple of its alignment and occupies its size rounded up to that
// alignment, so a vec3 member always takes a full 16-byte slot.
package layout

// Value is a shape the codec knows how to place in memory.
type Value interface {
	// Size is the natural size in bytes.
	Size() int
	// Align is the required alignment in bytes.
	Align() int
	// Encode writes the value at the writer's current position.
	Encode(w *Writer)
}

// Shaper is implemented by records that describe their GPU shape.
type Shaper interface {
	Shape() Value
}

// AlignTo rounds n up to the next multiple of a.
func AlignTo(n, a int) int {
	if a <= 1 {
		return n
	}
	return (n + a - 1) / a * a
}

// Slot is the number of bytes v occupies as a member of an aggregate.
func Slot(v Value) int {
	return AlignTo(v.Size(), v.Align())
}

// F32 is a 32-bit float.
type F32 float32

func (F32) Size() int          { return 4 }
func (F32) Align() int         { return 4 }
func (v F32) Encode(w *Writer) { w.PutF32(float32(v)) }

// U32 is a 32-bit unsigned integer.
type U32 uint32

func (U32) Size() int          { return 4 }
func (U32) Align() int         { return 4 }
func (v U32) Encode(w *Writer) { w.PutU32(uint32(v)) }

// Vec2 is a two-component float vector.
type Vec2 [2]float32

func (Vec2) Size() int  { return 8 }
func (Vec2) Align() int { return 8 }

func (v Vec2) Encode(w *Writer) {
	w.PutF32(v[0])
	w.PutF32(v[1])
}

// Vec3 is a three-component float vector. It is 12 bytes of data aligned
// like a vec4.
type Vec3 [3]float32

func (Vec3) Size() int  { return 12 }
func (Vec3) Align() int { return 16 }

func (v Vec3) Encode(w *Writer) {
	w.PutF32(v[0])
	w.PutF32(v[1])
	w.PutF32(v[2])
}

// Vec4 is a four-component float vector.
type Vec4 [4]float32

func (Vec4) Size() int  { return 16 }
func (Vec4) Align() int { return 16 }

func (v Vec4) Encode(w *Writer) {
	for _, c := range v {
		w.PutF32(c)
	}
}

// Mat4 is a 4x4 float matrix in column-major order.
type Mat4 [16]float32

func (Mat4) Size() int  { return 64 }
func (Mat4) Align() int { return 16 }

func (m Mat4) Encode(w *Writer) {
	for _, c := range m {
		w.PutF32(c)
	}
}

// Field is a named struct member.
type Field struct {
	Name  string
	Value Value
}

// F is shorthand for a Field.
func F(name string, v Value) Field {
	return Field{Name: name, Value: v}
}

// Struct is an ordered aggregate of fields. Its alignment is the largest
// member alignment and its size is the end of the last member rounded up
// to that alignment.
type Struct []Field

// Align returns the largest member alignment.
func (s Struct) Align() int {
	a := 4
	for _, f := range s {
		a = max(a, f.Value.Align())
	}
	return a
}

// Size returns the padded size of the struct.
func (s Struct) Size() int {
	off := 0
	for _, f := range s {
		off = AlignTo(off, f.Value.Align()) + Slot(f.Value)
	}
	return AlignTo(off, s.Align())
}

// Encode writes every field at its offset and zero-fills the padding.
func (s Struct) Encode(w *Writer) {
	base := w.Len()
	off := 0
	for _, f := range s {
		off = AlignTo(off, f.Value.Align())
		w.PadTo(base + off)
		f.Value.Encode(w)
		off += Slot(f.Value)
	}
	w.PadTo(base + s.Size())
}

// FieldOffset describes where a member lands inside its struct.
type FieldOffset struct {
	Name   string
	Offset int
	Size   int
	Align  int
}

// Offsets lists each member's placement. Nested structs are flattened with
// dotted names.
func (s Struct) Offsets() []FieldOffset {
	var out []FieldOffset
	off := 0
	for _, f := range s {
		off = AlignTo(off, f.Value.Align())
		out = append(out, FieldOffset{Name: f.Name, Offset: off, Size: f.Value.Size(), Align: f.Value.Align()})
		if inner, ok := f.Value.(Struct); ok {
			for _, sub := range inner.Offsets() {
				sub.Name = f.Name + "." + sub.Name
				sub.Offset += off
				out = append(out, sub)
			}
		}
		off += Slot(f.Value)
	}
	return out
}

// Offset returns the byte offset of the named member, or -1.
func (s Struct) Offset(name string) int {
	for _, fo := range s.Offsets() {
		if fo.Name == name {
			return fo.Offset
		}
	}
	return -1
}

// Map converts a slice of records into codec values.
func Map[T any](xs []T, f func(T) Value) []Value {
	out := make([]Value, len(xs))
	for i, x := range xs {
		out[i] = f(x)
	}
	return out
}

// Shapes collects the GPU shapes of a slice of records.
func Shapes[T Shaper](xs []T) []Value {
	return Map(xs, func(x T) Value { return x.Shape() })
}
