package layout

import "fmt"

// UniformAlign is the minimum alignment of a uniform block root.
const UniformAlign = 16

// HeaderSize is the size of a storage array's element-count header.
const HeaderSize = 16

// UniformSize returns the encoded length of v as a uniform block.
func UniformSize(v Value) int {
	return AlignTo(v.Size(), max(v.Align(), UniformAlign))
}

// EncodeUniform serializes a single value as a uniform block. The root is
// aligned to at least 16 bytes and the output padded to that alignment.
func EncodeUniform(v Value) []byte {
	n := UniformSize(v)
	w := NewWriter(n)
	v.Encode(w)
	w.PadTo(n)
	return w.Bytes()
}

// StridePolicy selects how storage array elements are spaced.
type StridePolicy int

const (
	// NaturalStride places each element at its own size rounded up to its alignment.
	NaturalStride StridePolicy = iota
	// FixedStride places every element at one caller-chosen stride.
	FixedStride
)

func (p StridePolicy) String() string {
	switch p {
	case NaturalStride:
		return "natural"
	case FixedStride:
		return "fixed"
	default:
		return fmt.Sprintf("StridePolicy(%d)", int(p))
	}
}

// ParseStridePolicy parses "natural" or "fixed".
func ParseStridePolicy(s string) (StridePolicy, error) {
	switch s {
	case "natural", "":
		return NaturalStride, nil
	case "fixed":
		return FixedStride, nil
	default:
		return 0, fmt.Errorf("unknown stride policy %q", s)
	}
}

// StorageCodec encodes variable-length arrays. The stride policy is fixed
// at construction because the consuming kernel's layout is.
//
// Buffer format, both policies:
//
//	offset 0   u32 element count
//	offset 4   12 zero bytes
//	offset 16  element 0, then element i at 16 + i*stride
//
// Each element is zero-padded to the stride.
type StorageCodec struct {
	policy StridePolicy
	stride int
}

// Option configures a StorageCodec.
type Option func(*StorageCodec)

// WithFixedStride selects the fixed-stride policy with the given stride.
func WithFixedStride(stride int) Option {
	return func(c *StorageCodec) {
		c.policy = FixedStride
		c.stride = stride
	}
}

// WithPolicy selects a policy by value. stride is only used by FixedStride.
func WithPolicy(p StridePolicy, stride int) Option {
	return func(c *StorageCodec) {
		c.policy = p
		c.stride = stride
	}
}

// NewStorageCodec creates a codec. The default policy is NaturalStride.
func NewStorageCodec(opts ...Option) (*StorageCodec, error) {
	c := &StorageCodec{policy: NaturalStride}
	for _, opt := range opts {
		opt(c)
	}
	if c.policy == FixedStride && c.stride <= 0 {
		return nil, fmt.Errorf("layout: fixed stride %d: %w", c.stride, ErrInvalidStride)
	}
	return c, nil
}

// Policy returns the codec's stride policy.
func (c *StorageCodec) Policy() StridePolicy {
	return c.policy
}

// Stride returns the byte distance between elements shaped like proto.
func (c *StorageCodec) Stride(proto Value) int {
	if c.policy == FixedStride {
		return c.stride
	}
	return Slot(proto)
}

// Check validates that elements shaped like proto fit the codec's stride.
// Any stride at least as large as the element's size is accepted; the
// remainder is zero padding.
func (c *StorageCodec) Check(array string, proto Value) error {
	return c.check(array, 0, proto)
}

func (c *StorageCodec) check(array string, i int, v Value) error {
	stride := c.Stride(v)
	if stride < v.Size() {
		return &StrideError{Array: array, Index: i, Stride: stride, Size: v.Size(), Align: v.Align(), Err: ErrStrideTooSmall}
	}
	return nil
}

// EncodedSize returns the buffer length for the given elements.
func (c *StorageCodec) EncodedSize(elems []Value) int {
	n := HeaderSize
	for _, e := range elems {
		n += c.Stride(e)
	}
	return n
}

// Encode serializes elems as a storage array named array. Every element is
// validated before any byte is produced; a failing element yields no output.
func (c *StorageCodec) Encode(array string, elems []Value) ([]byte, error) {
	for i, e := range elems {
		if err := c.check(array, i, e); err != nil {
			return nil, err
		}
	}

	w := NewWriter(c.EncodedSize(elems))
	w.PutU32(uint32(len(elems)))
	w.PadTo(HeaderSize)
	for _, e := range elems {
		end := w.Len() + c.Stride(e)
		e.Encode(w)
		w.PadTo(end)
	}
	return w.Bytes(), nil
}
