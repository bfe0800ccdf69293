package layout

import (
	"errors"
	"fmt"
)

var (
	ErrStrideTooSmall = errors.New("stride smaller than element size")
	ErrInvalidStride  = errors.New("stride must be positive")
)

// StrideError reports an element that does not fit the array's stride.
type StrideError struct {
	Array  string
	Index  int
	Stride int
	Size   int
	Align  int
	Err    error
}

func (e *StrideError) Error() string {
	return fmt.Sprintf("layout: encoding %s[%d]: stride %d, element size %d align %d: %v",
		e.Array, e.Index, e.Stride, e.Size, e.Align, e.Err)
}

func (e *StrideError) Unwrap() error {
	return e.Err
}
