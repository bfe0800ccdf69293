package scene

import (
	"errors"
	"fmt"
)

var (
	ErrSchema        = errors.New("scene schema violation")
	ErrUnknownFormat = errors.New("unknown scene format")
)

// SchemaError reports a scene document that does not match the schema.
// Path locates the offending node, e.g. objects[2].surface.
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("scene: %s", e.Reason)
	}
	return fmt.Sprintf("scene: %s: %s", e.Path, e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return ErrSchema
}
