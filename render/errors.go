// Package render paints game snapshots onto a surface in a fixed layer
// order and schedules those passes against the display refresh.
package render

import (
	"fmt"
	"reflect"

	"bombview/surface"
)

// DrawError reports an attempt to draw without a usable surface.
type DrawError struct {
	Op string
}

func (e *DrawError) Error() string {
	return fmt.Sprintf("render: %s: no drawing surface", e.Op)
}

// checkSurface rejects nil surfaces, including typed nil pointers.
func checkSurface(op string, s surface.Surface) error {
	if s == nil {
		return &DrawError{Op: op}
	}
	if v := reflect.ValueOf(s); v.Kind() == reflect.Pointer && v.IsNil() {
		return &DrawError{Op: op}
	}
	if s.Bounds().Empty() {
		return &DrawError{Op: op}
	}
	return nil
}
