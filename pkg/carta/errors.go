package carta

import (
	"errors"
	"fmt"
)

// errNoLoader is returned when Load is called on an image layer that
// was configured without a loader function.
var errNoLoader = errors.New("no image loader configured")

// ErrDuplicateLayer reports a layer id registered twice on the same
// manager. Duplicate registration is a caller bug and is surfaced
// immediately rather than silently replacing the existing layer.
type ErrDuplicateLayer struct {
	ID string
}

func (e *ErrDuplicateLayer) Error() string {
	return fmt.Sprintf("layer %q is already registered", e.ID)
}

// ErrLayerNotFound reports an operation on a layer id the manager does
// not know.
type ErrLayerNotFound struct {
	ID string
}

func (e *ErrLayerNotFound) Error() string {
	return fmt.Sprintf("no layer registered with id %q", e.ID)
}

// ErrInvalidGeometry reports a feature whose geometry type a layer
// cannot consume. Raised synchronously at layer construction: feeding a
// connection layer polygon data is a programmer error, not a render-time
// condition.
type ErrInvalidGeometry struct {
	LayerID string
	Index   int
	Want    string
	Got     string
}

func (e *ErrInvalidGeometry) Error() string {
	return fmt.Sprintf("layer %q: feature %d has geometry %s, want %s",
		e.LayerID, e.Index, e.Got, e.Want)
}

// ErrImageLoad reports a failed raster fetch or decode on an image
// layer. The layer stays unrendered; sibling layers are unaffected.
type ErrImageLoad struct {
	LayerID string
	Err     error
}

func (e *ErrImageLoad) Error() string {
	return fmt.Sprintf("layer %q: image load failed: %v", e.LayerID, e.Err)
}

func (e *ErrImageLoad) Unwrap() error { return e.Err }

// ErrUnsupportedLayerKind reports a config layer kind the builder does
// not recognize.
type ErrUnsupportedLayerKind struct {
	Kind string
}

func (e *ErrUnsupportedLayerKind) Error() string {
	return fmt.Sprintf("unsupported layer kind %q", e.Kind)
}
