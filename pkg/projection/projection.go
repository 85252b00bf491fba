// Package projection provides geographic-to-screen projections for map
// rendering.
//
// A Projection maps [longitude, latitude] (degrees, GeoJSON axis order)
// to screen coordinates with y growing downward. Projections carry
// mutable scale, translate and rotate state so one projection instance
// can be shared by a map and all of its layers.
//
// # Basic Usage
//
//	proj := projection.NewEquirectangular()
//	projection.FitSize(proj, 800, 600, bound)
//
//	x, y, ok := proj.Project(orb.Point{-71.06, 42.36})
//	if ok {
//	    // place symbol at (x, y)
//	}
//
// Project returns ok=false for coordinates outside the projection's
// valid domain (for example the far hemisphere of an orthographic
// projection). Callers are expected to skip such coordinates, not treat
// them as errors.
package projection

import "github.com/paulmach/orb"

// Projection maps geographic coordinates to screen space.
//
// Implementations must be linear in scale and translate: for a fixed
// rotation, Project(p) = translate + scale * unit(p) where unit is the
// projection at scale 1 and translate (0, 0). FitExtent relies on this.
type Projection interface {
	// Project maps [lon, lat] degrees to screen coordinates.
	// ok is false when the coordinate is outside the projection's
	// valid domain.
	Project(p orb.Point) (x, y float64, ok bool)

	// Invert maps screen coordinates back to [lon, lat] degrees.
	// ok is false when the screen point corresponds to no geographic
	// coordinate.
	Invert(x, y float64) (orb.Point, bool)

	// Scale returns the current scale factor (pixels per unit-sphere
	// radian for the projections in this package).
	Scale() float64

	// SetScale sets the scale factor.
	SetScale(s float64)

	// Translate returns the screen offset applied after scaling.
	Translate() (x, y float64)

	// SetTranslate sets the screen offset.
	SetTranslate(x, y float64)

	// Rotate returns the rotation (center longitude and latitude in
	// degrees).
	Rotate() (lambda, phi float64)

	// SetRotate sets the rotation. Cylindrical projections use only
	// lambda; azimuthal projections use both.
	SetRotate(lambda, phi float64)
}

// Affine is implemented by projections whose screen mapping is linear in
// longitude and latitude: x = ox + sx*lon, y = oy + sy*lat. The image
// layer uses this to place rasters with a plain scale+translate instead
// of per-pixel resampling.
type Affine interface {
	AffineTransform() (sx, sy, ox, oy float64, ok bool)
}

// Outliner is implemented by projections that can describe their full
// sphere boundary in screen space. The outline layer probes for it.
type Outliner interface {
	// SphereOutline returns a closed boundary polygon in screen
	// coordinates, sampled with at least steps vertices.
	SphereOutline(steps int) [][2]float64
}

// base carries the shared scale/translate/rotate state.
type base struct {
	scale     float64
	tx, ty    float64
	rotLambda float64
	rotPhi    float64
}

func (b *base) Scale() float64                { return b.scale }
func (b *base) SetScale(s float64)            { b.scale = s }
func (b *base) Translate() (float64, float64) { return b.tx, b.ty }
func (b *base) SetTranslate(x, y float64)     { b.tx, b.ty = x, y }
func (b *base) Rotate() (float64, float64)    { return b.rotLambda, b.rotPhi }
func (b *base) SetRotate(lambda, phi float64) { b.rotLambda, b.rotPhi = lambda, phi }
