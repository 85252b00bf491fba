package projection

import (
	"math"

	"github.com/paulmach/orb"
)

// InvertOptions bounds the numeric inversion search.
type InvertOptions struct {
	// MaxIterations caps the Newton iteration count.
	MaxIterations int

	// Tolerance is the screen-space convergence threshold in pixels.
	Tolerance float64
}

// DefaultInvertOptions returns the standard inversion budget.
func DefaultInvertOptions() InvertOptions {
	return InvertOptions{
		MaxIterations: 12,
		Tolerance:     1e-6,
	}
}

// NumericInvert finds the geographic coordinate whose projection is
// (x, y) by damped Newton iteration with a finite-difference Jacobian,
// starting from seed. ok is false when the iteration leaves the
// projection's valid domain or runs out of iterations before
// converging. That is never an error: callers fall back to the
// projection's own Invert or give up on the coordinate.
func NumericInvert(p Projection, x, y float64, seed orb.Point, opts InvertOptions) (orb.Point, bool) {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultInvertOptions().MaxIterations
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultInvertOptions().Tolerance
	}

	const eps = 1e-4 // finite-difference step, degrees

	cur := seed
	for i := 0; i < opts.MaxIterations; i++ {
		fx, fy, ok := p.Project(cur)
		if !ok {
			return orb.Point{}, false
		}
		rx := fx - x
		ry := fy - y
		if math.Abs(rx) < opts.Tolerance && math.Abs(ry) < opts.Tolerance {
			return cur, true
		}

		xl, yl, ok1 := p.Project(orb.Point{cur[0] + eps, cur[1]})
		xp, yp, ok2 := p.Project(orb.Point{cur[0], clampLat(cur[1] + eps)})
		if !ok1 || !ok2 {
			return orb.Point{}, false
		}

		// Jacobian columns: d(screen)/d(lon), d(screen)/d(lat).
		a := (xl - fx) / eps
		c := (yl - fy) / eps
		b := (xp - fx) / eps
		d := (yp - fy) / eps

		det := a*d - b*c
		if math.Abs(det) < 1e-12 {
			return orb.Point{}, false
		}

		dLon := (d*rx - b*ry) / det
		dLat := (a*ry - c*rx) / det

		// Damp large steps so the iteration cannot fly off the sphere.
		const maxStep = 45.0
		dLon = math.Max(-maxStep, math.Min(maxStep, dLon))
		dLat = math.Max(-maxStep, math.Min(maxStep, dLat))

		cur = orb.Point{
			normalizeLon(cur[0] - dLon),
			clampLat(cur[1] - dLat),
		}
	}
	return orb.Point{}, false
}

func clampLat(lat float64) float64 {
	return math.Max(-90, math.Min(90, lat))
}
