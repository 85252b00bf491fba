package projection

import (
	"math"

	"github.com/paulmach/orb"
)

// Orthographic projects the globe as seen from infinite distance.
// Coordinates on the far hemisphere do not project; callers skip them.
// The rotation sets the view center: SetRotate(lambda, phi) centers the
// view on [lambda, phi].
type Orthographic struct {
	base
}

// NewOrthographic creates an orthographic projection with a default
// scale of 100, translate (0, 0) and the view centered on [0, 0].
func NewOrthographic() *Orthographic {
	return &Orthographic{base{scale: 100}}
}

func (p *Orthographic) Project(pt orb.Point) (float64, float64, bool) {
	lam := normalizeLon(pt[0]-p.rotLambda) * degToRad
	phi := pt[1] * degToRad
	phi0 := p.rotPhi * degToRad

	sinPhi, cosPhi := math.Sincos(phi)
	sinPhi0, cosPhi0 := math.Sincos(phi0)
	cosLam := math.Cos(lam)

	// Angular distance from the view center; negative means the point
	// is on the far hemisphere.
	cosC := sinPhi0*sinPhi + cosPhi0*cosPhi*cosLam
	if cosC < 0 {
		return 0, 0, false
	}

	x := p.tx + p.scale*cosPhi*math.Sin(lam)
	y := p.ty - p.scale*(cosPhi0*sinPhi-sinPhi0*cosPhi*cosLam)
	return x, y, true
}

func (p *Orthographic) Invert(x, y float64) (orb.Point, bool) {
	dx := (x - p.tx) / p.scale
	dy := (p.ty - y) / p.scale
	rho := math.Hypot(dx, dy)
	if rho > 1 {
		return orb.Point{}, false
	}
	c := math.Asin(rho)
	sinC, cosC := math.Sincos(c)
	phi0 := p.rotPhi * degToRad
	sinPhi0, cosPhi0 := math.Sincos(phi0)

	var phi, lam float64
	if rho == 0 {
		phi = phi0
		lam = 0
	} else {
		phi = math.Asin(cosC*sinPhi0 + dy*sinC*cosPhi0/rho)
		lam = math.Atan2(dx*sinC, rho*cosC*cosPhi0-dy*sinC*sinPhi0)
	}

	lon := lam/degToRad + p.rotLambda
	return orb.Point{normalizeLon(lon), phi / degToRad}, true
}

// SphereOutline implements Outliner: the visible globe is a circle of
// radius scale around the translate point.
func (p *Orthographic) SphereOutline(steps int) [][2]float64 {
	if steps < 8 {
		steps = 8
	}
	out := make([][2]float64, 0, steps)
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		out = append(out, [2]float64{
			p.tx + p.scale*math.Cos(a),
			p.ty + p.scale*math.Sin(a),
		})
	}
	return out
}
