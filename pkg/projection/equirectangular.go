package projection

import (
	"math"

	"github.com/paulmach/orb"
)

const degToRad = math.Pi / 180

// Equirectangular is the plate carrée projection: longitude and latitude
// map linearly to x and y. It is the cheapest projection and the only
// one here with a pixel-linear mapping, which enables the image layer's
// fast path.
type Equirectangular struct {
	base
}

// NewEquirectangular creates an equirectangular projection with a
// default scale of 100 and translate (0, 0).
func NewEquirectangular() *Equirectangular {
	return &Equirectangular{base{scale: 100}}
}

func (p *Equirectangular) Project(pt orb.Point) (float64, float64, bool) {
	lam := normalizeLon(pt[0]-p.rotLambda) * degToRad
	phi := pt[1] * degToRad
	return p.tx + p.scale*lam, p.ty - p.scale*phi, true
}

func (p *Equirectangular) Invert(x, y float64) (orb.Point, bool) {
	lon := (x-p.tx)/p.scale/degToRad + p.rotLambda
	lat := -(y - p.ty) / p.scale / degToRad
	if lat < -90 || lat > 90 {
		return orb.Point{}, false
	}
	return orb.Point{normalizeLon(lon), lat}, true
}

// AffineTransform implements Affine. The mapping ignores longitude
// wrapping, so it only holds for bounds that do not cross the antimeridian
// relative to the rotation; callers pass bounds in that form.
func (p *Equirectangular) AffineTransform() (sx, sy, ox, oy float64, ok bool) {
	sx = p.scale * degToRad
	sy = -p.scale * degToRad
	ox = p.tx - sx*p.rotLambda
	oy = p.ty
	return sx, sy, ox, oy, true
}

// SphereOutline implements Outliner: the projected world is a 2:1
// rectangle centered on the translate point.
func (p *Equirectangular) SphereOutline(steps int) [][2]float64 {
	w := p.scale * math.Pi
	h := p.scale * math.Pi / 2
	return [][2]float64{
		{p.tx - w, p.ty - h},
		{p.tx + w, p.ty - h},
		{p.tx + w, p.ty + h},
		{p.tx - w, p.ty + h},
	}
}

// normalizeLon wraps a longitude into [-180, 180).
func normalizeLon(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}
