package projection

import (
	"math"

	"github.com/paulmach/orb"
)

// maxMercatorLat is the latitude at which the web mercator world square
// closes: atan(sinh(pi)) in degrees.
const maxMercatorLat = 85.05112877980659

// Mercator is the spherical mercator projection. Latitudes beyond
// ±85.051° do not project (the poles map to infinity), matching the web
// mercator world square.
type Mercator struct {
	base
}

// NewMercator creates a mercator projection with a default scale of 100
// and translate (0, 0).
func NewMercator() *Mercator {
	return &Mercator{base{scale: 100}}
}

func (p *Mercator) Project(pt orb.Point) (float64, float64, bool) {
	if pt[1] < -maxMercatorLat || pt[1] > maxMercatorLat {
		return 0, 0, false
	}
	lam := normalizeLon(pt[0]-p.rotLambda) * degToRad
	phi := pt[1] * degToRad
	y := math.Log(math.Tan(math.Pi/4 + phi/2))
	return p.tx + p.scale*lam, p.ty - p.scale*y, true
}

func (p *Mercator) Invert(x, y float64) (orb.Point, bool) {
	lam := (x - p.tx) / p.scale
	my := (p.ty - y) / p.scale
	if lam < -math.Pi || lam > math.Pi || my < -math.Pi || my > math.Pi {
		return orb.Point{}, false
	}
	lat := (2*math.Atan(math.Exp(my)) - math.Pi/2) / degToRad
	lon := lam/degToRad + p.rotLambda
	return orb.Point{normalizeLon(lon), lat}, true
}

// SphereOutline implements Outliner: the mercator world is a square.
func (p *Mercator) SphereOutline(steps int) [][2]float64 {
	s := p.scale * math.Pi
	return [][2]float64{
		{p.tx - s, p.ty - s},
		{p.tx + s, p.ty - s},
		{p.tx + s, p.ty + s},
		{p.tx - s, p.ty + s},
	}
}
