package projection

import (
	"math"

	"github.com/paulmach/orb"
)

// fitSamples is the grid resolution used to sample a bound while fitting.
const fitSamples = 16

// FitExtent adjusts the projection's scale and translate so the
// geographic bound fills the screen extent [min, max], preserving aspect
// ratio and centering the bound. The rotation is left untouched.
//
// Works for any projection in this package because screen output is
// linear in scale and translate.
func FitExtent(p Projection, min, max [2]float64, b orb.Bound) {
	p.SetScale(1)
	p.SetTranslate(0, 0)

	x0, y0 := math.Inf(1), math.Inf(1)
	x1, y1 := math.Inf(-1), math.Inf(-1)
	var any bool

	// Sample a grid across the bound; edge samples alone miss bulges on
	// curved projections.
	for i := 0; i <= fitSamples; i++ {
		for j := 0; j <= fitSamples; j++ {
			lon := b.Min[0] + (b.Max[0]-b.Min[0])*float64(i)/fitSamples
			lat := b.Min[1] + (b.Max[1]-b.Min[1])*float64(j)/fitSamples
			x, y, ok := p.Project(orb.Point{lon, lat})
			if !ok {
				continue
			}
			any = true
			x0 = math.Min(x0, x)
			y0 = math.Min(y0, y)
			x1 = math.Max(x1, x)
			y1 = math.Max(y1, y)
		}
	}
	if !any || x1 <= x0 || y1 <= y0 {
		// Nothing projectable; keep a unit setup centered on the extent.
		p.SetTranslate((min[0]+max[0])/2, (min[1]+max[1])/2)
		return
	}

	w := max[0] - min[0]
	h := max[1] - min[1]
	k := math.Min(w/(x1-x0), h/(y1-y0))
	p.SetScale(k)
	p.SetTranslate(
		min[0]+(w-k*(x1-x0))/2-k*x0,
		min[1]+(h-k*(y1-y0))/2-k*y0,
	)
}

// FitSize is FitExtent with the extent [0, 0] .. [width, height].
func FitSize(p Projection, width, height float64, b orb.Bound) {
	FitExtent(p, [2]float64{0, 0}, [2]float64{width, height}, b)
}
