package carta

import (
	"strings"

	"github.com/paulmach/orb"

	"github.com/chorograph/carta/internal/svgdom"
)

// GraticuleOptions configures a graticule layer.
type GraticuleOptions struct {
	// Step is the [longitude, latitude] spacing in degrees between
	// lines. Defaults to [10, 10].
	Step [2]float64

	Attrs  Attrs
	Styles Styles
}

// graticuleLatLimit keeps graticule lines inside the range every
// supported projection can handle.
const graticuleLatLimit = 85.0

// graticuleDensify is the vertex spacing in degrees along each line.
// Dense enough that curved projections stay smooth.
const graticuleDensify = 2.5

// GraticuleLayer draws a grid of meridians and parallels. The lines
// are generated, not supplied: the layer carries no feature data.
type GraticuleLayer struct {
	BaseLayer
	opts GraticuleOptions
}

// NewGraticuleLayer creates a graticule layer.
func NewGraticuleLayer(id string, opts GraticuleOptions) *GraticuleLayer {
	if opts.Step[0] <= 0 {
		opts.Step[0] = 10
	}
	if opts.Step[1] <= 0 {
		opts.Step[1] = 10
	}
	return &GraticuleLayer{
		BaseLayer: newBaseLayer(id, opts.Attrs, opts.Styles),
		opts:      opts,
	}
}

// Render draws every meridian and parallel as one path, splitting
// segments wherever the projection rejects a vertex.
func (l *GraticuleLayer) Render(container *svgdom.Element) error {
	g := l.begin(container, "carta-graticule")
	if l.proj == nil {
		return nil
	}

	for _, line := range graticuleLines(l.opts.Step) {
		segs := projectLine(line, l.proj, nil)
		if len(segs) == 0 {
			continue
		}
		var sb strings.Builder
		appendSegments(&sb, segs, false)
		if sb.Len() == 0 {
			continue
		}
		el := svgdom.New("path").
			SetAttr("d", sb.String()).
			SetAttr("fill", "none")
		l.applyValues(el, nil, 0)
		g.AppendChild(el)
	}
	return nil
}

// graticuleLines generates the meridian and parallel line strings in
// geographic coordinates.
func graticuleLines(step [2]float64) []orb.LineString {
	var lines []orb.LineString

	for lon := -180.0; lon <= 180; lon += step[0] {
		var ls orb.LineString
		for lat := -graticuleLatLimit; lat <= graticuleLatLimit; lat += graticuleDensify {
			ls = append(ls, orb.Point{lon, lat})
		}
		lines = append(lines, ls)
	}

	for lat := -graticuleLatLimit; lat <= graticuleLatLimit; lat += step[1] {
		var ls orb.LineString
		for lon := -180.0; lon <= 180; lon += graticuleDensify {
			ls = append(ls, orb.Point{lon, lat})
		}
		lines = append(lines, ls)
	}
	return lines
}
