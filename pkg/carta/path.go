package carta

import (
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/chorograph/carta/pkg/projection"
)

// fmtCoord renders a screen coordinate with at most two decimals.
// Sub-hundredth precision is invisible at screen resolution and shorter
// path data keeps serialized maps small.
func fmtCoord(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

type screenPoint struct {
	x, y float64
}

// screenBox accumulates a screen-space bounding box.
type screenBox struct {
	minX, minY float64
	maxX, maxY float64
	any        bool
}

func (b *screenBox) add(p screenPoint) {
	if !b.any {
		b.minX, b.maxX = p.x, p.x
		b.minY, b.maxY = p.y, p.y
		b.any = true
		return
	}
	b.minX = math.Min(b.minX, p.x)
	b.maxX = math.Max(b.maxX, p.x)
	b.minY = math.Min(b.minY, p.y)
	b.maxY = math.Max(b.maxY, p.y)
}

// projectLine projects a coordinate sequence and splits it into
// segments wherever a vertex does not project. Unprojectable vertices
// are routine on globe-style projections, not errors.
func projectLine(pts []orb.Point, proj projection.Projection, box *screenBox) [][]screenPoint {
	var segments [][]screenPoint
	var cur []screenPoint
	for _, pt := range pts {
		x, y, ok := proj.Project(pt)
		if !ok {
			if len(cur) > 1 {
				segments = append(segments, cur)
			}
			cur = nil
			continue
		}
		sp := screenPoint{x, y}
		cur = append(cur, sp)
		if box != nil {
			box.add(sp)
		}
	}
	if len(cur) > 1 {
		segments = append(segments, cur)
	}
	return segments
}

// appendSegments writes move-line path data for the segments, closing
// each one when closed is set.
func appendSegments(sb *strings.Builder, segments [][]screenPoint, closed bool) {
	for _, seg := range segments {
		for i, p := range seg {
			if i == 0 {
				sb.WriteByte('M')
			} else {
				sb.WriteByte('L')
			}
			sb.WriteString(fmtCoord(p.x))
			sb.WriteByte(',')
			sb.WriteString(fmtCoord(p.y))
		}
		if closed {
			sb.WriteByte('Z')
		}
	}
}

// pathFromGeometry converts any geometry into SVG path data under the
// projection. ok is false when nothing projects (the feature is skipped
// for this pass). Point geometries produce no path data; point layers
// handle them with dedicated symbols, and the GeoJSON layer draws them
// as circles.
func pathFromGeometry(g orb.Geometry, proj projection.Projection, box *screenBox) (string, bool) {
	var sb strings.Builder
	switch v := g.(type) {
	case orb.LineString:
		appendSegments(&sb, projectLine(v, proj, box), false)
	case orb.MultiLineString:
		for _, ls := range v {
			appendSegments(&sb, projectLine(ls, proj, box), false)
		}
	case orb.Ring:
		appendSegments(&sb, projectLine(v, proj, box), true)
	case orb.Polygon:
		for _, ring := range v {
			appendSegments(&sb, projectLine(ring, proj, box), true)
		}
	case orb.MultiPolygon:
		for _, poly := range v {
			for _, ring := range poly {
				appendSegments(&sb, projectLine(ring, proj, box), true)
			}
		}
	case orb.Collection:
		for _, sub := range v {
			d, ok := pathFromGeometry(sub, proj, box)
			if ok {
				sb.WriteString(d)
			}
		}
	default:
		return "", false
	}
	if sb.Len() == 0 {
		return "", false
	}
	return sb.String(), true
}
