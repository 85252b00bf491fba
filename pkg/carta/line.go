package carta

import (
	"math"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/chorograph/carta/internal/geomutil"
	"github.com/chorograph/carta/internal/svgdom"
)

// LineType selects how a connection is drawn between its endpoints.
type LineType string

const (
	// LineStraight draws the direct segment.
	LineStraight LineType = "straight"

	// LineArc draws a quadratic curve bowed away from the chord.
	LineArc LineType = "arc"

	// LineSmooth interpolates a curve through all intermediate
	// vertices.
	LineSmooth LineType = "smooth"
)

// ArcDirection controls which way an arc bows away from its chord.
type ArcDirection string

const (
	// ArcPerpendicular bows perpendicular to the chord (the default).
	ArcPerpendicular ArcDirection = "perpendicular"
	ArcNorth         ArcDirection = "north"
	ArcSouth         ArcDirection = "south"
	ArcEast          ArcDirection = "east"
	ArcWest          ArcDirection = "west"
)

// ControlPoint controls where along the chord the arc's control point
// sits before the bow offset is applied.
type ControlPoint string

const (
	// ControlCenter places the control point at the chord midpoint.
	ControlCenter ControlPoint = "center"

	// ControlWeighted places it at the Weight fraction along the chord.
	ControlWeighted ControlPoint = "weighted"
)

// ConnectionOptions configures a line-connection layer.
type ConnectionOptions struct {
	// Data must contain LineString (or MultiLineString) features; the
	// first and last coordinates are the connection endpoints. Anything
	// else fails construction.
	Data *geojson.FeatureCollection

	// LineType defaults to LineStraight.
	LineType LineType

	// ArcHeight is the bow offset in pixels for LineArc. Defaults to a
	// quarter of the chord length when unset.
	ArcHeight Value[float64]

	// ArcDirection defaults to ArcPerpendicular.
	ArcDirection ArcDirection

	// ControlPoint defaults to ControlCenter.
	ControlPoint ControlPoint

	// Weight is the chord fraction for ControlWeighted. Defaults to 0.5.
	Weight float64

	// ArrowStart and ArrowEnd attach arrowhead markers.
	ArrowStart bool
	ArrowEnd   bool

	Attrs  Attrs
	Styles Styles
}

// ConnectionLayer draws origin-destination connections (flow maps).
type ConnectionLayer struct {
	BaseLayer
	data *geojson.FeatureCollection
	opts ConnectionOptions
}

// NewConnectionLayer creates a connection layer. Features with
// non-line geometry fail construction immediately: wrong input shape is
// a programmer error, not a render-time condition.
func NewConnectionLayer(id string, opts ConnectionOptions) (*ConnectionLayer, error) {
	if opts.Data != nil {
		for i, f := range opts.Data.Features {
			if f == nil || f.Geometry == nil {
				continue
			}
			if !geomutil.IsLineGeometry(f.Geometry) {
				return nil, &ErrInvalidGeometry{
					LayerID: id,
					Index:   i,
					Want:    "LineString",
					Got:     string(f.Geometry.GeoJSONType()),
				}
			}
		}
	}
	if opts.LineType == "" {
		opts.LineType = LineStraight
	}
	if opts.ArcDirection == "" {
		opts.ArcDirection = ArcPerpendicular
	}
	if opts.ControlPoint == "" {
		opts.ControlPoint = ControlCenter
	}
	if opts.Weight == 0 {
		opts.Weight = 0.5
	}
	return &ConnectionLayer{
		BaseLayer: newBaseLayer(id, opts.Attrs, opts.Styles),
		data:      opts.Data,
		opts:      opts,
	}, nil
}

// GetData returns the layer's feature collection.
func (l *ConnectionLayer) GetData() *geojson.FeatureCollection { return l.data }

// markerID returns the id of the layer's arrowhead marker def.
func (l *ConnectionLayer) markerID() string { return "carta-arrow-" + l.id }

// Render draws one path per connection whose endpoints both project.
func (l *ConnectionLayer) Render(container *svgdom.Element) error {
	g := l.begin(container, "carta-connection")
	if l.proj == nil || l.data == nil {
		return nil
	}

	if l.opts.ArrowStart || l.opts.ArrowEnd {
		g.AppendChild(l.arrowDefs())
	}

	for i, f := range l.data.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		start, end, ok := geomutil.LineEndpoints(f.Geometry)
		if !ok {
			continue
		}
		x0, y0, ok0 := l.proj.Project(start)
		x1, y1, ok1 := l.proj.Project(end)
		if !ok0 || !ok1 {
			continue
		}

		var d string
		switch l.opts.LineType {
		case LineArc:
			d = l.arcPath(screenPoint{x0, y0}, screenPoint{x1, y1}, f, i)
		case LineSmooth:
			d = l.smoothPath(f, screenPoint{x0, y0}, screenPoint{x1, y1})
		default:
			d = "M" + fmtCoord(x0) + "," + fmtCoord(y0) +
				"L" + fmtCoord(x1) + "," + fmtCoord(y1)
		}

		el := svgdom.New("path").
			SetAttr("d", d).
			SetAttr("fill", "none")
		if l.opts.ArrowStart {
			el.SetAttr("marker-start", "url(#"+l.markerID()+")")
		}
		if l.opts.ArrowEnd {
			el.SetAttr("marker-end", "url(#"+l.markerID()+")")
		}
		l.applyValues(el, f, i)
		g.AppendChild(el)
		l.indexFeature(f, min(x0, x1), min(y0, y1), max(x0, x1), max(y0, y1))
	}
	return nil
}

// arrowDefs builds the reusable arrowhead marker definition.
func (l *ConnectionLayer) arrowDefs() *svgdom.Element {
	defs := svgdom.New("defs")
	marker := svgdom.New("marker").
		SetAttr("id", l.markerID()).
		SetAttr("viewBox", "0 0 10 10").
		SetAttr("refX", "9").
		SetAttr("refY", "5").
		SetAttr("markerWidth", "7").
		SetAttr("markerHeight", "7").
		SetAttr("orient", "auto-start-reverse")
	marker.AppendChild(svgdom.New("path").
		SetAttr("d", "M0,0L10,5L0,10Z").
		SetAttr("fill", "currentColor"))
	defs.AppendChild(marker)
	return defs
}

// arcPath builds a quadratic curve from a to b. The control point sits
// on the chord (at the midpoint or a weighted fraction) and is pushed
// off by the arc height in the configured direction. A zero arc height
// leaves the control point on the chord, which degenerates to the
// straight segment.
func (l *ConnectionLayer) arcPath(a, b screenPoint, f *geojson.Feature, i int) string {
	t := 0.5
	if l.opts.ControlPoint == ControlWeighted {
		t = l.opts.Weight
	}
	cx := a.x + (b.x-a.x)*t
	cy := a.y + (b.y-a.y)*t

	chord := math.Hypot(b.x-a.x, b.y-a.y)
	height := chord / 4
	if l.opts.ArcHeight.IsSet() {
		height = l.opts.ArcHeight.At(f, i)
	}

	var ox, oy float64
	switch l.opts.ArcDirection {
	case ArcNorth:
		ox, oy = 0, -1
	case ArcSouth:
		ox, oy = 0, 1
	case ArcEast:
		ox, oy = 1, 0
	case ArcWest:
		ox, oy = -1, 0
	default:
		if chord > 0 {
			ox = -(b.y - a.y) / chord
			oy = (b.x - a.x) / chord
		}
	}
	cx += ox * height
	cy += oy * height

	return "M" + fmtCoord(a.x) + "," + fmtCoord(a.y) +
		"Q" + fmtCoord(cx) + "," + fmtCoord(cy) +
		" " + fmtCoord(b.x) + "," + fmtCoord(b.y)
}

// smoothPath interpolates a quadratic curve through the feature's
// projected intermediate vertices: each vertex becomes a control point
// and the curve passes through the midpoints between vertices. With no
// intermediate vertices it degenerates to the straight segment.
func (l *ConnectionLayer) smoothPath(f *geojson.Feature, a, b screenPoint) string {
	pts := l.projectedVertices(f)
	if len(pts) < 3 {
		return "M" + fmtCoord(a.x) + "," + fmtCoord(a.y) +
			"L" + fmtCoord(b.x) + "," + fmtCoord(b.y)
	}

	var sb strings.Builder
	sb.WriteString("M" + fmtCoord(pts[0].x) + "," + fmtCoord(pts[0].y))
	for i := 1; i < len(pts)-1; i++ {
		mx := (pts[i].x + pts[i+1].x) / 2
		my := (pts[i].y + pts[i+1].y) / 2
		if i == len(pts)-2 {
			mx, my = pts[i+1].x, pts[i+1].y
		}
		sb.WriteString("Q" + fmtCoord(pts[i].x) + "," + fmtCoord(pts[i].y) +
			" " + fmtCoord(mx) + "," + fmtCoord(my))
	}
	return sb.String()
}

func (l *ConnectionLayer) projectedVertices(f *geojson.Feature) []screenPoint {
	var coords []orb.Point
	switch v := f.Geometry.(type) {
	case orb.LineString:
		coords = v
	case orb.MultiLineString:
		for _, ls := range v {
			coords = append(coords, ls...)
		}
	}
	var pts []screenPoint
	for _, c := range coords {
		if x, y, ok := l.proj.Project(c); ok {
			pts = append(pts, screenPoint{x, y})
		}
	}
	return pts
}

// Anchor names a position along a line for label placement.
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// Placement selects how line labels are oriented.
type Placement string

const (
	// PlacementAlong rotates the label to the local line direction.
	PlacementAlong Placement = "along"

	// PlacementHorizontal keeps the label horizontal.
	PlacementHorizontal Placement = "horizontal"
)

// LineTextOptions configures a line-text layer.
type LineTextOptions struct {
	// Data must contain LineString (or MultiLineString) features.
	Data *geojson.FeatureCollection

	// Text derives the label per feature. Features with empty derived
	// text are skipped.
	Text Value[string]

	// Position places the label as a fraction of total line length in
	// [0, 1]. Ignored when Anchor is set.
	Position float64

	// Anchor places the label at a named position instead of a
	// fraction.
	Anchor Anchor

	// Placement defaults to PlacementAlong.
	Placement Placement

	// FontSize in pixels. Defaults to 11.
	FontSize Value[float64]

	Attrs  Attrs
	Styles Styles
}

// LineTextLayer places a label along each line feature.
type LineTextLayer struct {
	BaseLayer
	data *geojson.FeatureCollection
	opts LineTextOptions
}

// NewLineTextLayer creates a line-text layer. Non-line geometry fails
// construction immediately.
func NewLineTextLayer(id string, opts LineTextOptions) (*LineTextLayer, error) {
	if opts.Data != nil {
		for i, f := range opts.Data.Features {
			if f == nil || f.Geometry == nil {
				continue
			}
			if !geomutil.IsLineGeometry(f.Geometry) {
				return nil, &ErrInvalidGeometry{
					LayerID: id,
					Index:   i,
					Want:    "LineString",
					Got:     string(f.Geometry.GeoJSONType()),
				}
			}
		}
	}
	if opts.Placement == "" {
		opts.Placement = PlacementAlong
	}
	if !opts.FontSize.IsSet() {
		opts.FontSize = Fixed(11.0)
	}
	return &LineTextLayer{
		BaseLayer: newBaseLayer(id, opts.Attrs, opts.Styles),
		data:      opts.Data,
		opts:      opts,
	}, nil
}

// GetData returns the layer's feature collection.
func (l *LineTextLayer) GetData() *geojson.FeatureCollection { return l.data }

// Render places one label per line feature whose placement point
// projects.
func (l *LineTextLayer) Render(container *svgdom.Element) error {
	g := l.begin(container, "carta-linetext")
	if l.proj == nil || l.data == nil {
		return nil
	}

	position := l.opts.Position
	switch l.opts.Anchor {
	case AnchorStart:
		position = 0
	case AnchorMiddle:
		position = 0.5
	case AnchorEnd:
		position = 1
	}
	position = math.Max(0, math.Min(1, position))

	for i, f := range l.data.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		label := l.opts.Text.At(f, i)
		if label == "" {
			continue
		}
		pts := l.projectedLine(f)
		if len(pts) < 2 {
			continue
		}

		x, y, angle := pointAlong(pts, position)

		el := svgdom.New("text").
			SetAttr("font-size", fmtCoord(l.opts.FontSize.At(f, i))).
			SetAttr("text-anchor", "middle").
			SetText(label)
		if l.opts.Placement == PlacementAlong {
			el.SetAttr("transform",
				"translate("+fmtCoord(x)+","+fmtCoord(y)+") rotate("+fmtCoord(angle)+")")
		} else {
			el.SetAttr("x", fmtCoord(x)).SetAttr("y", fmtCoord(y))
		}
		l.applyValues(el, f, i)
		g.AppendChild(el)
		l.indexFeature(f, x-20, y-10, x+20, y+10)
	}
	return nil
}

func (l *LineTextLayer) projectedLine(f *geojson.Feature) []screenPoint {
	var coords orb.LineString
	switch v := f.Geometry.(type) {
	case orb.LineString:
		coords = v
	case orb.MultiLineString:
		for _, ls := range v {
			coords = append(coords, ls...)
		}
	}
	var pts []screenPoint
	for _, c := range coords {
		if x, y, ok := l.proj.Project(c); ok {
			pts = append(pts, screenPoint{x, y})
		}
	}
	return pts
}

// pointAlong walks the polyline to the given fraction of its total
// length and returns the position plus the local tangent angle in
// degrees. Angles are kept in (-90, 90] so labels never render upside
// down.
func pointAlong(pts []screenPoint, t float64) (x, y, angle float64) {
	var total float64
	for i := 1; i < len(pts); i++ {
		total += math.Hypot(pts[i].x-pts[i-1].x, pts[i].y-pts[i-1].y)
	}
	if total == 0 {
		return pts[0].x, pts[0].y, 0
	}

	target := total * t
	var walked float64
	for i := 1; i < len(pts); i++ {
		seg := math.Hypot(pts[i].x-pts[i-1].x, pts[i].y-pts[i-1].y)
		if walked+seg >= target || i == len(pts)-1 {
			frac := 0.0
			if seg > 0 {
				frac = (target - walked) / seg
				frac = math.Max(0, math.Min(1, frac))
			}
			x = pts[i-1].x + (pts[i].x-pts[i-1].x)*frac
			y = pts[i-1].y + (pts[i].y-pts[i-1].y)*frac
			angle = math.Atan2(pts[i].y-pts[i-1].y, pts[i].x-pts[i-1].x) * 180 / math.Pi
			if angle > 90 {
				angle -= 180
			} else if angle <= -90 {
				angle += 180
			}
			return x, y, angle
		}
		walked += seg
	}
	last := pts[len(pts)-1]
	return last.x, last.y, 0
}
