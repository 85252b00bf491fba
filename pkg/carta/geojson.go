package carta

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/chorograph/carta/internal/geomutil"
	"github.com/chorograph/carta/internal/svgdom"
	"github.com/chorograph/carta/pkg/projection"
)

// GeoJSONOptions configures a GeoJSON layer.
type GeoJSONOptions struct {
	// Data is the feature collection to render.
	Data *geojson.FeatureCollection

	// PointRadius is the circle radius used for Point and MultiPoint
	// features. Defaults to 4.
	PointRadius Value[float64]

	Attrs  Attrs
	Styles Styles
}

// GeoJSONLayer renders a feature collection as SVG paths: polygons and
// lines become path elements, points become circles. It is the
// general-purpose base layer of most thematic maps (the choropleth
// carrier).
type GeoJSONLayer struct {
	BaseLayer
	data   *geojson.FeatureCollection
	radius Value[float64]
}

// NewGeoJSONLayer creates a GeoJSON layer.
func NewGeoJSONLayer(id string, opts GeoJSONOptions) *GeoJSONLayer {
	radius := opts.PointRadius
	if !radius.IsSet() {
		radius = Fixed(4.0)
	}
	return &GeoJSONLayer{
		BaseLayer: newBaseLayer(id, opts.Attrs, opts.Styles),
		data:      opts.Data,
		radius:    radius,
	}
}

// GetData returns the layer's feature collection.
func (l *GeoJSONLayer) GetData() *geojson.FeatureCollection { return l.data }

// Render builds one element per feature. Features that do not project
// under the current projection are skipped for this pass; a missing
// projection or empty data produces an empty, valid group.
func (l *GeoJSONLayer) Render(container *svgdom.Element) error {
	g := l.begin(container, "carta-geojson")
	if l.proj == nil || l.data == nil {
		return nil
	}

	for i, f := range l.data.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		switch geom := f.Geometry.(type) {
		case orb.Point, orb.MultiPoint:
			l.renderPoints(g, f, i, geom)
		default:
			var box screenBox
			d, ok := pathFromGeometry(geom, l.proj, &box)
			if !ok {
				continue
			}
			el := svgdom.New("path").SetAttr("d", d)
			l.applyValues(el, f, i)
			g.AppendChild(el)
			l.indexFeature(f, box.minX, box.minY, box.maxX, box.maxY)
		}
	}
	return nil
}

func (l *GeoJSONLayer) renderPoints(g *svgdom.Element, f *geojson.Feature, i int, geom orb.Geometry) {
	var pts []orb.Point
	switch v := geom.(type) {
	case orb.Point:
		pts = []orb.Point{v}
	case orb.MultiPoint:
		pts = v
	}

	r := l.radius.At(f, i)
	var box screenBox
	var drawn bool
	for _, pt := range pts {
		x, y, ok := l.proj.Project(pt)
		if !ok {
			continue
		}
		el := svgdom.New("circle").
			SetAttr("cx", fmtCoord(x)).
			SetAttr("cy", fmtCoord(y)).
			SetAttr("r", fmtCoord(r))
		l.applyValues(el, f, i)
		g.AppendChild(el)
		box.add(screenPoint{x, y})
		drawn = true
	}
	if drawn {
		l.indexFeature(f, box.minX-r, box.minY-r, box.maxX+r, box.maxY+r)
	}
}

// anchorFor projects the representative point of a feature: direct
// coordinate for points, averaged centroid otherwise.
func anchorFor(f *geojson.Feature, proj projection.Projection) (float64, float64, bool) {
	if f == nil || f.Geometry == nil {
		return 0, 0, false
	}
	pt, ok := geomutil.Anchor(f.Geometry)
	if !ok {
		return 0, 0, false
	}
	return proj.Project(pt)
}
