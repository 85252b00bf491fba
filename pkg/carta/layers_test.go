package carta

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/chorograph/carta/internal/svgdom"
	"github.com/chorograph/carta/pkg/projection"
)

func lineFeature(coords ...orb.Point) *geojson.Feature {
	return geojson.NewFeature(orb.LineString(coords))
}

func TestCircleLayerSkipsUnprojectableFeatures(t *testing.T) {
	p := projection.NewOrthographic()
	projection.FitSize(p, 800, 600, orb.Bound{Min: orb.Point{-90, -90}, Max: orb.Point{90, 90}})

	// Two points on the near hemisphere, one on the far side.
	l := NewCircleLayer("c", CircleOptions{
		Data: pointCollection(orb.Point{0, 0}, orb.Point{30, 30}, orb.Point{170, 0}),
	})
	l.SetProjection(p)
	root := svgdom.New("g")
	if err := l.Render(root); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := l.node().ChildCount(); got != 2 {
		t.Fatalf("got %d symbols, want 2 (far-side point excluded)", got)
	}
}

func TestCircleLayerAnchorsPolygonsAtCentroid(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Polygon{{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}}))
	l := NewCircleLayer("c", CircleOptions{Data: fc})

	m := worldMap(t)
	if err := m.AddLayer(l); err != nil {
		t.Fatalf("AddLayer: %v", err)
	}
	if got := l.node().ChildCount(); got != 1 {
		t.Fatalf("got %d symbols, want 1", got)
	}
	if l.node().Child(0).Tag() != "circle" {
		t.Fatalf("got %q, want circle", l.node().Child(0).Tag())
	}
}

func TestTextLayerSkipsEmptyLabels(t *testing.T) {
	fc := pointCollection(orb.Point{0, 0}, orb.Point{10, 10})
	fc.Features[0].Properties = geojson.Properties{"name": "Accra"}
	fc.Features[1].Properties = geojson.Properties{}

	l := NewTextLayer("t", TextOptions{
		Data: fc,
		Text: Computed(func(f *geojson.Feature, _ int) string {
			return f.Properties.MustString("name", "")
		}),
	})
	m := worldMap(t)
	if err := m.AddLayer(l); err != nil {
		t.Fatalf("AddLayer: %v", err)
	}
	if got := l.node().ChildCount(); got != 1 {
		t.Fatalf("got %d labels, want 1", got)
	}
	if got := l.node().Child(0).Text(); got != "Accra" {
		t.Fatalf("label %q, want Accra", got)
	}
}

func TestSpikeLayerKiteGeometry(t *testing.T) {
	l := NewSpikeLayer("s", SpikeOptions{
		Data:   pointCollection(orb.Point{0, 0}),
		Length: Fixed(20.0),
		Width:  Fixed(6.0),
	})
	m := worldMap(t)
	if err := m.AddLayer(l); err != nil {
		t.Fatalf("AddLayer: %v", err)
	}
	d := l.node().Child(0).Attr("d")
	if !strings.HasPrefix(d, "M") || !strings.HasSuffix(d, "Z") {
		t.Fatalf("spike path %q is not a closed path", d)
	}
	// A kite is anchor, two side vertices and a tip.
	if got := strings.Count(d, "L"); got != 3 {
		t.Fatalf("spike path has %d line segments, want 3", got)
	}
}

func TestConnectionRejectsNonLineGeometry(t *testing.T) {
	fc := pointCollection(orb.Point{0, 0})
	_, err := NewConnectionLayer("flows", ConnectionOptions{Data: fc})
	if err == nil {
		t.Fatal("expected geometry error")
	}
	ge, ok := err.(*ErrInvalidGeometry)
	if !ok {
		t.Fatalf("got %T, want *ErrInvalidGeometry", err)
	}
	if ge.Index != 0 || ge.Got != "Point" {
		t.Fatalf("error details %+v", ge)
	}
}

func TestConnectionZeroArcHeightEqualsStraight(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(lineFeature(orb.Point{0, 0}, orb.Point{40, 20}))

	straight, err := NewConnectionLayer("a", ConnectionOptions{Data: fc, LineType: LineStraight})
	if err != nil {
		t.Fatalf("straight: %v", err)
	}
	arc, err := NewConnectionLayer("b", ConnectionOptions{
		Data: fc, LineType: LineArc, ArcHeight: Computed(func(*geojson.Feature, int) float64 { return 0 }),
	})
	if err != nil {
		t.Fatalf("arc: %v", err)
	}

	m := worldMap(t)
	if err := m.AddLayer(straight); err != nil {
		t.Fatalf("AddLayer: %v", err)
	}
	if err := m.AddLayer(arc); err != nil {
		t.Fatalf("AddLayer: %v", err)
	}

	sd := straight.node().Child(0).Attr("d")
	ad := arc.node().Child(0).Attr("d")

	// The arc's control point must lie on the chord midpoint: same
	// endpoints, control point exactly between them.
	sparts := strings.Split(strings.TrimPrefix(sd, "M"), "L")
	if len(sparts) != 2 {
		t.Fatalf("straight path %q", sd)
	}
	if !strings.HasPrefix(ad, "M"+sparts[0]+"Q") || !strings.HasSuffix(ad, " "+sparts[1]) {
		t.Fatalf("zero-height arc %q does not share endpoints with straight %q", ad, sd)
	}
}

func TestConnectionArrowMarkers(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(lineFeature(orb.Point{0, 0}, orb.Point{10, 10}))
	l, err := NewConnectionLayer("flows", ConnectionOptions{Data: fc, ArrowEnd: true})
	if err != nil {
		t.Fatalf("NewConnectionLayer: %v", err)
	}
	m := worldMap(t)
	if err := m.AddLayer(l); err != nil {
		t.Fatalf("AddLayer: %v", err)
	}
	marker := l.node().FindByAttr("id", "carta-arrow-flows")
	if marker == nil {
		t.Fatal("arrow marker def missing")
	}
	path := l.node().FindByAttr("marker-end", "url(#carta-arrow-flows)")
	if path == nil {
		t.Fatal("connection path lacks marker-end reference")
	}
}

func TestLineTextPositionAndRotation(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(lineFeature(orb.Point{0, 0}, orb.Point{40, 0}))

	along, err := NewLineTextLayer("route", LineTextOptions{
		Data:   fc,
		Text:   Fixed("E40"),
		Anchor: AnchorMiddle,
	})
	if err != nil {
		t.Fatalf("NewLineTextLayer: %v", err)
	}
	m := worldMap(t)
	if err := m.AddLayer(along); err != nil {
		t.Fatalf("AddLayer: %v", err)
	}
	el := along.node().Child(0)
	if el.Tag() != "text" || el.Text() != "E40" {
		t.Fatalf("unexpected element %s %q", el.Tag(), el.Text())
	}
	// An equator-aligned line under an equirectangular projection is
	// horizontal, so the rotation must be zero.
	tr := el.Attr("transform")
	if !strings.Contains(tr, "rotate(0)") {
		t.Fatalf("transform %q, want zero rotation", tr)
	}
}

func TestLineTextRejectsNonLineGeometry(t *testing.T) {
	if _, err := NewLineTextLayer("x", LineTextOptions{Data: pointCollection(orb.Point{0, 0})}); err == nil {
		t.Fatal("expected geometry error")
	}
}

func TestAnnotationOffsetAndConnector(t *testing.T) {
	l := NewAnnotationLayer("notes", AnnotationOptions{
		Data: pointCollection(orb.Point{0, 0}),
		Text: Fixed("capital"),
	})
	m := worldMap(t)
	if err := m.AddLayer(l); err != nil {
		t.Fatalf("AddLayer: %v", err)
	}
	g := l.node()
	var hasLine, hasText bool
	for _, el := range g.Children() {
		for _, sub := range append([]*svgdom.Element{el}, el.Children()...) {
			switch sub.Tag() {
			case "line":
				hasLine = true
			case "text":
				hasText = true
			}
		}
	}
	if !hasLine || !hasText {
		t.Fatalf("annotation missing connector (%v) or label (%v)", hasLine, hasText)
	}
}

func TestOutlineLayerOrthographic(t *testing.T) {
	p := projection.NewOrthographic()
	projection.FitSize(p, 800, 600, orb.Bound{Min: orb.Point{-90, -90}, Max: orb.Point{90, 90}})

	l := NewOutlineLayer("sphere", OutlineOptions{ClipID: "globe-clip"})
	l.SetProjection(p)
	root := svgdom.New("g")
	if err := l.Render(root); err != nil {
		t.Fatalf("Render: %v", err)
	}
	path := l.node().Child(0)
	if path.Tag() != "path" || !strings.HasSuffix(path.Attr("d"), "Z") {
		t.Fatalf("outline is not a closed path: %s %q", path.Tag(), path.Attr("d"))
	}
	if l.node().FindByAttr("id", "globe-clip") == nil {
		t.Fatal("clipPath def missing")
	}
}

func TestGraticuleLineCounts(t *testing.T) {
	l := NewGraticuleLayer("grid", GraticuleOptions{Step: [2]float64{30, 30}})
	m := worldMap(t)
	if err := m.AddLayer(l); err != nil {
		t.Fatalf("AddLayer: %v", err)
	}
	// 13 meridians (-180..180 every 30) plus 6 parallels
	// (-85..85 every 30 starting at -85).
	if got := l.node().ChildCount(); got != 19 {
		t.Fatalf("got %d graticule paths, want 19", got)
	}
}

func TestGraticuleSplitsOnFarHemisphere(t *testing.T) {
	p := projection.NewOrthographic()
	projection.FitSize(p, 800, 600, orb.Bound{Min: orb.Point{-90, -90}, Max: orb.Point{90, 90}})

	l := NewGraticuleLayer("grid", GraticuleOptions{Step: [2]float64{30, 30}})
	l.SetProjection(p)
	root := svgdom.New("g")
	if err := l.Render(root); err != nil {
		t.Fatalf("Render: %v", err)
	}
	// The equator wraps the globe: its visible portion still renders
	// while far-side meridians drop out entirely.
	if got := l.node().ChildCount(); got == 0 || got >= 19 {
		t.Fatalf("got %d paths, want a strict subset of the full grid", got)
	}
}
