package carta

import (
	"github.com/paulmach/orb/geojson"

	"github.com/chorograph/carta/internal/svgdom"
)

// CircleOptions configures a point-circle layer.
type CircleOptions struct {
	Data *geojson.FeatureCollection

	// Radius per feature. Defaults to 5.
	Radius Value[float64]

	Attrs  Attrs
	Styles Styles
}

// CircleLayer draws one circle per feature at the feature's anchor
// point (proportional-symbol maps).
type CircleLayer struct {
	BaseLayer
	data   *geojson.FeatureCollection
	radius Value[float64]
}

// NewCircleLayer creates a point-circle layer.
func NewCircleLayer(id string, opts CircleOptions) *CircleLayer {
	radius := opts.Radius
	if !radius.IsSet() {
		radius = Fixed(5.0)
	}
	return &CircleLayer{
		BaseLayer: newBaseLayer(id, opts.Attrs, opts.Styles),
		data:      opts.Data,
		radius:    radius,
	}
}

// GetData returns the layer's feature collection.
func (l *CircleLayer) GetData() *geojson.FeatureCollection { return l.data }

// Render draws one circle per projectable feature.
func (l *CircleLayer) Render(container *svgdom.Element) error {
	g := l.begin(container, "carta-circle")
	if l.proj == nil || l.data == nil {
		return nil
	}
	for i, f := range l.data.Features {
		x, y, ok := anchorFor(f, l.proj)
		if !ok {
			continue
		}
		r := l.radius.At(f, i)
		el := svgdom.New("circle").
			SetAttr("cx", fmtCoord(x)).
			SetAttr("cy", fmtCoord(y)).
			SetAttr("r", fmtCoord(r))
		l.applyValues(el, f, i)
		g.AppendChild(el)
		l.indexFeature(f, x-r, y-r, x+r, y+r)
	}
	return nil
}

// TextOptions configures a point-text layer.
type TextOptions struct {
	Data *geojson.FeatureCollection

	// Text derives the label per feature. Features with empty derived
	// text are skipped.
	Text Value[string]

	// FontSize in pixels. Defaults to 11.
	FontSize Value[float64]

	Attrs  Attrs
	Styles Styles
}

// TextLayer places one label per feature at the feature's anchor point.
type TextLayer struct {
	BaseLayer
	data     *geojson.FeatureCollection
	text     Value[string]
	fontSize Value[float64]
}

// NewTextLayer creates a point-text layer.
func NewTextLayer(id string, opts TextOptions) *TextLayer {
	size := opts.FontSize
	if !size.IsSet() {
		size = Fixed(11.0)
	}
	return &TextLayer{
		BaseLayer: newBaseLayer(id, opts.Attrs, opts.Styles),
		data:      opts.Data,
		text:      opts.Text,
		fontSize:  size,
	}
}

// GetData returns the layer's feature collection.
func (l *TextLayer) GetData() *geojson.FeatureCollection { return l.data }

// Render draws one text element per projectable feature with non-empty
// derived text.
func (l *TextLayer) Render(container *svgdom.Element) error {
	g := l.begin(container, "carta-text")
	if l.proj == nil || l.data == nil {
		return nil
	}
	for i, f := range l.data.Features {
		x, y, ok := anchorFor(f, l.proj)
		if !ok {
			continue
		}
		label := l.text.At(f, i)
		if label == "" {
			continue
		}
		size := l.fontSize.At(f, i)
		el := svgdom.New("text").
			SetAttr("x", fmtCoord(x)).
			SetAttr("y", fmtCoord(y)).
			SetAttr("font-size", fmtCoord(size)).
			SetAttr("text-anchor", "middle").
			SetText(label)
		l.applyValues(el, f, i)
		g.AppendChild(el)
		l.indexFeature(f, x-size, y-size, x+size, y+size)
	}
	return nil
}

// Direction is a cardinal screen direction for spike symbols.
type Direction string

const (
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
)

// unit returns the screen-space unit vector for the direction. Screen y
// grows downward, so north points to negative y.
func (d Direction) unit() (float64, float64) {
	switch d {
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	default:
		return 0, -1
	}
}

// SpikeOptions configures a point-spike layer.
type SpikeOptions struct {
	Data *geojson.FeatureCollection

	// Length of the spike per feature. Defaults to 20.
	Length Value[float64]

	// Width of the spike base per feature. Defaults to 6.
	Width Value[float64]

	// Direction the long axis points in. Defaults to North.
	Direction Direction

	Attrs  Attrs
	Styles Styles
}

// SpikeLayer draws a kite-shaped spike per feature, anchored at the
// feature's anchor point with its long axis along a cardinal screen
// direction.
type SpikeLayer struct {
	BaseLayer
	data      *geojson.FeatureCollection
	length    Value[float64]
	width     Value[float64]
	direction Direction
}

// NewSpikeLayer creates a point-spike layer.
func NewSpikeLayer(id string, opts SpikeOptions) *SpikeLayer {
	length := opts.Length
	if !length.IsSet() {
		length = Fixed(20.0)
	}
	width := opts.Width
	if !width.IsSet() {
		width = Fixed(6.0)
	}
	dir := opts.Direction
	if dir == "" {
		dir = North
	}
	return &SpikeLayer{
		BaseLayer: newBaseLayer(id, opts.Attrs, opts.Styles),
		data:      opts.Data,
		length:    length,
		width:     width,
		direction: dir,
	}
}

// GetData returns the layer's feature collection.
func (l *SpikeLayer) GetData() *geojson.FeatureCollection { return l.data }

// Render draws one kite path per projectable feature. The kite has its
// base vertex at the anchor, side vertices a quarter of the way up, and
// its tip at the full length.
func (l *SpikeLayer) Render(container *svgdom.Element) error {
	g := l.begin(container, "carta-spike")
	if l.proj == nil || l.data == nil {
		return nil
	}
	dx, dy := l.direction.unit()
	// Perpendicular to the long axis.
	px, py := -dy, dx

	for i, f := range l.data.Features {
		x, y, ok := anchorFor(f, l.proj)
		if !ok {
			continue
		}
		length := l.length.At(f, i)
		halfW := l.width.At(f, i) / 2
		sx := x + dx*length*0.25
		sy := y + dy*length*0.25

		d := "M" + fmtCoord(x) + "," + fmtCoord(y) +
			"L" + fmtCoord(sx+px*halfW) + "," + fmtCoord(sy+py*halfW) +
			"L" + fmtCoord(x+dx*length) + "," + fmtCoord(y+dy*length) +
			"L" + fmtCoord(sx-px*halfW) + "," + fmtCoord(sy-py*halfW) +
			"Z"
		el := svgdom.New("path").SetAttr("d", d)
		l.applyValues(el, f, i)
		g.AppendChild(el)
		l.indexFeature(f, x-halfW, y-length, x+halfW, y+length)
	}
	return nil
}

// AnnotationOptions configures a point-annotation layer.
type AnnotationOptions struct {
	Data *geojson.FeatureCollection

	// Text derives the annotation label per feature. Features with
	// empty derived text are skipped.
	Text Value[string]

	// Dx, Dy offset the label from the anchor in pixels. Defaults to
	// (30, -30).
	Dx, Dy float64

	// FontSize in pixels. Defaults to 12.
	FontSize Value[float64]

	// Halo draws a white casing behind the label for readability over
	// busy basemaps.
	Halo bool

	Attrs  Attrs
	Styles Styles
}

// AnnotationLayer draws a label offset from each feature's anchor with
// a connector line back to the anchor.
type AnnotationLayer struct {
	BaseLayer
	data     *geojson.FeatureCollection
	text     Value[string]
	dx, dy   float64
	fontSize Value[float64]
	halo     bool
}

// NewAnnotationLayer creates a point-annotation layer.
func NewAnnotationLayer(id string, opts AnnotationOptions) *AnnotationLayer {
	size := opts.FontSize
	if !size.IsSet() {
		size = Fixed(12.0)
	}
	dx, dy := opts.Dx, opts.Dy
	if dx == 0 && dy == 0 {
		dx, dy = 30, -30
	}
	return &AnnotationLayer{
		BaseLayer: newBaseLayer(id, opts.Attrs, opts.Styles),
		data:      opts.Data,
		text:      opts.Text,
		dx:        dx,
		dy:        dy,
		fontSize:  size,
		halo:      opts.Halo,
	}
}

// GetData returns the layer's feature collection.
func (l *AnnotationLayer) GetData() *geojson.FeatureCollection { return l.data }

// Render draws connector and label per projectable feature.
func (l *AnnotationLayer) Render(container *svgdom.Element) error {
	g := l.begin(container, "carta-annotation")
	if l.proj == nil || l.data == nil {
		return nil
	}
	for i, f := range l.data.Features {
		x, y, ok := anchorFor(f, l.proj)
		if !ok {
			continue
		}
		label := l.text.At(f, i)
		if label == "" {
			continue
		}
		lx := x + l.dx
		ly := y + l.dy

		item := svgdom.New("g")
		item.AppendChild(svgdom.New("line").
			SetAttr("x1", fmtCoord(x)).
			SetAttr("y1", fmtCoord(y)).
			SetAttr("x2", fmtCoord(lx)).
			SetAttr("y2", fmtCoord(ly)).
			SetAttr("stroke", "currentColor"))

		size := l.fontSize.At(f, i)
		anchor := "start"
		if l.dx < 0 {
			anchor = "end"
		}
		if l.halo {
			halo := svgdom.New("text").
				SetAttr("x", fmtCoord(lx)).
				SetAttr("y", fmtCoord(ly)).
				SetAttr("font-size", fmtCoord(size)).
				SetAttr("text-anchor", anchor).
				SetAttr("stroke", "#ffffff").
				SetAttr("stroke-width", "3").
				SetText(label)
			item.AppendChild(halo)
		}
		txt := svgdom.New("text").
			SetAttr("x", fmtCoord(lx)).
			SetAttr("y", fmtCoord(ly)).
			SetAttr("font-size", fmtCoord(size)).
			SetAttr("text-anchor", anchor).
			SetText(label)
		item.AppendChild(txt)

		l.applyValues(item, f, i)
		g.AppendChild(item)
		l.indexFeature(f, min(x, lx), min(y, ly), max(x, lx), max(y, ly))
	}
	return nil
}
