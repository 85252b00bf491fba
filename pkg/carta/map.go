package carta

import (
	"io"

	"github.com/paulmach/orb"

	"github.com/chorograph/carta/internal/svgdom"
	"github.com/chorograph/carta/pkg/projection"
)

// MapOptions configures a new map.
type MapOptions struct {
	// Width and Height of the SVG canvas in pixels.
	Width  float64
	Height float64

	// Projection defaults to an equirectangular projection fitted to
	// the canvas.
	Projection projection.Projection
}

// Map is the top-level thematic map: an SVG canvas, a shared
// projection and a managed set of layers.
type Map struct {
	root     *svgdom.Element
	viewport *svgdom.Element
	manager  *LayerManager
	proj     projection.Projection
	width    float64
	height   float64
}

// NewMap creates an empty map with its SVG scaffold.
func NewMap(opts MapOptions) *Map {
	if opts.Width <= 0 {
		opts.Width = 800
	}
	if opts.Height <= 0 {
		opts.Height = 600
	}
	proj := opts.Projection
	if proj == nil {
		p := projection.NewEquirectangular()
		projection.FitSize(p, opts.Width, opts.Height, orb.Bound{
			Min: orb.Point{-180, -90},
			Max: orb.Point{180, 90},
		})
		proj = p
	}

	root := svgdom.New("svg").
		SetAttr("xmlns", "http://www.w3.org/2000/svg").
		SetAttr("width", fmtCoord(opts.Width)).
		SetAttr("height", fmtCoord(opts.Height)).
		SetAttr("viewBox", "0 0 "+fmtCoord(opts.Width)+" "+fmtCoord(opts.Height))
	viewport := svgdom.New("g").SetAttr("class", "carta-viewport")
	root.AppendChild(viewport)

	return &Map{
		root:     root,
		viewport: viewport,
		manager:  NewLayerManager(viewport, proj),
		proj:     proj,
		width:    opts.Width,
		height:   opts.Height,
	}
}

// AddLayer registers and renders a layer. The layer's own id must be
// unique on this map.
func (m *Map) AddLayer(l Layer) error { return m.manager.AddLayer(l) }

// RemoveLayer destroys and unregisters a layer. Unknown ids are
// ignored.
func (m *Map) RemoveLayer(id string) { m.manager.RemoveLayer(id) }

// Layer returns a registered layer by id.
func (m *Map) Layer(id string) (Layer, bool) { return m.manager.Layer(id) }

// SetLayerVisibility shows or hides a layer without re-rendering it.
func (m *Map) SetLayerVisibility(id string, visible bool) error {
	return m.manager.SetLayerVisibility(id, visible)
}

// SetLayerZIndex changes a layer's paint order.
func (m *Map) SetLayerZIndex(id string, z int) error {
	return m.manager.SetLayerZIndex(id, z)
}

// LayerIDs returns the layer ids in paint order, bottom first.
func (m *Map) LayerIDs() []string { return m.manager.LayerIDs() }

// ClearAllLayers removes every layer from the map.
func (m *Map) ClearAllLayers() { m.manager.Clear() }

// Projection returns the map's current projection.
func (m *Map) Projection() projection.Projection { return m.proj }

// SetProjection swaps the projection and re-renders every layer under
// it. Setting the projection the map already uses is also a full
// re-render and produces identical output.
func (m *Map) SetProjection(p projection.Projection) error {
	m.proj = p
	m.manager.UpdateProjection(p)
	return m.manager.RerenderAllLayers()
}

// FitBounds rescales the projection so the geographic bound fills the
// canvas minus padding on each side, then re-renders.
func (m *Map) FitBounds(b orb.Bound, padding float64) error {
	projection.FitExtent(m.proj,
		[2]float64{padding, padding},
		[2]float64{m.width - padding, m.height - padding},
		b)
	return m.manager.RerenderAllLayers()
}

// Resize changes the canvas size. The projection is not refitted;
// call FitBounds afterwards to refill the new canvas.
func (m *Map) Resize(width, height float64) {
	m.width = width
	m.height = height
	m.root.SetAttr("width", fmtCoord(width))
	m.root.SetAttr("height", fmtCoord(height))
	m.root.SetAttr("viewBox", "0 0 "+fmtCoord(width)+" "+fmtCoord(height))
}

// Width returns the canvas width in pixels.
func (m *Map) Width() float64 { return m.width }

// Height returns the canvas height in pixels.
func (m *Map) Height() float64 { return m.height }

// Dispatch routes a pointer event at canvas coordinates to the topmost
// layer with a feature there. Reports whether a layer consumed it.
func (m *Map) Dispatch(t EventType, x, y float64) bool {
	return m.manager.Dispatch(t, x, y)
}

// Root exposes the SVG element tree for host integration.
func (m *Map) Root() *svgdom.Element { return m.root }

// WriteTo serializes the map as an SVG document.
func (m *Map) WriteTo(w io.Writer) (int64, error) { return m.root.WriteTo(w) }

// SVG returns the serialized SVG document.
func (m *Map) SVG() string { return m.root.String() }
