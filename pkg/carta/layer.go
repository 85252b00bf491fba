package carta

import (
	"github.com/paulmach/orb/geojson"

	"github.com/chorograph/carta/internal/svgdom"
	"github.com/chorograph/carta/pkg/projection"
)

// Layer is the capability set shared by every layer kind.
//
// Lifecycle: construct with options, Render attaches the layer's group
// to a container, style and projection updates mutate or rebuild it,
// Destroy detaches it. After Destroy the layer may be rendered again
// from scratch.
//
// The interface is closed: concrete layers embed BaseLayer, which
// supplies the common behavior and the unexported methods.
type Layer interface {
	// ID returns the layer's unique identifier.
	ID() string

	// Render builds the layer's SVG group under container. Rendering
	// an already-rendered layer replaces its previous output.
	Render(container *svgdom.Element) error

	// Destroy detaches the layer's group. Idempotent: destroying a
	// destroyed (or never rendered) layer is a no-op.
	Destroy()

	// SetVisible toggles the display attribute without re-rendering.
	SetVisible(visible bool)

	// Visible reports the layer's visibility flag.
	Visible() bool

	// SetZIndex records the paint order value. It does not reorder the
	// DOM; that is the layer manager's job.
	SetZIndex(z int)

	// ZIndex returns the current paint order value.
	ZIndex() int

	// IsRendered reports whether the layer currently owns a DOM
	// subtree.
	IsRendered() bool

	// SetProjection swaps the projection used on the next render. It
	// does not re-render by itself.
	SetProjection(p projection.Projection)

	// On registers a handler for feature-level pointer events.
	On(t EventType, h Handler)

	node() *svgdom.Element
	zIndexAssigned() bool
	hitTest(x, y float64) (*geojson.Feature, bool)
	wantsEvent(t EventType) bool
	dispatch(ev Event)
}

// FeatureProvider is implemented by layers that expose their feature
// collection (the GeoJSON and point layers). The manager and event
// dispatch use it to tell data-bearing layers from decoration layers.
type FeatureProvider interface {
	GetData() *geojson.FeatureCollection
}
