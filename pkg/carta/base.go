package carta

import (
	"sort"
	"strings"

	"github.com/paulmach/orb/geojson"

	"github.com/chorograph/carta/internal/svgdom"
	"github.com/chorograph/carta/pkg/projection"
)

// BaseLayer carries the state and behavior shared by all layer kinds:
// identity, visibility, z-index, projection, attribute and style
// application, event handlers and the rendered group. Concrete layers
// embed it and implement Render.
type BaseLayer struct {
	id      string
	visible bool
	zIndex  int
	zSet    bool

	attrs  Attrs
	styles Styles

	proj     projection.Projection
	group    *svgdom.Element
	handlers map[EventType][]Handler
	hits     *hitIndex
}

func newBaseLayer(id string, attrs Attrs, styles Styles) BaseLayer {
	return BaseLayer{
		id:      id,
		visible: true,
		attrs:   attrs,
		styles:  styles,
	}
}

// ID returns the layer's unique identifier.
func (b *BaseLayer) ID() string { return b.id }

// Visible reports the visibility flag.
func (b *BaseLayer) Visible() bool { return b.visible }

// SetVisible toggles the display attribute on the rendered group. Cheap:
// no layout or re-render happens, the subtree stays in place.
func (b *BaseLayer) SetVisible(visible bool) {
	b.visible = visible
	if b.group == nil {
		return
	}
	if visible {
		b.group.RemoveAttr("display")
	} else {
		b.group.SetAttr("display", "none")
	}
}

// ZIndex returns the paint order value.
func (b *BaseLayer) ZIndex() int { return b.zIndex }

// SetZIndex records the paint order value without touching the DOM.
func (b *BaseLayer) SetZIndex(z int) {
	b.zIndex = z
	b.zSet = true
}

// IsRendered reports whether the layer currently owns a DOM subtree.
func (b *BaseLayer) IsRendered() bool { return b.group != nil }

// SetProjection stores the projection used by the next render.
func (b *BaseLayer) SetProjection(p projection.Projection) { b.proj = p }

// Destroy detaches the rendered group and clears internal references.
// Idempotent.
func (b *BaseLayer) Destroy() {
	if b.group != nil {
		b.group.Remove()
		b.group = nil
	}
	b.hits = nil
}

// On registers a handler for feature-level pointer events.
func (b *BaseLayer) On(t EventType, h Handler) {
	if b.handlers == nil {
		b.handlers = make(map[EventType][]Handler)
	}
	b.handlers[t] = append(b.handlers[t], h)
}

func (b *BaseLayer) node() *svgdom.Element { return b.group }

func (b *BaseLayer) zIndexAssigned() bool { return b.zSet }

func (b *BaseLayer) wantsEvent(t EventType) bool {
	return len(b.handlers[t]) > 0
}

func (b *BaseLayer) dispatch(ev Event) {
	for _, h := range b.handlers[ev.Type] {
		h(ev)
	}
}

func (b *BaseLayer) hitTest(x, y float64) (*geojson.Feature, bool) {
	if b.hits == nil {
		return nil, false
	}
	return b.hits.search(x, y)
}

// begin starts a render pass: it tears down any previous group (render
// is a complete recomputation, never additive) and attaches a fresh one
// tagged with the layer's class and id.
func (b *BaseLayer) begin(container *svgdom.Element, class string) *svgdom.Element {
	if b.group != nil {
		b.group.Remove()
	}
	g := svgdom.New("g").
		SetAttr("class", class).
		SetAttr("data-layer-id", b.id)
	if !b.visible {
		g.SetAttr("display", "none")
	}
	container.AppendChild(g)
	b.group = g
	b.hits = nil
	return g
}

// applyValues resolves the layer's attribute and style configuration
// for one feature and writes it onto el. Styles collapse into a single
// deterministic style attribute.
func (b *BaseLayer) applyValues(el *svgdom.Element, f *geojson.Feature, i int) {
	for k, v := range b.attrs {
		el.SetAttr(k, v.At(f, i))
	}
	if len(b.styles) == 0 {
		return
	}
	keys := make([]string, 0, len(b.styles))
	for k := range b.styles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		if sb.Len() > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(k)
		sb.WriteByte(':')
		sb.WriteString(b.styles[k].At(f, i))
	}
	el.SetAttr("style", sb.String())
}

// indexFeature adds a feature's projected bounding box to the layer's
// hit index, creating the index on first use.
func (b *BaseLayer) indexFeature(f *geojson.Feature, minX, minY, maxX, maxY float64) {
	if b.hits == nil {
		b.hits = newHitIndex()
	}
	b.hits.insert(f, minX, minY, maxX, maxY)
}
