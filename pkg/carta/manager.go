package carta

import (
	"sort"

	"github.com/chorograph/carta/internal/svgdom"
	"github.com/chorograph/carta/pkg/projection"
)

// managedLayer pairs a layer with its registration sequence. The
// sequence breaks z-index ties so equal layers keep insertion order.
type managedLayer struct {
	layer Layer
	seq   int
}

// LayerManager owns the set of layers on a map: registration, paint
// order, visibility, and projection propagation. Paint order is
// (zIndex, registration order) ascending; later-painted layers sit on
// top.
type LayerManager struct {
	container *svgdom.Element
	proj      projection.Projection
	entries   map[string]*managedLayer
	nextSeq   int
	nextZ     int
}

// NewLayerManager creates a manager rendering into container.
func NewLayerManager(container *svgdom.Element, proj projection.Projection) *LayerManager {
	return &LayerManager{
		container: container,
		proj:      proj,
		entries:   make(map[string]*managedLayer),
	}
}

// AddLayer registers and renders a layer. Layers without an explicit
// z-index are assigned the next value in registration order, so later
// additions paint on top by default.
func (m *LayerManager) AddLayer(l Layer) error {
	id := l.ID()
	if _, exists := m.entries[id]; exists {
		return &ErrDuplicateLayer{ID: id}
	}

	if !l.zIndexAssigned() {
		l.SetZIndex(m.nextZ)
	}
	if l.ZIndex() >= m.nextZ {
		m.nextZ = l.ZIndex() + 1
	}

	l.SetProjection(m.proj)
	m.entries[id] = &managedLayer{layer: l, seq: m.nextSeq}
	m.nextSeq++

	if err := l.Render(m.container); err != nil {
		delete(m.entries, id)
		return err
	}
	m.reorder()
	return nil
}

// RemoveLayer destroys and unregisters a layer. Removing an unknown id
// is a no-op.
func (m *LayerManager) RemoveLayer(id string) {
	e, ok := m.entries[id]
	if !ok {
		return
	}
	e.layer.Destroy()
	delete(m.entries, id)
}

// Layer returns a registered layer by id.
func (m *LayerManager) Layer(id string) (Layer, bool) {
	e, ok := m.entries[id]
	if !ok {
		return nil, false
	}
	return e.layer, true
}

// SetLayerVisibility toggles a layer's visibility without rebuilding
// it.
func (m *LayerManager) SetLayerVisibility(id string, visible bool) error {
	e, ok := m.entries[id]
	if !ok {
		return &ErrLayerNotFound{ID: id}
	}
	e.layer.SetVisible(visible)
	return nil
}

// SetLayerZIndex changes a layer's paint order and reorders the DOM.
// The layers themselves are not re-rendered.
func (m *LayerManager) SetLayerZIndex(id string, z int) error {
	e, ok := m.entries[id]
	if !ok {
		return &ErrLayerNotFound{ID: id}
	}
	e.layer.SetZIndex(z)
	if z >= m.nextZ {
		m.nextZ = z + 1
	}
	m.reorder()
	return nil
}

// UpdateProjection swaps the projection on the manager and every
// registered layer. It does not re-render; pair with
// RerenderAllLayers.
func (m *LayerManager) UpdateProjection(p projection.Projection) {
	m.proj = p
	for _, e := range m.entries {
		e.layer.SetProjection(p)
	}
}

// RerenderAllLayers destroys and rebuilds every layer in paint order.
func (m *LayerManager) RerenderAllLayers() error {
	for _, e := range m.ordered() {
		e.layer.Destroy()
		if err := e.layer.Render(m.container); err != nil {
			return err
		}
	}
	m.reorder()
	return nil
}

// Clear destroys and unregisters every layer.
func (m *LayerManager) Clear() {
	for id, e := range m.entries {
		e.layer.Destroy()
		delete(m.entries, id)
	}
}

// LayerIDs returns the registered ids in paint order, bottom first.
func (m *LayerManager) LayerIDs() []string {
	ordered := m.ordered()
	ids := make([]string, len(ordered))
	for i, e := range ordered {
		ids[i] = e.layer.ID()
	}
	return ids
}

// Dispatch routes a pointer event to the topmost layer with a feature
// hit at (x, y). Reports whether any layer consumed the event.
func (m *LayerManager) Dispatch(t EventType, x, y float64) bool {
	ordered := m.ordered()
	for i := len(ordered) - 1; i >= 0; i-- {
		l := ordered[i].layer
		if !l.Visible() || !l.wantsEvent(t) {
			continue
		}
		f, ok := l.hitTest(x, y)
		if !ok {
			continue
		}
		l.dispatch(Event{Type: t, X: x, Y: y, Feature: f})
		return true
	}
	return false
}

// ordered returns the managed layers in paint order.
func (m *LayerManager) ordered() []*managedLayer {
	out := make([]*managedLayer, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].layer.ZIndex() != out[j].layer.ZIndex() {
			return out[i].layer.ZIndex() < out[j].layer.ZIndex()
		}
		return out[i].seq < out[j].seq
	})
	return out
}

// reorder moves the rendered groups into paint order without touching
// any foreign children of the container.
func (m *LayerManager) reorder() {
	var desired []*svgdom.Element
	for _, e := range m.ordered() {
		if n := e.layer.node(); n != nil {
			desired = append(desired, n)
		}
	}
	svgdom.Reorder(m.container, desired)
}
