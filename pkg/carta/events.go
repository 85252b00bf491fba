package carta

import "github.com/paulmach/orb/geojson"

// EventType names a pointer event class dispatched to layers.
type EventType string

const (
	EventClick       EventType = "click"
	EventPointerMove EventType = "pointermove"
	EventPointerDown EventType = "pointerdown"
	EventPointerUp   EventType = "pointerup"
)

// Event is delivered to layer handlers. Feature is the hit feature for
// feature-bearing layers and nil otherwise.
type Event struct {
	Type    EventType
	X, Y    float64
	Feature *geojson.Feature
}

// Handler receives dispatched events.
type Handler func(Event)
