package carta

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb/geojson"
)

// hitIndex is an R-tree over projected feature bounding boxes, used to
// resolve which feature sits under a pointer without scanning every
// feature. Rebuilt on every render pass since projected positions move
// with the projection.
type hitIndex struct {
	tree    *rtreego.Rtree
	nextSeq int
}

// hitEntry wraps a feature for R-tree storage. seq is the insertion
// order; features drawn later overpaint earlier ones, so the highest
// seq among overlapping matches is the visually topmost feature.
type hitEntry struct {
	feature *geojson.Feature
	rect    rtreego.Rect
	seq     int
}

// Bounds implements rtreego.Spatial.
func (e *hitEntry) Bounds() rtreego.Rect { return e.rect }

// hitEpsilon is the minimum box dimension in pixels. The R-tree needs
// non-zero extents, and a few pixels of slack makes point symbols
// clickable.
const hitEpsilon = 4.0

func newHitIndex() *hitIndex {
	return &hitIndex{tree: rtreego.NewTree(2, 25, 50)}
}

func (h *hitIndex) insert(f *geojson.Feature, minX, minY, maxX, maxY float64) {
	w := maxX - minX
	ht := maxY - minY
	if w < hitEpsilon {
		minX -= (hitEpsilon - w) / 2
		w = hitEpsilon
	}
	if ht < hitEpsilon {
		minY -= (hitEpsilon - ht) / 2
		ht = hitEpsilon
	}
	rect, err := rtreego.NewRect(rtreego.Point{minX, minY}, []float64{w, ht})
	if err != nil {
		return
	}
	h.tree.Insert(&hitEntry{feature: f, rect: rect, seq: h.nextSeq})
	h.nextSeq++
}

// search returns the topmost feature whose box contains (x, y). The
// R-tree returns matches in tree order, so the entry with the highest
// insertion sequence is selected explicitly.
func (h *hitIndex) search(x, y float64) (*geojson.Feature, bool) {
	rect, err := rtreego.NewRect(rtreego.Point{x, y}, []float64{0.001, 0.001})
	if err != nil {
		return nil, false
	}
	matches := h.tree.SearchIntersect(rect)
	var top *hitEntry
	for _, m := range matches {
		e := m.(*hitEntry)
		if top == nil || e.seq > top.seq {
			top = e
		}
	}
	if top == nil {
		return nil, false
	}
	return top.feature, true
}
