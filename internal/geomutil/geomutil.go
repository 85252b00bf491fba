// Package geomutil provides anchor, centroid and bounding-box helpers
// over orb geometries for layer rendering.
package geomutil

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Anchor derives the representative point used to place a symbol for a
// geometry. Point geometries use their coordinate directly; everything
// else uses the averaged centroid of the constituent coordinates.
//
// Returns false for empty or unsupported geometries; callers skip the
// feature for that render pass.
func Anchor(g orb.Geometry) (orb.Point, bool) {
	if g == nil {
		return orb.Point{}, false
	}
	if p, ok := g.(orb.Point); ok {
		return p, true
	}
	return Centroid(g)
}

// Centroid computes the unweighted average of all coordinates of a
// geometry.
//
// This is deliberately NOT an area-weighted centroid: rendered output of
// existing maps depends on plain coordinate averaging, so vertex-dense
// polygon edges pull the centroid toward them. Do not upgrade this to a
// proper centroid without revisiting downstream fixtures.
func Centroid(g orb.Geometry) (orb.Point, bool) {
	var sumX, sumY float64
	var n int
	visitPoints(g, func(p orb.Point) {
		sumX += p[0]
		sumY += p[1]
		n++
	})
	if n == 0 {
		return orb.Point{}, false
	}
	return orb.Point{sumX / float64(n), sumY / float64(n)}, true
}

// visitPoints calls fn for every coordinate of g. Unknown geometry types
// are ignored rather than failing.
func visitPoints(g orb.Geometry, fn func(orb.Point)) {
	switch v := g.(type) {
	case orb.Point:
		fn(v)
	case orb.MultiPoint:
		for _, p := range v {
			fn(p)
		}
	case orb.LineString:
		for _, p := range v {
			fn(p)
		}
	case orb.MultiLineString:
		for _, ls := range v {
			for _, p := range ls {
				fn(p)
			}
		}
	case orb.Ring:
		for _, p := range v {
			fn(p)
		}
	case orb.Polygon:
		for _, ring := range v {
			for _, p := range ring {
				fn(p)
			}
		}
	case orb.MultiPolygon:
		for _, poly := range v {
			for _, ring := range poly {
				for _, p := range ring {
					fn(p)
				}
			}
		}
	case orb.Collection:
		for _, sub := range v {
			visitPoints(sub, fn)
		}
	case orb.Bound:
		fn(v.Min)
		fn(v.Max)
	}
}

// CollectionBound returns the geographic bounding box of a feature
// collection, and false when the collection has no coordinates.
func CollectionBound(fc *geojson.FeatureCollection) (orb.Bound, bool) {
	var bound orb.Bound
	var seen bool
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		b := f.Geometry.Bound()
		if !seen {
			bound = b
			seen = true
		} else {
			bound = bound.Union(b)
		}
	}
	return bound, seen
}

// LineEndpoints returns the first and last coordinate of a LineString or
// MultiLineString geometry. Returns false for anything else.
func LineEndpoints(g orb.Geometry) (start, end orb.Point, ok bool) {
	switch v := g.(type) {
	case orb.LineString:
		if len(v) < 2 {
			return orb.Point{}, orb.Point{}, false
		}
		return v[0], v[len(v)-1], true
	case orb.MultiLineString:
		if len(v) == 0 {
			return orb.Point{}, orb.Point{}, false
		}
		first := v[0]
		last := v[len(v)-1]
		if len(first) == 0 || len(last) == 0 {
			return orb.Point{}, orb.Point{}, false
		}
		return first[0], last[len(last)-1], true
	}
	return orb.Point{}, orb.Point{}, false
}

// IsLineGeometry reports whether g is a LineString or MultiLineString.
func IsLineGeometry(g orb.Geometry) bool {
	switch g.(type) {
	case orb.LineString, orb.MultiLineString:
		return true
	}
	return false
}
