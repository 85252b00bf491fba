package carta

import "github.com/paulmach/orb/geojson"

// Value is a per-feature attribute: either a fixed value or a function
// of (feature, index). Computed values are re-evaluated on every render
// pass and never cached across renders, so data-driven styling always
// reflects the feature passed in.
type Value[T any] struct {
	fixed T
	fn    func(f *geojson.Feature, i int) T
	set   bool
}

// Fixed wraps a constant value. A fixed zero value counts as set:
// Fixed(0) is an explicit zero, not an absent option.
func Fixed[T any](v T) Value[T] {
	return Value[T]{fixed: v, set: true}
}

// Computed wraps a per-feature accessor function.
func Computed[T any](fn func(f *geojson.Feature, i int) T) Value[T] {
	return Value[T]{fn: fn, set: true}
}

// At resolves the value for a feature.
func (v Value[T]) At(f *geojson.Feature, i int) T {
	if v.fn != nil {
		return v.fn(f, i)
	}
	return v.fixed
}

// IsSet reports whether the value was explicitly provided. The zero
// Value is unset and layers substitute their defaults for it.
func (v Value[T]) IsSet() bool { return v.set }

// Attrs is the attribute configuration of a layer: SVG attribute name
// to value.
type Attrs map[string]Value[string]

// Styles is the inline style configuration of a layer: CSS property to
// value.
type Styles map[string]Value[string]
