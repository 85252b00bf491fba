// Package scale provides the color and size scales consumed by map
// layers and legends.
//
// Four scale kinds cover thematic mapping:
//
//   - Ordinal: discrete categories mapped to discrete colors.
//   - Sequential: a continuous numeric domain mapped through a color
//     interpolator.
//   - Threshold: numeric breakpoints mapping domain intervals to
//     discrete colors.
//   - Linear: numeric to numeric, used for symbol sizes.
//
// Legends never require a scale's kind to be declared: Classify probes
// an arbitrary scale value at runtime and reports the kind plus the data
// needed to render it. Custom scale implementations participate by
// exposing the same method shapes (Domain, Value, InvertExtent).
package scale

import (
	"fmt"
	"math"
)

// Ordinal maps discrete category values to colors. A domain longer than
// the range wraps around, matching the usual categorical palette
// behavior.
type Ordinal struct {
	domain []string
	rng    []string
}

// NewOrdinal creates an ordinal scale from categories to output values.
func NewOrdinal(domain, rng []string) *Ordinal {
	return &Ordinal{domain: domain, rng: rng}
}

// Domain returns the category values.
func (s *Ordinal) Domain() []string { return s.domain }

// Range returns the output values.
func (s *Ordinal) Range() []string { return s.rng }

// Value returns the output for a category. Unknown categories map to
// the first range value so rendering never produces an empty color.
func (s *Ordinal) Value(v string) string {
	if len(s.rng) == 0 {
		return ""
	}
	for i, d := range s.domain {
		if d == v {
			return s.rng[i%len(s.rng)]
		}
	}
	return s.rng[0]
}

// InvertExtent returns the categories that map to the given output.
func (s *Ordinal) InvertExtent(out string) ([]string, bool) {
	if len(s.rng) == 0 {
		return nil, false
	}
	var cats []string
	for i, d := range s.domain {
		if s.rng[i%len(s.rng)] == out {
			cats = append(cats, d)
		}
	}
	return cats, len(cats) > 0
}

// Sequential maps a continuous numeric domain through a color
// interpolator. The domain is clamped, so out-of-range inputs take the
// endpoint colors.
type Sequential struct {
	min, max float64
	interp   func(t float64) string
}

// NewSequential creates a sequential scale over [min, max] using the
// given interpolator, typically built with Interpolate.
func NewSequential(min, max float64, interp func(t float64) string) *Sequential {
	return &Sequential{min: min, max: max, interp: interp}
}

// Domain returns the two-element numeric extent.
func (s *Sequential) Domain() []float64 { return []float64{s.min, s.max} }

// Value returns the interpolated color for x.
func (s *Sequential) Value(x float64) string {
	if s.interp == nil {
		return ""
	}
	t := 0.0
	if s.max != s.min {
		t = (x - s.min) / (s.max - s.min)
	}
	return s.interp(math.Max(0, math.Min(1, t)))
}

// Interpolator returns the underlying interpolator over t in [0, 1].
func (s *Sequential) Interpolator() func(t float64) string { return s.interp }

// Threshold maps intervals of a continuous domain to discrete colors:
// x < breaks[0] takes rng[0], breaks[i-1] <= x < breaks[i] takes rng[i],
// and x >= breaks[last] takes the last range value.
type Threshold struct {
	breaks []float64
	rng    []string
}

// NewThreshold creates a threshold scale. The range must carry exactly
// one more value than there are breakpoints.
func NewThreshold(breaks []float64, rng []string) (*Threshold, error) {
	if len(rng) != len(breaks)+1 {
		return nil, fmt.Errorf("threshold scale needs %d range values for %d breaks, got %d",
			len(breaks)+1, len(breaks), len(rng))
	}
	return &Threshold{breaks: breaks, rng: rng}, nil
}

// Domain returns the breakpoints.
func (s *Threshold) Domain() []float64 { return s.breaks }

// Range returns the interval colors.
func (s *Threshold) Range() []string { return s.rng }

// Value returns the color of the interval containing x.
func (s *Threshold) Value(x float64) string {
	for i, b := range s.breaks {
		if x < b {
			return s.rng[i]
		}
	}
	return s.rng[len(s.rng)-1]
}

// InvertExtent returns the [lo, hi) interval mapping to the given
// output. Open ends are reported as ±Inf.
func (s *Threshold) InvertExtent(out string) (lo, hi float64, ok bool) {
	for i, c := range s.rng {
		if c != out {
			continue
		}
		lo = math.Inf(-1)
		hi = math.Inf(1)
		if i > 0 {
			lo = s.breaks[i-1]
		}
		if i < len(s.breaks) {
			hi = s.breaks[i]
		}
		return lo, hi, true
	}
	return 0, 0, false
}

// Linear maps a numeric domain to a numeric range linearly, clamped to
// the range. It drives size encodings: circle radius, spike length,
// line width.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear creates a linear numeric scale.
func NewLinear(domain, rng [2]float64) *Linear {
	return &Linear{d0: domain[0], d1: domain[1], r0: rng[0], r1: rng[1]}
}

// Domain returns the two-element numeric domain.
func (s *Linear) Domain() []float64 { return []float64{s.d0, s.d1} }

// RangeValues returns the two-element numeric range.
func (s *Linear) RangeValues() []float64 { return []float64{s.r0, s.r1} }

// Value returns the scaled output for x, clamped to the range.
func (s *Linear) Value(x float64) float64 {
	if s.d1 == s.d0 {
		return s.r0
	}
	t := (x - s.d0) / (s.d1 - s.d0)
	t = math.Max(0, math.Min(1, t))
	return s.r0 + t*(s.r1-s.r0)
}
