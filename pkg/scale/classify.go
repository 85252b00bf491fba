package scale

import (
	"math"
	"strconv"
)

// Kind identifies the inferred shape of a scale.
type Kind int

const (
	// KindOrdinal is a discrete category-to-color scale.
	KindOrdinal Kind = iota

	// KindSequential is a continuous color scale over a numeric extent.
	KindSequential

	// KindThreshold is a stepped scale with numeric breakpoints.
	KindThreshold

	// KindSize is a numeric-to-numeric scale driving symbol dimensions.
	KindSize
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindOrdinal:
		return "ordinal"
	case KindSequential:
		return "sequential"
	case KindThreshold:
		return "threshold"
	case KindSize:
		return "size"
	default:
		return "unknown"
	}
}

// Classification is the result of probing a scale's runtime shape. It
// carries everything a legend needs to render the scale without touching
// the scale again.
type Classification struct {
	Kind Kind

	// IsColor reports whether sampled outputs parse as colors rather
	// than numbers.
	IsColor bool

	// Categories and Colors are populated for ordinal scales
	// (positional pairing).
	Categories []string
	Colors     []string

	// Breaks and Colors are populated for threshold scales.
	Breaks []float64

	// Extent is the numeric domain for sequential and size scales.
	Extent [2]float64

	// ColorAt interpolates over t in [0, 1] for sequential scales.
	ColorAt func(t float64) string

	// SizeAt evaluates the size output at a domain value for size
	// scales.
	SizeAt func(x float64) float64
}

// Capability shapes probed during classification. Any scale value that
// exposes matching methods participates, whether it is one of this
// package's types or an external implementation.
type (
	stringDomainer interface{ Domain() []string }
	numberDomainer interface{ Domain() []float64 }
	stringRanger   interface{ Range() []string }
	colorValuer    interface{ Value(float64) string }
	sizeValuer     interface{ Value(float64) float64 }
	interpolator   interface{ Interpolator() func(float64) string }
)

// Classify infers the kind of an arbitrary scale from its runtime shape
// and extracts the data a legend needs. The probes run in a fixed
// priority order and the first match wins:
//
//  1. A discrete non-numeric domain → ordinal.
//  2. A two-element numeric extent whose sampled outputs change
//     continuously and parse as colors → sequential.
//  3. A numeric breakpoint domain with one more range value than
//     breaks → threshold.
//  4. Numeric in, numeric out → size.
//
// Classification never fails: anything unrecognizable degrades to an
// ordinal with best-effort domain/range pairing.
func Classify(s any) Classification {
	if s == nil {
		return Classification{Kind: KindOrdinal}
	}

	// 1. Ordinal: discrete domain of non-numeric values.
	if sd, ok := s.(stringDomainer); ok {
		c := Classification{Kind: KindOrdinal, Categories: sd.Domain()}
		if sr, ok := s.(stringRanger); ok {
			c.Colors = sr.Range()
		}
		if len(c.Colors) > 0 {
			c.IsColor = IsColor(c.Colors[0])
		}
		return c
	}

	nd, hasNumDomain := s.(numberDomainer)
	if !hasNumDomain {
		// No recognizable domain at all: best-effort ordinal.
		c := Classification{Kind: KindOrdinal}
		if sr, ok := s.(stringRanger); ok {
			c.Colors = sr.Range()
			for i := range c.Colors {
				c.Categories = append(c.Categories, c.Colors[i])
			}
			if len(c.Colors) > 0 {
				c.IsColor = IsColor(c.Colors[0])
			}
		}
		return c
	}
	domain := nd.Domain()

	// 2. Sequential: two-element numeric extent, continuous color
	// output.
	if len(domain) == 2 {
		if cv, ok := s.(colorValuer); ok && samplesContinuously(cv, domain[0], domain[1]) {
			c := Classification{
				Kind:    KindSequential,
				IsColor: true,
				Extent:  [2]float64{domain[0], domain[1]},
			}
			if ip, ok := s.(interpolator); ok && ip.Interpolator() != nil {
				c.ColorAt = ip.Interpolator()
			} else {
				lo, hi := domain[0], domain[1]
				c.ColorAt = func(t float64) string {
					return cv.Value(lo + t*(hi-lo))
				}
			}
			return c
		}
	}

	// 3. Threshold: breakpoints plus len(breaks)+1 range values. An
	// InvertExtent method is corroborating but the count check decides.
	if sr, ok := s.(stringRanger); ok && len(sr.Range()) == len(domain)+1 {
		c := Classification{
			Kind:   KindThreshold,
			Breaks: domain,
			Colors: sr.Range(),
		}
		if len(c.Colors) > 0 {
			c.IsColor = IsColor(c.Colors[0])
		}
		return c
	}

	// 4. Size: numeric to numeric.
	if sv, ok := s.(sizeValuer); ok && len(domain) >= 2 {
		return Classification{
			Kind:   KindSize,
			Extent: [2]float64{domain[0], domain[len(domain)-1]},
			SizeAt: sv.Value,
		}
	}

	// Stepped color output without a matching range length, or any other
	// shape: degrade to ordinal over stringified breakpoints.
	c := Classification{Kind: KindOrdinal}
	if cv, ok := s.(colorValuer); ok {
		for _, d := range domain {
			c.Categories = append(c.Categories, trimFloat(d))
			c.Colors = append(c.Colors, cv.Value(d))
		}
		if len(c.Colors) > 0 {
			c.IsColor = IsColor(c.Colors[0])
		}
	}
	return c
}

// continuitySamples is how many interior points are sampled when testing
// whether a scale's output varies continuously.
const continuitySamples = 5

// samplesContinuously reports whether the scale's output at several
// interior domain points is mostly distinct (a continuous ramp) rather
// than repeating in discrete steps, and parses as color.
func samplesContinuously(cv colorValuer, lo, hi float64) bool {
	if lo == hi {
		return false
	}
	seen := make(map[string]struct{}, continuitySamples)
	for i := 0; i < continuitySamples; i++ {
		t := (float64(i) + 0.5) / continuitySamples
		out := cv.Value(lo + t*(hi-lo))
		if !IsColor(out) {
			return false
		}
		seen[out] = struct{}{}
	}
	return len(seen) >= continuitySamples-1
}

func trimFloat(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
