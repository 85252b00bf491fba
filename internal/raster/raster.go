// Package raster warps geographically bounded images into a map
// projection's screen space.
//
// The warper works destination-first: for every output pixel it recovers
// the geographic coordinate by inverting the projection, maps it into
// source pixel space and samples the source bilinearly. Pixels whose
// inverse falls outside the source bounds stay transparent.
package raster

import (
	"image"
	"math"

	"github.com/paulmach/orb"
	"golang.org/x/image/draw"

	"github.com/chorograph/carta/pkg/projection"
)

// Bounds is a geographic rectangle in degrees.
type Bounds struct {
	West  float64
	South float64
	East  float64
	North float64
}

// Contains reports whether the coordinate lies inside the bounds.
func (b Bounds) Contains(lon, lat float64) bool {
	return lon >= b.West && lon <= b.East && lat >= b.South && lat <= b.North
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() orb.Point {
	return orb.Point{(b.West + b.East) / 2, (b.South + b.North) / 2}
}

// Valid reports whether the bounds span a positive area.
func (b Bounds) Valid() bool {
	return b.East > b.West && b.North > b.South
}

// edgeSamples controls how densely the bounds edges are sampled when
// computing the destination screen box. Corner-only sampling misses the
// bulge curved projections add along edges.
const edgeSamples = 16

// ScreenBounds projects the (densified) edges of b and returns the
// enclosing destination rectangle in integer pixels. ok is false when no
// edge point projects, meaning the image is entirely outside the
// projection's domain.
func ScreenBounds(b Bounds, proj projection.Projection) (image.Rectangle, bool) {
	x0, y0 := math.Inf(1), math.Inf(1)
	x1, y1 := math.Inf(-1), math.Inf(-1)
	var any bool

	sample := func(lon, lat float64) {
		x, y, ok := proj.Project(orb.Point{lon, lat})
		if !ok {
			return
		}
		any = true
		x0 = math.Min(x0, x)
		y0 = math.Min(y0, y)
		x1 = math.Max(x1, x)
		y1 = math.Max(y1, y)
	}

	for i := 0; i <= edgeSamples; i++ {
		t := float64(i) / edgeSamples
		lon := b.West + (b.East-b.West)*t
		lat := b.South + (b.North-b.South)*t
		sample(lon, b.South)
		sample(lon, b.North)
		sample(b.West, lat)
		sample(b.East, lat)
	}
	if !any {
		return image.Rectangle{}, false
	}
	return image.Rect(
		int(math.Floor(x0)), int(math.Floor(y0)),
		int(math.Ceil(x1)), int(math.Ceil(y1)),
	), true
}

// Warp resamples src, georeferenced by b, into dst screen space under
// proj. Every destination pixel is computed independently: an
// approximate (cheap, loosely converged) numeric inverse is tried first,
// then the projection's own inverse, and if both fail the pixel stays
// transparent. A pixel whose inverse lands outside the geographic
// bounds also stays transparent; the destination rectangle regularly
// overshoots the bounds on curved projections and must never bleed
// edge colors. The result for identical inputs is deterministic.
func Warp(src image.Image, b Bounds, proj projection.Projection, dst image.Rectangle) *image.NRGBA {
	out := image.NewNRGBA(dst)
	if !b.Valid() || dst.Empty() {
		return out
	}

	nrgba := toNRGBA(src)
	sw := nrgba.Rect.Dx()
	sh := nrgba.Rect.Dy()
	if sw == 0 || sh == 0 {
		return out
	}

	// Loose budget: a couple of Newton steps from the previous pixel's
	// solution almost always lands within half a pixel.
	approx := projection.InvertOptions{MaxIterations: 4, Tolerance: 0.5}

	center := b.Center()
	for py := dst.Min.Y; py < dst.Max.Y; py++ {
		// Seed each row from the bounds center; within the row the
		// previous pixel's coordinate is a better seed.
		seed := center
		for px := dst.Min.X; px < dst.Max.X; px++ {
			fx := float64(px) + 0.5
			fy := float64(py) + 0.5

			ll, ok := projection.NumericInvert(proj, fx, fy, seed, approx)
			if !ok {
				ll, ok = proj.Invert(fx, fy)
			}
			if !ok {
				continue
			}
			seed = ll

			if !b.Contains(ll[0], ll[1]) {
				continue
			}

			// Map into source pixel space: north is row 0.
			u := (ll[0] - b.West) / (b.East - b.West) * float64(sw-1)
			v := (b.North - ll[1]) / (b.North - b.South) * float64(sh-1)

			r, g, bb, a := sampleBilinear(nrgba, u, v)
			i := out.PixOffset(px, py)
			out.Pix[i+0] = r
			out.Pix[i+1] = g
			out.Pix[i+2] = bb
			out.Pix[i+3] = a
		}
	}
	return out
}

// sampleBilinear samples the image at fractional pixel (u, v) by
// weighting the four surrounding pixels. Coordinates are clamped to the
// image, so edge pixels repeat.
func sampleBilinear(img *image.NRGBA, u, v float64) (r, g, b, a uint8) {
	w := img.Rect.Dx()
	h := img.Rect.Dy()

	x0 := int(math.Floor(u))
	y0 := int(math.Floor(v))
	fx := u - float64(x0)
	fy := v - float64(y0)

	clampX := func(x int) int {
		if x < 0 {
			return 0
		}
		if x >= w {
			return w - 1
		}
		return x
	}
	clampY := func(y int) int {
		if y < 0 {
			return 0
		}
		if y >= h {
			return h - 1
		}
		return y
	}

	px := func(x, y int) (float64, float64, float64, float64) {
		i := img.PixOffset(img.Rect.Min.X+clampX(x), img.Rect.Min.Y+clampY(y))
		return float64(img.Pix[i]), float64(img.Pix[i+1]), float64(img.Pix[i+2]), float64(img.Pix[i+3])
	}

	r00, g00, b00, a00 := px(x0, y0)
	r10, g10, b10, a10 := px(x0+1, y0)
	r01, g01, b01, a01 := px(x0, y0+1)
	r11, g11, b11, a11 := px(x0+1, y0+1)

	lerp2 := func(c00, c10, c01, c11 float64) uint8 {
		top := c00 + (c10-c00)*fx
		bot := c01 + (c11-c01)*fx
		return uint8(math.Round(top + (bot-top)*fy))
	}

	return lerp2(r00, r10, r01, r11),
		lerp2(g00, g10, g01, g11),
		lerp2(b00, b10, b01, b11),
		lerp2(a00, a10, a01, a11)
}

// toNRGBA returns the image as NRGBA, converting only when needed.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	out := image.NewNRGBA(src.Bounds())
	draw.Draw(out, out.Rect, src, src.Bounds().Min, draw.Src)
	return out
}
