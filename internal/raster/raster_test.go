package raster

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/chorograph/carta/pkg/projection"
)

// solidSource builds a small quadrant test image: four solid color
// blocks so orientation mistakes show up immediately.
func solidSource(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	colors := [4]color.NRGBA{
		{R: 255, A: 255},          // top-left: red
		{G: 255, A: 255},          // top-right: green
		{B: 255, A: 255},          // bottom-left: blue
		{R: 255, G: 255, A: 255},  // bottom-right: yellow
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			q := 0
			if x >= w/2 {
				q = 1
			}
			if y >= h/2 {
				q += 2
			}
			img.SetNRGBA(x, y, colors[q])
		}
	}
	return img
}

func TestBoundsContains(t *testing.T) {
	b := Bounds{West: -10, South: 40, East: 10, North: 50}
	if !b.Contains(0, 45) {
		t.Error("center should be inside")
	}
	if b.Contains(-11, 45) || b.Contains(0, 51) {
		t.Error("outside points reported inside")
	}
	if !b.Valid() {
		t.Error("bounds should be valid")
	}
	if (Bounds{West: 5, East: -5, South: 0, North: 1}).Valid() {
		t.Error("inverted bounds should be invalid")
	}
}

func TestScreenBounds(t *testing.T) {
	p := projection.NewEquirectangular()
	p.SetScale(100)
	p.SetTranslate(400, 300)

	b := Bounds{West: -10, South: -10, East: 10, North: 10}
	rect, ok := ScreenBounds(b, p)
	if !ok {
		t.Fatal("screen bounds should exist")
	}
	// Symmetric bounds around the projection center give a rectangle
	// centered on the translate point.
	cx := (rect.Min.X + rect.Max.X) / 2
	cy := (rect.Min.Y + rect.Max.Y) / 2
	if cx < 399 || cx > 401 || cy < 299 || cy > 301 {
		t.Errorf("expected rect centered near (400, 300), got %v", rect)
	}
}

func TestScreenBoundsOutsideDomain(t *testing.T) {
	p := projection.NewOrthographic()
	p.SetRotate(0, 0)

	// Bounds on the far hemisphere: nothing projects.
	b := Bounds{West: 160, South: -10, East: 200, North: 10}
	if _, ok := ScreenBounds(Bounds{West: 160, South: -10, East: 179, North: 10}, p); ok {
		t.Errorf("far-side bounds %v should not produce screen bounds", b)
	}
}

func TestWarpOrientation(t *testing.T) {
	src := solidSource(64, 64)
	b := Bounds{West: -20, South: -20, East: 20, North: 20}

	p := projection.NewEquirectangular()
	p.SetScale(200)
	p.SetTranslate(100, 100)

	rect, ok := ScreenBounds(b, p)
	if !ok {
		t.Fatal("screen bounds failed")
	}
	out := Warp(src, b, p, rect)

	// Screen y grows downward, so geographic north-west (red quadrant)
	// lands in the top-left of the output.
	probe := func(fx, fy float64) color.NRGBA {
		x := rect.Min.X + int(fx*float64(rect.Dx()))
		y := rect.Min.Y + int(fy*float64(rect.Dy()))
		return out.NRGBAAt(x, y)
	}

	if c := probe(0.25, 0.25); c.R < 200 || c.G > 55 {
		t.Errorf("top-left quadrant should be red, got %v", c)
	}
	if c := probe(0.75, 0.25); c.G < 200 || c.R > 55 {
		t.Errorf("top-right quadrant should be green, got %v", c)
	}
	if c := probe(0.25, 0.75); c.B < 200 {
		t.Errorf("bottom-left quadrant should be blue, got %v", c)
	}
	if c := probe(0.75, 0.75); c.R < 200 || c.G < 200 {
		t.Errorf("bottom-right quadrant should be yellow, got %v", c)
	}
}

func TestWarpTransparentOutsideBounds(t *testing.T) {
	src := solidSource(32, 32)
	b := Bounds{West: 0, South: 0, East: 10, North: 10}

	p := projection.NewOrthographic()
	p.SetScale(200)
	p.SetTranslate(200, 200)
	p.SetRotate(5, 5)

	rect, ok := ScreenBounds(b, p)
	if !ok {
		t.Fatal("screen bounds failed")
	}
	// Widen the destination so it definitely covers screen area whose
	// inverse projection is outside the geographic bounds.
	wide := image.Rect(rect.Min.X-40, rect.Min.Y-40, rect.Max.X+40, rect.Max.Y+40)
	out := Warp(src, b, p, wide)

	corner := out.NRGBAAt(wide.Min.X, wide.Min.Y)
	if corner.A != 0 {
		t.Errorf("pixel outside bounds should be transparent, got alpha %d", corner.A)
	}

	cx, cy, okc := p.Project(b.Center())
	if !okc {
		t.Fatal("center should project")
	}
	if c := out.NRGBAAt(int(cx), int(cy)); c.A == 0 {
		t.Error("pixel inside bounds should be opaque")
	}
}

func TestWarpDeterministic(t *testing.T) {
	src := solidSource(32, 32)
	b := Bounds{West: -15, South: 30, East: 15, North: 60}

	p := projection.NewMercator()
	p.SetScale(300)
	p.SetTranslate(250, 250)

	rect, ok := ScreenBounds(b, p)
	if !ok {
		t.Fatal("screen bounds failed")
	}

	first := Warp(src, b, p, rect)
	second := Warp(src, b, p, rect)
	if !bytes.Equal(first.Pix, second.Pix) {
		t.Error("warping twice with identical inputs must be bit-identical")
	}
}

func TestSampleBilinearBlends(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 0, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 200, A: 255})

	r, _, _, a := sampleBilinear(img, 0.5, 0)
	if r != 100 {
		t.Errorf("midpoint sample should blend to 100, got %d", r)
	}
	if a != 255 {
		t.Errorf("alpha should stay 255, got %d", a)
	}
}
