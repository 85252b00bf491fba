package projection

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

const tol = 1e-9

func near(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestEquirectangularRoundTrip(t *testing.T) {
	p := NewEquirectangular()
	p.SetScale(120)
	p.SetTranslate(400, 300)

	pts := []orb.Point{{0, 0}, {-71.06, 42.36}, {139.7, -35.7}, {179, 89}}
	for _, pt := range pts {
		x, y, ok := p.Project(pt)
		if !ok {
			t.Fatalf("project %v failed", pt)
		}
		back, ok := p.Invert(x, y)
		if !ok {
			t.Fatalf("invert of %v failed", pt)
		}
		if !near(back[0], pt[0], 1e-9) || !near(back[1], pt[1], 1e-9) {
			t.Errorf("round trip %v -> %v", pt, back)
		}
	}

	// Center maps to translate.
	x, y, _ := p.Project(orb.Point{0, 0})
	if !near(x, 400, tol) || !near(y, 300, tol) {
		t.Errorf("center should map to translate, got (%f, %f)", x, y)
	}
}

func TestEquirectangularAffine(t *testing.T) {
	p := NewEquirectangular()
	p.SetScale(100)
	p.SetTranslate(10, 20)
	p.SetRotate(-30, 0)

	sx, sy, ox, oy, ok := p.AffineTransform()
	if !ok {
		t.Fatal("equirectangular must be affine")
	}
	for _, pt := range []orb.Point{{0, 0}, {40, 10}, {-12.5, -60}} {
		x, y, _ := p.Project(pt)
		ax := ox + sx*pt[0]
		ay := oy + sy*pt[1]
		if !near(x, ax, 1e-9) || !near(y, ay, 1e-9) {
			t.Errorf("affine mismatch at %v: project (%f, %f) affine (%f, %f)", pt, x, y, ax, ay)
		}
	}
}

func TestMercatorRoundTrip(t *testing.T) {
	p := NewMercator()
	p.SetScale(200)
	p.SetTranslate(512, 512)

	for _, pt := range []orb.Point{{0, 0}, {-122.4, 37.8}, {151.2, -33.9}, {0, 84}} {
		x, y, ok := p.Project(pt)
		if !ok {
			t.Fatalf("project %v failed", pt)
		}
		back, ok := p.Invert(x, y)
		if !ok {
			t.Fatalf("invert of %v failed", pt)
		}
		if !near(back[0], pt[0], 1e-9) || !near(back[1], pt[1], 1e-9) {
			t.Errorf("round trip %v -> %v", pt, back)
		}
	}
}

func TestMercatorPoleDoesNotProject(t *testing.T) {
	p := NewMercator()
	if _, _, ok := p.Project(orb.Point{0, 90}); ok {
		t.Error("pole should not project on mercator")
	}
	if _, _, ok := p.Project(orb.Point{0, -86}); ok {
		t.Error("latitude beyond the mercator limit should not project")
	}
}

func TestOrthographicFarSide(t *testing.T) {
	p := NewOrthographic()
	p.SetRotate(0, 0)

	if _, _, ok := p.Project(orb.Point{0, 0}); !ok {
		t.Error("view center should project")
	}
	if _, _, ok := p.Project(orb.Point{180, 0}); ok {
		t.Error("antipode should not project")
	}
	if _, _, ok := p.Project(orb.Point{120, 0}); ok {
		t.Error("far hemisphere should not project")
	}
}

func TestOrthographicRoundTrip(t *testing.T) {
	p := NewOrthographic()
	p.SetScale(250)
	p.SetTranslate(300, 300)
	p.SetRotate(-74, 40.7)

	for _, pt := range []orb.Point{{-74, 40.7}, {-80, 35}, {-60, 50}} {
		x, y, ok := p.Project(pt)
		if !ok {
			t.Fatalf("project %v failed", pt)
		}
		back, ok := p.Invert(x, y)
		if !ok {
			t.Fatalf("invert of %v failed", pt)
		}
		if !near(back[0], pt[0], 1e-6) || !near(back[1], pt[1], 1e-6) {
			t.Errorf("round trip %v -> %v", pt, back)
		}
	}

	// A screen point outside the globe disc has no inverse.
	if _, ok := p.Invert(300+260, 300); ok {
		t.Error("point outside the disc should not invert")
	}
}

func TestFitSize(t *testing.T) {
	b := orb.Bound{Min: orb.Point{-10, 35}, Max: orb.Point{30, 60}}

	for name, p := range map[string]Projection{
		"equirectangular": NewEquirectangular(),
		"mercator":        NewMercator(),
		"orthographic":    NewOrthographic(),
	} {
		FitSize(p, 800, 600, b)

		x0, y0 := math.Inf(1), math.Inf(1)
		x1, y1 := math.Inf(-1), math.Inf(-1)
		for i := 0; i <= 20; i++ {
			for j := 0; j <= 20; j++ {
				lon := b.Min[0] + (b.Max[0]-b.Min[0])*float64(i)/20
				lat := b.Min[1] + (b.Max[1]-b.Min[1])*float64(j)/20
				x, y, ok := p.Project(orb.Point{lon, lat})
				if !ok {
					continue
				}
				x0 = math.Min(x0, x)
				y0 = math.Min(y0, y)
				x1 = math.Max(x1, x)
				y1 = math.Max(y1, y)
			}
		}

		if x0 < -1 || y0 < -1 || x1 > 801 || y1 > 601 {
			t.Errorf("%s: fitted bound escapes extent: [%f %f %f %f]", name, x0, y0, x1, y1)
		}
		// The bound should fill the extent along at least one axis.
		if (x1-x0) < 780 && (y1-y0) < 580 {
			t.Errorf("%s: fitted bound underfills extent: %f x %f", name, x1-x0, y1-y0)
		}
	}
}

func TestNumericInvert(t *testing.T) {
	p := NewOrthographic()
	p.SetScale(300)
	p.SetTranslate(400, 400)
	p.SetRotate(10, 45)

	target := orb.Point{15, 48}
	x, y, ok := p.Project(target)
	if !ok {
		t.Fatal("project failed")
	}

	got, ok := NumericInvert(p, x, y, orb.Point{10, 45}, DefaultInvertOptions())
	if !ok {
		t.Fatal("numeric inversion did not converge")
	}
	if !near(got[0], target[0], 1e-4) || !near(got[1], target[1], 1e-4) {
		t.Errorf("numeric invert got %v want %v", got, target)
	}
}

func TestNumericInvertAgreesWithClosedForm(t *testing.T) {
	p := NewMercator()
	p.SetScale(150)
	p.SetTranslate(200, 200)

	x, y, _ := p.Project(orb.Point{33, -12})
	numeric, ok := NumericInvert(p, x, y, orb.Point{30, -10}, DefaultInvertOptions())
	if !ok {
		t.Fatal("numeric inversion did not converge")
	}
	closed, _ := p.Invert(x, y)
	if !near(numeric[0], closed[0], 1e-4) || !near(numeric[1], closed[1], 1e-4) {
		t.Errorf("numeric %v differs from closed form %v", numeric, closed)
	}
}
