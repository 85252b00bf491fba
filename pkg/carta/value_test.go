package carta

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func TestValueSetSemantics(t *testing.T) {
	var unset Value[float64]
	if unset.IsSet() {
		t.Fatal("zero Value reports set")
	}
	if !Fixed(0.0).IsSet() {
		t.Fatal("explicit Fixed(0) reports unset")
	}
	if !Fixed("").IsSet() {
		t.Fatal("explicit Fixed(\"\") reports unset")
	}
	if !Computed(func(*geojson.Feature, int) float64 { return 0 }).IsSet() {
		t.Fatal("Computed reports unset")
	}
}

func TestValueNonComparableTypes(t *testing.T) {
	// IsSet must not compare the wrapped value, or slice and map
	// payloads would panic.
	v := Fixed([]float64{1, 2})
	if !v.IsSet() {
		t.Fatal("Fixed slice reports unset")
	}
	if got := v.At(nil, 0); len(got) != 2 {
		t.Fatalf("At returned %v", got)
	}
	if !Fixed(map[string]int{"a": 1}).IsSet() {
		t.Fatal("Fixed map reports unset")
	}
}

func TestFixedZeroRadiusHonored(t *testing.T) {
	m := worldMap(t)
	l := NewCircleLayer("c", CircleOptions{
		Data:   pointCollection(orb.Point{0, 0}),
		Radius: Fixed(0.0),
	})
	if err := m.AddLayer(l); err != nil {
		t.Fatalf("AddLayer: %v", err)
	}
	// An explicit zero radius must not fall back to the default.
	if got := l.node().Child(0).Attr("r"); got != "0" {
		t.Fatalf("radius %q, want explicit 0", got)
	}
}

func TestValueComputedPerFeature(t *testing.T) {
	fc := pointCollection(orb.Point{0, 0}, orb.Point{10, 10})
	v := Computed(func(_ *geojson.Feature, i int) float64 { return float64(i + 1) })
	if v.At(fc.Features[0], 0) != 1 || v.At(fc.Features[1], 1) != 2 {
		t.Fatal("computed value ignores the feature index")
	}
}
