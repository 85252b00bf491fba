package carta

import (
	"testing"

	"github.com/chorograph/carta/pkg/scale"
)

func TestLegendOrdinalEntries(t *testing.T) {
	s := scale.NewOrdinal(
		[]string{"forest", "water", "urban"},
		[]string{"#228b22", "#1e90ff", "#808080"},
	)
	l := NewLegendLayer("legend", LegendOptions{Scale: s})

	entries := l.Entries()
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want one per category", len(entries))
	}
	for i, want := range []string{"forest", "water", "urban"} {
		if entries[i].Label != want {
			t.Fatalf("entry %d label %q, want %q", i, entries[i].Label, want)
		}
	}
	if entries[1].Color != "#1e90ff" {
		t.Fatalf("entry color %q", entries[1].Color)
	}
}

func TestLegendThresholdEntries(t *testing.T) {
	s, err := scale.NewThreshold(
		[]float64{10, 50, 100},
		[]string{"#fee", "#fcc", "#f99", "#f00"},
	)
	if err != nil {
		t.Fatalf("NewThreshold: %v", err)
	}
	l := NewLegendLayer("legend", LegendOptions{Scale: s})

	entries := l.Entries()
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want breaks+1", len(entries))
	}
	if entries[0].Label != "< 10" {
		t.Fatalf("first label %q", entries[0].Label)
	}
	if entries[3].Label != "≥ 100" {
		t.Fatalf("last label %q", entries[3].Label)
	}
	if entries[1].Label != "10 – 50" {
		t.Fatalf("middle label %q", entries[1].Label)
	}
}

func TestLegendSequentialGradient(t *testing.T) {
	s := scale.NewSequential(0, 100, scale.Interpolate("#ffffff", "#ff0000"))
	l := NewLegendLayer("legend", LegendOptions{Scale: s})

	m := worldMap(t)
	if err := m.AddLayer(l); err != nil {
		t.Fatalf("AddLayer: %v", err)
	}
	grad := l.node().FindByAttr("id", "carta-legend-grad-legend")
	if grad == nil {
		t.Fatal("gradient def missing")
	}
	if grad.ChildCount() < 2 {
		t.Fatalf("gradient has %d stops", grad.ChildCount())
	}
	if l.node().FindByAttr("fill", "url(#carta-legend-grad-legend)") == nil {
		t.Fatal("no rect references the gradient")
	}
}

func TestLegendOverlappingDrawsLargestFirst(t *testing.T) {
	s := scale.NewLinear([2]float64{0, 100}, [2]float64{4, 20})
	l := NewLegendLayer("legend", LegendOptions{
		Scale:       s,
		Overlapping: true,
		Steps:       3,
	})

	m := worldMap(t)
	if err := m.AddLayer(l); err != nil {
		t.Fatalf("AddLayer: %v", err)
	}

	// Circles must appear in the DOM largest radius first so smaller
	// ones stay visible on top.
	var radii []string
	for _, el := range l.node().Children() {
		if el.Tag() == "circle" {
			radii = append(radii, el.Attr("r"))
		}
	}
	if len(radii) != 3 {
		t.Fatalf("got %d circles, want 3", len(radii))
	}
	if radii[0] != "20" || radii[2] != "4" {
		t.Fatalf("DOM order %v, want largest first", radii)
	}
}

func TestLegendBackgroundInsertedFirst(t *testing.T) {
	s := scale.NewOrdinal([]string{"a", "b"}, []string{"#111", "#222"})
	l := NewLegendLayer("legend", LegendOptions{
		Scale:      s,
		Title:      "Land use",
		Background: true,
	})
	m := worldMap(t)
	if err := m.AddLayer(l); err != nil {
		t.Fatalf("AddLayer: %v", err)
	}
	first := l.node().Child(0)
	if first.Tag() != "rect" || first.Attr("fill") != "white" {
		t.Fatalf("first child is %s, want the backing rect", first.Tag())
	}
}

func TestLegendMoveBy(t *testing.T) {
	s := scale.NewOrdinal([]string{"a"}, []string{"#111"})
	l := NewLegendLayer("legend", LegendOptions{Scale: s, Position: [2]float64{10, 20}})
	m := worldMap(t)
	if err := m.AddLayer(l); err != nil {
		t.Fatalf("AddLayer: %v", err)
	}
	l.MoveBy(5, -5)
	if got := l.Position(); got != [2]float64{15, 15} {
		t.Fatalf("position %v", got)
	}
	if tr := l.node().Attr("transform"); tr != "translate(15,15)" {
		t.Fatalf("transform %q", tr)
	}
}
