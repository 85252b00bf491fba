package carta

import (
	"os"
	"path/filepath"
	"testing"
)

const testGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "Lagos"},
     "geometry": {"type": "Point", "coordinates": [3.4, 6.5]}},
    {"type": "Feature", "properties": {"name": "Nairobi"},
     "geometry": {"type": "Point", "coordinates": [36.8, -1.3]}}
  ]
}`

func TestLoadConfigAndBuildMap(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "cities.geojson")
	if err := os.WriteFile(data, []byte(testGeoJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "map.toml")
	doc := `
width = 640
height = 480

[projection]
name = "mercator"

[[layers]]
id = "grid"
kind = "graticule"
step = [15.0, 15.0]

[[layers]]
id = "cities"
kind = "circle"
data = "` + data + `"
radius = 6.0
zindex = -5

[[layers]]
id = "labels"
kind = "text"
data = "` + data + `"
label = "name"
`
	if err := os.WriteFile(cfgPath, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Width != 640 || cfg.Projection.Name != "mercator" {
		t.Fatalf("decoded config %+v", cfg)
	}
	if len(cfg.Layers) != 3 {
		t.Fatalf("decoded %d layers", len(cfg.Layers))
	}

	m, err := BuildMap(cfg)
	if err != nil {
		t.Fatalf("BuildMap: %v", err)
	}
	ids := m.LayerIDs()
	if len(ids) != 3 {
		t.Fatalf("built %d layers", len(ids))
	}
	// The explicit negative zindex pushes the circles below the
	// auto-ordered layers.
	if ids[0] != "cities" {
		t.Fatalf("paint order %v, want cities at the bottom", ids)
	}

	circles, _ := m.Layer("cities")
	if got := circles.(*CircleLayer).node().ChildCount(); got != 2 {
		t.Fatalf("got %d circles, want 2", got)
	}
	labels, _ := m.Layer("labels")
	if got := labels.(*TextLayer).node().Child(0).Text(); got != "Lagos" {
		t.Fatalf("first label %q", got)
	}
}

func TestBuildMapUnknownKind(t *testing.T) {
	cfg := &Config{Layers: []LayerConfig{{ID: "x", Kind: "hexbin"}}}
	if _, err := BuildMap(cfg); err == nil {
		t.Fatal("expected unsupported-kind error")
	} else if _, ok := err.(*ErrUnsupportedLayerKind); !ok {
		t.Fatalf("got %T, want *ErrUnsupportedLayerKind", err)
	}
}

func TestBuildMapUnknownProjection(t *testing.T) {
	cfg := &Config{Projection: ProjectionConfig{Name: "sinusoidal"}}
	if _, err := BuildMap(cfg); err == nil {
		t.Fatal("expected unknown-projection error")
	}
}
