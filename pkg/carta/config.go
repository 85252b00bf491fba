package carta

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/chorograph/carta/pkg/projection"
)

// Config describes a complete map declaratively. It is the TOML
// counterpart of building a Map by hand, for hosts that want map
// definitions as data.
type Config struct {
	Width      float64          `toml:"width"`
	Height     float64          `toml:"height"`
	Projection ProjectionConfig `toml:"projection"`
	Layers     []LayerConfig    `toml:"layers"`
}

// ProjectionConfig selects and tunes a projection by name.
type ProjectionConfig struct {
	// Name is one of "equirectangular", "mercator" or "orthographic".
	// Empty selects equirectangular.
	Name string `toml:"name"`

	// Scale overrides the projection scale. Zero leaves the fitted
	// default.
	Scale float64 `toml:"scale"`

	// Center rotates the projection to [longitude, latitude].
	Center []float64 `toml:"center"`
}

// LayerConfig describes one layer. Kind selects the layer type and
// decides which of the remaining fields apply.
type LayerConfig struct {
	ID   string `toml:"id"`
	Kind string `toml:"kind"`

	// Data is a path to a GeoJSON file for data-bearing kinds.
	Data string `toml:"data"`

	ZIndex *int              `toml:"zindex"`
	Attrs  map[string]string `toml:"attrs"`
	Styles map[string]string `toml:"styles"`

	// Radius applies to circle layers and GeoJSON point features.
	Radius float64 `toml:"radius"`

	// Label is the property name text layers read their label from.
	Label string `toml:"label"`

	// Step is the graticule spacing in degrees.
	Step []float64 `toml:"step"`
}

// LoadConfig reads and decodes a TOML map definition.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", path, err)
	}
	return &cfg, nil
}

// BuildMap constructs a map and its layers from a decoded config.
// GeoJSON data paths are resolved relative to the working directory.
func BuildMap(cfg *Config) (*Map, error) {
	proj, err := buildProjection(cfg)
	if err != nil {
		return nil, err
	}
	m := NewMap(MapOptions{
		Width:      cfg.Width,
		Height:     cfg.Height,
		Projection: proj,
	})

	for _, lc := range cfg.Layers {
		l, err := buildLayer(lc)
		if err != nil {
			return nil, err
		}
		if lc.ZIndex != nil {
			l.SetZIndex(*lc.ZIndex)
		}
		if err := m.AddLayer(l); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func buildProjection(cfg *Config) (projection.Projection, error) {
	var p projection.Projection
	switch cfg.Projection.Name {
	case "", "equirectangular":
		p = projection.NewEquirectangular()
	case "mercator":
		p = projection.NewMercator()
	case "orthographic":
		p = projection.NewOrthographic()
	default:
		return nil, fmt.Errorf("unknown projection %q", cfg.Projection.Name)
	}

	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 600
	}
	projection.FitSize(p, width, height, orb.Bound{
		Min: orb.Point{-180, -90},
		Max: orb.Point{180, 90},
	})
	if cfg.Projection.Scale > 0 {
		p.SetScale(cfg.Projection.Scale)
	}
	if len(cfg.Projection.Center) == 2 {
		p.SetRotate(-cfg.Projection.Center[0], -cfg.Projection.Center[1])
	}
	return p, nil
}

func buildLayer(lc LayerConfig) (Layer, error) {
	switch lc.Kind {
	case "geojson":
		fc, err := loadFeatures(lc)
		if err != nil {
			return nil, err
		}
		return NewGeoJSONLayer(lc.ID, GeoJSONOptions{
			Data:        fc,
			PointRadius: configRadius(lc.Radius),
			Attrs:       fixedAttrs(lc.Attrs),
			Styles:      fixedStyles(lc.Styles),
		}), nil
	case "circle":
		fc, err := loadFeatures(lc)
		if err != nil {
			return nil, err
		}
		return NewCircleLayer(lc.ID, CircleOptions{
			Data:   fc,
			Radius: configRadius(lc.Radius),
			Attrs:  fixedAttrs(lc.Attrs),
			Styles: fixedStyles(lc.Styles),
		}), nil
	case "text":
		fc, err := loadFeatures(lc)
		if err != nil {
			return nil, err
		}
		prop := lc.Label
		return NewTextLayer(lc.ID, TextOptions{
			Data: fc,
			Text: Computed(func(f *geojson.Feature, _ int) string {
				if f == nil {
					return ""
				}
				return f.Properties.MustString(prop, "")
			}),
			Attrs:  fixedAttrs(lc.Attrs),
			Styles: fixedStyles(lc.Styles),
		}), nil
	case "graticule":
		var step [2]float64
		if len(lc.Step) == 2 {
			step = [2]float64{lc.Step[0], lc.Step[1]}
		}
		return NewGraticuleLayer(lc.ID, GraticuleOptions{
			Step:   step,
			Attrs:  fixedAttrs(lc.Attrs),
			Styles: fixedStyles(lc.Styles),
		}), nil
	case "outline":
		return NewOutlineLayer(lc.ID, OutlineOptions{
			Attrs:  fixedAttrs(lc.Attrs),
			Styles: fixedStyles(lc.Styles),
		}), nil
	default:
		return nil, &ErrUnsupportedLayerKind{Kind: lc.Kind}
	}
}

func loadFeatures(lc LayerConfig) (*geojson.FeatureCollection, error) {
	if lc.Data == "" {
		return nil, fmt.Errorf("layer %q: kind %q requires a data path", lc.ID, lc.Kind)
	}
	raw, err := os.ReadFile(lc.Data)
	if err != nil {
		return nil, fmt.Errorf("layer %q: %w", lc.ID, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, fmt.Errorf("layer %q: parsing %s: %w", lc.ID, lc.Data, err)
	}
	return fc, nil
}

// configRadius maps the config's zero-means-default radius onto the
// Value option model, where only an explicitly set radius overrides the
// layer default.
func configRadius(r float64) Value[float64] {
	if r <= 0 {
		return Value[float64]{}
	}
	return Fixed(r)
}

func fixedAttrs(in map[string]string) Attrs {
	if len(in) == 0 {
		return nil
	}
	out := make(Attrs, len(in))
	for k, v := range in {
		out[k] = Fixed(v)
	}
	return out
}

func fixedStyles(in map[string]string) Styles {
	if len(in) == 0 {
		return nil
	}
	out := make(Styles, len(in))
	for k, v := range in {
		out[k] = Fixed(v)
	}
	return out
}
