// Package carta renders thematic maps from GeoJSON data as layered SVG.
//
// A Map owns an SVG canvas, a shared projection and an ordered set of
// layers. Layers convert features into SVG elements under a dedicated
// group; the map reorders, re-projects and re-renders them as a unit.
//
// # Basic Usage
//
//	proj := projection.NewMercator()
//	m := carta.NewMap(carta.MapOptions{Width: 800, Height: 600, Projection: proj})
//
//	countries := carta.NewGeoJSONLayer("countries", carta.GeoJSONOptions{
//	    Data: fc,
//	    Attrs: carta.Attrs{
//	        "fill":   carta.Fixed("#dddddd"),
//	        "stroke": carta.Fixed("#ffffff"),
//	    },
//	})
//	if err := m.AddLayer(countries); err != nil {
//	    log.Fatal(err)
//	}
//
//	m.FitBounds(bound, 20)
//	m.WriteTo(os.Stdout)
//
// # Layers
//
// Available layer kinds: GeoJSON paths, point circles, point texts,
// point spikes, point annotations, line connections, line texts,
// the sphere outline, graticules, georeferenced raster images and
// legends.
//
// Per-feature styling uses the Value type: every attribute is either a
// fixed value or a function of (feature, index), resolved once per
// feature on every render pass:
//
//	carta.NewCircleLayer("cities", carta.CircleOptions{
//	    Data:   cities,
//	    Radius: carta.Computed(func(f *geojson.Feature, i int) float64 {
//	        return popScale.Value(f.Properties.MustFloat64("population", 0))
//	    }),
//	})
//
// # Lifecycle
//
// A layer's DOM subtree exists exactly while IsRendered reports true.
// Render is a complete recomputation: rendering an already-rendered
// layer tears down its previous output first, so calling it repeatedly
// never duplicates elements. Destroy detaches the subtree and is
// idempotent. Visibility toggles and z-index reorders mutate the
// existing tree without re-rendering; everything else goes through a
// fresh render.
package carta
