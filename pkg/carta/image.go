package carta

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"math"
	"sync"

	"github.com/paulmach/orb"

	"github.com/chorograph/carta/internal/raster"
	"github.com/chorograph/carta/internal/svgdom"
	"github.com/chorograph/carta/pkg/projection"
)

// GeoBounds is a geographic bounding box in degrees.
type GeoBounds struct {
	West  float64
	South float64
	East  float64
	North float64
}

// ImageState reports where an image layer is in its load cycle.
type ImageState int

const (
	// ImageUninitialized means no image data is available yet.
	ImageUninitialized ImageState = iota

	// ImageLoading means a Load call is in flight.
	ImageLoading

	// ImageReady means image data is available for rendering.
	ImageReady
)

// String implements fmt.Stringer.
func (s ImageState) String() string {
	switch s {
	case ImageLoading:
		return "loading"
	case ImageReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// ImageOptions configures a georeferenced image layer.
type ImageOptions struct {
	// Source supplies the image directly. When set, the layer starts
	// ready and Load is unnecessary.
	Source image.Image

	// Load fetches the image on demand. Called by the layer's Load
	// method.
	Load func(ctx context.Context) (image.Image, error)

	// Bounds georeferences the image: its edges map to these
	// coordinates.
	Bounds GeoBounds

	// Opacity in [0, 1]. Defaults to 1.
	Opacity float64

	// ShowBboxMarkers draws small circles at the projected corners.
	// Useful while calibrating bounds.
	ShowBboxMarkers bool

	Attrs  Attrs
	Styles Styles
}

// ImageLayer renders a georeferenced raster image under the current
// projection. When the projection is affine in lon/lat the image is
// scaled directly; otherwise every destination pixel is inverse
// projected and sampled from the source (a warp).
type ImageLayer struct {
	BaseLayer
	opts ImageOptions

	mu         sync.Mutex
	img        image.Image
	state      ImageState
	generation int
}

// NewImageLayer creates an image layer.
func NewImageLayer(id string, opts ImageOptions) *ImageLayer {
	if opts.Opacity <= 0 || opts.Opacity > 1 {
		opts.Opacity = 1
	}
	l := &ImageLayer{
		BaseLayer: newBaseLayer(id, opts.Attrs, opts.Styles),
		opts:      opts,
	}
	if opts.Source != nil {
		l.img = opts.Source
		l.state = ImageReady
	}
	return l
}

// State returns the layer's current load state.
func (l *ImageLayer) State() ImageState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Load fetches the image via the configured loader. Concurrent calls
// are safe: each call starts a new generation and a load superseded by
// a newer one discards its result and returns nil. A failed load
// returns to the previous state.
func (l *ImageLayer) Load(ctx context.Context) error {
	l.mu.Lock()
	if l.opts.Load == nil {
		l.mu.Unlock()
		return &ErrImageLoad{LayerID: l.id, Err: errNoLoader}
	}
	l.generation++
	gen := l.generation
	prev := l.state
	l.state = ImageLoading
	l.mu.Unlock()

	img, err := l.opts.Load(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.generation {
		return nil
	}
	if err != nil {
		l.state = prev
		return &ErrImageLoad{LayerID: l.id, Err: err}
	}
	l.img = img
	l.state = ImageReady
	return nil
}

// Bounds returns the layer's geographic bounds.
func (l *ImageLayer) Bounds() GeoBounds { return l.opts.Bounds }

// Render draws the image if it is ready; otherwise the layer's group
// stays empty until the next render after a successful Load.
func (l *ImageLayer) Render(container *svgdom.Element) error {
	g := l.begin(container, "carta-image")
	if l.proj == nil {
		return nil
	}

	l.mu.Lock()
	img := l.img
	ready := l.state == ImageReady
	l.mu.Unlock()
	if !ready || img == nil {
		return nil
	}

	b := raster.Bounds{
		West:  l.opts.Bounds.West,
		South: l.opts.Bounds.South,
		East:  l.opts.Bounds.East,
		North: l.opts.Bounds.North,
	}
	if !b.Valid() {
		return nil
	}

	var el *svgdom.Element
	if aff, affine := l.proj.(projection.Affine); affine {
		if sx, sy, ox, oy, ok := aff.AffineTransform(); ok {
			el = placeDirect(img, b, sx, sy, ox, oy)
		}
	}
	if el == nil {
		rect, ok := raster.ScreenBounds(b, l.proj)
		if !ok || rect.Empty() {
			return nil
		}
		out := raster.Warp(img, b, l.proj, rect)
		uri, err := pngDataURI(out)
		if err != nil {
			return &ErrImageLoad{LayerID: l.id, Err: err}
		}
		el = svgdom.New("image").
			SetAttr("x", fmtCoord(float64(rect.Min.X))).
			SetAttr("y", fmtCoord(float64(rect.Min.Y))).
			SetAttr("width", fmtCoord(float64(rect.Dx()))).
			SetAttr("height", fmtCoord(float64(rect.Dy()))).
			SetAttr("href", uri)
	}
	if l.opts.Opacity < 1 {
		el.SetAttr("opacity", fmtCoord(l.opts.Opacity))
	}
	l.applyValues(el, nil, 0)
	g.AppendChild(el)

	if l.opts.ShowBboxMarkers {
		l.renderCorners(g)
	}
	return nil
}

// placeDirect builds the image element for a projection that maps
// lon/lat linearly to screen space: the raster is encoded at its native
// dimensions and the element's screen box, derived from the affine
// coefficients, does the scaling. No pixel is resampled on this path.
func placeDirect(img image.Image, b raster.Bounds, sx, sy, ox, oy float64) *svgdom.Element {
	xw := sx*b.West + ox
	xe := sx*b.East + ox
	yn := sy*b.North + oy
	ys := sy*b.South + oy

	x := math.Min(xw, xe)
	y := math.Min(yn, ys)
	w := math.Abs(xe - xw)
	h := math.Abs(ys - yn)
	if w <= 0 || h <= 0 {
		return nil
	}

	uri, err := pngDataURI(img)
	if err != nil {
		return nil
	}
	return svgdom.New("image").
		SetAttr("x", fmtCoord(x)).
		SetAttr("y", fmtCoord(y)).
		SetAttr("width", fmtCoord(w)).
		SetAttr("height", fmtCoord(h)).
		SetAttr("preserveAspectRatio", "none").
		SetAttr("href", uri)
}

// pngDataURI encodes the image as a base64 PNG data URI.
func pngDataURI(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// renderCorners draws calibration markers at the four projected bound
// corners.
func (l *ImageLayer) renderCorners(g *svgdom.Element) {
	corners := [][2]float64{
		{l.opts.Bounds.West, l.opts.Bounds.North},
		{l.opts.Bounds.East, l.opts.Bounds.North},
		{l.opts.Bounds.East, l.opts.Bounds.South},
		{l.opts.Bounds.West, l.opts.Bounds.South},
	}
	for _, c := range corners {
		x, y, ok := l.proj.Project(orb.Point{c[0], c[1]})
		if !ok {
			continue
		}
		g.AppendChild(svgdom.New("circle").
			SetAttr("cx", fmtCoord(x)).
			SetAttr("cy", fmtCoord(y)).
			SetAttr("r", "3").
			SetAttr("fill", "red"))
	}
}
