package carta

import (
	"strings"

	"github.com/chorograph/carta/internal/svgdom"
	"github.com/chorograph/carta/pkg/projection"
)

// OutlineOptions configures a sphere-outline layer.
type OutlineOptions struct {
	// ClipID, when set, additionally emits the outline as a clipPath
	// definition with this id so other layers can clip to the globe.
	ClipID string

	Attrs  Attrs
	Styles Styles
}

// OutlineLayer draws the projection's sphere outline: the boundary of
// the projected earth. Projections that do not expose an outline
// render nothing.
type OutlineLayer struct {
	BaseLayer
	opts OutlineOptions
}

// NewOutlineLayer creates a sphere-outline layer.
func NewOutlineLayer(id string, opts OutlineOptions) *OutlineLayer {
	return &OutlineLayer{
		BaseLayer: newBaseLayer(id, opts.Attrs, opts.Styles),
		opts:      opts,
	}
}

// Render draws the outline as a single closed path.
func (l *OutlineLayer) Render(container *svgdom.Element) error {
	g := l.begin(container, "carta-outline")
	if l.proj == nil {
		return nil
	}
	outliner, ok := l.proj.(projection.Outliner)
	if !ok {
		return nil
	}
	pts := outliner.SphereOutline(90)
	if len(pts) < 3 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("M" + fmtCoord(pts[0][0]) + "," + fmtCoord(pts[0][1]))
	for _, p := range pts[1:] {
		sb.WriteString("L" + fmtCoord(p[0]) + "," + fmtCoord(p[1]))
	}
	sb.WriteString("Z")
	d := sb.String()

	el := svgdom.New("path").
		SetAttr("d", d).
		SetAttr("fill", "none")
	l.applyValues(el, nil, 0)
	g.AppendChild(el)

	if l.opts.ClipID != "" {
		defs := svgdom.New("defs")
		clip := svgdom.New("clipPath").SetAttr("id", l.opts.ClipID)
		clip.AppendChild(svgdom.New("path").SetAttr("d", d))
		defs.AppendChild(clip)
		g.AppendChild(defs)
	}
	return nil
}
