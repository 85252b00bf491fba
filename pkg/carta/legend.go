package carta

import (
	"sort"
	"strconv"

	"github.com/chorograph/carta/internal/svgdom"
	"github.com/chorograph/carta/pkg/scale"
)

// LegendSymbol names how legend entries are drawn.
type LegendSymbol string

const (
	// SymbolAuto picks a symbol from the scale kind: cells for ordinal
	// and threshold scales, a gradient bar for sequential, circles for
	// size.
	SymbolAuto     LegendSymbol = ""
	SymbolCell     LegendSymbol = "cell"
	SymbolCircle   LegendSymbol = "circle"
	SymbolLine     LegendSymbol = "line"
	SymbolGradient LegendSymbol = "gradient"
)

// LegendOrientation lays entries out vertically or horizontally.
type LegendOrientation string

const (
	OrientVertical   LegendOrientation = "vertical"
	OrientHorizontal LegendOrientation = "horizontal"
)

// LegendOptions configures a legend layer.
type LegendOptions struct {
	// Scale is the scale the legend explains. It is classified by
	// probing its methods, so any of the scale package's types (or a
	// compatible type) works.
	Scale any

	// SizeScale optionally supplies a second, size-valued scale so a
	// color legend can also vary symbol size per entry.
	SizeScale any

	// Symbol overrides the automatic choice.
	Symbol LegendSymbol

	// Orientation defaults to OrientVertical.
	Orientation LegendOrientation

	// Overlapping nests the symbols at a shared baseline, largest
	// drawn first, with leader lines to the labels. Effective for
	// circle and cell symbols.
	Overlapping bool

	// Title is rendered above the entries.
	Title string

	// Steps is the sample count for sequential scales. Defaults to 5.
	Steps int

	// Position is the legend's top-left corner in screen pixels.
	Position [2]float64

	// Background draws a white backing rectangle sized to the content.
	Background bool

	// Draggable marks the legend group for pointer dragging by the
	// host. The layer itself only tags the group; moving it is
	// SetPosition or MoveBy.
	Draggable bool

	Attrs  Attrs
	Styles Styles
}

// LegendEntry is one row of a legend.
type LegendEntry struct {
	Value string
	Label string
	Color string
	Size  float64
}

// Layout constants. Sizes are in pixels.
const (
	legendCell     = 14.0
	legendGap      = 6.0
	legendFontSize = 11.0
	legendPad      = 8.0
	legendGradW    = 16.0
	legendGradH    = 120.0
)

// LegendLayer renders a legend for a scale. The entries derive from
// the scale itself, so legend and map can never disagree about the
// encoding.
type LegendLayer struct {
	BaseLayer
	opts    LegendOptions
	entries []LegendEntry
	pos     [2]float64
}

// NewLegendLayer creates a legend layer and derives its entries from
// the configured scale.
func NewLegendLayer(id string, opts LegendOptions) *LegendLayer {
	if opts.Orientation == "" {
		opts.Orientation = OrientVertical
	}
	if opts.Steps <= 0 {
		opts.Steps = 5
	}
	l := &LegendLayer{
		BaseLayer: newBaseLayer(id, opts.Attrs, opts.Styles),
		opts:      opts,
		pos:       opts.Position,
	}
	l.entries = l.buildEntries()
	return l
}

// Entries returns the derived legend rows, in display order.
func (l *LegendLayer) Entries() []LegendEntry { return l.entries }

// SetPosition moves the legend to an absolute screen position. Takes
// effect on the next render.
func (l *LegendLayer) SetPosition(x, y float64) {
	l.pos = [2]float64{x, y}
	if l.group != nil {
		l.group.SetAttr("transform", "translate("+fmtCoord(x)+","+fmtCoord(y)+")")
	}
}

// MoveBy shifts the legend relative to its current position. The
// pointer-drag entry point.
func (l *LegendLayer) MoveBy(dx, dy float64) {
	l.SetPosition(l.pos[0]+dx, l.pos[1]+dy)
}

// Position returns the legend's current screen position.
func (l *LegendLayer) Position() [2]float64 { return l.pos }

// buildEntries derives legend rows from the scale classification.
func (l *LegendLayer) buildEntries() []LegendEntry {
	c := scale.Classify(l.opts.Scale)
	var entries []LegendEntry

	switch c.Kind {
	case scale.KindOrdinal:
		for i, cat := range c.Categories {
			color := ""
			if i < len(c.Colors) {
				color = c.Colors[i]
			}
			entries = append(entries, LegendEntry{Value: cat, Label: cat, Color: color})
		}
	case scale.KindThreshold:
		entries = thresholdEntries(c)
	case scale.KindSequential:
		for i := 0; i < l.opts.Steps; i++ {
			t := 0.0
			if l.opts.Steps > 1 {
				t = float64(i) / float64(l.opts.Steps-1)
			}
			v := c.Extent[0] + (c.Extent[1]-c.Extent[0])*t
			label := formatLegendNumber(v)
			entries = append(entries, LegendEntry{Value: label, Label: label, Color: c.ColorAt(t)})
		}
	case scale.KindSize:
		for i := 0; i < l.opts.Steps; i++ {
			t := 0.0
			if l.opts.Steps > 1 {
				t = float64(i) / float64(l.opts.Steps-1)
			}
			v := c.Extent[0] + (c.Extent[1]-c.Extent[0])*t
			label := formatLegendNumber(v)
			entries = append(entries, LegendEntry{Value: label, Label: label, Size: c.SizeAt(v)})
		}
	}

	if sc := scale.Classify(l.opts.SizeScale); sc.Kind == scale.KindSize && sc.SizeAt != nil {
		for i := range entries {
			if v, err := strconv.ParseFloat(entries[i].Value, 64); err == nil {
				entries[i].Size = sc.SizeAt(v)
			}
		}
	}
	return entries
}

// thresholdEntries labels each class by its break interval: open below
// the first break, open above the last.
func thresholdEntries(c scale.Classification) []LegendEntry {
	var entries []LegendEntry
	for i, color := range c.Colors {
		var label string
		switch {
		case i == 0:
			label = "< " + formatLegendNumber(c.Breaks[0])
		case i == len(c.Colors)-1:
			label = "≥ " + formatLegendNumber(c.Breaks[len(c.Breaks)-1])
		default:
			label = formatLegendNumber(c.Breaks[i-1]) + " – " + formatLegendNumber(c.Breaks[i])
		}
		entries = append(entries, LegendEntry{Value: label, Label: label, Color: color})
	}
	return entries
}

func formatLegendNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// symbol resolves the effective symbol for the classified scale.
func (l *LegendLayer) symbol() LegendSymbol {
	if l.opts.Symbol != SymbolAuto {
		return l.opts.Symbol
	}
	switch scale.Classify(l.opts.Scale).Kind {
	case scale.KindSequential:
		return SymbolGradient
	case scale.KindSize:
		return SymbolCircle
	default:
		return SymbolCell
	}
}

// Render draws the legend at its screen position. Legends are screen
// furniture: they ignore the projection entirely.
func (l *LegendLayer) Render(container *svgdom.Element) error {
	g := l.begin(container, "carta-legend")
	g.SetAttr("transform", "translate("+fmtCoord(l.pos[0])+","+fmtCoord(l.pos[1])+")")
	if l.opts.Draggable {
		g.SetAttr("data-draggable", "true")
	}

	y := legendPad
	if l.opts.Title != "" {
		g.AppendChild(svgdom.New("text").
			SetAttr("x", fmtCoord(legendPad)).
			SetAttr("y", fmtCoord(y+legendFontSize)).
			SetAttr("font-size", fmtCoord(legendFontSize+1)).
			SetAttr("font-weight", "bold").
			SetText(l.opts.Title))
		y += legendFontSize + legendGap*2
	}

	sym := l.symbol()
	switch {
	case sym == SymbolGradient:
		l.renderGradient(g, y)
	case l.opts.Overlapping:
		l.renderOverlapping(g, y, sym)
	default:
		l.renderRows(g, y, sym)
	}

	if l.opts.Background {
		l.insertBackground(g)
	}
	return nil
}

// renderRows lays entries out one per row (or column when horizontal).
func (l *LegendLayer) renderRows(g *svgdom.Element, y float64, sym LegendSymbol) {
	x := legendPad
	for _, e := range l.entries {
		row := svgdom.New("g").SetAttr("class", "carta-legend-entry")

		switch sym {
		case SymbolCircle:
			r := e.Size
			if r <= 0 {
				r = legendCell / 2
			}
			c := svgdom.New("circle").
				SetAttr("cx", fmtCoord(x+legendCell/2)).
				SetAttr("cy", fmtCoord(y+legendCell/2)).
				SetAttr("r", fmtCoord(r))
			if e.Color != "" {
				c.SetAttr("fill", e.Color)
			} else {
				c.SetAttr("fill", "none").SetAttr("stroke", "#444")
			}
			row.AppendChild(c)
		case SymbolLine:
			ln := svgdom.New("line").
				SetAttr("x1", fmtCoord(x)).
				SetAttr("y1", fmtCoord(y+legendCell/2)).
				SetAttr("x2", fmtCoord(x+legendCell)).
				SetAttr("y2", fmtCoord(y+legendCell/2)).
				SetAttr("stroke", nonEmpty(e.Color, "#444"))
			if e.Size > 0 {
				ln.SetAttr("stroke-width", fmtCoord(e.Size))
			}
			row.AppendChild(ln)
		default:
			row.AppendChild(svgdom.New("rect").
				SetAttr("x", fmtCoord(x)).
				SetAttr("y", fmtCoord(y)).
				SetAttr("width", fmtCoord(legendCell)).
				SetAttr("height", fmtCoord(legendCell)).
				SetAttr("fill", nonEmpty(e.Color, "#ccc")))
		}

		row.AppendChild(svgdom.New("text").
			SetAttr("x", fmtCoord(x+legendCell+legendGap)).
			SetAttr("y", fmtCoord(y+legendCell-3)).
			SetAttr("font-size", fmtCoord(legendFontSize)).
			SetText(e.Label))
		g.AppendChild(row)

		if l.opts.Orientation == OrientHorizontal {
			x += legendCell + legendGap + estimateTextWidth(e.Label) + legendGap*2
		} else {
			y += legendCell + legendGap
		}
	}
}

// renderOverlapping nests all symbols at a shared bottom baseline,
// drawing the largest first so every smaller symbol stays visible, with
// leader lines out to the labels.
func (l *LegendLayer) renderOverlapping(g *svgdom.Element, y float64, sym LegendSymbol) {
	ordered := make([]LegendEntry, len(l.entries))
	copy(ordered, l.entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return entrySize(ordered[i]) > entrySize(ordered[j])
	})

	maxSize := legendCell
	for _, e := range ordered {
		if s := entrySize(e); s > maxSize {
			maxSize = s
		}
	}
	baseline := y + maxSize*2
	cx := legendPad + maxSize
	labelX := cx + maxSize + legendGap*2

	for _, e := range ordered {
		s := entrySize(e)
		var top float64
		switch sym {
		case SymbolCircle:
			top = baseline - s*2
			g.AppendChild(svgdom.New("circle").
				SetAttr("cx", fmtCoord(cx)).
				SetAttr("cy", fmtCoord(baseline-s)).
				SetAttr("r", fmtCoord(s)).
				SetAttr("fill", "none").
				SetAttr("stroke", nonEmpty(e.Color, "#444")))
		case SymbolLine:
			// Stacked strokes share the baseline; thicker lines extend
			// further up.
			top = baseline - s
			g.AppendChild(svgdom.New("line").
				SetAttr("x1", fmtCoord(cx-maxSize)).
				SetAttr("y1", fmtCoord(top)).
				SetAttr("x2", fmtCoord(cx+maxSize)).
				SetAttr("y2", fmtCoord(top)).
				SetAttr("stroke", nonEmpty(e.Color, "#444")).
				SetAttr("stroke-width", fmtCoord(s)))
		default:
			top = baseline - s
			g.AppendChild(svgdom.New("rect").
				SetAttr("x", fmtCoord(cx-s/2)).
				SetAttr("y", fmtCoord(top)).
				SetAttr("width", fmtCoord(s)).
				SetAttr("height", fmtCoord(s)).
				SetAttr("fill", "none").
				SetAttr("stroke", nonEmpty(e.Color, "#444")))
		}

		g.AppendChild(svgdom.New("line").
			SetAttr("x1", fmtCoord(cx)).
			SetAttr("y1", fmtCoord(top)).
			SetAttr("x2", fmtCoord(labelX)).
			SetAttr("y2", fmtCoord(top)).
			SetAttr("stroke", "#999").
			SetAttr("stroke-dasharray", "2,2"))
		g.AppendChild(svgdom.New("text").
			SetAttr("x", fmtCoord(labelX+legendGap/2)).
			SetAttr("y", fmtCoord(top+legendFontSize/3)).
			SetAttr("font-size", fmtCoord(legendFontSize)).
			SetText(e.Label))
	}
}

func entrySize(e LegendEntry) float64 {
	if e.Size > 0 {
		return e.Size
	}
	return legendCell / 2
}

// renderGradient draws a continuous color bar with end and midpoint
// tick labels.
func (l *LegendLayer) renderGradient(g *svgdom.Element, y float64) {
	c := scale.Classify(l.opts.Scale)
	if c.ColorAt == nil {
		l.renderRows(g, y, SymbolCell)
		return
	}

	gradID := "carta-legend-grad-" + l.id
	defs := svgdom.New("defs")
	grad := svgdom.New("linearGradient").SetAttr("id", gradID)
	vertical := l.opts.Orientation != OrientHorizontal
	if vertical {
		// Top of the bar is the domain maximum.
		grad.SetAttr("x1", "0").SetAttr("y1", "1").
			SetAttr("x2", "0").SetAttr("y2", "0")
	} else {
		grad.SetAttr("x1", "0").SetAttr("y1", "0").
			SetAttr("x2", "1").SetAttr("y2", "0")
	}
	const gradStops = 10
	for i := 0; i <= gradStops; i++ {
		t := float64(i) / gradStops
		grad.AppendChild(svgdom.New("stop").
			SetAttr("offset", fmtCoord(t*100)+"%").
			SetAttr("stop-color", c.ColorAt(t)))
	}
	defs.AppendChild(grad)
	g.AppendChild(defs)

	w, h := legendGradW, legendGradH
	if !vertical {
		w, h = legendGradH, legendGradW
	}
	g.AppendChild(svgdom.New("rect").
		SetAttr("x", fmtCoord(legendPad)).
		SetAttr("y", fmtCoord(y)).
		SetAttr("width", fmtCoord(w)).
		SetAttr("height", fmtCoord(h)).
		SetAttr("fill", "url(#"+gradID+")"))

	ticks := []float64{0, 0.5, 1}
	for _, t := range ticks {
		v := c.Extent[0] + (c.Extent[1]-c.Extent[0])*t
		label := formatLegendNumber(v)
		tx, ty := legendPad+w+legendGap, y+h-t*h+legendFontSize/3
		if !vertical {
			tx, ty = legendPad+t*w, y+h+legendFontSize+2
		}
		g.AppendChild(svgdom.New("text").
			SetAttr("x", fmtCoord(tx)).
			SetAttr("y", fmtCoord(ty)).
			SetAttr("font-size", fmtCoord(legendFontSize)).
			SetText(label))
	}
}

// insertBackground measures the rendered content and inserts a backing
// rectangle as the group's first child.
func (l *LegendLayer) insertBackground(g *svgdom.Element) {
	w, h := l.estimateExtent()
	bg := svgdom.New("rect").
		SetAttr("x", "0").
		SetAttr("y", "0").
		SetAttr("width", fmtCoord(w)).
		SetAttr("height", fmtCoord(h)).
		SetAttr("fill", "white").
		SetAttr("fill-opacity", "0.85").
		SetAttr("stroke", "#ddd")
	if g.ChildCount() > 0 {
		g.InsertBefore(bg, g.Child(0))
	} else {
		g.AppendChild(bg)
	}
}

// estimateExtent approximates the legend's content box. Text width is
// estimated from character count; without a layout engine this is as
// good as it gets and is fine for a backing rectangle.
func (l *LegendLayer) estimateExtent() (w, h float64) {
	maxLabel := 0.0
	for _, e := range l.entries {
		if lw := estimateTextWidth(e.Label); lw > maxLabel {
			maxLabel = lw
		}
	}
	if tw := estimateTextWidth(l.opts.Title); tw > maxLabel+legendCell+legendGap {
		maxLabel = tw - legendCell - legendGap
	}

	rows := float64(len(l.entries))
	if l.symbol() == SymbolGradient {
		w = legendPad*2 + legendGradW + legendGap + maxLabel
		h = legendPad*2 + legendGradH
	} else if l.opts.Orientation == OrientHorizontal {
		w = legendPad * 2
		for _, e := range l.entries {
			w += legendCell + legendGap + estimateTextWidth(e.Label) + legendGap*2
		}
		h = legendPad*2 + legendCell
	} else {
		w = legendPad*2 + legendCell + legendGap + maxLabel
		h = legendPad*2 + rows*(legendCell+legendGap)
	}
	if l.opts.Title != "" {
		h += legendFontSize + legendGap*2
	}
	return w, h
}

func estimateTextWidth(s string) float64 {
	return float64(len(s)) * legendFontSize * 0.6
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
