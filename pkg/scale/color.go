package scale

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// cssNames covers the named colors that show up in thematic map styles.
// Not the full CSS list; unknown names simply fail to parse and the
// value is treated as a non-color.
var cssNames = map[string]string{
	"black":       "#000000",
	"white":       "#ffffff",
	"red":         "#ff0000",
	"green":       "#008000",
	"blue":        "#0000ff",
	"yellow":      "#ffff00",
	"orange":      "#ffa500",
	"purple":      "#800080",
	"gray":        "#808080",
	"grey":        "#808080",
	"silver":      "#c0c0c0",
	"brown":       "#a52a2a",
	"pink":        "#ffc0cb",
	"cyan":        "#00ffff",
	"magenta":     "#ff00ff",
	"navy":        "#000080",
	"teal":        "#008080",
	"olive":       "#808000",
	"maroon":      "#800000",
	"lime":        "#00ff00",
	"gold":        "#ffd700",
	"coral":       "#ff7f50",
	"salmon":      "#fa8072",
	"tomato":      "#ff6347",
	"crimson":     "#dc143c",
	"indigo":      "#4b0082",
	"violet":      "#ee82ee",
	"plum":        "#dda0dd",
	"orchid":      "#da70d6",
	"khaki":       "#f0e68c",
	"turquoise":   "#40e0d0",
	"skyblue":     "#87ceeb",
	"steelblue":   "#4682b4",
	"seagreen":    "#2e8b57",
	"forestgreen": "#228b22",
	"darkred":     "#8b0000",
	"darkblue":    "#00008b",
	"darkgreen":   "#006400",
	"lightgray":   "#d3d3d3",
	"lightblue":   "#add8e6",
	"beige":       "#f5f5dc",
	"ivory":       "#fffff0",
	"transparent": "#000000",
	"none":        "#000000",
}

// ParseColor parses a CSS-style color string: #rgb/#rrggbb hex,
// rgb(r, g, b) and a set of common named colors.
func ParseColor(s string) (colorful.Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return colorful.Color{}, false
	}

	if strings.HasPrefix(s, "#") {
		if len(s) == 4 {
			// Expand #abc to #aabbcc.
			s = fmt.Sprintf("#%c%c%c%c%c%c", s[1], s[1], s[2], s[2], s[3], s[3])
		}
		c, err := colorful.Hex(s)
		return c, err == nil
	}

	if strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba(") {
		open := strings.Index(s, "(")
		end := strings.LastIndex(s, ")")
		if end <= open {
			return colorful.Color{}, false
		}
		parts := strings.Split(s[open+1:end], ",")
		if len(parts) < 3 {
			return colorful.Color{}, false
		}
		var ch [3]float64
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
			if err != nil {
				return colorful.Color{}, false
			}
			ch[i] = v / 255
		}
		return colorful.Color{R: ch[0], G: ch[1], B: ch[2]}, true
	}

	if hex, ok := cssNames[s]; ok {
		c, err := colorful.Hex(hex)
		return c, err == nil
	}
	return colorful.Color{}, false
}

// IsColor reports whether the string parses as a color. Plain numbers
// are explicitly not colors: this heuristic is what separates color
// scales from size scales during classification.
func IsColor(s string) bool {
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return false
	}
	_, ok := ParseColor(s)
	return ok
}

// Interpolate builds a color interpolator over t in [0, 1] by blending
// the given color stops in Lab space. Lab blending avoids the muddy
// midpoints RGB blending produces.
//
// Unparseable stops are skipped; with no valid stops the interpolator
// returns black.
func Interpolate(stops ...string) func(t float64) string {
	colors := make([]colorful.Color, 0, len(stops))
	for _, s := range stops {
		if c, ok := ParseColor(s); ok {
			colors = append(colors, c)
		}
	}
	if len(colors) == 0 {
		return func(float64) string { return "#000000" }
	}
	if len(colors) == 1 {
		hex := colors[0].Hex()
		return func(float64) string { return hex }
	}

	return func(t float64) string {
		if t <= 0 {
			return colors[0].Hex()
		}
		if t >= 1 {
			return colors[len(colors)-1].Hex()
		}
		pos := t * float64(len(colors)-1)
		i := int(pos)
		frac := pos - float64(i)
		return colors[i].BlendLab(colors[i+1], frac).Clamped().Hex()
	}
}
