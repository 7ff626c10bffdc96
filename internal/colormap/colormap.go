// Package colormap maps win-rates in [0,1] to colours.
package colormap

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrUnknownColormap is returned by Lookup for unregistered names.
var ErrUnknownColormap = errors.New("unknown colormap")

// Default is used when no colour map is requested.
const Default = "coolwarm"

// Map is a sequence of evenly spaced colour stops.
type Map struct {
	name  string
	stops []colorful.Color
}

// stops for the matplotlib maps, sampled at even intervals.
var registry = map[string][]string{
	"coolwarm":    {"#3b4cc0", "#7b9ff9", "#c0d4f5", "#dddcdc", "#f2cbb7", "#ee8468", "#b40426"},
	"viridis":     {"#440154", "#482878", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"},
	"plasma":      {"#0d0887", "#46039f", "#7201a8", "#9c179e", "#bd3786", "#d8576b", "#ed7953", "#fb9f3a", "#fdca26", "#f0f921"},
	"magma":       {"#000004", "#180f3d", "#440f76", "#721f81", "#9e2f7f", "#cd4071", "#f1605d", "#fd9668", "#feca8d", "#fcfdbf"},
	"inferno":     {"#000004", "#1b0c41", "#4a0c6b", "#781c6d", "#a52c60", "#cf4446", "#ed6925", "#fb9b06", "#f7d13d", "#fcffa4"},
	"rdbu":        {"#67001f", "#b2182b", "#d6604d", "#f4a582", "#fddbc7", "#f7f7f7", "#d1e5f0", "#92c5de", "#4393c3", "#2166ac", "#053061"},
	"piyg":        {"#8e0152", "#c51b7d", "#de77ae", "#f1b6da", "#fde0ef", "#f7f7f7", "#e6f5d0", "#b8e186", "#7fbc41", "#4d9221", "#276419"},
	"spectral":    {"#9e0142", "#d53e4f", "#f46d43", "#fdae61", "#fee08b", "#ffffbf", "#e6f598", "#abdda4", "#66c2a5", "#3288bd", "#5e4fa2"},
	"bwr":         {"#0000ff", "#ffffff", "#ff0000"},
	"seismic":     {"#00004c", "#0000ff", "#ffffff", "#ff0000", "#800000"},
	"gray":        {"#000000", "#ffffff"},
	"redgrayblue": {"#ff0000", "#808080", "#0000ff"},
}

// Names returns the registered map names in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the named map. Names are case-insensitive; a trailing "-"
// returns the reversed map.
func Lookup(name string) (*Map, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = Default
	}
	reversed := strings.HasSuffix(name, "-")
	key := strings.ToLower(strings.TrimRight(name, "-"))
	hexes, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownColormap, name, strings.Join(Names(), ", "))
	}
	stops := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("colormap %s stop %d: %w", key, i, err)
		}
		stops[i] = c
	}
	m := &Map{name: key, stops: stops}
	if reversed {
		m = m.Reversed()
	}
	return m, nil
}

// Name returns the map's registry name, with "-" when reversed.
func (m *Map) Name() string { return m.name }

// Reversed returns a copy of m running from the last stop to the first.
func (m *Map) Reversed() *Map {
	stops := make([]colorful.Color, len(m.stops))
	for i, c := range m.stops {
		stops[len(stops)-1-i] = c
	}
	name := m.name + "-"
	if strings.HasSuffix(m.name, "-") {
		name = strings.TrimSuffix(m.name, "-")
	}
	return &Map{name: name, stops: stops}
}

// At returns the colour for v, clamped to [0,1].
func (m *Map) At(v float64) color.RGBA {
	switch {
	case v != v || v <= 0:
		v = 0
	case v >= 1:
		v = 1
	}
	last := len(m.stops) - 1
	if last == 0 {
		return toRGBA(m.stops[0])
	}
	pos := v * float64(last)
	i := int(pos)
	if i >= last {
		return toRGBA(m.stops[last])
	}
	t := pos - float64(i)
	return toRGBA(m.stops[i].BlendRgb(m.stops[i+1], t))
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
