// Package colormap provides the named color palettes used for rendering
// solar imaging data. Each palette is a 256-entry lookup table built from a
// small set of gradient keypoints, blended in Lab space so the perceived
// brightness ramps smoothly.
//
// The SDO/AIA palettes (sdoaia94 ... sdoaia4500) approximate the standard
// color tables used for each AIA passband; the generic palettes ("gray",
// "viridis") serve as defaults where no passband applies.
package colormap

import (
	"errors"
	"fmt"
	"image/color"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrUnknownColormap is returned when a palette name has no registry entry.
var ErrUnknownColormap = errors.New("colormap: unknown colormap")

// Default is the palette name used when a caller does not pick one.
const Default = "viridis"

// stop is a single gradient keypoint: a color pinned at a position in [0,1].
type stop struct {
	pos float64
	hex string
}

// gradient is an ordered list of keypoints from position 0 to 1.
type gradient []stop

// registry maps palette names to their gradient definitions. AIA gradients
// run from black through the passband's characteristic hue toward a bright
// tint, matching the look of the mission color tables.
var registry = map[string]gradient{
	"gray": {
		{0, "#000000"},
		{1, "#ffffff"},
	},
	"viridis": {
		{0.00, "#440154"},
		{0.25, "#3b528b"},
		{0.50, "#21918c"},
		{0.75, "#5ec962"},
		{1.00, "#fde725"},
	},
	"sdoaia94": {
		{0, "#000000"},
		{0.5, "#2f7326"},
		{1, "#d8f9c9"},
	},
	"sdoaia131": {
		{0, "#000000"},
		{0.5, "#00a3a3"},
		{1, "#d1ffff"},
	},
	"sdoaia171": {
		{0, "#000000"},
		{0.5, "#c78b25"},
		{1, "#ffe8b0"},
	},
	"sdoaia193": {
		{0, "#000000"},
		{0.5, "#b5702a"},
		{1, "#fff3d1"},
	},
	"sdoaia211": {
		{0, "#000000"},
		{0.5, "#9a4ea0"},
		{1, "#f7d6f2"},
	},
	"sdoaia304": {
		{0, "#000000"},
		{0.5, "#c92f1f"},
		{1, "#ffd9a8"},
	},
	"sdoaia335": {
		{0, "#000000"},
		{0.5, "#2a52be"},
		{1, "#cfe0ff"},
	},
	"sdoaia1600": {
		{0, "#000000"},
		{0.5, "#8a9a2e"},
		{1, "#f4ffd0"},
	},
	"sdoaia1700": {
		{0, "#000000"},
		{0.5, "#9c8468"},
		{1, "#fff0e0"},
	},
	"sdoaia4500": {
		{0, "#000000"},
		{0.5, "#4060c0"},
		{1, "#ffe680"},
	},
}

// entries is the size of every generated lookup table.
const entries = 256

// Get returns the 256-entry palette registered under name. Unknown names
// fail with ErrUnknownColormap.
func Get(name string) (color.Palette, error) {
	g, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColormap, name)
	}
	return g.palette(), nil
}

// MustGet returns the palette registered under name and panics on unknown
// names. It exists for the package's own well-known defaults.
func MustGet(name string) color.Palette {
	p, err := Get(name)
	if err != nil {
		panic(err)
	}
	return p
}

// Names returns all registered palette names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// palette expands the gradient into a lookup table by blending adjacent
// keypoints in Lab space.
func (g gradient) palette() color.Palette {
	pal := make(color.Palette, entries)
	for i := 0; i < entries; i++ {
		t := float64(i) / float64(entries-1)
		pal[i] = g.at(t)
	}
	return pal
}

// at evaluates the gradient at position t in [0,1].
func (g gradient) at(t float64) color.Color {
	for i := 0; i < len(g)-1; i++ {
		lo, hi := g[i], g[i+1]
		if t < lo.pos || t > hi.pos {
			continue
		}
		c0, _ := colorful.Hex(lo.hex)
		c1, _ := colorful.Hex(hi.hex)
		frac := 0.0
		if hi.pos > lo.pos {
			frac = (t - lo.pos) / (hi.pos - lo.pos)
		}
		blended := c0.BlendLab(c1, frac).Clamped()
		r, gg, b := blended.RGB255()
		return color.RGBA{R: r, G: gg, B: b, A: 255}
	}
	// t outside the keypoint range, clamp to the nearest end.
	var c colorful.Color
	if t <= g[0].pos {
		c, _ = colorful.Hex(g[0].hex)
	} else {
		c, _ = colorful.Hex(g[len(g)-1].hex)
	}
	r, gg, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: gg, B: b, A: 255}
}
