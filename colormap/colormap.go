// Package colormap provides categorical colour palettes and matplotlib-compatible lookups for them.
package colormap

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// DEFAULT_PALETTE is the name of the palette used when none is specified.
const DEFAULT_PALETTE string = "tab20"

var palettes = map[string][]string{
	"tab20": {
		"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c",
		"#98df8a", "#d62728", "#ff9896", "#9467bd", "#c5b0d5",
		"#8c564b", "#c49c94", "#e377c2", "#f7b6d2", "#7f7f7f",
		"#c7c7c7", "#bcbd22", "#dbdb8d", "#17becf", "#9edae5",
	},
	"Set3": {
		"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3", "#fdb462",
		"#b3de69", "#fccde5", "#d9d9d9", "#bc80bd", "#ccebc5", "#ffed6f",
	},
	"Paired": {
		"#a6cee3", "#1f78b4", "#b2df8a", "#33a02c", "#fb9a99", "#e31a1c",
		"#fdbf6f", "#ff7f00", "#cab2d6", "#6a3d9a", "#ffff99", "#b15928",
	},
	"Accent": {
		"#7fc97f", "#beaed4", "#fdc086", "#ffff99",
		"#386cb0", "#f0027f", "#bf5b17", "#666666",
	},
	// The base colours used by the travel website's administrative units layer
	"density": {
		"#4CAF50", "#2196F3", "#FF9800", "#9C27B0", "#00BCD4",
		"#E91E63", "#8BC34A", "#FFC107", "#009688", "#673AB7",
	},
}

// Colormap is a named, ordered list of colours.
type Colormap struct {
	Name   string
	Colors []color.RGBA
}

// Names returns the names of the available palettes.
func Names() []string {
	return []string{"tab20", "Set3", "Paired", "Accent", "density"}
}

// NewColormap returns the palette named 'name'.
func NewColormap(name string) (*Colormap, error) {

	hex_colors, ok := palettes[name]

	if !ok {
		return nil, fmt.Errorf("Unknown palette '%s', expected one of: %s", name, strings.Join(Names(), ", "))
	}

	colors := make([]color.RGBA, len(hex_colors))

	for i, h := range hex_colors {

		c, err := ParseHex(h)

		if err != nil {
			return nil, fmt.Errorf("Failed to parse colour %d of %s, %w", i, name, err)
		}

		colors[i] = c
	}

	cm := &Colormap{
		Name:   name,
		Colors: colors,
	}

	return cm, nil
}

// ParseHex parses a "#rrggbb" (or "rrggbb") string in to an opaque colour.
func ParseHex(s string) (color.RGBA, error) {

	s = strings.TrimPrefix(s, "#")

	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("Invalid colour '%s'", s)
	}

	v, err := strconv.ParseUint(s, 16, 32)

	if err != nil {
		return color.RGBA{}, fmt.Errorf("Invalid colour '%s', %w", s, err)
	}

	c := color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}

	return c, nil
}

// Hex returns the "#rrggbb" representation of 'c'.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Size returns the number of colours in 'cm'.
func (cm *Colormap) Size() int {
	return len(cm.Colors)
}

// At returns the colour at position 'i', wrapping around the end of the palette.
func (cm *Colormap) At(i int) color.RGBA {

	n := len(cm.Colors)
	i = i % n

	if i < 0 {
		i += n
	}

	return cm.Colors[i]
}

// Lookup returns the colour for category 'code' (0 to 'count'-1) spreading 'count' categories evenly across
// the palette. It matches matplotlib's ListedColormap(Normalize(0, count-1)(code)), including its single
// precision arithmetic, so that more categories than colours share colours in contiguous runs.
func (cm *Colormap) Lookup(code int, count int) color.RGBA {

	return cm.Colors[cm.Index(code, count)]
}

// Index returns the palette position used by Lookup.
func (cm *Colormap) Index(code int, count int) int {

	n := len(cm.Colors)

	var x float32

	if count > 1 {
		x = float32(code) / float32(count-1)
	}

	x = x * float32(n)

	if x < 0 {
		return 0
	}

	idx := int(x)

	if idx >= n {
		idx = n - 1
	}

	return idx
}
