package choropleth

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/sfomuseum/go-sfomuseum-spots/colormap"
	"github.com/sfomuseum/go-sfomuseum-spots/frame"
	"github.com/sfomuseum/go-sfomuseum-spots/geometry"
)

// COLOURING_CATEGORICAL assigns one colour per distinct value of a property, spread across the palette.
const COLOURING_CATEGORICAL string = "categorical"

// COLOURING_ADJACENT assigns colours such that neighbouring features (rarely) share a colour.
const COLOURING_ADJACENT string = "adjacent"

// AssignOptions defines configuration options for assigning colours to features.
type AssignOptions struct {
	// The preferred property to colour features by. If absent the first property is used.
	Column string
	// One of COLOURING_CATEGORICAL or COLOURING_ADJACENT.
	Colouring string
	// The palette to draw colours from.
	Colormap *colormap.Colormap
	// The vertex distance used to decide whether two features are adjacent. Defaults to
	// geometry.DEFAULT_ADJACENCY_THRESHOLD.
	Threshold float64
}

// Assignment is the colour assigned to each feature in a frame.
type Assignment struct {
	// The property used to derive categories (COLOURING_CATEGORICAL only).
	Column string
	// The ordered list of distinct category labels (COLOURING_CATEGORICAL only).
	Categories []string
	// The palette index for each feature, or -1.
	Indices []int
	// The fill colour for each feature. Only meaningful when the corresponding Filled value is true.
	Colors []color.RGBA
	// Whether each feature should be drawn at all.
	Filled []bool
}

// Assign returns the colour assignment for each feature in 'f'.
func Assign(ctx context.Context, f *frame.Frame, opts *AssignOptions) (*Assignment, error) {

	if opts.Colormap == nil {
		return nil, fmt.Errorf("Missing colormap")
	}

	switch opts.Colouring {
	case COLOURING_CATEGORICAL, "":
		return assignCategorical(f, opts)
	case COLOURING_ADJACENT:
		return assignAdjacent(ctx, f, opts)
	default:
		return nil, fmt.Errorf("Invalid colouring '%s'", opts.Colouring)
	}
}

func newAssignment(count int) *Assignment {

	return &Assignment{
		Indices: make([]int, count),
		Colors:  make([]color.RGBA, count),
		Filled:  make([]bool, count),
	}
}

func assignCategorical(f *frame.Frame, opts *AssignOptions) (*Assignment, error) {

	count := f.Len()
	cm := opts.Colormap

	a := newAssignment(count)
	a.Column = f.ChooseColumn(opts.Column)

	var codes []int

	if a.Column == "" {

		// Without any properties every feature is its own category
		codes = make([]int, count)
		a.Categories = make([]string, count)

		for i := range codes {
			codes[i] = i
			a.Categories[i] = fmt.Sprintf("%d", i)
		}

	} else {
		codes, a.Categories = Categories(f.Values(a.Column))
	}

	total := len(a.Categories)

	for i, code := range codes {

		if code == -1 {
			a.Indices[i] = -1
			continue
		}

		idx := cm.Index(code, total)

		a.Indices[i] = idx
		a.Colors[i] = cm.Colors[idx]
		a.Filled[i] = true
	}

	slog.Debug("Assigned categorical colours", "column", a.Column, "categories", total, "palette", cm.Name)
	return a, nil
}

func assignAdjacent(ctx context.Context, f *frame.Frame, opts *AssignOptions) (*Assignment, error) {

	threshold := opts.Threshold

	if threshold <= 0 {
		threshold = geometry.DEFAULT_ADJACENCY_THRESHOLD
	}

	geoms := f.Geometries()

	adjacency, err := geometry.Adjacency(ctx, geoms, threshold)

	if err != nil {
		return nil, fmt.Errorf("Failed to derive adjacency graph, %w", err)
	}

	cm := opts.Colormap
	colors := geometry.GreedyColoring(adjacency, cm.Size())

	a := newAssignment(len(geoms))

	for i, idx := range colors {

		a.Indices[i] = idx
		a.Colors[i] = cm.At(idx)
		a.Filled[i] = geoms[i] != nil
	}

	slog.Debug("Assigned adjacent colours", "features", len(geoms), "palette", cm.Name)
	return a, nil
}
