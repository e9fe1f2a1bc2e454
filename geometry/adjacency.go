package geometry

import (
	"context"
	"log/slog"
	"math"
	"slices"

	"github.com/paulmach/orb"
)

// DEFAULT_ADJACENCY_THRESHOLD is the distance, in (planar) degrees, below which two vertices are considered shared.
const DEFAULT_ADJACENCY_THRESHOLD float64 = 0.0001

// Touches reports whether 'a' and 'b' have overlapping bounding boxes and at least one pair of vertices closer
// than 'threshold' to one another.
func Touches(a orb.Geometry, b orb.Geometry, threshold float64) bool {

	if a == nil || b == nil {
		return false
	}

	if !a.Bound().Intersects(b.Bound()) {
		return false
	}

	b_points := Vertices(b)

	for _, pt_a := range Vertices(a) {

		for _, pt_b := range b_points {

			if math.Hypot(pt_a[0]-pt_b[0], pt_a[1]-pt_b[1]) < threshold {
				return true
			}
		}
	}

	return false
}

// Adjacency returns, for each geometry in 'geoms', the (sorted) indices of the other geometries it touches.
// Nil geometries are never adjacent to anything.
func Adjacency(ctx context.Context, geoms []orb.Geometry, threshold float64) ([][]int, error) {

	type pair struct {
		a int
		b int
	}

	done_ch := make(chan bool)
	pair_ch := make(chan pair)

	count := len(geoms)

	for i := 0; i < count; i++ {

		go func(i int) {

			defer func() {
				done_ch <- true
			}()

			for j := i + 1; j < count; j++ {

				if ctx.Err() != nil {
					return
				}

				if Touches(geoms[i], geoms[j], threshold) {
					pair_ch <- pair{i, j}
				}
			}
		}(i)
	}

	adjacency := make([][]int, count)

	for i := range adjacency {
		adjacency[i] = make([]int, 0)
	}

	remaining := count

	for remaining > 0 {
		select {
		case <-done_ch:
			remaining -= 1
		case p := <-pair_ch:
			adjacency[p.a] = append(adjacency[p.a], p.b)
			adjacency[p.b] = append(adjacency[p.b], p.a)
		}
	}

	err := ctx.Err()

	if err != nil {
		return nil, err
	}

	edges := 0

	for i := range adjacency {
		slices.Sort(adjacency[i])
		edges += len(adjacency[i])
	}

	slog.Debug("Built adjacency graph", "nodes", count, "edges", edges/2)
	return adjacency, nil
}

// GreedyColoring assigns a colour index to each node of 'adjacency', in order, using the smallest index not
// already assigned to one of its neighbours. Indices are folded modulo 'size' so two neighbours may share a
// colour once more than 'size' colours would be needed.
func GreedyColoring(adjacency [][]int, size int) []int {

	colors := make([]int, len(adjacency))

	for i := range colors {
		colors[i] = -1
	}

	for i, neighbours := range adjacency {

		used := make(map[int]bool)

		for _, n := range neighbours {

			if colors[n] != -1 {
				used[colors[n]] = true
			}
		}

		color := 0

		for used[color] {
			color += 1
		}

		if size > 0 {
			color = color % size
		}

		colors[i] = color
	}

	return colors
}
