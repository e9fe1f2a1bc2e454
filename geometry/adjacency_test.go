package geometry

import (
	"context"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTouches(t *testing.T) {

	a := square(107.0, 21.0, 0.1)
	b := square(107.1, 21.0, 0.1)
	c := square(107.3, 21.0, 0.1)

	// Nearly (but not exactly) shared vertices
	d := square(107.09995, 21.00005, 0.1)

	assert.True(t, Touches(a, b, DEFAULT_ADJACENCY_THRESHOLD))
	assert.True(t, Touches(b, a, DEFAULT_ADJACENCY_THRESHOLD))
	assert.False(t, Touches(a, c, DEFAULT_ADJACENCY_THRESHOLD))
	assert.True(t, Touches(a, d, DEFAULT_ADJACENCY_THRESHOLD))
	assert.False(t, Touches(a, d, 0.00001))

	assert.False(t, Touches(a, nil, DEFAULT_ADJACENCY_THRESHOLD))
}

func TestAdjacency(t *testing.T) {

	ctx := context.Background()

	geoms := []orb.Geometry{
		square(0, 0, 1),
		square(1, 0, 1),
		square(2, 0, 1),
		square(10, 10, 1),
		nil,
		orb.MultiPolygon{square(0, 1, 1)},
	}

	adjacency, err := Adjacency(ctx, geoms, DEFAULT_ADJACENCY_THRESHOLD)
	require.NoError(t, err)

	expected := [][]int{
		{1, 5},
		{0, 2, 5},
		{1},
		{},
		{},
		{0, 1},
	}

	assert.Equal(t, expected, adjacency)
}

func TestAdjacencyCancelled(t *testing.T) {

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Adjacency(ctx, []orb.Geometry{square(0, 0, 1), square(1, 0, 1)}, DEFAULT_ADJACENCY_THRESHOLD)
	assert.Error(t, err)
}

func TestGreedyColoring(t *testing.T) {

	// A triangle of mutually adjacent nodes, a pendant node and an isolated node
	adjacency := [][]int{
		{1, 2},
		{0, 2},
		{0, 1, 3},
		{2},
		{},
	}

	colors := GreedyColoring(adjacency, 10)
	assert.Equal(t, []int{0, 1, 2, 0, 0}, colors)

	for i, neighbours := range adjacency {
		for _, n := range neighbours {
			assert.NotEqual(t, colors[i], colors[n])
		}
	}

	// More colours needed than available wrap around
	colors = GreedyColoring(adjacency, 2)
	assert.Equal(t, []int{0, 1, 0, 1, 0}, colors)
}

func TestGreedyColoringDisjoint(t *testing.T) {

	colors := GreedyColoring([][]int{{}, {}, {}}, 10)
	assert.Equal(t, []int{0, 0, 0}, colors)
}
