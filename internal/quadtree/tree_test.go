package quadtree

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomBodies(n int, seed int64) []Body {
	r := rand.New(rand.NewSource(seed))
	bodies := make([]Body, n)
	for i := range bodies {
		bodies[i] = Body{
			Mass:     float64(1 + r.Intn(9)),
			Position: dynamo.Vec2{X: r.Float64()*200 - 100, Y: r.Float64()*200 - 100},
		}
	}
	return bodies
}

func TestLocate_TiesGoToGreaterSide(t *testing.T) {
	c := dynamo.Vec2{}
	tests := []struct {
		pos  dynamo.Vec2
		want Quadrant
	}{
		{dynamo.Vec2{X: -1, Y: -1}, SouthWest},
		{dynamo.Vec2{X: 1, Y: -1}, SouthEast},
		{dynamo.Vec2{X: -1, Y: 1}, NorthWest},
		{dynamo.Vec2{X: 1, Y: 1}, NorthEast},
		{dynamo.Vec2{X: 0, Y: -1}, SouthEast},
		{dynamo.Vec2{X: -1, Y: 0}, NorthWest},
		{dynamo.Vec2{X: 0, Y: 0}, NorthEast},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.want, Locate(tt.pos, c), "Locate(%v)", tt.pos)
	}
}

func TestQuadrantChild_Geometry(t *testing.T) {
	parent := Rect{Center: dynamo.Vec2{X: 10, Y: 20}, Extent: dynamo.Vec2{X: 8, Y: 4}}

	tests := []struct {
		q      Quadrant
		center dynamo.Vec2
	}{
		{SouthWest, dynamo.Vec2{X: 8, Y: 19}},
		{SouthEast, dynamo.Vec2{X: 12, Y: 19}},
		{NorthWest, dynamo.Vec2{X: 8, Y: 21}},
		{NorthEast, dynamo.Vec2{X: 12, Y: 21}},
	}

	for _, tt := range tests {
		t.Run(tt.q.String(), func(t *testing.T) {
			child := tt.q.child(parent)
			assert.Equal(t, tt.center, child.Center)
			assert.Equal(t, dynamo.Vec2{X: 4, Y: 2}, child.Extent)
			assert.Zero(t, child.Mass)
		})
	}
}

func TestBuild_Empty(t *testing.T) {
	root := Build(nil)
	assert.True(t, root.IsLeaf())
	assert.Zero(t, root.Mass)
	assert.Equal(t, dynamo.Vec2{}, root.Center)
	assert.Equal(t, dynamo.Vec2{}, root.Extent)
	assert.Equal(t, 0, root.Bodies)
}

func TestBuild_SingleBody(t *testing.T) {
	root := Build([]Body{{Mass: 3, Position: dynamo.Vec2{X: 2, Y: -5}}})
	assert.True(t, root.IsLeaf())
	assert.Equal(t, 3.0, root.Mass)
	assert.Equal(t, dynamo.Vec2{X: 2, Y: -5}, root.CenterOfMass)
	assert.Equal(t, dynamo.Vec2{}, root.Extent)
}

func TestBuild_RootRegionUsesBothAxes(t *testing.T) {
	root := Build([]Body{
		{Mass: 1, Position: dynamo.Vec2{X: 0, Y: 10}},
		{Mass: 1, Position: dynamo.Vec2{X: 4, Y: 30}},
	})
	assert.Equal(t, dynamo.Vec2{X: 2, Y: 20}, root.Center)
	assert.Equal(t, dynamo.Vec2{X: 4, Y: 20}, root.Extent)
}

func TestBuild_RootMassIsExactSum(t *testing.T) {
	bodies := randomBodies(500, 1)
	root := Build(bodies)

	want := 0.0
	for _, b := range bodies {
		want += b.Mass
	}
	assert.Equal(t, want, root.Mass)
	assert.Equal(t, len(bodies), root.Bodies)
}

func TestBuild_RootCenterOfMassIsCentroid(t *testing.T) {
	bodies := randomBodies(300, 2)
	root := Build(bodies)

	var m, x, y float64
	for _, b := range bodies {
		m += b.Mass
		x += b.Mass * b.Position.X
		y += b.Mass * b.Position.Y
	}
	assert.InDelta(t, x/m, root.CenterOfMass.X, 1e-9)
	assert.InDelta(t, y/m, root.CenterOfMass.Y, 1e-9)
}

func TestBuild_InternalNodesAggregateChildren(t *testing.T) {
	root := Build(randomBodies(200, 3))

	root.Walk(func(n *Node) bool {
		if n.IsLeaf() {
			assert.Greater(t, n.Mass, 0.0)
			return true
		}
		require.LessOrEqual(t, len(n.Children), 4)

		var m, x, y float64
		count := 0
		for _, c := range n.Children {
			assert.Equal(t, n.depth+1, c.depth)
			assert.Equal(t, n.Extent.Scale(0.5), c.Extent)
			assert.Greater(t, c.Bodies, 0, "empty quadrants must not get children")
			m += c.Mass
			x += c.Mass * c.CenterOfMass.X
			y += c.Mass * c.CenterOfMass.Y
			count += c.Bodies
		}
		assert.Equal(t, m, n.Mass)
		assert.InDelta(t, x/m, n.CenterOfMass.X, 1e-9)
		assert.InDelta(t, y/m, n.CenterOfMass.Y, 1e-9)
		assert.Equal(t, n.Bodies, count)
		return true
	})
}

func TestBuild_LeavesHoldOneBody(t *testing.T) {
	bodies := randomBodies(100, 4)
	root := Build(bodies)

	leaves := 0
	root.Walk(func(n *Node) bool {
		if n.IsLeaf() {
			leaves++
			assert.Equal(t, 1, n.Bodies)
		}
		return true
	})
	assert.Equal(t, len(bodies), leaves)
	assert.Equal(t, leaves, root.Stats().Leaves)
}

func TestBuild_DoesNotReorderInput(t *testing.T) {
	bodies := randomBodies(50, 5)
	orig := append([]Body(nil), bodies...)
	Build(bodies)
	assert.Equal(t, orig, bodies)
}

func TestBuild_CoincidentBodiesTerminate(t *testing.T) {
	p := dynamo.Vec2{X: 1.5, Y: -2.5}
	bodies := []Body{
		{Mass: 1, Position: p},
		{Mass: 2, Position: p},
		{Mass: 3, Position: p},
		{Mass: 4, Position: dynamo.Vec2{X: 10, Y: 10}},
	}

	root := Build(bodies)

	assert.Equal(t, 10.0, root.Mass)
	var collapsed *Node
	root.Walk(func(n *Node) bool {
		if n.IsLeaf() && n.Bodies == 3 {
			collapsed = n
		}
		return true
	})
	require.NotNil(t, collapsed, "coincident bodies should share one aggregate leaf")
	assert.Equal(t, 6.0, collapsed.Mass)
	assert.Equal(t, p, collapsed.CenterOfMass)
}

func TestBuild_AllCoincident(t *testing.T) {
	p := dynamo.Vec2{X: 3, Y: 3}
	root := Build([]Body{{Mass: 1, Position: p}, {Mass: 1, Position: p}})

	assert.True(t, root.IsLeaf())
	assert.Equal(t, 2.0, root.Mass)
	assert.Equal(t, p, root.CenterOfMass)
}

func TestBuild_NearCoincidentHitsDepthCap(t *testing.T) {
	a := dynamo.Vec2{X: 1, Y: 1}
	b := dynamo.Vec2{X: math.Nextafter(1, 2), Y: 1}
	far := dynamo.Vec2{X: 1e6, Y: 1e6}

	root := Build([]Body{{Mass: 1, Position: a}, {Mass: 1, Position: b}, {Mass: 1, Position: far}})

	stats := root.Stats()
	assert.LessOrEqual(t, stats.MaxDepth, MaxDepth)
	assert.Equal(t, 3.0, root.Mass)
}

func TestBuild_NonPositiveMassPanics(t *testing.T) {
	assert.Panics(t, func() {
		Build([]Body{
			{Mass: 0, Position: dynamo.Vec2{X: 0, Y: 0}},
			{Mass: 0, Position: dynamo.Vec2{X: 1, Y: 1}},
		})
	})
	assert.Panics(t, func() {
		Build([]Body{
			{Mass: 1, Position: dynamo.Vec2{X: 0, Y: 0}},
			{Mass: -1, Position: dynamo.Vec2{X: 1, Y: 1}},
		})
	})
}

func TestStats(t *testing.T) {
	root := Build([]Body{
		{Mass: 1, Position: dynamo.Vec2{X: -1, Y: -1}},
		{Mass: 1, Position: dynamo.Vec2{X: 1, Y: 1}},
	})

	s := root.Stats()
	assert.Equal(t, 3, s.Nodes)
	assert.Equal(t, 2, s.Leaves)
	assert.Equal(t, 1, s.MaxDepth)
}

func BenchmarkBuild1k(b *testing.B) {
	bodies := randomBodies(1000, 7)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Build(bodies)
	}
}

func BenchmarkBuild10k(b *testing.B) {
	bodies := randomBodies(10000, 8)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Build(bodies)
	}
}
