package gravity

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/quadtree"
)

// parallelChunk is the smallest slice of bodies handed to one worker.
const parallelChunk = 64

// Accel returns the acceleration at pos due to everything under root.
//
// A node is treated as a single body when it is a leaf or when
// (|pos-com|²+offset)/(|extent|²+offset) exceeds p.Accuracy; otherwise its
// children are summed. A node whose center of mass is exactly pos
// contributes nothing, which is how a body skips its own leaf.
func Accel(pos dynamo.Vec2, root *quadtree.Node, p Params) dynamo.Vec2 {
	dist2 := pos.Sub(root.CenterOfMass).Norm2() + p.TraversalOffset
	size2 := root.Extent.Norm2() + p.TraversalOffset

	if root.IsLeaf() || dist2/size2 > p.Accuracy {
		if root.Mass == 0 || root.CenterOfMass == pos {
			return dynamo.Vec2{}
		}
		return pull(pos, root.CenterOfMass, root.Mass, p)
	}

	var a dynamo.Vec2
	for _, c := range root.Children {
		a = a.Add(Accel(pos, c, p))
	}
	return a
}

// pull is the softened Newtonian acceleration at pos toward a mass at src.
// The opening-test offset plays no part here.
func pull(pos, src dynamo.Vec2, mass float64, p Params) dynamo.Vec2 {
	diff := src.Sub(pos)
	r2 := diff.Norm2()
	mag := p.G * mass / (r2 + p.Softening*p.Softening)
	return diff.Scale(mag / math.Sqrt(r2))
}

// Accelerations queries every body against one shared tree and writes the
// components into ax and ay, which must be at least len(bodies) long.
func Accelerations(bodies []quadtree.Body, root *quadtree.Node, p Params, ax, ay []float64) {
	accelRange(bodies, root, p, ax, ay, 0, len(bodies))
}

// AccelerationsParallel is Accelerations fanned out across goroutines.
// The tree is only read, so the queries share it safely.
func AccelerationsParallel(bodies []quadtree.Body, root *quadtree.Node, p Params, ax, ay []float64) {
	dynamo.ParallelFor(len(bodies), parallelChunk, func(start, end int) {
		accelRange(bodies, root, p, ax, ay, start, end)
	})
}

func accelRange(bodies []quadtree.Body, root *quadtree.Node, p Params, ax, ay []float64, start, end int) {
	for i := start; i < end; i++ {
		a := Accel(bodies[i].Position, root, p)
		ax[i] = a.X
		ay[i] = a.Y
	}
}
