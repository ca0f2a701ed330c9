package gravity

import (
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/quadtree"
)

// Direct sums the softened pull of every other body on body i. It is the
// O(n²) baseline the tree approximation converges to.
func Direct(i int, bodies []quadtree.Body, p Params) dynamo.Vec2 {
	pos := bodies[i].Position
	var a dynamo.Vec2
	for j, b := range bodies {
		if j == i || b.Position == pos {
			continue
		}
		a = a.Add(pull(pos, b.Position, b.Mass, p))
	}
	return a
}
