package quadtree

import "github.com/san-kum/gravsim/internal/dynamo"

// Body is a static mass point used to build the tree.
type Body struct {
	Mass     float64
	Position dynamo.Vec2
}

// Rect is the bounding region owned by a node. Center and Extent describe
// the geometry of the subdivision and never change; Mass and CenterOfMass
// aggregate the bodies beneath the node.
type Rect struct {
	Mass         float64
	CenterOfMass dynamo.Vec2
	Center       dynamo.Vec2
	// Extent is the full size of the region along each axis, not a half-width.
	Extent dynamo.Vec2
}

// Quadrant identifies one of the four children of a region.
type Quadrant int

const (
	SouthWest Quadrant = iota
	SouthEast
	NorthWest
	NorthEast
	numQuadrants
)

// Locate classifies pos against center. Ties on either axis go to the
// greater-or-equal side, so every position maps to exactly one quadrant.
func Locate(pos, center dynamo.Vec2) Quadrant {
	q := SouthWest
	if pos.X >= center.X {
		q |= SouthEast
	}
	if pos.Y >= center.Y {
		q |= NorthWest
	}
	return q
}

func (q Quadrant) String() string {
	switch q {
	case SouthWest:
		return "sw"
	case SouthEast:
		return "se"
	case NorthWest:
		return "nw"
	case NorthEast:
		return "ne"
	default:
		return "invalid"
	}
}

// child returns the region of quadrant q inside parent, with zero aggregates.
func (q Quadrant) child(parent Rect) Rect {
	quarter := parent.Extent.Scale(0.25)
	offset := dynamo.Vec2{X: -quarter.X, Y: -quarter.Y}
	if q&SouthEast != 0 {
		offset.X = quarter.X
	}
	if q&NorthWest != 0 {
		offset.Y = quarter.Y
	}
	return Rect{
		Center: parent.Center.Add(offset),
		Extent: parent.Extent.Scale(0.5),
	}
}

// boundingRect returns the root region spanning every body. With no bodies
// it is the zero Rect.
func boundingRect(bodies []Body) Rect {
	if len(bodies) == 0 {
		return Rect{}
	}

	min, max := bodies[0].Position, bodies[0].Position
	for _, b := range bodies[1:] {
		p := b.Position
		if p.X < min.X {
			min.X = p.X
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}

	return Rect{
		Center: min.Add(max).Scale(0.5),
		Extent: max.Sub(min),
	}
}
