package quadtree

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// MaxDepth bounds subdivision. Bodies that still share a node at this depth
// are collapsed into one aggregate leaf.
const MaxDepth = 64

// Node is one region of the tree. A node exclusively owns its children;
// only non-empty quadrants get a child, stored in quadrant order.
type Node struct {
	Rect
	Children []*Node
	// Bodies is the number of input bodies under this node.
	Bodies int
	depth  int
}

func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Depth is zero for the root.
func (n *Node) Depth() int { return n.depth }

// Build partitions bodies into a fresh tree and aggregates mass and center
// of mass bottom-up. It panics if an internal node ends up with a
// non-positive total mass: that is a data bug, and carrying on would poison
// every acceleration computed from the tree.
func Build(bodies []Body) *Node {
	root := &Node{Rect: boundingRect(bodies)}
	b := builder{scratch: make([]Body, len(bodies))}
	b.partition(root, append([]Body(nil), bodies...))
	if b.collapsed > 0 {
		logrus.Debugf("quadtree: collapsed %d coincident or unresolvable groups into aggregate leaves", b.collapsed)
	}
	return root
}

type builder struct {
	scratch   []Body
	collapsed int
}

func (b *builder) partition(n *Node, bodies []Body) {
	n.Bodies = len(bodies)

	switch len(bodies) {
	case 0:
		return
	case 1:
		n.Mass = bodies[0].Mass
		n.CenterOfMass = bodies[0].Position
		return
	}

	if n.depth >= MaxDepth || coincident(bodies) {
		b.collapsed++
		n.aggregateBodies(bodies)
		return
	}

	var counts [numQuadrants]int
	for _, body := range bodies {
		counts[Locate(body.Position, n.Center)]++
	}

	// Counting sort into scratch keeps each quadrant's bodies contiguous.
	var offsets [numQuadrants + 1]int
	for q := Quadrant(0); q < numQuadrants; q++ {
		offsets[q+1] = offsets[q] + counts[q]
	}
	scratch := b.scratch[:len(bodies)]
	next := offsets
	for _, body := range bodies {
		q := Locate(body.Position, n.Center)
		scratch[next[q]] = body
		next[q]++
	}
	copy(bodies, scratch)

	n.Children = make([]*Node, 0, numQuadrants)
	for q := Quadrant(0); q < numQuadrants; q++ {
		if counts[q] == 0 {
			continue
		}
		child := &Node{Rect: q.child(n.Rect), depth: n.depth + 1}
		b.partition(child, bodies[offsets[q]:offsets[q+1]])
		n.Children = append(n.Children, child)
	}

	n.aggregateChildren()
}

func (n *Node) aggregateChildren() {
	mass := 0.0
	for _, c := range n.Children {
		mass += c.Mass
	}
	if !(mass > 0) {
		panic(fmt.Sprintf("quadtree: internal node at depth %d has non-positive mass %v", n.depth, mass))
	}

	var weighted [2]float64
	for _, c := range n.Children {
		weighted[0] += c.CenterOfMass.X * c.Mass
		weighted[1] += c.CenterOfMass.Y * c.Mass
	}
	n.Mass = mass
	n.CenterOfMass.X = weighted[0] / mass
	n.CenterOfMass.Y = weighted[1] / mass
}

func (n *Node) aggregateBodies(bodies []Body) {
	mass := 0.0
	for _, body := range bodies {
		mass += body.Mass
	}
	if !(mass > 0) {
		panic(fmt.Sprintf("quadtree: aggregate leaf at depth %d has non-positive mass %v", n.depth, mass))
	}

	var weighted [2]float64
	for _, body := range bodies {
		weighted[0] += body.Position.X * body.Mass
		weighted[1] += body.Position.Y * body.Mass
	}
	n.Mass = mass
	n.CenterOfMass.X = weighted[0] / mass
	n.CenterOfMass.Y = weighted[1] / mass
}

func coincident(bodies []Body) bool {
	p := bodies[0].Position
	for _, body := range bodies[1:] {
		if body.Position != p {
			return false
		}
	}
	return true
}

// Walk visits every node in pre-order. Returning false from fn skips the
// node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Stats summarizes the shape of a tree.
type Stats struct {
	Nodes    int
	Leaves   int
	MaxDepth int
}

func (n *Node) Stats() Stats {
	var s Stats
	n.Walk(func(node *Node) bool {
		s.Nodes++
		if node.IsLeaf() {
			s.Leaves++
		}
		if node.depth > s.MaxDepth {
			s.MaxDepth = node.depth
		}
		return true
	})
	return s
}
