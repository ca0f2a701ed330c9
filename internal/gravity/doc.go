// Package gravity approximates the gravitational acceleration on each body
// of an ensemble with a Barnes-Hut traversal of a [quadtree.Node].
//
// [Params.Accuracy] trades speed for exactness: as it grows every node is
// opened and [Accel] matches the all-pairs [Direct] sum; as it approaches
// zero the root is accepted immediately and every body feels only the
// ensemble's total mass at its center of mass.
package gravity
