package gravity

import (
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// DefaultTraversalOffset is added to both squared lengths of the
// opening test so a node whose center of mass sits on the query point, or a
// zero-extent node, never yields 0/0. It has units of length squared but is
// deliberately a plain constant; far-field decisions barely notice it.
const DefaultTraversalOffset = 1.0

// Params configures the force approximation.
type Params struct {
	// G is the gravitational constant.
	G float64 `json:"g" yaml:"g"`
	// Accuracy is the squared distance-to-size ratio above which a node is
	// treated as one body. Larger values recurse deeper and are more exact.
	Accuracy float64 `json:"accuracy" yaml:"accuracy"`
	// Softening is added in quadrature to every separation.
	Softening float64 `json:"softening" yaml:"softening"`
	// TraversalOffset is the additive term of the opening test.
	TraversalOffset float64 `json:"traversal_offset" yaml:"traversal_offset"`
}

func DefaultParams() Params {
	return Params{
		G:               1.0,
		Accuracy:        4.0,
		Softening:       0.01,
		TraversalOffset: DefaultTraversalOffset,
	}
}

func (p Params) Validate() error {
	switch {
	case !(p.G > 0) || math.IsInf(p.G, 0):
		return fmt.Errorf("gravitational constant %v: %w", p.G, dynamo.ErrParameterBounds)
	case p.Accuracy < 0 || math.IsNaN(p.Accuracy):
		return fmt.Errorf("accuracy %v: %w", p.Accuracy, dynamo.ErrParameterBounds)
	case p.Softening < 0 || math.IsNaN(p.Softening) || math.IsInf(p.Softening, 0):
		return fmt.Errorf("softening %v: %w", p.Softening, dynamo.ErrParameterBounds)
	case p.TraversalOffset < 0 || math.IsNaN(p.TraversalOffset) || math.IsInf(p.TraversalOffset, 0):
		return fmt.Errorf("traversal offset %v: %w", p.TraversalOffset, dynamo.ErrParameterBounds)
	}
	return nil
}
