package compat

import (
	"math"

	"gitlab.com/puzzle3d.net/internal/config"
	"gitlab.com/puzzle3d.net/internal/domain"
)

// Edge identifies which side of a piece participates in a contact
type Edge int

const (
	// EdgeNone marks a contact with no connectivity constraint (stacking
	// along the depth axis); only the geometric terms apply.
	EdgeNone Edge = iota
	EdgeTop
	EdgeRight
	EdgeBottom
	EdgeLeft
)

// Evaluator scores how well two pieces fit along a shared edge. It is a pure
// function of the descriptors and the configured weights; all three search
// strategies use it as their objective.
type Evaluator struct {
	weights config.CostWeights
}

// NewEvaluator creates an evaluator; nil weights select the defaults
func NewEvaluator(weights *config.CostWeights) *Evaluator {
	if weights == nil {
		weights = config.NewCostWeights()
	}
	return &Evaluator{weights: *weights}
}

// PairCost returns the non-negative misfit cost of placing b's bEdge against
// a's aEdge. A connectivity violation contributes a large fixed penalty rather
// than an infinite one, so search can still move through infeasible states.
func (e *Evaluator) PairCost(a *domain.PieceDescriptor, aEdge Edge, b *domain.PieceDescriptor, bEdge Edge) float64 {
	cost := 0.0

	if a.Connectivity != nil && b.Connectivity != nil && aEdge != EdgeNone && bEdge != EdgeNone {
		pa := edgePattern(a.Connectivity, aEdge)
		pb := edgePattern(b.Connectivity, bEdge)
		if !pa.Complements(pb) {
			cost += e.weights.Connectivity * e.weights.ViolationPenalty
		}
	}

	fa1, fa2 := faceDims(a.Dimensions, aEdge)
	fb1, fb2 := faceDims(b.Dimensions, bEdge)
	cost += e.weights.Geometry * ((fa1-fb1)*(fa1-fb1) + (fa2-fb2)*(fa2-fb2))

	cost += e.weights.Appearance * colorDistance(a.ColorProfile, b.ColorProfile)

	cost += e.weights.Shape * (math.Abs(a.Shape.Complexity-b.Shape.Complexity) +
		math.Abs(float64(a.Shape.CornerCount-b.Shape.CornerCount)))

	return cost
}

// ArrangementCost sums the pair costs over every contact implied by the
// current poses. Two pieces are in contact when their oriented bounding boxes
// touch within the configured tolerance; the contact axis decides which edges
// are compared.
func (e *Evaluator) ArrangementCost(pieces []domain.PieceDescriptor, arr *domain.Arrangement) float64 {
	total := 0.0
	for i := 0; i < len(pieces); i++ {
		pa, okA := arr.Placements[pieces[i].ID]
		if !okA {
			continue
		}
		for j := i + 1; j < len(pieces); j++ {
			pb, okB := arr.Placements[pieces[j].ID]
			if !okB {
				continue
			}
			total += e.contactCost(&pieces[i], pa, &pieces[j], pb)
		}
	}
	return total
}

// MarginalCost returns the cost the piece with id adds to the arrangement:
// the sum of its contact costs against every other placed piece.
func (e *Evaluator) MarginalCost(pieces []domain.PieceDescriptor, arr *domain.Arrangement, id string) float64 {
	var target *domain.PieceDescriptor
	for i := range pieces {
		if pieces[i].ID == id {
			target = &pieces[i]
			break
		}
	}
	if target == nil {
		return 0
	}
	pt, ok := arr.Placements[id]
	if !ok {
		return 0
	}
	total := 0.0
	for i := range pieces {
		if pieces[i].ID == id {
			continue
		}
		po, ok := arr.Placements[pieces[i].ID]
		if !ok {
			continue
		}
		total += e.contactCost(target, pt, &pieces[i], po)
	}
	return total
}

// WorstFeasibleCost estimates the cost of the worst arrangement that still
// has no connectivity violations: every pair in contact along its most
// mismatched axis. Confidence is normalized against this bound.
func (e *Evaluator) WorstFeasibleCost(pieces []domain.PieceDescriptor) float64 {
	total := 0.0
	for i := 0; i < len(pieces); i++ {
		for j := i + 1; j < len(pieces); j++ {
			total += e.worstPairCost(&pieces[i], &pieces[j])
		}
	}
	return total
}

func (e *Evaluator) worstPairCost(a, b *domain.PieceDescriptor) float64 {
	worstGeom := 0.0
	for _, edge := range []Edge{EdgeNone, EdgeTop, EdgeRight} {
		fa1, fa2 := faceDims(a.Dimensions, edge)
		fb1, fb2 := faceDims(b.Dimensions, edge)
		g := (fa1-fb1)*(fa1-fb1) + (fa2-fb2)*(fa2-fb2)
		if g > worstGeom {
			worstGeom = g
		}
	}
	cost := e.weights.Geometry * worstGeom
	cost += e.weights.Appearance * colorDistance(a.ColorProfile, b.ColorProfile)
	cost += e.weights.Shape * (math.Abs(a.Shape.Complexity-b.Shape.Complexity) +
		math.Abs(float64(a.Shape.CornerCount-b.Shape.CornerCount)))
	return cost
}

func (e *Evaluator) contactCost(a *domain.PieceDescriptor, pa domain.Placement, b *domain.PieceDescriptor, pb domain.Placement) float64 {
	ea := OrientedExtents(a.Dimensions, pa.Rotation)
	eb := OrientedExtents(b.Dimensions, pb.Rotation)

	gaps := [3]float64{
		math.Abs(pb.Position.X-pa.Position.X) - (ea.X+eb.X)/2,
		math.Abs(pb.Position.Y-pa.Position.Y) - (ea.Y+eb.Y)/2,
		math.Abs(pb.Position.Z-pa.Position.Z) - (ea.Z+eb.Z)/2,
	}

	// Boxes touch when no axis separates them beyond the tolerance.
	axis := 0
	for k := 1; k < 3; k++ {
		if gaps[k] > gaps[axis] {
			axis = k
		}
	}
	if gaps[axis] > e.weights.AdjacencyTolerance {
		return 0 // not in contact, no edge implied
	}

	aEdge, bEdge := contactEdges(axis, pa.Position, pb.Position)
	return e.PairCost(a, aEdge, b, bEdge)
}

// contactEdges maps a contact axis and relative order onto the edge pair
func contactEdges(axis int, pa, pb domain.Vec3) (Edge, Edge) {
	switch axis {
	case 0:
		if pa.X <= pb.X {
			return EdgeRight, EdgeLeft
		}
		return EdgeLeft, EdgeRight
	case 1:
		if pa.Y <= pb.Y {
			return EdgeTop, EdgeBottom
		}
		return EdgeBottom, EdgeTop
	default:
		return EdgeNone, EdgeNone
	}
}

func edgePattern(c *domain.Connectivity, edge Edge) domain.EdgePattern {
	switch edge {
	case EdgeTop:
		return c.Top
	case EdgeRight:
		return c.Right
	case EdgeBottom:
		return c.Bottom
	case EdgeLeft:
		return c.Left
	}
	return nil
}

// faceDims returns the two extents of the face presented by the given edge
func faceDims(d domain.Vec3, edge Edge) (float64, float64) {
	switch edge {
	case EdgeLeft, EdgeRight:
		return d.Y, d.Z
	case EdgeTop, EdgeBottom:
		return d.X, d.Z
	default: // depth contact
		return d.X, d.Y
	}
}

func colorDistance(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

// OrientedExtents applies a rotation to a piece's extents, snapping each axis
// to the nearest quarter turn. Only the parity of quarter turns matters for
// an axis-aligned bounding box.
func OrientedExtents(dims domain.Vec3, rot domain.Vec3) domain.Vec3 {
	ext := dims
	if quarterTurns(rot.X)%2 == 1 {
		ext.Y, ext.Z = ext.Z, ext.Y
	}
	if quarterTurns(rot.Y)%2 == 1 {
		ext.X, ext.Z = ext.Z, ext.X
	}
	if quarterTurns(rot.Z)%2 == 1 {
		ext.X, ext.Y = ext.Y, ext.X
	}
	return ext
}

func quarterTurns(deg float64) int {
	t := int(math.Round(deg/90.0)) % 4
	if t < 0 {
		t += 4
	}
	return t
}
