package compat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/puzzle3d.net/internal/config"
	"gitlab.com/puzzle3d.net/internal/domain"
)

// twinPieces returns two identical pieces whose right/left edges interlock,
// so the only possible cost between them is a connectivity violation.
func twinPieces() (domain.PieceDescriptor, domain.PieceDescriptor) {
	a := domain.PieceDescriptor{
		ID:           "a",
		Dimensions:   domain.Vec3{X: 2, Y: 2, Z: 1},
		ColorProfile: []float64{0.2, 0.4, 0.6},
		Shape:        domain.ShapeFeatures{Complexity: 1.1, CornerCount: 4},
		Connectivity: &domain.Connectivity{
			Top:    domain.EdgePattern{true, false},
			Right:  domain.EdgePattern{true, false},
			Bottom: domain.EdgePattern{false, true},
			Left:   domain.EdgePattern{false, true},
		},
	}
	b := a
	b.ID = "b"
	b.Connectivity = &domain.Connectivity{
		Top:    domain.EdgePattern{true, false},
		Right:  domain.EdgePattern{true, false},
		Bottom: domain.EdgePattern{false, true},
		Left:   domain.EdgePattern{false, true},
	}
	return a, b
}

func TestPairCostPerfectFitIsZero(t *testing.T) {
	a, b := twinPieces()
	eval := NewEvaluator(nil)

	// a.Right = {t,f} interlocks b.Left = {f,t}; everything else is equal
	cost := eval.PairCost(&a, EdgeRight, &b, EdgeLeft)
	require.Equal(t, 0.0, cost)
}

func TestPairCostViolationPenalty(t *testing.T) {
	a, b := twinPieces()
	eval := NewEvaluator(nil)

	// a.Right = {t,f} against b.Right = {t,f}: both present at position 0
	cost := eval.PairCost(&a, EdgeRight, &b, EdgeRight)
	w := config.NewCostWeights()
	require.Equal(t, w.Connectivity*w.ViolationPenalty, cost)
}

func TestPairCostSkipsConnectivityOnDepthContact(t *testing.T) {
	a, b := twinPieces()
	eval := NewEvaluator(nil)

	cost := eval.PairCost(&a, EdgeNone, &b, EdgeNone)
	require.Equal(t, 0.0, cost)
}

func TestPairCostGeometricMismatch(t *testing.T) {
	a, b := twinPieces()
	b.Dimensions = domain.Vec3{X: 2, Y: 3, Z: 1} // face Y extent differs by 1
	eval := NewEvaluator(nil)

	cost := eval.PairCost(&a, EdgeRight, &b, EdgeLeft)
	w := config.NewCostWeights()
	require.InDelta(t, w.Geometry*1.0, cost, 1e-9)
}

func TestPairCostIsSymmetricInGeometry(t *testing.T) {
	a, b := twinPieces()
	b.Dimensions = domain.Vec3{X: 2, Y: 3, Z: 2}
	eval := NewEvaluator(nil)

	ab := eval.PairCost(&a, EdgeRight, &b, EdgeLeft)
	ba := eval.PairCost(&b, EdgeLeft, &a, EdgeRight)
	require.InDelta(t, ab, ba, 1e-9)
}

func TestArrangementCostCountsTouchingPairsOnly(t *testing.T) {
	a, b := twinPieces()
	pieces := []domain.PieceDescriptor{a, b}
	eval := NewEvaluator(nil)

	arr := domain.NewArrangement(2)
	arr.Placements["a"] = domain.Placement{Position: domain.Vec3{}}
	arr.Placements["b"] = domain.Placement{Position: domain.Vec3{X: 2}}

	// touching along X with interlocking edges
	require.Equal(t, 0.0, eval.ArrangementCost(pieces, arr))

	// far apart on X, no contact implied
	arr.Placements["b"] = domain.Placement{Position: domain.Vec3{X: 8}}
	require.Equal(t, 0.0, eval.ArrangementCost(pieces, arr))

	// touching with colliding edges: b to the left of a presents its right
	// edge {t,f} against a's left edge {f,t}, which interlocks; flip b's
	// left-right patterns to force the violation instead
	b.Connectivity.Right = domain.EdgePattern{false, true}
	pieces[1] = b
	arr.Placements["b"] = domain.Placement{Position: domain.Vec3{X: -2}}
	w := config.NewCostWeights()
	require.Equal(t, w.Connectivity*w.ViolationPenalty, eval.ArrangementCost(pieces, arr))
}

func TestArrangementCostIgnoresUnplacedPieces(t *testing.T) {
	a, b := twinPieces()
	pieces := []domain.PieceDescriptor{a, b}
	eval := NewEvaluator(nil)

	arr := domain.NewArrangement(2)
	arr.Placements["a"] = domain.Placement{}
	require.Equal(t, 0.0, eval.ArrangementCost(pieces, arr))
}

func TestMarginalCostMatchesPairContribution(t *testing.T) {
	a, b := twinPieces()
	b.Dimensions = domain.Vec3{X: 2, Y: 3, Z: 1}
	pieces := []domain.PieceDescriptor{a, b}
	eval := NewEvaluator(nil)

	arr := domain.NewArrangement(2)
	arr.Placements["a"] = domain.Placement{}
	arr.Placements["b"] = domain.Placement{Position: domain.Vec3{X: 2}}

	total := eval.ArrangementCost(pieces, arr)
	require.InDelta(t, total, eval.MarginalCost(pieces, arr, "b"), 1e-9)
	require.Equal(t, 0.0, eval.MarginalCost(pieces, arr, "missing"))
}

func TestWorstFeasibleCost(t *testing.T) {
	a, b := twinPieces()
	eval := NewEvaluator(nil)

	// single piece has no pairs to misfit
	require.Equal(t, 0.0, eval.WorstFeasibleCost([]domain.PieceDescriptor{a}))

	// identical pieces share all non-connectivity terms, so zero again
	require.Equal(t, 0.0, eval.WorstFeasibleCost([]domain.PieceDescriptor{a, b}))

	// a dimension difference makes the bound positive but far below the
	// violation penalty, which never counts as feasible
	b.Dimensions = domain.Vec3{X: 4, Y: 2, Z: 1}
	worst := eval.WorstFeasibleCost([]domain.PieceDescriptor{a, b})
	w := config.NewCostWeights()
	require.Greater(t, worst, 0.0)
	require.Less(t, worst, w.Connectivity*w.ViolationPenalty)
}

func TestOrientedExtentsQuarterTurns(t *testing.T) {
	dims := domain.Vec3{X: 3, Y: 2, Z: 1}

	require.Equal(t, dims, OrientedExtents(dims, domain.Vec3{}))

	// 90 degrees around Z swaps X and Y
	ext := OrientedExtents(dims, domain.Vec3{Z: 90})
	require.Equal(t, domain.Vec3{X: 2, Y: 3, Z: 1}, ext)

	// 180 degrees leaves extents alone
	require.Equal(t, dims, OrientedExtents(dims, domain.Vec3{Z: 180}))

	// rotations snap to the nearest quarter turn
	require.Equal(t, domain.Vec3{X: 2, Y: 3, Z: 1}, OrientedExtents(dims, domain.Vec3{Z: 87}))

	// negative turns behave like their positive counterpart
	require.Equal(t, domain.Vec3{X: 2, Y: 3, Z: 1}, OrientedExtents(dims, domain.Vec3{Z: -90}))
}
