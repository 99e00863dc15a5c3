package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validPiece(id string) PieceDescriptor {
	return PieceDescriptor{
		ID:           id,
		Dimensions:   Vec3{X: 2, Y: 2, Z: 1},
		ColorProfile: []float64{0.5, 0.5, 0.5},
		Shape:        ShapeFeatures{Area: 4, Perimeter: 8, Complexity: 1.2, CornerCount: 4},
		Connectivity: &Connectivity{
			Top:    EdgePattern{true, false},
			Right:  EdgePattern{true, true},
			Bottom: EdgePattern{false, true},
			Left:   EdgePattern{true, false},
		},
	}
}

func TestEdgePatternComplements(t *testing.T) {
	a := EdgePattern{true, false, true}
	b := EdgePattern{false, true, false}

	require.True(t, a.Complements(b))
	require.True(t, b.Complements(a))
}

func TestEdgePatternComplementsRejectsSamePosition(t *testing.T) {
	a := EdgePattern{true, false}
	b := EdgePattern{true, true} // first position collides

	require.False(t, a.Complements(b))
}

func TestEdgePatternComplementsRejectsLengthMismatch(t *testing.T) {
	a := EdgePattern{true, false}
	b := EdgePattern{false, true, false}

	require.False(t, a.Complements(b))
	require.False(t, EdgePattern{}.Complements(EdgePattern{}))
}

func TestPieceValidate(t *testing.T) {
	p := validPiece("p1")
	require.NoError(t, p.Validate())
}

func TestPieceValidateRejectsEmptyID(t *testing.T) {
	p := validPiece("")
	require.Error(t, p.Validate())
}

func TestPieceValidateRejectsNonPositiveDimensions(t *testing.T) {
	p := validPiece("p1")
	p.Dimensions.Y = 0
	require.Error(t, p.Validate())

	p = validPiece("p1")
	p.Dimensions.Z = -1
	require.Error(t, p.Validate())
}

func TestPieceValidateRejectsNegativeCornerCount(t *testing.T) {
	p := validPiece("p1")
	p.Shape.CornerCount = -1
	require.Error(t, p.Validate())
}

func TestPieceValidateRejectsAllNotchedEdge(t *testing.T) {
	p := validPiece("p1")
	p.Connectivity.Left = EdgePattern{false, false}
	require.Error(t, p.Validate())
}

func TestPieceValidateRejectsEmptyEdgePattern(t *testing.T) {
	p := validPiece("p1")
	p.Connectivity.Top = EdgePattern{}
	require.Error(t, p.Validate())
}

func TestPieceValidateAllowsNilConnectivity(t *testing.T) {
	p := validPiece("p1")
	p.Connectivity = nil
	require.NoError(t, p.Validate())
}

func TestArrangementCloneIsDeep(t *testing.T) {
	arr := NewArrangement(1)
	arr.Placements["p1"] = Placement{Position: Vec3{X: 1}}
	arr.Cost = 3.5

	cp := arr.Clone()
	cp.Placements["p1"] = Placement{Position: Vec3{X: 9}}

	require.Equal(t, 1.0, arr.Placements["p1"].Position.X)
	require.Equal(t, 3.5, cp.Cost)
}

func TestArrangementComplete(t *testing.T) {
	pieces := []PieceDescriptor{validPiece("a"), validPiece("b")}

	arr := NewArrangement(2)
	arr.Placements["a"] = Placement{}
	require.False(t, arr.Complete(pieces))

	arr.Placements["b"] = Placement{}
	require.True(t, arr.Complete(pieces))

	arr.Placements["c"] = Placement{}
	require.False(t, arr.Complete(pieces))
}
