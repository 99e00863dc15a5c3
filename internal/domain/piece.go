package domain

import (
	"fmt"

	"gitlab.com/puzzle3d.net/internal/static/errs"
)

// Vec3 is a point or extent in puzzle space
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// EdgePattern is the notch layout along one edge of a piece.
// true = present (tab), false = notched (slot).
type EdgePattern []bool

// HasPresent reports whether at least one position of the pattern is a tab.
// An all-notched edge has nothing to interlock with and is rejected at
// piece construction.
func (p EdgePattern) HasPresent() bool {
	for _, present := range p {
		if present {
			return true
		}
	}
	return false
}

// Complements reports whether two patterns interlock: same length and,
// position by position, exactly one side present.
func (p EdgePattern) Complements(other EdgePattern) bool {
	if len(p) != len(other) || len(p) == 0 {
		return false
	}
	for i := range p {
		if p[i] == other[i] {
			return false
		}
	}
	return true
}

// Connectivity holds the four edge patterns of a grid-style piece
type Connectivity struct {
	Top    EdgePattern `json:"top"`
	Right  EdgePattern `json:"right"`
	Bottom EdgePattern `json:"bottom"`
	Left   EdgePattern `json:"left"`
}

// ShapeFeatures are the extracted outline descriptors of a piece
type ShapeFeatures struct {
	Area        float64 `json:"area"`
	Perimeter   float64 `json:"perimeter"`
	Complexity  float64 `json:"complexity"`
	CornerCount int     `json:"cornerCount"`
}

// PieceDescriptor is the immutable record of one piece's geometry and
// connectivity, produced by the ingestion pipeline. The solver only reads it.
type PieceDescriptor struct {
	ID           string         `json:"id"`
	Dimensions   Vec3           `json:"dimensions"`
	ColorProfile []float64      `json:"colorProfile"`
	Shape        ShapeFeatures  `json:"shapeFeatures"`
	Connectivity *Connectivity  `json:"connectivity,omitempty"`
}

// Validate checks the piece invariants: positive extents, a non-empty color
// profile, complexity >= 1 when set, and no all-notched edge pattern.
func (p *PieceDescriptor) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: piece id is empty", errs.ErrInvalidPiece)
	}
	if p.Dimensions.X <= 0 || p.Dimensions.Y <= 0 || p.Dimensions.Z <= 0 {
		return fmt.Errorf("%w: piece %s has non-positive dimensions", errs.ErrInvalidPiece, p.ID)
	}
	if p.Shape.CornerCount < 0 {
		return fmt.Errorf("%w: piece %s has negative corner count", errs.ErrInvalidPiece, p.ID)
	}
	if p.Connectivity != nil {
		edges := map[string]EdgePattern{
			"top":    p.Connectivity.Top,
			"right":  p.Connectivity.Right,
			"bottom": p.Connectivity.Bottom,
			"left":   p.Connectivity.Left,
		}
		for name, pattern := range edges {
			if len(pattern) == 0 {
				return fmt.Errorf("%w: piece %s edge %s has no pattern", errs.ErrInvalidPiece, p.ID, name)
			}
			if !pattern.HasPresent() {
				return fmt.Errorf("%w: piece %s edge %s is all-notched", errs.ErrInvalidPiece, p.ID, name)
			}
		}
	}
	return nil
}
