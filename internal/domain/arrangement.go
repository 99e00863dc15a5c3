package domain

// Placement is one piece's pose inside a candidate solution
type Placement struct {
	Position Vec3 `json:"position"`
	Rotation Vec3 `json:"rotation"` // degrees
}

// Arrangement is a full candidate solution: every input piece id mapped to a
// pose, plus the cached objective cost (lower is better, 0 is a perfect fit).
// An arrangement is owned by exactly one strategy during a run, so it carries
// no locking.
type Arrangement struct {
	Placements map[string]Placement `json:"placements"`
	Cost       float64              `json:"cost"`
}

// NewArrangement allocates an empty arrangement sized for n pieces
func NewArrangement(n int) *Arrangement {
	return &Arrangement{
		Placements: make(map[string]Placement, n),
	}
}

// Clone returns a deep copy. Strategies hand out clones so the caller's best
// snapshot cannot alias a state the search keeps mutating.
func (a *Arrangement) Clone() *Arrangement {
	if a == nil {
		return nil
	}
	cp := &Arrangement{
		Placements: make(map[string]Placement, len(a.Placements)),
		Cost:       a.Cost,
	}
	for id, pl := range a.Placements {
		cp.Placements[id] = pl
	}
	return cp
}

// Complete reports whether the arrangement places exactly the given piece set
func (a *Arrangement) Complete(pieces []PieceDescriptor) bool {
	if len(a.Placements) != len(pieces) {
		return false
	}
	for i := range pieces {
		if _, ok := a.Placements[pieces[i].ID]; !ok {
			return false
		}
	}
	return true
}
