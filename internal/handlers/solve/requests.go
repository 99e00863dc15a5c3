package solve

import (
	"gitlab.com/puzzle3d.net/internal/config"
	"gitlab.com/puzzle3d.net/internal/domain"
)

// SolveRequest represents a request to start a solve. Omitted tunables take
// the documented defaults; present ones are range-checked before the job
// starts.
type SolveRequest struct {
	PuzzleID      string `json:"puzzleId" validate:"required"`
	Algorithm     string `json:"algorithm" validate:"required"`
	MaxIterations *int   `json:"maxIterations,omitempty"`

	PopulationSize  *int     `json:"populationSize,omitempty"`
	MutationRate    *float64 `json:"mutationRate,omitempty"`
	ElitismFraction *float64 `json:"elitismFraction,omitempty"`
	Patience        *int     `json:"patience,omitempty"`

	InitialTemperature *float64 `json:"initialTemperature,omitempty"`
	CoolingRate        *float64 `json:"coolingRate,omitempty"`

	LearningRate *float64 `json:"learningRate,omitempty"`
	Discount     *float64 `json:"discount,omitempty"`
	Epsilon      *float64 `json:"epsilon,omitempty"`
	EpsilonDecay *float64 `json:"epsilonDecay,omitempty"`
	EpsilonMin   *float64 `json:"epsilonMin,omitempty"`

	Seed *int64 `json:"seed,omitempty"`
}

// Tunables merges the request overrides over the defaults
func (r *SolveRequest) Tunables() config.SolverTunables {
	t := config.DefaultTunables()
	if r.MaxIterations != nil {
		t.MaxIterations = *r.MaxIterations
	}
	if r.PopulationSize != nil {
		t.PopulationSize = *r.PopulationSize
	}
	if r.MutationRate != nil {
		t.MutationRate = *r.MutationRate
	}
	if r.ElitismFraction != nil {
		t.ElitismFraction = *r.ElitismFraction
	}
	if r.Patience != nil {
		t.Patience = *r.Patience
	}
	if r.InitialTemperature != nil {
		t.InitialTemperature = *r.InitialTemperature
	}
	if r.CoolingRate != nil {
		t.CoolingRate = *r.CoolingRate
	}
	if r.LearningRate != nil {
		t.LearningRate = *r.LearningRate
	}
	if r.Discount != nil {
		t.Discount = *r.Discount
	}
	if r.Epsilon != nil {
		t.Epsilon = *r.Epsilon
	}
	if r.EpsilonDecay != nil {
		t.EpsilonDecay = *r.EpsilonDecay
	}
	if r.EpsilonMin != nil {
		t.EpsilonMin = *r.EpsilonMin
	}
	if r.Seed != nil {
		t.Seed = *r.Seed
	}
	return t
}

// SolveResponse is the accepted-job snapshot returned on start
type SolveResponse struct {
	Job domain.SolveJob `json:"job"`
}
