package strategy

import (
	"fmt"

	"gitlab.com/puzzle3d.net/internal/config"
	"gitlab.com/puzzle3d.net/internal/core/services/compat"
	"gitlab.com/puzzle3d.net/internal/domain"
	"gitlab.com/puzzle3d.net/internal/static/errs"
)

// SearchStrategy is the common contract of the three solvers. The controller
// calls Step repeatedly until convergence, cancellation or the iteration
// budget, recording the best arrangement seen; Step's return value is the
// strategy's current state and its cost may transiently increase.
type SearchStrategy interface {
	// Initialize builds the starting arrangement for the piece set
	Initialize(pieces []domain.PieceDescriptor) *domain.Arrangement

	// Step performs one improvement attempt and returns the new current state
	Step(current *domain.Arrangement) *domain.Arrangement

	// Converged reports whether the strategy has stopped improving
	Converged(current *domain.Arrangement, iteration int) bool
}

// New constructs the strategy for the chosen algorithm
func New(algorithm domain.Algorithm, eval *compat.Evaluator, tunables config.SolverTunables) (SearchStrategy, error) {
	switch algorithm {
	case domain.AlgorithmGenetic:
		return NewGenetic(eval, tunables), nil
	case domain.AlgorithmAnnealing:
		return NewAnnealing(eval, tunables), nil
	case domain.AlgorithmReinforcement:
		return NewQLearning(eval, tunables), nil
	}
	return nil, fmt.Errorf("%w: unknown algorithm %q", errs.ErrInvalidConfiguration, algorithm)
}
