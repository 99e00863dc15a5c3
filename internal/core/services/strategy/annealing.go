package strategy

import (
	"math"
	"math/rand"

	"gitlab.com/puzzle3d.net/internal/config"
	"gitlab.com/puzzle3d.net/internal/core/services/compat"
	"gitlab.com/puzzle3d.net/internal/domain"
)

var _ SearchStrategy = (*Annealing)(nil)

// temperatureFloor ends the anneal once cooling makes uphill moves
// effectively impossible.
const temperatureFloor = 1e-3

// Annealing walks a single arrangement through neighbor proposals with
// Metropolis acceptance and geometric cooling. Step returns the accepted
// state, which may be worse than the previous one; the controller tracks the
// best state seen.
type Annealing struct {
	eval    *compat.Evaluator
	tunable config.SolverTunables
	rng     *rand.Rand

	pieces      []domain.PieceDescriptor
	current     *domain.Arrangement
	temperature float64
}

func NewAnnealing(eval *compat.Evaluator, tunables config.SolverTunables) *Annealing {
	return &Annealing{
		eval:    eval,
		tunable: tunables,
		rng:     rngFromSeed(tunables.Seed),
	}
}

func (a *Annealing) Initialize(pieces []domain.PieceDescriptor) *domain.Arrangement {
	a.pieces = pieces
	a.current = randomArrangement(pieces, a.rng)
	a.current.Cost = a.eval.ArrangementCost(pieces, a.current)
	a.temperature = a.tunable.InitialTemperature
	return a.current.Clone()
}

func (a *Annealing) Step(current *domain.Arrangement) *domain.Arrangement {
	neighbor := a.neighbor()
	neighbor.Cost = a.eval.ArrangementCost(a.pieces, neighbor)

	delta := neighbor.Cost - a.current.Cost
	if delta < 0 || a.rng.Float64() < math.Exp(-delta/a.temperature) {
		a.current = neighbor
	}
	a.temperature *= a.tunable.CoolingRate

	return a.current.Clone()
}

func (a *Annealing) Converged(current *domain.Arrangement, iteration int) bool {
	return a.temperature < temperatureFloor
}

// neighbor proposes a single-move variation of the current state: perturb one
// piece's position, perturb its rotation, or swap two pieces' placements.
func (a *Annealing) neighbor() *domain.Arrangement {
	next := a.current.Clone()
	idx := a.rng.Intn(len(a.pieces))
	id := a.pieces[idx].ID

	switch move := a.rng.Intn(3); {
	case move == 0:
		pl := next.Placements[id]
		axis := a.rng.Intn(3)
		offset := (a.rng.Float64()*2 - 1) * swapJitterPos
		switch axis {
		case 0:
			pl.Position.X += offset
		case 1:
			pl.Position.Y += offset
		default:
			pl.Position.Z += offset
		}
		next.Placements[id] = pl
	case move == 1:
		pl := next.Placements[id]
		axis := a.rng.Intn(3)
		offset := (a.rng.Float64()*2 - 1) * swapJitterRot
		switch axis {
		case 0:
			pl.Rotation.X += offset
		case 1:
			pl.Rotation.Y += offset
		default:
			pl.Rotation.Z += offset
		}
		next.Placements[id] = pl
	default:
		other := a.pieces[a.rng.Intn(len(a.pieces))].ID
		next.Placements[id], next.Placements[other] = next.Placements[other], next.Placements[id]
	}
	return next
}
