package strategy

import (
	"math/rand"
	"sort"

	"gitlab.com/puzzle3d.net/internal/config"
	"gitlab.com/puzzle3d.net/internal/core/services/compat"
	"gitlab.com/puzzle3d.net/internal/domain"
)

var _ SearchStrategy = (*Genetic)(nil)

// Genetic evolves a population of full arrangements. Fitness is 1/(1+cost);
// each generation carries the elite over unchanged and fills the rest with
// roulette-selected parents recombined by uniform per-piece crossover.
type Genetic struct {
	eval    *compat.Evaluator
	tunable config.SolverTunables
	rng     *rand.Rand

	pieces       []domain.PieceDescriptor
	population   []*domain.Arrangement
	best         *domain.Arrangement
	sinceImprove int
}

func NewGenetic(eval *compat.Evaluator, tunables config.SolverTunables) *Genetic {
	return &Genetic{
		eval:    eval,
		tunable: tunables,
		rng:     rngFromSeed(tunables.Seed),
	}
}

func (g *Genetic) Initialize(pieces []domain.PieceDescriptor) *domain.Arrangement {
	g.pieces = pieces
	g.population = make([]*domain.Arrangement, g.tunable.PopulationSize)
	for i := range g.population {
		arr := randomArrangement(pieces, g.rng)
		arr.Cost = g.eval.ArrangementCost(pieces, arr)
		g.population[i] = arr
	}
	g.best = g.fittest().Clone()
	g.sinceImprove = 0
	return g.best.Clone()
}

// Step runs one generation and returns the best individual of the new
// population.
func (g *Genetic) Step(current *domain.Arrangement) *domain.Arrangement {
	n := len(g.population)

	// Rank by cost ascending; ties keep insertion order so the rng stream
	// stays stable across runs.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return g.population[order[a]].Cost < g.population[order[b]].Cost
	})

	eliteCount := int(g.tunable.ElitismFraction * float64(n))
	if eliteCount < 1 {
		eliteCount = 1
	}

	next := make([]*domain.Arrangement, 0, n)
	for _, idx := range order[:eliteCount] {
		next = append(next, g.population[idx].Clone())
	}

	fitness := make([]float64, n)
	totalFitness := 0.0
	for i, arr := range g.population {
		fitness[i] = 1.0 / (1.0 + arr.Cost)
		totalFitness += fitness[i]
	}

	for len(next) < n {
		p1 := g.population[g.roulette(fitness, totalFitness)]
		p2 := g.population[g.roulette(fitness, totalFitness)]
		child := g.crossover(p1, p2)
		g.mutate(child)
		child.Cost = g.eval.ArrangementCost(g.pieces, child)
		next = append(next, child)
	}
	g.population = next

	fit := g.fittest()
	if fit.Cost < g.best.Cost {
		g.best = fit.Clone()
		g.sinceImprove = 0
	} else {
		g.sinceImprove++
	}
	return g.best.Clone()
}

func (g *Genetic) Converged(current *domain.Arrangement, iteration int) bool {
	return g.sinceImprove >= g.tunable.Patience
}

func (g *Genetic) fittest() *domain.Arrangement {
	best := g.population[0]
	for _, arr := range g.population[1:] {
		if arr.Cost < best.Cost {
			best = arr
		}
	}
	return best
}

// roulette draws an index with probability proportional to fitness
func (g *Genetic) roulette(fitness []float64, total float64) int {
	r := g.rng.Float64() * total
	acc := 0.0
	for i, f := range fitness {
		acc += f
		if r <= acc {
			return i
		}
	}
	return len(fitness) - 1
}

// crossover inherits each piece's placement from one parent chosen uniformly.
// Placements are keyed per piece id, so recombination needs no positional
// alignment.
func (g *Genetic) crossover(p1, p2 *domain.Arrangement) *domain.Arrangement {
	child := domain.NewArrangement(len(g.pieces))
	for i := range g.pieces {
		id := g.pieces[i].ID
		if g.rng.Float64() < 0.5 {
			child.Placements[id] = p1.Placements[id]
		} else {
			child.Placements[id] = p2.Placements[id]
		}
	}
	return child
}

// mutate perturbs or swaps placements with the configured per-piece rate
func (g *Genetic) mutate(arr *domain.Arrangement) {
	for i := range g.pieces {
		if g.rng.Float64() >= g.tunable.MutationRate {
			continue
		}
		id := g.pieces[i].ID
		if len(g.pieces) >= 2 && g.rng.Float64() < 0.5 {
			other := g.pieces[g.rng.Intn(len(g.pieces))].ID
			arr.Placements[id], arr.Placements[other] = arr.Placements[other], arr.Placements[id]
			continue
		}
		arr.Placements[id] = jitterPlacement(arr.Placements[id], g.rng, positionJitter, rotationJitter)
	}
}
