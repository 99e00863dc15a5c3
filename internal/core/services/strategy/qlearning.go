package strategy

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"gitlab.com/puzzle3d.net/internal/config"
	"gitlab.com/puzzle3d.net/internal/core/services/compat"
	"gitlab.com/puzzle3d.net/internal/domain"
)

var _ SearchStrategy = (*QLearning)(nil)

const (
	terminalBonus = 100.0
	// fraction of the worst feasible cost under which a finished episode
	// earns the terminal bonus
	bonusFraction = 0.05
)

// qAction places one unplaced piece next to the most recently placed piece:
// a direction on the coarse grid plus a quarter-turn rotation about Z.
type qAction struct {
	pieceIdx int
	dir      int // 0..5: +x -x +y -y +z -z
	turns    int // quarter turns about z
}

var dirOffsets = [6]domain.Vec3{
	{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
}

// QLearning runs tabular Q-learning over a discretized placement process.
// One Step is one full episode: every piece gets placed adjacent to the
// previously placed one, epsilon-greedy over the learned table.
type QLearning struct {
	eval    *compat.Evaluator
	tunable config.SolverTunables
	rng     *rand.Rand

	pieces       []domain.PieceDescriptor
	qtable       map[string]map[string]float64
	epsilon      float64
	gridStep     float64
	bonusBar     float64
	bestCost     float64
	sinceImprove int
}

func NewQLearning(eval *compat.Evaluator, tunables config.SolverTunables) *QLearning {
	return &QLearning{
		eval:    eval,
		tunable: tunables,
		rng:     rngFromSeed(tunables.Seed),
		qtable:  make(map[string]map[string]float64),
	}
}

func (q *QLearning) Initialize(pieces []domain.PieceDescriptor) *domain.Arrangement {
	q.pieces = pieces
	q.epsilon = q.tunable.Epsilon
	q.gridStep = meanExtent(pieces)
	q.bonusBar = math.Max(1e-9, bonusFraction*q.eval.WorstFeasibleCost(pieces))
	q.bestCost = math.Inf(1)
	q.sinceImprove = 0
	return q.episode()
}

// Step runs one learning episode and returns its resulting arrangement
func (q *QLearning) Step(current *domain.Arrangement) *domain.Arrangement {
	arr := q.episode()
	if q.epsilon > q.tunable.EpsilonMin {
		q.epsilon *= q.tunable.EpsilonDecay
		if q.epsilon < q.tunable.EpsilonMin {
			q.epsilon = q.tunable.EpsilonMin
		}
	}
	if arr.Cost < q.bestCost {
		q.bestCost = arr.Cost
		q.sinceImprove = 0
	} else {
		q.sinceImprove++
	}
	return arr
}

func (q *QLearning) Converged(current *domain.Arrangement, iteration int) bool {
	return q.sinceImprove >= q.tunable.Patience
}

func (q *QLearning) episode() *domain.Arrangement {
	n := len(q.pieces)
	arr := domain.NewArrangement(n)
	placed := make([]bool, n)

	// Anchor: the first piece sits at the origin, unrotated.
	arr.Placements[q.pieces[0].ID] = domain.Placement{}
	placed[0] = true
	lastIdx := 0

	for count := 1; count < n; count++ {
		state := q.stateKey(placed, arr.Placements[q.pieces[lastIdx].ID])
		actions := q.availableActions(placed)

		var chosen qAction
		if q.rng.Float64() < q.epsilon {
			chosen = actions[q.rng.Intn(len(actions))]
		} else {
			chosen = q.greedyAction(state, actions)
		}

		anchor := arr.Placements[q.pieces[lastIdx].ID]
		offset := dirOffsets[chosen.dir]
		arr.Placements[q.pieces[chosen.pieceIdx].ID] = domain.Placement{
			Position: domain.Vec3{
				X: anchor.Position.X + offset.X*q.gridStep,
				Y: anchor.Position.Y + offset.Y*q.gridStep,
				Z: anchor.Position.Z + offset.Z*q.gridStep,
			},
			Rotation: domain.Vec3{Z: float64(chosen.turns) * 90},
		}
		placed[chosen.pieceIdx] = true

		reward := -q.eval.MarginalCost(q.pieces, arr, q.pieces[chosen.pieceIdx].ID)
		if count == n-1 {
			total := q.eval.ArrangementCost(q.pieces, arr)
			if total < q.bonusBar {
				reward += terminalBonus
			}
		}

		nextState := q.stateKey(placed, arr.Placements[q.pieces[chosen.pieceIdx].ID])
		q.update(state, chosen.key(q.pieces), reward, nextState)
		lastIdx = chosen.pieceIdx
	}

	arr.Cost = q.eval.ArrangementCost(q.pieces, arr)
	return arr
}

// update applies the tabular Q-learning rule
func (q *QLearning) update(state, action string, reward float64, nextState string) {
	row, ok := q.qtable[state]
	if !ok {
		row = make(map[string]float64)
		q.qtable[state] = row
	}

	// Unseen next actions default to 0, so the max is never below 0.
	maxNext := 0.0
	for _, v := range q.qtable[nextState] {
		if v > maxNext {
			maxNext = v
		}
	}

	old := row[action]
	row[action] = old + q.tunable.LearningRate*(reward+q.tunable.Discount*maxNext-old)
}

// greedyAction picks the highest-Q action; ties resolve to the first action
// in generation order, keeping episodes reproducible.
func (q *QLearning) greedyAction(state string, actions []qAction) qAction {
	row := q.qtable[state]
	best := actions[0]
	bestQ := math.Inf(-1)
	for _, act := range actions {
		v := row[act.key(q.pieces)]
		if v > bestQ {
			bestQ = v
			best = act
		}
	}
	return best
}

// availableActions enumerates every unplaced piece x direction x rotation in
// a deterministic order.
func (q *QLearning) availableActions(placed []bool) []qAction {
	actions := make([]qAction, 0, len(q.pieces)*24)
	for i := range q.pieces {
		if placed[i] {
			continue
		}
		for dir := 0; dir < 6; dir++ {
			for turns := 0; turns < 4; turns++ {
				actions = append(actions, qAction{pieceIdx: i, dir: dir, turns: turns})
			}
		}
	}
	return actions
}

// stateKey encodes the placed subset plus the last placement snapped onto the
// coarse grid. Coarse on purpose: the table has to stay tractable.
func (q *QLearning) stateKey(placed []bool, last domain.Placement) string {
	var b strings.Builder
	for _, p := range placed {
		if p {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	cx := int(math.Round(last.Position.X / q.gridStep))
	cy := int(math.Round(last.Position.Y / q.gridStep))
	cz := int(math.Round(last.Position.Z / q.gridStep))
	rz := int(math.Round(last.Rotation.Z/90)) % 4
	fmt.Fprintf(&b, "|%d,%d,%d,%d", cx, cy, cz, rz)
	return b.String()
}

func (a qAction) key(pieces []domain.PieceDescriptor) string {
	return fmt.Sprintf("%s|%d|%d", pieces[a.pieceIdx].ID, a.dir, a.turns)
}

// meanExtent is the grid step: the average dominant extent across the piece
// set, floored at 1 so tiny pieces still move in visible increments.
func meanExtent(pieces []domain.PieceDescriptor) float64 {
	sum := 0.0
	for i := range pieces {
		d := pieces[i].Dimensions
		sum += math.Max(d.X, math.Max(d.Y, d.Z))
	}
	step := sum / float64(len(pieces))
	if step < 1 {
		step = 1
	}
	return step
}
