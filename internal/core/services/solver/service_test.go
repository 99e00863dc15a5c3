package solver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gitlab.com/puzzle3d.net/internal/adapter/logging"
	"gitlab.com/puzzle3d.net/internal/config"
	"gitlab.com/puzzle3d.net/internal/domain"
	"gitlab.com/puzzle3d.net/internal/static/errs"
)

func newTestService() *SolverService {
	return NewSolverService(nil, nil, nil, logging.NewNopLogger())
}

func testPiece(id string) domain.PieceDescriptor {
	return domain.PieceDescriptor{
		ID:           id,
		Dimensions:   domain.Vec3{X: 2, Y: 2, Z: 1},
		ColorProfile: []float64{0.3, 0.3, 0.3},
		Shape:        domain.ShapeFeatures{Complexity: 1, CornerCount: 4},
		Connectivity: &domain.Connectivity{
			Top:    domain.EdgePattern{true, false},
			Right:  domain.EdgePattern{true, false},
			Bottom: domain.EdgePattern{false, true},
			Left:   domain.EdgePattern{false, true},
		},
	}
}

func testPuzzle(id string, pieces int) *domain.Puzzle {
	p := &domain.Puzzle{ID: id, Name: id}
	for i := 0; i < pieces; i++ {
		p.Pieces = append(p.Pieces, testPiece(string(rune('a'+i))))
	}
	return p
}

// slowTunables keeps a job busy long enough to observe it mid-flight
func slowTunables() config.SolverTunables {
	tun := config.DefaultTunables()
	tun.MaxIterations = 10000
	tun.PopulationSize = 100
	tun.Patience = 1000
	return tun
}

func waitTerminal(t *testing.T, svc *SolverService, puzzleID string) domain.SolveJob {
	t.Helper()
	var job domain.SolveJob
	require.Eventually(t, func() bool {
		var err error
		job, err = svc.Poll(puzzleID)
		return err == nil && job.Status.Terminal()
	}, 10*time.Second, 10*time.Millisecond)
	return job
}

func TestStartRejectsUnknownAlgorithm(t *testing.T) {
	svc := newTestService()
	_, err := svc.Start(context.Background(), testPuzzle("p1", 2), "tabu_search", config.DefaultTunables())
	require.ErrorIs(t, err, errs.ErrInvalidConfiguration)
}

func TestStartRejectsOutOfRangeTunables(t *testing.T) {
	svc := newTestService()
	tun := config.DefaultTunables()
	tun.MaxIterations = 5 // below the documented minimum

	_, err := svc.Start(context.Background(), testPuzzle("p1", 2), domain.AlgorithmGenetic, tun)
	require.ErrorIs(t, err, errs.ErrInvalidConfiguration)
}

func TestStartRejectsEmptyPuzzle(t *testing.T) {
	svc := newTestService()
	_, err := svc.Start(context.Background(), testPuzzle("p1", 0), domain.AlgorithmGenetic, config.DefaultTunables())
	require.ErrorIs(t, err, errs.ErrInvalidPiece)
}

func TestStartRejectsInvalidPiece(t *testing.T) {
	svc := newTestService()
	puzzle := testPuzzle("p1", 2)
	puzzle.Pieces[1].Dimensions.X = 0

	_, err := svc.Start(context.Background(), puzzle, domain.AlgorithmGenetic, config.DefaultTunables())
	require.ErrorIs(t, err, errs.ErrInvalidPiece)
}

func TestSinglePieceCompletesWithFullConfidence(t *testing.T) {
	svc := newTestService()
	tun := config.DefaultTunables()
	tun.MaxIterations = 100

	job, err := svc.Start(context.Background(), testPuzzle("solo", 1), domain.AlgorithmGenetic, tun)
	require.NoError(t, err)
	require.Equal(t, domain.JobStatusRunning, job.Status)

	final := waitTerminal(t, svc, "solo")
	require.Equal(t, domain.JobStatusCompleted, final.Status)
	require.Equal(t, 0.0, final.BestCost)
	require.Equal(t, 1.0, final.Progress)
	require.True(t, final.BestArrangement.Complete(testPuzzle("solo", 1).Pieces))
	require.NotNil(t, final.Confidence)
	require.Equal(t, 1.0, *final.Confidence)
	require.NotNil(t, final.CompletedAt)
}

func TestComplementaryPairConvergesForEveryAlgorithm(t *testing.T) {
	// Two identical pieces whose opposing edges interlock admit a zero-cost
	// arrangement; each strategy must find it within a small budget.
	for _, alg := range []domain.Algorithm{
		domain.AlgorithmGenetic,
		domain.AlgorithmAnnealing,
		domain.AlgorithmReinforcement,
	} {
		svc := newTestService()
		tun := config.DefaultTunables()
		tun.MaxIterations = 100

		_, err := svc.Start(context.Background(), testPuzzle("pair", 2), alg, tun)
		require.NoError(t, err, "algorithm %s", alg)

		final := waitTerminal(t, svc, "pair")
		require.Equal(t, domain.JobStatusCompleted, final.Status, "algorithm %s", alg)
		require.InDelta(t, 0.0, final.BestCost, 1e-9, "algorithm %s", alg)
		require.NotNil(t, final.Confidence, "algorithm %s", alg)
		require.GreaterOrEqual(t, *final.Confidence, 0.95, "algorithm %s", alg)
	}
}

func TestAnnealingStopsWithinIterationBudget(t *testing.T) {
	svc := newTestService()
	tun := config.DefaultTunables()
	tun.MaxIterations = 100
	tun.InitialTemperature = 100
	tun.CoolingRate = 0.95

	_, err := svc.Start(context.Background(), testPuzzle("budget", 4), domain.AlgorithmAnnealing, tun)
	require.NoError(t, err)

	final := waitTerminal(t, svc, "budget")
	require.Equal(t, domain.JobStatusCompleted, final.Status)
	require.LessOrEqual(t, final.Iteration, 100)
}

func TestStartWhileRunningConflicts(t *testing.T) {
	svc := newTestService()
	puzzle := testPuzzle("busy", 8)

	_, err := svc.Start(context.Background(), puzzle, domain.AlgorithmGenetic, slowTunables())
	require.NoError(t, err)

	_, err = svc.Start(context.Background(), puzzle, domain.AlgorithmAnnealing, slowTunables())
	require.ErrorIs(t, err, errs.ErrAlreadyRunning)

	_, err = svc.Cancel("busy")
	require.NoError(t, err)
	waitTerminal(t, svc, "busy")
}

func TestStartAgainAfterTerminal(t *testing.T) {
	svc := newTestService()
	tun := config.DefaultTunables()
	tun.MaxIterations = 100

	_, err := svc.Start(context.Background(), testPuzzle("again", 1), domain.AlgorithmAnnealing, tun)
	require.NoError(t, err)
	waitTerminal(t, svc, "again")

	// a terminal job does not block a new run for the same puzzle
	_, err = svc.Start(context.Background(), testPuzzle("again", 1), domain.AlgorithmAnnealing, tun)
	require.NoError(t, err)
	waitTerminal(t, svc, "again")
}

func TestCancelIsIdempotent(t *testing.T) {
	svc := newTestService()
	_, err := svc.Start(context.Background(), testPuzzle("cancelme", 8), domain.AlgorithmGenetic, slowTunables())
	require.NoError(t, err)

	job, err := svc.Cancel("cancelme")
	require.NoError(t, err)
	require.Equal(t, domain.JobStatusCancelled, job.Status)

	// second cancel observes the terminal snapshot without error
	job, err = svc.Cancel("cancelme")
	require.NoError(t, err)
	require.Equal(t, domain.JobStatusCancelled, job.Status)

	final := waitTerminal(t, svc, "cancelme")
	require.Equal(t, domain.JobStatusCancelled, final.Status)
	require.Nil(t, final.Confidence)
}

func TestPollUnknownPuzzle(t *testing.T) {
	svc := newTestService()
	_, err := svc.Poll("ghost")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestCancelUnknownPuzzle(t *testing.T) {
	svc := newTestService()
	_, err := svc.Cancel("ghost")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestEvictExpired(t *testing.T) {
	svc := newTestService()
	now := time.Now()

	stale := now.Add(-svc.cfg.JobRetention - time.Minute)
	fresh := now.Add(-time.Second)
	svc.jobs["stale"] = &jobHandle{job: domain.SolveJob{
		PuzzleID:    "stale",
		Status:      domain.JobStatusCompleted,
		CompletedAt: &stale,
	}}
	svc.jobs["fresh"] = &jobHandle{job: domain.SolveJob{
		PuzzleID:    "fresh",
		Status:      domain.JobStatusCancelled,
		CompletedAt: &fresh,
	}}
	svc.jobs["live"] = &jobHandle{job: domain.SolveJob{
		PuzzleID: "live",
		Status:   domain.JobStatusRunning,
	}}

	require.Equal(t, 1, svc.EvictExpired(now))

	_, err := svc.Poll("stale")
	require.ErrorIs(t, err, errs.ErrNotFound)
	_, err = svc.Poll("fresh")
	require.NoError(t, err)
	_, err = svc.Poll("live")
	require.NoError(t, err)
}

func TestConfidence(t *testing.T) {
	require.Equal(t, 1.0, Confidence(0, 0))
	require.Equal(t, 0.0, Confidence(1, 0))
	require.Equal(t, 1.0, Confidence(0, 10))
	require.InDelta(t, 0.5, Confidence(5, 10), 1e-9)
	require.Equal(t, 0.0, Confidence(20, 10))
}

func TestBestCostIsMonotoneInSnapshots(t *testing.T) {
	svc := newTestService()
	tun := config.DefaultTunables()
	tun.MaxIterations = 2000
	tun.Patience = 1000

	_, err := svc.Start(context.Background(), testPuzzle("mono", 5), domain.AlgorithmAnnealing, tun)
	require.NoError(t, err)

	prev := -1.0
	for {
		job, err := svc.Poll("mono")
		require.NoError(t, err)
		if job.BestArrangement != nil {
			if prev >= 0 {
				require.LessOrEqual(t, job.BestCost, prev)
			}
			prev = job.BestCost
		}
		if job.Status.Terminal() {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
}
