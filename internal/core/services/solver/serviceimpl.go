package solver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"gitlab.com/puzzle3d.net/internal/config"
	"gitlab.com/puzzle3d.net/internal/core/ports/primary"
	"gitlab.com/puzzle3d.net/internal/core/ports/secondary"
	"gitlab.com/puzzle3d.net/internal/core/services/compat"
	"gitlab.com/puzzle3d.net/internal/core/services/strategy"
	"gitlab.com/puzzle3d.net/internal/domain"
	"gitlab.com/puzzle3d.net/internal/static/errs"
)

var _ ISolverService = (*SolverService)(nil)

// SolverService implements the ISolverService interface. Each accepted job
// runs its search loop on its own goroutine; the only state shared with
// readers is the job snapshot behind the handle's guard.
type SolverService struct {
	cfg      *config.SolverCfg
	logger   primary.Logger
	validate *validator.Validate

	// optional persistence; nil repos disable the corresponding write
	resultRepo secondary.SolveResultRepository
	puzzleRepo secondary.PuzzleRepository

	mu   sync.Mutex
	jobs map[string]*jobHandle
}

type jobHandle struct {
	mu        sync.RWMutex
	job       domain.SolveJob
	cancelled bool
}

// NewSolverService creates the controller. resultRepo and puzzleRepo may be
// nil when persistence is not wired (tests, ephemeral deployments).
func NewSolverService(
	cfg *config.SolverCfg,
	resultRepo secondary.SolveResultRepository,
	puzzleRepo secondary.PuzzleRepository,
	logger primary.Logger,
) *SolverService {
	if cfg == nil {
		cfg = config.NewSolverCfg()
	}
	return &SolverService{
		cfg:        cfg,
		logger:     logger,
		validate:   validator.New(),
		resultRepo: resultRepo,
		puzzleRepo: puzzleRepo,
		jobs:       make(map[string]*jobHandle),
	}
}

// Start validates the request and spawns the job goroutine. The registry
// check and insert happen under one lock so two concurrent starts for the
// same puzzle cannot both pass.
func (s *SolverService) Start(ctx context.Context, puzzle *domain.Puzzle, algorithm domain.Algorithm, tunables config.SolverTunables) (domain.SolveJob, error) {
	if !algorithm.Valid() {
		return domain.SolveJob{}, fmt.Errorf("%w: unknown algorithm %q", errs.ErrInvalidConfiguration, algorithm)
	}
	if err := s.validate.Struct(tunables); err != nil {
		return domain.SolveJob{}, fmt.Errorf("%w: %v", errs.ErrInvalidConfiguration, err)
	}
	if len(puzzle.Pieces) == 0 {
		return domain.SolveJob{}, fmt.Errorf("%w: puzzle %s has no pieces", errs.ErrInvalidPiece, puzzle.ID)
	}
	for i := range puzzle.Pieces {
		if err := puzzle.Pieces[i].Validate(); err != nil {
			return domain.SolveJob{}, err
		}
	}

	handle := &jobHandle{
		job: domain.SolveJob{
			PuzzleID:      puzzle.ID,
			Algorithm:     algorithm,
			MaxIterations: tunables.MaxIterations,
			Status:        domain.JobStatusRunning,
			StartedAt:     time.Now(),
		},
	}

	s.mu.Lock()
	if existing, ok := s.jobs[puzzle.ID]; ok && !existing.snapshot().Status.Terminal() {
		s.mu.Unlock()
		return domain.SolveJob{}, fmt.Errorf("%w: %s", errs.ErrAlreadyRunning, puzzle.ID)
	}
	s.jobs[puzzle.ID] = handle
	s.mu.Unlock()

	s.logger.Info("Solve started",
		"puzzleId", puzzle.ID,
		"algorithm", algorithm,
		"pieces", len(puzzle.Pieces),
		"maxIterations", tunables.MaxIterations)

	// Descriptors are read-only for the run; copy the slice header contents
	// so later mutations of the puzzle record cannot race the loop.
	pieces := make([]domain.PieceDescriptor, len(puzzle.Pieces))
	copy(pieces, puzzle.Pieces)

	go s.run(handle, pieces, algorithm, tunables)

	return handle.snapshot(), nil
}

// Poll returns the current snapshot of the job for the puzzle
func (s *SolverService) Poll(puzzleID string) (domain.SolveJob, error) {
	s.mu.Lock()
	handle, ok := s.jobs[puzzleID]
	s.mu.Unlock()
	if !ok {
		return domain.SolveJob{}, fmt.Errorf("%w: no solve job for puzzle %s", errs.ErrNotFound, puzzleID)
	}
	return handle.snapshot(), nil
}

// Cancel requests cooperative cancellation. The in-flight step finishes; no
// further steps execute. Cancelling a terminal job is a no-op that reports
// the terminal snapshot.
func (s *SolverService) Cancel(puzzleID string) (domain.SolveJob, error) {
	s.mu.Lock()
	handle, ok := s.jobs[puzzleID]
	s.mu.Unlock()
	if !ok {
		return domain.SolveJob{}, fmt.Errorf("%w: no solve job for puzzle %s", errs.ErrNotFound, puzzleID)
	}

	handle.mu.Lock()
	if !handle.job.Status.Terminal() {
		handle.cancelled = true
		handle.job.Status = domain.JobStatusCancelled
		s.logger.Info("Solve cancellation requested", "puzzleId", puzzleID)
	}
	snap := cloneJob(handle.job)
	handle.mu.Unlock()
	return snap, nil
}

// EvictExpired removes terminal jobs whose retention window has passed
func (s *SolverService) EvictExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, handle := range s.jobs {
		snap := handle.snapshot()
		if !snap.Status.Terminal() || snap.CompletedAt == nil {
			continue
		}
		if now.Sub(*snap.CompletedAt) >= s.cfg.JobRetention {
			delete(s.jobs, id)
			evicted++
		}
	}
	return evicted
}

// run drives one strategy to completion. A panic inside a step marks the job
// Failed rather than taking down the process; the stochastic step is not
// retried since it is not idempotent after a partial failure.
func (s *SolverService) run(handle *jobHandle, pieces []domain.PieceDescriptor, algorithm domain.Algorithm, tunables config.SolverTunables) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Solve step panicked", "puzzleId", handle.job.PuzzleID, "panic", r)
			s.finalize(handle, pieces, fmt.Errorf("%w: %v", errs.ErrSolverInternal, r))
		}
	}()

	eval := compat.NewEvaluator(s.cfg.Weights)
	strat, err := strategy.New(algorithm, eval, tunables)
	if err != nil {
		s.finalize(handle, pieces, err)
		return
	}

	current := strat.Initialize(pieces)
	best := current.Clone()
	handle.updateProgress(0, tunables.MaxIterations, best)

	for iteration := 1; iteration <= tunables.MaxIterations; iteration++ {
		if handle.cancelRequested() {
			break
		}
		current = strat.Step(current)
		if current.Cost < best.Cost {
			best = current.Clone()
		}
		handle.updateProgress(iteration, tunables.MaxIterations, best)
		if best.Cost == 0 {
			// perfect fit, nothing left to improve
			break
		}
		if strat.Converged(current, iteration) {
			break
		}
	}

	s.finalize(handle, pieces, nil)
}

// finalize moves the job to its terminal state, computes confidence and
// persists the outcome.
func (s *SolverService) finalize(handle *jobHandle, pieces []domain.PieceDescriptor, runErr error) {
	eval := compat.NewEvaluator(s.cfg.Weights)
	worst := eval.WorstFeasibleCost(pieces)

	now := time.Now()
	handle.mu.Lock()
	switch {
	case runErr != nil:
		handle.job.Status = domain.JobStatusFailed
		handle.job.Error = runErr.Error()
	case handle.cancelled:
		handle.job.Status = domain.JobStatusCancelled
	default:
		handle.job.Status = domain.JobStatusCompleted
		handle.job.Progress = 1.0
	}
	handle.job.CompletedAt = &now
	if handle.job.Status == domain.JobStatusCompleted && handle.job.BestArrangement != nil {
		c := Confidence(handle.job.BestCost, worst)
		handle.job.Confidence = &c
	}
	final := cloneJob(handle.job)
	handle.mu.Unlock()

	s.logger.Info("Solve finished",
		"puzzleId", final.PuzzleID,
		"status", final.Status,
		"iterations", final.Iteration,
		"bestCost", final.BestCost)

	s.persist(final)
}

// persist writes the terminal outcome to the history store and, on success,
// marks the puzzle solved. Persistence failures are logged, not surfaced:
// the job result stays available via Poll either way.
func (s *SolverService) persist(final domain.SolveJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.resultRepo != nil {
		confidence := 0.0
		if final.Confidence != nil {
			confidence = *final.Confidence
		}
		result := &domain.SolveResult{
			ID:          uuid.New(),
			PuzzleID:    final.PuzzleID,
			Algorithm:   final.Algorithm,
			Status:      final.Status,
			Cost:        final.BestCost,
			Confidence:  confidence,
			Iterations:  final.Iteration,
			Arrangement: final.BestArrangement,
			StartedAt:   final.StartedAt,
			CompletedAt: *final.CompletedAt,
		}
		if err := s.resultRepo.SaveResult(ctx, result); err != nil {
			s.logger.Error("Failed to persist solve result", "puzzleId", final.PuzzleID, "error", err)
		}
	}

	if s.puzzleRepo != nil && final.Status == domain.JobStatusCompleted && final.BestArrangement != nil {
		puzzle, err := s.puzzleRepo.GetPuzzle(ctx, final.PuzzleID)
		if err != nil || puzzle == nil {
			s.logger.Error("Failed to load puzzle for solution update", "puzzleId", final.PuzzleID, "error", err)
			return
		}
		puzzle.Solved = true
		puzzle.Solution = final.BestArrangement
		if err := s.puzzleRepo.SavePuzzle(ctx, puzzle); err != nil {
			s.logger.Error("Failed to save puzzle solution", "puzzleId", final.PuzzleID, "error", err)
		}
	}
}

// Confidence normalizes the final cost against the worst feasible
// arrangement: max(0, 1 - cost/worst), clamped to [0,1]. A puzzle with no
// possible misfit (worst == 0) is fully confident iff the cost is zero.
func Confidence(cost, worst float64) float64 {
	if worst <= 0 {
		if cost <= 1e-9 {
			return 1.0
		}
		return 0.0
	}
	c := 1.0 - cost/worst
	if c < 0 {
		return 0.0
	}
	if c > 1 {
		return 1.0
	}
	return c
}

func (h *jobHandle) snapshot() domain.SolveJob {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return cloneJob(h.job)
}

func (h *jobHandle) cancelRequested() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cancelled
}

func (h *jobHandle) updateProgress(iteration, maxIterations int, best *domain.Arrangement) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.job.Iteration = iteration
	h.job.Progress = float64(iteration) / float64(maxIterations)
	h.job.BestArrangement = best.Clone()
	h.job.BestCost = best.Cost
}

// cloneJob deep-copies the snapshot so readers never alias the live state
func cloneJob(job domain.SolveJob) domain.SolveJob {
	cp := job
	cp.BestArrangement = job.BestArrangement.Clone()
	if job.CompletedAt != nil {
		t := *job.CompletedAt
		cp.CompletedAt = &t
	}
	if job.Confidence != nil {
		c := *job.Confidence
		cp.Confidence = &c
	}
	return cp
}
