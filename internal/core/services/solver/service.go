package solver

import (
	"context"
	"time"

	"gitlab.com/puzzle3d.net/internal/config"
	"gitlab.com/puzzle3d.net/internal/domain"
)

// ISolverService owns one solver run per puzzle: lifecycle, progress
// reporting and cooperative cancellation.
type ISolverService interface {
	// Start begins a background solve for the puzzle; fails with
	// ErrAlreadyRunning while a job for the same puzzle id is active.
	Start(ctx context.Context, puzzle *domain.Puzzle, algorithm domain.Algorithm, tunables config.SolverTunables) (domain.SolveJob, error)

	// Poll returns a snapshot of the job; ErrNotFound if none was ever started
	Poll(puzzleID string) (domain.SolveJob, error)

	// Cancel stops a running job cooperatively. Idempotent on terminal jobs:
	// it returns the current snapshot without error.
	Cancel(puzzleID string) (domain.SolveJob, error)

	// EvictExpired drops terminal jobs past the retention window and returns
	// how many were removed.
	EvictExpired(now time.Time) int
}
