package secondary

import (
	"context"

	"gitlab.com/puzzle3d.net/internal/domain"
)

// SolveResultFilter narrows a history listing; zero values mean "any"
type SolveResultFilter struct {
	PuzzleID  string
	Algorithm domain.Algorithm
	Status    domain.JobStatus
	Limit     int
}

// SolveResultRepository defines the interface for storing and retrieving solve outcomes
type SolveResultRepository interface {
	// SaveResult persists one terminal solve outcome
	SaveResult(ctx context.Context, result *domain.SolveResult) error

	// ListResults retrieves persisted outcomes, newest first
	ListResults(ctx context.Context, filter SolveResultFilter) ([]*domain.SolveResult, error)
}
