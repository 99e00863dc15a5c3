package secondary

import (
	"context"

	"gitlab.com/puzzle3d.net/internal/domain"
)

type PuzzleRepository interface {
	// SavePuzzle creates or overwrites a puzzle
	SavePuzzle(ctx context.Context, puzzle *domain.Puzzle) error

	// GetPuzzle retrieves a puzzle by ID, nil when absent
	GetPuzzle(ctx context.Context, puzzleID string) (*domain.Puzzle, error)

	// GetAllPuzzles retrieves every stored puzzle
	GetAllPuzzles(ctx context.Context) ([]*domain.Puzzle, error)

	// DeletePuzzle removes a puzzle, reporting whether it existed
	DeletePuzzle(ctx context.Context, puzzleID string) (bool, error)
}
