package puzzle

import (
	"context"

	"gitlab.com/puzzle3d.net/internal/domain"
)

// IPuzzleService defines the interface for managing puzzles and their pieces
type IPuzzleService interface {
	// CreatePuzzle creates an empty puzzle
	CreatePuzzle(ctx context.Context, name string) (*domain.Puzzle, error)

	// GetPuzzle retrieves a puzzle by ID, nil when absent
	GetPuzzle(ctx context.Context, puzzleID string) (*domain.Puzzle, error)

	// ListPuzzles retrieves all puzzles
	ListPuzzles(ctx context.Context) ([]*domain.Puzzle, error)

	// AddPieces validates and registers piece descriptors on a puzzle
	AddPieces(ctx context.Context, puzzleID string, pieces []domain.PieceDescriptor) (*domain.Puzzle, error)

	// DeletePuzzle removes a puzzle
	DeletePuzzle(ctx context.Context, puzzleID string) error
}
