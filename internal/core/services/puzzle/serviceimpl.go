package puzzle

import (
	"context"
	"fmt"

	"gitlab.com/puzzle3d.net/internal/core/ports/primary"
	"gitlab.com/puzzle3d.net/internal/core/ports/secondary"
	"gitlab.com/puzzle3d.net/internal/domain"
	"gitlab.com/puzzle3d.net/internal/static/errs"
)

var _ IPuzzleService = (*PuzzleService)(nil)

// PuzzleService implements the IPuzzleService interface
type PuzzleService struct {
	puzzleRepo secondary.PuzzleRepository
	logger     primary.Logger
}

// NewPuzzleService creates a new puzzle service
func NewPuzzleService(puzzleRepo secondary.PuzzleRepository, logger primary.Logger) *PuzzleService {
	return &PuzzleService{
		puzzleRepo: puzzleRepo,
		logger:     logger,
	}
}

// CreatePuzzle creates an empty puzzle
func (s *PuzzleService) CreatePuzzle(ctx context.Context, name string) (*domain.Puzzle, error) {
	p := domain.NewPuzzle(name)

	if err := s.puzzleRepo.SavePuzzle(ctx, p); err != nil {
		s.logger.Error("Failed to save puzzle", "puzzleId", p.ID, "error", err)
		return nil, fmt.Errorf("failed to save puzzle: %w", err)
	}

	s.logger.Info("Puzzle created", "puzzleId", p.ID, "name", name)
	return p, nil
}

// GetPuzzle retrieves a puzzle by ID
func (s *PuzzleService) GetPuzzle(ctx context.Context, puzzleID string) (*domain.Puzzle, error) {
	p, err := s.puzzleRepo.GetPuzzle(ctx, puzzleID)
	if err != nil {
		s.logger.Error("Failed to get puzzle", "puzzleId", puzzleID, "error", err)
		return nil, fmt.Errorf("failed to get puzzle: %w", err)
	}
	return p, nil
}

// ListPuzzles retrieves all puzzles
func (s *PuzzleService) ListPuzzles(ctx context.Context) ([]*domain.Puzzle, error) {
	puzzles, err := s.puzzleRepo.GetAllPuzzles(ctx)
	if err != nil {
		s.logger.Error("Failed to list puzzles", "error", err)
		return nil, fmt.Errorf("failed to list puzzles: %w", err)
	}
	return puzzles, nil
}

// AddPieces validates and registers piece descriptors on a puzzle. Invalid
// descriptors are rejected before anything is stored, so a bad batch never
// partially lands.
func (s *PuzzleService) AddPieces(ctx context.Context, puzzleID string, pieces []domain.PieceDescriptor) (*domain.Puzzle, error) {
	for i := range pieces {
		if err := pieces[i].Validate(); err != nil {
			return nil, err
		}
	}

	p, err := s.puzzleRepo.GetPuzzle(ctx, puzzleID)
	if err != nil {
		s.logger.Error("Failed to get puzzle", "puzzleId", puzzleID, "error", err)
		return nil, fmt.Errorf("failed to get puzzle: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: puzzle %s", errs.ErrNotFound, puzzleID)
	}

	p.Pieces = append(p.Pieces, pieces...)
	if err := s.puzzleRepo.SavePuzzle(ctx, p); err != nil {
		s.logger.Error("Failed to save puzzle pieces", "puzzleId", puzzleID, "error", err)
		return nil, fmt.Errorf("failed to save puzzle: %w", err)
	}

	s.logger.Info("Pieces registered", "puzzleId", puzzleID, "added", len(pieces), "total", len(p.Pieces))
	return p, nil
}

// DeletePuzzle removes a puzzle
func (s *PuzzleService) DeletePuzzle(ctx context.Context, puzzleID string) error {
	existed, err := s.puzzleRepo.DeletePuzzle(ctx, puzzleID)
	if err != nil {
		s.logger.Error("Failed to delete puzzle", "puzzleId", puzzleID, "error", err)
		return fmt.Errorf("failed to delete puzzle: %w", err)
	}
	if !existed {
		return fmt.Errorf("%w: puzzle %s", errs.ErrNotFound, puzzleID)
	}

	s.logger.Info("Puzzle deleted", "puzzleId", puzzleID)
	return nil
}
