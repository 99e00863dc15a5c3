package puzzles

import "gitlab.com/puzzle3d.net/internal/domain"

// CreatePuzzleRequest represents a request to create a puzzle
type CreatePuzzleRequest struct {
	Name string `json:"name"`
}

// AddPiecesRequest represents a batch of piece descriptors from the
// ingestion pipeline
type AddPiecesRequest struct {
	Pieces []domain.PieceDescriptor `json:"pieces"`
}
