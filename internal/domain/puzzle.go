package domain

import (
	"time"

	"github.com/google/uuid"
)

// Puzzle groups the piece descriptors registered by the ingestion pipeline
// under one id, plus the latest accepted solution if any.
type Puzzle struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Pieces    []PieceDescriptor `json:"pieces"`
	CreatedAt time.Time         `json:"createdAt"`
	Solved    bool              `json:"solved"`
	Solution  *Arrangement      `json:"solution,omitempty"`
}

// NewPuzzle creates an empty puzzle with a fresh id
func NewPuzzle(name string) *Puzzle {
	return &Puzzle{
		ID:        uuid.New().String(),
		Name:      name,
		Pieces:    []PieceDescriptor{},
		CreatedAt: time.Now(),
	}
}
