package domain

import (
	"time"

	"github.com/google/uuid"
)

// Algorithm selects the search strategy driving a solve
type Algorithm string

const (
	AlgorithmGenetic       Algorithm = "genetic"
	AlgorithmAnnealing     Algorithm = "simulated_annealing"
	AlgorithmReinforcement Algorithm = "reinforcement_learning"
)

// Valid reports whether the algorithm is one of the supported strategies
func (a Algorithm) Valid() bool {
	switch a {
	case AlgorithmGenetic, AlgorithmAnnealing, AlgorithmReinforcement:
		return true
	}
	return false
}

// JobStatus represents the lifecycle state of a solve job
type JobStatus string

const (
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusCancelled JobStatus = "CANCELLED"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
)

// Terminal reports whether the status is final
func (s JobStatus) Terminal() bool {
	return s == JobStatusCancelled || s == JobStatusCompleted || s == JobStatusFailed
}

// SolveJob is the snapshot of one solver run. The controller keeps the live
// copy; callers only ever see value copies taken under the job's guard.
type SolveJob struct {
	PuzzleID        string       `json:"puzzleId"`
	Algorithm       Algorithm    `json:"algorithm"`
	MaxIterations   int          `json:"maxIterations"`
	Status          JobStatus    `json:"status"`
	StartedAt       time.Time    `json:"startedAt"`
	CompletedAt     *time.Time   `json:"completedAt,omitempty"`
	Iteration       int          `json:"iteration"`
	Progress        float64      `json:"progress"`
	BestArrangement *Arrangement `json:"bestArrangement,omitempty"`
	BestCost        float64      `json:"bestCost"`
	Confidence      *float64     `json:"confidence,omitempty"` // set on completion only
	Error           string       `json:"error,omitempty"`
}

// SolveResult is the persisted record of a finished (or cancelled/failed) job
type SolveResult struct {
	ID          uuid.UUID    `db:"id"`
	PuzzleID    string       `db:"puzzle_id"`
	Algorithm   Algorithm    `db:"algorithm"`
	Status      JobStatus    `db:"status"`
	Cost        float64      `db:"cost"`
	Confidence  float64      `db:"confidence"`
	Iterations  int          `db:"iterations"`
	Arrangement *Arrangement `db:"-"`
	StartedAt   time.Time    `db:"started_at"`
	CompletedAt time.Time    `db:"completed_at"`
}

type SolveResultTable struct {
	ID          string
	PuzzleID    string
	Algorithm   string
	Status      string
	Cost        string
	Confidence  string
	Iterations  string
	Arrangement string
	StartedAt   string
	CompletedAt string
}

func GetSolveResultTable() SolveResultTable {
	return SolveResultTable{
		ID:          "id",
		PuzzleID:    "puzzle_id",
		Algorithm:   "algorithm",
		Status:      "status",
		Cost:        "cost",
		Confidence:  "confidence",
		Iterations:  "iterations",
		Arrangement: "arrangement",
		StartedAt:   "started_at",
		CompletedAt: "completed_at",
	}
}

func (SolveResultTable) TableName() string {
	return "solve_results"
}
