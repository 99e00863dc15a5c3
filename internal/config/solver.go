package config

import (
	"os"
	"strconv"
	"time"
)

// CostWeights tune the compatibility evaluator. They live in configuration so
// the strategies can be tuned without touching the evaluator itself.
type CostWeights struct {
	Connectivity       float64
	Geometry           float64
	Appearance         float64
	Shape              float64
	ViolationPenalty   float64 // large but finite, so search can still escape
	AdjacencyTolerance float64
}

func NewCostWeights() *CostWeights {
	return &CostWeights{
		Connectivity:       10.0,
		Geometry:           1.0,
		Appearance:         0.5,
		Shape:              1.0,
		ViolationPenalty:   1000.0,
		AdjacencyTolerance: 0.25,
	}
}

// SolverTunables are the per-request algorithm knobs with their documented
// valid ranges. Out-of-range values fail validation before a job starts.
type SolverTunables struct {
	MaxIterations int `json:"maxIterations" validate:"gte=100,lte=10000"`

	// genetic
	PopulationSize  int     `json:"populationSize" validate:"gte=20,lte=100"`
	MutationRate    float64 `json:"mutationRate" validate:"gte=0.01,lte=0.5"`
	ElitismFraction float64 `json:"elitismFraction" validate:"gte=0.02,lte=0.5"`
	Patience        int     `json:"patience" validate:"gte=10,lte=1000"`

	// simulated annealing
	InitialTemperature float64 `json:"initialTemperature" validate:"gte=50,lte=500"`
	CoolingRate        float64 `json:"coolingRate" validate:"gte=0.9,lte=0.999"`

	// reinforcement learning
	LearningRate float64 `json:"learningRate" validate:"gte=0.01,lte=1"`
	Discount     float64 `json:"discount" validate:"gte=0.1,lte=0.999"`
	Epsilon      float64 `json:"epsilon" validate:"gte=0,lte=1"`
	EpsilonDecay float64 `json:"epsilonDecay" validate:"gte=0.9,lte=1"`
	EpsilonMin   float64 `json:"epsilonMin" validate:"gte=0,lte=1"`

	// Seed fixes the random stream; 0 selects a stable default so repeated
	// runs with identical inputs stay bit-identical.
	Seed int64 `json:"seed"`
}

func DefaultTunables() SolverTunables {
	return SolverTunables{
		MaxIterations:      1000,
		PopulationSize:     50,
		MutationRate:       0.1,
		ElitismFraction:    0.1,
		Patience:           100,
		InitialTemperature: 100,
		CoolingRate:        0.995,
		LearningRate:       0.1,
		Discount:           0.9,
		Epsilon:            1.0,
		EpsilonDecay:       0.995,
		EpsilonMin:         0.05,
	}
}

// SolverCfg is the process-level solver configuration
type SolverCfg struct {
	Weights          *CostWeights
	JobRetention     time.Duration
	EvictionInterval time.Duration
}

func NewSolverCfg() *SolverCfg {
	retentionSec := intEnv("JOB_RETENTION_SEC", 600)
	evictionSec := intEnv("JOB_EVICTION_INTERVAL_SEC", 60)
	return &SolverCfg{
		Weights:          NewCostWeights(),
		JobRetention:     time.Duration(retentionSec) * time.Second,
		EvictionInterval: time.Duration(evictionSec) * time.Second,
	}
}

func intEnv(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
