package schedulerengine

import (
	"context"
	"time"

	"gitlab.com/puzzle3d.net/internal/config"
	"gitlab.com/puzzle3d.net/internal/core/ports/primary"
	"gitlab.com/puzzle3d.net/internal/core/services/solver"
)

// RetentionEngine evicts terminal solve jobs once their retention window has
// passed, keeping the in-memory registry bounded on long-lived processes.
type RetentionEngine struct {
	SolverCfg     *config.SolverCfg
	solverService solver.ISolverService
	logger        primary.Logger
}

func NewRetentionEngine(
	solverCfg *config.SolverCfg,
	solverService solver.ISolverService,
	logger primary.Logger,
) *RetentionEngine {
	return &RetentionEngine{
		SolverCfg:     solverCfg,
		solverService: solverService,
		logger:        logger,
	}
}

// StartRetentionEngine runs the eviction loop until the context is done
func (e *RetentionEngine) StartRetentionEngine(ctx context.Context) {
	ticker := time.NewTicker(e.SolverCfg.EvictionInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				evicted := e.solverService.EvictExpired(time.Now())
				if evicted > 0 {
					e.logger.Info("Evicted expired solve jobs", "count", evicted)
				}
			}
		}
	}()
}
