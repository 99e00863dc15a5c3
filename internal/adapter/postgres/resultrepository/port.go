// package resultrepository contains the PostgreSQL implementation of the
// solve history repository
package resultrepository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/puzzle3d.net/internal/core/ports/primary"
	"gitlab.com/puzzle3d.net/internal/core/ports/secondary"
	"gitlab.com/puzzle3d.net/internal/domain"
	querybuilder "gitlab.com/puzzle3d.net/internal/utils"
)

const defaultListLimit = 50

var _ secondary.SolveResultRepository = (*SolveResultRepository)(nil)

// SolveResultRepository implements the SolveResultRepository interface with
// PostgreSQL
type SolveResultRepository struct {
	db     *sqlx.DB
	logger primary.Logger
	schema string
}

// NewSolveResultRepository creates a new PostgreSQL solve result repository
func NewSolveResultRepository(db *sqlx.DB, logger primary.Logger, schema string) *SolveResultRepository {
	if schema == "" {
		schema = "public"
	}
	return &SolveResultRepository{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

// SaveResult persists one terminal solve outcome
func (r *SolveResultRepository) SaveResult(ctx context.Context, result *domain.SolveResult) error {
	var arrangementJSON []byte
	if result.Arrangement != nil {
		var err error
		arrangementJSON, err = json.Marshal(result.Arrangement)
		if err != nil {
			r.logger.Error("Failed to marshal arrangement", "error", err)
			return fmt.Errorf("failed to marshal arrangement: %w", err)
		}
	}

	query := fmt.Sprintf(`
		INSERT INTO %s.solve_results (
			id, puzzle_id, algorithm, status, cost, confidence,
			iterations, arrangement, started_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`, r.schema)

	_, err := r.db.ExecContext(
		ctx,
		query,
		result.ID,
		result.PuzzleID,
		result.Algorithm,
		result.Status,
		result.Cost,
		result.Confidence,
		result.Iterations,
		arrangementJSON,
		result.StartedAt,
		result.CompletedAt,
	)
	if err != nil {
		r.logger.Error("Failed to save solve result", "error", err)
		return fmt.Errorf("failed to save solve result: %w", err)
	}

	return nil
}

// ListResults retrieves persisted outcomes, newest first. Zero-valued filter
// fields are skipped, so the WHERE clause only carries what the caller asked
// for.
func (r *SolveResultRepository) ListResults(ctx context.Context, filter secondary.SolveResultFilter) ([]*domain.SolveResult, error) {
	tbl := domain.GetSolveResultTable()
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	qb := querybuilder.NewQueryBuilder(r.schema).
		Select(
			tbl.ID,
			tbl.PuzzleID,
			tbl.Algorithm,
			tbl.Status,
			tbl.Cost,
			tbl.Confidence,
			tbl.Iterations,
			tbl.Arrangement,
			tbl.StartedAt,
			tbl.CompletedAt,
		).
		From(tbl.TableName())

	if filter.PuzzleID != "" {
		qb = qb.Where(fmt.Sprintf("%s = ?", tbl.PuzzleID), filter.PuzzleID)
	}
	if filter.Algorithm != "" {
		qb = qb.And(fmt.Sprintf("%s = ?", tbl.Algorithm), string(filter.Algorithm))
	}
	if filter.Status != "" {
		qb = qb.And(fmt.Sprintf("%s = ?", tbl.Status), string(filter.Status))
	}

	query, args := qb.
		OrderBy(tbl.CompletedAt, false).
		Limit(limit).
		Build()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list solve results", "error", err)
		return nil, fmt.Errorf("failed to list solve results: %w", err)
	}
	defer rows.Close()

	results := make([]*domain.SolveResult, 0)
	for rows.Next() {
		var result domain.SolveResult
		var arrangementJSON []byte

		err := rows.Scan(
			&result.ID,
			&result.PuzzleID,
			&result.Algorithm,
			&result.Status,
			&result.Cost,
			&result.Confidence,
			&result.Iterations,
			&arrangementJSON,
			&result.StartedAt,
			&result.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan solve result: %w", err)
		}

		if len(arrangementJSON) > 0 {
			var arrangement domain.Arrangement
			if err := json.Unmarshal(arrangementJSON, &arrangement); err != nil {
				return nil, fmt.Errorf("failed to unmarshal arrangement: %w", err)
			}
			result.Arrangement = &arrangement
		}

		results = append(results, &result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate solve results: %w", err)
	}

	return results, nil
}
