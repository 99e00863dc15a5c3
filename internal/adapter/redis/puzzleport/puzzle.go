package puzzleport

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"gitlab.com/puzzle3d.net/internal/core/ports/primary"
	"gitlab.com/puzzle3d.net/internal/domain"
)

const puzzleKeyPrefix = "puzzle:"

// PuzzleRepository implements the PuzzleRepository interface with Redis.
// Puzzles are JSON values under puzzle:<id> keys; they survive until deleted
// explicitly, with no TTL; piece sets are small and long-lived.
type PuzzleRepository struct {
	redisClient *redis.Client
	logger      primary.Logger
}

// NewPuzzleRepository creates a new Redis puzzle repository
func NewPuzzleRepository(redisClient *redis.Client, logger primary.Logger) *PuzzleRepository {
	return &PuzzleRepository{
		redisClient: redisClient,
		logger:      logger,
	}
}

// SavePuzzle saves a puzzle to Redis
func (r *PuzzleRepository) SavePuzzle(ctx context.Context, puzzle *domain.Puzzle) error {
	puzzleJSON, err := json.Marshal(puzzle)
	if err != nil {
		r.logger.Error("Failed to marshal puzzle", "error", err)
		return fmt.Errorf("failed to marshal puzzle: %w", err)
	}

	key := fmt.Sprintf("%s%s", puzzleKeyPrefix, puzzle.ID)
	if err := r.redisClient.Set(ctx, key, puzzleJSON, 0).Err(); err != nil {
		r.logger.Error("Failed to save puzzle", "error", err)
		return fmt.Errorf("failed to save puzzle: %w", err)
	}

	return nil
}

// GetPuzzle retrieves a puzzle from Redis by ID
func (r *PuzzleRepository) GetPuzzle(ctx context.Context, puzzleID string) (*domain.Puzzle, error) {
	key := fmt.Sprintf("%s%s", puzzleKeyPrefix, puzzleID)
	puzzleJSON, err := r.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		r.logger.Error("Failed to get puzzle", "error", err)
		return nil, fmt.Errorf("failed to get puzzle: %w", err)
	}

	var puzzle domain.Puzzle
	if err := json.Unmarshal(puzzleJSON, &puzzle); err != nil {
		r.logger.Error("Failed to unmarshal puzzle", "error", err)
		return nil, fmt.Errorf("failed to unmarshal puzzle: %w", err)
	}

	return &puzzle, nil
}

// GetAllPuzzles retrieves every stored puzzle from Redis
func (r *PuzzleRepository) GetAllPuzzles(ctx context.Context) ([]*domain.Puzzle, error) {
	var cursor uint64
	var puzzleKeys []string
	var puzzles []*domain.Puzzle
	var err error

	// Use SCAN to iterate over keys with the puzzle prefix
	for {
		var keys []string
		keys, cursor, err = r.redisClient.Scan(ctx, cursor, puzzleKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan puzzle keys: %w", err)
		}
		puzzleKeys = append(puzzleKeys, keys...)
		if cursor == 0 {
			break
		}
	}

	if len(puzzleKeys) == 0 {
		return puzzles, nil
	}

	puzzleData, err := r.redisClient.MGet(ctx, puzzleKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve puzzle data: %w", err)
	}

	for _, data := range puzzleData {
		if data == nil {
			continue
		}
		var puzzle domain.Puzzle
		if err := json.Unmarshal([]byte(data.(string)), &puzzle); err != nil {
			return nil, fmt.Errorf("failed to unmarshal puzzle data: %w", err)
		}
		puzzles = append(puzzles, &puzzle)
	}

	return puzzles, nil
}

// DeletePuzzle removes a puzzle from Redis, reporting whether it existed
func (r *PuzzleRepository) DeletePuzzle(ctx context.Context, puzzleID string) (bool, error) {
	key := fmt.Sprintf("%s%s", puzzleKeyPrefix, puzzleID)
	removed, err := r.redisClient.Del(ctx, key).Result()
	if err != nil {
		r.logger.Error("Failed to delete puzzle", "error", err)
		return false, fmt.Errorf("failed to delete puzzle: %w", err)
	}
	return removed > 0, nil
}
