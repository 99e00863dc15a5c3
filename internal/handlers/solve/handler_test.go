package solve

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"gitlab.com/puzzle3d.net/internal/adapter/logging"
	puzzlesvc "gitlab.com/puzzle3d.net/internal/core/services/puzzle"
	"gitlab.com/puzzle3d.net/internal/core/services/solver"
	"gitlab.com/puzzle3d.net/internal/domain"
)

// memoryRepo is a race-safe in-memory PuzzleRepository; the solver's
// persistence goroutine writes it while the test polls.
type memoryRepo struct {
	mu      sync.Mutex
	puzzles map[string]*domain.Puzzle
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{puzzles: make(map[string]*domain.Puzzle)}
}

func (r *memoryRepo) SavePuzzle(ctx context.Context, p *domain.Puzzle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.puzzles[p.ID] = &cp
	return nil
}

func (r *memoryRepo) GetPuzzle(ctx context.Context, id string) (*domain.Puzzle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.puzzles[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memoryRepo) GetAllPuzzles(ctx context.Context) ([]*domain.Puzzle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Puzzle, 0, len(r.puzzles))
	for _, p := range r.puzzles {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memoryRepo) DeletePuzzle(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.puzzles[id]
	delete(r.puzzles, id)
	return ok, nil
}

func (r *memoryRepo) seed(p *domain.Puzzle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.puzzles[p.ID] = p
}

func newTestRouter(repo *memoryRepo) *mux.Router {
	logger := logging.NewNopLogger()
	puzzleService := puzzlesvc.NewPuzzleService(repo, logger)
	solverService := solver.NewSolverService(nil, nil, repo, logger)

	router := mux.NewRouter()
	NewSolveHandler(solverService, puzzleService, nil, logger).RegisterRoutes(router)
	return router
}

func seedPuzzle(repo *memoryRepo, id string) {
	repo.seed(&domain.Puzzle{
		ID:   id,
		Name: id,
		Pieces: []domain.PieceDescriptor{{
			ID:           "a",
			Dimensions:   domain.Vec3{X: 2, Y: 2, Z: 1},
			ColorProfile: []float64{0.3, 0.3, 0.3},
			Shape:        domain.ShapeFeatures{Complexity: 1, CornerCount: 4},
		}},
	})
}

func postJSON(router *mux.Router, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func get(router *mux.Router, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestStartSolveUnknownPuzzle(t *testing.T) {
	router := newTestRouter(newMemoryRepo())

	rec := postJSON(router, "/api/solve", map[string]interface{}{
		"puzzleId":  "ghost",
		"algorithm": "genetic",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStartSolveMissingAlgorithm(t *testing.T) {
	repo := newMemoryRepo()
	seedPuzzle(repo, "p1")
	router := newTestRouter(repo)

	rec := postJSON(router, "/api/solve", map[string]interface{}{"puzzleId": "p1"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartSolveUnknownAlgorithm(t *testing.T) {
	repo := newMemoryRepo()
	seedPuzzle(repo, "p1")
	router := newTestRouter(repo)

	rec := postJSON(router, "/api/solve", map[string]interface{}{
		"puzzleId":  "p1",
		"algorithm": "tabu_search",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartSolveOutOfRangeTunable(t *testing.T) {
	repo := newMemoryRepo()
	seedPuzzle(repo, "p1")
	router := newTestRouter(repo)

	rec := postJSON(router, "/api/solve", map[string]interface{}{
		"puzzleId":      "p1",
		"algorithm":     "genetic",
		"maxIterations": 5,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSolveLifecycleOverHTTP(t *testing.T) {
	repo := newMemoryRepo()
	seedPuzzle(repo, "p1")
	router := newTestRouter(repo)

	rec := postJSON(router, "/api/solve", map[string]interface{}{
		"puzzleId":      "p1",
		"algorithm":     "simulated_annealing",
		"maxIterations": 100,
	})
	require.Equal(t, http.StatusAccepted, rec.Code)

	var started SolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
	require.Equal(t, domain.JobStatusRunning, started.Job.Status)
	require.Equal(t, "p1", started.Job.PuzzleID)

	var final domain.SolveJob
	require.Eventually(t, func() bool {
		rec := get(router, "/api/solve/p1/status")
		if rec.Code != http.StatusOK {
			return false
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &final))
		return final.Status.Terminal()
	}, 10*time.Second, 10*time.Millisecond)

	require.Equal(t, domain.JobStatusCompleted, final.Status)
	require.Equal(t, 0.0, final.BestCost)
	require.NotNil(t, final.Confidence)

	// cancel after completion reports the terminal state unchanged
	rec = postJSON(router, "/api/solve/p1/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cancelled domain.SolveJob
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cancelled))
	require.Equal(t, domain.JobStatusCompleted, cancelled.Status)

	// completion wrote the solution back onto the puzzle
	require.Eventually(t, func() bool {
		p, err := repo.GetPuzzle(context.Background(), "p1")
		return err == nil && p != nil && p.Solved && p.Solution != nil
	}, 5*time.Second, 10*time.Millisecond)
}

func TestStatusUnknownPuzzle(t *testing.T) {
	router := newTestRouter(newMemoryRepo())
	rec := get(router, "/api/solve/ghost/status")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelUnknownPuzzle(t *testing.T) {
	router := newTestRouter(newMemoryRepo())
	rec := postJSON(router, "/api/solve/ghost/cancel", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListResultsWithoutRepo(t *testing.T) {
	router := newTestRouter(newMemoryRepo())
	rec := get(router, "/api/results")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestTunablesMergeOverDefaults(t *testing.T) {
	seed := int64(99)
	iters := 500
	req := SolveRequest{PuzzleID: "p", Algorithm: "genetic", MaxIterations: &iters, Seed: &seed}

	tun := req.Tunables()
	require.Equal(t, 500, tun.MaxIterations)
	require.Equal(t, int64(99), tun.Seed)
	require.Equal(t, 50, tun.PopulationSize, "untouched fields keep their defaults")
}
