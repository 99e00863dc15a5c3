package solve

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"gitlab.com/puzzle3d.net/internal/core/ports/primary"
	"gitlab.com/puzzle3d.net/internal/core/ports/secondary"
	"gitlab.com/puzzle3d.net/internal/core/services/puzzle"
	"gitlab.com/puzzle3d.net/internal/core/services/solver"
	"gitlab.com/puzzle3d.net/internal/domain"
	"gitlab.com/puzzle3d.net/internal/handlers/response"
	"gitlab.com/puzzle3d.net/internal/static/errs"
)

// SolveHandler handles solve API requests
type SolveHandler struct {
	solverService solver.ISolverService
	puzzleService puzzle.IPuzzleService
	resultRepo    secondary.SolveResultRepository
	logger        primary.Logger
	validate      *validator.Validate
}

// NewSolveHandler creates a new solve handler. resultRepo may be nil when
// history persistence is not configured.
func NewSolveHandler(
	solverService solver.ISolverService,
	puzzleService puzzle.IPuzzleService,
	resultRepo secondary.SolveResultRepository,
	logger primary.Logger,
) *SolveHandler {
	return &SolveHandler{
		solverService: solverService,
		puzzleService: puzzleService,
		resultRepo:    resultRepo,
		logger:        logger,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the API routes for SolveHandler
func (h *SolveHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/solve", h.StartSolve).Methods("POST")
	router.HandleFunc("/api/solve/{puzzleId}/status", h.GetStatus).Methods("GET")
	router.HandleFunc("/api/solve/{puzzleId}/cancel", h.CancelSolve).Methods("POST")
	router.HandleFunc("/api/results", h.ListResults).Methods("GET")
}

// StartSolve handles solve start requests
func (h *SolveHandler) StartSolve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		response.WriteDomainError(w, fmt.Errorf("%w: %v", errs.ErrInvalidConfiguration, err))
		return
	}

	p, err := h.puzzleService.GetPuzzle(r.Context(), req.PuzzleID)
	if err != nil {
		h.logger.Error("Failed to get puzzle", "puzzleId", req.PuzzleID, "error", err)
		http.Error(w, "Failed to get puzzle", http.StatusInternalServerError)
		return
	}
	if p == nil {
		response.WriteDomainError(w, fmt.Errorf("%w: puzzle %s", errs.ErrNotFound, req.PuzzleID))
		return
	}

	job, err := h.solverService.Start(r.Context(), p, domain.Algorithm(req.Algorithm), req.Tunables())
	if err != nil {
		h.logger.Error("Failed to start solve", "puzzleId", req.PuzzleID, "error", err)
		response.WriteDomainError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusAccepted, SolveResponse{Job: job})
}

// GetStatus handles solve status requests
func (h *SolveHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	puzzleID := vars["puzzleId"]

	job, err := h.solverService.Poll(puzzleID)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, job)
}

// CancelSolve handles solve cancellation requests. Cancelling a job that has
// already reached a terminal state returns that state unchanged.
func (h *SolveHandler) CancelSolve(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	puzzleID := vars["puzzleId"]

	job, err := h.solverService.Cancel(puzzleID)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, job)
}

// ListResults handles solve history requests
func (h *SolveHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	if h.resultRepo == nil {
		http.Error(w, "Solve history not configured", http.StatusServiceUnavailable)
		return
	}

	filter := secondary.SolveResultFilter{
		PuzzleID:  r.URL.Query().Get("puzzleId"),
		Algorithm: domain.Algorithm(r.URL.Query().Get("algorithm")),
		Status:    domain.JobStatus(r.URL.Query().Get("status")),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}

	results, err := h.resultRepo.ListResults(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list solve results", "error", err)
		http.Error(w, "Failed to list solve results", http.StatusInternalServerError)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}
