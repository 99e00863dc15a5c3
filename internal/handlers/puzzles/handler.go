package puzzles

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/puzzle3d.net/internal/core/ports/primary"
	"gitlab.com/puzzle3d.net/internal/core/services/puzzle"
	"gitlab.com/puzzle3d.net/internal/handlers/response"
)

// PuzzleHandler handles puzzle API requests
type PuzzleHandler struct {
	puzzleService puzzle.IPuzzleService
	logger        primary.Logger
}

// NewPuzzleHandler creates a new puzzle handler
func NewPuzzleHandler(puzzleService puzzle.IPuzzleService, logger primary.Logger) *PuzzleHandler {
	return &PuzzleHandler{
		puzzleService: puzzleService,
		logger:        logger,
	}
}

// RegisterRoutes registers the API routes for PuzzleHandler
func (h *PuzzleHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/puzzles", h.CreatePuzzle).Methods("POST")
	router.HandleFunc("/api/puzzles", h.ListPuzzles).Methods("GET")
	router.HandleFunc("/api/puzzles/{puzzleId}", h.GetPuzzle).Methods("GET")
	router.HandleFunc("/api/puzzles/{puzzleId}", h.DeletePuzzle).Methods("DELETE")
	router.HandleFunc("/api/puzzles/{puzzleId}/pieces", h.AddPieces).Methods("POST")
}

// CreatePuzzle handles puzzle creation requests
func (h *PuzzleHandler) CreatePuzzle(w http.ResponseWriter, r *http.Request) {
	var req CreatePuzzleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	p, err := h.puzzleService.CreatePuzzle(r.Context(), req.Name)
	if err != nil {
		h.logger.Error("Failed to create puzzle", "error", err)
		http.Error(w, "Failed to create puzzle", http.StatusInternalServerError)
		return
	}

	response.WriteJSON(w, http.StatusCreated, p)
}

// ListPuzzles handles puzzle listing requests
func (h *PuzzleHandler) ListPuzzles(w http.ResponseWriter, r *http.Request) {
	puzzles, err := h.puzzleService.ListPuzzles(r.Context())
	if err != nil {
		h.logger.Error("Failed to list puzzles", "error", err)
		http.Error(w, "Failed to list puzzles", http.StatusInternalServerError)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]interface{}{"puzzles": puzzles})
}

// GetPuzzle handles puzzle retrieval requests
func (h *PuzzleHandler) GetPuzzle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	puzzleID := vars["puzzleId"]

	p, err := h.puzzleService.GetPuzzle(r.Context(), puzzleID)
	if err != nil {
		h.logger.Error("Failed to get puzzle", "puzzleId", puzzleID, "error", err)
		http.Error(w, "Failed to get puzzle", http.StatusInternalServerError)
		return
	}
	if p == nil {
		http.Error(w, "Puzzle not found", http.StatusNotFound)
		return
	}

	response.WriteJSON(w, http.StatusOK, p)
}

// DeletePuzzle handles puzzle deletion requests
func (h *PuzzleHandler) DeletePuzzle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	puzzleID := vars["puzzleId"]

	if err := h.puzzleService.DeletePuzzle(r.Context(), puzzleID); err != nil {
		response.WriteDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddPieces handles piece registration requests from the ingestion pipeline
func (h *PuzzleHandler) AddPieces(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	puzzleID := vars["puzzleId"]

	var req AddPiecesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if len(req.Pieces) == 0 {
		http.Error(w, "At least one piece is required", http.StatusBadRequest)
		return
	}

	p, err := h.puzzleService.AddPieces(r.Context(), puzzleID, req.Pieces)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, p)
}
