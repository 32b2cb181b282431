package http

import (
	"net/http"

	"familybudget/internal/core"
)

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.svc.Goals(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]goalJSON, len(goals))
	for i, g := range goals {
		out[i] = goalToJSON(g)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var body goalJSON
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	created, err := s.svc.AddGoal(r.Context(), body.toGoal())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	s.invalidateCaches()
	writeJSON(w, http.StatusCreated, goalToJSON(created))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var body goalJSON
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	body.ID = r.PathValue("id")

	updated, err := s.svc.UpdateGoal(r.Context(), body.toGoal())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	s.invalidateCaches()
	writeJSON(w, http.StatusOK, goalToJSON(updated))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteGoal(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	s.invalidateCaches()
	w.WriteHeader(http.StatusNoContent)
}

type contributeRequest struct {
	Amount core.Money `json:"amount"`
}

// handleContribute adds an amount to a goal's balance. Completion is a
// deliberate user action, so the status is never flipped here.
func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	var body contributeRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	goal, err := s.svc.Contribute(r.Context(), r.PathValue("id"), body.Amount)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	s.invalidateCaches()
	writeJSON(w, http.StatusOK, goalToJSON(goal))
}
