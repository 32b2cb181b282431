package http

import (
	"errors"
	"net/http"

	"familybudget/internal/core"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.svc.Settings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var settings core.Settings
	if err := decodeJSON(r, &settings); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.svc.SetSettings(r.Context(), settings); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

type themeJSON struct {
	Theme string `json:"theme"`
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := s.svc.Theme(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, themeJSON{Theme: theme})
}

func (s *Server) handlePutTheme(w http.ResponseWriter, r *http.Request) {
	var body themeJSON
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if body.Theme != "light" && body.Theme != "dark" {
		writeError(w, http.StatusBadRequest, errors.New("theme must be light or dark"))
		return
	}

	if err := s.svc.SetTheme(r.Context(), body.Theme); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// handleReset wipes every collection back to its defaults.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.ResetAll(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.invalidateCaches()
	w.WriteHeader(http.StatusNoContent)
}
