package http

import (
	"errors"
	"net/http"

	"familybudget/internal/core"
	"familybudget/internal/report"
	"familybudget/internal/services"
)

var errUnknownKind = errors.New("unknown record kind")

func kindFromPath(r *http.Request) (services.Kind, error) {
	kind := services.Kind(r.PathValue("kind"))
	if !kind.IsValid() {
		return "", errUnknownKind
	}
	return kind, nil
}

// handleListRecords returns a collection, optionally filtered by month.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromPath(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	records, err := s.svc.Records(r.Context(), kind)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if month := r.URL.Query().Get("month"); month != "" {
		key, ok := core.ParseMonthKey(month)
		if !ok {
			writeError(w, http.StatusBadRequest, errors.New("invalid month, want YYYY-MM"))
			return
		}
		records = report.FilterByMonth(records, key)
	}

	writeJSON(w, http.StatusOK, recordsToJSON(records))
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromPath(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	var body recordJSON
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	created, err := s.svc.AddRecord(r.Context(), kind, body.toRecord())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	s.invalidateCaches()
	writeJSON(w, http.StatusCreated, recordToJSON(created))
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromPath(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	var body recordJSON
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	body.ID = r.PathValue("id")

	updated, err := s.svc.UpdateRecord(r.Context(), kind, body.toRecord())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	s.invalidateCaches()
	writeJSON(w, http.StatusOK, recordToJSON(updated))
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromPath(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	if err := s.svc.DeleteRecord(r.Context(), kind, r.PathValue("id")); err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	s.invalidateCaches()
	w.WriteHeader(http.StatusNoContent)
}
