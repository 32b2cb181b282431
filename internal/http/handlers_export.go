package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"familybudget/internal/export"
)

// handleExport streams the full backup document as a download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := export.Export(r.Context(), s.svc.Store(), s.now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	filename := fmt.Sprintf("familybudget-backup-%s.json", s.now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	fixed, variable, income, err := s.monthCollections(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	filename := fmt.Sprintf("familybudget-export-%s.csv", s.now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if err := export.WriteCSV(w, fixed, variable, income); err != nil {
		slog.ErrorContext(r.Context(), "Failed to write CSV export", "error", err)
	}
}

// handleImport restores collections from a backup document. Only keys
// present in the document are overwritten; a structurally invalid payload
// leaves the store untouched.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := export.Import(r.Context(), s.svc.Store(), data); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, export.ErrInvalidDocument) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	s.svc.NotifyImported(r.Context())
	s.invalidateCaches()
	w.WriteHeader(http.StatusNoContent)
}

// handleImportCSV validates an uploaded CSV and reports how many rows it
// holds. Rows are not written back; the CSV is an export format.
func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	summary, err := export.ReadCSV(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
