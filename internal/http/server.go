// Package http exposes the tracker's JSON API.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"familybudget/internal/cache"
	"familybudget/internal/report"
	"familybudget/internal/services"
)

type Server struct {
	http.Server
	svc         *services.BudgetService
	rateLimiter *rateLimiter
	now         func() time.Time

	// Aggregates are cheap but recomputed on every dashboard paint, so
	// they are cached and cleared on any mutation.
	overviewCache *cache.LRUCache[overviewResponse]
	yearlyCache   *cache.LRUCache[report.YearlyRollup]
	cacheManager  *cache.Manager

	shutdownOnce sync.Once
}

// NewServer wires the routes and returns a ready-to-run server.
func NewServer(addr string, svc *services.BudgetService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		svc:           svc,
		rateLimiter:   newRateLimiter(),
		now:           time.Now,
		overviewCache: cache.NewLRUCache[overviewResponse](100, 5*time.Minute),
		yearlyCache:   cache.NewLRUCache[report.YearlyRollup](20, 5*time.Minute),
		cacheManager:  cache.NewManager(),
	}

	s.cacheManager.Register(s.overviewCache)
	s.cacheManager.Register(s.yearlyCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/records/{kind}", s.withSecurityHeaders(s.handleListRecords))
	mux.HandleFunc("POST /api/records/{kind}", s.withSecurityHeaders(s.handleCreateRecord))
	mux.HandleFunc("PUT /api/records/{kind}/{id}", s.withSecurityHeaders(s.handleUpdateRecord))
	mux.HandleFunc("DELETE /api/records/{kind}/{id}", s.withSecurityHeaders(s.handleDeleteRecord))

	mux.HandleFunc("GET /api/months", s.withSecurityHeaders(s.handleMonths))
	mux.HandleFunc("GET /api/years", s.withSecurityHeaders(s.handleYears))
	mux.HandleFunc("GET /api/overview", s.withSecurityHeaders(s.handleOverview))
	mux.HandleFunc("GET /api/yearly", s.withSecurityHeaders(s.handleYearly))

	mux.HandleFunc("GET /api/goals", s.withSecurityHeaders(s.handleListGoals))
	mux.HandleFunc("POST /api/goals", s.withSecurityHeaders(s.handleCreateGoal))
	mux.HandleFunc("PUT /api/goals/{id}", s.withSecurityHeaders(s.handleUpdateGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", s.withSecurityHeaders(s.handleDeleteGoal))
	mux.HandleFunc("POST /api/goals/{id}/contribute", s.withSecurityHeaders(s.handleContribute))

	mux.HandleFunc("GET /api/categories", s.withSecurityHeaders(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.withSecurityHeaders(s.handleCreateCategory))
	mux.HandleFunc("PUT /api/categories/{id}", s.withSecurityHeaders(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.withSecurityHeaders(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/settings", s.withSecurityHeaders(s.handleGetSettings))
	mux.HandleFunc("PUT /api/settings", s.withSecurityHeaders(s.handlePutSettings))
	mux.HandleFunc("GET /api/theme", s.withSecurityHeaders(s.handleGetTheme))
	mux.HandleFunc("PUT /api/theme", s.withSecurityHeaders(s.handlePutTheme))

	mux.HandleFunc("GET /api/export", s.withSecurityHeaders(s.handleExport))
	mux.HandleFunc("GET /api/export/csv", s.withSecurityHeaders(s.handleExportCSV))
	mux.HandleFunc("POST /api/import", s.withSecurityHeaders(s.handleImport))
	mux.HandleFunc("POST /api/import/csv", s.withSecurityHeaders(s.handleImportCSV))
	mux.HandleFunc("POST /api/reset", s.withSecurityHeaders(s.handleReset))

	return s
}

// invalidateCaches drops every derived aggregate after a mutation.
func (s *Server) invalidateCaches() {
	s.overviewCache.Clear()
	s.yearlyCache.Clear()
}

// Shutdown stops the server and its background routines once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting and request
// logging.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		// Mutations are rate limited; reads are not.
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			if !s.rateLimiter.allow(clientIP) {
				slog.WarnContext(ctx, "Rate limit exceeded",
					"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

// responseWriter captures the status code for request logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
