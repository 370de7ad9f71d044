package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/glazeddonut/Tennis-Monitor/internal/config"
	"github.com/glazeddonut/Tennis-Monitor/internal/models"
	"github.com/glazeddonut/Tennis-Monitor/internal/monitor"
)

// Server is the thin dashboard facade. It only enqueues booking
// commands and reads the status snapshot; it never touches the browser
// session, which belongs to the monitor loop alone.
type Server struct {
	monitor *monitor.Monitor
	token   string
	srv     *http.Server
}

// New builds the HTTP server with its routes.
func New(m *monitor.Monitor, cfg config.APIConfig) *Server {
	s := &Server{monitor: m, token: cfg.Token}

	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(s.authMiddleware)
	apiRouter.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	apiRouter.HandleFunc("/monitor/book", s.handleBook).Methods(http.MethodPost)
	apiRouter.HandleFunc("/monitor/stop", s.handleStop).Methods(http.MethodPost)

	s.srv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Start runs the server in the background.
func (s *Server) Start() {
	go func() {
		log.Printf("API server listening on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("⚠️ API server error: %v", err)
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// authMiddleware checks the X-Token header against the configured API
// token. With no token configured the API is open (local setups).
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" && r.Header.Get("X-Token") != s.token {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "invalid API key"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "healthy",
		"timestamp":       time.Now().Format(time.RFC3339),
		"monitor_running": s.monitor.Status().IsRunning,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.monitor.Status())
}

type bookingResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// handleBook queues a booking request for the monitor loop. The booking
// itself happens during the next cycle, on the goroutine that owns the
// browser.
func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	var req models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, bookingResponse{Message: "invalid request body"})
		return
	}
	if req.CourtName == "" || req.TimeSlot == "" {
		writeJSON(w, http.StatusBadRequest, bookingResponse{Message: "court_name and time_slot are required"})
		return
	}

	s.monitor.EnqueueBooking(req)
	writeJSON(w, http.StatusOK, bookingResponse{
		Success: true,
		Message: fmt.Sprintf("Booking queued for %s at %s - will be processed next check", req.CourtName, req.TimeSlot),
	})
}

// handleStop asks the monitor loop to shut down gracefully. The process
// exits once the current cycle finishes; there is no in-process restart.
func (s *Server) handleStop(w http.ResponseWriter, _ *http.Request) {
	s.monitor.Stop()
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Monitor stopping after the current cycle",
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, dashboardHTML)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️ failed to encode response: %v", err)
	}
}
