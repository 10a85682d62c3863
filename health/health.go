// Package health serves the liveness endpoint the deployment platform
// polls to keep the process alive.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Status is the JSON body of GET /health.
type Status struct {
	Status        string `json:"status"`
	Checks        int    `json:"checks"`
	LastCheck     string `json:"last_check"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// Server exposes /health and /ping. The poller updates the check
// counters through Checked.
type Server struct {
	mu        sync.Mutex
	checks    int
	lastCheck time.Time
	started   time.Time

	httpSrv *http.Server
}

func NewServer(port int) *Server {
	s := &Server{started: time.Now()}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleHealth).Methods("GET")
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/ping", s.handlePing).Methods("GET")

	s.httpSrv = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}
	return s
}

// Checked records one completed poll cycle.
func (s *Server) Checked() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks++
	s.lastCheck = time.Now()
}

func (s *Server) snapshot() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	last := "N/A"
	if !s.lastCheck.IsZero() {
		last = s.lastCheck.UTC().Format(time.RFC3339)
	}

	return Status{
		Status:        "healthy",
		Checks:        s.checks,
		LastCheck:     last,
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.snapshot()); err != nil {
		log.WithError(err).Error("encode health response")
	}
}

func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprint(w, "pong")
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	log.WithField("addr", s.httpSrv.Addr).Info("health server listening")

	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}
