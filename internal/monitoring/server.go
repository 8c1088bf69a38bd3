// internal/monitoring/server.go
package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/valpere/MovieScrapexter/internal/utils"
)

// Server exposes /metrics and /healthz while a crawl runs.
type Server struct {
	httpServer *http.Server
	logger     utils.Logger
}

// NewServer builds the monitoring HTTP server on the given address.
func NewServer(address string, metrics *Metrics, logger utils.Logger) *Server {
	if logger == nil {
		logger = utils.NewLogger()
	}

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(
		metrics.Registry(),
		promhttp.HandlerOpts{},
	)).Methods(http.MethodGet)
	router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)

	return &Server{
		httpServer: &http.Server{
			Addr:         address,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Handler exposes the router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until Shutdown. It returns when the listener closes.
func (s *Server) Start() error {
	s.logger.Infof("monitoring server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
