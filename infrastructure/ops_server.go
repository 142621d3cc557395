package infrastructure

import (
	"context"
	"net/http"
	"time"

	"adboard/database"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// OpsServer exposes the health check and Prometheus metrics endpoints
type OpsServer struct {
	server *http.Server
}

// NewOpsServer creates the operational HTTP server
func NewOpsServer(addr string, db *database.DB, natsClient *NATSClient) *OpsServer {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := db.Ping(req.Context()); err != nil {
			log.WithError(err).Warn("Health check failed: database unreachable")
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		if natsClient != nil && !natsClient.IsConnected() {
			http.Error(w, "nats disconnected", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Handle("/metrics", promhttp.Handler())

	return &OpsServer{
		server: &http.Server{
			Addr:    addr,
			Handler: r,
		},
	}
}

// Start serves until Shutdown is called. Blocks; run it in a goroutine.
func (s *OpsServer) Start() error {
	log.WithField("addr", s.server.Addr).Info("Ops server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *OpsServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
