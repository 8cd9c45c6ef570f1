package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"laneboard/internal/api"
	"laneboard/internal/config"
	"laneboard/internal/logging"
	"laneboard/internal/metrics"
	"laneboard/internal/services"
)

const maxBodyBytes = 1 << 20

type apiServer struct {
	bind            string
	logger          *slog.Logger
	daemon          *Daemon
	clientSvc       *api.ClientService
	shutdownTimeout time.Duration

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
	errs     chan error
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:            strings.TrimSpace(cfg.API.Bind),
		logger:          logging.NewComponentLogger(logger, "api-server"),
		daemon:          d,
		clientSvc:       api.NewClientService(d.store, d.engine),
		shutdownTimeout: cfg.ShutdownTimeout(),
		errs:            make(chan error, 1),
	}
	srv.server = &http.Server{
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout(),
		WriteTimeout:      cfg.WriteTimeout(),
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *apiServer) routes() http.Handler {
	metrics.Register()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/clients", s.handleListClients)
	mux.HandleFunc("GET /api/v1/clients/{id}", s.handleGetClient)
	mux.HandleFunc("PUT /api/v1/clients/{id}", s.handleMoveClient)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())
	return requestIDMiddleware(accessLogMiddleware(s.logger, mux))
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
			s.errs <- fmt.Errorf("api serve: %w", err)
		}
	}()

	go func() {
		<-ctx.Done()
		s.shutdown()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	s.shutdown()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("api server shutdown incomplete", logging.Error(err))
	}
}

func (s *apiServer) address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleListClients(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	status := strings.TrimSpace(query.Get("status"))
	if query.Has("status") && status == "" {
		s.writeError(w, r, &api.ValidationError{
			Message:     "Invalid status",
			LongMessage: "status must be one of backlog, in-progress, complete",
			Err:         services.ErrInvalidLane,
		})
		return
	}
	if status != "" {
		r = r.WithContext(services.WithLane(r.Context(), status))
	}
	list, err := s.clientSvc.List(r.Context(), status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *apiServer) handleGetClient(w http.ResponseWriter, r *http.Request) {
	client, err := s.clientSvc.Describe(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, client)
}

func (s *apiServer) handleMoveClient(w http.ResponseWriter, r *http.Request) {
	var body api.MoveBody
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, r, &api.ValidationError{
			Message:     "Invalid request body",
			LongMessage: fmt.Sprintf("body must be a JSON object with optional status and priority: %v", err),
			Err:         services.ErrValidation,
		})
		return
	}

	result, err := s.clientSvc.Move(r.Context(), r.PathValue("id"), body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(result.Rejected) > 0 {
		parts := make([]string, 0, len(result.Rejected))
		for _, rejected := range result.Rejected {
			parts = append(parts, string(services.KindOf(rejected)))
		}
		w.Header().Set("X-Laneboard-Ignored", strings.Join(parts, ","))
	}
	s.writeJSON(w, http.StatusOK, result.Clients)
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	health, err := s.daemon.DatabaseHealth(r.Context())
	dto := api.FromHealth(health)
	if err != nil {
		logging.WithContext(r.Context(), s.logger).Warn("health check failed", logging.Error(err))
		dto.Status = "degraded"
		dto.Error = "health check failed"
	}
	status := http.StatusOK
	if dto.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, dto)
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := api.ErrorStatus(err)
	logger := logging.WithContext(r.Context(), s.logger)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", logging.String("path", r.URL.Path), logging.Error(err))
	} else {
		logger.Debug("request rejected", logging.String("path", r.URL.Path), logging.Error(err))
	}
	s.writeJSON(w, status, body)
}
