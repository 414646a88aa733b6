package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Aryan-Kanada/FSMFINAL/internal/config"
	"github.com/Aryan-Kanada/FSMFINAL/internal/logging"
	"github.com/Aryan-Kanada/FSMFINAL/internal/queue"
)

type apiServer struct {
	bind   string
	token  string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) *apiServer {
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil
	}

	srv := &apiServer{
		bind:   bind,
		token:  strings.TrimSpace(cfg.Paths.APIToken),
		logger: logging.NewComponentLogger(logger, "api-server"),
		daemon: d,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", srv.handleHealth)
	mux.HandleFunc("/api/status", authMiddleware(srv.token, srv.handleStatus))
	mux.HandleFunc("/api/positions", authMiddleware(srv.token, srv.handlePositions))
	mux.HandleFunc("/api/tasks", authMiddleware(srv.token, srv.handleTasks))
	mux.HandleFunc("/api/find", authMiddleware(srv.token, srv.handleFind))
	mux.HandleFunc("/api/history", authMiddleware(srv.token, srv.handleHistory))
	mux.HandleFunc("/api/store", authMiddleware(srv.token, srv.handleStore))
	mux.HandleFunc("/api/retrieve", authMiddleware(srv.token, srv.handleRetrieve))
	mux.HandleFunc("/api/refresh", authMiddleware(srv.token, srv.handleRefresh))

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"system": string(s.daemon.sup.Status()),
	})
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, s.daemon.Status())
}

func (s *apiServer) handlePositions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, s.daemon.Positions())
}

func (s *apiServer) handleTasks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, s.daemon.Tasks())
}

func (s *apiServer) handleFind(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	productID := strings.TrimSpace(r.URL.Query().Get("product"))
	if productID == "" {
		s.writeError(w, http.StatusBadRequest, "product query parameter is required")
		return
	}
	s.writeJSON(w, http.StatusOK, s.daemon.Find(productID))
}

func (s *apiServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, s.daemon.History())
}

type storeRequest struct {
	ProductID string `json:"product_id"`
	Position  int    `json:"position"`
}

func (s *apiServer) handleStore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req storeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	task, err := s.daemon.SubmitStore(req.ProductID, req.Position)
	if err != nil {
		s.writeSubmitError(w, err)
		return
	}
	s.writeAccepted(w, task, "store task queued")
}

type retrieveRequest struct {
	Position int `json:"position"`
}

func (s *apiServer) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req retrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	task, err := s.daemon.SubmitRetrieve(req.Position)
	if err != nil {
		s.writeSubmitError(w, err)
		return
	}
	s.writeAccepted(w, task, "retrieve task queued")
}

func (s *apiServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	task, err := s.daemon.SubmitRefresh()
	if err != nil {
		s.writeSubmitError(w, err)
		return
	}
	s.writeAccepted(w, task, "refresh task queued")
}

func (s *apiServer) writeAccepted(w http.ResponseWriter, task *queue.Task, message string) {
	s.writeJSON(w, http.StatusAccepted, map[string]any{
		"task_id":  task.ID,
		"position": task.TargetPosition,
		"message":  message,
	})
}

// writeSubmitError maps queue rejection classes onto HTTP statuses.
func (s *apiServer) writeSubmitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, queue.ErrNotAccepting):
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, queue.ErrConflict):
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, queue.ErrValidation):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode api response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
