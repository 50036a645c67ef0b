package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Reddjoseph/DEMOHZK/internal/observability"
	"github.com/Reddjoseph/DEMOHZK/internal/staking"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Bind  string
	Port  int
	Debug bool
}

// Server serves the dashboard API.
type Server struct {
	router  *chi.Mux
	service *Service
	logger  *slog.Logger
	srv     *http.Server
}

// NewServer creates the HTTP server over a dashboard service.
func NewServer(cfg ServerConfig, service *Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		router:  chi.NewRouter(),
		service: service,
		logger:  logger,
	}
	s.setupRoutes(cfg.Debug)

	s.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Bind, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes(debug bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/pool", s.handlePool)
		r.Get("/position", s.handlePosition)
		r.Get("/balance", s.handleBalance)
		r.Get("/history", s.handleHistory)
		r.Post("/stake", s.handleStake)
		r.Post("/unstake", s.handleUnstake)
		r.Post("/claim", s.handleClaim)
		r.Post("/refresh", s.handleRefresh)
		if debug {
			r.Get("/debug/position", s.handleDebugPosition)
			r.Get("/debug/pool", s.handleDebugPool)
		}
	})

	s.router.Handle("/metrics", observability.Handler())
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	s.logger.Info("dashboard listening", "addr", s.srv.Addr)
	return s.srv.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.service.Snapshot())
}

func (s *Server) handlePool(w http.ResponseWriter, r *http.Request) {
	pool := s.service.Pool()
	if pool == nil {
		s.writeError(w, http.StatusNotFound, "pool not loaded")
		return
	}
	s.writeJSON(w, http.StatusOK, pool)
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	pos := s.service.Position()
	if pos == nil || pos.Record == nil {
		s.writeJSON(w, http.StatusOK, map[string]any{"staked": false})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"staked":  true,
		"address": pos.Address.String(),
		"record":  pos.Record,
	})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	snap := s.service.Snapshot()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"balance":        snap.Balance,
		"staked":         snap.Staked,
		"pendingRewards": snap.PendingRewards,
		"stakeMax":       staking.FloorTo4(snap.Balance),
		"stakeStep":      staking.Step(snap.Balance),
		"unstakeMax":     staking.FloorTo4(snap.Staked),
		"unstakeStep":    staking.Step(snap.Staked),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.service.Activity().Entries())
}

// amountRequest is the body of stake and unstake calls.
type amountRequest struct {
	Amount float64 `json:"amount"`
}

func (s *Server) handleStake(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.service.Stake(r.Context(), req.Amount); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, s.service.Snapshot())
}

func (s *Server) handleUnstake(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.service.Unstake(r.Context(), req.Amount); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, s.service.Snapshot())
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Claim(r.Context()); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, s.service.Snapshot())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.service.RefreshAll(r.Context())
	s.writeJSON(w, http.StatusOK, s.service.Snapshot())
}

// handleDebugPosition dumps the raw decoded position, only wired when the
// debug flag is set.
func (s *Server) handleDebugPosition(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"position": s.service.Position(),
		"pool":     s.service.Pool(),
	})
}

// handleDebugPool exposes both pool decodes side by side so a layout drift
// shows up as a field-level diff.
func (s *Server) handleDebugPool(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"manual": s.service.Pool(),
		"schema": s.service.SchemaPool(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("write response failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
