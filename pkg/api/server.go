// Package api exposes the admission gate over HTTP and WebSocket.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/uhyunpark/ordergate/pkg/app/core/market"
	"github.com/uhyunpark/ordergate/pkg/app/core/orderstate"
	"github.com/uhyunpark/ordergate/pkg/app/gate"
	"github.com/uhyunpark/ordergate/pkg/crypto"
)

const (
	defaultDecisionLimit = 50
	maxDecisionLimit     = 500
)

// Store persists admin changes and serves the decision log. May be nil.
type Store interface {
	SaveMarket(market.Market) error
	SaveOrderState(orderstate.OrderState) error
	LoadRecentDecisions(symbol string, limit int) ([]gate.Decision, error)
}

// Server handles REST API and WebSocket connections
type Server struct {
	gate     *gate.Gate
	registry *market.MarketRegistry
	store    Store
	router   *mux.Router
	hub      *Hub
	log      *zap.Logger
}

// NewServer creates a new API server and subscribes it to the gate's
// decisions.
func NewServer(g *gate.Gate, registry *market.MarketRegistry, store Store, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		gate:     g,
		registry: registry,
		store:    store,
		router:   mux.NewRouter(),
		log:      log.Named("api"),
	}
	s.hub = NewHub(s.log)

	s.setupRoutes()
	g.Subscribe(s)
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	// Market endpoints
	api.HandleFunc("/markets", s.handleGetMarkets).Methods("GET")
	api.HandleFunc("/markets/{symbol}", s.handleGetMarket).Methods("GET")
	api.HandleFunc("/markets/{symbol}", s.handleUpsertMarket).Methods("PUT")
	api.HandleFunc("/markets/{symbol}/decisions", s.handleGetDecisions).Methods("GET")

	// Policy endpoints
	api.HandleFunc("/order-state", s.handleGetOrderState).Methods("GET")
	api.HandleFunc("/order-state", s.handleUpdateOrderState).Methods("PUT")

	// Admission
	api.HandleFunc("/orders/validate", s.handleValidateOrder).Methods("POST")
	api.HandleFunc("/stats", s.handleGetStats).Methods("GET")

	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the router wrapped in CORS for the given origins.
func (s *Server) Handler(allowedOrigins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(s.router)
}

// Start serves on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string, allowedOrigins []string) error {
	go s.hub.Run(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(allowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server_starting", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("server_stopping")
		return srv.Shutdown(shutdownCtx)
	}
}

// OnDecision forwards a decision to WebSocket subscribers.
func (s *Server) OnDecision(d gate.Decision) {
	s.hub.BroadcastToChannel("decisions", DecisionUpdate{Type: "decision", Channel: "decisions", Decision: d})
	ch := "decisions:" + d.Symbol
	s.hub.BroadcastToChannel(ch, DecisionUpdate{Type: "decision", Channel: ch, Decision: d})
}

// ==============================
// REST Handlers
// ==============================

func (s *Server) handleGetMarkets(w http.ResponseWriter, r *http.Request) {
	markets := s.registry.ListMarkets()

	response := make([]MarketInfo, len(markets))
	for i, m := range markets {
		response[i] = toMarketInfo(m)
	}

	respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleGetMarket(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	m, err := s.registry.GetMarket(symbol)
	if err != nil {
		respondError(w, http.StatusNotFound, "market not found", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, toMarketInfo(m))
}

func (s *Server) handleUpsertMarket(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	var req UpsertMarketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	m := req.toMarket(symbol)
	if err := m.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid market", err.Error())
		return
	}

	if err := s.registry.UpsertMarket(&m); err != nil {
		if errors.Is(err, market.ErrMarketSettled) {
			respondError(w, http.StatusConflict, "market settled", err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, "invalid market", err.Error())
		return
	}

	if s.store != nil {
		if err := s.store.SaveMarket(m); err != nil {
			s.log.Error("market_persist_failed", zap.String("symbol", symbol), zap.Error(err))
			respondError(w, http.StatusInternalServerError, "failed to persist market", err.Error())
			return
		}
	}

	s.log.Info("market_upserted",
		zap.String("symbol", m.Symbol),
		zap.Stringer("status", m.Status),
		zap.Stringer("peg_multiplier", m.AMM.PegMultiplier))
	respondJSON(w, http.StatusOK, toMarketInfo(m))
}

func (s *Server) handleGetDecisions(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "decision log disabled", "")
		return
	}

	limit := defaultDecisionLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid limit", v)
			return
		}
		limit = min(n, maxDecisionLimit)
	}

	decisions, err := s.store.LoadRecentDecisions(symbol, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load decisions", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, decisions)
}

func (s *Server) handleGetOrderState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toOrderStateInfo(s.gate.OrderState()))
}

func (s *Server) handleUpdateOrderState(w http.ResponseWriter, r *http.Request) {
	var req UpdateOrderStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	st, err := orderstate.New(req.MinOrderQuoteAssetAmount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order state", err.Error())
		return
	}

	if s.store != nil {
		if err := s.store.SaveOrderState(st); err != nil {
			s.log.Error("order_state_persist_failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "failed to persist order state", err.Error())
			return
		}
	}

	if err := s.gate.SetOrderState(st); err != nil {
		respondError(w, http.StatusBadRequest, "invalid order state", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, toOrderStateInfo(st))
}

func (s *Server) handleValidateOrder(w http.ResponseWriter, r *http.Request) {
	var req ValidateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	var sig []byte
	if req.Signature != "" {
		var err error
		if sig, err = crypto.DecodeSignature(req.Signature); err != nil {
			respondError(w, http.StatusBadRequest, "invalid signature encoding", err.Error())
			return
		}
	}

	d, err := s.gate.Admit(r.Context(), gate.Request{Order: req.Order, Signature: sig})
	if err != nil {
		switch {
		case errors.Is(err, gate.ErrMarketNotFound):
			respondError(w, http.StatusNotFound, "market not found", err.Error())
		case errors.Is(err, gate.ErrMarketNotActive):
			respondError(w, http.StatusConflict, "market not active", err.Error())
		case errors.Is(err, gate.ErrBadSignature):
			respondError(w, http.StatusUnauthorized, "bad signature", err.Error())
		default:
			s.log.Error("admission_failed",
				zap.String("symbol", req.Order.Symbol),
				zap.String("order_id", req.Order.ID),
				zap.Error(err))
			respondError(w, http.StatusInternalServerError, "admission failed", err.Error())
		}
		return
	}

	status := http.StatusOK
	if !d.Accepted {
		status = http.StatusUnprocessableEntity
	}
	respondJSON(w, status, d)
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.gate.Stats())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ==============================
// Helper Functions
// ==============================

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, error string, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   error,
		Message: message,
	})
}
