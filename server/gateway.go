package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"settler/resolver"
	"settler/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// resolveSubmitter is the slice of the resolve client the gateway needs.
type resolveSubmitter interface {
	Resolve(ctx context.Context, req resolver.Request) (*resolver.Result, error)
}

// Gateway is the HTTP surface: the REST resolve endpoint the game frontends
// call, the read routes, the JSON-RPC contract mount, and /metrics.
type Gateway struct {
	resolves resolveSubmitter
	stats    service.StatsService
	oracle   service.OracleService
	rpc      *RPCServer
}

// NewGateway creates the HTTP gateway.
func NewGateway(resolves resolveSubmitter, stats service.StatsService, oracle service.OracleService, rpc *RPCServer) *Gateway {
	return &Gateway{
		resolves: resolves,
		stats:    stats,
		oracle:   oracle,
		rpc:      rpc,
	}
}

// Router builds the chi router for the gateway.
func (g *Gateway) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/resolve-game", g.handleResolveGame)
	r.Get("/user-stats", g.handleUserStats)
	r.Get("/pending-bet", g.handlePendingBet)
	r.Get("/house-losses", g.handleHouseLosses)
	r.Get("/oracle-account", g.handleOracleAccount)
	r.Get("/settlement-history", g.handleSettlementHistory)

	r.Handle("/rpc", g.rpc)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

type resolveGameBody struct {
	GameID     string   `json:"gameId"`
	DidWin     *bool    `json:"didWin"`
	Multiplier *float64 `json:"multiplier"`
	GameType   string   `json:"gameType"`
	Player     string   `json:"player"`
	AccountID  string   `json:"accountId"`
}

// handleResolveGame is the REST seam the game frontends post finished games
// to. One endpoint, one resolve pipeline behind it.
func (g *Gateway) handleResolveGame(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var body resolveGameBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeGatewayError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	account := body.AccountID
	if account == "" {
		account = body.Player
	}
	if body.GameID == "" || body.DidWin == nil || body.Multiplier == nil || account == "" {
		writeGatewayError(w, http.StatusBadRequest, "Missing required fields: gameId, didWin, multiplier, player")
		return
	}

	result, err := g.resolves.Resolve(r.Context(), resolver.Request{
		GameID:     body.GameID,
		AccountID:  account,
		DidWin:     *body.DidWin,
		Multiplier: *body.Multiplier,
		GameType:   body.GameType,
		Player:     body.Player,
	})
	if err != nil {
		log.WithFields(log.Fields{
			"gameID":    body.GameID,
			"accountID": account,
		}).WithError(err).Error("Failed to resolve game")
		writeGatewayError(w, http.StatusInternalServerError, err.Error())
		return
	}

	_ = json.NewEncoder(w).Encode(result)
}

func (g *Gateway) handleUserStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		writeGatewayError(w, http.StatusBadRequest, "account_id is required")
		return
	}

	ledger, err := g.stats.GetUserStats(r.Context(), accountID)
	if err != nil {
		writeGatewayError(w, http.StatusInternalServerError, err.Error())
		return
	}

	_ = json.NewEncoder(w).Encode(ledger)
}

func (g *Gateway) handlePendingBet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		writeGatewayError(w, http.StatusBadRequest, "account_id is required")
		return
	}

	bet, err := g.stats.GetPendingBet(r.Context(), accountID)
	if err != nil {
		writeGatewayError(w, http.StatusInternalServerError, err.Error())
		return
	}

	_ = json.NewEncoder(w).Encode(bet)
}

func (g *Gateway) handleHouseLosses(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	losses, err := g.stats.GetContractTotalLosses(r.Context())
	if err != nil {
		writeGatewayError(w, http.StatusInternalServerError, err.Error())
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]int64{"total_losses": losses})
}

func (g *Gateway) handleOracleAccount(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	oracle, err := g.oracle.GetOracleAccount(r.Context())
	if err != nil {
		writeGatewayError(w, http.StatusInternalServerError, err.Error())
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]string{"oracle_account_id": oracle})
}

func (g *Gateway) handleSettlementHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		writeGatewayError(w, http.StatusBadRequest, "account_id is required")
		return
	}

	limit := 50
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed <= 0 {
			writeGatewayError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	records, err := g.stats.GetSettlementHistory(r.Context(), accountID, limit)
	if err != nil {
		writeGatewayError(w, http.StatusInternalServerError, err.Error())
		return
	}

	_ = json.NewEncoder(w).Encode(records)
}

func writeGatewayError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
