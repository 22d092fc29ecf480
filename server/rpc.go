package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"settler/models"
	"settler/service"

	log "github.com/sirupsen/logrus"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeUnauthorized   = -32001
	codeServerError    = -32000
)

// RPCRequest is a JSON-RPC 2.0 request with object params.
type RPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      interface{}     `json:"id"`
}

// RPCResponse is a JSON-RPC 2.0 response.
type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

// RPCError carries a JSON-RPC error object.
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// RPCServer exposes the contract-call surface over JSON-RPC.
type RPCServer struct {
	escrow      service.EscrowService
	settlements service.SettlementService
	withdrawals service.WithdrawalService
	oracle      service.OracleService
	stats       service.StatsService
}

// NewRPCServer creates the JSON-RPC contract surface.
func NewRPCServer(
	escrow service.EscrowService,
	settlements service.SettlementService,
	withdrawals service.WithdrawalService,
	oracle service.OracleService,
	stats service.StatsService,
) *RPCServer {
	return &RPCServer{
		escrow:      escrow,
		settlements: settlements,
		withdrawals: withdrawals,
		oracle:      oracle,
		stats:       stats,
	}
}

func writeRPCError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeRPCResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

// ServeHTTP routes a JSON-RPC request to its method handler.
func (s *RPCServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	defer reader.Close()

	w.Header().Set("Content-Type", "application/json")

	body, err := io.ReadAll(reader)
	if err != nil {
		writeRPCError(w, http.StatusBadRequest, nil, codeInvalidRequest, "failed to read request body", err.Error())
		return
	}

	req := &RPCRequest{}
	if err := json.Unmarshal(body, req); err != nil {
		writeRPCError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON payload", err.Error())
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeRPCError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "unsupported jsonrpc version", req.JSONRPC)
		return
	}

	switch req.Method {
	case "open_bet":
		s.handleOpenBet(w, r, req)
	case "resolve_game":
		s.handleResolveGame(w, r, req)
	case "withdraw":
		s.handleWithdraw(w, r, req)
	case "set_oracle_account":
		s.handleSetOracleAccount(w, r, req)
	case "get_user_stats":
		s.handleGetUserStats(w, r, req)
	case "get_pending_bet":
		s.handleGetPendingBet(w, r, req)
	case "get_contract_total_losses":
		s.handleGetContractTotalLosses(w, r, req)
	case "get_oracle_account":
		s.handleGetOracleAccount(w, r, req)
	case "get_total_users":
		s.handleGetTotalUsers(w, r, req)
	default:
		writeRPCError(w, http.StatusNotFound, req.ID, codeMethodNotFound, fmt.Sprintf("unknown method %q", req.Method), nil)
	}
}

// writeDomainError maps the settlement error taxonomy onto RPC errors.
func writeDomainError(w http.ResponseWriter, id interface{}, err error) {
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		writeRPCError(w, http.StatusForbidden, id, codeUnauthorized, err.Error(), nil)
	case errors.Is(err, models.ErrInvalidDeposit),
		errors.Is(err, models.ErrDuplicatePendingBet),
		errors.Is(err, models.ErrNoPendingBet),
		errors.Is(err, models.ErrNothingToWithdraw):
		writeRPCError(w, http.StatusBadRequest, id, codeServerError, err.Error(), nil)
	default:
		log.WithError(err).Error("Contract call failed")
		writeRPCError(w, http.StatusInternalServerError, id, codeServerError, "internal error", nil)
	}
}

type openBetParams struct {
	AccountID string `json:"account_id"`
	GameID    string `json:"game_id"`
	Deposit   int64  `json:"deposit"`
}

func (s *RPCServer) handleOpenBet(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params openBetParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		writeRPCError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid open_bet params", err.Error())
		return
	}

	bet, err := s.escrow.OpenBet(r.Context(), params.AccountID, params.GameID, params.Deposit)
	if err != nil {
		writeDomainError(w, req.ID, err)
		return
	}

	writeRPCResult(w, req.ID, bet)
}

type resolveGameParams struct {
	CallerID   string `json:"caller_id"`
	AccountID  string `json:"account_id"`
	GameID     string `json:"game_id"`
	Won        bool   `json:"won"`
	Multiplier int64  `json:"multiplier"`
}

// handleResolveGame settles a bet. When the caller is the target (or no
// target is given) it is a self-resolve; otherwise the caller must be the
// oracle identity.
func (s *RPCServer) handleResolveGame(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params resolveGameParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		writeRPCError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid resolve_game params", err.Error())
		return
	}

	caller := callerIdentity(r, params.CallerID)
	if caller == "" {
		writeRPCError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "caller identity required", nil)
		return
	}

	outcome := models.Outcome{Won: params.Won, Multiplier: params.Multiplier}

	var settlement *models.Settlement
	var err error
	if params.AccountID == "" || params.AccountID == caller {
		settlement, err = s.settlements.Resolve(r.Context(), caller, outcome)
	} else {
		settlement, err = s.settlements.ResolveForAccount(r.Context(), caller, params.AccountID, outcome)
	}
	if err != nil {
		writeDomainError(w, req.ID, err)
		return
	}

	writeRPCResult(w, req.ID, settlement)
}

type accountParams struct {
	AccountID string `json:"account_id"`
}

func (s *RPCServer) handleWithdraw(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params accountParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		writeRPCError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid withdraw params", err.Error())
		return
	}

	caller := callerIdentity(r, params.AccountID)
	if caller == "" {
		writeRPCError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "caller identity required", nil)
		return
	}

	withdrawal, err := s.withdrawals.Withdraw(r.Context(), caller)
	if err != nil {
		writeDomainError(w, req.ID, err)
		return
	}

	writeRPCResult(w, req.ID, withdrawal)
}

type setOracleParams struct {
	CallerID        string `json:"caller_id"`
	OracleAccountID string `json:"oracle_account_id"`
}

func (s *RPCServer) handleSetOracleAccount(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params setOracleParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		writeRPCError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid set_oracle_account params", err.Error())
		return
	}

	caller := callerIdentity(r, params.CallerID)
	if err := s.oracle.SetOracleAccount(r.Context(), caller, params.OracleAccountID); err != nil {
		writeDomainError(w, req.ID, err)
		return
	}

	writeRPCResult(w, req.ID, map[string]string{"oracle_account_id": params.OracleAccountID})
}

func (s *RPCServer) handleGetUserStats(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params accountParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		writeRPCError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid get_user_stats params", err.Error())
		return
	}

	ledger, err := s.stats.GetUserStats(r.Context(), params.AccountID)
	if err != nil {
		writeDomainError(w, req.ID, err)
		return
	}

	writeRPCResult(w, req.ID, ledger)
}

func (s *RPCServer) handleGetPendingBet(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params accountParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		writeRPCError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid get_pending_bet params", err.Error())
		return
	}

	bet, err := s.stats.GetPendingBet(r.Context(), params.AccountID)
	if err != nil {
		writeDomainError(w, req.ID, err)
		return
	}

	writeRPCResult(w, req.ID, bet)
}

func (s *RPCServer) handleGetContractTotalLosses(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	losses, err := s.stats.GetContractTotalLosses(r.Context())
	if err != nil {
		writeDomainError(w, req.ID, err)
		return
	}

	writeRPCResult(w, req.ID, map[string]int64{"total_losses": losses})
}

func (s *RPCServer) handleGetOracleAccount(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	oracle, err := s.oracle.GetOracleAccount(r.Context())
	if err != nil {
		writeDomainError(w, req.ID, err)
		return
	}

	writeRPCResult(w, req.ID, map[string]string{"oracle_account_id": oracle})
}

func (s *RPCServer) handleGetTotalUsers(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	total, err := s.stats.GetTotalUsers(r.Context())
	if err != nil {
		writeDomainError(w, req.ID, err)
		return
	}

	writeRPCResult(w, req.ID, map[string]int64{"total_users": total})
}

// callerIdentity prefers the explicit param and falls back to the
// X-Caller-Account header the resolve transport sets. Signature verification
// is the wallet layer's job, upstream of this service.
func callerIdentity(r *http.Request, param string) string {
	if param != "" {
		return param
	}
	return r.Header.Get("X-Caller-Account")
}
