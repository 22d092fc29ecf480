package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"settler/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRPCServer() (*RPCServer, *mockEscrowService, *mockSettlementService, *mockWithdrawalService, *mockOracleService, *mockStatsService) {
	escrow := new(mockEscrowService)
	settlements := new(mockSettlementService)
	withdrawals := new(mockWithdrawalService)
	oracle := new(mockOracleService)
	stats := new(mockStatsService)
	return NewRPCServer(escrow, settlements, withdrawals, oracle, stats), escrow, settlements, withdrawals, oracle, stats
}

func callRPC(t *testing.T, s *RPCServer, body string) (*httptest.ResponseRecorder, RPCResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/rpc", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var resp RPCResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestRPCServer_OpenBet(t *testing.T) {
	s, escrow, _, _, _, _ := newTestRPCServer()

	escrow.On("OpenBet", mock.Anything, "alice.testnet", "mines-42", int64(1_000_000)).
		Return(&models.PendingBet{AccountID: "alice.testnet", GameID: "mines-42", Amount: 1_000_000}, nil)

	rec, resp := callRPC(t, s, `{"jsonrpc":"2.0","id":1,"method":"open_bet","params":{"account_id":"alice.testnet","game_id":"mines-42","deposit":1000000}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, resp.Error)
	escrow.AssertExpectations(t)
}

func TestRPCServer_OpenBet_DomainError(t *testing.T) {
	s, escrow, _, _, _, _ := newTestRPCServer()

	escrow.On("OpenBet", mock.Anything, "alice.testnet", "mines-42", int64(0)).
		Return(nil, models.ErrInvalidDeposit)

	rec, resp := callRPC(t, s, `{"jsonrpc":"2.0","id":1,"method":"open_bet","params":{"account_id":"alice.testnet","game_id":"mines-42","deposit":0}}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeServerError, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "deposit")
}

func TestRPCServer_ResolveGame_Self(t *testing.T) {
	s, _, settlements, _, _, _ := newTestRPCServer()

	settlements.On("Resolve", mock.Anything, "alice.testnet", models.Outcome{Won: true, Multiplier: 250}).
		Return(&models.Settlement{AccountID: "alice.testnet", GameID: "mines-42", Won: true, Winnings: 2_500_000}, nil)

	rec, resp := callRPC(t, s, `{"jsonrpc":"2.0","id":2,"method":"resolve_game","params":{"caller_id":"alice.testnet","won":true,"multiplier":250}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, resp.Error)
	settlements.AssertExpectations(t)
	settlements.AssertNotCalled(t, "ResolveForAccount")
}

func TestRPCServer_ResolveGame_Oracle(t *testing.T) {
	s, _, settlements, _, _, _ := newTestRPCServer()

	settlements.On("ResolveForAccount", mock.Anything, "oracle.testnet", "alice.testnet", models.Outcome{Won: false}).
		Return(&models.Settlement{AccountID: "alice.testnet", Won: false}, nil)

	rec, resp := callRPC(t, s, `{"jsonrpc":"2.0","id":3,"method":"resolve_game","params":{"caller_id":"oracle.testnet","account_id":"alice.testnet","won":false,"multiplier":0}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, resp.Error)
	settlements.AssertExpectations(t)
}

func TestRPCServer_ResolveGame_CallerFromHeader(t *testing.T) {
	s, _, settlements, _, _, _ := newTestRPCServer()

	settlements.On("ResolveForAccount", mock.Anything, "resolver-v0.testnet", "alice.testnet", mock.Anything).
		Return(&models.Settlement{AccountID: "alice.testnet", Won: true, Winnings: 100}, nil)

	body := `{"jsonrpc":"2.0","id":4,"method":"resolve_game","params":{"account_id":"alice.testnet","won":true,"multiplier":100}}`
	req := httptest.NewRequest(http.MethodPost, "/rpc", strings.NewReader(body))
	req.Header.Set("X-Caller-Account", "resolver-v0.testnet")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	settlements.AssertExpectations(t)
}

func TestRPCServer_ResolveGame_Unauthorized(t *testing.T) {
	s, _, settlements, _, _, _ := newTestRPCServer()

	settlements.On("ResolveForAccount", mock.Anything, "mallory.testnet", "alice.testnet", mock.Anything).
		Return(nil, models.ErrUnauthorized)

	rec, resp := callRPC(t, s, `{"jsonrpc":"2.0","id":5,"method":"resolve_game","params":{"caller_id":"mallory.testnet","account_id":"alice.testnet","won":true,"multiplier":9900}}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeUnauthorized, resp.Error.Code)
}

func TestRPCServer_Withdraw(t *testing.T) {
	s, _, _, withdrawals, _, _ := newTestRPCServer()

	withdrawals.On("Withdraw", mock.Anything, "alice.testnet").
		Return(&models.Withdrawal{AccountID: "alice.testnet", Amount: 2_500_000}, nil)

	rec, resp := callRPC(t, s, `{"jsonrpc":"2.0","id":6,"method":"withdraw","params":{"account_id":"alice.testnet"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, resp.Error)
	withdrawals.AssertExpectations(t)
}

func TestRPCServer_Withdraw_NothingToWithdraw(t *testing.T) {
	s, _, _, withdrawals, _, _ := newTestRPCServer()

	withdrawals.On("Withdraw", mock.Anything, "alice.testnet").
		Return(nil, models.ErrNothingToWithdraw)

	rec, resp := callRPC(t, s, `{"jsonrpc":"2.0","id":7,"method":"withdraw","params":{"account_id":"alice.testnet"}}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
}

func TestRPCServer_SetOracleAccount(t *testing.T) {
	s, _, _, _, oracle, _ := newTestRPCServer()

	oracle.On("SetOracleAccount", mock.Anything, "game-v0.testnet", "resolver-v1.testnet").Return(nil)

	rec, resp := callRPC(t, s, `{"jsonrpc":"2.0","id":8,"method":"set_oracle_account","params":{"caller_id":"game-v0.testnet","oracle_account_id":"resolver-v1.testnet"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, resp.Error)
	oracle.AssertExpectations(t)
}

func TestRPCServer_ReadMethods(t *testing.T) {
	s, _, _, _, oracle, stats := newTestRPCServer()

	stats.On("GetUserStats", mock.Anything, "alice.testnet").
		Return(&models.Ledger{AccountID: "alice.testnet", TotalWon: 42}, nil)
	stats.On("GetPendingBet", mock.Anything, "alice.testnet").Return(nil, nil)
	stats.On("GetContractTotalLosses", mock.Anything).Return(int64(9_000), nil)
	stats.On("GetTotalUsers", mock.Anything).Return(int64(7), nil)
	oracle.On("GetOracleAccount", mock.Anything).Return("oracle.testnet", nil)

	rec, resp := callRPC(t, s, `{"jsonrpc":"2.0","id":9,"method":"get_user_stats","params":{"account_id":"alice.testnet"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, resp.Error)

	rec, resp = callRPC(t, s, `{"jsonrpc":"2.0","id":10,"method":"get_pending_bet","params":{"account_id":"alice.testnet"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, resp.Error)

	rec, resp = callRPC(t, s, `{"jsonrpc":"2.0","id":11,"method":"get_contract_total_losses","params":{}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, resp.Error)

	rec, resp = callRPC(t, s, `{"jsonrpc":"2.0","id":12,"method":"get_oracle_account","params":{}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, resp.Error)

	rec, resp = callRPC(t, s, `{"jsonrpc":"2.0","id":13,"method":"get_total_users","params":{}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, resp.Error)
}

func TestRPCServer_UnknownMethod(t *testing.T) {
	s, _, _, _, _, _ := newTestRPCServer()

	rec, resp := callRPC(t, s, `{"jsonrpc":"2.0","id":14,"method":"mint_tokens","params":{}}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeMethodNotFound, resp.Error.Code)
}

func TestRPCServer_MalformedBody(t *testing.T) {
	s, _, _, _, _, _ := newTestRPCServer()

	rec, resp := callRPC(t, s, `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeParseError, resp.Error.Code)
}
