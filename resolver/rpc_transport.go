package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"settler/models"
	"settler/money"

	"github.com/google/uuid"
)

// resolve params as the contract expects them: the multiplier travels in
// hundredths so the payout math is integer end to end.
type resolveParams struct {
	AccountID  string `json:"account_id"`
	GameID     string `json:"game_id"`
	Won        bool   `json:"won"`
	Multiplier int64  `json:"multiplier"`
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type resolveAck struct {
	TransactionHash string `json:"transactionHash"`
}

// RPCTransport submits resolve calls as structured JSON-RPC requests. This is
// the shipped replacement for the original CLI shell-out and output scraping.
type RPCTransport struct {
	httpClient      *http.Client
	callerAccountID string
	signingKey      string
}

// NewRPCTransport creates a JSON-RPC resolve transport signing off as the
// given resolver identity. signingKey may be empty for unauthenticated
// endpoints.
func NewRPCTransport(callerAccountID, signingKey string) *RPCTransport {
	return &RPCTransport{
		httpClient:      &http.Client{Timeout: 60 * time.Second},
		callerAccountID: callerAccountID,
		signingKey:      signingKey,
	}
}

// Submit posts a resolve_game call to one endpoint and classifies the answer.
func (t *RPCTransport) Submit(ctx context.Context, endpoint string, req Request) (*Response, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  "resolve_game",
		Params: resolveParams{
			AccountID:  req.AccountID,
			GameID:     req.GameID,
			Won:        req.DidWin,
			Multiplier: money.MultiplierFromFloat(req.Multiplier),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resolve request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", endpoint, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Caller-Account", t.callerAccountID)
	if t.signingKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+t.signingKey)
	}

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrEndpointUnavailable, endpoint, err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: reading response: %v", models.ErrEndpointUnavailable, endpoint, err)
	}

	if httpResp.StatusCode == http.StatusTooManyRequests {
		return &Response{Status: StatusRateLimited, Raw: string(raw)}, nil
	}
	if httpResp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: %s: HTTP %d", models.ErrEndpointUnavailable, endpoint, httpResp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(raw, &rpcResp); err != nil {
		return &Response{Status: StatusUnknown, Raw: string(raw)}, nil
	}

	if rpcResp.Error != nil {
		return classifyError(rpcResp.Error.Message, string(raw)), nil
	}

	var ack resolveAck
	if len(rpcResp.Result) > 0 {
		if err := json.Unmarshal(rpcResp.Result, &ack); err != nil {
			return &Response{Status: StatusUnknown, Raw: string(raw)}, nil
		}
		return &Response{Status: StatusAccepted, TransactionHash: ack.TransactionHash, Raw: string(raw)}, nil
	}

	return &Response{Status: StatusUnknown, Raw: string(raw)}, nil
}

// classifyError maps a contract error message onto a response status. The
// benign-duplicate phrasings come from the contract itself.
func classifyError(message, raw string) *Response {
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "already resolved"),
		strings.Contains(lower, "no pending bet"):
		return &Response{Status: StatusAlreadySettled, Message: message, Raw: raw}
	case strings.Contains(lower, "rate limit"),
		strings.Contains(lower, "exceeded the quota"):
		return &Response{Status: StatusRateLimited, Message: message, Raw: raw}
	case strings.Contains(lower, "unauthorized"),
		strings.Contains(lower, "deposit"),
		strings.Contains(lower, "invalid"):
		return &Response{Status: StatusRejected, Message: message, Raw: raw}
	default:
		return &Response{Status: StatusUnknown, Message: message, Raw: raw}
	}
}
