package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"settler/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type transferParams struct {
	ReceiverID string `json:"receiver_id"`
	Amount     int64  `json:"amount"`
}

// RPCTransferInitiator submits the outbound transfer leg of a withdrawal as a
// JSON-RPC call, falling back across the same endpoint list the resolve
// client uses. The accounting has already been committed by the time this
// runs; a total failure here is surfaced for reconciliation, never rolled
// back into the ledger.
type RPCTransferInitiator struct {
	endpoints       []string
	httpClient      *http.Client
	callerAccountID string
}

// NewRPCTransferInitiator creates a transfer initiator calling as the
// contract's own identity.
func NewRPCTransferInitiator(endpoints []string, callerAccountID string) *RPCTransferInitiator {
	return &RPCTransferInitiator{
		endpoints:       endpoints,
		httpClient:      &http.Client{Timeout: 60 * time.Second},
		callerAccountID: callerAccountID,
	}
}

// InitiateTransfer submits the transfer to the first endpoint that accepts it.
func (t *RPCTransferInitiator) InitiateTransfer(ctx context.Context, accountID string, amount int64) error {
	if len(t.endpoints) == 0 {
		return fmt.Errorf("no transfer endpoints configured")
	}

	var lastErr error
	for _, endpoint := range t.endpoints {
		if err := t.submit(ctx, endpoint, accountID, amount); err != nil {
			lastErr = err
			log.WithFields(log.Fields{
				"endpoint":  endpoint,
				"accountID": accountID,
			}).WithError(err).Warn("Transfer attempt failed, trying next endpoint")
			continue
		}

		log.WithFields(log.Fields{
			"endpoint":  endpoint,
			"accountID": accountID,
			"amount":    amount,
		}).Info("Outbound transfer submitted")
		return nil
	}

	return fmt.Errorf("transfer failed on all endpoints: %w", lastErr)
}

func (t *RPCTransferInitiator) submit(ctx context.Context, endpoint, accountID string, amount int64) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  "transfer",
		Params: transferParams{
			ReceiverID: accountID,
			Amount:     amount,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal transfer request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", endpoint, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Caller-Account", t.callerAccountID)

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", models.ErrEndpointUnavailable, endpoint, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: HTTP %d", models.ErrEndpointUnavailable, endpoint, httpResp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("failed to decode transfer response from %s: %w", endpoint, err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("transfer rejected by %s: %s", endpoint, rpcResp.Error.Message)
	}

	return nil
}
