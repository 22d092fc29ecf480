package resolver

import (
	"context"
	"fmt"
	"testing"
	"time"

	"settler/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedTransport answers each endpoint from a fixed script and records the
// order endpoints were tried in.
type scriptedTransport struct {
	responses map[string]*Response
	errors    map[string]error
	attempts  []string
}

func (t *scriptedTransport) Submit(ctx context.Context, endpoint string, req Request) (*Response, error) {
	t.attempts = append(t.attempts, endpoint)
	if err, ok := t.errors[endpoint]; ok {
		return nil, err
	}
	if resp, ok := t.responses[endpoint]; ok {
		return resp, nil
	}
	return nil, fmt.Errorf("unscripted endpoint %s", endpoint)
}

func newTestClient(endpoints []string, transport Transport) *Client {
	return NewClient(endpoints, transport, 5*time.Second, time.Millisecond, nil)
}

func TestClient_FirstEndpointAccepts(t *testing.T) {
	transport := &scriptedTransport{
		responses: map[string]*Response{
			"rpc-a": {Status: StatusAccepted, TransactionHash: "abc123"},
		},
	}
	client := newTestClient([]string{"rpc-a", "rpc-b"}, transport)

	result, err := client.Resolve(context.Background(), Request{GameID: "mines-42", AccountID: "alice.testnet", DidWin: true, Multiplier: 2.5})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "abc123", result.TransactionHash)
	assert.Equal(t, []string{"rpc-a"}, transport.attempts)
}

func TestClient_FailuresThenBenignDuplicate(t *testing.T) {
	// Two network errors, then a benign "already resolved": overall success
	// with no fourth attempt.
	transport := &scriptedTransport{
		errors: map[string]error{
			"rpc-a": fmt.Errorf("%w: connection refused", models.ErrEndpointUnavailable),
			"rpc-b": fmt.Errorf("%w: timeout", models.ErrEndpointUnavailable),
		},
		responses: map[string]*Response{
			"rpc-c": {Status: StatusAlreadySettled, Message: "Game already resolved"},
		},
	}
	client := newTestClient([]string{"rpc-a", "rpc-b", "rpc-c", "rpc-d"}, transport)

	result, err := client.Resolve(context.Background(), Request{GameID: "crash-7", AccountID: "bob.testnet"})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, []string{"rpc-a", "rpc-b", "rpc-c"}, transport.attempts)
}

func TestClient_AllEndpointsFail(t *testing.T) {
	transport := &scriptedTransport{
		errors: map[string]error{
			"rpc-a": fmt.Errorf("%w: connection refused", models.ErrEndpointUnavailable),
			"rpc-b": fmt.Errorf("%w: dns failure", models.ErrEndpointUnavailable),
		},
	}
	client := newTestClient([]string{"rpc-a", "rpc-b"}, transport)

	result, err := client.Resolve(context.Background(), Request{GameID: "mines-1", AccountID: "alice.testnet"})

	require.Error(t, err)
	assert.Nil(t, result)
	// The last observed error is the one surfaced
	assert.Contains(t, err.Error(), "dns failure")
	assert.ErrorIs(t, err, models.ErrEndpointUnavailable)
}

func TestClient_RateLimitBacksOffThenSucceeds(t *testing.T) {
	transport := &scriptedTransport{
		responses: map[string]*Response{
			"rpc-a": {Status: StatusRateLimited},
			"rpc-b": {Status: StatusAccepted, TransactionHash: "def456"},
		},
	}
	client := newTestClient([]string{"rpc-a", "rpc-b"}, transport)

	result, err := client.Resolve(context.Background(), Request{GameID: "plinko-3", AccountID: "carol.testnet"})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, []string{"rpc-a", "rpc-b"}, transport.attempts)
}

func TestClient_AmbiguousResponseSurfacesRaw(t *testing.T) {
	transport := &scriptedTransport{
		responses: map[string]*Response{
			"rpc-a": {Status: StatusUnknown, Raw: `<html>gateway error</html>`},
		},
	}
	client := newTestClient([]string{"rpc-a", "rpc-b"}, transport)

	result, err := client.Resolve(context.Background(), Request{GameID: "mines-9", AccountID: "alice.testnet"})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, models.ErrAmbiguousOutcome)
	assert.Contains(t, err.Error(), "gateway error")
	// Ambiguity is terminal, no further endpoints are tried
	assert.Equal(t, []string{"rpc-a"}, transport.attempts)
}

func TestClient_RejectedIsTerminal(t *testing.T) {
	transport := &scriptedTransport{
		responses: map[string]*Response{
			"rpc-a": {Status: StatusRejected, Message: "Unauthorized: only oracle can resolve"},
		},
	}
	client := newTestClient([]string{"rpc-a", "rpc-b"}, transport)

	result, err := client.Resolve(context.Background(), Request{GameID: "mines-9", AccountID: "mallory.testnet"})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "Unauthorized")
	assert.Equal(t, []string{"rpc-a"}, transport.attempts)
}

func TestClient_NoEndpoints(t *testing.T) {
	client := newTestClient(nil, &scriptedTransport{})

	result, err := client.Resolve(context.Background(), Request{GameID: "mines-1"})

	require.Error(t, err)
	assert.Nil(t, result)
}
