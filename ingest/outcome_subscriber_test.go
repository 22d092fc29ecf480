package ingest

import (
	"context"
	"errors"
	"testing"

	"settler/resolver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriberClient struct {
	subject string
	handler func([]byte) error
}

func (f *fakeSubscriberClient) Subscribe(subject string, handler func([]byte) error) error {
	f.subject = subject
	f.handler = handler
	return nil
}

type fakeResolver struct {
	requests []resolver.Request
	result   *resolver.Result
	err      error
}

func (f *fakeResolver) Resolve(ctx context.Context, req resolver.Request) (*resolver.Result, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestOutcomeSubscriber_HandlesOutcome(t *testing.T) {
	client := &fakeSubscriberClient{}
	resolves := &fakeResolver{result: &resolver.Result{Success: true, Message: "ok"}}
	sub := NewOutcomeSubscriber(client, resolves)

	require.NoError(t, sub.Start(context.Background()))
	assert.Equal(t, OutcomeSubjects, client.subject)

	err := client.handler([]byte(`{"gameId":"mines-42","accountId":"alice.testnet","didWin":true,"multiplier":2.5,"gameType":"mines"}`))
	require.NoError(t, err)

	require.Len(t, resolves.requests, 1)
	req := resolves.requests[0]
	assert.Equal(t, "mines-42", req.GameID)
	assert.Equal(t, "alice.testnet", req.AccountID)
	assert.True(t, req.DidWin)
	assert.Equal(t, 2.5, req.Multiplier)
}

func TestOutcomeSubscriber_ResolveFailureTriggersRedelivery(t *testing.T) {
	client := &fakeSubscriberClient{}
	resolves := &fakeResolver{err: errors.New("all endpoints exhausted")}
	sub := NewOutcomeSubscriber(client, resolves)

	require.NoError(t, sub.Start(context.Background()))

	err := client.handler([]byte(`{"gameId":"crash-7","accountId":"bob.testnet","didWin":false,"multiplier":0}`))
	assert.Error(t, err)
}

func TestOutcomeSubscriber_DropsMalformedMessages(t *testing.T) {
	client := &fakeSubscriberClient{}
	resolves := &fakeResolver{}
	sub := NewOutcomeSubscriber(client, resolves)

	require.NoError(t, sub.Start(context.Background()))

	// Unparseable and incomplete messages are dropped, not redelivered
	assert.NoError(t, client.handler([]byte(`not json`)))
	assert.NoError(t, client.handler([]byte(`{"gameId":"mines-1"}`)))
	assert.Empty(t, resolves.requests)
}
