package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"settler/resolver"

	log "github.com/sirupsen/logrus"
)

// OutcomeMessage is the wire format game servers publish when a game
// finishes.
type OutcomeMessage struct {
	GameID     string  `json:"gameId"`
	AccountID  string  `json:"accountId"`
	DidWin     bool    `json:"didWin"`
	Multiplier float64 `json:"multiplier"`
	GameType   string  `json:"gameType,omitempty"`
}

// resolveSubmitter is the slice of the resolve client the subscriber needs.
type resolveSubmitter interface {
	Resolve(ctx context.Context, req resolver.Request) (*resolver.Result, error)
}

// subscriber is the slice of the NATS client the subscriber needs.
type subscriber interface {
	Subscribe(subject string, handler func([]byte) error) error
}

// OutcomeSubscriber feeds published game outcomes into the resolve pipeline.
type OutcomeSubscriber struct {
	client   subscriber
	resolves resolveSubmitter
}

// NewOutcomeSubscriber creates an outcome subscriber
func NewOutcomeSubscriber(client subscriber, resolves resolveSubmitter) *OutcomeSubscriber {
	return &OutcomeSubscriber{
		client:   client,
		resolves: resolves,
	}
}

// Start subscribes to the outcome subject space.
func (s *OutcomeSubscriber) Start(ctx context.Context) error {
	return s.client.Subscribe(OutcomeSubjects, func(data []byte) error {
		return s.handle(ctx, data)
	})
}

// handle decodes one outcome message and submits it for settlement. A benign
// duplicate counts as handled; any other failure is returned so the message
// is redelivered.
func (s *OutcomeSubscriber) handle(ctx context.Context, data []byte) error {
	var msg OutcomeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		// Malformed messages would fail forever, drop them after logging
		log.WithError(err).WithField("payload", string(data)).Error("Dropping malformed outcome message")
		return nil
	}

	if msg.GameID == "" || msg.AccountID == "" {
		log.WithFields(log.Fields{
			"gameID":    msg.GameID,
			"accountID": msg.AccountID,
		}).Error("Dropping outcome message with missing identifiers")
		return nil
	}

	result, err := s.resolves.Resolve(ctx, resolver.Request{
		GameID:     msg.GameID,
		AccountID:  msg.AccountID,
		DidWin:     msg.DidWin,
		Multiplier: msg.Multiplier,
		GameType:   msg.GameType,
	})
	if err != nil {
		return fmt.Errorf("failed to resolve game %s: %w", msg.GameID, err)
	}

	log.WithFields(log.Fields{
		"gameID":    msg.GameID,
		"accountID": msg.AccountID,
		"didWin":    msg.DidWin,
		"message":   result.Message,
	}).Info("Outcome message settled")
	return nil
}
