package service

import (
	"context"
	"fmt"

	"settler/events"
	"settler/models"

	log "github.com/sirupsen/logrus"
)

type escrowService struct {
	uowFactory UnitOfWorkFactory
}

// NewEscrowService creates a new escrow service
func NewEscrowService(uowFactory UnitOfWorkFactory) EscrowService {
	return &escrowService{
		uowFactory: uowFactory,
	}
}

// OpenBet escrows a deposit and records the pending bet. The deposit amount
// moves into contract custody atomically with this call: either the pending
// bet exists and the funds are escrowed, or nothing happened.
func (s *escrowService) OpenBet(ctx context.Context, accountID, gameID string, deposit int64) (*models.PendingBet, error) {
	if deposit <= 0 {
		return nil, models.ErrInvalidDeposit
	}
	if accountID == "" {
		return nil, fmt.Errorf("account ID must not be empty")
	}
	if gameID == "" {
		return nil, fmt.Errorf("game ID must not be empty")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	// Ledger rows are created lazily on first interaction
	if _, err := uow.LedgerRepository().GetOrCreate(ctx, accountID); err != nil {
		return nil, fmt.Errorf("failed to get or create ledger: %w", err)
	}

	bet := &models.PendingBet{
		AccountID: accountID,
		GameID:    gameID,
		Amount:    deposit,
	}
	if err := uow.PendingBetRepository().Create(ctx, bet); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.BetOpenedEvent{
		AccountID: accountID,
		GameID:    gameID,
		Amount:    deposit,
		OpenedSeq: bet.OpenedSeq,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"accountID": accountID,
		"gameID":    gameID,
		"amount":    deposit,
		"openedSeq": bet.OpenedSeq,
	}).Info("Bet opened, deposit escrowed")

	return bet, nil
}
