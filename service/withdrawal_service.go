package service

import (
	"context"
	"fmt"

	"settler/events"
	"settler/models"

	log "github.com/sirupsen/logrus"
)

type withdrawalService struct {
	uowFactory UnitOfWorkFactory
	transfers  TransferInitiator
}

// NewWithdrawalService creates a new withdrawal service
func NewWithdrawalService(uowFactory UnitOfWorkFactory, transfers TransferInitiator) WithdrawalService {
	return &withdrawalService{
		uowFactory: uowFactory,
		transfers:  transfers,
	}
}

// Withdraw pays out an account's withdrawable balance. The balance is zeroed
// and committed first, then the outbound transfer is initiated. A second
// withdraw arriving in between sees a zero balance and fails with
// ErrNothingToWithdraw, so the same funds cannot be transferred twice.
func (s *withdrawalService) Withdraw(ctx context.Context, accountID string) (*models.Withdrawal, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	amount, err := uow.LedgerRepository().ZeroWithdrawableBalance(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to zero withdrawable balance: %w", err)
	}
	if amount == 0 {
		return nil, models.ErrNothingToWithdraw
	}

	uow.EventBus().Publish(events.WithdrawalCompletedEvent{
		AccountID: accountID,
		Amount:    amount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	// The accounting is final from here on. If the transfer leg fails the
	// funds stay zeroed and reconciliation is the transfer layer's problem.
	if err := s.transfers.InitiateTransfer(ctx, accountID, amount); err != nil {
		log.WithFields(log.Fields{
			"accountID": accountID,
			"amount":    amount,
		}).WithError(err).Error("Outbound transfer failed after balance was zeroed")
		return nil, fmt.Errorf("transfer of %d to %s failed: %w", amount, accountID, err)
	}

	log.WithFields(log.Fields{
		"accountID": accountID,
		"amount":    amount,
	}).Info("Withdrawal completed")

	return &models.Withdrawal{AccountID: accountID, Amount: amount}, nil
}
