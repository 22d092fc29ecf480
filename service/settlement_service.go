package service

import (
	"context"
	"fmt"

	"settler/events"
	"settler/models"
	"settler/money"

	log "github.com/sirupsen/logrus"
)

type settlementService struct {
	uowFactory UnitOfWorkFactory
}

// NewSettlementService creates a new settlement service
func NewSettlementService(uowFactory UnitOfWorkFactory) SettlementService {
	return &settlementService{
		uowFactory: uowFactory,
	}
}

// Resolve settles the caller's own pending bet.
func (s *settlementService) Resolve(ctx context.Context, accountID string, outcome models.Outcome) (*models.Settlement, error) {
	return s.settle(ctx, accountID, outcome, nil)
}

// ResolveForAccount settles a target account's pending bet on behalf of the
// oracle. The payout is still bounded by the target's escrowed amount: the
// oracle reports the outcome, it does not mint balances.
func (s *settlementService) ResolveForAccount(ctx context.Context, callerAccountID, targetAccountID string, outcome models.Outcome) (*models.Settlement, error) {
	authorize := func(ctx context.Context, uow UnitOfWork) error {
		house, err := uow.HouseRepository().Get(ctx)
		if err != nil {
			return fmt.Errorf("failed to get house state: %w", err)
		}
		if callerAccountID != house.OracleAccountID {
			return models.ErrUnauthorized
		}
		return nil
	}
	return s.settle(ctx, targetAccountID, outcome, authorize)
}

// settle runs the settlement algorithm inside a single transaction. The
// optional authorize hook runs first, before any state is touched, so a
// rejected caller can never leave a partial mutation behind.
func (s *settlementService) settle(ctx context.Context, accountID string, outcome models.Outcome, authorize func(context.Context, UnitOfWork) error) (*models.Settlement, error) {
	if outcome.Won && outcome.Multiplier <= 0 {
		return nil, fmt.Errorf("multiplier must be positive")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if authorize != nil {
		if err := authorize(ctx, uow); err != nil {
			return nil, err
		}
	}

	pending, err := uow.PendingBetRepository().GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending bet: %w", err)
	}
	if pending == nil {
		return nil, models.ErrNoPendingBet
	}

	if _, err := uow.LedgerRepository().GetOrCreate(ctx, accountID); err != nil {
		return nil, fmt.Errorf("failed to get or create ledger: %w", err)
	}

	if err := uow.LedgerRepository().RecordBet(ctx, accountID, pending.Amount); err != nil {
		return nil, fmt.Errorf("failed to record bet total: %w", err)
	}

	var winnings int64
	if outcome.Won {
		winnings, err = money.Winnings(pending.Amount, outcome.Multiplier)
		if err != nil {
			return nil, fmt.Errorf("refusing settlement: %w", err)
		}
		if err := uow.LedgerRepository().CreditWinnings(ctx, accountID, winnings); err != nil {
			return nil, fmt.Errorf("failed to credit winnings: %w", err)
		}
	} else {
		if err := uow.LedgerRepository().RecordLoss(ctx, accountID, pending.Amount); err != nil {
			return nil, fmt.Errorf("failed to record loss: %w", err)
		}
		if err := uow.HouseRepository().AddLosses(ctx, pending.Amount); err != nil {
			return nil, fmt.Errorf("failed to add house losses: %w", err)
		}
	}

	removed, err := uow.PendingBetRepository().Delete(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove pending bet: %w", err)
	}
	if !removed {
		return nil, fmt.Errorf("pending bet for %s disappeared mid-settlement", accountID)
	}

	record := &models.SettlementRecord{
		AccountID:  accountID,
		GameID:     pending.GameID,
		Amount:     pending.Amount,
		Won:        outcome.Won,
		Multiplier: outcome.Multiplier,
		Winnings:   winnings,
	}
	if err := uow.SettlementHistoryRepository().Record(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record settlement: %w", err)
	}

	uow.EventBus().Publish(events.BetSettledEvent{
		AccountID:  accountID,
		GameID:     pending.GameID,
		Amount:     pending.Amount,
		Won:        outcome.Won,
		Multiplier: outcome.Multiplier,
		Winnings:   winnings,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"accountID":  accountID,
		"gameID":     pending.GameID,
		"amount":     pending.Amount,
		"won":        outcome.Won,
		"multiplier": outcome.Multiplier,
		"winnings":   winnings,
	}).Info("Bet settled")

	return &models.Settlement{
		AccountID: accountID,
		GameID:    pending.GameID,
		Amount:    pending.Amount,
		Won:       outcome.Won,
		Winnings:  winnings,
	}, nil
}
