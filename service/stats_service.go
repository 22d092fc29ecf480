package service

import (
	"context"
	"fmt"

	"settler/models"
)

// statsService implements the StatsService interface
type statsService struct {
	uowFactory UnitOfWorkFactory
}

// NewStatsService creates a new stats service
func NewStatsService(uowFactory UnitOfWorkFactory) StatsService {
	return &statsService{
		uowFactory: uowFactory,
	}
}

// GetUserStats returns the ledger snapshot for an account. A ledger is
// created lazily on the first stats query so the caller always gets a row.
func (s *statsService) GetUserStats(ctx context.Context, accountID string) (*models.Ledger, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	ledger, err := uow.LedgerRepository().GetOrCreate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create ledger: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return ledger, nil
}

// GetPendingBet returns the account's pending bet, nil if none
func (s *statsService) GetPendingBet(ctx context.Context, accountID string) (*models.PendingBet, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.PendingBetRepository().GetByAccountID(ctx, accountID)
}

// GetContractTotalLosses returns the aggregate house balance
func (s *statsService) GetContractTotalLosses(ctx context.Context) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	house, err := uow.HouseRepository().Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get house state: %w", err)
	}

	return house.TotalLosses, nil
}

// GetTotalUsers returns the number of accounts that ever interacted
func (s *statsService) GetTotalUsers(ctx context.Context) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.LedgerRepository().CountAccounts(ctx)
}

// GetSettlementHistory returns recent settlements for an account
func (s *statsService) GetSettlementHistory(ctx context.Context, accountID string, limit int) ([]*models.SettlementRecord, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.SettlementHistoryRepository().GetByAccount(ctx, accountID, limit)
}
