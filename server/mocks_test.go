package server

import (
	"context"

	"settler/models"
	"settler/resolver"

	"github.com/stretchr/testify/mock"
)

type mockEscrowService struct {
	mock.Mock
}

func (m *mockEscrowService) OpenBet(ctx context.Context, accountID, gameID string, deposit int64) (*models.PendingBet, error) {
	args := m.Called(ctx, accountID, gameID, deposit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PendingBet), args.Error(1)
}

type mockSettlementService struct {
	mock.Mock
}

func (m *mockSettlementService) Resolve(ctx context.Context, accountID string, outcome models.Outcome) (*models.Settlement, error) {
	args := m.Called(ctx, accountID, outcome)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settlement), args.Error(1)
}

func (m *mockSettlementService) ResolveForAccount(ctx context.Context, callerAccountID, targetAccountID string, outcome models.Outcome) (*models.Settlement, error) {
	args := m.Called(ctx, callerAccountID, targetAccountID, outcome)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settlement), args.Error(1)
}

type mockWithdrawalService struct {
	mock.Mock
}

func (m *mockWithdrawalService) Withdraw(ctx context.Context, accountID string) (*models.Withdrawal, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Withdrawal), args.Error(1)
}

type mockOracleService struct {
	mock.Mock
}

func (m *mockOracleService) GetOracleAccount(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockOracleService) SetOracleAccount(ctx context.Context, callerAccountID, oracleAccountID string) error {
	args := m.Called(ctx, callerAccountID, oracleAccountID)
	return args.Error(0)
}

type mockStatsService struct {
	mock.Mock
}

func (m *mockStatsService) GetUserStats(ctx context.Context, accountID string) (*models.Ledger, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ledger), args.Error(1)
}

func (m *mockStatsService) GetPendingBet(ctx context.Context, accountID string) (*models.PendingBet, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PendingBet), args.Error(1)
}

func (m *mockStatsService) GetContractTotalLosses(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStatsService) GetTotalUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStatsService) GetSettlementHistory(ctx context.Context, accountID string, limit int) ([]*models.SettlementRecord, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SettlementRecord), args.Error(1)
}

type mockResolveSubmitter struct {
	mock.Mock
}

func (m *mockResolveSubmitter) Resolve(ctx context.Context, req resolver.Request) (*resolver.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resolver.Result), args.Error(1)
}
