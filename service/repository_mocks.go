package service

import (
	"context"

	"settler/events"
	"settler/models"

	"github.com/stretchr/testify/mock"
)

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) GetByAccountID(ctx context.Context, accountID string) (*models.Ledger, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ledger), args.Error(1)
}

func (m *MockLedgerRepository) GetOrCreate(ctx context.Context, accountID string) (*models.Ledger, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ledger), args.Error(1)
}

func (m *MockLedgerRepository) RecordBet(ctx context.Context, accountID string, amount int64) error {
	args := m.Called(ctx, accountID, amount)
	return args.Error(0)
}

func (m *MockLedgerRepository) CreditWinnings(ctx context.Context, accountID string, winnings int64) error {
	args := m.Called(ctx, accountID, winnings)
	return args.Error(0)
}

func (m *MockLedgerRepository) RecordLoss(ctx context.Context, accountID string, amount int64) error {
	args := m.Called(ctx, accountID, amount)
	return args.Error(0)
}

func (m *MockLedgerRepository) ZeroWithdrawableBalance(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) CountAccounts(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockPendingBetRepository is a mock implementation of PendingBetRepository
type MockPendingBetRepository struct {
	mock.Mock
}

func (m *MockPendingBetRepository) GetByAccountID(ctx context.Context, accountID string) (*models.PendingBet, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PendingBet), args.Error(1)
}

func (m *MockPendingBetRepository) Create(ctx context.Context, bet *models.PendingBet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockPendingBetRepository) Delete(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

// MockHouseRepository is a mock implementation of HouseRepository
type MockHouseRepository struct {
	mock.Mock
}

func (m *MockHouseRepository) Get(ctx context.Context) (*models.House, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.House), args.Error(1)
}

func (m *MockHouseRepository) AddLosses(ctx context.Context, amount int64) error {
	args := m.Called(ctx, amount)
	return args.Error(0)
}

func (m *MockHouseRepository) SetOracleAccount(ctx context.Context, oracleAccountID string) error {
	args := m.Called(ctx, oracleAccountID)
	return args.Error(0)
}

// MockSettlementHistoryRepository is a mock implementation of SettlementHistoryRepository
type MockSettlementHistoryRepository struct {
	mock.Mock
}

func (m *MockSettlementHistoryRepository) Record(ctx context.Context, record *models.SettlementRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockSettlementHistoryRepository) GetByAccount(ctx context.Context, accountID string, limit int) ([]*models.SettlementRecord, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SettlementRecord), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockTransferInitiator is a mock implementation of TransferInitiator
type MockTransferInitiator struct {
	mock.Mock
}

func (m *MockTransferInitiator) InitiateTransfer(ctx context.Context, accountID string, amount int64) error {
	args := m.Called(ctx, accountID, amount)
	return args.Error(0)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories are
// injected with SetRepositories; Begin/Commit/Rollback go through mock.Mock.
type MockUnitOfWork struct {
	mock.Mock
	ledgerRepo  LedgerRepository
	pendingRepo PendingBetRepository
	houseRepo   HouseRepository
	historyRepo SettlementHistoryRepository
	eventBus    EventPublisher
}

// SetRepositories wires the repository mocks this unit of work hands out
func (m *MockUnitOfWork) SetRepositories(ledger LedgerRepository, pending PendingBetRepository, house HouseRepository, history SettlementHistoryRepository, bus EventPublisher) {
	m.ledgerRepo = ledger
	m.pendingRepo = pending
	m.houseRepo = house
	m.historyRepo = history
	m.eventBus = bus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) LedgerRepository() LedgerRepository {
	return m.ledgerRepo
}

func (m *MockUnitOfWork) PendingBetRepository() PendingBetRepository {
	return m.pendingRepo
}

func (m *MockUnitOfWork) HouseRepository() HouseRepository {
	return m.houseRepo
}

func (m *MockUnitOfWork) SettlementHistoryRepository() SettlementHistoryRepository {
	return m.historyRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
