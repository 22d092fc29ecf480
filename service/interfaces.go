package service

import (
	"context"

	"settler/events"
	"settler/models"
)

// LedgerRepository defines the interface for per-account ledger data access
type LedgerRepository interface {
	// GetByAccountID retrieves a ledger by account ID, nil if none exists
	GetByAccountID(ctx context.Context, accountID string) (*models.Ledger, error)

	// GetOrCreate retrieves a ledger, creating an empty one if absent
	GetOrCreate(ctx context.Context, accountID string) (*models.Ledger, error)

	// RecordBet adds a settled bet's amount to the cumulative total
	RecordBet(ctx context.Context, accountID string, amount int64) error

	// CreditWinnings adds winnings to both totalWon and the withdrawable balance
	CreditWinnings(ctx context.Context, accountID string, winnings int64) error

	// RecordLoss adds a forfeited amount to the cumulative total lost
	RecordLoss(ctx context.Context, accountID string, amount int64) error

	// ZeroWithdrawableBalance sets the withdrawable balance to zero and
	// returns the amount that was available before
	ZeroWithdrawableBalance(ctx context.Context, accountID string) (int64, error)

	// CountAccounts returns the number of ledgers ever created
	CountAccounts(ctx context.Context) (int64, error)
}

// PendingBetRepository defines the interface for escrowed bet data access
type PendingBetRepository interface {
	// GetByAccountID retrieves the pending bet for an account, nil if none
	GetByAccountID(ctx context.Context, accountID string) (*models.PendingBet, error)

	// Create inserts a pending bet; returns models.ErrDuplicatePendingBet if
	// the account already has one open
	Create(ctx context.Context, bet *models.PendingBet) error

	// Delete removes the pending bet for an account, reporting whether one existed
	Delete(ctx context.Context, accountID string) (bool, error)
}

// HouseRepository defines the interface for contract-wide state access
type HouseRepository interface {
	// Get retrieves the single house row
	Get(ctx context.Context) (*models.House, error)

	// AddLosses adds a forfeited bet amount to the aggregate house balance
	AddLosses(ctx context.Context, amount int64) error

	// SetOracleAccount replaces the authorized resolver identity
	SetOracleAccount(ctx context.Context, oracleAccountID string) error
}

// SettlementHistoryRepository defines the interface for the settlement audit trail
type SettlementHistoryRepository interface {
	// Record appends a settlement record
	Record(ctx context.Context, record *models.SettlementRecord) error

	// GetByAccount returns the most recent settlement records for an account
	GetByAccount(ctx context.Context, accountID string, limit int) ([]*models.SettlementRecord, error)
}

// EscrowService defines the interface for opening bets
type EscrowService interface {
	// OpenBet escrows a deposit for an account and records the pending bet
	OpenBet(ctx context.Context, accountID, gameID string, deposit int64) (*models.PendingBet, error)
}

// SettlementService defines the interface for resolving pending bets
type SettlementService interface {
	// Resolve settles the caller's own pending bet with the given outcome
	Resolve(ctx context.Context, accountID string, outcome models.Outcome) (*models.Settlement, error)

	// ResolveForAccount settles a target account's pending bet on behalf of
	// the oracle. The caller must be the authorized oracle identity, and the
	// payout is bounded by the target's escrowed pending bet.
	ResolveForAccount(ctx context.Context, callerAccountID, targetAccountID string, outcome models.Outcome) (*models.Settlement, error)
}

// WithdrawalService defines the interface for paying out withdrawable balances
type WithdrawalService interface {
	// Withdraw zeroes the account's withdrawable balance and initiates the
	// outbound transfer of that amount. The balance is zeroed and committed
	// before the transfer starts.
	Withdraw(ctx context.Context, accountID string) (*models.Withdrawal, error)
}

// OracleService defines the interface for the oracle-identity access guard
type OracleService interface {
	// GetOracleAccount returns the currently authorized resolver identity
	GetOracleAccount(ctx context.Context) (string, error)

	// SetOracleAccount updates the authorized resolver identity; only the
	// contract owner account may call this
	SetOracleAccount(ctx context.Context, callerAccountID, oracleAccountID string) error
}

// StatsService defines the interface for the read-only contract views
type StatsService interface {
	// GetUserStats returns the ledger snapshot for an account, creating an
	// empty ledger on first query
	GetUserStats(ctx context.Context, accountID string) (*models.Ledger, error)

	// GetPendingBet returns the account's pending bet, nil if none
	GetPendingBet(ctx context.Context, accountID string) (*models.PendingBet, error)

	// GetContractTotalLosses returns the aggregate house balance
	GetContractTotalLosses(ctx context.Context) (int64, error)

	// GetTotalUsers returns the number of accounts that ever interacted
	GetTotalUsers(ctx context.Context) (int64, error)

	// GetSettlementHistory returns recent settlements for an account
	GetSettlementHistory(ctx context.Context, accountID string, limit int) ([]*models.SettlementRecord, error)
}

// TransferInitiator initiates the outbound transfer leg of a withdrawal.
// Failure handling of the transfer itself is the implementation's concern;
// the withdrawal service has already zeroed and committed the balance by the
// time this is called.
type TransferInitiator interface {
	InitiateTransfer(ctx context.Context, accountID string, amount int64) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	LedgerRepository() LedgerRepository
	PendingBetRepository() PendingBetRepository
	HouseRepository() HouseRepository
	SettlementHistoryRepository() SettlementHistoryRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
