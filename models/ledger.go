package models

import "time"

// Ledger is the per-account settlement record. One row per account, created
// lazily on the account's first bet or stats query and never deleted.
// TotalBet, TotalWon and TotalLost only ever grow; WithdrawableBalance is
// reduced only by the withdrawal engine, and only to exactly zero.
type Ledger struct {
	AccountID           string    `db:"account_id"`
	TotalBet            int64     `db:"total_bet"`
	TotalWon            int64     `db:"total_won"`
	TotalLost           int64     `db:"total_lost"`
	WithdrawableBalance int64     `db:"withdrawable_balance"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

// House holds the contract-wide state: the running total of amounts forfeited
// to the house and the single mutable oracle identity. Stored as a single row.
type House struct {
	TotalLosses     int64     `db:"total_losses"`
	OracleAccountID string    `db:"oracle_account_id"`
	UpdatedAt       time.Time `db:"updated_at"`
}
