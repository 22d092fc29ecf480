package repository

import (
	"context"
	"fmt"

	"settler/database"
	"settler/models"

	"github.com/jackc/pgx/v5"
)

// LedgerRepository implements the service.LedgerRepository interface
type LedgerRepository struct {
	q queryable
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{q: db.Pool}
}

// newLedgerRepositoryWithTx creates a new ledger repository with a transaction
func newLedgerRepositoryWithTx(tx queryable) *LedgerRepository {
	return &LedgerRepository{q: tx}
}

// GetByAccountID retrieves a ledger by account ID, nil if none exists
func (r *LedgerRepository) GetByAccountID(ctx context.Context, accountID string) (*models.Ledger, error) {
	query := `
		SELECT account_id, total_bet, total_won, total_lost, withdrawable_balance, created_at, updated_at
		FROM ledgers
		WHERE account_id = $1
	`

	var ledger models.Ledger
	err := r.q.QueryRow(ctx, query, accountID).Scan(
		&ledger.AccountID,
		&ledger.TotalBet,
		&ledger.TotalWon,
		&ledger.TotalLost,
		&ledger.WithdrawableBalance,
		&ledger.CreatedAt,
		&ledger.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger for %s: %w", accountID, err)
	}

	return &ledger, nil
}

// GetOrCreate retrieves a ledger, creating an empty one if absent. The no-op
// DO UPDATE keeps RETURNING populated when the row already exists.
func (r *LedgerRepository) GetOrCreate(ctx context.Context, accountID string) (*models.Ledger, error) {
	query := `
		INSERT INTO ledgers (account_id)
		VALUES ($1)
		ON CONFLICT (account_id) DO UPDATE SET account_id = EXCLUDED.account_id
		RETURNING account_id, total_bet, total_won, total_lost, withdrawable_balance, created_at, updated_at
	`

	var ledger models.Ledger
	err := r.q.QueryRow(ctx, query, accountID).Scan(
		&ledger.AccountID,
		&ledger.TotalBet,
		&ledger.TotalWon,
		&ledger.TotalLost,
		&ledger.WithdrawableBalance,
		&ledger.CreatedAt,
		&ledger.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get or create ledger for %s: %w", accountID, err)
	}

	return &ledger, nil
}

// RecordBet adds a settled bet's amount to the cumulative total bet
func (r *LedgerRepository) RecordBet(ctx context.Context, accountID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE ledgers
		SET total_bet = total_bet + $1, updated_at = NOW()
		WHERE account_id = $2
	`

	result, err := r.q.Exec(ctx, query, amount, accountID)
	if err != nil {
		return fmt.Errorf("failed to record bet for %s: %w", accountID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("ledger for account %s not found", accountID)
	}

	return nil
}

// CreditWinnings adds winnings to both the cumulative total won and the
// withdrawable balance
func (r *LedgerRepository) CreditWinnings(ctx context.Context, accountID string, winnings int64) error {
	if winnings <= 0 {
		return fmt.Errorf("winnings must be positive")
	}

	query := `
		UPDATE ledgers
		SET total_won = total_won + $1,
		    withdrawable_balance = withdrawable_balance + $1,
		    updated_at = NOW()
		WHERE account_id = $2
	`

	result, err := r.q.Exec(ctx, query, winnings, accountID)
	if err != nil {
		return fmt.Errorf("failed to credit winnings for %s: %w", accountID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("ledger for account %s not found", accountID)
	}

	return nil
}

// RecordLoss adds a forfeited amount to the cumulative total lost
func (r *LedgerRepository) RecordLoss(ctx context.Context, accountID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE ledgers
		SET total_lost = total_lost + $1, updated_at = NOW()
		WHERE account_id = $2
	`

	result, err := r.q.Exec(ctx, query, amount, accountID)
	if err != nil {
		return fmt.Errorf("failed to record loss for %s: %w", accountID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("ledger for account %s not found", accountID)
	}

	return nil
}

// ZeroWithdrawableBalance sets the withdrawable balance to zero and returns
// the amount that was available before. Returns 0 when the account has no
// ledger or nothing to withdraw; the row is only touched when the balance is
// positive, so concurrent withdrawals cannot both observe the same funds.
func (r *LedgerRepository) ZeroWithdrawableBalance(ctx context.Context, accountID string) (int64, error) {
	query := `
		UPDATE ledgers l
		SET withdrawable_balance = 0, updated_at = NOW()
		FROM (
			SELECT account_id, withdrawable_balance
			FROM ledgers
			WHERE account_id = $1
			FOR UPDATE
		) prev
		WHERE l.account_id = prev.account_id
		  AND prev.withdrawable_balance > 0
		RETURNING prev.withdrawable_balance
	`

	var amount int64
	err := r.q.QueryRow(ctx, query, accountID).Scan(&amount)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to zero withdrawable balance for %s: %w", accountID, err)
	}

	return amount, nil
}

// CountAccounts returns the number of ledgers ever created
func (r *LedgerRepository) CountAccounts(ctx context.Context) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM ledgers`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}
