package repository

import (
	"context"
	"errors"
	"fmt"

	"settler/database"
	"settler/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PendingBetRepository implements the service.PendingBetRepository interface
type PendingBetRepository struct {
	q queryable
}

// NewPendingBetRepository creates a new pending bet repository
func NewPendingBetRepository(db *database.DB) *PendingBetRepository {
	return &PendingBetRepository{q: db.Pool}
}

// newPendingBetRepositoryWithTx creates a new pending bet repository with a transaction
func newPendingBetRepositoryWithTx(tx queryable) *PendingBetRepository {
	return &PendingBetRepository{q: tx}
}

// GetByAccountID retrieves the pending bet for an account, nil if none
func (r *PendingBetRepository) GetByAccountID(ctx context.Context, accountID string) (*models.PendingBet, error) {
	query := `
		SELECT account_id, game_id, amount, opened_seq, created_at
		FROM pending_bets
		WHERE account_id = $1
	`

	var bet models.PendingBet
	err := r.q.QueryRow(ctx, query, accountID).Scan(
		&bet.AccountID,
		&bet.GameID,
		&bet.Amount,
		&bet.OpenedSeq,
		&bet.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending bet for %s: %w", accountID, err)
	}

	return &bet, nil
}

// Create inserts a pending bet. The account_id primary key enforces at most
// one open bet per account; a unique violation maps to ErrDuplicatePendingBet.
func (r *PendingBetRepository) Create(ctx context.Context, bet *models.PendingBet) error {
	query := `
		INSERT INTO pending_bets (account_id, game_id, amount)
		VALUES ($1, $2, $3)
		RETURNING opened_seq, created_at
	`

	err := r.q.QueryRow(ctx, query, bet.AccountID, bet.GameID, bet.Amount).Scan(
		&bet.OpenedSeq,
		&bet.CreatedAt,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return models.ErrDuplicatePendingBet
	}
	if err != nil {
		return fmt.Errorf("failed to create pending bet for %s: %w", bet.AccountID, err)
	}

	return nil
}

// Delete removes the pending bet for an account, reporting whether one existed
func (r *PendingBetRepository) Delete(ctx context.Context, accountID string) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM pending_bets WHERE account_id = $1`, accountID)
	if err != nil {
		return false, fmt.Errorf("failed to delete pending bet for %s: %w", accountID, err)
	}

	return result.RowsAffected() > 0, nil
}
