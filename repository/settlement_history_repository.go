package repository

import (
	"context"
	"fmt"

	"settler/database"
	"settler/models"
)

// SettlementHistoryRepository implements the service.SettlementHistoryRepository interface
type SettlementHistoryRepository struct {
	q queryable
}

// NewSettlementHistoryRepository creates a new settlement history repository
func NewSettlementHistoryRepository(db *database.DB) *SettlementHistoryRepository {
	return &SettlementHistoryRepository{q: db.Pool}
}

// newSettlementHistoryRepositoryWithTx creates a new settlement history repository with a transaction
func newSettlementHistoryRepositoryWithTx(tx queryable) *SettlementHistoryRepository {
	return &SettlementHistoryRepository{q: tx}
}

// Record appends a settlement record
func (r *SettlementHistoryRepository) Record(ctx context.Context, record *models.SettlementRecord) error {
	query := `
		INSERT INTO settlement_history (account_id, game_id, amount, won, multiplier, winnings)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		record.AccountID,
		record.GameID,
		record.Amount,
		record.Won,
		record.Multiplier,
		record.Winnings,
	).Scan(&record.ID, &record.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record settlement for %s: %w", record.AccountID, err)
	}

	return nil
}

// GetByAccount returns the most recent settlement records for an account
func (r *SettlementHistoryRepository) GetByAccount(ctx context.Context, accountID string, limit int) ([]*models.SettlementRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, account_id, game_id, amount, won, multiplier, winnings, created_at
		FROM settlement_history
		WHERE account_id = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement history for %s: %w", accountID, err)
	}
	defer rows.Close()

	var records []*models.SettlementRecord
	for rows.Next() {
		var record models.SettlementRecord
		err := rows.Scan(
			&record.ID,
			&record.AccountID,
			&record.GameID,
			&record.Amount,
			&record.Won,
			&record.Multiplier,
			&record.Winnings,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement record: %w", err)
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlement records: %w", err)
	}

	return records, nil
}
