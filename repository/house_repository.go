package repository

import (
	"context"
	"fmt"

	"settler/database"
	"settler/models"
)

// HouseRepository implements the service.HouseRepository interface. The house
// table holds exactly one row, seeded by the initial migration.
type HouseRepository struct {
	q queryable
}

// NewHouseRepository creates a new house repository
func NewHouseRepository(db *database.DB) *HouseRepository {
	return &HouseRepository{q: db.Pool}
}

// newHouseRepositoryWithTx creates a new house repository with a transaction
func newHouseRepositoryWithTx(tx queryable) *HouseRepository {
	return &HouseRepository{q: tx}
}

// Get retrieves the single house row
func (r *HouseRepository) Get(ctx context.Context) (*models.House, error) {
	query := `
		SELECT total_losses, oracle_account_id, updated_at
		FROM house
	`

	var house models.House
	err := r.q.QueryRow(ctx, query).Scan(
		&house.TotalLosses,
		&house.OracleAccountID,
		&house.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get house state: %w", err)
	}

	return &house, nil
}

// AddLosses adds a forfeited bet amount to the aggregate house balance
func (r *HouseRepository) AddLosses(ctx context.Context, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE house
		SET total_losses = total_losses + $1, updated_at = NOW()
	`

	result, err := r.q.Exec(ctx, query, amount)
	if err != nil {
		return fmt.Errorf("failed to add house losses: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("house row missing, database not migrated")
	}

	return nil
}

// SetOracleAccount replaces the authorized resolver identity
func (r *HouseRepository) SetOracleAccount(ctx context.Context, oracleAccountID string) error {
	query := `
		UPDATE house
		SET oracle_account_id = $1, updated_at = NOW()
	`

	result, err := r.q.Exec(ctx, query, oracleAccountID)
	if err != nil {
		return fmt.Errorf("failed to set oracle account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("house row missing, database not migrated")
	}

	return nil
}
