package models

import "time"

// SettlementRecord is one row of the append-only settlement audit trail.
type SettlementRecord struct {
	ID         int64     `db:"id"`
	AccountID  string    `db:"account_id"`
	GameID     string    `db:"game_id"`
	Amount     int64     `db:"amount"`
	Won        bool      `db:"won"`
	Multiplier int64     `db:"multiplier"`
	Winnings   int64     `db:"winnings"`
	CreatedAt  time.Time `db:"created_at"`
}
