package models

import "time"

// PendingBet is an escrowed-but-unresolved wager. At most one exists per
// account; it is created by the escrow engine on deposit and consumed by the
// settlement engine on resolution.
type PendingBet struct {
	AccountID string    `db:"account_id"`
	GameID    string    `db:"game_id"`
	Amount    int64     `db:"amount"`
	OpenedSeq int64     `db:"opened_seq"` // monotonic open sequence, the off-chain analogue of block height
	CreatedAt time.Time `db:"created_at"`
}
