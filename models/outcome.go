package models

// Outcome is the result of a finished game round as reported to the
// settlement engine.
type Outcome struct {
	Won bool
	// Multiplier is the win multiplier in hundredths (250 means 2.5x).
	// Ignored when Won is false.
	Multiplier int64
}

// Settlement describes a completed resolution (returned to the caller).
type Settlement struct {
	AccountID string
	GameID    string
	Amount    int64
	Won       bool
	// Winnings is the amount credited to the withdrawable balance. Zero on a loss.
	Winnings int64
}

// Withdrawal describes a completed withdrawal (returned to the caller).
type Withdrawal struct {
	AccountID string
	Amount    int64
}
