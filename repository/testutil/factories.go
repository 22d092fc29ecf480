package testutil

import (
	"settler/models"
)

// CreateTestPendingBet creates a pending bet with default values
func CreateTestPendingBet(accountID, gameID string) *models.PendingBet {
	return &models.PendingBet{
		AccountID: accountID,
		GameID:    gameID,
		Amount:    10_000,
	}
}

// CreateTestPendingBetWithAmount creates a pending bet with a specific amount
func CreateTestPendingBetWithAmount(accountID, gameID string, amount int64) *models.PendingBet {
	bet := CreateTestPendingBet(accountID, gameID)
	bet.Amount = amount
	return bet
}

// CreateTestSettlementRecord creates a settlement record for a won bet
func CreateTestSettlementRecord(accountID, gameID string) *models.SettlementRecord {
	return &models.SettlementRecord{
		AccountID:  accountID,
		GameID:     gameID,
		Amount:     10_000,
		Won:        true,
		Multiplier: 200,
		Winnings:   20_000,
	}
}
