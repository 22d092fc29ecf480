package service

import (
	"context"
	"fmt"

	"settler/events"
	"settler/models"

	log "github.com/sirupsen/logrus"
)

type oracleService struct {
	uowFactory     UnitOfWorkFactory
	ownerAccountID string
}

// NewOracleService creates a new oracle service. ownerAccountID is the
// contract's deploying identity, the only caller allowed to change the oracle.
func NewOracleService(uowFactory UnitOfWorkFactory, ownerAccountID string) OracleService {
	return &oracleService{
		uowFactory:     uowFactory,
		ownerAccountID: ownerAccountID,
	}
}

// GetOracleAccount returns the currently authorized resolver identity
func (s *oracleService) GetOracleAccount(ctx context.Context) (string, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	house, err := uow.HouseRepository().Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get house state: %w", err)
	}

	return house.OracleAccountID, nil
}

// SetOracleAccount updates the authorized resolver identity
func (s *oracleService) SetOracleAccount(ctx context.Context, callerAccountID, oracleAccountID string) error {
	if callerAccountID != s.ownerAccountID {
		return models.ErrUnauthorized
	}
	if oracleAccountID == "" {
		return fmt.Errorf("oracle account ID must not be empty")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	house, err := uow.HouseRepository().Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to get house state: %w", err)
	}

	if err := uow.HouseRepository().SetOracleAccount(ctx, oracleAccountID); err != nil {
		return fmt.Errorf("failed to set oracle account: %w", err)
	}

	uow.EventBus().Publish(events.OracleChangedEvent{
		OldOracleAccountID: house.OracleAccountID,
		NewOracleAccountID: oracleAccountID,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"oldOracle": house.OracleAccountID,
		"newOracle": oracleAccountID,
	}).Info("Oracle account updated")

	return nil
}
