package service

import (
	"context"
	"testing"

	"settler/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestOracleService_SetOracleAccount(t *testing.T) {
	ctx := context.Background()
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockHouseRepo := new(MockHouseRepository)
	mockBus := new(MockEventPublisher)
	mockUoW.SetRepositories(nil, nil, mockHouseRepo, nil, mockBus)

	service := NewOracleService(mockFactory, "game-v0.testnet")

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockHouseRepo.On("Get", ctx).Return(&models.House{OracleAccountID: "oracle.testnet"}, nil)
	mockHouseRepo.On("SetOracleAccount", ctx, "resolver-v1.testnet").Return(nil)
	mockBus.On("Publish", mock.Anything).Return()

	err := service.SetOracleAccount(ctx, "game-v0.testnet", "resolver-v1.testnet")

	assert.NoError(t, err)
	mockHouseRepo.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
}

func TestOracleService_SetOracleAccount_Unauthorized(t *testing.T) {
	ctx := context.Background()
	mockFactory := new(MockUnitOfWorkFactory)
	service := NewOracleService(mockFactory, "game-v0.testnet")

	err := service.SetOracleAccount(ctx, "mallory.testnet", "mallory.testnet")

	assert.ErrorIs(t, err, models.ErrUnauthorized)
	mockFactory.AssertNotCalled(t, "Create")
}

func TestOracleService_SetOracleAccount_Empty(t *testing.T) {
	ctx := context.Background()
	mockFactory := new(MockUnitOfWorkFactory)
	service := NewOracleService(mockFactory, "game-v0.testnet")

	err := service.SetOracleAccount(ctx, "game-v0.testnet", "")

	assert.Error(t, err)
	mockFactory.AssertNotCalled(t, "Create")
}

func TestOracleService_GetOracleAccount(t *testing.T) {
	ctx := context.Background()
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockHouseRepo := new(MockHouseRepository)
	mockUoW.SetRepositories(nil, nil, mockHouseRepo, nil, nil)

	service := NewOracleService(mockFactory, "game-v0.testnet")

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockHouseRepo.On("Get", ctx).Return(&models.House{OracleAccountID: "oracle.testnet"}, nil)

	oracle, err := service.GetOracleAccount(ctx)

	assert.NoError(t, err)
	assert.Equal(t, "oracle.testnet", oracle)
}
