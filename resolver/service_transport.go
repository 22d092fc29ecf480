package resolver

import (
	"context"
	"errors"
	"fmt"

	"settler/models"
	"settler/money"
	"settler/service"
)

// ServiceTransport resolves against the in-process settlement engine instead
// of a remote endpoint. Used when the gateway and the settlement core run in
// the same process; selected by configuration.
type ServiceTransport struct {
	settlements service.SettlementService
	oracle      service.OracleService
}

// NewServiceTransport creates a transport that settles through the local
// settlement service. The caller identity is read from the stored oracle
// account on every submit, so an oracle rotation takes effect without a
// restart.
func NewServiceTransport(settlements service.SettlementService, oracle service.OracleService) *ServiceTransport {
	return &ServiceTransport{
		settlements: settlements,
		oracle:      oracle,
	}
}

// Submit settles the bet directly. The endpoint argument is ignored; the
// classification mirrors what a remote contract would answer.
func (t *ServiceTransport) Submit(ctx context.Context, endpoint string, req Request) (*Response, error) {
	oracleID, err := t.oracle.GetOracleAccount(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: reading oracle identity: %v", models.ErrEndpointUnavailable, err)
	}

	outcome := models.Outcome{
		Won:        req.DidWin,
		Multiplier: money.MultiplierFromFloat(req.Multiplier),
	}

	settlement, err := t.settlements.ResolveForAccount(ctx, oracleID, req.AccountID, outcome)

	switch {
	case err == nil:
		return &Response{
			Status:          StatusAccepted,
			TransactionHash: fmt.Sprintf("local-%s-%d", settlement.GameID, settlement.Winnings),
		}, nil
	case errors.Is(err, models.ErrNoPendingBet):
		return &Response{Status: StatusAlreadySettled, Message: err.Error()}, nil
	case errors.Is(err, models.ErrUnauthorized):
		return &Response{Status: StatusRejected, Message: err.Error()}, nil
	default:
		return nil, fmt.Errorf("%w: local settlement: %v", models.ErrEndpointUnavailable, err)
	}
}
