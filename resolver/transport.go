package resolver

import (
	"context"
)

// Request carries a finished game's outcome to the settlement contract.
type Request struct {
	GameID     string  `json:"gameId"`
	AccountID  string  `json:"accountId"`
	DidWin     bool    `json:"didWin"`
	Multiplier float64 `json:"multiplier"`
	GameType   string  `json:"gameType,omitempty"`
	Player     string  `json:"player,omitempty"`
}

// Status classifies a transport response.
type Status int

const (
	// StatusAccepted means the settlement call was committed.
	StatusAccepted Status = iota

	// StatusAlreadySettled is the benign-duplicate case: the bet was already
	// resolved or no pending bet exists. Terminal success, a retry landing on
	// a settled bet must not double-apply or error.
	StatusAlreadySettled

	// StatusRateLimited signals a transient quota rejection. The client backs
	// off before the next attempt.
	StatusRateLimited

	// StatusRejected is a classified hard failure (contract precondition
	// violation such as an unauthorized caller).
	StatusRejected

	// StatusUnknown means the response fit none of the known shapes.
	StatusUnknown
)

// Response is one endpoint's answer to a resolve submission.
type Response struct {
	Status          Status
	TransactionHash string
	Message         string

	// Raw holds the unparsed response body for diagnostics when the
	// classification is Rejected or Unknown.
	Raw string
}

// Transport submits a resolve call to a single endpoint. Implementations
// return an error wrapping models.ErrEndpointUnavailable for transport-level
// failures; anything the endpoint actually answered is classified in the
// Response instead.
type Transport interface {
	Submit(ctx context.Context, endpoint string, req Request) (*Response, error)
}
