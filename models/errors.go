package models

import "errors"

// Settlement-core error taxonomy. Every precondition violation is fail-closed:
// the enclosing transaction is rolled back and no ledger or pending-bet state
// changes.
var (
	// ErrInvalidDeposit is returned when a bet is opened with a zero or
	// negative deposit.
	ErrInvalidDeposit = errors.New("deposit must be greater than zero")

	// ErrDuplicatePendingBet is returned when an account tries to open a bet
	// while one is still outstanding.
	ErrDuplicatePendingBet = errors.New("account already has a pending bet")

	// ErrNoPendingBet is returned when a resolve targets an account with
	// nothing open.
	ErrNoPendingBet = errors.New("no pending bet for account")

	// ErrUnauthorized is returned when a non-oracle caller attempts an
	// oracle resolve, or a non-owner caller attempts to change the oracle.
	ErrUnauthorized = errors.New("caller is not authorized")

	// ErrNothingToWithdraw is returned when withdraw is called with a zero
	// withdrawable balance.
	ErrNothingToWithdraw = errors.New("nothing to withdraw")

	// ErrEndpointUnavailable marks a single resolve endpoint as unreachable
	// or erroring. Recovered locally by advancing to the next candidate.
	ErrEndpointUnavailable = errors.New("endpoint unavailable")

	// ErrAmbiguousOutcome is returned when a resolve response cannot be
	// classified as accepted, benign duplicate, or hard failure. The raw
	// response is carried in the wrapping error for diagnostics.
	ErrAmbiguousOutcome = errors.New("ambiguous resolve outcome")
)
