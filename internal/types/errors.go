package types

import errorsmod "cosmossdk.io/errors"

// x/blackjack client sentinel errors.
var (
	// Connectivity.
	ErrWalletNotConnected = errorsmod.Register(ModuleName, 1, "wallet not connected")
	ErrWrongNetwork       = errorsmod.Register(ModuleName, 2, "connected to wrong network")

	// Action lifecycle.
	ErrSubmission          = errorsmod.Register(ModuleName, 3, "request submission failed")
	ErrConfirmation        = errorsmod.Register(ModuleName, 4, "request failed to finalize")
	ErrConfirmationTimeout = errorsmod.Register(ModuleName, 5, "timed out waiting for finalization")
	ErrActionDisabled      = errorsmod.Register(ModuleName, 6, "action not allowed in current game state")
	ErrActionInFlight      = errorsmod.Register(ModuleName, 7, "another action is still outstanding")
	ErrInvalidAmount       = errorsmod.Register(ModuleName, 8, "invalid amount")

	// Contract/client mismatch.
	ErrInvalidRank    = errorsmod.Register(ModuleName, 9, "card rank index out of range")
	ErrInvalidOutcome = errorsmod.Register(ModuleName, 10, "unknown game outcome")
	ErrInvalidRecord  = errorsmod.Register(ModuleName, 11, "malformed game record")
	ErrQuery          = errorsmod.Register(ModuleName, 12, "contract query failed")

	ErrNodeUnreachable = errorsmod.Register(ModuleName, 13, "node unreachable")
)
