package types

import sdkmath "cosmossdk.io/math"

// GameRecord is a snapshot of a player's game as reported by the contract.
// The client never mutates it; it is replaced on every read.
type GameRecord struct {
	PlayerCards []uint32
	DealerCards []uint32
	PlayerScore uint32
	// DealerScore is partial until the dealer's second card is revealed.
	DealerScore uint32
	Outcome     Outcome
	Bet         sdkmath.Uint
}

// EmptyRecord is the record of a player who never started a game.
func EmptyRecord() GameRecord {
	return GameRecord{Outcome: OutcomeContinue, Bet: sdkmath.ZeroUint()}
}

// HasStake reports whether the record carries a positive bet.
func (r GameRecord) HasStake() bool {
	if r.Bet == (sdkmath.Uint{}) {
		return false
	}
	return !r.Bet.IsZero()
}
