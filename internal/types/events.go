package types

// Event types emitted by the contract host for blackjack txs.
const (
	EventTypeGameStarted  = "GameStarted"
	EventTypeCardDealt    = "CardDealt"
	EventTypeGameSettled  = "GameSettled"
	EventTypePayoutIssued = "PayoutIssued"
	EventTypeHouseFunded  = "HouseFunded"

	AttributeKeyOutcome = "outcome"
	AttributeKeyAmount  = "amount"
	AttributeKeyAsset   = "asset"
)

var blackjackEvents = map[string]bool{
	EventTypeGameStarted:  true,
	EventTypeCardDealt:    true,
	EventTypeGameSettled:  true,
	EventTypePayoutIssued: true,
	EventTypeHouseFunded:  true,
}

// IsBlackjackEvent reports whether typ is emitted by the blackjack contract,
// as opposed to the host's own bookkeeping events.
func IsBlackjackEvent(typ string) bool {
	return blackjackEvents[typ]
}
