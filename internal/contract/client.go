package contract

import (
	"context"

	sdkmath "cosmossdk.io/math"

	"onchainblackjack/internal/codec"
	"onchainblackjack/internal/types"
)

// Client is the blackjack contract as seen from the player's side. Reads have
// no side effects; every submit returns once the request is accepted into the
// mempool, not when it is final.
type Client interface {
	// Player is the identity requests are signed as.
	Player() string

	GameState(ctx context.Context, player string) (types.GameRecord, error)
	Balance(ctx context.Context, player, asset string) (sdkmath.Uint, error)

	Start(ctx context.Context, seed string, bet sdkmath.Uint, asset string) (PendingRequest, error)
	Hit(ctx context.Context, seed string) (PendingRequest, error)
	Stand(ctx context.Context, seed string) (PendingRequest, error)
	Redeem(ctx context.Context, outcome types.Outcome) (PendingRequest, error)
	Fund(ctx context.Context, amount sdkmath.Uint, asset string) (PendingRequest, error)

	// Network returns the chain id of the connected node.
	Network(ctx context.Context) (string, error)
}

// PendingRequest is a submitted request that has not settled yet.
type PendingRequest interface {
	Hash() string
	// Wait blocks until the request is final or ctx is done.
	Wait(ctx context.Context) (Result, error)
}

// Result describes a finalized request.
type Result struct {
	Hash   string
	Height int64
	Log    string
	// Events are the contract events the request emitted, in order.
	Events []Event
}

// Event is a contract event with its attributes in emission order.
type Event struct {
	Type       string
	Attributes []Attribute
}

type Attribute struct {
	Key   string
	Value string
}

// Attr returns the value of the first attribute named key.
func (e Event) Attr(key string) (string, bool) {
	for _, a := range e.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Signer authenticates envelopes on behalf of a player.
type Signer interface {
	Address() string
	Sign(env *codec.TxEnvelope)
}
