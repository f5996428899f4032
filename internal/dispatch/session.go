package dispatch

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	"onchainblackjack/internal/contract"
	"onchainblackjack/internal/types"
)

// Session binds a contract client to one player on one network. It replaces
// the wallet-scoped globals of a browser front end: everything the dispatcher
// needs travels in it explicitly.
type Session struct {
	Client  contract.Client
	Player  string
	Asset   string
	Network string
}

// Connect checks that a signer is present and that the node is on the
// expected network. Both failures are final for the session.
func Connect(ctx context.Context, client contract.Client, chainID, asset string) (*Session, error) {
	if client == nil || client.Player() == "" {
		return nil, types.ErrWalletNotConnected
	}
	network, err := client.Network(ctx)
	if err != nil {
		return nil, err
	}
	if network != chainID {
		return nil, errorsmod.Wrapf(types.ErrWrongNetwork, "node is on %q, switch to %q", network, chainID)
	}
	return &Session{
		Client:  client,
		Player:  client.Player(),
		Asset:   asset,
		Network: network,
	}, nil
}
