package codec

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"onchainblackjack/internal/types"
)

// GameStateResponse is the JSON body of a game state query.
//
// Amounts are decimal strings so u64 stakes survive JSON number handling.
type GameStateResponse struct {
	PlayerCards []uint32      `json:"playerCards"`
	DealerCards []uint32      `json:"dealerCards"`
	PlayerScore uint32        `json:"playerScore"`
	DealerScore uint32        `json:"dealerScore"`
	Outcome     types.Outcome `json:"outcome"`
	Bet         string        `json:"bet"`
}

// BalanceResponse is the JSON body of a balance query.
type BalanceResponse struct {
	Addr    string `json:"addr"`
	Asset   string `json:"asset"`
	Balance string `json:"balance"`
}

// DecodeGameRecord parses a game state query value. An empty value means the
// player has no game yet.
func DecodeGameRecord(b []byte) (types.GameRecord, error) {
	if len(b) == 0 {
		return types.EmptyRecord(), nil
	}
	var resp GameStateResponse
	if err := json.Unmarshal(b, &resp); err != nil {
		return types.GameRecord{}, errorsmod.Wrap(types.ErrInvalidRecord, err.Error())
	}
	bet, err := parseAmount(resp.Bet)
	if err != nil {
		return types.GameRecord{}, errorsmod.Wrapf(types.ErrInvalidRecord, "bet: %v", err)
	}
	return types.GameRecord{
		PlayerCards: resp.PlayerCards,
		DealerCards: resp.DealerCards,
		PlayerScore: resp.PlayerScore,
		DealerScore: resp.DealerScore,
		Outcome:     resp.Outcome,
		Bet:         bet,
	}, nil
}

// DecodeBalance parses a balance query value. Unknown accounts hold nothing.
func DecodeBalance(b []byte) (sdkmath.Uint, error) {
	if len(b) == 0 {
		return sdkmath.ZeroUint(), nil
	}
	var resp BalanceResponse
	if err := json.Unmarshal(b, &resp); err != nil {
		return sdkmath.Uint{}, errorsmod.Wrapf(types.ErrQuery, "invalid balance json: %v", err)
	}
	bal, err := parseAmount(resp.Balance)
	if err != nil {
		return sdkmath.Uint{}, errorsmod.Wrapf(types.ErrQuery, "balance: %v", err)
	}
	return bal, nil
}

func parseAmount(s string) (sdkmath.Uint, error) {
	if s == "" {
		return sdkmath.ZeroUint(), nil
	}
	return sdkmath.ParseUint(s)
}
