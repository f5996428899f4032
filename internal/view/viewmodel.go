package view

import (
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"onchainblackjack/internal/types"
)

// MinHandSize is the number of card slots every hand shows, dealt or not.
const MinHandSize = 2

// Score is a hand total that may not be known yet.
type Score struct {
	Value uint32
	Known bool
}

func KnownScore(v uint32) Score { return Score{Value: v, Known: true} }

// UnknownScore is shown for the dealer until the second card is revealed.
func UnknownScore() Score { return Score{} }

func (s Score) String() string {
	if !s.Known {
		return "?"
	}
	return strconv.FormatUint(uint64(s.Value), 10)
}

// ViewModel is what the table displays for one player. It is rebuilt from a
// GameRecord on every refresh and never patched in place.
type ViewModel struct {
	PlayerHand  []Card
	DealerHand  []Card
	PlayerScore Score
	DealerScore Score
	Outcome     types.Outcome
	Bet         sdkmath.Uint

	CanHit    bool
	CanStand  bool
	CanRedeem bool

	// Loaded is false until the first record has been converted.
	Loaded bool
}

// Initial is the table before any record has been read: face-down cards
// everywhere and no action enabled.
func Initial() ViewModel {
	return ViewModel{
		PlayerHand:  []Card{{RankUnknown, Hearts}, {RankUnknown, Spades}},
		DealerHand:  []Card{{RankUnknown, Clubs}, {RankUnknown, Diamonds}},
		DealerScore: UnknownScore(),
		Outcome:     types.OutcomeContinue,
		Bet:         sdkmath.ZeroUint(),
	}
}

// Convert projects a contract game record into a ViewModel.
//
// A rank index outside the contract's alphabet means client and contract
// disagree on the card encoding; it is reported, never rendered.
func Convert(rec types.GameRecord) (ViewModel, error) {
	if !rec.Outcome.IsValid() {
		return ViewModel{}, errorsmod.Wrapf(types.ErrInvalidOutcome, "%d", uint8(rec.Outcome))
	}
	player, err := hand(rec.PlayerCards)
	if err != nil {
		return ViewModel{}, errorsmod.Wrap(err, "player hand")
	}
	dealer, err := hand(rec.DealerCards)
	if err != nil {
		return ViewModel{}, errorsmod.Wrap(err, "dealer hand")
	}

	dealerScore := KnownScore(rec.DealerScore)
	if len(rec.DealerCards) < MinHandSize {
		dealerScore = UnknownScore()
	}

	bet := sdkmath.ZeroUint()
	if rec.HasStake() {
		bet = rec.Bet
	}

	inPlay := rec.Outcome.InPlay()
	return ViewModel{
		PlayerHand:  pad(player),
		DealerHand:  pad(dealer),
		PlayerScore: KnownScore(rec.PlayerScore),
		DealerScore: dealerScore,
		Outcome:     rec.Outcome,
		Bet:         bet,
		CanHit:      inPlay,
		CanStand:    inPlay,
		CanRedeem:   rec.Outcome.Redeemable() && rec.HasStake(),
		Loaded:      true,
	}, nil
}

func hand(idx []uint32) ([]Card, error) {
	cards := make([]Card, 0, max(len(idx), MinHandSize))
	for pos, i := range idx {
		r, ok := RankAt(i)
		if !ok {
			return nil, errorsmod.Wrapf(types.ErrInvalidRank, "index %d at position %d", i, pos)
		}
		cards = append(cards, Card{Rank: r, Suit: SuitAt(pos)})
	}
	return cards, nil
}

func pad(cards []Card) []Card {
	for len(cards) < MinHandSize {
		cards = append(cards, placeholder)
	}
	return cards
}
