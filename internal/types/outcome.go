package types

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
)

// Outcome is the contract's verdict on the current hand.
type Outcome uint8

const (
	OutcomeContinue Outcome = iota
	OutcomeWin
	OutcomeBlackJack
	OutcomeLose
	OutcomeBust
	OutcomePush
)

var outcomeTags = [...]string{
	OutcomeContinue:  "Continue",
	OutcomeWin:       "Win",
	OutcomeBlackJack: "BlackJack",
	OutcomeLose:      "Lose",
	OutcomeBust:      "Bust",
	OutcomePush:      "Push",
}

// Outcomes lists every outcome in declaration order.
func Outcomes() []Outcome {
	return []Outcome{OutcomeContinue, OutcomeWin, OutcomeBlackJack, OutcomeLose, OutcomeBust, OutcomePush}
}

// String returns the contract's tag for o. It is the only serialization of an
// outcome used on the wire.
func (o Outcome) String() string {
	if int(o) < len(outcomeTags) {
		return outcomeTags[o]
	}
	return "Unknown"
}

// IsValid reports whether o is one of the declared outcomes.
func (o Outcome) IsValid() bool {
	return int(o) < len(outcomeTags)
}

// InPlay reports whether the hand is still open for hit/stand.
func (o Outcome) InPlay() bool {
	return o == OutcomeContinue
}

// Redeemable reports whether the outcome pays out to the player.
func (o Outcome) Redeemable() bool {
	switch o {
	case OutcomeWin, OutcomeBlackJack, OutcomePush:
		return true
	default:
		return false
	}
}

// ParseOutcome maps a contract tag back to an Outcome.
func ParseOutcome(tag string) (Outcome, error) {
	for i, t := range outcomeTags {
		if t == tag {
			return Outcome(i), nil
		}
	}
	return 0, errorsmod.Wrapf(ErrInvalidOutcome, "%q", tag)
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	if !o.IsValid() {
		return nil, errorsmod.Wrapf(ErrInvalidOutcome, "%d", uint8(o))
	}
	return json.Marshal(o.String())
}

func (o *Outcome) UnmarshalJSON(b []byte) error {
	var tag string
	if err := json.Unmarshal(b, &tag); err != nil {
		return errorsmod.Wrap(ErrInvalidOutcome, err.Error())
	}
	parsed, err := ParseOutcome(tag)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
