package view

import (
	"fmt"
	"io"
	"strings"

	sdkmath "cosmossdk.io/math"
	"github.com/fatih/color"
)

// Table is the text rendering of a ViewModel with the player's funds.
type Table struct {
	View    ViewModel
	Balance sdkmath.Uint
	Bet     sdkmath.Uint
	Asset   string
}

// Renderer writes tables to a terminal.
type Renderer struct {
	// Color enables ANSI colors for red suits and the status banner.
	Color bool
}

func (r Renderer) Render(w io.Writer, t Table) error {
	red := color.New(color.FgRed)
	bold := color.New(color.Bold)
	if r.Color {
		red.EnableColor()
		bold.EnableColor()
	} else {
		red.DisableColor()
		bold.DisableColor()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", bold.Sprint(StatusMessage(t.View.Outcome)))
	fmt.Fprintf(&b, "Dealer  [%s]  score %s\n", r.hand(red, t.View.DealerHand), t.View.DealerScore)
	fmt.Fprintf(&b, "Player  [%s]  score %s\n\n", r.hand(red, t.View.PlayerHand), t.View.PlayerScore)
	fmt.Fprintf(&b, "Balance %s %s   Bet %s %s\n", amount(t.Balance), t.Asset, amount(t.Bet), t.Asset)
	fmt.Fprintf(&b, "Actions %s\n", actions(t.View))

	_, err := io.WriteString(w, b.String())
	return err
}

func (r Renderer) hand(red *color.Color, cards []Card) string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		s := c.String()
		if !c.Hidden() && c.Suit.Red() {
			s = red.Sprint(s)
		}
		out = append(out, s)
	}
	return strings.Join(out, " ")
}

func actions(vm ViewModel) string {
	var enabled []string
	if vm.CanHit {
		enabled = append(enabled, "hit")
	}
	if vm.CanStand {
		enabled = append(enabled, "stand")
	}
	if vm.CanRedeem {
		enabled = append(enabled, "redeem")
	}
	enabled = append(enabled, "new", "fund")
	return strings.Join(enabled, " ")
}

func amount(u sdkmath.Uint) string {
	if u == (sdkmath.Uint{}) {
		return "-"
	}
	return u.String()
}
