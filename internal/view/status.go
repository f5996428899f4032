package view

import "onchainblackjack/internal/types"

// StatusMessage is the banner shown above the table for an outcome.
func StatusMessage(o types.Outcome) string {
	switch o {
	case types.OutcomeWin:
		return "You Win!"
	case types.OutcomeBlackJack:
		return "Blackjack! You Win!"
	case types.OutcomeLose:
		return "Dealer Wins"
	case types.OutcomePush:
		return "It's a Push!"
	case types.OutcomeBust:
		return "Bust!"
	default:
		return "Make your move"
	}
}
