package view

// Rank is a displayed card rank.
type Rank string

// RankUnknown marks a face-down or not-yet-dealt card.
const RankUnknown Rank = "?"

// ranks is indexed by the contract's rank index (0 = ace).
var ranks = [...]Rank{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// NumRanks is the size of the contract's rank alphabet.
const NumRanks = len(ranks)

// RankAt returns the rank for a contract rank index.
func RankAt(i uint32) (Rank, bool) {
	if i >= uint32(len(ranks)) {
		return RankUnknown, false
	}
	return ranks[i], true
}

// Suit is decorative: the contract deals ranks only.
type Suit string

const (
	Hearts   Suit = "hearts"
	Spades   Suit = "spades"
	Clubs    Suit = "clubs"
	Diamonds Suit = "diamonds"
)

var suitCycle = [...]Suit{Hearts, Spades, Clubs, Diamonds}

// SuitAt assigns a suit by position in the hand.
func SuitAt(pos int) Suit {
	return suitCycle[pos%len(suitCycle)]
}

func (s Suit) Symbol() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	default:
		return ""
	}
}

// Red reports whether the suit is printed in red.
func (s Suit) Red() bool {
	return s == Hearts || s == Diamonds
}

type Card struct {
	Rank Rank
	Suit Suit
}

// Hidden reports whether the card is shown face-down.
func (c Card) Hidden() bool {
	return c.Rank == RankUnknown
}

func (c Card) String() string {
	if c.Hidden() {
		return string(RankUnknown)
	}
	return string(c.Rank) + c.Suit.Symbol()
}

// placeholder fills hands up to MinHandSize.
var placeholder = Card{Rank: RankUnknown, Suit: Spades}
