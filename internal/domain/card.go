package domain

import "fmt"

// Rank orders the 17 Tichu card ranks. Numeric order is the sole basis for
// strength comparison; suits never decide whether one play beats another.
type Rank int

const (
	RankDog Rank = iota
	RankMahJong
	RankTwo
	RankThree
	RankFour
	RankFive
	RankSix
	RankSeven
	RankEight
	RankNine
	RankTen
	RankJack
	RankQueen
	RankKing
	RankAce
	RankPhoenix
	RankDragon
)

// IsSpecial reports whether the rank belongs to one of the four unique cards.
func (r Rank) IsSpecial() bool {
	switch r {
	case RankDog, RankMahJong, RankPhoenix, RankDragon:
		return true
	}
	return false
}

func (r Rank) String() string {
	switch r {
	case RankDog:
		return "Dog"
	case RankMahJong:
		return "1"
	case RankJack:
		return "J"
	case RankQueen:
		return "Q"
	case RankKing:
		return "K"
	case RankAce:
		return "A"
	case RankPhoenix:
		return "Phoenix"
	case RankDragon:
		return "Dragon"
	default:
		return fmt.Sprintf("%d", int(r))
	}
}

// Suit is used only for flush detection and deterministic display ordering.
type Suit int

const (
	SuitJade Suit = iota
	SuitSword
	SuitPagoda
	SuitStar
)

func (s Suit) String() string {
	switch s {
	case SuitJade:
		return "Jade"
	case SuitSword:
		return "Sword"
	case SuitPagoda:
		return "Pagoda"
	case SuitStar:
		return "Star"
	}
	return "?"
}

// Card is a single Tichu card. Selected and Hidden are presentation flags the
// UI layer toggles; the rules never read them except when collecting a
// player's selected cards into a play.
type Card struct {
	Rank     Rank
	Suit     Suit
	Selected bool
	Hidden   bool
}

// Points returns the card's round-scoring value.
func (c Card) Points() int {
	switch c.Rank {
	case RankFive:
		return 5
	case RankTen, RankKing:
		return 10
	case RankPhoenix:
		return -25
	case RankDragon:
		return 25
	}
	return 0
}

// SameCard reports whether two cards are the same deck instance. All 56 cards
// are unique by rank and suit, so the pair is a stable identity.
func (c Card) SameCard(other Card) bool {
	return c.Rank == other.Rank && c.Suit == other.Suit
}

func (c Card) String() string {
	if c.Rank.IsSpecial() {
		return c.Rank.String()
	}
	return fmt.Sprintf("%s of %ss", c.Rank, c.Suit)
}
