package domain

import (
	"math/rand"
	"sort"
)

// DeckSize is the full Tichu deck: 52 suited cards plus the four specials.
const DeckSize = 56

// NewDeck returns the ordered 56-card deck. The four special cards exist as
// single copies and carry an arbitrary fixed suit.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for s := SuitJade; s <= SuitStar; s++ {
		for r := RankTwo; r <= RankAce; r++ {
			deck = append(deck, Card{Rank: r, Suit: s, Hidden: true})
		}
	}
	for _, r := range []Rank{RankDog, RankMahJong, RankPhoenix, RankDragon} {
		deck = append(deck, Card{Rank: r, Suit: SuitJade, Hidden: true})
	}
	return deck
}

// ShuffleDeck returns a shuffled copy of the given deck.
func ShuffleDeck(deck []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// SortByRank orders cards in place, highest rank first, suit breaking ties.
// The order is deterministic: sorting twice yields the same sequence.
func SortByRank(cards []Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Rank != cards[j].Rank {
			return cards[i].Rank > cards[j].Rank
		}
		return cards[i].Suit > cards[j].Suit
	})
}

// Sorted returns a descending-sorted copy, leaving the input untouched.
func Sorted(cards []Card) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	SortByRank(out)
	return out
}

// RemoveCards removes the played cards from a hand and returns the updated
// hand. Matching is by card identity, so presentation flags do not interfere.
func RemoveCards(hand []Card, played []Card) []Card {
	out := append([]Card{}, hand...)
	for _, pc := range played {
		for i := 0; i < len(out); i++ {
			if out[i].SameCard(pc) {
				out = append(out[:i], out[i+1:]...)
				break
			}
		}
	}
	return out
}

// ContainsRank reports whether any card in the set carries the given rank.
func ContainsRank(cards []Card, rank Rank) bool {
	for _, c := range cards {
		if c.Rank == rank {
			return true
		}
	}
	return false
}

// CountRank returns how many cards of the given rank the set holds.
func CountRank(cards []Card, rank Rank) int {
	n := 0
	for _, c := range cards {
		if c.Rank == rank {
			n++
		}
	}
	return n
}

// groupByRank buckets cards by rank, preserving input order inside a bucket.
func groupByRank(cards []Card) map[Rank][]Card {
	groups := make(map[Rank][]Card)
	for _, c := range cards {
		groups[c.Rank] = append(groups[c.Rank], c)
	}
	return groups
}

// PointsIn sums the card point values of the set.
func PointsIn(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.Points()
	}
	return total
}
