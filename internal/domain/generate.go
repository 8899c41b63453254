package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Combination is a playable subset of a hand together with its category.
type Combination struct {
	Category HandCategory
	Cards    []Card
}

// GenerateAllCombinations enumerates every distinct combination embedded in
// the hand that classifies as non-Invalid. Output order is unspecified;
// callers rank the result with Score. The generators are polynomial in hand
// size: straights and stairs come from greedy chain scans, never from subset
// enumeration.
func GenerateAllCombinations(hand []Card) []Combination {
	var out []Combination
	seen := make(map[string]bool)

	emit := func(cards []Card) {
		cat := Classify(cards)
		if cat == Invalid {
			return
		}
		key := comboKey(cards)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, Combination{Category: cat, Cards: cards})
	}

	for _, c := range hand {
		emit([]Card{c})
	}
	generateSets(hand, emit)
	generateStraights(hand, emit)
	generateStairs(hand, emit)
	generateFullHouses(hand, emit)

	return out
}

// comboKey is a stable identity for a card set regardless of order.
func comboKey(cards []Card) string {
	sorted := Sorted(cards)
	var b strings.Builder
	for _, c := range sorted {
		fmt.Fprintf(&b, "%d.%d;", c.Rank, c.Suit)
	}
	return b.String()
}

// generateSets emits pairs, triples and four-of-a-kind bombs from rank
// groups, plus phoenix-completed pairs and triples. The phoenix never joins
// a four of a kind, and the other specials are single copies that only play
// as singles.
func generateSets(hand []Card, emit func([]Card)) {
	phoenix, hasPhoenix := findPhoenix(hand)

	var suited []Card
	for _, c := range hand {
		if !c.Rank.IsSpecial() {
			suited = append(suited, c)
		}
	}

	for _, group := range groupByRank(suited) {
		k := len(group)
		for i := 0; i < k-1; i++ {
			for j := i + 1; j < k; j++ {
				emit([]Card{group[i], group[j]})
				for l := j + 1; l < k; l++ {
					emit([]Card{group[i], group[j], group[l]})
				}
			}
		}
		if k == 4 {
			emit([]Card{group[0], group[1], group[2], group[3]})
		}

		if hasPhoenix {
			emit([]Card{group[0], phoenix})
			for i := 0; i < k-1; i++ {
				for j := i + 1; j < k; j++ {
					emit([]Card{group[i], group[j], phoenix})
				}
			}
		}
	}
}

// generateStraights scans the hand sorted descending, one card per rank,
// building maximal consecutive chains. The phoenix, available at most once
// globally, bridges exactly a one-rank gap. Every contiguous sub-chain of
// length five or more is emitted, since shorter sub-straights are
// independently playable, and an unused phoenix also extends each four-plus
// sub-chain by one rank at an end.
func generateStraights(hand []Card, emit func([]Card)) {
	phoenix, hasPhoenix := findPhoenix(hand)
	phoenixAvailable := hasPhoenix

	// One card per rank; Dog and Dragon can never join a straight.
	byRank := make(map[Rank]Card)
	for _, c := range Sorted(hand) {
		if c.Rank == RankDog || c.Rank == RankDragon || c.Rank == RankPhoenix {
			continue
		}
		if _, ok := byRank[c.Rank]; !ok {
			byRank[c.Rank] = c
		}
	}

	ranks := make([]Rank, 0, len(byRank))
	for r := range byRank {
		ranks = append(ranks, r)
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i] > ranks[j] })

	var chain []Card
	flush := func() {
		emitSubChains(chain, emit)
		if hasPhoenix {
			emitPhoenixExtensions(chain, phoenix, emit)
		}
		chain = nil
	}

	for _, r := range ranks {
		c := byRank[r]
		if len(chain) == 0 {
			chain = append(chain, c)
			continue
		}
		prev := chain[len(chain)-1]
		switch prev.Rank - c.Rank {
		case 1:
			chain = append(chain, c)
		case 2:
			if phoenixAvailable {
				chain = append(chain, phoenix, c)
				phoenixAvailable = false
			} else {
				flush()
				chain = append(chain, c)
			}
		default:
			flush()
			chain = append(chain, c)
		}
	}
	flush()
}

// emitSubChains emits every contiguous window of length >= 5 of a chain.
func emitSubChains(chain []Card, emit func([]Card)) {
	for length := 5; length <= len(chain); length++ {
		for start := 0; start+length <= len(chain); start++ {
			sub := make([]Card, length)
			copy(sub, chain[start:start+length])
			emit(sub)
		}
	}
}

// emitPhoenixExtensions emits each contiguous window of four or more real
// cards with the phoenix appended, covering straights that the phoenix
// lengthens at an end instead of bridging. Windows already holding the
// phoenix as a bridge are skipped, and the classifier rejects the full Mah
// Jong to Ace span where neither end is free.
func emitPhoenixExtensions(chain []Card, phoenix Card, emit func([]Card)) {
	for length := 4; length <= len(chain); length++ {
		for start := 0; start+length <= len(chain); start++ {
			window := chain[start : start+length]
			if ContainsRank(window, RankPhoenix) {
				continue
			}
			sub := make([]Card, 0, length+1)
			sub = append(sub, window...)
			sub = append(sub, phoenix)
			emit(sub)
		}
	}
}

// generateStairs grows a run of rank-pairs upward from each starting rank,
// letting the phoenix stand in for at most one missing partner, and emits
// every even run length from four up to the maximal run.
func generateStairs(hand []Card, emit func([]Card)) {
	phoenix, hasPhoenix := findPhoenix(hand)

	groups := make(map[Rank][]Card)
	for _, c := range hand {
		if c.Rank == RankDog || c.Rank == RankDragon || c.Rank == RankPhoenix {
			continue
		}
		groups[c.Rank] = append(groups[c.Rank], c)
	}

	for start := RankMahJong; start <= RankAce; start++ {
		var run []Card
		phoenixUsed := false
		for rank := start; rank <= RankAce; rank++ {
			cards := groups[rank]
			if len(cards) >= 2 {
				run = append(run, cards[0], cards[1])
			} else if len(cards) == 1 && hasPhoenix && !phoenixUsed {
				run = append(run, cards[0], phoenix)
				phoenixUsed = true
			} else {
				break
			}
			if len(run) >= 4 {
				emit(append([]Card{}, run...))
			}
		}
	}
}

// generateFullHouses combines every satisfiable triple rank with every
// satisfiable pair rank, the phoenix completing at most one side per emitted
// combination.
func generateFullHouses(hand []Card, emit func([]Card)) {
	phoenix, hasPhoenix := findPhoenix(hand)

	groups := make(map[Rank][]Card)
	for _, c := range hand {
		if !c.Rank.IsSpecial() {
			groups[c.Rank] = append(groups[c.Rank], c)
		}
	}

	type side struct {
		cards       []Card
		withPhoenix bool
	}
	triples := make(map[Rank]side)
	pairs := make(map[Rank]side)

	for rank, cards := range groups {
		if len(cards) >= 3 {
			triples[rank] = side{cards: cards[:3]}
		} else if len(cards) == 2 && hasPhoenix {
			triples[rank] = side{cards: []Card{cards[0], cards[1], phoenix}, withPhoenix: true}
		}
		if len(cards) >= 2 {
			pairs[rank] = side{cards: cards[:2]}
		} else if len(cards) == 1 && hasPhoenix {
			pairs[rank] = side{cards: []Card{cards[0], phoenix}, withPhoenix: true}
		}
	}

	for tripleRank, triple := range triples {
		for pairRank, pair := range pairs {
			if tripleRank == pairRank || (triple.withPhoenix && pair.withPhoenix) {
				continue
			}
			combo := make([]Card, 0, 5)
			combo = append(combo, triple.cards...)
			combo = append(combo, pair.cards...)
			emit(combo)
		}
	}
}

func findPhoenix(hand []Card) (Card, bool) {
	for _, c := range hand {
		if c.Rank == RankPhoenix {
			return c, true
		}
	}
	return Card{}, false
}
