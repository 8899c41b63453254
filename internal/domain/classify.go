package domain

// HandCategory is the combination type a set of cards forms.
type HandCategory int

const (
	Invalid HandCategory = iota
	Single
	Pair
	ThreeOfAKind
	FullHouse
	Straight
	Stairs
	FourOfAKindBomb
	StraightFlushBomb
)

func (h HandCategory) String() string {
	switch h {
	case Single:
		return "Single"
	case Pair:
		return "Pair"
	case ThreeOfAKind:
		return "ThreeOfAKind"
	case FullHouse:
		return "FullHouse"
	case Straight:
		return "Straight"
	case Stairs:
		return "Stairs"
	case FourOfAKindBomb:
		return "FourOfAKindBomb"
	case StraightFlushBomb:
		return "StraightFlushBomb"
	}
	return "Invalid"
}

// IsBomb reports whether the category always beats non-bomb combinations.
func (h HandCategory) IsBomb() bool {
	return h == FourOfAKindBomb || h == StraightFlushBomb
}

// Classify determines the combination category of an unordered set of cards,
// honoring the phoenix as a wildcard. Dispatch is by card count; within a
// count the checks run in fixed priority order, so a five-card full house is
// never reported as a straight and a failed quad bomb still gets a stairs
// check.
func Classify(cards []Card) HandCategory {
	n := len(cards)
	phoenix := ContainsRank(cards, RankPhoenix)

	switch {
	case n == 0:
		return Invalid

	case n == 1:
		return Single

	case n == 2:
		if cards[0].Rank == cards[1].Rank || phoenix {
			return Pair
		}
		return Invalid

	case n == 3:
		if cards[0].Rank == cards[1].Rank && cards[1].Rank == cards[2].Rank {
			return ThreeOfAKind
		}
		if phoenix && pairAmongOthers(cards) {
			return ThreeOfAKind
		}
		return Invalid

	case n == 4:
		if cards[0].Rank == cards[1].Rank && cards[1].Rank == cards[2].Rank && cards[2].Rank == cards[3].Rank {
			// Never via phoenix substitution: the phoenix rank differs.
			return FourOfAKindBomb
		}
		if isStairs(cards) {
			return Stairs
		}
		return Invalid

	case n == 5:
		if isFullHouse(cards) {
			return FullHouse
		}
		return classifyRun(cards)

	default:
		if n%2 == 0 && isStairs(cards) {
			return Stairs
		}
		return classifyRun(cards)
	}
}

// pairAmongOthers reports whether the two non-phoenix cards of a three-card
// set share a rank.
func pairAmongOthers(cards []Card) bool {
	var others []Card
	for _, c := range cards {
		if c.Rank != RankPhoenix {
			others = append(others, c)
		}
	}
	return len(others) == 2 && others[0].Rank == others[1].Rank
}

// isFullHouse checks the exact {3+2} composition, letting the phoenix
// complete either a {3+1} or a {2+2} remainder.
func isFullHouse(cards []Card) bool {
	if len(cards) != 5 {
		return false
	}
	var rest []Card
	phoenix := false
	for _, c := range cards {
		if c.Rank == RankPhoenix {
			phoenix = true
			continue
		}
		rest = append(rest, c)
	}

	counts := make([]int, 0, 2)
	for _, group := range groupByRank(rest) {
		counts = append(counts, len(group))
	}

	if !phoenix {
		if len(counts) != 2 {
			return false
		}
		return (counts[0] == 3 && counts[1] == 2) || (counts[0] == 2 && counts[1] == 3)
	}
	if len(counts) != 2 {
		return false
	}
	// {3+1}: phoenix pairs the lone card. {2+2}: it completes either group.
	return counts[0]+counts[1] == 4
}

// isStairs checks for a consecutive run of same-rank pairs, descending one
// rank per pair, with the phoenix excusing at most one missing partner. Dog
// and Dragon can never be stairs members.
func isStairs(cards []Card) bool {
	n := len(cards)
	if n < 4 || n%2 != 0 {
		return false
	}

	var rest []Card
	phoenix := false
	for _, c := range cards {
		switch c.Rank {
		case RankPhoenix:
			phoenix = true
		case RankDog, RankDragon:
			return false
		default:
			rest = append(rest, c)
		}
	}

	groups := groupByRank(rest)
	if len(groups) != n/2 {
		return false
	}

	SortByRank(rest)
	for rank := rest[0].Rank; len(groups[rank]) > 0; rank-- {
		switch len(groups[rank]) {
		case 2:
		case 1:
			if !phoenix {
				return false
			}
			phoenix = false
		default:
			return false
		}
		delete(groups, rank)
	}
	// Anything left means the pair ranks were not consecutive.
	return len(groups) == 0
}

// classifyRun distinguishes Straight from StraightFlushBomb for five or more
// cards, or returns Invalid. The phoenix may bridge exactly one single-rank
// gap or extend one end of the run; Dog and Dragon never participate. A
// phoenix-assisted run still counts as a flush when every real card shares
// one suit.
func classifyRun(cards []Card) HandCategory {
	if len(cards) < 5 {
		return Invalid
	}

	var rest []Card
	phoenix := false
	for _, c := range cards {
		switch c.Rank {
		case RankPhoenix:
			phoenix = true
		case RankDog, RankDragon:
			return Invalid
		default:
			rest = append(rest, c)
		}
	}

	SortByRank(rest)
	gaps := 0
	for i := 0; i < len(rest)-1; i++ {
		switch rest[i].Rank - rest[i+1].Rank {
		case 1:
		case 2:
			gaps++
		default:
			return Invalid
		}
	}

	switch {
	case gaps == 0 && phoenix:
		// Extend one end by a rank; there is no rank above the Ace or
		// below the Mah Jong to stand in for.
		if rest[0].Rank == RankAce && rest[len(rest)-1].Rank == RankMahJong {
			return Invalid
		}
	case gaps == 1 && phoenix:
	case gaps == 0 && !phoenix:
	default:
		return Invalid
	}

	suit := rest[0].Suit
	for _, c := range rest[1:] {
		if c.Suit != suit {
			return Straight
		}
	}
	return StraightFlushBomb
}
