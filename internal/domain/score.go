package domain

import "sort"

// ScoreContext carries the trick history a score can depend on. Only the
// phoenix played as a single is context-sensitive: it is worth half a step
// above the single most recently played before it.
type ScoreContext struct {
	LastPlayed   []Card
	SecondToLast []Card
}

// Score computes the comparable strength of a classified combination. It is
// pure given its context and is used both to rank a player's candidate plays
// and to decide whether a challenger beats the trick's current top. Raw
// scores are only comparable between combinations of the same category and
// card count, except that the x1000 bomb scores outrank every non-bomb.
func Score(cards []Card, ctx ScoreContext) int {
	switch Classify(cards) {
	case Single:
		if cards[0].Rank == RankPhoenix {
			return phoenixSingleScore(ctx)
		}
		return 2 * int(cards[0].Rank)

	case Pair, ThreeOfAKind, Straight, Stairs:
		return int(lowestRealRank(cards)) * len(cards)

	case FullHouse:
		return int(tripleRank(cards)) * 3

	case FourOfAKindBomb:
		return int(cards[0].Rank) * 1000

	case StraightFlushBomb:
		return int(lowestRealRank(cards)) * len(cards) * 1000
	}
	return 0
}

// phoenixSingleScore resolves the phoenix played alone: half a step above
// the previous single, nothing against a dragon, and worth one on an empty
// field. When the previous play was itself the phoenix, the single before it
// is the reference.
func phoenixSingleScore(ctx ScoreContext) int {
	prev := ctx.LastPlayed
	if len(prev) == 1 && prev[0].Rank == RankPhoenix {
		prev = ctx.SecondToLast
	}
	if len(prev) != 1 {
		return 1
	}
	if prev[0].Rank == RankDragon {
		return 0
	}
	return 2*int(prev[0].Rank) + 1
}

// lowestRealRank returns the lowest rank among the non-phoenix cards. A
// straight whose phoenix stands at the low end is thereby scored as if the
// phoenix extended the top instead; the two readings span the same number of
// ranks and this one favors the holder.
func lowestRealRank(cards []Card) Rank {
	lowest := RankDragon
	for _, c := range cards {
		if c.Rank != RankPhoenix && c.Rank < lowest {
			lowest = c.Rank
		}
	}
	return lowest
}

// tripleRank finds the rank of the three-of-a-kind component of a full
// house. When the phoenix leaves a 2+2 remainder it completes the higher
// pair.
func tripleRank(cards []Card) Rank {
	var rest []Card
	for _, c := range cards {
		if c.Rank != RankPhoenix {
			rest = append(rest, c)
		}
	}
	best := RankDog
	for rank, group := range groupByRank(rest) {
		if len(group) == 3 {
			return rank
		}
		if len(group) == 2 && rank > best {
			best = rank
		}
	}
	return best
}

// SortByScore orders combinations by descending strength under the given
// context, the greedy pick order of the CPU player.
func SortByScore(combos []Combination, ctx ScoreContext) {
	sort.SliceStable(combos, func(i, j int) bool {
		return Score(combos[i].Cards, ctx) > Score(combos[j].Cards, ctx)
	})
}
