package domain

// tichuBonus returns the declaration stake for the tier: 100 for a small
// tichu, 200 for a grand tichu, 0 when nothing was called.
func tichuBonus(p *Player) int {
	switch {
	case p.GrandTichu:
		return 200
	case p.Tichu:
		return 100
	}
	return 0
}

// ComputeRoundScore settles a finished round and returns the point deltas
// for team 0 (seats 0 and 2) and team 1 (seats 1 and 3).
//
// When the first two finishers are partners their team scores a flat 200
// and no card points are counted. Otherwise each team collects the card
// points in its won piles and the last seat still holding cards forfeits
// the points remaining in its hand to the opposing team. Tichu
// declarations settle on top in both cases: the first finisher earns
// their stake, every other declarer loses theirs.
func ComputeRoundScore(g *Game) (int, int) {
	var team [2]int

	first := -1
	if len(g.FinishOrder) > 0 {
		first = g.FinishOrder[0]
	}

	doubleWin := len(g.FinishOrder) >= 2 &&
		TeamOf(g.FinishOrder[0]) == TeamOf(g.FinishOrder[1])

	if doubleWin {
		team[TeamOf(first)] += 200
	} else {
		for seat, p := range g.Players {
			team[TeamOf(seat)] += PointsIn(p.CardsWon)
		}
		for seat, p := range g.Players {
			if len(p.Hand) > 0 {
				team[1-TeamOf(seat)] += PointsIn(p.Hand)
				break
			}
		}
	}

	for seat, p := range g.Players {
		stake := tichuBonus(p)
		if stake == 0 {
			continue
		}
		if seat == first {
			team[TeamOf(seat)] += stake
		} else {
			team[TeamOf(seat)] -= stake
		}
	}

	return team[0], team[1]
}
