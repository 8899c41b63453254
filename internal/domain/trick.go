package domain

// IsLegal reports whether the seat may play the combination on the current
// trick. Game-rule rejections come back as ErrInvalidCombination or
// ErrIllegalPlay and never mutate state.
func (g *Game) IsLegal(seat int, cards []Card) error {
	if _, err := g.PlayerAt(seat); err != nil {
		return err
	}
	cat := Classify(cards)
	if cat == Invalid {
		return ErrInvalidCombination
	}

	last := g.lastEntry()
	if ContainsRank(cards, RankDog) && last != nil && !last.IsSentinel() {
		// The Dog only ever leads; dropping it on a standing play would
		// reset the trick with its points still unawarded.
		return ErrIllegalPlay
	}
	if last == nil {
		// First play of the round must include the Mah Jong; beyond
		// that the combination is checked like any other lead.
		if !ContainsRank(cards, RankMahJong) {
			return ErrIllegalPlay
		}
		return nil
	}
	if last.IsSentinel() {
		return nil
	}
	if last.OwnerSeat == seat {
		// The owner of the standing play may continue on top of it.
		return nil
	}

	lastCat := Classify(last.Cards)
	if cat.IsBomb() {
		if !lastCat.IsBomb() {
			return nil
		}
		if Score(cards, g.TrickContext()) > Score(last.Cards, g.lastPlayContext()) {
			return nil
		}
		return ErrIllegalPlay
	}

	if cat == lastCat && len(cards) == len(last.Cards) &&
		Score(cards, g.TrickContext()) > Score(last.Cards, g.lastPlayContext()) {
		return nil
	}
	return ErrIllegalPlay
}

// ApplyPlay moves a legal combination from the seat's hand onto the trick.
// The Dog, playable only as a lead single, hands the turn straight to the
// across-the-table partner and resets the trick without awarding points.
// Illegal plays are rejected with no state mutation.
func (g *Game) ApplyPlay(seat int, cards []Card) error {
	if g.Phase == PhaseEnded {
		return ErrRoundOver
	}
	if seat != g.CurrentTurn {
		return ErrNotYourTurn
	}
	if err := g.IsLegal(seat, cards); err != nil {
		return err
	}

	player := g.Players[seat]
	played := make([]Card, len(cards))
	for i, c := range cards {
		played[i] = Card{Rank: c.Rank, Suit: c.Suit}
	}
	player.Hand = RemoveCards(player.Hand, played)
	g.CardsPlayed = append(g.CardsPlayed, played...)

	if len(played) == 1 && played[0].Rank == RankDog {
		partner := (seat + 2) % NumSeats
		// As if the partner had won an empty trick.
		g.DiscardedHands = []DiscardedHand{{OwnerSeat: partner}}
		g.markFinished(seat)
		if g.roundOver() {
			g.Phase = PhaseEnded
			return nil
		}
		g.CurrentTurn = partner
		if len(g.Players[partner].Hand) == 0 {
			g.AdvanceTurn()
		}
		return nil
	}

	g.DiscardedHands = append(g.DiscardedHands, DiscardedHand{Cards: played, OwnerSeat: seat})
	g.markFinished(seat)
	// Even a decisive play leaves the trick open: remaining holders may
	// still beat or bomb it, and the round only ends once the trick
	// resolves through passes.
	g.AdvanceTurn()
	return nil
}

// ResolvePass records a voluntary pass. When the passing seat is exactly
// three seats after the owner of the standing play, the trick resolves to
// that owner.
func (g *Game) ResolvePass(seat int) error {
	if g.Phase == PhaseEnded {
		return ErrRoundOver
	}
	if _, err := g.PlayerAt(seat); err != nil {
		return err
	}
	if seat != g.CurrentTurn {
		return ErrNotYourTurn
	}
	last := g.lastEntry()
	if last == nil || last.IsSentinel() {
		return ErrMustLead
	}

	resolved := g.resolveIfClosing(seat)
	if g.Phase == PhaseEnded {
		return nil
	}
	if resolved {
		// The winner leads the next trick; skip them if they have
		// already emptied their hand.
		if len(g.Players[g.CurrentTurn].Hand) == 0 {
			g.AdvanceTurn()
		}
		return nil
	}
	g.AdvanceTurn()
	return nil
}

// AdvanceTurn moves to the next seat in fixed rotation, treating emptied
// hands as automatic passes. An automatic pass still counts toward trick
// resolution, so a trick can resolve through a finished seat.
func (g *Game) AdvanceTurn() int {
	for i := 0; i < 2*NumSeats; i++ {
		next := (g.CurrentTurn + 1) % NumSeats
		g.CurrentTurn = next
		if len(g.Players[next].Hand) > 0 || g.Phase == PhaseEnded {
			return next
		}
		if g.resolveIfClosing(next) {
			if g.Phase == PhaseEnded || len(g.Players[g.CurrentTurn].Hand) > 0 {
				return g.CurrentTurn
			}
			// The winner finished too; rotation continues from them.
		}
	}
	return g.CurrentTurn
}

// resolveIfClosing resolves the trick when the passing seat is three seats
// past the last-play owner: every card on the trick moves to the owner's
// won pile, a dragon-topped win fires the give-away hook, and the history
// clears to a sentinel owned by the winner, who acts next.
func (g *Game) resolveIfClosing(passingSeat int) bool {
	last := g.lastEntry()
	if last == nil || last.IsSentinel() {
		return false
	}
	owner := last.OwnerSeat
	if passingSeat != (owner+3)%NumSeats {
		return false
	}

	var trick []Card
	for _, dh := range g.DiscardedHands {
		trick = append(trick, dh.Cards...)
	}
	winner := g.Players[owner]
	winner.CardsWon = append(winner.CardsWon, trick...)

	if ContainsRank(last.Cards, RankDragon) {
		g.lastDragonTrick = append([]Card{}, trick...)
		g.dragonWinner = owner
		if g.DragonGiveAway != nil {
			g.DragonGiveAway(owner, g.lastDragonTrick)
		}
	}

	g.DiscardedHands = []DiscardedHand{{OwnerSeat: owner}}
	g.CurrentTurn = owner

	if g.roundOver() {
		g.Phase = PhaseEnded
	}
	return true
}

// TransferDragonTrick moves the most recent dragon-won trick from the
// winner's pile to the chosen opposing seat. It is the report-back half of
// the DragonGiveAway hook.
func (g *Game) TransferDragonTrick(recipientSeat int) error {
	if _, err := g.PlayerAt(recipientSeat); err != nil {
		return err
	}
	if g.dragonWinner < 0 || TeamOf(recipientSeat) == TeamOf(g.dragonWinner) {
		return ErrIllegalPlay
	}
	winner := g.Players[g.dragonWinner]
	winner.CardsWon = RemoveCards(winner.CardsWon, g.lastDragonTrick)
	recipient := g.Players[recipientSeat]
	recipient.CardsWon = append(recipient.CardsWon, g.lastDragonTrick...)
	g.lastDragonTrick = nil
	g.dragonWinner = -1
	return nil
}

// markFinished appends the seat to the finish order once its hand empties.
func (g *Game) markFinished(seat int) {
	p := g.Players[seat]
	if len(p.Hand) == 0 && !p.Finished {
		p.Finished = true
		g.FinishOrder = append(g.FinishOrder, seat)
	}
}

// roundOver reports whether at most one player, or only one team, still
// holds cards.
func (g *Game) roundOver() bool {
	holders := make([]int, 0, NumSeats)
	for seat, p := range g.Players {
		if len(p.Hand) > 0 {
			holders = append(holders, seat)
		}
	}
	if len(holders) <= 1 {
		return true
	}
	team := TeamOf(holders[0])
	for _, seat := range holders[1:] {
		if TeamOf(seat) != team {
			return false
		}
	}
	return true
}
