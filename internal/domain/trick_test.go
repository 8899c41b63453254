package domain

import (
	"errors"
	"testing"
)

// newTestGame seats four players in the playing phase with the given hands
// and puts the turn on seat 0.
func newTestGame(hands [NumSeats][]Card) *Game {
	var players [NumSeats]*Player
	for seat := range players {
		players[seat] = &Player{
			ID:     string(rune('a' + seat)),
			Seat:   seat,
			Active: true,
			Hand:   append([]Card{}, hands[seat]...),
		}
	}
	g := NewGame(players)
	g.Phase = PhasePlaying
	return g
}

func TestIsLegalFirstPlayNeedsMahJong(t *testing.T) {
	g := newTestGame([NumSeats][]Card{
		{tc(RankMahJong, SuitJade), tc(RankFive, SuitSword)},
		{tc(RankNine, SuitStar)},
		{tc(RankTen, SuitJade)},
		{tc(RankJack, SuitSword)},
	})

	if err := g.IsLegal(0, []Card{tc(RankFive, SuitSword)}); !errors.Is(err, ErrIllegalPlay) {
		t.Fatalf("opening without the mah jong should be illegal, got %v", err)
	}
	if err := g.IsLegal(0, []Card{tc(RankMahJong, SuitJade)}); err != nil {
		t.Fatalf("opening with the mah jong should be legal, got %v", err)
	}
}

func TestIsLegalPairChallenge(t *testing.T) {
	g := newTestGame([NumSeats][]Card{
		{tc(RankFive, SuitJade), tc(RankFive, SuitSword)},
		{tc(RankEight, SuitJade), tc(RankEight, SuitSword), tc(RankFour, SuitJade), tc(RankFour, SuitSword)},
		{tc(RankNine, SuitStar)},
		{tc(RankTen, SuitPagoda)},
	})
	g.DiscardedHands = []DiscardedHand{{
		Cards:     []Card{tc(RankFive, SuitJade), tc(RankFive, SuitSword)},
		OwnerSeat: 0,
	}}

	if err := g.IsLegal(1, []Card{tc(RankEight, SuitJade), tc(RankEight, SuitSword)}); err != nil {
		t.Fatalf("higher pair should beat lower pair, got %v", err)
	}
	if err := g.IsLegal(1, []Card{tc(RankFour, SuitJade), tc(RankFour, SuitSword)}); !errors.Is(err, ErrIllegalPlay) {
		t.Fatalf("lower pair should be rejected, got %v", err)
	}
	// The owner of the standing play may pile on anything valid.
	if err := g.IsLegal(0, []Card{tc(RankFour, SuitJade), tc(RankFour, SuitSword)}); err != nil {
		t.Fatalf("owner continuation should be legal, got %v", err)
	}
	// A single cannot answer a pair.
	if err := g.IsLegal(1, []Card{tc(RankNine, SuitStar)}); !errors.Is(err, ErrIllegalPlay) {
		t.Fatalf("category mismatch should be rejected, got %v", err)
	}
}

func TestIsLegalBombs(t *testing.T) {
	bomb := []Card{
		tc(RankNine, SuitJade), tc(RankNine, SuitSword),
		tc(RankNine, SuitPagoda), tc(RankNine, SuitStar),
	}
	smallBomb := []Card{
		tc(RankThree, SuitJade), tc(RankThree, SuitSword),
		tc(RankThree, SuitPagoda), tc(RankThree, SuitStar),
	}
	g := newTestGame([NumSeats][]Card{
		{tc(RankAce, SuitJade)},
		bomb,
		smallBomb,
		{tc(RankTen, SuitPagoda)},
	})
	g.DiscardedHands = []DiscardedHand{{Cards: []Card{tc(RankAce, SuitJade)}, OwnerSeat: 0}}

	if err := g.IsLegal(1, bomb); err != nil {
		t.Fatalf("bomb should beat any non-bomb, got %v", err)
	}

	g.DiscardedHands = append(g.DiscardedHands, DiscardedHand{Cards: bomb, OwnerSeat: 1})
	if err := g.IsLegal(2, smallBomb); !errors.Is(err, ErrIllegalPlay) {
		t.Fatalf("weaker bomb should not beat a stronger bomb, got %v", err)
	}
}

func TestApplyPlayMovesCards(t *testing.T) {
	g := newTestGame([NumSeats][]Card{
		{tc(RankMahJong, SuitJade), tc(RankFive, SuitSword)},
		{tc(RankNine, SuitStar)},
		{tc(RankTen, SuitJade)},
		{tc(RankJack, SuitSword)},
	})

	if err := g.ApplyPlay(0, []Card{tc(RankMahJong, SuitJade)}); err != nil {
		t.Fatalf("ApplyPlay: %v", err)
	}
	if len(g.Players[0].Hand) != 1 {
		t.Fatalf("hand size after play = %d, want 1", len(g.Players[0].Hand))
	}
	if len(g.CardsPlayed) != 1 || g.CardsPlayed[0].Rank != RankMahJong {
		t.Fatalf("played cards not recorded: %v", g.CardsPlayed)
	}
	if g.CurrentTurn != 1 {
		t.Fatalf("turn should advance to seat 1, is %d", g.CurrentTurn)
	}
	if err := g.ApplyPlay(2, []Card{tc(RankTen, SuitJade)}); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("out-of-turn play should be rejected, got %v", err)
	}
}

func TestApplyPlayDogHandsTurnToPartner(t *testing.T) {
	g := newTestGame([NumSeats][]Card{
		{tc(RankDog, SuitJade), tc(RankFive, SuitSword)},
		{tc(RankNine, SuitStar)},
		{tc(RankTen, SuitJade)},
		{tc(RankJack, SuitSword)},
	})
	g.DiscardedHands = []DiscardedHand{{OwnerSeat: 0}} // fresh trick

	if err := g.ApplyPlay(0, []Card{tc(RankDog, SuitJade)}); err != nil {
		t.Fatalf("ApplyPlay dog: %v", err)
	}
	if g.CurrentTurn != 2 {
		t.Fatalf("dog should pass the lead to the partner, turn is %d", g.CurrentTurn)
	}
	last := g.DiscardedHands[len(g.DiscardedHands)-1]
	if !last.IsSentinel() || last.OwnerSeat != 2 {
		t.Fatalf("dog should reset the trick for the partner, got %+v", last)
	}
	if PointsIn(g.Players[2].CardsWon) != 0 || len(g.Players[2].CardsWon) != 0 {
		t.Fatal("dog must not award any cards")
	}
}

func TestResolvePassAwardsTrick(t *testing.T) {
	g := newTestGame([NumSeats][]Card{
		{tc(RankTen, SuitJade), tc(RankTwo, SuitJade)},
		{tc(RankNine, SuitStar), tc(RankTwo, SuitSword)},
		{tc(RankEight, SuitJade), tc(RankTwo, SuitPagoda)},
		{tc(RankJack, SuitSword), tc(RankTwo, SuitStar)},
	})
	g.DiscardedHands = []DiscardedHand{{OwnerSeat: 0}}

	if err := g.ApplyPlay(0, []Card{tc(RankTen, SuitJade)}); err != nil {
		t.Fatalf("lead: %v", err)
	}
	for _, seat := range []int{1, 2} {
		if err := g.ResolvePass(seat); err != nil {
			t.Fatalf("pass seat %d: %v", seat, err)
		}
	}
	// Third pass closes the trick: the ten goes to seat 0's pile and seat 0
	// leads again.
	if err := g.ResolvePass(3); err != nil {
		t.Fatalf("closing pass: %v", err)
	}
	if PointsIn(g.Players[0].CardsWon) != 10 {
		t.Fatalf("winner pile points = %d, want 10", PointsIn(g.Players[0].CardsWon))
	}
	if g.CurrentTurn != 0 {
		t.Fatalf("trick winner should lead next, turn is %d", g.CurrentTurn)
	}
	last := g.DiscardedHands[len(g.DiscardedHands)-1]
	if !last.IsSentinel() || last.OwnerSeat != 0 {
		t.Fatalf("history should reset to the winner's sentinel, got %+v", last)
	}
}

func TestResolvePassCannotPassOnLead(t *testing.T) {
	g := newTestGame([NumSeats][]Card{
		{tc(RankTen, SuitJade)},
		{tc(RankNine, SuitStar)},
		{tc(RankEight, SuitJade)},
		{tc(RankJack, SuitSword)},
	})
	g.DiscardedHands = []DiscardedHand{{OwnerSeat: 0}}

	if err := g.ResolvePass(0); !errors.Is(err, ErrMustLead) {
		t.Fatalf("the leader must play, got %v", err)
	}
}

func TestDragonTrickGiveAway(t *testing.T) {
	g := newTestGame([NumSeats][]Card{
		{tc(RankDragon, SuitJade), tc(RankTwo, SuitJade)},
		{tc(RankNine, SuitStar), tc(RankTwo, SuitSword)},
		{tc(RankEight, SuitJade), tc(RankTwo, SuitPagoda)},
		{tc(RankFive, SuitSword), tc(RankTwo, SuitStar)},
	})
	g.DiscardedHands = []DiscardedHand{{OwnerSeat: 3}}
	g.CurrentTurn = 3

	var hookSeat = -1
	var hookTrick []Card
	g.DragonGiveAway = func(winnerSeat int, trick []Card) {
		hookSeat = winnerSeat
		hookTrick = trick
	}

	if err := g.ApplyPlay(3, []Card{tc(RankFive, SuitSword)}); err != nil {
		t.Fatalf("lead: %v", err)
	}
	if err := g.ApplyPlay(0, []Card{tc(RankDragon, SuitJade)}); err != nil {
		t.Fatalf("dragon: %v", err)
	}
	for _, seat := range []int{1, 2} {
		if err := g.ResolvePass(seat); err != nil {
			t.Fatalf("pass seat %d: %v", seat, err)
		}
	}
	if err := g.ResolvePass(3); err != nil {
		t.Fatalf("closing pass: %v", err)
	}

	if hookSeat != 0 {
		t.Fatalf("give-away hook winner = %d, want 0", hookSeat)
	}
	if PointsIn(hookTrick) != 30 {
		t.Fatalf("give-away trick points = %d, want 30", PointsIn(hookTrick))
	}
	// The winner holds the cards until the transfer is reported back.
	if PointsIn(g.Players[0].CardsWon) != 30 {
		t.Fatalf("winner pile points = %d, want 30", PointsIn(g.Players[0].CardsWon))
	}

	if err := g.TransferDragonTrick(2); !errors.Is(err, ErrIllegalPlay) {
		t.Fatalf("dragon trick must go to an opponent, got %v", err)
	}
	if err := g.TransferDragonTrick(1); err != nil {
		t.Fatalf("TransferDragonTrick: %v", err)
	}
	if PointsIn(g.Players[0].CardsWon) != 0 {
		t.Fatal("winner should no longer hold the dragon trick")
	}
	if PointsIn(g.Players[1].CardsWon) != 30 {
		t.Fatalf("recipient pile points = %d, want 30", PointsIn(g.Players[1].CardsWon))
	}
	// A second transfer has nothing left to move.
	if err := g.TransferDragonTrick(1); !errors.Is(err, ErrIllegalPlay) {
		t.Fatalf("double transfer should fail, got %v", err)
	}
}

func TestFinishOrderAndRoundEnd(t *testing.T) {
	g := newTestGame([NumSeats][]Card{
		{tc(RankAce, SuitJade)},
		{tc(RankTwo, SuitSword), tc(RankThree, SuitSword)},
		{tc(RankKing, SuitJade)},
		{tc(RankTwo, SuitStar), tc(RankThree, SuitStar)},
	})
	g.DiscardedHands = []DiscardedHand{{OwnerSeat: 0}}

	if err := g.ApplyPlay(0, []Card{tc(RankAce, SuitJade)}); err != nil {
		t.Fatalf("seat 0 goes out: %v", err)
	}
	if len(g.FinishOrder) != 1 || g.FinishOrder[0] != 0 {
		t.Fatalf("finish order = %v, want [0]", g.FinishOrder)
	}
	if g.Phase == PhaseEnded {
		t.Fatal("round should continue with three players holding cards")
	}

	// Everyone passes on the ace; the finished seat 0 wins the trick and
	// the rotation skips it, leaving seat 1 on the lead.
	for _, seat := range []int{1, 2, 3} {
		if err := g.ResolvePass(seat); err != nil {
			t.Fatalf("pass seat %d: %v", seat, err)
		}
	}
	if g.CurrentTurn != 1 {
		t.Fatalf("turn should skip the finished winner, is %d", g.CurrentTurn)
	}

	if err := g.ApplyPlay(1, []Card{tc(RankTwo, SuitSword)}); err != nil {
		t.Fatalf("seat 1 lead: %v", err)
	}
	// Seat 2 going out leaves both remaining holders on one team, but the
	// trick stays open until it resolves through passes.
	if err := g.ApplyPlay(2, []Card{tc(RankKing, SuitJade)}); err != nil {
		t.Fatalf("seat 2 play: %v", err)
	}
	if len(g.FinishOrder) != 2 || g.FinishOrder[1] != 2 {
		t.Fatalf("finish order = %v, want [0 2]", g.FinishOrder)
	}
	if g.Phase == PhaseEnded {
		t.Fatal("the king must stay beatable until the trick resolves")
	}
	if g.CurrentTurn != 3 {
		t.Fatalf("turn should be on seat 3, is %d", g.CurrentTurn)
	}

	for _, seat := range []int{3, 1} {
		if err := g.ResolvePass(seat); err != nil {
			t.Fatalf("pass seat %d: %v", seat, err)
		}
	}
	if g.Phase != PhaseEnded {
		t.Fatal("round should end once the final trick resolves to one team holding")
	}
	if PointsIn(g.Players[2].CardsWon) != 10 {
		t.Fatalf("final trick should go to seat 2, pile = %d points", PointsIn(g.Players[2].CardsWon))
	}
}

func TestRoundEndsAtOneHolder(t *testing.T) {
	g := newTestGame([NumSeats][]Card{
		{tc(RankAce, SuitJade)},
		{tc(RankTwo, SuitSword), tc(RankThree, SuitSword)},
		{},
		{},
	})
	g.Players[2].Finished = true
	g.Players[3].Finished = true
	g.FinishOrder = []int{2, 3}
	g.DiscardedHands = []DiscardedHand{{OwnerSeat: 0}}

	if err := g.ApplyPlay(0, []Card{tc(RankAce, SuitJade)}); err != nil {
		t.Fatalf("final play: %v", err)
	}
	// The last holder still gets a turn against the ace.
	if g.Phase == PhaseEnded {
		t.Fatal("round should stay open while the ace is beatable")
	}
	if g.CurrentTurn != 1 {
		t.Fatalf("turn should be on the last holder, is %d", g.CurrentTurn)
	}

	if err := g.ResolvePass(1); err != nil {
		t.Fatalf("pass seat 1: %v", err)
	}
	if g.Phase != PhaseEnded {
		t.Fatal("round should end once the last holder lets the trick go")
	}
	if err := g.ApplyPlay(1, []Card{tc(RankTwo, SuitSword)}); !errors.Is(err, ErrRoundOver) {
		t.Fatalf("plays after round end should fail, got %v", err)
	}
}

func TestLastHolderMayBeatFinalPlay(t *testing.T) {
	g := newTestGame([NumSeats][]Card{
		{tc(RankKing, SuitJade)},
		{},
		{},
		{
			tc(RankFive, SuitJade), tc(RankFive, SuitSword),
			tc(RankFive, SuitPagoda), tc(RankFive, SuitStar),
			tc(RankThree, SuitJade),
		},
	})
	g.Players[1].Finished = true
	g.Players[2].Finished = true
	g.FinishOrder = []int{1, 2}
	g.DiscardedHands = []DiscardedHand{{OwnerSeat: 0}}

	// Seat 0 goes out with the king, leaving only seat 3 holding. The
	// round must not settle before seat 3 answers.
	if err := g.ApplyPlay(0, []Card{tc(RankKing, SuitJade)}); err != nil {
		t.Fatalf("seat 0 final play: %v", err)
	}
	if g.Phase == PhaseEnded {
		t.Fatal("round settled before the last holder could bomb")
	}
	if g.CurrentTurn != 3 {
		t.Fatalf("turn should be on seat 3, is %d", g.CurrentTurn)
	}

	bomb := []Card{
		tc(RankFive, SuitJade), tc(RankFive, SuitSword),
		tc(RankFive, SuitPagoda), tc(RankFive, SuitStar),
	}
	if err := g.ApplyPlay(3, bomb); err != nil {
		t.Fatalf("seat 3 bomb: %v", err)
	}

	// The bomb wins the trick through the finished seats' automatic
	// passes, and the round ends with seat 3 as the lone holder.
	if g.Phase != PhaseEnded {
		t.Fatal("round should end once the bombed trick resolves")
	}
	if got := PointsIn(g.Players[3].CardsWon); got != 30 {
		t.Fatalf("seat 3 pile = %d points, want the king and four fives (30)", got)
	}
	if got := PointsIn(g.Players[0].CardsWon); got != 0 {
		t.Fatalf("seat 0 pile = %d points, want 0", got)
	}
}

func TestIsLegalDogOnlyLeads(t *testing.T) {
	g := newTestGame([NumSeats][]Card{
		{tc(RankDog, SuitJade), tc(RankTen, SuitJade)},
		{tc(RankNine, SuitStar)},
		{tc(RankEight, SuitJade)},
		{tc(RankJack, SuitSword)},
	})
	g.DiscardedHands = []DiscardedHand{{OwnerSeat: 0}}

	if err := g.ApplyPlay(0, []Card{tc(RankTen, SuitJade)}); err != nil {
		t.Fatalf("seat 0 lead: %v", err)
	}
	for _, seat := range []int{1, 2, 3} {
		if err := g.ResolvePass(seat); err != nil {
			t.Fatalf("pass seat %d: %v", seat, err)
		}
	}
	// Seat 0 won its own ten back and leads again; the dog is fine here.
	if err := g.IsLegal(0, []Card{tc(RankDog, SuitJade)}); err != nil {
		t.Fatalf("dog on the lead should be legal, got %v", err)
	}

	// But the dog can never continue a standing play, not even the
	// owner's: the ten on the table would go to no pile.
	g2 := newTestGame([NumSeats][]Card{
		{tc(RankDog, SuitJade), tc(RankTen, SuitJade)},
		{tc(RankNine, SuitStar)},
		{tc(RankEight, SuitJade)},
		{tc(RankJack, SuitSword)},
	})
	g2.DiscardedHands = []DiscardedHand{{OwnerSeat: 0}}
	if err := g2.ApplyPlay(0, []Card{tc(RankTen, SuitJade)}); err != nil {
		t.Fatalf("seat 0 lead: %v", err)
	}
	g2.CurrentTurn = 0 // owner-continue position
	if err := g2.IsLegal(0, []Card{tc(RankDog, SuitJade)}); !errors.Is(err, ErrIllegalPlay) {
		t.Fatalf("dog on a standing play should be illegal, got %v", err)
	}

	before := PointsIn(g2.Players[0].CardsWon)
	if err := g2.ApplyPlay(0, []Card{tc(RankDog, SuitJade)}); !errors.Is(err, ErrIllegalPlay) {
		t.Fatalf("ApplyPlay must reject the mid-trick dog, got %v", err)
	}
	if PointsIn(g2.Players[0].CardsWon) != before {
		t.Fatal("a rejected dog must not move any cards")
	}
}
