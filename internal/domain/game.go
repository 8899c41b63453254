package domain

// Phase is the lifecycle stage of a round.
type Phase string

const (
	// PhaseGrandTichu is the window after the first eight cards are dealt
	// and before the rest, when the higher declaration tier is open.
	PhaseGrandTichu Phase = "grand_tichu"
	// PhasePlaying is the trick-taking stage.
	PhasePlaying Phase = "playing"
	// PhaseEnded means the round is over and can be scored.
	PhaseEnded Phase = "ended"
)

// NumSeats is the fixed table size. Seats 0 and 2 form one team, 1 and 3 the
// other.
const NumSeats = 4

// Player holds the per-seat state of a round.
type Player struct {
	ID         string
	Name       string
	Seat       int
	Human      bool
	Active     bool
	Tichu      bool
	GrandTichu bool
	Finished   bool
	Hand       []Card
	CardsWon   []Card
}

// TeamOf maps a seat to its team index (0 or 1).
func TeamOf(seat int) int {
	return seat % 2
}

// DiscardedHand is one trick entry: a played combination and its owner. An
// entry with no cards is the reset sentinel, meaning anything is playable
// next. Entries are append-only and never mutated after creation.
type DiscardedHand struct {
	Cards     []Card
	OwnerSeat int
}

// IsSentinel reports whether the entry is a trick reset marker.
func (d DiscardedHand) IsSentinel() bool {
	return len(d.Cards) == 0
}

// Game is the authoritative state of one round. It is owned by the
// orchestrating caller and mutated only through engine calls; the engine
// keeps no global state and does no background work.
type Game struct {
	Phase          Phase
	Players        [NumSeats]*Player
	DiscardedHands []DiscardedHand
	CardsPlayed    []Card
	FinishOrder    []int
	CurrentTurn    int

	// DragonGiveAway is invoked when a dragon-topped trick resolves. The
	// collaborator selects the receiving opponent and reports back via
	// TransferDragonTrick; the cards credit the winner's pile until then.
	DragonGiveAway func(winnerSeat int, trick []Card)

	lastDragonTrick []Card
	dragonWinner    int
}

// NewGame seats the four players and opens the round.
func NewGame(players [NumSeats]*Player) *Game {
	g := &Game{Phase: PhaseGrandTichu, Players: players, dragonWinner: -1}
	for seat, p := range g.Players {
		p.Seat = seat
	}
	return g
}

// PlayerAt returns the player at a seat, or ErrUnknownSeat for an index the
// table does not have.
func (g *Game) PlayerAt(seat int) (*Player, error) {
	if seat < 0 || seat >= NumSeats {
		return nil, ErrUnknownSeat
	}
	return g.Players[seat], nil
}

// StartingSeat returns the seat holding the Mah Jong, which opens the round.
func (g *Game) StartingSeat() int {
	for seat, p := range g.Players {
		if ContainsRank(p.Hand, RankMahJong) {
			return seat
		}
	}
	return 0
}

// PlayersWithCards counts seats still holding cards.
func (g *Game) PlayersWithCards() int {
	n := 0
	for _, p := range g.Players {
		if len(p.Hand) > 0 {
			n++
		}
	}
	return n
}

// PendingDragonTrick returns the seat credited with an unresolved
// dragon-won trick and the cards in it, if one is outstanding.
func (g *Game) PendingDragonTrick() (int, []Card, bool) {
	if g.dragonWinner < 0 {
		return 0, nil, false
	}
	return g.dragonWinner, g.lastDragonTrick, true
}

// lastEntry returns the most recent trick entry, or nil before the first
// play of the round.
func (g *Game) lastEntry() *DiscardedHand {
	if len(g.DiscardedHands) == 0 {
		return nil
	}
	return &g.DiscardedHands[len(g.DiscardedHands)-1]
}

// trickCardsBack returns the cards of the n-th most recent non-sentinel
// entry (0 = latest), or nil if the history is shorter.
func (g *Game) trickCardsBack(n int) []Card {
	idx := len(g.DiscardedHands) - 1
	for ; idx >= 0; idx-- {
		if g.DiscardedHands[idx].IsSentinel() {
			continue
		}
		if n == 0 {
			return g.DiscardedHands[idx].Cards
		}
		n--
	}
	return nil
}

// TrickContext builds the context for scoring a challenger combination
// against the current trick.
func (g *Game) TrickContext() ScoreContext {
	return ScoreContext{
		LastPlayed:   g.trickCardsBack(0),
		SecondToLast: g.trickCardsBack(1),
	}
}

// lastPlayContext builds the context the current top combination was scored
// under, one step further back in the history.
func (g *Game) lastPlayContext() ScoreContext {
	return ScoreContext{
		LastPlayed:   g.trickCardsBack(1),
		SecondToLast: g.trickCardsBack(2),
	}
}
