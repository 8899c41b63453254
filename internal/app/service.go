package app

import (
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/sakthi-vetrivel/tichu-bot/internal/domain"
)

// Service contains Tichu use-cases operating on domain state.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var (
	ErrNotPlaying      = errors.New("round not in playing phase")
	ErrRoundNotEnded   = errors.New("round not ended")
	ErrDealIncomplete  = errors.New("second deal not done")
	ErrDealDone        = errors.New("second deal already done")
	ErrDeclarationLate = errors.New("declaration window closed")
)

// Round is one dealt round: the domain game plus the cards withheld until
// the grand tichu window closes.
type Round struct {
	ID   string
	Game *domain.Game

	undealt []domain.Card
}

// StartRound seats the four players, deals the first eight cards to each and
// opens the grand tichu window. The remaining cards go out on CompleteDeal.
func (s *Service) StartRound(players [domain.NumSeats]*domain.Player) (*Round, []Event, error) {
	deck := domain.ShuffleDeck(domain.NewDeck(), s.rng)

	game := domain.NewGame(players)
	round := &Round{
		ID:   uuid.NewString(),
		Game: game,
	}

	events := make([]Event, 0, domain.NumSeats+1)
	idx := 0
	for seat, pl := range game.Players {
		pl.Hand = append([]domain.Card{}, deck[idx:idx+FirstDealSize]...)
		pl.CardsWon = nil
		pl.Finished = false
		idx += FirstDealSize

		events = append(events, Event{
			Kind: EventHandDealt,
			Payload: HandDealtPayload{
				UserID: pl.ID,
				Seat:   seat,
				Hand:   domain.Sorted(pl.Hand),
			},
			Recipients: []string{pl.ID},
		})
	}
	round.undealt = deck[idx:]

	events = append(events, Event{
		Kind: EventRoundStarted,
		Payload: RoundStartedPayload{
			RoundID: round.ID,
			Phase:   game.Phase,
		},
	})
	return round, events, nil
}

// CompleteDeal closes the grand tichu window, deals the remaining six cards
// to each seat and hands the lead to the mah jong holder.
func (s *Service) CompleteDeal(round *Round) ([]Event, error) {
	game := round.Game
	if game.Phase != domain.PhaseGrandTichu {
		return nil, ErrDealDone
	}

	events := make([]Event, 0, domain.NumSeats+1)
	idx := 0
	per := FullHandSize - FirstDealSize
	for seat, pl := range game.Players {
		pl.Hand = append(pl.Hand, round.undealt[idx:idx+per]...)
		idx += per

		events = append(events, Event{
			Kind: EventHandCompleted,
			Payload: HandDealtPayload{
				UserID: pl.ID,
				Seat:   seat,
				Hand:   domain.Sorted(pl.Hand),
			},
			Recipients: []string{pl.ID},
		})
	}
	round.undealt = nil

	game.Phase = domain.PhasePlaying
	game.CurrentTurn = game.StartingSeat()

	events = append(events, Event{
		Kind: EventRoundStarted,
		Payload: RoundStartedPayload{
			RoundID:   round.ID,
			Phase:     game.Phase,
			FirstSeat: game.CurrentTurn,
		},
	})
	return events, nil
}

// DeclareTichu records a declaration for the seat. Grand tichu is only open
// during the eight-card window; a small tichu stays open until the seat has
// played its first card.
func (s *Service) DeclareTichu(game *domain.Game, seat int, grand bool) ([]Event, error) {
	pl, err := game.PlayerAt(seat)
	if err != nil {
		return nil, err
	}
	if grand {
		if game.Phase != domain.PhaseGrandTichu {
			return nil, ErrDeclarationLate
		}
		pl.GrandTichu = true
	} else {
		inWindow := game.Phase == domain.PhaseGrandTichu ||
			(game.Phase == domain.PhasePlaying && len(pl.Hand) == FullHandSize)
		if !inWindow {
			return nil, ErrDeclarationLate
		}
		pl.Tichu = true
	}

	return []Event{{
		Kind:    EventTichuDeclared,
		Payload: TichuDeclaredPayload{UserID: pl.ID, Seat: seat, Grand: grand},
	}}, nil
}

// PlayCards applies a play and emits the resulting events, including the
// round-end settlement when the play is decisive.
func (s *Service) PlayCards(round *Round, seat int, cards []domain.Card) ([]Event, error) {
	game := round.Game
	if game.Phase == domain.PhaseGrandTichu {
		return nil, ErrDealIncomplete
	}
	pl, err := game.PlayerAt(seat)
	if err != nil {
		return nil, err
	}
	if err := game.ApplyPlay(seat, cards); err != nil {
		return nil, err
	}

	events := []Event{{
		Kind: EventCardsPlayed,
		Payload: CardsPlayedPayload{
			UserID:   pl.ID,
			Seat:     seat,
			Cards:    cards,
			NextSeat: game.CurrentTurn,
		},
	}}
	return s.appendRoundEnd(game, events), nil
}

// PassTurn applies a pass. A pass that closes the trick also reports the
// winner.
func (s *Service) PassTurn(round *Round, seat int) ([]Event, error) {
	game := round.Game
	if game.Phase == domain.PhaseGrandTichu {
		return nil, ErrDealIncomplete
	}
	pl, err := game.PlayerAt(seat)
	if err != nil {
		return nil, err
	}

	var onTable []domain.Card
	for _, dh := range game.DiscardedHands {
		onTable = append(onTable, dh.Cards...)
	}
	if err := game.ResolvePass(seat); err != nil {
		return nil, err
	}

	events := []Event{{
		Kind: EventTurnPassed,
		Payload: TurnPassedPayload{
			UserID:   pl.ID,
			Seat:     seat,
			NextSeat: game.CurrentTurn,
		},
	}}

	// A reset history entry after a pass means the trick closed.
	if n := len(game.DiscardedHands); n == 1 && game.DiscardedHands[0].IsSentinel() {
		winner := game.DiscardedHands[0].OwnerSeat
		events = append(events, Event{
			Kind: EventTrickWon,
			Payload: TrickWonPayload{
				WinnerSeat: winner,
				Points:     domain.PointsIn(onTable),
			},
		})
		if dragonSeat, trick, ok := game.PendingDragonTrick(); ok && dragonSeat == winner {
			events = append(events, Event{
				Kind: EventDragonGiveAway,
				Payload: DragonGiveAwayPayload{
					WinnerSeat: dragonSeat,
					Points:     domain.PointsIn(trick),
				},
			})
		}
	}
	return s.appendRoundEnd(game, events), nil
}

// GiveDragonTrick routes a dragon-won trick to the chosen opponent.
func (s *Service) GiveDragonTrick(game *domain.Game, recipientSeat int) ([]Event, error) {
	winner, trick, ok := game.PendingDragonTrick()
	if !ok {
		return nil, domain.ErrIllegalPlay
	}
	points := domain.PointsIn(trick)
	if err := game.TransferDragonTrick(recipientSeat); err != nil {
		return nil, err
	}
	return []Event{{
		Kind: EventDragonTransferred,
		Payload: DragonTransferredPayload{
			FromSeat: winner,
			ToSeat:   recipientSeat,
			Points:   points,
		},
	}}, nil
}

// appendRoundEnd adds the settlement event once the round is over.
func (s *Service) appendRoundEnd(game *domain.Game, events []Event) []Event {
	if game.Phase != domain.PhaseEnded {
		return events
	}
	team0, team1 := domain.ComputeRoundScore(game)
	return append(events, Event{
		Kind: EventRoundEnded,
		Payload: RoundEndedPayload{
			FinishOrder: game.FinishOrder,
			Team0Score:  team0,
			Team1Score:  team1,
		},
	})
}
