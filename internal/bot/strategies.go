package bot

import (
	"github.com/sakthi-vetrivel/tichu-bot/internal/domain"
)

// GreedyBot plays the strongest combination its hand can legally put on the
// trick, bombs included, and passes only when nothing fits.
type GreedyBot struct{}

func (b *GreedyBot) CalculateMove(game *domain.Game, player *domain.Player) (Move, error) {
	if player == nil || len(player.Hand) == 0 {
		return Move{Pass: true}, nil
	}

	combos := domain.GenerateAllCombinations(player.Hand)
	domain.SortByScore(combos, game.TrickContext())

	for _, combo := range combos {
		if game.IsLegal(player.Seat, combo.Cards) == nil {
			return Move{Cards: combo.Cards}, nil
		}
	}
	return Move{Pass: true}, nil
}

func (b *GreedyBot) OnEvent(event interface{}) {}

// CautiousBot spends the weakest combination that still takes the trick,
// holding its strong cards and bombs back for later.
type CautiousBot struct{}

func (b *CautiousBot) CalculateMove(game *domain.Game, player *domain.Player) (Move, error) {
	if player == nil || len(player.Hand) == 0 {
		return Move{Pass: true}, nil
	}

	combos := domain.GenerateAllCombinations(player.Hand)
	domain.SortByScore(combos, game.TrickContext())

	for i := len(combos) - 1; i >= 0; i-- {
		if game.IsLegal(player.Seat, combos[i].Cards) == nil {
			return Move{Cards: combos[i].Cards}, nil
		}
	}
	return Move{Pass: true}, nil
}

func (b *CautiousBot) OnEvent(event interface{}) {}

// PickDragonRecipient chooses which opponent receives a dragon-won trick:
// the one holding more cards, as the slower opponent is less likely to cash
// the points through an early finish.
func PickDragonRecipient(game *domain.Game, winnerSeat int) int {
	left := (winnerSeat + 1) % domain.NumSeats
	right := (winnerSeat + 3) % domain.NumSeats
	if len(game.Players[right].Hand) > len(game.Players[left].Hand) {
		return right
	}
	return left
}
