package nakama

import (
	"github.com/sakthi-vetrivel/tichu-bot/internal/domain"
)

// wireCard is the JSON card representation shared with clients.
type wireCard struct {
	Rank int `json:"rank"`
	Suit int `json:"suit"`
}

func cardsToWire(cards []domain.Card) []wireCard {
	out := make([]wireCard, 0, len(cards))
	for _, c := range cards {
		out = append(out, wireCard{Rank: int(c.Rank), Suit: int(c.Suit)})
	}
	return out
}

func cardsFromWire(cards []wireCard) []domain.Card {
	out := make([]domain.Card, 0, len(cards))
	for _, c := range cards {
		out = append(out, domain.Card{Rank: domain.Rank(c.Rank), Suit: domain.Suit(c.Suit)})
	}
	return out
}

// Client request payloads.

type playCardsRequest struct {
	Cards []wireCard `json:"cards"`
}

type declareTichuRequest struct {
	Grand bool `json:"grand"`
}

type giveDragonRequest struct {
	ToSeat int `json:"to_seat"`
}

// Server event payloads.

type playerJoinedEvent struct {
	UserID      string `json:"user_id"`
	Seat        int    `json:"seat"`
	Owner       bool   `json:"owner"`
	DisplayName string `json:"display_name"`
	Bot         bool   `json:"bot"`
}

type roundStartedEvent struct {
	RoundID   string `json:"round_id"`
	Phase     string `json:"phase"`
	FirstSeat int    `json:"first_seat"`
}

type handDealtEvent struct {
	Seat int        `json:"seat"`
	Hand []wireCard `json:"hand"`
}

type tichuDeclaredEvent struct {
	Seat  int  `json:"seat"`
	Grand bool `json:"grand"`
}

type cardsPlayedEvent struct {
	Seat     int        `json:"seat"`
	Cards    []wireCard `json:"cards"`
	NextSeat int        `json:"next_seat"`
}

type turnPassedEvent struct {
	Seat     int `json:"seat"`
	NextSeat int `json:"next_seat"`
}

type trickWonEvent struct {
	WinnerSeat int `json:"winner_seat"`
	Points     int `json:"points"`
}

type dragonGiveAwayEvent struct {
	WinnerSeat int `json:"winner_seat"`
	Points     int `json:"points"`
}

type dragonTransferredEvent struct {
	FromSeat int `json:"from_seat"`
	ToSeat   int `json:"to_seat"`
	Points   int `json:"points"`
}

type roundEndedEvent struct {
	FinishOrder []int  `json:"finish_order"`
	Team0Score  int    `json:"team0_score"`
	Team1Score  int    `json:"team1_score"`
	Totals      [2]int `json:"totals"`
}

type matchEndedEvent struct {
	WinningTeam int    `json:"winning_team"`
	Totals      [2]int `json:"totals"`
}

type gameErrorEvent struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
