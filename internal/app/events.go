package app

import "github.com/sakthi-vetrivel/tichu-bot/internal/domain"

// EventKind identifies emitted domain events for Nakama dispatch.
type EventKind string

const (
	EventPlayerJoined      EventKind = "player_joined"
	EventPlayerLeft        EventKind = "player_left"
	EventRoundStarted      EventKind = "round_started"
	EventHandDealt         EventKind = "hand_dealt"
	EventHandCompleted     EventKind = "hand_completed"
	EventTichuDeclared     EventKind = "tichu_declared"
	EventCardsPlayed       EventKind = "cards_played"
	EventTurnPassed        EventKind = "turn_passed"
	EventTrickWon          EventKind = "trick_won"
	EventDragonGiveAway    EventKind = "dragon_give_away"
	EventDragonTransferred EventKind = "dragon_transferred"
	EventRoundEnded        EventKind = "round_ended"
)

// Event is a domain/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type PlayerJoinedPayload struct {
	UserID string
	Seat   int
	Owner  bool
}

type PlayerLeftPayload struct {
	UserID string
}

type RoundStartedPayload struct {
	RoundID   string
	Phase     domain.Phase
	FirstSeat int
}

type HandDealtPayload struct {
	UserID string
	Seat   int
	Hand   []domain.Card
}

type TichuDeclaredPayload struct {
	UserID string
	Seat   int
	Grand  bool
}

type CardsPlayedPayload struct {
	UserID   string
	Seat     int
	Cards    []domain.Card
	NextSeat int
}

type TurnPassedPayload struct {
	UserID   string
	Seat     int
	NextSeat int
}

type TrickWonPayload struct {
	WinnerSeat int
	Points     int
}

type DragonGiveAwayPayload struct {
	WinnerSeat int
	Points     int
}

type DragonTransferredPayload struct {
	FromSeat int
	ToSeat   int
	Points   int
}

type RoundEndedPayload struct {
	FinishOrder []int
	Team0Score  int
	Team1Score  int
}
