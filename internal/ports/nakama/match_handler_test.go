package nakama

import (
	"encoding/json"
	"testing"

	"github.com/heroiclabs/nakama-common/runtime"

	"github.com/sakthi-vetrivel/tichu-bot/internal/app"
	"github.com/sakthi-vetrivel/tichu-bot/internal/bot"
	"github.com/sakthi-vetrivel/tichu-bot/internal/domain"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	broadcastCount int
	labelUpdates   int
	lastOpCode     int64
	lastData       []byte
	lastLabel      string
	opCodes        []int64
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.broadcastCount++
	md.lastOpCode = opCode
	md.lastData = append([]byte(nil), data...)
	md.opCodes = append(md.opCodes, opCode)
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelUpdates++
	md.lastLabel = label
	return nil
}

func (md *mockDispatcher) sawOpCode(op int64) bool {
	for _, code := range md.opCodes {
		if code == op {
			return true
		}
	}
	return false
}

func newTestState() *MatchState {
	return &MatchState{
		OwnerSeat:        -1,
		Presences:        make(map[string]runtime.Presence),
		App:              app.NewService(nil),
		Bots:             make(map[string]*bot.Agent),
		BotsEnabled:      true,
		BotMinDelay:      1,
		BotMaxDelay:      1,
		BotAutoFillDelay: 2,
	}
}

func TestFindFirstHumanSeat(t *testing.T) {
	bot1 := bot.BotUserID(0)
	bot2 := bot.BotUserID(1)

	tests := []struct {
		name  string
		seats []string
		want  int
	}{
		{
			name:  "FirstHumanAfterBot",
			seats: []string{bot1, "user-1", "", ""},
			want:  1,
		},
		{
			name:  "AllBots",
			seats: []string{bot1, bot2, "", ""},
			want:  -1,
		},
		{
			name:  "AllEmpty",
			seats: []string{"", "", "", ""},
			want:  -1,
		},
		{
			name:  "FirstHumanIsSeatZero",
			seats: []string{"user-1", bot1, "user-2", ""},
			want:  0,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if got := findFirstHumanSeat(test.seats); got != test.want {
				t.Fatalf("findFirstHumanSeat() = %d, want %d", got, test.want)
			}
		})
	}
}

func TestShouldTerminateNoHumans(t *testing.T) {
	bot1 := bot.BotUserID(0)
	bot2 := bot.BotUserID(1)

	tests := []struct {
		name  string
		seats []string
		want  bool
	}{
		{
			name:  "BotsOnly",
			seats: []string{bot1, bot2, bot.BotUserID(2), bot.BotUserID(3)},
			want:  true,
		},
		{
			name:  "BotsAndEmpty",
			seats: []string{bot1, "", bot2, ""},
			want:  true,
		},
		{
			name:  "HumansPresent",
			seats: []string{bot1, "user-1", "", ""},
			want:  false,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if got := shouldTerminateNoHumans(test.seats); got != test.want {
				t.Fatalf("shouldTerminateNoHumans() = %t, want %t", got, test.want)
			}
		})
	}
}

func TestMatchLabelMarshal(t *testing.T) {
	tests := []struct {
		name     string
		label    *MatchLabel
		expected string
	}{
		{
			name:     "Lobby",
			label:    &MatchLabel{Open: 3, Game: "tichu", Phase: "lobby"},
			expected: `{"open":3,"game":"tichu","phase":"lobby"}`,
		},
		{
			name:     "Playing",
			label:    &MatchLabel{Open: 0, Game: "tichu", Phase: "playing"},
			expected: `{"open":0,"game":"tichu","phase":"playing"}`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			payload, err := json.Marshal(test.label)
			if err != nil {
				t.Fatalf("Failed to marshal label: %v", err)
			}
			if string(payload) != test.expected {
				t.Errorf("Got %s, want %s", payload, test.expected)
			}
		})
	}
}

func TestProcessBotsFillsSoloHumanLobby(t *testing.T) {
	handler := newMatchHandler()
	dispatcher := &mockDispatcher{}
	state := newTestState()
	state.Seats = [4]string{"user-1", "", "", ""}
	state.OwnerSeat = 0
	state.LastSinglePlayerTick = 8
	state.Tick = 10

	handler.processBots(state, dispatcher, noopLogger{})

	botCount := 0
	for _, seat := range state.Seats {
		if bot.IsBot(seat) {
			botCount++
		}
	}
	if botCount != 3 {
		t.Fatalf("Expected 3 bots, got %d", botCount)
	}
	if state.GetOpenSeatsCount() != 0 {
		t.Fatalf("Expected no open seats after auto-fill, got %d", state.GetOpenSeatsCount())
	}
	if state.LastSinglePlayerTick != 0 {
		t.Fatalf("Expected auto-fill timer reset, got %d", state.LastSinglePlayerTick)
	}
	if dispatcher.broadcastCount == 0 || dispatcher.labelUpdates == 0 {
		t.Fatalf("Expected roster broadcast and label update after auto-fill")
	}
}

func TestProcessBotsWaitsBeforeFilling(t *testing.T) {
	handler := newMatchHandler()
	dispatcher := &mockDispatcher{}
	state := newTestState()
	state.Seats = [4]string{"user-1", "", "", ""}
	state.Tick = 10

	handler.processBots(state, dispatcher, noopLogger{})

	if state.LastSinglePlayerTick != 10 {
		t.Fatalf("Expected wait timer to start at tick 10, got %d", state.LastSinglePlayerTick)
	}
	if state.GetOpenSeatsCount() != 3 {
		t.Fatalf("Expected seats untouched during grace period, got %d open", state.GetOpenSeatsCount())
	}
}

func TestStartRoundDealsAndLabels(t *testing.T) {
	handler := newMatchHandler()
	dispatcher := &mockDispatcher{}
	state := newTestState()
	state.Seats = [4]string{"user-1", bot.BotUserID(1), bot.BotUserID(2), bot.BotUserID(3)}
	state.OwnerSeat = 0
	state.Tick = 5

	handler.startRound(state, dispatcher, noopLogger{})

	if state.Round == nil {
		t.Fatal("Expected an active round after startRound")
	}
	if state.Round.Game.Phase != domain.PhaseGrandTichu {
		t.Fatalf("Expected grand tichu phase, got %s", state.Round.Game.Phase)
	}
	if state.GrandTichuDeadline <= state.Tick {
		t.Fatalf("Expected a future grand tichu deadline, got %d", state.GrandTichuDeadline)
	}
	if !dispatcher.sawOpCode(OpRoundStarted) {
		t.Fatal("Expected OpRoundStarted broadcast")
	}

	var label MatchLabel
	if err := json.Unmarshal([]byte(dispatcher.lastLabel), &label); err != nil {
		t.Fatalf("Failed to unmarshal label: %v", err)
	}
	if label.Phase != "playing" {
		t.Fatalf("Expected label phase playing, got %q", label.Phase)
	}
}

func TestAdvanceRoundClosesGrandTichuWindow(t *testing.T) {
	handler := newMatchHandler()
	dispatcher := &mockDispatcher{}
	state := newTestState()
	state.Seats = [4]string{bot.BotUserID(0), bot.BotUserID(1), bot.BotUserID(2), bot.BotUserID(3)}
	state.Tick = 5

	handler.startRound(state, dispatcher, noopLogger{})
	if state.Round == nil {
		t.Fatal("Expected an active round")
	}

	state.Tick = state.GrandTichuDeadline
	handler.advanceRound(state, dispatcher, noopLogger{})

	if state.Round.Game.Phase != domain.PhasePlaying {
		t.Fatalf("Expected playing phase after deadline, got %s", state.Round.Game.Phase)
	}
	for seat := 0; seat < domain.NumSeats; seat++ {
		pl, err := state.Round.Game.PlayerAt(seat)
		if err != nil {
			t.Fatal(err)
		}
		if len(pl.Hand) != app.FullHandSize {
			t.Fatalf("Seat %d holds %d cards, want %d", seat, len(pl.Hand), app.FullHandSize)
		}
	}
}

func TestBotOnlyRoundRunsToCompletion(t *testing.T) {
	handler := newMatchHandler()
	dispatcher := &mockDispatcher{}
	state := newTestState()
	state.Seats = [4]string{bot.BotUserID(0), bot.BotUserID(1), bot.BotUserID(2), bot.BotUserID(3)}

	state.Tick = 1
	handler.startRound(state, dispatcher, noopLogger{})
	if state.Round == nil {
		t.Fatal("Expected an active round")
	}

	// Drive ticks until the round settles. Bots act within a couple of
	// ticks each, so a generous ceiling still catches a stall.
	for tick := state.Tick + 1; tick < 5000; tick++ {
		state.Tick = tick
		handler.advanceRound(state, dispatcher, noopLogger{})
		handler.processBots(state, dispatcher, noopLogger{})
		if state.Round == nil {
			break
		}
	}

	if state.Round != nil {
		t.Fatalf("Round did not finish; phase %s", state.Round.Game.Phase)
	}
	if !dispatcher.sawOpCode(OpRoundEnded) {
		t.Fatal("Expected OpRoundEnded broadcast")
	}
	// Bots never declare, so a round settles for exactly the deck's card
	// points or the flat double-win bonus.
	if sum := state.Totals[0] + state.Totals[1]; sum != 100 && sum != 200 {
		t.Fatalf("Unexpected totals %v", state.Totals)
	}
	if state.NextRoundAt == 0 {
		t.Fatal("Expected the next round to be scheduled")
	}
}

func TestSeatOf(t *testing.T) {
	handler := newMatchHandler()
	state := newTestState()
	state.Seats = [4]string{"user-1", "", "user-2", bot.BotUserID(3)}

	if got := handler.seatOf(state, "user-2"); got != 2 {
		t.Fatalf("seatOf(user-2) = %d, want 2", got)
	}
	if got := handler.seatOf(state, "stranger"); got != -1 {
		t.Fatalf("seatOf(stranger) = %d, want -1", got)
	}
}

func TestSettleRoundSchedulesOrEnds(t *testing.T) {
	handler := newMatchHandler()

	t.Run("BelowTarget", func(t *testing.T) {
		dispatcher := &mockDispatcher{}
		state := newTestState()
		state.Tick = 100
		state.Totals = [2]int{120, 80}

		handler.settleRound(state, dispatcher, noopLogger{})

		if state.NextRoundAt != 105 {
			t.Fatalf("Expected next round at tick 105, got %d", state.NextRoundAt)
		}
		if dispatcher.sawOpCode(OpMatchEnded) {
			t.Fatal("Match must not end below the target score")
		}
	})

	t.Run("TargetReached", func(t *testing.T) {
		dispatcher := &mockDispatcher{}
		state := newTestState()
		state.Tick = 100
		state.Totals = [2]int{1050, 400}

		handler.settleRound(state, dispatcher, noopLogger{})

		if !dispatcher.sawOpCode(OpMatchEnded) {
			t.Fatal("Expected OpMatchEnded broadcast")
		}
		if state.NextRoundAt != 0 {
			t.Fatalf("Expected no next round, got tick %d", state.NextRoundAt)
		}

		var ev matchEndedEvent
		if err := json.Unmarshal(dispatcher.lastData, &ev); err != nil {
			t.Fatalf("Failed to unmarshal match ended event: %v", err)
		}
		if ev.WinningTeam != 0 {
			t.Fatalf("Expected team 0 to win, got %d", ev.WinningTeam)
		}
	})

	t.Run("TiedAtTarget", func(t *testing.T) {
		dispatcher := &mockDispatcher{}
		state := newTestState()
		state.Tick = 100
		state.Totals = [2]int{1000, 1000}

		handler.settleRound(state, dispatcher, noopLogger{})

		if dispatcher.sawOpCode(OpMatchEnded) {
			t.Fatal("A tied score must play another round")
		}
		if state.NextRoundAt == 0 {
			t.Fatal("Expected the tiebreaker round to be scheduled")
		}
	})
}

func TestCardWireRoundTrip(t *testing.T) {
	cards := []domain.Card{
		{Rank: domain.RankAce, Suit: domain.SuitJade},
		{Rank: domain.RankPhoenix, Suit: domain.SuitJade},
		{Rank: domain.RankFive, Suit: domain.SuitSword},
	}

	got := cardsFromWire(cardsToWire(cards))
	if len(got) != len(cards) {
		t.Fatalf("Round trip lost cards: %d != %d", len(got), len(cards))
	}
	for i := range cards {
		if got[i].Rank != cards[i].Rank || got[i].Suit != cards[i].Suit {
			t.Fatalf("Card %d changed: %v != %v", i, got[i], cards[i])
		}
	}
}
