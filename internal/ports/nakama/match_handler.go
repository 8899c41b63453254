package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"strconv"

	"github.com/heroiclabs/nakama-common/runtime"

	"github.com/sakthi-vetrivel/tichu-bot/internal/app"
	"github.com/sakthi-vetrivel/tichu-bot/internal/bot"
	"github.com/sakthi-vetrivel/tichu-bot/internal/config"
	"github.com/sakthi-vetrivel/tichu-bot/internal/domain"
)

// MatchLabel is the JSON document Nakama indexes for match listing queries.
type MatchLabel struct {
	Open  int    `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
}

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats     [domain.NumSeats]string     `json:"seats"`      // Array of user IDs, empty string means seat is empty
	OwnerSeat int                         `json:"owner_seat"` // Seat index of the match owner
	Tick      int64                       `json:"tick"`       // Current tick of the match for turn-based logic
	Totals    [2]int                      `json:"totals"`     // Accumulated team scores across rounds
	Presences map[string]runtime.Presence `json:"-"`          // Map UserId -> Presence for targeted messaging
	App       *app.Service                `json:"-"`          // Tichu app service with game logic
	Round     *app.Round                  `json:"-"`          // Current active round (nil if in lobby)

	BotsEnabled          bool                  `json:"bots_enabled"`
	BotMinDelay          int                   `json:"bot_min_delay"`           // Min ticks a bot waits
	BotMaxDelay          int                   `json:"bot_max_delay"`           // Max ticks a bot waits
	BotAutoFillDelay     int                   `json:"bot_auto_fill_delay"`     // Ticks to wait before auto-filling with bots
	BotWaitUntil         int64                 `json:"bot_wait_until"`          // Tick when the bot should act
	LastSinglePlayerTick int64                 `json:"last_single_player_tick"` // Tick when a single player started waiting
	GrandTichuDeadline   int64                 `json:"grand_tichu_deadline"`    // Tick when the eight-card window closes
	DragonDeadline       int64                 `json:"dragon_deadline"`         // Tick when a pending dragon trick is auto-assigned
	NextRoundAt          int64                 `json:"next_round_at"`           // Tick when the next round deals
	Bots                 map[string]*bot.Agent `json:"-"`                       // Active bot agents
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !bot.IsBot(seat) {
			count++
		}
	}
	return count
}

// isHumanSeat reports whether the seat index belongs to a human player.
func isHumanSeat(seats []string, seatIndex int) bool {
	if seatIndex < 0 || seatIndex >= len(seats) {
		return false
	}
	userID := seats[seatIndex]
	return userID != "" && !bot.IsBot(userID)
}

// findFirstHumanSeat returns the first seat index with a human occupant or -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userID := range seats {
		if userID != "" && !bot.IsBot(userID) {
			return i
		}
	}
	return -1
}

// shouldTerminateNoHumans returns true when there are no humans in the match.
func shouldTerminateNoHumans(seats []string) bool {
	return findFirstHumanSeat(seats) == -1
}

type matchHandler struct{}

func newMatchHandler() *matchHandler {
	return &matchHandler{}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}
	cfg := config.GetGameConfig()

	state := &MatchState{
		OwnerSeat:        -1,
		Presences:        make(map[string]runtime.Presence),
		App:              app.NewService(nil),
		Bots:             make(map[string]*bot.Agent),
		BotsEnabled:      true,
		BotMinDelay:      1,
		BotMaxDelay:      3,
		BotAutoFillDelay: cfg.BotAutoFillDelaySeconds,
	}

	// Environment overrides, mirroring the runtime config.
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if val, ok := env["tichu_bots_enabled"]; ok {
			state.BotsEnabled = val == "true"
		}
		if val, ok := env["tichu_bot_min_delay_sec"]; ok {
			if i, err := strconv.Atoi(val); err == nil {
				state.BotMinDelay = i
			}
		}
		if val, ok := env["tichu_bot_max_delay_sec"]; ok {
			if i, err := strconv.Atoi(val); err == nil {
				state.BotMaxDelay = i
			}
		}
		if val, ok := env["tichu_bot_auto_fill_delay_sec"]; ok {
			if i, err := strconv.Atoi(val); err == nil {
				state.BotAutoFillDelay = i
			}
		}
	}
	if state.BotAutoFillDelay == 0 {
		state.BotAutoFillDelay = 5
	}

	labelBytes, err := json.Marshal(&MatchLabel{
		Open:  state.GetOpenSeatsCount(),
		Game:  "tichu",
		Phase: "lobby",
	})
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1 // one tick per second keeps the delays in wall-clock terms
	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Allow join if there is an empty seat OR a bot to replace while in lobby.
	if matchState.GetOpenSeatsCount() <= 0 {
		hasBot := false
		if matchState.Round == nil {
			for _, seat := range matchState.Seats {
				if bot.IsBot(seat) {
					hasBot = true
					break
				}
			}
		}
		if !hasBot {
			return state, false, "Match full"
		}
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		assigned := -1
		for i, seatUserID := range matchState.Seats {
			if seatUserID == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = i
				break
			}
		}
		if assigned < 0 && matchState.Round == nil {
			for i, seatUserID := range matchState.Seats {
				if bot.IsBot(seatUserID) {
					logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seatUserID, p.GetUserId(), i)
					delete(matchState.Bots, seatUserID)
					matchState.Seats[i] = p.GetUserId()
					assigned = i
					break
				}
			}
		}
		if assigned < 0 {
			logger.Warn("MatchJoin: User %s joined but no seat was available.", p.GetUserId())
			continue
		}
	}

	// Ensure owner seat is assigned to a human player only.
	if !isHumanSeat(matchState.Seats[:], matchState.OwnerSeat) {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastRoster(matchState, dispatcher, logger)

	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		for i, seatUserID := range matchState.Seats {
			if seatUserID != p.GetUserId() {
				continue
			}
			if matchState.Round != nil && matchState.BotsEnabled {
				// Mid-round leave: a bot takes over the seat so the
				// round can finish.
				botID := bot.BotUserID(i)
				matchState.Seats[i] = botID
				matchState.Bots[botID] = mh.newAgent(botID, i, logger)
				if pl, err := matchState.Round.Game.PlayerAt(i); err == nil {
					pl.ID = botID
					pl.Human = false
				}
				logger.Info("MatchLeave: Bot %s takes over seat %d from %s", botID, i, p.GetUserId())
			} else {
				matchState.Seats[i] = ""
			}

			mh.broadcast(dispatcher, logger, OpPlayerLeft, map[string]string{"user_id": p.GetUserId()}, nil)
			break
		}
	}

	if newOwnerSeat := findFirstHumanSeat(matchState.Seats[:]); newOwnerSeat != matchState.OwnerSeat {
		matchState.OwnerSeat = newOwnerSeat
	}

	if shouldTerminateNoHumans(matchState.Seats[:]) {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(matchState, dispatcher, logger, msg)
		case OpPlayCards:
			mh.handlePlayCards(matchState, dispatcher, logger, msg)
		case OpPassTurn:
			mh.handlePassTurn(matchState, dispatcher, logger, msg)
		case OpDeclareTichu:
			mh.handleDeclareTichu(matchState, dispatcher, logger, msg)
		case OpGiveDragon:
			mh.handleGiveDragon(matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.advanceRound(matchState, dispatcher, logger)
	if matchState.BotsEnabled {
		mh.processBots(matchState, dispatcher, logger)
	}

	return matchState
}

// advanceRound drives the tick-based transitions that need no player input:
// closing the grand tichu window, auto-assigning a stale dragon trick and
// dealing the next round.
func (mh *matchHandler) advanceRound(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Round == nil {
		if state.NextRoundAt > 0 && state.Tick >= state.NextRoundAt {
			state.NextRoundAt = 0
			mh.startRound(state, dispatcher, logger)
		}
		return
	}
	game := state.Round.Game

	if game.Phase == domain.PhaseGrandTichu && state.Tick >= state.GrandTichuDeadline {
		events, err := state.App.CompleteDeal(state.Round)
		if err != nil {
			logger.Error("advanceRound: CompleteDeal failed: %v", err)
			return
		}
		for _, ev := range events {
			mh.broadcastEvent(state, dispatcher, logger, ev)
		}
		return
	}

	if winner, _, ok := game.PendingDragonTrick(); ok {
		autoAssign := bot.IsBot(state.Seats[winner]) ||
			(state.DragonDeadline > 0 && state.Tick >= state.DragonDeadline)
		if autoAssign {
			state.DragonDeadline = 0
			recipient := bot.PickDragonRecipient(game, winner)
			events, err := state.App.GiveDragonTrick(game, recipient)
			if err != nil {
				logger.Error("advanceRound: dragon auto-assign failed: %v", err)
				return
			}
			for _, ev := range events {
				mh.broadcastEvent(state, dispatcher, logger, ev)
			}
		}
	}
}

func (mh *matchHandler) processBots(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// 1. Auto-fill the lobby with bots when one human waits alone.
	if state.Round == nil {
		if state.GetHumanPlayerCount() == 1 {
			if state.LastSinglePlayerTick == 0 {
				state.LastSinglePlayerTick = state.Tick
			}
			if state.Tick-state.LastSinglePlayerTick >= int64(state.BotAutoFillDelay) {
				if mh.fillWithBots(state, logger) {
					mh.updateLabel(state, dispatcher, logger)
					mh.broadcastRoster(state, dispatcher, logger)
				}
				state.LastSinglePlayerTick = 0
			}
		} else {
			state.LastSinglePlayerTick = 0
		}
		return
	}

	// 2. Handle bot turns in-game. A pending dragon trick pauses bot play
	// until the give-away resolves.
	game := state.Round.Game
	if game.Phase != domain.PhasePlaying {
		return
	}
	if _, _, pending := game.PendingDragonTrick(); pending {
		return
	}

	currentTurn := game.CurrentTurn
	currentUserID := state.Seats[currentTurn]
	if !bot.IsBot(currentUserID) {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		delay := rand.Intn(state.BotMaxDelay-state.BotMinDelay+1) + state.BotMinDelay
		state.BotWaitUntil = state.Tick + int64(delay)
		return
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	agent, exists := state.Bots[currentUserID]
	if !exists {
		agent = mh.newAgent(currentUserID, currentTurn, logger)
		state.Bots[currentUserID] = agent
	}

	move, err := agent.Play(game)
	if err != nil {
		logger.Error("processBots: Bot %s failed to calculate move: %v", currentUserID, err)
		return
	}

	var events []app.Event
	if move.Pass {
		events, err = state.App.PassTurn(state.Round, currentTurn)
	} else {
		events, err = state.App.PlayCards(state.Round, currentTurn, move.Cards)
	}
	if err != nil {
		logger.Error("processBots: Bot %s move rejected: %v", currentUserID, err)
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

// fillWithBots seats a bot in every empty seat. Returns true when any seat
// was filled.
func (mh *matchHandler) fillWithBots(state *MatchState, logger runtime.Logger) bool {
	added := false
	for i, seat := range state.Seats {
		if seat != "" {
			continue
		}
		botID := bot.BotUserID(i)
		state.Seats[i] = botID
		state.Bots[botID] = mh.newAgent(botID, i, logger)
		logger.Info("fillWithBots: Added bot %s (%s) to seat %d", bot.BotName(i), botID, i)
		added = true
	}
	return added
}

func (mh *matchHandler) newAgent(botID string, seat int, logger runtime.Logger) *bot.Agent {
	level := bot.BotLevelGreedy
	if config.GetGameConfig().BotLevel == "cautious" {
		level = bot.BotLevelCautious
	}
	brain, err := bot.NewBrain(level)
	if err != nil {
		logger.Error("newAgent: %v", err)
		brain = &bot.GreedyBot{}
	}
	return &bot.Agent{ID: botID, Name: bot.BotName(seat), Seat: seat, Strategy: brain}
}

func (mh *matchHandler) handleStartGame(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderSeat := mh.seatOf(state, msg.GetUserId())
	if senderSeat != state.OwnerSeat {
		logger.Warn("StartGame: User %s tried to start but is not owner (owner_seat=%d)", msg.GetUserId(), state.OwnerSeat)
		return
	}
	if state.Round != nil {
		logger.Warn("StartGame: Round already in progress.")
		return
	}

	if state.GetOpenSeatsCount() > 0 {
		if !state.BotsEnabled {
			logger.Warn("StartGame: Cannot start with open seats and bots disabled.")
			return
		}
		mh.fillWithBots(state, logger)
		mh.broadcastRoster(state, dispatcher, logger)
	}

	state.Totals = [2]int{}
	mh.startRound(state, dispatcher, logger)
}

func (mh *matchHandler) startRound(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	var players [domain.NumSeats]*domain.Player
	for i, userID := range state.Seats {
		name := userID
		if p, ok := state.Presences[userID]; ok {
			name = p.GetUsername()
		} else if bot.IsBot(userID) {
			name = bot.BotName(i)
		}
		players[i] = &domain.Player{
			ID:     userID,
			Name:   name,
			Human:  !bot.IsBot(userID),
			Active: true,
		}
	}

	round, events, err := state.App.StartRound(players)
	if err != nil {
		logger.Error("startRound: %v", err)
		return
	}
	state.Round = round
	state.GrandTichuDeadline = state.Tick + int64(config.GetGameConfig().TurnDurationSeconds)
	state.BotWaitUntil = 0

	mh.updateLabel(state, dispatcher, logger)
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
	logger.Info("startRound: Round %s dealt.", round.ID)
}

func (mh *matchHandler) handlePlayCards(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderSeat := mh.seatOf(state, msg.GetUserId())
	if state.Round == nil || senderSeat < 0 {
		logger.Warn("handlePlayCards: No active round or unknown sender.")
		return
	}

	var request playCardsRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Error("handlePlayCards: Failed to unmarshal request: %v", err)
		return
	}

	events, err := state.App.PlayCards(state.Round, senderSeat, cardsFromWire(request.Cards))
	if err != nil {
		logger.Warn("handlePlayCards: User %s (seat %d) failed to play: %v", msg.GetUserId(), senderSeat, err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, err.Error())
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handlePassTurn(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderSeat := mh.seatOf(state, msg.GetUserId())
	if state.Round == nil || senderSeat < 0 {
		logger.Warn("handlePassTurn: No active round or unknown sender.")
		return
	}

	events, err := state.App.PassTurn(state.Round, senderSeat)
	if err != nil {
		logger.Warn("handlePassTurn: User %s (seat %d) failed to pass: %v", msg.GetUserId(), senderSeat, err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, err.Error())
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleDeclareTichu(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderSeat := mh.seatOf(state, msg.GetUserId())
	if state.Round == nil || senderSeat < 0 {
		logger.Warn("handleDeclareTichu: No active round or unknown sender.")
		return
	}

	var request declareTichuRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Error("handleDeclareTichu: Failed to unmarshal request: %v", err)
		return
	}

	events, err := state.App.DeclareTichu(state.Round.Game, senderSeat, request.Grand)
	if err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, err.Error())
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleGiveDragon(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderSeat := mh.seatOf(state, msg.GetUserId())
	if state.Round == nil || senderSeat < 0 {
		logger.Warn("handleGiveDragon: No active round or unknown sender.")
		return
	}
	game := state.Round.Game

	winner, _, ok := game.PendingDragonTrick()
	if !ok || winner != senderSeat {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, "no dragon trick to give")
		return
	}

	var request giveDragonRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Error("handleGiveDragon: Failed to unmarshal request: %v", err)
		return
	}

	events, err := state.App.GiveDragonTrick(game, request.ToSeat)
	if err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, err.Error())
		return
	}
	state.DragonDeadline = 0
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) seatOf(state *MatchState, userID string) int {
	for i, seatUserID := range state.Seats {
		if seatUserID == userID {
			return i
		}
	}
	return -1
}

// broadcastEvent converts an app event to its wire payload and dispatches it.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64
	var payload any

	switch ev.Kind {
	case app.EventRoundStarted:
		opCode = OpRoundStarted
		p := ev.Payload.(app.RoundStartedPayload)
		payload = roundStartedEvent{RoundID: p.RoundID, Phase: string(p.Phase), FirstSeat: p.FirstSeat}
	case app.EventHandDealt, app.EventHandCompleted:
		opCode = OpHandDealt
		p := ev.Payload.(app.HandDealtPayload)
		payload = handDealtEvent{Seat: p.Seat, Hand: cardsToWire(p.Hand)}
	case app.EventTichuDeclared:
		opCode = OpTichuDeclared
		p := ev.Payload.(app.TichuDeclaredPayload)
		payload = tichuDeclaredEvent{Seat: p.Seat, Grand: p.Grand}
	case app.EventCardsPlayed:
		opCode = OpCardsPlayed
		p := ev.Payload.(app.CardsPlayedPayload)
		payload = cardsPlayedEvent{Seat: p.Seat, Cards: cardsToWire(p.Cards), NextSeat: p.NextSeat}
	case app.EventTurnPassed:
		opCode = OpTurnPassed
		p := ev.Payload.(app.TurnPassedPayload)
		payload = turnPassedEvent{Seat: p.Seat, NextSeat: p.NextSeat}
	case app.EventTrickWon:
		opCode = OpTrickWon
		p := ev.Payload.(app.TrickWonPayload)
		payload = trickWonEvent{WinnerSeat: p.WinnerSeat, Points: p.Points}
	case app.EventDragonGiveAway:
		opCode = OpDragonGiveAway
		p := ev.Payload.(app.DragonGiveAwayPayload)
		payload = dragonGiveAwayEvent{WinnerSeat: p.WinnerSeat, Points: p.Points}
		// Humans get a window to pick; bots are assigned next tick.
		state.DragonDeadline = state.Tick + int64(config.GetGameConfig().TurnDurationSeconds)
	case app.EventDragonTransferred:
		opCode = OpDragonTransferred
		p := ev.Payload.(app.DragonTransferredPayload)
		payload = dragonTransferredEvent{FromSeat: p.FromSeat, ToSeat: p.ToSeat, Points: p.Points}
	case app.EventRoundEnded:
		opCode = OpRoundEnded
		p := ev.Payload.(app.RoundEndedPayload)
		state.Totals[0] += p.Team0Score
		state.Totals[1] += p.Team1Score
		payload = roundEndedEvent{
			FinishOrder: p.FinishOrder,
			Team0Score:  p.Team0Score,
			Team1Score:  p.Team1Score,
			Totals:      state.Totals,
		}
		mh.settleRound(state, dispatcher, logger)
	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	mh.broadcastTo(state, dispatcher, logger, opCode, payload, ev.Recipients)
}

// settleRound closes the finished round and either ends the match or
// schedules the next deal.
func (mh *matchHandler) settleRound(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	state.Round = nil
	state.GrandTichuDeadline = 0
	state.DragonDeadline = 0

	target := config.GetGameConfig().TargetScore
	if (state.Totals[0] >= target || state.Totals[1] >= target) && state.Totals[0] != state.Totals[1] {
		winning := 0
		if state.Totals[1] > state.Totals[0] {
			winning = 1
		}
		mh.broadcast(dispatcher, logger, OpMatchEnded, matchEndedEvent{WinningTeam: winning, Totals: state.Totals}, nil)
		state.NextRoundAt = 0
		mh.updateLabel(state, dispatcher, logger)
		return
	}

	state.NextRoundAt = state.Tick + 5
}

// broadcastRoster sends the current seat assignments to everyone.
func (mh *matchHandler) broadcastRoster(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	for i, userID := range state.Seats {
		if userID == "" {
			continue
		}
		displayName := userID
		if p, ok := state.Presences[userID]; ok {
			displayName = p.GetUsername()
		} else if bot.IsBot(userID) {
			displayName = bot.BotName(i)
		}
		mh.broadcast(dispatcher, logger, OpPlayerJoined, playerJoinedEvent{
			UserID:      userID,
			Seat:        i,
			Owner:       i == state.OwnerSeat,
			DisplayName: displayName,
			Bot:         bot.IsBot(userID),
		}, nil)
	}
}

// sendError sends a gameErrorEvent to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	presence, ok := state.Presences[userID]
	if !ok {
		return
	}
	bytes, err := json.Marshal(gameErrorEvent{Code: code, Message: message})
	if err != nil {
		logger.Error("sendError: marshal failed: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) broadcastTo(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, payload any, recipientIDs []string) {
	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("broadcastTo: Failed to marshal op %d: %v", opCode, err)
		return
	}

	var recipients []runtime.Presence
	if len(recipientIDs) > 0 {
		for _, uid := range recipientIDs {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		// Targeted events with no connected recipient (bot hands) must not
		// leak to everyone else.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

func (mh *matchHandler) broadcast(dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, payload any, recipients []runtime.Presence) {
	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("broadcast: Failed to marshal op %d: %v", opCode, err)
		return
	}
	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	phase := "lobby"
	if state.Round != nil {
		phase = "playing"
	}

	labelBytes, err := json.Marshal(&MatchLabel{
		Open:  state.GetOpenSeatsCount(),
		Game:  "tichu",
		Phase: phase,
	})
	if err != nil {
		logger.Error("updateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("updateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
