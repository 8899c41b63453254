package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// MatchNameTichu is the authoritative match handler name registered with Nakama.
	MatchNameTichu = "tichu_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame    int64 = 1
	OpPlayCards    int64 = 2
	OpPassTurn     int64 = 3
	OpDeclareTichu int64 = 4
	OpGiveDragon   int64 = 5

	// Server -> Client events
	OpPlayerJoined      int64 = 101
	OpPlayerLeft        int64 = 102
	OpRoundStarted      int64 = 103
	OpHandDealt         int64 = 104 // send privately
	OpCardsPlayed       int64 = 105
	OpTurnPassed        int64 = 106
	OpTichuDeclared     int64 = 107
	OpTrickWon          int64 = 108
	OpDragonGiveAway    int64 = 109
	OpDragonTransferred int64 = 110
	OpRoundEnded        int64 = 111
	OpMatchEnded        int64 = 112
	OpGameError         int64 = 199
)
