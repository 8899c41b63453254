package bot

import (
	"fmt"
	"strings"
)

// botIDPrefix marks synthetic user ids occupied by bot seats.
const botIDPrefix = "bot:"

var botNames = []string{"Mei", "Anand", "Petra", "Jonas"}

// BotUserID returns the synthetic user id for a bot occupying the seat.
func BotUserID(seat int) string {
	return fmt.Sprintf("%s%d", botIDPrefix, seat)
}

// IsBot reports whether the given user id represents a bot seat.
func IsBot(userID string) bool {
	return strings.HasPrefix(userID, botIDPrefix)
}

// BotName returns a display name for the bot at the seat.
func BotName(seat int) string {
	return botNames[seat%len(botNames)]
}
