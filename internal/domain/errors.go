package domain

import "errors"

var (
	// ErrInvalidCombination means the cards form no recognized category.
	// Recoverable: the caller must not attempt to play the set.
	ErrInvalidCombination = errors.New("cards do not form a valid combination")

	// ErrIllegalPlay means a valid combination does not beat the trick.
	// Recoverable: the caller prompts again or passes.
	ErrIllegalPlay = errors.New("combination does not beat the current trick")

	// ErrNotYourTurn rejects an action from a seat that is not on turn.
	ErrNotYourTurn = errors.New("not this player's turn")

	// ErrRoundOver rejects actions after the round has ended.
	ErrRoundOver = errors.New("round has ended")

	// ErrMustLead rejects a pass from the player who must open the trick.
	ErrMustLead = errors.New("leading player must play a combination")

	// ErrUnknownSeat flags a seat index outside the table. This is a
	// programming error, not a game-rule rejection; valid state
	// transitions never produce it.
	ErrUnknownSeat = errors.New("seat index out of range")
)
