package game

import "errors"

// Errors returned by Game operations. Callers should match them with errors.Is;
// the returned errors wrap these with a description of what was rejected.
var (
	// ErrCapacity is returned when the table or a requested seat is full.
	ErrCapacity = errors.New("capacity exceeded")
	// ErrNotFound is returned for unknown player or pot ids.
	ErrNotFound = errors.New("not found")
	// ErrTurn is returned when a player acts out of turn.
	ErrTurn = errors.New("not this player's turn")
	// ErrInvalidState is returned when an operation is not allowed in the current game state.
	ErrInvalidState = errors.New("invalid game state")
	// ErrIllegalAction is returned when an action breaks the betting rules.
	ErrIllegalAction = errors.New("illegal action")
	// ErrInvalidAmount is returned for negative amounts and seats off the table.
	ErrInvalidAmount = errors.New("invalid amount")
)
