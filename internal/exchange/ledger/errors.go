package ledger

import "errors"

var (
	ErrInvalidAmount     = errors.New("amount is below the minimum order size")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid order state transition")
)
