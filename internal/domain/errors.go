package domain

import "errors"

var (
	ErrUnknownItem          = errors.New("unknown item type")
	ErrSequencerUnavailable = errors.New("ticket sequencer unavailable")
	ErrEmptyBasket          = errors.New("basket is empty")
	ErrConfirmInFlight      = errors.New("confirm already in progress")
	ErrCommitFailed         = errors.New("basket commit failed")
	ErrServeFailed          = errors.New("serve update failed")
	ErrRefreshFailed        = errors.New("order log refresh failed")
	ErrLineNotFound         = errors.New("order line not found")
	ErrAlreadyServed        = errors.New("order line already served")
	ErrNothingArmed         = errors.New("no line armed for hand-off")
)
