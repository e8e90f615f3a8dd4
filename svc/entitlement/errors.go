package entitlement

import "errors"

var (
	// ErrUnknownAction is returned for an action outside the closed
	// vocabulary.
	ErrUnknownAction = errors.New("unknown action type")
)
