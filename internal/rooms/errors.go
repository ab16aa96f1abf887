package rooms

import "errors"

var (
	ErrUnknownRoom    = errors.New("unknown room")
	ErrAlreadyInRoom  = errors.New("session already bound to a different room")
	ErrUnknownSession = errors.New("unknown session")
)
