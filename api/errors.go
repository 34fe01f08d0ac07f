package api

import "errors"

// ErrTogglePending is an exported constant or variable used by the session client.
var ErrTogglePending = errors.New("toggle write already in flight")
