package dashauth

import (
	"errors"

	"github.com/bottrapper/dashauth/tokenstore"
)

// ErrStoreUnavailable mirrors [tokenstore.ErrUnavailable] so callers can
// match storage failures without importing the subpackage.
var ErrStoreUnavailable = tokenstore.ErrUnavailable

var (
	// ErrUnauthorized is an exported constant or variable used by the session client.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNoToken is an exported constant or variable used by the session client.
	ErrNoToken = errors.New("no primary token held")
	// ErrTransport is an exported constant or variable used by the session client.
	ErrTransport = errors.New("backend unreachable")
	// ErrBackendStatus is an exported constant or variable used by the session client.
	ErrBackendStatus = errors.New("unexpected backend status")
	// ErrElevationRejected is an exported constant or variable used by the session client.
	ErrElevationRejected = errors.New("elevation rejected")
	// ErrInvalidGuildID is an exported constant or variable used by the session client.
	ErrInvalidGuildID = errors.New("invalid guild id")
	// ErrInvalidCallbackURL is an exported constant or variable used by the session client.
	ErrInvalidCallbackURL = errors.New("invalid callback url")
	// ErrClientNotReady is an exported constant or variable used by the session client.
	ErrClientNotReady = errors.New("client not initialized")
)
