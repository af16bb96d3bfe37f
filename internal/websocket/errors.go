package websocket

import "errors"

// ErrHubFull is returned when the viewer limit is reached.
var ErrHubFull = errors.New("max websocket clients reached")
