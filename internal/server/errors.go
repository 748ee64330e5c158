package server

import "errors"

// ErrNoStore is returned by NewServer when Config.Store is nil.
var ErrNoStore = errors.New("server requires a store")
