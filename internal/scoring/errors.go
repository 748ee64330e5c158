package scoring

import "errors"

// ErrInvalidInput is returned when a URL does not parse into a scheme and host.
// It is the only error Score can return.
var ErrInvalidInput = errors.New("invalid input: url must be absolute with scheme and host")
