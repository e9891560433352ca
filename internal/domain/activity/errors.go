package activity

import "errors"

// ErrInvalidInput indicates an invalid activity entry or query.
var ErrInvalidInput = errors.New("invalid activity input")
