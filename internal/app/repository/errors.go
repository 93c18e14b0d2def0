package repository

import "errors"

// ErrNotFound is returned by every repository when the addressed record does
// not exist, whichever backend holds it.
var ErrNotFound = errors.New("record not found")
