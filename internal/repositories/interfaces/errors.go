package interfaces

import "errors"

// ErrNoMatch is returned by conditional updates whose filter matched no document,
// either because the document does not exist or because its state changed.
var ErrNoMatch = errors.New("no document matched the update condition")
