package walker

import "errors"

// ErrEndDateNotFound is returned in strict mode when the landing page has
// no usable end-date marker.
var ErrEndDateNotFound = errors.New("end date marker not found on landing page")
