package extract

import "errors"

// ErrMalformedPage is returned when a page does not have the expected
// number of tables. It usually means a week without a report or a layout
// change. The date is skipped and the run continues.
var ErrMalformedPage = errors.New("archive page does not have the expected tables")
