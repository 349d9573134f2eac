package dataset

import "errors"

var (
	// ErrDataUnavailable means the source could not be opened or parsed as a
	// table at all (missing file, broken CSV quoting, unreadable workbook).
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrSchemaMismatch means the source was read but does not have the
	// expected shape: identifier columns missing, a non-numeric year label,
	// or a data cell that is not a number.
	ErrSchemaMismatch = errors.New("schema mismatch")
)
