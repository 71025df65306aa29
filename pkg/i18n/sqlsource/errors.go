package sqlsource

import "errors"

var (
	ErrNilDB        = errors.New("sqlsource: database handle is nil")
	ErrInvalidTable = errors.New("sqlsource: invalid table name")
	ErrEmptyLang    = errors.New("sqlsource: language cannot be empty")
	ErrQueryFailed  = errors.New("sqlsource: query failed")
	ErrWriteFailed  = errors.New("sqlsource: write failed")
)
