package errs

import "errors"

var (
	ErrInvalidPiece         = errors.New("invalid piece descriptor")
	ErrInvalidConfiguration = errors.New("invalid solver configuration")

	ErrAlreadyRunning = errors.New("solve already running for puzzle")
	ErrNotRunning     = errors.New("no running solve for puzzle")
	ErrNotFound       = errors.New("not found")

	ErrSolverInternal = errors.New("solver internal error")
)
