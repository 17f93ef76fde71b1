package exception

import "errors"

var (
	ErrExceptionNotFound = errors.New("availability exception not found")
	ErrExceptionExists   = errors.New("availability exception already exists for this date")
	ErrBuildQuery        = errors.New("failed to build query")
	ErrExecQuery         = errors.New("failed to execute query")
	ErrScanRow           = errors.New("failed to scan row")
)
