package postgres

import "errors"

var (
	ErrFailedToOpenDBConnection = errors.New("postgres: failed to open database connection")
	ErrFailedToPingDB           = errors.New("postgres: failed to ping database")
)
