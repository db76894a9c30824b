package database

import "errors"

var (
	// ErrRunNotFound is returned when no run has the requested ID.
	ErrRunNotFound = errors.New("run not found")

	// ErrDatabaseNotFound is returned by Open when the database file does
	// not exist and CreateIfNotExists is false.
	ErrDatabaseNotFound = errors.New("database not found")
)
