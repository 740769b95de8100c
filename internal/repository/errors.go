package repository

import "errors"

var (
	// ErrNotFound is returned when a requested document doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrWrite is returned on a transport or store failure during a
	// create or update; callers decide whether to retry or abort
	ErrWrite = errors.New("write failed")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
