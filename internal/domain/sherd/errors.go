package sherd

import "errors"

var (
	// ErrInvalidInput indicates a malformed ingestion request.
	ErrInvalidInput = errors.New("invalid sherd input")
	// ErrEmptyBatch indicates an ingestion with no observations.
	ErrEmptyBatch = errors.New("empty sherd batch")
	// ErrInvalidQualification indicates a qualification label outside the
	// vocabulary of the target group's ware.
	ErrInvalidQualification = errors.New("qualification not valid for material type")
	// ErrInvalidDiagnostic indicates an unrecognized diagnostic type.
	ErrInvalidDiagnostic = errors.New("unrecognized diagnostic type")
)
