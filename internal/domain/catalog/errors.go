package catalog

import "errors"

var (
	// ErrInvalidInput indicates a missing or malformed field.
	ErrInvalidInput = errors.New("invalid catalog input")
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrGroupNotFound indicates the material group doesn't exist.
	ErrGroupNotFound = errors.New("material group not found")
	// ErrAllocationConflict indicates the allocated identifier collided
	// with a concurrently created sibling even after a retry.
	ErrAllocationConflict = errors.New("identifier allocation conflict")
	// ErrMaterialIDTaken indicates the requested material identifier is
	// already used by a sibling group.
	ErrMaterialIDTaken = errors.New("material id already in use")
	// ErrLettersExhausted indicates no container letter suffix is free
	// between A and Z.
	ErrLettersExhausted = errors.New("container letter suffixes exhausted")
)
