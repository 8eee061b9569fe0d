// Package common defines the error taxonomy shared by the signing pipeline,
// the document store gateway and the HTTP layer. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Identity errors.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("forbidden")

	// Lookup errors: the record or its underlying blob is absent.
	ErrNotFound = errors.New("not found")

	// Input errors.
	ErrMalformedDocument = errors.New("malformed document")
	ErrInvalidPayload    = errors.New("invalid verification payload")
	ErrValidation        = errors.New("validation error")
	ErrConflict          = errors.New("already exists")
	ErrPayloadTooLarge   = errors.New("payload too large")

	// Persistence errors (blob write/read or record insert).
	ErrStorageFailure = errors.New("storage failure")
)
