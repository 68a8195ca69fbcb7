package types

import "errors"

// Store lifecycle errors.
var (
	// ErrNotReady is returned by every operation before Open succeeds or
	// after Close.
	ErrNotReady = errors.New("store is not ready")
)

// Table operation errors.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrInvalidID     = errors.New("invalid entity ID")
	ErrTableNotFound = errors.New("table not found")
	ErrInvalidField  = errors.New("field not declared in table schema")
)

// Query errors.
var (
	// ErrUnsupportedQuery is returned by the emulated backend for raw SQL
	// shapes outside the SELECT/FROM/WHERE-equality subset it interprets.
	ErrUnsupportedQuery = errors.New("unsupported query shape")
)

// Entity validation errors.
var (
	ErrInvalidPriority  = errors.New("invalid priority value")
	ErrInvalidFrequency = errors.New("invalid check-in frequency")
	ErrInvalidTitle     = errors.New("title must not be empty")
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrStoreNameEmpty = errors.New("store name must not be empty")
)
