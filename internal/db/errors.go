package db

import (
	"errors"
	"fmt"
)

// Op names the store operation that failed.
type Op string

// Store operations.
const (
	OpPing        Op = "PING"
	OpSearch      Op = "FT.SEARCH"
	OpAggregate   Op = "FT.AGGREGATE"
	OpCreateIndex Op = "FT.CREATE"
	OpDropIndex   Op = "FT.DROPINDEX"
	OpIndexInfo   Op = "FT.INFO"
	OpHSet        Op = "HSET"
)

// Sentinel errors returned by store drivers.
var (
	ErrIndexNotFound      = errors.New("index not found")
	ErrIndexAlreadyExists = errors.New("index already exists")
	ErrInvalidQuery       = errors.New("invalid query")
	ErrUnavailable        = errors.New("store unavailable")
)

// Error wraps a driver failure with the operation that produced it.
type Error struct {
	Op  Op
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("db: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err with the failing operation.
func NewError(op Op, err error) *Error {
	return &Error{Op: op, Err: err}
}
