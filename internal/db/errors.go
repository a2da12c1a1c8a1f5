package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound     = errors.New("db: key not found")
	ErrInvalidQuery    = errors.New("db: invalid query")
	ErrUnsupportedType = errors.New("db: unsupported driver")
)

// Op constants name the failing operation for error context.
const (
	OpFindRows  = "FIND_ROWS"
	OpMigrate   = "MIGRATE"
	OpPing      = "PING"
	OpDel       = "DEL"
	OpGet       = "GET"
	OpSet       = "SET"
	OpSAdd      = "SADD"
	OpSMembers  = "SMEMBERS"
	OpExpire    = "EXPIRE"
	OpPublish   = "PUBLISH"
	OpSubscribe = "SUBSCRIBE"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
