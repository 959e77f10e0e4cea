package db

import (
	"errors"
	"fmt"
)

// Sentinel errors for database operations.
var (
	ErrNoDocument       = errors.New("db: no document")
	ErrConfiguration    = errors.New("db: invalid configuration")
	ErrConnectionString = errors.New("db: invalid connection string")
	ErrNotConnected     = errors.New("db: not connected")
)

// Op constants name store operations for error context and metrics.
const (
	OpFind           = "find"
	OpFindOne        = "findOne"
	OpInsertOne      = "insertOne"
	OpUpdateMany     = "updateMany"
	OpDeleteMany     = "deleteMany"
	OpCountDocuments = "countDocuments"
	OpDistinct       = "distinct"
	OpPing           = "ping"
	OpConnect        = "connect"
	OpDisconnect     = "disconnect"
)

// Error wraps an underlying store error with the operation and collection.
type Error struct {
	Op         string
	Collection string
	Err        error
}

func (e *Error) Error() string {
	if e.Collection == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Collection + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap returns nil for a nil err, else an *Error.
func Wrap(op, collection string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Collection: collection, Err: err}
}

// ConfigurationError reports missing or contradictory connection parameters.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConfiguration.Error(), e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// ConnectionStringError reports a malformed connection URL.
// The URL itself is not kept since it may carry credentials.
type ConnectionStringError struct {
	Reason string
}

func (e *ConnectionStringError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConnectionString.Error(), e.Reason)
}

func (e *ConnectionStringError) Unwrap() error { return ErrConnectionString }
