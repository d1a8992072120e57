// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package store

import (
	"errors"
	"fmt"

	"github.com/mdhender/ccmsg"
)

// ErrDatabase is returned when database operations fail.
type ErrDatabase struct {
	Op  string
	Err error
}

func (e *ErrDatabase) Error() string {
	return fmt.Sprintf("database %s: %v", e.Op, e.Err)
}

func (e *ErrDatabase) Unwrap() error {
	return e.Err
}

// Error code constants for database storage.
const (
	ErrCodeDatabase        = "DATABASE"
	ErrCodeUnexpectedToken = "UNEXPECTED_TOKEN"
	ErrCodeUnknown         = "UNKNOWN"
)

// ErrorCode returns the error code string for a given error.
func ErrorCode(err error) string {
	var ut *ccmsg.UnexpectedToken
	var db *ErrDatabase
	switch {
	case errors.As(err, &ut):
		return ErrCodeUnexpectedToken
	case errors.As(err, &db):
		return ErrCodeDatabase
	default:
		return ErrCodeUnknown
	}
}
