package services

import (
	"errors"
	"fmt"
)

var (
	// ErrDeviceNotFound is returned when no device carries the requested id.
	ErrDeviceNotFound = errors.New("device not found")
	// ErrDuplicateDevice is returned when a new device reuses an existing id.
	ErrDuplicateDevice = errors.New("device id already exists")
	// ErrUnknownTechnician is returned when a name is not in the directory.
	ErrUnknownTechnician = errors.New("technician not in directory")
	// ErrInvalidPasscode is returned when the team passcode does not match.
	ErrInvalidPasscode = errors.New("invalid passcode")
)

// DeserializationError reports a stored blob that could not be parsed.
// The store never discards such data.
type DeserializationError struct {
	Key string
	Err error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("corrupted record store key %q: %v", e.Key, e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

// TransientNetworkError wraps a failed call to a remote endpoint. It is only
// ever logged.
type TransientNetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *TransientNetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransientNetworkError) Unwrap() error { return e.Err }
