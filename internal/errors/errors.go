package errors

import (
	"errors"
	"fmt"
)

// Custom error types for the creator catalog

// DuplicateURLMessage is shown inline on the edit form when another creator already uses the URL.
const DuplicateURLMessage = "This URL is already in use. Please enter a unique URL."

// ErrCreatorNotFound is returned when no creator exists for an ID
var ErrCreatorNotFound = errors.New("creator not found")

// ErrFormNotReady is returned when an edit form is used before it finished loading
var ErrFormNotReady = errors.New("form is not ready")

// ErrInvalidFields is returned when submitted fields break the form constraints
var ErrInvalidFields = errors.New("invalid creator fields")

// FetchError is returned when a creator could not be loaded
type FetchError struct {
	ID  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch creator %s: %v", e.ID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// DuplicateURLError is returned when an edit would give a creator the URL of another creator
type DuplicateURLError struct {
	URL string
}

func (e *DuplicateURLError) Error() string {
	return DuplicateURLMessage
}

// WriteError is returned when an insert, update or delete is rejected by the store
type WriteError struct {
	Op  string
	ID  string
	Err error
}

func (e *WriteError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("failed to %s creator: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("failed to %s creator %s: %v", e.Op, e.ID, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// UnexpectedError wraps a panic recovered while talking to the store
type UnexpectedError struct {
	Op    string
	Cause interface{}
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected error during %s: %v", e.Op, e.Cause)
}

func (e *UnexpectedError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}

// ErrURLCheckFailed is returned when URL health check fails
type ErrURLCheckFailed struct {
	URL    string
	Reason string
}

func (e ErrURLCheckFailed) Error() string {
	return fmt.Sprintf("failed to check URL %s: %s", e.URL, e.Reason)
}

// ErrConfigLoad is returned when configuration loading fails
type ErrConfigLoad struct {
	Path   string
	Reason string
}

func (e ErrConfigLoad) Error() string {
	return fmt.Sprintf("failed to load config from %s: %s", e.Path, e.Reason)
}
