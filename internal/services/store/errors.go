// File: internal/services/store/errors.go
package store

import (
	"errors"
	"fmt"
)

// ErrReferentialIntegrity reports a message insert whose chatId resolves to
// no existing chat.
var ErrReferentialIntegrity = errors.New("chat does not exist")

// StoreError represents a store-specific error
type StoreError struct {
	Op      string
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store %s error: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("store %s error: %s", e.Op, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func NewValidationError(op, message string) *StoreError {
	return &StoreError{
		Op:      op,
		Message: message,
	}
}

func NewStorageError(op, message string, err error) *StoreError {
	return &StoreError{
		Op:      op,
		Message: message,
		Err:     err,
	}
}

func NewReferentialIntegrityError(chatID string) *StoreError {
	return &StoreError{
		Op:      "insert_message",
		Message: fmt.Sprintf("message references chat %q", chatID),
		Err:     ErrReferentialIntegrity,
	}
}
