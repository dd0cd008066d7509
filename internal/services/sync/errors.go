// File: internal/services/sync/errors.go
package sync

import (
	"fmt"
)

// SyncError represents a sync-specific error
type SyncError struct {
	Op      string
	Message string
	Err     error
}

func (e *SyncError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sync %s error: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("sync %s error: %s", e.Op, e.Message)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

func NewConfigError(message string) *SyncError {
	return &SyncError{
		Op:      "config",
		Message: message,
	}
}

func NewConnectionError(op, message string, err error) *SyncError {
	return &SyncError{
		Op:      op,
		Message: message,
		Err:     err,
	}
}
