package mcp

import (
	"errors"
	"fmt"

	"github.com/ganot/atelier/internal/domain/activity"
	"github.com/ganot/atelier/internal/domain/project"
	"github.com/ganot/atelier/internal/domain/selection"
	"github.com/ganot/atelier/internal/domain/session"
)

// APIError is the error a tool returns to the client. The SDK sends its
// Error text back as an IsError result.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint == "" {
		return e.Code + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
}

// errorCodes is checked in order; the first sentinel matched wins. An empty
// message means the wrapped error text is shown.
var errorCodes = []struct {
	sentinels []error
	code      string
	message   string
	hint      string
}{
	{[]error{project.ErrProjectNotFound, session.ErrProjectNotFound}, "PROJECT_NOT_FOUND", "project not found", "Call list_projects for valid ids"},
	{[]error{selection.ErrNoImages}, "NO_IMAGES", "project has no images", "Pick another project"},
	{[]error{selection.ErrIndexOutOfRange}, "INDEX_OUT_OF_RANGE", "", "Use get_selection for the image count"},
	{[]error{session.ErrSessionNotFound}, "SESSION_NOT_FOUND", "session not found", "Start a new session"},
	{[]error{session.ErrSessionClosed}, "SESSION_CLOSED", "session is closed", "Use a new session id"},
	{[]error{project.ErrInvalidInput, session.ErrInvalidInput, activity.ErrInvalidInput}, "INVALID_INPUT", "", ""},
}

// MapError converts a domain error to an APIError, or nil when err is nil
// or not a domain error.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	for _, entry := range errorCodes {
		for _, sentinel := range entry.sentinels {
			if !errors.Is(err, sentinel) {
				continue
			}
			message := entry.message
			if message == "" {
				message = err.Error()
			}
			return &APIError{Code: entry.code, Message: message, RecoveryHint: entry.hint}
		}
	}
	return nil
}

// toolError returns the mapped APIError when there is one, otherwise err.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
