package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"tagvault/internal/vault"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // successful execution
	ExitFailure      = 1 // domain failure (duplicate, in-use, not found)
	ExitCommandError = 2 // command error (unreadable database, bad flags)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Returns ExitFailure
// if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Response is the standard JSON envelope for CLI output.
type Response struct {
	Status string        `json:"status"` // "ok" or "error"
	Data   interface{}   `json:"data,omitempty"`
	Error  *ErrorPayload `json:"error,omitempty"`
}

// ErrorPayload carries a failed operation's code and message.
type ErrorPayload struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	ExistingPath string `json:"existing_path,omitempty"`
}

// Success outputs a successful result in the configured format. In text
// mode the caller prints its own lines and passes nil data.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format != "json" {
		return nil
	}
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(Response{Status: "ok", Data: data})
}

// Fail outputs a domain failure and returns the matching ExitError.
func (f *OutputFormatter) Fail(err error) error {
	payload := toErrorPayload(err)
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		_ = enc.Encode(Response{Status: "error", Error: payload})
	} else {
		fmt.Fprintf(f.Writer, "error [%s]: %s\n", payload.Code, payload.Message)
		if payload.ExistingPath != "" {
			fmt.Fprintf(f.Writer, "  existing path: %s\n", payload.ExistingPath)
		}
	}
	return NewExitError(ExitFailure, payload.Message)
}

func toErrorPayload(err error) *ErrorPayload {
	var opErr *vault.OpError
	if errors.As(err, &opErr) {
		return &ErrorPayload{
			Code:         string(opErr.Code),
			Message:      opErr.Message,
			ExistingPath: opErr.ExistingPath,
		}
	}
	return &ErrorPayload{Code: "STORAGE", Message: err.Error()}
}
