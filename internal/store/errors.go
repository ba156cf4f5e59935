package store

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"tagvault/internal/digest"
)

// OpenErrorCode categorizes fatal open-time failures.
type OpenErrorCode string

const (
	// OpenErrInvalidFormat indicates the path exists but is not a SQLite file.
	OpenErrInvalidFormat OpenErrorCode = "INVALID_FORMAT"

	// OpenErrSchemaMismatch indicates the store's tables or columns do not
	// match the registry. Never auto-repaired.
	OpenErrSchemaMismatch OpenErrorCode = "SCHEMA_MISMATCH"

	// OpenErrCreateFailed indicates a fresh store could not be initialized.
	OpenErrCreateFailed OpenErrorCode = "CREATE_FAILED"
)

// OpenError is a fatal, store-wide failure during Open. The store handle is
// released before it is returned; the caller may retry with another path.
type OpenError struct {
	Code OpenErrorCode
	Path string
	Err  error
}

// Error implements the error interface.
func (e *OpenError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: open %s: %v", e.Code, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: open %s", e.Code, e.Path)
}

// Unwrap returns the underlying cause.
func (e *OpenError) Unwrap() error {
	return e.Err
}

// IsInvalidFormat reports whether err is an INVALID_FORMAT open failure.
func IsInvalidFormat(err error) bool {
	var oe *OpenError
	return errors.As(err, &oe) && oe.Code == OpenErrInvalidFormat
}

// IsSchemaMismatch reports whether err is a SCHEMA_MISMATCH open failure.
func IsSchemaMismatch(err error) bool {
	var oe *OpenError
	return errors.As(err, &oe) && oe.Code == OpenErrSchemaMismatch
}

// IsCreateFailed reports whether err is a CREATE_FAILED open failure.
func IsCreateFailed(err error) bool {
	var oe *OpenError
	return errors.As(err, &oe) && oe.Code == OpenErrCreateFailed
}

// FailureCode categorizes per-item, recoverable batch failures.
type FailureCode string

const (
	// FailUnique indicates a UNIQUE constraint rejected the item.
	FailUnique FailureCode = "UNIQUE_CONSTRAINT"

	// FailForeignKey indicates a referential constraint rejected the item,
	// e.g. deleting a group that still owns tags.
	FailForeignKey FailureCode = "REFERENTIAL_CONSTRAINT"

	// FailNotAFile indicates the digest target is missing or unreadable.
	FailNotAFile FailureCode = "NOT_A_FILE"

	// FailNotFound indicates a delete matched no row.
	FailNotFound FailureCode = "NOT_FOUND"

	// FailStorage covers unexpected database errors.
	FailStorage FailureCode = "STORAGE"
)

// ItemError is a single item's failure inside a batch result. It is data,
// not a thrown error: the rest of the batch proceeds regardless.
//
// For file creation failures Digest carries the computed content digest so
// the caller can disambiguate a duplicate-path from a duplicate-content
// violation by a follow-up lookup. SQLite does not reliably report which of
// the two UNIQUE constraints fired when both are violated.
type ItemError struct {
	Code    FailureCode
	Message string
	Digest  string
}

// Error implements the error interface.
func (e *ItemError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// classify maps a database error to a typed per-item failure.
func classify(err error) *ItemError {
	if errors.Is(err, digest.ErrNotAFile) {
		return &ItemError{Code: FailNotAFile, Message: err.Error()}
	}
	var nf notFoundError
	if errors.As(err, &nf) {
		return &ItemError{Code: FailNotFound, Message: nf.Error()}
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return &ItemError{Code: FailUnique, Message: se.Error()}
		case sqlite3.ErrConstraintForeignKey, sqlite3.ErrConstraintTrigger:
			return &ItemError{Code: FailForeignKey, Message: se.Error()}
		}
	}
	return &ItemError{Code: FailStorage, Message: err.Error()}
}
