package vault

import (
	"errors"
	"fmt"

	"tagvault/internal/store"
)

// OpErrorCode categorizes domain operation failures.
type OpErrorCode string

const (
	// ErrCodeTagInUse means the tag still has associated files. Raised
	// before any store call is attempted.
	ErrCodeTagInUse OpErrorCode = "TAG_IN_USE"

	// ErrCodeGroupInUse means the group still owns tags. Raised before
	// any store call is attempted.
	ErrCodeGroupInUse OpErrorCode = "GROUP_IN_USE"

	// ErrCodeDuplicateName means a group or tag name is already taken
	// within its uniqueness scope.
	ErrCodeDuplicateName OpErrorCode = "DUPLICATE_NAME"

	// ErrCodeDuplicatePath means the path is already registered under
	// different content.
	ErrCodeDuplicatePath OpErrorCode = "DUPLICATE_PATH"

	// ErrCodeDuplicateContent means the exact content already exists in
	// the store under another path (see OpError.ExistingPath).
	ErrCodeDuplicateContent OpErrorCode = "DUPLICATE_CONTENT"

	// ErrCodeAlreadyRegistered means this path with this exact content is
	// already in the store.
	ErrCodeAlreadyRegistered OpErrorCode = "ALREADY_REGISTERED"

	// ErrCodeNotAFile means the path does not resolve to a readable
	// regular file.
	ErrCodeNotAFile OpErrorCode = "NOT_A_FILE"

	// ErrCodeNotFound means the referenced entity is not in the graph.
	ErrCodeNotFound OpErrorCode = "NOT_FOUND"

	// ErrCodeStorage covers unexpected store-level failures.
	ErrCodeStorage OpErrorCode = "STORAGE"
)

// OpError is a typed, recoverable domain operation failure. It reaches the
// caller as data; the graph and store are left consistent for the failed
// item.
type OpError struct {
	Code    OpErrorCode
	Message string

	// ExistingPath names the path already holding the content, for
	// DUPLICATE_CONTENT failures.
	ExistingPath string
}

// Error implements the error interface.
func (e *OpError) Error() string {
	if e.ExistingPath != "" {
		return fmt.Sprintf("%s: %s (existing path %s)", e.Code, e.Message, e.ExistingPath)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsTagInUse reports whether err is a TAG_IN_USE failure.
func IsTagInUse(err error) bool { return hasCode(err, ErrCodeTagInUse) }

// IsGroupInUse reports whether err is a GROUP_IN_USE failure.
func IsGroupInUse(err error) bool { return hasCode(err, ErrCodeGroupInUse) }

// IsDuplicateName reports whether err is a DUPLICATE_NAME failure.
func IsDuplicateName(err error) bool { return hasCode(err, ErrCodeDuplicateName) }

// IsDuplicateContent reports whether err is a DUPLICATE_CONTENT failure.
func IsDuplicateContent(err error) bool { return hasCode(err, ErrCodeDuplicateContent) }

// IsDuplicatePath reports whether err is a DUPLICATE_PATH failure.
func IsDuplicatePath(err error) bool { return hasCode(err, ErrCodeDuplicatePath) }

// IsNotFound reports whether err is a NOT_FOUND failure.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

func hasCode(err error, code OpErrorCode) bool {
	var oe *OpError
	return errors.As(err, &oe) && oe.Code == code
}

func notFound(kind string, id int64) *OpError {
	return &OpError{Code: ErrCodeNotFound, Message: fmt.Sprintf("%s %d not found", kind, id)}
}

// fromItemError translates a store-level per-item failure into a domain
// failure. uniqueAs names the domain meaning of a UNIQUE violation at this
// call site.
func fromItemError(itemErr *store.ItemError, uniqueAs OpErrorCode) *OpError {
	switch itemErr.Code {
	case store.FailUnique:
		return &OpError{Code: uniqueAs, Message: itemErr.Message}
	case store.FailForeignKey:
		return &OpError{Code: ErrCodeStorage, Message: itemErr.Message}
	case store.FailNotAFile:
		return &OpError{Code: ErrCodeNotAFile, Message: itemErr.Message}
	case store.FailNotFound:
		return &OpError{Code: ErrCodeNotFound, Message: itemErr.Message}
	default:
		return &OpError{Code: ErrCodeStorage, Message: itemErr.Message}
	}
}
