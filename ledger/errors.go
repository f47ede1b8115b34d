package ledger

import (
	"errors"
	"fmt"
)

// ValidationError is a rejected request. No state was changed.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrSelfTransfer = &ValidationError{
		Code:    "self_transfer",
		Message: "transactions cannot be reassigned to the account being deleted",
	}
	ErrLastAccount = &ValidationError{
		Code:    "last_account",
		Message: "the last remaining account cannot be deleted",
	}
	ErrAlreadyConfirmed = &ValidationError{
		Code:    "already_confirmed",
		Message: "transaction is already confirmed",
	}
	ErrUsernameTaken = &ValidationError{
		Code:    "username_taken",
		Message: "username is already taken",
	}
	ErrDuplicateName = &ValidationError{
		Code:    "duplicate_name",
		Message: "an entry with this name already exists",
	}
	ErrAlreadyMember = &ValidationError{
		Code:    "already_member",
		Message: "user is already a member of the group",
	}
)

// ErrNotFound matches every NotFoundError via errors.Is.
var ErrNotFound = errors.New("not found")

// NotFoundError reports a missing row, or one that belongs to another owner.
// The two cases are indistinguishable to the caller.
type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(resource string, id int) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// StorageError wraps a failure of the underlying database. Multi-statement
// operations are rolled back before it is returned.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
