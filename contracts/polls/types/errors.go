package types

import (
	"fmt"

	"golang.org/x/xerrors"
)

// Error kinds of the contract. They are surfaced to the caller wrapped with
// the details of the failure and can be tested with xerrors.Is.
var (
	// ErrUnauthorized is returned when the sender is not allowed to perform
	// the command.
	ErrUnauthorized = xerrors.New("unauthorized")

	// ErrTooManyOptions is returned when a poll is created with more than
	// MaxOptions options.
	ErrTooManyOptions = xerrors.New("too many options")

	// ErrNoOptions is returned when a poll is created without options.
	ErrNoOptions = xerrors.New("no options")

	// ErrEmptyOption is returned when a poll is created with an empty label.
	ErrEmptyOption = xerrors.New("empty option")

	// ErrDuplicateOption is returned when a poll is created with the same
	// label twice and duplicates are rejected.
	ErrDuplicateOption = xerrors.New("duplicate option")

	// ErrPollAlreadyExists is returned when the identifier of a new poll is
	// already used.
	ErrPollAlreadyExists = xerrors.New("poll already exists")

	// ErrPollNotFound is returned when a poll does not exist.
	ErrPollNotFound = xerrors.New("poll not found")

	// ErrInvalidOption is returned when a vote is cast for a label that is not
	// an option of the poll.
	ErrInvalidOption = xerrors.New("invalid option")

	// ErrNotVoted is returned when a vote is deleted by a sender without a
	// ballot.
	ErrNotVoted = xerrors.New("not voted")

	// ErrNotFound is returned when the configuration is missing, which means
	// the contract was never instantiated.
	ErrNotFound = xerrors.New("not found")

	// ErrAlreadyInstantiated is returned when the contract is instantiated a
	// second time on the same store.
	ErrAlreadyInstantiated = xerrors.New("already instantiated")

	// ErrInvalidMessage is returned when a message cannot be decoded or has
	// an invalid shape.
	ErrInvalidMessage = xerrors.New("invalid message")

	// ErrStorage is returned when the store fails or holds a record that
	// cannot be decoded.
	ErrStorage = xerrors.New("storage error")
)

// kindError is an error of a given kind with a detailed message.
type kindError struct {
	kind error
	msg  string
}

// NewError returns an error of the given kind. The message is formatted after
// the kind, like "poll not found: p1".
func NewError(kind error, format string, args ...interface{}) error {
	return kindError{
		kind: kind,
		msg:  fmt.Sprintf(format, args...),
	}
}

// Error implements error.
func (e kindError) Error() string {
	return e.kind.Error() + ": " + e.msg
}

// Unwrap returns the kind of the error.
func (e kindError) Unwrap() error {
	return e.kind
}
