package deck

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks empty required fields, mismatched passwords and taken names.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks unknown cards.
	ErrNotFound = errors.New("not found")
	// ErrCapacity marks a full command zone.
	ErrCapacity = errors.New("capacity exceeded")
	// ErrDuplicate marks a card that is already in the deck.
	ErrDuplicate = errors.New("duplicate")
	// ErrUnauthenticated marks deck actions without a logged in user.
	ErrUnauthenticated = errors.New("not logged in")
)

// UserError is a recoverable error with a message meant for the user.
// It unwraps to one of the sentinel errors above.
type UserError struct {
	Kind    error
	Message string
}

// NewUserError returns a UserError of the given kind.
func NewUserError(kind error, format string, args ...any) *UserError {
	return &UserError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *UserError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *UserError) Unwrap() error {
	return e.Kind
}

// UserMessage returns the user facing message of err if it carries one.
func UserMessage(err error) (string, bool) {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Message, true
	}
	return "", false
}
