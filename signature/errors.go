package signature

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds. Match them with errors.Is; a returned error always wraps
// exactly one kind.
var (
	// ErrSetup reports bad randomness or invalid group/field parameters.
	ErrSetup = errors.New("setup failed")
	// ErrKeyGen reports a randomness failure during key generation.
	ErrKeyGen = errors.New("key generation failed")
	// ErrSigning reports a malformed message, an unusable secret key or a
	// randomness failure while signing.
	ErrSigning = errors.New("signing failed")
	// ErrVerification reports malformed verification input. A well-formed
	// signature that does not verify is not an error.
	ErrVerification = errors.New("malformed verification input")
	// ErrRandomization reports a malformed randomization token.
	ErrRandomization = errors.New("randomization failed")
)

// Error carries the kind of failure, the operation that failed and the
// underlying cause.
type Error struct {
	Kind error
	Op   string
	Err  error
}

// NewError returns an *Error of the given kind. err may be nil.
func NewError(kind error, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf returns an *Error of the given kind with a formatted cause.
func Errorf(kind error, op, format string, args ...interface{}) error {
	return &Error{Kind: kind, Op: op, Err: errors.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
