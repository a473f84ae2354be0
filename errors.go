package airdrive

import (
	"errors"
	"strings"
)

// Error kinds. Every error returned by a Drive operation matches at most one
// of these with errors.Is; the underlying cause, if any, is still reachable
// through errors.Is and errors.As.
var (
	ErrAccountNotFound    = errors.New("drive does not exist")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnableToCreate     = errors.New("unable to open drive")
	ErrInvalidURL         = errors.New("invalid URL")
	ErrInvalidFile        = errors.New("invalid file")
	ErrFileNotFound       = errors.New("file not found")
	ErrInvalidParameter   = errors.New("invalid parameter")
)

// Error records a failed drive operation.
type Error struct {
	// Kind is one of the Err* kinds declared in this package.
	Kind error
	// Err is the underlying cause, or nil.
	Err  error
	Op   string
	Path string
	Msg  string
}

var _ error = (*Error)(nil)

func (e *Error) Error() string {
	if e == nil {
		return "(*airdrive.Error)(nil)"
	}

	var sb strings.Builder

	if e.Op != "" {
		sb.WriteString(e.Op)

		if e.Path != "" {
			sb.WriteString(" ")
			sb.WriteString(e.Path)
		}

		sb.WriteString(": ")
	}

	sb.WriteString(e.Kind.Error())

	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
	}

	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	return sb.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}
