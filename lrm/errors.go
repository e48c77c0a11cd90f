package lrm

import (
	"fmt"

	"github.com/pkg/errors"
)

type Code int

const (
	Internal      Code = 0
	NotFound      Code = 1
	AlreadyExists Code = 2
	Invalid       Code = 3
)

var codeToName = map[Code]string{
	Internal:      "INTERNAL",
	NotFound:      "NOT_FOUND",
	AlreadyExists: "ALREADY_EXISTS",
	Invalid:       "INVALID",
}

func (c Code) String() string {
	if name, ok := codeToName[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(c))
}

// Error is returned by every Table operation that fails. A failed operation
// leaves the table as it was, except for Internal errors raised while handing
// a decision to the originator.
type Error struct {
	msg  string
	Code Code
}

func (e *Error) Error() string {
	return e.msg
}

func newError(code Code, format string, args ...interface{}) *Error {
	return &Error{msg: fmt.Sprintf(format, args...), Code: code}
}

// CodeOf returns the code of the first *Error in err's chain, or Internal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Internal
}

func IsNotFound(err error) bool {
	return err != nil && CodeOf(err) == NotFound
}
