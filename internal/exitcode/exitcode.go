package exitcode

import (
	"errors"

	"github.com/kjourdan1/scaffctl/internal/condition"
	"github.com/kjourdan1/scaffctl/internal/frontmatter"
	"github.com/kjourdan1/scaffctl/internal/pathresolve"
)

const (
	OK            = 0
	Generic       = 1
	Validation    = 2
	Generation    = 3
	Warnings      = 4
	SecurityBlock = 7
)

type Error struct {
	Code  int
	Cause error
}

func (e *Error) Error() string {
	return e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Wrap(code int, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Cause: err}
}

func Of(err error) int {
	if err == nil {
		return OK
	}

	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}

	var securityErr *pathresolve.SecurityError
	if errors.As(err, &securityErr) {
		return SecurityBlock
	}

	var parseErr *frontmatter.ParseError
	if errors.As(err, &parseErr) {
		return Validation
	}

	var syntaxErr *condition.SyntaxError
	if errors.As(err, &syntaxErr) {
		return Validation
	}

	return Generic
}
