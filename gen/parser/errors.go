package parser

import (
	"errors"
	"fmt"
)

var (
	ErrUnmatchedBracket = errors.New("unmatched bracket")
	ErrSyntax           = errors.New("syntax error")
	ErrUnknownStatement = errors.New("unknown statement")
	ErrUnresolved       = errors.New("unresolved reference")
)

// StatementError ties a failure to the statement or table body
// definition that caused it
type StatementError struct {
	Statement string
	Err       error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("%v in %q", e.Err, e.Statement)
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

func stmtErr(stmt string, err error) error {
	var se *StatementError
	if errors.As(err, &se) {
		return err
	}
	return &StatementError{Statement: stmt, Err: err}
}
