// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package jval

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by the failures the codec reports. Use errors.Is
// to check which condition occurred.
var (
	// ErrUnexpectedToken: a well-formed token arrived where the grammar does
	// not permit it, or a keyword was misspelled.
	ErrUnexpectedToken = errors.New("unexpected token")

	// ErrUnexpectedEOF: the input ended while a token or value was still
	// expected.
	ErrUnexpectedEOF = errors.New("unexpected end of input")

	// ErrUnexpectedChar: a character that cannot begin any token or complete
	// an escape sequence.
	ErrUnexpectedChar = errors.New("unexpected character")

	// ErrInvalidNumber: a number with a repeated decimal point or exponent,
	// or whose text does not denote a finite value.
	ErrInvalidNumber = errors.New("invalid number")

	// ErrInvalidEncoding: string data that does not assemble into valid
	// Unicode, such as an unpaired surrogate escape.
	ErrInvalidEncoding = errors.New("invalid text encoding")

	// ErrInvalidType: a value does not have the type required by the
	// requested conversion or traversal.
	ErrInvalidType = errors.New("invalid value type")

	// ErrUndefinedField: an object does not have the requested member.
	ErrUndefinedField = errors.New("undefined field")
)

// A SyntaxError is the concrete type of errors reported by the scanner and
// the parser. It records where in the input the error occurred.
type SyntaxError struct {
	Location Location // the location of the error in the input
	Message  string   // a human-readable description of the error

	err error // the underlying condition, for errors.Is
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.Location.First, s.Message)
}

// Unwrap returns the condition underlying s.
func (s *SyntaxError) Unwrap() error { return s.err }

// Syntax constructs a *SyntaxError at loc wrapping the given condition.
func Syntax(kind error, loc Location, msg string, args ...any) *SyntaxError {
	return &SyntaxError{Location: loc, Message: fmt.Sprintf(msg, args...), err: kind}
}
