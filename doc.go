// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jval implements a self-contained JSON codec: a lexical scanner
// over JSON text, and (in the ast subpackage) a parser producing a tree of
// values and a generator rendering such trees back to text.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for JSON.  Construct a scanner
// from an io.Reader and call its Next method to iterate over the stream. Next
// advances to the next input token and returns nil, or reports an error:
//
//	s := jval.NewScanner(input)
//	for s.Next() == nil {
//	   log.Printf("Next token: %v", s.Token())
//	}
//
// Next returns io.EOF when the input has been fully consumed. Any other error
// indicates an I/O or lexical error in the input.
//
//	if s.Err() != io.EOF {
//	   log.Fatalf("Scanning failed: %v", err)
//	}
//
// Lexical errors have concrete type *jval.SyntaxError, which records the
// location of the error in the input. Each error wraps one of the sentinel
// conditions defined by this package, so the failure class can be recovered
// with errors.Is:
//
//	if errors.Is(s.Err(), jval.ErrInvalidNumber) {
//	   log.Print("That was not a number")
//	}
//
// # Tokens
//
// Punctuation marks are single-character tokens delimited by themselves.
// The constants true, false, and null must appear in full. A String token
// retains its quotation marks and escape sequences; call Unescape for the
// decoded text. A Number token carries its decoded value, reported by
// Float64; all numbers are IEEE-754 binary64 values. Only the space, tab,
// line feed, and carriage return characters are skipped as whitespace.
//
// With AllowComments enabled the scanner also emits LineComment and
// BlockComment tokens for C++ style comments, a non-standard extension.
//
// # Values
//
// Use the ast subpackage to parse input into value trees and to render
// values as text in compact or indented form.
package jval
