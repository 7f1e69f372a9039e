// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jval

import (
	"errors"
	"fmt"

	"github.com/creachadair/jval/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string {
	esc := escape.Quote(mem.S(src))
	buf := make([]byte, 0, len(esc)+2)
	buf = append(buf, '"')
	buf = append(buf, esc...)
	buf = append(buf, '"')
	return string(buf)
}

// Unquote decodes a JSON string value.  Double quotation marks are removed,
// and escape sequences are replaced with their unescaped equivalents.
//
// Invalid, incomplete, and unpaired-surrogate escapes are reported as errors
// wrapping the matching condition from this package.
func Unquote(src []byte) ([]byte, error) {
	if len(src) < 2 || src[0] != '"' || src[len(src)-1] != '"' {
		return nil, errors.New("missing quotations")
	}
	dec, err := escape.Unquote(mem.B(src[1 : len(src)-1]))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", unquoteKind(err), err)
	}
	return dec, nil
}

// unquoteKind maps a decoding failure from the escape package to the
// condition it denotes.
func unquoteKind(err error) error {
	switch {
	case errors.Is(err, escape.ErrBadSurrogate):
		return ErrInvalidEncoding
	case errors.Is(err, escape.ErrIncomplete):
		return ErrUnexpectedEOF
	default:
		return ErrUnexpectedChar
	}
}
