// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON strings.
package escape

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// Errors reported by Unquote. Callers match them with errors.Is.
var (
	ErrIncomplete   = errors.New("incomplete escape sequence")
	ErrBadEscape    = errors.New("invalid escape sequence")
	ErrBadHex       = errors.New("invalid hex digit")
	ErrBadSurrogate = errors.New("unpaired surrogate")
)

// Unquote decodes a byte slice containing the JSON encoding of a string. The
// input must have the enclosing double quotation marks already removed.
//
// Escape sequences are replaced with their unescaped equivalents. A Unicode
// escape in the surrogate range must be the leading half of a valid pair,
// immediately followed by its trailing half; the two combine into a single
// code point. Invalid or incomplete escapes are reported as errors.
func Unquote(src mem.RO) ([]byte, error) {
	dec := make([]byte, 0, src.Len())
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		dec = mem.Append(dec, src)
		return dec, nil
	}

	putRune := func(r rune) {
		var buf [6]byte
		n := utf8.EncodeRune(buf[:], r)
		dec = append(dec, buf[:n]...)
	}
	for src.Len() != 0 {
		dec = mem.Append(dec, src.SliceTo(i))

		// Decode the next rune after the escape to figure out what to
		// substitute.
		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, ErrIncomplete
		}
		r, n := mem.DecodeRune(src)
		if n == 0 {
			n++
		}

		src = src.SliceFrom(n)
		switch r {
		case '"', '\\', '/':
			dec = append(dec, byte(r))
		case 'b':
			dec = append(dec, '\b')
		case 'f':
			dec = append(dec, '\f')
		case 'n':
			dec = append(dec, '\n')
		case 'r':
			dec = append(dec, '\r')
		case 't':
			dec = append(dec, '\t')
		case 'u':
			if src.Len() < 4 {
				return nil, fmt.Errorf("%w: truncated Unicode escape", ErrIncomplete)
			}
			v, err := parseHex(src.SliceTo(4))
			if err != nil {
				return nil, err
			}
			src = src.SliceFrom(4)
			if r := rune(v); !utf16.IsSurrogate(r) {
				putRune(r)
			} else {
				// The lead half of a surrogate pair must be followed at once
				// by "\u" and a valid trailing half.
				if src.Len() < 6 || src.At(0) != '\\' || src.At(1) != 'u' {
					return nil, ErrBadSurrogate
				}
				rest := src.SliceFrom(2)
				v2, err := parseHex(rest.SliceTo(4))
				if err != nil {
					return nil, err
				}
				c := utf16.DecodeRune(r, rune(v2))
				if c == utf8.RuneError {
					return nil, ErrBadSurrogate
				}
				putRune(c)
				src = rest.SliceFrom(4)
			}
		default:
			return nil, fmt.Errorf("%w \\%c", ErrBadEscape, r)
		}

		// Look for the next escape sequence, and if one is not found we can blit
		// the rest of the input and go home.
		i = mem.IndexByte(src, '\\')
		if i < 0 {
			dec = mem.Append(dec, src)
			break
		}
	}
	return dec, nil
}

func parseHex(data mem.RO) (int64, error) {
	var v int64
	for i := 0; i < data.Len(); i++ {
		b := data.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += int64(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += int64(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += int64(b - 'A' + 10)
		} else {
			return 0, fmt.Errorf("%w %q", ErrBadHex, b)
		}
	}
	return v, nil
}
