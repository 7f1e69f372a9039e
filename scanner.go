// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jval

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/creachadair/jval/internal/escape"
	"go4.org/mem"
)

// Token is the type of a lexical token in the JSON grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	Comma                // comma ","
	Colon                // colon ":"
	Number               // number with optional fraction and/or exponent
	String               // quoted string
	True                 // constant: true
	False                // constant: false
	Null                 // constant: null

	BlockComment // comment: /* ... */
	LineComment  // comment: // ... <LF>

	// Do not modify the order of these constants without updating the
	// self-delimiting token check below.
)

var tokenStr = [...]string{
	Invalid: "invalid token",
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	LSquare: `"["`,
	RSquare: `"]"`,
	Comma:   `","`,
	Colon:   `":"`,
	Number:  "number",
	String:  "string",
	True:    "true",
	False:   "false",
	Null:    "null",

	BlockComment: "block comment",
	LineComment:  "line comment",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// A Scanner reads lexical tokens from an input stream.  Each call to Next
// advances the scanner to the next token, or reports an error.
type Scanner struct {
	r        *bufio.Reader
	comments bool         // allow comments
	buf      bytes.Buffer // current token
	tok      Token
	err      error
	num      float64 // value of current token, when tok == Number

	pos, end int // start and end offsets of current token
	last     int // size in bytes of last-read input rune

	// Apparent line and column offsets (0-based)
	pline, pcol int
	eline, ecol int
	lline, lcol int // eline, ecol before the last-read rune, for unrune
}

// NewScanner constructs a new lexical scanner that consumes input from r.
func NewScanner(r io.Reader) *Scanner {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Scanner{r: br}
}

// AllowComments configures the scanner to report (true) or reject (false)
// comment tokens. Comments are a non-standard extension of the JSON spec.  If
// enabled, C++ style block comments (/* ... */) and line comments (// ...)
// are recognized and emitted as tokens.
func (s *Scanner) AllowComments(ok bool) { s.comments = ok }

// Next advances s to the next token of the input, or reports an error.
// At the end of the input, Next returns io.EOF.
func (s *Scanner) Next() error {
	s.buf.Reset()
	s.err = nil
	s.tok = Invalid
	s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol

	for {
		ch, err := s.rune()
		if err == io.EOF {
			return s.setErr(err)
		} else if err != nil {
			return s.failf(err, "read error: %v", err)
		}

		// Discard whitespace. Only space, tab, line feed, and carriage return
		// are insignificant; no other character is ever skipped.
		if isSpace(ch) {
			s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol
			continue
		}

		// Handle punctuation.
		if t, ok := selfDelim(ch); ok {
			s.buf.WriteRune(ch)
			s.tok = t
			return nil
		}

		// Handle numbers.
		if isNumStart(ch) {
			return s.scanNumber(ch)
		}

		// Handle string values.
		if ch == '"' {
			return s.scanString(ch)
		}

		// Handle comments, if enabled.
		if ch == '/' && s.comments {
			return s.scanComment(ch)
		}

		// Handle constants: true, false, null
		var want mem.RO
		switch ch {
		case 't':
			s.tok = True
			want = mem.S("true")
			err = s.scanName(ch)
		case 'f':
			s.tok = False
			want = mem.S("false")
			err = s.scanName(ch)
		case 'n':
			s.tok = Null
			want = mem.S("null")
			err = s.scanName(ch)
		default:
			return s.failf(ErrUnexpectedChar, "unexpected %q", ch)
		}
		if err != nil {
			return err
		} else if got := mem.B(s.buf.Bytes()); !got.Equal(want) {
			s.tok = Invalid
			return s.failf(ErrUnexpectedToken, "unknown constant %q", got.StringCopy())
		}
		return nil // OK, token is already set
	}
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the last error reported by Next.
func (s *Scanner) Err() error { return s.err }

// Text returns the undecoded text of the current token.  The return value is
// only valid until the next call of Next. The caller must copy the contents of
// the returned slice if it is needed beyond that.
func (s *Scanner) Text() []byte { return s.buf.Bytes() }

// Copy returns a copy of the undecoded text of the current token.
func (s *Scanner) Copy() []byte { return append([]byte(nil), s.buf.Bytes()...) }

// Float64 returns the value of the current token when its type is Number.
// For all other token types it returns 0.
func (s *Scanner) Float64() float64 {
	if s.tok == Number {
		return s.num
	}
	return 0
}

// Unescape returns the decoded text of the current token when its type is
// String, with the quotation marks removed and escape sequences replaced by
// their values. For all other token types it is equivalent to Copy.
func (s *Scanner) Unescape() []byte {
	if s.tok != String {
		return s.Copy()
	}
	text := s.buf.Bytes()
	dec, err := escape.Unquote(mem.B(text[1 : len(text)-1]))
	if err != nil {
		// The scanner validated the escapes when the token was read.
		panic(fmt.Sprintf("invalid string token: %v", err))
	}
	return dec
}

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location {
	return Location{
		Span:  s.Span(),
		First: LineCol{Line: s.pline + 1, Column: s.pcol},
		Last:  LineCol{Line: s.eline + 1, Column: s.ecol},
	}
}

func (s *Scanner) scanString(open rune) error {
	s.buf.WriteRune(open)
	for {
		ch, err := s.rune()
		if err != nil {
			return s.readErr(err)
		}
		if ch == open {
			s.buf.WriteRune(ch)
			s.tok = String
			return nil
		}
		if ch != '\\' {
			// Unescaped characters are accepted verbatim, including raw
			// controls and non-ASCII text.
			s.buf.WriteRune(ch)
			continue
		}

		// Complete a \-escape.
		s.buf.WriteRune(ch)
		ch, err = s.rune()
		if err != nil {
			return s.readErr(err)
		}
		switch ch {
		case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
			s.buf.WriteByte(byte(ch))
		case 'u':
			s.buf.WriteByte(byte(ch))
			v, err := s.readHex4()
			if err != nil {
				return err
			}
			if utf16.IsSurrogate(rune(v)) {
				if err := s.scanSurrogate(rune(v)); err != nil {
					return err
				}
			}
		default:
			return s.failf(ErrUnexpectedChar, "invalid %q after escape", ch)
		}
	}
}

// scanSurrogate scans the trailing half of a surrogate pair whose leading
// half hi was just read. The two halves must combine to a valid code point.
func (s *Scanner) scanSurrogate(hi rune) error {
	c1, err := s.rune()
	if err != nil {
		return s.readErr(err)
	} else if c1 != '\\' {
		return s.failf(ErrInvalidEncoding, "unpaired surrogate %q", hi)
	}
	s.buf.WriteRune(c1)
	c2, err := s.rune()
	if err != nil {
		return s.readErr(err)
	} else if c2 != 'u' {
		return s.failf(ErrInvalidEncoding, "unpaired surrogate %q", hi)
	}
	s.buf.WriteRune(c2)
	lo, err := s.readHex4()
	if err != nil {
		return err
	}
	if utf16.DecodeRune(hi, rune(lo)) == utf8.RuneError {
		return s.failf(ErrInvalidEncoding, "invalid surrogate pair %q, %q", hi, rune(lo))
	}
	return nil
}

// scanNumber accumulates the longest prefix of the input that can begin a
// number: an optional leading sign, digits, at most one decimal point, at
// most one exponent marker with an optional sign directly after it. The
// lexeme must then parse as a finite binary64 value.
func (s *Scanner) scanNumber(start rune) error {
	s.buf.WriteRune(start)
	var dot, exp bool
	for {
		ch, err := s.rune()
		if err == io.EOF {
			break
		} else if err != nil {
			return s.failf(err, "read error: %v", err)
		}

		if isDigit(ch) {
			s.buf.WriteRune(ch)
			continue
		}
		if ch == '.' && !dot && !exp {
			dot = true
			s.buf.WriteRune(ch)
			continue
		}
		if isExpMark(ch) && !exp {
			exp = true
			s.buf.WriteRune(ch)

			// A single sign may directly follow the exponent marker.
			sn, err := s.rune()
			if err == io.EOF {
				continue
			} else if err != nil {
				return s.failf(err, "read error: %v", err)
			}
			if sn == '+' || sn == '-' {
				s.buf.WriteRune(sn)
			} else {
				s.unrune()
			}
			continue
		}
		if ch == '.' || isExpMark(ch) {
			return s.failf(ErrInvalidNumber, "invalid number %q", s.buf.String()+string(ch))
		}
		s.unrune()
		break
	}

	v, err := strconv.ParseFloat(s.buf.String(), 64)
	if err != nil {
		return s.failf(ErrInvalidNumber, "invalid number %q", s.buf.String())
	}
	s.num = v
	s.tok = Number
	return nil
}

func (s *Scanner) scanComment(first rune) error {
	s.buf.WriteRune(first)
	ch, err := s.rune()
	if err != nil {
		return s.readErr(err)
	}
	switch ch {
	case '/': // line comment to LF
		s.buf.WriteRune(ch)
		_, end, err := s.readWhile(isNotLF)
		if err == nil {
			s.buf.WriteRune(end)
		} else if err != io.EOF {
			return s.failf(err, "read error: %v", err)
		}
		s.tok = LineComment
		return nil

	case '*': // block comment
		s.buf.WriteRune(ch)
		for {
			_, end, err := s.readWhile(isNotStar)
			if err != nil {
				return s.readErr(err)
			}
			s.buf.WriteRune(end) // end == '*'

			// Check whether we have "*/", which would end the comment.
			next, err := s.rune()
			if err != nil {
				return s.readErr(err)
			}
			if next == '/' {
				s.buf.WriteRune(next)
				s.tok = BlockComment
				return nil
			}
			s.unrune()

			// We saw "*" but not "/", so keep scanning for the end of the block.
		}

	default:
		s.unrune()
		return s.failf(ErrUnexpectedChar, "invalid %q in comment", ch)
	}
}

func (s *Scanner) scanName(first rune) error {
	s.buf.WriteRune(first)
	_, _, err := s.readWhile(isNameRune)
	if err == io.EOF {
		return nil
	} else if err != nil {
		return s.failf(err, "read error: %v", err)
	}
	s.unrune()
	return nil
}

func (s *Scanner) rune() (rune, error) {
	ch, nb, err := s.r.ReadRune()
	s.last = nb
	s.end += nb
	s.lline, s.lcol = s.eline, s.ecol
	if ch == '\n' {
		s.eline++
		s.ecol = 0
	} else {
		s.ecol += nb
	}
	return ch, err
}

func (s *Scanner) unrune() {
	s.end -= s.last
	s.eline, s.ecol = s.lline, s.lcol
	s.last = 0
	s.r.UnreadRune()
}

// readWhile consumes runes matching f from the input until EOF or until a rune
// not matching f is found. The first non-matching rune (if any) is returned.
// It is the caller's responsibility to unread this rune, if desired.
// The int reports the number of runes consumed.
func (s *Scanner) readWhile(f func(rune) bool) (int, rune, error) {
	var nr int
	for {
		ch, err := s.rune()
		if err != nil {
			return nr, 0, err
		} else if !f(ch) {
			return nr, ch, nil
		}
		s.buf.WriteRune(ch)
		nr++
	}
}

// readHex4 reads exactly 4 hexadecimal digits from the input and returns
// their value.
func (s *Scanner) readHex4() (int64, error) {
	var v int64
	for i := 0; i < 4; i++ {
		ch, err := s.rune()
		if err != nil {
			return 0, s.readErr(err)
		} else if !isHexDigit(ch) {
			return 0, s.failf(ErrUnexpectedChar, "not a hex digit: %q", ch)
		}
		s.buf.WriteRune(ch)
		v = v<<4 | int64(hexValue(ch))
	}
	return v, nil
}

func (s *Scanner) setErr(err error) error {
	s.err = err
	return err
}

// failf records and returns a *SyntaxError at the current location wrapping
// the condition kind.
func (s *Scanner) failf(kind error, msg string, args ...any) error {
	return s.setErr(Syntax(kind, s.Location(), msg, args...))
}

// readErr converts an error from the underlying reader into a scan error.
// An end of input in the middle of a token reports ErrUnexpectedEOF.
func (s *Scanner) readErr(err error) error {
	if err == io.EOF {
		return s.failf(ErrUnexpectedEOF, "unexpected end of input")
	}
	return s.failf(err, "read error: %v", err)
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isNotStar(ch rune) bool  { return ch != '*' }
func isNotLF(ch rune) bool    { return ch != '\n' }
func isNumStart(ch rune) bool { return ch == '-' || isDigit(ch) }
func isExpMark(ch rune) bool  { return ch == 'e' || ch == 'E' }
func isDigit(ch rune) bool    { return '0' <= ch && ch <= '9' }
func isNameRune(ch rune) bool { return ch >= 'a' && ch <= 'z' }

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func hexValue(ch rune) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'a' && ch <= 'f':
		return int(ch-'a') + 10
	default:
		return int(ch-'A') + 10
	}
}

var self = [...]Token{LBrace, RBrace, LSquare, RSquare, Comma, Colon}

func selfDelim(ch rune) (Token, bool) {
	i := strings.IndexRune("{}[],:", ch)
	if i >= 0 {
		return self[i], true
	}
	return Invalid, false
}
