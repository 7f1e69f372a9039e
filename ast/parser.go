// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/creachadair/jval"
)

// Options control optional extensions of the input grammar accepted by the
// parser. The zero value parses strict JSON.
type Options struct {
	// AllowComments: skip C++ style line (// ...) and block (/* ... */)
	// comments anywhere whitespace may appear.
	AllowComments bool

	// AllowTrailingCommas: permit a comma directly before the closing
	// bracket of an array or object.
	AllowTrailingCommas bool
}

// Parse parses a single JSON value in strict mode from r.
// In case of a syntax error, the returned error has type [*jval.SyntaxError].
func Parse(r io.Reader) (Value, error) { return Options{}.Parse(r) }

// ParseString parses a single JSON value in strict mode from s.
func ParseString(s string) (Value, error) { return Parse(strings.NewReader(s)) }

// Parse parses a single JSON value from r with the grammar extensions
// selected by o, and requires the remainder of the input to be empty.
// In case of a syntax error, the returned error has type [*jval.SyntaxError].
func (o Options) Parse(r io.Reader) (_ Value, err error) {
	p := &parser{s: jval.NewScanner(r), tcomma: o.AllowTrailingCommas}
	p.s.AllowComments(o.AllowComments)
	defer p.recoverParseError(&err)

	if err := p.next(); err == io.EOF {
		return nil, jval.Syntax(jval.ErrUnexpectedEOF, p.s.Location(), "empty input")
	} else if err != nil {
		return nil, err
	}
	v := p.parseElement()

	// The value must be the whole of the input.
	if err := p.next(); err == nil {
		return nil, jval.Syntax(jval.ErrUnexpectedToken, p.s.Location(),
			"unexpected %v after value", p.s.Token())
	} else if err != io.EOF {
		return nil, err
	}
	return v, nil
}

// A parser performs recursive descent over the tokens of a scanner, building
// the Value each grammar production denotes. Errors are propagated by
// panicking with the error and recovered at the entry point.
type parser struct {
	s      *jval.Scanner
	tcomma bool // allow trailing commas in objects and arrays
}

func (p *parser) recoverParseError(errp *error) {
	if serr := recover(); serr != nil {
		if err, ok := serr.(*jval.SyntaxError); ok {
			*errp = err
		} else {
			panic(serr)
		}
	}
}

// parseElement consumes a single value of any type.
// Precondition: token != Invalid.
func (p *parser) parseElement() Value {
	switch tok := p.s.Token(); tok {
	case jval.LBrace:
		ms := p.parseMembers()
		p.require(jval.RBrace)
		return sortUnique(ms)
	case jval.LSquare:
		vs := p.parseElements()
		p.require(jval.RSquare)
		return vs
	case jval.Number:
		return Number(p.s.Float64())
	case jval.String:
		return String(p.s.Unescape())
	case jval.True:
		return Bool(true)
	case jval.False:
		return Bool(false)
	case jval.Null:
		return Null
	}
	p.syntaxError(jval.ErrUnexpectedToken, "unexpected %v", p.s.Token())
	return nil
}

// parseMembers consumes zero or more key:value object members.
// Precondition: token == LBrace.
// Postcondition: token == RBrace.
func (p *parser) parseMembers() []*Member {
	tok := p.advance(jval.RBrace, jval.String)
	if tok == jval.RBrace {
		return nil // end of object
	}
	var ms []*Member
	for {
		// Parse a single member: "key": value
		key := string(p.s.Unescape())
		p.advance(jval.Colon)
		p.advance()
		ms = append(ms, &Member{Key: key, Value: p.parseElement()})

		// Check whether we have more members (",") or are done ("}").
		tok := p.advance(jval.RBrace, jval.Comma)
		if tok == jval.RBrace {
			return ms // end of object
		} else if p.tcomma {
			// If trailing commas are allowed and the next token is a close
			// bracket, consider this a valid end of the object. Otherwise, it
			// must be a key for a subsequent element.
			next := p.advance(jval.String, jval.RBrace)
			if next == jval.RBrace {
				return ms // end of object with trailing comma
			}
		} else {
			p.advance(jval.String) // advance to next key
		}
	}
}

// parseElements consumes zero or more comma-separated array values.
// Precondition: token == LSquare.
// Postcondition: token == RSquare.
func (p *parser) parseElements() Array {
	if tok := p.advance(); tok == jval.RSquare {
		return Array{} // end of array
	}
	vs := Array{p.parseElement()}
	for {
		tok := p.advance(jval.RSquare, jval.Comma)
		if tok == jval.RSquare {
			return vs // end of array
		}

		// If trailing commas are allowed and the next token is a close bracket,
		// consider this a valid end of the array; otherwise it will fail on the
		// next element.
		if next := p.advance(); p.tcomma && next == jval.RSquare {
			return vs // end of array with trailing comma
		}
		vs = append(vs, p.parseElement())
	}
}

// next advances the scanner to the next significant token, skipping any
// comment tokens. It returns io.EOF at the end of the input.
func (p *parser) next() error {
	for {
		if err := p.s.Next(); err != nil {
			return err
		}
		if tok := p.s.Token(); tok == jval.LineComment || tok == jval.BlockComment {
			continue // comments are not delivered to the parser
		}
		return nil
	}
}

// advance fetches the next significant token. If token types are given, the
// new token must be one of them.
func (p *parser) advance(tokens ...jval.Token) jval.Token {
	if err := p.next(); err == io.EOF {
		p.syntaxError(jval.ErrUnexpectedEOF, "%s", tokLabel(tokens, "end of input"))
	} else if err != nil {
		panic(err) // a *jval.SyntaxError from the scanner
	}
	tok := p.s.Token()
	if len(tokens) != 0 && !slices.Contains(tokens, tok) {
		p.syntaxError(jval.ErrUnexpectedToken, "%s", tokLabel(tokens, tok))
	}
	return tok
}

func (p *parser) require(token jval.Token) {
	if tok := p.s.Token(); tok != token {
		p.syntaxError(jval.ErrUnexpectedToken, "expected %v, got %v", token, tok)
	}
}

// syntaxError panics with a *jval.SyntaxError at the current location
// wrapping the condition kind. The Parse entry points recover it.
func (p *parser) syntaxError(kind error, msg string, args ...any) {
	panic(jval.Syntax(kind, p.s.Location(), msg, args...))
}

// tokLabel makes a human-readable summary string for the given token types.
func tokLabel(tokens []jval.Token, got any) string {
	if len(tokens) == 0 {
		return fmt.Sprint(got)
	}
	var exp string
	if len(tokens) == 1 {
		exp = tokens[0].String()
	} else {
		last := len(tokens) - 1
		ss := make([]string, len(tokens)-1)
		for i, tok := range tokens[:last] {
			ss[i] = tok.String()
		}
		exp = strings.Join(ss, ", ") + " or " + tokens[last].String()
	}
	return fmt.Sprintf("expected %s, got %v", exp, got)
}
