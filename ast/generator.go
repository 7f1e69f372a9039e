// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/creachadair/jval"
)

// A Formatter carries the settings for rendering values as text.
// A zero value is ready for use with default settings.
type Formatter struct {
	// Minify: emit no insignificant whitespace.
	Minify bool

	// Indent: the number of spaces per indentation level when not
	// minifying. Zero means the default of 4.
	Indent int
}

// Format renders an indented representation of v to w with default settings.
func Format(w io.Writer, v Value) error {
	var f Formatter
	return f.Format(w, v)
}

// FormatString renders an indented representation of v to a string with
// default settings.
func FormatString(v Value) string {
	var f Formatter
	return f.String(v)
}

// Format renders a representation of v to w using the settings from f.
// Rendering a well-formed value cannot fail; the only errors reported are
// from writing to w.
func (f Formatter) Format(w io.Writer, v Value) error {
	g := &generator{minify: f.Minify, indent: f.Indent}
	if g.indent <= 0 {
		g.indent = 4
	}
	g.value(v)
	_, err := io.WriteString(w, g.sb.String())
	return err
}

// String renders a representation of v to a string using the settings
// from f.
func (f Formatter) String(v Value) string {
	var buf bytes.Buffer
	if f.Format(&buf, v) != nil {
		return ""
	}
	return buf.String()
}

// dent encodes the indentation transitions of the generator: begin the new
// line one level deeper, one level shallower, or at the current level.
type dent int

const (
	stay dent = iota
	right
	left
)

// A generator renders values into an output buffer. Arrays and objects open
// a new line per element unless minifying; empty arrays and objects render
// as "[]" and "{}" with no line break in either mode.
type generator struct {
	sb     strings.Builder
	minify bool
	indent int
	depth  int
}

// newline starts a new output line at the depth selected by d. When
// minifying it emits nothing.
func (g *generator) newline(d dent) {
	if g.minify {
		return
	}
	switch d {
	case right:
		g.depth++
	case left:
		g.depth--
	}
	g.sb.WriteByte('\n')
	g.sb.WriteString(strings.Repeat(" ", g.depth*g.indent))
}

func (g *generator) value(v Value) {
	switch t := v.(type) {
	case nullValue:
		g.sb.WriteString("null")
	case Bool:
		g.sb.WriteString(t.JSON())
	case Number:
		g.sb.WriteString(formatFloat(float64(t)))
	case String:
		g.sb.WriteString(jval.Quote(string(t)))
	case Array:
		g.array(t)
	case Object:
		g.object(t)
	default:
		panic(fmt.Sprintf("unknown value type %T", v))
	}
}

func (g *generator) array(a Array) {
	if len(a) == 0 {
		g.sb.WriteString("[]")
		return
	}
	g.sb.WriteByte('[')
	g.newline(right)
	for i, v := range a {
		if i > 0 {
			g.sb.WriteByte(',')
			if !g.minify {
				g.sb.WriteByte(' ')
			}
			g.newline(stay)
		}
		g.value(v)
	}
	g.newline(left)
	g.sb.WriteByte(']')
}

func (g *generator) object(o Object) {
	if len(o) == 0 {
		g.sb.WriteString("{}")
		return
	}
	g.sb.WriteByte('{')
	g.newline(right)
	for i, m := range o.sorted() {
		if i > 0 {
			g.sb.WriteByte(',')
			g.newline(stay)
		}
		g.sb.WriteString(jval.Quote(m.Key))
		g.sb.WriteByte(':')
		if !g.minify {
			g.sb.WriteByte(' ')
		}
		g.value(m.Value)
	}
	g.newline(left)
	g.sb.WriteByte('}')
}
