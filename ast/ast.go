// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package ast defines an abstract syntax tree for JSON values, a parser
// that constructs syntax trees from JSON source, and a generator that
// renders trees back to JSON text.
package ast

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/creachadair/jval"
)

// A Value is an arbitrary JSON value.
type Value interface {
	// JSON returns a compact JSON rendering of the value. Members of an
	// object render in ascending order of key.
	JSON() string

	// String returns a plain-text rendering of the value: the bare text of
	// strings, numbers, Booleans, and null, and compact JSON for arrays and
	// objects.
	String() string
}

// Null represents the JSON null constant. All occurrences of null in a
// syntax tree refer to this value.
var Null nullValue

type nullValue struct{}

func (nullValue) JSON() string { return "null" }

func (nullValue) String() string { return "null" }

// A Bool is a Boolean constant, true or false.
type Bool bool

func (b Bool) JSON() string {
	if b {
		return "true"
	}
	return "false"
}

func (b Bool) String() string { return b.JSON() }

// A String is a string value.
type String string

// Len returns the length in bytes of the text of s.
func (s String) Len() int { return len(s) }

func (s String) JSON() string { return jval.Quote(string(s)) }

func (s String) String() string { return string(s) }

// A Number is a numeric value. All numbers are represented as IEEE-754
// binary64 (double precision) values, including those written as integers.
type Number float64

// Int constructs a Number representing z.
func Int(z int64) Number { return Number(z) }

// Float constructs a Number representing f.
func Float(f float64) Number { return Number(f) }

// IsInt reports whether n is an integral value.
func (n Number) IsInt() bool {
	f := float64(n)
	return f == math.Trunc(f) && !math.IsInf(f, 0)
}

func (n Number) JSON() string { return formatFloat(float64(n)) }

func (n Number) String() string { return n.JSON() }

// formatFloat renders f in the shortest form that parses back to the same
// value, using plain decimal notation for magnitudes in [1e-6, 1e21) and
// exponent notation with an uncluttered exponent otherwise. NaN and the
// infinities have no JSON form and render as null.
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	b := strconv.AppendFloat(make([]byte, 0, 24), f, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(b)
		if n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}
	return string(b)
}

// An Array is a sequence of values.
type Array []Value

// ArrayOf constructs an Array from the given values. Each argument must be
// a valid input to ToValue.
func ArrayOf(vs ...any) Array {
	out := make(Array, len(vs))
	for i, v := range vs {
		out[i] = ToValue(v)
	}
	return out
}

func (a Array) Len() int { return len(a) }

func (a Array) JSON() string {
	if len(a) == 0 {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	sb.WriteString(a[0].JSON())
	for _, v := range a[1:] {
		sb.WriteByte(',')
		sb.WriteString(v.JSON())
	}
	sb.WriteByte(']')
	return sb.String()
}

func (a Array) String() string { return a.JSON() }

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value Value
}

// Field constructs an object member with the given key and value.
// The value must be a string, int, float, bool, nil, or ast.Value;
// Field panics for any other type.
func Field(key string, value any) *Member {
	return &Member{Key: key, Value: ToValue(value)}
}

func (m Member) JSON() string {
	k := jval.Quote(m.Key)
	v := m.Value.JSON()
	buf := make([]byte, len(k)+len(v)+1)
	n := copy(buf, k)
	buf[n] = ':'
	copy(buf[n+1:], v)
	return string(buf)
}

// An Object is a collection of key-value members.
//
// The parser and the ObjectOf constructor deliver members in ascending order
// of key with unique keys. Rendering emits members in ascending key order
// even if the slice has since been rearranged; uniqueness is not re-checked.
type Object []*Member

// ObjectOf constructs an Object from the given members, in ascending order
// of key. When multiple members share a key, the last one given wins.
func ObjectOf(ms ...*Member) Object { return sortUnique(ms) }

// sortUnique sorts ms by key and collapses runs of equal keys, keeping the
// member given last for each key.
func sortUnique(ms []*Member) Object {
	if len(ms) == 0 {
		return Object{}
	}
	sort.SliceStable(ms, func(i, j int) bool { return ms[i].Key < ms[j].Key })
	out := ms[:0]
	for _, m := range ms {
		if n := len(out); n > 0 && out[n-1].Key == m.Key {
			out[n-1] = m
		} else {
			out = append(out, m)
		}
	}
	return Object(out)
}

// Find returns the first member of o with the given key, or nil.
func (o Object) Find(key string) *Member {
	for _, m := range o {
		if m.Key == key {
			return m
		}
	}
	return nil
}

func (o Object) Len() int { return len(o) }

// Sort sorts the members of o in ascending order by key.
func (o Object) Sort() {
	sort.SliceStable(o, func(i, j int) bool { return o[i].Key < o[j].Key })
}

// sorted returns o itself if its members are already in ascending key
// order, or else a sorted copy of o.
func (o Object) sorted() Object {
	if sort.SliceIsSorted(o, func(i, j int) bool { return o[i].Key < o[j].Key }) {
		return o
	}
	cp := make(Object, len(o))
	copy(cp, o)
	cp.Sort()
	return cp
}

func (o Object) JSON() string {
	if len(o) == 0 {
		return "{}"
	}
	so := o.sorted()
	var sb strings.Builder
	sb.WriteByte('{')
	sb.WriteString(so[0].JSON())
	for _, m := range so[1:] {
		sb.WriteByte(',')
		sb.WriteString(m.JSON())
	}
	sb.WriteByte('}')
	return sb.String()
}

func (o Object) String() string { return o.JSON() }

// ToValue converts a string, int, float, bool, or nil into an ast.Value.
// An existing Value is returned unchanged. ToValue panics if v does not
// have one of those types.
func ToValue(v any) Value {
	if t, ok := scalarValue(v); ok {
		return t
	}
	panic(fmt.Sprintf("invalid value type %T", v))
}

// Stringify renders a value in minified JSON form. The argument must be a
// valid input to ToValue; Stringify panics for unsupported types.
func Stringify(v any) string { return ToValue(v).JSON() }

func scalarValue(v any) (Value, bool) {
	switch t := v.(type) {
	case nil:
		return Null, true
	case Value:
		return t, true
	case bool:
		return Bool(t), true
	case string:
		return String(t), true
	case int:
		return Number(t), true
	case int8:
		return Number(t), true
	case int16:
		return Number(t), true
	case int32:
		return Number(t), true
	case int64:
		return Number(t), true
	case uint:
		return Number(t), true
	case uint8:
		return Number(t), true
	case uint16:
		return Number(t), true
	case uint32:
		return Number(t), true
	case uint64:
		return Number(t), true
	case float32:
		return Number(t), true
	case float64:
		return Number(t), true
	}
	return nil, false
}

// FromAny converts plain Go data into a Value. It accepts all the inputs of
// ToValue, plus []any and map[string]any applied recursively. Unlike ToValue
// it does not panic; an unsupported type reports an error wrapping
// jval.ErrInvalidType.
func FromAny(v any) (Value, error) {
	switch t := v.(type) {
	case []any:
		out := make(Array, len(t))
		for i, elt := range t {
			sub, err := FromAny(elt)
			if err != nil {
				return nil, err
			}
			out[i] = sub
		}
		return out, nil
	case map[string]any:
		ms := make([]*Member, 0, len(t))
		for key, elt := range t {
			sub, err := FromAny(elt)
			if err != nil {
				return nil, err
			}
			ms = append(ms, &Member{Key: key, Value: sub})
		}
		return sortUnique(ms), nil
	default:
		if out, ok := scalarValue(v); ok {
			return out, nil
		}
		return nil, fmt.Errorf("%w %T", jval.ErrInvalidType, v)
	}
}

// ToAny projects v onto plain Go values: nil, bool, float64, string, []any,
// and map[string]any. Member order is not preserved in maps.
func ToAny(v Value) any {
	switch t := v.(type) {
	case nullValue:
		return nil
	case Bool:
		return bool(t)
	case Number:
		return float64(t)
	case String:
		return string(t)
	case Array:
		out := make([]any, len(t))
		for i, elt := range t {
			out[i] = ToAny(elt)
		}
		return out
	case Object:
		out := make(map[string]any, len(t))
		for _, m := range t {
			out[m.Key] = ToAny(m.Value)
		}
		return out
	default:
		panic(fmt.Sprintf("unknown value type %T", v))
	}
}
