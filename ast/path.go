// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"fmt"

	"github.com/creachadair/jval"
)

// Path traverses a sequential path through the structure of a value starting
// at v, where path elements are either strings (denoting object keys) or
// integers (denoting offsets into arrays).  If the path is valid, the element
// reached is returned. If traversal fails, the input v is returned along with
// the error; a path element that is neither a string nor an int reports an
// error with a nil value.
//
// If a path element is a string, the corresponding value must be an object,
// and the string resolves an object member with that name. A missing member
// reports an error wrapping jval.ErrUndefinedField.
//
// If a path element is an integer, the corresponding value must be an array,
// and the integer resolves to an index in the array. Negative indices count
// backward from the end of the array (-1 is last, -2 second last, etc.).
//
// Traversing a value of the wrong type, or indexing outside the bounds of an
// array, reports an error wrapping jval.ErrInvalidType.
func Path(v Value, path ...any) (Value, error) {
	cur := v
	for _, elt := range path {
		switch t := elt.(type) {
		case string:
			obj, ok := cur.(Object)
			if !ok {
				return v, fmt.Errorf("%w: cannot traverse %T with %q", jval.ErrInvalidType, cur, t)
			}
			m := obj.Find(t)
			if m == nil {
				return v, fmt.Errorf("%w: key %q not found", jval.ErrUndefinedField, t)
			}
			cur = m.Value
		case int:
			arr, ok := cur.(Array)
			if !ok {
				return v, fmt.Errorf("%w: cannot traverse %T with %v", jval.ErrInvalidType, cur, t)
			}
			i, ok := fixArrayBound(len(arr), t)
			if !ok {
				return v, fmt.Errorf("%w: array index %d out of bounds (n=%d)", jval.ErrInvalidType, t, len(arr))
			}
			cur = arr[i]
		default:
			return nil, fmt.Errorf("%w: invalid path element %T", jval.ErrInvalidType, elt)
		}
	}
	return cur, nil
}

func fixArrayBound(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}
