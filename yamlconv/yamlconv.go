// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package yamlconv converts YAML documents into JSON values.
//
// YAML is decoded with gopkg.in/yaml.v3 and the result is rewritten into the
// value types of the ast package. Mapping keys must be strings, integer and
// float scalars become JSON numbers, and timestamps render as RFC 3339
// strings. Aliases are expanded during decoding, so the resulting values
// contain no shared structure.
package yamlconv

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/creachadair/jval"
	"github.com/creachadair/jval/ast"
	"gopkg.in/yaml.v3"
)

// Parse decodes a single YAML document from data into an ast.Value. It
// reports an error if data does not contain exactly one document.
func Parse(data []byte) (ast.Value, error) {
	vs, err := ParseAll(data)
	if err != nil {
		return nil, err
	} else if len(vs) != 1 {
		return nil, fmt.Errorf("got %d documents, want 1", len(vs))
	}
	return vs[0], nil
}

// ParseAll decodes all the YAML documents from data, in order.
func ParseAll(data []byte) ([]ast.Value, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var out []ast.Value
	for {
		var doc any
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		norm, err := normalize(doc)
		if err != nil {
			return nil, err
		}
		v, err := ast.FromAny(norm)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

// normalize rewrites YAML-specific shapes into the forms ast.FromAny
// accepts. Mapping keys must be strings, and timestamps are rendered as
// RFC 3339 strings.
func normalize(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			nv, err := normalize(vv)
			if err != nil {
				return nil, err
			}
			out[k] = nv
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("%w %T for object key", jval.ErrInvalidType, k)
			}
			nv, err := normalize(vv)
			if err != nil {
				return nil, err
			}
			out[ks] = nv
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			nv, err := normalize(vv)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	case time.Time:
		return t.Format(time.RFC3339), nil
	default:
		return v, nil
	}
}
