// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package escape

import "go4.org/mem"

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

// Quote encodes a string to escape characters for inclusion in a JSON string.
// Only the double quotation mark, the backslash, and the control characters
// with short escape forms are rewritten. All other bytes are copied through
// verbatim, including multibyte UTF-8 sequences.
func Quote(src mem.RO) []byte {
	buf := make([]byte, 0, src.Len()+2)
	for i := 0; i < src.Len(); i++ {
		b := src.At(i)
		switch {
		case b == '"' || b == '\\':
			buf = append(buf, '\\', b)
		case b < ' ' && controlEsc[b] != 0:
			buf = append(buf, '\\', controlEsc[b])
		default:
			buf = append(buf, b)
		}
	}
	return buf
}
