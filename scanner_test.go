// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jval_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/creachadair/jval"
	"github.com/google/go-cmp/cmp"
)

func TestScanner(t *testing.T) {
	tests := []struct {
		input string
		want  []jval.Token
	}{
		// Empty inputs
		{"", nil},
		{"  ", nil},
		{"\n\n  \n", nil},
		{"\t  \r\n \t  \r\n", nil},

		// Constants
		{"true false null", []jval.Token{jval.True, jval.False, jval.Null}},

		// Punctuation
		{"{ [ ] } , :", []jval.Token{
			jval.LBrace, jval.LSquare, jval.RSquare, jval.RBrace, jval.Comma, jval.Colon,
		}},

		// Strings
		{`"" "a b c" "a\nb\tc"`, []jval.Token{jval.String, jval.String, jval.String}},
		{`"\"\\\/\b\f\n\r\t"`, []jval.Token{jval.String}},
		{`"\u0000\u01fc\uAA9c"`, []jval.Token{jval.String}},
		{`"𝄞"`, []jval.Token{jval.String}},

		// Numbers. All numeric tokens are reported as Number, and redundant
		// leading zeroes and bare trailing points are accepted.
		{`0 -1 5139 2.3 5e+9 3.6E+4 -0.001E-100 01 1.`, []jval.Token{
			jval.Number, jval.Number, jval.Number, jval.Number, jval.Number,
			jval.Number, jval.Number, jval.Number, jval.Number,
		}},

		// Mixed types
		{`{true,"false":-15 null[]}`, []jval.Token{
			jval.LBrace, jval.True, jval.Comma, jval.String, jval.Colon,
			jval.Number, jval.Null, jval.LSquare, jval.RSquare, jval.RBrace,
		}},
		{`{"a": true, "b":[null, 1, 0.5]}`, []jval.Token{
			jval.LBrace,
			jval.String, jval.Colon, jval.True, jval.Comma,
			jval.String, jval.Colon,
			jval.LSquare,
			jval.Null, jval.Comma, jval.Number, jval.Comma, jval.Number,
			jval.RSquare,
			jval.RBrace,
		}},
		{`"a",1,true
       false["b"]
       `, []jval.Token{
			jval.String, jval.Comma, jval.Number, jval.Comma, jval.True,
			jval.False, jval.LSquare, jval.String, jval.RSquare,
		}},
	}

	for _, test := range tests {
		var got []jval.Token
		s := jval.NewScanner(strings.NewReader(test.input))
		for s.Next() == nil {
			got = append(got, s.Token())
		}
		if s.Err() != io.EOF {
			t.Errorf("Next failed: %v", s.Err())
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Input: %#q\nTokens: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestScanner_withComments(t *testing.T) {
	tests := []struct {
		input string
		want  []jval.Token
		coms  []string
	}{
		{"/* block comment */\n\n\n", []jval.Token{jval.BlockComment},
			[]string{"/* block comment */"}},
		{"// line 1\n\n// line 2\n", []jval.Token{jval.LineComment, jval.LineComment},
			[]string{"// line 1\n", "// line 2\n"}}, // N.B. includes terminating newline, if present
		{"// line at EOF", []jval.Token{jval.LineComment},
			[]string{"// line at EOF"}},
		{`{
 "x": 1, // howdy do
 "y" /* hide me */ : 2.0 }`, []jval.Token{
			jval.LBrace, jval.String, jval.Colon, jval.Number, jval.Comma, jval.LineComment,
			jval.String, jval.BlockComment, jval.Colon, jval.Number, jval.RBrace,
		}, []string{
			"// howdy do\n", "/* hide me */",
		}},

		{`"a" // line
false /*
  this is a comment
*/ 1 null [ {} ]`, []jval.Token{
			jval.String, jval.LineComment, jval.False, jval.BlockComment,
			jval.Number, jval.Null, jval.LSquare, jval.LBrace, jval.RBrace, jval.RSquare,
		}, []string{
			"// line\n", "/*\n  this is a comment\n*/",
		}},

		{"/* x */\n{\n}//foo", []jval.Token{
			jval.BlockComment, jval.LBrace, jval.RBrace, jval.LineComment,
		}, []string{
			"/* x */", "//foo",
		}},

		{"/**\n*/", []jval.Token{jval.BlockComment}, []string{"/**\n*/"}},

		{`/**/"foo"/***/"bar"/****/"baz"/*****/false/*x*/null`, []jval.Token{
			jval.BlockComment, jval.String,
			jval.BlockComment, jval.String,
			jval.BlockComment, jval.String,
			jval.BlockComment, jval.False,
			jval.BlockComment, jval.Null,
		}, []string{
			"/**/", "/***/", "/****/", "/*****/", "/*x*/",
		}},
	}

	for _, test := range tests {
		var got []jval.Token
		var coms []string
		s := jval.NewScanner(strings.NewReader(test.input))
		s.AllowComments(true)
		for s.Next() == nil {
			got = append(got, s.Token())
			if tok := s.Token(); tok == jval.LineComment || tok == jval.BlockComment {
				coms = append(coms, string(s.Text()))
			}
		}
		if s.Err() != io.EOF {
			t.Errorf("Next failed: %v", s.Err())
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Input: %#q\nTokens: (-want, +got)\n%s", test.input, diff)
		}
		if diff := cmp.Diff(test.coms, coms); diff != "" {
			t.Errorf("Input: %#q\nComments: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestScanner_commentErrors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{`/* unterminated`, jval.ErrUnexpectedEOF},
		{`/* almost *`, jval.ErrUnexpectedEOF},
		{`/`, jval.ErrUnexpectedEOF},
		{`/x`, jval.ErrUnexpectedChar},
	}
	for _, test := range tests {
		s := jval.NewScanner(strings.NewReader(test.input))
		s.AllowComments(true)
		var err error
		for {
			if err = s.Next(); err != nil {
				break
			}
		}
		if err == io.EOF {
			t.Errorf("Input: %#q: scan succeeded, want error %v", test.input, test.want)
			continue
		}
		if !errors.Is(err, test.want) {
			t.Errorf("Input: %#q: got error %v, want %v", test.input, err, test.want)
		}
	}
}

func TestScanner_values(t *testing.T) {
	mustScan := func(t *testing.T, input string, want jval.Token) *jval.Scanner {
		t.Helper()
		s := jval.NewScanner(strings.NewReader(input))
		if err := s.Next(); err != nil {
			t.Fatalf("Next failed: %v", err)
		} else if s.Token() != want {
			t.Fatalf("Next token: got %v, want %v", s.Token(), want)
		}
		return s
	}

	t.Run("Number", func(t *testing.T) {
		s := mustScan(t, `-15`, jval.Number)
		if got := s.Float64(); got != -15 {
			t.Errorf("Float64: got %v, want -15", got)
		}
	})
	t.Run("Fraction", func(t *testing.T) {
		s := mustScan(t, `3.25e-5`, jval.Number)
		if got := s.Float64(); got != 3.25e-5 {
			t.Errorf("Float64: got %v, want 3.25e-5", got)
		}
	})
	t.Run("Constants", func(t *testing.T) {
		mustScan(t, `true`, jval.True)
		mustScan(t, `false`, jval.False)
		mustScan(t, `null`, jval.Null)
	})
	t.Run("String", func(t *testing.T) {
		const wantText = `"a\tb c\n"` // as written, with quotes
		const wantDec = "a\tb c\n"         // with escapes undone
		s := mustScan(t, `"a\tb c\n"`, jval.String)
		if got := string(s.Text()); got != wantText {
			t.Errorf("Text: got %#q, want %#q", got, wantText)
		}
		if got := string(s.Unescape()); got != wantDec {
			t.Errorf("Unescape: got %#q, want %#q", got, wantDec)
		}
	})
	t.Run("Surrogates", func(t *testing.T) {
		s := mustScan(t, `"\uD834\uDD1E"`, jval.String)
		if got, want := string(s.Unescape()), "\U0001D11E"; got != want {
			t.Errorf("Unescape: got %#q, want %#q", got, want)
		}
	})
	t.Run("NonNumber", func(t *testing.T) {
		s := mustScan(t, `true`, jval.True)
		if got := s.Float64(); got != 0 {
			t.Errorf("Float64: got %v, want 0", got)
		}
	})
}

func TestScanner_errors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		// Misspelled and truncated constants.
		{`tru`, jval.ErrUnexpectedToken},
		{`truth`, jval.ErrUnexpectedToken},
		{`falsey`, jval.ErrUnexpectedToken},
		{`nul`, jval.ErrUnexpectedToken},

		// Characters that cannot begin any token.
		{`@`, jval.ErrUnexpectedChar},
		{`.5`, jval.ErrUnexpectedChar},
		{`/* comment */`, jval.ErrUnexpectedChar}, // comments not enabled here

		// Malformed numbers.
		{`1.2.3`, jval.ErrInvalidNumber},
		{`1e2e3`, jval.ErrInvalidNumber},
		{`5e`, jval.ErrInvalidNumber},
		{`1e+-2`, jval.ErrInvalidNumber},
		{`-`, jval.ErrInvalidNumber},

		// Truncated strings and escapes.
		{`"abc`, jval.ErrUnexpectedEOF},
		{`"ab\`, jval.ErrUnexpectedEOF},
		{`"\u12`, jval.ErrUnexpectedEOF},

		// Invalid escape sequences.
		{`"\q"`, jval.ErrUnexpectedChar},
		{`"\u12g4"`, jval.ErrUnexpectedChar},

		// Broken surrogate pairs.
		{`"\uD834"`, jval.ErrInvalidEncoding},
		{`"\uD834\n"`, jval.ErrInvalidEncoding},
		{`"\uDC00"`, jval.ErrInvalidEncoding},
		{`"\uDC00\uDC00"`, jval.ErrInvalidEncoding},
	}
	for _, test := range tests {
		s := jval.NewScanner(strings.NewReader(test.input))
		var err error
		for {
			if err = s.Next(); err != nil {
				break
			}
		}
		if err == io.EOF {
			t.Errorf("Input: %#q: scan succeeded, want error %v", test.input, test.want)
			continue
		}
		if !errors.Is(err, test.want) {
			t.Errorf("Input: %#q: got error %v, want %v", test.input, err, test.want)
		}
		var serr *jval.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("Input: %#q: error is not a *jval.SyntaxError: %v", test.input, err)
		}
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", `""`},
		{" ", `" "`},
		{"a\t\nb", `"a\t\nb"`},
		{`a "b c\" d"`, `"a \"b c\\\" d\""`},
		{`\ufffd`, `"\\ufffd"`},
		{"\b\f\n\r\t", `"\b\f\n\r\t"`},

		// Characters without a short escape are passed through verbatim.
		{"péché au chocolat", `"péché au chocolat"`},
		{"\U0001D11E clef", "\"\U0001D11E clef\""},
		{"<\x1e>", "\"<\x1e>\""},
	}
	for _, test := range tests {
		got := jval.Quote(test.input)
		if got != test.want {
			t.Errorf("Input: %#q\nGot:  %#q\nWant: %#q", test.input, got, test.want)
		}
	}
}

func TestScannerLoc(t *testing.T) {
	type tokPos struct {
		Tok jval.Token
		Pos string
	}
	tests := []struct {
		input string
		want  []tokPos
	}{
		{"", nil},
		{"{ }", []tokPos{{jval.LBrace, "1:0-1"}, {jval.RBrace, "1:2-3"}}},
		{`"foo" // bar`, []tokPos{{jval.String, "1:0-5"}, {jval.LineComment, "1:6-12"}}},
		{"/* ok */\ntrue\n false\n", []tokPos{{jval.BlockComment, "1:0-8"}, {jval.True, "2:0-4"}, {jval.False, "3:1-6"}}},
		{"/* abc */", []tokPos{{jval.BlockComment, "1:0-9"}}},
		{"/* ok\n*/\n null", []tokPos{{jval.BlockComment, "1:0-2:2"}, {jval.Null, "3:1-5"}}},
		{"// first\n[1, /*x*/, 2\n]", []tokPos{
			{jval.LineComment, "1:0-2:0"}, {jval.LSquare, "2:0-1"}, {jval.Number, "2:1-2"},
			{jval.Comma, "2:2-3"}, {jval.BlockComment, "2:4-9"}, {jval.Comma, "2:9-10"},
			{jval.Number, "2:11-12"}, {jval.RSquare, "3:0-1"},
		}},
	}
	for _, tc := range tests {
		var got []tokPos
		s := jval.NewScanner(strings.NewReader(tc.input))
		s.AllowComments(true)
		for s.Next() == nil {
			got = append(got, tokPos{s.Token(), s.Location().String()})
		}
		if s.Err() != io.EOF {
			t.Errorf("Next failed: %v", s.Err())
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("Input: %#q\nTokens: (-want, +got)\n%s", tc.input, diff)
		}
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input string
		want  string
		fail  bool
	}{
		{``, ``, true},                          // missing quotes
		{`"missing quote`, ``, true},            // missing quotes
		{`missing quote"`, ``, true},            // missing quotes
		{`""`, ``, false},                       // ok
		{`"ok go"`, "ok go", false},             // ok
		{`"abc\ndef"`, "abc\ndef", false},       // C escapes
		{`"\tabc\n"`, "\tabc\n", false},         // C escapes
		{`"\b\f\n\r\t"`, "\b\f\n\r\t", false},   // C escapes
		{`"a\/b"`, "a/b", false},                // solidus escape
		{`"a \u0026 b"`, "a & b", false},        // short Unicode escape
		{`"\u"`, ``, true},                      // incomplete Unicode escape
		{`"\u00"`, ``, true},                    // incomplete Unicode escape
		{`"\u00x9"`, ``, true},                  // invalid hex digit
		{`"\q"`, ``, true},                      // invalid escape letter
		{`"a\"b"`, `a"b`, false},                // ok
		{`"a\\b\\cd"`, `a\b\cd`, false},         // ok
		{`"\ud834\udd1e"`, "\U0001D11E", false}, // surrogate pair
		{`"\ud834\ud834"`, ``, true},            // misordered surrogates
		{`"\udd1e"`, ``, true},                  // unpaired trailing surrogate
	}

	for _, test := range tests {
		got, err := jval.Unquote([]byte(test.input))
		if err != nil {
			if !test.fail {
				t.Errorf("Unquote(%#q): got %v, want no error", test.input, err)
			} else {
				t.Logf("Unquote(%#q): got expected error: %v", test.input, err)
			}
		} else if err == nil && test.fail {
			t.Errorf("Unquote(%#q): got nil, want error", test.input)
		}
		if cmp := string(got); cmp != test.want {
			t.Errorf("Unquote(%#q): got %#q, want %#q", test.input, cmp, test.want)
		}
	}
}

func TestUnquote_errorKinds(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{`"\u12"`, jval.ErrUnexpectedEOF},
		{`"\u12g4"`, jval.ErrUnexpectedChar},
		{`"\q"`, jval.ErrUnexpectedChar},
		{`"\uD834"`, jval.ErrInvalidEncoding},
		{`"\uD834\uD834"`, jval.ErrInvalidEncoding},
	}
	for _, test := range tests {
		_, err := jval.Unquote([]byte(test.input))
		if !errors.Is(err, test.want) {
			t.Errorf("Unquote(%#q): got error %v, want %v", test.input, err, test.want)
		}
	}
}
